package entity

// SalesAgent is one member of the configured roster a lead can be routed to.
type SalesAgent struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Specialization     string   `json:"specialization,omitempty"`
	Expertise          string   `json:"expertise,omitempty"`
	ExperienceYears    int      `json:"experience_years,omitempty"`
	Location           string   `json:"location,omitempty"`
	Territory          string   `json:"territory,omitempty"`
	CurrentWorkload    int      `json:"current_workload,omitempty"`
	SuccessRate        int      `json:"success_rate,omitempty"`
	VehicleTypes       []string `json:"vehicle_types,omitempty"`
	CommunicationStyle string   `json:"communication_style,omitempty"`
}
