package twentycrm

// Payload shapes for the Twenty CRM REST API (rest/people, rest/tasks).

type Name struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Emails struct {
	PrimaryEmail     string   `json:"primaryEmail"`
	AdditionalEmails []string `json:"additionalEmails"`
}

type Link struct {
	PrimaryLinkLabel string           `json:"primaryLinkLabel"`
	PrimaryLinkURL   string           `json:"primaryLinkUrl"`
	SecondaryLinks   []map[string]any `json:"secondaryLinks"`
}

type Phones struct {
	PrimaryPhoneNumber      string           `json:"primaryPhoneNumber"`
	PrimaryPhoneCallingCode string           `json:"primaryPhoneCallingCode,omitempty"`
	PrimaryPhoneCountryCode string           `json:"primaryPhoneCountryCode,omitempty"`
	AdditionalPhones        []map[string]any `json:"additionalPhones"`
}

// PersonPayload is the record shape for rest/people. leadId doubles as the
// upsert/idempotency key on the CRM side.
type PersonPayload struct {
	LeadID       string  `json:"leadId"`
	Name         Name    `json:"name"`
	Emails       Emails  `json:"emails"`
	LinkedinLink Link    `json:"linkedinLink"`
	XLink        Link    `json:"xLink"`
	Phones       *Phones `json:"phones,omitempty"`

	// Custom fields for the extra lead attributes Twenty knows about.
	VehicleType      string `json:"vehicletype,omitempty"`
	City             string `json:"city,omitempty"`
	EmploymentStatus string `json:"employmentstatus,omitempty"`
	EmploymentLength string `json:"employmentlength,omitempty"`
	CompanyName      string `json:"companyname,omitempty"`
}

// TaskPayload is the follow-up task created after the person upsert.
type TaskPayload struct {
	Title      string `json:"title"`
	Status     string `json:"status"`
	AssigneeID string `json:"assigneeId,omitempty"`
	PersonID   string `json:"personId,omitempty"`
}

// PersonResponse is the (loosely-typed) reply from rest/people. Twenty has
// moved the id around between versions, so keep the raw map too.
type PersonResponse struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"-"`
}

// PersonID digs the person id out of whatever shape the server returned.
func (r *PersonResponse) PersonID() string {
	if r == nil {
		return ""
	}
	if r.ID != "" {
		return r.ID
	}
	for _, key := range []string{"id", "personId"} {
		if v, ok := r.Data[key].(string); ok && v != "" {
			return v
		}
	}
	if data, ok := r.Data["data"].(map[string]any); ok {
		if v, ok := data["id"].(string); ok {
			return v
		}
	}
	return ""
}

type TaskResponse struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"-"`
}
