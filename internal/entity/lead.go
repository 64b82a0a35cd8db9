package entity

import (
	"context"
	"errors"
	"time"
	// IMPORTANT: do not import usecase or infra packages here!
)

var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrDuplicateLeadID = errors.New("lead_id already exists")
)

// Lead is one prospective customer captured from the intake form.
// lead_id is the external business key; ID is the surrogate key and
// never leaves the database layer's responses to the CRM.
type Lead struct {
	ID     int64  `json:"id"`
	LeadID string `json:"lead_id"`

	// Personal
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	FullName    string     `json:"full_name,omitempty"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`

	// Address
	AddressLine1  string `json:"address_line1,omitempty"`
	AddressLine2  string `json:"address_line2,omitempty"`
	City          string `json:"city,omitempty"`
	StateProvince string `json:"state_province,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	Country       string `json:"country,omitempty"`
	CountryCode   string `json:"country_code,omitempty"` // e.g. "ON" for Ontario

	// Vehicle interest
	VehicleType string `json:"vehicle_type,omitempty"`

	// Financial
	CurrentCredit string `json:"current_credit,omitempty"`

	// Employment
	EmploymentStatus string   `json:"employment_status,omitempty"`
	JobTitle         string   `json:"job_title,omitempty"`
	CompanyName      string   `json:"company_name,omitempty"`
	MonthlySalaryMin *float64 `json:"monthly_salary_min,omitempty"`
	MonthlySalaryMax *float64 `json:"monthly_salary_max,omitempty"`
	EmploymentLength string   `json:"employment_length,omitempty"`
	LengthAtCompany  string   `json:"length_at_company,omitempty"`

	// Residency
	LengthAtHomeAddress string `json:"length_at_home_address,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName is what we show in logs and CRM task titles.
func (l *Lead) DisplayName() string {
	switch {
	case l.FullName != "":
		return l.FullName
	case l.FirstName != "" && l.LastName != "":
		return l.FirstName + " " + l.LastName
	case l.FirstName != "":
		return l.FirstName
	case l.LastName != "":
		return l.LastName
	case l.Email != "":
		return l.Email
	default:
		return l.LeadID
	}
}

type LeadRepositoryInterface interface {
	// FindAll returns leads in primary-key order. limit is capped by the
	// repository; skip/limit outside that range are the caller's problem.
	FindAll(ctx context.Context, skip, limit int) ([]*Lead, error)

	// FindByLeadID does an exact, case-sensitive lookup on the business key.
	// Returns ErrLeadNotFound when the lead does not exist.
	FindByLeadID(ctx context.Context, leadID string) (*Lead, error)

	// Create inserts a new lead. Returns ErrDuplicateLeadID on a lead_id
	// collision instead of overwriting.
	Create(ctx context.Context, lead *Lead) error
}
