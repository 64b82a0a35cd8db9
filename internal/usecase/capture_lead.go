package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/carnance/crm-sync-backend/internal/entity"
)

type CaptureLeadInput struct {
	LeadID              string   `json:"lead_id"`
	FirstName           string   `json:"first_name,omitempty"`
	LastName            string   `json:"last_name,omitempty"`
	FullName            string   `json:"full_name,omitempty"`
	Email               string   `json:"email,omitempty"`
	Phone               string   `json:"phone,omitempty"`
	DateOfBirth         string   `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	AddressLine1        string   `json:"address_line1,omitempty"`
	AddressLine2        string   `json:"address_line2,omitempty"`
	City                string   `json:"city,omitempty"`
	StateProvince       string   `json:"state_province,omitempty"`
	PostalCode          string   `json:"postal_code,omitempty"`
	Country             string   `json:"country,omitempty"`
	CountryCode         string   `json:"country_code,omitempty"`
	VehicleType         string   `json:"vehicle_type,omitempty"`
	CurrentCredit       string   `json:"current_credit,omitempty"`
	EmploymentStatus    string   `json:"employment_status,omitempty"`
	JobTitle            string   `json:"job_title,omitempty"`
	CompanyName         string   `json:"company_name,omitempty"`
	MonthlySalaryMin    *float64 `json:"monthly_salary_min,omitempty"`
	MonthlySalaryMax    *float64 `json:"monthly_salary_max,omitempty"`
	EmploymentLength    string   `json:"employment_length,omitempty"`
	LengthAtCompany     string   `json:"length_at_company,omitempty"`
	LengthAtHomeAddress string   `json:"length_at_home_address,omitempty"`
}

type CaptureLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewCaptureLeadUseCase(repo entity.LeadRepositoryInterface) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{Repo: repo}
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*entity.Lead, error) {
	validationErrors := ValidateCaptureLeadInput(input)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for _, e := range validationErrors {
			errMsg += e.Field + " (" + e.Message + "), "
		}
		return nil, &DomainError{
			Code:    CodeValidationError,
			Message: errMsg,
		}
	}

	lead := &entity.Lead{
		LeadID:              input.LeadID,
		FirstName:           input.FirstName,
		LastName:            input.LastName,
		FullName:            input.FullName,
		Email:               input.Email,
		Phone:               input.Phone,
		AddressLine1:        input.AddressLine1,
		AddressLine2:        input.AddressLine2,
		City:                input.City,
		StateProvince:       input.StateProvince,
		PostalCode:          input.PostalCode,
		Country:             input.Country,
		CountryCode:         input.CountryCode,
		VehicleType:         input.VehicleType,
		CurrentCredit:       input.CurrentCredit,
		EmploymentStatus:    input.EmploymentStatus,
		JobTitle:            input.JobTitle,
		CompanyName:         input.CompanyName,
		MonthlySalaryMin:    input.MonthlySalaryMin,
		MonthlySalaryMax:    input.MonthlySalaryMax,
		EmploymentLength:    input.EmploymentLength,
		LengthAtCompany:     input.LengthAtCompany,
		LengthAtHomeAddress: input.LengthAtHomeAddress,
	}

	if input.DateOfBirth != "" {
		// Already validated, the parse cannot fail here.
		dob, _ := time.Parse("2006-01-02", input.DateOfBirth)
		lead.DateOfBirth = &dob
	}

	if err := uc.Repo.Create(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrDuplicateLeadID) {
			return nil, &DomainError{
				Code:    CodeDuplicateLead,
				Message: "lead_id '" + input.LeadID + "' already exists",
			}
		}
		return nil, &TechnicalError{
			Code:    CodeStoreError,
			Message: "storing lead: " + err.Error(),
		}
	}

	return lead, nil
}
