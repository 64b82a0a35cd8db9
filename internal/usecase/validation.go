package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var nonDigits = regexp.MustCompile(`\D`)

func ValidateCaptureLeadInput(input CaptureLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.LeadID) == "" {
		errors = append(errors, ValidationError{"lead_id", "is required"})
	} else if len(input.LeadID) > 50 {
		errors = append(errors, ValidationError{"lead_id", "must not exceed 50 characters"})
	}

	// Everything else is optional; validate only what is present.

	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	if input.DateOfBirth != "" && !isValidDate(input.DateOfBirth) {
		errors = append(errors, ValidationError{"date_of_birth", "must be a valid date (YYYY-MM-DD)"})
	}

	if input.MonthlySalaryMin != nil && *input.MonthlySalaryMin < 0 {
		errors = append(errors, ValidationError{"monthly_salary_min", "must not be negative"})
	}
	if input.MonthlySalaryMax != nil && *input.MonthlySalaryMax < 0 {
		errors = append(errors, ValidationError{"monthly_salary_max", "must not be negative"})
	}
	if input.MonthlySalaryMin != nil && input.MonthlySalaryMax != nil &&
		*input.MonthlySalaryMin > *input.MonthlySalaryMax {
		errors = append(errors, ValidationError{"monthly_salary_min", "must not exceed monthly_salary_max"})
	}

	return errors
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 10 && len(cleaned) <= 15
}

func isValidDate(dateStr string) bool {
	_, err := time.Parse("2006-01-02", dateStr)
	return err == nil
}
