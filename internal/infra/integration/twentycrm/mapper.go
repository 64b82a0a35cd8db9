package twentycrm

import (
	"fmt"
	"strings"

	"github.com/carnance/crm-sync-backend/internal/entity"
)

// ValidationError means the lead cannot be represented in the CRM without
// shipping inconsistent data. The lead is skipped, never half-sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Canadian provinces and territories. A lead whose country_code is actually
// a province code gets folded into "CA".
var provinceToCountry = map[string]string{
	"ON": "CA", "QC": "CA", "BC": "CA", "AB": "CA", "MB": "CA", "SK": "CA",
	"NS": "CA", "NB": "CA", "NL": "CA", "PE": "CA", "YT": "CA", "NT": "CA",
	"NU": "CA",
}

// Canadian area codes, for telling CA apart from US on bare 10-digit numbers.
var canadianAreaCodes = map[string]bool{
	"204": true, "226": true, "236": true, "249": true, "250": true,
	"289": true, "306": true, "343": true, "365": true, "403": true,
	"416": true, "418": true, "431": true, "437": true, "438": true,
	"450": true, "506": true, "514": true, "519": true, "548": true,
	"579": true, "581": true, "587": true, "604": true, "613": true,
	"639": true, "647": true, "672": true, "705": true, "709": true,
	"742": true, "753": true, "778": true, "780": true, "782": true,
	"807": true, "819": true, "825": true, "867": true, "873": true,
	"902": true, "905": true, "942": true,
}

// MapLead converts a Lead into the Twenty person shape. Pure function: no
// I/O, deterministic, safe to call twice.
func MapLead(lead *entity.Lead) (PersonPayload, error) {
	var zero PersonPayload

	if lead.MonthlySalaryMin != nil && lead.MonthlySalaryMax != nil &&
		*lead.MonthlySalaryMin > *lead.MonthlySalaryMax {
		return zero, &ValidationError{
			Field: "monthly_salary",
			Message: fmt.Sprintf("min %.2f is greater than max %.2f",
				*lead.MonthlySalaryMin, *lead.MonthlySalaryMax),
		}
	}

	firstName, lastName := splitName(lead)

	payload := PersonPayload{
		LeadID: lead.LeadID,
		Name: Name{
			FirstName: firstName,
			LastName:  lastName,
		},
		Emails: Emails{
			PrimaryEmail: lead.Email,
		},
		LinkedinLink: Link{SecondaryLinks: []map[string]any{}},
		XLink:        Link{SecondaryLinks: []map[string]any{}},

		// Unknown vehicle/employment values pass through untouched: Twenty
		// accepts free text for these custom fields.
		VehicleType:      lead.VehicleType,
		City:             lead.City,
		EmploymentStatus: lead.EmploymentStatus,
		EmploymentLength: lead.EmploymentLength,
		CompanyName:      lead.CompanyName,
	}

	leadCountry := lead.CountryCode
	if leadCountry == "" {
		leadCountry = lead.Country
	}

	if number, callingCode, countryCode := parsePhone(lead.Phone, leadCountry); number != "" {
		// Digits only: Twenty formats the number itself from the country code.
		payload.Phones = &Phones{
			PrimaryPhoneNumber:      number,
			PrimaryPhoneCallingCode: callingCode,
			PrimaryPhoneCountryCode: countryCode,
			AdditionalPhones:        []map[string]any{},
		}
	}

	return payload, nil
}

// MapLeadTask builds the follow-up task for a synced lead. Task failures are
// tolerated downstream, so this never errors.
func MapLeadTask(lead *entity.Lead, personID string) TaskPayload {
	task := TaskPayload{
		Title:  lead.DisplayName(),
		Status: "BACKLOG",
	}
	if personID != "" {
		task.AssigneeID = personID
		task.PersonID = personID
	}
	return task
}

func splitName(lead *entity.Lead) (first, last string) {
	first = lead.FirstName
	last = lead.LastName

	// Only full_name present: split on the first space.
	if first == "" && last == "" && lead.FullName != "" {
		parts := strings.SplitN(lead.FullName, " ", 2)
		first = parts[0]
		if len(parts) > 1 {
			last = parts[1]
		}
	}

	if first == "" {
		first = "Unknown"
	}
	if last == "" {
		last = "Unknown"
	}
	return first, last
}

// parsePhone normalizes intake phone formats like "(519) 717-4414",
// "+33 06 10 20 30 40" or "06 10 20 30 40" into digits plus calling and
// country codes. Best effort: when in doubt it returns the digits and leaves
// the codes empty.
func parsePhone(phone, countryCode string) (number, callingCode, country string) {
	if phone == "" {
		return "", "", ""
	}

	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	if cc, ok := provinceToCountry[countryCode]; ok {
		countryCode = cc
	}

	clean := strings.TrimSpace(phone)
	digits := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "").Replace(clean)

	if strings.HasPrefix(clean, "+") {
		switch {
		case strings.HasPrefix(digits, "1") && len(digits) == 11: // North America
			country = countryCode
			if country == "" {
				country = "US"
			}
			return digits[1:], "+1", country
		case strings.HasPrefix(digits, "33") && len(digits) >= 10: // France
			number = strings.TrimPrefix(digits[2:], "0")
			return number, "+33", "FR"
		case strings.HasPrefix(digits, "44"): // UK
			number = strings.TrimPrefix(digits[2:], "0")
			return number, "+44", "GB"
		default:
			return digits, "", ""
		}
	}

	// French national format without the +33.
	if strings.HasPrefix(digits, "0") && len(digits) == 10 {
		return digits[1:], "+33", "FR"
	}

	// Bare North American number: use the lead's country, else the area code.
	if len(digits) == 10 && isAllDigits(digits) {
		if countryCode != "" {
			return digits, "+1", countryCode
		}
		if canadianAreaCodes[digits[:3]] {
			return digits, "+1", "CA"
		}
		return digits, "+1", "US"
	}

	return digits, "", ""
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
