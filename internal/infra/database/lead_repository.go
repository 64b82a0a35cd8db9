package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"

	"github.com/carnance/crm-sync-backend/internal/entity"
)

// MaxPageSize is the hard cap for FindAll. Matches the API's limit validation.
const MaxPageSize = 1000

const leadColumns = `
	id, lead_id,
	COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(full_name, ''),
	COALESCE(email, ''), COALESCE(phone, ''), date_of_birth,
	COALESCE(address_line1, ''), COALESCE(address_line2, ''),
	COALESCE(city, ''), COALESCE(state_province, ''), COALESCE(postal_code, ''),
	COALESCE(country, ''), COALESCE(country_code, ''),
	COALESCE(vehicle_type, ''), COALESCE(current_credit, ''),
	COALESCE(employment_status, ''), COALESCE(job_title, ''), COALESCE(company_name, ''),
	monthly_salary_min, monthly_salary_max,
	COALESCE(employment_length, ''), COALESCE(length_at_company, ''),
	COALESCE(length_at_home_address, ''),
	created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) FindAll(ctx context.Context, skip, limit int) ([]*entity.Lead, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}

	query := fmt.Sprintf(`SELECT %s FROM leads ORDER BY id OFFSET $1 LIMIT $2`, leadColumns)

	rows, err := r.DB.QueryContext(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lead row: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leads: %w", err)
	}

	return leads, nil
}

func (r *LeadRepository) FindByLeadID(ctx context.Context, leadID string) (*entity.Lead, error) {
	// Exact match, case sensitive. lead_id is the external business key.
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE lead_id = $1`, leadColumns)

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, leadID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching lead %s: %w", leadID, err)
	}

	return lead, nil
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			lead_id, first_name, last_name, full_name, email, phone, date_of_birth,
			address_line1, address_line2, city, state_province, postal_code, country, country_code,
			vehicle_type, current_credit,
			employment_status, job_title, company_name,
			monthly_salary_min, monthly_salary_max, employment_length, length_at_company,
			length_at_home_address,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		lead.LeadID,
		nullString(lead.FirstName),
		nullString(lead.LastName),
		nullString(lead.FullName),
		nullString(lead.Email),
		nullString(lead.Phone),
		lead.DateOfBirth,
		nullString(lead.AddressLine1),
		nullString(lead.AddressLine2),
		nullString(lead.City),
		nullString(lead.StateProvince),
		nullString(lead.PostalCode),
		nullString(lead.Country),
		nullString(lead.CountryCode),
		nullString(lead.VehicleType),
		nullString(lead.CurrentCredit),
		nullString(lead.EmploymentStatus),
		nullString(lead.JobTitle),
		nullString(lead.CompanyName),
		lead.MonthlySalaryMin,
		lead.MonthlySalaryMax,
		nullString(lead.EmploymentLength),
		nullString(lead.LengthAtCompany),
		nullString(lead.LengthAtHomeAddress),
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrDuplicateLeadID
		}

		log.Printf("❌ database: insert lead failed: %v", err)
		return fmt.Errorf("inserting lead: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	err := row.Scan(
		&lead.ID, &lead.LeadID,
		&lead.FirstName, &lead.LastName, &lead.FullName,
		&lead.Email, &lead.Phone, &lead.DateOfBirth,
		&lead.AddressLine1, &lead.AddressLine2,
		&lead.City, &lead.StateProvince, &lead.PostalCode,
		&lead.Country, &lead.CountryCode,
		&lead.VehicleType, &lead.CurrentCredit,
		&lead.EmploymentStatus, &lead.JobTitle, &lead.CompanyName,
		&lead.MonthlySalaryMin, &lead.MonthlySalaryMax,
		&lead.EmploymentLength, &lead.LengthAtCompany,
		&lead.LengthAtHomeAddress,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
