package payroll

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	cryptoutil "kiwihr/internal/platform/crypto"
)

type Store struct {
	DB     *pgxpool.Pool
	Crypto *cryptoutil.Service
}

func NewStore(db *pgxpool.Pool, crypto *cryptoutil.Service) *Store {
	return &Store{DB: db, Crypto: crypto}
}

func (s *Store) Upsert(ctx context.Context, profile Profile) (Profile, error) {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	salaryEnc, err := s.Crypto.EncryptString(strconv.FormatFloat(profile.Salary, 'f', 2, 64))
	if err != nil {
		return Profile{}, err
	}
	err = s.DB.QueryRow(ctx, `
    INSERT INTO payroll_profiles (id, employee_id, organization_id, pay_cycle, salary_enc, tax_code, kiwisaver_rate)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    ON CONFLICT (employee_id) DO UPDATE
    SET pay_cycle = EXCLUDED.pay_cycle, salary_enc = EXCLUDED.salary_enc,
        tax_code = EXCLUDED.tax_code, kiwisaver_rate = EXCLUDED.kiwisaver_rate, updated_at = now()
    RETURNING id, created_at, updated_at
  `, profile.ID, profile.EmployeeID, profile.OrganizationID, profile.PayCycle, salaryEnc, profile.TaxCode, profile.KiwiSaverRate).
		Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	return profile, err
}

func (s *Store) GetByEmployee(ctx context.Context, employeeID string) (Profile, error) {
	var profile Profile
	var salaryEnc []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, organization_id, pay_cycle, salary_enc, tax_code, kiwisaver_rate, created_at, updated_at
    FROM payroll_profiles WHERE employee_id = $1
  `, employeeID).Scan(&profile.ID, &profile.EmployeeID, &profile.OrganizationID, &profile.PayCycle, &salaryEnc,
		&profile.TaxCode, &profile.KiwiSaverRate, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return Profile{}, err
	}
	if err := s.decodeSalary(&profile, salaryEnc); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (s *Store) ListByOrganization(ctx context.Context, organizationID string) ([]Profile, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, organization_id, pay_cycle, salary_enc, tax_code, kiwisaver_rate, created_at, updated_at
    FROM payroll_profiles WHERE organization_id = $1 ORDER BY created_at
  `, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var profile Profile
		var salaryEnc []byte
		if err := rows.Scan(&profile.ID, &profile.EmployeeID, &profile.OrganizationID, &profile.PayCycle, &salaryEnc,
			&profile.TaxCode, &profile.KiwiSaverRate, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
			return nil, err
		}
		if err := s.decodeSalary(&profile, salaryEnc); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func (s *Store) decodeSalary(profile *Profile, salaryEnc []byte) error {
	raw, err := s.Crypto.DecryptString(salaryEnc)
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	salary, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	profile.Salary = salary
	return nil
}
