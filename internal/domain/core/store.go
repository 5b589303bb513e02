package core

import (
	"context"
	"time"

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

func (s *Store) GetOrganization(ctx context.Context, id string) (Organization, error) {
	var org Organization
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(nzbn, ''), created_at
    FROM organizations WHERE id = $1
  `, id).Scan(&org.ID, &org.Name, &org.NZBN, &org.CreatedAt)
	return org, err
}

func (s *Store) UpdateOrganization(ctx context.Context, id, name, nzbn string) error {
	_, err := s.DB.Exec(ctx, "UPDATE organizations SET name = $1, nzbn = NULLIF($2, '') WHERE id = $3", name, nzbn, id)
	return err
}

func (s *Store) ListTeams(ctx context.Context, organizationID string) ([]Team, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, organization_id, name, COALESCE(leader_id, ''), created_at
    FROM teams WHERE organization_id = $1 ORDER BY name
  `, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var team Team
		if err := rows.Scan(&team.ID, &team.OrganizationID, &team.Name, &team.LeaderID, &team.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (s *Store) CreateTeam(ctx context.Context, organizationID, name, leaderID string) (Team, error) {
	team := Team{ID: uuid.NewString(), OrganizationID: organizationID, Name: name, LeaderID: leaderID}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO teams (id, organization_id, name, leader_id)
    VALUES ($1, $2, $3, NULLIF($4, ''))
    RETURNING created_at
  `, team.ID, organizationID, name, leaderID).Scan(&team.CreatedAt)
	return team, err
}

const employeeColumns = `
  id, user_id, organization_id, COALESCE(team_id, ''), first_name, last_name, email,
  position, employment_type, ird_number_enc, bank_account_enc, start_date, end_date, status,
  created_at, updated_at`

func (s *Store) ListEmployees(ctx context.Context, organizationID string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+employeeColumns+` FROM employees WHERE organization_id = $1 ORDER BY last_name, first_name`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := s.scanEmployee(rows.Scan)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	return s.scanEmployee(row.Scan)
}

func (s *Store) GetEmployeeByUserID(ctx context.Context, userID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE user_id = $1`, userID)
	return s.scanEmployee(row.Scan)
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) (Employee, error) {
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	if emp.UserID == "" {
		emp.UserID = emp.ID
	}
	if emp.Status == "" {
		emp.Status = "active"
	}
	irdEnc, err := s.Crypto.EncryptString(emp.IRDNumber)
	if err != nil {
		return Employee{}, err
	}
	bankEnc, err := s.Crypto.EncryptString(emp.BankAccount)
	if err != nil {
		return Employee{}, err
	}
	err = s.DB.QueryRow(ctx, `
    INSERT INTO employees (id, user_id, organization_id, team_id, first_name, last_name, email, position, employment_type, ird_number_enc, bank_account_enc, start_date, status)
    VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13)
    RETURNING created_at, updated_at
  `, emp.ID, emp.UserID, emp.OrganizationID, emp.TeamID, emp.FirstName, emp.LastName, emp.Email, emp.Position, emp.EmploymentType, irdEnc, bankEnc, emp.StartDate, emp.Status).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	return emp, err
}

func (s *Store) UpdateEmployee(ctx context.Context, emp Employee) error {
	irdEnc, err := s.Crypto.EncryptString(emp.IRDNumber)
	if err != nil {
		return err
	}
	bankEnc, err := s.Crypto.EncryptString(emp.BankAccount)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    UPDATE employees
    SET team_id = NULLIF($1, ''), first_name = $2, last_name = $3, email = $4, position = $5,
        employment_type = $6, ird_number_enc = $7, bank_account_enc = $8, end_date = $9,
        status = $10, updated_at = now()
    WHERE id = $11
  `, emp.TeamID, emp.FirstName, emp.LastName, emp.Email, emp.Position, emp.EmploymentType, irdEnc, bankEnc, emp.EndDate, emp.Status, emp.ID)
	return err
}

func (s *Store) CountEmployees(ctx context.Context, organizationID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE organization_id = $1 AND status = 'active'", organizationID).Scan(&count)
	return count, err
}

func (s *Store) scanEmployee(scan func(...any) error) (Employee, error) {
	var emp Employee
	var irdEnc, bankEnc []byte
	var start, end *time.Time
	if err := scan(&emp.ID, &emp.UserID, &emp.OrganizationID, &emp.TeamID, &emp.FirstName, &emp.LastName, &emp.Email,
		&emp.Position, &emp.EmploymentType, &irdEnc, &bankEnc, &start, &end, &emp.Status,
		&emp.CreatedAt, &emp.UpdatedAt); err != nil {
		return Employee{}, err
	}
	emp.StartDate = start
	emp.EndDate = end

	ird, err := s.Crypto.DecryptString(irdEnc)
	if err != nil {
		return Employee{}, err
	}
	bank, err := s.Crypto.DecryptString(bankEnc)
	if err != nil {
		return Employee{}, err
	}
	emp.IRDNumber = ird
	emp.BankAccount = bank
	return emp, nil
}
