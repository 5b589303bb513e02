package leave

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const requestColumns = `
  id, employee_id, organization_id, COALESCE(team_id, ''), leave_type, start_date, end_date,
  days, COALESCE(reason, ''), status, COALESCE(decided_by, ''), created_at, updated_at`

func (s *Store) Create(ctx context.Context, req Request) (Request, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = StatusPending
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (id, employee_id, organization_id, team_id, leave_type, start_date, end_date, days, reason, status)
    VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, NULLIF($9, ''), $10)
    RETURNING created_at, updated_at
  `, req.ID, req.EmployeeID, req.OrganizationID, req.TeamID, req.Type, req.StartDate, req.EndDate, req.Days, req.Reason, req.Status).Scan(&req.CreatedAt, &req.UpdatedAt)
	return req, err
}

func (s *Store) Get(ctx context.Context, id string) (Request, error) {
	var req Request
	err := s.DB.QueryRow(ctx, `SELECT `+requestColumns+` FROM leave_requests WHERE id = $1`, id).Scan(
		&req.ID, &req.EmployeeID, &req.OrganizationID, &req.TeamID, &req.Type, &req.StartDate, &req.EndDate,
		&req.Days, &req.Reason, &req.Status, &req.DecidedBy, &req.CreatedAt, &req.UpdatedAt)
	return req, err
}

func (s *Store) ListByOrganization(ctx context.Context, organizationID string) ([]Request, error) {
	return s.list(ctx, `SELECT `+requestColumns+` FROM leave_requests WHERE organization_id = $1 ORDER BY created_at DESC`, organizationID)
}

func (s *Store) ListByTeam(ctx context.Context, teamID string) ([]Request, error) {
	return s.list(ctx, `SELECT `+requestColumns+` FROM leave_requests WHERE team_id = $1 ORDER BY created_at DESC`, teamID)
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Request, error) {
	return s.list(ctx, `SELECT `+requestColumns+` FROM leave_requests WHERE employee_id = $1 ORDER BY created_at DESC`, employeeID)
}

// ErrNotPending reports a decision against a request that already left the
// pending state. The update is conditional, so a lost race surfaces here
// rather than overwriting the earlier decision.
var ErrNotPending = errors.New("leave request is not pending")

func (s *Store) Decide(ctx context.Context, id, status, decidedBy string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests SET status = $1, decided_by = $2, updated_at = now()
    WHERE id = $3 AND status = $4
  `, status, decidedBy, id, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotPending
	}
	return nil
}

func (s *Store) CountPending(ctx context.Context, organizationID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leave_requests WHERE organization_id = $1 AND status = $2", organizationID, StatusPending).Scan(&count)
	return count, err
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Request, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.EmployeeID, &req.OrganizationID, &req.TeamID, &req.Type, &req.StartDate,
			&req.EndDate, &req.Days, &req.Reason, &req.Status, &req.DecidedBy, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
