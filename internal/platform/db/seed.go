package db

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"kiwihr/internal/domain/auth"
)

// Seed inserts the demo organization, its teams, and one employee record per
// demo account. Inserts are idempotent so restarts are safe.
func Seed(ctx context.Context, pool *pgxpool.Pool, accounts *auth.AccountStore) error {
	if _, err := pool.Exec(ctx, `
    INSERT INTO organizations (id, name, nzbn)
    VALUES ('org1', 'KiwiHR Demo Ltd', '9429000000000')
    ON CONFLICT (id) DO NOTHING
  `); err != nil {
		return err
	}

	teams := []struct{ id, name, leaderID string }{
		{"team1", "Engineering", "u3"},
		{"team2", "Operations", ""},
	}
	for _, team := range teams {
		if _, err := pool.Exec(ctx, `
      INSERT INTO teams (id, organization_id, name, leader_id)
      VALUES ($1, 'org1', $2, NULLIF($3, ''))
      ON CONFLICT (id) DO NOTHING
    `, team.id, team.name, team.leaderID); err != nil {
			return err
		}
	}

	start := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	for _, account := range accounts.All() {
		first, last := splitName(account.Name)
		if _, err := pool.Exec(ctx, `
      INSERT INTO employees (id, user_id, organization_id, team_id, first_name, last_name, email, position, employment_type, start_date, status)
      VALUES ($1, $1, $2, NULLIF($3, ''), $4, $5, $6, $7, 'full_time', $8, 'active')
      ON CONFLICT (id) DO NOTHING
    `, account.ID, account.OrganizationID, account.TeamID, first, last, account.Email, positionForRole(account.Role), start); err != nil {
			return err
		}
	}

	return nil
}

func splitName(full string) (string, string) {
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func positionForRole(role auth.Role) string {
	switch role {
	case auth.RoleSuperAdmin:
		return "Systems Administrator"
	case auth.RoleHRManager:
		return "HR Manager"
	case auth.RoleTeamLeader:
		return "Team Leader"
	case auth.RolePayrollAdmin:
		return "Payroll Administrator"
	case auth.RoleComplianceOfficer:
		return "Compliance Officer"
	default:
		return "Staff Member"
	}
}
