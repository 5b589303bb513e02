package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"kiwihr/internal/domain/auth"
)

const (
	DecisionAllowed = "allowed"
	DecisionDenied  = "denied"
)

// Event is one access-log entry. The authorization evaluator itself never
// logs; callers record the outcome of scoped actions here.
type Event struct {
	ID             int64     `json:"id"`
	ActorID        string    `json:"actorId"`
	ActorRole      string    `json:"actorRole"`
	Action         string    `json:"action"`
	Decision       string    `json:"decision"`
	EntityType     string    `json:"entityType"`
	EntityID       string    `json:"entityId"`
	OrganizationID string    `json:"organizationId,omitempty"`
	TeamID         string    `json:"teamId,omitempty"`
	RequestID      string    `json:"requestId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, actor *auth.Identity, action, decision, entityType, entityID, requestID string, scope auth.ResourceScope) error {
	actorID, actorRole := "", ""
	if actor != nil {
		actorID = actor.ID
		actorRole = string(actor.Role)
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_id, actor_role, action, decision, entity_type, entity_id, organization_id, team_id, request_id)
    VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''))
  `, actorID, actorRole, action, decision, entityType, entityID, scope.OrganizationID, scope.TeamID, requestID)
	return err
}

func (s *Service) List(ctx context.Context, organizationID string, limit, offset int) ([]Event, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, actor_id, actor_role, action, decision, entity_type, entity_id,
           COALESCE(organization_id, ''), COALESCE(team_id, ''), COALESCE(request_id, ''), created_at
    FROM audit_events
    WHERE organization_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, organizationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.ID, &event.ActorID, &event.ActorRole, &event.Action, &event.Decision,
			&event.EntityType, &event.EntityID, &event.OrganizationID, &event.TeamID, &event.RequestID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
