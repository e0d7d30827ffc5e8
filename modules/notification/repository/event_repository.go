package repository

import (
	"context"

	"hangout-api/core/database"
	"hangout-api/core/logger"
	"hangout-api/modules/notification/entity"
)

// EventRepository handles the hangout event feed.
type EventRepository struct{}

func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

// EventRepositoryInterface defines the repository contract.
type EventRepositoryInterface interface {
	Insert(ctx context.Context, q database.Queryer, e *entity.HangoutEvent) error
	ListByHangout(ctx context.Context, q database.Queryer, hangoutID string, limit int) ([]entity.HangoutEvent, error)
}

func (r *EventRepository) Insert(ctx context.Context, q database.Queryer, e *entity.HangoutEvent) error {
	query := `
		INSERT INTO hangout_events (id, hangout_id, kind, actor_member_id, payload)
		VALUES ($1, $2, $3, $4, $5)
	`
	err := database.ExecAffecting(ctx, q, 1, query, e.ID, e.HangoutID, e.Kind, e.ActorMemberID, e.Payload)
	if err != nil {
		logger.Error("EventRepository:Insert", err)
		return err
	}
	return nil
}

// ListByHangout returns the newest events first, capped at limit.
func (r *EventRepository) ListByHangout(ctx context.Context, q database.Queryer, hangoutID string, limit int) ([]entity.HangoutEvent, error) {
	query := `
		SELECT id, hangout_id, kind, actor_member_id, payload, created_at
		FROM hangout_events
		WHERE hangout_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	var events []entity.HangoutEvent
	err := q.SelectContext(ctx, &events, query, hangoutID, limit)
	if err != nil {
		logger.Error("EventRepository:ListByHangout", err)
		return nil, err
	}
	return events, nil
}
