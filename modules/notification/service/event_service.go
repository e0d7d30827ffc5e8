package service

import (
	"context"
	"encoding/json"

	"hangout-api/core/database"
	"hangout-api/core/errors"
	"hangout-api/core/logger"
	"hangout-api/core/tasks"
	hangoutEntity "hangout-api/modules/hangout/entity"
	"hangout-api/modules/notification/dto"
	"hangout-api/modules/notification/entity"
	"hangout-api/modules/notification/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 200
)

// MemberChecker is the slice of the member repository the feed gate needs.
type MemberChecker interface {
	IsMember(ctx context.Context, q database.Queryer, hangoutID string, owner hangoutEntity.Owner) (bool, error)
}

// EventService records committed hangout changes and fans them out: an
// append-only feed row, a redis publish for live subscribers, and a push task
// for absent members. Everything here is best-effort; a failed fan-out is
// logged, never surfaced to the operation that triggered it.
type EventService struct {
	pool    database.Queryer
	events  repository.EventRepositoryInterface
	members MemberChecker
	rdb     *redis.Client
	tasks   *tasks.Client
}

func NewEventService(
	pool database.Queryer,
	events repository.EventRepositoryInterface,
	members MemberChecker,
	rdb *redis.Client,
	tc *tasks.Client,
) *EventService {
	return &EventService{pool: pool, events: events, members: members, rdb: rdb, tasks: tc}
}

// Channel is the redis pub/sub channel carrying a hangout's live events.
func Channel(hangoutID string) string {
	return "hangout:" + hangoutID + ":events"
}

// Publish records a committed change. Called after the owning transaction
// commits.
func (s *EventService) Publish(ctx context.Context, hangoutID, kind string, actorMemberID *uuid.UUID, payload map[string]any) {
	event := &entity.HangoutEvent{
		ID:            uuid.New(),
		HangoutID:     hangoutID,
		Kind:          kind,
		ActorMemberID: actorMemberID,
		Payload:       entity.JSONB(payload),
	}
	if err := s.events.Insert(ctx, s.pool, event); err != nil {
		logger.Error("EventService:Publish:Insert", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.Error("EventService:Publish:Marshal", err)
		return
	}
	if s.rdb != nil {
		if err := s.rdb.Publish(ctx, Channel(hangoutID), body).Err(); err != nil {
			logger.Error("EventService:Publish:Redis", err)
		}
	}
	if s.tasks != nil {
		s.tasks.EnqueuePush(hangoutID, kind, body)
	}
}

// List returns the hangout's recent events, newest first. Members only.
func (s *EventService) List(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, limit int) ([]dto.EventResponse, *errors.AppError) {
	ok, err := s.members.IsMember(ctx, s.pool, hangoutID, owner)
	if err != nil {
		return nil, errors.From(err)
	}
	if !ok {
		return nil, errors.NewAppError(errors.ErrNotMember, "you are not a member of this hangout", nil)
	}

	if limit <= 0 {
		limit = defaultFeedLimit
	} else if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	events, err := s.events.ListByHangout(ctx, s.pool, hangoutID, limit)
	if err != nil {
		return nil, errors.From(err)
	}
	return dto.ToEventResponses(events), nil
}

// DeliverPush handles a queued push task. There is no external push provider
// wired; delivery is a structured log line the operator can ship elsewhere.
func (s *EventService) DeliverPush(ctx context.Context, p *tasks.PushPayload) error {
	logger.Info("EventService:DeliverPush",
		"hangout_id", p.HangoutID,
		"kind", p.Kind,
	)
	return nil
}
