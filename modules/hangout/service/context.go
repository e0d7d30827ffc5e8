package service

import (
	"context"
	"time"

	"hangout-api/core/constants"
	"hangout-api/core/database"
	"hangout-api/core/errors"
	"hangout-api/core/interval"
	"hangout-api/modules/hangout/entity"

	"github.com/google/uuid"
)

// HangoutContext is the per-request snapshot every mutation starts from: the
// locked hangout row, the caller's membership, the transaction clock and the
// derived conclusion timestamp. Client-supplied stage or timestamps are never
// trusted.
type HangoutContext struct {
	Hangout    *entity.Hangout
	Member     *entity.Member
	Now        time.Time
	Conclusion time.Time
}

// EventSink receives committed changes for live fan-out. Called only after a
// transaction commits; failures are the sink's problem, never the caller's.
type EventSink interface {
	Publish(ctx context.Context, hangoutID, kind string, actorMemberID *uuid.UUID, payload map[string]any)
}

// TaskEnqueuer hands best-effort follow-up work to the background queue.
type TaskEnqueuer interface {
	EnqueueStalePrune(hangoutID string)
}

// ContextLoader is the shared load-hangout-context step consumed by every
// engine operation, replacing per-operation copies of the same reads.
type ContextLoader struct {
	hangouts HangoutRepoForContext
	members  MemberRepoForContext
}

// HangoutRepoForContext is the slice of the hangout repository the loader needs.
type HangoutRepoForContext interface {
	GetByIDForUpdate(ctx context.Context, q database.Queryer, id string) (*entity.Hangout, error)
	GetByID(ctx context.Context, q database.Queryer, id string) (*entity.Hangout, error)
}

// MemberRepoForContext is the slice of the member repository the loader needs.
type MemberRepoForContext interface {
	GetByHangoutAndOwner(ctx context.Context, q database.Queryer, hangoutID string, owner entity.Owner) (*entity.Member, error)
}

func NewContextLoader(hangouts HangoutRepoForContext, members MemberRepoForContext) *ContextLoader {
	return &ContextLoader{hangouts: hangouts, members: members}
}

// Load reads the hangout (locked when forUpdate) and the caller's membership,
// and derives now + conclusion from the database clock.
func (l *ContextLoader) Load(ctx context.Context, q database.Queryer, hangoutID string, owner entity.Owner, forUpdate bool) (*HangoutContext, *errors.AppError) {
	var (
		h   *entity.Hangout
		err error
	)
	if forUpdate {
		h, err = l.hangouts.GetByIDForUpdate(ctx, q, hangoutID)
	} else {
		h, err = l.hangouts.GetByID(ctx, q, hangoutID)
	}
	if err != nil {
		return nil, errors.From(err)
	}
	if h == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "hangout not found", nil)
	}

	m, err := l.members.GetByHangoutAndOwner(ctx, q, hangoutID, owner)
	if err != nil {
		return nil, errors.From(err)
	}
	if m == nil {
		return nil, errors.NewAppError(errors.ErrNotMember, "you are not a member of this hangout", nil)
	}

	now, err := database.Now(ctx, q)
	if err != nil {
		return nil, errors.From(err)
	}

	return &HangoutContext{
		Hangout:    h,
		Member:     m,
		Now:        now,
		Conclusion: ConclusionTime(h.CreatedAt, h.Periods()),
	}, nil
}

// RequireStage rejects the operation unless the hangout sits in the required
// stage. Concluded hangouts are always rejected.
func (hc *HangoutContext) RequireStage(required entity.Stage) *errors.AppError {
	if hc.Hangout.IsConcluded || hc.Hangout.CurrentStage == entity.StageConcluded {
		return errors.NewAppError(errors.ErrHangoutConcluded, "hangout already concluded", nil)
	}
	if hc.Hangout.CurrentStage != required {
		return StageMismatch(hc.Hangout.CurrentStage, required)
	}
	return nil
}

// RequireLeader rejects the operation unless the caller leads the hangout.
func (hc *HangoutContext) RequireLeader() *errors.AppError {
	if !hc.Member.IsLeader {
		return errors.NewAppError(errors.ErrNotLeader, "only the hangout leader can do this", nil)
	}
	return nil
}

// ValidateSubmissionSpan checks a submitted interval's shape and window:
// length within [1h,24h] and start within [conclusion, conclusion+6 months].
func ValidateSubmissionSpan(span interval.Span, conclusion time.Time) *errors.AppError {
	length := span.Duration()
	if length < constants.MinIntervalLength || length > constants.MaxIntervalLength {
		return errors.NewAppError(errors.ErrIntervalLength,
			"interval must last between 1 and 24 hours", nil)
	}
	if !interval.WithinFutureWindow(conclusion, span.Start, constants.MaxMonthsAhead) {
		return errors.NewAppError(errors.ErrIntervalOutOfWindow,
			"interval must start between the hangout's conclusion and 6 months after it", nil)
	}
	return nil
}
