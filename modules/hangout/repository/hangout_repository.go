package repository

import (
	"context"
	"database/sql"
	"time"

	"hangout-api/core/database"
	"hangout-api/core/logger"
	"hangout-api/modules/hangout/entity"
)

// HangoutRepository handles hangout row persistence. Methods take a Queryer
// so they run identically against the pool and inside a transaction.
type HangoutRepository struct{}

func NewHangoutRepository() *HangoutRepository {
	return &HangoutRepository{}
}

// HangoutRepositoryInterface defines the repository contract.
type HangoutRepositoryInterface interface {
	Insert(ctx context.Context, q database.Queryer, h *entity.Hangout) error
	GetByID(ctx context.Context, q database.Queryer, id string) (*entity.Hangout, error)
	GetByIDForUpdate(ctx context.Context, q database.Queryer, id string) (*entity.Hangout, error)
	ListByOwner(ctx context.Context, q database.Queryer, owner entity.Owner) ([]entity.Hangout, error)
	UpdatePeriods(ctx context.Context, q database.Queryer, id string, periods [3]int64) error
	UpdateStage(ctx context.Context, q database.Queryer, h *entity.Hangout) error
	Delete(ctx context.Context, q database.Queryer, id string) error
	ListOverdueIDs(ctx context.Context, q database.Queryer, now time.Time) ([]string, error)
}

const hangoutColumns = `id, slug, title, password_cipher, member_limit,
	availability_period_ms, suggestions_period_ms, voting_period_ms,
	current_stage, stage_control_at, created_at, is_concluded`

func (r *HangoutRepository) Insert(ctx context.Context, q database.Queryer, h *entity.Hangout) error {
	query := `
		INSERT INTO hangouts (id, slug, title, password_cipher, member_limit,
			availability_period_ms, suggestions_period_ms, voting_period_ms,
			current_stage, stage_control_at, created_at, is_concluded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	err := database.ExecAffecting(ctx, q, 1, query,
		h.ID, h.Slug, h.Title, h.PasswordCipher, h.MemberLimit,
		h.AvailabilityPeriodMs, h.SuggestionsPeriodMs, h.VotingPeriodMs,
		h.CurrentStage, h.StageControlAt, h.CreatedAt, h.IsConcluded)
	if err != nil {
		logger.Error("HangoutRepository:Insert", err)
		return err
	}
	return nil
}

func (r *HangoutRepository) GetByID(ctx context.Context, q database.Queryer, id string) (*entity.Hangout, error) {
	query := `SELECT ` + hangoutColumns + ` FROM hangouts WHERE id = $1`

	var h entity.Hangout
	err := q.GetContext(ctx, &h, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("HangoutRepository:GetByID", err)
		return nil, err
	}
	return &h, nil
}

// GetByIDForUpdate locks the hangout row for the remainder of the
// transaction. Every mutation path starts here.
func (r *HangoutRepository) GetByIDForUpdate(ctx context.Context, q database.Queryer, id string) (*entity.Hangout, error) {
	query := `SELECT ` + hangoutColumns + ` FROM hangouts WHERE id = $1 FOR UPDATE`

	var h entity.Hangout
	err := q.GetContext(ctx, &h, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("HangoutRepository:GetByIDForUpdate", err)
		return nil, err
	}
	return &h, nil
}

func (r *HangoutRepository) ListByOwner(ctx context.Context, q database.Queryer, owner entity.Owner) ([]entity.Hangout, error) {
	query := `
		SELECT h.id, h.slug, h.title, h.password_cipher, h.member_limit,
		       h.availability_period_ms, h.suggestions_period_ms, h.voting_period_ms,
		       h.current_stage, h.stage_control_at, h.created_at, h.is_concluded
		FROM hangouts h
		JOIN hangout_members m ON m.hangout_id = h.id
		WHERE ($1 = 'account' AND m.account_id = $2)
		   OR ($1 = 'guest' AND m.guest_id = $2)
		ORDER BY h.created_at DESC
	`
	var hangouts []entity.Hangout
	err := q.SelectContext(ctx, &hangouts, query, string(owner.Kind), owner.ID)
	if err != nil {
		logger.Error("HangoutRepository:ListByOwner", err)
		return nil, err
	}
	return hangouts, nil
}

func (r *HangoutRepository) UpdatePeriods(ctx context.Context, q database.Queryer, id string, periods [3]int64) error {
	query := `
		UPDATE hangouts
		SET availability_period_ms = $2, suggestions_period_ms = $3, voting_period_ms = $4
		WHERE id = $1
	`
	err := database.ExecAffecting(ctx, q, 1, query, id, periods[0], periods[1], periods[2])
	if err != nil {
		logger.Error("HangoutRepository:UpdatePeriods", err)
		return err
	}
	return nil
}

// UpdateStage writes the stage transition: frozen periods, new stage, new
// stage_control timestamp and the concluded flag, in one statement.
func (r *HangoutRepository) UpdateStage(ctx context.Context, q database.Queryer, h *entity.Hangout) error {
	query := `
		UPDATE hangouts
		SET availability_period_ms = $2, suggestions_period_ms = $3, voting_period_ms = $4,
		    current_stage = $5, stage_control_at = $6, is_concluded = $7
		WHERE id = $1
	`
	err := database.ExecAffecting(ctx, q, 1, query,
		h.ID, h.AvailabilityPeriodMs, h.SuggestionsPeriodMs, h.VotingPeriodMs,
		h.CurrentStage, h.StageControlAt, h.IsConcluded)
	if err != nil {
		logger.Error("HangoutRepository:UpdateStage", err)
		return err
	}
	return nil
}

func (r *HangoutRepository) Delete(ctx context.Context, q database.Queryer, id string) error {
	err := database.ExecAffecting(ctx, q, 1, `DELETE FROM hangouts WHERE id = $1`, id)
	if err != nil {
		logger.Error("HangoutRepository:Delete", err)
		return err
	}
	return nil
}

// ListOverdueIDs returns hangouts whose derived conclusion timestamp has
// passed but are not yet marked concluded.
func (r *HangoutRepository) ListOverdueIDs(ctx context.Context, q database.Queryer, now time.Time) ([]string, error) {
	query := `
		SELECT id FROM hangouts
		WHERE is_concluded = false
		  AND created_at
		      + (availability_period_ms || ' milliseconds')::interval
		      + (suggestions_period_ms || ' milliseconds')::interval
		      + (voting_period_ms || ' milliseconds')::interval <= $1
	`
	var ids []string
	err := q.SelectContext(ctx, &ids, query, now)
	if err != nil {
		logger.Error("HangoutRepository:ListOverdueIDs", err)
		return nil, err
	}
	return ids, nil
}
