package repository

import (
	"context"
	"database/sql"
	"time"

	"hangout-api/core/database"
	"hangout-api/core/logger"
	"hangout-api/modules/availability/entity"

	"github.com/google/uuid"
)

// SlotRepository handles availability slot persistence.
type SlotRepository struct{}

func NewSlotRepository() *SlotRepository {
	return &SlotRepository{}
}

// SlotRepositoryInterface defines the repository contract.
type SlotRepositoryInterface interface {
	Insert(ctx context.Context, q database.Queryer, s *entity.Slot) error
	GetByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Slot, error)
	ListByMember(ctx context.Context, q database.Queryer, hangoutID string, memberID uuid.UUID) ([]entity.Slot, error)
	ListByHangout(ctx context.Context, q database.Queryer, hangoutID string) ([]entity.Slot, error)
	CountByMember(ctx context.Context, q database.Queryer, hangoutID string, memberID uuid.UUID) (int, error)
	Update(ctx context.Context, q database.Queryer, s *entity.Slot) error
	Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error
	DeleteStartingBefore(ctx context.Context, q database.Queryer, hangoutID string, cutoff time.Time) (int64, error)
}

const slotColumns = `id, hangout_id, member_id, slot_start, slot_end, created_at`

func (r *SlotRepository) Insert(ctx context.Context, q database.Queryer, s *entity.Slot) error {
	query := `
		INSERT INTO availability_slots (id, hangout_id, member_id, slot_start, slot_end)
		VALUES ($1, $2, $3, $4, $5)
	`
	err := database.ExecAffecting(ctx, q, 1, query, s.ID, s.HangoutID, s.MemberID, s.SlotStart, s.SlotEnd)
	if err != nil {
		logger.Error("SlotRepository:Insert", err)
		return err
	}
	return nil
}

func (r *SlotRepository) GetByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Slot, error) {
	var s entity.Slot
	err := q.GetContext(ctx, &s, `SELECT `+slotColumns+` FROM availability_slots WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SlotRepository:GetByID", err)
		return nil, err
	}
	return &s, nil
}

func (r *SlotRepository) ListByMember(ctx context.Context, q database.Queryer, hangoutID string, memberID uuid.UUID) ([]entity.Slot, error) {
	query := `
		SELECT ` + slotColumns + ` FROM availability_slots
		WHERE hangout_id = $1 AND member_id = $2
		ORDER BY slot_start
	`
	var slots []entity.Slot
	err := q.SelectContext(ctx, &slots, query, hangoutID, memberID)
	if err != nil {
		logger.Error("SlotRepository:ListByMember", err)
		return nil, err
	}
	return slots, nil
}

func (r *SlotRepository) ListByHangout(ctx context.Context, q database.Queryer, hangoutID string) ([]entity.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM availability_slots WHERE hangout_id = $1 ORDER BY slot_start`

	var slots []entity.Slot
	err := q.SelectContext(ctx, &slots, query, hangoutID)
	if err != nil {
		logger.Error("SlotRepository:ListByHangout", err)
		return nil, err
	}
	return slots, nil
}

func (r *SlotRepository) CountByMember(ctx context.Context, q database.Queryer, hangoutID string, memberID uuid.UUID) (int, error) {
	var count int
	err := q.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM availability_slots WHERE hangout_id = $1 AND member_id = $2`,
		hangoutID, memberID)
	if err != nil {
		logger.Error("SlotRepository:CountByMember", err)
		return 0, err
	}
	return count, nil
}

func (r *SlotRepository) Update(ctx context.Context, q database.Queryer, s *entity.Slot) error {
	query := `UPDATE availability_slots SET slot_start = $2, slot_end = $3 WHERE id = $1`
	err := database.ExecAffecting(ctx, q, 1, query, s.ID, s.SlotStart, s.SlotEnd)
	if err != nil {
		logger.Error("SlotRepository:Update", err)
		return err
	}
	return nil
}

func (r *SlotRepository) Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	err := database.ExecAffecting(ctx, q, 1, `DELETE FROM availability_slots WHERE id = $1`, id)
	if err != nil {
		logger.Error("SlotRepository:Delete", err)
		return err
	}
	return nil
}

// DeleteStartingBefore removes slots invalidated by a schedule shrink. Any
// number of rows may match.
func (r *SlotRepository) DeleteStartingBefore(ctx context.Context, q database.Queryer, hangoutID string, cutoff time.Time) (int64, error) {
	res, err := q.ExecContext(ctx,
		`DELETE FROM availability_slots WHERE hangout_id = $1 AND slot_start < $2`,
		hangoutID, cutoff)
	if err != nil {
		logger.Error("SlotRepository:DeleteStartingBefore", err)
		return 0, err
	}
	return res.RowsAffected()
}
