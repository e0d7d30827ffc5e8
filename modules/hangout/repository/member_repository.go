package repository

import (
	"context"
	"database/sql"

	"hangout-api/core/database"
	"hangout-api/core/logger"
	"hangout-api/modules/hangout/entity"

	"github.com/google/uuid"
)

// MemberRepository handles hangout member persistence.
type MemberRepository struct{}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{}
}

// MemberRepositoryInterface defines the repository contract.
type MemberRepositoryInterface interface {
	Insert(ctx context.Context, q database.Queryer, m *entity.Member) error
	GetByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Member, error)
	GetByHangoutAndOwner(ctx context.Context, q database.Queryer, hangoutID string, owner entity.Owner) (*entity.Member, error)
	ListByHangout(ctx context.Context, q database.Queryer, hangoutID string) ([]entity.Member, error)
	CountByHangout(ctx context.Context, q database.Queryer, hangoutID string) (int, error)
	LeaderExists(ctx context.Context, q database.Queryer, hangoutID string) (bool, error)
	SetLeader(ctx context.Context, q database.Queryer, id uuid.UUID, isLeader bool) error
	Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error
	UpdateDisplayNameByAccount(ctx context.Context, q database.Queryer, accountID uuid.UUID, name string) error
	IsMember(ctx context.Context, q database.Queryer, hangoutID string, owner entity.Owner) (bool, error)
}

const memberColumns = `id, hangout_id, account_id, guest_id, display_name, is_leader, created_at`

func (r *MemberRepository) Insert(ctx context.Context, q database.Queryer, m *entity.Member) error {
	query := `
		INSERT INTO hangout_members (id, hangout_id, account_id, guest_id, display_name, is_leader)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	err := database.ExecAffecting(ctx, q, 1, query,
		m.ID, m.HangoutID, m.AccountID, m.GuestID, m.DisplayName, m.IsLeader)
	if err != nil {
		logger.Error("MemberRepository:Insert", err)
		return err
	}
	return nil
}

func (r *MemberRepository) GetByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM hangout_members WHERE id = $1`

	var m entity.Member
	err := q.GetContext(ctx, &m, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MemberRepository:GetByID", err)
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) GetByHangoutAndOwner(ctx context.Context, q database.Queryer, hangoutID string, owner entity.Owner) (*entity.Member, error) {
	query := `
		SELECT ` + memberColumns + ` FROM hangout_members
		WHERE hangout_id = $1
		  AND (($2 = 'account' AND account_id = $3) OR ($2 = 'guest' AND guest_id = $3))
	`
	var m entity.Member
	err := q.GetContext(ctx, &m, query, hangoutID, string(owner.Kind), owner.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MemberRepository:GetByHangoutAndOwner", err)
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) ListByHangout(ctx context.Context, q database.Queryer, hangoutID string) ([]entity.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM hangout_members WHERE hangout_id = $1 ORDER BY created_at`

	var members []entity.Member
	err := q.SelectContext(ctx, &members, query, hangoutID)
	if err != nil {
		logger.Error("MemberRepository:ListByHangout", err)
		return nil, err
	}
	return members, nil
}

func (r *MemberRepository) CountByHangout(ctx context.Context, q database.Queryer, hangoutID string) (int, error) {
	var count int
	err := q.GetContext(ctx, &count, `SELECT COUNT(*) FROM hangout_members WHERE hangout_id = $1`, hangoutID)
	if err != nil {
		logger.Error("MemberRepository:CountByHangout", err)
		return 0, err
	}
	return count, nil
}

func (r *MemberRepository) LeaderExists(ctx context.Context, q database.Queryer, hangoutID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM hangout_members WHERE hangout_id = $1 AND is_leader = true)`
	err := q.GetContext(ctx, &exists, query, hangoutID)
	if err != nil {
		logger.Error("MemberRepository:LeaderExists", err)
		return false, err
	}
	return exists, nil
}

func (r *MemberRepository) SetLeader(ctx context.Context, q database.Queryer, id uuid.UUID, isLeader bool) error {
	err := database.ExecAffecting(ctx, q, 1,
		`UPDATE hangout_members SET is_leader = $2 WHERE id = $1`, id, isLeader)
	if err != nil {
		logger.Error("MemberRepository:SetLeader", err)
		return err
	}
	return nil
}

func (r *MemberRepository) Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	err := database.ExecAffecting(ctx, q, 1, `DELETE FROM hangout_members WHERE id = $1`, id)
	if err != nil {
		logger.Error("MemberRepository:Delete", err)
		return err
	}
	return nil
}

// UpdateDisplayNameByAccount refreshes the display-name snapshot on every
// membership owned by the account. Zero rows is fine: the account may not be
// in any hangout.
func (r *MemberRepository) UpdateDisplayNameByAccount(ctx context.Context, q database.Queryer, accountID uuid.UUID, name string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE hangout_members SET display_name = $2 WHERE account_id = $1`, accountID, name)
	if err != nil {
		logger.Error("MemberRepository:UpdateDisplayNameByAccount", err)
		return err
	}
	return nil
}

func (r *MemberRepository) IsMember(ctx context.Context, q database.Queryer, hangoutID string, owner entity.Owner) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM hangout_members
			WHERE hangout_id = $1
			  AND (($2 = 'account' AND account_id = $3) OR ($2 = 'guest' AND guest_id = $3))
		)
	`
	err := q.GetContext(ctx, &exists, query, hangoutID, string(owner.Kind), owner.ID)
	if err != nil {
		logger.Error("MemberRepository:IsMember", err)
		return false, err
	}
	return exists, nil
}
