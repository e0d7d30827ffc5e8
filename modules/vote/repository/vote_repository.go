package repository

import (
	"context"

	"hangout-api/core/database"
	"hangout-api/core/logger"
	"hangout-api/modules/vote/entity"

	"github.com/google/uuid"
)

// VoteRepository handles vote persistence.
type VoteRepository struct{}

func NewVoteRepository() *VoteRepository {
	return &VoteRepository{}
}

// VoteRepositoryInterface defines the repository contract.
type VoteRepositoryInterface interface {
	Insert(ctx context.Context, q database.Queryer, v *entity.Vote) (bool, error)
	DeleteByMemberAndSuggestion(ctx context.Context, q database.Queryer, memberID, suggestionID uuid.UUID) (bool, error)
	DeleteBySuggestion(ctx context.Context, q database.Queryer, suggestionID uuid.UUID) (int64, error)
	ListByHangout(ctx context.Context, q database.Queryer, hangoutID string) ([]entity.Vote, error)
	ListByMember(ctx context.Context, q database.Queryer, hangoutID string, memberID uuid.UUID) ([]entity.Vote, error)
	CountByMember(ctx context.Context, q database.Queryer, hangoutID string, memberID uuid.UUID) (int, error)
	CountsByHangout(ctx context.Context, q database.Queryer, hangoutID string) (map[uuid.UUID]int, error)
}

// Insert records a vote, ignoring duplicates. Returns whether a row was
// actually inserted; a duplicate is the caller's idempotent no-op.
func (r *VoteRepository) Insert(ctx context.Context, q database.Queryer, v *entity.Vote) (bool, error) {
	query := `
		INSERT INTO votes (id, hangout_id, member_id, suggestion_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (member_id, suggestion_id) DO NOTHING
	`
	res, err := q.ExecContext(ctx, query, v.ID, v.HangoutID, v.MemberID, v.SuggestionID, v.CreatedAt)
	if err != nil {
		logger.Error("VoteRepository:Insert", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteByMemberAndSuggestion retracts a vote; retracting an absent vote is
// not an error.
func (r *VoteRepository) DeleteByMemberAndSuggestion(ctx context.Context, q database.Queryer, memberID, suggestionID uuid.UUID) (bool, error) {
	res, err := q.ExecContext(ctx,
		`DELETE FROM votes WHERE member_id = $1 AND suggestion_id = $2`,
		memberID, suggestionID)
	if err != nil {
		logger.Error("VoteRepository:DeleteByMemberAndSuggestion", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *VoteRepository) DeleteBySuggestion(ctx context.Context, q database.Queryer, suggestionID uuid.UUID) (int64, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM votes WHERE suggestion_id = $1`, suggestionID)
	if err != nil {
		logger.Error("VoteRepository:DeleteBySuggestion", err)
		return 0, err
	}
	return res.RowsAffected()
}

func (r *VoteRepository) ListByHangout(ctx context.Context, q database.Queryer, hangoutID string) ([]entity.Vote, error) {
	var votes []entity.Vote
	err := q.SelectContext(ctx, &votes,
		`SELECT id, hangout_id, member_id, suggestion_id, created_at FROM votes WHERE hangout_id = $1 ORDER BY created_at`,
		hangoutID)
	if err != nil {
		logger.Error("VoteRepository:ListByHangout", err)
		return nil, err
	}
	return votes, nil
}

func (r *VoteRepository) ListByMember(ctx context.Context, q database.Queryer, hangoutID string, memberID uuid.UUID) ([]entity.Vote, error) {
	var votes []entity.Vote
	err := q.SelectContext(ctx, &votes,
		`SELECT id, hangout_id, member_id, suggestion_id, created_at FROM votes WHERE hangout_id = $1 AND member_id = $2 ORDER BY created_at`,
		hangoutID, memberID)
	if err != nil {
		logger.Error("VoteRepository:ListByMember", err)
		return nil, err
	}
	return votes, nil
}

func (r *VoteRepository) CountByMember(ctx context.Context, q database.Queryer, hangoutID string, memberID uuid.UUID) (int, error) {
	var count int
	err := q.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM votes WHERE hangout_id = $1 AND member_id = $2`,
		hangoutID, memberID)
	if err != nil {
		logger.Error("VoteRepository:CountByMember", err)
		return 0, err
	}
	return count, nil
}

func (r *VoteRepository) CountsByHangout(ctx context.Context, q database.Queryer, hangoutID string) (map[uuid.UUID]int, error) {
	query := `
		SELECT suggestion_id, COUNT(*) AS votes
		FROM votes
		WHERE hangout_id = $1
		GROUP BY suggestion_id
	`
	var rows []struct {
		SuggestionID uuid.UUID `db:"suggestion_id"`
		Votes        int       `db:"votes"`
	}
	if err := q.SelectContext(ctx, &rows, query, hangoutID); err != nil {
		logger.Error("VoteRepository:CountsByHangout", err)
		return nil, err
	}
	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.SuggestionID] = row.Votes
	}
	return counts, nil
}
