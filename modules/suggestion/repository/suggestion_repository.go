package repository

import (
	"context"
	"database/sql"
	"time"

	"hangout-api/core/database"
	"hangout-api/core/logger"
	"hangout-api/modules/suggestion/entity"

	"github.com/google/uuid"
)

// SuggestionRepository handles suggestion and like persistence.
type SuggestionRepository struct{}

func NewSuggestionRepository() *SuggestionRepository {
	return &SuggestionRepository{}
}

// SuggestionRepositoryInterface defines the repository contract.
type SuggestionRepositoryInterface interface {
	Insert(ctx context.Context, q database.Queryer, s *entity.Suggestion) error
	GetByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Suggestion, error)
	ListByHangout(ctx context.Context, q database.Queryer, hangoutID string) ([]entity.Suggestion, error)
	CountByHangout(ctx context.Context, q database.Queryer, hangoutID string) (int, error)
	Update(ctx context.Context, q database.Queryer, s *entity.Suggestion) error
	Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error
	DeleteStartingBefore(ctx context.Context, q database.Queryer, hangoutID string, cutoff time.Time) (int64, error)

	InsertLike(ctx context.Context, q database.Queryer, l *entity.Like) (bool, error)
	DeleteLike(ctx context.Context, q database.Queryer, memberID, suggestionID uuid.UUID) (bool, error)
	DeleteLikesBySuggestion(ctx context.Context, q database.Queryer, suggestionID uuid.UUID) (int64, error)
	CountLikesBySuggestion(ctx context.Context, q database.Queryer, suggestionID uuid.UUID) (int, error)
	LikeCountsByHangout(ctx context.Context, q database.Queryer, hangoutID string) (map[uuid.UUID]int, error)
}

const suggestionColumns = `id, hangout_id, member_id, title, description, starts_at, ends_at, is_edited, created_at, updated_at`

func (r *SuggestionRepository) Insert(ctx context.Context, q database.Queryer, s *entity.Suggestion) error {
	query := `
		INSERT INTO suggestions (id, hangout_id, member_id, title, description, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	err := database.ExecAffecting(ctx, q, 1, query,
		s.ID, s.HangoutID, s.MemberID, s.Title, s.Description, s.StartsAt, s.EndsAt)
	if err != nil {
		logger.Error("SuggestionRepository:Insert", err)
		return err
	}
	return nil
}

func (r *SuggestionRepository) GetByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Suggestion, error) {
	var s entity.Suggestion
	err := q.GetContext(ctx, &s, `SELECT `+suggestionColumns+` FROM suggestions WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SuggestionRepository:GetByID", err)
		return nil, err
	}
	return &s, nil
}

func (r *SuggestionRepository) ListByHangout(ctx context.Context, q database.Queryer, hangoutID string) ([]entity.Suggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM suggestions WHERE hangout_id = $1 ORDER BY starts_at`

	var suggestions []entity.Suggestion
	err := q.SelectContext(ctx, &suggestions, query, hangoutID)
	if err != nil {
		logger.Error("SuggestionRepository:ListByHangout", err)
		return nil, err
	}
	return suggestions, nil
}

func (r *SuggestionRepository) CountByHangout(ctx context.Context, q database.Queryer, hangoutID string) (int, error) {
	var count int
	err := q.GetContext(ctx, &count, `SELECT COUNT(*) FROM suggestions WHERE hangout_id = $1`, hangoutID)
	if err != nil {
		logger.Error("SuggestionRepository:CountByHangout", err)
		return 0, err
	}
	return count, nil
}

func (r *SuggestionRepository) Update(ctx context.Context, q database.Queryer, s *entity.Suggestion) error {
	query := `
		UPDATE suggestions
		SET title = $2, description = $3, starts_at = $4, ends_at = $5, is_edited = $6, updated_at = NOW()
		WHERE id = $1
	`
	err := database.ExecAffecting(ctx, q, 1, query,
		s.ID, s.Title, s.Description, s.StartsAt, s.EndsAt, s.IsEdited)
	if err != nil {
		logger.Error("SuggestionRepository:Update", err)
		return err
	}
	return nil
}

func (r *SuggestionRepository) Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	err := database.ExecAffecting(ctx, q, 1, `DELETE FROM suggestions WHERE id = $1`, id)
	if err != nil {
		logger.Error("SuggestionRepository:Delete", err)
		return err
	}
	return nil
}

func (r *SuggestionRepository) DeleteStartingBefore(ctx context.Context, q database.Queryer, hangoutID string, cutoff time.Time) (int64, error) {
	res, err := q.ExecContext(ctx,
		`DELETE FROM suggestions WHERE hangout_id = $1 AND starts_at < $2`,
		hangoutID, cutoff)
	if err != nil {
		logger.Error("SuggestionRepository:DeleteStartingBefore", err)
		return 0, err
	}
	return res.RowsAffected()
}

// InsertLike inserts a like, ignoring duplicates. Returns whether a row was
// actually inserted; a duplicate is the caller's idempotent no-op.
func (r *SuggestionRepository) InsertLike(ctx context.Context, q database.Queryer, l *entity.Like) (bool, error) {
	query := `
		INSERT INTO suggestion_likes (id, hangout_id, member_id, suggestion_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (member_id, suggestion_id) DO NOTHING
	`
	res, err := q.ExecContext(ctx, query, l.ID, l.HangoutID, l.MemberID, l.SuggestionID)
	if err != nil {
		logger.Error("SuggestionRepository:InsertLike", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteLike removes a like; deleting an absent like is not an error.
func (r *SuggestionRepository) DeleteLike(ctx context.Context, q database.Queryer, memberID, suggestionID uuid.UUID) (bool, error) {
	res, err := q.ExecContext(ctx,
		`DELETE FROM suggestion_likes WHERE member_id = $1 AND suggestion_id = $2`,
		memberID, suggestionID)
	if err != nil {
		logger.Error("SuggestionRepository:DeleteLike", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SuggestionRepository) DeleteLikesBySuggestion(ctx context.Context, q database.Queryer, suggestionID uuid.UUID) (int64, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM suggestion_likes WHERE suggestion_id = $1`, suggestionID)
	if err != nil {
		logger.Error("SuggestionRepository:DeleteLikesBySuggestion", err)
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SuggestionRepository) CountLikesBySuggestion(ctx context.Context, q database.Queryer, suggestionID uuid.UUID) (int, error) {
	var count int
	err := q.GetContext(ctx, &count, `SELECT COUNT(*) FROM suggestion_likes WHERE suggestion_id = $1`, suggestionID)
	if err != nil {
		logger.Error("SuggestionRepository:CountLikesBySuggestion", err)
		return 0, err
	}
	return count, nil
}

func (r *SuggestionRepository) LikeCountsByHangout(ctx context.Context, q database.Queryer, hangoutID string) (map[uuid.UUID]int, error) {
	query := `
		SELECT suggestion_id, COUNT(*) AS likes
		FROM suggestion_likes
		WHERE hangout_id = $1
		GROUP BY suggestion_id
	`
	var rows []struct {
		SuggestionID uuid.UUID `db:"suggestion_id"`
		Likes        int       `db:"likes"`
	}
	if err := q.SelectContext(ctx, &rows, query, hangoutID); err != nil {
		logger.Error("SuggestionRepository:LikeCountsByHangout", err)
		return nil, err
	}
	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.SuggestionID] = row.Likes
	}
	return counts, nil
}
