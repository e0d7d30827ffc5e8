package service

import (
	"context"

	"hangout-api/core/constants"
	"hangout-api/core/database"
	"hangout-api/core/errors"
	"hangout-api/core/interval"
	"hangout-api/modules/suggestion/dto"
	"hangout-api/modules/suggestion/entity"
	"hangout-api/modules/suggestion/repository"
	hangoutEntity "hangout-api/modules/hangout/entity"
	hangoutService "hangout-api/modules/hangout/service"

	"github.com/google/uuid"
)

// VoteStore is the slice of the vote repository the major-edit cascade needs.
type VoteStore interface {
	DeleteBySuggestion(ctx context.Context, q database.Queryer, suggestionID uuid.UUID) (int64, error)
}

// SuggestionService handles suggestion submissions and likes. Submissions are
// gated on the suggestions stage; likes stay open through voting.
type SuggestionService struct {
	db          database.TxRunner
	pool        database.Queryer
	suggestions repository.SuggestionRepositoryInterface
	votes       VoteStore
	loader      *hangoutService.ContextLoader
	sink        hangoutService.EventSink
}

// SuggestionServiceInterface defines the service contract.
type SuggestionServiceInterface interface {
	Create(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, req *dto.SuggestionRequest) (*dto.SuggestionResponse, *errors.AppError)
	Update(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, suggestionID uuid.UUID, req *dto.SuggestionRequest) (*dto.UpdateResponse, *errors.AppError)
	Delete(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, suggestionID uuid.UUID) *errors.AppError
	List(ctx context.Context, hangoutID string, owner hangoutEntity.Owner) ([]dto.SuggestionResponse, *errors.AppError)
	Like(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, suggestionID uuid.UUID) *errors.AppError
	Unlike(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, suggestionID uuid.UUID) *errors.AppError
}

func NewSuggestionService(
	db database.TxRunner,
	pool database.Queryer,
	suggestions repository.SuggestionRepositoryInterface,
	votes VoteStore,
	loader *hangoutService.ContextLoader,
	sink hangoutService.EventSink,
) SuggestionServiceInterface {
	return &SuggestionService{db: db, pool: pool, suggestions: suggestions, votes: votes, loader: loader, sink: sink}
}

// requireLikeStage allows likes during both the suggestions and voting stages.
func requireLikeStage(hc *hangoutService.HangoutContext) *errors.AppError {
	if hc.Hangout.CurrentStage == hangoutEntity.StageSuggestions || hc.Hangout.CurrentStage == hangoutEntity.StageVoting {
		return nil
	}
	return hc.RequireStage(hangoutEntity.StageSuggestions)
}

// Create adds a suggestion for the calling member.
func (s *SuggestionService) Create(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, req *dto.SuggestionRequest) (*dto.SuggestionResponse, *errors.AppError) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	span := interval.Span{Start: req.StartsAt, End: req.EndsAt}

	var resp *dto.SuggestionResponse
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}
		if appErr := hc.RequireStage(hangoutEntity.StageSuggestions); appErr != nil {
			return appErr
		}
		if appErr := hangoutService.ValidateSubmissionSpan(span, hc.Conclusion); appErr != nil {
			return appErr
		}

		count, err := s.suggestions.CountByHangout(ctx, q, hangoutID)
		if err != nil {
			return err
		}
		if count >= constants.MaxSuggestionsPerHangout {
			return errors.NewAppError(errors.ErrSuggestionLimit, "suggestion limit reached for this hangout", nil)
		}

		suggestion := &entity.Suggestion{
			ID:          uuid.New(),
			HangoutID:   hangoutID,
			MemberID:    hc.Member.ID,
			Title:       req.Title,
			Description: req.Description,
			StartsAt:    span.Start,
			EndsAt:      span.End,
			CreatedAt:   hc.Now,
			UpdatedAt:   hc.Now,
		}
		if err := s.suggestions.Insert(ctx, q, suggestion); err != nil {
			return err
		}
		r := dto.ToSuggestionResponse(suggestion, 0)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, errors.From(err)
	}

	s.sink.Publish(ctx, hangoutID, "suggestion.created", &resp.MemberID, map[string]any{
		"suggestion_id": resp.ID,
		"title":         resp.Title,
	})
	return resp, nil
}

// Update edits a suggestion. A major change (title or bounds) wipes the
// suggestion's votes and likes in the same transaction, since they no longer
// mean what they meant. Description-only edits keep them.
func (s *SuggestionService) Update(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, suggestionID uuid.UUID, req *dto.SuggestionRequest) (*dto.UpdateResponse, *errors.AppError) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	span := interval.Span{Start: req.StartsAt, End: req.EndsAt}

	var resp *dto.UpdateResponse
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}
		if appErr := hc.RequireStage(hangoutEntity.StageSuggestions); appErr != nil {
			return appErr
		}

		suggestion, err := s.suggestions.GetByID(ctx, q, suggestionID)
		if err != nil {
			return err
		}
		if suggestion == nil || suggestion.HangoutID != hangoutID {
			return errors.NewAppError(errors.ErrNotFound, "suggestion not found", nil)
		}
		if suggestion.MemberID != hc.Member.ID {
			return errors.NewAppError(errors.ErrForbidden, "you can only edit your own suggestions", nil)
		}
		if appErr := hangoutService.ValidateSubmissionSpan(span, hc.Conclusion); appErr != nil {
			return appErr
		}

		major := suggestion.MajorChange(req.Title, span.Start, span.End)
		if major {
			if _, err := s.votes.DeleteBySuggestion(ctx, q, suggestionID); err != nil {
				return err
			}
			if _, err := s.suggestions.DeleteLikesBySuggestion(ctx, q, suggestionID); err != nil {
				return err
			}
			suggestion.IsEdited = true
		}

		suggestion.Title = req.Title
		suggestion.Description = req.Description
		suggestion.StartsAt = span.Start
		suggestion.EndsAt = span.End
		suggestion.UpdatedAt = hc.Now
		if err := s.suggestions.Update(ctx, q, suggestion); err != nil {
			return err
		}

		likes := 0
		if !major {
			if likes, err = s.suggestions.CountLikesBySuggestion(ctx, q, suggestionID); err != nil {
				return err
			}
		}
		resp = &dto.UpdateResponse{
			Suggestion:  dto.ToSuggestionResponse(suggestion, likes),
			MajorChange: major,
		}
		return nil
	})
	if err != nil {
		return nil, errors.From(err)
	}

	s.sink.Publish(ctx, hangoutID, "suggestion.updated", &resp.Suggestion.MemberID, map[string]any{
		"suggestion_id": suggestionID,
		"major_change":  resp.MajorChange,
	})
	return resp, nil
}

// Delete removes a suggestion along with its votes and likes. The author or
// the leader may delete; suggestions stage only.
func (s *SuggestionService) Delete(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, suggestionID uuid.UUID) *errors.AppError {
	var memberID uuid.UUID
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}
		if appErr := hc.RequireStage(hangoutEntity.StageSuggestions); appErr != nil {
			return appErr
		}

		suggestion, err := s.suggestions.GetByID(ctx, q, suggestionID)
		if err != nil {
			return err
		}
		if suggestion == nil || suggestion.HangoutID != hangoutID {
			return errors.NewAppError(errors.ErrNotFound, "suggestion not found", nil)
		}
		if suggestion.MemberID != hc.Member.ID && !hc.Member.IsLeader {
			return errors.NewAppError(errors.ErrForbidden, "only the author or the leader can delete a suggestion", nil)
		}

		if _, err := s.votes.DeleteBySuggestion(ctx, q, suggestionID); err != nil {
			return err
		}
		if _, err := s.suggestions.DeleteLikesBySuggestion(ctx, q, suggestionID); err != nil {
			return err
		}

		memberID = hc.Member.ID
		return s.suggestions.Delete(ctx, q, suggestionID)
	})
	if err != nil {
		return errors.From(err)
	}

	s.sink.Publish(ctx, hangoutID, "suggestion.deleted", &memberID, map[string]any{"suggestion_id": suggestionID})
	return nil
}

// List returns all suggestions of the hangout with their like counts.
func (s *SuggestionService) List(ctx context.Context, hangoutID string, owner hangoutEntity.Owner) ([]dto.SuggestionResponse, *errors.AppError) {
	if _, appErr := s.loader.Load(ctx, s.pool, hangoutID, owner, false); appErr != nil {
		return nil, appErr
	}

	suggestions, err := s.suggestions.ListByHangout(ctx, s.pool, hangoutID)
	if err != nil {
		return nil, errors.From(err)
	}
	counts, err := s.suggestions.LikeCountsByHangout(ctx, s.pool, hangoutID)
	if err != nil {
		return nil, errors.From(err)
	}

	responses := make([]dto.SuggestionResponse, 0, len(suggestions))
	for i := range suggestions {
		responses = append(responses, dto.ToSuggestionResponse(&suggestions[i], counts[suggestions[i].ID]))
	}
	return responses, nil
}

// Like records the caller's like on a suggestion. Liking twice is a no-op.
func (s *SuggestionService) Like(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, suggestionID uuid.UUID) *errors.AppError {
	var (
		memberID uuid.UUID
		inserted bool
	)
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}
		if appErr := requireLikeStage(hc); appErr != nil {
			return appErr
		}

		suggestion, err := s.suggestions.GetByID(ctx, q, suggestionID)
		if err != nil {
			return err
		}
		if suggestion == nil || suggestion.HangoutID != hangoutID {
			return errors.NewAppError(errors.ErrNotFound, "suggestion not found", nil)
		}

		memberID = hc.Member.ID
		inserted, err = s.suggestions.InsertLike(ctx, q, &entity.Like{
			ID:           uuid.New(),
			HangoutID:    hangoutID,
			MemberID:     hc.Member.ID,
			SuggestionID: suggestionID,
		})
		return err
	})
	if err != nil {
		return errors.From(err)
	}

	if inserted {
		s.sink.Publish(ctx, hangoutID, "suggestion.liked", &memberID, map[string]any{"suggestion_id": suggestionID})
	}
	return nil
}

// Unlike removes the caller's like. Removing an absent like is a no-op.
func (s *SuggestionService) Unlike(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, suggestionID uuid.UUID) *errors.AppError {
	var (
		memberID uuid.UUID
		removed  bool
	)
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}
		if appErr := requireLikeStage(hc); appErr != nil {
			return appErr
		}

		memberID = hc.Member.ID
		var err error
		removed, err = s.suggestions.DeleteLike(ctx, q, hc.Member.ID, suggestionID)
		return err
	})
	if err != nil {
		return errors.From(err)
	}

	if removed {
		s.sink.Publish(ctx, hangoutID, "suggestion.unliked", &memberID, map[string]any{"suggestion_id": suggestionID})
	}
	return nil
}
