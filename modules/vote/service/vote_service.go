package service

import (
	"context"

	"hangout-api/core/constants"
	"hangout-api/core/database"
	"hangout-api/core/errors"
	"hangout-api/core/interval"
	availabilityEntity "hangout-api/modules/availability/entity"
	hangoutEntity "hangout-api/modules/hangout/entity"
	hangoutService "hangout-api/modules/hangout/service"
	suggestionEntity "hangout-api/modules/suggestion/entity"
	"hangout-api/modules/vote/dto"
	"hangout-api/modules/vote/entity"
	"hangout-api/modules/vote/repository"

	"github.com/google/uuid"
)

// SuggestionStore is the slice of the suggestion repository voting needs.
type SuggestionStore interface {
	GetByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*suggestionEntity.Suggestion, error)
}

// SlotStore is the slice of the slot repository the eligibility check needs.
type SlotStore interface {
	ListByMember(ctx context.Context, q database.Queryer, hangoutID string, memberID uuid.UUID) ([]availabilityEntity.Slot, error)
}

// VoteService handles vote casting and retraction, gated on the voting stage.
// A vote only counts when the caller declared availability that actually
// covers the suggested time.
type VoteService struct {
	db          database.TxRunner
	pool        database.Queryer
	votes       repository.VoteRepositoryInterface
	suggestions SuggestionStore
	slots       SlotStore
	loader      *hangoutService.ContextLoader
	sink        hangoutService.EventSink
}

// VoteServiceInterface defines the service contract.
type VoteServiceInterface interface {
	Cast(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, suggestionID uuid.UUID) *errors.AppError
	Retract(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, suggestionID uuid.UUID) *errors.AppError
	ListMine(ctx context.Context, hangoutID string, owner hangoutEntity.Owner) ([]dto.VoteResponse, *errors.AppError)
	Tally(ctx context.Context, hangoutID string, owner hangoutEntity.Owner) ([]dto.TallyResponse, *errors.AppError)
}

func NewVoteService(
	db database.TxRunner,
	pool database.Queryer,
	votes repository.VoteRepositoryInterface,
	suggestions SuggestionStore,
	slots SlotStore,
	loader *hangoutService.ContextLoader,
	sink hangoutService.EventSink,
) VoteServiceInterface {
	return &VoteService{db: db, pool: pool, votes: votes, suggestions: suggestions, slots: slots, loader: loader, sink: sink}
}

// Cast records the caller's vote on a suggestion. Voting twice for the same
// suggestion is a no-op. The caller must have an availability slot overlapping
// the suggested time by at least the eligibility threshold.
func (s *VoteService) Cast(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, suggestionID uuid.UUID) *errors.AppError {
	var (
		memberID uuid.UUID
		inserted bool
	)
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}
		if appErr := hc.RequireStage(hangoutEntity.StageVoting); appErr != nil {
			return appErr
		}

		suggestion, err := s.suggestions.GetByID(ctx, q, suggestionID)
		if err != nil {
			return err
		}
		if suggestion == nil || suggestion.HangoutID != hangoutID {
			return errors.NewAppError(errors.ErrNotFound, "suggestion not found", nil)
		}

		slots, err := s.slots.ListByMember(ctx, q, hangoutID, hc.Member.ID)
		if err != nil {
			return err
		}
		eligible := false
		for i := range slots {
			if interval.SufficientOverlap(slots[i].Span(), suggestion.Span(), constants.VoteOverlapThreshold) {
				eligible = true
				break
			}
		}
		if !eligible {
			return errors.NewAppError(errors.ErrNoOverlappingSlot,
				"none of your availability slots covers this suggestion long enough", nil)
		}

		memberID = hc.Member.ID
		inserted, err = s.votes.Insert(ctx, q, &entity.Vote{
			ID:           uuid.New(),
			HangoutID:    hangoutID,
			MemberID:     hc.Member.ID,
			SuggestionID: suggestionID,
			CreatedAt:    hc.Now,
		})
		if err != nil {
			return err
		}
		if inserted {
			count, err := s.votes.CountByMember(ctx, q, hangoutID, hc.Member.ID)
			if err != nil {
				return err
			}
			if count > constants.MaxVotesPerMember {
				return errors.NewAppError(errors.ErrVoteLimitReached, "vote limit reached", nil)
			}
		}
		return nil
	})
	if err != nil {
		return errors.From(err)
	}

	if inserted {
		s.sink.Publish(ctx, hangoutID, "vote.cast", &memberID, map[string]any{"suggestion_id": suggestionID})
	}
	return nil
}

// Retract removes the caller's vote. Retracting an absent vote is a no-op.
func (s *VoteService) Retract(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, suggestionID uuid.UUID) *errors.AppError {
	var (
		memberID uuid.UUID
		removed  bool
	)
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}
		if appErr := hc.RequireStage(hangoutEntity.StageVoting); appErr != nil {
			return appErr
		}

		memberID = hc.Member.ID
		var err error
		removed, err = s.votes.DeleteByMemberAndSuggestion(ctx, q, hc.Member.ID, suggestionID)
		return err
	})
	if err != nil {
		return errors.From(err)
	}

	if removed {
		s.sink.Publish(ctx, hangoutID, "vote.retracted", &memberID, map[string]any{"suggestion_id": suggestionID})
	}
	return nil
}

func (s *VoteService) ListMine(ctx context.Context, hangoutID string, owner hangoutEntity.Owner) ([]dto.VoteResponse, *errors.AppError) {
	hc, appErr := s.loader.Load(ctx, s.pool, hangoutID, owner, false)
	if appErr != nil {
		return nil, appErr
	}
	votes, err := s.votes.ListByMember(ctx, s.pool, hangoutID, hc.Member.ID)
	if err != nil {
		return nil, errors.From(err)
	}
	return dto.ToVoteResponses(votes), nil
}

// Tally returns the per-suggestion vote counts for the hangout.
func (s *VoteService) Tally(ctx context.Context, hangoutID string, owner hangoutEntity.Owner) ([]dto.TallyResponse, *errors.AppError) {
	if _, appErr := s.loader.Load(ctx, s.pool, hangoutID, owner, false); appErr != nil {
		return nil, appErr
	}
	counts, err := s.votes.CountsByHangout(ctx, s.pool, hangoutID)
	if err != nil {
		return nil, errors.From(err)
	}

	tallies := make([]dto.TallyResponse, 0, len(counts))
	for suggestionID, votes := range counts {
		tallies = append(tallies, dto.TallyResponse{SuggestionID: suggestionID, Votes: votes})
	}
	return tallies, nil
}
