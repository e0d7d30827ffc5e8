package service

import (
	"context"
	"strings"
	"time"

	"hangout-api/core/constants"
	"hangout-api/core/database"
	"hangout-api/core/errors"
	"hangout-api/core/logger"
	"hangout-api/core/utils"
	"hangout-api/modules/hangout/dto"
	"hangout-api/modules/hangout/entity"
	"hangout-api/modules/hangout/repository"

	"github.com/google/uuid"
)

// SlotStore is the slice of the availability repository the stage engine
// needs for stale-data pruning.
type SlotStore interface {
	DeleteStartingBefore(ctx context.Context, q database.Queryer, hangoutID string, cutoff time.Time) (int64, error)
}

// SuggestionStore is the slice of the suggestion repository the stage engine
// needs: pruning plus the zero-suggestion advance guard.
type SuggestionStore interface {
	DeleteStartingBefore(ctx context.Context, q database.Queryer, hangoutID string, cutoff time.Time) (int64, error)
	CountByHangout(ctx context.Context, q database.Queryer, hangoutID string) (int, error)
}

// HangoutService is the stage transition engine: hangout lifecycle, stage
// period re-negotiation and manual stage advances.
type HangoutService struct {
	db             database.TxRunner
	pool           database.Queryer
	hangouts       repository.HangoutRepositoryInterface
	members        repository.MemberRepositoryInterface
	slots          SlotStore
	suggestions    SuggestionStore
	loader         *ContextLoader
	sink           EventSink
	tasks          TaskEnqueuer
	passwordSecret string
}

// HangoutServiceInterface defines the service contract.
type HangoutServiceInterface interface {
	Loader() *ContextLoader
	Create(ctx context.Context, owner entity.Owner, displayName string, req *dto.CreateHangoutRequest) (*dto.HangoutResponse, *errors.AppError)
	Get(ctx context.Context, hangoutID string, owner entity.Owner) (*dto.HangoutResponse, *errors.AppError)
	ListMine(ctx context.Context, owner entity.Owner) ([]dto.HangoutResponse, *errors.AppError)
	Delete(ctx context.Context, hangoutID string, owner entity.Owner) *errors.AppError
	EditPeriods(ctx context.Context, hangoutID string, owner entity.Owner, periods [3]int64) (*dto.ConclusionResponse, *errors.AppError)
	Advance(ctx context.Context, hangoutID string, owner entity.Owner) (*dto.StageAdvanceResponse, *errors.AppError)
	Conclusion(ctx context.Context, hangoutID string, owner entity.Owner) (*dto.ConclusionResponse, *errors.AppError)
	Join(ctx context.Context, hangoutID string, owner entity.Owner, displayName string, req *dto.JoinRequest) (*dto.MemberResponse, *errors.AppError)
	Leave(ctx context.Context, hangoutID string, owner entity.Owner) *errors.AppError
	Kick(ctx context.Context, hangoutID string, owner entity.Owner, memberID uuid.UUID) *errors.AppError
	ClaimLeadership(ctx context.Context, hangoutID string, owner entity.Owner) *errors.AppError
	RefreshDisplayName(ctx context.Context, owner entity.Owner, name string) *errors.AppError
	PruneStale(ctx context.Context, hangoutID string) error
	ConcludeOverdue(ctx context.Context) error
}

func NewHangoutService(
	db database.TxRunner,
	pool database.Queryer,
	hangouts repository.HangoutRepositoryInterface,
	members repository.MemberRepositoryInterface,
	slots SlotStore,
	suggestions SuggestionStore,
	sink EventSink,
	tasks TaskEnqueuer,
	passwordSecret string,
) HangoutServiceInterface {
	return &HangoutService{
		db:             db,
		pool:           pool,
		hangouts:       hangouts,
		members:        members,
		slots:          slots,
		suggestions:    suggestions,
		loader:         NewContextLoader(hangouts, members),
		sink:           sink,
		tasks:          tasks,
		passwordSecret: passwordSecret,
	}
}

// Loader exposes the shared context-loading step to the submission modules.
func (s *HangoutService) Loader() *ContextLoader {
	return s.loader
}

// Create inserts the hangout and its leader member atomically. The creator
// becomes the leader.
func (s *HangoutService) Create(ctx context.Context, owner entity.Owner, displayName string, req *dto.CreateHangoutRequest) (*dto.HangoutResponse, *errors.AppError) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if !ValidatePeriods(req.PeriodsMs) {
		return nil, errors.NewAppError(errors.ErrInvalidPeriod,
			"each stage period must be a whole number of days between 1 and 7", nil)
	}
	if req.MemberLimit < constants.MinMemberLimit || req.MemberLimit > constants.MaxMemberLimit {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "member limit out of range", nil)
	}

	var passwordCipher *string
	if req.Password != "" {
		cipher, err := utils.EncryptPassword(s.passwordSecret, req.Password)
		if err != nil {
			logger.Error("HangoutService:Create:Encrypt", err)
			return nil, errors.NewAppError(errors.ErrInternalServer, "internal server error", err)
		}
		passwordCipher = &cipher
	}

	var resp *dto.HangoutResponse
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		now, err := database.Now(ctx, q)
		if err != nil {
			return err
		}

		h := &entity.Hangout{
			ID:             utils.GenerateHangoutID(now),
			Slug:           utils.GenerateSlug(title),
			Title:          title,
			PasswordCipher: passwordCipher,
			MemberLimit:    req.MemberLimit,
			CurrentStage:   entity.StageAvailability,
			StageControlAt: now,
			CreatedAt:      now,
		}
		h.SetPeriods(req.PeriodsMs)

		if err := s.hangouts.Insert(ctx, q, h); err != nil {
			return err
		}

		leader := entity.NewMember(h.ID, owner, displayName, true)
		if err := s.members.Insert(ctx, q, leader); err != nil {
			return err
		}

		resp = dto.ToHangoutResponse(h, ConclusionTime(h.CreatedAt, h.Periods()), []entity.Member{*leader})
		return nil
	})
	if err != nil {
		return nil, errors.From(err)
	}

	s.sink.Publish(ctx, resp.ID, "hangout.created", nil, map[string]any{"title": resp.Title})
	return resp, nil
}

// Get returns the hangout detail view for a member. Read-only, pool-level
// isolation is enough.
func (s *HangoutService) Get(ctx context.Context, hangoutID string, owner entity.Owner) (*dto.HangoutResponse, *errors.AppError) {
	hc, appErr := s.loader.Load(ctx, s.pool, hangoutID, owner, false)
	if appErr != nil {
		return nil, appErr
	}

	members, err := s.members.ListByHangout(ctx, s.pool, hangoutID)
	if err != nil {
		return nil, errors.From(err)
	}
	return dto.ToHangoutResponse(hc.Hangout, hc.Conclusion, members), nil
}

func (s *HangoutService) ListMine(ctx context.Context, owner entity.Owner) ([]dto.HangoutResponse, *errors.AppError) {
	hangouts, err := s.hangouts.ListByOwner(ctx, s.pool, owner)
	if err != nil {
		return nil, errors.From(err)
	}

	result := make([]dto.HangoutResponse, 0, len(hangouts))
	for i := range hangouts {
		h := &hangouts[i]
		result = append(result, *dto.ToHangoutResponse(h, ConclusionTime(h.CreatedAt, h.Periods()), nil))
	}
	return result, nil
}

// Delete removes the hangout and, through ownership, every member, slot,
// suggestion and vote scoped to it. Leader only.
func (s *HangoutService) Delete(ctx context.Context, hangoutID string, owner entity.Owner) *errors.AppError {
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}
		if appErr := hc.RequireLeader(); appErr != nil {
			return appErr
		}
		return s.hangouts.Delete(ctx, q, hangoutID)
	})
	if err != nil {
		return errors.From(err)
	}

	s.sink.Publish(ctx, hangoutID, "hangout.deleted", nil, nil)
	return nil
}

// EditPeriods re-negotiates the stage budgets. Elapsed stages are immutable;
// the in-progress stage cannot shrink into the past. If the conclusion moved
// earlier, a best-effort prune of newly-invalid slots/suggestions is enqueued
// after commit.
func (s *HangoutService) EditPeriods(ctx context.Context, hangoutID string, owner entity.Owner, periods [3]int64) (*dto.ConclusionResponse, *errors.AppError) {
	var (
		newConclusion time.Time
		shrunk        bool
		actorID       uuid.UUID
	)
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}
		if appErr := hc.RequireLeader(); appErr != nil {
			return appErr
		}
		h := hc.Hangout
		if h.IsConcluded || h.CurrentStage == entity.StageConcluded {
			return errors.NewAppError(errors.ErrHangoutConcluded, "hangout already concluded", nil)
		}

		elapsed := hc.Now.Sub(h.StageControlAt).Milliseconds()
		if appErr := ValidatePeriodUpdate(h.CurrentStage, elapsed, h.Periods(), periods); appErr != nil {
			return appErr
		}

		oldConclusion := hc.Conclusion
		if err := s.hangouts.UpdatePeriods(ctx, q, hangoutID, periods); err != nil {
			return err
		}

		newConclusion = ConclusionTime(h.CreatedAt, periods)
		shrunk = newConclusion.Before(oldConclusion)
		actorID = hc.Member.ID
		return nil
	})
	if err != nil {
		return nil, errors.From(err)
	}

	// Post-commit hooks: pruning only removes data the new schedule already
	// invalidated, so it may commit separately.
	if shrunk {
		s.tasks.EnqueueStalePrune(hangoutID)
	}
	s.sink.Publish(ctx, hangoutID, "periods.updated", &actorID, map[string]any{
		"periods_ms":    periods,
		"conclusion_at": newConclusion,
	})

	return &dto.ConclusionResponse{ConclusionAt: newConclusion}, nil
}

// Advance moves the hangout to its next stage, freezing the closed stage's
// actual elapsed duration as its period.
func (s *HangoutService) Advance(ctx context.Context, hangoutID string, owner entity.Owner) (*dto.StageAdvanceResponse, *errors.AppError) {
	var (
		resp    *dto.StageAdvanceResponse
		actorID uuid.UUID
	)
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}
		if appErr := hc.RequireLeader(); appErr != nil {
			return appErr
		}

		suggestionCount := 0
		if hc.Hangout.CurrentStage == entity.StageSuggestions {
			n, err := s.suggestions.CountByHangout(ctx, q, hangoutID)
			if err != nil {
				return err
			}
			suggestionCount = n
		}

		if appErr := AdvanceStage(hc.Hangout, hc.Now, suggestionCount); appErr != nil {
			return appErr
		}
		if err := s.hangouts.UpdateStage(ctx, q, hc.Hangout); err != nil {
			return err
		}

		resp = &dto.StageAdvanceResponse{
			CurrentStage: int(hc.Hangout.CurrentStage),
			StageName:    hc.Hangout.CurrentStage.String(),
			ConclusionAt: ConclusionTime(hc.Hangout.CreatedAt, hc.Hangout.Periods()),
			IsConcluded:  hc.Hangout.IsConcluded,
		}
		actorID = hc.Member.ID
		return nil
	})
	if err != nil {
		return nil, errors.From(err)
	}

	// Freezing the actual elapsed duration can only move the conclusion
	// earlier, so the same pruning follow-up applies.
	s.tasks.EnqueueStalePrune(hangoutID)
	kind := "stage.advanced"
	if resp.IsConcluded {
		kind = "hangout.concluded"
	}
	s.sink.Publish(ctx, hangoutID, kind, &actorID, map[string]any{
		"current_stage": resp.CurrentStage,
		"stage_name":    resp.StageName,
		"conclusion_at": resp.ConclusionAt,
	})

	return resp, nil
}

// Conclusion is the pure read of the derived conclusion timestamp.
func (s *HangoutService) Conclusion(ctx context.Context, hangoutID string, owner entity.Owner) (*dto.ConclusionResponse, *errors.AppError) {
	hc, appErr := s.loader.Load(ctx, s.pool, hangoutID, owner, false)
	if appErr != nil {
		return nil, appErr
	}
	return &dto.ConclusionResponse{ConclusionAt: hc.Conclusion}, nil
}

// Join adds the caller as a member, checking the access password and the
// member ceiling under the transaction.
func (s *HangoutService) Join(ctx context.Context, hangoutID string, owner entity.Owner, displayName string, req *dto.JoinRequest) (*dto.MemberResponse, *errors.AppError) {
	var resp *dto.MemberResponse
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		h, err := s.hangouts.GetByIDForUpdate(ctx, q, hangoutID)
		if err != nil {
			return err
		}
		if h == nil {
			return errors.NewAppError(errors.ErrNotFound, "hangout not found", nil)
		}
		if h.IsConcluded {
			return errors.NewAppError(errors.ErrHangoutConcluded, "hangout already concluded", nil)
		}

		existing, err := s.members.GetByHangoutAndOwner(ctx, q, hangoutID, owner)
		if err != nil {
			return err
		}
		if existing != nil {
			return errors.NewAppError(errors.ErrAlreadyExists, "already a member of this hangout", nil)
		}

		if h.HasPassword() {
			plain, err := utils.DecryptPassword(s.passwordSecret, *h.PasswordCipher)
			if err != nil {
				logger.Error("HangoutService:Join:Decrypt", err)
				return errors.NewAppError(errors.ErrInternalServer, "internal server error", err)
			}
			if req == nil || req.Password != plain {
				return errors.NewAppError(errors.ErrWrongPassword, "wrong hangout password", nil)
			}
		}

		count, err := s.members.CountByHangout(ctx, q, hangoutID)
		if err != nil {
			return err
		}
		if count >= h.MemberLimit {
			return errors.NewAppError(errors.ErrHangoutFull, "hangout member limit reached", nil)
		}

		m := entity.NewMember(hangoutID, owner, displayName, false)
		if err := s.members.Insert(ctx, q, m); err != nil {
			return err
		}
		r := dto.ToMemberResponse(m)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, errors.From(err)
	}

	s.sink.Publish(ctx, hangoutID, "member.joined", &resp.ID, map[string]any{"display_name": resp.DisplayName})
	return resp, nil
}

// Leave removes the caller's membership. The last member leaving deletes the
// hangout; a leaving leader leaves the hangout leaderless (claimable).
func (s *HangoutService) Leave(ctx context.Context, hangoutID string, owner entity.Owner) *errors.AppError {
	var (
		deleted  bool
		memberID uuid.UUID
	)
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}
		memberID = hc.Member.ID

		if err := s.members.Delete(ctx, q, hc.Member.ID); err != nil {
			return err
		}

		remaining, err := s.members.CountByHangout(ctx, q, hangoutID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			deleted = true
			return s.hangouts.Delete(ctx, q, hangoutID)
		}
		return nil
	})
	if err != nil {
		return errors.From(err)
	}

	if deleted {
		s.sink.Publish(ctx, hangoutID, "hangout.deleted", nil, nil)
	} else {
		s.sink.Publish(ctx, hangoutID, "member.left", &memberID, nil)
	}
	return nil
}

// Kick removes another member. Leader only; the leader cannot kick themselves.
func (s *HangoutService) Kick(ctx context.Context, hangoutID string, owner entity.Owner, memberID uuid.UUID) *errors.AppError {
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}
		if appErr := hc.RequireLeader(); appErr != nil {
			return appErr
		}
		if hc.Member.ID == memberID {
			return errors.NewAppError(errors.ErrInvalidInput, "use leave to remove yourself", nil)
		}

		target, err := s.members.GetByID(ctx, q, memberID)
		if err != nil {
			return err
		}
		if target == nil || target.HangoutID != hangoutID {
			return errors.NewAppError(errors.ErrNotFound, "member not found", nil)
		}
		return s.members.Delete(ctx, q, memberID)
	})
	if err != nil {
		return errors.From(err)
	}

	s.sink.Publish(ctx, hangoutID, "member.kicked", &memberID, nil)
	return nil
}

// ClaimLeadership promotes the caller when the hangout has no leader.
func (s *HangoutService) ClaimLeadership(ctx context.Context, hangoutID string, owner entity.Owner) *errors.AppError {
	var memberID uuid.UUID
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}

		hasLeader, err := s.members.LeaderExists(ctx, q, hangoutID)
		if err != nil {
			return err
		}
		if hasLeader {
			return errors.NewAppError(errors.ErrLeaderExists, "this hangout already has a leader", nil)
		}

		memberID = hc.Member.ID
		return s.members.SetLeader(ctx, q, hc.Member.ID, true)
	})
	if err != nil {
		return errors.From(err)
	}

	s.sink.Publish(ctx, hangoutID, "leader.claimed", &memberID, nil)
	return nil
}

// RefreshDisplayName propagates an account rename to every membership
// snapshot owned by the account.
func (s *HangoutService) RefreshDisplayName(ctx context.Context, owner entity.Owner, name string) *errors.AppError {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "display name is required", nil)
	}
	if owner.Kind != utils.OwnerKindAccount {
		return errors.NewAppError(errors.ErrForbidden, "guests cannot rename their memberships", nil)
	}
	if err := s.members.UpdateDisplayNameByAccount(ctx, s.pool, owner.ID, name); err != nil {
		return errors.From(err)
	}
	return nil
}

// PruneStale deletes slots and suggestions whose start now falls before the
// hangout's conclusion. Runs in its own serializable transaction as the
// post-commit follow-up of period shrinks and stage advances; it only removes
// data the schedule change already invalidated.
func (s *HangoutService) PruneStale(ctx context.Context, hangoutID string) error {
	return s.db.InTx(ctx, func(q database.Queryer) error {
		h, err := s.hangouts.GetByIDForUpdate(ctx, q, hangoutID)
		if err != nil {
			return err
		}
		if h == nil {
			// Deleted in the meantime; nothing left to prune.
			return nil
		}

		cutoff := ConclusionTime(h.CreatedAt, h.Periods())
		slots, err := s.slots.DeleteStartingBefore(ctx, q, hangoutID, cutoff)
		if err != nil {
			return err
		}
		suggestions, err := s.suggestions.DeleteStartingBefore(ctx, q, hangoutID, cutoff)
		if err != nil {
			return err
		}
		if slots > 0 || suggestions > 0 {
			logger.Info("HangoutService:PruneStale",
				"hangout_id", hangoutID,
				"slots_deleted", slots,
				"suggestions_deleted", suggestions,
			)
		}
		return nil
	})
}

// ConcludeOverdue marks hangouts whose conclusion timestamp has passed as
// concluded. Invoked by the periodic sweep.
func (s *HangoutService) ConcludeOverdue(ctx context.Context) error {
	now, err := database.Now(ctx, s.pool)
	if err != nil {
		return err
	}
	ids, err := s.hangouts.ListOverdueIDs(ctx, s.pool, now)
	if err != nil {
		return err
	}

	for _, id := range ids {
		err := s.db.InTx(ctx, func(q database.Queryer) error {
			h, err := s.hangouts.GetByIDForUpdate(ctx, q, id)
			if err != nil {
				return err
			}
			if h == nil || h.IsConcluded {
				return nil
			}
			txNow, err := database.Now(ctx, q)
			if err != nil {
				return err
			}
			if ConclusionTime(h.CreatedAt, h.Periods()).After(txNow) {
				// A period edit raced the sweep; no longer overdue.
				return nil
			}

			h.CurrentStage = entity.StageConcluded
			h.IsConcluded = true
			h.StageControlAt = txNow
			return s.hangouts.UpdateStage(ctx, q, h)
		})
		if err != nil {
			logger.Error("HangoutService:ConcludeOverdue", "hangout_id", id, "error", err)
			continue
		}
		s.sink.Publish(ctx, id, "hangout.concluded", nil, nil)
	}
	return nil
}
