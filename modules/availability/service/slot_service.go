package service

import (
	"context"

	"hangout-api/core/constants"
	"hangout-api/core/database"
	"hangout-api/core/errors"
	"hangout-api/core/interval"
	"hangout-api/modules/availability/dto"
	"hangout-api/modules/availability/entity"
	"hangout-api/modules/availability/repository"
	hangoutEntity "hangout-api/modules/hangout/entity"
	hangoutService "hangout-api/modules/hangout/service"

	"github.com/google/uuid"
)

// SlotService handles availability slot submissions, gated on the
// availability stage.
type SlotService struct {
	db     database.TxRunner
	pool   database.Queryer
	slots  repository.SlotRepositoryInterface
	loader *hangoutService.ContextLoader
	sink   hangoutService.EventSink
}

// SlotServiceInterface defines the service contract.
type SlotServiceInterface interface {
	Create(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, req *dto.SlotRequest) (*dto.SlotResponse, *errors.AppError)
	Update(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, slotID uuid.UUID, req *dto.SlotRequest) (*dto.SlotResponse, *errors.AppError)
	Delete(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, slotID uuid.UUID) *errors.AppError
	ListMine(ctx context.Context, hangoutID string, owner hangoutEntity.Owner) ([]dto.SlotResponse, *errors.AppError)
	ListAll(ctx context.Context, hangoutID string, owner hangoutEntity.Owner) ([]dto.SlotResponse, *errors.AppError)
}

func NewSlotService(
	db database.TxRunner,
	pool database.Queryer,
	slots repository.SlotRepositoryInterface,
	loader *hangoutService.ContextLoader,
	sink hangoutService.EventSink,
) SlotServiceInterface {
	return &SlotService{db: db, pool: pool, slots: slots, loader: loader, sink: sink}
}

// validate runs the shared submission checks: stage gate, interval shape and
// window, then the overlap scan against the member's other slots.
func (s *SlotService) validate(ctx context.Context, q database.Queryer, hc *hangoutService.HangoutContext, span interval.Span, excludeID uuid.UUID) *errors.AppError {
	if appErr := hc.RequireStage(hangoutEntity.StageAvailability); appErr != nil {
		return appErr
	}
	if appErr := hangoutService.ValidateSubmissionSpan(span, hc.Conclusion); appErr != nil {
		return appErr
	}

	existing, err := s.slots.ListByMember(ctx, q, hc.Hangout.ID, hc.Member.ID)
	if err != nil {
		return errors.From(err)
	}
	spans := make([]interval.Span, 0, len(existing))
	for i := range existing {
		if existing[i].ID == excludeID {
			continue
		}
		spans = append(spans, existing[i].Span())
	}
	if interval.OverlapIndex(spans, span) >= 0 {
		return errors.NewAppError(errors.ErrSlotOverlap, "interval overlaps one of your existing slots", nil)
	}
	return nil
}

// Create adds an availability slot for the calling member.
func (s *SlotService) Create(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, req *dto.SlotRequest) (*dto.SlotResponse, *errors.AppError) {
	span := interval.Span{Start: req.SlotStart, End: req.SlotEnd}

	var resp *dto.SlotResponse
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}
		if appErr := s.validate(ctx, q, hc, span, uuid.Nil); appErr != nil {
			return appErr
		}

		count, err := s.slots.CountByMember(ctx, q, hangoutID, hc.Member.ID)
		if err != nil {
			return err
		}
		if count >= constants.MaxSlotsPerMember {
			return errors.NewAppError(errors.ErrSlotLimitReached, "availability slot limit reached", nil)
		}

		slot := &entity.Slot{
			ID:        uuid.New(),
			HangoutID: hangoutID,
			MemberID:  hc.Member.ID,
			SlotStart: span.Start,
			SlotEnd:   span.End,
			CreatedAt: hc.Now,
		}
		if err := s.slots.Insert(ctx, q, slot); err != nil {
			return err
		}
		resp = dto.ToSlotResponse(slot)
		return nil
	})
	if err != nil {
		return nil, errors.From(err)
	}

	s.sink.Publish(ctx, hangoutID, "slot.created", &resp.MemberID, map[string]any{
		"slot_id":    resp.ID,
		"slot_start": resp.SlotStart,
		"slot_end":   resp.SlotEnd,
	})
	return resp, nil
}

// Update edits an existing slot; the overlap re-check excludes the slot being
// edited.
func (s *SlotService) Update(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, slotID uuid.UUID, req *dto.SlotRequest) (*dto.SlotResponse, *errors.AppError) {
	span := interval.Span{Start: req.SlotStart, End: req.SlotEnd}

	var resp *dto.SlotResponse
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}

		slot, err := s.slots.GetByID(ctx, q, slotID)
		if err != nil {
			return err
		}
		if slot == nil || slot.HangoutID != hangoutID {
			return errors.NewAppError(errors.ErrNotFound, "slot not found", nil)
		}
		if slot.MemberID != hc.Member.ID {
			return errors.NewAppError(errors.ErrForbidden, "you can only edit your own slots", nil)
		}

		if appErr := s.validate(ctx, q, hc, span, slotID); appErr != nil {
			return appErr
		}

		slot.SlotStart = span.Start
		slot.SlotEnd = span.End
		if err := s.slots.Update(ctx, q, slot); err != nil {
			return err
		}
		resp = dto.ToSlotResponse(slot)
		return nil
	})
	if err != nil {
		return nil, errors.From(err)
	}

	s.sink.Publish(ctx, hangoutID, "slot.updated", &resp.MemberID, map[string]any{"slot_id": resp.ID})
	return resp, nil
}

// Delete removes the caller's slot. Availability stage only.
func (s *SlotService) Delete(ctx context.Context, hangoutID string, owner hangoutEntity.Owner, slotID uuid.UUID) *errors.AppError {
	var memberID uuid.UUID
	err := s.db.InTx(ctx, func(q database.Queryer) error {
		hc, appErr := s.loader.Load(ctx, q, hangoutID, owner, true)
		if appErr != nil {
			return appErr
		}
		if appErr := hc.RequireStage(hangoutEntity.StageAvailability); appErr != nil {
			return appErr
		}

		slot, err := s.slots.GetByID(ctx, q, slotID)
		if err != nil {
			return err
		}
		if slot == nil || slot.HangoutID != hangoutID {
			return errors.NewAppError(errors.ErrNotFound, "slot not found", nil)
		}
		if slot.MemberID != hc.Member.ID {
			return errors.NewAppError(errors.ErrForbidden, "you can only delete your own slots", nil)
		}

		memberID = hc.Member.ID
		return s.slots.Delete(ctx, q, slotID)
	})
	if err != nil {
		return errors.From(err)
	}

	s.sink.Publish(ctx, hangoutID, "slot.deleted", &memberID, map[string]any{"slot_id": slotID})
	return nil
}

func (s *SlotService) ListMine(ctx context.Context, hangoutID string, owner hangoutEntity.Owner) ([]dto.SlotResponse, *errors.AppError) {
	hc, appErr := s.loader.Load(ctx, s.pool, hangoutID, owner, false)
	if appErr != nil {
		return nil, appErr
	}
	slots, err := s.slots.ListByMember(ctx, s.pool, hangoutID, hc.Member.ID)
	if err != nil {
		return nil, errors.From(err)
	}
	return dto.ToSlotResponses(slots), nil
}

func (s *SlotService) ListAll(ctx context.Context, hangoutID string, owner hangoutEntity.Owner) ([]dto.SlotResponse, *errors.AppError) {
	if _, appErr := s.loader.Load(ctx, s.pool, hangoutID, owner, false); appErr != nil {
		return nil, appErr
	}
	slots, err := s.slots.ListByHangout(ctx, s.pool, hangoutID)
	if err != nil {
		return nil, errors.From(err)
	}
	return dto.ToSlotResponses(slots), nil
}
