package dto

import (
	"time"

	"hangout-api/modules/availability/entity"

	"github.com/google/uuid"
)

type SlotRequest struct {
	SlotStart time.Time `json:"slot_start"`
	SlotEnd   time.Time `json:"slot_end"`
}

type SlotResponse struct {
	ID        uuid.UUID `json:"id"`
	MemberID  uuid.UUID `json:"member_id"`
	SlotStart time.Time `json:"slot_start"`
	SlotEnd   time.Time `json:"slot_end"`
	CreatedAt time.Time `json:"created_at"`
}

func ToSlotResponse(s *entity.Slot) *SlotResponse {
	return &SlotResponse{
		ID:        s.ID,
		MemberID:  s.MemberID,
		SlotStart: s.SlotStart,
		SlotEnd:   s.SlotEnd,
		CreatedAt: s.CreatedAt,
	}
}

func ToSlotResponses(slots []entity.Slot) []SlotResponse {
	result := make([]SlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *ToSlotResponse(&slots[i]))
	}
	return result
}
