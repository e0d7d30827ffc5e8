package entity

import (
	"time"

	"hangout-api/core/interval"

	"github.com/google/uuid"
)

// Slot is a member-declared availability interval [SlotStart, SlotEnd).
// Per member, slots never overlap.
type Slot struct {
	ID        uuid.UUID `db:"id" json:"id"`
	HangoutID string    `db:"hangout_id" json:"hangout_id"`
	MemberID  uuid.UUID `db:"member_id" json:"member_id"`
	SlotStart time.Time `db:"slot_start" json:"slot_start"`
	SlotEnd   time.Time `db:"slot_end" json:"slot_end"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (s *Slot) Span() interval.Span {
	return interval.Span{Start: s.SlotStart, End: s.SlotEnd}
}
