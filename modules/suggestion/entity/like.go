package entity

import (
	"time"

	"github.com/google/uuid"
)

// Like is a member's endorsement of a suggestion. At most one per member per
// suggestion; like and unlike are both idempotent.
type Like struct {
	ID           uuid.UUID `db:"id" json:"id"`
	HangoutID    string    `db:"hangout_id" json:"hangout_id"`
	MemberID     uuid.UUID `db:"member_id" json:"member_id"`
	SuggestionID uuid.UUID `db:"suggestion_id" json:"suggestion_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
