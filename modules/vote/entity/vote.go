package entity

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one member's vote for one suggestion. A member votes a given
// suggestion at most once; the (member_id, suggestion_id) pair is unique.
type Vote struct {
	ID           uuid.UUID `db:"id" json:"id"`
	HangoutID    string    `db:"hangout_id" json:"hangoutId"`
	MemberID     uuid.UUID `db:"member_id" json:"memberId"`
	SuggestionID uuid.UUID `db:"suggestion_id" json:"suggestionId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
