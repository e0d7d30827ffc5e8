package entity

import (
	"time"

	"hangout-api/core/interval"

	"github.com/google/uuid"
)

// Suggestion is a member-proposed candidate interval for the hangout,
// votable once the voting stage begins. A major edit (start, end or title
// changed) invalidates every vote and like cast on it.
type Suggestion struct {
	ID          uuid.UUID `db:"id" json:"id"`
	HangoutID   string    `db:"hangout_id" json:"hangout_id"`
	MemberID    uuid.UUID `db:"member_id" json:"member_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	StartsAt    time.Time `db:"starts_at" json:"starts_at"`
	EndsAt      time.Time `db:"ends_at" json:"ends_at"`
	IsEdited    bool      `db:"is_edited" json:"is_edited"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (s *Suggestion) Span() interval.Span {
	return interval.Span{Start: s.StartsAt, End: s.EndsAt}
}

// MajorChange reports whether the new bounds or title differ from the
// current ones; description-only edits are minor.
func (s *Suggestion) MajorChange(title string, startsAt, endsAt time.Time) bool {
	return s.Title != title || !s.StartsAt.Equal(startsAt) || !s.EndsAt.Equal(endsAt)
}
