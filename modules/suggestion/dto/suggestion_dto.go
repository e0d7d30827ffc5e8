package dto

import (
	"time"

	"hangout-api/modules/suggestion/entity"

	"github.com/google/uuid"
)

type SuggestionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
}

type SuggestionResponse struct {
	ID          uuid.UUID `json:"id"`
	HangoutID   string    `json:"hangoutId"`
	MemberID    uuid.UUID `json:"memberId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	IsEdited    bool      `json:"isEdited"`
	LikeCount   int       `json:"likeCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UpdateResponse carries the edited suggestion plus whether the edit was a
// major one that reset its votes and likes.
type UpdateResponse struct {
	Suggestion  SuggestionResponse `json:"suggestion"`
	MajorChange bool               `json:"majorChange"`
}

func ToSuggestionResponse(s *entity.Suggestion, likeCount int) SuggestionResponse {
	return SuggestionResponse{
		ID:          s.ID,
		HangoutID:   s.HangoutID,
		MemberID:    s.MemberID,
		Title:       s.Title,
		Description: s.Description,
		StartsAt:    s.StartsAt,
		EndsAt:      s.EndsAt,
		IsEdited:    s.IsEdited,
		LikeCount:   likeCount,
		CreatedAt:   s.CreatedAt,
	}
}
