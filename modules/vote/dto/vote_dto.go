package dto

import (
	"time"

	"hangout-api/modules/vote/entity"

	"github.com/google/uuid"
)

type VoteResponse struct {
	ID           uuid.UUID `json:"id"`
	MemberID     uuid.UUID `json:"memberId"`
	SuggestionID uuid.UUID `json:"suggestionId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TallyResponse is the per-suggestion vote count for the hangout.
type TallyResponse struct {
	SuggestionID uuid.UUID `json:"suggestionId"`
	Votes        int       `json:"votes"`
}

func ToVoteResponse(v *entity.Vote) VoteResponse {
	return VoteResponse{
		ID:           v.ID,
		MemberID:     v.MemberID,
		SuggestionID: v.SuggestionID,
		CreatedAt:    v.CreatedAt,
	}
}

func ToVoteResponses(votes []entity.Vote) []VoteResponse {
	responses := make([]VoteResponse, 0, len(votes))
	for i := range votes {
		responses = append(responses, ToVoteResponse(&votes[i]))
	}
	return responses
}
