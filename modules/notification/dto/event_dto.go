package dto

import (
	"time"

	"hangout-api/modules/notification/entity"

	"github.com/google/uuid"
)

type EventResponse struct {
	ID            uuid.UUID      `json:"id"`
	Kind          string         `json:"kind"`
	ActorMemberID *uuid.UUID     `json:"actorMemberId,omitempty"`
	Payload       map[string]any `json:"payload"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func ToEventResponse(e *entity.HangoutEvent) EventResponse {
	return EventResponse{
		ID:            e.ID,
		Kind:          e.Kind,
		ActorMemberID: e.ActorMemberID,
		Payload:       e.Payload,
		CreatedAt:     e.CreatedAt,
	}
}

func ToEventResponses(events []entity.HangoutEvent) []EventResponse {
	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, ToEventResponse(&events[i]))
	}
	return responses
}
