package dto

import (
	"time"

	"hangout-api/modules/hangout/entity"

	"github.com/google/uuid"
)

type CreateHangoutRequest struct {
	Title       string   `json:"title"`
	PeriodsMs   [3]int64 `json:"periods_ms"`
	MemberLimit int      `json:"member_limit"`
	Password    string   `json:"password,omitempty"`
}

type UpdatePeriodsRequest struct {
	PeriodsMs [3]int64 `json:"periods_ms"`
}

type JoinRequest struct {
	Password string `json:"password,omitempty"`
}

type RefreshDisplayNameRequest struct {
	DisplayName string `json:"display_name"`
}

type MemberResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	IsLeader    bool      `json:"is_leader"`
	OwnerKind   string    `json:"owner_kind"`
}

type HangoutResponse struct {
	ID             string           `json:"id"`
	Slug           string           `json:"slug"`
	Title          string           `json:"title"`
	MemberLimit    int              `json:"member_limit"`
	PeriodsMs      [3]int64         `json:"periods_ms"`
	CurrentStage   int              `json:"current_stage"`
	StageName      string           `json:"stage_name"`
	StageControlAt time.Time        `json:"stage_control_at"`
	CreatedAt      time.Time        `json:"created_at"`
	ConclusionAt   time.Time        `json:"conclusion_at"`
	IsConcluded    bool             `json:"is_concluded"`
	HasPassword    bool             `json:"has_password"`
	Members        []MemberResponse `json:"members,omitempty"`
}

type ConclusionResponse struct {
	ConclusionAt time.Time `json:"conclusion_at"`
}

type StageAdvanceResponse struct {
	CurrentStage int       `json:"current_stage"`
	StageName    string    `json:"stage_name"`
	ConclusionAt time.Time `json:"conclusion_at"`
	IsConcluded  bool      `json:"is_concluded"`
}

func ToMemberResponse(m *entity.Member) MemberResponse {
	return MemberResponse{
		ID:          m.ID,
		DisplayName: m.DisplayName,
		IsLeader:    m.IsLeader,
		OwnerKind:   string(m.Owner().Kind),
	}
}

func ToHangoutResponse(h *entity.Hangout, conclusion time.Time, members []entity.Member) *HangoutResponse {
	resp := &HangoutResponse{
		ID:             h.ID,
		Slug:           h.Slug,
		Title:          h.Title,
		MemberLimit:    h.MemberLimit,
		PeriodsMs:      h.Periods(),
		CurrentStage:   int(h.CurrentStage),
		StageName:      h.CurrentStage.String(),
		StageControlAt: h.StageControlAt,
		CreatedAt:      h.CreatedAt,
		ConclusionAt:   conclusion,
		IsConcluded:    h.IsConcluded,
		HasPassword:    h.HasPassword(),
	}
	for i := range members {
		resp.Members = append(resp.Members, ToMemberResponse(&members[i]))
	}
	return resp
}
