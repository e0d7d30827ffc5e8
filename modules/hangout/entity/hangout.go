package entity

import (
	"time"
)

// Stage is the hangout lifecycle stage. Strictly ordered, forward-only.
type Stage int

const (
	StageAvailability Stage = iota + 1
	StageSuggestions
	StageVoting
	StageConcluded
)

func (s Stage) Valid() bool {
	return s >= StageAvailability && s <= StageConcluded
}

// HasPeriod reports whether the stage owns a period slot (concluded does not).
func (s Stage) HasPeriod() bool {
	return s >= StageAvailability && s <= StageVoting
}

// PeriodIndex maps a stage onto its slot in the period triple.
func (s Stage) PeriodIndex() int {
	return int(s) - 1
}

func (s Stage) Next() Stage {
	if s >= StageConcluded {
		return StageConcluded
	}
	return s + 1
}

func (s Stage) String() string {
	switch s {
	case StageAvailability:
		return "availability"
	case StageSuggestions:
		return "suggestions"
	case StageVoting:
		return "voting"
	case StageConcluded:
		return "concluded"
	default:
		return "unknown"
	}
}

// Hangout is a scheduling session progressing through stages toward a chosen
// time slot. Its ID embeds the creation timestamp; its conclusion timestamp is
// always derived from created_at plus the three periods, never stored.
type Hangout struct {
	ID                   string     `db:"id" json:"id"`
	Slug                 string     `db:"slug" json:"slug"`
	Title                string     `db:"title" json:"title"`
	PasswordCipher       *string    `db:"password_cipher" json:"-"`
	MemberLimit          int        `db:"member_limit" json:"member_limit"`
	AvailabilityPeriodMs int64      `db:"availability_period_ms" json:"availability_period_ms"`
	SuggestionsPeriodMs  int64      `db:"suggestions_period_ms" json:"suggestions_period_ms"`
	VotingPeriodMs       int64      `db:"voting_period_ms" json:"voting_period_ms"`
	CurrentStage         Stage      `db:"current_stage" json:"current_stage"`
	StageControlAt       time.Time  `db:"stage_control_at" json:"stage_control_at"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	IsConcluded          bool       `db:"is_concluded" json:"is_concluded"`
}

// Periods returns the stage period triple in milliseconds.
func (h *Hangout) Periods() [3]int64 {
	return [3]int64{h.AvailabilityPeriodMs, h.SuggestionsPeriodMs, h.VotingPeriodMs}
}

func (h *Hangout) SetPeriods(p [3]int64) {
	h.AvailabilityPeriodMs = p[0]
	h.SuggestionsPeriodMs = p[1]
	h.VotingPeriodMs = p[2]
}

// HasPassword reports whether joining requires the access password.
func (h *Hangout) HasPassword() bool {
	return h.PasswordCipher != nil && *h.PasswordCipher != ""
}
