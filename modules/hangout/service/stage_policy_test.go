package service

import (
	"testing"
	"time"

	"hangout-api/core/constants"
	"hangout-api/core/errors"
	"hangout-api/modules/hangout/entity"
)

const day = constants.DayMs

var createdAt = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

func TestValidatePeriods(t *testing.T) {
	tests := []struct {
		name    string
		periods [3]int64
		want    bool
	}{
		{"one day each", [3]int64{day, day, day}, true},
		{"seven days max", [3]int64{7 * day, day, day}, true},
		{"mixed valid", [3]int64{2 * day, 5 * day, 3 * day}, true},
		{"zero period", [3]int64{0, day, day}, false},
		{"negative period", [3]int64{-day, day, day}, false},
		{"not a day multiple", [3]int64{day + 1, day, day}, false},
		{"half day", [3]int64{day / 2, day, day}, false},
		{"eight days", [3]int64{8 * day, day, day}, false},
		{"violation in middle slot", [3]int64{day, 9 * day, day}, false},
		{"violation in last slot", [3]int64{day, day, day - 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePeriods(tt.periods); got != tt.want {
				t.Errorf("ValidatePeriods(%v) = %v, want %v", tt.periods, got, tt.want)
			}
		})
	}
}

func TestConclusionTime(t *testing.T) {
	got := ConclusionTime(createdAt, [3]int64{day, 2 * day, 3 * day})
	want := createdAt.Add(6 * 24 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("ConclusionTime() = %v, want %v", got, want)
	}
}

func TestValidatePeriodUpdate(t *testing.T) {
	existing := [3]int64{2 * day, 2 * day, 2 * day}

	tests := []struct {
		name     string
		current  entity.Stage
		elapsed  int64
		updated  [3]int64
		wantCode errors.ErrorCode
	}{
		{"extend future stages", entity.StageAvailability, day, [3]int64{3 * day, 5 * day, 7 * day}, ""},
		{"extend current stage", entity.StageSuggestions, day, [3]int64{2 * day, 4 * day, 2 * day}, ""},
		{"shrink current above elapsed", entity.StageSuggestions, day / 2, [3]int64{2 * day, day, 2 * day}, ""},
		{"invalid shape rejected first", entity.StageAvailability, 0, [3]int64{day + 5, day, day}, errors.ErrInvalidPeriod},
		{"rewrite elapsed stage", entity.StageSuggestions, 0, [3]int64{3 * day, 2 * day, 2 * day}, errors.ErrPeriodHistoryImmutable},
		{"rewrite any elapsed stage", entity.StageVoting, 0, [3]int64{2 * day, day, 2 * day}, errors.ErrPeriodHistoryImmutable},
		{"current equal to elapsed", entity.StageSuggestions, day, [3]int64{2 * day, day, 2 * day}, errors.ErrPeriodElapsed},
		{"current below elapsed", entity.StageVoting, 2 * day, [3]int64{2 * day, 2 * day, day}, errors.ErrPeriodElapsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePeriodUpdate(tt.current, tt.elapsed, existing, tt.updated)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("ValidatePeriodUpdate() = %v, want nil", err)
				}
				return
			}
			if err == nil || err.Code != tt.wantCode {
				t.Fatalf("ValidatePeriodUpdate() = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestValidatePeriodUpdateKeepsFrozenHistory(t *testing.T) {
	// An early advance froze the availability period to six hours. Editing the
	// remaining periods must still work as long as history is untouched.
	frozen := [3]int64{(6 * time.Hour).Milliseconds(), 2 * day, 2 * day}
	updated := [3]int64{(6 * time.Hour).Milliseconds(), 4 * day, 3 * day}

	if err := ValidatePeriodUpdate(entity.StageSuggestions, day, frozen, updated); err != nil {
		t.Fatalf("ValidatePeriodUpdate() with frozen history = %v, want nil", err)
	}
}

func newHangout(stage entity.Stage, stageControl time.Time) *entity.Hangout {
	return &entity.Hangout{
		ID:                   "test",
		CurrentStage:         stage,
		StageControlAt:       stageControl,
		CreatedAt:            createdAt,
		AvailabilityPeriodMs: day,
		SuggestionsPeriodMs:  day,
		VotingPeriodMs:       day,
	}
}

func TestAdvanceStageFreezesElapsed(t *testing.T) {
	h := newHangout(entity.StageAvailability, createdAt)
	now := createdAt.Add(6 * time.Hour)

	if err := AdvanceStage(h, now, 0); err != nil {
		t.Fatalf("AdvanceStage() = %v", err)
	}
	if h.CurrentStage != entity.StageSuggestions {
		t.Errorf("stage = %v, want suggestions", h.CurrentStage)
	}
	if h.AvailabilityPeriodMs != (6 * time.Hour).Milliseconds() {
		t.Errorf("availability period = %d, want actual elapsed %d",
			h.AvailabilityPeriodMs, (6 * time.Hour).Milliseconds())
	}
	if !h.StageControlAt.Equal(now) {
		t.Errorf("stage control = %v, want %v", h.StageControlAt, now)
	}
	if h.IsConcluded {
		t.Error("hangout should not be concluded")
	}
}

func TestAdvanceStageSuggestionsGuard(t *testing.T) {
	h := newHangout(entity.StageSuggestions, createdAt)
	now := createdAt.Add(time.Hour)

	err := AdvanceStage(h, now, 0)
	if err == nil || err.Code != errors.ErrNoSuggestions {
		t.Fatalf("AdvanceStage() = %v, want NO_SUGGESTIONS", err)
	}
	if h.CurrentStage != entity.StageSuggestions {
		t.Error("refused advance must not mutate the stage")
	}

	if err := AdvanceStage(h, now, 1); err != nil {
		t.Fatalf("AdvanceStage() with suggestions = %v", err)
	}
	if h.CurrentStage != entity.StageVoting {
		t.Errorf("stage = %v, want voting", h.CurrentStage)
	}
	if h.SuggestionsPeriodMs != time.Hour.Milliseconds() {
		t.Errorf("suggestions period = %d, want frozen elapsed", h.SuggestionsPeriodMs)
	}
}

func TestAdvanceStageOutOfVotingConcludes(t *testing.T) {
	h := newHangout(entity.StageVoting, createdAt)
	now := createdAt.Add(time.Hour)

	if err := AdvanceStage(h, now, 3); err != nil {
		t.Fatalf("AdvanceStage() = %v", err)
	}
	if h.CurrentStage != entity.StageConcluded {
		t.Errorf("stage = %v, want concluded", h.CurrentStage)
	}
	if !h.IsConcluded {
		t.Error("is_concluded must be set when voting closes")
	}
}

func TestAdvanceStageConcludedRefused(t *testing.T) {
	h := newHangout(entity.StageConcluded, createdAt)
	h.IsConcluded = true

	err := AdvanceStage(h, createdAt.Add(time.Hour), 5)
	if err == nil || err.Code != errors.ErrHangoutConcluded {
		t.Fatalf("AdvanceStage() = %v, want HANGOUT_CONCLUDED", err)
	}
}

func TestStageMismatchDirection(t *testing.T) {
	tests := []struct {
		name     string
		current  entity.Stage
		required entity.Stage
		wantCode errors.ErrorCode
	}{
		{"too early for voting", entity.StageAvailability, entity.StageVoting, errors.ErrInAvailabilityStage},
		{"too early for suggestions", entity.StageAvailability, entity.StageSuggestions, errors.ErrInAvailabilityStage},
		{"too late for slots", entity.StageVoting, entity.StageAvailability, errors.ErrInVotingStage},
		{"too late for suggestions", entity.StageVoting, entity.StageSuggestions, errors.ErrInVotingStage},
		{"suggestions stage named", entity.StageSuggestions, entity.StageVoting, errors.ErrInSuggestionsStage},
		{"concluded", entity.StageConcluded, entity.StageVoting, errors.ErrHangoutConcluded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := StageMismatch(tt.current, tt.required)
			if err == nil || err.Code != tt.wantCode {
				t.Errorf("StageMismatch(%v, %v) = %v, want %s", tt.current, tt.required, err, tt.wantCode)
			}
		})
	}
}
