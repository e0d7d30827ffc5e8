package service

import (
	"fmt"
	"time"

	"hangout-api/core/constants"
	"hangout-api/core/errors"
	"hangout-api/modules/hangout/entity"
)

// Pure stage rules. Everything here is side-effect free; callers own the
// transaction and the clock.

// ConclusionTime is the single source of truth for when a hangout is over:
// creation time plus the three stage periods.
func ConclusionTime(createdAt time.Time, periods [3]int64) time.Time {
	total := periods[0] + periods[1] + periods[2]
	return createdAt.Add(time.Duration(total) * time.Millisecond)
}

// ValidatePeriods checks the period triple: each period a positive exact
// multiple of one day, day count in [1,7].
func ValidatePeriods(periods [3]int64) bool {
	for _, p := range periods {
		if !validDayPeriod(p) {
			return false
		}
	}
	return true
}

func validDayPeriod(p int64) bool {
	if p <= 0 || p%constants.DayMs != 0 {
		return false
	}
	days := p / constants.DayMs
	return days >= constants.MinStageDays && days <= constants.MaxStageDays
}

// ValidatePeriodUpdate enforces the period re-negotiation rules: fully
// elapsed stages are immutable, the in-progress stage cannot shrink into the
// past, and every current or future slot must remain a valid period. Elapsed
// slots are exempt from the day-multiple rule: an early advance freezes them
// to the actual elapsed duration, which is rarely a whole day.
func ValidatePeriodUpdate(current entity.Stage, elapsedMs int64, existing, updated [3]int64) *errors.AppError {
	for i := range updated {
		stage := entity.Stage(i + 1)
		if stage < current {
			// History is immutable.
			if updated[i] != existing[i] {
				return errors.NewAppError(errors.ErrPeriodHistoryImmutable,
					fmt.Sprintf("the %s period has already elapsed and cannot change", stage), nil)
			}
			continue
		}
		if !validDayPeriod(updated[i]) {
			return errors.NewAppError(errors.ErrInvalidPeriod,
				"each stage period must be a whole number of days between 1 and 7", nil)
		}
		if stage == current && updated[i] <= elapsedMs {
			return errors.NewAppError(errors.ErrPeriodElapsed,
				fmt.Sprintf("the %s period cannot shrink below the time already spent in it", stage), nil)
		}
	}
	return nil
}

// AdvanceStage closes the current stage: its period is rewritten to the
// actual elapsed duration, the stage increments and stage control resets to
// now. Closing the voting stage concludes the hangout. Leaving the
// suggestions stage with nothing to vote on is refused.
func AdvanceStage(h *entity.Hangout, now time.Time, suggestionCount int) *errors.AppError {
	if h.IsConcluded || h.CurrentStage == entity.StageConcluded {
		return errors.NewAppError(errors.ErrHangoutConcluded, "hangout already concluded", nil)
	}
	if h.CurrentStage == entity.StageSuggestions && suggestionCount == 0 {
		return errors.NewAppError(errors.ErrNoSuggestions,
			"cannot start voting without any suggestions", nil)
	}

	elapsed := now.Sub(h.StageControlAt).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}

	periods := h.Periods()
	periods[h.CurrentStage.PeriodIndex()] = elapsed
	h.SetPeriods(periods)

	closing := h.CurrentStage
	h.CurrentStage = h.CurrentStage.Next()
	h.StageControlAt = now
	if closing == entity.StageVoting {
		h.IsConcluded = true
	}
	return nil
}

// StageMismatch builds the wrong-stage rejection for an operation that
// requires a different stage. The reason code names the stage the hangout is
// actually in, so callers can distinguish "too early" from "too late".
func StageMismatch(current, required entity.Stage) *errors.AppError {
	direction := "no longer"
	if current < required {
		direction = "not yet"
	}
	msg := fmt.Sprintf("hangout is in the %s stage; this operation is %s available", current, direction)

	switch current {
	case entity.StageAvailability:
		return errors.NewAppError(errors.ErrInAvailabilityStage, msg, nil)
	case entity.StageSuggestions:
		return errors.NewAppError(errors.ErrInSuggestionsStage, msg, nil)
	case entity.StageVoting:
		return errors.NewAppError(errors.ErrInVotingStage, msg, nil)
	default:
		return errors.NewAppError(errors.ErrHangoutConcluded, "hangout already concluded", nil)
	}
}
