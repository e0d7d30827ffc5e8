package constants

import "time"

// Database pool settings.
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Context keys.
const (
	ContextTokenData = "token_data"
)

// Stage period bounds. Periods are whole multiples of one day.
const (
	DayMs       = int64(24 * time.Hour / time.Millisecond)
	MinStageDays = 1
	MaxStageDays = 7
)

// Submission interval bounds.
const (
	MinIntervalLength = time.Hour
	MaxIntervalLength = 24 * time.Hour
	MaxMonthsAhead    = 6
)

// Per-owner ceilings.
const (
	MaxSlotsPerMember      = 10
	MaxSuggestionsPerHangout = 10
	MaxVotesPerMember      = 3
	MinMemberLimit         = 2
	MaxMemberLimit         = 20
)

// Vote eligibility: a voter needs an availability slot overlapping the
// suggestion by at least this much.
const VoteOverlapThreshold = time.Hour

// Asynq queue names.
const (
	QueueDefault = "default"
	QueueLow     = "low"
)
