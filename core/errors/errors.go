package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode is a machine-readable reason code carried alongside the human message.
type ErrorCode string

const (
	// Generic codes
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"

	// Membership / leadership
	ErrNotMember     ErrorCode = "NOT_MEMBER"
	ErrNotLeader     ErrorCode = "NOT_LEADER"
	ErrLeaderExists  ErrorCode = "LEADER_EXISTS"
	ErrHangoutFull   ErrorCode = "HANGOUT_FULL"
	ErrWrongPassword ErrorCode = "WRONG_PASSWORD"

	// Stage state machine
	ErrHangoutConcluded  ErrorCode = "HANGOUT_CONCLUDED"
	ErrInAvailabilityStage ErrorCode = "IN_AVAILABILITY_STAGE"
	ErrInSuggestionsStage  ErrorCode = "IN_SUGGESTIONS_STAGE"
	ErrInVotingStage       ErrorCode = "IN_VOTING_STAGE"
	ErrNoSuggestions       ErrorCode = "NO_SUGGESTIONS"

	// Stage periods
	ErrInvalidPeriod         ErrorCode = "INVALID_PERIOD"
	ErrPeriodHistoryImmutable ErrorCode = "PERIOD_HISTORY_IMMUTABLE"
	ErrPeriodElapsed          ErrorCode = "PERIOD_ALREADY_ELAPSED"

	// Submissions
	ErrIntervalLength     ErrorCode = "INTERVAL_LENGTH_OUT_OF_RANGE"
	ErrIntervalOutOfWindow ErrorCode = "INTERVAL_OUT_OF_WINDOW"
	ErrSlotOverlap         ErrorCode = "SLOT_OVERLAP"
	ErrSlotLimitReached    ErrorCode = "SLOT_LIMIT_REACHED"
	ErrSuggestionLimit     ErrorCode = "SUGGESTION_LIMIT_REACHED"
	ErrVoteLimitReached    ErrorCode = "VOTE_LIMIT_REACHED"
	ErrNoOverlappingSlot   ErrorCode = "NO_OVERLAPPING_SLOT"

	// Concurrency / consistency
	ErrStateConflict         ErrorCode = "STATE_CONFLICT"
	ErrSerializationConflict ErrorCode = "SERIALIZATION_CONFLICT"
)

// AppError is the error value returned by every service operation. Expected
// business conditions travel as values, never as panics.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// From normalizes any error into an *AppError, wrapping unknown errors as a
// generic internal error.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewAppError(ErrInternalServer, "internal server error", err)
}

// Retryable reports whether the caller may retry the operation as-is.
// Serialization conflicts are the only retryable class.
func (e *AppError) Retryable() bool {
	return e.Code == ErrSerializationConflict
}
