package controller

import (
	"net/http"
	"time"

	"hangout-api/core/errors"
	"hangout-api/core/logger"

	"github.com/labstack/echo/v4"
)

// Response types
type (
	SuccessResponse struct {
		Status    int       `json:"status"`
		Message   string    `json:"message"`
		Data      any       `json:"data,omitempty"`
		Timestamp time.Time `json:"timestamp"`
	}

	ErrorResponse struct {
		Status    string           `json:"status"`
		Code      errors.ErrorCode `json:"code"`
		Message   string           `json:"message"`
		Details   any              `json:"details,omitempty"`
		Timestamp time.Time        `json:"timestamp"`
	}
)

// BaseController translates service results into transport responses.
type BaseController interface {
	BadRequest(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	Unauthorized(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	SuccessResponse(c echo.Context, data any, message string) error
	ErrorResponse(c echo.Context, err *errors.AppError) error
}

type responseHandler struct{}

func NewBaseController() BaseController {
	return &responseHandler{}
}

func NewSuccessResponse(httpStatusCode int, data any, message string) *SuccessResponse {
	return &SuccessResponse{
		Status:    httpStatusCode,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func NewErrorResponse(httpStatusCode int, appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	err := &ErrorResponse{
		Status:    "error",
		Code:      appErrCode,
		Message:   message,
		Timestamp: time.Now(),
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return echo.NewHTTPError(httpStatusCode, err)
}

func (h *responseHandler) BadRequest(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusBadRequest, appErrCode, message, details...)
}

func (h *responseHandler) Unauthorized(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusUnauthorized, appErrCode, message, details...)
}

func (h *responseHandler) SuccessResponse(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusOK, NewSuccessResponse(http.StatusOK, data, message))
}

// statusFor draws the line between business-rule violations (4xx, specific
// code) and bug/race conditions (5xx, generic code).
func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrInvalidInput, errors.ErrInvalidRequestData,
		errors.ErrInvalidPeriod, errors.ErrPeriodHistoryImmutable, errors.ErrPeriodElapsed,
		errors.ErrIntervalLength, errors.ErrIntervalOutOfWindow:
		return http.StatusBadRequest
	case errors.ErrUnauthorized, errors.ErrTokenExpired,
		errors.ErrInvalidTokenFormat, errors.ErrMissingAuthorizationHeader,
		errors.ErrWrongPassword:
		return http.StatusUnauthorized
	case errors.ErrForbidden, errors.ErrNotMember, errors.ErrNotLeader:
		return http.StatusForbidden
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrAlreadyExists, errors.ErrLeaderExists, errors.ErrHangoutFull,
		errors.ErrHangoutConcluded, errors.ErrInAvailabilityStage,
		errors.ErrInSuggestionsStage, errors.ErrInVotingStage, errors.ErrNoSuggestions,
		errors.ErrSlotOverlap, errors.ErrSlotLimitReached, errors.ErrSuggestionLimit,
		errors.ErrVoteLimitReached, errors.ErrNoOverlappingSlot:
		return http.StatusConflict
	case errors.ErrSerializationConflict:
		// Retryable by the caller.
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *responseHandler) ErrorResponse(c echo.Context, appErr *errors.AppError) error {
	httpStatus := http.StatusInternalServerError
	appCode := errors.ErrInternalServer
	msg := "internal server error"

	if appErr != nil {
		appCode = appErr.Code
		if appErr.Message != "" {
			msg = appErr.Message
		}
		httpStatus = statusFor(appCode)
		// Reason-for-investigation failures keep a generic client message.
		if httpStatus == http.StatusInternalServerError {
			msg = "internal server error"
		}
	}

	logger.Error("BaseController:ErrorResponse",
		"status", httpStatus,
		"code", appCode,
		"message", msg,
	)
	return c.JSON(httpStatus, NewErrorResponse(httpStatus, appCode, msg))
}
