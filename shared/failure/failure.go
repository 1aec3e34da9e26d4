package failure

import (
	"errors"
	"net/http"
)

// Reasons are machine readable companions of a Failure code.
const (
	ReasonValidationError    = "validation_error"
	ReasonOccupancyExceeded  = "occupancy_exceeded"
	ReasonInvalidRequest     = "invalid_request"
	ReasonNotFound           = "not_found"
	ReasonRoomsUnavailable   = "rooms_unavailable"
	ReasonNotificationFailed = "notification_failed"
	ReasonPersistenceError   = "persistence_error"
	ReasonUnauthorized       = "unauthorized"
	ReasonForbidden          = "forbidden"
	ReasonConflict           = "conflict"
	ReasonInternal           = "internal_error"
)

// Failure is an error the client is allowed to see, carrying the HTTP status
// it maps to.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	cause   error
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions", Reason: ReasonForbidden}

func (e *Failure) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *Failure) Unwrap() error {
	return e.cause
}

func newFailure(code int, reason, message string) error {
	return &Failure{Code: code, Message: message, Reason: reason}
}

// BadRequest turns a decoding error into a 400. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return &Failure{Code: http.StatusBadRequest, Message: err.Error(), Reason: ReasonInvalidRequest, cause: err}
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, ReasonInvalidRequest, msg)
}

// ValidationError reports missing or malformed required input.
func ValidationError(msg string) error {
	return newFailure(http.StatusBadRequest, ReasonValidationError, msg)
}

// InvalidRequest reports malformed query or path parameters.
func InvalidRequest(msg string) error {
	return newFailure(http.StatusBadRequest, ReasonInvalidRequest, msg)
}

// OccupancyExceeded reports a guest count above what the requested rooms can hold.
func OccupancyExceeded(msg string) error {
	return newFailure(http.StatusUnprocessableEntity, ReasonOccupancyExceeded, msg)
}

// RoomsUnavailable reports that not enough rooms are free for the requested stay.
func RoomsUnavailable(msg string) error {
	return newFailure(http.StatusConflict, ReasonRoomsUnavailable, msg)
}

// PersistenceError hides a storage failure behind a generic message while keeping the cause for logs.
func PersistenceError(err error) error {
	if err == nil {
		return nil
	}

	return &Failure{
		Code:    http.StatusInternalServerError,
		Message: "storage is unavailable, please try again later",
		Reason:  ReasonPersistenceError,
		cause:   err,
	}
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, ReasonUnauthorized, msg)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, ReasonForbidden, msg)
}

func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, ReasonNotFound, msg)
}

func Conflict(msg string) error {
	return newFailure(http.StatusConflict, ReasonConflict, msg)
}

// GetCode returns the status of the first Failure in err's chain, or 500.
func GetCode(err error) int {
	if fail, ok := as(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetReason returns the reason of the first Failure in err's chain, or internal_error.
func GetReason(err error) string {
	if fail, ok := as(err); ok {
		return fail.Reason
	}

	return ReasonInternal
}

// IsFailure reports whether err carries a Failure meant for the caller.
func IsFailure(err error) bool {
	_, ok := as(err)

	return ok
}

func as(err error) (*Failure, bool) {
	var fail *Failure
	ok := errors.As(err, &fail)

	return fail, ok
}
