package apperror

import (
	"errors"
	"net/http"
)

// Kind is the stable machine-readable tag sent to clients.
type Kind string

const (
	KindInternal      Kind = "Internal"
	KindQueryFailed   Kind = "QueryFailed"
	KindStorageFailed Kind = "StorageFailed"

	KindNotFound           Kind = "NotFound"
	KindConflict           Kind = "Conflict"
	KindInvalidInput       Kind = "InvalidInput"
	KindInvalidUUID        Kind = "InvalidUuid"
	KindPasswordMismatch   Kind = "PasswordMismatch"
	KindAdminAlreadyExists Kind = "AdminAlreadyExists"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindMissingContentType Kind = "MissingContentType"
	KindInvalidContentType Kind = "InvalidContentType"
	KindFileTooLarge       Kind = "FileTooLarge"

	KindUnauthenticated Kind = "Unauthenticated"
	KindUnauthorized    Kind = "Unauthorized"
	KindInvalidToken    Kind = "InvalidToken"
	KindMalformedHeader Kind = "MalformedAuthorizationHeader"
)

// Error carries a kind and a caller-safe message. The wrapped cause is for
// logs only and never reaches the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Extensions is picked up by the GraphQL executor and rendered under
// "extensions" in the error payload.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"kind": string(e.Kind)}
}

// Internal reports whether the error is an infrastructure failure.
func (e *Error) Internal() bool {
	switch e.Kind {
	case KindInternal, KindQueryFailed, KindStorageFailed:
		return true
	}
	return false
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func QueryFailed(err error) *Error {
	return Wrap(KindQueryFailed, "query failed", err)
}

func StorageFailed(err error) *Error {
	return Wrap(KindStorageFailed, "object storage request failed", err)
}

// From returns err as an *Error, wrapping anything unknown as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(KindInternal, "internal server error", err)
}

func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// HTTPStatus maps an error onto the status code used by the REST handlers.
func HTTPStatus(err error) int {
	switch From(err).Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindAdminAlreadyExists:
		return http.StatusConflict
	case KindInvalidInput, KindInvalidUUID, KindPasswordMismatch, KindMissingContentType,
		KindInvalidContentType, KindMalformedHeader:
		return http.StatusBadRequest
	case KindFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindUnauthenticated, KindInvalidToken, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body written for failed REST requests.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func ToResponse(err error) ErrorResponse {
	appErr := From(err)
	return ErrorResponse{Kind: string(appErr.Kind), Message: appErr.Message}
}
