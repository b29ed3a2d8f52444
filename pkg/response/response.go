package response

import (
	"errors"
	"fmt"
)

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

//Error Codes
type ErrCode string

var (
	FAILED_REQUEST    ErrCode = "REQUEST_FAILED"
	BAD_REQUEST       ErrCode = "FAILED_TO_DECODE"
	NOT_FOUND         ErrCode = "NOT_FOUND"
	VALIDATION_FAILED ErrCode = "VALIDATION_FAILED"
	PROVIDER_FAILED   ErrCode = "PROVIDER_FAILED"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("invalid request")
	ErrProvider   = errors.New("calendar provider failed")
)

// ValidationError carries a field-level reason the caller can act on.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UserMessage extracts a message safe to show to the caller. Anything that
// is not a field-level validation problem collapses to the fallback.
func UserMessage(err error, fallback string) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	return fallback
}

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}
