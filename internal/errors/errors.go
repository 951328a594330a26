// Package errors defines the service error taxonomy shared by the gateway
// and the backend services. Every user-visible failure is a ServiceError
// carrying a stable code and the HTTP status the boundary should answer with.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure.
type Code string

const (
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeForbidden        Code = "FORBIDDEN"
	CodeNotFound         Code = "NOT_FOUND"
	CodeRateLimited      Code = "RATE_LIMITED"
	CodeUnavailable      Code = "DEPENDENCY_UNAVAILABLE"
	CodeGatewayTimeout   Code = "DEPENDENCY_TIMEOUT"
	CodeBadGateway       Code = "BAD_GATEWAY"
	CodeUpstreamRejected Code = "UPSTREAM_REJECTED"
	CodeInternal         Code = "INTERNAL_ERROR"
)

// ServiceError is the canonical error type crossing package boundaries.
type ServiceError struct {
	Code       Code
	Message    string
	HTTPStatus int
	Details    map[string]interface{}
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// WithDetails attaches a key/value pair for the response body and logs.
func (e *ServiceError) WithDetails(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// GetServiceError returns the ServiceError in err's chain, or nil.
func GetServiceError(err error) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// Validation reports malformed client input.
func Validation(message string) *ServiceError {
	return &ServiceError{Code: CodeValidation, Message: message, HTTPStatus: http.StatusBadRequest}
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(message string) *ServiceError {
	return &ServiceError{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// Forbidden reports a valid credential with insufficient privileges.
func Forbidden(message string) *ServiceError {
	return &ServiceError{Code: CodeForbidden, Message: message, HTTPStatus: http.StatusForbidden}
}

// NotFound reports a missing route or record.
func NotFound(message string) *ServiceError {
	return &ServiceError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// RateLimitExceeded reports that the client exhausted its request budget.
func RateLimitExceeded(limit int, window string) *ServiceError {
	e := &ServiceError{
		Code:       CodeRateLimited,
		Message:    "Too many requests, please try again later",
		HTTPStatus: http.StatusTooManyRequests,
	}
	return e.WithDetails("limit", limit).WithDetails("window", window)
}

// Unavailable reports an unreachable downstream dependency.
func Unavailable(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeUnavailable, Message: message, HTTPStatus: http.StatusServiceUnavailable, Err: err}
}

// GatewayTimeout reports a downstream call that exceeded its deadline.
func GatewayTimeout(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeGatewayTimeout, Message: message, HTTPStatus: http.StatusGatewayTimeout, Err: err}
}

// BadGateway reports a transport failure that is neither refusal nor timeout.
func BadGateway(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeBadGateway, Message: message, HTTPStatus: http.StatusBadGateway, Err: err}
}

// UpstreamRejected reports an explicit business-rule refusal from a downstream.
func UpstreamRejected(message string) *ServiceError {
	return &ServiceError{Code: CodeUpstreamRejected, Message: message, HTTPStatus: http.StatusBadRequest}
}

// Internal reports an unexpected failure, including the detected-inconsistency
// case where an order store write fails after a successful reservation.
func Internal(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeInternal, Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
}
