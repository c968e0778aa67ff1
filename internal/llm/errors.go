// Package llm - errors.go classifies provider failures for retry decisions.
package llm

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
)

// ServiceError indicates the text-generation service failed or was unreachable.
type ServiceError struct {
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("llm service error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("llm service error: %s", e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// RateLimitError indicates the provider rejected the call for quota reasons.
type RateLimitError struct {
	Message string
	Cause   error
}

func (e *RateLimitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("llm rate limit: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("llm rate limit: %s", e.Message)
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// classifyError wraps a raw provider error into ServiceError or RateLimitError.
func classifyError(message string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 {
			return &RateLimitError{Message: message, Cause: err}
		}
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "resource_exhausted") || strings.Contains(lower, "resource exhausted") {
		return &RateLimitError{Message: message, Cause: err}
	}

	return &ServiceError{Message: message, Cause: err}
}

// IsTransient reports whether the error is worth one retry: rate limits,
// 5xx responses, and network-level failures qualify.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code >= 500 || apiErr.Code == 429
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		lower := strings.ToLower(svcErr.Error())
		for _, marker := range []string{"timeout", "deadline", "connection", "unavailable", "temporar", "eof"} {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}

	return false
}
