// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the service, with the message pulled
// out of the service's error envelope when present.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("manila: %s (HTTP %d, request-id %s)", e.Message, e.StatusCode, e.RequestID)
	}
	return fmt.Sprintf("manila: HTTP %d (request-id %s)", e.StatusCode, e.RequestID)
}

// Retryable reports whether the response signals a transient condition.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode == http.StatusTooManyRequests ||
		(e.StatusCode >= 500 && e.StatusCode <= 599)
}

// parseAPIError builds an APIError from a response body. Errors come wrapped
// as {"<fault>": {"message": "...", "code": 400}}; anything else is kept raw.
func parseAPIError(status int, requestID string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, RequestID: requestID, Body: body}

	var envelope map[string]struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, fault := range envelope {
			if fault.Message != "" {
				apiErr.Message = fault.Message
				break
			}
		}
	}
	return apiErr
}

func statusIs(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

// IsBadRequest reports whether err is a 400 from the service.
func IsBadRequest(err error) bool { return statusIs(err, http.StatusBadRequest) }

// IsUnauthorized reports whether err is a 401 from the service.
func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }

// IsForbidden reports whether err is a 403 from the service.
func IsForbidden(err error) bool { return statusIs(err, http.StatusForbidden) }

// IsConflict reports whether err is a 409 from the service.
func IsConflict(err error) bool { return statusIs(err, http.StatusConflict) }

// IsOverLimit reports whether err is a quota or rate 413/429 from the service.
func IsOverLimit(err error) bool {
	return statusIs(err, http.StatusRequestEntityTooLarge) ||
		statusIs(err, http.StatusTooManyRequests)
}
