package jukebox

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is the single error shape raised for any non-2xx backend
// response. Callers branch on this type, never on transport details.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s (status %d)", e.Title, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Title, e.StatusCode, e.Detail)
}

// problem is the RFC 7807-shaped body the backend writes on errors.
type problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// newAPIError decodes an error body into an APIError. Bodies that are not
// valid problem JSON fall back to a generic title with the raw text as
// detail, so the user always sees something.
func newAPIError(statusCode int, body []byte) *APIError {
	var p problem
	if err := json.Unmarshal(body, &p); err == nil && p.Title != "" {
		return &APIError{StatusCode: statusCode, Title: p.Title, Detail: p.Detail}
	}
	return &APIError{
		StatusCode: statusCode,
		Title:      "Unknown error",
		Detail:     strings.TrimSpace(string(body)),
	}
}
