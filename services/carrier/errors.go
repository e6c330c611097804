package carrier

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIErrorDetail is one entry of the carrier's structured error list.
type APIErrorDetail struct {
	Status int    `json:"status"`
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// APIError carries the carrier's error list verbatim for a non-2xx
// response. The client never retries; callers decide what to do.
type APIError struct {
	StatusCode int
	Errors     []APIErrorDetail
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("carrier returned status %d", e.StatusCode)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, d := range e.Errors {
		if d.Detail != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", d.Title, d.Detail))
		} else {
			parts = append(parts, d.Title)
		}
	}
	return fmt.Sprintf("carrier returned status %d: %s", e.StatusCode, strings.Join(parts, "; "))
}

func decodeAPIError(status int, raw []byte) *APIError {
	var body struct {
		Errors []APIErrorDetail `json:"errors"`
	}
	// A non-JSON error body still yields a usable APIError.
	_ = json.Unmarshal(raw, &body)
	return &APIError{StatusCode: status, Errors: body.Errors}
}
