package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int

	// Detail is the backend's "detail" message, or the raw body when the
	// response carries field errors or is not JSON.
	Detail string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, http.StatusText(e.StatusCode), e.Detail)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// parseDetail extracts a readable message from an error body. The backend
// sends either {"detail": "..."} or a map of field errors.
func parseDetail(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return detail.Detail
	}

	var fields map[string][]string
	if err := json.Unmarshal(body, &fields); err == nil && len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for field, msgs := range fields {
			parts = append(parts, field+": "+strings.Join(msgs, " "))
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}

	return trimmed
}
