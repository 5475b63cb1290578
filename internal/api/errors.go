package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnexpectedShape means the server answered 2xx with JSON of the wrong
	// shape, e.g. an object where a list was expected.
	ErrUnexpectedShape = errors.New("unexpected response shape")

	// ErrEmptyComment is returned before any request when a comment is blank.
	ErrEmptyComment = errors.New("comment text is required")

	// ErrMissingCredentials is returned before any request when the username
	// or password is blank.
	ErrMissingCredentials = errors.New("username and password are required")

	// ErrNoAccessToken means the login response carried no token.
	ErrNoAccessToken = errors.New("login response has no access token")

	// ErrNotAuthenticated means no session token is stored.
	ErrNotAuthenticated = errors.New("not logged in, run 'catalog login'")
)

// APIError is a non-2xx response from the backend
type APIError struct {
	Status int
	Detail string
	Method string
	Path   string
}

func (e *APIError) Error() string {
	detail := e.Detail
	if detail == "" {
		detail = http.StatusText(e.Status)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, detail)
	}
	return fmt.Sprintf("%d %s", e.Status, detail)
}

// Message is the text shown to a user: the server's detail when present.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return http.StatusText(e.Status)
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsUnauthorized reports whether the server rejected the credentials
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// UserMessage renders any client error for a status line or notice.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}

// validationIssue is one entry of a FastAPI 422 detail list
type validationIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// parseDetail extracts the "detail" field of an error body. String details
// are returned as-is; validation lists are flattened to "field: msg; ...".
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var issues []validationIssue
	if err := json.Unmarshal(envelope.Detail, &issues); err == nil && len(issues) > 0 {
		parts := make([]string, 0, len(issues))
		for _, is := range issues {
			field := ""
			if n := len(is.Loc); n > 0 {
				field = fmt.Sprint(is.Loc[n-1])
			}
			if field != "" {
				parts = append(parts, field+": "+is.Msg)
			} else {
				parts = append(parts, is.Msg)
			}
		}
		return strings.Join(parts, "; ")
	}

	return string(envelope.Detail)
}
