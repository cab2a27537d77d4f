package upstream

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError carries the status and user-facing message of a failed upstream
// call. Message holds the upstream "detail" body when present so handlers can
// surface it verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) != "" {
		return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream status %d", e.StatusCode)
}

// UserMessage returns the upstream-provided message, else the given fallback.
func (e *APIError) UserMessage(fallback string) string {
	if strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	return fallback
}

func errorFromBody(status int, body []byte) *APIError {
	var payload struct {
		Detail string `json:"detail"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = strings.TrimSpace(payload.Detail)
	}
	return &APIError{StatusCode: status, Message: msg}
}
