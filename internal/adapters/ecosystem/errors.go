package ecosystem

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	apperrors "github.com/target/runconsole/internal/errors"
)

// UpstreamError is a non-2xx response from the ecosystem API.
type UpstreamError struct {
	Operation string
	Status    int
	Code      int    // ecosystem error code, when the body carried one
	Message   string // error message or a body excerpt
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: ecosystem returned %d: %s", e.Operation, e.Status, e.Message)
}

// errorBody is the ecosystem's error envelope.
type errorBody struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_message"`
}

func newUpstreamError(op string, status int, body []byte) *UpstreamError {
	e := &UpstreamError{Operation: op, Status: status}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
		e.Code, e.Message = eb.Code, eb.Message
		return e
	}
	msg := excerpt(strings.TrimSpace(string(body)), bodyExcerptBytes)
	if msg == "" {
		msg = http.StatusText(status)
	}
	e.Message = msg
	return e
}

// excerpt cuts s to at most limit bytes on a rune boundary and marks the
// cut with "...". Invalid UTF-8 in s is replacement-encoded.
func excerpt(s string, limit int) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// appError classifies the response for the service layer while keeping the
// UpstreamError reachable through errors.As.
func (e *UpstreamError) appError() *apperrors.AppError {
	var code apperrors.ErrorCode
	switch {
	case e.Status == http.StatusNotFound:
		code = apperrors.ErrCodeNotFound
	case e.Status == http.StatusUnauthorized:
		code = apperrors.ErrCodeUnauthorized
	case e.Status == http.StatusForbidden:
		code = apperrors.ErrCodeForbidden
	case e.Status == http.StatusBadRequest:
		code = apperrors.ErrCodeValidation
	case e.Status == http.StatusConflict:
		code = apperrors.ErrCodeConflict
	case e.Status == http.StatusTooManyRequests || e.Status >= 500:
		code = apperrors.ErrCodeUnavailable
	default:
		code = apperrors.ErrCodeInternal
	}
	return apperrors.Wrap(e, code, e.Message)
}
