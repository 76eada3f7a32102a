package aromai

import (
	"errors"
	"fmt"
	"strings"
)

// Every failure returned by Client is tagged with exactly one of these.
var (
	ErrURL             = errors.New("url error")
	ErrInvalidResponse = errors.New("invalid response")
	ErrDecoding        = errors.New("decoding error")
)

// Error describes a failed API call. Kind is one of the sentinels above, so
// errors.Is(err, ErrInvalidResponse) works on any returned error.
type Error struct {
	Kind   error
	Op     string
	Status int // zero when no response arrived
	Err    error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 4)
	if op := strings.TrimSpace(e.Op); op != "" {
		parts = append(parts, op)
	}
	kind := e.Kind
	if kind == nil {
		kind = ErrInvalidResponse
	}
	parts = append(parts, kind.Error())
	if e.Status != 0 {
		parts = append(parts, fmt.Sprintf("status %d", e.Status))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() []error {
	kind := e.Kind
	if kind == nil {
		kind = ErrInvalidResponse
	}
	if e.Err == nil {
		return []error{kind}
	}
	return []error{kind, e.Err}
}

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func wrap(kind error, op string, status int, err error) error {
	return &Error{Kind: kind, Op: op, Status: status, Err: err}
}
