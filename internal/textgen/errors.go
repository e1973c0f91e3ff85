// Package textgen calls the external text-generation service and extracts
// text from its loosely shaped responses.
package textgen

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a generation failure.
type Kind string

const (
	KindQuotaExceeded        Kind = "QUOTA_EXCEEDED"
	KindConfigurationMissing Kind = "CONFIGURATION_MISSING"
	KindMalformedResponse    Kind = "MALFORMED_RESPONSE"
	KindTokenLimitExceeded   Kind = "TOKEN_LIMIT_EXCEEDED"
	KindUnavailable          Kind = "UNAVAILABLE"
)

// Sentinel errors, one per Kind, for use with errors.Is.
var (
	ErrQuotaExceeded        = errors.New("text generation quota exceeded")
	ErrConfigurationMissing = errors.New("text generation not configured")
	ErrMalformedResponse    = errors.New("malformed text generation response")
	ErrTokenLimitExceeded   = errors.New("text generation hit the output token limit")
	ErrUnavailable          = errors.New("text generation unavailable")
)

var sentinels = map[Kind]error{
	KindQuotaExceeded:        ErrQuotaExceeded,
	KindConfigurationMissing: ErrConfigurationMissing,
	KindMalformedResponse:    ErrMalformedResponse,
	KindTokenLimitExceeded:   ErrTokenLimitExceeded,
	KindUnavailable:          ErrUnavailable,
}

// Error is a classified generation failure.
type Error struct {
	Kind       Kind
	StatusCode int           // HTTP status, 0 when no response was received
	RetryAfter time.Duration // suggested wait for KindQuotaExceeded, 0 if unknown
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if s, ok := sentinels[e.Kind]; ok {
		msg = s.Error()
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the Kind of err, or KindUnavailable for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnavailable
}
