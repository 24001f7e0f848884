package source

import (
	"context"
	"fmt"

	"github.com/sawpanic/tokenwatch/internal/token"
)

// TokenSource is one capability-equivalent data source in the fallback
// chain. Fetch returns the full basket in basket order, or an error when
// the source as a whole is unusable — it never panics past its boundary.
type TokenSource interface {
	Name() string
	Fetch(ctx context.Context) ([]token.Token, error)
}

// Error codes carried by SourceError.
const (
	ErrCodeTransport   = "TRANSPORT_ERROR"
	ErrCodeBadStatus   = "BAD_STATUS"
	ErrCodeDecode      = "DECODE_ERROR"
	ErrCodeBreakerOpen = "BREAKER_OPEN"
	ErrCodeRateLimit   = "RATE_LIMITED"
)

// SourceError is the typed failure a source hands the chain. The code lets
// the chain label metrics without string-matching provider messages.
type SourceError struct {
	Source  string
	Code    string
	Message string
	Cause   error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Source, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Source, e.Code, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

func errCode(err error) string {
	if se, ok := err.(*SourceError); ok {
		return se.Code
	}
	return "UNKNOWN"
}
