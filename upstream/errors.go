package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed backend call so callers can decide between
// re-authentication, a cooldown message, an empty state or a generic toast.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindUnauthorized
	KindRateLimited
	KindNotFound
	KindServer
)

// Error carries the HTTP status and any server-supplied message. Accessors
// never swallow these; every view maps them to user-facing copy itself.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("upstream: %s", e.Message)
	}
	if e.Message == "" {
		return fmt.Sprintf("upstream: status %d", e.Status)
	}
	return fmt.Sprintf("upstream: status %d: %s", e.Status, e.Message)
}

func kindOf(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindServer
	}
}

func isKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// IsUnauthorized reports a 401: the bearer token is missing or stale and
// the caller must clear the session and prompt re-authentication.
func IsUnauthorized(err error) bool { return isKind(err, KindUnauthorized) }

// IsRateLimited reports a 429, surfaced as a cooldown message.
func IsRateLimited(err error) bool { return isKind(err, KindRateLimited) }

// IsNotFound reports a 404 / empty-result lookup, rendered as an empty
// state rather than an error.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsNetwork reports that the backend could not be reached at all.
func IsNetwork(err error) bool { return isKind(err, KindNetwork) }
