package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrSessionUnavailable signals that the oracle's input surface could not
// be located; the session is considered disconnected until a reload.
var ErrSessionUnavailable = errors.New("oracle input surface missing")

// ErrDisconnected signals that the oracle's reply container could not be
// queried, which is how the pipeline learns the session dropped mid-reply.
var ErrDisconnected = errors.New("oracle reply container unreachable")

// RetryAfterError is returned by the delivery channel when it reports a
// rate limit with an explicit wait duration.
type RetryAfterError struct {
	After time.Duration
}

func (e *RetryAfterError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.After)
}
