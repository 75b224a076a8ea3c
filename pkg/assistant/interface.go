package assistant

import (
	"context"
	"errors"
)

// ErrUnreachable marks provider failures where the service could not be
// reached at all, as opposed to a reachable service rejecting the request.
var ErrUnreachable = errors.New("structuring service unavailable")

// Structurer maps a prompt to the model's raw text response. Implementations
// are constructed once at startup and must be safe for concurrent use.
type Structurer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	IsAlive(ctx context.Context) bool
	Name() string
}
