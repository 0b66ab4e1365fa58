// Package advisor asks a language-model service for allocation advice and
// transaction commentary. Callers fall back to deterministic answers on any
// error, so every failure here is recoverable.
package advisor

import (
	"context"
	"errors"

	"github.com/rustyeddy/wealthgrid/wealth"
)

// ErrMalformed means the service answered with something that is not the
// structured reply we asked for.
var ErrMalformed = errors.New("malformed advisory response")

// Allocation is the service's proposed grid with its reasoning.
type Allocation struct {
	Grid     wealth.Grid
	Analysis string
}

// Commentary is a short note on one transaction.
type Commentary struct {
	Title string
	Body  string
}

type Advisor interface {
	AllocateGrid(ctx context.Context, answers wealth.Answers) (Allocation, error)
	Commentary(ctx context.Context, e wealth.Entry) (Commentary, error)
}
