package draw

import (
	"github.com/expoprize/prizewheel-go/internal/dependencies/random"
	"github.com/expoprize/prizewheel-go/internal/model"
)

// Engine picks a winner uniformly at random from a candidate pool. It is a
// pure selection component: it never persists anything, and callers are
// responsible for checking eligibility before invoking it. Shared by the
// attendee wheel spin and the organizer raffle draw.
type Engine struct {
	random random.Random
}

// NewEngine creates a new draw engine
func NewEngine(rnd random.Random) *Engine {
	return &Engine{random: rnd}
}

// PickIndex returns a uniformly distributed index in [0, count).
// Returns model.ErrEmptyPool when count is not positive; callers should
// have branched on pool emptiness before reaching this point.
func (e *Engine) PickIndex(count int) (int, error) {
	if count <= 0 {
		return 0, model.ErrEmptyPool
	}
	return e.random.Intn(count), nil
}

// Select picks one element from candidates. The result is always a member
// of the input slice.
func Select[T any](e *Engine, candidates []T) (T, error) {
	var zero T
	idx, err := e.PickIndex(len(candidates))
	if err != nil {
		return zero, err
	}
	return candidates[idx], nil
}
