package wheel

import (
	"errors"
	"math"

	"github.com/expoprize/prizewheel-go/internal/dependencies/random"
	"github.com/expoprize/prizewheel-go/internal/model"
)

// Errors
var (
	// ErrIndexOutOfRange means the winner index does not name a slice
	ErrIndexOutOfRange = errors.New("winner index outside slice range")
)

// DegreesPerTurn is one full wheel rotation
const DegreesPerTurn = 360.0

// Target is a resolved rotation target: the cumulative angle (in degrees)
// that lands the fixed top pointer on the middle of the winning slice.
type Target struct {
	WinnerIndex int
	SliceCount  int
	ExtraTurns  int
	Degrees     float64
}

// Config controls the cosmetic extra full rotations added to every spin
type Config struct {
	// MinExtraTurns is the smallest number of full rotations
	MinExtraTurns int
	// ExtraTurnSpread is the size of the randomized range above the minimum
	ExtraTurnSpread int
}

// DefaultConfig matches the reference wheel: 4 or 5 full rotations
func DefaultConfig() Config {
	return Config{
		MinExtraTurns:   4,
		ExtraTurnSpread: 2,
	}
}

// Resolver computes rotation targets for the wheel animation. The winner
// is fixed before the resolver runs; extra turns are purely visual and
// never influence which slice is selected.
type Resolver struct {
	random random.Random
	cfg    Config
}

// NewResolver creates a new angle resolver
func NewResolver(rnd random.Random, cfg Config) *Resolver {
	if cfg.MinExtraTurns == 0 && cfg.ExtraTurnSpread == 0 {
		cfg = DefaultConfig()
	}
	return &Resolver{random: rnd, cfg: cfg}
}

// Resolve computes the rotation target for the winning slice, with a
// randomized number of cosmetic extra turns.
func (r *Resolver) Resolve(winnerIndex, sliceCount int) (Target, error) {
	extra := r.cfg.MinExtraTurns
	if r.cfg.ExtraTurnSpread > 0 {
		extra += r.random.Intn(r.cfg.ExtraTurnSpread)
	}
	return ResolveWithTurns(winnerIndex, sliceCount, extra)
}

// ResolveWithTurns is the deterministic core of the resolver: same inputs,
// same target, so tests can assert exact landing angles.
//
// The pointer is anchored at angle 0 with slices laid out clockwise from
// 0; the target within the slice is negative because the wheel rotates to
// bring the winning slice up to the pointer.
func ResolveWithTurns(winnerIndex, sliceCount, extraTurns int) (Target, error) {
	if sliceCount < model.MinPrizesForSpin {
		return Target{}, model.ErrNotEnoughPrizes
	}
	if winnerIndex < 0 || winnerIndex >= sliceCount {
		return Target{}, ErrIndexOutOfRange
	}

	anglePerSlice := DegreesPerTurn / float64(sliceCount)
	withinSlice := -(float64(winnerIndex)*anglePerSlice + anglePerSlice/2)

	return Target{
		WinnerIndex: winnerIndex,
		SliceCount:  sliceCount,
		ExtraTurns:  extraTurns,
		Degrees:     float64(extraTurns)*DegreesPerTurn + withinSlice,
	}, nil
}

// NormalizeRotation reduces an accumulated rotation modulo one turn. The
// reduction is by a whole number of turns, so the rendered orientation is
// unchanged; it must only be applied when no animation is in flight.
func NormalizeRotation(deg float64) float64 {
	return math.Mod(deg, DegreesPerTurn)
}

// PointerOffset returns the angular distance from the fixed pointer to the
// middle of the winning slice after rotating by deg. Zero means a perfect
// landing; used to verify that a target lands within the slice bounds.
func PointerOffset(deg float64, winnerIndex, sliceCount int) float64 {
	anglePerSlice := DegreesPerTurn / float64(sliceCount)
	sliceMiddle := float64(winnerIndex)*anglePerSlice + anglePerSlice/2

	// Position of the slice middle after rotation, relative to the pointer.
	offset := math.Mod(sliceMiddle+deg, DegreesPerTurn)
	if offset > DegreesPerTurn/2 {
		offset -= DegreesPerTurn
	}
	if offset < -DegreesPerTurn/2 {
		offset += DegreesPerTurn
	}
	return offset
}
