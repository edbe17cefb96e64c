package opening

import (
	"errors"
	"fmt"
	"sort"

	"opening_ai/internal/config"
)

var (
	ErrBadAttack       = errors.New("invalid attack")
	ErrUnsorted        = errors.New("opening not sorted by tick")
	ErrBadHorizon      = errors.New("invalid horizon")
	ErrNoDecisionTicks = errors.New("no decision ticks")
)

// Attack commits Percent of the current troops to land at Tick.
type Attack struct {
	Tick    int     `json:"tick"`
	Percent float64 `json:"percent"`
}

// Opening is a sequence of attacks ordered by tick. Attacks sharing a tick
// all fire on that tick, in slice order.
type Opening []Attack

func FromConfig(defs []config.AttackDef) Opening {
	out := make(Opening, 0, len(defs))
	for _, d := range defs {
		out = append(out, Attack{Tick: d.Tick, Percent: d.Percent})
	}
	return out
}

func (a Attack) Validate() error {
	if a.Tick < 1 {
		return fmt.Errorf("%w: tick %d must be positive", ErrBadAttack, a.Tick)
	}
	if a.Percent < 0 || a.Percent > 100 {
		return fmt.Errorf("%w: percent %.4f outside [0,100] at tick %d", ErrBadAttack, a.Percent, a.Tick)
	}
	return nil
}

func (o Opening) Validate() error {
	for i, a := range o {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("attack %d: %w", i, err)
		}
		if i > 0 && a.Tick < o[i-1].Tick {
			return fmt.Errorf("%w: tick %d follows tick %d", ErrUnsorted, a.Tick, o[i-1].Tick)
		}
	}
	return nil
}

// Sorted returns a tick-ordered copy; equal ticks keep their relative order.
func (o Opening) Sorted() Opening {
	out := append(Opening(nil), o...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	return out
}

// Insert returns a copy of o with a placed after every attack at or before
// a.Tick. o itself is left untouched.
func (o Opening) Insert(a Attack) Opening {
	at := sort.Search(len(o), func(i int) bool { return o[i].Tick > a.Tick })
	out := make(Opening, 0, len(o)+1)
	out = append(out, o[:at]...)
	out = append(out, a)
	return append(out, o[at:]...)
}
