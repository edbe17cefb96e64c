package opening

import (
	"fmt"

	"opening_ai/internal/config"
)

// ChainOptions picks the horizon used for the last decision tick, which has
// no following tick to stop before.
type ChainOptions struct {
	RoundUp         bool // endpoint is the next hundred above the last tick
	DefaultEndpoint int
}

func DefaultChainOptions() ChainOptions {
	return ChainOptions{DefaultEndpoint: 500}
}

func ChainOptionsFrom(cc config.ChainConfig) ChainOptions {
	o := DefaultChainOptions()
	o.RoundUp = cc.Endpoint == config.EndpointRoundUp
	if cc.DefaultEndpoint > 0 {
		o.DefaultEndpoint = cc.DefaultEndpoint
	}
	return o
}

// Horizon is the last tick the final decision must sustain through: one
// before the endpoint.
func (o ChainOptions) Horizon(lastTick int) int {
	end := o.DefaultEndpoint
	if o.RoundUp {
		end = (lastTick/100 + 1) * 100
	}
	return end - 1
}

type ChainStep struct {
	Tick    int     `json:"tick"`
	Horizon int     `json:"horizon"`
	Step    int     `json:"step"`
	Percent float64 `json:"percent"`
}

// ChainResult is all-or-nothing: on failure Opening and Steps are empty and
// FailedTick names the first decision tick no step could sustain.
type ChainResult struct {
	OK         bool        `json:"ok"`
	Opening    Opening     `json:"opening,omitempty"`
	Steps      []ChainStep `json:"steps,omitempty"`
	FailedTick int         `json:"failed_tick,omitempty"`
}

// OptimizeChain gives each decision tick, in order, the smallest attack that
// sustains until the tick before the next decision.
func (s *Simulator) OptimizeChain(base Opening, ticks []int, opts ChainOptions) (ChainResult, error) {
	if len(ticks) == 0 {
		return ChainResult{}, ErrNoDecisionTicks
	}
	for i, t := range ticks {
		if t < 1 {
			return ChainResult{}, fmt.Errorf("%w: decision tick %d must be positive", ErrBadAttack, t)
		}
		if i > 0 && t <= ticks[i-1] {
			return ChainResult{}, fmt.Errorf("%w: decision tick %d not after %d", ErrUnsorted, t, ticks[i-1])
		}
	}
	last := ticks[len(ticks)-1]
	if h := opts.Horizon(last); h < last {
		return ChainResult{}, fmt.Errorf("%w: endpoint horizon %d before last decision tick %d", ErrBadHorizon, h, last)
	}

	current := base.Sorted()
	if err := current.Validate(); err != nil {
		return ChainResult{}, err
	}
	steps := make([]ChainStep, 0, len(ticks))
	for i, t := range ticks {
		horizon := opts.Horizon(last)
		if i+1 < len(ticks) {
			horizon = ticks[i+1] - 1
		}
		step, ok, err := s.FindMinAttack(current, t, horizon)
		if err != nil {
			return ChainResult{}, err
		}
		if !ok {
			s.note(t, "ChainFailed", map[string]any{"horizon": horizon})
			return ChainResult{FailedTick: t}, nil
		}
		pct := StepPercent(step, s.Rules.SearchResolution)
		current = current.Insert(Attack{Tick: t, Percent: pct})
		steps = append(steps, ChainStep{Tick: t, Horizon: horizon, Step: step, Percent: pct})
		s.note(t, "ChainStep", map[string]any{"step": step, "percent": pct, "horizon": horizon})
	}
	return ChainResult{OK: true, Opening: current, Steps: steps}, nil
}

func (s *Simulator) note(tick int, typ string, payload map[string]any) {
	if s.Emit == nil || s.Verbosity < 1 {
		return
	}
	s.Emit(Event{T: tick, Type: typ, Payload: payload})
}
