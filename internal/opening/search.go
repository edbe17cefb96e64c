package opening

import "fmt"

// StepPercent converts a search step (1..resolution) into an attack percent.
func StepPercent(step, resolution int) float64 {
	return float64(step) / float64(resolution) * 100
}

// Probe inserts an attack of the given step at tick into known and reports
// whether the run to horizon sustains it: troops stay non-negative and an
// attack is still in progress when the horizon is reached.
func (s *Simulator) Probe(known Opening, tick, horizon, step int) (Result, bool, error) {
	cand := known.Insert(Attack{Tick: tick, Percent: StepPercent(step, s.Rules.SearchResolution)})
	res, err := s.quiet().Run(cand, horizon)
	if err != nil {
		return Result{}, false, err
	}
	return res, res.Success && res.AttackActive(), nil
}

// FindMinAttack binary-searches the smallest step at tick that sustains the
// attack through horizon. ok is false when no step in 1..resolution does.
// The search relies on a larger attack never breaking a sustained run.
func (s *Simulator) FindMinAttack(known Opening, tick, horizon int) (step int, ok bool, err error) {
	if err := (Attack{Tick: tick}).Validate(); err != nil {
		return 0, false, err
	}
	if horizon < tick {
		return 0, false, fmt.Errorf("%w: horizon %d before attack tick %d", ErrBadHorizon, horizon, tick)
	}
	if err := known.Validate(); err != nil {
		return 0, false, err
	}

	best := 0
	lo, hi := 1, s.Rules.SearchResolution
	for lo <= hi {
		mid := (lo + hi) / 2
		res, sustained, err := s.Probe(known, tick, horizon, mid)
		if err != nil {
			return 0, false, err
		}
		s.note(tick, "SearchProbe", map[string]any{
			"step":      mid,
			"horizon":   horizon,
			"sustained": sustained,
			"troops":    res.Troops,
		})
		if sustained {
			best = mid
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return best, best > 0, nil
}
