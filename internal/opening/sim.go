package opening

import (
	"fmt"
	"math"
)

// State is the mutable state of one run. A fresh State is built for every
// Run; nothing carries over between runs.
type State struct {
	Tick       int
	LayerIndex int
	Land       int
	Troops     int
	TickBonus  int

	LandAttack     int // troops committed to the layer under attack
	AttackTimeLeft int // -1 when no attack is in progress
	NewAttack      bool

	attacks Opening
	next    int

	rules     *Rules
	emit      func(Event)
	verbosity int
}

type Result struct {
	Land           int  `json:"land"`
	Troops         int  `json:"troops"`
	Success        bool `json:"success"`
	Tick           int  `json:"tick"`
	LayerIndex     int  `json:"layer_index"`
	AttackTimeLeft int  `json:"attack_time_left"`
}

// AttackActive reports whether an attack was still pressing a layer when the
// run ended.
func (r Result) AttackActive() bool { return r.AttackTimeLeft >= 0 }

// Simulator replays an opening under a fixed set of rules. It holds no
// per-run state, so one Simulator may serve concurrent runs as long as Emit
// is safe to call from several goroutines (or is nil).
type Simulator struct {
	Rules     Rules
	Emit      func(Event)
	Verbosity int
}

type Option func(*Simulator)

// WithTrace sends events up to the given verbosity (0 silent, 1 attacks and
// income cycles, 2 every tick) to emit.
func WithTrace(emit func(Event), verbosity int) Option {
	return func(s *Simulator) {
		s.Emit = emit
		s.Verbosity = verbosity
	}
}

func NewSimulator(rules Rules, opts ...Option) *Simulator {
	s := &Simulator{Rules: rules}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Simulator) quiet() *Simulator {
	return &Simulator{Rules: s.Rules}
}

func (s *Simulator) newState(attacks Opening) *State {
	st := &State{
		LayerIndex:     s.Rules.InitialLayer,
		Troops:         s.Rules.InitialTroops,
		AttackTimeLeft: -1,
		attacks:        attacks,
		rules:          &s.Rules,
		emit:           s.Emit,
		verbosity:      s.Verbosity,
	}
	st.Land = s.Rules.Land(st.LayerIndex)
	return st
}

// Run plays ticks 1..maxTicks. The run stops early, unsuccessfully, as soon
// as troops are negative at the start of a tick.
func (s *Simulator) Run(attacks Opening, maxTicks int) (Result, error) {
	if maxTicks < 1 {
		return Result{}, fmt.Errorf("%w: max ticks %d must be positive", ErrBadHorizon, maxTicks)
	}
	if err := attacks.Validate(); err != nil {
		return Result{}, err
	}
	st := s.newState(attacks)
	for tick := 1; tick <= maxTicks; tick++ {
		if st.Troops < 0 {
			st.Tick = tick
			st.trace(1, "Abort", map[string]any{"troops": st.Troops, "land": st.Land})
			return st.result(false), nil
		}
		st.Step(tick)
	}
	res := st.result(st.Troops >= 0)
	st.trace(1, "Done", map[string]any{"troops": res.Troops, "land": res.Land, "success": res.Success})
	return res, nil
}

// Step advances the state through one tick.
func (st *State) Step(tick int) {
	r := st.rules
	st.Tick = tick

	for st.next < len(st.attacks) && st.attacks[st.next].Tick == tick {
		st.StartAttack(st.attacks[st.next].Percent)
		st.next++
	}

	bp := r.InterestBP(tick)
	income := tick%r.IncomeInterval == 0
	if income {
		gain := floorDiv(st.Troops*(bp-basisPoints), basisPoints)
		if gain < 1 {
			gain = 1
		}
		st.TickBonus += gain
	}
	if tick%r.LandBonusInterval == 0 {
		st.TickBonus += st.Land
	}

	if st.AttackTimeLeft >= 0 {
		if st.AttackTimeLeft == 0 {
			st.resolveLayer()
		} else {
			st.AttackTimeLeft--
		}
	}

	if income {
		st.Troops += st.TickBonus
		st.trace(1, "Income", map[string]any{"bonus": st.TickBonus, "troops": st.Troops, "interest_bp": bp})
		st.TickBonus = 0
	}

	if st.verbosity >= 2 {
		st.trace(2, "Tick", map[string]any{
			"troops":    st.Troops,
			"land":      st.Land,
			"layer":     st.LayerIndex,
			"attack":    st.LandAttack,
			"time_left": st.AttackTimeLeft,
		})
	}
}

// StartAttack commits percent of the current troops to land. The attacker
// also pays a flat penalty on its whole army. Joining an attack in progress
// only adds troops; a fresh attack starts its first layer countdown.
func (st *State) StartAttack(percent float64) {
	r := st.rules
	penalty := floorDiv(st.Troops*r.PenaltyNum, r.PenaltyDen)
	amount := int(math.Floor(float64(st.Troops) * percent / 100))
	st.Troops -= amount + penalty
	st.LandAttack += amount
	if st.AttackTimeLeft < 0 {
		st.NewAttack = true
		st.AttackTimeLeft = r.FirstLayerTicks
	}
	st.trace(1, "AttackStart", map[string]any{
		"percent": percent,
		"amount":  amount,
		"penalty": penalty,
		"troops":  st.Troops,
		"fresh":   st.NewAttack,
	})
}

func (st *State) resolveLayer() {
	r := st.rules
	need := r.layerCost(st.LayerIndex)
	switch {
	case 2*st.LandAttack >= 3*need:
		st.advanceLayer(st.LandAttack - need)
	case st.NewAttack:
		shortfall := int(math.Round(1.5*float64(need))) - st.LandAttack
		st.Troops -= shortfall
		st.trace(1, "LayerForced", map[string]any{"layer": st.LayerIndex, "shortfall": shortfall, "troops": st.Troops})
		st.advanceLayer(int(math.Round(float64(need) / 2)))
	default:
		refund := st.LandAttack
		st.Troops += refund
		st.LandAttack = 0
		st.AttackTimeLeft = -1
		st.trace(1, "AttackEnd", map[string]any{"layer": st.LayerIndex, "refund": refund, "troops": st.Troops})
	}
	st.NewAttack = false
}

func (st *State) advanceLayer(remaining int) {
	st.LayerIndex++
	st.Land = st.rules.Land(st.LayerIndex)
	st.LandAttack = remaining
	st.AttackTimeLeft = st.rules.LayerTicks(st.Land) - 1
	st.trace(1, "LayerCaptured", map[string]any{
		"layer":     st.LayerIndex,
		"land":      st.Land,
		"remaining": remaining,
		"next_in":   st.AttackTimeLeft,
	})
}

func (st *State) result(success bool) Result {
	return Result{
		Land:           st.Land,
		Troops:         st.Troops,
		Success:        success,
		Tick:           st.Tick,
		LayerIndex:     st.LayerIndex,
		AttackTimeLeft: st.AttackTimeLeft,
	}
}

func (st *State) trace(level int, typ string, payload map[string]any) {
	if st.emit == nil || st.verbosity < level {
		return
	}
	st.emit(Event{T: st.Tick, Type: typ, Payload: payload})
}
