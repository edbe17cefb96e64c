package opening

import "opening_ai/internal/config"

const (
	// TopTierLand is where layers speed up to two ticks. An older revision
	// of the model used 10000.
	TopTierLand = 10512

	troopsPerLayer = 8
	basisPoints    = 10000
)

// Tier maps a minimum land value to the ticks a layer takes to resolve.
type Tier struct {
	MinLand int
	Ticks   int
}

// Rules holds the constants of the growth/attack model.
type Rules struct {
	InitialTroops int
	InitialLayer  int

	PenaltyNum int
	PenaltyDen int

	FirstLayerTicks   int
	Tiers             []Tier // highest MinLand first
	DefaultLayerTicks int

	IncomeInterval    int
	LandBonusInterval int

	InterestStartBP   int
	InterestEndBP     int
	InterestRampTicks int

	SearchResolution int
}

func DefaultRules() Rules {
	return Rules{
		InitialTroops:     512,
		InitialLayer:      3,
		PenaltyNum:        12,
		PenaltyDen:        1024,
		FirstLayerTicks:   7,
		Tiers:             []Tier{{MinLand: TopTierLand, Ticks: 2}, {MinLand: 1104, Ticks: 3}},
		DefaultLayerTicks: 4,
		IncomeInterval:    10,
		LandBonusInterval: 100,
		InterestStartBP:   10700,
		InterestEndBP:     10100,
		InterestRampTicks: 1920,
		SearchResolution:  1024,
	}
}

// NewRules overlays the non-zero fields of rc on DefaultRules.
func NewRules(rc *config.RulesConfig) Rules {
	r := DefaultRules()
	if rc == nil {
		return r
	}
	set := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	set(&r.InitialTroops, rc.InitialTroops)
	set(&r.InitialLayer, rc.InitialLayer)
	set(&r.PenaltyNum, rc.Penalty.Num)
	set(&r.PenaltyDen, rc.Penalty.Den)
	set(&r.FirstLayerTicks, rc.FirstLayerTicks)
	set(&r.DefaultLayerTicks, rc.DefaultLayerTicks)
	set(&r.IncomeInterval, rc.IncomeInterval)
	set(&r.LandBonusInterval, rc.LandBonusInterval)
	set(&r.InterestStartBP, rc.Interest.StartBP)
	set(&r.InterestEndBP, rc.Interest.EndBP)
	set(&r.InterestRampTicks, rc.Interest.RampTicks)
	set(&r.SearchResolution, rc.SearchResolution)
	if len(rc.LayerTiers) > 0 {
		r.Tiers = make([]Tier, 0, len(rc.LayerTiers))
		for _, t := range rc.LayerTiers {
			r.Tiers = append(r.Tiers, Tier{MinLand: t.MinLand, Ticks: t.Ticks})
		}
	}
	return r
}

// Land is the land value of layer n: 2n(n-1).
func (r Rules) Land(n int) int { return 2 * n * (n - 1) }

// InterestBP is the tick's interest rate in basis points (10700 = 1.07),
// falling linearly over the ramp and truncated to whole basis points.
func (r Rules) InterestBP(tick int) int {
	if r.InterestRampTicks <= 0 {
		return r.InterestEndBP
	}
	k := tick - 1
	if k < 0 {
		k = 0
	}
	if k > r.InterestRampTicks {
		k = r.InterestRampTicks
	}
	span := r.InterestStartBP - r.InterestEndBP
	drop := (span*k + r.InterestRampTicks - 1) / r.InterestRampTicks
	return r.InterestStartBP - drop
}

// LayerTicks is how long a layer takes once land has reached the given value.
func (r Rules) LayerTicks(land int) int {
	for _, t := range r.Tiers {
		if land >= t.MinLand {
			return t.Ticks
		}
	}
	return r.DefaultLayerTicks
}

func (r Rules) layerCost(layer int) int { return troopsPerLayer * layer }

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
