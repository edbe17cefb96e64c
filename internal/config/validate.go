package config

import "fmt"

const (
	defaultVerifyTicks   = 505
	defaultChainEndpoint = 500
	maxVerbosity         = 2
)

func (sc *ScenarioConfig) applyDefaults() {
	if sc.VerifyTicks == 0 {
		sc.VerifyTicks = defaultVerifyTicks
	}
	if sc.Chain.Endpoint == "" {
		sc.Chain.Endpoint = EndpointFixed
	}
	if sc.Chain.DefaultEndpoint == 0 {
		sc.Chain.DefaultEndpoint = defaultChainEndpoint
	}
}

func (sc *ScenarioConfig) Validate() error {
	prev := 0
	for i, a := range sc.Base {
		if err := a.validate(); err != nil {
			return fmt.Errorf("scenario: base[%d]: %w", i, err)
		}
		if a.Tick < prev {
			return fmt.Errorf("scenario: base[%d]: tick %d is before tick %d", i, a.Tick, prev)
		}
		prev = a.Tick
	}
	prev = 0
	for i, t := range sc.DecisionTicks {
		if t < 1 {
			return fmt.Errorf("scenario: decision_ticks[%d]: tick %d must be positive", i, t)
		}
		if t <= prev {
			return fmt.Errorf("scenario: decision_ticks[%d]: tick %d is not after %d", i, t, prev)
		}
		prev = t
	}
	if sc.VerifyTicks < 1 {
		return fmt.Errorf("scenario: verify_ticks must be positive (got %d)", sc.VerifyTicks)
	}
	switch sc.Chain.Endpoint {
	case EndpointFixed, EndpointRoundUp:
	default:
		return fmt.Errorf("scenario: chain.endpoint %q is not %q or %q", sc.Chain.Endpoint, EndpointFixed, EndpointRoundUp)
	}
	if sc.Chain.DefaultEndpoint < 2 {
		return fmt.Errorf("scenario: chain.default_endpoint must be at least 2 (got %d)", sc.Chain.DefaultEndpoint)
	}
	if sc.Manual.Tick != 0 {
		if err := sc.Manual.validate(); err != nil {
			return fmt.Errorf("scenario: manual: %w", err)
		}
	}
	if sc.Verbosity < 0 || sc.Verbosity > maxVerbosity {
		return fmt.Errorf("scenario: verbosity %d outside 0..%d", sc.Verbosity, maxVerbosity)
	}
	return nil
}

func (a AttackDef) validate() error {
	if a.Tick < 1 {
		return fmt.Errorf("tick %d must be positive", a.Tick)
	}
	if a.Percent < 0 || a.Percent > 100 {
		return fmt.Errorf("percent %.2f outside [0,100]", a.Percent)
	}
	return nil
}

func (rc *RulesConfig) Validate() error {
	check := func(name string, v int) error {
		if v < 0 {
			return fmt.Errorf("rules: %s must not be negative (got %d)", name, v)
		}
		return nil
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"initial_troops", rc.InitialTroops},
		{"initial_layer", rc.InitialLayer},
		{"penalty.num", rc.Penalty.Num},
		{"penalty.den", rc.Penalty.Den},
		{"first_layer_ticks", rc.FirstLayerTicks},
		{"default_layer_ticks", rc.DefaultLayerTicks},
		{"income_interval", rc.IncomeInterval},
		{"land_bonus_interval", rc.LandBonusInterval},
		{"interest.start_bp", rc.Interest.StartBP},
		{"interest.end_bp", rc.Interest.EndBP},
		{"interest.ramp_ticks", rc.Interest.RampTicks},
		{"search_resolution", rc.SearchResolution},
	} {
		if err := check(f.name, f.v); err != nil {
			return err
		}
	}
	if rc.Interest.StartBP != 0 && rc.Interest.EndBP != 0 && rc.Interest.EndBP > rc.Interest.StartBP {
		return fmt.Errorf("rules: interest.end_bp %d above start_bp %d", rc.Interest.EndBP, rc.Interest.StartBP)
	}
	for i, t := range rc.LayerTiers {
		if t.Ticks < 1 {
			return fmt.Errorf("rules: layer_tiers[%d]: ticks must be positive (got %d)", i, t.Ticks)
		}
		if i > 0 && t.MinLand >= rc.LayerTiers[i-1].MinLand {
			return fmt.Errorf("rules: layer_tiers[%d]: min_land %d must be below %d (tiers are listed highest first)", i, t.MinLand, rc.LayerTiers[i-1].MinLand)
		}
	}
	return nil
}
