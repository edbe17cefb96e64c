package config

const (
	EndpointFixed   = "fixed"
	EndpointRoundUp = "round_up"
)

type ScenarioConfig struct {
	ID            string      `yaml:"id"`
	Note          string      `yaml:"note"`
	Base          []AttackDef `yaml:"base"`
	DecisionTicks []int       `yaml:"decision_ticks"`
	VerifyTicks   int         `yaml:"verify_ticks"`
	Chain         ChainConfig `yaml:"chain"`
	Manual        AttackDef   `yaml:"manual"`
	Verbosity     int         `yaml:"verbosity"`
}

type AttackDef struct {
	Tick    int     `yaml:"tick"`
	Percent float64 `yaml:"percent"`
}

type ChainConfig struct {
	// Endpoint is "fixed" (use DefaultEndpoint) or "round_up" (next hundred
	// above the last decision tick).
	Endpoint        string `yaml:"endpoint"`
	DefaultEndpoint int    `yaml:"default_endpoint"`
}
