package config

// RulesConfig mirrors the tunable constants of the land/troops model.
// Any zero field keeps the built-in default.
type RulesConfig struct {
	InitialTroops int `yaml:"initial_troops"`
	InitialLayer  int `yaml:"initial_layer"`

	Penalty struct {
		Num int `yaml:"num"`
		Den int `yaml:"den"`
	} `yaml:"penalty"`

	FirstLayerTicks   int         `yaml:"first_layer_ticks"`
	LayerTiers        []LayerTier `yaml:"layer_tiers"`
	DefaultLayerTicks int         `yaml:"default_layer_ticks"`

	IncomeInterval    int `yaml:"income_interval"`
	LandBonusInterval int `yaml:"land_bonus_interval"`

	Interest struct {
		StartBP   int `yaml:"start_bp"`
		EndBP     int `yaml:"end_bp"`
		RampTicks int `yaml:"ramp_ticks"`
	} `yaml:"interest"`

	SearchResolution int    `yaml:"search_resolution"`
	Note             string `yaml:"note"`
}

// LayerTier: once land reaches MinLand a layer resolves in Ticks ticks.
type LayerTier struct {
	MinLand int `yaml:"min_land"`
	Ticks   int `yaml:"ticks"`
}
