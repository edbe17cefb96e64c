package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

func LoadRules(path string) (*RulesConfig, error) {
	var rc RulesConfig
	if err := loadYAML(path, &rc); err != nil {
		return nil, err
	}
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return &rc, nil
}

func LoadScenario(path string) (*ScenarioConfig, error) {
	var sc ScenarioConfig
	if err := loadYAML(path, &sc); err != nil {
		return nil, err
	}
	sc.applyDefaults()
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadAll reads rules.yaml and scenario.yaml from dir.
func LoadAll(dir string) (*RulesConfig, *ScenarioConfig, error) {
	rc, err := LoadRules(filepath.Join(dir, "rules.yaml"))
	if err != nil {
		return nil, nil, err
	}
	sc, err := LoadScenario(filepath.Join(dir, "scenario.yaml"))
	if err != nil {
		return nil, nil, err
	}
	return rc, sc, nil
}
