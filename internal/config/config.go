// Package config provides unified configuration loading for aftershock.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config contains all aftershock configuration settings.
type Config struct {
	// Data locates the panel, graph, and optional model artifact.
	Data DataConfig `json:"data" yaml:"data"`

	// Engine holds the propagation tuning parameters.
	Engine EngineConfig `json:"engine" yaml:"engine"`

	// Logging contains settings for operational and trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// DataConfig locates the read-only inputs produced by the external ETL
// and training processes.
type DataConfig struct {
	// DatabasePath is the ETL-produced SQLite database holding the panel
	// and edges tables. When set, it takes precedence over the JSON files.
	DatabasePath string `json:"database_path,omitempty" yaml:"database_path,omitempty"`

	// PanelPath and GraphPath are JSON fallbacks for environments without
	// the SQLite dataset (fixtures, demos).
	PanelPath string `json:"panel_path,omitempty" yaml:"panel_path,omitempty"`
	GraphPath string `json:"graph_path,omitempty" yaml:"graph_path,omitempty"`

	// ModelPath is the optional trained model artifact. Empty or missing
	// means the heuristic propagator runs alone.
	ModelPath string `json:"model_path,omitempty" yaml:"model_path,omitempty"`
}

// EngineConfig holds the tunable parameters of the propagation engine.
// Zero values are replaced by the corresponding defaults at Validate time,
// so a partial YAML file only overrides what it names.
type EngineConfig struct {
	// StressGain scales the funding delta inside the saturating stress
	// function: stress = tanh(-delta * StressGain).
	StressGain float64 `json:"stress_gain" yaml:"stress_gain"`

	// SpreadFactor is the fraction of a node's stress that flows through
	// each outgoing edge per step.
	SpreadFactor float64 `json:"spread_factor" yaml:"spread_factor"`

	// DecayFactor attenuates stress per propagation step.
	DecayFactor float64 `json:"decay_factor" yaml:"decay_factor"`

	// SeverityGain converts accumulated stress into delta severity.
	SeverityGain float64 `json:"severity_gain" yaml:"severity_gain"`

	// DisplacementGain converts stress into displaced persons per person
	// in need.
	DisplacementGain float64 `json:"displacement_gain" yaml:"displacement_gain"`

	// ProbCoverageGain and ProbSeverityGain shape the underfunding
	// probability: sigmoid(coverageGain*(1-coverage) + severityGain*dSev - ProbBias).
	ProbCoverageGain float64 `json:"prob_coverage_gain" yaml:"prob_coverage_gain"`
	ProbSeverityGain float64 `json:"prob_severity_gain" yaml:"prob_severity_gain"`
	ProbBias         float64 `json:"prob_bias" yaml:"prob_bias"`

	// CostPerPersonUSD is the default cost proxy when a request does not
	// override it.
	CostPerPersonUSD float64 `json:"cost_per_person_usd" yaml:"cost_per_person_usd"`
}

// LoggingConfig configures aftershock's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables propagation trace logging to <root>/trace.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults. The engine constants
// follow the calibration shipped with the original dataset.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			DatabasePath: "",
			PanelPath:    "",
			GraphPath:    "",
			ModelPath:    "",
		},
		Engine: DefaultEngine(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultEngine returns the calibrated engine tuning parameters.
func DefaultEngine() EngineConfig {
	return EngineConfig{
		StressGain:       3.0,
		SpreadFactor:     0.8,
		DecayFactor:      0.7,
		SeverityGain:     0.35,
		DisplacementGain: 0.02,
		ProbCoverageGain: 2.0,
		ProbSeverityGain: 3.0,
		ProbBias:         1.0,
		CostPerPersonUSD: 250.0,
	}
}

// Load loads configuration from the default locations and environment
// variables. Order: defaults -> ./aftershock.yaml -> environment variables.
func Load(root string) (*Config, error) {
	cfg := Default()

	configPath := filepath.Join(root, "aftershock.yaml")
	if _, err := os.Stat(configPath); err == nil {
		fileCfg, loadErr := LoadFromFile(configPath)
		if loadErr != nil {
			return nil, fmt.Errorf("loading config file: %w", loadErr)
		}
		cfg = fileCfg
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration and fills zero engine values with
// defaults.
func (c *Config) Validate() error {
	def := DefaultEngine()
	e := &c.Engine
	fillZero(&e.StressGain, def.StressGain)
	fillZero(&e.SpreadFactor, def.SpreadFactor)
	fillZero(&e.DecayFactor, def.DecayFactor)
	fillZero(&e.SeverityGain, def.SeverityGain)
	fillZero(&e.DisplacementGain, def.DisplacementGain)
	fillZero(&e.ProbCoverageGain, def.ProbCoverageGain)
	fillZero(&e.ProbSeverityGain, def.ProbSeverityGain)
	fillZero(&e.ProbBias, def.ProbBias)
	fillZero(&e.CostPerPersonUSD, def.CostPerPersonUSD)

	if e.SpreadFactor <= 0 || e.SpreadFactor > 1 {
		return fmt.Errorf("spread_factor must be in (0, 1], got %v", e.SpreadFactor)
	}
	if e.DecayFactor <= 0 || e.DecayFactor > 1 {
		return fmt.Errorf("decay_factor must be in (0, 1], got %v", e.DecayFactor)
	}
	if e.StressGain <= 0 {
		return fmt.Errorf("stress_gain must be positive, got %v", e.StressGain)
	}
	if e.CostPerPersonUSD < 0 {
		return fmt.Errorf("cost_per_person_usd must be non-negative, got %v", e.CostPerPersonUSD)
	}

	validLevels := map[string]bool{"": true, "info": true, "debug": true, "trace": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AFTERSHOCK_DB"); v != "" {
		cfg.Data.DatabasePath = v
	}
	if v := os.Getenv("AFTERSHOCK_PANEL"); v != "" {
		cfg.Data.PanelPath = v
	}
	if v := os.Getenv("AFTERSHOCK_GRAPH"); v != "" {
		cfg.Data.GraphPath = v
	}
	if v := os.Getenv("AFTERSHOCK_MODEL"); v != "" {
		cfg.Data.ModelPath = v
	}
	if v := os.Getenv("AFTERSHOCK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("AFTERSHOCK_COST_PER_PERSON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.CostPerPersonUSD = f
		}
	}
}

func fillZero(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}
