// Package config holds every tunable constant of the decision engine:
// tolerance windows, score weights and breakpoints, classification
// thresholds, SLA tables, and learner hyperparameters. Defaults are compiled
// in; an optional yaml file overlays them. There are no runtime flags or
// environment variables for these values.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"recon-engine/internal/domain"
)

// Matching holds the field-comparison tolerance windows.
type Matching struct {
	DateWindowDays       int     `yaml:"date_window_days"`
	NotionalTolerancePct float64 `yaml:"notional_tolerance_pct"`
	NameAcceptThreshold  float64 `yaml:"name_accept_threshold"`
	AbbreviationSim      float64 `yaml:"abbreviation_similarity"`
}

// Weights holds the per-field contribution to the match score. The five
// weights must sum to 1.0.
type Weights struct {
	Identifier   float64 `yaml:"identifier"`
	TradeDate    float64 `yaml:"trade_date"`
	Notional     float64 `yaml:"notional"`
	Counterparty float64 `yaml:"counterparty"`
	Currency     float64 `yaml:"currency"`
}

// Thresholds holds the score bands that drive the workflow decision.
type Thresholds struct {
	AutoMatch float64 `yaml:"auto_match"`
	Escalate  float64 `yaml:"escalate"`
	Review    float64 `yaml:"review"`
}

// Triage holds severity and routing tables.
type Triage struct {
	MatchScorePenaltyFactor float64                     `yaml:"match_score_penalty_factor"`
	RetryPenaltyStep        float64                     `yaml:"retry_penalty_step"`
	RetryPenaltyCap         float64                     `yaml:"retry_penalty_cap"`
	SLAHours                map[domain.SeverityTier]int `yaml:"sla_hours"`
	AutoResolveSLACapHours  int                         `yaml:"auto_resolve_sla_cap_hours"`
	ComplianceSLAHours      int                         `yaml:"compliance_sla_hours"`
}

// Learner holds the adjustment learner hyperparameters.
type Learner struct {
	Alpha           float64 `yaml:"alpha"`
	Epsilon         float64 `yaml:"epsilon"`
	AdjustmentScale float64 `yaml:"adjustment_scale"`
	AdjustmentBound float64 `yaml:"adjustment_bound"`
	MaxHistory      int     `yaml:"max_history"`
}

// Config is the full engine configuration.
type Config struct {
	Matching   Matching   `yaml:"matching"`
	Weights    Weights    `yaml:"weights"`
	Thresholds Thresholds `yaml:"thresholds"`
	Triage     Triage     `yaml:"triage"`
	Learner    Learner    `yaml:"learner"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Matching: Matching{
			DateWindowDays:       2,
			NotionalTolerancePct: 2.0,
			NameAcceptThreshold:  0.8,
			AbbreviationSim:      0.9,
		},
		Weights: Weights{
			Identifier:   0.30,
			TradeDate:    0.20,
			Notional:     0.25,
			Counterparty: 0.15,
			Currency:     0.10,
		},
		Thresholds: Thresholds{
			AutoMatch: 0.85,
			Escalate:  0.70,
			Review:    0.50,
		},
		Triage: Triage{
			MatchScorePenaltyFactor: 0.3,
			RetryPenaltyStep:        0.05,
			RetryPenaltyCap:         0.20,
			SLAHours: map[domain.SeverityTier]int{
				domain.SeverityCritical: 2,
				domain.SeverityHigh:     4,
				domain.SeverityMedium:   8,
				domain.SeverityLow:      24,
			},
			AutoResolveSLACapHours: 1,
			ComplianceSLAHours:     2,
		},
		Learner: Learner{
			Alpha:           0.1,
			Epsilon:         0.1,
			AdjustmentScale: -0.1,
			AdjustmentBound: 0.2,
			MaxHistory:      1000,
		},
	}
}

// Load returns the default configuration overlaid with the yaml file at
// path. An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks internal consistency of the configuration.
func (c Config) Validate() error {
	sum := c.Weights.Identifier + c.Weights.TradeDate + c.Weights.Notional + c.Weights.Counterparty + c.Weights.Currency
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("score weights must sum to 1.0, got %.4f", sum)
	}
	if !(c.Thresholds.AutoMatch > c.Thresholds.Escalate && c.Thresholds.Escalate > c.Thresholds.Review) {
		return fmt.Errorf("thresholds must be strictly ordered auto_match > escalate > review")
	}
	if c.Matching.DateWindowDays < 0 {
		return fmt.Errorf("date window must be non-negative")
	}
	if c.Matching.NotionalTolerancePct < 0 {
		return fmt.Errorf("notional tolerance must be non-negative")
	}
	for tier, hours := range c.Triage.SLAHours {
		if hours <= 0 {
			return fmt.Errorf("sla hours for %s must be positive", tier)
		}
	}
	if c.Learner.Alpha <= 0 || c.Learner.Alpha >= 1 {
		return fmt.Errorf("learner alpha must be in (0,1)")
	}
	if c.Learner.Epsilon < 0 || c.Learner.Epsilon >= 1 {
		return fmt.Errorf("learner epsilon must be in [0,1)")
	}
	if c.Learner.MaxHistory <= 0 {
		return fmt.Errorf("learner max history must be positive")
	}
	return nil
}
