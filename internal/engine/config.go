package engine

import (
	"fmt"
	"math"
)

// weight sum tolerance; anything further off is a broken config
const weightTolerance = 1e-6

// Weights maps each evidence source to its share of the composite score.
// The four weights must sum to exactly 1.0 (within tolerance).
type Weights struct {
	Trend      float64
	News       float64
	Risk       float64
	Volatility float64
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Trend + w.News + w.Risk + w.Volatility
}

// Thresholds controls bias and strength classification.
type Thresholds struct {
	// BiasEpsilon is the dead-zone around zero: composites within
	// [-BiasEpsilon, BiasEpsilon] classify as Neutral so the label does
	// not flap on noise.
	BiasEpsilon float64
	// Strong and Moderate are the |composite| cutoffs for the
	// corresponding strength levels.
	Strong   float64
	Moderate float64
}

// Config is the immutable engine configuration. It is loaded once at
// process start, validated, and passed into every evaluation.
type Config struct {
	Weights    Weights
	Thresholds Thresholds
}

// DefaultConfig returns the stock weights and thresholds.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Trend:      0.35,
			News:       0.25,
			Risk:       0.20,
			Volatility: 0.20,
		},
		Thresholds: Thresholds{
			BiasEpsilon: 0.05,
			Strong:      0.5,
			Moderate:    0.2,
		},
	}
}

// Validate checks the configuration. Any error here is a
// *ConfigurationError and must abort startup.
func (c Config) Validate() error {
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"trend", c.Weights.Trend},
		{"news", c.Weights.News},
		{"risk", c.Weights.Risk},
		{"volatility", c.Weights.Volatility},
	} {
		if w.value < 0 || w.value > 1 {
			return &ConfigurationError{Reason: fmt.Sprintf("weight %s=%v outside [0,1]", w.name, w.value)}
		}
	}
	if sum := c.Weights.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return &ConfigurationError{Reason: fmt.Sprintf("weights sum to %v, want 1.0", sum)}
	}
	if c.Thresholds.BiasEpsilon < 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("bias epsilon %v is negative", c.Thresholds.BiasEpsilon)}
	}
	if c.Thresholds.Moderate <= 0 || c.Thresholds.Strong <= c.Thresholds.Moderate {
		return &ConfigurationError{Reason: fmt.Sprintf("strength thresholds must satisfy 0 < moderate < strong, got moderate=%v strong=%v",
			c.Thresholds.Moderate, c.Thresholds.Strong)}
	}
	return nil
}
