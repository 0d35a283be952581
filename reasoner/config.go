package reasoner

import (
	"log/slog"

	"github.com/brunokim/gdl-engine/assignments"
	"github.com/brunokim/gdl-engine/domain"
	"github.com/brunokim/gdl-engine/errors"
)

// Config holds the tunables of forward chaining.
type Config struct {
	// MaxRounds bounds the number of semi-naive rounds of a fixpoint.
	MaxRounds int `yaml:"max_rounds"`
	// Planner is the plan factory used to compile rules: "dmst", "legacy" or "odometer".
	Planner string `yaml:"planner"`
}

// DefaultConfig returns the configuration used for unset fields.
func DefaultConfig() Config {
	return Config{
		MaxRounds: 1000,
		Planner:   "dmst",
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxRounds <= 0 {
		c.MaxRounds = def.MaxRounds
	}
	if c.Planner == "" {
		c.Planner = def.Planner
	}
	return c
}

// NewFactory returns the plan factory named by planner. Constants are only used
// by the legacy planner, and may be nil.
func NewFactory(planner string, model *domain.Model, constants *domain.Constants, logger *slog.Logger) (assignments.Factory, error) {
	switch planner {
	case "dmst", "":
		return assignments.DMSTFactory{Model: model, Logger: logger}, nil
	case "legacy":
		return assignments.LegacyFactory{Model: model, Constants: constants, Logger: logger}, nil
	case "odometer":
		return assignments.OdometerFactory{Model: model}, nil
	default:
		return nil, errors.New("unknown planner %q", planner)
	}
}
