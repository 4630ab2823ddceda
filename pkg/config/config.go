// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/taricsa/tiny-pilots-sub006/pkg/airplane"
	"github.com/taricsa/tiny-pilots-sub006/pkg/physics"
	"github.com/taricsa/tiny-pilots-sub006/pkg/validation"
)

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "TINYPILOTS"

// ErrInvalidConfig is returned by Validate for any rejected setting
var ErrInvalidConfig = errors.New("invalid configuration")

// SimulationConfig contains configuration for a flight simulation session
type SimulationConfig struct {
	TickRate                  int                                   `json:"tickRate" mapstructure:"tickRate"`
	Seed                      uint64                                `json:"seed" mapstructure:"seed"`
	StrictInput               bool                                  `json:"strictInput" mapstructure:"strictInput"`
	Parallel                  bool                                  `json:"parallel" mapstructure:"parallel"`
	Restitution               float64                               `json:"restitution" mapstructure:"restitution"`
	TurbulenceChance          float64                               `json:"turbulenceChance" mapstructure:"turbulenceChance"`
	WindUpdateIntervalSeconds float64                               `json:"windUpdateIntervalSeconds" mapstructure:"windUpdateIntervalSeconds"`
	DefaultEnvironment        string                                `json:"defaultEnvironment" mapstructure:"defaultEnvironment"`
	Archetypes                map[string]airplane.Coefficients      `json:"archetypes" mapstructure:"archetypes"`
	Folds                     map[string]airplane.PhysicsMultiplier `json:"folds" mapstructure:"folds"`
	Environments              map[string]EnvironmentConfig          `json:"environments" mapstructure:"environments"`
	Telemetry                 TelemetryConfig                       `json:"telemetry" mapstructure:"telemetry"`
}

// EnvironmentConfig contains the wind parameters of a themed environment
type EnvironmentConfig struct {
	DirectionDegrees   float64 `json:"directionDegrees" mapstructure:"directionDegrees"`
	Strength           float64 `json:"strength" mapstructure:"strength"`
	VariabilityDegrees float64 `json:"variabilityDegrees" mapstructure:"variabilityDegrees"`
	MinStrength        float64 `json:"minStrength" mapstructure:"minStrength"`
	MaxStrength        float64 `json:"maxStrength" mapstructure:"maxStrength"`
	Easing             string  `json:"easing" mapstructure:"easing"`
}

// TelemetryConfig contains settings for the outbound snapshot publisher
type TelemetryConfig struct {
	Enabled                bool    `json:"enabled" mapstructure:"enabled"`
	Path                   string  `json:"path" mapstructure:"path"`
	EveryTicks             int     `json:"everyTicks" mapstructure:"everyTicks"`
	MaxPerSecond           int     `json:"maxPerSecond" mapstructure:"maxPerSecond"`
	BreakerMaxRequests     int     `json:"breakerMaxRequests" mapstructure:"breakerMaxRequests"`
	BreakerIntervalSeconds float64 `json:"breakerIntervalSeconds" mapstructure:"breakerIntervalSeconds"`
	BreakerTimeoutSeconds  float64 `json:"breakerTimeoutSeconds" mapstructure:"breakerTimeoutSeconds"`
	BreakerMaxFailures     int     `json:"breakerMaxFailures" mapstructure:"breakerMaxFailures"`
}

// InitialWind returns the wind an environment session starts with
func (e EnvironmentConfig) InitialWind() physics.WindState {
	return physics.WindFromDirection(e.DirectionDegrees, e.Strength)
}

// Variability returns the random-wind bounds of the environment
func (e EnvironmentConfig) Variability() physics.WindVariability {
	return physics.WindVariability{
		VariabilityDegrees: e.VariabilityDegrees,
		MinStrength:        e.MinStrength,
		MaxStrength:        e.MaxStrength,
	}
}

// EasingCurve returns the parsed transition easing, defaulting to linear
func (e EnvironmentConfig) EasingCurve() physics.Easing {
	easing, err := physics.ParseEasing(e.Easing)
	if err != nil {
		return physics.EaseLinear
	}
	return easing
}

// LoadConfig reads configuration from a file and the environment, merged over
// DefaultConfig. An empty path skips the file and applies only env overrides.
func LoadConfig(path string) (*SimulationConfig, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalizeNames()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every scalar key so env overrides are visible to Unmarshal
func setDefaults(v *viper.Viper, d *SimulationConfig) {
	v.SetDefault("tickRate", d.TickRate)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("strictInput", d.StrictInput)
	v.SetDefault("parallel", d.Parallel)
	v.SetDefault("restitution", d.Restitution)
	v.SetDefault("turbulenceChance", d.TurbulenceChance)
	v.SetDefault("windUpdateIntervalSeconds", d.WindUpdateIntervalSeconds)
	v.SetDefault("defaultEnvironment", d.DefaultEnvironment)

	v.SetDefault("telemetry.enabled", d.Telemetry.Enabled)
	v.SetDefault("telemetry.path", d.Telemetry.Path)
	v.SetDefault("telemetry.everyTicks", d.Telemetry.EveryTicks)
	v.SetDefault("telemetry.maxPerSecond", d.Telemetry.MaxPerSecond)
	v.SetDefault("telemetry.breakerMaxRequests", d.Telemetry.BreakerMaxRequests)
	v.SetDefault("telemetry.breakerIntervalSeconds", d.Telemetry.BreakerIntervalSeconds)
	v.SetDefault("telemetry.breakerTimeoutSeconds", d.Telemetry.BreakerTimeoutSeconds)
	v.SetDefault("telemetry.breakerMaxFailures", d.Telemetry.BreakerMaxFailures)
}

// normalizeNames lowercases table keys; viper already does this for file
// keys but configs built in code may not.
func (c *SimulationConfig) normalizeNames() {
	c.DefaultEnvironment = strings.ToLower(strings.TrimSpace(c.DefaultEnvironment))
	c.Archetypes = lowerKeys(c.Archetypes)
	c.Folds = lowerKeys(c.Folds)
	c.Environments = lowerKeys(c.Environments)
}

func lowerKeys[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SimulationConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for values the simulation cannot run with
func (c *SimulationConfig) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tickRate must be positive, got %d", ErrInvalidConfig, c.TickRate)
	}
	if err := validation.ValidateRestitution(c.Restitution); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := validation.ValidateScalar("turbulenceChance", c.TurbulenceChance); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.TurbulenceChance < 0 || c.TurbulenceChance > 1 {
		return fmt.Errorf("%w: turbulenceChance must be within [0, 1], got %v", ErrInvalidConfig, c.TurbulenceChance)
	}
	if c.WindUpdateIntervalSeconds < 0 {
		return fmt.Errorf("%w: windUpdateIntervalSeconds must not be negative", ErrInvalidConfig)
	}

	if len(c.Archetypes) == 0 {
		return fmt.Errorf("%w: at least one archetype is required", ErrInvalidConfig)
	}
	for _, name := range sortedKeys(c.Archetypes) {
		if err := validateCoefficients(c.Archetypes[name]); err != nil {
			return fmt.Errorf("%w: archetype %q: %w", ErrInvalidConfig, name, err)
		}
	}

	if len(c.Folds) == 0 {
		return fmt.Errorf("%w: at least one fold is required", ErrInvalidConfig)
	}
	for _, name := range sortedKeys(c.Folds) {
		m := c.Folds[name]
		for _, field := range []struct {
			name  string
			value float64
		}{{"lift", m.Lift}, {"drag", m.Drag}, {"turnRate", m.TurnRate}} {
			if err := validation.ValidateMultiplier(field.name, field.value); err != nil {
				return fmt.Errorf("%w: fold %q: %w", ErrInvalidConfig, name, err)
			}
		}
	}

	for _, name := range sortedKeys(c.Environments) {
		if err := validateEnvironment(c.Environments[name]); err != nil {
			return fmt.Errorf("%w: environment %q: %w", ErrInvalidConfig, name, err)
		}
	}
	if _, ok := c.Environments[c.DefaultEnvironment]; !ok {
		return fmt.Errorf("%w: default environment %q is not defined", ErrInvalidConfig, c.DefaultEnvironment)
	}

	if c.Telemetry.Enabled && c.Telemetry.EveryTicks <= 0 {
		return fmt.Errorf("%w: telemetry.everyTicks must be positive", ErrInvalidConfig)
	}

	return nil
}

func validateCoefficients(c airplane.Coefficients) error {
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"lift", c.Lift},
		{"drag", c.Drag},
		{"tiltThrust", c.TiltThrust},
		{"forwardThrust", c.ForwardThrust},
		{"windResistance", c.WindResistance},
		{"stabilization", c.Stabilization},
		{"mass", c.Mass},
	} {
		if err := validation.ValidateScalar(field.name, field.value); err != nil {
			return err
		}
		if field.value < 0 {
			return fmt.Errorf("%s must not be negative, got %v", field.name, field.value)
		}
	}
	if c.Mass == 0 {
		return errors.New("mass must be positive")
	}
	return nil
}

func validateEnvironment(e EnvironmentConfig) error {
	if err := validation.ValidateScalar("directionDegrees", e.DirectionDegrees); err != nil {
		return err
	}
	if e.Strength < 0 || e.MinStrength < 0 {
		return errors.New("wind strengths must not be negative")
	}
	if e.MinStrength > e.MaxStrength {
		return fmt.Errorf("minStrength %v exceeds maxStrength %v", e.MinStrength, e.MaxStrength)
	}
	if e.VariabilityDegrees < 0 || e.VariabilityDegrees > 180 {
		return fmt.Errorf("variabilityDegrees must be within [0, 180], got %v", e.VariabilityDegrees)
	}
	if _, err := physics.ParseEasing(e.Easing); err != nil {
		return err
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CoefficientTable converts the archetype section into a lookup table
func (c *SimulationConfig) CoefficientTable() airplane.CoefficientTable {
	table := make(airplane.CoefficientTable, len(c.Archetypes))
	for name, coeffs := range c.Archetypes {
		table[airplane.Archetype(strings.ToLower(name))] = coeffs
	}
	return table
}

// FoldTable converts the fold section into a lookup table
func (c *SimulationConfig) FoldTable() airplane.FoldTable {
	table := make(airplane.FoldTable, len(c.Folds))
	for name, m := range c.Folds {
		table[airplane.FoldType(strings.ToLower(name))] = m
	}
	return table
}

// Environment returns the named environment's wind configuration
func (c *SimulationConfig) Environment(name string) (EnvironmentConfig, bool) {
	env, ok := c.Environments[strings.ToLower(strings.TrimSpace(name))]
	return env, ok
}

// EnvironmentNames returns the configured environment names in sorted order
func (c *SimulationConfig) EnvironmentNames() []string {
	return sortedKeys(c.Environments)
}

// DefaultConfig returns a default simulation configuration
func DefaultConfig() *SimulationConfig {
	archetypes := make(map[string]airplane.Coefficients)
	for name, coeffs := range airplane.DefaultCoefficients() {
		archetypes[name.String()] = coeffs
	}
	folds := make(map[string]airplane.PhysicsMultiplier)
	for name, m := range airplane.DefaultFolds() {
		folds[name.String()] = m
	}

	return &SimulationConfig{
		TickRate:                  60,
		Seed:                      1,
		StrictInput:               true,
		Parallel:                  false,
		Restitution:               physics.DefaultRestitution,
		TurbulenceChance:          physics.DefaultTurbulenceChance,
		WindUpdateIntervalSeconds: 5,
		DefaultEnvironment:        "meadow",
		Archetypes:                archetypes,
		Folds:                     folds,
		Environments: map[string]EnvironmentConfig{
			"meadow": {
				DirectionDegrees:   0,
				Strength:           2,
				VariabilityDegrees: 15,
				MinStrength:        0.5,
				MaxStrength:        5,
				Easing:             "linear",
			},
			"alpine": {
				DirectionDegrees:   200,
				Strength:           8,
				VariabilityDegrees: 45,
				MinStrength:        3,
				MaxStrength:        15,
				Easing:             "smoothstep",
			},
			"coastal": {
				DirectionDegrees:   90,
				Strength:           5,
				VariabilityDegrees: 30,
				MinStrength:        2,
				MaxStrength:        10,
				Easing:             "smoothstep",
			},
			"hangar": {
				Strength: 0,
				Easing:   "linear",
			},
		},
		Telemetry: TelemetryConfig{
			Enabled:                false,
			Path:                   "",
			EveryTicks:             6,
			MaxPerSecond:           20,
			BreakerMaxRequests:     1,
			BreakerIntervalSeconds: 60,
			BreakerTimeoutSeconds:  10,
			BreakerMaxFailures:     3,
		},
	}
}
