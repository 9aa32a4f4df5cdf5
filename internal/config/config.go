package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt    = float32(1.0 / 60.0)
	DefaultSteps = 600
)

// Vector mirrors the engine's Vec3 for scenario files.
type Vector struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

// Body describes one rigid body in a scenario.
type Body struct {
	Position Vector  `yaml:"position"`
	Velocity Vector  `yaml:"velocity"`
	Mass     float32 `yaml:"mass"`
}

// Config is a complete simulation scenario: the world setup plus how long
// and how finely to step it.
type Config struct {
	Scenario   string  `yaml:"scenario"`
	Dt         float32 `yaml:"dt"`
	Steps      int     `yaml:"steps"`
	Integrator string  `yaml:"integrator"`
	Gravity    *Vector `yaml:"gravity"` // nil keeps the engine default
	Bodies     []Body  `yaml:"bodies"`
}

func Default() *Config {
	return &Config{
		Scenario:   "drop",
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		Integrator: "symplectic",
		Bodies: []Body{
			{Position: Vector{Y: 5}, Mass: 1},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the stepping parameters. Body descriptions are validated
// again by the engine on creation; the checks here catch config mistakes
// before a world is built.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %v", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("scenario %q has no bodies", c.Scenario)
	}
	for i, b := range c.Bodies {
		if b.Mass <= 0 {
			return fmt.Errorf("body %d: mass must be positive, got %v", i, b.Mass)
		}
	}
	return nil
}
