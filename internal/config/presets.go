package config

import "sort"

// Built-in scenarios. Each call returns a fresh config so callers can
// mutate the result freely.
var presets = map[string]func() *Config{
	"drop": Default,
	"volley": func() *Config {
		cfg := Default()
		cfg.Scenario = "volley"
		cfg.Bodies = []Body{
			{Position: Vector{X: -3, Y: 2}, Velocity: Vector{X: 4, Y: 6}, Mass: 1},
			{Position: Vector{Y: 2}, Velocity: Vector{Y: 8}, Mass: 2},
			{Position: Vector{X: 3, Y: 2}, Velocity: Vector{X: -4, Y: 6}, Mass: 0.5},
		}
		return cfg
	},
	"rain": func() *Config {
		cfg := Default()
		cfg.Scenario = "rain"
		cfg.Bodies = nil
		for i := 0; i < 5; i++ {
			for j := 0; j < 5; j++ {
				cfg.Bodies = append(cfg.Bodies, Body{
					Position: Vector{
						X: float32(i-2) * 2,
						Y: 8 + float32(j),
						Z: float32(j-2) * 2,
					},
					Mass: 1,
				})
			}
		}
		return cfg
	},
	"moonshot": func() *Config {
		cfg := Default()
		cfg.Scenario = "moonshot"
		cfg.Gravity = &Vector{Y: -1.62}
		cfg.Steps = 1200
		cfg.Bodies = []Body{
			{Position: Vector{Y: 1}, Velocity: Vector{X: 1, Y: 5}, Mass: 10},
		}
		return cfg
	},
}

// GetPreset returns a copy of the named preset, or nil if unknown.
func GetPreset(name string) *Config {
	fn, ok := presets[name]
	if !ok {
		return nil
	}
	return fn()
}

// ListPresets returns all preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
