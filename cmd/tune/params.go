// Package main provides CMA-ES tuning of the trail-field parameters against
// target coverage metrics, using the CPU backend for fast headless runs.
package main

import (
	"github.com/pthm-cable/mycelia/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters: the trail
// decay/deposition triple and the steering geometry that feeds it back.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "decay_factor", Path: "trail.decay_factor", Min: 0.90, Max: 0.998, Default: 0.982},
			{Name: "deposit_radius", Path: "trail.deposit_radius", Min: 6.0, Max: 40.0, Default: 26.0},
			{Name: "deposit_strength", Path: "trail.deposit_strength", Min: 0.2, Max: 2.0, Default: 0.85},
			{Name: "turn_strength", Path: "sensor.turn_strength", Min: 0.1, Max: 0.8, Default: 0.35},
			{Name: "sensor_distance", Path: "sensor.distance", Min: 4.0, Max: 20.0, Default: 9.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Trail.DecayFactor = clamped[0]
	cfg.Trail.DepositRadius = clamped[1]
	cfg.Trail.DepositStrength = clamped[2]
	cfg.Sensor.TurnStrength = clamped[3]
	cfg.Sensor.Distance = clamped[4]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Trail.DecayFactor,
		cfg.Trail.DepositRadius,
		cfg.Trail.DepositStrength,
		cfg.Sensor.TurnStrength,
		cfg.Sensor.Distance,
	}
}
