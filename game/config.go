package game

import (
	"github.com/pthm-cable/mycelia/config"
	"github.com/pthm-cable/mycelia/renderer"
	"github.com/pthm-cable/mycelia/systems"
)

// Parameter plumbing: the subsystems take plain param structs so they carry
// no config dependency; everything is bound here, once, at construction.

func spawnerParams(cfg *config.Config) systems.SpawnerParams {
	return systems.SpawnerParams{
		CanvasW: cfg.Derived.ScreenW32,
		CanvasH: cfg.Derived.ScreenH32,

		WindowYears:       cfg.Clock.WindowYears,
		MinSimilarity:     cfg.Spawner.MinSimilarity,
		TrioSize:          cfg.Spawner.TrioSize,
		TrioIntervalYears: cfg.Spawner.TrioIntervalYears,
		FrontierCap:       cfg.Spawner.FrontierCap,
		SpawnCapPerTick:   cfg.Spawner.SpawnCapPerTick,

		Weights: systems.ScoreWeights{
			Recency:   cfg.Spawner.WeightRecency,
			Intensity: cfg.Spawner.WeightIntensity,
			Bridging:  cfg.Spawner.WeightBridging,
		},
		CooldownYears:          cfg.Spawner.CooldownYears,
		RecencySaturationYears: cfg.Spawner.RecencySaturationYr,
		NounWords:              cfg.Spawner.NounWords,

		Speed:             float32(cfg.Agents.Speed),
		FrontierSpeedMult: float32(cfg.Agents.FrontierSpeedMult),
		SpeedJitter:       float32(cfg.Agents.SpeedJitter),
		SpawnJitter:       float32(cfg.Agents.SpawnJitter),
		EcoMinAge:         cfg.Agents.EcoMinAge,
		EcoMaxAge:         cfg.Agents.EcoMaxAge,
		FrontierMinAge:    cfg.Agents.FrontierMinAge,
		FrontierMaxAge:    cfg.Agents.FrontierMaxAge,

		FrontierWeight:  float32(cfg.Trail.FrontierWeight),
		EcosystemWeight: float32(cfg.Trail.EcosystemWeight),
	}
}

func steerParams(cfg *config.Config) systems.SteerParams {
	return systems.SteerParams{
		SensorAngle:    float32(cfg.Sensor.Angle),
		SensorDistance: float32(cfg.Sensor.Distance),
		TurnStrength:   float32(cfg.Sensor.TurnStrength),
		Jitter:         float32(cfg.Sensor.Jitter),
	}
}

func softParams(cfg *config.Config) systems.SoftParams {
	return systems.SoftParams{
		Width:  cfg.Derived.ScreenW32,
		Height: cfg.Derived.ScreenH32,

		Steer:    steerParams(cfg),
		GoalBias: float32(cfg.Sensor.GoalBias),

		DecayFactor:     float32(cfg.Trail.DecayFactor),
		DepositRadius:   float32(cfg.Trail.DepositRadius),
		DepositStrength: float32(cfg.Trail.DepositStrength),
	}
}

func pipelineParams(cfg *config.Config) renderer.PipelineParams {
	return renderer.PipelineParams{
		CanvasW:  cfg.Screen.Width,
		CanvasH:  cfg.Screen.Height,
		TexSide:  cfg.Derived.TexSide,
		AgentCap: cfg.GPU.ShaderAgentCap,

		// The direction codec normalizes speed against this bound; it has to
		// cover the fastest possible spawn.
		MaxSpeed: maxSpawnSpeed(cfg),

		SensorAngle:    float32(cfg.Sensor.Angle),
		SensorDistance: float32(cfg.Sensor.Distance),
		TurnStrength:   float32(cfg.Sensor.TurnStrength),
		Jitter:         float32(cfg.Sensor.Jitter),
		GoalBias:       float32(cfg.Sensor.GoalBias),

		DecayFactor:     float32(cfg.Trail.DecayFactor),
		DepositRadius:   float32(cfg.Trail.DepositRadius),
		DepositStrength: float32(cfg.Trail.DepositStrength),
		TintSaturation:  float32(cfg.Trail.TintSaturation),
	}
}

func maxSpawnSpeed(cfg *config.Config) float32 {
	s := cfg.Agents.Speed * (1 + cfg.Agents.SpeedJitter)
	if cfg.Agents.FrontierSpeedMult > 1 {
		s *= cfg.Agents.FrontierSpeedMult
	}
	return float32(s)
}
