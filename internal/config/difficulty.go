package config

// DifficultyManager derives the scroll speed from score or elapsed ticks.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0, 1),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the difficulty level in [0, 1]. Without progression it stays
// at the initial level.
func (d *DifficultyManager) Level(score, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	return d.initialLevel + clampF(progress, 0, 1)*(1-d.initialLevel)
}

// Speed scales baseSpeed from 1x at level 0 to (1 + speed_multiplier)x at level 1.
func (d *DifficultyManager) Speed(baseSpeed float64, score, ticks int) float64 {
	return baseSpeed * (1 + d.Level(score, ticks)*d.cfg.Scaling.SpeedMultiplier)
}

func clampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
