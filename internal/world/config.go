package world

import (
	"strings"

	"warbound/server/stats"
)

// DefaultSeed is used when no seed is supplied.
const DefaultSeed = "skirmish"

// Config captures the knobs used when generating a world.
type Config struct {
	Width            float64          `json:"width"`
	Height           float64          `json:"height"`
	Seed             string           `json:"seed"`
	Difficulty       stats.Difficulty `json:"difficulty"`
	EnemyIncomeScale float64          `json:"enemyIncomeScale"`
	Healing          bool             `json:"healing"`
}

// Normalized returns a config with defaults applied.
func (cfg Config) Normalized() Config {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = DefaultSeed
	}
	if normalized.Width <= 0 {
		normalized.Width = 2000
	}
	if normalized.Height <= 0 {
		normalized.Height = 2000
	}
	if normalized.EnemyIncomeScale <= 0 {
		normalized.EnemyIncomeScale = stats.Profile(normalized.Difficulty).EconomyFocus
	}
	return normalized
}

// DefaultConfig is a normal-difficulty 2000x2000 world with healing on.
func DefaultConfig() Config {
	return Config{
		Width:      2000,
		Height:     2000,
		Seed:       DefaultSeed,
		Difficulty: stats.DifficultyNormal,
		Healing:    true,
	}.Normalized()
}
