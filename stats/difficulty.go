package stats

import "strings"

// Difficulty selects an AI opponent profile.
type Difficulty uint8

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
	DifficultyBrutal

	DifficultyCount
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyNormal:
		return "normal"
	case DifficultyHard:
		return "hard"
	case DifficultyBrutal:
		return "brutal"
	default:
		return "unknown"
	}
}

// ParseDifficulty maps a label to a difficulty, defaulting to normal.
func ParseDifficulty(label string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "easy":
		return DifficultyEasy
	case "hard":
		return DifficultyHard
	case "brutal":
		return DifficultyBrutal
	default:
		return DifficultyNormal
	}
}

// DifficultyProfile tunes the AI controller.
type DifficultyProfile struct {
	Aggression   float64
	EconomyFocus float64
	Micro        float64
	ArmyCap      int
}

// Aggression is a 0..1 disposition knob; Micro separately tunes the think
// cadence.
var difficulties = [DifficultyCount]DifficultyProfile{
	DifficultyEasy:   {Aggression: 0.3, EconomyFocus: 0.8, Micro: 0.3, ArmyCap: 5},
	DifficultyNormal: {Aggression: 0.5, EconomyFocus: 1.0, Micro: 0.5, ArmyCap: 8},
	DifficultyHard:   {Aggression: 0.7, EconomyFocus: 1.2, Micro: 0.7, ArmyCap: 12},
	DifficultyBrutal: {Aggression: 0.9, EconomyFocus: 1.5, Micro: 0.9, ArmyCap: 20},
}

// Profile returns the tuning values for a difficulty.
func Profile(d Difficulty) DifficultyProfile {
	if d >= DifficultyCount {
		return difficulties[DifficultyNormal]
	}
	return difficulties[d]
}
