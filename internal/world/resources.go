package world

import (
	"math"

	"warbound/server/stats"
)

// Resources is a faction's stockpile. Mutations happen only on the loop
// goroutine; Spend is a single check-and-subtract so a stockpile can never
// go negative.
type Resources struct {
	Gold int `json:"gold"`
	Food int `json:"food"`
	Wood int `json:"wood"`
}

// CanAfford reports whether the stockpile covers the cost.
func (r Resources) CanAfford(cost stats.Cost) bool {
	return r.Gold >= cost.Gold && r.Food >= cost.Food && r.Wood >= cost.Wood
}

// Spend subtracts the cost if affordable, returning false without mutating
// anything otherwise.
func (r *Resources) Spend(cost stats.Cost) bool {
	if !r.CanAfford(cost) {
		return false
	}
	r.Gold -= cost.Gold
	r.Food -= cost.Food
	r.Wood -= cost.Wood
	return true
}

// Add credits the stockpile.
func (r *Resources) Add(income stats.Cost) {
	r.Gold += income.Gold
	r.Food += income.Food
	r.Wood += income.Wood
}

// scaleCost multiplies a bundle, truncating toward zero.
func scaleCost(cost stats.Cost, factor float64) stats.Cost {
	return stats.Cost{
		Gold: int(math.Floor(float64(cost.Gold) * factor)),
		Food: int(math.Floor(float64(cost.Food) * factor)),
		Wood: int(math.Floor(float64(cost.Wood) * factor)),
	}
}
