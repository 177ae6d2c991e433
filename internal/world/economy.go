package world

import (
	"warbound/server/internal/sim"
	"warbound/server/logging"
	"warbound/server/stats"
)

// tickEconomy accrues the periodic clocks and fires the interval passes.
func (w *World) tickEconomy(units []*Unit, dt float64) {
	w.economyClock += dt
	for w.economyClock >= economyInterval {
		w.economyClock -= economyInterval
		w.generateResources()
	}

	w.foodClock += dt
	for w.foodClock >= foodInterval {
		w.foodClock -= foodInterval
		w.consumeFood(units)
	}

	if w.config.Healing {
		w.healClock += dt
		for w.healClock >= healInterval {
			w.healClock -= healInterval
			w.healUnits(units)
		}
	}
}

// generateResources credits every completed building's yield, scaled by its
// staffing ratio. The scripted opponent gets a bonus when its economy focus
// exceeds 1; a focus below 1 is never a penalty.
func (w *World) generateResources() {
	for _, b := range w.sortedBuildings() {
		if !b.Complete || !b.Alive() {
			continue
		}
		income := scaleCost(stats.Building(b.Kind).Generation, b.StaffingRatio())
		if b.Faction == sim.FactionEnemy && w.config.EnemyIncomeScale > 1 {
			income = scaleCost(income, w.config.EnemyIncomeScale)
		}
		w.resources[b.Faction].Add(income)
	}
}

// consumeFood charges each faction per living unit. A faction that cannot
// cover the bill is drained to zero and every one of its units takes
// starvation damage.
func (w *World) consumeFood(units []*Unit) {
	var headcount [sim.FactionCount]int
	for _, u := range units {
		if u.Alive() {
			headcount[u.Faction]++
		}
	}
	for f := sim.Faction(0); f < sim.FactionCount; f++ {
		need := headcount[f] * foodPerUnit
		if need == 0 {
			continue
		}
		if w.resources[f].Food >= need {
			w.resources[f].Food -= need
			continue
		}
		w.resources[f].Food = 0
		for _, u := range units {
			if u.Faction == f && u.Alive() {
				u.Health -= starvationDamage
			}
		}
		w.publish(logging.Event{
			Type:     "starvation",
			Severity: logging.SeverityWarn,
			Category: logging.CategoryEconomy,
			Faction:  f.String(),
			Payload:  map[string]any{"units": headcount[f], "damage": starvationDamage},
		})
	}
}

// healUnits restores wounded units if the faction can pay the full food cost
// for all of them; partial healing is never applied.
func (w *World) healUnits(units []*Unit) {
	for f := sim.Faction(0); f < sim.FactionCount; f++ {
		wounded := 0
		for _, u := range units {
			if u.Faction == f && u.Alive() && u.Health < u.MaxHealth {
				wounded++
			}
		}
		if wounded == 0 {
			continue
		}
		cost := wounded * healFoodCost
		if w.resources[f].Food < cost {
			continue
		}
		w.resources[f].Food -= cost
		for _, u := range units {
			if u.Faction != f || !u.Alive() || u.Health >= u.MaxHealth {
				continue
			}
			u.Health += healAmount
			if u.Health > u.MaxHealth {
				u.Health = u.MaxHealth
			}
		}
	}
}
