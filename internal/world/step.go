package world

import (
	"warbound/server/internal/sim"
	"warbound/server/logging"
)

// Step advances the simulation by dt seconds. The pass order is fixed:
// movement, collision, target acquisition, combat, workers, construction,
// training, towers, projectiles, cooldown decay, economy, pruning, win check.
// Once a winner is decided the world freezes.
func (w *World) Step(tick uint64, dt float64) {
	if w.winner != nil {
		return
	}
	w.currentTick = tick

	units := w.sortedUnits()
	w.moveUnits(units, dt)
	w.resolveUnitCollisions(units, dt)
	w.acquireTargets(units)
	w.runCombat(units)
	w.updateWorkerStatus(units)
	w.tickConstruction(dt)
	w.tickTraining(dt)
	w.fireTowers()
	w.updateProjectiles(dt)
	w.decayCooldowns(units, dt)
	w.tickEconomy(units, dt)
	w.pruneDead()
	w.checkVictory()
}

// pruneDead removes entities at or below zero health and clears every
// dangling reference the same tick. The doomed sets are collected before any
// deletion so the maps are never mutated mid-range.
func (w *World) pruneDead() {
	var deadUnits []EntityID
	for id, u := range w.units {
		if u.Health <= 0 {
			deadUnits = append(deadUnits, id)
		}
	}
	var deadBuildings []EntityID
	for id, b := range w.buildings {
		if b.Health <= 0 {
			deadBuildings = append(deadBuildings, id)
		}
	}

	for _, id := range deadUnits {
		unit := w.units[id]
		delete(w.units, id)
		w.publish(logging.Event{
			Type:     "unit_died",
			Category: logging.CategoryCombat,
			Faction:  unit.Faction.String(),
			Entity:   uint64(id),
			Payload:  map[string]any{"kind": unit.Kind.String()},
		})
	}
	for _, id := range deadBuildings {
		building := w.buildings[id]
		delete(w.buildings, id)
		w.publish(logging.Event{
			Type:     "building_destroyed",
			Category: logging.CategoryCombat,
			Faction:  building.Faction.String(),
			Entity:   uint64(id),
			Payload:  map[string]any{"kind": building.Kind.String()},
		})
	}

	if len(deadUnits) == 0 && len(deadBuildings) == 0 {
		return
	}
	for _, u := range w.units {
		if u.TargetUnit != 0 && w.units[u.TargetUnit] == nil {
			u.TargetUnit = 0
		}
		if u.TargetBuilding != 0 && w.buildings[u.TargetBuilding] == nil {
			u.TargetBuilding = 0
		}
		if u.AssignedBuilding != 0 && w.buildings[u.AssignedBuilding] == nil {
			u.AssignedBuilding = 0
		}
	}
}

// removeBuilding deletes a standing building outside combat (deconstruction)
// and releases anything referencing it.
func (w *World) removeBuilding(id EntityID) {
	delete(w.buildings, id)
	for _, u := range w.units {
		if u.TargetBuilding == id {
			u.TargetBuilding = 0
		}
		if u.AssignedBuilding == id {
			u.AssignedBuilding = 0
		}
	}
}

func (w *World) checkVictory() {
	for f := sim.Faction(0); f < sim.FactionCount; f++ {
		if w.Castle(f) != nil {
			continue
		}
		winner := f.Opponent()
		w.winner = &winner
		w.publish(logging.Event{
			Type:     "game_over",
			Severity: logging.SeverityInfo,
			Category: logging.CategoryVictory,
			Faction:  winner.String(),
		})
		return
	}
}
