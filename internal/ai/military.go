package ai

import (
	"warbound/server/internal/sim"
	"warbound/server/internal/world"
	"warbound/server/stats"
)

// trainMilitary grows the army toward the difficulty cap. Cavalry becomes
// more likely with aggression; cannons only join once a core force exists.
func (c *Controller) trainMilitary(w *world.World, tick uint64) []sim.Command {
	military := c.militaryUnits(w)
	if len(military)+w.TrainQueueLength(c.faction) >= c.profile.ArmyCap {
		return nil
	}

	aggression := c.profile.Aggression
	resources := w.Resources(c.faction)

	cannons := 0
	for _, u := range military {
		if u.Kind == stats.UnitCannon {
			cannons++
		}
	}
	maxCannons := 1 + int(aggression*3)
	if len(military) >= 4 && cannons < maxCannons && c.rng.Float64() < aggression*0.3 {
		if resources.CanAfford(stats.Unit(stats.UnitCannon).Cost) {
			return []sim.Command{{
				Type:       sim.CommandTrain,
				Faction:    c.faction,
				UnitKind:   stats.UnitCannon,
				IssuedTick: tick,
			}}
		}
	}

	kind := stats.UnitKnight
	if c.rng.Float64() < aggression {
		kind = stats.UnitCavalry
	}
	if !resources.CanAfford(stats.Unit(kind).Cost) {
		// Fall back to the cheaper line before skipping the cycle.
		kind = stats.UnitKnight
		if !resources.CanAfford(stats.Unit(kind).Cost) {
			return nil
		}
	}
	return []sim.Command{{
		Type:       sim.CommandTrain,
		Faction:    c.faction,
		UnitKind:   kind,
		IssuedTick: tick,
	}}
}

// shouldAttack checks the difficulty-scaled army threshold. Above easy the
// controller also demands a numeric advantage.
func (c *Controller) shouldAttack(w *world.World) bool {
	military := len(c.militaryUnits(w))
	threshold := int(5 - c.profile.Aggression*3)
	if threshold < 3 {
		threshold = 3
	}
	if military < threshold {
		return false
	}
	if c.difficulty != stats.DifficultyEasy && military <= c.enemyMilitaryCount(w) {
		return false
	}
	return true
}
