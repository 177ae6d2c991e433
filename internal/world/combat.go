package world

import (
	"math"

	"warbound/server/logging"
	"warbound/server/stats"
)

func (w *World) decayCooldowns(units []*Unit, dt float64) {
	for _, u := range units {
		if u.CooldownRemaining > 0 {
			u.CooldownRemaining -= dt
			if u.CooldownRemaining < 0 {
				u.CooldownRemaining = 0
			}
		}
	}
	for _, b := range w.buildings {
		if b.TowerCooldown > 0 {
			b.TowerCooldown -= dt
			if b.TowerCooldown < 0 {
				b.TowerCooldown = 0
			}
		}
	}
}

// meleeDamage applies the standard formula: attack minus half defense,
// floored at 1, jittered by [0.8, 1.2] and truncated.
func (w *World) meleeDamage(attacker *Unit, defender *Unit) int {
	base := attacker.Attack - defender.Defense/2
	if base < 1 {
		base = 1
	}
	jitter := w.randomDistance(w.combatRNG, damageJitterMin, damageJitterMax)
	damage := int(float64(base) * jitter)
	if damage < 1 {
		damage = 1
	}
	return damage
}

func (w *World) buildingDamage(attacker *Unit) int {
	damage := float64(attacker.Attack)
	switch attacker.Kind {
	case stats.UnitCavalry:
		damage *= cavalryBuildingFactor
	case stats.UnitCannon:
		damage *= cannonBuildingFactor
	}
	if damage < 1 {
		damage = 1
	}
	return int(damage)
}

func (w *World) aggroRadius(u *Unit) float64 {
	factor := aggroFactorMilitary
	if u.Kind == stats.UnitPeasant {
		factor = aggroFactorWorker
	}
	if u.AttackMove {
		factor = aggroFactorAttackMove
	}
	return u.AttackRange * factor
}

// acquireTargets picks fights for units without explicit orders. Military
// and attack-moving units also pull nearby enemy buildings.
func (w *World) acquireTargets(units []*Unit) {
	for _, u := range units {
		if !u.Alive() || u.TargetUnit != 0 || u.TargetBuilding != 0 {
			continue
		}
		if u.MoveTarget != nil && !u.AttackMove {
			continue
		}
		if u.AssignedBuilding != 0 {
			continue
		}
		if target := w.nearestEnemyUnit(u.Faction, u.Pos, w.aggroRadius(u)); target != nil {
			u.SetTargetUnit(target.ID)
			continue
		}
		if u.Kind != stats.UnitPeasant || u.AttackMove {
			if target := w.nearestEnemyBuilding(u.Faction, u.Pos, buildingAggroRadius); target != nil {
				u.SetTargetBuilding(target.ID)
			}
		}
	}
}

func (w *World) nearestEnemyUnit(faction FactionID, pos Vec2, radius float64) *Unit {
	var best *Unit
	bestDist := radius
	for _, other := range w.sortedUnits() {
		if other.Faction == faction || !other.Alive() {
			continue
		}
		if d := dist(pos, other.Pos); d <= bestDist {
			best = other
			bestDist = d
		}
	}
	return best
}

func (w *World) nearestEnemyBuilding(faction FactionID, pos Vec2, radius float64) *Building {
	var best *Building
	bestDist := math.Inf(1)
	for _, other := range w.sortedBuildings() {
		if other.Faction == faction || !other.Alive() {
			continue
		}
		edge := dist(pos, other.Pos) - math.Max(other.Width, other.Height)/2
		if edge <= radius && edge < bestDist {
			best = other
			bestDist = edge
		}
	}
	return best
}

// runCombat resolves attacks for every unit with a live target in range.
func (w *World) runCombat(units []*Unit) {
	for _, u := range units {
		if !u.Alive() || u.CooldownRemaining > 0 {
			continue
		}
		if u.TargetUnit != 0 {
			target := w.units[u.TargetUnit]
			if target == nil || !target.Alive() {
				u.TargetUnit = 0
				continue
			}
			if dist(u.Pos, target.Pos) > u.AttackRange+target.Radius {
				continue
			}
			u.CooldownRemaining = u.Cooldown
			damage := w.meleeDamage(u, target)
			if u.Kind == stats.UnitCannon {
				w.launchProjectile(u.Faction, u.Pos, target.Pos, damage, 1.0, target.ID, 0)
				continue
			}
			target.Health -= damage
			w.publish(logging.Event{
				Type:     "unit_attacked",
				Severity: logging.SeverityDebug,
				Category: logging.CategoryCombat,
				Faction:  u.Faction.String(),
				Entity:   uint64(u.ID),
				Payload:  map[string]any{"target": target.ID, "damage": damage},
			})
			continue
		}
		if u.TargetBuilding != 0 {
			target := w.buildings[u.TargetBuilding]
			if target == nil || !target.Alive() {
				u.TargetBuilding = 0
				continue
			}
			reach := u.AttackRange + buildingRangeAllowance + math.Max(target.Width, target.Height)/2
			if dist(u.Pos, target.Pos) > reach {
				continue
			}
			u.CooldownRemaining = u.Cooldown
			damage := w.buildingDamage(u)
			if u.Kind == stats.UnitCannon {
				w.launchProjectile(u.Faction, u.Pos, target.Pos, damage, 1.0, 0, target.ID)
				continue
			}
			target.Health -= damage
		}
	}
}

// fireTowers lets fully staffed towers shoot the nearest enemy in range.
func (w *World) fireTowers() {
	profile := stats.Tower()
	for _, b := range w.sortedBuildings() {
		if b.Kind != stats.BuildingTower || !b.Complete || !b.Alive() {
			continue
		}
		if b.Workers < b.WorkersNeeded || b.TowerCooldown > 0 {
			continue
		}
		target := w.nearestEnemyUnit(b.Faction, b.Pos, profile.Range)
		if target == nil {
			continue
		}
		b.TowerCooldown = profile.Cooldown
		w.launchProjectile(b.Faction, b.Pos, target.Pos, profile.Attack, profile.HitChance, target.ID, 0)
	}
}
