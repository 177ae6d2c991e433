package world

import (
	"math"
	"sort"
)

func (w *World) sortedUnits() []*Unit {
	units := make([]*Unit, 0, len(w.units))
	for _, u := range w.units {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return units
}

func (w *World) sortedBuildings() []*Building {
	buildings := make([]*Building, 0, len(w.buildings))
	for _, b := range w.buildings {
		buildings = append(buildings, b)
	}
	sort.Slice(buildings, func(i, j int) bool { return buildings[i].ID < buildings[j].ID })
	return buildings
}

// speedMultiplier slows units crossing any building footprint. Structures
// obstruct both sides alike.
func (w *World) speedMultiplier(u *Unit) float64 {
	multiplier := 1.0
	for _, b := range w.buildings {
		if !b.Contains(u.Pos, u.Radius) {
			continue
		}
		slow := incompleteFootprintSlow
		if b.Complete {
			slow = completeFootprintSlow
		}
		if slow < multiplier {
			multiplier = slow
		}
	}
	return multiplier
}

// moveUnits advances every unit toward its destination for this tick.
func (w *World) moveUnits(units []*Unit, dt float64) {
	for _, u := range units {
		if !u.Alive() {
			continue
		}
		dest, stopRange, ok := w.destination(u)
		if !ok {
			continue
		}
		d := dist(u.Pos, dest)
		if d <= stopRange {
			if u.MoveTarget != nil && u.TargetUnit == 0 && u.TargetBuilding == 0 {
				u.MoveTarget = nil
				u.AttackMove = false
			}
			continue
		}
		step := u.Speed * frameScale * dt * w.speedMultiplier(u)
		if step >= d {
			step = d
		}
		u.Pos.X += (dest.X - u.Pos.X) / d * step
		u.Pos.Y += (dest.Y - u.Pos.Y) / d * step
		u.Pos = w.clampToMap(u.Pos)
	}
}

// destination resolves where a unit is heading and how close it needs to get.
// Stale target ids clear silently and fall back to any retained attack-move
// destination.
func (w *World) destination(u *Unit) (Vec2, float64, bool) {
	if u.TargetUnit != 0 {
		target := w.units[u.TargetUnit]
		if target == nil || !target.Alive() {
			u.TargetUnit = 0
		} else {
			return target.Pos, u.AttackRange + target.Radius, true
		}
	}
	if u.TargetBuilding != 0 {
		target := w.buildings[u.TargetBuilding]
		if target == nil || !target.Alive() {
			u.TargetBuilding = 0
		} else {
			return target.Pos, u.AttackRange + buildingRangeAllowance + math.Max(target.Width, target.Height)/2, true
		}
	}
	if u.TargetUnit == 0 && u.TargetBuilding == 0 && u.MoveTarget == nil && u.AttackMove {
		// Resume the retained advance after an engagement ended.
		point := u.AttackMovePoint
		u.MoveTarget = &point
	}
	if u.MoveTarget != nil {
		return *u.MoveTarget, arriveEpsilon, true
	}
	return Vec2{}, 0, false
}

// resolveUnitCollisions runs the symmetric pairwise soft-collision pass.
// Overlapping circles push each other apart along the separating axis, half
// of the correction per unit, re-clamped to map bounds.
func (w *World) resolveUnitCollisions(units []*Unit, dt float64) {
	for iteration := 0; iteration < collisionIterations; iteration++ {
		adjusted := false
		for i := 0; i < len(units); i++ {
			a := units[i]
			if !a.Alive() {
				continue
			}
			for j := i + 1; j < len(units); j++ {
				b := units[j]
				if !b.Alive() {
					continue
				}
				dx := b.Pos.X - a.Pos.X
				dy := b.Pos.Y - a.Pos.Y
				distance := math.Hypot(dx, dy)
				minDist := a.Radius + b.Radius
				if distance >= minDist {
					continue
				}
				if distance == 0 {
					// Coincident centers get a deterministic separation axis.
					dx, dy, distance = 1, 0, 1
				}
				overlap := minDist - distance
				push := math.Min(overlap/2, overlap/2*collisionPush*dt)
				nx := dx / distance
				ny := dy / distance
				a.Pos.X -= nx * push
				a.Pos.Y -= ny * push
				b.Pos.X += nx * push
				b.Pos.Y += ny * push
				a.Pos = w.clampToMap(a.Pos)
				b.Pos = w.clampToMap(b.Pos)
				adjusted = true
			}
		}
		if !adjusted {
			return
		}
	}
}
