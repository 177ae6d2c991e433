package ai

import (
	"math"
	"sort"

	"warbound/server/internal/world"
	"warbound/server/stats"
)

func vecDist(a, b world.Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// ownUnits returns the faction's living units sorted by id so every decision
// is deterministic under a fixed seed.
func (c *Controller) ownUnits(w *world.World) []*world.Unit {
	var units []*world.Unit
	w.Units(func(u *world.Unit) {
		if u.Faction == c.faction && u.Alive() {
			units = append(units, u)
		}
	})
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return units
}

func (c *Controller) enemyUnits(w *world.World) []*world.Unit {
	var units []*world.Unit
	w.Units(func(u *world.Unit) {
		if u.Faction != c.faction && u.Alive() {
			units = append(units, u)
		}
	})
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return units
}

func (c *Controller) ownBuildings(w *world.World) []*world.Building {
	var buildings []*world.Building
	w.Buildings(func(b *world.Building) {
		if b.Faction == c.faction && b.Alive() {
			buildings = append(buildings, b)
		}
	})
	sort.Slice(buildings, func(i, j int) bool { return buildings[i].ID < buildings[j].ID })
	return buildings
}

func (c *Controller) enemyBuildings(w *world.World) []*world.Building {
	var buildings []*world.Building
	w.Buildings(func(b *world.Building) {
		if b.Faction != c.faction && b.Alive() {
			buildings = append(buildings, b)
		}
	})
	sort.Slice(buildings, func(i, j int) bool { return buildings[i].ID < buildings[j].ID })
	return buildings
}

func isMilitary(u *world.Unit) bool {
	return u.Kind != stats.UnitPeasant
}

func (c *Controller) militaryUnits(w *world.World) []*world.Unit {
	var military []*world.Unit
	for _, u := range c.ownUnits(w) {
		if isMilitary(u) {
			military = append(military, u)
		}
	}
	return military
}

// nearestEnemyInRange finds the closest living enemy unit within radius of u.
func (c *Controller) nearestEnemyInRange(w *world.World, u *world.Unit, radius float64) *world.Unit {
	var best *world.Unit
	bestDist := radius
	for _, e := range c.enemyUnits(w) {
		if d := vecDist(u.Pos, e.Pos); d <= bestDist {
			best = e
			bestDist = d
		}
	}
	return best
}

func (c *Controller) enemyMilitaryCount(w *world.World) int {
	count := 0
	for _, u := range c.enemyUnits(w) {
		if isMilitary(u) {
			count++
		}
	}
	return count
}

// waveUnits resolves the stored wave ids against the world, dropping dead
// members in place.
func (c *Controller) waveUnits(w *world.World) []*world.Unit {
	var units []*world.Unit
	survivors := c.wave[:0]
	for _, id := range c.wave {
		u := w.Unit(id)
		if u != nil && u.Alive() {
			units = append(units, u)
			survivors = append(survivors, id)
		}
	}
	c.wave = survivors
	return units
}

func normalize(v world.Vec2) world.Vec2 {
	length := math.Hypot(v.X, v.Y)
	if length == 0 {
		return world.Vec2{X: 1, Y: 0}
	}
	return world.Vec2{X: v.X / length, Y: v.Y / length}
}

func perpendicular(v world.Vec2) world.Vec2 {
	return world.Vec2{X: -v.Y, Y: v.X}
}
