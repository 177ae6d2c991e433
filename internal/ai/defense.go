package ai

import (
	"math"

	"warbound/server/internal/sim"
	"warbound/server/internal/world"
)

const (
	defenseLineSlots    = 8
	defenseLineDistance = 200.0
	defenseLineSpacing  = 80.0
	defenseDiagonalMul  = 0.7
	defenseEngageRadius = 250.0
	defenseReposition   = 30.0
)

// defend sends the army at intruders near the castle. Units with nothing in
// reach hold a picket line between the castle and the map center.
func (c *Controller) defend(w *world.World, castle *world.Building, tick uint64) []sim.Command {
	var commands []sim.Command
	military := c.militaryUnits(w)
	slots := c.defenseLine(w, castle)

	slot := 0
	for _, u := range military {
		if enemy := c.nearestIntruder(w, castle, u); enemy != nil {
			commands = append(commands, c.attackUnitCommand(u, enemy, tick))
			continue
		}
		if slot >= len(slots) {
			continue
		}
		post := slots[slot]
		slot++
		if vecDist(u.Pos, post) > defenseReposition {
			commands = append(commands, sim.Command{
				Type:       sim.CommandMove,
				Faction:    c.faction,
				Unit:       uint64(u.ID),
				Point:      post,
				IssuedTick: tick,
			})
		}
	}
	return commands
}

// holdLine pulls idle military back onto the picket line while no attack is
// underway. Units already fighting are left alone.
func (c *Controller) holdLine(w *world.World, castle *world.Building, tick uint64) []sim.Command {
	var commands []sim.Command
	slots := c.defenseLine(w, castle)

	slot := 0
	for _, u := range c.militaryUnits(w) {
		if slot >= len(slots) {
			break
		}
		post := slots[slot]
		slot++
		if u.TargetUnit != 0 || u.TargetBuilding != 0 {
			continue
		}
		if vecDist(u.Pos, post) > defenseReposition {
			commands = append(commands, sim.Command{
				Type:       sim.CommandMove,
				Faction:    c.faction,
				Unit:       uint64(u.ID),
				Point:      post,
				IssuedTick: tick,
			})
		}
	}
	return commands
}

// nearestIntruder finds the closest enemy that is both near the castle and
// within the defender's engage radius.
func (c *Controller) nearestIntruder(w *world.World, castle *world.Building, defender *world.Unit) *world.Unit {
	var best *world.Unit
	bestDist := math.Inf(1)
	for _, e := range c.enemyUnits(w) {
		if vecDist(e.Pos, castle.Pos) > defendEngageRange {
			continue
		}
		d := vecDist(defender.Pos, e.Pos)
		if d <= defenseEngageRadius && d < bestDist {
			best = e
			bestDist = d
		}
	}
	return best
}

// defenseLine lays out picket slots facing the map center: a straight rank
// perpendicular to the threat axis, diagonal slots pulled in slightly.
func (c *Controller) defenseLine(w *world.World, castle *world.Building) []world.Vec2 {
	cfg := w.Config()
	center := world.Vec2{X: cfg.Width / 2, Y: cfg.Height / 2}
	axis := normalize(world.Vec2{X: center.X - castle.Pos.X, Y: center.Y - castle.Pos.Y})
	perp := perpendicular(axis)

	anchor := world.Vec2{
		X: castle.Pos.X + axis.X*defenseLineDistance,
		Y: castle.Pos.Y + axis.Y*defenseLineDistance,
	}
	slots := make([]world.Vec2, 0, defenseLineSlots)
	for i := 0; i < defenseLineSlots; i++ {
		// Offsets fan out from the anchor: 0, +1, -1, +2, -2, ...
		step := (i + 1) / 2
		if i%2 == 0 {
			step = -step
		}
		offset := float64(step) * defenseLineSpacing
		if step != 0 && step%2 != 0 {
			offset *= defenseDiagonalMul
		}
		slots = append(slots, world.Vec2{
			X: anchor.X + perp.X*offset,
			Y: anchor.Y + perp.Y*offset,
		})
	}
	return slots
}
