package ai

import (
	"math"

	"warbound/server/internal/sim"
	"warbound/server/internal/world"
	"warbound/server/stats"
)

// chooseTarget picks the wave objective: highly aggressive profiles
// occasionally go straight for the castle, otherwise a random enemy
// building, falling back to a random enemy unit.
func (c *Controller) chooseTarget(w *world.World) targetRef {
	if c.profile.Aggression > 0.7 && c.rng.Float64() < 0.3 {
		if castle := w.Castle(c.faction.Opponent()); castle != nil {
			return targetRef{building: castle.ID}
		}
	}
	var ordinary []*world.Building
	for _, b := range c.enemyBuildings(w) {
		if b.Kind != stats.BuildingCastle {
			ordinary = append(ordinary, b)
		}
	}
	if len(ordinary) > 0 {
		return targetRef{building: ordinary[c.rng.Intn(len(ordinary))].ID}
	}
	if enemies := c.enemyUnits(w); len(enemies) > 0 {
		return targetRef{unit: enemies[c.rng.Intn(len(enemies))].ID}
	}
	if castle := w.Castle(c.faction.Opponent()); castle != nil {
		return targetRef{building: castle.ID}
	}
	return targetRef{}
}

func (c *Controller) targetPos(w *world.World) (world.Vec2, bool) {
	if c.target.unit != 0 {
		if u := w.Unit(c.target.unit); u != nil && u.Alive() {
			return u.Pos, true
		}
	}
	if c.target.building != 0 {
		if b := w.Building(c.target.building); b != nil && b.Alive() {
			return b.Pos, true
		}
	}
	return world.Vec2{}, false
}

// startAttack commits the army to a wave. Easy skips the gathering phase and
// charges immediately.
func (c *Controller) startAttack(w *world.World, castle *world.Building, tick uint64) []sim.Command {
	c.target = c.chooseTarget(w)
	if !c.target.valid() {
		return nil
	}
	goal, ok := c.targetPos(w)
	if !ok {
		c.target = targetRef{}
		return nil
	}

	military := c.militaryUnits(w)
	c.wave = c.wave[:0]
	for _, u := range military {
		c.wave = append(c.wave, u.ID)
	}
	axis := normalize(world.Vec2{X: goal.X - castle.Pos.X, Y: goal.Y - castle.Pos.Y})
	c.rally = world.Vec2{
		X: castle.Pos.X + axis.X*rallyDistance,
		Y: castle.Pos.Y + axis.Y*rallyDistance,
	}
	c.state = StateAttacking

	if c.difficulty == stats.DifficultyEasy {
		c.phase = PhaseExecuting
		return c.executeOrders(w, tick)
	}
	c.phase = PhaseGathering
	var commands []sim.Command
	for _, u := range military {
		commands = append(commands, sim.Command{
			Type:       sim.CommandMove,
			Faction:    c.faction,
			Unit:       uint64(u.ID),
			Point:      c.rally,
			IssuedTick: tick,
		})
	}
	return commands
}

func (c *Controller) runAttack(w *world.World, castle *world.Building, tick uint64) []sim.Command {
	units := c.waveUnits(w)
	if len(units) == 0 {
		c.cancelAttack()
		c.state = StateBuilding
		return nil
	}
	if _, ok := c.targetPos(w); !ok {
		// Objective destroyed mid-wave: re-aim or stand down.
		c.target = c.chooseTarget(w)
		if !c.target.valid() {
			c.cancelAttack()
			c.state = StateBuilding
			return nil
		}
	}

	switch c.phase {
	case PhaseGathering:
		return c.runGathering(w, units, tick)
	case PhaseFlanking:
		return c.runFlanking(w, units, tick)
	default:
		return c.executeOrders(w, tick)
	}
}

func (c *Controller) runGathering(w *world.World, units []*world.Unit, tick uint64) []sim.Command {
	gathered := 0
	var commands []sim.Command
	for _, u := range units {
		if vecDist(u.Pos, c.rally) <= gatherRadius {
			gathered++
			continue
		}
		// A marcher under fire turns and fights instead of soaking damage.
		if u.TargetUnit == 0 {
			if enemy := c.nearestEnemyInRange(w, u, gatherFightRadius); enemy != nil {
				commands = append(commands, c.attackUnitCommand(u, enemy, tick))
				continue
			}
		}
		if u.MoveTarget == nil && u.TargetUnit == 0 && u.TargetBuilding == 0 {
			commands = append(commands, sim.Command{
				Type:       sim.CommandMove,
				Faction:    c.faction,
				Unit:       uint64(u.ID),
				Point:      c.rally,
				IssuedTick: tick,
			})
		}
	}
	if float64(gathered) < gatherFraction*float64(len(units)) {
		return commands
	}

	if c.flankEligible(w, units) {
		c.assignFlanks(w, units)
		if c.flankActive {
			c.phase = PhaseFlanking
			return c.runFlanking(w, units, tick)
		}
	}
	c.phase = PhaseExecuting
	return c.executeOrders(w, tick)
}

func (c *Controller) flankEligible(w *world.World, units []*world.Unit) bool {
	switch c.difficulty {
	case stats.DifficultyBrutal:
		return len(units) >= flankMinWave
	case stats.DifficultyHard:
		return len(units) >= flankMinWaveHard && len(units) > c.enemyMilitaryCount(w)
	default:
		return false
	}
}

// assignFlanks splits the wave around the attack axis: cavalry alternate
// sides, a third of the knights go to each flank, cannons hold the center.
// A flank that cannot field two members merges back and flanking stays off.
func (c *Controller) assignFlanks(w *world.World, units []*world.Unit) {
	goal, ok := c.targetPos(w)
	if !ok {
		return
	}
	axis := normalize(world.Vec2{X: goal.X - c.rally.X, Y: goal.Y - c.rally.Y})
	perp := perpendicular(axis)
	c.flankPoints[0] = world.Vec2{X: goal.X + perp.X*flankOffset, Y: goal.Y + perp.Y*flankOffset}
	c.flankPoints[1] = world.Vec2{X: goal.X - perp.X*flankOffset, Y: goal.Y - perp.Y*flankOffset}

	c.flanks[0] = nil
	c.flanks[1] = nil
	cavalrySide := 0
	var knights []*world.Unit
	for _, u := range units {
		switch u.Kind {
		case stats.UnitCavalry:
			c.flanks[cavalrySide] = append(c.flanks[cavalrySide], u.ID)
			cavalrySide = 1 - cavalrySide
		case stats.UnitKnight:
			knights = append(knights, u)
		}
	}
	third := len(knights) / 3
	for i, u := range knights {
		switch {
		case i < third:
			c.flanks[0] = append(c.flanks[0], u.ID)
		case i < 2*third:
			c.flanks[1] = append(c.flanks[1], u.ID)
		}
	}

	if len(c.flanks[0]) < flankMinSize || len(c.flanks[1]) < flankMinSize {
		c.flanks[0] = nil
		c.flanks[1] = nil
		c.flankActive = false
		return
	}
	c.flankActive = true
}

func (c *Controller) runFlanking(w *world.World, units []*world.Unit, tick uint64) []sim.Command {
	// Deaths can shrink a flank below viability mid-approach.
	for side := 0; side < 2; side++ {
		alive := c.flanks[side][:0]
		for _, id := range c.flanks[side] {
			if u := w.Unit(id); u != nil && u.Alive() {
				alive = append(alive, id)
			}
		}
		c.flanks[side] = alive
	}
	if len(c.flanks[0]) < flankMinSize || len(c.flanks[1]) < flankMinSize {
		c.flanks[0] = nil
		c.flanks[1] = nil
		c.flankActive = false
		c.phase = PhaseExecuting
		return c.executeOrders(w, tick)
	}

	flankers := make(map[world.EntityID]int, len(c.flanks[0])+len(c.flanks[1]))
	for side := 0; side < 2; side++ {
		for _, id := range c.flanks[side] {
			flankers[id] = side
		}
	}

	var commands []sim.Command
	arrived := 0
	total := 0
	goal, _ := c.targetPos(w)
	for _, u := range units {
		side, isFlanker := flankers[u.ID]
		if !isFlanker {
			// Main body presses the objective while the flanks swing wide.
			commands = append(commands, sim.Command{
				Type:       sim.CommandAttackMove,
				Faction:    c.faction,
				Unit:       uint64(u.ID),
				Point:      goal,
				IssuedTick: tick,
			})
			continue
		}
		total++
		point := c.flankPoints[side]
		if vecDist(u.Pos, point) <= flankArriveRange {
			arrived++
			commands = append(commands, sim.Command{
				Type:       sim.CommandAttackMove,
				Faction:    c.faction,
				Unit:       uint64(u.ID),
				Point:      goal,
				IssuedTick: tick,
			})
			continue
		}
		commands = append(commands, sim.Command{
			Type:       sim.CommandMove,
			Faction:    c.faction,
			Unit:       uint64(u.ID),
			Point:      point,
			IssuedTick: tick,
		})
	}
	if total > 0 && arrived == total {
		c.phase = PhaseExecuting
	}
	return commands
}

// executeOrders drives each wave member at the objective with retarget
// hysteresis: a held target is kept while in reach, dropped for a defender
// harassing a siege, a much closer threat, or anything adjacent to an idle
// attacker.
func (c *Controller) executeOrders(w *world.World, tick uint64) []sim.Command {
	var commands []sim.Command
	enemies := c.enemyUnits(w)
	for _, u := range c.waveUnits(w) {
		if cmd, ok := c.retarget(w, u, enemies, tick); ok {
			commands = append(commands, cmd)
		}
	}
	return commands
}

func (c *Controller) retarget(w *world.World, u *world.Unit, enemies []*world.Unit, tick uint64) (sim.Command, bool) {
	var nearest *world.Unit
	nearestDist := math.Inf(1)
	for _, e := range enemies {
		if d := vecDist(u.Pos, e.Pos); d < nearestDist {
			nearest = e
			nearestDist = d
		}
	}

	currentDist := math.Inf(1)
	hasCurrent := false
	currentIsBuilding := false
	if u.TargetUnit != 0 {
		if t := w.Unit(u.TargetUnit); t != nil && t.Alive() {
			currentDist = vecDist(u.Pos, t.Pos)
			hasCurrent = true
		}
	} else if u.TargetBuilding != 0 {
		if t := w.Building(u.TargetBuilding); t != nil && t.Alive() {
			currentDist = vecDist(u.Pos, t.Pos)
			hasCurrent = true
			currentIsBuilding = true
		}
	}

	if hasCurrent {
		if currentIsBuilding && nearest != nil && nearestDist <= retargetGuardRadius {
			return c.attackUnitCommand(u, nearest, tick), true
		}
		if currentDist <= u.AttackRange+retargetKeepAllowance {
			return sim.Command{}, false
		}
		if nearest != nil && nearestDist < retargetImproveFactor*currentDist {
			return c.attackUnitCommand(u, nearest, tick), true
		}
		return sim.Command{}, false
	}

	if nearest != nil && nearestDist <= retargetIdleRadius {
		return c.attackUnitCommand(u, nearest, tick), true
	}

	if c.target.building != 0 {
		return sim.Command{
			Type:       sim.CommandAttackBuilding,
			Faction:    c.faction,
			Unit:       uint64(u.ID),
			Target:     uint64(c.target.building),
			IssuedTick: tick,
		}, true
	}
	if c.target.unit != 0 {
		return sim.Command{
			Type:       sim.CommandAttackUnit,
			Faction:    c.faction,
			Unit:       uint64(u.ID),
			Target:     uint64(c.target.unit),
			IssuedTick: tick,
		}, true
	}
	return sim.Command{}, false
}

func (c *Controller) attackUnitCommand(u *world.Unit, target *world.Unit, tick uint64) sim.Command {
	return sim.Command{
		Type:       sim.CommandAttackUnit,
		Faction:    c.faction,
		Unit:       uint64(u.ID),
		Target:     uint64(target.ID),
		IssuedTick: tick,
	}
}
