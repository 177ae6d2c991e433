package ai

import (
	"math"
	"sort"

	"warbound/server/internal/sim"
	"warbound/server/internal/world"
	"warbound/server/stats"
)

// runEconomy staffs buildings, expands the base and keeps the peasant count
// healthy. Farms are always staffed first; above easy difficulty no new
// construction starts until every existing building is fully staffed.
func (c *Controller) runEconomy(w *world.World, castle *world.Building, tick uint64) []sim.Command {
	var commands []sim.Command

	buildings := c.ownBuildings(w)
	assigned := c.assignmentCounts(w)

	commands = append(commands, c.staffBuildings(w, buildings, assigned, tick)...)
	commands = append(commands, c.planConstruction(w, castle, buildings, assigned, tick)...)
	commands = append(commands, c.trainPeasants(w, buildings, tick)...)
	return commands
}

func (c *Controller) assignmentCounts(w *world.World) map[world.EntityID]int {
	counts := make(map[world.EntityID]int)
	for _, u := range c.ownUnits(w) {
		if u.AssignedBuilding != 0 {
			counts[u.AssignedBuilding]++
		}
	}
	return counts
}

func (c *Controller) idlePeasants(w *world.World) []*world.Unit {
	var idle []*world.Unit
	for _, u := range c.ownUnits(w) {
		if u.Kind != stats.UnitPeasant || u.AssignedBuilding != 0 {
			continue
		}
		if u.MoveTarget != nil || u.TargetUnit != 0 || u.TargetBuilding != 0 {
			continue
		}
		idle = append(idle, u)
	}
	return idle
}

// staffBuildings walks understaffed buildings, farms first, and assigns the
// nearest idle peasant to each open slot.
func (c *Controller) staffBuildings(w *world.World, buildings []*world.Building, assigned map[world.EntityID]int, tick uint64) []sim.Command {
	var commands []sim.Command
	idle := c.idlePeasants(w)
	if len(idle) == 0 {
		return nil
	}

	ordered := make([]*world.Building, len(buildings))
	copy(ordered, buildings)
	sort.SliceStable(ordered, func(i, j int) bool {
		iFarm := ordered[i].Kind == stats.BuildingFarm
		jFarm := ordered[j].Kind == stats.BuildingFarm
		if iFarm != jFarm {
			return iFarm
		}
		return ordered[i].ID < ordered[j].ID
	})

	for _, b := range ordered {
		for assigned[b.ID] < b.WorkersNeeded && len(idle) > 0 {
			best := -1
			bestDist := math.Inf(1)
			for i, p := range idle {
				if d := vecDist(p.Pos, b.Pos); d < bestDist {
					best = i
					bestDist = d
				}
			}
			peasant := idle[best]
			idle = append(idle[:best], idle[best+1:]...)
			assigned[b.ID]++
			commands = append(commands, sim.Command{
				Type:       sim.CommandAssignWorker,
				Faction:    c.faction,
				Unit:       uint64(peasant.ID),
				Target:     uint64(b.ID),
				IssuedTick: tick,
			})
		}
	}
	return commands
}

func (c *Controller) fullyStaffed(buildings []*world.Building, assigned map[world.EntityID]int) bool {
	for _, b := range buildings {
		if assigned[b.ID] < b.WorkersNeeded {
			return false
		}
	}
	return true
}

// planConstruction starts at most one new site per think cycle.
func (c *Controller) planConstruction(w *world.World, castle *world.Building, buildings []*world.Building, assigned map[world.EntityID]int, tick uint64) []sim.Command {
	if c.difficulty != stats.DifficultyEasy && !c.fullyStaffed(buildings, assigned) {
		return nil
	}

	counts := make(map[stats.BuildingKind]int)
	for _, b := range buildings {
		counts[b.Kind]++
	}
	aggression := c.profile.Aggression
	maxFarms := 3 + int(aggression*2)
	maxHouses := 2 + int(aggression*2)
	maxTowers := 1 + int(aggression*2)

	resources := w.Resources(c.faction)
	var kind stats.BuildingKind
	switch {
	case counts[stats.BuildingFarm] < maxFarms && resources.CanAfford(stats.Building(stats.BuildingFarm).Cost):
		kind = stats.BuildingFarm
	case counts[stats.BuildingHouse] < maxHouses && resources.CanAfford(stats.Building(stats.BuildingHouse).Cost):
		kind = stats.BuildingHouse
	case counts[stats.BuildingTower] < maxTowers && c.rng.Float64() < 0.25 && resources.CanAfford(stats.Building(stats.BuildingTower).Cost):
		kind = stats.BuildingTower
	default:
		return nil
	}

	angle := c.rng.Float64() * 2 * math.Pi
	radius := placementRingMin + c.rng.Float64()*(placementRingMax-placementRingMin)
	point := world.Vec2{
		X: castle.Pos.X + math.Cos(angle)*radius,
		Y: castle.Pos.Y + math.Sin(angle)*radius,
	}
	return []sim.Command{{
		Type:         sim.CommandBuild,
		Faction:      c.faction,
		BuildingKind: kind,
		Point:        point,
		IssuedTick:   tick,
	}}
}

// trainPeasants keeps the worker pool between the minimum and the
// aggression-scaled ceiling, sized to the available worker slots.
func (c *Controller) trainPeasants(w *world.World, buildings []*world.Building, tick uint64) []sim.Command {
	peasants := 0
	for _, u := range c.ownUnits(w) {
		if u.Kind == stats.UnitPeasant {
			peasants++
		}
	}
	peasants += w.TrainQueueLength(c.faction)

	totalSlots := 0
	for _, b := range buildings {
		totalSlots += b.WorkersNeeded
	}
	ceiling := 6 + int(c.profile.Aggression*4)

	want := peasants < 3 || (peasants < totalSlots+1 && peasants < ceiling)
	if !want {
		return nil
	}
	if !w.Resources(c.faction).CanAfford(stats.Unit(stats.UnitPeasant).Cost) {
		return nil
	}
	return []sim.Command{{
		Type:       sim.CommandTrain,
		Faction:    c.faction,
		UnitKind:   stats.UnitPeasant,
		IssuedTick: tick,
	}}
}
