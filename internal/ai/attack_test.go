package ai

import (
	"testing"

	"warbound/server/internal/sim"
	"warbound/server/internal/world"
	"warbound/server/stats"
)

func TestFlankEligibilityByDifficulty(t *testing.T) {
	w := newTestWorld()
	castle := w.Castle(sim.FactionEnemy)

	spawn := func(n int) []*world.Unit {
		var units []*world.Unit
		for i := 0; i < n; i++ {
			units = append(units, w.SpawnUnit(sim.FactionEnemy, stats.UnitKnight, world.Vec2{
				X: castle.Pos.X, Y: castle.Pos.Y + 150 + float64(i)*40,
			}))
		}
		return units
	}
	wave := spawn(6)

	if c := newTestController(stats.DifficultyNormal); c.flankEligible(w, wave) {
		t.Fatalf("normal never flanks")
	}
	if c := newTestController(stats.DifficultyBrutal); !c.flankEligible(w, wave) {
		t.Fatalf("brutal should flank with 6 military")
	}
	if c := newTestController(stats.DifficultyHard); c.flankEligible(w, wave) {
		t.Fatalf("hard needs 8 military and an advantage, 6 is not enough")
	}

	wave = append(wave, spawn(2)...)
	if c := newTestController(stats.DifficultyHard); !c.flankEligible(w, wave) {
		t.Fatalf("hard should flank with 8 military and a numeric advantage")
	}
}

func TestActiveFlanksAlwaysHaveAtLeastTwoMembers(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyBrutal)
	castle := w.Castle(sim.FactionEnemy)
	enemyCastle := w.Castle(sim.FactionPlayer)

	var units []*world.Unit
	for i := 0; i < 4; i++ {
		units = append(units, w.SpawnUnit(sim.FactionEnemy, stats.UnitCavalry, world.Vec2{
			X: castle.Pos.X, Y: castle.Pos.Y + 150 + float64(i)*40,
		}))
	}
	for i := 0; i < 3; i++ {
		units = append(units, w.SpawnUnit(sim.FactionEnemy, stats.UnitKnight, world.Vec2{
			X: castle.Pos.X + 50, Y: castle.Pos.Y + 150 + float64(i)*40,
		}))
	}
	c.target = targetRef{building: enemyCastle.ID}
	c.rally = castle.Pos

	c.assignFlanks(w, units)
	if !c.flankActive {
		t.Fatalf("four cavalry and three knights should form viable flanks")
	}
	for side := 0; side < 2; side++ {
		if len(c.flanks[side]) < flankMinSize {
			t.Fatalf("active flank %d has %d members, invariant requires >= %d",
				side, len(c.flanks[side]), flankMinSize)
		}
	}
}

func TestUndersizedFlanksMergeBack(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyBrutal)
	castle := w.Castle(sim.FactionEnemy)
	enemyCastle := w.Castle(sim.FactionPlayer)

	// One cavalry per side is below the minimum flank size.
	var units []*world.Unit
	for i := 0; i < 2; i++ {
		units = append(units, w.SpawnUnit(sim.FactionEnemy, stats.UnitCavalry, world.Vec2{
			X: castle.Pos.X, Y: castle.Pos.Y + 150 + float64(i)*40,
		}))
	}
	for i := 0; i < 4; i++ {
		units = append(units, w.SpawnUnit(sim.FactionEnemy, stats.UnitCannon, world.Vec2{
			X: castle.Pos.X + 50, Y: castle.Pos.Y + 150 + float64(i)*40,
		}))
	}
	c.target = targetRef{building: enemyCastle.ID}
	c.rally = castle.Pos

	c.assignFlanks(w, units)
	if c.flankActive {
		t.Fatalf("one-cavalry flanks must merge back and deactivate")
	}
	if c.flanks[0] != nil || c.flanks[1] != nil {
		t.Fatalf("merged flanks should be cleared")
	}
}

func TestFlankCollapseMidApproachFallsBackToExecuting(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyBrutal)
	castle := w.Castle(sim.FactionEnemy)
	enemyCastle := w.Castle(sim.FactionPlayer)

	var units []*world.Unit
	for i := 0; i < 6; i++ {
		units = append(units, w.SpawnUnit(sim.FactionEnemy, stats.UnitCavalry, world.Vec2{
			X: castle.Pos.X, Y: castle.Pos.Y + 150 + float64(i)*40,
		}))
	}
	c.target = targetRef{building: enemyCastle.ID}
	c.rally = castle.Pos
	c.state = StateAttacking
	for _, u := range units {
		c.wave = append(c.wave, u.ID)
	}
	c.assignFlanks(w, units)
	if !c.flankActive {
		t.Fatalf("six cavalry should split into viable flanks")
	}
	c.phase = PhaseFlanking

	// Kill one flank down to a single member.
	for _, id := range c.flanks[0][1:] {
		w.Unit(id).Health = 0
	}
	w.Step(1, 0.01)

	c.runAttack(w, castle, 2)
	if c.flankActive || c.Phase() != PhaseExecuting {
		t.Fatalf("a collapsed flank must merge the wave into execution, got %v", c.Phase())
	}
}

func TestGatheringMarchersFightBack(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)
	castle := w.Castle(sim.FactionEnemy)
	enemyCastle := w.Castle(sim.FactionPlayer)

	marcher := w.SpawnUnit(sim.FactionEnemy, stats.UnitKnight, world.Vec2{X: 1000, Y: 1000})
	bully := w.SpawnUnit(sim.FactionPlayer, stats.UnitKnight, world.Vec2{X: 1030, Y: 1000})

	c.state = StateAttacking
	c.phase = PhaseGathering
	c.wave = []world.EntityID{marcher.ID}
	c.target = targetRef{building: enemyCastle.ID}
	c.rally = world.Vec2{X: 200, Y: 1800}
	marcher.SetMoveTarget(c.rally)

	commands := c.runAttack(w, castle, 1)
	found := false
	for _, cmd := range commands {
		if cmd.Type == sim.CommandAttackUnit && cmd.Unit == uint64(marcher.ID) && cmd.Target == uint64(bully.ID) {
			found = true
		}
	}
	if !found {
		t.Fatalf("a marcher under fire must turn and fight, got %+v", commands)
	}
	if c.Phase() != PhaseGathering {
		t.Fatalf("fighting back must not abort the gather, got %v", c.Phase())
	}
}

func TestCastleRushGateStaysClosedBelowBrutal(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)
	playerCastle := w.Castle(sim.FactionPlayer)

	house := w.PlaceBuilding(sim.FactionPlayer, stats.BuildingHouse, world.Vec2{
		X: playerCastle.Pos.X + 200, Y: playerCastle.Pos.Y,
	})
	for i := 0; i < 50; i++ {
		target := c.chooseTarget(w)
		if target.building == playerCastle.ID {
			t.Fatalf("normal aggression must never open the castle-rush gate")
		}
		if target.building != house.ID {
			t.Fatalf("expected the ordinary building, got %+v", target)
		}
	}
}

func TestRetargetHysteresisKeepsTargetInReach(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)

	attacker := w.SpawnUnit(sim.FactionEnemy, stats.UnitKnight, world.Vec2{X: 1000, Y: 1000})
	held := w.SpawnUnit(sim.FactionPlayer, stats.UnitKnight, world.Vec2{X: 1030, Y: 1000})
	w.SpawnUnit(sim.FactionPlayer, stats.UnitPeasant, world.Vec2{X: 1010, Y: 1000})
	attacker.SetTargetUnit(held.ID)
	c.wave = []world.EntityID{attacker.ID}
	c.target = targetRef{unit: held.ID}

	// Held target is within range+allowance, so nothing is reissued even
	// though the peasant is closer.
	commands := c.executeOrders(w, 1)
	if len(commands) != 0 {
		t.Fatalf("a target in reach must be kept, got %+v", commands)
	}
}

func TestRetargetSwitchesOffBuildingWhenHarassed(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)
	enemyCastle := w.Castle(sim.FactionPlayer)

	attacker := w.SpawnUnit(sim.FactionEnemy, stats.UnitKnight, world.Vec2{
		X: enemyCastle.Pos.X + 300, Y: enemyCastle.Pos.Y,
	})
	attacker.SetTargetBuilding(enemyCastle.ID)
	harasser := w.SpawnUnit(sim.FactionPlayer, stats.UnitKnight, world.Vec2{
		X: attacker.Pos.X + 100, Y: attacker.Pos.Y,
	})
	c.wave = []world.EntityID{attacker.ID}
	c.target = targetRef{building: enemyCastle.ID}

	commands := c.executeOrders(w, 1)
	found := false
	for _, cmd := range commands {
		if cmd.Type == sim.CommandAttackUnit && cmd.Target == uint64(harasser.ID) {
			found = true
		}
	}
	if !found {
		t.Fatalf("a sieging unit must peel onto a harasser inside the guard radius, got %+v", commands)
	}
}
