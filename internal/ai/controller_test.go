package ai

import (
	"testing"

	"warbound/server/internal/sim"
	"warbound/server/internal/world"
	"warbound/server/logging"
	"warbound/server/stats"
)

func newTestWorld() *world.World {
	return world.New(world.Config{Seed: "ai-test", Healing: false}, logging.NopPublisher())
}

func newTestController(difficulty stats.Difficulty) *Controller {
	return NewController(sim.FactionEnemy, difficulty, "ai-test")
}

func think(c *Controller, w *world.World, tick uint64) []sim.Command {
	// One full think interval in a single tick.
	return c.RunTick(w, tick, c.thinkInterval)
}

func TestThreatForcesDefendingAndCancelsAttack(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)
	castle := w.Castle(sim.FactionEnemy)

	// Pretend an attack is underway.
	c.state = StateAttacking
	c.phase = PhaseGathering
	c.wave = []world.EntityID{1, 2, 3}
	c.flankActive = true
	c.flanks[0] = []world.EntityID{1}

	for i := 0; i < 2; i++ {
		w.SpawnUnit(sim.FactionPlayer, stats.UnitKnight, world.Vec2{
			X: castle.Pos.X - 100 - float64(i)*30,
			Y: castle.Pos.Y,
		})
	}

	think(c, w, 1)
	if c.State() != StateDefending {
		t.Fatalf("two intruders at the castle must force defending, got %v", c.State())
	}
	if len(c.wave) != 0 || c.flankActive || c.flanks[0] != nil {
		t.Fatalf("entering defense must clear all wave state")
	}
}

func TestDefendingRelaxesToBuildingWhenThreatPasses(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)
	c.state = StateDefending

	think(c, w, 1)
	if c.State() != StateBuilding {
		t.Fatalf("no threat should relax the posture to building, got %v", c.State())
	}
}

func TestDefendersEngageIntrudersNearTheCastle(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)
	castle := w.Castle(sim.FactionEnemy)

	defender := w.SpawnUnit(sim.FactionEnemy, stats.UnitKnight, world.Vec2{
		X: castle.Pos.X - 150, Y: castle.Pos.Y,
	})
	intruderA := w.SpawnUnit(sim.FactionPlayer, stats.UnitKnight, world.Vec2{
		X: castle.Pos.X - 200, Y: castle.Pos.Y,
	})
	w.SpawnUnit(sim.FactionPlayer, stats.UnitKnight, world.Vec2{
		X: castle.Pos.X - 230, Y: castle.Pos.Y,
	})

	commands := think(c, w, 1)
	if c.State() != StateDefending {
		t.Fatalf("expected defending, got %v", c.State())
	}
	found := false
	for _, cmd := range commands {
		if cmd.Type == sim.CommandAttackUnit && cmd.Unit == uint64(defender.ID) && cmd.Target == uint64(intruderA.ID) {
			found = true
		}
	}
	if !found {
		t.Fatalf("the defender should be ordered at the nearest intruder, got %+v", commands)
	}
}

func TestBuildingStateHoldsTheDefenseLine(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)
	castle := w.Castle(sim.FactionEnemy)

	// An idle knight far from the castle, with no threat anywhere.
	stray := w.SpawnUnit(sim.FactionEnemy, stats.UnitKnight, world.Vec2{
		X: castle.Pos.X - 600, Y: castle.Pos.Y,
	})

	commands := think(c, w, 1)
	if c.State() != StateBuilding {
		t.Fatalf("no threat should leave the posture at building, got %v", c.State())
	}
	found := false
	for _, cmd := range commands {
		if cmd.Type == sim.CommandMove && cmd.Unit == uint64(stray.ID) {
			found = true
		}
	}
	if !found {
		t.Fatalf("idle military should be pulled onto the line, got %+v", commands)
	}

	// Easy never bothers with formation keeping.
	easy := newTestController(stats.DifficultyEasy)
	for _, cmd := range think(easy, w, 1) {
		if cmd.Type == sim.CommandMove {
			t.Fatalf("easy should not hold a line, got %+v", cmd)
		}
	}
}

func TestStandingAttackOrdersRunBetweenThinks(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)

	attacker := w.SpawnUnit(sim.FactionEnemy, stats.UnitKnight, world.Vec2{X: 1000, Y: 1000})
	victim := w.SpawnUnit(sim.FactionPlayer, stats.UnitKnight, world.Vec2{X: 1030, Y: 1000})
	c.state = StateAttacking
	c.phase = PhaseExecuting
	c.wave = []world.EntityID{attacker.ID}
	c.target = targetRef{unit: victim.ID}

	// A fraction of the think interval must still press the wave's orders.
	commands := c.RunTick(w, 1, 0.01)
	found := false
	for _, cmd := range commands {
		if cmd.Type == sim.CommandAttackUnit && cmd.Unit == uint64(attacker.ID) {
			found = true
		}
	}
	if !found {
		t.Fatalf("idle wave member should engage without waiting for a think, got %+v", commands)
	}
}

func TestShouldAttackRequiresAdvantageAboveEasy(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)
	castle := w.Castle(sim.FactionEnemy)

	// Normal threshold: max(3, int(5-0.5*3)) = 3 military, plus numeric advantage.
	// Both sides start with one knight each; add two more per side.
	for i := 0; i < 2; i++ {
		w.SpawnUnit(sim.FactionEnemy, stats.UnitKnight, world.Vec2{
			X: castle.Pos.X, Y: castle.Pos.Y + 150 + float64(i)*40,
		})
		w.SpawnUnit(sim.FactionPlayer, stats.UnitKnight, world.Vec2{
			X: 300, Y: 300 + float64(i)*40,
		})
	}
	if c.shouldAttack(w) {
		t.Fatalf("equal armies must not trigger an attack above easy")
	}

	w.SpawnUnit(sim.FactionEnemy, stats.UnitKnight, world.Vec2{
		X: castle.Pos.X, Y: castle.Pos.Y + 260,
	})
	if !c.shouldAttack(w) {
		t.Fatalf("a numeric advantage at the threshold should trigger an attack")
	}
}

func TestEasyAttackSkipsGathering(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyEasy)
	castle := w.Castle(sim.FactionEnemy)

	for i := 0; i < 3; i++ {
		w.SpawnUnit(sim.FactionEnemy, stats.UnitKnight, world.Vec2{
			X: castle.Pos.X, Y: castle.Pos.Y + 150 + float64(i)*40,
		})
	}
	c.startAttack(w, castle, 1)
	if c.State() != StateAttacking || c.Phase() != PhaseExecuting {
		t.Fatalf("easy should charge immediately, got %v/%v", c.State(), c.Phase())
	}
}

func TestGatheringNeedsSeventyPercentAtRally(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)
	castle := w.Castle(sim.FactionEnemy)

	for i := 0; i < 4; i++ {
		w.SpawnUnit(sim.FactionEnemy, stats.UnitKnight, world.Vec2{
			X: castle.Pos.X, Y: castle.Pos.Y + 150 + float64(i)*40,
		})
	}
	c.startAttack(w, castle, 1)
	if c.Phase() != PhaseGathering {
		t.Fatalf("normal difficulty should gather first, got %v", c.Phase())
	}
	units := c.waveUnits(w)

	// Half the wave at the rally point is not enough.
	for i, u := range units {
		if i < len(units)/2 {
			u.Pos = c.rally
		} else {
			u.Pos = world.Vec2{X: c.rally.X + 500, Y: c.rally.Y + 500}
		}
	}
	c.runAttack(w, castle, 2)
	if c.Phase() != PhaseGathering {
		t.Fatalf("half the wave at rally must keep gathering, got %v", c.Phase())
	}

	// Everyone at the rally crosses the 70% bar.
	for _, u := range c.waveUnits(w) {
		u.Pos = c.rally
	}
	c.runAttack(w, castle, 3)
	if c.Phase() == PhaseGathering {
		t.Fatalf("a gathered wave should advance past gathering")
	}
}
