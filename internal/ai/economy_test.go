package ai

import (
	"testing"

	"warbound/server/internal/sim"
	"warbound/server/internal/world"
	"warbound/server/stats"
)

func TestStaffingPrioritizesFarms(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)
	castle := w.Castle(sim.FactionEnemy)

	w.PlaceBuilding(sim.FactionEnemy, stats.BuildingHouse, world.Vec2{
		X: castle.Pos.X - 200, Y: castle.Pos.Y,
	})
	farm := w.PlaceBuilding(sim.FactionEnemy, stats.BuildingFarm, world.Vec2{
		X: castle.Pos.X + 200, Y: castle.Pos.Y,
	})

	buildings := c.ownBuildings(w)
	assigned := c.assignmentCounts(w)
	commands := c.staffBuildings(w, buildings, assigned, 1)

	// Three starting peasants, farm needs 3: every assignment goes there.
	if len(commands) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(commands))
	}
	for _, cmd := range commands {
		if cmd.Type != sim.CommandAssignWorker || cmd.Target != uint64(farm.ID) {
			t.Fatalf("farm slots must fill before the house, got %+v", cmd)
		}
	}
}

func TestNoConstructionUntilFullyStaffedAboveEasy(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)
	castle := w.Castle(sim.FactionEnemy)

	// An understaffed farm blocks expansion on normal.
	w.PlaceBuilding(sim.FactionEnemy, stats.BuildingFarm, world.Vec2{
		X: castle.Pos.X + 200, Y: castle.Pos.Y,
	})
	buildings := c.ownBuildings(w)
	assigned := c.assignmentCounts(w)
	if commands := c.planConstruction(w, castle, buildings, assigned, 1); len(commands) != 0 {
		t.Fatalf("normal must not expand while understaffed, got %+v", commands)
	}

	easy := newTestController(stats.DifficultyEasy)
	if commands := easy.planConstruction(w, castle, buildings, assigned, 1); len(commands) == 0 {
		t.Fatalf("easy ignores the staffing gate and should expand")
	}
}

func TestConstructionPlacedOnCastleRing(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)
	castle := w.Castle(sim.FactionEnemy)

	// Staff the castle so the gate opens (castle needs 1 worker).
	buildings := c.ownBuildings(w)
	assigned := map[world.EntityID]int{castle.ID: 1}

	commands := c.planConstruction(w, castle, buildings, assigned, 1)
	if len(commands) != 1 || commands[0].Type != sim.CommandBuild {
		t.Fatalf("expected one build command, got %+v", commands)
	}
	d := vecDist(world.Vec2{X: commands[0].Point.X, Y: commands[0].Point.Y}, castle.Pos)
	if d < placementRingMin-1 || d > placementRingMax+1 {
		t.Fatalf("placement %f outside the %v..%v ring", d, placementRingMin, placementRingMax)
	}
}

func TestPeasantTrainingHonorsFloorAndCeiling(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)
	castle := w.Castle(sim.FactionEnemy)

	// A farm adds three slots, so three peasants are below the slots+1 bound.
	w.PlaceBuilding(sim.FactionEnemy, stats.BuildingFarm, world.Vec2{
		X: castle.Pos.X + 200, Y: castle.Pos.Y,
	})
	commands := c.trainPeasants(w, c.ownBuildings(w), 1)
	if len(commands) != 1 || commands[0].UnitKind != stats.UnitPeasant {
		t.Fatalf("expected a peasant train order, got %+v", commands)
	}

	// Saturate the ceiling: 6 + int(0.5*4) = 8 on normal.
	for i := 0; i < 10; i++ {
		w.SpawnUnit(sim.FactionEnemy, stats.UnitPeasant, world.Vec2{
			X: castle.Pos.X, Y: castle.Pos.Y + 150 + float64(i)*30,
		})
	}
	if commands := c.trainPeasants(w, c.ownBuildings(w), 2); len(commands) != 0 {
		t.Fatalf("peasant ceiling reached, got %+v", commands)
	}
}

func TestMilitaryTrainingRespectsArmyCap(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyEasy) // cap 5
	castle := w.Castle(sim.FactionEnemy)

	for i := 0; i < 5; i++ {
		w.SpawnUnit(sim.FactionEnemy, stats.UnitKnight, world.Vec2{
			X: castle.Pos.X, Y: castle.Pos.Y + 150 + float64(i)*40,
		})
	}
	if commands := c.trainMilitary(w, 1); len(commands) != 0 {
		t.Fatalf("army cap reached, got %+v", commands)
	}
}

func TestMilitaryTrainingProducesAffordableOrders(t *testing.T) {
	w := newTestWorld()
	c := newTestController(stats.DifficultyNormal)

	commands := c.trainMilitary(w, 1)
	if len(commands) != 1 || commands[0].Type != sim.CommandTrain {
		t.Fatalf("expected one train order, got %+v", commands)
	}
	kind := commands[0].UnitKind
	if kind != stats.UnitKnight && kind != stats.UnitCavalry && kind != stats.UnitCannon {
		t.Fatalf("unexpected unit kind %v", kind)
	}
	if !w.Resources(sim.FactionEnemy).CanAfford(stats.Unit(kind).Cost) {
		t.Fatalf("the controller must only order what it can afford")
	}
}
