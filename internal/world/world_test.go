package world

import (
	"testing"

	"warbound/server/internal/sim"
	"warbound/server/logging"
	"warbound/server/stats"
)

// newBareWorld builds an empty world for surgical tests; newTestWorld builds
// the full seeded skirmish.
func newBareWorld() *World {
	cfg := Config{Seed: "test", Healing: false}.Normalized()
	w := &World{
		config:    cfg,
		units:     make(map[EntityID]*Unit),
		buildings: make(map[EntityID]*Building),
		combatRNG: NewDeterministicRNG(cfg.Seed, "combat"),
		spawnRNG:  NewDeterministicRNG(cfg.Seed, "spawn"),
		publisher: logging.NopPublisher(),
	}
	for f := sim.Faction(0); f < sim.FactionCount; f++ {
		w.resources[f] = Resources{Gold: startingGold, Food: startingFood, Wood: startingWood}
	}
	return w
}

func newTestWorld() *World {
	return New(Config{Seed: "test", Healing: false}, logging.NopPublisher())
}

func TestNewWorldSeedsBothFactions(t *testing.T) {
	w := newTestWorld()

	for _, f := range []FactionID{sim.FactionPlayer, sim.FactionEnemy} {
		if w.Castle(f) == nil {
			t.Fatalf("faction %v should start with a castle", f)
		}
		peasants, knights := 0, 0
		w.Units(func(u *Unit) {
			if u.Faction != f {
				return
			}
			switch u.Kind {
			case stats.UnitPeasant:
				peasants++
			case stats.UnitKnight:
				knights++
			}
		})
		if peasants != startingPeasants || knights != 1 {
			t.Fatalf("faction %v should start with %d peasants and 1 knight, got %d/%d",
				f, startingPeasants, peasants, knights)
		}
		got := w.Resources(f)
		if got.Gold != startingGold || got.Food != startingFood || got.Wood != startingWood {
			t.Fatalf("faction %v starting stock wrong: %+v", f, got)
		}
	}
}

func TestEntityIDsAreMonotonicAndNeverReused(t *testing.T) {
	w := newBareWorld()
	a := w.SpawnUnit(sim.FactionPlayer, stats.UnitPeasant, Vec2{X: 100, Y: 100})
	b := w.SpawnUnit(sim.FactionPlayer, stats.UnitPeasant, Vec2{X: 120, Y: 100})
	if b.ID <= a.ID {
		t.Fatalf("ids must grow: %d then %d", a.ID, b.ID)
	}

	b.Health = 0
	w.pruneDead()
	c := w.SpawnUnit(sim.FactionPlayer, stats.UnitPeasant, Vec2{X: 140, Y: 100})
	if c.ID <= b.ID {
		t.Fatalf("pruned id %d must not be reused, got %d", b.ID, c.ID)
	}
}

func TestTargetSettersAreMutuallyExclusive(t *testing.T) {
	w := newBareWorld()
	u := w.SpawnUnit(sim.FactionPlayer, stats.UnitKnight, Vec2{X: 100, Y: 100})

	u.SetMoveTarget(Vec2{X: 200, Y: 200})
	u.SetTargetUnit(42)
	if u.MoveTarget != nil || u.TargetBuilding != 0 {
		t.Fatalf("unit target should clear move and building targets")
	}
	u.SetTargetBuilding(7)
	if u.TargetUnit != 0 || u.MoveTarget != nil {
		t.Fatalf("building target should clear unit target and move target")
	}
	u.SetAttackMove(Vec2{X: 300, Y: 300})
	if u.TargetBuilding != 0 || u.MoveTarget == nil || !u.AttackMove {
		t.Fatalf("attack-move should clear targets and set destination")
	}
	u.SetTargetUnit(42)
	if u.AttackMovePoint != (Vec2{X: 300, Y: 300}) {
		t.Fatalf("attack-move point must survive target switches")
	}
}
