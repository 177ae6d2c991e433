package world

import (
	"context"
	"math"
	"math/rand"

	"warbound/server/internal/sim"
	"warbound/server/logging"
	"warbound/server/stats"
)

const startingPeasants = 3

// World owns the entire match state. All mutation happens on the loop
// goroutine; concurrent readers must go through Snapshot.
type World struct {
	config Config

	units       map[EntityID]*Unit
	buildings   map[EntityID]*Building
	projectiles []*Projectile

	resources   [sim.FactionCount]Resources
	trainQueues [sim.FactionCount][]trainOrder

	nextID      EntityID
	currentTick uint64

	economyClock float64
	foodClock    float64
	healClock    float64

	combatRNG *rand.Rand
	spawnRNG  *rand.Rand

	publisher logging.Publisher
	winner    *FactionID
}

// New creates a world with both castles, starting peasants and a starting
// knight per faction, mirroring a fresh skirmish.
func New(cfg Config, publisher logging.Publisher) *World {
	cfg = cfg.Normalized()
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	w := &World{
		config:    cfg,
		units:     make(map[EntityID]*Unit),
		buildings: make(map[EntityID]*Building),
		combatRNG: NewDeterministicRNG(cfg.Seed, "combat"),
		spawnRNG:  NewDeterministicRNG(cfg.Seed, "spawn"),
		publisher: publisher,
	}
	for f := sim.Faction(0); f < sim.FactionCount; f++ {
		w.resources[f] = Resources{Gold: startingGold, Food: startingFood, Wood: startingWood}
	}
	w.seedFaction(sim.FactionPlayer, Vec2{X: 300, Y: cfg.Height - 300}, Vec2{X: 1, Y: -1})
	w.seedFaction(sim.FactionEnemy, Vec2{X: cfg.Width - 300, Y: 300}, Vec2{X: -1, Y: 1})
	return w
}

func (w *World) seedFaction(faction FactionID, castlePos Vec2, toward Vec2) {
	w.placeCompleted(faction, stats.BuildingCastle, castlePos)
	for i := 0; i < startingPeasants; i++ {
		offset := float64(50 + i*40)
		w.SpawnUnit(faction, stats.UnitPeasant, Vec2{
			X: castlePos.X + toward.X*offset,
			Y: castlePos.Y + toward.Y*50,
		})
	}
	w.SpawnUnit(faction, stats.UnitKnight, Vec2{
		X: castlePos.X,
		Y: castlePos.Y + toward.Y*100,
	})
}

// Config returns the normalized world configuration.
func (w *World) Config() Config {
	return w.config
}

// Tick returns the last completed tick.
func (w *World) Tick() uint64 {
	return w.currentTick
}

// Winner reports the winning faction once a castle has fallen.
func (w *World) Winner() (FactionID, bool) {
	if w.winner == nil {
		return 0, false
	}
	return *w.winner, true
}

// Resources returns the stockpile for a faction.
func (w *World) Resources(faction FactionID) Resources {
	if faction >= sim.FactionCount {
		return Resources{}
	}
	return w.resources[faction]
}

// Unit resolves a unit id, returning nil for stale or unknown ids.
func (w *World) Unit(id EntityID) *Unit {
	return w.units[id]
}

// Building resolves a building id, returning nil for stale or unknown ids.
func (w *World) Building(id EntityID) *Building {
	return w.buildings[id]
}

// Units invokes fn for every living unit.
func (w *World) Units(fn func(*Unit)) {
	for _, u := range w.units {
		fn(u)
	}
}

// Buildings invokes fn for every standing building.
func (w *World) Buildings(fn func(*Building)) {
	for _, b := range w.buildings {
		fn(b)
	}
}

// Castle returns the faction's castle, or nil after it has fallen.
func (w *World) Castle(faction FactionID) *Building {
	for _, b := range w.buildings {
		if b.Faction == faction && b.Kind == stats.BuildingCastle {
			return b
		}
	}
	return nil
}

func (w *World) allocID() EntityID {
	w.nextID++
	return w.nextID
}

// SpawnUnit creates a unit from its archetype table at the given position.
func (w *World) SpawnUnit(faction FactionID, kind stats.UnitKind, pos Vec2) *Unit {
	profile := stats.Unit(kind)
	unit := &Unit{
		ID:          w.allocID(),
		Faction:     faction,
		Kind:        kind,
		Pos:         w.clampToMap(pos),
		Health:      profile.MaxHealth,
		MaxHealth:   profile.MaxHealth,
		Attack:      profile.Attack,
		Defense:     profile.Defense,
		Speed:       profile.Speed,
		AttackRange: profile.AttackRange,
		Cooldown:    profile.Cooldown,
		Radius:      profile.Radius,
	}
	w.units[unit.ID] = unit
	return unit
}

// SpawnTrainedUnit places a freshly trained unit on a ring around the castle.
func (w *World) SpawnTrainedUnit(faction FactionID, kind stats.UnitKind) *Unit {
	castle := w.Castle(faction)
	if castle == nil {
		return nil
	}
	angle := w.randomAngle(w.spawnRNG)
	pos := Vec2{
		X: castle.Pos.X + math.Cos(angle)*spawnRingRadius,
		Y: castle.Pos.Y + math.Sin(angle)*spawnRingRadius,
	}
	return w.SpawnUnit(faction, kind, pos)
}

// PlaceBuilding starts construction of a building at the given center.
func (w *World) PlaceBuilding(faction FactionID, kind stats.BuildingKind, pos Vec2) *Building {
	profile := stats.Building(kind)
	building := &Building{
		ID:            w.allocID(),
		Faction:       faction,
		Kind:          kind,
		Pos:           w.clampToMap(pos),
		Width:         profile.Width,
		Height:        profile.Height,
		Health:        profile.MaxHealth,
		MaxHealth:     profile.MaxHealth,
		WorkersNeeded: profile.WorkersNeeded,
	}
	w.buildings[building.ID] = building
	return building
}

func (w *World) placeCompleted(faction FactionID, kind stats.BuildingKind, pos Vec2) *Building {
	building := w.PlaceBuilding(faction, kind, pos)
	building.Progress = progressComplete
	building.Complete = true
	return building
}

func (w *World) clampToMap(p Vec2) Vec2 {
	return Vec2{
		X: math.Min(math.Max(p.X, mapMargin), w.config.Width-mapMargin),
		Y: math.Min(math.Max(p.Y, mapMargin), w.config.Height-mapMargin),
	}
}

func (w *World) publish(event logging.Event) {
	event.Tick = w.currentTick
	w.publisher.Publish(context.Background(), event)
}
