package world

import "warbound/server/internal/sim"

// UnitSnapshot is the wire-ready copy of a unit.
type UnitSnapshot struct {
	ID        uint64  `json:"id"`
	Faction   string  `json:"faction"`
	Kind      string  `json:"kind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Health    int     `json:"health"`
	MaxHealth int     `json:"maxHealth"`
	Assigned  uint64  `json:"assigned,omitempty"`
}

// BuildingSnapshot is the wire-ready copy of a building.
type BuildingSnapshot struct {
	ID        uint64  `json:"id"`
	Faction   string  `json:"faction"`
	Kind      string  `json:"kind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Health    int     `json:"health"`
	MaxHealth int     `json:"maxHealth"`
	Progress  float64 `json:"progress"`
	Complete  bool    `json:"complete"`
	Workers   int     `json:"workers"`
}

// ProjectileSnapshot is the wire-ready copy of a shot in flight.
type ProjectileSnapshot struct {
	ID      uint64  `json:"id"`
	Faction string  `json:"faction"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	TX      float64 `json:"tx"`
	TY      float64 `json:"ty"`
}

// Snapshot is a deep value copy of the visible match state, safe to marshal
// off the loop goroutine.
type Snapshot struct {
	Tick        uint64               `json:"tick"`
	Winner      string               `json:"winner,omitempty"`
	Units       []UnitSnapshot       `json:"units"`
	Buildings   []BuildingSnapshot   `json:"buildings"`
	Projectiles []ProjectileSnapshot `json:"projectiles"`
	Resources   map[string]Resources `json:"resources"`
}

// Snapshot copies the current state into plain values.
func (w *World) Snapshot() Snapshot {
	snapshot := Snapshot{
		Tick:        w.currentTick,
		Units:       make([]UnitSnapshot, 0, len(w.units)),
		Buildings:   make([]BuildingSnapshot, 0, len(w.buildings)),
		Projectiles: make([]ProjectileSnapshot, 0, len(w.projectiles)),
		Resources:   make(map[string]Resources, sim.FactionCount),
	}
	if w.winner != nil {
		snapshot.Winner = w.winner.String()
	}
	for _, u := range w.sortedUnits() {
		snapshot.Units = append(snapshot.Units, UnitSnapshot{
			ID:        uint64(u.ID),
			Faction:   u.Faction.String(),
			Kind:      u.Kind.String(),
			X:         u.Pos.X,
			Y:         u.Pos.Y,
			Health:    u.Health,
			MaxHealth: u.MaxHealth,
			Assigned:  uint64(u.AssignedBuilding),
		})
	}
	for _, b := range w.sortedBuildings() {
		snapshot.Buildings = append(snapshot.Buildings, BuildingSnapshot{
			ID:        uint64(b.ID),
			Faction:   b.Faction.String(),
			Kind:      b.Kind.String(),
			X:         b.Pos.X,
			Y:         b.Pos.Y,
			Width:     b.Width,
			Height:    b.Height,
			Health:    b.Health,
			MaxHealth: b.MaxHealth,
			Progress:  b.Progress,
			Complete:  b.Complete,
			Workers:   b.Workers,
		})
	}
	for _, p := range w.projectiles {
		snapshot.Projectiles = append(snapshot.Projectiles, ProjectileSnapshot{
			ID:      uint64(p.ID),
			Faction: p.Faction.String(),
			X:       p.Pos.X,
			Y:       p.Pos.Y,
			TX:      p.Target.X,
			TY:      p.Target.Y,
		})
	}
	for f := sim.Faction(0); f < sim.FactionCount; f++ {
		snapshot.Resources[f.String()] = w.resources[f]
	}
	return snapshot
}
