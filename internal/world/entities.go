package world

import (
	"math"

	"warbound/server/internal/sim"
	"warbound/server/stats"
)

// EntityID identifies a unit or building. IDs are allocated monotonically per
// world and never reused; 0 means "no entity".
type EntityID uint64

// FactionID aliases the shared faction enum so commands and world state agree.
type FactionID = sim.Faction

// Vec2 aliases the shared point type used on the command surface.
type Vec2 = sim.Vec2

func dist(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Unit is a mobile combatant. At most one of MoveTarget, TargetUnit and
// TargetBuilding is active; the setters keep that invariant. AttackMovePoint
// survives intermediate engagements so the unit resumes its advance.
type Unit struct {
	ID      EntityID
	Faction FactionID
	Kind    stats.UnitKind
	Pos     Vec2

	Health    int
	MaxHealth int
	Attack    int
	Defense   int

	Speed       float64
	AttackRange float64
	Cooldown    float64
	Radius      float64

	CooldownRemaining float64

	MoveTarget      *Vec2
	TargetUnit      EntityID
	TargetBuilding  EntityID
	AttackMove      bool
	AttackMovePoint Vec2

	// AssignedBuilding is set for peasants staffing a building.
	AssignedBuilding EntityID
}

// Alive reports whether the unit still participates in the simulation.
func (u *Unit) Alive() bool {
	return u != nil && u.Health > 0
}

// SetMoveTarget orders plain movement, clearing combat targets.
func (u *Unit) SetMoveTarget(p Vec2) {
	point := p
	u.MoveTarget = &point
	u.TargetUnit = 0
	u.TargetBuilding = 0
	u.AttackMove = false
}

// SetTargetUnit orders an attack on a unit, clearing other orders.
func (u *Unit) SetTargetUnit(id EntityID) {
	u.TargetUnit = id
	u.TargetBuilding = 0
	u.MoveTarget = nil
}

// SetTargetBuilding orders an attack on a building, clearing other orders.
func (u *Unit) SetTargetBuilding(id EntityID) {
	u.TargetBuilding = id
	u.TargetUnit = 0
	u.MoveTarget = nil
}

// SetAttackMove orders movement that engages anything encountered en route.
func (u *Unit) SetAttackMove(p Vec2) {
	point := p
	u.MoveTarget = &point
	u.AttackMove = true
	u.AttackMovePoint = p
	u.TargetUnit = 0
	u.TargetBuilding = 0
}

// Stop clears every order.
func (u *Unit) Stop() {
	u.MoveTarget = nil
	u.TargetUnit = 0
	u.TargetBuilding = 0
	u.AttackMove = false
}

// Building is a static structure. Pos is the footprint center.
type Building struct {
	ID      EntityID
	Faction FactionID
	Kind    stats.BuildingKind
	Pos     Vec2
	Width   float64
	Height  float64

	Health    int
	MaxHealth int

	Progress float64
	Complete bool

	WorkersNeeded int
	Workers       int

	TowerCooldown float64
}

// Alive reports whether the building still stands.
func (b *Building) Alive() bool {
	return b != nil && b.Health > 0
}

// Contains reports whether a point padded by radius overlaps the footprint.
func (b *Building) Contains(p Vec2, radius float64) bool {
	if b == nil {
		return false
	}
	halfW := b.Width/2 + radius
	halfH := b.Height/2 + radius
	return math.Abs(p.X-b.Pos.X) <= halfW && math.Abs(p.Y-b.Pos.Y) <= halfH
}

// StaffingRatio is the fraction of required workers currently assigned.
func (b *Building) StaffingRatio() float64 {
	if b == nil || b.WorkersNeeded <= 0 {
		return 1
	}
	ratio := float64(b.Workers) / float64(b.WorkersNeeded)
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

// Projectile is a tower or cannon shot in flight toward the position its
// target occupied at launch. The hit roll happens on impact, not on spawn,
// and damage lands only if the target is still alive.
type Projectile struct {
	ID        EntityID
	Faction   FactionID
	Pos       Vec2
	Target    Vec2
	Speed     float64
	Damage    int
	HitChance float64

	TargetUnit     EntityID
	TargetBuilding EntityID
}
