package sim

import "warbound/server/stats"

// Faction identifies a side of the match.
type Faction uint8

const (
	FactionPlayer Faction = iota
	FactionEnemy

	FactionCount
)

func (f Faction) String() string {
	switch f {
	case FactionPlayer:
		return "player"
	case FactionEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Opponent returns the other side.
func (f Faction) Opponent() Faction {
	if f == FactionPlayer {
		return FactionEnemy
	}
	return FactionPlayer
}

// Vec2 is a world-space point.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type CommandType string

const (
	CommandMove           CommandType = "move"
	CommandAttackUnit     CommandType = "attack_unit"
	CommandAttackBuilding CommandType = "attack_building"
	CommandAttackMove     CommandType = "attack_move"
	CommandStop           CommandType = "stop"
	CommandAssignWorker   CommandType = "assign_worker"
	CommandTrain          CommandType = "train"
	CommandBuild          CommandType = "build"
	CommandDeconstruct    CommandType = "deconstruct"
)

// Command is a staged order. Entity references are ids, resolved when the
// command is applied; a stale id rejects the command instead of panicking.
type Command struct {
	Type         CommandType        `json:"type"`
	ActorID      string             `json:"actorId,omitempty"`
	Faction      Faction            `json:"faction"`
	Unit         uint64             `json:"unit,omitempty"`
	Target       uint64             `json:"target,omitempty"`
	Point        Vec2               `json:"point,omitempty"`
	UnitKind     stats.UnitKind     `json:"unitKind,omitempty"`
	BuildingKind stats.BuildingKind `json:"buildingKind,omitempty"`
	IssuedTick   uint64             `json:"issuedTick,omitempty"`
}
