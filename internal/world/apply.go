package world

import (
	"warbound/server/internal/sim"
	"warbound/server/logging"
	"warbound/server/stats"
)

type trainOrder struct {
	kind      stats.UnitKind
	remaining float64
}

// Apply validates and applies staged commands in order. Invalid commands are
// rejected with a published warning; they never abort the batch.
func (w *World) Apply(commands []sim.Command) {
	for _, cmd := range commands {
		err := ErrGameOver
		if w.winner == nil {
			err = w.applyCommand(cmd)
		}
		if err != nil {
			w.publish(logging.Event{
				Type:     "command_rejected",
				Severity: logging.SeverityWarn,
				Category: logging.CategoryCommand,
				Faction:  cmd.Faction.String(),
				Entity:   cmd.Unit,
				Payload:  map[string]any{"command": string(cmd.Type), "reason": err.Error()},
			})
		}
	}
}

func (w *World) applyCommand(cmd sim.Command) error {
	switch cmd.Type {
	case sim.CommandMove:
		return w.applyUnitOrder(cmd, func(u *Unit) {
			w.unassignWorker(u)
			u.SetMoveTarget(cmd.Point)
		})
	case sim.CommandAttackMove:
		return w.applyUnitOrder(cmd, func(u *Unit) {
			w.unassignWorker(u)
			u.SetAttackMove(cmd.Point)
		})
	case sim.CommandStop:
		return w.applyUnitOrder(cmd, func(u *Unit) {
			w.unassignWorker(u)
			u.Stop()
		})
	case sim.CommandAttackUnit:
		return w.applyAttackUnit(cmd)
	case sim.CommandAttackBuilding:
		return w.applyAttackBuilding(cmd)
	case sim.CommandAssignWorker:
		return w.applyAssignWorker(cmd)
	case sim.CommandTrain:
		return w.applyTrain(cmd)
	case sim.CommandBuild:
		return w.applyBuild(cmd)
	case sim.CommandDeconstruct:
		return w.applyDeconstruct(cmd)
	default:
		return ErrInvalidCommand
	}
}

func (w *World) applyUnitOrder(cmd sim.Command, order func(*Unit)) error {
	unit := w.units[EntityID(cmd.Unit)]
	if unit == nil || !unit.Alive() {
		return ErrUnknownEntity
	}
	if unit.Faction != cmd.Faction {
		return ErrInvalidCommand
	}
	order(unit)
	return nil
}

func (w *World) applyAttackUnit(cmd sim.Command) error {
	target := w.units[EntityID(cmd.Target)]
	if target == nil || !target.Alive() {
		return ErrUnknownEntity
	}
	return w.applyUnitOrder(cmd, func(u *Unit) {
		if target.Faction == u.Faction {
			return
		}
		w.unassignWorker(u)
		u.SetTargetUnit(target.ID)
	})
}

func (w *World) applyAttackBuilding(cmd sim.Command) error {
	target := w.buildings[EntityID(cmd.Target)]
	if target == nil || !target.Alive() {
		return ErrUnknownEntity
	}
	return w.applyUnitOrder(cmd, func(u *Unit) {
		if target.Faction == u.Faction {
			return
		}
		w.unassignWorker(u)
		u.SetTargetBuilding(target.ID)
	})
}

func (w *World) applyAssignWorker(cmd sim.Command) error {
	if cmd.Target == 0 {
		return w.applyUnitOrder(cmd, func(u *Unit) {
			w.unassignWorker(u)
			u.Stop()
		})
	}
	building := w.buildings[EntityID(cmd.Target)]
	if building == nil || !building.Alive() {
		return ErrUnknownEntity
	}
	unit := w.units[EntityID(cmd.Unit)]
	if unit == nil || !unit.Alive() {
		return ErrUnknownEntity
	}
	if unit.Faction != cmd.Faction || building.Faction != cmd.Faction || unit.Kind != stats.UnitPeasant {
		return ErrInvalidCommand
	}
	if w.assignedCount(building.ID) >= building.WorkersNeeded {
		return ErrInvalidCommand
	}
	w.unassignWorker(unit)
	unit.Stop()
	unit.AssignedBuilding = building.ID
	unit.SetMoveTarget(building.Pos)
	return nil
}

func (w *World) applyTrain(cmd sim.Command) error {
	if cmd.UnitKind >= stats.UnitKindCount {
		return ErrInvalidCommand
	}
	if w.Castle(cmd.Faction) == nil {
		return ErrInvalidCommand
	}
	profile := stats.Unit(cmd.UnitKind)
	if !w.resources[cmd.Faction].Spend(profile.Cost) {
		return ErrInsufficientResources
	}
	w.trainQueues[cmd.Faction] = append(w.trainQueues[cmd.Faction], trainOrder{
		kind:      cmd.UnitKind,
		remaining: profile.TrainTime,
	})
	return nil
}

func (w *World) applyBuild(cmd sim.Command) error {
	if cmd.BuildingKind >= stats.BuildingKindCount || cmd.BuildingKind == stats.BuildingCastle {
		return ErrInvalidCommand
	}
	profile := stats.Building(cmd.BuildingKind)
	pos := w.clampToMap(cmd.Point)
	if w.footprintBlocked(pos, profile.Width, profile.Height) {
		return ErrInvalidCommand
	}
	if !w.resources[cmd.Faction].Spend(profile.Cost) {
		return ErrInsufficientResources
	}
	building := w.PlaceBuilding(cmd.Faction, cmd.BuildingKind, pos)
	w.publish(logging.Event{
		Type:     "construction_started",
		Category: logging.CategoryBuilding,
		Faction:  cmd.Faction.String(),
		Entity:   uint64(building.ID),
		Payload:  map[string]any{"kind": building.Kind.String()},
	})
	return nil
}

func (w *World) applyDeconstruct(cmd sim.Command) error {
	building := w.buildings[EntityID(cmd.Target)]
	if building == nil || !building.Alive() {
		return ErrUnknownEntity
	}
	if building.Faction != cmd.Faction || building.Kind == stats.BuildingCastle {
		return ErrInvalidCommand
	}
	refundScale := deconstructRefund
	if !building.Complete {
		refundScale *= building.Progress / progressComplete
	}
	refund := scaleCost(stats.Building(building.Kind).Cost, refundScale)
	w.resources[cmd.Faction].Add(refund)
	w.removeBuilding(building.ID)
	w.publish(logging.Event{
		Type:     "building_deconstructed",
		Category: logging.CategoryBuilding,
		Faction:  cmd.Faction.String(),
		Entity:   uint64(building.ID),
		Payload:  map[string]any{"kind": building.Kind.String(), "refund": refund},
	})
	return nil
}

func (w *World) footprintBlocked(pos Vec2, width, height float64) bool {
	for _, other := range w.buildings {
		dx := pos.X - other.Pos.X
		dy := pos.Y - other.Pos.Y
		if abs(dx) < (width+other.Width)/2 && abs(dy) < (height+other.Height)/2 {
			return true
		}
	}
	return false
}

func (w *World) assignedCount(buildingID EntityID) int {
	count := 0
	for _, u := range w.units {
		if u.AssignedBuilding == buildingID && u.Alive() {
			count++
		}
	}
	return count
}

func (w *World) unassignWorker(u *Unit) {
	u.AssignedBuilding = 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
