package world

import (
	"warbound/server/logging"
	"warbound/server/stats"
)

// updateWorkerStatus recomputes each building's working headcount. An
// assigned peasant only counts while inside work range; commuters are kept
// walking toward their building.
func (w *World) updateWorkerStatus(units []*Unit) {
	for _, b := range w.buildings {
		b.Workers = 0
	}
	for _, u := range units {
		if u.AssignedBuilding == 0 || !u.Alive() {
			continue
		}
		building := w.buildings[u.AssignedBuilding]
		if building == nil || !building.Alive() {
			u.AssignedBuilding = 0
			continue
		}
		if building.Contains(u.Pos, workerRange) {
			building.Workers++
			if u.MoveTarget != nil && dist(*u.MoveTarget, building.Pos) < arriveEpsilon {
				u.MoveTarget = nil
			}
		} else if u.MoveTarget == nil && u.TargetUnit == 0 && u.TargetBuilding == 0 {
			u.SetMoveTarget(building.Pos)
		}
	}
}

// tickConstruction advances incomplete buildings. The first builder works at
// full rate, each additional builder adds half a share; an unattended site
// still creeps forward at half rate.
func (w *World) tickConstruction(dt float64) {
	for _, b := range w.sortedBuildings() {
		if b.Complete || !b.Alive() {
			continue
		}
		buildTime := stats.Building(b.Kind).BuildTime
		if buildTime <= 0 {
			buildTime = 1
		}
		multiplier := 1 + constructionAssistRate*float64(b.Workers-1)
		b.Progress += progressComplete / buildTime * multiplier * dt
		if b.Progress < progressComplete {
			continue
		}
		b.Progress = progressComplete
		b.Complete = true
		w.releaseBuilders(b.ID)
		w.publish(logging.Event{
			Type:     "construction_completed",
			Category: logging.CategoryBuilding,
			Faction:  b.Faction.String(),
			Entity:   uint64(b.ID),
			Payload:  map[string]any{"kind": b.Kind.String()},
		})
	}
}

func (w *World) releaseBuilders(buildingID EntityID) {
	for _, u := range w.units {
		if u.AssignedBuilding == buildingID {
			u.AssignedBuilding = 0
			u.MoveTarget = nil
		}
	}
}

// tickTraining advances the per-faction training queues, spawning finished
// units on the castle ring. Losing the castle cancels the queue.
func (w *World) tickTraining(dt float64) {
	for faction := range w.trainQueues {
		queue := w.trainQueues[faction]
		if len(queue) == 0 {
			continue
		}
		if w.Castle(FactionID(faction)) == nil {
			w.trainQueues[faction] = nil
			continue
		}
		queue[0].remaining -= dt
		if queue[0].remaining > 0 {
			continue
		}
		kind := queue[0].kind
		w.trainQueues[faction] = queue[1:]
		if unit := w.SpawnTrainedUnit(FactionID(faction), kind); unit != nil {
			w.publish(logging.Event{
				Type:     "unit_trained",
				Category: logging.CategoryEconomy,
				Faction:  FactionID(faction).String(),
				Entity:   uint64(unit.ID),
				Payload:  map[string]any{"kind": kind.String()},
			})
		}
	}
}

// TrainQueueLength reports how many units a faction still has in training.
func (w *World) TrainQueueLength(faction FactionID) int {
	if int(faction) >= len(w.trainQueues) {
		return 0
	}
	return len(w.trainQueues[faction])
}
