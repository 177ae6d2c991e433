package ai

import (
	"math/rand"

	"warbound/server/internal/sim"
	"warbound/server/internal/world"
	"warbound/server/stats"
)

// State is the controller's coarse posture.
type State uint8

const (
	StateBuilding State = iota
	StateDefending
	StateAttacking
)

func (s State) String() string {
	switch s {
	case StateDefending:
		return "defending"
	case StateAttacking:
		return "attacking"
	default:
		return "building"
	}
}

// AttackPhase refines StateAttacking.
type AttackPhase uint8

const (
	PhaseGathering AttackPhase = iota
	PhaseFlanking
	PhaseExecuting
)

func (p AttackPhase) String() string {
	switch p {
	case PhaseFlanking:
		return "flanking"
	case PhaseExecuting:
		return "executing"
	default:
		return "gathering"
	}
}

const (
	threatRadius      = 300.0
	threatCount       = 2
	defendEngageRange = 400.0

	rallyDistance     = 300.0
	gatherRadius      = 150.0
	gatherFraction    = 0.7
	gatherFightRadius = 150.0

	flankOffset      = 250.0
	flankArriveRange = 100.0
	flankMinSize     = 2
	flankMinWave     = 6
	flankMinWaveHard = 8

	retargetKeepAllowance = 50.0
	retargetGuardRadius   = 150.0
	retargetImproveFactor = 0.6
	retargetIdleRadius    = 200.0

	placementRingMin = 150.0
	placementRingMax = 300.0

	baseThinkInterval = 2.0
)

// targetRef points at the wave's objective; at most one id is set.
type targetRef struct {
	unit     world.EntityID
	building world.EntityID
}

func (t targetRef) valid() bool {
	return t.unit != 0 || t.building != 0
}

// Controller drives one scripted faction. It reads the world between command
// resolution passes and emits orders through the same command surface a
// human uses; it never mutates the world directly.
type Controller struct {
	faction    world.FactionID
	difficulty stats.Difficulty
	profile    stats.DifficultyProfile
	rng        *rand.Rand

	state State
	phase AttackPhase

	thinkClock    float64
	thinkInterval float64

	wave        []world.EntityID
	rally       world.Vec2
	target      targetRef
	flanks      [2][]world.EntityID
	flankPoints [2]world.Vec2
	flankActive bool
}

// NewController builds a controller for a faction at a difficulty. The think
// cadence shortens as micro skill rises.
func NewController(faction world.FactionID, difficulty stats.Difficulty, seed string) *Controller {
	profile := stats.Profile(difficulty)
	return &Controller{
		faction:       faction,
		difficulty:    difficulty,
		profile:       profile,
		rng:           world.NewDeterministicRNG(seed, "ai-"+faction.String()),
		thinkInterval: baseThinkInterval - profile.Micro,
	}
}

// State reports the current posture, for logging and tests.
func (c *Controller) State() State { return c.state }

// Phase reports the attack phase, meaningful while attacking.
func (c *Controller) Phase() AttackPhase { return c.phase }

// RunTick accrues the think clock and, when it fires, re-evaluates the state
// machine and returns the orders for this cycle. Between thinks the standing
// attack orders are still pressed every tick so the wave reacts to deaths and
// arrivals without waiting for the next strategic pass.
func (c *Controller) RunTick(w *world.World, tick uint64, dt float64) []sim.Command {
	if _, over := w.Winner(); over {
		return nil
	}
	c.thinkClock += dt
	if c.thinkClock < c.thinkInterval {
		if c.state == StateAttacking {
			if castle := w.Castle(c.faction); castle != nil {
				return c.runAttack(w, castle, tick)
			}
		}
		return nil
	}
	c.thinkClock = 0
	return c.think(w, tick)
}

func (c *Controller) think(w *world.World, tick uint64) []sim.Command {
	castle := w.Castle(c.faction)
	if castle == nil {
		return nil
	}

	if c.underThreat(w, castle) {
		if c.state == StateAttacking {
			c.cancelAttack()
		}
		c.state = StateDefending
		return c.defend(w, castle, tick)
	}
	if c.state == StateDefending {
		c.state = StateBuilding
	}

	switch c.state {
	case StateAttacking:
		return c.runAttack(w, castle, tick)
	default:
		commands := c.runEconomy(w, castle, tick)
		commands = append(commands, c.trainMilitary(w, tick)...)
		if c.shouldAttack(w) {
			return append(commands, c.startAttack(w, castle, tick)...)
		}
		// Above easy the army keeps formation between waves.
		if c.difficulty != stats.DifficultyEasy {
			commands = append(commands, c.holdLine(w, castle, tick)...)
		}
		return commands
	}
}

// underThreat reports whether enough enemies are knocking on the gate.
func (c *Controller) underThreat(w *world.World, castle *world.Building) bool {
	count := 0
	w.Units(func(u *world.Unit) {
		if u.Faction != c.faction && u.Alive() && vecDist(u.Pos, castle.Pos) <= threatRadius {
			count++
		}
	})
	return count >= threatCount
}

// cancelAttack clears every bit of wave state so a later attack starts clean.
func (c *Controller) cancelAttack() {
	c.wave = nil
	c.target = targetRef{}
	c.flanks[0] = nil
	c.flanks[1] = nil
	c.flankActive = false
	c.phase = PhaseGathering
}
