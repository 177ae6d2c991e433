package app

import (
	"sync"

	"github.com/sirupsen/logrus"

	"warbound/server/internal/ai"
	"warbound/server/internal/sim"
	"warbound/server/internal/world"
)

// Engine glues the world and the scripted opponents to the loop. The
// opponents run at the top of every step so their orders resolve through the
// same command pass as human input, before positions move.
type Engine struct {
	mu     sync.Mutex
	world  *world.World
	bots   []*ai.Controller
	staged []sim.Command
	logger *logrus.Logger
}

// NewEngine wires a world to its scripted opponents.
func NewEngine(w *world.World, bots []*ai.Controller, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{world: w, bots: bots, logger: logger}
}

// Apply stages the drained human commands for the next step.
func (e *Engine) Apply(commands []sim.Command) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.staged = append(e.staged, commands...)
}

// Step runs one tick: opponent decisions first, then the combined command
// batch, then the world step.
func (e *Engine) Step(ctx sim.TickContext) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var commands []sim.Command
	for _, bot := range e.bots {
		commands = append(commands, bot.RunTick(e.world, ctx.Tick, ctx.Delta)...)
	}
	commands = append(commands, e.staged...)
	e.staged = e.staged[:0]

	e.world.Apply(commands)
	e.world.Step(ctx.Tick, ctx.Delta)

	if winner, over := e.world.Winner(); over && e.world.Tick() == ctx.Tick {
		e.logger.WithFields(logrus.Fields{
			"component": "engine",
			"tick":      ctx.Tick,
			"winner":    winner.String(),
		}).Info("match decided")
	}
}

// Snapshot returns a deep copy of the match state, safe for any goroutine.
func (e *Engine) Snapshot() world.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.world.Snapshot()
}

var _ sim.EngineCore = (*Engine)(nil)
