package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"warbound/server/internal/ai"
	"warbound/server/internal/app"
	netpkg "warbound/server/internal/net"
	"warbound/server/internal/net/ws"
	"warbound/server/internal/sim"
	"warbound/server/internal/world"
	"warbound/server/logging"
	"warbound/server/stats"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	seed := flag.String("seed", world.DefaultSeed, "deterministic world seed")
	difficulty := flag.String("difficulty", "normal", "opponent difficulty: easy, normal, hard, brutal")
	tickRate := flag.Int("tick-rate", 20, "simulation ticks per second")
	healing := flag.Bool("healing", true, "enable passive healing paid in food")
	verbose := flag.Bool("verbose", false, "log debug events")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	level := logging.SeverityInfo
	if *verbose {
		level = logging.SeverityDebug
	}
	publisher := logging.NewLogrusPublisher(logger, logging.Config{MinimumSeverity: level})

	cfg := world.Config{
		Seed:       *seed,
		Difficulty: stats.ParseDifficulty(*difficulty),
		Healing:    *healing,
	}.Normalized()

	w := world.New(cfg, publisher)
	bots := []*ai.Controller{
		ai.NewController(sim.FactionEnemy, cfg.Difficulty, cfg.Seed),
	}
	engine := app.NewEngine(w, bots, logger)

	hub := netpkg.NewHub(logger)
	loop := sim.NewLoop(engine, sim.LoopConfig{
		TickRate:        *tickRate,
		CatchupMaxTicks: 4,
		CommandCapacity: 256,
		PerActorLimit:   32,
		WarningStep:     64,
	}, sim.LoopHooks{
		AfterStep: func(result sim.StepResult) {
			hub.Broadcast(engine.Snapshot())
			if result.ClampedDelta {
				logger.WithFields(logrus.Fields{
					"tick":     result.Tick,
					"duration": result.Duration,
					"budget":   result.Budget,
				}).Warn("tick fell behind, clamped delta")
			}
		},
	}, logger)

	stop := make(chan struct{})
	go loop.Run(stop)

	handler := ws.NewHandler(hub, engine, loop, logger)
	http.HandleFunc("/ws", handler.Handle)
	http.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	logger.WithFields(logrus.Fields{
		"addr":       *addr,
		"seed":       cfg.Seed,
		"difficulty": cfg.Difficulty.String(),
		"tickRate":   *tickRate,
	}).Info("server listening")

	if err := http.ListenAndServe(*addr, nil); err != nil {
		close(stop)
		logger.WithError(err).Fatal("server exited")
	}
}
