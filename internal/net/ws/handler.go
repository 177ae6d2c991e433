package ws

import (
	"encoding/json"
	nethttp "net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"warbound/server/internal/app"
	"warbound/server/internal/net"
	"warbound/server/internal/sim"
	"warbound/server/stats"
)

// ClientCommand is the JSON frame a client sends to issue an order.
type ClientCommand struct {
	Type         string  `json:"type"`
	Unit         uint64  `json:"unit,omitempty"`
	Target       uint64  `json:"target,omitempty"`
	X            float64 `json:"x,omitempty"`
	Y            float64 `json:"y,omitempty"`
	UnitKind     string  `json:"unitKind,omitempty"`
	BuildingKind string  `json:"buildingKind,omitempty"`
}

// Handler upgrades HTTP connections and pumps client commands into the loop.
type Handler struct {
	hub      *net.Hub
	engine   *app.Engine
	loop     *sim.Loop
	logger   *logrus.Logger
	upgrader websocket.Upgrader
}

// NewHandler wires the websocket endpoint to the hub and command queue.
func NewHandler(hub *net.Hub, engine *app.Engine, loop *sim.Loop, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		hub:    hub,
		engine: engine,
		loop:   loop,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
	}
}

// Handle upgrades the connection, sends the current state and reads commands
// until the client goes away.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("upgrade failed")
		return
	}

	session := h.hub.Subscribe(conn)
	defer h.hub.Disconnect(session.ID)

	initial, err := json.Marshal(net.StateMessage{Type: "state", State: h.engine.Snapshot()})
	if err != nil {
		h.logger.WithError(err).Error("failed to marshal initial state")
		return
	}
	if err := session.Write(websocket.TextMessage, initial); err != nil {
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var frame ClientCommand
		if err := json.Unmarshal(payload, &frame); err != nil {
			h.logger.WithError(err).WithField("session", session.ID).Debug("malformed command frame")
			continue
		}
		cmd, ok := decodeCommand(frame, session)
		if !ok {
			h.logger.WithFields(logrus.Fields{
				"session": session.ID,
				"type":    frame.Type,
			}).Debug("unknown command frame")
			continue
		}
		h.loop.Enqueue(cmd)
	}
}

// decodeCommand translates a wire frame into a staged command bound to the
// session's faction.
func decodeCommand(frame ClientCommand, session *net.Session) (sim.Command, bool) {
	cmd := sim.Command{
		ActorID: session.ID,
		Faction: session.Faction,
		Unit:    frame.Unit,
		Target:  frame.Target,
		Point:   sim.Vec2{X: frame.X, Y: frame.Y},
	}
	switch sim.CommandType(frame.Type) {
	case sim.CommandMove, sim.CommandAttackMove, sim.CommandStop,
		sim.CommandAttackUnit, sim.CommandAttackBuilding,
		sim.CommandAssignWorker, sim.CommandDeconstruct:
		cmd.Type = sim.CommandType(frame.Type)
		return cmd, true
	case sim.CommandTrain:
		kind, ok := stats.ParseUnitKind(frame.UnitKind)
		if !ok {
			return sim.Command{}, false
		}
		cmd.Type = sim.CommandTrain
		cmd.UnitKind = kind
		return cmd, true
	case sim.CommandBuild:
		kind, ok := stats.ParseBuildingKind(frame.BuildingKind)
		if !ok {
			return sim.Command{}, false
		}
		cmd.Type = sim.CommandBuild
		cmd.BuildingKind = kind
		return cmd, true
	default:
		return sim.Command{}, false
	}
}
