package store

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/event"
)

// MongoHealth tracks connectivity from the driver's server heartbeats.
// Attach Monitor to the client options before connecting.
type MongoHealth struct {
	log zerolog.Logger

	mu      sync.RWMutex
	servers map[string]bool
	up      bool
}

func NewMongoHealth(log zerolog.Logger) *MongoHealth {
	return &MongoHealth{log: log, servers: map[string]bool{}}
}

// Status reports the last observed state. It never contacts the server.
func (h *MongoHealth) Status(context.Context) ConnState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.up {
		return Connected
	}
	return Disconnected
}

// MarkConnected records a successful ping made outside the monitor,
// typically right after connecting.
func (h *MongoHealth) MarkConnected() {
	h.set("initial", true, nil)
}

// Monitor returns the heartbeat hooks feeding Status.
func (h *MongoHealth) Monitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		ServerHeartbeatSucceeded: func(e *event.ServerHeartbeatSucceededEvent) {
			h.set(serverAddr(e.ConnectionID), true, nil)
		},
		ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
			h.set(serverAddr(e.ConnectionID), false, e.Failure)
		},
	}
}

func (h *MongoHealth) set(server string, ok bool, cause error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if server != "initial" {
		delete(h.servers, "initial")
	}
	h.servers[server] = ok
	was := h.up
	h.up = false
	for _, s := range h.servers {
		if s {
			h.up = true
			break
		}
	}

	switch {
	case was && !h.up:
		h.log.Warn().Err(cause).Str("server", server).Msg("mongodb disconnected")
	case !was && h.up && server != "initial":
		h.log.Info().Str("server", server).Msg("mongodb reconnected")
	}
}

// serverAddr strips the per-connection "[-N]" suffix the driver appends to
// heartbeat connection IDs, so each server keeps a single entry.
func serverAddr(connID string) string {
	if i := strings.LastIndex(connID, "[-"); i > 0 && strings.HasSuffix(connID, "]") {
		return connID[:i]
	}
	return connID
}
