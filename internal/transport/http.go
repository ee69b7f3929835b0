package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/amalg016/bomb-arena/internal/matchmaker"
)

// Router builds the HTTP surface (spec §6): health check, online-stats,
// a dev-only debug monitor stub, and the /ws upgrade endpoint.
func Router(gateway *Gateway, registry *matchmaker.Registry, devMode bool) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/online-stats", handleOnlineStats(registry))
	mux.HandleFunc("/ws", gateway.ServeWS)
	if devMode {
		mux.HandleFunc("/colyseus", handleDevMonitor(registry))
	}
	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func handleOnlineStats(registry *matchmaker.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := registry.StatsSnapshot()
		rooms := make([]map[string]any, 0, len(stats.Rooms))
		for _, rs := range stats.Rooms {
			rooms = append(rooms, map[string]any{
				"roomId":     rs.RoomCode,
				"name":       rs.RoomCode,
				"mode":       rs.Mode,
				"players":    rs.Players,
				"maxPlayers": rs.MaxPlayers,
				"isPrivate":  rs.IsPrivate,
			})
		}
		writeJSON(w, map[string]any{
			"totalPlayers": stats.TotalPlayers,
			"totalRooms":   stats.TotalRooms,
			"rooms":        rooms,
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// handleDevMonitor is a minimal stand-in for a colyseus-style debug
// monitor: it dumps registry stats as plain JSON rather than serving a
// full inspector UI, which is out of scope (spec §6 marks it dev-only
// reference surface, not a defined contract).
func handleDevMonitor(registry *matchmaker.Registry) http.HandlerFunc {
	return handleOnlineStats(registry)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_ = json.NewEncoder(w).Encode(payload)
}
