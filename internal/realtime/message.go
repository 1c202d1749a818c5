package realtime

type SSEEvent string

const (
	SSEEventHeatCreated    SSEEvent = "HeatCreated"
	SSEEventHeatStarted    SSEEvent = "HeatStarted"
	SSEEventHeatEnded      SSEEvent = "HeatEnded"
	SSEEventHeatRestarting SSEEvent = "HeatRestarting"
	SSEEventHeatLogEntry   SSEEvent = "HeatLogEntry"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
