package services

import (
	"context"

	types "github.com/openrotor/basestation/internal/domain"
	domainagg "github.com/openrotor/basestation/internal/domain/aggregates"
	"github.com/openrotor/basestation/internal/realtime"
)

// HeatNotifier publishes heat lifecycle signals to the heat's channel
// ("{race_id}-heat-{number}"). Delivery is fire-and-forget; a missed
// notification never fails the write that produced it.
type HeatNotifier interface {
	HeatCreated(ctx context.Context, res domainagg.CreateHeatResult)
	HeatTransitioned(ctx context.Context, action types.HeatAction, res domainagg.HeatTransitionResult)
	HeatLogEntry(ctx context.Context, res domainagg.AppendHeatEventResult)
}

type heatNotifier struct {
	emitter SSEEmitter
}

func NewHeatNotifier(emitter SSEEmitter) HeatNotifier {
	return &heatNotifier{emitter: emitter}
}

func (n *heatNotifier) HeatCreated(ctx context.Context, res domainagg.CreateHeatResult) {
	if n == nil || n.emitter == nil {
		return
	}
	n.emitter.Emit(ctx, realtime.SSEMessage{
		Channel: res.Channel,
		Event:   realtime.SSEEventHeatCreated,
		Data: map[string]any{
			"type":        "state_changed",
			"heat_id":     res.HeatID,
			"race_id":     res.RaceID,
			"number":      res.Number,
			"state":       int(res.State),
			"state_label": res.State.Label(),
		},
	})
}

func (n *heatNotifier) HeatTransitioned(ctx context.Context, action types.HeatAction, res domainagg.HeatTransitionResult) {
	if n == nil || n.emitter == nil {
		return
	}
	n.emitter.Emit(ctx, realtime.SSEMessage{
		Channel: res.Channel,
		Event:   transitionEvent(action),
		Data: map[string]any{
			"type":         "state_changed",
			"heat_id":      res.HeatID,
			"race_id":      res.RaceID,
			"number":       res.Number,
			"state":        int(res.State),
			"state_label":  res.State.Label(),
			"started_time": res.StartedTime,
			"ended_time":   res.EndedTime,
		},
	})
}

func (n *heatNotifier) HeatLogEntry(ctx context.Context, res domainagg.AppendHeatEventResult) {
	if n == nil || n.emitter == nil {
		return
	}
	n.emitter.Emit(ctx, realtime.SSEMessage{
		Channel: res.Channel,
		Event:   realtime.SSEEventHeatLogEntry,
		Data: map[string]any{
			"type":                  "event_triggered",
			"event_id":              res.EventID,
			"heat_id":               res.HeatID,
			"race_id":               res.RaceID,
			"number":                res.HeatNumber,
			"tracker_id":            res.TrackerID,
			"trigger":               int(res.Trigger),
			"trigger_label":         res.Trigger.SerializerLabel(),
			"trigger_verbose_label": res.Trigger.Label(),
			"created_at":            res.CreatedAt,
		},
	})
}

func transitionEvent(action types.HeatAction) realtime.SSEEvent {
	switch action {
	case types.HeatActionStart:
		return realtime.SSEEventHeatStarted
	case types.HeatActionEnd:
		return realtime.SSEEventHeatEnded
	case types.HeatActionRestart:
		return realtime.SSEEventHeatRestarting
	default:
		return realtime.SSEEventHeatCreated
	}
}
