package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/openrotor/basestation/internal/domain"
	domainagg "github.com/openrotor/basestation/internal/domain/aggregates"
	"github.com/openrotor/basestation/internal/realtime"
)

func TestHeatNotifierHeatCreated(t *testing.T) {
	emitter := &emitterRecorder{}
	n := NewHeatNotifier(emitter)

	raceID := uuid.New()
	n.HeatCreated(context.Background(), domainagg.CreateHeatResult{
		HeatID:  uuid.New(),
		RaceID:  raceID,
		Number:  2,
		State:   types.HeatStateWaiting,
		Channel: types.HeatChannelName(raceID, 2),
	})

	if len(emitter.messages) != 1 {
		t.Fatalf("messages: want=1 got=%d", len(emitter.messages))
	}
	msg := emitter.messages[0]
	if msg.Event != realtime.SSEEventHeatCreated {
		t.Fatalf("event: got=%s", msg.Event)
	}
	if msg.Channel != types.HeatChannelName(raceID, 2) {
		t.Fatalf("channel: got=%s", msg.Channel)
	}
	data := msg.Data.(map[string]any)
	if data["type"] != "state_changed" {
		t.Fatalf("type: got=%v", data["type"])
	}
	if data["state_label"] != "Waiting" {
		t.Fatalf("state_label: got=%v", data["state_label"])
	}
}

func TestHeatNotifierTransitionEvents(t *testing.T) {
	cases := []struct {
		action types.HeatAction
		state  types.HeatState
		event  realtime.SSEEvent
	}{
		{types.HeatActionStart, types.HeatStateRunning, realtime.SSEEventHeatStarted},
		{types.HeatActionEnd, types.HeatStateEnded, realtime.SSEEventHeatEnded},
		{types.HeatActionRestart, types.HeatStateRestarting, realtime.SSEEventHeatRestarting},
	}

	for _, tc := range cases {
		emitter := &emitterRecorder{}
		n := NewHeatNotifier(emitter)
		now := time.Now().UTC()
		raceID := uuid.New()

		n.HeatTransitioned(context.Background(), tc.action, domainagg.HeatTransitionResult{
			HeatID:      uuid.New(),
			RaceID:      raceID,
			Number:      1,
			State:       tc.state,
			StartedTime: &now,
			Channel:     types.HeatChannelName(raceID, 1),
		})

		if len(emitter.messages) != 1 {
			t.Fatalf("%s: messages want=1 got=%d", tc.action, len(emitter.messages))
		}
		if emitter.messages[0].Event != tc.event {
			t.Fatalf("%s: event want=%s got=%s", tc.action, tc.event, emitter.messages[0].Event)
		}
		data := emitter.messages[0].Data.(map[string]any)
		if data["type"] != "state_changed" {
			t.Fatalf("%s: type got=%v", tc.action, data["type"])
		}
		if data["state_label"] != tc.state.Label() {
			t.Fatalf("%s: state_label got=%v", tc.action, data["state_label"])
		}
	}
}

func TestHeatNotifierHeatLogEntry(t *testing.T) {
	emitter := &emitterRecorder{}
	n := NewHeatNotifier(emitter)

	raceID := uuid.New()
	trackerID := uuid.New()
	n.HeatLogEntry(context.Background(), domainagg.AppendHeatEventResult{
		EventID:    uuid.New(),
		HeatID:     uuid.New(),
		RaceID:     raceID,
		HeatNumber: 3,
		Trigger:    types.TriggerGate,
		TrackerID:  &trackerID,
		CreatedAt:  time.Now().UTC(),
		Channel:    types.HeatChannelName(raceID, 3),
	})

	if len(emitter.messages) != 1 {
		t.Fatalf("messages: want=1 got=%d", len(emitter.messages))
	}
	msg := emitter.messages[0]
	if msg.Event != realtime.SSEEventHeatLogEntry {
		t.Fatalf("event: got=%s", msg.Event)
	}
	data := msg.Data.(map[string]any)
	if data["type"] != "event_triggered" {
		t.Fatalf("type: got=%v", data["type"])
	}
	if data["trigger_label"] != "gate" {
		t.Fatalf("trigger_label: got=%v", data["trigger_label"])
	}
	if data["trigger_verbose_label"] != "Gate Trigger" {
		t.Fatalf("trigger_verbose_label: got=%v", data["trigger_verbose_label"])
	}
	if data["number"] != 3 {
		t.Fatalf("number: got=%v", data["number"])
	}
}

func TestHeatNotifierNilEmitterIsSafe(t *testing.T) {
	n := NewHeatNotifier(nil)
	n.HeatCreated(context.Background(), domainagg.CreateHeatResult{})
	n.HeatTransitioned(context.Background(), types.HeatActionStart, domainagg.HeatTransitionResult{})
	n.HeatLogEntry(context.Background(), domainagg.AppendHeatEventResult{})
}
