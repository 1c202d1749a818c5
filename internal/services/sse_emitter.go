package services

import (
	"context"

	"github.com/openrotor/basestation/internal/platform/logger"
	"github.com/openrotor/basestation/internal/realtime"
	"github.com/openrotor/basestation/internal/realtime/bus"
)

type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.Hub.Broadcast(msg)
}

// RedisEmitter publishes through the redis bus. Delivery failures are
// logged and swallowed; a lost notification never fails the write that
// produced it.
type RedisEmitter struct {
	Bus bus.Bus
	Log *logger.Logger
}

func (e *RedisEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if err := e.Bus.Publish(ctx, msg); err != nil && e.Log != nil {
		e.Log.Warn("SSE publish failed", "channel", msg.Channel, "event", string(msg.Event), "error", err)
	}
}
