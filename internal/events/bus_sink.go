package events

import (
	"context"

	"github.com/yungbote/workstation-backend/internal/domain/contracts"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
	"github.com/yungbote/workstation-backend/internal/realtime/bus"
)

// BusSink publishes encoded envelopes on the event bus.
type BusSink struct {
	bus bus.Bus
}

func NewBusSink(b bus.Bus) *BusSink {
	return &BusSink{bus: b}
}

func (s *BusSink) Name() string { return "bus" }

func (s *BusSink) Deliver(ctx context.Context, e contracts.Event) error {
	raw, err := Encode(e)
	if err != nil {
		return internalErr("BusSink.Deliver", err)
	}
	return s.bus.Publish(ctx, raw)
}

// Subscribe decodes every envelope arriving on b and hands it to onEvent.
// Undecodable payloads are logged and skipped.
func Subscribe(ctx context.Context, b bus.Bus, log *logger.Logger, onEvent func(contracts.Event)) error {
	subLog := log.With("service", "EventSubscriber")
	return b.StartForwarder(ctx, func(payload []byte) {
		e, err := Decode(payload)
		if err != nil {
			subLog.Warn("bad event payload", "error", err)
			return
		}
		onEvent(e)
	})
}
