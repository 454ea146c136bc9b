package changefeed

import (
	"context"

	"github.com/annel0/world-resilience/internal/eventbus"
	"github.com/annel0/world-resilience/internal/logging"
)

// BatchHandler получает декодированный пакет и конверт, в котором он пришёл
type BatchHandler func(ev *eventbus.Envelope, b *Batch)

// Consumer слушает TerrainBatch сообщения и декодирует их.
type Consumer struct {
	sub    eventbus.Subscription
	codec  *Codec
	logger *logging.Logger
	handle BatchHandler
}

// NewConsumer подписывается на пакеты изменений рельефа
func NewConsumer(ctx context.Context, bus eventbus.EventBus, codec *Codec, h BatchHandler, logger *logging.Logger) (*Consumer, error) {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Consumer{codec: codec, logger: logger, handle: h}
	sub, err := bus.Subscribe(ctx, eventbus.Filter{Types: []string{EventType}}, c.onEnvelope)
	if err != nil {
		return nil, err
	}
	c.sub = sub
	return c, nil
}

func (c *Consumer) onEnvelope(_ context.Context, ev *eventbus.Envelope) {
	b, err := c.codec.Decode(ev.Payload)
	if err != nil {
		c.logger.Warn("Consumer: не удалось декодировать %s от %s: %v", ev.ID, ev.Source, err)
		return
	}
	c.logger.Debug("Consumer: тик %d, %d изменений от %s", b.Tick, len(b.Changes), ev.Source)
	c.handle(ev, b)
}

// Stop отписывается от шины
func (c *Consumer) Stop() { c.sub.Unsubscribe() }
