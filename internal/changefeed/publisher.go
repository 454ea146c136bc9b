package changefeed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/annel0/world-resilience/internal/erosion"
	"github.com/annel0/world-resilience/internal/eventbus"
	"github.com/annel0/world-resilience/internal/logging"
)

// EventType задаёт тип конверта с пакетом изменений рельефа
const EventType = "TerrainBatch"

// Publisher отправляет применённые пакеты эрозии в шину событий.
// Реализует erosion.CommitObserver.
type Publisher struct {
	bus     eventbus.EventBus
	codec   *Codec
	source  string
	timeout time.Duration
	logger  *logging.Logger
}

// NewPublisher создаёт публикатор от имени source
func NewPublisher(bus eventbus.EventBus, codec *Codec, source string, logger *logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{
		bus:     bus,
		codec:   codec,
		source:  source,
		timeout: 2 * time.Second,
		logger:  logger,
	}
}

// OnCommit кодирует изменения тика и публикует их одним конвертом
func (p *Publisher) OnCommit(ctx context.Context, tick uint64, changes []erosion.Change) error {
	if len(changes) == 0 {
		return nil
	}

	payload, err := p.codec.Encode(NewBatch(tick, changes))
	if err != nil {
		return fmt.Errorf("encode tick %d: %w", tick, err)
	}

	env := eventbus.NewEnvelope(p.source, EventType, payload)
	env.Metadata["tick"] = strconv.FormatUint(tick, 10)
	env.Metadata["changes"] = strconv.Itoa(len(changes))

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.bus.Publish(ctx, env); err != nil {
		return fmt.Errorf("publish tick %d: %w", tick, err)
	}

	p.logger.Trace("Тик %d: опубликовано %d изменений (%d байт)", tick, len(changes), len(payload))
	return nil
}
