package history

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/matiasleandrokruk/vocable/internal/infra/eventbus"
)

// TopicUtteranceLogged carries one spoken utterance from the ingestion
// endpoint to the usage index.
const TopicUtteranceLogged = "utterance.logged"

// UtteranceEvent is the bus payload for a spoken utterance.
type UtteranceEvent struct {
	UserID   string
	Words    []string
	BoardID  string
	LoggedAt time.Time
}

// Consumer drains utterance events into the usage index.
type Consumer struct {
	index *Index
	bus   eventbus.EventBus
	log   *zap.Logger
}

func NewConsumer(index *Index, bus eventbus.EventBus, log *zap.Logger) *Consumer {
	return &Consumer{index: index, bus: bus, log: log}
}

// Start subscribes to the utterance topic and records events until ctx is
// done. Blocking; run it in its own goroutine.
func (c *Consumer) Start(ctx context.Context) {
	ch := c.bus.Subscribe(TopicUtteranceLogged)

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-ch:
			e, ok := evt.Payload.(UtteranceEvent)
			if !ok {
				continue
			}
			c.index.Record(e.UserID, e.Words)
			c.log.Debug("utterance recorded",
				zap.String("user_id", e.UserID),
				zap.Int("words", len(e.Words)),
			)
		}
	}
}
