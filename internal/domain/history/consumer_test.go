package history

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/matiasleandrokruk/vocable/internal/infra/eventbus"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestConsumer_RecordsPublishedUtterances(t *testing.T) {
	idx := NewIndex(zap.NewNop())
	bus := eventbus.New()
	c := NewConsumer(idx, bus, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go c.Start(ctx)
	// Give the subscriber time to attach before the first publish.
	// Without this the publish can race subscribe and be dropped.
	time.Sleep(50 * time.Millisecond)

	bus.Publish(TopicUtteranceLogged, UtteranceEvent{
		UserID:   "u1",
		Words:    []string{"i", "want", "cookie"},
		LoggedAt: time.Now().UTC(),
	})

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if got := idx.Continuations("u1", "i", 1); len(got) == 1 && got[0].Word == "want" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("utterance never reached the index; continuations = %v", idx.Continuations("u1", "i", 5))
}

func TestConsumer_IgnoresForeignPayloads(t *testing.T) {
	idx := NewIndex(zap.NewNop())
	bus := eventbus.New()
	c := NewConsumer(idx, bus, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go c.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	bus.Publish(TopicUtteranceLogged, "not an utterance event")
	bus.Publish(TopicUtteranceLogged, UtteranceEvent{UserID: "u1", Words: []string{"hello"}})

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if got := idx.TopWords("u1", 1); len(got) == 1 && got[0].Word == "hello" {
			return // bad payload skipped, good one recorded
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("valid event after a foreign payload was never recorded")
}

func TestConsumer_StopsOnContextCancel(t *testing.T) {
	idx := NewIndex(zap.NewNop())
	bus := eventbus.New()
	c := NewConsumer(idx, bus, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after context cancel")
	}
}
