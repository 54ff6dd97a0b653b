package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	block  chan struct{}
	err    error
}

func (s *recordingSink) Deliver(_ context.Context, ev Event) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func TestDispatcher_DeliversQueuedEvents(t *testing.T) {
	sink := &recordingSink{}
	d := New(zap.NewNop().Sugar(), sink, 8, 2)
	d.Start(context.Background())

	d.Notify(context.Background(), 1, KindOfferReceived, map[string]any{"offer_id": int64(10)})
	d.Notify(context.Background(), 2, KindOfferAccepted, nil)

	require.NoError(t, d.Stop(context.Background()))

	events := sink.snapshot()
	require.Len(t, events, 2)
	ids := map[string]bool{}
	for _, ev := range events {
		require.NotEmpty(t, ev.ID.String())
		ids[ev.ID.String()] = true
	}
	require.Len(t, ids, 2)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	d := New(zap.NewNop().Sugar(), sink, 1, 1)
	d.Start(context.Background())

	for i := 0; i < 10; i++ {
		d.Notify(context.Background(), int64(i), KindOfferDeclined, nil)
	}
	close(sink.block)
	require.NoError(t, d.Stop(context.Background()))

	require.LessOrEqual(t, len(sink.snapshot()), 2)
}

func TestDispatcher_NotifyAfterStopIsNoop(t *testing.T) {
	sink := &recordingSink{err: errors.New("sink down")}
	d := New(zap.NewNop().Sugar(), sink, 4, 1)
	d.Start(context.Background())
	d.Notify(context.Background(), 1, KindOfferReceived, nil)
	require.NoError(t, d.Stop(context.Background()))
	require.NoError(t, d.Stop(context.Background()))

	d.Notify(context.Background(), 2, KindOfferReceived, nil)
	require.Len(t, sink.snapshot(), 1)
}

func TestDispatcher_StopHonoursContext(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	d := New(zap.NewNop().Sugar(), sink, 1, 1)
	d.Start(context.Background())
	d.Notify(context.Background(), 1, KindOfferReceived, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, d.Stop(ctx), context.DeadlineExceeded)
	close(sink.block)
}
