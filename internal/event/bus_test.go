package event

import (
	"reelsd/internal/models"
	"reelsd/internal/testutil"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notice(kind models.NoticeKind) models.Notice {
	return models.NewNotice(kind, models.SeverityNormal, string(kind), "", time.Now())
}

func TestBus_DeliversToAllSubscribers(t *testing.T) {
	bus := NewBus(&testutil.MockLogger{})
	_, a := bus.Subscribe()
	_, b := bus.Subscribe()

	bus.Notify(notice(models.NoticeDailyReset))

	assert.Equal(t, models.NoticeDailyReset, (<-a).Kind)
	assert.Equal(t, models.NoticeDailyReset, (<-b).Kind)
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus(&testutil.MockLogger{})
	id, ch := bus.Subscribe()

	bus.Unsubscribe(id)
	bus.Unsubscribe(id)

	_, ok := <-ch
	assert.False(t, ok)

	assert.NotPanics(t, func() { bus.Notify(notice(models.NoticeReelsLimit)) })
}

func TestBus_FullSubscriberDropsInsteadOfBlocking(t *testing.T) {
	logger := &testutil.MockLogger{}
	bus := NewBus(logger)
	_, ch := bus.Subscribe()

	for i := 0; i < SubscriberQueueSize+5; i++ {
		bus.Notify(notice(models.NoticeTrackingStarted))
	}

	assert.Len(t, ch, SubscriberQueueSize)
	assert.Equal(t, 5, logger.Count("warn"))
}

func TestBus_SubscribeFunc(t *testing.T) {
	bus := NewBus(&testutil.MockLogger{})

	var mu sync.Mutex
	var got []models.NoticeKind
	done := make(chan struct{})
	bus.SubscribeFunc(func(n models.Notice) {
		mu.Lock()
		got = append(got, n.Kind)
		count := len(got)
		mu.Unlock()
		if count == 2 {
			close(done)
		}
	})

	bus.Notify(notice(models.NoticeTrackingStarted))
	bus.Notify(notice(models.NoticeTrackingStopped))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler was not called")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []models.NoticeKind{models.NoticeTrackingStarted, models.NoticeTrackingStopped}, got)
}

func TestBus_StopClosesEverything(t *testing.T) {
	bus := NewBus(&testutil.MockLogger{})
	_, a := bus.Subscribe()
	_, b := bus.Subscribe()

	bus.Stop()

	_, ok := <-a
	assert.False(t, ok)
	_, ok = <-b
	assert.False(t, ok)

	_, c := bus.Subscribe()
	bus.Notify(notice(models.NoticeDataReset))
	require.Len(t, c, 1)
}
