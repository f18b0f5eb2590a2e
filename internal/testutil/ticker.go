package testutil

import (
	"sync"
	"time"
)

// FakeTicker is a manually driven ticker. Tick delivers one pulse and
// reports false when the ticker is stopped or nobody received it in time.
type FakeTicker struct {
	mu       sync.Mutex
	Interval time.Duration
	ch       chan time.Time
	stopped  bool
}

func (f *FakeTicker) C() <-chan time.Time { return f.ch }

func (f *FakeTicker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *FakeTicker) Stopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

func (f *FakeTicker) Tick(at time.Time) bool {
	if f.Stopped() {
		return false
	}
	select {
	case f.ch <- at:
		return true
	case <-time.After(time.Second):
		return false
	}
}

// FakeTickerFactory hands out FakeTickers and keeps every one it created.
type FakeTickerFactory struct {
	mu      sync.Mutex
	Tickers []*FakeTicker
}

func (f *FakeTickerFactory) New(d time.Duration) *FakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &FakeTicker{Interval: d, ch: make(chan time.Time)}
	f.Tickers = append(f.Tickers, t)
	return t
}

// Active returns the tickers that have not been stopped.
func (f *FakeTickerFactory) Active() []*FakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*FakeTicker
	for _, t := range f.Tickers {
		if !t.Stopped() {
			out = append(out, t)
		}
	}
	return out
}

func (f *FakeTickerFactory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Tickers)
}

func (f *FakeTickerFactory) Last() *FakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Tickers) == 0 {
		return nil
	}
	return f.Tickers[len(f.Tickers)-1]
}
