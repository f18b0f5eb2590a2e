package timer

import "time"

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type stdTicker struct {
	t *time.Ticker
}

func (s *stdTicker) C() <-chan time.Time { return s.t.C }
func (s *stdTicker) Stop()               { s.t.Stop() }

func NewTicker(d time.Duration) Ticker {
	return &stdTicker{t: time.NewTicker(d)}
}

// NewTickerFactory is the production factory.
func NewTickerFactory() TickerFactory {
	return NewTicker
}

// pulse calls fn on every tick until cancelled.
type pulse struct {
	ticker Ticker
	stop   chan struct{}
	done   chan struct{}
}

func startPulse(ticker Ticker, fn func(at time.Time)) *pulse {
	p := &pulse{
		ticker: ticker,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(p.done)
		for {
			select {
			case <-p.stop:
				return
			case at := <-ticker.C():
				fn(at)
			}
		}
	}()
	return p
}

// cancel stops future ticks and waits until a tick already being handled
// has finished.
func (p *pulse) cancel() {
	p.ticker.Stop()
	close(p.stop)
	<-p.done
}
