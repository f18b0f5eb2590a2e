package timer

import (
	"reelsd/internal/models"
	"reelsd/internal/providers"
	"reelsd/internal/structures"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

const DefaultQueueSize = 16

// Port is one foreground connection to the coordinator.
type Port struct {
	ID string
	C  <-chan models.Message
	ch chan models.Message
}

// BackgroundLink is what the foreground sees of the coordinator.
type BackgroundLink interface {
	Post(msg models.Message) bool
	Connect() *Port
	Disconnect(p *Port)
}

type CoordinatorInterface interface {
	BackgroundLink
	Start(prefs models.TimerPreferences)
	Stop()
	Dropped() uint64
}

// Coordinator keeps its own pulse that mirrors the foreground timer and
// broadcasts BACKGROUND_UPDATE to connected ports. Delivery is best effort:
// a full port or an empty port list loses the update.
type Coordinator struct {
	mu        sync.Mutex
	ports     map[string]*Port
	inbox     chan models.Message
	queueSize int
	unit      time.Duration
	newTicker TickerFactory
	started   atomic.Bool
	dropped   atomic.Uint64
	stop      chan struct{}
	done      chan struct{}

	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewCoordinator(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, newTicker TickerFactory) *Coordinator {
	size := conf.Background.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	unit := conf.Tracking.TickUnit
	if unit <= 0 {
		unit = time.Second
	}
	return &Coordinator{
		ports:     make(map[string]*Port),
		inbox:     make(chan models.Message, size),
		queueSize: size,
		unit:      unit,
		newTicker: newTicker,
		logger:    logger,
		metrics:   metrics,
	}
}

// NewBackgroundLink returns nil when the background context is disabled so the
// foreground falls back to local timing only.
func NewBackgroundLink(conf *structures.Config, coordinator *Coordinator) BackgroundLink {
	if !conf.Background.Enabled {
		return nil
	}
	return coordinator
}

// Start begins mirroring prefs. It is a no-op while already running.
func (c *Coordinator) Start(prefs models.TimerPreferences) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.run(prefs, c.stop, c.done)
	c.logger.Infof(providers.TypeTimer, "Background coordinator started (tracking=%t, interval=%ds)", prefs.TrackingEnabled, prefs.IntervalSeconds)
}

func (c *Coordinator) Stop() {
	if !c.started.CompareAndSwap(true, false) {
		return
	}
	close(c.stop)
	<-c.done

	c.mu.Lock()
	for id, p := range c.ports {
		close(p.ch)
		delete(c.ports, id)
	}
	c.mu.Unlock()
	c.logger.Infof(providers.TypeTimer, "Background coordinator stopped, %d updates dropped", c.dropped.Load())
}

// Post hands a message to the coordinator without waiting. It reports false
// when the coordinator is not running or its inbox is full.
func (c *Coordinator) Post(msg models.Message) bool {
	if !c.started.Load() {
		return false
	}
	select {
	case c.inbox <- msg:
		return true
	default:
		c.logger.Warnf(providers.TypeTimer, "Background inbox full, dropping %s", msg.Type)
		return false
	}
}

func (c *Coordinator) Connect() *Port {
	ch := make(chan models.Message, c.queueSize)
	p := &Port{ID: uuid.NewString(), C: ch, ch: ch}
	c.mu.Lock()
	c.ports[p.ID] = p
	c.mu.Unlock()
	c.logger.Debugf(providers.TypeTimer, "Port %s connected", p.ID)
	return p
}

// Disconnect closes the port's channel. Unknown or already closed ports are ignored.
func (c *Coordinator) Disconnect(p *Port) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.ports[p.ID]; ok {
		delete(c.ports, p.ID)
		close(p.ch)
	}
}

func (c *Coordinator) Dropped() uint64 {
	return c.dropped.Load()
}

func (c *Coordinator) run(prefs models.TimerPreferences, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var ticker Ticker
	var ticks <-chan time.Time
	disarm := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
			ticks = nil
		}
	}
	arm := func(interval int) {
		disarm()
		ticker = c.newTicker(time.Duration(models.ClampInterval(interval)) * c.unit)
		ticks = ticker.C()
	}

	if prefs.TrackingEnabled {
		arm(prefs.IntervalSeconds)
	}
	for {
		select {
		case <-stop:
			disarm()
			return
		case msg := <-c.inbox:
			if msg.Type != models.MessageUpdateCounter {
				continue
			}
			if msg.Tracking {
				if msg.Interval > 0 {
					prefs.IntervalSeconds = msg.Interval
				}
				arm(prefs.IntervalSeconds)
			} else {
				disarm()
			}
			prefs.TrackingEnabled = msg.Tracking
		case at := <-ticks:
			c.broadcast(backgroundUpdate(at))
		}
	}
}

func (c *Coordinator) broadcast(msg models.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.ports) == 0 {
		c.drop("no foreground connected")
		return
	}
	for _, p := range c.ports {
		select {
		case p.ch <- msg:
		default:
			c.drop("port " + p.ID + " is full")
		}
	}
}

func (c *Coordinator) drop(reason string) {
	c.dropped.Inc()
	c.metrics.IncBackgroundDropped()
	c.logger.Debugf(providers.TypeTimer, "Background update dropped: %s", reason)
}
