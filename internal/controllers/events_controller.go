package controllers

import (
	"fmt"
	"net/http"
	"reelsd/internal/event"
	"reelsd/internal/providers"
	"time"

	json "github.com/goccy/go-json"
)

const keepAliveInterval = 15 * time.Second

// EventsController streams notices to the UI as server-sent events.
type EventsController struct {
	logger providers.Logger
	bus    event.BusInterface
}

func NewEventsController(logger providers.Logger, bus event.BusInterface) *EventsController {
	return &EventsController{
		logger: logger,
		bus:    bus,
	}
}

func (ec *EventsController) Stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// the stream outlives the server write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	id, notices := ec.bus.Subscribe()
	defer ec.bus.Unsubscribe(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		ec.logger.Errorf(providers.TypeGet, "Event stream not supported: %s", err)
		return
	}
	ec.logger.Debugf(providers.TypeGet, "Event subscriber %d connected", id)

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			ec.logger.Debugf(providers.TypeGet, "Event subscriber %d disconnected", id)
			return
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case n, ok := <-notices:
			if !ok {
				return
			}
			data, err := json.Marshal(n)
			if err != nil {
				ec.logger.Errorf(providers.TypeGet, "Unable to encode notice: %s", err)
				continue
			}
			if _, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", n.ID, n.Kind, data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
