package internal

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"reelsd/internal/controllers"
	"reelsd/internal/event"
	"reelsd/internal/models"
	"reelsd/internal/storage"
	"reelsd/internal/structures"
	"reelsd/internal/testutil"
	"reelsd/internal/timer"
	"reelsd/internal/tracker"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouteTestControllers(t *testing.T) (*controllers.ApiController, *controllers.EventsController) {
	t.Helper()
	store, err := storage.NewBadgerStore(storage.WithInMemory(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	clock := testutil.NewMockClock(time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC))
	conf := &structures.Config{Tracking: structures.TrackingConfig{SecondsPerReel: 10, TickUnit: time.Second}}

	repo := storage.NewRepository(store, &testutil.MockCompressor{}, logger, metrics)
	bus := event.NewBus(logger)
	service := tracker.NewService(conf, logger, repo, bus, clock, metrics)
	tickers := &testutil.FakeTickerFactory{}
	ctrl := timer.NewController(conf, logger, service, repo, nil, bus, clock, metrics,
		func(d time.Duration) timer.Ticker { return tickers.New(d) })
	t.Cleanup(ctrl.Close)

	return controllers.NewApiController(logger, service, ctrl, testutil.NewMockCache(), clock),
		controllers.NewEventsController(logger, bus)
}

func TestInitRoutes_RegistersAllRoutes(t *testing.T) {
	router := InitRoutes(newRouteTestControllers(t))
	routes := router.GetRoutes()

	require.Len(t, routes, 15)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}
	for _, url := range []string{
		"/state", "/reel", "/tracking/start", "/tracking/stop", "/tracking/interval",
		"/visibility", "/settings", "/focus", "/focus/status", "/lock/setup",
		"/lock/toggle", "/reset/today", "/reset", "/report", "/events",
	} {
		assert.Contains(t, urls, url)
	}
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	router := InitRoutes(newRouteTestControllers(t))

	mux := http.NewServeMux()
	for _, r := range router.GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	// GET /state with POST should fail
	req := httptest.NewRequest(http.MethodPost, "/state", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// POST /reel with GET should fail
	req = httptest.NewRequest(http.MethodGet, "/reel", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/reel", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestInitRoutes_TrackingRoundTrip(t *testing.T) {
	router := InitRoutes(newRouteTestControllers(t))

	mux := http.NewServeMux()
	for _, r := range router.GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/tracking/start", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"running":true`)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/state", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), fmt.Sprintf(`"intervalSeconds":%d`, models.DefaultInterval))

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/tracking/stop", nil))
	assert.Contains(t, rr.Body.String(), `"running":false`)
}
