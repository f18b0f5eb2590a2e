package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reelsd/internal/models"
	"reelsd/internal/providers"
	"reelsd/internal/timer"
	"reelsd/internal/tracker"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const maxRequestBodySize = 1 << 16 // 64 KB

type ApiController struct {
	logger  providers.Logger
	service tracker.ServiceInterface
	timer   timer.ControllerInterface
	cache   providers.CacheProviderInterface
	clock   tracker.Clock
}

func NewApiController(logger providers.Logger, service tracker.ServiceInterface, timerController timer.ControllerInterface, cache providers.CacheProviderInterface, clock tracker.Clock) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		timer:   timerController,
		cache:   cache,
		clock:   clock,
	}
}

type stateResponse struct {
	State       models.TrackerState `json:"state"`
	Timer       timer.Status        `json:"timer"`
	Preferences models.Preferences  `json:"preferences"`
	Blocked     bool                `json:"blocked"`
}

type errorResponse struct {
	Error string               `json:"error"`
	Field string               `json:"field,omitempty"`
	State *models.TrackerState `json:"state,omitempty"`
}

type pinRequest struct {
	Pin string `json:"pin"`
}

type intervalRequest struct {
	Seconds int `json:"seconds"`
}

type visibilityRequest struct {
	Hidden bool `json:"hidden"`
}

type settingsRequest struct {
	Pin string `json:"pin"`
	tracker.Settings
}

type focusRequest struct {
	Pin string `json:"pin"`
	models.FocusWindow
}

type focusStatusResponse struct {
	Blocked bool               `json:"blocked"`
	Window  models.FocusWindow `json:"window"`
}

type lockSetupRequest struct {
	Pin     string `json:"pin"`
	Confirm string `json:"confirm"`
}

type lockResponse struct {
	Enabled bool `json:"enabled"`
}

type resetRequest struct {
	Pin        string `json:"pin"`
	KeepLimits bool   `json:"keepLimits"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	gson, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// decode reads a bounded JSON body. An empty body leaves dst untouched.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case tracker.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrLocked), errors.Is(err, tracker.ErrPinMismatch):
		return http.StatusForbidden
	case errors.Is(err, tracker.ErrBlocked):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (ac *ApiController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
		http.Error(w, "Internal Server Error", status)
		return
	}

	resp := errorResponse{Error: err.Error()}
	var ve *tracker.ValidationError
	if errors.As(err, &ve) {
		resp.Error = ve.Message
		resp.Field = ve.Field
	}
	if status == http.StatusConflict {
		state := ac.service.State()
		resp.State = &state
	}
	writeJSON(w, status, resp)
}

func (ac *ApiController) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	ac.logger.Debugf(providers.GetLogTypeByRequestType(r.Method), "Malformed %s body: %s", r.URL.Path, err)
	http.Error(w, "Bad Request", http.StatusBadRequest)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) stateResponse() stateResponse {
	return stateResponse{
		State:       ac.service.State(),
		Timer:       ac.timer.Status(),
		Preferences: ac.service.Preferences(),
		Blocked:     ac.service.IsBlocked(),
	}
}

func (ac *ApiController) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.stateResponse())
}

func (ac *ApiController) RecordReel(w http.ResponseWriter, r *http.Request) {
	state, err := ac.service.RecordReel(tracker.SourceManual)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (ac *ApiController) StartTracking(w http.ResponseWriter, r *http.Request) {
	if !ac.timer.Start() {
		ac.logger.Debugf(providers.TypePost, "Tracking already running")
	}
	writeJSON(w, http.StatusOK, ac.timer.Status())
}

func (ac *ApiController) StopTracking(w http.ResponseWriter, r *http.Request) {
	if !ac.timer.Stop() {
		ac.logger.Debugf(providers.TypePost, "Tracking already stopped")
	}
	writeJSON(w, http.StatusOK, ac.timer.Status())
}

func (ac *ApiController) SetInterval(w http.ResponseWriter, r *http.Request) {
	var req intervalRequest
	if err := decode(w, r, &req); err != nil {
		ac.badRequest(w, r, err)
		return
	}
	if err := ac.timer.SetInterval(req.Seconds); err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ac.timer.Status())
}

func (ac *ApiController) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := decode(w, r, &req); err != nil {
		ac.badRequest(w, r, err)
		return
	}
	if req.Hidden {
		ac.timer.Suspend()
	} else {
		ac.timer.Resume()
	}
	writeJSON(w, http.StatusOK, ac.timer.Status())
}

func (ac *ApiController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decode(w, r, &req); err != nil {
		ac.badRequest(w, r, err)
		return
	}
	if _, err := ac.service.UpdateSettings(req.Pin, req.Settings); err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ac.stateResponse())
}

func (ac *ApiController) SetFocus(w http.ResponseWriter, r *http.Request) {
	var req focusRequest
	if err := decode(w, r, &req); err != nil {
		ac.badRequest(w, r, err)
		return
	}
	state, err := ac.service.SetFocusWindow(req.Pin, req.FocusWindow)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, focusStatusResponse{Blocked: ac.service.IsBlocked(), Window: state.FocusWindow})
}

func (ac *ApiController) FocusStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, focusStatusResponse{
		Blocked: ac.service.IsBlocked(),
		Window:  ac.service.State().FocusWindow,
	})
}

func (ac *ApiController) SetupLock(w http.ResponseWriter, r *http.Request) {
	var req lockSetupRequest
	if err := decode(w, r, &req); err != nil {
		ac.badRequest(w, r, err)
		return
	}
	if err := ac.service.SetupPin(req.Pin, req.Confirm); err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lockResponse{Enabled: ac.service.State().ParentalLock.Enabled})
}

func (ac *ApiController) ToggleLock(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decode(w, r, &req); err != nil {
		ac.badRequest(w, r, err)
		return
	}
	enabled, err := ac.service.ToggleLock(req.Pin)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lockResponse{Enabled: enabled})
}

// ResetToday zeroes today's counters and stops auto-tracking.
func (ac *ApiController) ResetToday(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decode(w, r, &req); err != nil {
		ac.badRequest(w, r, err)
		return
	}
	if err := ac.service.Authorize(req.Pin); err != nil {
		ac.writeError(w, r, err)
		return
	}
	// stop first so no pulse lands in the zeroed day
	ac.timer.Stop()
	if _, err := ac.service.ResetToday(req.Pin); err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ac.stateResponse())
}

// ResetAll erases the stored data; the timer re-reads its erased preferences.
func (ac *ApiController) ResetAll(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decode(w, r, &req); err != nil {
		ac.badRequest(w, r, err)
		return
	}
	if _, err := ac.service.ResetAll(req.Pin, req.KeepLimits); err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.timer.Reload()
	writeJSON(w, http.StatusOK, ac.stateResponse())
}

func (ac *ApiController) GetReport(w http.ResponseWriter, r *http.Request) {
	days := tracker.ClampReportDays(cast.ToInt(r.URL.Query().Get("days")))
	key := fmt.Sprintf("report:%s:v%d:%d", tracker.DateKey(ac.clock.Now()), ac.service.Revision(), days)
	ac.serveFromCacheOrCompute(w, key, func() (any, error) {
		return ac.service.Report(days), nil
	})
}
