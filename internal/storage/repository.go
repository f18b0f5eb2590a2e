package storage

import (
	"errors"
	"fmt"
	"reelsd/internal/models"
	"reelsd/internal/providers"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// KeyPrefix namespaces every key the tracker owns.
const KeyPrefix = "reels-counter:"

const (
	KeyState      = KeyPrefix + "data"
	KeyTracking   = KeyPrefix + "tracking"
	KeyInterval   = KeyPrefix + "interval"
	KeyPin        = KeyPrefix + "pin"
	KeyAlerts     = KeyPrefix + "alerts"
	KeyVibration  = KeyPrefix + "vibration"
	KeyStreakGoal = KeyPrefix + "streak-goal"
)

type RepositoryInterface interface {
	LoadState(now time.Time) (models.TrackerState, bool)
	SaveState(state models.TrackerState) error
	LoadTimerPreferences() models.TimerPreferences
	SaveTracking(enabled bool) error
	SaveInterval(seconds int) error
	LoadPreferences() models.Preferences
	SavePreferences(prefs models.Preferences) error
	PinHash() ([]byte, error)
	SavePinHash(hash []byte) error
	EraseAll() error
}

type Repository struct {
	store      KVStore
	compressor CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewRepository(store KVStore, compressor CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) RepositoryInterface {
	return &Repository{
		store:      store,
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
	}
}

// LoadState returns the stored record with defaults filled in. A missing or
// unreadable record yields a fresh default state and false.
func (r *Repository) LoadState(now time.Time) (models.TrackerState, bool) {
	raw, err := r.store.Get(KeyState)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			r.logger.Errorf(providers.TypeTracker, "Unable to read tracker state, using defaults: %s", err)
		}
		return models.NewTrackerState(now), false
	}

	state, err := r.decodeState(raw)
	if err != nil {
		r.logger.Warnf(providers.TypeTracker, "Corrupt tracker state replaced with defaults: %s", err)
		return models.NewTrackerState(now), false
	}
	if state.Normalize(now) {
		r.logger.Infof(providers.TypeTracker, "Filled missing tracker state fields with defaults")
	}
	return state, true
}

func (r *Repository) decodeState(raw []byte) (models.TrackerState, error) {
	var state models.TrackerState
	data, err := r.compressor.Decompress(raw)
	if err != nil {
		return state, fmt.Errorf("decompress: %w", err)
	}
	if err = json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("decode: %w", err)
	}
	return state, nil
}

func (r *Repository) SaveState(state models.TrackerState) error {
	start := time.Now()
	defer func() {
		r.metrics.ObservePersistenceDuration(time.Since(start))
	}()

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	compressed, err := r.compressor.Compress(data)
	if err != nil {
		return err
	}
	return r.store.Set(KeyState, compressed)
}

func (r *Repository) LoadTimerPreferences() models.TimerPreferences {
	prefs := models.DefaultTimerPreferences()
	prefs.TrackingEnabled = r.boolScalar(KeyTracking, prefs.TrackingEnabled)
	prefs.IntervalSeconds = models.ClampInterval(r.intScalar(KeyInterval, prefs.IntervalSeconds))
	return prefs
}

func (r *Repository) SaveTracking(enabled bool) error {
	return r.store.Set(KeyTracking, []byte(strconv.FormatBool(enabled)))
}

func (r *Repository) SaveInterval(seconds int) error {
	return r.store.Set(KeyInterval, []byte(strconv.Itoa(seconds)))
}

func (r *Repository) LoadPreferences() models.Preferences {
	prefs := models.DefaultPreferences()
	prefs.AlertsEnabled = r.boolScalar(KeyAlerts, prefs.AlertsEnabled)
	prefs.VibrationEnabled = r.boolScalar(KeyVibration, prefs.VibrationEnabled)
	prefs.StreakGoal = r.intScalar(KeyStreakGoal, prefs.StreakGoal)
	return prefs
}

func (r *Repository) SavePreferences(prefs models.Preferences) error {
	if err := r.store.Set(KeyAlerts, []byte(strconv.FormatBool(prefs.AlertsEnabled))); err != nil {
		return err
	}
	if err := r.store.Set(KeyVibration, []byte(strconv.FormatBool(prefs.VibrationEnabled))); err != nil {
		return err
	}
	return r.store.Set(KeyStreakGoal, []byte(strconv.Itoa(prefs.StreakGoal)))
}

// PinHash returns ErrKeyNotFound until a PIN has been set up.
func (r *Repository) PinHash() ([]byte, error) {
	return r.store.Get(KeyPin)
}

func (r *Repository) SavePinHash(hash []byte) error {
	return r.store.Set(KeyPin, hash)
}

// EraseAll drops every namespaced key. Calling it on an empty store is a no-op.
func (r *Repository) EraseAll() error {
	if err := r.store.DeletePrefix(KeyPrefix); err != nil {
		return fmt.Errorf("erase %s*: %w", KeyPrefix, err)
	}
	r.logger.Warnf(providers.TypeTracker, "All tracker data erased")
	return nil
}

func (r *Repository) boolScalar(key string, def bool) bool {
	raw, ok := r.scalar(key)
	if !ok {
		return def
	}
	val, err := cast.ToBoolE(raw)
	if err != nil {
		r.logger.Warnf(providers.TypeTracker, "Ignoring malformed %s=%q", key, raw)
		return def
	}
	return val
}

func (r *Repository) intScalar(key string, def int) int {
	raw, ok := r.scalar(key)
	if !ok {
		return def
	}
	val, err := cast.ToIntE(raw)
	if err != nil {
		r.logger.Warnf(providers.TypeTracker, "Ignoring malformed %s=%q", key, raw)
		return def
	}
	return val
}

func (r *Repository) scalar(key string) (string, bool) {
	raw, err := r.store.Get(key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			r.logger.Errorf(providers.TypeTracker, "Unable to read %s: %s", key, err)
		}
		return "", false
	}
	return string(raw), true
}
