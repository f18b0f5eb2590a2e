package scheduler

import (
	"errors"
	"path/filepath"
	"reelsd/internal/providers"
	"reelsd/internal/scheduler/interfaces"
	"reelsd/internal/storage"
	"reelsd/internal/structures"
	"reelsd/internal/timer"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

// ExportFileName is the snapshot written on shutdown when export.dir is set.
const ExportFileName = "reels-counter.json.zst"

// FocusRefresher re-evaluates the focus window on a wall-clock schedule.
type FocusRefresher interface {
	RefreshFocus() bool
}

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	focus       FocusRefresher
	store       storage.KVStore
	controller  timer.ControllerInterface
	coordinator timer.CoordinatorInterface
	prefs       timer.PreferenceStore
	fileManager *storage.FileManager
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	focusInterval := s.config.Tracking.FocusCheckInterval
	if focusInterval < time.Second {
		focusInterval = time.Minute
	}
	s.cron.AddFunc(gron.Every(focusInterval), func() {
		if s.focus.RefreshFocus() {
			s.logger.Debugf(providers.TypeTracker, "Focus window active")
		}
	})

	if gcInterval := s.config.Storage.GcInterval; gcInterval >= time.Second {
		s.cron.AddFunc(gron.Every(gcInterval), func() {
			s.opsMu.Lock()
			defer s.opsMu.Unlock()

			if err := s.store.RunGC(); err != nil {
				s.logger.Errorf(providers.TypeApp, "Error while collecting value log: %s", err)
				return
			}
			s.logger.Debugf(providers.TypeApp, "Value log collected")
		})
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore brings the timer back to its persisted state: the background
// coordinator first, then the foreground controller that connects to it.
func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if s.config.Background.Enabled {
		s.coordinator.Start(s.prefs.LoadTimerPreferences())
	}
	s.controller.Init()
	s.logger.Infof(providers.TypeApp, "Timer restored: %+v", s.controller.Status())
	return nil
}

// Persist releases the timer, writes the optional export and flushes the store.
func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.controller.Close()
	s.coordinator.Stop()

	var errs []error
	if dir := s.config.Export.Dir; dir != "" {
		path := filepath.Join(dir, ExportFileName)
		if err := s.fileManager.SaveToFile(path); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while exporting to %s: %s", path, err)
			errs = append(errs, err)
		}
	}

	s.logger.Infof(providers.TypeApp, "Flushing store...")
	if err := s.store.Sync(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while flushing store: %s", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func NewScheduler(config *structures.Config, logger providers.Logger, focus FocusRefresher, store storage.KVStore, controller timer.ControllerInterface, coordinator timer.CoordinatorInterface, prefs timer.PreferenceStore, fileManager *storage.FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		focus:       focus,
		store:       store,
		controller:  controller,
		coordinator: coordinator,
		prefs:       prefs,
		fileManager: fileManager,
	}
}
