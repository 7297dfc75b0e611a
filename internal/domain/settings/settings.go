// Package settings keeps the user's app preferences for the process
// lifetime.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/campnav/internal/domain/model"
	"github.com/okian/campnav/pkg/logger"
	"github.com/okian/campnav/pkg/metrics"
)

// ErrInvalid is returned for settings with unknown enumeration values.
var ErrInvalid = errors.New("invalid settings")

// Store holds the current settings.
type Store struct {
	log logger.Logger

	mu  sync.RWMutex
	cur model.Settings
}

// NewStore creates a store with the default settings.
func NewStore(log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{log: log, cur: model.DefaultSettings()}
}

// Get returns the current settings.
func (s *Store) Get() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Save replaces the settings after validating them.
func (s *Store) Save(ctx context.Context, next model.Settings) (model.Settings, error) {
	return s.Update(ctx, func(cur *model.Settings) error {
		*cur = next
		return nil
	})
}

// Update applies change to a copy of the current settings and stores the
// result if it validates. Read, change and store happen under one lock, so
// concurrent partial updates do not drop each other's fields. An error from
// change leaves the settings as they were.
func (s *Store) Update(ctx context.Context, change func(*model.Settings) error) (model.Settings, error) {
	s.mu.Lock()
	next := s.cur
	err := change(&next)
	if err == nil {
		err = Validate(next)
	}
	if err == nil {
		s.cur = next
	}
	s.mu.Unlock()
	if err != nil {
		return model.Settings{}, err
	}

	metrics.RecordSettingsSave()
	s.log.Info(ctx, "settings saved",
		logger.String("route", string(next.RoutePreference)),
		logger.String("theme", string(next.Theme)),
		logger.Bool("accessibility_routes", next.AccessibilityRoutes),
		logger.Bool("ar", next.EnableAR),
	)
	return next, nil
}

// Validate checks the enumerations.
func Validate(s model.Settings) error {
	switch s.RoutePreference {
	case model.RouteIndoor, model.RouteOutdoor, model.RouteBoth:
	default:
		return fmt.Errorf("%w: route preference %q", ErrInvalid, s.RoutePreference)
	}
	switch s.Theme {
	case model.ThemeDefault, model.ThemeRITColors, model.ThemeDark, model.ThemeLight:
	default:
		return fmt.Errorf("%w: theme %q", ErrInvalid, s.Theme)
	}
	return nil
}
