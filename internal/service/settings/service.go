// Package settings keeps the process-wide notification preferences and
// writes them through to a key/value store.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

// Store keys.
const (
	KeyNotificationsEnabled = "notifications_enabled"
	KeySoundEnabled         = "sound_enabled"
)

type kvStore interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Upsert(ctx context.Context, key, value string) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service holds the current settings in memory. Reads never touch the store.
type Service struct {
	store kvStore
	tx    txManager
	log   *slog.Logger

	mu      sync.RWMutex
	current domain.Settings
}

// NewService creates a Service initialized with domain.DefaultSettings.
// Call Load to read persisted values.
func NewService(log *slog.Logger, store kvStore, tx txManager) *Service {
	return &Service{
		store:   store,
		tx:      tx,
		log:     log.With("service", "settings"),
		current: domain.DefaultSettings(),
	}
}

// Load reads persisted settings. Missing or malformed keys keep defaults.
func (s *Service) Load(ctx context.Context) error {
	values, err := s.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("settings.Load: %w", err)
	}

	loaded := domain.DefaultSettings()
	loaded.NotificationsEnabled = s.boolValue(values, KeyNotificationsEnabled, loaded.NotificationsEnabled)
	loaded.SoundEnabled = s.boolValue(values, KeySoundEnabled, loaded.SoundEnabled)

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()

	s.log.InfoContext(ctx, "settings loaded",
		slog.Bool("notifications_enabled", loaded.NotificationsEnabled),
		slog.Bool("sound_enabled", loaded.SoundEnabled),
	)
	return nil
}

func (s *Service) boolValue(values map[string]string, key string, def bool) bool {
	raw, ok := values[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		s.log.Warn("malformed setting ignored",
			slog.String("key", key),
			slog.String("value", raw),
		)
		return def
	}
	return v
}

// Get returns the current settings.
func (s *Service) Get() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// NotificationsEnabled reports whether notifications should be emitted.
func (s *Service) NotificationsEnabled() bool {
	return s.Get().NotificationsEnabled
}

// SoundEnabled reports whether clients should play notification sounds.
func (s *Service) SoundEnabled() bool {
	return s.Get().SoundEnabled
}

// Update applies a partial update, persists the changed keys in one
// transaction and returns the new settings.
func (s *Service) Update(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	if patch.NotificationsEnabled == nil && patch.SoundEnabled == nil {
		return domain.Settings{}, domain.NewValidationError("settings", "at least one field must be provided")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	changed := make(map[string]string, 2)
	if v := patch.NotificationsEnabled; v != nil {
		next.NotificationsEnabled = *v
		changed[KeyNotificationsEnabled] = strconv.FormatBool(*v)
	}
	if v := patch.SoundEnabled; v != nil {
		next.SoundEnabled = *v
		changed[KeySoundEnabled] = strconv.FormatBool(*v)
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, key := range []string{KeyNotificationsEnabled, KeySoundEnabled} {
			value, ok := changed[key]
			if !ok {
				continue
			}
			if err := s.store.Upsert(txCtx, key, value); err != nil {
				return fmt.Errorf("upsert %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Settings{}, fmt.Errorf("settings.Update: %w", err)
	}

	s.current = next
	s.log.InfoContext(ctx, "settings updated",
		slog.Bool("notifications_enabled", next.NotificationsEnabled),
		slog.Bool("sound_enabled", next.SoundEnabled),
	)
	return next, nil
}
