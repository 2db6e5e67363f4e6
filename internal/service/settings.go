package service

import (
	"sync"

	"safetychat/internal/models"
)

// SettingsStore holds the server-wide default safety settings. Per-request
// settings override these for a single message; updates through the settings
// endpoint change the defaults for everyone.
type SettingsStore struct {
	mu       sync.RWMutex
	settings models.Settings
}

func NewSettingsStore(defaults models.Settings) *SettingsStore {
	return &SettingsStore{settings: defaults}
}

func (s *SettingsStore) Current() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *SettingsStore) Update(settings models.Settings) models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if settings.SafetyLevel != "" {
		s.settings.SafetyLevel = settings.SafetyLevel
	}
	if settings.ResponseSpeed != "" {
		s.settings.ResponseSpeed = settings.ResponseSpeed
	}
	s.settings.Transparency = settings.Transparency
	s.settings.LearningMode = settings.LearningMode
	s.settings.DataLogging = settings.DataLogging
	return s.settings
}
