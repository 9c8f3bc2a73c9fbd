package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"parceltrack/internal/core/cache"
	"parceltrack/internal/core/logger"

	"go.uber.org/zap"
)

const (
	dhlTranslationURL = "https://api-gw.dhlparcel.nl/translations/nl_NL.json"

	// The fresh key expires after a week, which drives the weekly refresh.
	// The backup key never expires and serves as the stale fallback when the
	// refresh fetch fails.
	dhlTranslationKey       = "dhl_translations_nl"
	dhlTranslationBackupKey = "dhl_translations_nl_backup"
	dhlTranslationTTL       = 7 * 24 * time.Hour
)

// DhlTranslationService resolves DHL status codes to Dutch descriptions using
// the carrier's own translation file. The file is cached and refreshed weekly;
// a failed refresh silently falls back to the last known copy and never
// blocks a fetch.
type DhlTranslationService struct {
	cache  cache.Cache
	client *http.Client
	logger *zap.Logger
}

// NewDhlTranslationService creates a translation service on top of the given
// cache and HTTP client.
func NewDhlTranslationService(c cache.Cache, client *http.Client) *DhlTranslationService {
	return &DhlTranslationService{
		cache:  c,
		client: client,
		logger: logger.Named("dhl_translations"),
	}
}

// Translate resolves a key within a dotted section of the translation file,
// e.g. Translate(ctx, "events.status", "DELIVERED"). Unknown keys pass
// through unchanged.
func (s *DhlTranslationService) Translate(ctx context.Context, section, key string) string {
	if key == "DELIVERED_AT_PARCELSHOP" {
		return "Bezorgd bij ServicePoint"
	}

	translations := s.getTranslations(ctx)

	value := interface{}(translations)
	for _, part := range strings.Split(section, ".") {
		m, ok := value.(map[string]interface{})
		if !ok {
			return key
		}
		value, ok = m[part]
		if !ok {
			return key
		}
	}

	m, ok := value.(map[string]interface{})
	if !ok {
		return key
	}
	if translated, ok := m[key].(string); ok {
		return translated
	}
	return key
}

// getTranslations returns the parsed translation table, refreshing it when
// the cached copy is stale or absent. All failure modes degrade to the stale
// copy or an empty table.
func (s *DhlTranslationService) getTranslations(ctx context.Context) map[string]interface{} {
	data, err := s.cache.Get(ctx, dhlTranslationKey)
	if err != nil {
		s.logger.Info("Fetching new DHL translation file")
		data = s.refresh(ctx)
	}

	if data == nil {
		if stale, err := s.cache.Get(ctx, dhlTranslationBackupKey); err == nil {
			s.logger.Warn("Using stale DHL translation file")
			data = stale
		}
	}

	if data == nil {
		return map[string]interface{}{}
	}

	var translations map[string]interface{}
	if err := json.Unmarshal(data, &translations); err != nil {
		s.logger.Error("Failed to parse DHL translation file", zap.Error(err))
		return map[string]interface{}{}
	}
	return translations
}

// refresh downloads the translation file and stores it under both cache keys.
// Returns nil on any failure; callers fall back to stale data.
func (s *DhlTranslationService) refresh(ctx context.Context) []byte {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dhlTranslationURL, nil)
	if err != nil {
		s.logger.Error("Failed to build DHL translation request", zap.Error(err))
		return nil
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("Failed to fetch DHL translation file", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("DHL translation endpoint returned unexpected status",
			zap.Int("status_code", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Error("Failed to read DHL translation file", zap.Error(err))
		return nil
	}

	if err := s.cache.Set(ctx, dhlTranslationKey, body, dhlTranslationTTL); err != nil {
		s.logger.Warn("Failed to cache DHL translation file", zap.Error(err))
	}
	if err := s.cache.Set(ctx, dhlTranslationBackupKey, body, 0); err != nil {
		s.logger.Warn(fmt.Sprintf("Failed to store DHL translation backup: %v", err))
	}

	s.logger.Info("Successfully fetched and saved DHL translation file")
	return body
}
