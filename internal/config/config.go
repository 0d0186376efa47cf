// Package config turns raw env/.env values into typed application settings
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/UnendingLoop/DroneGallery/internal/model"
)

// Source is satisfied by *wbf/config.Config
type Source interface {
	GetString(key string) string
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
}

type MinioConfig struct {
	Endpoint string
	User     string
	Pass     string
	Bucket   string
	Secure   bool
}

type AppConfig struct {
	BackendAddr    string
	BackendTimeout time.Duration // 0 - без таймаута

	Port     string
	GinMode  string
	LogLevel string
	Lang     string

	UploadMode    model.UploadMode
	FixedLocation model.LocationID // 0 - отправляем выбранное пользователем значение

	SessionTTL     time.Duration
	PendingStorage string
	Minio          MinioConfig

	KafkaBroker string
	KafkaTopic  string

	AllowedOrigins []string
}

const (
	StorageMemory = "memory"
	StorageMinio  = "minio"
)

var ErrMissingBackend = errors.New("BACKEND_ADDR is not set")

func Load(src Source) (*AppConfig, error) {
	cfg := &AppConfig{
		BackendAddr:    strings.TrimSpace(src.GetString("BACKEND_ADDR")),
		Port:           getString(src, "APP_PORT", "8080"),
		GinMode:        getString(src, "GIN_MODE", "release"),
		LogLevel:       getString(src, "LOG_LEVEL", "info"),
		Lang:           strings.ToLower(getString(src, "UI_LANG", "ko")),
		PendingStorage: strings.ToLower(getString(src, "PENDING_STORAGE", StorageMemory)),
		Minio: MinioConfig{
			Endpoint: getString(src, "MINIO_ENDPOINT", "minio:9000"),
			User:     src.GetString("MINIO_USER"),
			Pass:     src.GetString("MINIO_PASS"),
			Bucket:   getString(src, "BUCKET_NAME", "pending-uploads"),
			Secure:   getString(src, "MINIO_SECURE", "false") == "true",
		},
		KafkaBroker:    src.GetString("KAFKA_BROKER"),
		KafkaTopic:     getString(src, "KAFKA_TOPIC", "gallery-events"),
		AllowedOrigins: getSlice(src, "ALLOWED_ORIGINS"),
	}

	if cfg.BackendAddr == "" {
		return nil, ErrMissingBackend
	}

	var err error
	if cfg.BackendTimeout, err = getDuration(src, "BACKEND_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration(src, "SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}

	if cfg.UploadMode, err = model.ParseUploadMode(src.GetString("UPLOAD_MODE")); err != nil {
		return nil, err
	}

	fixed, err := getInt(src, "FIXED_LOCATION_ID", 0)
	if err != nil {
		return nil, err
	}
	cfg.FixedLocation = model.LocationID(fixed)
	if cfg.FixedLocation != 0 && !cfg.FixedLocation.Valid() {
		return nil, fmt.Errorf("FIXED_LOCATION_ID: %w", model.ErrInvalidLocation)
	}

	switch cfg.Lang {
	case "ko", "en":
	default:
		return nil, fmt.Errorf("UI_LANG: unsupported language %q", cfg.Lang)
	}

	switch cfg.PendingStorage {
	case StorageMemory, StorageMinio:
	default:
		return nil, fmt.Errorf("PENDING_STORAGE: unsupported backend %q", cfg.PendingStorage)
	}

	return cfg, nil
}

func getString(src Source, key, fallback string) string {
	if v := strings.TrimSpace(src.GetString(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(src Source, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(src.GetString(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func getDuration(src Source, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(src.GetString(key))
	if raw == "" {
		return fallback, nil
	}
	d := src.GetDuration(key)
	// нечитаемое значение приходит как 0
	if d == 0 && !zeroDuration(raw) {
		return 0, fmt.Errorf("parse %s: invalid duration %q", key, raw)
	}
	if d < 0 {
		return 0, fmt.Errorf("parse %s: negative duration %v", key, d)
	}
	return d, nil
}

// zeroDuration reports whether raw spells a zero duration, e.g. "0" or "0s"
func zeroDuration(raw string) bool {
	if !strings.HasPrefix(raw, "0") {
		return false
	}
	return strings.Trim(strings.TrimLeft(raw, "0."), "nsuµmh") == ""
}

// getSlice accepts both whitespace and comma separated lists
func getSlice(src Source, key string) []string {
	var res []string
	for _, item := range src.GetStringSlice(key) {
		for _, p := range strings.Split(item, ",") {
			if p = strings.TrimSpace(p); p != "" {
				res = append(res, p)
			}
		}
	}
	return res
}
