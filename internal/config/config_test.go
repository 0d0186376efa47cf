package config

import (
	"testing"
	"time"

	"github.com/UnendingLoop/DroneGallery/internal/model"
	"github.com/stretchr/testify/require"
	wbfconfig "github.com/wb-go/wbf/config"
)

var knownKeys = []string{
	"ALLOWED_ORIGINS", "APP_PORT", "BACKEND_ADDR", "BACKEND_TIMEOUT", "BUCKET_NAME",
	"FIXED_LOCATION_ID", "GIN_MODE", "KAFKA_BROKER", "KAFKA_TOPIC", "LOG_LEVEL",
	"MINIO_ENDPOINT", "MINIO_PASS", "MINIO_SECURE", "MINIO_USER", "PENDING_STORAGE",
	"SESSION_TTL", "UI_LANG", "UPLOAD_MODE",
}

// envSource - настоящий wbf-конфиг поверх переменных окружения теста
func envSource(t *testing.T, vals map[string]string) *wbfconfig.Config {
	t.Helper()
	for _, k := range knownKeys {
		t.Setenv(k, "")
	}
	for k, v := range vals {
		t.Setenv(k, v)
	}
	c := wbfconfig.New()
	c.EnableEnv("")
	return c
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(envSource(t, map[string]string{"BACKEND_ADDR": "192.168.0.141:8084"}))
	require.NoError(t, err)

	require.Equal(t, "192.168.0.141:8084", cfg.BackendAddr)
	require.Equal(t, time.Duration(0), cfg.BackendTimeout)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "ko", cfg.Lang)
	require.Equal(t, model.ModeExtended, cfg.UploadMode)
	require.Equal(t, model.LocationID(0), cfg.FixedLocation)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, StorageMemory, cfg.PendingStorage)
	require.Empty(t, cfg.KafkaBroker)
	require.Nil(t, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(envSource(t, map[string]string{
		"BACKEND_ADDR":      "http://drone:8084",
		"BACKEND_TIMEOUT":   "15s",
		"SESSION_TTL":       "0",
		"UPLOAD_MODE":       "basic",
		"FIXED_LOCATION_ID": "1",
		"UI_LANG":           "EN",
		"PENDING_STORAGE":   "minio",
		"ALLOWED_ORIGINS":   "http://a.local, http://b.local,",
	}))
	require.NoError(t, err)

	require.Equal(t, 15*time.Second, cfg.BackendTimeout)
	require.Equal(t, time.Duration(0), cfg.SessionTTL)
	require.Equal(t, model.ModeBasic, cfg.UploadMode)
	require.Equal(t, model.LocationID(1), cfg.FixedLocation)
	require.Equal(t, "en", cfg.Lang)
	require.Equal(t, StorageMinio, cfg.PendingStorage)
	require.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.AllowedOrigins)
}

func TestLoad_SpaceSeparatedOrigins(t *testing.T) {
	cfg, err := Load(envSource(t, map[string]string{
		"BACKEND_ADDR":    "h:1",
		"ALLOWED_ORIGINS": "http://a.local http://b.local",
	}))
	require.NoError(t, err)
	require.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.AllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  map[string]string
	}{
		{"missing backend", map[string]string{}},
		{"bad timeout", map[string]string{"BACKEND_ADDR": "h:1", "BACKEND_TIMEOUT": "soon"}},
		{"unreadable ttl", map[string]string{"BACKEND_ADDR": "h:1", "SESSION_TTL": "half an hour"}},
		{"negative ttl", map[string]string{"BACKEND_ADDR": "h:1", "SESSION_TTL": "-1m"}},
		{"bad mode", map[string]string{"BACKEND_ADDR": "h:1", "UPLOAD_MODE": "turbo"}},
		{"fixed location out of range", map[string]string{"BACKEND_ADDR": "h:1", "FIXED_LOCATION_ID": "9"}},
		{"fixed location not a number", map[string]string{"BACKEND_ADDR": "h:1", "FIXED_LOCATION_ID": "one"}},
		{"bad lang", map[string]string{"BACKEND_ADDR": "h:1", "UI_LANG": "de"}},
		{"bad storage", map[string]string{"BACKEND_ADDR": "h:1", "PENDING_STORAGE": "s3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(envSource(t, tt.src))
			require.Error(t, err)
		})
	}
}

func TestZeroDuration(t *testing.T) {
	for raw, want := range map[string]bool{
		"0":    true,
		"0s":   true,
		"00ms": true,
		"0.0h": true,
		"soon": false,
		"1s":   false,
		"m":    false,
	} {
		require.Equal(t, want, zeroDuration(raw), raw)
	}
}
