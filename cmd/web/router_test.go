package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appconfig "github.com/UnendingLoop/DroneGallery/internal/config"
	"github.com/UnendingLoop/DroneGallery/internal/imageapi"
	"github.com/UnendingLoop/DroneGallery/internal/imageapi/imageapitest"
	"github.com/UnendingLoop/DroneGallery/internal/model"
	"github.com/UnendingLoop/DroneGallery/internal/mwlogger"
	"github.com/UnendingLoop/DroneGallery/internal/service"
	"github.com/UnendingLoop/DroneGallery/internal/storage"
	"github.com/UnendingLoop/DroneGallery/internal/transport"
	"github.com/UnendingLoop/DroneGallery/internal/web"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, cfg *appconfig.AppConfig, seed ...model.Photo) http.Handler {
	t.Helper()
	backend := imageapitest.NewServer(seed...)
	t.Cleanup(backend.Close)

	client, err := imageapi.NewClient(backend.URL, time.Second)
	require.NoError(t, err)

	pending := storage.NewMemoryStorage()
	sessions := service.NewSessions(func(id string) *service.GalleryService {
		return service.NewGalleryService(client, pending, nil, service.Options{
			Messages:  model.MessagesFor("en"),
			SessionID: id,
		})
	}, time.Minute)
	t.Cleanup(func() { sessions.CloseAll(context.Background()) })

	tmpl, err := web.Templates()
	require.NoError(t, err)

	handlers := transport.NewGalleryHandler(sessionProvider{sessions: sessions}, client)
	return mwlogger.NewMWLogger(newRouter(cfg, tmpl, handlers))
}

func TestNewRouter(t *testing.T) {
	h := newTestServer(t, &appconfig.AppConfig{}, model.Photo{ID: 5, OriginalFilename: "hangar.jpg"})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), "pong")
	require.NotEmpty(t, w.Header().Get(mwlogger.RequestIDHeader))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), "hangar.jpg")
	require.Contains(t, w.Header().Get("Set-Cookie"), transport.SessionCookie)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	require.Equal(t, 200, w.Code)
	require.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/css"))
}

func TestNewRouter_CORS(t *testing.T) {
	h := newTestServer(t, &appconfig.AppConfig{AllowedOrigins: []string{"http://ops.local"}})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://ops.local")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)
	require.Equal(t, "http://ops.local", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.local")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}
