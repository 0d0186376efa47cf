package transport

import (
	"context"
	"io"

	"github.com/UnendingLoop/DroneGallery/internal/model"
	"github.com/gin-gonic/gin"
)

type mockGallery struct {
	loadFn         func(ctx context.Context) ([]model.Photo, error)
	selectFileFn   func(ctx context.Context, filename, ct string, size int64, r io.Reader) error
	setProcessFn   func(p model.ProcessID) error
	setLocationFn  func(l model.LocationID) error
	previewFn      func(ctx context.Context) (io.ReadCloser, string, error)
	uploadFn       func(ctx context.Context) (string, error)
	deleteFn       func(ctx context.Context, id int, confirm func(string) bool) error
	selectFn       func(id int) error
	overlayClickFn func(target model.OverlayTarget) error

	state model.GalleryState
}

func (m *mockGallery) Load(ctx context.Context) ([]model.Photo, error) {
	return m.loadFn(ctx)
}

func (m *mockGallery) SelectFile(ctx context.Context, filename, ct string, size int64, r io.Reader) error {
	return m.selectFileFn(ctx, filename, ct, size, r)
}

func (m *mockGallery) SetProcess(p model.ProcessID) error {
	return m.setProcessFn(p)
}

func (m *mockGallery) SetLocation(l model.LocationID) error {
	return m.setLocationFn(l)
}

func (m *mockGallery) Preview(ctx context.Context) (io.ReadCloser, string, error) {
	return m.previewFn(ctx)
}

func (m *mockGallery) Upload(ctx context.Context) (string, error) {
	return m.uploadFn(ctx)
}

func (m *mockGallery) Delete(ctx context.Context, id int, confirm func(string) bool) error {
	return m.deleteFn(ctx, id, confirm)
}

func (m *mockGallery) Select(id int) error {
	return m.selectFn(id)
}

func (m *mockGallery) OverlayClick(target model.OverlayTarget) error {
	return m.overlayClickFn(target)
}

func (m *mockGallery) Snapshot() model.GalleryState {
	return m.state
}

func (m *mockGallery) Messages() model.Messages {
	return model.MessagesFor("en")
}

// одна и та же галерея для любой сессии
type mockSessions struct {
	g     Gallery
	newID string
}

func (m *mockSessions) Acquire(ctx context.Context, id string) (Gallery, string) {
	if id == "" {
		return m.g, m.newID
	}
	return m.g, id
}

type mockFetcher struct {
	imageFn func(ctx context.Context, id int) (io.ReadCloser, string, error)
}

func (m *mockFetcher) Image(ctx context.Context, id int) (io.ReadCloser, string, error) {
	return m.imageFn(ctx, id)
}

func init() {
	gin.SetMode(gin.TestMode)
}
