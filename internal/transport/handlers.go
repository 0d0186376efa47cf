// Package transport provides the HTTP handlers of the gallery web UI
package transport

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/UnendingLoop/DroneGallery/internal/model"
	"github.com/UnendingLoop/DroneGallery/internal/mwlogger"
	"github.com/wb-go/wbf/ginext"
)

const SessionCookie = "gallery_session"

// Gallery - контракт хранилища состояния одной галереи
type Gallery interface {
	Load(ctx context.Context) ([]model.Photo, error)
	SelectFile(ctx context.Context, filename, contentType string, size int64, r io.Reader) error
	SetProcess(p model.ProcessID) error
	SetLocation(l model.LocationID) error
	Preview(ctx context.Context) (io.ReadCloser, string, error)
	Upload(ctx context.Context) (string, error)
	Delete(ctx context.Context, id int, confirm func(prompt string) bool) error
	Select(id int) error
	OverlayClick(target model.OverlayTarget) error
	Snapshot() model.GalleryState
	Messages() model.Messages
}

// SessionProvider returns the gallery of a browser session, creating one if needed
type SessionProvider interface {
	Acquire(ctx context.Context, id string) (Gallery, string)
}

type ImageFetcher interface {
	Image(ctx context.Context, id int) (io.ReadCloser, string, error)
}

type GalleryHandler struct {
	sessions SessionProvider
	images   ImageFetcher
}

func NewGalleryHandler(sp SessionProvider, img ImageFetcher) *GalleryHandler {
	return &GalleryHandler{
		sessions: sp,
		images:   img,
	}
}

func (h GalleryHandler) SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

func (h GalleryHandler) Index(ctx *ginext.Context) {
	g := h.gallery(ctx)
	h.render(ctx, http.StatusOK, g, "")
}

func (h GalleryHandler) State(ctx *ginext.Context) {
	g := h.gallery(ctx)
	ctx.JSON(http.StatusOK, g.Snapshot())
}

func (h GalleryHandler) Reload(ctx *ginext.Context) {
	g := h.gallery(ctx)
	if _, err := g.Load(ctx.Request.Context()); err != nil {
		h.fail(ctx, g, err)
		return
	}
	backToGallery(ctx)
}

// SelectFile stages the chosen file; extended forms may carry the fields too
func (h GalleryHandler) SelectFile(ctx *ginext.Context) {
	g := h.gallery(ctx)

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		h.fail(ctx, g, model.ErrNoFileSelected)
		return
	}
	defer closeFileFlow(file)

	ctype := header.Header.Get("Content-Type")
	if err := g.SelectFile(ctx.Request.Context(), header.Filename, ctype, header.Size, file); err != nil {
		h.fail(ctx, g, err)
		return
	}
	if err := applyFields(ctx, g); err != nil {
		h.fail(ctx, g, err)
		return
	}
	backToGallery(ctx)
}

func (h GalleryHandler) SetFields(ctx *ginext.Context) {
	g := h.gallery(ctx)
	if err := applyFields(ctx, g); err != nil {
		h.fail(ctx, g, err)
		return
	}
	backToGallery(ctx)
}

func (h GalleryHandler) Upload(ctx *ginext.Context) {
	g := h.gallery(ctx)
	if _, err := g.Upload(ctx.Request.Context()); err != nil {
		h.fail(ctx, g, err)
		return
	}
	backToGallery(ctx)
}

func (h GalleryHandler) Select(ctx *ginext.Context) {
	g := h.gallery(ctx)
	id, err := model.ParsePhotoID(ctx.Param("id"))
	if err != nil {
		h.fail(ctx, g, err)
		return
	}
	if err := g.Select(id); err != nil {
		h.fail(ctx, g, err)
		return
	}
	backToGallery(ctx)
}

func (h GalleryHandler) OverlayClick(ctx *ginext.Context) {
	g := h.gallery(ctx)
	target := model.OverlayTarget(ctx.PostForm("target"))
	if err := g.OverlayClick(target); err != nil {
		h.fail(ctx, g, err)
		return
	}
	backToGallery(ctx)
}

// ConfirmDelete renders the prompt naming the photo id
func (h GalleryHandler) ConfirmDelete(ctx *ginext.Context) {
	g := h.gallery(ctx)
	id, err := model.ParsePhotoID(ctx.Param("id"))
	if err != nil {
		h.fail(ctx, g, err)
		return
	}
	m := g.Messages()
	ctx.HTML(http.StatusOK, "confirm.html", confirmView{M: m, ID: id, Prompt: m.ConfirmDeletePrompt(id)})
}

func (h GalleryHandler) Delete(ctx *ginext.Context) {
	g := h.gallery(ctx)
	id, err := model.ParsePhotoID(ctx.Param("id"))
	if err != nil {
		h.fail(ctx, g, err)
		return
	}

	confirmed := ctx.PostForm("confirm") == "yes"
	err = g.Delete(ctx.Request.Context(), id, func(string) bool { return confirmed })
	switch {
	case err == nil, errors.Is(err, model.ErrDeleteCancelled):
		backToGallery(ctx)
	default:
		h.fail(ctx, g, err)
	}
}

// Raw streams image bytes from the image service so its address stays server-side
func (h GalleryHandler) Raw(ctx *ginext.Context) {
	logger := mwlogger.LoggerFromContext(ctx.Request.Context())
	id, err := model.ParsePhotoID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	res, cType, err := h.images.Image(ctx.Request.Context(), id)
	if err != nil {
		logger.Warn().Err(err).Int("id", id).Msg("Failed to fetch image bytes")
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}
	defer closeFileFlow(res)

	if n, err := writeStream(ctx, cType, res); err != nil {
		logger.Warn().Err(err).Int64("written", n).Int("id", id).Msg("Failed to write image response")
	}
}

// Preview streams the staged file of the pending upload so the page can show it
func (h GalleryHandler) Preview(ctx *ginext.Context) {
	logger := mwlogger.LoggerFromContext(ctx.Request.Context())
	g := h.gallery(ctx)

	res, cType, err := g.Preview(ctx.Request.Context())
	if err != nil {
		code := errorCodeDefiner(err)
		if errors.Is(err, model.ErrNoFileSelected) {
			code = http.StatusNotFound
		}
		ctx.JSON(code, map[string]string{"error": err.Error()})
		return
	}
	defer closeFileFlow(res)

	ctx.Writer.Header().Set("Cache-Control", "no-store")
	if n, err := writeStream(ctx, cType, res); err != nil {
		logger.Warn().Err(err).Int64("written", n).Msg("Failed to write preview response")
	}
}

func (h GalleryHandler) gallery(ctx *ginext.Context) Gallery {
	id, _ := ctx.Cookie(SessionCookie)
	g, sid := h.sessions.Acquire(ctx.Request.Context(), id)
	if sid != id {
		ctx.SetSameSite(http.SameSiteLaxMode)
		ctx.SetCookie(SessionCookie, sid, 0, "/", "", false, true)
	}
	return g
}

func (h GalleryHandler) render(ctx *ginext.Context, code int, g Gallery, alert string) {
	ctx.HTML(code, "gallery.html", buildPage(g.Snapshot(), g.Messages(), alert))
}

func (h GalleryHandler) fail(ctx *ginext.Context, g Gallery, err error) {
	h.render(ctx, errorCodeDefiner(err), g, alertText(g.Messages(), err))
}

// applyFields sets only the fields present in the form; an empty value clears the field
func applyFields(ctx *ginext.Context, g Gallery) error {
	if raw, ok := ctx.GetPostForm("processId"); ok {
		p, err := model.ParseProcessID(raw)
		if err != nil {
			return err
		}
		if err := g.SetProcess(p); err != nil {
			return err
		}
	}
	if raw, ok := ctx.GetPostForm("locationId"); ok {
		l, err := model.ParseLocationID(raw)
		if err != nil {
			return err
		}
		if err := g.SetLocation(l); err != nil {
			return err
		}
	}
	return nil
}

func backToGallery(ctx *ginext.Context) {
	ctx.Redirect(http.StatusSeeOther, "/")
}
