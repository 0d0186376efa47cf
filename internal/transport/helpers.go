package transport

import (
	"errors"
	"io"
	"net/http"

	"github.com/UnendingLoop/DroneGallery/internal/model"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"
)

func errorCodeDefiner(err error) int {
	switch {
	case errors.Is(err, model.ErrCommon500):
		return 500
	case errors.Is(err, model.ErrNetwork):
		return 502
	case errors.Is(err, model.ErrPhotoNotFound):
		return 404
	case errors.Is(err, model.ErrDeleteCancelled):
		return 409
	case model.IsValidation(err):
		return 400
	default:
		return 500
	}
}

// alertText picks the message shown above the page; network failures already live in the status line
func alertText(m model.Messages, err error) string {
	switch {
	case errors.Is(err, model.ErrNoFileSelected):
		return m.NoFile
	case errors.Is(err, model.ErrMissingProcess),
		errors.Is(err, model.ErrMissingLocation):
		return m.MissingFields
	case errors.Is(err, model.ErrPhotoNotFound):
		return m.PhotoMissing
	case model.IsValidation(err):
		return m.InvalidInput
	case errors.Is(err, model.ErrNetwork):
		return ""
	default:
		return err.Error()
	}
}

func closeFileFlow(res io.ReadCloser) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		zlog.Logger.Warn().Err(err).Msg("Handler failed to close fileflow")
	}
}

func writeStream(ctx *ginext.Context, cType string, res io.Reader) (int64, error) {
	ctx.Writer.Header().Set("Content-Type", cType)
	ctx.Writer.WriteHeader(http.StatusOK)
	return io.Copy(ctx.Writer, res)
}
