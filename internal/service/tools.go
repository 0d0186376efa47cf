package service

import (
	"context"
	"io"

	"github.com/UnendingLoop/DroneGallery/internal/model"
	"github.com/UnendingLoop/DroneGallery/internal/mwlogger"
)

func indexOf(photos []model.Photo, id int) int {
	for i := range photos {
		if photos[i].ID == id {
			return i
		}
	}
	return -1
}

func clonePhotos(src []model.Photo) []model.Photo {
	res := make([]model.Photo, len(src))
	copy(res, src)
	return res
}

func closeBody(ctx context.Context, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Warn().Err(err).Msg("Failed to close staged file reader")
	}
}
