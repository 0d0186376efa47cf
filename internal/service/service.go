// Package service provides the gallery store: view state plus the operations that change it
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/UnendingLoop/DroneGallery/internal/model"
	"github.com/UnendingLoop/DroneGallery/internal/mwlogger"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
)

// ImageAPI - контракт удаленного сервиса хранения фотографий
type ImageAPI interface {
	List(ctx context.Context) ([]model.Photo, error)
	Upload(ctx context.Context, in *model.UploadRequest) (string, error)
	Delete(ctx context.Context, id int) error
}

// PendingStorage - контракт для хранилища выбранных файлов
type PendingStorage interface {
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
	Get(ctx context.Context, key string) (output io.ReadCloser, ctype string, err error)
	Delete(ctx context.Context, key string) error
}

// EventPublisher - контракт для отправки событий галереи в очередь
type EventPublisher interface {
	SendWithRetry(ctx context.Context, strategy retry.Strategy, key []byte, v []byte) error
}

// NoopPublisher - заглушка, когда KAFKA_BROKER не задан
type NoopPublisher struct{}

func (NoopPublisher) SendWithRetry(ctx context.Context, strategy retry.Strategy, key []byte, v []byte) error {
	return nil
}

// Стратегия ретрая отправки событий - события не критичны, долго не ждем
var eventRetry = retry.Strategy{
	Attempts: 2,
	Delay:    200 * time.Millisecond,
	Backoff:  2,
}

// publishTimeout bounds all attempts of one event together
const publishTimeout = 2 * time.Second

type Options struct {
	Mode          model.UploadMode
	FixedLocation model.LocationID // 0 - отправляем выбор пользователя
	Messages      model.Messages
	SessionID     string
}

// GalleryService owns the view state of one gallery front end.
// mu is never held across a network call.
type GalleryService struct {
	api       ImageAPI
	pending   PendingStorage
	publisher EventPublisher
	opts      Options

	mu        sync.Mutex
	photos    []model.Photo
	file      *model.StagedFile
	process   *model.ProcessID
	location  *model.LocationID
	selected  *model.SelectedImage
	status    string
	uploading int
}

func NewGalleryService(api ImageAPI, pending PendingStorage, pub EventPublisher, opts Options) *GalleryService {
	if pub == nil {
		pub = NoopPublisher{}
	}
	if opts.Mode == "" {
		opts.Mode = model.ModeExtended
	}
	if opts.Messages.Lang == "" {
		opts.Messages = model.MessagesFor("")
	}
	return &GalleryService{
		api:       api,
		pending:   pending,
		publisher: pub,
		opts:      opts,
		photos:    []model.Photo{},
	}
}

func (s *GalleryService) Mode() model.UploadMode {
	return s.opts.Mode
}

func (s *GalleryService) Messages() model.Messages {
	return s.opts.Messages
}

// Load replaces the whole photo list with a fresh copy from the image service
func (s *GalleryService) Load(ctx context.Context) ([]model.Photo, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	photos, err := s.api.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch photo list from image service")
		s.mu.Lock()
		s.status = s.opts.Messages.LoadFailed
		s.mu.Unlock()
		return nil, fmt.Errorf("load gallery: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos = photos
	// выбранная фотография могла исчезнуть с сервера
	if s.selected != nil && indexOf(s.photos, s.selected.ID) < 0 {
		s.selected = nil
	}
	return clonePhotos(s.photos), nil
}

// SelectFile stages r in pending storage and makes it the file to upload.
// The previously staged file is dropped.
func (s *GalleryService) SelectFile(ctx context.Context, filename, contentType string, size int64, r io.Reader) error {
	logger := mwlogger.LoggerFromContext(ctx)
	if r == nil || filename == "" {
		return model.ErrNoFileSelected
	}

	staged := &model.StagedFile{
		Key:         s.opts.SessionID + "/" + uuid.NewString(),
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
	}
	if err := s.pending.Put(ctx, staged.Key, size, contentType, r); err != nil {
		logger.Error().Err(err).Str("filename", filename).Msg("Failed to stage selected file")
		return model.ErrCommon500
	}

	s.mu.Lock()
	old := s.file
	s.file = staged
	s.status = ""
	s.mu.Unlock()

	s.dropBlob(ctx, old)
	return nil
}

// SetProcess sets the process field; empty id clears it
func (s *GalleryService) SetProcess(p model.ProcessID) error {
	if p != "" && !model.ProcessMap[p] {
		return model.ErrInvalidProcess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p == "" {
		s.process = nil
		return nil
	}
	s.process = &p
	return nil
}

// SetLocation sets the location field; 0 clears it
func (s *GalleryService) SetLocation(l model.LocationID) error {
	if l != 0 && !l.Valid() {
		return model.ErrInvalidLocation
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l == 0 {
		s.location = nil
		return nil
	}
	s.location = &l
	return nil
}

// CanSubmit is true iff every precondition of the active upload mode holds
func (s *GalleryService) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkPreconditionsLocked() == nil
}

func (s *GalleryService) checkPreconditionsLocked() error {
	if s.file == nil {
		return model.ErrNoFileSelected
	}
	if s.opts.Mode != model.ModeExtended {
		return nil
	}
	if s.process == nil {
		return model.ErrMissingProcess
	}
	if s.location == nil {
		return model.ErrMissingLocation
	}
	return nil
}

// Upload sends the pending file to the image service and reloads the gallery on success.
// A failed precondition returns before any request and leaves the status as is.
func (s *GalleryService) Upload(ctx context.Context) (string, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	s.mu.Lock()
	if err := s.checkPreconditionsLocked(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	file := *s.file
	req := &model.UploadRequest{
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        file.Size,
	}
	if s.opts.Mode == model.ModeExtended {
		p, l := *s.process, *s.location
		if s.opts.FixedLocation != 0 {
			l = s.opts.FixedLocation
		}
		req.ProcessID, req.LocationID = &p, &l
	}
	s.status = s.opts.Messages.Uploading
	s.uploading++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.uploading--
		s.mu.Unlock()
	}()

	body, _, err := s.pending.Get(ctx, file.Key)
	if err != nil {
		logger.Error().Err(err).Str("key", file.Key).Msg("Failed to read staged file")
		s.setStatus(s.opts.Messages.UploadFailed)
		return "", model.ErrCommon500
	}
	defer closeBody(ctx, body)
	req.File = body

	msg, err := s.api.Upload(ctx, req)
	if err != nil {
		logger.Error().Err(err).Str("filename", file.Filename).Msg("Failed to upload photo")
		s.setStatus(s.opts.Messages.UploadFailed)
		return "", fmt.Errorf("upload %q: %w", file.Filename, err)
	}

	s.mu.Lock()
	s.status = msg
	// пользователь мог выбрать другой файл, пока шла загрузка
	if s.file != nil && s.file.Key == file.Key {
		s.file = nil
		s.process = nil
		s.location = nil
	}
	s.mu.Unlock()

	s.dropBlob(ctx, &file)
	if _, err := s.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("Gallery reload after upload failed")
	}

	s.publish(ctx, model.GalleryEvent{
		Type:       model.EventPhotoUploaded,
		Filename:   file.Filename,
		ProcessID:  req.ProcessID,
		LocationID: req.LocationID,
		Message:    msg,
	})
	return msg, nil
}

// Delete removes photo id after confirm accepted the prompt. A nil confirm declines.
func (s *GalleryService) Delete(ctx context.Context, id int, confirm func(prompt string) bool) error {
	logger := mwlogger.LoggerFromContext(ctx)
	if id <= 0 {
		return model.ErrIncorrectID
	}
	if confirm == nil || !confirm(s.opts.Messages.ConfirmDeletePrompt(id)) {
		return model.ErrDeleteCancelled
	}

	if err := s.api.Delete(ctx, id); err != nil {
		logger.Error().Err(err).Int("id", id).Msg("Failed to delete photo")
		s.setStatus(s.opts.Messages.DeleteFailed)
		return fmt.Errorf("delete photo %d: %w", id, err)
	}

	s.mu.Lock()
	s.status = s.opts.Messages.DeleteDone
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.mu.Unlock()

	if _, err := s.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("Gallery reload after delete failed")
	}

	s.publish(ctx, model.GalleryEvent{Type: model.EventPhotoDeleted, PhotoID: id})
	return nil
}

// Preview opens the staged bytes of the pending file
func (s *GalleryService) Preview(ctx context.Context) (io.ReadCloser, string, error) {
	s.mu.Lock()
	if s.file == nil {
		s.mu.Unlock()
		return nil, "", model.ErrNoFileSelected
	}
	f := *s.file
	s.mu.Unlock()

	body, ctype, err := s.pending.Get(ctx, f.Key)
	if err != nil {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Warn().Err(err).Str("key", f.Key).Msg("Failed to read staged file for preview")
		return nil, "", model.ErrCommon500
	}
	if f.ContentType != "" {
		ctype = f.ContentType
	}
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	return body, ctype, nil
}

// Select opens the detail overlay for a photo of the current list
func (s *GalleryService) Select(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.photos, id)
	if i < 0 {
		return model.ErrPhotoNotFound
	}
	s.selected = &model.SelectedImage{ID: id, OriginalFilename: s.photos[i].OriginalFilename}
	return nil
}

func (s *GalleryService) ClearSelection() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// OverlayClick closes the overlay for backdrop and close clicks; image clicks keep it open
func (s *GalleryService) OverlayClick(target model.OverlayTarget) error {
	switch target {
	case model.TargetBackdrop, model.TargetClose:
		s.ClearSelection()
		return nil
	case model.TargetImage:
		return nil
	default:
		return model.ErrIncorrectTarget
	}
}

func (s *GalleryService) Selected() *model.SelectedImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	sel := *s.selected
	return &sel
}

func (s *GalleryService) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *GalleryService) Snapshot() model.GalleryState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := model.GalleryState{
		Photos:      clonePhotos(s.photos),
		Status:      s.status,
		UploadState: s.uploadStateLocked(),
		CanSubmit:   s.checkPreconditionsLocked() == nil,
		Mode:        s.opts.Mode,
	}
	if s.file != nil {
		f := *s.file
		st.Pending.File = &f
	}
	if s.process != nil {
		p := *s.process
		st.Pending.ProcessID = &p
	}
	if s.location != nil {
		l := *s.location
		st.Pending.LocationID = &l
	}
	if s.selected != nil {
		sel := *s.selected
		st.Selected = &sel
	}
	return st
}

func (s *GalleryService) uploadStateLocked() model.UploadState {
	switch {
	case s.uploading > 0:
		return model.StateUploading
	case s.file == nil:
		return model.StateIdle
	case s.opts.Mode == model.ModeExtended && s.process != nil && s.location != nil:
		return model.StateFieldsSelected
	default:
		return model.StateFileSelected
	}
}

// Close drops the staged file, if any
func (s *GalleryService) Close(ctx context.Context) {
	s.mu.Lock()
	f := s.file
	s.file = nil
	s.mu.Unlock()
	s.dropBlob(ctx, f)
}

func (s *GalleryService) setStatus(msg string) {
	s.mu.Lock()
	s.status = msg
	s.mu.Unlock()
}

func (s *GalleryService) dropBlob(ctx context.Context, f *model.StagedFile) {
	if f == nil {
		return
	}
	if err := s.pending.Delete(ctx, f.Key); err != nil {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Warn().Err(err).Str("key", f.Key).Msg("Failed to delete staged file")
	}
}

func (s *GalleryService) publish(ctx context.Context, ev model.GalleryEvent) {
	logger := mwlogger.LoggerFromContext(ctx)
	ev.SessionID = s.opts.SessionID
	ev.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(ev)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal gallery event")
		return
	}

	key := ev.Filename
	if ev.PhotoID > 0 {
		key = strconv.Itoa(ev.PhotoID)
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.SendWithRetry(pctx, eventRetry, []byte(key), data); err != nil {
		logger.Warn().Err(err).Str("event", string(ev.Type)).Msg("Failed to publish gallery event")
	}
}
