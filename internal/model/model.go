// Package model provides data-structs for internal app-usage
package model

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

type (
	ProcessID     string
	LocationID    int
	UploadMode    string
	UploadState   string
	OverlayTarget string
	EventType     string
)

const (
	ProcCut      ProcessID = "PROC_CUT"
	ProcProcess  ProcessID = "PROC_PROCESS"
	ProcAssemble ProcessID = "PROC_ASSEMBLE"
	ProcPaint    ProcessID = "PROC_PAINT"
	ProcLoad     ProcessID = "PROC_LOAD"
	ProcLaunch   ProcessID = "PROC_LAUNCH"
)

// Processes keeps the production-line order used by selectors
var Processes = []ProcessID{ProcCut, ProcProcess, ProcAssemble, ProcPaint, ProcLoad, ProcLaunch}

var ProcessMap = map[ProcessID]bool{
	ProcCut:      true,
	ProcProcess:  true,
	ProcAssemble: true,
	ProcPaint:    true,
	ProcLoad:     true,
	ProcLaunch:   true,
}

const (
	MinLocation LocationID = 1
	MaxLocation LocationID = 6
)

func (l LocationID) Valid() bool {
	return l >= MinLocation && l <= MaxLocation
}

// Locations returns all selectable location ids in ascending order
func Locations() []LocationID {
	res := make([]LocationID, 0, MaxLocation)
	for l := MinLocation; l <= MaxLocation; l++ {
		res = append(res, l)
	}
	return res
}

const (
	ModeBasic    UploadMode = "basic"
	ModeExtended UploadMode = "extended"
)

const (
	StateIdle           UploadState = "idle"
	StateFileSelected   UploadState = "file_selected"
	StateFieldsSelected UploadState = "fields_selected"
	StateUploading      UploadState = "uploading"
)

const (
	TargetBackdrop OverlayTarget = "backdrop"
	TargetImage    OverlayTarget = "image"
	TargetClose    OverlayTarget = "close"
)

const (
	EventPhotoUploaded EventType = "photo.uploaded"
	EventPhotoDeleted  EventType = "photo.deleted"
)

//---------------------

// Photo - запись из сервиса хранения картинок, локально только кэшируется
type Photo struct {
	ID               int         `json:"id"`
	OriginalFilename string      `json:"originalFilename"`
	ProcessID        *ProcessID  `json:"processId,omitempty"`
	LocationID       *LocationID `json:"locationId,omitempty"`
}

// StagedFile describes a selected file whose bytes live in pending storage
type StagedFile struct {
	Key         string `json:"-"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type PendingUpload struct {
	File       *StagedFile `json:"file,omitempty"`
	ProcessID  *ProcessID  `json:"process_id,omitempty"`
	LocationID *LocationID `json:"location_id,omitempty"`
}

type SelectedImage struct {
	ID               int    `json:"id"`
	OriginalFilename string `json:"original_filename"`
}

// GalleryState - снимок состояния галереи для рендеринга
type GalleryState struct {
	Photos      []Photo        `json:"photos"`
	Pending     PendingUpload  `json:"pending"`
	Selected    *SelectedImage `json:"selected,omitempty"`
	Status      string         `json:"status"`
	UploadState UploadState    `json:"upload_state"`
	CanSubmit   bool           `json:"can_submit"`
	Mode        UploadMode     `json:"mode"`
}

// UploadRequest is the multipart payload sent to the image service
type UploadRequest struct {
	Filename    string
	ContentType string
	Size        int64
	File        io.Reader
	ProcessID   *ProcessID
	LocationID  *LocationID
}

type GalleryEvent struct {
	Type       EventType   `json:"type"`
	PhotoID    int         `json:"photo_id,omitempty"`
	Filename   string      `json:"filename,omitempty"`
	ProcessID  *ProcessID  `json:"process_id,omitempty"`
	LocationID *LocationID `json:"location_id,omitempty"`
	Message    string      `json:"message,omitempty"`
	SessionID  string      `json:"session_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

//--------------------

func ParseProcessID(raw string) (ProcessID, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return "", nil
	}
	// принимаем и короткую форму: CUT -> PROC_CUT
	if !strings.HasPrefix(raw, "PROC_") {
		raw = "PROC_" + raw
	}
	p := ProcessID(raw)
	if !ProcessMap[p] {
		return "", ErrInvalidProcess
	}
	return p, nil
}

func ParseLocationID(raw string) (LocationID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLocation, raw)
	}
	l := LocationID(n)
	if !l.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLocation, n)
	}
	return l, nil
}

func ParsePhotoID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, ErrIncorrectID
	}
	return id, nil
}

func ParseUploadMode(raw string) (UploadMode, error) {
	switch UploadMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeExtended:
		return ModeExtended, nil
	case ModeBasic:
		return ModeBasic, nil
	default:
		return "", fmt.Errorf("unsupported upload mode %q", raw)
	}
}

// ------------------

var (
	ErrCommon500       error = errors.New("something went wrong. Try again later")   // 500
	ErrNetwork         error = errors.New("image service request failed")            // 502
	ErrIncorrectID     error = errors.New("incorrect photo id")                      // 400
	ErrPhotoNotFound   error = errors.New("photo is not in the current gallery")     // 404
	ErrNoFileSelected  error = errors.New("no file selected for upload")             // 400
	ErrMissingProcess  error = errors.New("process must be selected before upload")  // 400
	ErrMissingLocation error = errors.New("location must be selected before upload") // 400
	ErrInvalidProcess  error = errors.New("unknown process id")                      // 400
	ErrInvalidLocation error = errors.New("location id must be within 1..6")         // 400
	ErrIncorrectTarget error = errors.New("unknown overlay target")                  // 400
	ErrDeleteCancelled error = errors.New("deletion was not confirmed")              // 409
)

// IsValidation reports whether err was raised before any network call
func IsValidation(err error) bool {
	return errors.Is(err, ErrNoFileSelected) ||
		errors.Is(err, ErrMissingProcess) ||
		errors.Is(err, ErrMissingLocation) ||
		errors.Is(err, ErrInvalidProcess) ||
		errors.Is(err, ErrInvalidLocation) ||
		errors.Is(err, ErrIncorrectID) ||
		errors.Is(err, ErrIncorrectTarget)
}
