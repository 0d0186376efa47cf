package model

import "fmt"

// Messages holds every user-facing string of one UI language
type Messages struct {
	Lang string

	Title          string
	UploadHeading  string
	GalleryHeading string
	EmptyGallery   string
	UploadButton   string
	ChooseFile     string
	ApplyFields    string
	ProcessLabel   string
	LocationLabel  string
	NotSelected    string
	DeleteButton   string
	CloseButton    string
	ReloadButton   string
	ConfirmButton  string
	CancelButton   string

	LoadFailed    string
	Uploading     string
	UploadFailed  string
	DeleteDone    string
	DeleteFailed  string
	NoFile        string
	MissingFields string
	InvalidInput  string
	PhotoMissing  string

	// ConfirmDelete is a format string taking the photo id
	ConfirmDelete string
	// LocationName is a format string taking the location number
	LocationName string

	Processes map[ProcessID]string
}

// Korean strings follow the original drone uploader UI
var messagesKO = Messages{
	Lang:           "ko",
	Title:          "📸 드론 사진 업로더",
	UploadHeading:  "새 사진 업로드",
	GalleryHeading: "업로드된 사진 목록",
	EmptyGallery:   "아직 업로드된 사진이 없습니다.",
	UploadButton:   "업로드",
	ChooseFile:     "파일 선택",
	ApplyFields:    "적용",
	ProcessLabel:   "공정",
	LocationLabel:  "위치",
	NotSelected:    "선택하세요",
	DeleteButton:   "x",
	CloseButton:    "×",
	ReloadButton:   "새로고침",
	ConfirmButton:  "삭제",
	CancelButton:   "취소",

	LoadFailed:    "사진 목록을 불러올 수 없습니다. 서버 상태를 확인해주세요.",
	Uploading:     "업로드 중...",
	UploadFailed:  "업로드에 실패했습니다.",
	DeleteDone:    "사진이 삭제되었습니다.",
	DeleteFailed:  "사진 삭제에 실패했습니다.",
	NoFile:        "파일을 먼저 선택해주세요.",
	MissingFields: "공정과 위치를 모두 선택해주세요.",
	InvalidInput:  "잘못된 입력입니다.",
	PhotoMissing:  "사진을 찾을 수 없습니다.",

	ConfirmDelete: "정말로 이 사진(ID: %d)을 삭제하시겠습니까?",
	LocationName:  "%d번 위치",

	// PROC_PAINT - 도장, PROC_LOAD - 적재. Эти две подписи легко перепутать: ключи сверять по id, не по порядку в списке
	Processes: map[ProcessID]string{
		ProcCut:      "절단",
		ProcProcess:  "가공",
		ProcAssemble: "조립",
		ProcPaint:    "도장",
		ProcLoad:     "적재",
		ProcLaunch:   "출하",
	},
}

var messagesEN = Messages{
	Lang:           "en",
	Title:          "📸 Drone Photo Uploader",
	UploadHeading:  "Upload a new photo",
	GalleryHeading: "Uploaded photos",
	EmptyGallery:   "No photos uploaded yet.",
	UploadButton:   "Upload",
	ChooseFile:     "Choose file",
	ApplyFields:    "Apply",
	ProcessLabel:   "Process",
	LocationLabel:  "Location",
	NotSelected:    "Select...",
	DeleteButton:   "x",
	CloseButton:    "×",
	ReloadButton:   "Reload",
	ConfirmButton:  "Delete",
	CancelButton:   "Cancel",

	LoadFailed:    "Could not load the photo list. Please check the server.",
	Uploading:     "Uploading...",
	UploadFailed:  "Upload failed.",
	DeleteDone:    "The photo was deleted.",
	DeleteFailed:  "Failed to delete the photo.",
	NoFile:        "Please choose a file first.",
	MissingFields: "Please choose both a process and a location.",
	InvalidInput:  "Invalid input.",
	PhotoMissing:  "Photo not found.",

	ConfirmDelete: "Really delete this photo (ID: %d)?",
	LocationName:  "Location %d",

	Processes: map[ProcessID]string{
		ProcCut:      "Cut",
		ProcProcess:  "Process",
		ProcAssemble: "Assembly",
		ProcPaint:    "Paint",
		ProcLoad:     "Load",
		ProcLaunch:   "Launch",
	},
}

// MessagesFor returns the message set for lang, falling back to Korean
func MessagesFor(lang string) Messages {
	if lang == "en" {
		return messagesEN
	}
	return messagesKO
}

func (m Messages) ConfirmDeletePrompt(id int) string {
	return fmt.Sprintf(m.ConfirmDelete, id)
}

func (m Messages) LocationText(l LocationID) string {
	return fmt.Sprintf(m.LocationName, int(l))
}

func (m Messages) ProcessText(p ProcessID) string {
	if label, ok := m.Processes[p]; ok {
		return label
	}
	return string(p)
}
