package transport

import (
	"strconv"

	"github.com/UnendingLoop/DroneGallery/internal/model"
)

type option struct {
	Value    string
	Label    string
	Selected bool
}

type photoView struct {
	ID       int
	Filename string
	Process  string
	Location string
}

// pageView - всё, что нужно шаблону gallery.html; строки уже локализованы
type pageView struct {
	M               model.Messages
	Alert           string
	Status          string
	UploadState     model.UploadState
	Extended        bool
	CanSubmit       bool
	Pending         *model.StagedFile
	ProcessOptions  []option
	LocationOptions []option
	Photos          []photoView
	Selected        *model.SelectedImage
}

type confirmView struct {
	M      model.Messages
	ID     int
	Prompt string
}

func buildPage(st model.GalleryState, m model.Messages, alert string) pageView {
	v := pageView{
		M:           m,
		Alert:       alert,
		Status:      st.Status,
		UploadState: st.UploadState,
		Extended:    st.Mode == model.ModeExtended,
		CanSubmit:   st.CanSubmit,
		Pending:     st.Pending.File,
		Selected:    st.Selected,
		Photos:      make([]photoView, 0, len(st.Photos)),
	}

	for _, p := range model.Processes {
		v.ProcessOptions = append(v.ProcessOptions, option{
			Value:    string(p),
			Label:    m.ProcessText(p),
			Selected: st.Pending.ProcessID != nil && *st.Pending.ProcessID == p,
		})
	}
	for _, l := range model.Locations() {
		v.LocationOptions = append(v.LocationOptions, option{
			Value:    strconv.Itoa(int(l)),
			Label:    m.LocationText(l),
			Selected: st.Pending.LocationID != nil && *st.Pending.LocationID == l,
		})
	}

	for _, p := range st.Photos {
		pv := photoView{ID: p.ID, Filename: p.OriginalFilename}
		if p.ProcessID != nil {
			pv.Process = m.ProcessText(*p.ProcessID)
		}
		if p.LocationID != nil {
			pv.Location = m.LocationText(*p.LocationID)
		}
		v.Photos = append(v.Photos, pv)
	}
	return v
}
