// Package imageapitest provides an in-memory drone image service for tests
package imageapitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/UnendingLoop/DroneGallery/internal/model"
)

// Upload is what the fake service recorded for one multipart request
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
	ProcessID   string
	LocationID  string
}

type Server struct {
	*httptest.Server

	mu      sync.Mutex
	nextID  int
	photos  map[int]model.Photo
	data    map[int][]byte
	uploads []Upload
	calls   map[string]int

	fail map[string]bool
}

func NewServer(seed ...model.Photo) *Server {
	s := &Server{
		nextID: 1,
		photos: make(map[int]model.Photo),
		data:   make(map[int][]byte),
		calls:  make(map[string]int),
		fail:   make(map[string]bool),
	}
	for _, p := range seed {
		s.photos[p.ID] = p
		s.data[p.ID] = []byte("image-" + strconv.Itoa(p.ID))
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/images", s.handleList)
	mux.HandleFunc("/api/images/upload", s.handleUpload)
	mux.HandleFunc("/api/images/", s.handleByID)
	s.Server = httptest.NewServer(mux)
	return s
}

// Calls returns how many requests hit op ("list", "upload", "delete", "image")
func (s *Server) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Fail makes op ("list", "upload", "delete") answer with 500 until reset
func (s *Server) Fail(op string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = on
}

func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

func (s *Server) Has(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.photos[id]
	return ok
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	s.calls["list"]++
	fail := s.fail["list"]
	list := make([]model.Photo, 0, len(s.photos))
	for _, p := range s.photos {
		list = append(list, p)
	}
	s.mu.Unlock()

	if fail {
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	s.calls["upload"]++
	fail := s.fail["upload"]
	s.mu.Unlock()

	if fail {
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	up := Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		ProcessID:   r.FormValue("processId"),
		LocationID:  r.FormValue("locationId"),
	}

	photo := model.Photo{OriginalFilename: header.Filename}
	if up.ProcessID != "" {
		p := model.ProcessID(up.ProcessID)
		photo.ProcessID = &p
	}
	if up.LocationID != "" {
		if n, err := strconv.Atoi(up.LocationID); err == nil {
			l := model.LocationID(n)
			photo.LocationID = &l
		}
	}

	s.mu.Lock()
	photo.ID = s.nextID
	s.nextID++
	s.photos[photo.ID] = photo
	s.data[photo.ID] = data
	s.uploads = append(s.uploads, up)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "File uploaded successfully: %s", header.Filename)
}

func (s *Server) handleByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/images/"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		s.calls["image"]++
		data, ok := s.data[id]
		s.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(data)
	case http.MethodDelete:
		s.mu.Lock()
		s.calls["delete"]++
		fail := s.fail["delete"]
		_, ok := s.photos[id]
		if ok && !fail {
			delete(s.photos, id)
			delete(s.data, id)
		}
		s.mu.Unlock()
		switch {
		case fail:
			http.Error(w, "delete failed", http.StatusInternalServerError)
		case !ok:
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusOK)
		}
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
