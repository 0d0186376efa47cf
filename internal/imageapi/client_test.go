package imageapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/UnendingLoop/DroneGallery/internal/imageapi/imageapitest"
	"github.com/UnendingLoop/DroneGallery/internal/model"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *imageapitest.Server) *Client {
	t.Helper()
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, 0)
	require.NoError(t, err)
	return c
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		want    string
		wantErr bool
	}{
		{"host and port", "192.168.0.141:8084", "http://192.168.0.141:8084", false},
		{"full url trailing slash", "https://drone.local:8443/", "https://drone.local:8443", false},
		{"with path prefix", "http://gw/drone", "http://gw/drone", false},
		{"empty", "  ", "", true},
		{"no host", "http://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.addr)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestClient_ImageURL(t *testing.T) {
	c, err := NewClient("drone:8084", time.Second)
	require.NoError(t, err)
	require.Equal(t, "http://drone:8084/api/images/5", c.ImageURL(5))
}

func TestClient_List(t *testing.T) {
	proc := model.ProcPaint
	loc := model.LocationID(3)
	srv := imageapitest.NewServer(
		model.Photo{ID: 1, OriginalFilename: "a.jpg"},
		model.Photo{ID: 2, OriginalFilename: "b.jpg", ProcessID: &proc, LocationID: &loc},
	)
	c := newTestClient(t, srv)

	photos, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, photos, 2)
	require.Equal(t, "a.jpg", photos[0].OriginalFilename)
	require.Nil(t, photos[0].ProcessID)
	require.Equal(t, model.ProcPaint, *photos[1].ProcessID)
	require.Equal(t, model.LocationID(3), *photos[1].LocationID)
}

func TestClient_List_EmptyIsNotNil(t *testing.T) {
	c := newTestClient(t, imageapitest.NewServer())

	photos, err := c.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, photos)
	require.Empty(t, photos)
}

func TestClient_List_StatusError(t *testing.T) {
	srv := imageapitest.NewServer()
	srv.Fail("list", true)
	c := newTestClient(t, srv)

	_, err := c.List(context.Background())
	require.ErrorIs(t, err, model.ErrNetwork)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusInternalServerError, se.Code)
}

func TestClient_List_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := NewClient(addr, time.Second)
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.ErrorIs(t, err, model.ErrNetwork)
}

func TestClient_List_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, 0)
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.ErrorIs(t, err, model.ErrNetwork)
}

func TestClient_Upload(t *testing.T) {
	srv := imageapitest.NewServer()
	c := newTestClient(t, srv)

	proc := model.ProcCut
	loc := model.LocationID(4)
	msg, err := c.Upload(context.Background(), &model.UploadRequest{
		Filename:    "shot.jpg",
		ContentType: "image/jpeg",
		File:        strings.NewReader("jpeg-bytes"),
		ProcessID:   &proc,
		LocationID:  &loc,
	})
	require.NoError(t, err)
	require.Equal(t, "File uploaded successfully: shot.jpg", msg)

	uploads := srv.Uploads()
	require.Len(t, uploads, 1)
	require.Equal(t, "shot.jpg", uploads[0].Filename)
	require.Equal(t, "image/jpeg", uploads[0].ContentType)
	require.Equal(t, []byte("jpeg-bytes"), uploads[0].Data)
	require.Equal(t, "PROC_CUT", uploads[0].ProcessID)
	require.Equal(t, "4", uploads[0].LocationID)

	// новая фотография видна в следующем списке
	photos, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, photos, 1)
	require.Equal(t, "shot.jpg", photos[0].OriginalFilename)
}

func TestClient_Upload_BasicOmitsFields(t *testing.T) {
	srv := imageapitest.NewServer()
	c := newTestClient(t, srv)

	_, err := c.Upload(context.Background(), &model.UploadRequest{
		Filename: "plain.png",
		File:     strings.NewReader("png"),
	})
	require.NoError(t, err)

	up := srv.Uploads()[0]
	require.Empty(t, up.ProcessID)
	require.Empty(t, up.LocationID)
	require.Equal(t, "application/octet-stream", up.ContentType)
}

func TestClient_Upload_Errors(t *testing.T) {
	srv := imageapitest.NewServer()
	c := newTestClient(t, srv)

	_, err := c.Upload(context.Background(), &model.UploadRequest{Filename: "x"})
	require.ErrorIs(t, err, model.ErrNoFileSelected)
	require.Equal(t, 0, srv.Calls("upload"))

	srv.Fail("upload", true)
	_, err = c.Upload(context.Background(), &model.UploadRequest{Filename: "x", File: strings.NewReader("1")})
	require.ErrorIs(t, err, model.ErrNetwork)
}

func TestClient_Delete(t *testing.T) {
	srv := imageapitest.NewServer(model.Photo{ID: 7, OriginalFilename: "g.jpg"})
	c := newTestClient(t, srv)

	require.NoError(t, c.Delete(context.Background(), 7))
	require.False(t, srv.Has(7))

	err := c.Delete(context.Background(), 7)
	require.ErrorIs(t, err, model.ErrNetwork)

	require.ErrorIs(t, c.Delete(context.Background(), 0), model.ErrIncorrectID)
}

func TestClient_Image(t *testing.T) {
	srv := imageapitest.NewServer(model.Photo{ID: 3, OriginalFilename: "c.jpg"})
	c := newTestClient(t, srv)

	body, ctype, err := c.Image(context.Background(), 3)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.Equal(t, "image-3", string(data))
	require.Equal(t, "image/jpeg", ctype)

	_, _, err = c.Image(context.Background(), 99)
	require.ErrorIs(t, err, model.ErrNetwork)
}
