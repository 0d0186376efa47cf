// Package imageapi is the HTTP client for the remote drone image service
package imageapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnendingLoop/DroneGallery/internal/model"
)

// StatusError - сервис ответил не-2xx кодом
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: image service returned status %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: image service returned status %d: %s", e.Op, e.Code, e.Body)
}

// Unwrap makes every status failure match model.ErrNetwork
func (e *StatusError) Unwrap() error {
	return model.ErrNetwork
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient accepts either a bare host:port pair or a full base URL.
// timeout 0 leaves requests bounded only by their context.
func NewClient(addr string, timeout time.Duration) (*Client, error) {
	base, err := normalizeBaseURL(addr)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func normalizeBaseURL(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("empty image service address")
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("invalid image service address %q: %w", addr, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid image service address %q: no host", addr)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ImageURL is the address the service serves raw image bytes from
func (c *Client) ImageURL(id int) string {
	return c.baseURL + "/api/images/" + strconv.Itoa(id)
}

// List - GET /api/images
func (c *Client) List(ctx context.Context) ([]model.Photo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/images", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list images: %w: %w", model.ErrNetwork, err)
	}
	defer closeBody(resp.Body)

	if err := checkStatus("list images", resp); err != nil {
		return nil, err
	}

	var photos []model.Photo
	if err := json.NewDecoder(resp.Body).Decode(&photos); err != nil {
		return nil, fmt.Errorf("decode image list: %w: %w", model.ErrNetwork, err)
	}
	if photos == nil {
		photos = []model.Photo{}
	}
	return photos, nil
}

// Upload - POST /api/images/upload, returns the plain-text message of the service
func (c *Client) Upload(ctx context.Context, in *model.UploadRequest) (string, error) {
	if in == nil || in.File == nil {
		return "", model.ErrNoFileSelected
	}

	body, contentType, err := buildUploadBody(in)
	if err != nil {
		return "", fmt.Errorf("build upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/images/upload", body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w: %w", model.ErrNetwork, err)
	}
	defer closeBody(resp.Body)

	if err := checkStatus("upload image", resp); err != nil {
		return "", err
	}

	msg, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read upload response: %w: %w", model.ErrNetwork, err)
	}
	return strings.TrimSpace(string(msg)), nil
}

func buildUploadBody(in *model.UploadRequest) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(in.Filename)))
	ctype := in.ContentType
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	h.Set("Content-Type", ctype)

	fw, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(fw, in.File); err != nil {
		return nil, "", err
	}

	if in.ProcessID != nil {
		if err := w.WriteField("processId", string(*in.ProcessID)); err != nil {
			return nil, "", err
		}
	}
	if in.LocationID != nil {
		if err := w.WriteField("locationId", strconv.Itoa(int(*in.LocationID))); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// Delete - DELETE /api/images/{id}
func (c *Client) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return model.ErrIncorrectID
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.ImageURL(id), nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete image %d: %w: %w", id, model.ErrNetwork, err)
	}
	defer closeBody(resp.Body)

	return checkStatus(fmt.Sprintf("delete image %d", id), resp)
}

// Image - GET /api/images/{id}; caller closes the returned body
func (c *Client) Image(ctx context.Context, id int) (io.ReadCloser, string, error) {
	if id <= 0 {
		return nil, "", model.ErrIncorrectID
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ImageURL(id), nil)
	if err != nil {
		return nil, "", fmt.Errorf("build image request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch image %d: %w: %w", id, model.ErrNetwork, err)
	}

	if err := checkStatus(fmt.Sprintf("fetch image %d", id), resp); err != nil {
		closeBody(resp.Body)
		return nil, "", err
	}

	ctype := resp.Header.Get("Content-Type")
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	return resp.Body, ctype, nil
}

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	// тело ошибки читаем ограниченно - только для диагностики в логах
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
}

func closeBody(b io.Closer) {
	_ = b.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
