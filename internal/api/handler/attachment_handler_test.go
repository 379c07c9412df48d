package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
)

type stubAttachmentStore struct {
	files map[string][]byte
}

func (s *stubAttachmentStore) Upload(filename string, data []byte) (string, error) {
	id := "att-" + filename
	s.files[id] = data
	return id, nil
}

func (s *stubAttachmentStore) Download(id string) ([]byte, error) {
	data, ok := s.files[id]
	if !ok {
		return nil, domain.ErrBulletinNotFound
	}
	return data, nil
}

func multipartRequest(t *testing.T, field, filename, contentType string, payload []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		hdr.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/attachments", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestAttachmentHandler_UploadAndDownload(t *testing.T) {
	store := &stubAttachmentStore{files: make(map[string][]byte)}
	h := NewAttachmentHandler(store, "https://board.ebhcs.org/")

	e := echo.New()
	req := multipartRequest(t, "file", "flyer.pdf", "application/pdf", []byte("%PDF-1.7 fake"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Upload(c); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp uploadAttachmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID == "" {
		t.Fatalf("missing id: %+v", resp)
	}
	// The base URL is joined without a double slash.
	if resp.URL != "https://board.ebhcs.org/files/"+resp.ID {
		t.Fatalf("url = %q", resp.URL)
	}

	dreq := httptest.NewRequest(http.MethodGet, "/files/"+resp.ID, nil)
	drec := httptest.NewRecorder()
	dc := e.NewContext(dreq, drec)
	dc.SetParamNames("id")
	dc.SetParamValues(resp.ID)

	if err := h.Download(dc); err != nil {
		t.Fatalf("download: %v", err)
	}
	if ct := drec.Header().Get(echo.HeaderContentType); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if drec.Body.String() != "%PDF-1.7 fake" {
		t.Fatalf("payload round-trip failed")
	}
}

func TestAttachmentHandler_Upload_RejectsNonPDF(t *testing.T) {
	h := NewAttachmentHandler(&stubAttachmentStore{files: make(map[string][]byte)}, "")

	e := echo.New()
	req := multipartRequest(t, "file", "photo.png", "image/png", []byte("png bytes"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Upload(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected a 415, got %v", err)
	}
}

func TestAttachmentHandler_Upload_RequiresFile(t *testing.T) {
	h := NewAttachmentHandler(&stubAttachmentStore{files: make(map[string][]byte)}, "")

	e := echo.New()
	req := multipartRequest(t, "wrong_field", "flyer.pdf", "application/pdf", []byte("%PDF"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Upload(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected a 400, got %v", err)
	}
}

func TestAttachmentHandler_Download_SurfacesNotFound(t *testing.T) {
	h := NewAttachmentHandler(&stubAttachmentStore{files: make(map[string][]byte)}, "")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/files/ghost", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("ghost")

	if err := h.Download(c); !errors.Is(err, domain.ErrBulletinNotFound) {
		t.Fatalf("expected ErrBulletinNotFound, got %v", err)
	}
}
