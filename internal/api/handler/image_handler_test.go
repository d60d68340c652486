package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/batagalla/mushmind-detector/internal/api/middleware"
	"github.com/batagalla/mushmind-detector/internal/core/domain"
	"github.com/batagalla/mushmind-detector/internal/core/ports"
)

type stubImageService struct {
	ports.ImageService
	got *ports.UploadInput
}

func (s *stubImageService) Upload(_ context.Context, actor *domain.User, in ports.UploadInput) (*domain.Image, error) {
	s.got = &in
	return &domain.Image{ID: "img1", OwnerID: actor.ID}, nil
}

func newUploadContext(t *testing.T, e *echo.Echo, payload []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", "cap.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/images/upload", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetIdentity(c, &domain.User{ID: "u1", Role: domain.RoleUser})
	return c, rec
}

func TestImageHandler_Upload_NoLimitPassesWholeFile(t *testing.T) {
	e := echo.New()
	stub := &stubImageService{}
	h := NewImageHandler(stub, 0)

	payload := bytes.Repeat([]byte{0xAB}, 4096)
	c, rec := newUploadContext(t, e, payload)

	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	if stub.got == nil || len(stub.got.Data) != len(payload) {
		t.Fatalf("expected %d bytes passed to service, got %+v", len(payload), stub.got)
	}
	if stub.got.Filename != "cap.png" {
		t.Fatalf("expected filename cap.png, got %q", stub.got.Filename)
	}
}

func TestImageHandler_Upload_LimitReadsOneExtraByte(t *testing.T) {
	e := echo.New()
	stub := &stubImageService{}
	h := NewImageHandler(stub, 100)

	c, _ := newUploadContext(t, e, bytes.Repeat([]byte{0xAB}, 4096))

	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if len(stub.got.Data) != 101 {
		t.Fatalf("expected limit+1 bytes, got %d", len(stub.got.Data))
	}
}

func TestImageHandler_Upload_RequiresIdentity(t *testing.T) {
	e := echo.New()
	h := NewImageHandler(&stubImageService{}, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/images/upload", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.Upload(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
