package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/dotoole/photofolio-backend/api/middleware"
	"github.com/dotoole/photofolio-backend/internal/images"
	"github.com/dotoole/photofolio-backend/pkg/db/models"
	"github.com/dotoole/photofolio-backend/pkg/enums"
	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
)

type stubImagesService struct {
	all        []models.Image
	public     []models.Image
	featured   []models.Image
	byPublicID map[string]*models.Image

	inserted  *images.InsertInput
	insertErr error
	updatedID int64
	deletedID int64
	deleteErr error
}

func (s *stubImagesService) Insert(_ context.Context, input images.InsertInput) (*models.Image, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	s.inserted = &input
	return &models.Image{ID: 1, PublicID: "p1", StorageKey: input.StorageKey, URL: input.URL}, nil
}

func (s *stubImagesService) ListAll(context.Context) ([]models.Image, error)    { return s.all, nil }
func (s *stubImagesService) ListPublic(context.Context) ([]models.Image, error) { return s.public, nil }
func (s *stubImagesService) ListFeatured(context.Context) ([]models.Image, error) {
	return s.featured, nil
}

func (s *stubImagesService) GetByID(_ context.Context, id int64) (*models.Image, error) {
	for i := range s.all {
		if s.all[i].ID == id {
			return &s.all[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
}

func (s *stubImagesService) GetByPublicID(_ context.Context, publicID string) (*models.Image, error) {
	if row, ok := s.byPublicID[publicID]; ok {
		return row, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
}

func (s *stubImagesService) Update(_ context.Context, id int64, _ images.Fields) (*models.Image, error) {
	s.updatedID = id
	return &models.Image{ID: id, PublicID: "p1"}, nil
}

func (s *stubImagesService) Delete(_ context.Context, id int64) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedID = id
	return nil
}

func adminContext(r *http.Request) *http.Request {
	return r.WithContext(middleware.WithAdmin(r.Context()))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestImagesListFiltersForAnonymous(t *testing.T) {
	svc := &stubImagesService{
		all:    []models.Image{{ID: 1}, {ID: 2}, {ID: 3}},
		public: []models.Image{{ID: 1}},
	}
	handler := ImagesList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/images", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if list := decodeData[[]models.Image](t, rec); len(list) != 1 {
		t.Fatalf("anonymous caller must only see public records, got %d", len(list))
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, adminContext(req))
	if list := decodeData[[]models.Image](t, rec); len(list) != 3 {
		t.Fatalf("console must see every record, got %d", len(list))
	}
}

func TestImageGetHidesPrivateFromAnonymous(t *testing.T) {
	private := &models.Image{ID: 1, PublicID: "secret", Visibility: enums.VisibilityPrivate}
	unlisted := &models.Image{ID: 2, PublicID: "linked", Visibility: enums.VisibilityUnlisted}
	svc := &stubImagesService{byPublicID: map[string]*models.Image{"secret": private, "linked": unlisted}}
	handler := ImageGet(svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/images/secret", nil), "publicId", "secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("private record must 404 for anonymous, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, adminContext(req))
	if rec.Code != http.StatusOK {
		t.Fatalf("console must read private records, got %d", rec.Code)
	}

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/images/linked", nil), "publicId", "linked")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unlisted record must be readable by link, got %d", rec.Code)
	}
}

func TestImageRecordCommitsMetadata(t *testing.T) {
	svc := &stubImagesService{}
	handler := ImageRecord(svc, nil)

	body := `{"key":"123-abc-sunset.jpg","url":"https://img.example.com/123-abc-sunset.jpg","title":"Sunset","featured":true,"visibility":"unlisted","album_id":"street"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/images/record", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.inserted == nil {
		t.Fatal("insert not called")
	}
	if svc.inserted.StorageKey != "123-abc-sunset.jpg" {
		t.Fatalf("unexpected storage key %q", svc.inserted.StorageKey)
	}
	if svc.inserted.AlbumPublicID == nil || *svc.inserted.AlbumPublicID != "street" {
		t.Fatalf("album id not forwarded: %v", svc.inserted.AlbumPublicID)
	}
	if !svc.inserted.Fields.Featured || svc.inserted.Fields.Visibility != "unlisted" {
		t.Fatalf("fields not forwarded: %+v", svc.inserted.Fields)
	}
}

func TestImageRecordRejectsMissingKey(t *testing.T) {
	svc := &stubImagesService{}
	handler := ImageRecord(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/images/record", strings.NewReader(`{"url":"https://x/y"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.inserted != nil {
		t.Fatal("invalid payload must not reach the service")
	}
}

func TestImageUpdateParsesID(t *testing.T) {
	svc := &stubImagesService{}
	handler := ImageUpdate(svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/api/v1/images/42", strings.NewReader(`{"title":"New"}`)), "id", "42")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.updatedID != 42 {
		t.Fatalf("expected update on id 42, got %d", svc.updatedID)
	}

	req = withURLParam(httptest.NewRequest(http.MethodPatch, "/api/v1/images/nope", strings.NewReader(`{}`)), "id", "nope")
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestImageDelete(t *testing.T) {
	svc := &stubImagesService{}
	handler := ImageDelete(svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/images/7", nil), "id", "7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.deletedID != 7 {
		t.Fatalf("expected delete on id 7, got %d", svc.deletedID)
	}
}
