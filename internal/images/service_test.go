package images

import (
	"context"
	"errors"
	"testing"

	"github.com/dotoole/photofolio-backend/pkg/db/models"
	"github.com/dotoole/photofolio-backend/pkg/enums"
	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubImageRepo struct {
	created            *models.Image
	createErr          error
	byID               map[int64]*models.Image
	deletedIDs         []int64
	deletedMemberships []int64
	updateColumns      map[string]any
}

func (s *stubImageRepo) Create(_ context.Context, image *models.Image) (*models.Image, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	image.ID = 42
	s.created = image
	return image, nil
}

func (s *stubImageRepo) FindByID(_ context.Context, id int64) (*models.Image, error) {
	if row, ok := s.byID[id]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubImageRepo) FindByPublicID(_ context.Context, publicID string) (*models.Image, error) {
	for _, row := range s.byID {
		if row.PublicID == publicID {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubImageRepo) ListAll(context.Context) ([]models.Image, error) { return nil, nil }
func (s *stubImageRepo) ListByVisibility(context.Context, enums.Visibility) ([]models.Image, error) {
	return nil, nil
}
func (s *stubImageRepo) ListFeaturedPublic(context.Context) ([]models.Image, error) {
	return nil, nil
}

func (s *stubImageRepo) UpdateFields(_ context.Context, id int64, columns map[string]any) error {
	if _, ok := s.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.updateColumns = columns
	return nil
}

func (s *stubImageRepo) Delete(_ context.Context, id int64) error {
	s.deletedIDs = append(s.deletedIDs, id)
	delete(s.byID, id)
	return nil
}

func (s *stubImageRepo) DeleteMemberships(_ context.Context, imageID int64) error {
	s.deletedMemberships = append(s.deletedMemberships, imageID)
	return nil
}

type stubRemover struct {
	removed []string
	failOn  string
}

func (s *stubRemover) Remove(_ context.Context, key string) error {
	if s.failOn != "" && key == s.failOn {
		return errors.New("storage unavailable")
	}
	s.removed = append(s.removed, key)
	return nil
}

type stubJoiner struct {
	albumPublicID string
	imageID       int64
	err           error
}

func (s *stubJoiner) AssignByPublicID(_ context.Context, albumPublicID string, imageID int64) error {
	if s.err != nil {
		return s.err
	}
	s.albumPublicID = albumPublicID
	s.imageID = imageID
	return nil
}

func TestInsertAssignsIdentityAndNormalizesVisibility(t *testing.T) {
	repo := &stubImageRepo{}
	svc, err := NewService(repo, nil, &stubRemover{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	created, err := svc.Insert(context.Background(), InsertInput{
		StorageKey: "key",
		URL:        "https://img.example.com/key",
		Fields:     Fields{Visibility: "sekrit"},
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if created.PublicID == "" {
		t.Fatal("expected a public id to be assigned")
	}
	if created.Visibility != enums.VisibilityPublic {
		t.Fatalf("unknown visibility must normalize to public, got %q", created.Visibility)
	}
}

func TestInsertValidatesStoragePointers(t *testing.T) {
	svc, err := NewService(&stubImageRepo{}, nil, &stubRemover{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Insert(context.Background(), InsertInput{URL: "https://x"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = svc.Insert(context.Background(), InsertInput{StorageKey: "key"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInsertJoinsAlbumWhenRequested(t *testing.T) {
	repo := &stubImageRepo{}
	joiner := &stubJoiner{}
	svc, err := NewService(repo, joiner, &stubRemover{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	album := "travel-2026"
	created, err := svc.Insert(context.Background(), InsertInput{
		StorageKey:    "key",
		URL:           "https://img.example.com/key",
		AlbumPublicID: &album,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if joiner.albumPublicID != album || joiner.imageID != created.ID {
		t.Fatalf("expected album join for %s/%d, got %s/%d", album, created.ID, joiner.albumPublicID, joiner.imageID)
	}
}

func TestDeleteRemovesMembershipsObjectsThenRow(t *testing.T) {
	thumb := "thumb-key"
	row := &models.Image{ID: 7, PublicID: "pid", StorageKey: "full-key", ThumbKey: &thumb}
	repo := &stubImageRepo{byID: map[int64]*models.Image{7: row}}
	remover := &stubRemover{}
	svc, err := NewService(repo, nil, remover)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(repo.deletedMemberships) != 1 || repo.deletedMemberships[0] != 7 {
		t.Fatalf("expected membership cleanup, got %v", repo.deletedMemberships)
	}
	if len(remover.removed) != 2 || remover.removed[0] != "full-key" || remover.removed[1] != "thumb-key" {
		t.Fatalf("expected both objects removed, got %v", remover.removed)
	}
	if len(repo.deletedIDs) != 1 || repo.deletedIDs[0] != 7 {
		t.Fatalf("expected row delete, got %v", repo.deletedIDs)
	}
}

func TestDeleteAbortsWhenObjectRemovalFails(t *testing.T) {
	row := &models.Image{ID: 7, PublicID: "pid", StorageKey: "full-key"}
	repo := &stubImageRepo{byID: map[int64]*models.Image{7: row}}
	remover := &stubRemover{failOn: "full-key"}
	svc, err := NewService(repo, nil, remover)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.Delete(context.Background(), 7); err == nil {
		t.Fatal("expected delete to fail when storage removal fails")
	}
	if len(repo.deletedIDs) != 0 {
		t.Fatal("record must survive a failed storage removal")
	}
}

func TestGetByPublicIDNotFound(t *testing.T) {
	svc, err := NewService(&stubImageRepo{}, nil, &stubRemover{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	_, err = svc.GetByPublicID(context.Background(), "missing")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
