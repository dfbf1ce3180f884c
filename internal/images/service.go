package images

import (
	"context"
	"errors"
	"fmt"

	"github.com/dotoole/photofolio-backend/pkg/db/models"
	"github.com/dotoole/photofolio-backend/pkg/enums"
	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type imageRepository interface {
	Create(ctx context.Context, image *models.Image) (*models.Image, error)
	FindByID(ctx context.Context, id int64) (*models.Image, error)
	FindByPublicID(ctx context.Context, publicID string) (*models.Image, error)
	ListAll(ctx context.Context) ([]models.Image, error)
	ListByVisibility(ctx context.Context, visibility enums.Visibility) ([]models.Image, error)
	ListFeaturedPublic(ctx context.Context) ([]models.Image, error)
	UpdateFields(ctx context.Context, id int64, columns map[string]any) error
	Delete(ctx context.Context, id int64) error
	DeleteMemberships(ctx context.Context, imageID int64) error
}

// AlbumJoiner links a freshly inserted image to an album. Implemented by the
// albums service; optional at construction.
type AlbumJoiner interface {
	AssignByPublicID(ctx context.Context, albumPublicID string, imageID int64) error
}

type objectRemover interface {
	Remove(ctx context.Context, key string) error
}

// ExifFields carries the camera metadata columns. Every field is optional.
type ExifFields struct {
	Make     *string
	Model    *string
	Lens     *string
	FNumber  *string
	Exposure *string
	ISO      *string
	Focal    *string
	TakenAt  *string
	Lat      *string
	Lng      *string
}

// Fields is the full editable surface of an image record. Updates replace all
// of it: a nil pointer clears the column.
type Fields struct {
	Title       *string
	Description *string
	Tag         *string
	Location    *string
	Exif        ExifFields
	Featured    bool
	Visibility  string
}

// InsertInput describes a committed upload. Storage pointers are set once here
// and never change afterwards.
type InsertInput struct {
	StorageKey    string
	URL           string
	ThumbKey      *string
	ThumbURL      *string
	Fields        Fields
	AlbumPublicID *string
}

// Service exposes image metadata semantics.
type Service interface {
	Insert(ctx context.Context, input InsertInput) (*models.Image, error)
	ListAll(ctx context.Context) ([]models.Image, error)
	ListPublic(ctx context.Context) ([]models.Image, error)
	ListFeatured(ctx context.Context) ([]models.Image, error)
	GetByID(ctx context.Context, id int64) (*models.Image, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.Image, error)
	Update(ctx context.Context, id int64, fields Fields) (*models.Image, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo    imageRepository
	albums  AlbumJoiner
	remover objectRemover
}

// NewService constructs an image service. The album joiner may be nil when no
// album wiring exists (tests); the remover is required because deletes must
// clean up stored objects.
func NewService(repo imageRepository, albums AlbumJoiner, remover objectRemover) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("image repository required")
	}
	if remover == nil {
		return nil, fmt.Errorf("object remover required")
	}
	return &service{repo: repo, albums: albums, remover: remover}, nil
}

func (s *service) Insert(ctx context.Context, input InsertInput) (*models.Image, error) {
	if input.StorageKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage key is required")
	}
	if input.URL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "url is required")
	}

	row := &models.Image{
		PublicID:   uuid.NewString(),
		StorageKey: input.StorageKey,
		URL:        input.URL,
		ThumbKey:   input.ThumbKey,
		ThumbURL:   input.ThumbURL,
	}
	applyFields(row, input.Fields)

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist image row")
	}

	if input.AlbumPublicID != nil && *input.AlbumPublicID != "" {
		if s.albums == nil {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "album assignment unavailable")
		}
		if err := s.albums.AssignByPublicID(ctx, *input.AlbumPublicID, created.ID); err != nil {
			// The image row stays; the join can be retried from the console.
			return nil, err
		}
	}

	return created, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.Image, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list images")
	}
	return rows, nil
}

func (s *service) ListPublic(ctx context.Context) ([]models.Image, error) {
	rows, err := s.repo.ListByVisibility(ctx, enums.VisibilityPublic)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list public images")
	}
	return rows, nil
}

func (s *service) ListFeatured(ctx context.Context) ([]models.Image, error) {
	rows, err := s.repo.ListFeaturedPublic(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured images")
	}
	return rows, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*models.Image, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load image")
	}
	return row, nil
}

func (s *service) GetByPublicID(ctx context.Context, publicID string) (*models.Image, error) {
	if publicID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "public id is required")
	}
	row, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load image")
	}
	return row, nil
}

func (s *service) Update(ctx context.Context, id int64, fields Fields) (*models.Image, error) {
	columns := fieldColumns(fields)
	if err := s.repo.UpdateFields(ctx, id, columns); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update image")
	}
	return s.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteMemberships(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove album memberships")
	}

	if err := s.remover.Remove(ctx, row.StorageKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove stored object")
	}
	if row.ThumbKey != nil && *row.ThumbKey != "" {
		// Best effort: a stranded thumbnail is preferable to a stuck delete.
		_ = s.remover.Remove(ctx, *row.ThumbKey)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete image row")
	}
	return nil
}

func applyFields(row *models.Image, fields Fields) {
	row.Title = fields.Title
	row.Description = fields.Description
	row.Tag = fields.Tag
	row.Location = fields.Location
	row.ExifMake = fields.Exif.Make
	row.ExifModel = fields.Exif.Model
	row.ExifLens = fields.Exif.Lens
	row.ExifFNumber = fields.Exif.FNumber
	row.ExifExposure = fields.Exif.Exposure
	row.ExifISO = fields.Exif.ISO
	row.ExifFocal = fields.Exif.Focal
	row.ExifTakenAt = fields.Exif.TakenAt
	row.ExifLat = fields.Exif.Lat
	row.ExifLng = fields.Exif.Lng
	row.Featured = fields.Featured
	row.Visibility = enums.NormalizeVisibility(fields.Visibility)
}

func fieldColumns(fields Fields) map[string]any {
	return map[string]any{
		"title":         fields.Title,
		"description":   fields.Description,
		"tag":           fields.Tag,
		"location":      fields.Location,
		"exif_make":     fields.Exif.Make,
		"exif_model":    fields.Exif.Model,
		"exif_lens":     fields.Exif.Lens,
		"exif_fnumber":  fields.Exif.FNumber,
		"exif_exposure": fields.Exif.Exposure,
		"exif_iso":      fields.Exif.ISO,
		"exif_focal":    fields.Exif.Focal,
		"exif_taken_at": fields.Exif.TakenAt,
		"exif_lat":      fields.Exif.Lat,
		"exif_lng":      fields.Exif.Lng,
		"featured":      fields.Featured,
		"visibility":    enums.NormalizeVisibility(fields.Visibility),
	}
}
