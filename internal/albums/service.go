package albums

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dotoole/photofolio-backend/pkg/db"
	"github.com/dotoole/photofolio-backend/pkg/db/models"
	"github.com/dotoole/photofolio-backend/pkg/enums"
	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type albumRepository interface {
	Create(ctx context.Context, album *models.Album) (*models.Album, error)
	FindByID(ctx context.Context, id int64) (*models.Album, error)
	FindByPublicID(ctx context.Context, publicID string) (*models.Album, error)
	ListAll(ctx context.Context) ([]models.Album, error)
	UpdateFields(ctx context.Context, id int64, columns map[string]any) error
	Delete(ctx context.Context, id int64) error
	DeleteMemberships(ctx context.Context, albumID int64) error
	AddMembership(ctx context.Context, albumID, imageID int64) error
	ListImages(ctx context.Context, albumID int64) ([]models.Image, error)
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9\-_]+`)

// Fields is the editable surface of an album. Updates replace all of it.
type Fields struct {
	PublicID    *string
	Title       string
	Description *string
	Tag         *string
	Visibility  string
}

// PublicView is an album together with its visible member images.
type PublicView struct {
	Album  models.Album   `json:"album"`
	Images []models.Image `json:"images"`
}

// Service exposes album semantics.
type Service interface {
	Create(ctx context.Context, fields Fields) (*models.Album, error)
	ListAll(ctx context.Context) ([]models.Album, error)
	GetByID(ctx context.Context, id int64) (*models.Album, error)
	Update(ctx context.Context, id int64, fields Fields) (*models.Album, error)
	Delete(ctx context.Context, id int64) error
	AssignImages(ctx context.Context, albumID int64, imageIDs []int64) error
	AssignByPublicID(ctx context.Context, albumPublicID string, imageID int64) error
	ListImages(ctx context.Context, albumID int64) ([]models.Image, error)
	GetPublicView(ctx context.Context, publicID string, includeAll bool) (*PublicView, error)
}

type service struct {
	repo albumRepository
}

// NewService constructs an album service.
func NewService(repo albumRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("album repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, fields Fields) (*models.Album, error) {
	title := strings.TrimSpace(fields.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	publicID := slugOrRandom(fields.PublicID)
	row := &models.Album{
		PublicID:    publicID,
		Title:       title,
		Description: fields.Description,
		Tag:         fields.Tag,
		Visibility:  enums.NormalizeVisibility(fields.Visibility),
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "album public id already exists").
				WithDetails(map[string]any{"public_id": publicID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist album row")
	}
	return created, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.Album, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list albums")
	}
	return rows, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*models.Album, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "album not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load album")
	}
	return row, nil
}

func (s *service) Update(ctx context.Context, id int64, fields Fields) (*models.Album, error) {
	title := strings.TrimSpace(fields.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	publicID := current.PublicID
	if fields.PublicID != nil {
		if slug := sanitizeSlug(*fields.PublicID); slug != "" {
			publicID = slug
		}
	}

	columns := map[string]any{
		"public_id":   publicID,
		"title":       title,
		"description": fields.Description,
		"tag":         fields.Tag,
		"visibility":  enums.NormalizeVisibility(fields.Visibility),
	}
	if err := s.repo.UpdateFields(ctx, id, columns); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "album public id already exists").
				WithDetails(map[string]any{"public_id": publicID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update album")
	}
	return s.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteMemberships(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove album memberships")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete album row")
	}
	return nil
}

func (s *service) AssignImages(ctx context.Context, albumID int64, imageIDs []int64) error {
	if _, err := s.GetByID(ctx, albumID); err != nil {
		return err
	}
	for _, imageID := range imageIDs {
		if err := s.repo.AddMembership(ctx, albumID, imageID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign image to album")
		}
	}
	return nil
}

func (s *service) AssignByPublicID(ctx context.Context, albumPublicID string, imageID int64) error {
	row, err := s.repo.FindByPublicID(ctx, albumPublicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "album not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load album")
	}
	if err := s.repo.AddMembership(ctx, row.ID, imageID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign image to album")
	}
	return nil
}

func (s *service) ListImages(ctx context.Context, albumID int64) ([]models.Image, error) {
	if _, err := s.GetByID(ctx, albumID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListImages(ctx, albumID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list album images")
	}
	return rows, nil
}

// GetPublicView loads an album by public id. Unauthenticated callers only see
// public member images; the console sees everything.
func (s *service) GetPublicView(ctx context.Context, publicID string, includeAll bool) (*PublicView, error) {
	if publicID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "public id is required")
	}
	album, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "album not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load album")
	}
	if !includeAll && album.Visibility == enums.VisibilityPrivate {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "album not found")
	}

	members, err := s.repo.ListImages(ctx, album.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list album images")
	}

	images := members
	if !includeAll {
		images = images[:0]
		for _, img := range members {
			if img.Visibility == enums.VisibilityPublic {
				images = append(images, img)
			}
		}
	}
	if images == nil {
		images = []models.Image{}
	}

	return &PublicView{Album: *album, Images: images}, nil
}

func slugOrRandom(raw *string) string {
	if raw != nil {
		if slug := sanitizeSlug(*raw); slug != "" {
			return slug
		}
	}
	return uuid.NewString()
}

// sanitizeSlug lowercases, turns whitespace into dashes, and strips anything
// that would need URL escaping.
func sanitizeSlug(raw string) string {
	slug := strings.ToLower(strings.TrimSpace(raw))
	slug = strings.Join(strings.Fields(slug), "-")
	slug = slugStripRe.ReplaceAllString(slug, "")
	return strings.Trim(slug, "-")
}
