package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dotoole/photofolio-backend/pkg/db/models"
	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	settingProfileImageKey = "profile_image_key"
	settingProfileImageURL = "profile_image_url"
)

type objectRemover interface {
	Remove(ctx context.Context, key string) error
}

// ProfileImage is the site-wide portrait shown on the public homepage.
type ProfileImage struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Service manages the profile-image singleton stored in site settings.
type Service interface {
	Get(ctx context.Context) (*ProfileImage, error)
	Set(ctx context.Context, key, url string) (*ProfileImage, error)
}

type service struct {
	db      *gorm.DB
	remover objectRemover
}

// NewService constructs a profile service over the settings table.
func NewService(db *gorm.DB, remover objectRemover) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	if remover == nil {
		return nil, fmt.Errorf("object remover required")
	}
	return &service{db: db, remover: remover}, nil
}

// Get returns the current profile image, or nil when none is set.
func (s *service) Get(ctx context.Context) (*ProfileImage, error) {
	key, err := s.setting(ctx, settingProfileImageKey)
	if err != nil {
		return nil, err
	}
	url, err := s.setting(ctx, settingProfileImageURL)
	if err != nil {
		return nil, err
	}
	if key == "" || url == "" {
		return nil, nil
	}
	return &ProfileImage{Key: key, URL: url}, nil
}

// Set replaces the profile image. When a previous image with a different key
// exists, its stored object is removed first so replacements do not leak.
func (s *service) Set(ctx context.Context, key, url string) (*ProfileImage, error) {
	key = strings.TrimSpace(key)
	url = strings.TrimSpace(url)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "key is required")
	}
	if url == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "url is required")
	}

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil && current.Key != key {
		if err := s.remover.Remove(ctx, current.Key); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove previous profile image")
		}
	}

	if err := s.upsert(ctx, settingProfileImageKey, key); err != nil {
		return nil, err
	}
	if err := s.upsert(ctx, settingProfileImageURL, url); err != nil {
		return nil, err
	}
	return &ProfileImage{Key: key, URL: url}, nil
}

func (s *service) setting(ctx context.Context, name string) (string, error) {
	var row models.SiteSetting
	err := s.db.WithContext(ctx).First(&row, "key = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load site setting")
	}
	return row.Value, nil
}

func (s *service) upsert(ctx context.Context, name, value string) error {
	row := &models.SiteSetting{Key: name, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store site setting")
	}
	return nil
}
