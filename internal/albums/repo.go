package albums

import (
	"context"

	"github.com/dotoole/photofolio-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes album persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an album repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists an album record.
func (r *Repository) Create(ctx context.Context, album *models.Album) (*models.Album, error) {
	if err := r.db.WithContext(ctx).Create(album).Error; err != nil {
		return nil, err
	}
	return album, nil
}

// FindByID retrieves an album record by internal id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Album, error) {
	var album models.Album
	if err := r.db.WithContext(ctx).First(&album, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &album, nil
}

// FindByPublicID retrieves an album record by its public identifier.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*models.Album, error) {
	var album models.Album
	if err := r.db.WithContext(ctx).First(&album, "public_id = ?", publicID).Error; err != nil {
		return nil, err
	}
	return &album, nil
}

// ListAll returns every album, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Album, error) {
	var rows []models.Album
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateFields applies a full replacement of the editable columns.
func (r *Repository) UpdateFields(ctx context.Context, id int64, columns map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.Album{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an album record.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Album{}).Error
}

// DeleteMemberships removes every membership row belonging to the album.
// Member images are untouched.
func (r *Repository) DeleteMemberships(ctx context.Context, albumID int64) error {
	return r.db.WithContext(ctx).Where("album_id = ?", albumID).Delete(&models.AlbumImage{}).Error
}

// AddMembership inserts a membership row. The composite key makes repeats a
// no-op, which is what keeps batch assignment idempotent.
func (r *Repository) AddMembership(ctx context.Context, albumID, imageID int64) error {
	row := &models.AlbumImage{AlbumID: albumID, ImageID: imageID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

// ListImages returns the album's member images in insertion order.
func (r *Repository) ListImages(ctx context.Context, albumID int64) ([]models.Image, error) {
	var rows []models.Image
	err := r.db.WithContext(ctx).
		Model(&models.Image{}).
		Joins("JOIN album_images ON album_images.image_id = images.id").
		Where("album_images.album_id = ?", albumID).
		Order("album_images.created_at ASC, album_images.image_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
