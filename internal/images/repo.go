package images

import (
	"context"

	"github.com/dotoole/photofolio-backend/pkg/db/models"
	"github.com/dotoole/photofolio-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes image metadata persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an image repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists an image record.
func (r *Repository) Create(ctx context.Context, image *models.Image) (*models.Image, error) {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

// FindByID retrieves an image record by internal id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Image, error) {
	var img models.Image
	if err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

// FindByPublicID retrieves an image record by its public identifier.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*models.Image, error) {
	var img models.Image
	if err := r.db.WithContext(ctx).First(&img, "public_id = ?", publicID).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

// ListAll returns every image, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Image, error) {
	var rows []models.Image
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByVisibility returns images with exactly the given visibility, newest first.
func (r *Repository) ListByVisibility(ctx context.Context, visibility enums.Visibility) ([]models.Image, error) {
	var rows []models.Image
	err := r.db.WithContext(ctx).
		Where("visibility = ?", visibility).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListFeaturedPublic returns public images flagged for the homepage, newest first.
func (r *Repository) ListFeaturedPublic(ctx context.Context) ([]models.Image, error) {
	var rows []models.Image
	err := r.db.WithContext(ctx).
		Where("visibility = ? AND featured = ?", enums.VisibilityPublic, true).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateFields applies a full replacement of the editable columns. Nil values
// land as SQL NULL, which is how omitted form fields clear previous edits.
func (r *Repository) UpdateFields(ctx context.Context, id int64, columns map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.Image{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an image record.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Image{}).Error
}

// DeleteMemberships removes every album membership row pointing at the image.
func (r *Repository) DeleteMemberships(ctx context.Context, imageID int64) error {
	return r.db.WithContext(ctx).Where("image_id = ?", imageID).Delete(&models.AlbumImage{}).Error
}
