package models

import "github.com/dotoole/photofolio-backend/pkg/enums"

// Image is one gallery photograph: pointers into object storage plus the
// descriptive and EXIF metadata shown alongside it.
type Image struct {
	ID         int64            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PublicID   string           `gorm:"column:public_id;not null;unique" json:"public_id"`
	StorageKey string           `gorm:"column:storage_key;not null" json:"key"`
	URL        string           `gorm:"column:url;not null" json:"url"`
	ThumbKey   *string          `gorm:"column:thumb_key" json:"thumb_key"`
	ThumbURL   *string          `gorm:"column:thumb_url" json:"thumb_url"`

	Title       *string `gorm:"column:title" json:"title"`
	Description *string `gorm:"column:description" json:"description"`
	Tag         *string `gorm:"column:tag" json:"tag"`
	Location    *string `gorm:"column:location" json:"location"`

	ExifMake     *string `gorm:"column:exif_make" json:"exif_make"`
	ExifModel    *string `gorm:"column:exif_model" json:"exif_model"`
	ExifLens     *string `gorm:"column:exif_lens" json:"exif_lens"`
	ExifFNumber  *string `gorm:"column:exif_fnumber" json:"exif_fnumber"`
	ExifExposure *string `gorm:"column:exif_exposure" json:"exif_exposure"`
	ExifISO      *string `gorm:"column:exif_iso" json:"exif_iso"`
	ExifFocal    *string `gorm:"column:exif_focal" json:"exif_focal"`
	ExifTakenAt  *string `gorm:"column:exif_taken_at" json:"exif_taken_at"`
	ExifLat      *string `gorm:"column:exif_lat" json:"exif_lat"`
	ExifLng      *string `gorm:"column:exif_lng" json:"exif_lng"`

	Featured   bool             `gorm:"column:featured;not null;default:false" json:"featured"`
	Visibility enums.Visibility `gorm:"column:visibility;not null;default:public" json:"visibility"`
	CreatedAt  int64            `gorm:"column:created_at;not null;autoCreateTime:milli" json:"created_at"`
}

// TableName keeps the legacy table name.
func (Image) TableName() string { return "images" }
