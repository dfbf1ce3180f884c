package models

// AlbumImage joins albums to their member images. The created_at column only
// orders join entries by insertion time.
type AlbumImage struct {
	AlbumID   int64 `gorm:"column:album_id;primaryKey" json:"album_id"`
	ImageID   int64 `gorm:"column:image_id;primaryKey" json:"image_id"`
	CreatedAt int64 `gorm:"column:created_at;not null;autoCreateTime:milli" json:"created_at"`
}

// TableName keeps the legacy table name.
func (AlbumImage) TableName() string { return "album_images" }
