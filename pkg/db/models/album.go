package models

import "github.com/dotoole/photofolio-backend/pkg/enums"

// Album groups images for a curated gallery page.
type Album struct {
	ID          int64            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PublicID    string           `gorm:"column:public_id;not null;unique" json:"public_id"`
	Title       string           `gorm:"column:title;not null" json:"title"`
	Description *string          `gorm:"column:description" json:"description"`
	Tag         *string          `gorm:"column:tag" json:"tag"`
	Visibility  enums.Visibility `gorm:"column:visibility;not null;default:public" json:"visibility"`
	CreatedAt   int64            `gorm:"column:created_at;not null;autoCreateTime:milli" json:"created_at"`
}

// TableName keeps the legacy table name.
func (Album) TableName() string { return "albums" }
