package models

// SiteSetting is a key/value row for singleton site state such as the
// profile image pointers.
type SiteSetting struct {
	Key       string `gorm:"column:key;primaryKey" json:"key"`
	Value     string `gorm:"column:value" json:"value"`
	UpdatedAt int64  `gorm:"column:updated_at;not null;autoUpdateTime:milli" json:"updated_at"`
}

// TableName keeps the legacy table name.
func (SiteSetting) TableName() string { return "site_settings" }
