package types

import (
	"time"

	"gorm.io/datatypes"
)

// Plugin is one user's installed copy of a platform plugin. The primary key
// is the composed identity "{owner_id}_{plugin_slug}", so "at most one
// installed copy per user" is enforced by the storage layer itself.
type Plugin struct {
	ID               string         `gorm:"primaryKey;column:id" json:"id"`
	UserID           string         `gorm:"not null;index;column:user_id" json:"user_id"`
	Name             string         `gorm:"not null;column:name" json:"name"`
	Description      string         `gorm:"column:description" json:"description"`
	Version          string         `gorm:"not null;column:version" json:"version"`
	Icon             string         `gorm:"column:icon" json:"icon"`
	Category         string         `gorm:"column:category" json:"category"`
	Official         bool           `gorm:"not null;default:false;column:official" json:"official"`
	Author           string         `gorm:"column:author" json:"author"`
	PluginSlug       string         `gorm:"not null;index;column:plugin_slug" json:"plugin_slug"`
	BundleMethod     string         `gorm:"column:bundle_method" json:"bundle_method"`
	BundleLocation   string         `gorm:"column:bundle_location" json:"bundle_location"`
	Scope            string         `gorm:"column:scope" json:"scope"`
	RequiredServices datatypes.JSON `gorm:"column:required_services" json:"required_services"`
	Permissions      datatypes.JSON `gorm:"column:permissions" json:"permissions"`
	CreatedAt        time.Time      `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;column:updated_at" json:"updated_at"`
}

func (Plugin) TableName() string { return "plugin" }
