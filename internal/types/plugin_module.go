package types

import (
	"time"

	"gorm.io/datatypes"
)

// PluginModule is a frontend component shipped by a plugin. Identity is
// "{owner_id}_{component_name}"; rows are created and deleted together with
// their owning Plugin row.
type PluginModule struct {
	ID               string         `gorm:"primaryKey;column:id" json:"id"`
	PluginID         string         `gorm:"not null;index;column:plugin_id" json:"plugin_id"`
	UserID           string         `gorm:"not null;index;column:user_id" json:"user_id"`
	Name             string         `gorm:"not null;column:name" json:"name"`
	DisplayName      string         `gorm:"column:display_name" json:"display_name"`
	Description      string         `gorm:"column:description" json:"description"`
	Icon             string         `gorm:"column:icon" json:"icon"`
	Category         string         `gorm:"column:category" json:"category"`
	Props            datatypes.JSON `gorm:"column:props" json:"props"`
	ConfigFields     datatypes.JSON `gorm:"column:config_fields" json:"config_fields"`
	RequiredServices datatypes.JSON `gorm:"column:required_services" json:"required_services"`
	Layout           datatypes.JSON `gorm:"column:layout" json:"layout"`
	Tags             datatypes.JSON `gorm:"column:tags" json:"tags"`
	CreatedAt        time.Time      `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;column:updated_at" json:"updated_at"`
}

func (PluginModule) TableName() string { return "plugin_module" }
