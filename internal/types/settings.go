package types

import (
	"time"

	"gorm.io/datatypes"
)

// SettingsDefinition is the platform-wide schema for one configurable value
// (for example the OpenAI API key). It is created lazily by the first install
// of any user and is never deleted by an individual uninstall.
type SettingsDefinition struct {
	ID          string         `gorm:"primaryKey;column:id" json:"id"`
	Name        string         `gorm:"not null;column:name" json:"name"`
	Description string         `gorm:"column:description" json:"description"`
	Category    string         `gorm:"column:category" json:"category"`
	Tags        datatypes.JSON `gorm:"column:tags" json:"tags"`
	CreatedAt   time.Time      `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;column:updated_at" json:"updated_at"`
}

func (SettingsDefinition) TableName() string { return "settings_definition" }

// SettingsInstance is one user's concrete value for a SettingsDefinition.
// Created at install with an empty value, deleted at uninstall.
type SettingsInstance struct {
	ID           string         `gorm:"primaryKey;column:id" json:"id"`
	Name         string         `gorm:"not null;column:name" json:"name"`
	DefinitionID string         `gorm:"not null;index;column:definition_id" json:"definition_id"`
	Scope        string         `gorm:"not null;column:scope" json:"scope"`
	UserID       string         `gorm:"not null;index;column:user_id" json:"user_id"`
	Value        datatypes.JSON `gorm:"column:value" json:"-"`
	CreatedAt    time.Time      `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;column:updated_at" json:"updated_at"`
}

func (SettingsInstance) TableName() string { return "settings_instance" }
