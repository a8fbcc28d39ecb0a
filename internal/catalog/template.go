// Package catalog holds plugin metadata as data. A Template carries
// everything the lifecycle service needs to materialize one user's copy of a
// plugin: the plugin row, its module rows, and the settings schema, with
// identity fields and timestamps computed per owner at install time.
package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/pluginhost-backend/internal/types"
)

type Template struct {
	Plugin   PluginTemplate
	Modules  []ModuleTemplate
	Settings SettingsTemplate
}

type PluginTemplate struct {
	Slug             string
	Name             string
	Description      string
	Version          string
	Icon             string
	Category         string
	Official         bool
	Author           string
	BundleMethod     string
	BundleLocation   string
	Scope            string
	RequiredServices []string
	Permissions      []string
}

type ModuleTemplate struct {
	ComponentName    string
	DisplayName      string
	Description      string
	Icon             string
	Category         string
	Props            map[string]any
	ConfigFields     map[string]any
	RequiredServices []string
	Layout           map[string]any
	Tags             []string
}

type SettingsTemplate struct {
	DefinitionID          string
	DefinitionName        string
	DefinitionDescription string
	Category              string
	Tags                  []string
	InstanceIDPrefix      string
	InstanceName          string
}

// PluginID is the composed per-owner identity "{owner_id}_{slug}".
func (t Template) PluginID(ownerID string) string {
	return fmt.Sprintf("%s_%s", ownerID, t.Plugin.Slug)
}

func (t Template) SettingsInstanceID(ownerID string) string {
	return fmt.Sprintf("%s_%s", t.Settings.InstanceIDPrefix, ownerID)
}

func (t Template) NewPlugin(ownerID string, now time.Time) *types.Plugin {
	return &types.Plugin{
		ID:               t.PluginID(ownerID),
		UserID:           ownerID,
		Name:             t.Plugin.Name,
		Description:      t.Plugin.Description,
		Version:          t.Plugin.Version,
		Icon:             t.Plugin.Icon,
		Category:         t.Plugin.Category,
		Official:         t.Plugin.Official,
		Author:           t.Plugin.Author,
		PluginSlug:       t.Plugin.Slug,
		BundleMethod:     t.Plugin.BundleMethod,
		BundleLocation:   t.Plugin.BundleLocation,
		Scope:            t.Plugin.Scope,
		RequiredServices: mustJSON(t.Plugin.RequiredServices),
		Permissions:      mustJSON(t.Plugin.Permissions),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (t Template) NewModules(ownerID, pluginID string, now time.Time) []*types.PluginModule {
	rows := make([]*types.PluginModule, 0, len(t.Modules))
	for _, m := range t.Modules {
		rows = append(rows, &types.PluginModule{
			ID:               fmt.Sprintf("%s_%s", ownerID, m.ComponentName),
			PluginID:         pluginID,
			UserID:           ownerID,
			Name:             m.ComponentName,
			DisplayName:      m.DisplayName,
			Description:      m.Description,
			Icon:             m.Icon,
			Category:         m.Category,
			Props:            mustJSON(m.Props),
			ConfigFields:     mustJSON(m.ConfigFields),
			RequiredServices: mustJSON(m.RequiredServices),
			Layout:           mustJSON(m.Layout),
			Tags:             mustJSON(m.Tags),
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}
	return rows
}

func (t Template) NewSettingsDefinition(now time.Time) *types.SettingsDefinition {
	return &types.SettingsDefinition{
		ID:          t.Settings.DefinitionID,
		Name:        t.Settings.DefinitionName,
		Description: t.Settings.DefinitionDescription,
		Category:    t.Settings.Category,
		Tags:        mustJSON(t.Settings.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (t Template) NewSettingsInstance(ownerID string, now time.Time) *types.SettingsInstance {
	return &types.SettingsInstance{
		ID:           t.SettingsInstanceID(ownerID),
		Name:         t.Settings.InstanceName,
		DefinitionID: t.Settings.DefinitionID,
		Scope:        "user",
		UserID:       ownerID,
		Value:        datatypes.JSON([]byte("{}")),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Template values are static package data, so a marshal failure is a
// programming error surfaced as an empty JSON document rather than a panic.
func mustJSON(v any) datatypes.JSON {
	if v == nil {
		return datatypes.JSON([]byte("null"))
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(raw)
}
