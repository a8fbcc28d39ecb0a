package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/pluginhost-backend/internal/catalog"
	"github.com/yungbote/pluginhost-backend/internal/platform/dbctx"
	"github.com/yungbote/pluginhost-backend/internal/platform/logger"
	"github.com/yungbote/pluginhost-backend/internal/pluginfs"
	"github.com/yungbote/pluginhost-backend/internal/repos"
	"github.com/yungbote/pluginhost-backend/internal/types"
)

// LifecycleService transitions one user's plugin between absent and
// installed. Filesystem side effects happen before the database commit so a
// failed commit never leaves a row pointing at missing files; every
// filesystem action has a paired compensating delete so a later failure never
// leaves files with no matching row. Compensation is best effort: its own
// failures are logged, never escalated.
type LifecycleService interface {
	Install(ctx context.Context, ownerID string) (*InstallResult, error)
	Uninstall(ctx context.Context, ownerID string) (*UninstallResult, error)
	Status(ctx context.Context, ownerID string) (*StatusResult, error)
}

type InstallResult struct {
	PluginID        string   `json:"plugin_id"`
	PluginSlug      string   `json:"plugin_slug"`
	ModulesCreated  []string `json:"modules_created"`
	PluginDirectory string   `json:"plugin_directory"`
	SettingsCreated []string `json:"settings_created"`
}

type UninstallResult struct {
	PluginSlug      string `json:"plugin_slug"`
	ModulesRemoved  int64  `json:"modules_removed"`
	SettingsRemoved int64  `json:"settings_removed"`
}

type StatusResult struct {
	PluginSlug string `json:"plugin_slug"`
	PluginName string `json:"plugin_name"`
	Installed  bool   `json:"installed"`
	PluginID   string `json:"plugin_id,omitempty"`
}

type lifecycleService struct {
	db          *gorm.DB
	log         *logger.Logger
	tpl         catalog.Template
	store       pluginfs.Store
	plugins     repos.PluginRepo
	modules     repos.PluginModuleRepo
	definitions repos.SettingsDefinitionRepo
	instances   repos.SettingsInstanceRepo
}

func NewLifecycleService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tpl catalog.Template,
	store pluginfs.Store,
	plugins repos.PluginRepo,
	modules repos.PluginModuleRepo,
	definitions repos.SettingsDefinitionRepo,
	instances repos.SettingsInstanceRepo,
) LifecycleService {
	return &lifecycleService{
		db:          db,
		log:         baseLog.With("service", "LifecycleService", "plugin_slug", tpl.Plugin.Slug),
		tpl:         tpl,
		store:       store,
		plugins:     plugins,
		modules:     modules,
		definitions: definitions,
		instances:   instances,
	}
}

func (s *lifecycleService) Install(ctx context.Context, ownerID string) (*InstallResult, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, lifecycleErr(CodeUnexpected, fmt.Errorf("missing owner id"))
	}
	s.log.Info("Installing plugin", "owner_id", ownerID)

	pluginID := s.tpl.PluginID(ownerID)

	existing, err := s.plugins.GetByID(dbctx.Context{Ctx: ctx}, pluginID)
	if err != nil {
		return nil, lifecycleErr(CodeUnexpected, err)
	}
	if existing != nil {
		return nil, &LifecycleError{
			Code:     CodeAlreadyInstalled,
			PluginID: existing.ID,
			Err:      fmt.Errorf("plugin already installed for user"),
		}
	}

	userDir := s.store.UserPluginDir(ownerID, s.tpl.Plugin.Slug)
	if err := s.store.EnsureDir(userDir); err != nil {
		return nil, lifecycleErr(CodeDirectoryCreateFailed, err)
	}

	templateDir := s.store.SharedTemplateDir(s.tpl.Plugin.Slug)
	if err := s.store.StageTemplate(templateDir, userDir); err != nil {
		s.compensateDirectory(ownerID, userDir)
		return nil, lifecycleErr(CodeFileStagingFailed, err)
	}

	var result *InstallResult
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		now := time.Now().UTC()

		plugin := s.tpl.NewPlugin(ownerID, now)
		if _, err := s.plugins.Create(dbc, []*types.Plugin{plugin}); err != nil {
			return lifecycleErr(CodeRecordCreateFailed, err)
		}
		moduleRows := s.tpl.NewModules(ownerID, pluginID, now)
		if _, err := s.modules.Create(dbc, moduleRows); err != nil {
			return lifecycleErr(CodeRecordCreateFailed, err)
		}

		definitionCreated, err := s.definitions.EnsureCreate(dbc, s.tpl.NewSettingsDefinition(now))
		if err != nil {
			return lifecycleErr(CodeSettingsCreateFailed, err)
		}
		instance := s.tpl.NewSettingsInstance(ownerID, now)
		if _, err := s.instances.Create(dbc, []*types.SettingsInstance{instance}); err != nil {
			return lifecycleErr(CodeSettingsCreateFailed, err)
		}

		// The staged directory must actually contain the manifest-declared
		// bundle artifact before any row becomes visible.
		artifact := filepath.Join(userDir, filepath.FromSlash(s.tpl.Plugin.BundleLocation))
		if !s.store.Exists(artifact) {
			return lifecycleErr(CodeValidationFailed, fmt.Errorf("bundle artifact not found: %s", s.tpl.Plugin.BundleLocation))
		}

		moduleIDs := make([]string, 0, len(moduleRows))
		for _, m := range moduleRows {
			moduleIDs = append(moduleIDs, m.ID)
		}
		settingsCreated := make([]string, 0, 2)
		if definitionCreated {
			settingsCreated = append(settingsCreated, s.tpl.Settings.DefinitionID)
		}
		settingsCreated = append(settingsCreated, instance.ID)

		result = &InstallResult{
			PluginID:        pluginID,
			PluginSlug:      s.tpl.Plugin.Slug,
			ModulesCreated:  moduleIDs,
			PluginDirectory: userDir,
			SettingsCreated: settingsCreated,
		}
		return nil
	})
	if txErr != nil {
		s.compensateDirectory(ownerID, userDir)
		if le, ok := AsLifecycleError(txErr); ok {
			return nil, le
		}
		return nil, lifecycleErr(CodeUnexpected, txErr)
	}

	s.log.Info("Plugin installed",
		"owner_id", ownerID,
		"plugin_id", pluginID,
		"plugin_directory", userDir,
	)
	return result, nil
}

func (s *lifecycleService) Uninstall(ctx context.Context, ownerID string) (*UninstallResult, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, lifecycleErr(CodeUnexpected, fmt.Errorf("missing owner id"))
	}
	s.log.Info("Uninstalling plugin", "owner_id", ownerID)

	pluginID := s.tpl.PluginID(ownerID)

	existing, err := s.plugins.GetByID(dbctx.Context{Ctx: ctx}, pluginID)
	if err != nil {
		return nil, lifecycleErr(CodeUnexpected, err)
	}
	if existing == nil {
		return nil, lifecycleErr(CodeNotInstalled, fmt.Errorf("plugin not installed for user"))
	}

	var modulesRemoved, settingsRemoved int64
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		n, err := s.modules.DeleteByPluginID(dbc, pluginID)
		if err != nil {
			return err
		}
		modulesRemoved = n

		if _, err := s.plugins.DeleteByID(dbc, pluginID); err != nil {
			return err
		}

		n, err = s.instances.DeleteByDefinitionAndUser(dbc, s.tpl.Settings.DefinitionID, ownerID)
		if err != nil {
			return err
		}
		settingsRemoved = n
		return nil
	})
	if txErr != nil {
		return nil, lifecycleErr(CodeUnexpected, txErr)
	}

	// The records are already gone; a failed directory removal leaves a
	// lingering tree but must not resurface as an operation failure.
	userDir := s.store.UserPluginDir(ownerID, s.tpl.Plugin.Slug)
	if s.store.Exists(userDir) {
		if err := s.store.RemoveTree(userDir); err != nil {
			s.log.Warn("Failed to remove plugin directory after uninstall",
				"owner_id", ownerID,
				"plugin_directory", userDir,
				"error", err,
			)
		}
	}

	s.log.Info("Plugin uninstalled",
		"owner_id", ownerID,
		"modules_removed", modulesRemoved,
		"settings_removed", settingsRemoved,
	)
	return &UninstallResult{
		PluginSlug:      s.tpl.Plugin.Slug,
		ModulesRemoved:  modulesRemoved,
		SettingsRemoved: settingsRemoved,
	}, nil
}

func (s *lifecycleService) Status(ctx context.Context, ownerID string) (*StatusResult, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, lifecycleErr(CodeUnexpected, fmt.Errorf("missing owner id"))
	}

	existing, err := s.plugins.GetByID(dbctx.Context{Ctx: ctx}, s.tpl.PluginID(ownerID))
	if err != nil {
		return nil, lifecycleErr(CodeUnexpected, err)
	}
	res := &StatusResult{
		PluginSlug: s.tpl.Plugin.Slug,
		PluginName: s.tpl.Plugin.Name,
		Installed:  existing != nil,
	}
	if existing != nil {
		res.PluginID = existing.ID
	}
	return res, nil
}

func (s *lifecycleService) compensateDirectory(ownerID, userDir string) {
	if err := s.store.RemoveTree(userDir); err != nil {
		s.log.Error("Compensating cleanup failed, directory may be orphaned",
			"owner_id", ownerID,
			"plugin_directory", userDir,
			"error", err,
		)
	}
}
