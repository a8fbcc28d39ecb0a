package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/pluginhost-backend/internal/platform/dbctx"
	"github.com/yungbote/pluginhost-backend/internal/platform/logger"
	"github.com/yungbote/pluginhost-backend/internal/types"
)

type PluginModuleRepo interface {
	Create(dbc dbctx.Context, modules []*types.PluginModule) ([]*types.PluginModule, error)
	ListByPluginID(dbc dbctx.Context, pluginID string) ([]*types.PluginModule, error)
	DeleteByPluginID(dbc dbctx.Context, pluginID string) (int64, error)
}

type pluginModuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPluginModuleRepo(db *gorm.DB, baseLog *logger.Logger) PluginModuleRepo {
	repoLog := baseLog.With("repo", "PluginModuleRepo")
	return &pluginModuleRepo{db: db, log: repoLog}
}

func (mr *pluginModuleRepo) Create(dbc dbctx.Context, modules []*types.PluginModule) ([]*types.PluginModule, error) {
	if len(modules) == 0 {
		return []*types.PluginModule{}, nil
	}
	if err := dbc.DB(mr.db).WithContext(dbc.Ctx).Create(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (mr *pluginModuleRepo) ListByPluginID(dbc dbctx.Context, pluginID string) ([]*types.PluginModule, error) {
	var results []*types.PluginModule
	if err := dbc.DB(mr.db).WithContext(dbc.Ctx).
		Where("plugin_id = ?", pluginID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *pluginModuleRepo) DeleteByPluginID(dbc dbctx.Context, pluginID string) (int64, error) {
	res := dbc.DB(mr.db).WithContext(dbc.Ctx).
		Where("plugin_id = ?", pluginID).
		Delete(&types.PluginModule{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
