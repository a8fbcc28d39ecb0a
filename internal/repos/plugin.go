package repos

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/pluginhost-backend/internal/platform/dbctx"
	"github.com/yungbote/pluginhost-backend/internal/platform/logger"
	"github.com/yungbote/pluginhost-backend/internal/types"
)

type PluginRepo interface {
	Create(dbc dbctx.Context, plugins []*types.Plugin) ([]*types.Plugin, error)
	GetByID(dbc dbctx.Context, id string) (*types.Plugin, error)
	Exists(dbc dbctx.Context, id string) (bool, error)
	DeleteByID(dbc dbctx.Context, id string) (int64, error)
}

type pluginRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPluginRepo(db *gorm.DB, baseLog *logger.Logger) PluginRepo {
	repoLog := baseLog.With("repo", "PluginRepo")
	return &pluginRepo{db: db, log: repoLog}
}

func (pr *pluginRepo) Create(dbc dbctx.Context, plugins []*types.Plugin) ([]*types.Plugin, error) {
	if len(plugins) == 0 {
		return []*types.Plugin{}, nil
	}
	if err := dbc.DB(pr.db).WithContext(dbc.Ctx).Create(&plugins).Error; err != nil {
		return nil, err
	}
	return plugins, nil
}

func (pr *pluginRepo) GetByID(dbc dbctx.Context, id string) (*types.Plugin, error) {
	var row types.Plugin
	err := dbc.DB(pr.db).WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (pr *pluginRepo) Exists(dbc dbctx.Context, id string) (bool, error) {
	var count int64
	if err := dbc.DB(pr.db).WithContext(dbc.Ctx).
		Model(&types.Plugin{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (pr *pluginRepo) DeleteByID(dbc dbctx.Context, id string) (int64, error) {
	res := dbc.DB(pr.db).WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Plugin{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
