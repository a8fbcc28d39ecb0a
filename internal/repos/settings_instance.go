package repos

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/pluginhost-backend/internal/platform/dbctx"
	"github.com/yungbote/pluginhost-backend/internal/platform/logger"
	"github.com/yungbote/pluginhost-backend/internal/types"
)

type SettingsInstanceRepo interface {
	Create(dbc dbctx.Context, instances []*types.SettingsInstance) ([]*types.SettingsInstance, error)
	GetByDefinitionAndUser(dbc dbctx.Context, definitionID, userID string) (*types.SettingsInstance, error)
	DeleteByDefinitionAndUser(dbc dbctx.Context, definitionID, userID string) (int64, error)
}

type settingsInstanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSettingsInstanceRepo(db *gorm.DB, baseLog *logger.Logger) SettingsInstanceRepo {
	repoLog := baseLog.With("repo", "SettingsInstanceRepo")
	return &settingsInstanceRepo{db: db, log: repoLog}
}

func (sr *settingsInstanceRepo) Create(dbc dbctx.Context, instances []*types.SettingsInstance) ([]*types.SettingsInstance, error) {
	if len(instances) == 0 {
		return []*types.SettingsInstance{}, nil
	}
	if err := dbc.DB(sr.db).WithContext(dbc.Ctx).Create(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

func (sr *settingsInstanceRepo) GetByDefinitionAndUser(dbc dbctx.Context, definitionID, userID string) (*types.SettingsInstance, error) {
	var row types.SettingsInstance
	err := dbc.DB(sr.db).WithContext(dbc.Ctx).
		Where("definition_id = ? AND user_id = ?", definitionID, userID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (sr *settingsInstanceRepo) DeleteByDefinitionAndUser(dbc dbctx.Context, definitionID, userID string) (int64, error) {
	res := dbc.DB(sr.db).WithContext(dbc.Ctx).
		Where("definition_id = ? AND user_id = ?", definitionID, userID).
		Delete(&types.SettingsInstance{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
