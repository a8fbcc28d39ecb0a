package repos

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/pluginhost-backend/internal/platform/dbctx"
	"github.com/yungbote/pluginhost-backend/internal/platform/logger"
	"github.com/yungbote/pluginhost-backend/internal/types"
)

type SettingsDefinitionRepo interface {
	// EnsureCreate inserts the definition unless a row with the same ID
	// already exists. The primary-key conflict clause makes concurrent
	// first installs safe without application-level locking. Returns true
	// when this call actually inserted the row.
	EnsureCreate(dbc dbctx.Context, def *types.SettingsDefinition) (bool, error)
	GetByID(dbc dbctx.Context, id string) (*types.SettingsDefinition, error)
}

type settingsDefinitionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSettingsDefinitionRepo(db *gorm.DB, baseLog *logger.Logger) SettingsDefinitionRepo {
	repoLog := baseLog.With("repo", "SettingsDefinitionRepo")
	return &settingsDefinitionRepo{db: db, log: repoLog}
}

func (sr *settingsDefinitionRepo) EnsureCreate(dbc dbctx.Context, def *types.SettingsDefinition) (bool, error) {
	if def == nil {
		return false, errors.New("nil settings definition")
	}
	res := dbc.DB(sr.db).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(def)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (sr *settingsDefinitionRepo) GetByID(dbc dbctx.Context, id string) (*types.SettingsDefinition, error) {
	var row types.SettingsDefinition
	err := dbc.DB(sr.db).WithContext(dbc.Ctx).
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
