package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/pluginhost-backend/internal/platform/envutil"
	"github.com/yungbote/pluginhost-backend/internal/platform/logger"
	"github.com/yungbote/pluginhost-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := envutil.String("POSTGRES_HOST", "localhost")
	postgresPort := envutil.String("POSTGRES_PORT", "5432")
	postgresUser := envutil.String("POSTGRES_USER", "postgres")
	postgresPassword := envutil.String("POSTGRES_PASSWORD", "")
	postgresName := envutil.String("POSTGRES_NAME", "pluginhost")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Plugin{},
		&types.PluginModule{},
		&types.SettingsDefinition{},
		&types.SettingsInstance{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	if err := s.db.Exec(`
		ALTER TABLE "plugin_module"
		DROP CONSTRAINT IF EXISTS "fk_plugin_module_plugin_id"
	`).Error; err != nil {
		return fmt.Errorf("failed to reset fk_plugin_module_plugin_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "plugin_module"
		ADD CONSTRAINT "fk_plugin_module_plugin_id"
		FOREIGN KEY ("plugin_id")
		REFERENCES "plugin"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_plugin_module_plugin_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "settings_instance"
		DROP CONSTRAINT IF EXISTS "fk_settings_instance_definition_id"
	`).Error; err != nil {
		return fmt.Errorf("failed to reset fk_settings_instance_definition_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "settings_instance"
		ADD CONSTRAINT "fk_settings_instance_definition_id"
		FOREIGN KEY ("definition_id")
		REFERENCES "settings_definition"("id")
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_settings_instance_definition_id: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
