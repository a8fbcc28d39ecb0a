package repos

import (
	"context"
	"time"

	"testing"

	"gorm.io/datatypes"

	"github.com/yungbote/pluginhost-backend/internal/platform/dbctx"
	"github.com/yungbote/pluginhost-backend/internal/repos/testutil"
	"github.com/yungbote/pluginhost-backend/internal/types"
)

func TestSettingsDefinitionEnsureCreateIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	repo := NewSettingsDefinitionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	now := time.Now().UTC()
	def := &types.SettingsDefinition{
		ID:        "api_keys_settings",
		Name:      "API Keys Settings",
		Category:  "AI Settings",
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := repo.EnsureCreate(dbc, def)
	if err != nil {
		t.Fatalf("EnsureCreate (first): %v", err)
	}
	if !created {
		t.Fatalf("EnsureCreate (first): expected insert")
	}

	again := &types.SettingsDefinition{
		ID:        "api_keys_settings",
		Name:      "API Keys Settings (duplicate attempt)",
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err = repo.EnsureCreate(dbc, again)
	if err != nil {
		t.Fatalf("EnsureCreate (second): %v", err)
	}
	if created {
		t.Fatalf("EnsureCreate (second): expected no-op on conflict")
	}

	got, err := repo.GetByID(dbc, "api_keys_settings")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Name != "API Keys Settings" {
		t.Fatalf("first writer must win, got %+v", got)
	}
}

func TestSettingsInstanceRepo(t *testing.T) {
	db := testutil.DB(t)
	defs := NewSettingsDefinitionRepo(db, testutil.Logger(t))
	repo := NewSettingsInstanceRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	now := time.Now().UTC()
	if _, err := defs.EnsureCreate(dbc, &types.SettingsDefinition{
		ID: "api_keys_settings", Name: "API Keys Settings", CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed definition: %v", err)
	}

	_, err := repo.Create(dbc, []*types.SettingsInstance{
		{
			ID:           "api_settings_owner-1",
			Name:         "API Keys",
			DefinitionID: "api_keys_settings",
			Scope:        "user",
			UserID:       "owner-1",
			Value:        datatypes.JSON([]byte("{}")),
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByDefinitionAndUser(dbc, "api_keys_settings", "owner-1")
	if err != nil {
		t.Fatalf("GetByDefinitionAndUser: %v", err)
	}
	if got == nil || got.ID != "api_settings_owner-1" {
		t.Fatalf("GetByDefinitionAndUser: unexpected result: %+v", got)
	}

	missing, err := repo.GetByDefinitionAndUser(dbc, "api_keys_settings", "owner-2")
	if err != nil {
		t.Fatalf("GetByDefinitionAndUser (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByDefinitionAndUser (missing): expected nil")
	}

	n, err := repo.DeleteByDefinitionAndUser(dbc, "api_keys_settings", "owner-1")
	if err != nil {
		t.Fatalf("DeleteByDefinitionAndUser: %v", err)
	}
	if n != 1 {
		t.Fatalf("DeleteByDefinitionAndUser: expected 1 row, got %d", n)
	}
}
