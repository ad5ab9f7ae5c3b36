package core_test

import (
	"context"
	"errors"
	"testing"

	"bookledger/internal/core"
)

func TestSettings_SaveGetUpsert(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	settings := core.NewSettingsService(pool)
	ctx := context.Background()

	if _, err := settings.GetSetting(ctx, core.SettingPartyMasterType); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unset key, got %v", err)
	}

	if err := settings.SaveSetting(ctx, core.SettingPartyMasterType, "Sundry Debtors", "party picker group"); err != nil {
		t.Fatalf("SaveSetting failed: %v", err)
	}

	got, err := settings.PartyAccountGroup(ctx)
	if err != nil {
		t.Fatalf("PartyAccountGroup failed: %v", err)
	}
	if got != "Sundry Debtors" {
		t.Errorf("Expected Sundry Debtors, got %s", got)
	}

	// Re-saving the same key replaces the value rather than erroring.
	if err := settings.SaveSetting(ctx, core.SettingPartyMasterType, "Sundry Creditors", ""); err != nil {
		t.Fatalf("SaveSetting upsert failed: %v", err)
	}
	got, err = settings.PartyAccountGroup(ctx)
	if err != nil {
		t.Fatalf("PartyAccountGroup after upsert failed: %v", err)
	}
	if got != "Sundry Creditors" {
		t.Errorf("Expected Sundry Creditors after upsert, got %s", got)
	}
}
