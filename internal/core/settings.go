package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingPartyMasterType names the account group whose members populate the
// party picker on item vouchers. The engine itself never reads it; it exists
// for the voucher-entry collaborator.
const SettingPartyMasterType = "PartyMasterType"

// SettingsService is a small key-value store for collaborator preferences.
type SettingsService struct {
	pool *pgxpool.Pool
}

func NewSettingsService(pool *pgxpool.Pool) *SettingsService {
	return &SettingsService{pool: pool}
}

// SaveSetting upserts a setting value.
func (s *SettingsService) SaveSetting(ctx context.Context, key, value, description string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO settings (key, value, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, description = EXCLUDED.description`,
		key, value, description)
	if err != nil {
		return fmt.Errorf("save setting %q: %w", key, err)
	}
	return nil
}

// GetSetting returns a setting value, or ErrNotFound.
func (s *SettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx, "SELECT value FROM settings WHERE key = $1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

// PartyAccountGroup returns the configured party account group, or ErrNotFound
// when the setting has never been saved.
func (s *SettingsService) PartyAccountGroup(ctx context.Context) (string, error) {
	return s.GetSetting(ctx, SettingPartyMasterType)
}
