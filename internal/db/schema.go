package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Logical schema for the bookkeeping engine. Account vouchers (PAY/REC/JNL/CON)
// and item vouchers (SAL/PUR/CN/DN) each get one header/line table pair keyed by
// a type_code discriminator, so report queries never union per-type tables.
// Line→master foreign keys deliberately have no ON DELETE action: a master that
// is referenced by any committed line must not be deletable.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS account_master (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		group_type TEXT NOT NULL,
		opening_balance NUMERIC(14,2) NOT NULL DEFAULT 0,
		ob_side TEXT NOT NULL DEFAULT 'Dr' CHECK (ob_side IN ('Dr', 'Cr')),
		alias TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		gst_no TEXT NOT NULL DEFAULT '',
		pan_no TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS item_master (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		hsn_code TEXT NOT NULL DEFAULT '',
		unit TEXT NOT NULL DEFAULT '',
		tax_rate NUMERIC(6,2) NOT NULL DEFAULT 0,
		purchase_price NUMERIC(14,2) NOT NULL DEFAULT 0,
		sale_price NUMERIC(14,2) NOT NULL DEFAULT 0,
		opening_stock NUMERIC(14,3) NOT NULL DEFAULT 0,
		opening_rate NUMERIC(14,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS account_vouchers (
		id BIGSERIAL PRIMARY KEY,
		type_code TEXT NOT NULL CHECK (type_code IN ('PAY', 'REC', 'JNL', 'CON')),
		vouch_date DATE NOT NULL,
		voucher_no TEXT NOT NULL DEFAULT '',
		narration TEXT NOT NULL DEFAULT '',
		ref_no TEXT NOT NULL DEFAULT '',
		payment_mode TEXT NOT NULL DEFAULT '',
		total_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		revision INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS account_voucher_lines (
		id BIGSERIAL PRIMARY KEY,
		voucher_id BIGINT NOT NULL REFERENCES account_vouchers(id) ON DELETE CASCADE,
		account_id BIGINT NOT NULL REFERENCES account_master(id),
		debit NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (debit >= 0),
		credit NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (credit >= 0),
		against_ref TEXT NOT NULL DEFAULT '',
		remarks TEXT NOT NULL DEFAULT '',
		CHECK (debit = 0 OR credit = 0)
	)`,
	`CREATE TABLE IF NOT EXISTS item_vouchers (
		id BIGSERIAL PRIMARY KEY,
		type_code TEXT NOT NULL CHECK (type_code IN ('SAL', 'PUR', 'CN', 'DN')),
		vouch_date DATE NOT NULL,
		voucher_no TEXT NOT NULL DEFAULT '',
		ref_no TEXT NOT NULL DEFAULT '',
		party_account_id BIGINT NOT NULL REFERENCES account_master(id),
		tax_type TEXT NOT NULL DEFAULT '',
		total_taxable_amt NUMERIC(14,2) NOT NULL DEFAULT 0,
		total_tax_amt NUMERIC(14,2) NOT NULL DEFAULT 0,
		final_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		narration TEXT NOT NULL DEFAULT '',
		against_ref TEXT NOT NULL DEFAULT '',
		revision INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS item_voucher_lines (
		id BIGSERIAL PRIMARY KEY,
		voucher_id BIGINT NOT NULL REFERENCES item_vouchers(id) ON DELETE CASCADE,
		item_id BIGINT NOT NULL REFERENCES item_master(id),
		hsn_code TEXT NOT NULL DEFAULT '',
		qty NUMERIC(14,3) NOT NULL CHECK (qty > 0),
		rate NUMERIC(14,2) NOT NULL DEFAULT 0,
		discount_pct NUMERIC(6,2) NOT NULL DEFAULT 0 CHECK (discount_pct BETWEEN 0 AND 100),
		taxable_amt NUMERIC(14,2) NOT NULL DEFAULT 0,
		tax_amt NUMERIC(14,2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_account_voucher_lines_account ON account_voucher_lines (account_id)`,
	`CREATE INDEX IF NOT EXISTS idx_account_vouchers_date ON account_vouchers (vouch_date)`,
	`CREATE INDEX IF NOT EXISTS idx_item_vouchers_date ON item_vouchers (vouch_date)`,
	`CREATE INDEX IF NOT EXISTS idx_item_voucher_lines_item ON item_voucher_lines (item_id)`,
}

// EnsureSchema creates all engine tables and indexes if they do not exist.
// Safe to call on every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
