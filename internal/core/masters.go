package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MasterService owns the account and item master registries. Master ids are
// stable once assigned; names are unique per kind (case-sensitive).
type MasterService struct {
	pool *pgxpool.Pool
}

func NewMasterService(pool *pgxpool.Pool) *MasterService {
	return &MasterService{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// ── Accounts ──────────────────────────────────────────────────────────────────

func (s *MasterService) CreateAccount(ctx context.Context, input AccountInput) (int64, error) {
	if input.Name == "" {
		return 0, errors.New("account name cannot be empty")
	}
	side := input.OpeningSide
	if side == "" {
		side = SideDebit
	}

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO account_master (name, group_type, opening_balance, ob_side,
		                            alias, address, phone, email, gst_no, pan_no)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		input.Name, input.Group, input.OpeningBalance.StringFixed(2), string(side),
		input.Alias, input.Address, input.Phone, input.Email, input.GSTNo, input.PANNo,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, &DuplicateNameError{Kind: "account", Name: input.Name}
		}
		return 0, fmt.Errorf("create account %q: %w", input.Name, err)
	}
	return id, nil
}

// UpdateAccount replaces the mutable fields of an account in place. Returns
// false when the id does not exist; DuplicateNameError when a rename collides
// with another account.
func (s *MasterService) UpdateAccount(ctx context.Context, id int64, input AccountInput) (bool, error) {
	if input.Name == "" {
		return false, errors.New("account name cannot be empty")
	}
	side := input.OpeningSide
	if side == "" {
		side = SideDebit
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE account_master
		SET name = $2, group_type = $3, opening_balance = $4, ob_side = $5,
		    alias = $6, address = $7, phone = $8, email = $9, gst_no = $10, pan_no = $11
		WHERE id = $1`,
		id, input.Name, input.Group, input.OpeningBalance.StringFixed(2), string(side),
		input.Alias, input.Address, input.Phone, input.Email, input.GSTNo, input.PANNo,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, &DuplicateNameError{Kind: "account", Name: input.Name}
		}
		return false, fmt.Errorf("update account %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAccount removes an account master. Returns false when the id does not
// exist; ReferentialIntegrityError when any voucher line still references it.
func (s *MasterService) DeleteAccount(ctx context.Context, id int64) (bool, error) {
	var name string
	err := s.pool.QueryRow(ctx, "SELECT name FROM account_master WHERE id = $1", id).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("fetch account %d: %w", id, err)
	}

	tag, err := s.pool.Exec(ctx, "DELETE FROM account_master WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, &ReferentialIntegrityError{Kind: "account", Name: name}
		}
		return false, fmt.Errorf("delete account %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *MasterService) GetAccount(ctx context.Context, id int64) (*Account, error) {
	a := &Account{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, group_type, opening_balance, ob_side,
		       alias, address, phone, email, gst_no, pan_no, created_at
		FROM account_master WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.Group, &a.OpeningBalance, &a.OpeningSide,
		&a.Alias, &a.Address, &a.Phone, &a.Email, &a.GSTNo, &a.PANNo, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account %d: %w", id, err)
	}
	return a, nil
}

// ListAccounts returns all accounts ordered by name. Accounts whose group is
// in excludeGroups are filtered out (used by the voucher-entry collaborator to
// hide party accounts from non-party line pickers).
func (s *MasterService) ListAccounts(ctx context.Context, excludeGroups []string) ([]Account, error) {
	q := `
		SELECT id, name, group_type, opening_balance, ob_side,
		       alias, address, phone, email, gst_no, pan_no, created_at
		FROM account_master`
	args := []any{}
	if len(excludeGroups) > 0 {
		q += " WHERE group_type <> ALL($1)"
		args = append(args, excludeGroups)
	}
	q += " ORDER BY name"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Group, &a.OpeningBalance, &a.OpeningSide,
			&a.Alias, &a.Address, &a.Phone, &a.Email, &a.GSTNo, &a.PANNo, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *MasterService) ResolveAccountID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, "SELECT id FROM account_master WHERE name = $1", name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("resolve account %q: %w", name, err)
	}
	return id, nil
}

// AccountGroups returns the distinct account group names in use, sorted.
func (s *MasterService) AccountGroups(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "SELECT DISTINCT group_type FROM account_master ORDER BY group_type")
	if err != nil {
		return nil, fmt.Errorf("list account groups: %w", err)
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scan account group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// ── Items ─────────────────────────────────────────────────────────────────────

func (s *MasterService) CreateItem(ctx context.Context, input ItemInput) (int64, error) {
	if input.Name == "" {
		return 0, errors.New("item name cannot be empty")
	}

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO item_master (name, hsn_code, unit, tax_rate, purchase_price,
		                         sale_price, opening_stock, opening_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		input.Name, input.HSNCode, input.Unit, input.TaxRate.StringFixed(2),
		input.PurchasePrice.StringFixed(2), input.SalePrice.StringFixed(2),
		input.OpeningStock.StringFixed(3), input.OpeningRate.StringFixed(2),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, &DuplicateNameError{Kind: "item", Name: input.Name}
		}
		return 0, fmt.Errorf("create item %q: %w", input.Name, err)
	}
	return id, nil
}

func (s *MasterService) UpdateItem(ctx context.Context, id int64, input ItemInput) (bool, error) {
	if input.Name == "" {
		return false, errors.New("item name cannot be empty")
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE item_master
		SET name = $2, hsn_code = $3, unit = $4, tax_rate = $5, purchase_price = $6,
		    sale_price = $7, opening_stock = $8, opening_rate = $9
		WHERE id = $1`,
		id, input.Name, input.HSNCode, input.Unit, input.TaxRate.StringFixed(2),
		input.PurchasePrice.StringFixed(2), input.SalePrice.StringFixed(2),
		input.OpeningStock.StringFixed(3), input.OpeningRate.StringFixed(2),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, &DuplicateNameError{Kind: "item", Name: input.Name}
		}
		return false, fmt.Errorf("update item %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *MasterService) DeleteItem(ctx context.Context, id int64) (bool, error) {
	var name string
	err := s.pool.QueryRow(ctx, "SELECT name FROM item_master WHERE id = $1", id).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("fetch item %d: %w", id, err)
	}

	tag, err := s.pool.Exec(ctx, "DELETE FROM item_master WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, &ReferentialIntegrityError{Kind: "item", Name: name}
		}
		return false, fmt.Errorf("delete item %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *MasterService) GetItem(ctx context.Context, id int64) (*Item, error) {
	it := &Item{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, hsn_code, unit, tax_rate, purchase_price,
		       sale_price, opening_stock, opening_rate, created_at
		FROM item_master WHERE id = $1`, id,
	).Scan(&it.ID, &it.Name, &it.HSNCode, &it.Unit, &it.TaxRate, &it.PurchasePrice,
		&it.SalePrice, &it.OpeningStock, &it.OpeningRate, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return it, nil
}

func (s *MasterService) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, hsn_code, unit, tax_rate, purchase_price,
		       sale_price, opening_stock, opening_rate, created_at
		FROM item_master ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.HSNCode, &it.Unit, &it.TaxRate,
			&it.PurchasePrice, &it.SalePrice, &it.OpeningStock, &it.OpeningRate, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *MasterService) ResolveItemID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, "SELECT id FROM item_master WHERE name = $1", name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("resolve item %q: %w", name, err)
	}
	return id, nil
}

// HasAccount implements MasterChecker against the live registry.
func (s *MasterService) HasAccount(ctx context.Context, name string) (bool, error) {
	_, err := s.ResolveAccountID(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// HasItem implements MasterChecker against the live registry.
func (s *MasterService) HasItem(ctx context.Context, name string) (bool, error) {
	_, err := s.ResolveItemID(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
