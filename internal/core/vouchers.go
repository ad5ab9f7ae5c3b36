package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// VoucherService owns voucher header and line rows. Every mutating operation
// runs inside a single transaction: on any failure the store is left exactly
// as it was before the call.
type VoucherService struct {
	pool *pgxpool.Pool
}

func NewVoucherService(pool *pgxpool.Pool) *VoucherService {
	return &VoucherService{pool: pool}
}

// txMasterChecker resolves master names inside the posting transaction so the
// validation and the inserts see the same snapshot.
type txMasterChecker struct {
	tx pgx.Tx
}

func (c txMasterChecker) HasAccount(ctx context.Context, name string) (bool, error) {
	var id int64
	err := c.tx.QueryRow(ctx, "SELECT id FROM account_master WHERE name = $1", name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("resolve account %q: %w", name, err)
	}
	return true, nil
}

func (c txMasterChecker) HasItem(ctx context.Context, name string) (bool, error) {
	var id int64
	err := c.tx.QueryRow(ctx, "SELECT id FROM item_master WHERE name = $1", name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("resolve item %q: %w", name, err)
	}
	return true, nil
}

func parseVoucherDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid voucher date %q: %w", date, err)
	}
	return nil
}

// ── Account vouchers ──────────────────────────────────────────────────────────

// PostAccountVoucher validates and atomically commits an account voucher.
// The header total is derived as the sum of debit lines (equal to the credit
// sum once the balance invariant holds), never taken from the caller.
func (s *VoucherService) PostAccountVoucher(ctx context.Context, typeCode VoucherType, header AccountVoucherHeader, lines []AccountLineInput) (int64, error) {
	if !typeCode.IsAccountVoucher() {
		return 0, fmt.Errorf("%s is not an account voucher type", typeCode)
	}
	if err := parseVoucherDate(header.Date); err != nil {
		return 0, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, &PostingError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback(ctx)

	if err := ValidateAccountVoucher(ctx, typeCode, lines, txMasterChecker{tx}); err != nil {
		return 0, err
	}

	id, err := insertAccountVoucherTx(ctx, tx, typeCode, header, lines)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, &PostingError{Op: "commit account voucher", Err: err}
	}
	return id, nil
}

func insertAccountVoucherTx(ctx context.Context, tx pgx.Tx, typeCode VoucherType, header AccountVoucherHeader, lines []AccountLineInput) (int64, error) {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Debit)
	}

	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO account_vouchers (type_code, vouch_date, voucher_no, narration, ref_no, payment_mode, total_amount)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7)
		RETURNING id`,
		string(typeCode), header.Date, header.VoucherNo, header.Narration,
		header.RefNo, header.PaymentMode, total.StringFixed(2),
	).Scan(&id)
	if err != nil {
		return 0, &PostingError{Op: "insert account voucher header", Err: err}
	}

	if err := insertAccountLinesTx(ctx, tx, id, lines); err != nil {
		return 0, err
	}
	return id, nil
}

func insertAccountLinesTx(ctx context.Context, tx pgx.Tx, voucherID int64, lines []AccountLineInput) error {
	for i, l := range lines {
		if !l.Active() {
			continue
		}

		var accountID int64
		err := tx.QueryRow(ctx, "SELECT id FROM account_master WHERE name = $1", l.AccountName).Scan(&accountID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &UnknownReferenceError{Name: l.AccountName, Line: i + 1}
			}
			return &PostingError{Op: fmt.Sprintf("resolve account for line %d", i+1), Err: err}
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO account_voucher_lines (voucher_id, account_id, debit, credit, against_ref, remarks)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			voucherID, accountID, l.Debit.StringFixed(2), l.Credit.StringFixed(2), l.AgainstRef, l.Remarks,
		)
		if err != nil {
			return &PostingError{Op: fmt.Sprintf("insert account voucher line %d", i+1), Err: err}
		}
	}
	return nil
}

// UpdateAccountVoucher replaces an existing voucher's header fields and lines
// in place, preserving the header id and incrementing its revision counter.
// Returns false when the id does not exist for the given type.
func (s *VoucherService) UpdateAccountVoucher(ctx context.Context, id int64, typeCode VoucherType, header AccountVoucherHeader, lines []AccountLineInput) (bool, error) {
	if !typeCode.IsAccountVoucher() {
		return false, fmt.Errorf("%s is not an account voucher type", typeCode)
	}
	if err := parseVoucherDate(header.Date); err != nil {
		return false, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, &PostingError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback(ctx)

	if err := ValidateAccountVoucher(ctx, typeCode, lines, txMasterChecker{tx}); err != nil {
		return false, err
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Debit)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE account_vouchers
		SET vouch_date = $3::date, voucher_no = $4, narration = $5, ref_no = $6,
		    payment_mode = $7, total_amount = $8, revision = revision + 1
		WHERE id = $1 AND type_code = $2`,
		id, string(typeCode), header.Date, header.VoucherNo, header.Narration,
		header.RefNo, header.PaymentMode, total.StringFixed(2),
	)
	if err != nil {
		return false, &PostingError{Op: "update account voucher header", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, "DELETE FROM account_voucher_lines WHERE voucher_id = $1", id); err != nil {
		return false, &PostingError{Op: "clear account voucher lines", Err: err}
	}
	if err := insertAccountLinesTx(ctx, tx, id, lines); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, &PostingError{Op: "commit account voucher update", Err: err}
	}
	return true, nil
}

func (s *VoucherService) GetAccountVoucherByID(ctx context.Context, id int64, typeCode VoucherType) (*AccountVoucher, error) {
	if !typeCode.IsAccountVoucher() {
		return nil, fmt.Errorf("%s is not an account voucher type", typeCode)
	}

	v := &AccountVoucher{ID: id, Type: typeCode}
	err := s.pool.QueryRow(ctx, `
		SELECT vouch_date::text, voucher_no, narration, ref_no, payment_mode, total_amount, revision
		FROM account_vouchers
		WHERE id = $1 AND type_code = $2`,
		id, string(typeCode),
	).Scan(&v.Date, &v.VoucherNo, &v.Narration, &v.RefNo, &v.PaymentMode, &v.TotalAmount, &v.Revision)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account voucher %d: %w", id, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT l.id, l.account_id, a.name, l.debit, l.credit, l.against_ref, l.remarks
		FROM account_voucher_lines l
		JOIN account_master a ON a.id = l.account_id
		WHERE l.voucher_id = $1
		ORDER BY l.id`, id)
	if err != nil {
		return nil, fmt.Errorf("get account voucher %d lines: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var l AccountVoucherLine
		if err := rows.Scan(&l.ID, &l.AccountID, &l.AccountName, &l.Debit, &l.Credit, &l.AgainstRef, &l.Remarks); err != nil {
			return nil, fmt.Errorf("scan account voucher line: %w", err)
		}
		v.Lines = append(v.Lines, l)
	}
	return v, rows.Err()
}

// ── Item vouchers ─────────────────────────────────────────────────────────────

// PostItemVoucher validates and atomically commits an item voucher. Line
// taxable and tax amounts, and the header taxable/tax/final totals, are
// computed server-side from quantity, rate, discount, and the item master's
// tax rate; caller-supplied totals are never trusted.
func (s *VoucherService) PostItemVoucher(ctx context.Context, typeCode VoucherType, header ItemVoucherHeader, lines []ItemLineInput) (int64, error) {
	if !typeCode.IsItemVoucher() {
		return 0, fmt.Errorf("%s is not an item voucher type", typeCode)
	}
	if err := parseVoucherDate(header.Date); err != nil {
		return 0, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, &PostingError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback(ctx)

	if err := ValidateItemVoucher(ctx, typeCode, header.PartyName, lines, txMasterChecker{tx}); err != nil {
		return 0, err
	}

	id, err := insertItemVoucherTx(ctx, tx, typeCode, header, lines)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, &PostingError{Op: "commit item voucher", Err: err}
	}
	return id, nil
}

// computedItemLine is an ItemLineInput with its derived amounts and resolved
// item reference.
type computedItemLine struct {
	itemID     int64
	hsnCode    string
	input      ItemLineInput
	taxableAmt decimal.Decimal
	taxAmt     decimal.Decimal
}

func computeItemLinesTx(ctx context.Context, tx pgx.Tx, lines []ItemLineInput) ([]computedItemLine, decimal.Decimal, decimal.Decimal, error) {
	hundred := decimal.NewFromInt(100)
	totalTaxable := decimal.Zero
	totalTax := decimal.Zero

	computed := make([]computedItemLine, 0, len(lines))
	for i, l := range lines {
		var itemID int64
		var masterHSN string
		var taxRate decimal.Decimal
		err := tx.QueryRow(ctx,
			"SELECT id, hsn_code, tax_rate FROM item_master WHERE name = $1", l.ItemName,
		).Scan(&itemID, &masterHSN, &taxRate)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, decimal.Zero, decimal.Zero, &UnknownReferenceError{Name: l.ItemName, Line: i + 1}
			}
			return nil, decimal.Zero, decimal.Zero, &PostingError{Op: fmt.Sprintf("resolve item for line %d", i+1), Err: err}
		}

		hsn := l.HSNCode
		if hsn == "" {
			hsn = masterHSN
		}

		gross := l.Qty.Mul(l.Rate)
		taxable := gross.Sub(gross.Mul(l.DiscountPct).Div(hundred)).Round(2)
		tax := taxable.Mul(taxRate).Div(hundred).Round(2)

		totalTaxable = totalTaxable.Add(taxable)
		totalTax = totalTax.Add(tax)
		computed = append(computed, computedItemLine{
			itemID: itemID, hsnCode: hsn, input: l, taxableAmt: taxable, taxAmt: tax,
		})
	}
	return computed, totalTaxable, totalTax, nil
}

func insertItemVoucherTx(ctx context.Context, tx pgx.Tx, typeCode VoucherType, header ItemVoucherHeader, lines []ItemLineInput) (int64, error) {
	var partyID int64
	err := tx.QueryRow(ctx, "SELECT id FROM account_master WHERE name = $1", header.PartyName).Scan(&partyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &UnknownReferenceError{Name: header.PartyName}
		}
		return 0, &PostingError{Op: "resolve party account", Err: err}
	}

	computed, totalTaxable, totalTax, err := computeItemLinesTx(ctx, tx, lines)
	if err != nil {
		return 0, err
	}
	finalAmount := totalTaxable.Add(totalTax)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO item_vouchers (type_code, vouch_date, voucher_no, ref_no, party_account_id, tax_type,
		                           total_taxable_amt, total_tax_amt, final_amount, narration, against_ref)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		string(typeCode), header.Date, header.VoucherNo, header.RefNo, partyID, header.TaxType,
		totalTaxable.StringFixed(2), totalTax.StringFixed(2), finalAmount.StringFixed(2),
		header.Narration, header.AgainstRef,
	).Scan(&id)
	if err != nil {
		return 0, &PostingError{Op: "insert item voucher header", Err: err}
	}

	for i, c := range computed {
		_, err := tx.Exec(ctx, `
			INSERT INTO item_voucher_lines (voucher_id, item_id, hsn_code, qty, rate, discount_pct, taxable_amt, tax_amt)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, c.itemID, c.hsnCode, c.input.Qty.StringFixed(3), c.input.Rate.StringFixed(2),
			c.input.DiscountPct.StringFixed(2), c.taxableAmt.StringFixed(2), c.taxAmt.StringFixed(2),
		)
		if err != nil {
			return 0, &PostingError{Op: fmt.Sprintf("insert item voucher line %d", i+1), Err: err}
		}
	}
	return id, nil
}

// UpdateItemVoucher replaces an existing item voucher's header and lines in
// place, preserving the header id and incrementing its revision counter.
// Returns false when the id does not exist for the given type.
func (s *VoucherService) UpdateItemVoucher(ctx context.Context, id int64, typeCode VoucherType, header ItemVoucherHeader, lines []ItemLineInput) (bool, error) {
	if !typeCode.IsItemVoucher() {
		return false, fmt.Errorf("%s is not an item voucher type", typeCode)
	}
	if err := parseVoucherDate(header.Date); err != nil {
		return false, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, &PostingError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback(ctx)

	if err := ValidateItemVoucher(ctx, typeCode, header.PartyName, lines, txMasterChecker{tx}); err != nil {
		return false, err
	}

	var partyID int64
	err = tx.QueryRow(ctx, "SELECT id FROM account_master WHERE name = $1", header.PartyName).Scan(&partyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, &UnknownReferenceError{Name: header.PartyName}
		}
		return false, &PostingError{Op: "resolve party account", Err: err}
	}

	computed, totalTaxable, totalTax, err := computeItemLinesTx(ctx, tx, lines)
	if err != nil {
		return false, err
	}
	finalAmount := totalTaxable.Add(totalTax)

	tag, err := tx.Exec(ctx, `
		UPDATE item_vouchers
		SET vouch_date = $3::date, voucher_no = $4, ref_no = $5, party_account_id = $6, tax_type = $7,
		    total_taxable_amt = $8, total_tax_amt = $9, final_amount = $10, narration = $11,
		    against_ref = $12, revision = revision + 1
		WHERE id = $1 AND type_code = $2`,
		id, string(typeCode), header.Date, header.VoucherNo, header.RefNo, partyID, header.TaxType,
		totalTaxable.StringFixed(2), totalTax.StringFixed(2), finalAmount.StringFixed(2),
		header.Narration, header.AgainstRef,
	)
	if err != nil {
		return false, &PostingError{Op: "update item voucher header", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, "DELETE FROM item_voucher_lines WHERE voucher_id = $1", id); err != nil {
		return false, &PostingError{Op: "clear item voucher lines", Err: err}
	}
	for i, c := range computed {
		_, err := tx.Exec(ctx, `
			INSERT INTO item_voucher_lines (voucher_id, item_id, hsn_code, qty, rate, discount_pct, taxable_amt, tax_amt)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, c.itemID, c.hsnCode, c.input.Qty.StringFixed(3), c.input.Rate.StringFixed(2),
			c.input.DiscountPct.StringFixed(2), c.taxableAmt.StringFixed(2), c.taxAmt.StringFixed(2),
		)
		if err != nil {
			return false, &PostingError{Op: fmt.Sprintf("insert item voucher line %d", i+1), Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, &PostingError{Op: "commit item voucher update", Err: err}
	}
	return true, nil
}

func (s *VoucherService) GetItemVoucherByID(ctx context.Context, id int64, typeCode VoucherType) (*ItemVoucher, error) {
	if !typeCode.IsItemVoucher() {
		return nil, fmt.Errorf("%s is not an item voucher type", typeCode)
	}

	v := &ItemVoucher{ID: id, Type: typeCode}
	err := s.pool.QueryRow(ctx, `
		SELECT v.vouch_date::text, v.voucher_no, v.ref_no, v.party_account_id, a.name, v.tax_type,
		       v.total_taxable_amt, v.total_tax_amt, v.final_amount, v.narration, v.against_ref, v.revision
		FROM item_vouchers v
		JOIN account_master a ON a.id = v.party_account_id
		WHERE v.id = $1 AND v.type_code = $2`,
		id, string(typeCode),
	).Scan(&v.Date, &v.VoucherNo, &v.RefNo, &v.PartyID, &v.PartyName, &v.TaxType,
		&v.TotalTaxable, &v.TotalTax, &v.FinalAmount, &v.Narration, &v.AgainstRef, &v.Revision)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item voucher %d: %w", id, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT l.id, l.item_id, i.name, l.hsn_code, l.qty, l.rate, l.discount_pct, l.taxable_amt, l.tax_amt
		FROM item_voucher_lines l
		JOIN item_master i ON i.id = l.item_id
		WHERE l.voucher_id = $1
		ORDER BY l.id`, id)
	if err != nil {
		return nil, fmt.Errorf("get item voucher %d lines: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var l ItemVoucherLine
		if err := rows.Scan(&l.ID, &l.ItemID, &l.ItemName, &l.HSNCode, &l.Qty, &l.Rate,
			&l.DiscountPct, &l.TaxableAmt, &l.TaxAmt); err != nil {
			return nil, fmt.Errorf("scan item voucher line: %w", err)
		}
		v.Lines = append(v.Lines, l)
	}
	return v, rows.Err()
}

// ── Shared ────────────────────────────────────────────────────────────────────

// DeleteVoucher removes a voucher header of either family; lines cascade in
// the same transaction. Returns false when the id does not exist.
func (s *VoucherService) DeleteVoucher(ctx context.Context, id int64, typeCode VoucherType) (bool, error) {
	var table string
	switch {
	case typeCode.IsAccountVoucher():
		table = "account_vouchers"
	case typeCode.IsItemVoucher():
		table = "item_vouchers"
	default:
		return false, fmt.Errorf("unknown voucher type %s", typeCode)
	}

	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND type_code = $2", table),
		id, string(typeCode),
	)
	if err != nil {
		return false, &PostingError{Op: "delete voucher", Err: err}
	}
	return tag.RowsAffected() > 0, nil
}
