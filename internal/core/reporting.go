package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Report row types ──────────────────────────────────────────────────────────

// LedgerRow is one posting in an account's ledger. Balance is the absolute
// running balance for the period (opening balance excluded) and BalanceSide
// labels it: Dr when the cumulative net-debit position is >= 0, else Cr.
type LedgerRow struct {
	Date        string
	VoucherNo   string
	Type        VoucherType
	Side        Side
	Amount      decimal.Decimal
	Narration   string
	Balance     decimal.Decimal
	BalanceSide Side
}

// DayBookRow is one voucher header in the day book, regardless of family.
// Amount is the header total: total_amount for account vouchers, final_amount
// for item vouchers.
type DayBookRow struct {
	Date      string
	VoucherNo string
	Type      VoucherType
	Amount    decimal.Decimal
	Narration string
}

// SubsidiaryRow is the net movement of one account within one voucher, for
// accounts belonging to the requested group. NetAmount is Dr minus Cr.
type SubsidiaryRow struct {
	Date        string
	VoucherNo   string
	Type        VoucherType
	AccountName string
	Group       string
	NetAmount   decimal.Decimal
}

// TrialBalanceRow carries the lifetime Dr and Cr totals for one account.
// Accounts with no activity appear with zero totals.
type TrialBalanceRow struct {
	AccountName string
	DrTotal     decimal.Decimal
	CrTotal     decimal.Decimal
}

// StockDirection marks an item movement as inward or outward.
type StockDirection string

const (
	StockIn  StockDirection = "In"
	StockOut StockDirection = "Out"
)

// StockRow is one item movement in the stock register. Purchases and credit
// notes move stock in; sales and debit notes move it out.
type StockRow struct {
	Date      string
	VoucherNo string
	Type      VoucherType
	ItemName  string
	HSNCode   string
	Direction StockDirection
	Qty       decimal.Decimal
	Rate      decimal.Decimal
	Amount    decimal.Decimal
}

// ── Service ───────────────────────────────────────────────────────────────────

// ReportingService derives reports from the committed voucher log. All
// operations are read-only projections; none mutate state.
type ReportingService struct {
	pool *pgxpool.Pool
}

func NewReportingService(pool *pgxpool.Pool) *ReportingService {
	return &ReportingService{pool: pool}
}

// Ledger returns every posting touching the named account within the date
// range, ordered by (date, voucher number), with the running balance
// accumulated from zero for the period. The account's opening balance is a
// separate figure on the master and is not folded in.
func (s *ReportingService) Ledger(ctx context.Context, accountName, dateFrom, dateTo string) ([]LedgerRow, error) {
	var accountID int64
	err := s.pool.QueryRow(ctx, "SELECT id FROM account_master WHERE name = $1", accountName).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %q: %w", accountName, ErrNotFound)
		}
		return nil, fmt.Errorf("resolve account %q: %w", accountName, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT v.vouch_date::text, v.voucher_no, v.type_code, l.debit, l.credit, v.narration
		FROM account_voucher_lines l
		JOIN account_vouchers v ON v.id = l.voucher_id
		WHERE l.account_id = $1
		  AND v.vouch_date BETWEEN $2::date AND $3::date
		ORDER BY v.vouch_date, v.voucher_no, v.id, l.id`,
		accountID, dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("query ledger for %q: %w", accountName, err)
	}
	defer rows.Close()

	var result []LedgerRow
	running := decimal.Zero
	for rows.Next() {
		var r LedgerRow
		var debit, credit decimal.Decimal
		if err := rows.Scan(&r.Date, &r.VoucherNo, &r.Type, &debit, &credit, &r.Narration); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}

		if debit.IsPositive() {
			r.Side = SideDebit
			r.Amount = debit
		} else {
			r.Side = SideCredit
			r.Amount = credit
		}

		running = running.Add(debit).Sub(credit)
		if running.IsNegative() {
			r.Balance = running.Neg()
			r.BalanceSide = SideCredit
		} else {
			r.Balance = running
			r.BalanceSide = SideDebit
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// DayBook returns the header of every voucher, account or item, dated the
// given day, ordered by (date, voucher number).
func (s *ReportingService) DayBook(ctx context.Context, date string) ([]DayBookRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT vouch_date::text, voucher_no, type_code, total_amount, narration
		FROM account_vouchers
		WHERE vouch_date = $1::date
		UNION ALL
		SELECT vouch_date::text, voucher_no, type_code, final_amount, narration
		FROM item_vouchers
		WHERE vouch_date = $1::date
		ORDER BY 1, 2`, date)
	if err != nil {
		return nil, fmt.Errorf("query day book for %s: %w", date, err)
	}
	defer rows.Close()

	var result []DayBookRow
	for rows.Next() {
		var r DayBookRow
		if err := rows.Scan(&r.Date, &r.VoucherNo, &r.Type, &r.Amount, &r.Narration); err != nil {
			return nil, fmt.Errorf("scan day book row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// SubsidiaryBook returns, for accounts in the given group, the net Dr-minus-Cr
// movement per (voucher, account) pair within the date range.
func (s *ReportingService) SubsidiaryBook(ctx context.Context, dateFrom, dateTo, groupName string) ([]SubsidiaryRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT v.vouch_date::text, v.voucher_no, v.type_code, a.name, a.group_type,
		       SUM(l.debit - l.credit) AS net_amount
		FROM account_voucher_lines l
		JOIN account_vouchers v ON v.id = l.voucher_id
		JOIN account_master a ON a.id = l.account_id
		WHERE v.vouch_date BETWEEN $1::date AND $2::date
		  AND a.group_type = $3
		GROUP BY v.id, v.vouch_date, v.voucher_no, v.type_code, a.id, a.name, a.group_type
		ORDER BY v.vouch_date, v.voucher_no, a.name`,
		dateFrom, dateTo, groupName)
	if err != nil {
		return nil, fmt.Errorf("query subsidiary book for group %q: %w", groupName, err)
	}
	defer rows.Close()

	var result []SubsidiaryRow
	for rows.Next() {
		var r SubsidiaryRow
		if err := rows.Scan(&r.Date, &r.VoucherNo, &r.Type, &r.AccountName, &r.Group, &r.NetAmount); err != nil {
			return nil, fmt.Errorf("scan subsidiary row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// TrialBalance returns lifetime Dr and Cr totals for every account, ordered by
// name. For any committed state, the sum of DrTotal over all rows equals the
// sum of CrTotal (global double-entry closure).
func (s *ReportingService) TrialBalance(ctx context.Context) ([]TrialBalanceRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.name,
		       COALESCE(SUM(l.debit), 0) AS dr_total,
		       COALESCE(SUM(l.credit), 0) AS cr_total
		FROM account_master a
		LEFT JOIN account_voucher_lines l ON l.account_id = a.id
		GROUP BY a.id, a.name
		ORDER BY a.name`)
	if err != nil {
		return nil, fmt.Errorf("query trial balance: %w", err)
	}
	defer rows.Close()

	var result []TrialBalanceRow
	for rows.Next() {
		var r TrialBalanceRow
		if err := rows.Scan(&r.AccountName, &r.DrTotal, &r.CrTotal); err != nil {
			return nil, fmt.Errorf("scan trial balance row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// StockRegister returns every item movement within the date range, ordered by
// (date, voucher number). Amount is the line's taxable amount.
func (s *ReportingService) StockRegister(ctx context.Context, dateFrom, dateTo string) ([]StockRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT v.vouch_date::text, v.voucher_no, v.type_code, i.name, l.hsn_code, l.qty, l.rate, l.taxable_amt
		FROM item_voucher_lines l
		JOIN item_vouchers v ON v.id = l.voucher_id
		JOIN item_master i ON i.id = l.item_id
		WHERE v.vouch_date BETWEEN $1::date AND $2::date
		ORDER BY v.vouch_date, v.voucher_no, l.id`,
		dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("query stock register: %w", err)
	}
	defer rows.Close()

	var result []StockRow
	for rows.Next() {
		var r StockRow
		if err := rows.Scan(&r.Date, &r.VoucherNo, &r.Type, &r.ItemName, &r.HSNCode, &r.Qty, &r.Rate, &r.Amount); err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		switch r.Type {
		case Purchase, CreditNote:
			r.Direction = StockIn
		default:
			r.Direction = StockOut
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
