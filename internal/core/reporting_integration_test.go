package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"bookledger/internal/core"
)

func TestReporting_LedgerRunningBalance(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	masters := seedCashSales(t, pool)
	mustCreateAccount(t, masters, "Rent", "Indirect Expenses")
	vouchers := core.NewVoucherService(pool)
	reports := core.NewReportingService(pool)
	ctx := context.Background()

	_, err := vouchers.PostAccountVoucher(ctx, core.Receipt,
		core.AccountVoucherHeader{Date: "2024-01-01", VoucherNo: "R-1", Narration: "opening sale"},
		[]core.AccountLineInput{
			{AccountName: "Cash", Debit: dec("100.00")},
			{AccountName: "Sales", Credit: dec("100.00")},
		})
	if err != nil {
		t.Fatalf("post receipt: %v", err)
	}
	_, err = vouchers.PostAccountVoucher(ctx, core.Payment,
		core.AccountVoucherHeader{Date: "2024-01-02", VoucherNo: "P-1", Narration: "rent"},
		[]core.AccountLineInput{
			{AccountName: "Rent", Debit: dec("40.00")},
			{AccountName: "Cash", Credit: dec("40.00")},
		})
	if err != nil {
		t.Fatalf("post payment: %v", err)
	}

	rows, err := reports.Ledger(ctx, "Cash", "2024-01-01", "2024-12-31")
	if err != nil {
		t.Fatalf("Ledger failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 ledger rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Side != core.SideDebit || first.Amount.StringFixed(2) != "100.00" {
		t.Errorf("Unexpected first posting: %+v", first)
	}
	if first.Balance.StringFixed(2) != "100.00" || first.BalanceSide != core.SideDebit {
		t.Errorf("Expected running balance 100.00 Dr, got %s %s", first.Balance, first.BalanceSide)
	}

	second := rows[1]
	if second.Side != core.SideCredit || second.Amount.StringFixed(2) != "40.00" {
		t.Errorf("Unexpected second posting: %+v", second)
	}
	if second.Balance.StringFixed(2) != "60.00" || second.BalanceSide != core.SideDebit {
		t.Errorf("Expected running balance 60.00 Dr, got %s %s", second.Balance, second.BalanceSide)
	}
}

func TestReporting_LedgerCreditBalanceLabelled(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	seedCashSales(t, pool)
	vouchers := core.NewVoucherService(pool)
	reports := core.NewReportingService(pool)
	ctx := context.Background()

	_, err := vouchers.PostAccountVoucher(ctx, core.Receipt,
		core.AccountVoucherHeader{Date: "2024-01-01", VoucherNo: "R-1"},
		[]core.AccountLineInput{
			{AccountName: "Cash", Debit: dec("100.00")},
			{AccountName: "Sales", Credit: dec("100.00")},
		})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	rows, err := reports.Ledger(ctx, "Sales", "2024-01-01", "2024-12-31")
	if err != nil {
		t.Fatalf("Ledger failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	// A net-credit position is reported as a positive magnitude labelled Cr.
	if rows[0].Balance.StringFixed(2) != "100.00" || rows[0].BalanceSide != core.SideCredit {
		t.Errorf("Expected 100.00 Cr, got %s %s", rows[0].Balance, rows[0].BalanceSide)
	}
}

func TestReporting_LedgerUnknownAccount(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	reports := core.NewReportingService(pool)

	_, err := reports.Ledger(context.Background(), "Nobody", "2024-01-01", "2024-12-31")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestReporting_LedgerDateRangeFilters(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	seedCashSales(t, pool)
	vouchers := core.NewVoucherService(pool)
	reports := core.NewReportingService(pool)
	ctx := context.Background()

	for _, d := range []struct{ date, no string }{
		{"2024-01-15", "R-1"}, {"2024-02-15", "R-2"}, {"2024-03-15", "R-3"},
	} {
		_, err := vouchers.PostAccountVoucher(ctx, core.Receipt,
			core.AccountVoucherHeader{Date: d.date, VoucherNo: d.no},
			[]core.AccountLineInput{
				{AccountName: "Cash", Debit: dec("10.00")},
				{AccountName: "Sales", Credit: dec("10.00")},
			})
		if err != nil {
			t.Fatalf("post %s: %v", d.no, err)
		}
	}

	rows, err := reports.Ledger(ctx, "Cash", "2024-02-01", "2024-02-29")
	if err != nil {
		t.Fatalf("Ledger failed: %v", err)
	}
	if len(rows) != 1 || rows[0].VoucherNo != "R-2" {
		t.Errorf("Expected only R-2 in February, got %+v", rows)
	}
	// The running balance restarts from zero for the requested period.
	if rows[0].Balance.StringFixed(2) != "10.00" {
		t.Errorf("Expected period balance 10.00, got %s", rows[0].Balance)
	}
}

func TestReporting_DayBookUnionsBothFamilies(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	masters := seedCashSales(t, pool)
	mustCreateAccount(t, masters, "Acme Traders", "Sundry Debtors")
	mustCreateItem(t, masters, core.ItemInput{Name: "Widget", TaxRate: dec("18.00")})
	vouchers := core.NewVoucherService(pool)
	reports := core.NewReportingService(pool)
	ctx := context.Background()

	_, err := vouchers.PostAccountVoucher(ctx, core.Payment,
		core.AccountVoucherHeader{Date: "2024-02-01", VoucherNo: "P-1", Narration: "expenses"},
		[]core.AccountLineInput{
			{AccountName: "Sales", Debit: dec("20.00")},
			{AccountName: "Cash", Credit: dec("20.00")},
		})
	if err != nil {
		t.Fatalf("post payment: %v", err)
	}
	_, err = vouchers.PostItemVoucher(ctx, core.Sales,
		core.ItemVoucherHeader{Date: "2024-02-01", VoucherNo: "S-1", PartyName: "Acme Traders"},
		[]core.ItemLineInput{
			{ItemName: "Widget", Qty: dec("1"), Rate: dec("100.00")},
		})
	if err != nil {
		t.Fatalf("post sale: %v", err)
	}
	// A voucher on another day must not appear.
	_, err = vouchers.PostAccountVoucher(ctx, core.Receipt,
		core.AccountVoucherHeader{Date: "2024-02-02", VoucherNo: "R-1"},
		[]core.AccountLineInput{
			{AccountName: "Cash", Debit: dec("5.00")},
			{AccountName: "Sales", Credit: dec("5.00")},
		})
	if err != nil {
		t.Fatalf("post receipt: %v", err)
	}

	rows, err := reports.DayBook(ctx, "2024-02-01")
	if err != nil {
		t.Fatalf("DayBook failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 day book rows, got %d", len(rows))
	}
	if rows[0].VoucherNo != "P-1" || rows[0].Type != core.Payment || rows[0].Amount.StringFixed(2) != "20.00" {
		t.Errorf("Unexpected account voucher row: %+v", rows[0])
	}
	// The item voucher contributes its tax-inclusive final amount.
	if rows[1].VoucherNo != "S-1" || rows[1].Type != core.Sales || rows[1].Amount.StringFixed(2) != "118.00" {
		t.Errorf("Unexpected item voucher row: %+v", rows[1])
	}
}

func TestReporting_SubsidiaryBookNetsPerVoucher(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	masters := seedCashSales(t, pool)
	mustCreateAccount(t, masters, "Acme Traders", "Sundry Debtors")
	vouchers := core.NewVoucherService(pool)
	reports := core.NewReportingService(pool)
	ctx := context.Background()

	// Acme appears twice in the same journal; the report nets the movement.
	_, err := vouchers.PostAccountVoucher(ctx, core.Journal,
		core.AccountVoucherHeader{Date: "2024-04-01", VoucherNo: "J-1"},
		[]core.AccountLineInput{
			{AccountName: "Acme Traders", Debit: dec("500.00")},
			{AccountName: "Acme Traders", Credit: dec("120.00")},
			{AccountName: "Sales", Credit: dec("380.00")},
		})
	if err != nil {
		t.Fatalf("post journal: %v", err)
	}

	rows, err := reports.SubsidiaryBook(ctx, "2024-04-01", "2024-04-30", "Sundry Debtors")
	if err != nil {
		t.Fatalf("SubsidiaryBook failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 netted row, got %d", len(rows))
	}
	r := rows[0]
	if r.AccountName != "Acme Traders" || r.Group != "Sundry Debtors" {
		t.Errorf("Unexpected row identity: %+v", r)
	}
	if r.NetAmount.StringFixed(2) != "380.00" {
		t.Errorf("Expected net 380.00, got %s", r.NetAmount)
	}
}

func TestReporting_TrialBalanceClosesAndIncludesIdleAccounts(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	masters := seedCashSales(t, pool)
	mustCreateAccount(t, masters, "Dormant", "Suspense A/c")
	vouchers := core.NewVoucherService(pool)
	reports := core.NewReportingService(pool)
	ctx := context.Background()

	_, err := vouchers.PostAccountVoucher(ctx, core.Receipt,
		core.AccountVoucherHeader{Date: "2024-05-01", VoucherNo: "R-1"},
		[]core.AccountLineInput{
			{AccountName: "Cash", Debit: dec("250.00")},
			{AccountName: "Sales", Credit: dec("250.00")},
		})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	rows, err := reports.TrialBalance(ctx)
	if err != nil {
		t.Fatalf("TrialBalance failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows (every account), got %d", len(rows))
	}

	totalDr, totalCr := decimal.Zero, decimal.Zero
	byName := map[string]core.TrialBalanceRow{}
	for _, r := range rows {
		byName[r.AccountName] = r
		totalDr = totalDr.Add(r.DrTotal)
		totalCr = totalCr.Add(r.CrTotal)
	}

	if !totalDr.Equal(totalCr) {
		t.Errorf("Trial balance does not close: Dr %s vs Cr %s", totalDr, totalCr)
	}
	dormant := byName["Dormant"]
	if !dormant.DrTotal.IsZero() || !dormant.CrTotal.IsZero() {
		t.Errorf("Idle account should carry zero totals: %+v", dormant)
	}
	if byName["Cash"].DrTotal.StringFixed(2) != "250.00" {
		t.Errorf("Unexpected Cash debits: %+v", byName["Cash"])
	}
}

func TestReporting_StockRegisterDirections(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	masters := core.NewMasterService(pool)
	mustCreateAccount(t, masters, "Acme Traders", "Sundry Debtors")
	mustCreateAccount(t, masters, "Zenith Supplies", "Sundry Creditors")
	mustCreateItem(t, masters, core.ItemInput{Name: "Widget", HSNCode: "8479", TaxRate: dec("18.00")})

	vouchers := core.NewVoucherService(pool)
	reports := core.NewReportingService(pool)
	ctx := context.Background()

	_, err := vouchers.PostItemVoucher(ctx, core.Purchase,
		core.ItemVoucherHeader{Date: "2024-06-01", VoucherNo: "PU-1", PartyName: "Zenith Supplies"},
		[]core.ItemLineInput{
			{ItemName: "Widget", Qty: dec("20"), Rate: dec("80.00")},
		})
	if err != nil {
		t.Fatalf("post purchase: %v", err)
	}
	_, err = vouchers.PostItemVoucher(ctx, core.Sales,
		core.ItemVoucherHeader{Date: "2024-06-03", VoucherNo: "S-1", PartyName: "Acme Traders"},
		[]core.ItemLineInput{
			{ItemName: "Widget", Qty: dec("5"), Rate: dec("120.00")},
		})
	if err != nil {
		t.Fatalf("post sale: %v", err)
	}

	rows, err := reports.StockRegister(ctx, "2024-06-01", "2024-06-30")
	if err != nil {
		t.Fatalf("StockRegister failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 movements, got %d", len(rows))
	}
	if rows[0].Direction != core.StockIn || rows[0].Qty.StringFixed(3) != "20.000" {
		t.Errorf("Expected purchase to move stock in: %+v", rows[0])
	}
	if rows[1].Direction != core.StockOut || rows[1].Qty.StringFixed(3) != "5.000" {
		t.Errorf("Expected sale to move stock out: %+v", rows[1])
	}
	if rows[0].Amount.StringFixed(2) != "1600.00" {
		t.Errorf("Expected purchase amount 1600.00, got %s", rows[0].Amount)
	}
}
