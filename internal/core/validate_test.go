package core_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookledger/internal/core"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

var knownMasters = core.MapChecker{
	Accounts: map[string]bool{"Cash": true, "Bank": true, "Sales": true, "Ravi Traders": true},
	Items:    map[string]bool{"Widget": true, "Gadget": true},
}

func drLine(account, amount string) core.AccountLineInput {
	return core.AccountLineInput{AccountName: account, Debit: dec(amount)}
}

func crLine(account, amount string) core.AccountLineInput {
	return core.AccountLineInput{AccountName: account, Credit: dec(amount)}
}

func TestValidateAccountVoucher_Balanced(t *testing.T) {
	lines := []core.AccountLineInput{
		drLine("Cash", "100.00"),
		crLine("Sales", "100.00"),
	}
	err := core.ValidateAccountVoucher(context.Background(), core.Journal, lines, knownMasters)
	assert.NoError(t, err)
}

func TestValidateAccountVoucher_EmptyLineSet(t *testing.T) {
	err := core.ValidateAccountVoucher(context.Background(), core.Payment, nil, knownMasters)
	assert.ErrorIs(t, err, core.ErrEmptyLineSet)
}

func TestValidateAccountVoucher_MixedSide(t *testing.T) {
	lines := []core.AccountLineInput{
		drLine("Cash", "100.00"),
		{AccountName: "Bank", Debit: dec("50.00"), Credit: dec("50.00")},
	}
	err := core.ValidateAccountVoucher(context.Background(), core.Journal, lines, knownMasters)

	var mixed *core.MixedSideError
	require.ErrorAs(t, err, &mixed)
	assert.Equal(t, 2, mixed.Line)
}

func TestValidateAccountVoucher_InsufficientLines(t *testing.T) {
	lines := []core.AccountLineInput{
		drLine("Cash", "100.00"),
	}
	err := core.ValidateAccountVoucher(context.Background(), core.Receipt, lines, knownMasters)

	var insufficient *core.InsufficientLinesError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.Active)
}

func TestValidateAccountVoucher_InactiveLinesNotCounted(t *testing.T) {
	// Two zero lines plus one active line: still insufficient.
	lines := []core.AccountLineInput{
		drLine("Cash", "100.00"),
		{AccountName: "Bank"},
		{AccountName: "Sales"},
	}
	err := core.ValidateAccountVoucher(context.Background(), core.Journal, lines, knownMasters)

	var insufficient *core.InsufficientLinesError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.Active)
}

func TestValidateAccountVoucher_InactiveLinesSkipUnknownNames(t *testing.T) {
	// An inactive line naming nothing resolvable must not fail the voucher.
	lines := []core.AccountLineInput{
		drLine("Cash", "100.00"),
		{AccountName: ""},
		crLine("Sales", "100.00"),
	}
	err := core.ValidateAccountVoucher(context.Background(), core.Journal, lines, knownMasters)
	assert.NoError(t, err)
}

func TestValidateAccountVoucher_Unbalanced(t *testing.T) {
	lines := []core.AccountLineInput{
		drLine("Cash", "100.00"),
		crLine("Bank", "90.00"),
	}
	err := core.ValidateAccountVoucher(context.Background(), core.Journal, lines, knownMasters)

	var unbalanced *core.UnbalancedError
	require.ErrorAs(t, err, &unbalanced)
	assert.Equal(t, "100.00", unbalanced.Debit.StringFixed(2))
	assert.Equal(t, "90.00", unbalanced.Credit.StringFixed(2))
}

func TestValidateAccountVoucher_ExactDecimalComparison(t *testing.T) {
	// 0.10 + 0.20 must equal 0.30 exactly, with no float drift.
	lines := []core.AccountLineInput{
		drLine("Cash", "0.10"),
		drLine("Bank", "0.20"),
		crLine("Sales", "0.30"),
	}
	err := core.ValidateAccountVoucher(context.Background(), core.Journal, lines, knownMasters)
	assert.NoError(t, err)
}

func TestValidateAccountVoucher_UnknownAccount(t *testing.T) {
	lines := []core.AccountLineInput{
		drLine("Cash", "100.00"),
		crLine("No Such Account", "100.00"),
	}
	err := core.ValidateAccountVoucher(context.Background(), core.Journal, lines, knownMasters)

	var unknown *core.UnknownReferenceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "No Such Account", unknown.Name)
	assert.Equal(t, 2, unknown.Line)
}

func TestValidateAccountVoucher_NegativeAmount(t *testing.T) {
	lines := []core.AccountLineInput{
		{AccountName: "Cash", Debit: dec("-100.00")},
		crLine("Sales", "100.00"),
	}
	err := core.ValidateAccountVoucher(context.Background(), core.Journal, lines, knownMasters)
	assert.ErrorContains(t, err, "cannot be negative")
}

func TestValidateAccountVoucher_WrongFamily(t *testing.T) {
	lines := []core.AccountLineInput{
		drLine("Cash", "100.00"),
		crLine("Sales", "100.00"),
	}
	err := core.ValidateAccountVoucher(context.Background(), core.Sales, lines, knownMasters)
	assert.ErrorContains(t, err, "not an account voucher type")
}

func itemLine(item, qty, rate string) core.ItemLineInput {
	return core.ItemLineInput{ItemName: item, Qty: dec(qty), Rate: dec(rate)}
}

func TestValidateItemVoucher_Valid(t *testing.T) {
	lines := []core.ItemLineInput{
		itemLine("Widget", "2", "150.00"),
		itemLine("Gadget", "1.5", "40.00"),
	}
	err := core.ValidateItemVoucher(context.Background(), core.Sales, "Ravi Traders", lines, knownMasters)
	assert.NoError(t, err)
}

func TestValidateItemVoucher_EmptyLineSet(t *testing.T) {
	err := core.ValidateItemVoucher(context.Background(), core.Purchase, "Ravi Traders", nil, knownMasters)
	assert.ErrorIs(t, err, core.ErrEmptyLineSet)
}

func TestValidateItemVoucher_UnknownParty(t *testing.T) {
	lines := []core.ItemLineInput{itemLine("Widget", "1", "10.00")}
	err := core.ValidateItemVoucher(context.Background(), core.Sales, "Ghost & Co", lines, knownMasters)

	var unknown *core.UnknownReferenceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Ghost & Co", unknown.Name)
	assert.Equal(t, 0, unknown.Line)
}

func TestValidateItemVoucher_UnknownItem(t *testing.T) {
	lines := []core.ItemLineInput{
		itemLine("Widget", "1", "10.00"),
		itemLine("Doohickey", "1", "10.00"),
	}
	err := core.ValidateItemVoucher(context.Background(), core.Purchase, "Ravi Traders", lines, knownMasters)

	var unknown *core.UnknownReferenceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Doohickey", unknown.Name)
	assert.Equal(t, 2, unknown.Line)
}

func TestValidateItemVoucher_ZeroQty(t *testing.T) {
	lines := []core.ItemLineInput{itemLine("Widget", "0", "10.00")}
	err := core.ValidateItemVoucher(context.Background(), core.Sales, "Ravi Traders", lines, knownMasters)
	assert.ErrorContains(t, err, "quantity must be > 0")
}

func TestValidateItemVoucher_DiscountOutOfRange(t *testing.T) {
	// Above 100 would turn taxable negative, below 0 would inflate it.
	over := []core.ItemLineInput{
		{ItemName: "Widget", Qty: dec("1"), Rate: dec("10.00"), DiscountPct: dec("100.01")},
	}
	err := core.ValidateItemVoucher(context.Background(), core.Sales, "Ravi Traders", over, knownMasters)
	assert.ErrorContains(t, err, "discount must be between 0 and 100")

	under := []core.ItemLineInput{
		{ItemName: "Widget", Qty: dec("1"), Rate: dec("10.00"), DiscountPct: dec("-5")},
	}
	err = core.ValidateItemVoucher(context.Background(), core.Sales, "Ravi Traders", under, knownMasters)
	assert.ErrorContains(t, err, "discount must be between 0 and 100")
}

func TestValidateItemVoucher_FullDiscountAllowed(t *testing.T) {
	lines := []core.ItemLineInput{
		{ItemName: "Widget", Qty: dec("1"), Rate: dec("10.00"), DiscountPct: dec("100")},
	}
	err := core.ValidateItemVoucher(context.Background(), core.Sales, "Ravi Traders", lines, knownMasters)
	assert.NoError(t, err)
}

func TestValidateItemVoucher_WrongFamily(t *testing.T) {
	lines := []core.ItemLineInput{itemLine("Widget", "1", "10.00")}
	err := core.ValidateItemVoucher(context.Background(), core.Payment, "Ravi Traders", lines, knownMasters)
	assert.ErrorContains(t, err, "not an item voucher type")
}
