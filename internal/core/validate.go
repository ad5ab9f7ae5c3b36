package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// MasterChecker answers whether a master name exists. The voucher store
// provides a transaction-scoped implementation so the check and the insert see
// the same snapshot; tests use a map-backed one.
type MasterChecker interface {
	HasAccount(ctx context.Context, name string) (bool, error)
	HasItem(ctx context.Context, name string) (bool, error)
}

// MapChecker is a MasterChecker over in-memory name sets.
type MapChecker struct {
	Accounts map[string]bool
	Items    map[string]bool
}

func (c MapChecker) HasAccount(_ context.Context, name string) (bool, error) {
	return c.Accounts[name], nil
}

func (c MapChecker) HasItem(_ context.Context, name string) (bool, error) {
	return c.Items[name], nil
}

// ValidateAccountVoucher checks a proposed set of Dr/Cr lines against the
// double-entry invariants before anything is written:
//
//   - at least one line (ErrEmptyLineSet)
//   - no line with amounts on both sides (MixedSideError)
//   - every active line resolves to a known account (UnknownReferenceError)
//   - at least two active lines (InsufficientLinesError)
//   - sum of debits exactly equals sum of credits (UnbalancedError)
//
// Lines with zero on both sides are inactive and ignored. Comparison is exact
// decimal arithmetic; no rounding is applied.
func ValidateAccountVoucher(ctx context.Context, typeCode VoucherType, lines []AccountLineInput, masters MasterChecker) error {
	if !typeCode.IsAccountVoucher() {
		return fmt.Errorf("%s is not an account voucher type", typeCode)
	}
	if len(lines) == 0 {
		return ErrEmptyLineSet
	}

	active := 0
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for i, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("line %d: amount cannot be negative for account %q", i+1, line.AccountName)
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return &MixedSideError{Line: i + 1}
		}
		if !line.Active() {
			continue
		}
		active++

		ok, err := masters.HasAccount(ctx, line.AccountName)
		if err != nil {
			return fmt.Errorf("resolve account %q: %w", line.AccountName, err)
		}
		if !ok {
			return &UnknownReferenceError{Name: line.AccountName, Line: i + 1}
		}

		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if active < 2 {
		return &InsufficientLinesError{Active: active}
	}
	if !totalDebit.Equal(totalCredit) {
		return &UnbalancedError{Debit: totalDebit, Credit: totalCredit}
	}
	return nil
}

// ValidateItemVoucher checks a proposed item voucher: the party account must
// resolve, every line must name a known item, every quantity must be
// positive, and every discount must lie within 0..100 percent. The balance
// invariant does not apply to item vouchers.
func ValidateItemVoucher(ctx context.Context, typeCode VoucherType, partyName string, lines []ItemLineInput, masters MasterChecker) error {
	if !typeCode.IsItemVoucher() {
		return fmt.Errorf("%s is not an item voucher type", typeCode)
	}
	if len(lines) == 0 {
		return ErrEmptyLineSet
	}

	ok, err := masters.HasAccount(ctx, partyName)
	if err != nil {
		return fmt.Errorf("resolve party account %q: %w", partyName, err)
	}
	if !ok {
		return &UnknownReferenceError{Name: partyName}
	}

	for i, line := range lines {
		if !line.Qty.IsPositive() {
			return fmt.Errorf("line %d: quantity must be > 0 for item %q", i+1, line.ItemName)
		}
		if line.Rate.IsNegative() {
			return fmt.Errorf("line %d: rate cannot be negative for item %q", i+1, line.ItemName)
		}
		if line.DiscountPct.IsNegative() || line.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("line %d: discount must be between 0 and 100 percent for item %q", i+1, line.ItemName)
		}
		ok, err := masters.HasItem(ctx, line.ItemName)
		if err != nil {
			return fmt.Errorf("resolve item %q: %w", line.ItemName, err)
		}
		if !ok {
			return &UnknownReferenceError{Name: line.ItemName, Line: i + 1}
		}
	}
	return nil
}
