package app

import (
	"github.com/shopspring/decimal"

	"bookledger/internal/core"
)

// LedgerResult is an account ledger plus its closing position for the period.
type LedgerResult struct {
	AccountName string
	DateFrom    string
	DateTo      string
	Rows        []core.LedgerRow
	Closing     decimal.Decimal
	ClosingSide core.Side
}

// TrialBalanceResult is the trial balance plus its column totals. Balanced is
// true when total debits equal total credits, which must hold for any
// committed state.
type TrialBalanceResult struct {
	Rows     []core.TrialBalanceRow
	TotalDr  decimal.Decimal
	TotalCr  decimal.Decimal
	Balanced bool
}
