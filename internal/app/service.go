package app

import (
	"context"

	"bookledger/internal/core"
)

// Service is the single interface the data-entry and report surfaces call.
// It decouples presentation from the engine: implementations accept and return
// plain records, raise typed errors from core, and contain no display logic.
type Service interface {
	// ── Master registry ──
	CreateAccount(ctx context.Context, input core.AccountInput) (int64, error)
	UpdateAccount(ctx context.Context, id int64, input core.AccountInput) (bool, error)
	DeleteAccount(ctx context.Context, id int64) (bool, error)
	GetAccount(ctx context.Context, id int64) (*core.Account, error)
	ResolveAccountID(ctx context.Context, name string) (int64, error)
	AccountGroups(ctx context.Context) ([]string, error)

	// ListAccounts returns every account ordered by name.
	ListAccounts(ctx context.Context) ([]core.Account, error)
	// ListLedgerAccounts returns accounts with the configured exclude
	// groups filtered out, for ledger-line pickers.
	ListLedgerAccounts(ctx context.Context) ([]core.Account, error)
	// ListPartyAccounts returns the accounts in the party group, for the
	// party picker on item vouchers.
	ListPartyAccounts(ctx context.Context) ([]core.Account, error)

	CreateItem(ctx context.Context, input core.ItemInput) (int64, error)
	UpdateItem(ctx context.Context, id int64, input core.ItemInput) (bool, error)
	DeleteItem(ctx context.Context, id int64) (bool, error)
	GetItem(ctx context.Context, id int64) (*core.Item, error)
	ListItems(ctx context.Context) ([]core.Item, error)
	ResolveItemID(ctx context.Context, name string) (int64, error)

	// ── Voucher store ──
	PostAccountVoucher(ctx context.Context, typeCode core.VoucherType, header core.AccountVoucherHeader, lines []core.AccountLineInput) (int64, error)
	PostItemVoucher(ctx context.Context, typeCode core.VoucherType, header core.ItemVoucherHeader, lines []core.ItemLineInput) (int64, error)
	UpdateAccountVoucher(ctx context.Context, id int64, typeCode core.VoucherType, header core.AccountVoucherHeader, lines []core.AccountLineInput) (bool, error)
	UpdateItemVoucher(ctx context.Context, id int64, typeCode core.VoucherType, header core.ItemVoucherHeader, lines []core.ItemLineInput) (bool, error)
	DeleteVoucher(ctx context.Context, id int64, typeCode core.VoucherType) (bool, error)
	GetAccountVoucher(ctx context.Context, id int64, typeCode core.VoucherType) (*core.AccountVoucher, error)
	GetItemVoucher(ctx context.Context, id int64, typeCode core.VoucherType) (*core.ItemVoucher, error)

	// ── Reports ──
	Ledger(ctx context.Context, accountName, dateFrom, dateTo string) (*LedgerResult, error)
	DayBook(ctx context.Context, date string) ([]core.DayBookRow, error)
	SubsidiaryBook(ctx context.Context, dateFrom, dateTo, groupName string) ([]core.SubsidiaryRow, error)
	TrialBalance(ctx context.Context) (*TrialBalanceResult, error)
	StockRegister(ctx context.Context, dateFrom, dateTo string) ([]core.StockRow, error)

	// ── Settings ──
	SaveSetting(ctx context.Context, key, value, description string) error
	GetSetting(ctx context.Context, key string) (string, error)
	// PartyAccountGroup resolves the party group: the database setting when
	// saved, otherwise the configuration file value.
	PartyAccountGroup(ctx context.Context) (string, error)
}
