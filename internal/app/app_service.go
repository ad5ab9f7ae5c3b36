package app

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"bookledger/internal/config"
	"bookledger/internal/core"
)

type appService struct {
	masters  *core.MasterService
	vouchers *core.VoucherService
	reports  *core.ReportingService
	settings *core.SettingsService
	cfg      *config.Config
}

// New wires the engine services over one pool. cfg may be nil, in which case
// defaults apply.
func New(pool *pgxpool.Pool, cfg *config.Config) Service {
	if cfg == nil {
		cfg = config.Default()
	}
	return &appService{
		masters:  core.NewMasterService(pool),
		vouchers: core.NewVoucherService(pool),
		reports:  core.NewReportingService(pool),
		settings: core.NewSettingsService(pool),
		cfg:      cfg,
	}
}

// ── Master registry ───────────────────────────────────────────────────────────

func (s *appService) CreateAccount(ctx context.Context, input core.AccountInput) (int64, error) {
	return s.masters.CreateAccount(ctx, input)
}

func (s *appService) UpdateAccount(ctx context.Context, id int64, input core.AccountInput) (bool, error) {
	return s.masters.UpdateAccount(ctx, id, input)
}

func (s *appService) DeleteAccount(ctx context.Context, id int64) (bool, error) {
	return s.masters.DeleteAccount(ctx, id)
}

func (s *appService) GetAccount(ctx context.Context, id int64) (*core.Account, error) {
	return s.masters.GetAccount(ctx, id)
}

func (s *appService) ResolveAccountID(ctx context.Context, name string) (int64, error) {
	return s.masters.ResolveAccountID(ctx, name)
}

func (s *appService) AccountGroups(ctx context.Context) ([]string, error) {
	return s.masters.AccountGroups(ctx)
}

func (s *appService) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return s.masters.ListAccounts(ctx, nil)
}

func (s *appService) ListLedgerAccounts(ctx context.Context) ([]core.Account, error) {
	return s.masters.ListAccounts(ctx, s.cfg.ExcludeGroups)
}

func (s *appService) ListPartyAccounts(ctx context.Context) ([]core.Account, error) {
	group, err := s.PartyAccountGroup(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.masters.ListAccounts(ctx, nil)
	if err != nil {
		return nil, err
	}
	var parties []core.Account
	for _, a := range all {
		if a.Group == group {
			parties = append(parties, a)
		}
	}
	return parties, nil
}

func (s *appService) CreateItem(ctx context.Context, input core.ItemInput) (int64, error) {
	return s.masters.CreateItem(ctx, input)
}

func (s *appService) UpdateItem(ctx context.Context, id int64, input core.ItemInput) (bool, error) {
	return s.masters.UpdateItem(ctx, id, input)
}

func (s *appService) DeleteItem(ctx context.Context, id int64) (bool, error) {
	return s.masters.DeleteItem(ctx, id)
}

func (s *appService) GetItem(ctx context.Context, id int64) (*core.Item, error) {
	return s.masters.GetItem(ctx, id)
}

func (s *appService) ListItems(ctx context.Context) ([]core.Item, error) {
	return s.masters.ListItems(ctx)
}

func (s *appService) ResolveItemID(ctx context.Context, name string) (int64, error) {
	return s.masters.ResolveItemID(ctx, name)
}

// ── Voucher store ─────────────────────────────────────────────────────────────

func (s *appService) PostAccountVoucher(ctx context.Context, typeCode core.VoucherType, header core.AccountVoucherHeader, lines []core.AccountLineInput) (int64, error) {
	return s.vouchers.PostAccountVoucher(ctx, typeCode, header, lines)
}

func (s *appService) PostItemVoucher(ctx context.Context, typeCode core.VoucherType, header core.ItemVoucherHeader, lines []core.ItemLineInput) (int64, error) {
	return s.vouchers.PostItemVoucher(ctx, typeCode, header, lines)
}

func (s *appService) UpdateAccountVoucher(ctx context.Context, id int64, typeCode core.VoucherType, header core.AccountVoucherHeader, lines []core.AccountLineInput) (bool, error) {
	return s.vouchers.UpdateAccountVoucher(ctx, id, typeCode, header, lines)
}

func (s *appService) UpdateItemVoucher(ctx context.Context, id int64, typeCode core.VoucherType, header core.ItemVoucherHeader, lines []core.ItemLineInput) (bool, error) {
	return s.vouchers.UpdateItemVoucher(ctx, id, typeCode, header, lines)
}

func (s *appService) DeleteVoucher(ctx context.Context, id int64, typeCode core.VoucherType) (bool, error) {
	return s.vouchers.DeleteVoucher(ctx, id, typeCode)
}

func (s *appService) GetAccountVoucher(ctx context.Context, id int64, typeCode core.VoucherType) (*core.AccountVoucher, error) {
	return s.vouchers.GetAccountVoucherByID(ctx, id, typeCode)
}

func (s *appService) GetItemVoucher(ctx context.Context, id int64, typeCode core.VoucherType) (*core.ItemVoucher, error) {
	return s.vouchers.GetItemVoucherByID(ctx, id, typeCode)
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (s *appService) Ledger(ctx context.Context, accountName, dateFrom, dateTo string) (*LedgerResult, error) {
	rows, err := s.reports.Ledger(ctx, accountName, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	result := &LedgerResult{
		AccountName: accountName,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		Rows:        rows,
		ClosingSide: core.SideDebit,
	}
	if n := len(rows); n > 0 {
		result.Closing = rows[n-1].Balance
		result.ClosingSide = rows[n-1].BalanceSide
	}
	return result, nil
}

func (s *appService) DayBook(ctx context.Context, date string) ([]core.DayBookRow, error) {
	return s.reports.DayBook(ctx, date)
}

func (s *appService) SubsidiaryBook(ctx context.Context, dateFrom, dateTo, groupName string) ([]core.SubsidiaryRow, error) {
	return s.reports.SubsidiaryBook(ctx, dateFrom, dateTo, groupName)
}

func (s *appService) TrialBalance(ctx context.Context) (*TrialBalanceResult, error) {
	rows, err := s.reports.TrialBalance(ctx)
	if err != nil {
		return nil, err
	}

	totalDr := decimal.Zero
	totalCr := decimal.Zero
	for _, r := range rows {
		totalDr = totalDr.Add(r.DrTotal)
		totalCr = totalCr.Add(r.CrTotal)
	}
	return &TrialBalanceResult{
		Rows:     rows,
		TotalDr:  totalDr,
		TotalCr:  totalCr,
		Balanced: totalDr.Equal(totalCr),
	}, nil
}

func (s *appService) StockRegister(ctx context.Context, dateFrom, dateTo string) ([]core.StockRow, error) {
	return s.reports.StockRegister(ctx, dateFrom, dateTo)
}

// ── Settings ──────────────────────────────────────────────────────────────────

func (s *appService) SaveSetting(ctx context.Context, key, value, description string) error {
	return s.settings.SaveSetting(ctx, key, value, description)
}

func (s *appService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.settings.GetSetting(ctx, key)
}

func (s *appService) PartyAccountGroup(ctx context.Context) (string, error) {
	group, err := s.settings.PartyAccountGroup(ctx)
	if err == nil {
		return group, nil
	}
	if errors.Is(err, core.ErrNotFound) {
		return s.cfg.PartyMasterType, nil
	}
	return "", err
}
