package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType is the closed set of voucher type codes.
type VoucherType string

const (
	Payment    VoucherType = "PAY"
	Receipt    VoucherType = "REC"
	Journal    VoucherType = "JNL"
	Contra     VoucherType = "CON"
	Sales      VoucherType = "SAL"
	Purchase   VoucherType = "PUR"
	CreditNote VoucherType = "CN"
	DebitNote  VoucherType = "DN"
)

// IsAccountVoucher reports whether the type belongs to the account-voucher
// family (double-entry Dr/Cr lines against accounts).
func (t VoucherType) IsAccountVoucher() bool {
	switch t {
	case Payment, Receipt, Journal, Contra:
		return true
	}
	return false
}

// IsItemVoucher reports whether the type belongs to the item-voucher family
// (quantity/rate lines against items, with a party account on the header).
func (t VoucherType) IsItemVoucher() bool {
	switch t {
	case Sales, Purchase, CreditNote, DebitNote:
		return true
	}
	return false
}

// Side is one of the two sides of a double-entry posting.
type Side string

const (
	SideDebit  Side = "Dr"
	SideCredit Side = "Cr"
)

type Account struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Group          string          `json:"group"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	OpeningSide    Side            `json:"ob_side"`
	Alias          string          `json:"alias,omitempty"`
	Address        string          `json:"address,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	GSTNo          string          `json:"gst_no,omitempty"`
	PANNo          string          `json:"pan_no,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AccountInput carries the caller-supplied fields for creating or updating an
// account master. The id is assigned by the registry and never changes.
type AccountInput struct {
	Name           string
	Group          string
	OpeningBalance decimal.Decimal
	OpeningSide    Side
	Alias          string
	Address        string
	Phone          string
	Email          string
	GSTNo          string
	PANNo          string
}

type Item struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	HSNCode       string          `json:"hsn_code"`
	Unit          string          `json:"unit"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	OpeningStock  decimal.Decimal `json:"opening_stock"`
	OpeningRate   decimal.Decimal `json:"opening_rate"`
	CreatedAt     time.Time       `json:"created_at"`
}

type ItemInput struct {
	Name          string
	HSNCode       string
	Unit          string
	TaxRate       decimal.Decimal
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	OpeningStock  decimal.Decimal
	OpeningRate   decimal.Decimal
}

// AccountVoucherHeader is the caller-supplied header for an account voucher.
// TotalAmount is not part of the input: the store derives it from the lines.
type AccountVoucherHeader struct {
	Date        string // YYYY-MM-DD
	VoucherNo   string
	Narration   string
	RefNo       string
	PaymentMode string
}

// AccountLineInput is one proposed Dr/Cr posting. A valid line carries a
// positive amount on exactly one side; a line with zero on both sides is
// inactive and skipped at commit time.
type AccountLineInput struct {
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	AgainstRef  string
	Remarks     string
}

// Active reports whether the line carries an amount on either side.
func (l AccountLineInput) Active() bool {
	return l.Debit.IsPositive() || l.Credit.IsPositive()
}

type AccountVoucher struct {
	ID          int64
	Type        VoucherType
	Date        string
	VoucherNo   string
	Narration   string
	RefNo       string
	PaymentMode string
	TotalAmount decimal.Decimal
	Revision    int
	Lines       []AccountVoucherLine
}

type AccountVoucherLine struct {
	ID          int64
	AccountID   int64
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	AgainstRef  string
	Remarks     string
}

// ItemVoucherHeader is the caller-supplied header for an item voucher.
// Taxable/tax/final totals are not part of the input: the store derives them
// from the lines and the item masters' tax rates.
type ItemVoucherHeader struct {
	Date       string // YYYY-MM-DD
	VoucherNo  string
	RefNo      string
	PartyName  string
	TaxType    string
	Narration  string
	AgainstRef string
}

// ItemLineInput is one proposed item movement. TaxableAmt and TaxAmt are
// derived server-side: taxable = qty * rate * (1 - discount/100), tax =
// taxable * item tax rate / 100, both rounded to two decimals.
type ItemLineInput struct {
	ItemName    string
	HSNCode     string // empty means take the item master's HSN code
	Qty         decimal.Decimal
	Rate        decimal.Decimal
	DiscountPct decimal.Decimal
}

type ItemVoucher struct {
	ID           int64
	Type         VoucherType
	Date         string
	VoucherNo    string
	RefNo        string
	PartyID      int64
	PartyName    string
	TaxType      string
	TotalTaxable decimal.Decimal
	TotalTax     decimal.Decimal
	FinalAmount  decimal.Decimal
	Narration    string
	AgainstRef   string
	Revision     int
	Lines        []ItemVoucherLine
}

type ItemVoucherLine struct {
	ID          int64
	ItemID      int64
	ItemName    string
	HSNCode     string
	Qty         decimal.Decimal
	Rate        decimal.Decimal
	DiscountPct decimal.Decimal
	TaxableAmt  decimal.Decimal
	TaxAmt      decimal.Decimal
}
