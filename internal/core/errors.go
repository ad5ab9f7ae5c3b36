package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by lookups that find nothing. Most callers treat it
// as an absent value rather than a failure.
var ErrNotFound = errors.New("not found")

// ErrEmptyLineSet rejects a voucher proposed with zero lines.
var ErrEmptyLineSet = errors.New("voucher has no lines")

// DuplicateNameError reports a unique-name violation on master create or
// rename. The first row with the name is left intact.
type DuplicateNameError struct {
	Kind string // "account" or "item"
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s name %q already exists", e.Kind, e.Name)
}

// ReferentialIntegrityError reports a master delete blocked by committed
// voucher lines that still reference it.
type ReferentialIntegrityError struct {
	Kind string
	Name string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("cannot delete %s %q: it is referenced by voucher lines", e.Kind, e.Name)
}

// UnknownReferenceError reports a voucher line (or header party) naming a
// master that does not resolve. Line is 1-based; 0 means the header.
type UnknownReferenceError struct {
	Name string
	Line int
}

func (e *UnknownReferenceError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("unknown master %q", e.Name)
	}
	return fmt.Sprintf("line %d references unknown master %q", e.Line, e.Name)
}

// MixedSideError reports an account line carrying both a debit and a credit
// amount. Line is 1-based.
type MixedSideError struct {
	Line int
}

func (e *MixedSideError) Error() string {
	return fmt.Sprintf("line %d has both debit and credit amounts", e.Line)
}

// InsufficientLinesError reports an account voucher with fewer than two
// active lines.
type InsufficientLinesError struct {
	Active int
}

func (e *InsufficientLinesError) Error() string {
	return fmt.Sprintf("account voucher needs at least 2 active lines, got %d", e.Active)
}

// UnbalancedError reports unequal debit and credit totals.
type UnbalancedError struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("debits (%s) != credits (%s)", e.Debit.StringFixed(2), e.Credit.StringFixed(2))
}

// PostingError wraps a storage failure during a transactional voucher write.
// The transaction is fully rolled back before it is surfaced.
type PostingError struct {
	Op  string
	Err error
}

func (e *PostingError) Error() string {
	return fmt.Sprintf("posting failed at %s: %v", e.Op, e.Err)
}

func (e *PostingError) Unwrap() error { return e.Err }
