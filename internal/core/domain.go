package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Groceries         Category = "Groceries"
	Dining            Category = "Dining"
	Gas               Category = "Gas"
	Travel            Category = "Travel"
	Transit           Category = "Transit"
	Entertainment     Category = "Entertainment"
	Shopping          Category = "Shopping"
	Utilities         Category = "Utilities"
	Healthcare        Category = "Healthcare"
	Streaming         Category = "Streaming"
	FinancialServices Category = "Financial Services"
	Other             Category = "Other"
)

const (
	Debit  TransactionType = "debit"
	Credit TransactionType = "credit"
)

const (
	SourceMCC         CategorySource = "mcc"
	SourceDescription CategorySource = "description"
	SourceManual      CategorySource = "manual"
	SourceExternal    CategorySource = "external"
	SourceDefault     CategorySource = "default"
)

type (
	Category        string
	TransactionType string
	CategorySource  string

	// Transaction is one normalized statement row. The parser produces it;
	// it is never mutated afterwards. Amount is always a positive magnitude,
	// the sign lives in Type.
	Transaction struct {
		Date        time.Time
		Description string
		Amount      float64
		Type        TransactionType
		Merchant    string
		MCC         string   // 4-digit merchant category code, or empty
		RawCategory string   // category label from the statement's own column, or empty
		Balance     *float64 // running balance when the statement exposes one
		Raw         []string // original row, kept for debugging
	}

	// Categorization is the outcome of classifying a single transaction.
	Categorization struct {
		Category   Category
		Confidence float64
		Source     CategorySource
	}

	// CategorizedTransaction pairs a transaction with its assigned category.
	CategorizedTransaction struct {
		Transaction
		Category   Category
		Confidence float64
		Source     CategorySource
	}

	// StatementPeriod describes the window a statement covers.
	StatementPeriod struct {
		Start         time.Time
		End           time.Time
		StatementDate time.Time
		AccountNumber string
		BankName      string
	}
)

var (
	ErrNoTransactions      = errors.New("no valid transactions found")
	ErrNoColumns           = errors.New("could not identify statement columns")
	ErrEmptyStatement      = errors.New("statement is empty")
	ErrUnparsableStatement = errors.New("statement could not be parsed")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrUnknownCategory     = errors.New("unknown category")
)

// Categories lists every spending category in display order.
func Categories() []Category {
	return []Category{
		Groceries, Dining, Gas, Travel, Transit, Entertainment,
		Shopping, Utilities, Healthcare, Streaming, FinancialServices, Other,
	}
}

// ParseCategory maps a free-form category string onto the closed set,
// falling back to Other for anything unrecognized.
func ParseCategory(s string) Category {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if strings.ToLower(string(c)) == needle {
			return c
		}
	}
	switch needle {
	case "grocery", "supermarket":
		return Groceries
	case "restaurant", "restaurants", "food", "food & dining":
		return Dining
	case "fuel", "gasoline":
		return Gas
	case "transportation":
		return Transit
	case "subscriptions", "subscription":
		return Streaming
	case "finance", "banking", "fees":
		return FinancialServices
	}
	return Other
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(t.Description) == "" {
		return errors.New("empty description")
	}
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	switch t.Type {
	case Debit, Credit:
	default:
		return errors.New("invalid transaction type")
	}
	return nil
}

// IsSpend reports whether the transaction counts toward spending totals.
func (t Transaction) IsSpend() bool {
	return t.Type == Debit
}

func (p StatementPeriod) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero() && p.StatementDate.IsZero()
}

// Days returns the length of the period in days, or 0 when unknown.
func (p StatementPeriod) Days() int {
	if p.Start.IsZero() || p.End.IsZero() || p.End.Before(p.Start) {
		return 0
	}
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}
