package core

import (
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "WALMART GROCERY",
		Amount:      42.50,
		Type:        Debit,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Description: "a", Amount: 1, Type: Debit},                                                          // zero date
		{Date: good.Date, Description: "  ", Amount: 1, Type: Debit},                                        // blank description
		{Date: good.Date, Description: "a", Amount: -1, Type: Debit},                                        // negative magnitude
		{Date: good.Date, Description: "a", Amount: 1, Type: TransactionType("refund")},                     // bad type
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"Groceries", Groceries},
		{"groceries", Groceries},
		{"  dining ", Dining},
		{"restaurant", Dining},
		{"fuel", Gas},
		{"transportation", Transit},
		{"financial services", FinancialServices},
		{"banking", FinancialServices},
		{"something else entirely", Other},
		{"", Other},
	}
	for _, tc := range cases {
		if got := ParseCategory(tc.in); got != tc.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCreditTierScore(t *testing.T) {
	cases := []struct {
		tier string
		want int
	}{
		{"Excellent", 750},
		{"Good to Excellent", 700},
		{"Good", 670},
		{"Fair to Good", 640},
		{"Fair", 580},
		{"", 0},
		{"No Credit", 0},
	}
	for _, tc := range cases {
		if got := CreditTierScore(tc.tier); got != tc.want {
			t.Errorf("CreditTierScore(%q) = %d, want %d", tc.tier, got, tc.want)
		}
	}
}

func TestSpendingCapAnnualized(t *testing.T) {
	cases := []struct {
		cap  SpendingCap
		want float64
	}{
		{SpendingCap{Amount: 500, Frequency: CapMonthly}, 6000},
		{SpendingCap{Amount: 1500, Frequency: CapQuarterly}, 6000},
		{SpendingCap{Amount: 25000, Frequency: CapAnnual}, 25000},
	}
	for i, tc := range cases {
		if got := tc.cap.AnnualizedAmount(); got != tc.want {
			t.Errorf("case %d: AnnualizedAmount() = %v, want %v", i, got, tc.want)
		}
	}
}

func TestUserProfileOpenedWithin(t *testing.T) {
	u := UserProfile{CardHistory: []CardHistoryEntry{
		{Issuer: "Chase", MonthsAgo: 2},
		{Issuer: "Amex", MonthsAgo: 12},
		{Issuer: "Citi", MonthsAgo: 23},
		{Issuer: "Chase", MonthsAgo: 24}, // outside the window
		{Issuer: "Chase", MonthsAgo: 30},
	}}
	if got := u.OpenedWithin(24); got != 3 {
		t.Fatalf("OpenedWithin(24) = %d, want 3", got)
	}
}

func TestStatementPeriodDays(t *testing.T) {
	p := StatementPeriod{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	if got := p.Days(); got != 31 {
		t.Fatalf("Days() = %d, want 31", got)
	}
	if got := (StatementPeriod{}).Days(); got != 0 {
		t.Fatalf("zero period Days() = %d, want 0", got)
	}
}
