package categorize

import (
	"context"
	"errors"
	"testing"
	"time"

	"cardwise/internal/core"
)

func TestCategorizeTiers(t *testing.T) {
	cases := []struct {
		name       string
		desc       string
		mcc        string
		manual     string
		want       core.Category
		wantSource core.CategorySource
	}{
		{"mcc wins over manual and keywords", "SOME RESTAURANT", "5411", "Dining", core.Groceries, core.SourceMCC},
		{"manual wins over keywords", "SOME RESTAURANT", "", "Travel", core.Travel, core.SourceManual},
		{"keyword brand match", "STARBUCKS STORE 04523", "", "", core.Dining, core.SourceDescription},
		{"keyword generic match", "CORNER COFFEE", "", "", core.Dining, core.SourceDescription},
		{"unknown falls to default", "ZZZZ 123", "", "", core.Other, core.SourceDefault},
		{"invalid mcc ignored", "NETFLIX.COM", "9999", "", core.Streaming, core.SourceDescription},
		{"manual other is not an override", "ZZZZ 123", "", "Other", core.Other, core.SourceDefault},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Categorize(tc.desc, tc.mcc, tc.manual)
			if got.Category != tc.want {
				t.Errorf("category = %s, want %s", got.Category, tc.want)
			}
			if got.Source != tc.wantSource {
				t.Errorf("source = %s, want %s", got.Source, tc.wantSource)
			}
			if got.Confidence <= 0 || got.Confidence > 1 {
				t.Errorf("confidence out of range: %v", got.Confidence)
			}
		})
	}
}

func TestCategorizeIdempotent(t *testing.T) {
	first := Categorize("UBER TRIP HELP.UBER.COM", "", "")
	second := Categorize("UBER TRIP HELP.UBER.COM", "", "")
	if first != second {
		t.Fatalf("categorization not stable: %+v vs %+v", first, second)
	}
}

func TestKeywordOrdering(t *testing.T) {
	cases := map[string]core.Category{
		"UBER EATS ORDER 12345":   core.Dining,
		"UBER TRIP HELP.UBER.COM": core.Transit,
		"NETFLIX.COM":             core.Streaming,
		"SHELL OIL 574425518":     core.Gas,
		"WALMART SUPERCENTER":     core.Groceries,
	}
	for desc, want := range cases {
		c, ok := matchKeywords(desc, 0)
		if !ok {
			t.Errorf("matchKeywords(%q) found nothing", desc)
			continue
		}
		if c.Category != want {
			t.Errorf("matchKeywords(%q) = %s, want %s", desc, c.Category, want)
		}
	}
}

func TestKeywordMinConfidenceFiltersGenericRules(t *testing.T) {
	// A generic-word match resolves normally but is skipped at the
	// brand-only threshold used for extracted PDF text.
	if _, ok := matchKeywords("CORNER COFFEE", 0); !ok {
		t.Fatal("expected generic rule to match at zero threshold")
	}
	if _, ok := matchKeywords("CORNER COFFEE", pdfMinKeywordConfidence); ok {
		t.Fatal("generic rule should not match at the pdf threshold")
	}
	if _, ok := matchKeywords("STARBUCKS STORE 04523", pdfMinKeywordConfidence); !ok {
		t.Fatal("brand rule should still match at the pdf threshold")
	}
}

type fakeExternal struct {
	calls  int
	answer core.Category
	err    error
}

func (f *fakeExternal) Lookup(_ context.Context, _ string) (core.Category, error) {
	f.calls++
	return f.answer, f.err
}

func TestCategorizeAll(t *testing.T) {
	txs := []core.Transaction{
		mkTx("WALMART GROCERY #1234", "5411"),
		mkTx("SHELL OIL 574425518", "5541"),
		mkTx("STARBUCKS STORE 04523", ""),
		mkTx("ZZZZ 123", ""),
	}

	ext := &fakeExternal{answer: core.Utilities}
	svc := NewService(ext, nil)
	got := svc.CategorizeAll(context.Background(), txs, false)
	if len(got) != 4 {
		t.Fatalf("got %d results, want 4", len(got))
	}

	want := []struct {
		cat    core.Category
		source core.CategorySource
	}{
		{core.Groceries, core.SourceMCC},
		{core.Gas, core.SourceMCC},
		{core.Dining, core.SourceDescription},
		{core.Utilities, core.SourceExternal},
	}
	for i, w := range want {
		if got[i].Category != w.cat || got[i].Source != w.source {
			t.Errorf("tx %d: got %s/%s, want %s/%s", i, got[i].Category, got[i].Source, w.cat, w.source)
		}
	}
	if ext.calls != 1 {
		t.Errorf("external called %d times, want 1", ext.calls)
	}
}

func TestCategorizeAllManualColumnOnly(t *testing.T) {
	// Only the statement's own category column counts as a manual
	// override; a raw cell that happens to spell a category name does not.
	fromColumn := mkTx("ZZZZ 123", "")
	fromColumn.RawCategory = "Gas"

	strayCell := mkTx("ZZZZ 456", "")
	strayCell.Raw = []string{"01/05/2025", "ZZZZ 456", "10.00", "GAS"}

	svc := NewService(nil, nil)
	got := svc.CategorizeAll(context.Background(), []core.Transaction{fromColumn, strayCell}, false)

	if got[0].Category != core.Gas || got[0].Source != core.SourceManual {
		t.Errorf("column override = %s/%s, want Gas/manual", got[0].Category, got[0].Source)
	}
	if got[1].Category != core.Other || got[1].Source != core.SourceDefault {
		t.Errorf("stray cell = %s/%s, want Other/default", got[1].Category, got[1].Source)
	}
}

func TestCategorizeAllDegradesWithoutExternal(t *testing.T) {
	svc := NewService(nil, nil)
	got := svc.CategorizeAll(context.Background(), []core.Transaction{mkTx("ZZZZ 123", "")}, false)
	if got[0].Category != core.Other || got[0].Source != core.SourceDefault {
		t.Fatalf("got %s/%s, want Other/default", got[0].Category, got[0].Source)
	}
}

func TestCategorizeAllDegradesOnExternalError(t *testing.T) {
	ext := &fakeExternal{answer: core.Other, err: errors.New("service down")}
	svc := NewService(ext, nil)
	got := svc.CategorizeAll(context.Background(), []core.Transaction{mkTx("ZZZZ 123", "")}, false)
	if got[0].Category != core.Other || got[0].Source != core.SourceDefault {
		t.Fatalf("got %s/%s, want Other/default", got[0].Category, got[0].Source)
	}
}

func TestLookupMCC(t *testing.T) {
	if cat, ok := LookupMCC("5411"); !ok || cat != core.Groceries {
		t.Errorf("5411 = %s/%v, want Groceries/true", cat, ok)
	}
	if cat, ok := LookupMCC("7011"); !ok || cat != core.Travel {
		t.Errorf("7011 = %s/%v, want Travel/true", cat, ok)
	}
	if _, ok := LookupMCC("9999"); ok {
		t.Error("9999 should be unknown")
	}
	if _, ok := LookupMCC(""); ok {
		t.Error("empty code should be unknown")
	}
}

func mkTx(desc, mcc string) core.Transaction {
	return core.Transaction{
		Date:        time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		Description: desc,
		Amount:      10,
		Type:        core.Debit,
		Merchant:    desc,
		MCC:         mcc,
	}
}
