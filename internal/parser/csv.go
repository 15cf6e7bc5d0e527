package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strings"

	"cardwise/internal/core"
)

// columns maps statement roles onto column indexes. -1 means absent.
type columns struct {
	date        int
	description int
	amount      int
	debit       int
	credit      int
	category    int
	mcc         int
	balance     int
}

func newColumns() columns {
	return columns{date: -1, description: -1, amount: -1, debit: -1, credit: -1, category: -1, mcc: -1, balance: -1}
}

func (c columns) usable() bool {
	return c.date >= 0 && (c.amount >= 0 || c.debit >= 0 || c.credit >= 0)
}

// headerSet is one issuer's known column names, most specific first.
type headerSet struct {
	bank        string
	date        []string
	description []string
	amount      []string
	debit       []string
	credit      []string
	category    []string
	mcc         []string
	balance     []string
}

// bankHeaderSets covers the export layouts of the major US issuers.
// The generic fallback must stay last.
var bankHeaderSets = []headerSet{
	{
		bank:        "chase",
		date:        []string{"transaction date", "post date"},
		description: []string{"description"},
		amount:      []string{"amount"},
		category:    []string{"category"},
		mcc:         []string{"type code", "mcc"},
		balance:     []string{"balance"},
	},
	{
		bank:        "citi",
		date:        []string{"date"},
		description: []string{"description"},
		debit:       []string{"debit"},
		credit:      []string{"credit"},
		category:    []string{"category"},
	},
	{
		bank:        "amex",
		date:        []string{"date"},
		description: []string{"description"},
		amount:      []string{"amount"},
		category:    []string{"category"},
		mcc:         []string{"merchant category code", "mcc"},
	},
	{
		bank:        "capitalone",
		date:        []string{"transaction date", "posted date"},
		description: []string{"description"},
		debit:       []string{"debit"},
		credit:      []string{"credit"},
		category:    []string{"category"},
	},
	{
		bank:        "discover",
		date:        []string{"trans. date", "trans date"},
		description: []string{"description"},
		amount:      []string{"amount"},
		category:    []string{"category"},
	},
	{
		bank:        "generic",
		date:        []string{"date", "transaction date", "posting date", "posted"},
		description: []string{"description", "details", "memo", "payee", "name"},
		amount:      []string{"amount", "transaction amount", "value"},
		debit:       []string{"debit", "withdrawal", "withdrawals", "money out"},
		credit:      []string{"credit", "deposit", "deposits", "money in"},
		category:    []string{"category", "transaction category"},
		mcc:         []string{"mcc", "merchant category code", "sic code"},
		balance:     []string{"balance", "running balance", "running bal."},
	},
}

// ParseCSV parses raw CSV statement text into normalized transactions.
func ParseCSV(data []byte) *Result {
	res := &Result{Metadata: Metadata{SourceFormat: "csv"}}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		res.errorf("read csv: %v", err)
		return res
	}
	records = dropEmptyRows(records)
	if len(records) == 0 {
		res.errorf("%v", core.ErrEmptyStatement)
		return res
	}

	var (
		cols    columns
		rows    [][]string
		matched string
	)

	if isHeaderless(records[0]) {
		res.Metadata.HasHeader = false
		rows = records
		cols = inferColumns(rows)
		matched = "generic"
	} else {
		res.Metadata.HasHeader = true
		rows = records[1:]
		cols, matched = matchHeader(records[0])
		if !cols.usable() {
			// Header row exists but names are unfamiliar; fall back to
			// the same structural inference used for headerless files.
			cols = inferColumns(rows)
		}
	}
	res.Metadata.Bank = matched

	if !cols.usable() {
		res.errorf("%v", core.ErrNoColumns)
		return res
	}

	layout := detectDateLayout(rows, cols.date)
	res.Metadata.DateLayout = layout
	res.Metadata.TotalRows = len(rows)

	for i, row := range rows {
		tx, err := parseRow(row, cols, layout)
		if err != nil {
			res.Metadata.InvalidRows++
			res.warnf("row %d skipped: %v", i+1, err)
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}

	if len(res.Transactions) == 0 {
		res.errorf("%v", core.ErrNoTransactions)
		return res
	}
	res.fillPeriod()
	return res
}

func dropEmptyRows(records [][]string) [][]string {
	out := records[:0]
	for _, row := range records {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	return out
}

// isHeaderless treats the first row as data when it already contains both
// a parseable date and a bounded numeric amount.
func isHeaderless(first []string) bool {
	hasDate, hasAmount := false, false
	for _, cell := range first {
		if looksLikeDate(cell) {
			hasDate = true
		} else if looksLikeAmount(cell) {
			hasAmount = true
		}
	}
	return hasDate && hasAmount
}

// matchHeader locates roles by issuer dictionary, exact match first, then
// substring. Returns the matched bank name alongside the columns.
func matchHeader(header []string) (columns, string) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	best, bestBank, bestScore := newColumns(), "generic", 0
	for _, set := range bankHeaderSets {
		cols := newColumns()
		score := 0
		score += assign(&cols.date, normalized, set.date)
		score += assign(&cols.description, normalized, set.description)
		score += assign(&cols.amount, normalized, set.amount)
		score += assign(&cols.debit, normalized, set.debit)
		score += assign(&cols.credit, normalized, set.credit)
		score += assign(&cols.category, normalized, set.category)
		score += assign(&cols.mcc, normalized, set.mcc)
		score += assign(&cols.balance, normalized, set.balance)
		if cols.usable() && score > bestScore {
			best, bestBank, bestScore = cols, set.bank, score
		}
	}
	return best, bestBank
}

func assign(target *int, header []string, names []string) int {
	if len(names) == 0 {
		return 0
	}
	for _, name := range names {
		for i, h := range header {
			if h == name {
				*target = i
				return 1
			}
		}
	}
	for _, name := range names {
		for i, h := range header {
			if strings.Contains(h, name) {
				*target = i
				return 1
			}
		}
	}
	return 0
}

// inferColumns works out roles structurally for headerless files: the
// column that parses as a date is the date, the widest text column is the
// description, and of the numeric columns the smaller-magnitude one is the
// amount and the larger the balance. A 5-column file is assumed to be the
// common [date, description, debit, credit, balance] layout.
//
// The magnitude heuristic can misread unusual layouts; rows that then fail
// to parse surface as warnings rather than corrupt data.
func inferColumns(rows [][]string) columns {
	cols := newColumns()
	if len(rows) == 0 {
		return cols
	}

	width := len(rows[0])
	if width == 5 {
		cols.date, cols.description, cols.debit, cols.credit, cols.balance = 0, 1, 2, 3, 4
		return cols
	}

	sample := rows
	if len(sample) > 10 {
		sample = sample[:10]
	}

	dateVotes := make([]int, width)
	numericSum := make([]float64, width)
	numericCount := make([]int, width)
	textLen := make([]int, width)

	for _, row := range sample {
		for i := 0; i < width && i < len(row); i++ {
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			if looksLikeDate(cell) {
				dateVotes[i]++
				continue
			}
			if v, err := parseAmount(cell); err == nil {
				numericSum[i] += math.Abs(v)
				numericCount[i]++
				continue
			}
			textLen[i] += len(cell)
		}
	}

	for i, votes := range dateVotes {
		if votes > 0 && (cols.date < 0 || votes > dateVotes[cols.date]) {
			cols.date = i
		}
	}

	// Rank numeric columns by average magnitude.
	type numCol struct {
		idx int
		avg float64
	}
	var nums []numCol
	for i := 0; i < width; i++ {
		if i == cols.date || numericCount[i] == 0 {
			continue
		}
		nums = append(nums, numCol{i, numericSum[i] / float64(numericCount[i])})
	}
	switch len(nums) {
	case 0:
	case 1:
		cols.amount = nums[0].idx
	default:
		lo, hi := nums[0], nums[1]
		if hi.avg < lo.avg {
			lo, hi = hi, lo
		}
		for _, n := range nums[2:] {
			if n.avg < lo.avg {
				lo = n
			} else if n.avg > hi.avg {
				hi = n
			}
		}
		cols.amount, cols.balance = lo.idx, hi.idx
	}

	for i := 0; i < width; i++ {
		if i == cols.date || i == cols.amount || i == cols.balance {
			continue
		}
		if textLen[i] > 0 && (cols.description < 0 || textLen[i] > textLen[cols.description]) {
			cols.description = i
		}
	}
	return cols
}

func parseRow(row []string, cols columns, layout string) (core.Transaction, error) {
	get := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	date, _, err := parseDate(get(cols.date), layout)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("bad date %q", get(cols.date))
	}

	// Signed convention: positive is a charge (debit), negative a payment
	// or refund (credit). Split debit/credit columns are folded into the
	// same convention.
	var amount float64
	switch {
	case cols.amount >= 0 && get(cols.amount) != "":
		amount, err = parseAmount(get(cols.amount))
		if err != nil {
			return core.Transaction{}, fmt.Errorf("bad amount %q", get(cols.amount))
		}
	case cols.debit >= 0 || cols.credit >= 0:
		if v := get(cols.debit); v != "" {
			d, derr := parseAmount(v)
			if derr != nil {
				return core.Transaction{}, fmt.Errorf("bad debit %q", v)
			}
			amount = math.Abs(d)
		} else if v := get(cols.credit); v != "" {
			c, cerr := parseAmount(v)
			if cerr != nil {
				return core.Transaction{}, fmt.Errorf("bad credit %q", v)
			}
			amount = -math.Abs(c)
		} else {
			return core.Transaction{}, fmt.Errorf("missing amount")
		}
	default:
		return core.Transaction{}, fmt.Errorf("missing amount")
	}

	desc := cleanDescription(get(cols.description))
	if desc == "" {
		return core.Transaction{}, fmt.Errorf("missing description")
	}

	txType := core.Debit
	if amount < 0 {
		txType = core.Credit
	}

	tx := core.Transaction{
		Date:        date,
		Description: desc,
		Amount:      math.Abs(amount),
		Type:        txType,
		Merchant:    deriveMerchant(desc),
		MCC:         validMCC(get(cols.mcc)),
		RawCategory: get(cols.category),
		Raw:         append([]string(nil), row...),
	}
	if v := get(cols.balance); v != "" {
		if b, berr := parseAmount(v); berr == nil {
			tx.Balance = &b
		}
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}
