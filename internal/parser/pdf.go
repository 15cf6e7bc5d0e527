package parser

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"cardwise/internal/core"
)

var (
	// One transaction per line: date, free-text description, amount at the
	// end of the line. PDFs rarely expose MCC so none is captured.
	pdfLineRe = regexp.MustCompile(`(?m)^\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2})\s+(.{3,}?)\s+(\(?-?\$?\d[\d,]*\.\d{2}\)?)\s*$`)

	pdfPeriodRe  = regexp.MustCompile(`(?i)statement\s+period[:\s]+(\S+)\s*(?:-|to|through)\s*(\S+)`)
	pdfAccountRe = regexp.MustCompile(`(?i)account\s*(?:number|no\.?|#)[:\s]*([0-9Xx*\-]{4,20})`)

	pdfBankNames = []string{"Chase", "Citi", "American Express", "Capital One", "Discover", "Bank of America", "Wells Fargo"}
)

// ParsePDF extracts statement text page by page and matches a generic
// date / description / amount line pattern across the whole document.
// Lines that do not match are skipped silently; the parse only complains
// when nothing at all matched.
func ParsePDF(data []byte) *Result {
	res := &Result{Metadata: Metadata{SourceFormat: "pdf"}}

	text, err := extractPDFText(data)
	if err != nil {
		res.errorf("extract pdf text: %v", err)
		return res
	}
	if strings.TrimSpace(text) == "" {
		res.errorf("%v", core.ErrEmptyStatement)
		return res
	}

	res.Period = extractPDFPeriod(text)

	matches := pdfLineRe.FindAllStringSubmatch(text, -1)
	res.Metadata.TotalRows = len(matches)
	for _, m := range matches {
		date, _, derr := parseDate(m[1], res.Metadata.DateLayout)
		if derr != nil {
			res.Metadata.InvalidRows++
			continue
		}
		amount, aerr := parseAmount(m[3])
		if aerr != nil {
			res.Metadata.InvalidRows++
			continue
		}
		desc := cleanDescription(m[2])
		if desc == "" {
			res.Metadata.InvalidRows++
			continue
		}
		txType := core.Debit
		if amount < 0 {
			txType = core.Credit
			amount = -amount
		}
		res.Transactions = append(res.Transactions, core.Transaction{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Type:        txType,
			Merchant:    deriveMerchant(desc),
			Raw:         []string{m[0]},
		})
	}

	if len(res.Transactions) == 0 {
		res.warnf("no transaction lines matched in pdf text")
		res.errorf("%v", core.ErrNoTransactions)
		return res
	}
	res.fillPeriod()
	return res
}

func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// extractPDFPeriod pulls period and account metadata out of header text.
// Missing pieces are left zero; fillPeriod covers the date range later.
func extractPDFPeriod(text string) core.StatementPeriod {
	var period core.StatementPeriod
	if m := pdfPeriodRe.FindStringSubmatch(text); m != nil {
		if start, _, err := parseDate(m[1], ""); err == nil {
			period.Start = start
		}
		if end, _, err := parseDate(m[2], ""); err == nil {
			period.End = end
			period.StatementDate = end.AddDate(0, 0, 3)
		}
	}
	if m := pdfAccountRe.FindStringSubmatch(text); m != nil {
		period.AccountNumber = m[1]
	}
	for _, bank := range pdfBankNames {
		if strings.Contains(text, bank) {
			period.BankName = bank
			break
		}
	}
	return period
}
