// Package analyze turns categorized transactions into spending summaries:
// totals, category breakdowns, monthly trends, merchant rankings, and
// plain-language insights. Everything here is pure computation.
package analyze

import (
	"fmt"
	"sort"
	"time"

	"cardwise/internal/core"
)

const (
	topMerchantLimit  = 10
	topCategoryLimit  = 3
	trendEpsilonRatio = 0.10
)

// Analyze aggregates one statement. The period may be zero; the monthly
// trend range then derives from the transaction dates alone.
func Analyze(txs []core.CategorizedTransaction, period core.StatementPeriod) core.SpendingAnalysis {
	analysis := core.SpendingAnalysis{
		TransactionCount: len(txs),
		Period:           period,
	}
	if len(txs) == 0 {
		// A statement with no usable rows but a known period still gets
		// its zero month buckets so downstream charts have an axis.
		analysis.MonthlyTrends = monthlyTrends(nil, period)
		return analysis
	}

	for _, tx := range txs {
		if tx.IsSpend() {
			analysis.TotalSpend += tx.Amount
		} else {
			analysis.TotalCredits += tx.Amount
		}
	}
	analysis.NetFlow = analysis.TotalSpend - analysis.TotalCredits

	analysis.MonthlyTrends = monthlyTrends(txs, period)
	analysis.CategoryBreakdown = categoryBreakdown(txs, analysis.TotalSpend, analysis.MonthlyTrends)
	analysis.TopMerchants = topMerchants(txs)

	for i, c := range analysis.CategoryBreakdown {
		if i == topCategoryLimit {
			break
		}
		analysis.TopCategories = append(analysis.TopCategories, c.Category)
	}

	analysis.Insights = buildInsights(analysis)
	return analysis
}

// categoryBreakdown sums debit spend per category, sorted by amount
// descending with the category name as tiebreaker so output is stable.
func categoryBreakdown(txs []core.CategorizedTransaction, totalSpend float64, trends []core.MonthlyTrend) []core.CategorySpending {
	type acc struct {
		amount float64
		count  int
	}
	byCat := make(map[core.Category]*acc)
	for _, tx := range txs {
		if !tx.IsSpend() {
			continue
		}
		a := byCat[tx.Category]
		if a == nil {
			a = &acc{}
			byCat[tx.Category] = a
		}
		a.amount += tx.Amount
		a.count++
	}

	out := make([]core.CategorySpending, 0, len(byCat))
	for cat, a := range byCat {
		cs := core.CategorySpending{
			Category: cat,
			Amount:   a.amount,
			Count:    a.count,
			Average:  a.amount / float64(a.count),
			Trend:    categoryTrend(txs, cat),
		}
		if totalSpend > 0 {
			cs.Percentage = a.amount / totalSpend * 100
		}
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// categoryTrend compares the last month of a category's spend against the
// average of the months before it. One month of data is always flat.
func categoryTrend(txs []core.CategorizedTransaction, cat core.Category) string {
	byMonth := make(map[string]float64)
	for _, tx := range txs {
		if !tx.IsSpend() || tx.Category != cat {
			continue
		}
		byMonth[tx.Date.Format("2006-01")] += tx.Amount
	}
	if len(byMonth) < 2 {
		return "flat"
	}
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	last := byMonth[months[len(months)-1]]
	var prior float64
	for _, m := range months[:len(months)-1] {
		prior += byMonth[m]
	}
	prior /= float64(len(months) - 1)

	switch {
	case prior == 0:
		return "up"
	case last > prior*(1+trendEpsilonRatio):
		return "up"
	case last < prior*(1-trendEpsilonRatio):
		return "down"
	default:
		return "flat"
	}
}

// monthlyTrends buckets spend by calendar month. Months inside the range
// with no activity still get a zero bucket so charts stay contiguous.
func monthlyTrends(txs []core.CategorizedTransaction, period core.StatementPeriod) []core.MonthlyTrend {
	start, end := trendRange(txs, period)
	if start.IsZero() {
		return nil
	}

	byMonth := make(map[string]*core.MonthlyTrend)
	var order []string
	for cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !cur.After(end); cur = cur.AddDate(0, 1, 0) {
		key := cur.Format("2006-01")
		byMonth[key] = &core.MonthlyTrend{Month: key}
		order = append(order, key)
	}

	for _, tx := range txs {
		bucket, ok := byMonth[tx.Date.Format("2006-01")]
		if !ok {
			// Transaction outside the declared period; extendable data
			// beats dropped data.
			key := tx.Date.Format("2006-01")
			bucket = &core.MonthlyTrend{Month: key}
			byMonth[key] = bucket
			order = append(order, key)
		}
		if tx.IsSpend() {
			bucket.Amount += tx.Amount
			bucket.Count++
		} else {
			bucket.Credits += tx.Amount
		}
	}

	sort.Strings(order)
	out := make([]core.MonthlyTrend, 0, len(order))
	for _, key := range order {
		out = append(out, *byMonth[key])
	}
	return out
}

func trendRange(txs []core.CategorizedTransaction, period core.StatementPeriod) (time.Time, time.Time) {
	if !period.Start.IsZero() && !period.End.IsZero() && !period.End.Before(period.Start) {
		return period.Start, period.End
	}
	if len(txs) == 0 {
		return time.Time{}, time.Time{}
	}
	min, max := txs[0].Date, txs[0].Date
	for _, tx := range txs[1:] {
		if tx.Date.Before(min) {
			min = tx.Date
		}
		if tx.Date.After(max) {
			max = tx.Date
		}
	}
	return min, max
}

// topMerchants ranks merchants by debit spend. A merchant's category is
// whichever category it was charged under most by amount.
func topMerchants(txs []core.CategorizedTransaction) []core.MerchantSummary {
	type acc struct {
		amount  float64
		count   int
		byCat   map[core.Category]float64
		display string
	}
	byMerchant := make(map[string]*acc)
	for _, tx := range txs {
		if !tx.IsSpend() || tx.Merchant == "" {
			continue
		}
		a := byMerchant[tx.Merchant]
		if a == nil {
			a = &acc{byCat: make(map[core.Category]float64), display: tx.Merchant}
			byMerchant[tx.Merchant] = a
		}
		a.amount += tx.Amount
		a.count++
		a.byCat[tx.Category] += tx.Amount
	}

	out := make([]core.MerchantSummary, 0, len(byMerchant))
	for _, a := range byMerchant {
		best, bestAmt := core.Other, -1.0
		for cat, amt := range a.byCat {
			if amt > bestAmt || (amt == bestAmt && cat < best) {
				best, bestAmt = cat, amt
			}
		}
		out = append(out, core.MerchantSummary{
			Merchant: a.display,
			Amount:   a.amount,
			Count:    a.count,
			Category: best,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Merchant < out[j].Merchant
	})
	if len(out) > topMerchantLimit {
		out = out[:topMerchantLimit]
	}
	return out
}

// buildInsights derives short observations a cardholder would act on.
func buildInsights(a core.SpendingAnalysis) []string {
	var insights []string
	if a.TotalSpend <= 0 || len(a.CategoryBreakdown) == 0 {
		return insights
	}

	top := a.CategoryBreakdown[0]
	if top.Percentage > 25 {
		insights = append(insights, fmt.Sprintf(
			"%s is your largest category at %.0f%% of spending ($%.2f)",
			top.Category, top.Percentage, top.Amount))
	}

	var dining, groceries, other, streamCount float64
	for _, c := range a.CategoryBreakdown {
		switch c.Category {
		case core.Dining:
			dining = c.Amount
		case core.Groceries:
			groceries = c.Amount
		case core.Other:
			other = c.Amount
		case core.Streaming:
			streamCount = float64(c.Count)
		}
	}
	if groceries > 0 && dining > groceries {
		insights = append(insights, fmt.Sprintf(
			"You spent more on dining ($%.2f) than groceries ($%.2f)", dining, groceries))
	}
	if streamCount >= 3 {
		insights = append(insights, fmt.Sprintf(
			"%d streaming charges this period; a card with streaming rewards would help", int(streamCount)))
	}
	if other/a.TotalSpend > 0.30 {
		insights = append(insights, fmt.Sprintf(
			"$%.2f of spending is uncategorized; reviewing it would sharpen recommendations", other))
	}
	if a.TotalCredits > a.TotalSpend {
		insights = append(insights, "Credits exceeded new spending this period")
	}

	if len(a.MonthlyTrends) >= 2 {
		first, last := a.MonthlyTrends[0], a.MonthlyTrends[len(a.MonthlyTrends)-1]
		if first.Amount > 0 && last.Amount > first.Amount*(1+trendEpsilonRatio) {
			insights = append(insights, fmt.Sprintf(
				"Monthly spending rose from $%.2f to $%.2f over the period", first.Amount, last.Amount))
		}
	}
	return insights
}

// Annualize scales a statement-period breakdown to a full year so reward
// projections compare like with like. Unknown periods assume one month.
func Annualize(breakdown []core.CategorySpending, period core.StatementPeriod) []core.CategorySpending {
	days := period.Days()
	if days <= 0 {
		days = 30
	}
	factor := 365.0 / float64(days)

	out := make([]core.CategorySpending, len(breakdown))
	for i, c := range breakdown {
		out[i] = c
		out[i].Amount = c.Amount * factor
		out[i].Average = c.Average
		out[i].Count = c.Count
	}
	return out
}
