package core

type (
	// CategorySpending aggregates one category's share of a statement.
	CategorySpending struct {
		Category   Category `json:"category"`
		Amount     float64  `json:"amount"`
		Percentage float64  `json:"percentage"`
		Count      int      `json:"count"`
		Average    float64  `json:"average"`
		Trend      string   `json:"trend,omitempty"` // up | down | flat
	}

	// MonthlyTrend is one YYYY-MM bucket of spend.
	MonthlyTrend struct {
		Month   string  `json:"month"` // YYYY-MM
		Amount  float64 `json:"amount"`
		Count   int     `json:"count"`
		Credits float64 `json:"credits"`
	}

	// MerchantSummary ranks a merchant by total spend.
	MerchantSummary struct {
		Merchant string   `json:"merchant"`
		Amount   float64  `json:"amount"`
		Count    int      `json:"count"`
		Category Category `json:"category"`
	}

	// SpendingAnalysis is the analyzer's full output for one statement.
	SpendingAnalysis struct {
		TotalSpend        float64            `json:"total_spend"`
		TotalCredits      float64            `json:"total_credits"`
		NetFlow           float64            `json:"net_flow"`
		TransactionCount  int                `json:"transaction_count"`
		CategoryBreakdown []CategorySpending `json:"category_breakdown"`
		MonthlyTrends     []MonthlyTrend     `json:"monthly_trends"`
		TopMerchants      []MerchantSummary  `json:"top_merchants"`
		Insights          []string           `json:"insights"`
		TopCategories     []Category         `json:"top_categories"`
		Period            StatementPeriod    `json:"period"`
	}

	// CategoryReward is the per-category detail of a card recommendation.
	CategoryReward struct {
		Category      Category `json:"category"`
		Spending      float64  `json:"spending"`
		EarnRate      float64  `json:"earn_rate"`
		RewardsEarned float64  `json:"rewards_earned"` // raw units (points/miles/cents)
		RewardsValue  float64  `json:"rewards_value"`  // dollars
		CapApplied    bool     `json:"cap_applied"`
	}

	// CardRecommendation is one scored catalog card.
	CardRecommendation struct {
		Card                CreditCard       `json:"card"`
		AnnualRewards       float64          `json:"annual_rewards"` // dollars
		NetBenefit          float64          `json:"net_benefit"`    // rewards - effective fee
		CategoryRewards     []CategoryReward `json:"category_rewards"`
		MatchScore          float64          `json:"match_score"`
		Reasoning           []string         `json:"reasoning"`
		WelcomeBonusValue   float64          `json:"welcome_bonus_value"`
		FirstYearValue      float64          `json:"first_year_value"`
		ForeignFeeImpact    float64          `json:"foreign_fee_impact"`
		OverlapPenalty      float64          `json:"overlap_penalty"`
		Ineligible          bool             `json:"ineligible"`
		IneligibilityReason string           `json:"ineligibility_reason,omitempty"`
	}

	// RecommendationResult is the ranked output of the engine.
	RecommendationResult struct {
		Recommendations []CardRecommendation `json:"recommendations"`
		BaselineValue   float64              `json:"baseline_value"` // 1% flat-rate comparison
		AnnualizedSpend float64              `json:"annualized_spend"`
		Insights        []string             `json:"insights,omitempty"`
	}
)

// TotalAnnualized sums the amounts of an annualized category breakdown.
func TotalAnnualized(spending []CategorySpending) float64 {
	var total float64
	for _, s := range spending {
		total += s.Amount
	}
	return total
}
