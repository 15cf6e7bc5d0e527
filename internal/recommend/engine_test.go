package recommend

import (
	"context"
	"math"
	"testing"

	"cardwise/internal/core"
)

func grocerySpend(amount float64) []core.CategorySpending {
	return []core.CategorySpending{{Category: core.Groceries, Amount: amount, Count: 10}}
}

func TestCategoryRewardsUncapped(t *testing.T) {
	card := core.CreditCard{
		RewardRates:     map[core.Category]float64{core.Groceries: 3},
		BaseRate:        1,
		PointValueCents: 1,
		Active:          true,
	}
	rewards := categoryRewards(card, grocerySpend(1500))
	if len(rewards) != 1 {
		t.Fatalf("got %d rewards", len(rewards))
	}
	if rewards[0].RewardsEarned != 4500 {
		t.Errorf("earned = %v, want 4500", rewards[0].RewardsEarned)
	}
	if rewards[0].CapApplied {
		t.Error("cap should not apply")
	}
}

func TestCategoryRewardsCapped(t *testing.T) {
	card := core.CreditCard{
		RewardRates:     map[core.Category]float64{core.Groceries: 3},
		BaseRate:        1,
		PointValueCents: 1,
		Caps: []core.SpendingCap{
			{Category: core.Groceries, Amount: 500, Frequency: core.CapMonthly},
		},
		Active: true,
	}
	rewards := categoryRewards(card, grocerySpend(10000))
	// 6000 capped at 3x plus 4000 overflow at the base rate.
	if rewards[0].RewardsEarned != 22000 {
		t.Errorf("earned = %v, want 22000", rewards[0].RewardsEarned)
	}
	if !rewards[0].CapApplied {
		t.Error("cap should apply")
	}
	if rewards[0].RewardsValue != 220 {
		t.Errorf("value = %v, want 220", rewards[0].RewardsValue)
	}
}

func TestPointValueUsesOptimal(t *testing.T) {
	card := core.CreditCard{PointValueCents: 1.0, OptimalValueCents: 1.5}
	if got := card.PointValue(); got != 1.5 {
		t.Errorf("point value = %v, want 1.5", got)
	}
	plain := core.CreditCard{}
	if got := plain.PointValue(); got != 1.0 {
		t.Errorf("default point value = %v, want 1.0", got)
	}
}

func TestWelcomeBonusValue(t *testing.T) {
	card := core.CreditCard{
		WelcomeBonus:    "60,000 points after you spend $4,000 in 3 months",
		PointValueCents: 1.25,
	}
	// Required pace is $1,333/month.
	cases := []struct {
		name        string
		annualSpend float64
		want        float64
	}{
		{"pace met", 24000, 750},               // $2,000/mo, no adjustment
		{"half pace scales down", 8000, 375},   // $667/mo is half the requirement
		{"double pace earns timing", 48000, 825},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := welcomeBonusValue(card, tc.annualSpend)
			if math.Abs(got-tc.want) > 0.5 {
				t.Fatalf("bonus value = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWelcomeBonusCash(t *testing.T) {
	card := core.CreditCard{WelcomeBonus: "$200 cash back after spending $500 in 3 months"}
	if got := welcomeBonusValue(card, 24000); math.Abs(got-220) > 0.5 {
		// $2,000/mo is far past the $167/mo requirement: timing bonus.
		t.Errorf("bonus value = %v, want 220", got)
	}
	if got := welcomeBonusValue(core.CreditCard{}, 24000); got != 0 {
		t.Errorf("empty bonus = %v, want 0", got)
	}
}

func TestCheckEligibility(t *testing.T) {
	active := core.CreditCard{Active: true, CreditTier: "Excellent", Issuer: "Chase"}

	cases := []struct {
		name    string
		card    core.CreditCard
		profile core.UserProfile
		want    string
	}{
		{"inactive card", core.CreditCard{}, core.UserProfile{}, reasonInactive},
		{"score too low", active, core.UserProfile{CreditScore: 700}, reasonCreditScore},
		{"score sufficient", active, core.UserProfile{CreditScore: 760}, ""},
		{"unknown score passes", active, core.UserProfile{}, ""},
		{
			"chase velocity",
			active,
			core.UserProfile{CreditScore: 800, CardHistory: []core.CardHistoryEntry{
				{MonthsAgo: 1}, {MonthsAgo: 5}, {MonthsAgo: 10}, {MonthsAgo: 15}, {MonthsAgo: 20},
			}},
			reasonVelocity,
		},
		{
			"old accounts do not count",
			active,
			core.UserProfile{CreditScore: 800, CardHistory: []core.CardHistoryEntry{
				{MonthsAgo: 30}, {MonthsAgo: 40}, {MonthsAgo: 50}, {MonthsAgo: 60}, {MonthsAgo: 70},
			}},
			"",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := checkEligibility(tc.card, tc.profile); got != tc.want {
				t.Fatalf("reason = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEffectiveAnnualFee(t *testing.T) {
	card := core.CreditCard{AnnualFee: 95, FeeWaiverSpend: 12000, MilitaryWaiver: true, Active: true}

	if got := effectiveAnnualFee(card, 15000, core.UserProfile{}, 0.5); got != 0 {
		t.Errorf("spend waiver fee = %v, want 0", got)
	}
	if got := effectiveAnnualFee(card, 6000, core.UserProfile{}, 0.5); got != 95 {
		t.Errorf("fee = %v, want 95", got)
	}
	if got := effectiveAnnualFee(card, 6000, core.UserProfile{Military: true}, 0.5); got != 47.5 {
		t.Errorf("military fee = %v, want 47.5", got)
	}
}

func TestForeignFeeImpact(t *testing.T) {
	profile := core.UserProfile{ForeignSpending: 1000}
	if got := foreignFeeImpact(core.CreditCard{ForeignFeePct: 3}, profile); got != 50 {
		t.Errorf("impact = %v, want 50", got)
	}
	// Fee-free cards still pay the network conversion spread.
	if got := foreignFeeImpact(core.CreditCard{}, profile); got != 20 {
		t.Errorf("fee-free impact = %v, want 20", got)
	}
	if got := foreignFeeImpact(core.CreditCard{ForeignFeePct: 3}, core.UserProfile{}); got != 0 {
		t.Errorf("no foreign spend impact = %v, want 0", got)
	}
}

func TestOverlapPenalty(t *testing.T) {
	candidate := core.CreditCard{
		ID:       "new",
		BaseRate: 1,
		RewardRates: map[core.Category]float64{
			core.Groceries: 3,
			core.Dining:    3,
		},
	}
	heldSimilar := core.CreditCard{
		ID:          "held",
		BaseRate:    1,
		RewardRates: map[core.Category]float64{core.Groceries: 3},
	}
	rewards := []core.CategoryReward{
		{Category: core.Groceries, EarnRate: 3, RewardsValue: 180, Spending: 6000},
		{Category: core.Dining, EarnRate: 3, RewardsValue: 90, Spending: 3000},
	}

	got := overlapPenalty(candidate, rewards, []core.CreditCard{heldSimilar})
	want := 0.30 * 180 // groceries overlap only
	if math.Abs(got-want) > 0.01 {
		t.Errorf("penalty = %v, want %v", got, want)
	}

	if got := overlapPenalty(candidate, rewards, nil); got != 0 {
		t.Errorf("penalty with empty wallet = %v, want 0", got)
	}
}

func TestRecommendRanking(t *testing.T) {
	spending := []core.CategorySpending{
		{Category: core.Groceries, Amount: 8000},
		{Category: core.Dining, Amount: 3000},
		{Category: core.Other, Amount: 2000},
	}
	cards := []core.CreditCard{
		{
			ID: "grocery-hero", Name: "Grocery Hero", Issuer: "Amex", Active: true,
			RewardRates: map[core.Category]float64{core.Groceries: 4, core.Dining: 2},
			BaseRate:    1, PointValueCents: 1, AnnualFee: 0,
		},
		{
			ID: "flat-one", Name: "Flat One", Issuer: "Citi", Active: true,
			BaseRate: 1, PointValueCents: 1,
		},
		{
			ID: "gated", Name: "Gated Premium", Issuer: "Amex", Active: true,
			CreditTier: "Excellent", BaseRate: 1, PointValueCents: 1,
		},
	}
	profile := core.UserProfile{CreditScore: 700}

	engine := NewEngine(Options{}, nil)
	result, err := engine.Recommend(context.Background(), spending, cards, profile)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	if result.AnnualizedSpend != 13000 {
		t.Errorf("annualized spend = %v, want 13000", result.AnnualizedSpend)
	}
	if result.BaselineValue != 130 {
		t.Errorf("baseline = %v, want 130", result.BaselineValue)
	}
	if len(result.Recommendations) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(result.Recommendations))
	}
	if result.Recommendations[0].Card.ID != "grocery-hero" {
		t.Errorf("top card = %s, want grocery-hero", result.Recommendations[0].Card.ID)
	}
	last := result.Recommendations[len(result.Recommendations)-1]
	if !last.Ineligible || last.IneligibilityReason != reasonCreditScore {
		t.Errorf("gated card not flagged: %+v", last)
	}
	if len(result.Recommendations[0].Reasoning) == 0 {
		t.Error("top card has no reasoning")
	}
	if len(result.Insights) == 0 {
		t.Error("expected result insights")
	}
}

func TestRecommendOwnedCardSinks(t *testing.T) {
	spending := grocerySpend(10000)
	cards := []core.CreditCard{
		{
			ID: "owned", Name: "Owned Card", Active: true,
			RewardRates: map[core.Category]float64{core.Groceries: 5},
			BaseRate:    1, PointValueCents: 1,
		},
		{
			ID: "fresh", Name: "Fresh Card", Active: true,
			RewardRates: map[core.Category]float64{core.Groceries: 2},
			BaseRate:    1, PointValueCents: 1,
		},
	}
	profile := core.UserProfile{CurrentCardIDs: []string{"owned"}}

	engine := NewEngine(Options{}, nil)
	result, err := engine.Recommend(context.Background(), spending, cards, profile)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if result.Recommendations[0].Card.ID != "fresh" {
		t.Errorf("top card = %s, want fresh (owned card should sink)", result.Recommendations[0].Card.ID)
	}
}

func TestRecommendTopNTruncation(t *testing.T) {
	spending := grocerySpend(5000)
	var cards []core.CreditCard
	for i := 0; i < 6; i++ {
		cards = append(cards, core.CreditCard{
			ID: string(rune('a' + i)), Name: string(rune('A' + i)), Active: true,
			BaseRate: float64(i + 1), PointValueCents: 1,
		})
	}
	engine := NewEngine(Options{TopN: 3}, nil)
	result, err := engine.Recommend(context.Background(), spending, cards, core.UserProfile{})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(result.Recommendations) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(result.Recommendations))
	}
}

func TestRankTiebreakByNetBenefit(t *testing.T) {
	recs := []core.CardRecommendation{
		{Card: core.CreditCard{Name: "A"}, MatchScore: 70, NetBenefit: 100},
		{Card: core.CreditCard{Name: "B"}, MatchScore: 72, NetBenefit: 300},
		{Card: core.CreditCard{Name: "C"}, MatchScore: 90, NetBenefit: 50},
	}
	rank(recs)
	if recs[0].Card.Name != "C" {
		t.Errorf("first = %s, want C (clear score lead)", recs[0].Card.Name)
	}
	if recs[1].Card.Name != "B" {
		t.Errorf("second = %s, want B (tie broken by net benefit)", recs[1].Card.Name)
	}
}

func TestRecommendEmptyCatalog(t *testing.T) {
	engine := NewEngine(Options{}, nil)
	result, err := engine.Recommend(context.Background(), grocerySpend(5000), nil, core.UserProfile{})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(result.Recommendations) != 0 {
		t.Errorf("got %d recommendations, want 0", len(result.Recommendations))
	}
	if result.BaselineValue != 50 {
		t.Errorf("baseline = %v, want 50", result.BaselineValue)
	}
}
