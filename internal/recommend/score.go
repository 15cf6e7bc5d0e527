package recommend

import (
	"fmt"
	"sort"

	"cardwise/internal/core"
)

// overlapWeights express how much a duplicated bonus category matters.
// Everyday categories a household cannot shift dominate the penalty.
var overlapWeights = map[core.Category]float64{
	core.Groceries: 0.30,
	core.Travel:    0.25,
	core.Dining:    0.20,
	core.Gas:       0.15,
}

const (
	defaultOverlapWeight = 0.10
	overlapRateTolerance = 0.20
)

func overlapWeight(cat core.Category) float64 {
	if w, ok := overlapWeights[cat]; ok {
		return w
	}
	return defaultOverlapWeight
}

// overlapPenalty discounts rewards the user already effectively earns.
// A held card whose rate in a category is within 20% of the candidate's
// makes that category's projected value mostly redundant.
func overlapPenalty(card core.CreditCard, rewards []core.CategoryReward, held []core.CreditCard) float64 {
	if len(held) == 0 {
		return 0
	}
	var penalty float64
	for _, r := range rewards {
		rate := r.EarnRate
		if rate <= card.BaseRate {
			continue
		}
		for _, h := range held {
			if h.ID == card.ID {
				continue
			}
			if h.EarnRate(r.Category) >= rate*(1-overlapRateTolerance) {
				penalty += overlapWeight(r.Category) * r.RewardsValue
				break
			}
		}
	}
	return penalty
}

// Match score components. The effective reward rate carries the most
// weight, then spend alignment, welcome bonus, and the fee tradeoff.
const (
	scoreRateMax      = 40.0
	scoreRateFullAt   = 0.04 // a 4% blended return maxes the component
	scoreAlignMax     = 25.0
	scoreBonusMax     = 20.0
	scoreBonusFullAt  = 1000.0
	scoreFeeMax       = 15.0
	scoreOwnedPenalty = 100.0
)

func matchScore(rec *core.CardRecommendation, annualSpend float64, owned bool) float64 {
	if annualSpend <= 0 {
		return 0
	}

	effectiveRate := rec.AnnualRewards / annualSpend
	score := clamp(effectiveRate/scoreRateFullAt, 0, 1) * scoreRateMax

	// Fee tradeoff: fee-free cards get a modest boost, fee cards are
	// judged by how far rewards clear the fee.
	fee := rec.Card.AnnualFee
	switch {
	case fee <= 0:
		score += scoreFeeMax * 2 / 3
	default:
		margin := (rec.AnnualRewards - fee) / fee
		score += clamp(margin*5, -scoreFeeMax, scoreFeeMax)
	}

	score += clamp(rec.WelcomeBonusValue/scoreBonusFullAt, 0, 1) * scoreBonusMax

	// Alignment: the share of annual spend earning above the base rate,
	// discounted by overlap with cards already in the wallet.
	var bonusSpend float64
	for _, r := range rec.CategoryRewards {
		if r.EarnRate > rec.Card.BaseRate {
			bonusSpend += r.Spending
		}
	}
	align := clamp(bonusSpend/annualSpend, 0, 1) * scoreAlignMax
	if rec.AnnualRewards > 0 {
		align *= 1 - clamp(rec.OverlapPenalty/rec.AnnualRewards, 0, 1)
	}
	score += align

	if owned {
		score -= scoreOwnedPenalty
	}
	return clamp(score, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// buildReasoning produces the short human-readable justification list.
func buildReasoning(rec *core.CardRecommendation, annualSpend float64, owned bool) []string {
	var reasons []string

	best := bestCategoryRewards(rec.CategoryRewards, rec.Card.BaseRate, 2)
	for _, r := range best {
		line := fmt.Sprintf("Earns %.1fx on %s covering $%.0f/yr of your spending", r.EarnRate, r.Category, r.Spending)
		if r.CapApplied {
			line += " (bonus rate capped)"
		}
		reasons = append(reasons, line)
	}

	if rec.WelcomeBonusValue > 0 {
		reasons = append(reasons, fmt.Sprintf("Welcome offer worth about $%.0f at your spending pace", rec.WelcomeBonusValue))
	}
	switch {
	case rec.Card.AnnualFee <= 0:
		reasons = append(reasons, "No annual fee")
	case rec.Card.FirstYearWaived:
		reasons = append(reasons, fmt.Sprintf("$%.0f annual fee waived the first year", rec.Card.AnnualFee))
	case rec.Card.FeeWaiverSpend > 0 && annualSpend >= rec.Card.FeeWaiverSpend:
		reasons = append(reasons, fmt.Sprintf("Your spending clears the $%.0f fee-waiver threshold", rec.Card.FeeWaiverSpend))
	}
	if rec.ForeignFeeImpact > 0 && rec.Card.ForeignFeePct > 0 {
		reasons = append(reasons, fmt.Sprintf("Foreign transaction fees would cost about $%.0f/yr", rec.ForeignFeeImpact))
	}
	if rec.OverlapPenalty > 0 {
		reasons = append(reasons, "Overlaps bonus categories you already have covered")
	}
	if owned {
		reasons = append(reasons, "Already in your wallet")
	}
	return reasons
}

func bestCategoryRewards(rewards []core.CategoryReward, baseRate float64, limit int) []core.CategoryReward {
	var bonus []core.CategoryReward
	for _, r := range rewards {
		if r.EarnRate > baseRate {
			bonus = append(bonus, r)
		}
	}
	sort.Slice(bonus, func(i, j int) bool {
		if bonus[i].RewardsValue != bonus[j].RewardsValue {
			return bonus[i].RewardsValue > bonus[j].RewardsValue
		}
		return bonus[i].Category < bonus[j].Category
	})
	if len(bonus) > limit {
		bonus = bonus[:limit]
	}
	return bonus
}
