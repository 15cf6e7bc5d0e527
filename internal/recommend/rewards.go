package recommend

import (
	"cardwise/internal/core"
)

// categoryRewards projects a card's earnings against annualized spend,
// honoring per-category caps. Spend over an annualized cap earns the
// base rate instead of the bonus rate.
func categoryRewards(card core.CreditCard, spending []core.CategorySpending) []core.CategoryReward {
	pointValue := card.PointValue()

	out := make([]core.CategoryReward, 0, len(spending))
	for _, s := range spending {
		if s.Amount <= 0 {
			continue
		}
		rate := card.EarnRate(s.Category)
		earned := s.Amount * rate
		capped := false

		if cap, ok := card.CapFor(s.Category); ok && rate > card.BaseRate {
			ceiling := cap.AnnualizedAmount()
			if s.Amount > ceiling {
				earned = ceiling*rate + (s.Amount-ceiling)*card.BaseRate
				capped = true
			}
		}

		out = append(out, core.CategoryReward{
			Category:      s.Category,
			Spending:      s.Amount,
			EarnRate:      rate,
			RewardsEarned: earned,
			RewardsValue:  earned * pointValue / 100,
			CapApplied:    capped,
		})
	}
	return out
}

func totalRewardsValue(rewards []core.CategoryReward) float64 {
	var total float64
	for _, r := range rewards {
		total += r.RewardsValue
	}
	return total
}

// effectiveAnnualFee applies the card's waiver paths: a spend threshold
// that clears it outright, and a military waiver discounted by the odds
// the issuer honors it.
func effectiveAnnualFee(card core.CreditCard, annualSpend float64, profile core.UserProfile, militaryOdds float64) float64 {
	fee := card.AnnualFee
	if fee <= 0 {
		return 0
	}
	if card.FeeWaiverSpend > 0 && annualSpend >= card.FeeWaiverSpend {
		return 0
	}
	if profile.Military && card.MilitaryWaiver {
		fee *= 1 - militaryOdds
	}
	return fee
}

// foreignFeeImpact is the yearly cost of taking this card abroad: the
// card's own fee plus the roughly 2% network conversion spread.
func foreignFeeImpact(card core.CreditCard, profile core.UserProfile) float64 {
	if profile.ForeignSpending <= 0 {
		return 0
	}
	return profile.ForeignSpending * (card.ForeignFeePct/100 + 0.02)
}
