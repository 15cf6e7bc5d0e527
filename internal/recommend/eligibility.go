package recommend

import (
	"strings"

	"cardwise/internal/core"
)

const (
	// Chase declines applicants with five or more new accounts in the
	// trailing 24 months regardless of score.
	chaseVelocityLimit  = 5
	chaseVelocityWindow = 24
)

const (
	reasonInactive    = "inactive"
	reasonCreditScore = "credit_score"
	reasonVelocity    = "issuer_velocity"
)

// checkEligibility returns a non-empty reason when the user cannot get
// the card. An unknown credit score (0) never gates anyone out.
func checkEligibility(card core.CreditCard, profile core.UserProfile) string {
	if !card.Active {
		return reasonInactive
	}
	if min := core.CreditTierScore(card.CreditTier); min > 0 && profile.CreditScore > 0 && profile.CreditScore < min {
		return reasonCreditScore
	}
	if strings.EqualFold(card.Issuer, "Chase") && profile.OpenedWithin(chaseVelocityWindow) >= chaseVelocityLimit {
		return reasonVelocity
	}
	return ""
}
