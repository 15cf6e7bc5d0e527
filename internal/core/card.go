package core

import (
	"encoding/json"
	"strings"
)

const (
	CapMonthly   CapFrequency = "monthly"
	CapQuarterly CapFrequency = "quarterly"
	CapAnnual    CapFrequency = "annual"
)

type (
	CapFrequency string

	// SpendingCap limits how much spend earns the bonus rate in a category.
	SpendingCap struct {
		Category  Category     `json:"category"`
		Amount    float64      `json:"amount"`
		Frequency CapFrequency `json:"frequency"`
	}

	// CardBenefits holds the structured benefits blob from the catalog.
	CardBenefits struct {
		TransferPartners   []string `json:"transfer_partners,omitempty"`
		TravelPortalBonus  float64  `json:"travel_portal_bonus,omitempty"`
		StatementCreditPct float64  `json:"statement_credit_pct,omitempty"`
		TravelCredits      float64  `json:"travel_credits,omitempty"`
		LoungeAccess       bool     `json:"lounge_access,omitempty"`
		Perks              []string `json:"perks,omitempty"`
	}

	// CreditCard is a catalog entity. The core treats it as read-only.
	CreditCard struct {
		ID                string               `json:"id"`
		Name              string               `json:"name"`
		Issuer            string               `json:"issuer"`
		AnnualFee         float64              `json:"annual_fee"`
		FirstYearWaived   bool                 `json:"first_year_waived"`
		FeeWaiverSpend    float64              `json:"fee_waiver_spend,omitempty"` // annual spend that waives the fee
		MilitaryWaiver    bool                 `json:"military_waiver,omitempty"`
		RewardRates       map[Category]float64 `json:"reward_rates"`
		BaseRate          float64              `json:"base_rate"`
		Caps              []SpendingCap        `json:"caps,omitempty"`
		WelcomeBonus      string               `json:"welcome_bonus,omitempty"` // free text, parsed by the engine
		PointValueCents   float64              `json:"point_value_cents"`       // cents per point/mile at face value
		OptimalValueCents float64              `json:"optimal_value_cents,omitempty"` // best-case transfer/portal redemption
		ForeignFeePct     float64              `json:"foreign_fee_pct"`
		CreditTier        string               `json:"credit_tier,omitempty"` // e.g. "Good", "Excellent"
		Benefits          CardBenefits         `json:"benefits"`
		Active            bool                 `json:"active"`
	}

	// CardHistoryEntry records a card the user opened, for velocity rules.
	CardHistoryEntry struct {
		Issuer     string `json:"issuer"`
		MonthsAgo  int    `json:"months_ago"`
		StillOpen  bool   `json:"still_open"`
	}

	// UserProfile carries everything the engine knows about the applicant.
	UserProfile struct {
		CreditScore     int                `json:"credit_score,omitempty"` // 0 means unknown
		CurrentCardIDs  []string           `json:"current_card_ids,omitempty"`
		CardHistory     []CardHistoryEntry `json:"card_history,omitempty"`
		ForeignSpending float64            `json:"foreign_spending,omitempty"` // annual, dollars
		Military        bool               `json:"military,omitempty"`
	}
)

// CreditTierScore maps a catalog credit-tier label to its minimum score.
// Unknown labels return 0, which never gates anyone out.
func CreditTierScore(tier string) int {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case "excellent":
		return 750
	case "good to excellent":
		return 700
	case "good":
		return 670
	case "fair to good":
		return 640
	case "fair":
		return 580
	}
	return 0
}

// EarnRate returns the card's rate for a category, falling back to the
// base rate when the card has no bonus category for it.
func (c CreditCard) EarnRate(cat Category) float64 {
	if r, ok := c.RewardRates[cat]; ok && r > 0 {
		return r
	}
	return c.BaseRate
}

// PointValue returns the cents-per-point figure used for valuation: the
// optimal redemption when known, the face value otherwise. Cards that
// state neither are treated as plain 1-cent cashback.
func (c CreditCard) PointValue() float64 {
	v := c.PointValueCents
	if c.OptimalValueCents > v {
		v = c.OptimalValueCents
	}
	if v <= 0 {
		return 1.0
	}
	return v
}

// CapFor returns the cap applying to a category, if any.
func (c CreditCard) CapFor(cat Category) (SpendingCap, bool) {
	for _, cap := range c.Caps {
		if cap.Category == cat {
			return cap, true
		}
	}
	return SpendingCap{}, false
}

// AnnualizedAmount converts the cap to a yearly ceiling.
func (s SpendingCap) AnnualizedAmount() float64 {
	switch s.Frequency {
	case CapMonthly:
		return s.Amount * 12
	case CapQuarterly:
		return s.Amount * 4
	default:
		return s.Amount
	}
}

// OpenedWithin counts cards in the history opened within the trailing window.
func (u UserProfile) OpenedWithin(months int) int {
	n := 0
	for _, h := range u.CardHistory {
		if h.MonthsAgo >= 0 && h.MonthsAgo < months {
			n++
		}
	}
	return n
}

// Holds reports whether the user already carries the given card.
func (u UserProfile) Holds(cardID string) bool {
	for _, id := range u.CurrentCardIDs {
		if id == cardID {
			return true
		}
	}
	return false
}

// UnmarshalBenefits decodes a raw benefits JSON blob, tolerating empty input.
func UnmarshalBenefits(raw []byte) (CardBenefits, error) {
	var b CardBenefits
	if len(raw) == 0 {
		return b, nil
	}
	if err := json.Unmarshal(raw, &b); err != nil {
		return CardBenefits{}, err
	}
	return b, nil
}
