package recommend

import (
	"regexp"
	"strconv"
	"strings"

	"cardwise/internal/core"
)

// Welcome-bonus text is catalog free text like "60,000 points after you
// spend $4,000 in 3 months" or "$200 cash back after spending $500 in
// 3 months". The spend requirement is parsed separately from the award
// so a "$4,000" requirement is never mistaken for a cash bonus.
var (
	bonusPointsRe = regexp.MustCompile(`(?i)([\d,]+)\s*(?:bonus\s+)?(?:points|miles)`)
	bonusCashRe   = regexp.MustCompile(`(?i)\$([\d,]+)\s*(?:cash|back|bonus|statement\s+credit)`)
	bonusSpendRe  = regexp.MustCompile(`(?i)(?:spend(?:ing)?|after)\s+\$?([\d,]+)\s+(?:in|within)\s+(\d+)\s+months?`)
)

const bonusTimingMultiplier = 1.10

// welcomeBonusValue estimates the first-year dollar value of a welcome
// offer given the user's spending run rate. A run rate below the offer's
// requirement scales the value down linearly; comfortably clearing it
// (double the required pace) earns a small timing bonus.
func welcomeBonusValue(card core.CreditCard, annualSpend float64) float64 {
	text := strings.TrimSpace(card.WelcomeBonus)
	if text == "" {
		return 0
	}

	var value float64
	if m := bonusPointsRe.FindStringSubmatch(text); m != nil {
		value = parseBonusNumber(m[1]) * card.PointValue() / 100
	} else if m := bonusCashRe.FindStringSubmatch(text); m != nil {
		value = parseBonusNumber(m[1])
	}
	if value <= 0 {
		return 0
	}

	m := bonusSpendRe.FindStringSubmatch(text)
	if m == nil {
		return value
	}
	required := parseBonusNumber(m[1])
	months, _ := strconv.Atoi(m[2])
	if required <= 0 || months <= 0 {
		return value
	}

	requiredMonthly := required / float64(months)
	actualMonthly := annualSpend / 12
	switch {
	case actualMonthly < requiredMonthly:
		value *= actualMonthly / requiredMonthly
	case actualMonthly >= 2*requiredMonthly:
		value *= bonusTimingMultiplier
	}
	return value
}

func parseBonusNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}
