package categorize

import (
	"regexp"

	"cardwise/internal/core"
)

// keywordRule matches a cleaned description against one category. Rules
// are evaluated in order; the first hit wins, so brand rules that would
// otherwise be shadowed by broader ones come first (UBER EATS is dining,
// plain UBER is transit).
type keywordRule struct {
	category   core.Category
	confidence float64
	re         *regexp.Regexp
}

func rule(cat core.Category, conf float64, pattern string) keywordRule {
	return keywordRule{category: cat, confidence: conf, re: regexp.MustCompile(`(?i)` + pattern)}
}

var keywordRules = []keywordRule{
	// Streaming subscriptions before entertainment and shopping.
	rule(core.Streaming, 0.95, `\b(netflix|hulu|spotify|disney\+|hbo\s*max|paramount\+|peacock|youtube\s*premium|audible|crunchyroll)\b`),
	rule(core.Streaming, 0.80, `\bapple\.com/bill\b`),

	// Delivery platforms before the plain ride-share rules below.
	rule(core.Dining, 0.90, `\b(doordash|grubhub|uber\s*eats|postmates|seamless|caviar)\b`),
	rule(core.Dining, 0.90, `\b(starbucks|mcdonald|chipotle|dunkin|domino'?s|taco\s*bell|panera|wendy'?s|five\s*guys|shake\s*shack|in-?n-?out)\b`),
	rule(core.Dining, 0.80, `\b(restaurant|cafe|coffee|pizza|pizzeria|sushi|ramen|bakery|deli|diner|bistro|grill|taqueria|brewery|taphouse)\b`),

	rule(core.Gas, 0.90, `\b(shell|chevron|exxon|mobil|sunoco|valero|texaco|speedway|circle\s*k|arco|phillips\s*66|conoco|76)\b`),
	rule(core.Gas, 0.80, `\b(gas\s*station|fuel|petroleum)\b`),

	rule(core.Groceries, 0.90, `\b(kroger|safeway|whole\s*foods|trader\s*joe|aldi|wegmans|publix|albertsons|sprouts|food\s*lion|h-?e-?b|costco|walmart)\b`),
	rule(core.Groceries, 0.80, `\b(grocery|groceries|supermarket|market|farmers\s*mkt)\b`),

	rule(core.Travel, 0.90, `\b(delta\s*air|united\s*air|american\s*air|southwest\s*air|jetblue|alaska\s*air|spirit\s*air|frontier\s*air)\b`),
	rule(core.Travel, 0.90, `\b(marriott|hilton|hyatt|airbnb|vrbo|expedia|booking\.com|priceline|hotels\.com)\b`),
	rule(core.Travel, 0.75, `\b(airline|airways|hotel|motel|resort|cruise|rental\s*car|hertz|avis|enterprise\s*rent)\b`),

	rule(core.Transit, 0.90, `\b(uber|lyft|amtrak|mta|bart|caltrain|septa|wmata)\b`),
	rule(core.Transit, 0.75, `\b(taxi|parking|toll|metro|transit|commuter)\b`),

	rule(core.Healthcare, 0.90, `\b(cvs|walgreens|rite\s*aid|kaiser|quest\s*diagnostics)\b`),
	rule(core.Healthcare, 0.75, `\b(pharmacy|medical|dental|clinic|hospital|urgent\s*care|optometr|veterinar)\b`),

	rule(core.Utilities, 0.90, `\b(comcast|xfinity|verizon|t-?mobile|at&t|spectrum|centurylink|pg&e|con\s*edison|duke\s*energy)\b`),
	rule(core.Utilities, 0.75, `\b(electric|water\s*(bill|dept)|utility|utilities|internet|sewer|sanitation|power\s*&\s*light)\b`),

	rule(core.Entertainment, 0.90, `\b(amc|regal|cinemark|ticketmaster|stubhub|fandango|dave\s*&\s*buster)\b`),
	rule(core.Entertainment, 0.75, `\b(cinema|theatre|theater|concert|museum|bowling|arcade|golf|playstation|nintendo|steam\s*games)\b`),

	rule(core.Shopping, 0.90, `\b(amazon|amzn|target|best\s*buy|ebay|etsy|ikea|home\s*depot|lowe'?s|macy'?s|nordstrom|tj\s*maxx|marshalls|nike|wayfair)\b`),
	rule(core.Shopping, 0.75, `\b(store|outlet|boutique|mall|retail)\b`),

	rule(core.FinancialServices, 0.90, `\b(venmo|zelle|western\s*union|coinbase|robinhood|fidelity|vanguard|schwab)\b`),
	rule(core.FinancialServices, 0.75, `\b(atm|interest\s*charge|annual\s*fee|late\s*fee|service\s*fee|wire\s*transfer|insurance|loan\s*pmt|loan\s*payment)\b`),
}

// matchKeywords runs the rule list over a description. minConfidence lets
// callers working with noisier text (PDF extraction) skip the broad rules
// and keep only strong brand matches.
func matchKeywords(description string, minConfidence float64) (core.Categorization, bool) {
	for _, r := range keywordRules {
		if r.confidence < minConfidence {
			continue
		}
		if r.re.MatchString(description) {
			return core.Categorization{
				Category:   r.category,
				Confidence: r.confidence,
				Source:     core.SourceDescription,
			}, true
		}
	}
	return core.Categorization{}, false
}
