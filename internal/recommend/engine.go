// Package recommend scores a catalog of credit cards against a user's
// annualized spending profile and ranks the results. Scoring one card is
// pure computation; the engine fans out across cards and reassembles a
// deterministic ranking.
package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"cardwise/internal/core"
	"cardwise/internal/log"
)

// Options tune the engine. Zero values fall back to defaults.
type Options struct {
	TopN                int     // ranked cards to return, default 10
	MilitaryWaiverOdds  float64 // chance an issuer honors a military fee waiver
	BaselineRatePercent float64 // flat-rate comparison card, default 1%
}

const (
	defaultTopN               = 10
	defaultMilitaryOdds       = 0.5
	defaultBaselineRate       = 1.0
	rankingScoreTiebreakDelta = 5.0
)

func (o Options) withDefaults() Options {
	if o.TopN <= 0 {
		o.TopN = defaultTopN
	}
	if o.MilitaryWaiverOdds <= 0 {
		o.MilitaryWaiverOdds = defaultMilitaryOdds
	}
	if o.BaselineRatePercent <= 0 {
		o.BaselineRatePercent = defaultBaselineRate
	}
	return o
}

type Engine struct {
	opts   Options
	logger *log.Logger
}

func NewEngine(opts Options, logger *log.Logger) *Engine {
	return &Engine{opts: opts.withDefaults(), logger: logger}
}

// Recommend scores every card concurrently against the annualized
// spending breakdown and returns the ranked result. Ineligible cards are
// kept out of the ranking but appended, flagged, so callers can show why.
func (e *Engine) Recommend(ctx context.Context, spending []core.CategorySpending, cards []core.CreditCard, profile core.UserProfile) (core.RecommendationResult, error) {
	annualSpend := core.TotalAnnualized(spending)
	result := core.RecommendationResult{
		AnnualizedSpend: annualSpend,
		BaselineValue:   annualSpend * e.opts.BaselineRatePercent / 100,
	}
	if len(cards) == 0 {
		return result, nil
	}

	held := heldCards(cards, profile)
	scored := make([]core.CardRecommendation, len(cards))

	g, ctx := errgroup.WithContext(ctx)
	for i, card := range cards {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scored[i] = e.scoreCard(card, spending, annualSpend, profile, held)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.RecommendationResult{}, fmt.Errorf("score cards: %w", err)
	}

	var eligible, ineligible []core.CardRecommendation
	for _, rec := range scored {
		if rec.Ineligible {
			ineligible = append(ineligible, rec)
		} else {
			eligible = append(eligible, rec)
		}
	}
	rank(eligible)
	if len(eligible) > e.opts.TopN {
		eligible = eligible[:e.opts.TopN]
	}
	sort.Slice(ineligible, func(i, j int) bool { return ineligible[i].Card.Name < ineligible[j].Card.Name })

	result.Recommendations = append(eligible, ineligible...)
	result.Insights = resultInsights(eligible, result.BaselineValue)

	if e.logger != nil {
		e.logger.Debug("scored card catalog",
			"cards", len(cards), "eligible", len(eligible), "annual_spend", annualSpend)
	}
	return result, nil
}

func (e *Engine) scoreCard(card core.CreditCard, spending []core.CategorySpending, annualSpend float64, profile core.UserProfile, held []core.CreditCard) core.CardRecommendation {
	rec := core.CardRecommendation{Card: card}

	if reason := checkEligibility(card, profile); reason != "" {
		rec.Ineligible = true
		rec.IneligibilityReason = reason
		return rec
	}

	rec.CategoryRewards = categoryRewards(card, spending)
	rec.AnnualRewards = totalRewardsValue(rec.CategoryRewards)
	rec.ForeignFeeImpact = foreignFeeImpact(card, profile)
	rec.OverlapPenalty = overlapPenalty(card, rec.CategoryRewards, held)
	rec.WelcomeBonusValue = welcomeBonusValue(card, annualSpend)

	fee := effectiveAnnualFee(card, annualSpend, profile, e.opts.MilitaryWaiverOdds)
	credits := card.Benefits.TravelCredits
	rec.NetBenefit = rec.AnnualRewards + credits - fee - rec.ForeignFeeImpact - rec.OverlapPenalty

	firstYearFee := fee
	if card.FirstYearWaived {
		firstYearFee = 0
	}
	rec.FirstYearValue = rec.AnnualRewards + credits + rec.WelcomeBonusValue - firstYearFee - rec.ForeignFeeImpact - rec.OverlapPenalty

	owned := profile.Holds(card.ID)
	rec.MatchScore = matchScore(&rec, annualSpend, owned)
	rec.Reasoning = buildReasoning(&rec, annualSpend, owned)
	return rec
}

// rank orders by match score; recommendations within a few points of
// each other are effectively tied, so the higher net benefit wins there.
func rank(recs []core.CardRecommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if math.Abs(recs[i].MatchScore-recs[j].MatchScore) < rankingScoreTiebreakDelta {
			if recs[i].NetBenefit != recs[j].NetBenefit {
				return recs[i].NetBenefit > recs[j].NetBenefit
			}
			return recs[i].Card.Name < recs[j].Card.Name
		}
		return recs[i].MatchScore > recs[j].MatchScore
	})
}

func heldCards(cards []core.CreditCard, profile core.UserProfile) []core.CreditCard {
	var held []core.CreditCard
	for _, c := range cards {
		if profile.Holds(c.ID) {
			held = append(held, c)
		}
	}
	return held
}

func resultInsights(eligible []core.CardRecommendation, baseline float64) []string {
	var insights []string
	if len(eligible) == 0 {
		return insights
	}
	top := eligible[0]
	if top.NetBenefit > baseline {
		insights = append(insights, fmt.Sprintf(
			"%s would net about $%.0f/yr, $%.0f more than a flat 1%% card",
			top.Card.Name, top.NetBenefit, top.NetBenefit-baseline))
	} else {
		insights = append(insights, "No catalog card beats a flat 1% cashback card for this spending profile")
	}
	if top.WelcomeBonusValue > 0 {
		insights = append(insights, fmt.Sprintf(
			"First-year value of %s is about $%.0f including the welcome offer",
			top.Card.Name, top.FirstYearValue))
	}
	return insights
}
