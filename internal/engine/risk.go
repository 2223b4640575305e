package engine

import (
	"github.com/antigravity-labs/antigravity-router/internal/ruleset"
)

// riskKeywordFloor is the minimum risk guaranteed when the text contains a
// configured high-stakes keyword. A floor rather than an additive term: the
// keyword must guarantee escalation pressure no matter how low the
// contextual terms are.
const riskKeywordFloor = 60

// enterpriseRiskBonus reflects the higher cost of a wrong answer for an
// enterprise account.
const enterpriseRiskBonus = 20

// categoryBaseRisk is the additive risk per classified category.
var categoryBaseRisk = map[ruleset.Category]int{
	ruleset.CategoryCritical:       60,
	ruleset.CategoryConversational: 20,
}

// scoreRisk computes the bounded risk score. Channel, product and tier
// compose additively as independent contextual evidence; the keyword floor
// applies on top; the result is clamped to [0, 100].
func (e *Engine) scoreRisk(text string, category ruleset.Category, channel, product string, md Metadata) int {
	risk := e.rules.ChannelRiskModifier(channel)
	risk += e.rules.ProductRiskModifier(product)
	risk += categoryBaseRisk[category]

	if e.rules.MatchesRiskKeyword(text) && risk < riskKeywordFloor {
		risk = riskKeywordFloor
	}

	if md.UserTier == "enterprise" {
		risk += enterpriseRiskBonus
	}

	if risk < 0 {
		return 0
	}
	if risk > 100 {
		return 100
	}
	return risk
}
