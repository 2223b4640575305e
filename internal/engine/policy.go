package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/antigravity-labs/antigravity-router/internal/ruleset"
)

// costFloorUSD is the accounting floor for the free route when an override
// or the guardrail produced it.
const costFloorUSD = 0.0001

// routeCostUSD is the fixed per-route cost estimate.
var routeCostUSD = map[ruleset.Route]float64{
	ruleset.RouteAntigravity: 0,
	ruleset.RouteDeepseek:    0.002,
	ruleset.RouteGoogle:      0.001,
	ruleset.RouteWaterfall:   0.025,
}

// baseRoute is the category to route mapping. The ruleset may override a
// category's route, which is the only way RouteGoogle becomes reachable.
var baseRoute = map[ruleset.Category]ruleset.Route{
	ruleset.CategoryStatic:         ruleset.RouteAntigravity,
	ruleset.CategoryTransactional:  ruleset.RouteAntigravity,
	ruleset.CategoryConversational: ruleset.RouteDeepseek,
	ruleset.CategoryCritical:       ruleset.RouteWaterfall,
}

// applyPolicy maps (category, risk) to a route: base mapping, high-risk
// escalation, then the financial guardrail as the final unconditional step.
// The category is normalized to critical when escalation fires so reporting
// stays consistent.
func (e *Engine) applyPolicy(category ruleset.Category, risk int) (ruleset.Route, ruleset.Category, float64, bool, string) {
	route, ok := e.rules.CategoryRoute(category)
	if !ok {
		route = baseRoute[category]
	}
	note := fmt.Sprintf("category %s", category)

	if risk >= e.rules.HighRiskThreshold() {
		route = ruleset.RouteWaterfall
		category = ruleset.CategoryCritical
		note = fmt.Sprintf("high risk escalation (risk %d >= %d)", risk, e.rules.HighRiskThreshold())
	}

	route, cost, fallback := e.priceAndGuard(route)
	if fallback {
		note += "; cost guardrail fallback"
	}
	return route, category, cost, fallback, note
}

// priceAndGuard estimates the route cost and enforces the financial
// guardrail. Nothing computed earlier may re-override the downgrade.
func (e *Engine) priceAndGuard(route ruleset.Route) (ruleset.Route, float64, bool) {
	cost := routeCostUSD[route]
	limit := e.rules.MaxCostPerRequestUSD()
	if cost <= limit {
		return route, cost, false
	}

	e.logger.Warn("cost limit exceeded, falling back to free route",
		zap.String("route", string(route)),
		zap.Float64("estimated_cost", cost),
		zap.Float64("limit", limit),
	)
	return ruleset.RouteAntigravity, costFloorUSD, true
}
