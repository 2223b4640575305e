package engine

import (
	"time"

	"go.uber.org/zap"

	celeval "github.com/antigravity-labs/antigravity-router/internal/eval/cel"
	"github.com/antigravity-labs/antigravity-router/internal/ruleset"
)

// Engine is the deterministic routing decision core. It holds only the
// immutable ruleset and a logger; Decide is safe for concurrent use.
type Engine struct {
	rules  *ruleset.Model
	logger *zap.Logger
}

// New creates a new engine over an already-validated ruleset.
func New(rules *ruleset.Model, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		rules:  rules,
		logger: logger,
	}
}

// Decide routes a single request. It is total over well-formed input and
// always returns a decision; absent optional fields take their documented
// defaults.
func (e *Engine) Decide(req Request) Decision {
	start := time.Now()
	req = req.withDefaults()

	e.logger.Debug("routing request",
		zap.String("channel", req.Channel),
		zap.String("product", req.Product),
	)

	decision := e.decide(req)
	decision.ProcessingTimeMS = float64(time.Since(start).Microseconds()) / 1000.0

	e.logger.Info("routing decision",
		zap.String("intent", decision.Intent),
		zap.String("category", string(decision.Category)),
		zap.Int("complexity_score", decision.ComplexityScore),
		zap.Int("risk_score", decision.RiskScore),
		zap.String("route", string(decision.Route)),
		zap.Float64("estimated_cost", decision.EstimatedCost),
		zap.Bool("fallback_used", decision.FallbackUsed),
		zap.String("note", decision.Note),
	)

	return decision
}

// decide runs the pipeline: overrides, custom rules, matching, risk, policy.
func (e *Engine) decide(req Request) Decision {
	if d, ok := e.silenceFilter(req); ok {
		return d
	}
	if d, ok := e.slotFilling(req); ok {
		return d
	}
	if d, ok := e.freePatternFastPath(req); ok {
		return d
	}
	if d, ok := e.customRules(req); ok {
		return d
	}

	intent, category, complexity := e.matchIntent(req.Text, req.Metadata.MissingSlots)
	risk := e.scoreRisk(req.Text, category, req.Channel, req.Product, req.Metadata)
	route, category, cost, fallback, note := e.applyPolicy(category, risk)

	return Decision{
		Intent:          intent,
		Category:        category,
		ComplexityScore: complexity,
		RiskScore:       risk,
		Route:           route,
		EstimatedCost:   cost,
		FallbackUsed:    fallback,
		Note:            note,
	}
}

// customRules evaluates the ruleset's precompiled CEL rules in file order.
// The first true condition is terminal; its route still passes through the
// cost table and the financial guardrail. Rule evaluation errors are logged
// and skipped, matching the behavior of an unmatched condition.
func (e *Engine) customRules(req Request) (Decision, bool) {
	rules := e.rules.CustomRules()
	if len(rules) == 0 {
		return Decision{}, false
	}

	vars := map[string]interface{}{
		"text":    req.Text,
		"channel": req.Channel,
		"product": req.Product,
		"risk":    0,
		"metadata": map[string]interface{}{
			"missing_slots": req.Metadata.MissingSlots,
			"user_tier":     req.Metadata.UserTier,
			"is_interview":  req.Metadata.IsInterview,
		},
	}

	for i, rule := range rules {
		matched, err := celeval.EvaluateBool(rule.Program, vars)
		if err != nil {
			e.logger.Warn("custom rule evaluation error",
				zap.Int("rule_index", i),
				zap.String("condition", rule.Condition),
				zap.Error(err),
			)
			continue
		}
		if !matched {
			continue
		}

		e.logger.Debug("custom rule matched",
			zap.Int("rule_index", i),
			zap.String("condition", rule.Condition),
			zap.String("route", string(rule.Route)),
		)

		route, cost, fallback := e.priceAndGuard(rule.Route)
		return Decision{
			Intent:        rule.Intent,
			Category:      rule.Category,
			RiskScore:     0,
			Route:         route,
			EstimatedCost: cost,
			FallbackUsed:  fallback,
			Note:          "custom rule: " + rule.Condition,
		}, true
	}

	return Decision{}, false
}
