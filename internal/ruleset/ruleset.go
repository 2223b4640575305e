package ruleset

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"

	celeval "github.com/antigravity-labs/antigravity-router/internal/eval/cel"
)

// Category is the coarse classification driving routing.
type Category string

const (
	CategoryStatic         Category = "static"
	CategoryTransactional  Category = "transactional"
	CategoryConversational Category = "conversational"
	CategoryCritical       Category = "critical"
)

// MatchOrder is the fixed category priority for intent matching.
// First match across all groups of a category wins.
var MatchOrder = []Category{
	CategoryStatic,
	CategoryTransactional,
	CategoryCritical,
	CategoryConversational,
}

// Route is the downstream handling tier for a request.
type Route string

const (
	// RouteAntigravity is the free local static responder. No network call.
	RouteAntigravity Route = "ANTIGRAVITY"

	// RouteDeepseek is the cheap reasoning model.
	RouteDeepseek Route = "DEEPSEEK"

	// RouteGoogle is the alternate cheap model. Reachable only through a
	// category_routes override or a custom rule target, never from the
	// critical waterfall.
	RouteGoogle Route = "GOOGLE"

	// RouteWaterfall calls the cheap model first and escalates to the
	// expensive model when the confidence check on the cheap result fails.
	RouteWaterfall Route = "DEEPSEEK_THEN_GPT5"
)

// ValidRoute reports whether r is a known route label.
func ValidRoute(r Route) bool {
	switch r {
	case RouteAntigravity, RouteDeepseek, RouteGoogle, RouteWaterfall:
		return true
	}
	return false
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryStatic, CategoryTransactional, CategoryConversational, CategoryCritical:
		return true
	}
	return false
}

// document is the raw YAML shape of a ruleset file.
type document struct {
	Intents             map[string][]patternGroup `yaml:"intents"`
	ChannelRules        map[string]ChannelRule    `yaml:"channel_rules"`
	ProductRules        map[string]ProductRule    `yaml:"product_rules"`
	FreePatterns        []string                  `yaml:"free_patterns"`
	RiskKeywords        []string                  `yaml:"risk_keywords"`
	ConditionalMarkers  []string                  `yaml:"conditional_markers"`
	Thresholds          Thresholds                `yaml:"thresholds"`
	FinancialGuardrails Guardrails                `yaml:"financial_guardrails"`
	CategoryRoutes      map[string]string         `yaml:"category_routes"`
	CustomRules         []customRuleSpec          `yaml:"custom_rules"`
	StaticResponses     map[string]string         `yaml:"static_responses"`
}

type patternGroup struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

type customRuleSpec struct {
	Condition string `yaml:"condition"`
	Route     string `yaml:"route"`
	Category  string `yaml:"category"`
	Intent    string `yaml:"intent"`
}

// ChannelRule adjusts risk for a delivery channel.
type ChannelRule struct {
	RiskModifier int `yaml:"risk_modifier"`
}

// ProductRule adjusts risk for a product context.
type ProductRule struct {
	RiskModifier int `yaml:"risk_modifier"`
}

// Thresholds holds the escalation cutoffs.
type Thresholds struct {
	Risk RiskThresholds `yaml:"risk"`
}

// RiskThresholds holds the risk score cutoffs.
type RiskThresholds struct {
	// High is the score at or above which a request is escalated to the
	// waterfall route regardless of its category.
	High int `yaml:"high"`
}

// Guardrails holds the hard financial limits.
type Guardrails struct {
	// MaxCostPerRequestUSD is the ceiling on estimated per-request cost.
	// Routes whose estimated cost exceeds it are downgraded to the free tier.
	MaxCostPerRequestUSD float64 `yaml:"max_cost_per_request_usd"`

	// TimeoutsMS bounds provider calls per channel. Consumed by the
	// execution gateway, not by the decision engine.
	TimeoutsMS map[string]int `yaml:"timeouts_ms"`
}

// IntentGroup is a named group of patterns compiled into a single
// case-insensitive OR expression.
type IntentGroup struct {
	Name    string
	Pattern *regexp.Regexp
}

// CustomRule is a precompiled CEL override rule. Rules are evaluated in file
// order after the built-in overrides and before intent matching; the first
// true condition is terminal.
type CustomRule struct {
	Condition string
	Program   cel.Program
	Route     Route
	Category  Category
	Intent    string
}

// Model is the immutable, compiled routing configuration. Construct it with
// Load or Parse; never mutate it afterwards.
type Model struct {
	intents         map[Category][]IntentGroup
	channelRules    map[string]ChannelRule
	productRules    map[string]ProductRule
	freePatterns    []string
	freeSet         map[string]struct{}
	riskKeywords    *regexp.Regexp
	conditional     *regexp.Regexp
	thresholds      Thresholds
	guardrails      Guardrails
	categoryRoutes  map[Category]Route
	customRules     []CustomRule
	staticResponses map[string]string
}

// Load reads and compiles a ruleset file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ruleset: %w", err)
	}
	return Parse(data)
}

// Parse compiles a ruleset document. It fails if required sections are
// missing, a pattern does not compile, or a custom rule condition is not a
// boolean CEL expression.
func Parse(data []byte) (*Model, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse ruleset: %w", err)
	}

	if len(doc.Intents) == 0 {
		return nil, fmt.Errorf("ruleset: intents section is required")
	}
	if doc.ChannelRules == nil {
		return nil, fmt.Errorf("ruleset: channel_rules section is required")
	}
	if doc.ProductRules == nil {
		return nil, fmt.Errorf("ruleset: product_rules section is required")
	}
	if doc.Thresholds.Risk.High <= 0 || doc.Thresholds.Risk.High > 100 {
		return nil, fmt.Errorf("ruleset: thresholds.risk.high must be in (0, 100], got %d", doc.Thresholds.Risk.High)
	}
	if doc.FinancialGuardrails.MaxCostPerRequestUSD <= 0 {
		return nil, fmt.Errorf("ruleset: financial_guardrails.max_cost_per_request_usd must be positive")
	}

	m := &Model{
		intents:         make(map[Category][]IntentGroup, len(doc.Intents)),
		channelRules:    doc.ChannelRules,
		productRules:    doc.ProductRules,
		thresholds:      doc.Thresholds,
		guardrails:      doc.FinancialGuardrails,
		staticResponses: doc.StaticResponses,
	}

	for name, groups := range doc.Intents {
		category := Category(name)
		if !ValidCategory(category) {
			return nil, fmt.Errorf("ruleset: unknown intent category %q", name)
		}
		compiled := make([]IntentGroup, 0, len(groups))
		for _, g := range groups {
			if g.Name == "" {
				return nil, fmt.Errorf("ruleset: intent group in category %q has no name", name)
			}
			if len(g.Patterns) == 0 {
				return nil, fmt.Errorf("ruleset: intent group %q has no patterns", g.Name)
			}
			// Patterns within a group are OR-joined into one expression,
			// compiled once here.
			re, err := regexp.Compile("(?i)" + strings.Join(g.Patterns, "|"))
			if err != nil {
				return nil, fmt.Errorf("ruleset: intent group %q: %w", g.Name, err)
			}
			compiled = append(compiled, IntentGroup{Name: g.Name, Pattern: re})
		}
		m.intents[category] = compiled
	}

	// Free phrases are stored normalized; the engine compares against
	// normalized request text.
	m.freePatterns = make([]string, 0, len(doc.FreePatterns))
	m.freeSet = make(map[string]struct{}, len(doc.FreePatterns))
	for _, p := range doc.FreePatterns {
		normalized := strings.ToLower(strings.TrimSpace(p))
		m.freePatterns = append(m.freePatterns, normalized)
		m.freeSet[normalized] = struct{}{}
	}

	var err error
	if m.riskKeywords, err = compileWordList(doc.RiskKeywords); err != nil {
		return nil, fmt.Errorf("ruleset: risk_keywords: %w", err)
	}
	markers := doc.ConditionalMarkers
	if len(markers) == 0 {
		markers = []string{"si", "depende", "cuando"}
	}
	if m.conditional, err = compileWordList(markers); err != nil {
		return nil, fmt.Errorf("ruleset: conditional_markers: %w", err)
	}

	m.categoryRoutes = make(map[Category]Route, len(doc.CategoryRoutes))
	for c, r := range doc.CategoryRoutes {
		category, route := Category(c), Route(r)
		if !ValidCategory(category) {
			return nil, fmt.Errorf("ruleset: category_routes: unknown category %q", c)
		}
		if !ValidRoute(route) {
			return nil, fmt.Errorf("ruleset: category_routes: unknown route %q", r)
		}
		m.categoryRoutes[category] = route
	}

	if err := m.compileCustomRules(doc.CustomRules); err != nil {
		return nil, err
	}

	return m, nil
}

// compileCustomRules compiles and type-checks the custom CEL rules.
func (m *Model) compileCustomRules(specs []customRuleSpec) error {
	if len(specs) == 0 {
		return nil
	}

	evaluator := celeval.NewEvaluator()
	m.customRules = make([]CustomRule, 0, len(specs))
	for i, spec := range specs {
		if spec.Condition == "" {
			return fmt.Errorf("ruleset: custom rule %d: condition is required", i)
		}
		route := Route(spec.Route)
		if !ValidRoute(route) {
			return fmt.Errorf("ruleset: custom rule %d: unknown route %q", i, spec.Route)
		}
		category := Category(spec.Category)
		if spec.Category == "" {
			category = CategoryStatic
		} else if !ValidCategory(category) {
			return fmt.Errorf("ruleset: custom rule %d: unknown category %q", i, spec.Category)
		}
		intent := spec.Intent
		if intent == "" {
			intent = "custom_rule"
		}

		program, err := evaluator.Compile(spec.Condition)
		if err != nil {
			return fmt.Errorf("ruleset: custom rule %d: %w", i, err)
		}

		m.customRules = append(m.customRules, CustomRule{
			Condition: spec.Condition,
			Program:   program,
			Route:     route,
			Category:  category,
			Intent:    intent,
		})
	}
	return nil
}

// compileWordList builds a case-insensitive word-boundary OR expression.
func compileWordList(words []string) (*regexp.Regexp, error) {
	if len(words) == 0 {
		return nil, nil
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(w)))
	}
	return regexp.Compile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

// IntentGroups returns the compiled pattern groups for a category in file
// order.
func (m *Model) IntentGroups(c Category) []IntentGroup {
	return m.intents[c]
}

// ChannelRiskModifier returns the risk modifier for a channel, 0 if unknown.
func (m *Model) ChannelRiskModifier(channel string) int {
	return m.channelRules[channel].RiskModifier
}

// ProductRiskModifier returns the risk modifier for a product, 0 if unknown.
func (m *Model) ProductRiskModifier(product string) int {
	return m.productRules[product].RiskModifier
}

// IsFreePattern reports whether the normalized text equals a free phrase.
func (m *Model) IsFreePattern(normalized string) bool {
	_, ok := m.freeSet[normalized]
	return ok
}

// FreePatterns returns the configured free phrases.
func (m *Model) FreePatterns() []string {
	return m.freePatterns
}

// MatchesRiskKeyword reports whether text contains a high-stakes keyword.
func (m *Model) MatchesRiskKeyword(text string) bool {
	return m.riskKeywords != nil && m.riskKeywords.MatchString(text)
}

// HasConditionalMarker reports whether text contains a conditional marker
// word, used for the conversational complexity bonus.
func (m *Model) HasConditionalMarker(text string) bool {
	return m.conditional != nil && m.conditional.MatchString(text)
}

// HighRiskThreshold returns the escalation cutoff.
func (m *Model) HighRiskThreshold() int {
	return m.thresholds.Risk.High
}

// MaxCostPerRequestUSD returns the financial guardrail ceiling.
func (m *Model) MaxCostPerRequestUSD() float64 {
	return m.guardrails.MaxCostPerRequestUSD
}

// ChannelTimeoutMS returns the provider timeout for a channel, falling back
// to 5000ms when the channel has no entry.
func (m *Model) ChannelTimeoutMS(channel string) int {
	if t, ok := m.guardrails.TimeoutsMS[channel]; ok {
		return t
	}
	return 5000
}

// CategoryRoute returns the configured route override for a category.
func (m *Model) CategoryRoute(c Category) (Route, bool) {
	r, ok := m.categoryRoutes[c]
	return r, ok
}

// CustomRules returns the precompiled CEL override rules in file order.
func (m *Model) CustomRules() []CustomRule {
	return m.customRules
}

// StaticResponse returns the reply template configured for an intent.
func (m *Model) StaticResponse(intent string) (string, bool) {
	t, ok := m.staticResponses[intent]
	return t, ok
}

// StaticResponses returns all configured reply templates.
func (m *Model) StaticResponses() map[string]string {
	return m.staticResponses
}
