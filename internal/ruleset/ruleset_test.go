package ruleset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
intents:
  static:
    - name: greeting
      patterns: ["^(hola|buenas)\\b"]
    - name: faq_pricing
      patterns: ["precio", "tarifas"]
  critical:
    - name: legal_or_health
      patterns: ["legal", "denuncia"]
  conversational:
    - name: explanation_request
      patterns: ["explicame"]
channel_rules:
  web: {risk_modifier: 0}
  voice: {risk_modifier: 20}
product_rules:
  generic: {risk_modifier: 0}
free_patterns: [hola, gracias, ok]
risk_keywords: [legal, denuncia]
thresholds:
  risk:
    high: 70
financial_guardrails:
  max_cost_per_request_usd: 0.05
  timeouts_ms:
    voice: 3000
category_routes:
  conversational: GOOGLE
custom_rules:
  - condition: 'metadata.is_interview == true'
    route: DEEPSEEK_THEN_GPT5
    category: critical
static_responses:
  greeting: "¡Hola!"
`

func TestParseValid(t *testing.T) {
	m, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	groups := m.IntentGroups(CategoryStatic)
	require.Len(t, groups, 2)
	assert.Equal(t, "greeting", groups[0].Name)
	assert.True(t, groups[0].Pattern.MatchString("Hola amigo"))
	assert.Equal(t, "faq_pricing", groups[1].Name)

	assert.Equal(t, 20, m.ChannelRiskModifier("voice"))
	assert.Equal(t, 0, m.ChannelRiskModifier("unknown"))
	assert.Equal(t, 0, m.ProductRiskModifier("missing"))

	assert.True(t, m.IsFreePattern("hola"))
	assert.False(t, m.IsFreePattern("quiero"))

	assert.Equal(t, 70, m.HighRiskThreshold())
	assert.Equal(t, 0.05, m.MaxCostPerRequestUSD())
	assert.Equal(t, 3000, m.ChannelTimeoutMS("voice"))
	assert.Equal(t, 5000, m.ChannelTimeoutMS("web"))

	route, ok := m.CategoryRoute(CategoryConversational)
	require.True(t, ok)
	assert.Equal(t, RouteGoogle, route)
	_, ok = m.CategoryRoute(CategoryStatic)
	assert.False(t, ok)

	require.Len(t, m.CustomRules(), 1)
	rule := m.CustomRules()[0]
	assert.Equal(t, RouteWaterfall, rule.Route)
	assert.Equal(t, CategoryCritical, rule.Category)
	assert.Equal(t, "custom_rule", rule.Intent)
	assert.NotNil(t, rule.Program)

	tmpl, ok := m.StaticResponse("greeting")
	require.True(t, ok)
	assert.Equal(t, "¡Hola!", tmpl)
}

func TestParseRiskKeywordBoundaries(t *testing.T) {
	m, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.True(t, m.MatchesRiskKeyword("tengo un problema LEGAL"))
	assert.True(t, m.MatchesRiskKeyword("hice una denuncia ayer"))
	// "denunciar" must not match "denuncia": keywords are whole words.
	assert.False(t, m.MatchesRiskKeyword("quiero denunciar esto"))
	assert.False(t, m.MatchesRiskKeyword("nada que ver"))
}

func TestParseConditionalMarkerDefaults(t *testing.T) {
	m, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	// No conditional_markers section: the defaults apply.
	assert.True(t, m.HasConditionalMarker("depende del plan"))
	assert.True(t, m.HasConditionalMarker("cuando vence"))
	// "si" must be a whole word, not a fragment of "siempre".
	assert.False(t, m.HasConditionalMarker("siempre igual"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "not yaml",
			yaml:    "{{{",
			wantErr: "failed to parse",
		},
		{
			name: "missing intents",
			yaml: `
channel_rules: {}
product_rules: {}
thresholds: {risk: {high: 70}}
financial_guardrails: {max_cost_per_request_usd: 0.05}
`,
			wantErr: "intents section is required",
		},
		{
			name: "missing channel rules",
			yaml: `
intents:
  static:
    - name: greeting
      patterns: ["hola"]
product_rules: {}
thresholds: {risk: {high: 70}}
financial_guardrails: {max_cost_per_request_usd: 0.05}
`,
			wantErr: "channel_rules section is required",
		},
		{
			name: "bad threshold",
			yaml: `
intents:
  static:
    - name: greeting
      patterns: ["hola"]
channel_rules: {}
product_rules: {}
thresholds: {risk: {high: 0}}
financial_guardrails: {max_cost_per_request_usd: 0.05}
`,
			wantErr: "thresholds.risk.high",
		},
		{
			name: "missing guardrail ceiling",
			yaml: `
intents:
  static:
    - name: greeting
      patterns: ["hola"]
channel_rules: {}
product_rules: {}
thresholds: {risk: {high: 70}}
`,
			wantErr: "max_cost_per_request_usd",
		},
		{
			name: "unknown category",
			yaml: `
intents:
  mystery:
    - name: greeting
      patterns: ["hola"]
channel_rules: {}
product_rules: {}
thresholds: {risk: {high: 70}}
financial_guardrails: {max_cost_per_request_usd: 0.05}
`,
			wantErr: `unknown intent category "mystery"`,
		},
		{
			name: "uncompilable pattern",
			yaml: `
intents:
  static:
    - name: broken
      patterns: ["(unclosed"]
channel_rules: {}
product_rules: {}
thresholds: {risk: {high: 70}}
financial_guardrails: {max_cost_per_request_usd: 0.05}
`,
			wantErr: `intent group "broken"`,
		},
		{
			name: "group without name",
			yaml: `
intents:
  static:
    - patterns: ["hola"]
channel_rules: {}
product_rules: {}
thresholds: {risk: {high: 70}}
financial_guardrails: {max_cost_per_request_usd: 0.05}
`,
			wantErr: "has no name",
		},
		{
			name: "unknown route in category_routes",
			yaml: `
intents:
  static:
    - name: greeting
      patterns: ["hola"]
channel_rules: {}
product_rules: {}
thresholds: {risk: {high: 70}}
financial_guardrails: {max_cost_per_request_usd: 0.05}
category_routes:
  static: TURBO
`,
			wantErr: `unknown route "TURBO"`,
		},
		{
			name: "custom rule without condition",
			yaml: `
intents:
  static:
    - name: greeting
      patterns: ["hola"]
channel_rules: {}
product_rules: {}
thresholds: {risk: {high: 70}}
financial_guardrails: {max_cost_per_request_usd: 0.05}
custom_rules:
  - route: DEEPSEEK
`,
			wantErr: "condition is required",
		},
		{
			name: "custom rule with non-boolean condition",
			yaml: `
intents:
  static:
    - name: greeting
      patterns: ["hola"]
channel_rules: {}
product_rules: {}
thresholds: {risk: {high: 70}}
financial_guardrails: {max_cost_per_request_usd: 0.05}
custom_rules:
  - condition: "text"
    route: DEEPSEEK
`,
			wantErr: "boolean",
		},
		{
			name: "custom rule with bad CEL",
			yaml: `
intents:
  static:
    - name: greeting
      patterns: ["hola"]
channel_rules: {}
product_rules: {}
thresholds: {risk: {high: 70}}
financial_guardrails: {max_cost_per_request_usd: 0.05}
custom_rules:
  - condition: "text =="
    route: DEEPSEEK
`,
			wantErr: "custom rule 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read ruleset")
}

func TestValidRouteAndCategory(t *testing.T) {
	assert.True(t, ValidRoute(RouteAntigravity))
	assert.True(t, ValidRoute(RouteWaterfall))
	assert.False(t, ValidRoute(Route("TURBO")))

	assert.True(t, ValidCategory(CategoryCritical))
	assert.False(t, ValidCategory(Category("mystery")))
}
