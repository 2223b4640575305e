// Package ruleset provides the typed, validated routing configuration model.
//
// A ruleset is loaded once at startup from a YAML document and is immutable
// afterwards, so it is safe to share across any number of concurrent readers.
// All intent patterns, risk keyword expressions and custom CEL rule
// conditions are compiled at load time; a request never pays compilation
// cost.
//
// Example usage:
//
//	model, err := ruleset.Load("ruleset.yaml")
//	if err != nil {
//	    log.Fatal(err) // broken ruleset: the process must not serve
//	}
//
//	groups := model.IntentGroups(ruleset.CategoryStatic)
//	for _, g := range groups {
//	    if g.Pattern.MatchString(text) { ... }
//	}
//
// The document layout mirrors the sections consumed by the decision engine:
//
//	intents:
//	  static:
//	    - name: greeting
//	      patterns: ["^(hola|buenas)", "^buenos dias"]
//	channel_rules:
//	  voice: {risk_modifier: 20}
//	product_rules:
//	  ats: {risk_modifier: 10}
//	free_patterns: [hola, gracias, ok]
//	risk_keywords: [legal, laboral, medico, denuncia]
//	thresholds:
//	  risk: {high: 70}
//	financial_guardrails:
//	  max_cost_per_request_usd: 0.05
//	  timeouts_ms: {web: 5000, voice: 3000}
package ruleset
