// Package engine implements the deterministic routing decision core.
//
// The engine is a pure function from (request, ruleset) to a decision: it
// performs no I/O, holds no per-request state and never blocks. A single
// immutable ruleset.Model is injected at construction, so Decide is safe to
// call concurrently without locking.
//
// The decision pipeline is fixed:
//   - Override rules: silence filter, slot filling, free-pattern fast path.
//     Each may short-circuit with a terminal decision.
//   - Custom CEL rules from the ruleset, evaluated in file order.
//   - Intent matching: static -> transactional -> critical -> conversational,
//     first match wins.
//   - Risk scoring: additive channel/product/category/tier terms plus the
//     high-stakes keyword floor, clamped to [0, 100].
//   - Routing policy: category base route, high-risk escalation to the
//     waterfall route, then the financial guardrail as the final word.
//
// Example usage:
//
//	model, _ := ruleset.Load("ruleset.yaml")
//	eng := engine.New(model, logger)
//
//	decision := eng.Decide(engine.Request{
//	    Text:    "hola, quiero saber el precio",
//	    Channel: "whatsapp",
//	    Product: "alex",
//	})
//	// decision.Route == ruleset.RouteAntigravity
package engine
