// Package gateway executes routing decisions against the downstream tiers.
//
// The gateway treats the decision's route label as its dispatch key:
//   - ANTIGRAVITY: render a static reply locally, no network call.
//   - DEEPSEEK / GOOGLE: call the respective provider.
//   - DEEPSEEK_THEN_GPT5: call the cheap provider first and escalate to the
//     expensive provider only when the confidence check fails.
//
// Provider calls are bounded by the per-channel timeout from the ruleset's
// financial guardrails. The decision engine knows nothing about any of this;
// it only hands over the route label.
//
// Example usage:
//
//	gw := gateway.New(model, resp, gateway.Providers{
//	    Cheap:     deepseek,
//	    Alternate: google,
//	    Expensive: gpt5,
//	}, logger)
//
//	exec, err := gw.Execute(ctx, decision, req)
package gateway
