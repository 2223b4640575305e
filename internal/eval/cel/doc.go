// Package cel provides a CEL (Common Expression Language) evaluator for
// custom routing override rules.
//
// CEL is a non-Turing complete expression language that provides fast, safe
// evaluation of conditions. Custom rule conditions are compiled and
// type-checked once at ruleset load; per-request work is evaluation only.
//
// Example usage:
//
//	evaluator := cel.NewEvaluator()
//	program, err := evaluator.Compile(`product == "ats" && metadata.is_interview == true`)
//	if err != nil {
//	    log.Fatal(err) // startup-time ruleset defect
//	}
//
//	matched, err := cel.EvaluateBool(program, map[string]interface{}{
//	    "text":     "el candidato dudó en liderazgo",
//	    "channel":  "web",
//	    "product":  "ats",
//	    "risk":     0,
//	    "metadata": map[string]interface{}{"is_interview": true},
//	})
//
// Declared variables:
//   - text (string) - the raw utterance
//   - channel (string) - delivery channel
//   - product (string) - product identifier
//   - risk (int) - always 0 at override stage
//   - metadata (map) - missing_slots, user_tier, is_interview
//
// Supported operations:
//   - Comparisons: ==, !=, <, <=, >, >=
//   - Boolean logic: &&, ||, !
//   - String operations: contains, startsWith, endsWith, matches
//   - List operations: in, size
//   - Map access: metadata.field, metadata["field"]
package cel
