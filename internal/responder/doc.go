// Package responder renders the local zero-cost replies for traffic routed
// to the free tier.
//
// Reply templates use Handlebars syntax and come from the ruleset's
// static_responses section, keyed by intent. Templates are compiled once at
// construction; rendering is the only per-request work. Intents without a
// configured template fall back to a neutral default reply.
//
// Example usage:
//
//	model, _ := ruleset.Load("ruleset.yaml")
//	resp, err := responder.New(model)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reply, err := resp.Render("greeting", responder.Data{
//	    Intent:  "greeting",
//	    Channel: "whatsapp",
//	    Text:    "hola",
//	})
//
// Built-in helpers:
//   - uppercase - Convert string to uppercase
//   - lowercase - Convert string to lowercase
//   - trim - Trim whitespace from string
//   - default - Return default value if first arg is empty
//   - eq - Equality comparison
package responder
