package responder

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aymerick/raymond"

	"github.com/antigravity-labs/antigravity-router/internal/ruleset"
)

// defaultTemplate answers intents without a configured reply.
const defaultTemplate = "Entendido. ¿En qué más puedo ayudarte?"

var registerHelpersOnce sync.Once

// Data is the template context for one reply.
type Data struct {
	Intent   string
	Category string
	Channel  string
	Product  string
	Text     string
}

// Responder renders static replies for the free route. Immutable after New;
// safe for concurrent use.
type Responder struct {
	templates map[string]*raymond.Template
	fallback  *raymond.Template
}

// New compiles the ruleset's reply templates. Fails if any template does not
// parse, which is a startup-time configuration defect.
func New(rules *ruleset.Model) (*Responder, error) {
	registerHelpersOnce.Do(registerHelpers)

	templates := make(map[string]*raymond.Template)
	for intent, src := range rules.StaticResponses() {
		tmpl, err := raymond.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("static response %q: %w", intent, err)
		}
		templates[intent] = tmpl
	}

	fallback, err := raymond.Parse(defaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("default response template: %w", err)
	}

	return &Responder{
		templates: templates,
		fallback:  fallback,
	}, nil
}

// Render produces the reply for an intent. Intents without a configured
// template use the default reply.
func (r *Responder) Render(intent string, data Data) (string, error) {
	tmpl, ok := r.templates[intent]
	if !ok {
		tmpl = r.fallback
	}

	result, err := tmpl.Exec(map[string]interface{}{
		"intent":   data.Intent,
		"category": data.Category,
		"channel":  data.Channel,
		"product":  data.Product,
		"text":     data.Text,
	})
	if err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}

	return result, nil
}

// registerHelpers registers the Handlebars helpers available to reply
// templates. Helper registration is global in raymond, hence the sync.Once
// in New.
func registerHelpers() {
	raymond.RegisterHelper("uppercase", func(str string) string {
		return strings.ToUpper(str)
	})

	raymond.RegisterHelper("lowercase", func(str string) string {
		return strings.ToLower(str)
	})

	raymond.RegisterHelper("trim", func(str string) string {
		return strings.TrimSpace(str)
	})

	raymond.RegisterHelper("default", func(value interface{}, defaultValue interface{}) interface{} {
		if value == nil || value == "" {
			return defaultValue
		}
		return value
	})

	raymond.RegisterHelper("eq", func(a, b interface{}) bool {
		return a == b
	})
}
