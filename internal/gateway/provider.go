package gateway

import (
	"context"
	"fmt"
	"time"
)

// Completion is one model answer with its accounting data.
type Completion struct {
	Content string  `json:"content"`
	Model   string  `json:"model"`
	CostUSD float64 `json:"cost_usd"`
}

// Provider is one downstream model endpoint.
type Provider interface {
	Name() string
	Complete(ctx context.Context, text string) (*Completion, error)
}

// SimulatedProvider is an in-process provider used for development and
// tests. It echoes a framed answer after an optional artificial delay.
type SimulatedProvider struct {
	name    string
	model   string
	costUSD float64
	delay   time.Duration
}

// NewSimulatedProvider creates a simulated provider.
func NewSimulatedProvider(name, model string, costUSD float64, delay time.Duration) *SimulatedProvider {
	return &SimulatedProvider{
		name:    name,
		model:   model,
		costUSD: costUSD,
		delay:   delay,
	}
}

// Name returns the provider name.
func (p *SimulatedProvider) Name() string {
	return p.name
}

// Complete returns a simulated answer, honoring context cancellation during
// the artificial delay.
func (p *SimulatedProvider) Complete(ctx context.Context, text string) (*Completion, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	preview := text
	if len(preview) > 20 {
		preview = preview[:20]
	}

	return &Completion{
		Content: fmt.Sprintf("[%s] processed: %s", p.model, preview),
		Model:   p.model,
		CostUSD: p.costUSD,
	}, nil
}
