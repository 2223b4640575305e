package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/antigravity-labs/antigravity-router/internal/engine"
	"github.com/antigravity-labs/antigravity-router/internal/responder"
	"github.com/antigravity-labs/antigravity-router/internal/ruleset"
)

// confidenceMinLength is the default content length floor below which a
// cheap-model answer is not trusted and the waterfall escalates.
const confidenceMinLength = 20

// ConfidenceCheck decides whether a cheap-model answer is good enough to
// stop the waterfall.
type ConfidenceCheck func(*Completion) bool

// DefaultConfidence accepts any non-trivial answer.
func DefaultConfidence(c *Completion) bool {
	return c != nil && len(strings.TrimSpace(c.Content)) >= confidenceMinLength
}

// Providers groups the downstream endpoints by role.
type Providers struct {
	// Cheap serves DEEPSEEK and the first leg of the waterfall.
	Cheap Provider

	// Alternate serves GOOGLE.
	Alternate Provider

	// Expensive serves the escalation leg of the waterfall.
	Expensive Provider
}

// Execution is the outcome of executing one decision.
type Execution struct {
	ExecutionID       string           `json:"execution_id"`
	Decision          engine.Decision  `json:"route_decision"`
	Result            *Completion      `json:"execution_result"`
	Source            string           `json:"source"`
	Note              string           `json:"note,omitempty"`
	ProviderLatencyMS float64          `json:"provider_latency_ms"`
}

// Gateway executes routing decisions. The decision engine stays pure; all
// network-facing work lives here.
type Gateway struct {
	rules     *ruleset.Model
	responder *responder.Responder
	providers Providers
	confident ConfidenceCheck
	logger    *zap.Logger
}

// New creates a gateway. A nil confidence check uses DefaultConfidence.
func New(rules *ruleset.Model, resp *responder.Responder, providers Providers, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		rules:     rules,
		responder: resp,
		providers: providers,
		confident: DefaultConfidence,
		logger:    logger,
	}
}

// WithConfidenceCheck replaces the waterfall confidence check.
func (g *Gateway) WithConfidenceCheck(check ConfidenceCheck) *Gateway {
	if check != nil {
		g.confident = check
	}
	return g
}

// Execute dispatches a decision to its tier. Provider calls are bounded by
// the channel's configured timeout.
func (g *Gateway) Execute(ctx context.Context, decision engine.Decision, req engine.Request) (*Execution, error) {
	exec := &Execution{
		ExecutionID: uuid.NewString(),
		Decision:    decision,
	}

	timeout := time.Duration(g.rules.ChannelTimeoutMS(req.Channel)) * time.Millisecond
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	var err error

	switch decision.Route {
	case ruleset.RouteAntigravity:
		err = g.executeStatic(exec, decision, req)
	case ruleset.RouteDeepseek:
		err = g.executeProvider(ctx, exec, g.providers.Cheap, req.Text)
	case ruleset.RouteGoogle:
		err = g.executeProvider(ctx, exec, g.providers.Alternate, req.Text)
	case ruleset.RouteWaterfall:
		err = g.executeWaterfall(ctx, exec, req.Text)
	default:
		err = fmt.Errorf("unknown route: %s", decision.Route)
	}

	exec.ProviderLatencyMS = float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		g.logger.Error("execution failed",
			zap.String("execution_id", exec.ExecutionID),
			zap.String("route", string(decision.Route)),
			zap.Error(err),
		)
		return nil, err
	}

	g.logger.Info("execution complete",
		zap.String("execution_id", exec.ExecutionID),
		zap.String("route", string(decision.Route)),
		zap.String("source", exec.Source),
		zap.Float64("provider_latency_ms", exec.ProviderLatencyMS),
	)

	return exec, nil
}

// executeStatic answers locally from the responder. No network, no cost.
func (g *Gateway) executeStatic(exec *Execution, decision engine.Decision, req engine.Request) error {
	content, err := g.responder.Render(decision.Intent, responder.Data{
		Intent:   decision.Intent,
		Category: string(decision.Category),
		Channel:  req.Channel,
		Product:  req.Product,
		Text:     req.Text,
	})
	if err != nil {
		return fmt.Errorf("static response failed: %w", err)
	}

	exec.Result = &Completion{Content: content, Model: "static"}
	exec.Source = "static_rules"
	exec.Note = "traffic handled locally, no model cost"
	return nil
}

// executeProvider calls a single provider.
func (g *Gateway) executeProvider(ctx context.Context, exec *Execution, p Provider, text string) error {
	if p == nil {
		return fmt.Errorf("provider not configured for route %s", exec.Decision.Route)
	}

	result, err := p.Complete(ctx, text)
	if err != nil {
		return fmt.Errorf("provider %s failed: %w", p.Name(), err)
	}

	exec.Result = result
	exec.Source = p.Name()
	return nil
}

// executeWaterfall calls the cheap provider and escalates to the expensive
// one when the confidence check rejects the answer.
func (g *Gateway) executeWaterfall(ctx context.Context, exec *Execution, text string) error {
	if g.providers.Cheap == nil {
		return fmt.Errorf("cheap provider not configured for waterfall")
	}

	cheap, err := g.providers.Cheap.Complete(ctx, text)
	if err == nil && g.confident(cheap) {
		exec.Result = cheap
		exec.Source = g.providers.Cheap.Name()
		exec.Note = "waterfall: cheap model sufficient"
		return nil
	}

	if err != nil {
		g.logger.Warn("cheap provider failed, escalating",
			zap.String("execution_id", exec.ExecutionID),
			zap.Error(err),
		)
	}

	if g.providers.Expensive == nil {
		return fmt.Errorf("expensive provider not configured for waterfall")
	}

	expensive, err := g.providers.Expensive.Complete(ctx, text)
	if err != nil {
		return fmt.Errorf("waterfall escalation failed: %w", err)
	}

	exec.Result = expensive
	exec.Source = g.providers.Expensive.Name()
	exec.Note = "waterfall: escalated to expensive model"
	return nil
}
