package engine

import (
	"github.com/antigravity-labs/antigravity-router/internal/ruleset"
)

// Intent names produced by the engine itself, outside pattern matching.
const (
	IntentSilence      = "silence_or_noise"
	IntentSlotFilling  = "slot_filling"
	IntentQuickConfirm = "quick_confirmation"
	IntentExplanation  = "explanation_request"
	IntentUnknown      = "unknown"
)

// Metadata carries the optional request context fields.
type Metadata struct {
	// MissingSlots lists slot names still required to complete a
	// transaction, in collection order.
	MissingSlots []string `json:"missing_slots,omitempty"`

	// UserTier is one of "free", "pro", "enterprise".
	UserTier string `json:"user_tier,omitempty"`

	// IsInterview marks an active interview context.
	IsInterview bool `json:"is_interview,omitempty"`
}

// Request is one utterance to route. It is immutable for the duration of a
// Decide call.
type Request struct {
	Text     string   `json:"text"`
	Channel  string   `json:"channel,omitempty"`
	Product  string   `json:"product,omitempty"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// withDefaults fills the documented defaults for absent optional fields.
func (r Request) withDefaults() Request {
	if r.Channel == "" {
		r.Channel = "web"
	}
	if r.Product == "" {
		r.Product = "generic"
	}
	if r.Metadata.UserTier == "" {
		r.Metadata.UserTier = "free"
	}
	return r
}

// Decision is the routing outcome handed to the execution gateway.
type Decision struct {
	Intent           string           `json:"intent"`
	Category         ruleset.Category `json:"category"`
	ComplexityScore  int              `json:"complexity_score"`
	RiskScore        int              `json:"risk_score"`
	Route            ruleset.Route    `json:"route_selected"`
	EstimatedCost    float64          `json:"estimated_cost"`
	FallbackUsed     bool             `json:"fallback_used"`
	Note             string           `json:"note"`
	ProcessingTimeMS float64          `json:"processing_time_ms"`
}
