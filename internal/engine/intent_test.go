package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antigravity-labs/antigravity-router/internal/ruleset"
)

func TestMatchIntent(t *testing.T) {
	eng := newTestEngine(t)

	tests := []struct {
		name       string
		text       string
		intent     string
		category   ruleset.Category
		complexity int
	}{
		{
			name:       "static greeting",
			text:       "buenos dias, quiero informacion",
			intent:     "greeting",
			category:   ruleset.CategoryStatic,
			complexity: 0,
		},
		{
			name:       "static pricing",
			text:       "cual es el precio del plan pro",
			intent:     "faq_pricing",
			category:   ruleset.CategoryStatic,
			complexity: 0,
		},
		{
			name:       "transactional scheduling",
			text:       "necesito agendar una visita",
			intent:     "scheduling",
			category:   ruleset.CategoryTransactional,
			complexity: 10,
		},
		{
			name:       "critical legal",
			text:       "esto es un tema legal",
			intent:     "legal_or_health",
			category:   ruleset.CategoryCritical,
			complexity: 80,
		},
		{
			name:       "conversational without conditional",
			text:       "explicame la ventaja del plan",
			intent:     "explanation_request",
			category:   ruleset.CategoryConversational,
			complexity: 25,
		},
		{
			name:       "conversational with conditional marker",
			text:       "explicame que pasa cuando vence el plan",
			intent:     "explanation_request",
			category:   ruleset.CategoryConversational,
			complexity: 40,
		},
		{
			name:       "long unmatched text falls back to explanation",
			text:       "el candidato titubeó en la respuesta sobre sql",
			intent:     IntentExplanation,
			category:   ruleset.CategoryConversational,
			complexity: 40,
		},
		{
			name:       "short unmatched text is unknown",
			text:       "xyzzy",
			intent:     IntentUnknown,
			category:   ruleset.CategoryStatic,
			complexity: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, category, complexity := eng.matchIntent(tt.text, nil)
			assert.Equal(t, tt.intent, intent)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.complexity, complexity)
		})
	}
}

func TestMatchIntentCategoryPriority(t *testing.T) {
	eng := newTestEngine(t)

	// "precio" (static) and "legal" (critical) both match; static is checked
	// first and wins.
	intent, category, _ := eng.matchIntent("precio del servicio legal", nil)
	assert.Equal(t, "faq_pricing", intent)
	assert.Equal(t, ruleset.CategoryStatic, category)
}

func TestMatchIntentMissingSlots(t *testing.T) {
	eng := newTestEngine(t)

	intent, category, complexity := eng.matchIntent("cualquier cosa", []string{"date"})
	assert.Equal(t, IntentSlotFilling, intent)
	assert.Equal(t, ruleset.CategoryTransactional, category)
	assert.Equal(t, 10, complexity)
}
