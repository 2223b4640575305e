package engine

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/antigravity-labs/antigravity-router/internal/ruleset"
)

// silenceMaxRunes is the trimmed length below which a voice transcript is
// treated as channel noise rather than intent-bearing speech.
const silenceMaxRunes = 10

// freeMaxRunes bounds the prefix variant of the free-pattern fast path.
const freeMaxRunes = 20

var punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// silenceFilter drops very short voice transcripts to the free route. Short
// voice input is overwhelmingly transcription noise.
func (e *Engine) silenceFilter(req Request) (Decision, bool) {
	if req.Channel != "voice" {
		return Decision{}, false
	}
	trimmed := strings.TrimSpace(req.Text)
	if trimmed != "" && utf8.RuneCountInString(trimmed) >= silenceMaxRunes {
		return Decision{}, false
	}

	return Decision{
		Intent:        IntentSilence,
		Category:      ruleset.CategoryStatic,
		RiskScore:     0,
		Route:         ruleset.RouteAntigravity,
		EstimatedCost: costFloorUSD,
		Note:          "voice silence filter",
	}, true
}

// slotFilling routes slot collection to the free route. Collecting missing
// slots is deterministic dialogue management, never a model call.
func (e *Engine) slotFilling(req Request) (Decision, bool) {
	if len(req.Metadata.MissingSlots) == 0 {
		return Decision{}, false
	}

	return Decision{
		Intent:          IntentSlotFilling,
		Category:        ruleset.CategoryTransactional,
		ComplexityScore: 10,
		RiskScore:       0,
		Route:           ruleset.RouteAntigravity,
		EstimatedCost:   costFloorUSD,
		Note:            "slot filling",
	}, true
}

// freePatternFastPath catches greetings, closings, short confirmations and
// menu words before classification. Matches on the exact normalized text, or
// on a free-phrase prefix when the text is short.
func (e *Engine) freePatternFastPath(req Request) (Decision, bool) {
	normalized := normalizeText(req.Text)

	free := e.rules.IsFreePattern(normalized)
	if !free && utf8.RuneCountInString(normalized) < freeMaxRunes {
		for _, p := range e.rules.FreePatterns() {
			if strings.HasPrefix(normalized, p) {
				free = true
				break
			}
		}
	}
	if !free {
		return Decision{}, false
	}

	return Decision{
		Intent:        IntentQuickConfirm,
		Category:      ruleset.CategoryStatic,
		RiskScore:     0,
		Route:         ruleset.RouteAntigravity,
		EstimatedCost: 0,
		Note:          "free pattern fast path",
	}, true
}

// normalizeText lowercases, trims and strips punctuation for free-pattern
// comparison.
func normalizeText(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	return strings.TrimSpace(punctuation.ReplaceAllString(lowered, ""))
}
