package engine

import (
	"strings"

	"github.com/antigravity-labs/antigravity-router/internal/ruleset"
)

// fallbackWordCount is the utterance length above which an unmatched text is
// assumed to be an explanation request rather than noise.
const fallbackWordCount = 7

// baseComplexity is the informational complexity score per category, used
// when a pattern group matches.
var baseComplexity = map[ruleset.Category]int{
	ruleset.CategoryStatic:        0,
	ruleset.CategoryTransactional: 10,
	ruleset.CategoryCritical:      80,
}

// matchIntent classifies text against the ruleset's pattern groups in the
// fixed category priority order; the first matching group wins. Group order
// within a category follows the ruleset file, and overlapping patterns
// inside one category are a ruleset authoring defect.
func (e *Engine) matchIntent(text string, missingSlots []string) (string, ruleset.Category, int) {
	text = strings.TrimSpace(text)

	// Slot collection is transactional regardless of text. Normally caught
	// by the override rules before this point.
	if len(missingSlots) > 0 {
		return IntentSlotFilling, ruleset.CategoryTransactional, 10
	}

	for _, category := range ruleset.MatchOrder {
		for _, group := range e.rules.IntentGroups(category) {
			if !group.Pattern.MatchString(text) {
				continue
			}
			if category == ruleset.CategoryConversational {
				return group.Name, category, e.conversationalComplexity(text)
			}
			return group.Name, category, baseComplexity[category]
		}
	}

	// No pattern matched: long utterances are explanation requests, short
	// ones are unknown low-cost traffic.
	if len(strings.Fields(text)) > fallbackWordCount {
		return IntentExplanation, ruleset.CategoryConversational, 40
	}
	return IntentUnknown, ruleset.CategoryStatic, 0
}

// conversationalComplexity grants the conditional bonus when the text
// carries a conditional marker word.
func (e *Engine) conversationalComplexity(text string) int {
	if e.rules.HasConditionalMarker(text) {
		return 40
	}
	return 25
}
