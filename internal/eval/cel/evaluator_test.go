package cel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAndEvaluate(t *testing.T) {
	evaluator := NewEvaluator()

	program, err := evaluator.Compile(`channel == "voice" && text.contains("denuncia")`)
	require.NoError(t, err)

	vars := map[string]interface{}{
		"text":     "quiero hacer una denuncia",
		"channel":  "voice",
		"product":  "generic",
		"risk":     0,
		"metadata": map[string]interface{}{},
	}

	matched, err := EvaluateBool(program, vars)
	require.NoError(t, err)
	assert.True(t, matched)

	vars["channel"] = "web"
	matched, err = EvaluateBool(program, vars)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestCompileMetadataAccess(t *testing.T) {
	evaluator := NewEvaluator()

	program, err := evaluator.Compile(`product == "ats" && metadata.is_interview == true`)
	require.NoError(t, err)

	matched, err := EvaluateBool(program, map[string]interface{}{
		"text":    "",
		"channel": "web",
		"product": "ats",
		"risk":    0,
		"metadata": map[string]interface{}{
			"is_interview": true,
			"user_tier":    "pro",
		},
	})
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestCompileRejectsNonBoolean(t *testing.T) {
	evaluator := NewEvaluator()

	_, err := evaluator.Compile(`text`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boolean")
}

func TestCompileRejectsBadSyntax(t *testing.T) {
	evaluator := NewEvaluator()

	_, err := evaluator.Compile(`text ==`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse error")
}

func TestCompileCaches(t *testing.T) {
	evaluator := NewEvaluator()

	first, err := evaluator.Compile(`risk > 50`)
	require.NoError(t, err)
	second, err := evaluator.Compile(`risk > 50`)
	require.NoError(t, err)

	// Same cached program instance.
	assert.True(t, first == second)

	evaluator.ClearCache()
	third, err := evaluator.Compile(`risk > 50`)
	require.NoError(t, err)
	require.NotNil(t, third)
}

func TestEvaluateMissingVariable(t *testing.T) {
	evaluator := NewEvaluator()

	program, err := evaluator.Compile(`metadata.user_tier == "enterprise"`)
	require.NoError(t, err)

	// Missing metadata key: evaluation fails, the caller treats it as no
	// match.
	_, err = EvaluateBool(program, map[string]interface{}{
		"text":     "",
		"channel":  "web",
		"product":  "generic",
		"risk":     0,
		"metadata": map[string]interface{}{},
	})
	require.Error(t, err)
}
