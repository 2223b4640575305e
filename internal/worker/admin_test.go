package worker

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/antigravity-labs/antigravity-router/internal/engine"
	"github.com/antigravity-labs/antigravity-router/internal/ruleset"
)

func newTestAdminServer(t *testing.T) *AdminServer {
	t.Helper()
	model, err := ruleset.Parse([]byte(`
intents:
  static:
    - name: greeting
      patterns: ["^hola\\b"]
  conversational:
    - name: explanation_request
      patterns: ["explicame"]
channel_rules:
  web: {risk_modifier: 0}
product_rules:
  generic: {risk_modifier: 0}
free_patterns: [hola, gracias]
thresholds: {risk: {high: 70}}
financial_guardrails: {max_cost_per_request_usd: 0.05}
`))
	require.NoError(t, err)

	eng := engine.New(model, nil)
	return NewAdminServer(0, nil, eng, nil, zap.NewNop())
}

func TestHandleRoute(t *testing.T) {
	as := newTestAdminServer(t)

	body := `{"text":"hola","channel":"whatsapp","product":"alex"}`
	req := httptest.NewRequest(http.MethodPost, "/route", strings.NewReader(body))
	rec := httptest.NewRecorder()

	as.handleRoute(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result RouteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.RequestID)
	assert.Equal(t, ruleset.RouteAntigravity, result.Decision.Route)
	assert.Equal(t, ruleset.CategoryStatic, result.Decision.Category)
	assert.Nil(t, result.Execution)
}

func TestHandleRouteInvalidBody(t *testing.T) {
	as := newTestAdminServer(t)

	req := httptest.NewRequest(http.MethodPost, "/route", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	as.handleRoute(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRouteMethodNotAllowed(t *testing.T) {
	as := newTestAdminServer(t)

	req := httptest.NewRequest(http.MethodGet, "/route", nil)
	rec := httptest.NewRecorder()

	as.handleRoute(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
