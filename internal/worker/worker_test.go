package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRouteRequest(t *testing.T) {
	req, err := parseRouteRequest(map[string]interface{}{
		"data": `{"request_id":"r-1","request":{"text":"hola","channel":"whatsapp"},"execute":true}`,
	})
	require.NoError(t, err)

	assert.Equal(t, "r-1", req.RequestID)
	assert.Equal(t, "hola", req.Request.Text)
	assert.Equal(t, "whatsapp", req.Request.Channel)
	assert.True(t, req.Execute)
}

func TestParseRouteRequestMintsID(t *testing.T) {
	req, err := parseRouteRequest(map[string]interface{}{
		"data": `{"request":{"text":"hola"}}`,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, req.RequestID)
}

func TestParseRouteRequestErrors(t *testing.T) {
	_, err := parseRouteRequest(map[string]interface{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data")

	_, err = parseRouteRequest(map[string]interface{}{"data": 42})
	require.Error(t, err)

	_, err = parseRouteRequest(map[string]interface{}{"data": "{not json"})
	require.Error(t, err)
}
