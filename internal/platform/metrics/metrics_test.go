package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordsAndExposes(t *testing.T) {
	c := Get()
	ticks := c.TickCount
	saves := c.SavesWritten
	errs := c.SaveErrors

	c.RecordTick(3 * time.Millisecond)
	c.RecordSave(true)
	c.RecordSave(false)
	c.RecordSale(12.5)
	c.RecordLLMCacheHit()

	assert.Equal(t, ticks+1, c.TickCount)
	assert.Equal(t, saves+1, c.SavesWritten)
	assert.Equal(t, errs+1, c.SaveErrors)

	rec := httptest.NewRecorder()
	Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "tick")
	assert.Contains(t, body, "saves")
	assert.Contains(t, body, "advisor")
}

func TestPrometheusHandler(t *testing.T) {
	Get().RecordTick(time.Millisecond)

	rec := httptest.NewRecorder()
	PrometheusHandler()(rec, httptest.NewRequest(http.MethodGet, "/metrics/prometheus", nil))

	assert.Contains(t, rec.Body.String(), "# TYPE mine_tick_count counter")
	assert.Contains(t, rec.Body.String(), `mine_saves_total{outcome="ok"}`)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}
