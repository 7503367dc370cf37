package prometheus

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppMetrics_Recorders(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.RecordHTTPRequest("POST", "/map/analyze", 200, 20*time.Millisecond)
	m.RecordAnalysis("http", "Solar Electrolysis", "Gujarat", 82, time.Millisecond)
	m.RecordLLMCall("deepseek/deepseek-r1-0528:free", "report", nil, 3*time.Second)
	m.RecordLLMCall("deepseek/deepseek-r1-0528:free", "report", stderrors.New("x"), time.Second)
	m.RecordSearchCall(nil, 100*time.Millisecond)
	m.RecordDBQuery("postgres", "select", time.Millisecond, stderrors.New("x"))
	m.RecordCacheAccess("community_stats", true)
	m.RecordCacheAccess("community_stats", false)
	m.RecordEvent("feasibility.analyzed", nil)
	m.RecordGRPCRequest("h2siting.feasibility.v1.FeasibilityService", "Analyze", "OK", 5*time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_http_requests_total{method="POST",path="/map/analyze",status_code="200"} 1`)
	assert.Contains(t, out, `test_unit_feasibility_analyses_total{recommendation="Solar Electrolysis"} 1`)
	assert.Contains(t, out, `test_unit_feasibility_score_bucket{state="Gujarat",le="90"} 1`)
	assert.Contains(t, out, `status="failure"} 1`)
	assert.Contains(t, out, `test_unit_web_search_requests_total{status="success"} 1`)
	assert.Contains(t, out, `test_unit_errors_total{component="postgres",error_type="query_error"} 1`)
	assert.Contains(t, out, `test_unit_cache_hits_total{cache="community_stats"} 1`)
	assert.Contains(t, out, `test_unit_cache_misses_total{cache="community_stats"} 1`)
	assert.Contains(t, out, `test_unit_grpc_requests_total{code="OK",method="Analyze",service="h2siting.feasibility.v1.FeasibilityService"} 1`)
	assert.Contains(t, out, `test_unit_events_published_total{event_type="feasibility.analyzed",status="success"} 1`)
}

//Personal.AI order the ending
