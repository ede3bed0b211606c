package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusRecorderForwardsFlush(t *testing.T) {
	rec := httptest.NewRecorder()

	var w http.ResponseWriter = &statusRecorder{ResponseWriter: rec, status: http.StatusOK}
	flusher, ok := w.(http.Flusher)
	require.True(t, ok, "wrapped writer must stay flushable")

	flusher.Flush()
	assert.True(t, rec.Flushed)
}

func TestStatusRecorderHijackWithoutSupport(t *testing.T) {
	sr := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}

	_, _, err := sr.Hijack()

	assert.ErrorIs(t, err, http.ErrNotSupported)
}

func TestMetricPathUsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	var got string
	r.HandleFunc("/api/transactions/{id}", func(w http.ResponseWriter, req *http.Request) {
		got = metricPath(req)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/transactions/42", nil))

	assert.Equal(t, "/api/transactions/{id}", got)
}

func TestMetricPathFallsBackToRawPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	assert.Equal(t, "/metrics", metricPath(req))
}
