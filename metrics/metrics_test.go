package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sui-sponsor/client-sdk-go/types"
)

func TestMetrics_Observe(t *testing.T) {
	m := New()

	m.AttemptStarted()
	m.ObserveStage("gas", time.Now(), nil)
	m.ObserveStage("gas", time.Now(), types.NewGasRequestFailedError(503, "busy"))
	m.AttemptFinished(errors.New("boom"))

	m.AttemptStarted()
	m.AttemptFinished(nil)
	m.BatchFinished()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AttemptsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AttemptsTotal.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FailuresTotal.WithLabelValues("gas", "GAS_REQUEST_FAILED")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlightAttempt))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchesTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StageDuration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AttemptStarted()
		m.ObserveStage("sign", time.Now(), errors.New("x"))
		m.AttemptFinished(nil)
		m.BatchFinished()
	})
	assert.Nil(t, m.Registry())
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "PREMATURE_SIGN", ErrorCode(types.ErrPrematureSign))
	assert.Equal(t, "UNKNOWN", ErrorCode(errors.New("plain")))
}

func TestRouter(t *testing.T) {
	m := New()
	m.AttemptStarted()
	m.AttemptFinished(nil)

	srv := httptest.NewServer(NewRouter(m))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `sponsor_client_attempts_total{outcome="success"} 1`)
}
