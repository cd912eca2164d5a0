// Package metrics 代付流程的 Prometheus 指标与 /metrics、/health 服务
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sui-sponsor/client-sdk-go/types"
)

const namespace = "sponsor_client"

// 尝试结果标签
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics 代付流程指标
//
// 所有方法在 nil 接收者上都是空操作，未启用指标时可以直接传 nil。
type Metrics struct {
	registry *prometheus.Registry

	AttemptsTotal   *prometheus.CounterVec
	FailuresTotal   *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec
	BatchesTotal    prometheus.Counter
	InFlightAttempt prometheus.Gauge
}

// New 在独立的 registry 上注册指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AttemptsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Sponsored transaction attempts by outcome.",
		}, []string{"outcome"}),
		FailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed attempts by stage and error code.",
		}, []string{"stage", "code"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1.0, 2.0, 5.0},
		}, []string{"stage"}),
		BatchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Completed load batches.",
		}),
		InFlightAttempt: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "attempts_in_flight",
			Help:      "Attempts currently running.",
		}),
	}
}

// Registry 指标所在的 registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveStage 记录单个阶段耗时，失败时按错误码计数
func (m *Metrics) ObserveStage(stage string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if err != nil {
		m.FailuresTotal.WithLabelValues(stage, ErrorCode(err)).Inc()
	}
}

// AttemptStarted 尝试开始
func (m *Metrics) AttemptStarted() {
	if m == nil {
		return
	}
	m.InFlightAttempt.Inc()
}

// AttemptFinished 尝试结束
func (m *Metrics) AttemptFinished(err error) {
	if m == nil {
		return
	}
	m.InFlightAttempt.Dec()
	if err != nil {
		m.AttemptsTotal.WithLabelValues(OutcomeFailure).Inc()
		return
	}
	m.AttemptsTotal.WithLabelValues(OutcomeSuccess).Inc()
}

// BatchFinished 一批完成
func (m *Metrics) BatchFinished() {
	if m == nil {
		return
	}
	m.BatchesTotal.Inc()
}

// ErrorCode 错误码标签，非 SDK 错误记为 UNKNOWN
func ErrorCode(err error) string {
	if sdkErr, ok := types.IsError(err); ok {
		return string(sdkErr.Code)
	}
	return "UNKNOWN"
}
