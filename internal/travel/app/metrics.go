package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 结算相关指标；nil 接收者安全，测试可不注册。
type Metrics struct {
	ticks        *prometheus.CounterVec
	claimed      *prometheus.CounterVec
	resolved     *prometheus.CounterVec
	failed       *prometheus.CounterVec
	launched     *prometheus.CounterVec
	parked       *prometheus.CounterVec
	tickDuration prometheus.Histogram
}

// NewMetrics reg 为 nil 时只创建不注册。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travel", Name: "ticks_total", Help: "到达结算 tick 次数",
		}, []string{"result"}),
		claimed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travel", Name: "claimed_total", Help: "被认领的到期条目数",
		}, []string{"kind"}),
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travel", Name: "resolved_total", Help: "结算完成的条目数",
		}, []string{"kind", "outcome"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travel", Name: "resolve_failed_total", Help: "结算失败（已释放认领）的条目数",
		}, []string{"kind"}),
		launched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travel", Name: "launched_total", Help: "出发的军队/商队数",
		}, []string{"kind"}),
		parked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travel", Name: "resolve_parked_total", Help: "结算失败后保留认领、等租约过期再重试的条目数",
		}, []string{"kind"}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "travel", Name: "tick_duration_seconds", Help: "单次 tick 耗时（认领加全部结算）",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ticks, m.claimed, m.resolved, m.failed, m.launched, m.parked, m.tickDuration)
	}
	return m
}

// observeTick 在 tick 返回时调用；认领失败或被取消记为 error。
func (m *Metrics) observeTick(start time.Time, tickErr error) {
	if m == nil {
		return
	}
	result := "ok"
	if tickErr != nil {
		result = "error"
	}
	m.ticks.WithLabelValues(result).Inc()
	m.tickDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) incClaimed(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.claimed.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) incResolved(kind, outcome string) {
	if m == nil {
		return
	}
	m.resolved.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) incFailed(kind string) {
	if m == nil {
		return
	}
	m.failed.WithLabelValues(kind).Inc()
}

func (m *Metrics) incLaunched(kind string) {
	if m == nil {
		return
	}
	m.launched.WithLabelValues(kind).Inc()
}

func (m *Metrics) incParked(kind string) {
	if m == nil {
		return
	}
	m.parked.WithLabelValues(kind).Inc()
}
