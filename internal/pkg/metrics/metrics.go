// Package metrics 定义 Prometheus 指标。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal 按方法/路径/状态统计请求数。
	HTTPRequestsTotal *prometheus.CounterVec

	// AuthFailureTotal 认证或角色校验失败次数。
	AuthFailureTotal prometheus.Counter

	// ScopedWriteNoopTotal 作用域更新/删除命中 0 行的次数。
	// 非管理员操作他人行时会走到这里（见 store 包）。
	ScopedWriteNoopTotal prometheus.Counter

	// LoginThrottledTotal 被限流拒绝的登录尝试次数。
	LoginThrottledTotal prometheus.Counter

	initOnce sync.Once
)

// InitMetrics 注册全部指标，可重复调用。
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cutshort_http_requests_total",
			Help: "Total HTTP requests processed, by method, path and status.",
		}, []string{"method", "path", "status"})

		AuthFailureTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cutshort_auth_failure_total",
			Help: "Total authentication/authorization failures.",
		})

		ScopedWriteNoopTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cutshort_scoped_write_noop_total",
			Help: "Scoped updates/deletes that matched zero rows.",
		})

		LoginThrottledTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cutshort_login_throttled_total",
			Help: "Login attempts rejected by the rate limiter.",
		})

		prometheus.MustRegister(
			HTTPRequestsTotal,
			AuthFailureTotal,
			ScopedWriteNoopTotal,
			LoginThrottledTotal,
		)
	})
}
