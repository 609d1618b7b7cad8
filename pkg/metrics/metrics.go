// Package metrics 提供基于Prometheus的指标收集框架
//
// # 核心概念
//
// **1. Counter（计数器）**：只增不减的累计值
//   - 示例：HTTP请求总数、下单总数、库存扣减总数
//   - 特点：只能调用Inc()递增
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值
//   - 示例：正在处理的请求数、熔断器状态
//   - 特点：可以调用Inc()、Dec()、Set()
//
// **3. Histogram（直方图）**：观测值的分布
//   - 示例：HTTP请求耗时、下单耗时
//   - 特点：自动计算分位数（P50、P90、P99）
//
// # 指标命名规范
//
// 1. **Counter**: 以`_total`结尾
//   - `checkout_total`（下单总数）
//   - `stock_decrements_total`（库存扣减总数）
//
// 2. **Histogram**: 以单位结尾（`_seconds`、`_bytes`）
//   - `checkout_duration_seconds`（下单耗时）
//
// 3. **Gauge**: 使用现在时态
//   - `http_requests_in_progress`（正在处理的请求数）
//
// # 最佳实践
//
//  1. **使用标签（Label）区分不同维度**：
//     ```go
//     metrics.IncCounterVec("order_status_transitions_total", map[string]string{
//     "from": "Pending",
//     "to":   "Shipped",
//     })
//     ```
//
// 2. **避免高基数标签（High Cardinality）**：
//   - ❌ 不要用username、order_no作为标签（无界）
//   - ✅ 用status、reason作为标签（有限个值）
//
// # 使用示例
//
//	// 1. 初始化Metrics
//	metrics.InitMetrics()
//
//	// 2. 在HTTP服务中暴露/metrics端点
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 3. 在业务代码中记录指标
//	func Checkout(ctx context.Context) error {
//	    start := time.Now()
//
//	    if err := doCheckout(ctx); err != nil {
//	        metrics.IncCounterVec(metrics.CheckoutFailedTotal, map[string]string{"reason": reasonOf(err)})
//	        return err
//	    }
//
//	    metrics.IncCounter(metrics.CheckoutTotal)
//	    metrics.ObserveHistogram(metrics.CheckoutDuration, time.Since(start).Seconds())
//	    return nil
//	}
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/api/v1/orders）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 下单业务指标

	// CheckoutTotal 下单成功总数（Counter）
	CheckoutTotal prometheus.Counter

	// CheckoutFailedTotal 下单失败总数（Counter）
	// 标签：reason（empty_cart/insufficient_stock/in_progress/internal）
	CheckoutFailedTotal *prometheus.CounterVec

	// CheckoutDuration 下单耗时（Histogram）
	CheckoutDuration prometheus.Histogram

	// 库存指标

	// StockDecrementsTotal 条件扣减库存总数（Counter）
	// 标签：result（success/conflict）
	// conflict表示条件更新未命中（库存不足或并发竞争失败）
	StockDecrementsTotal *prometheus.CounterVec

	// StockRollbacksTotal 库存回滚总数（Counter）
	// 下单中途失败时，已扣减的行会被逐行恢复
	StockRollbacksTotal prometheus.Counter

	// 订单状态机指标

	// OrderStatusTransitionsTotal 订单状态迁移总数（Counter）
	// 标签：from、to（状态名，如Pending/Shipped/Delivered/Cancelled）
	OrderStatusTransitionsTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：routing_key（order.created/order.status_changed）、result（success/failure/rejected）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry
//
// 设计要点：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. Counter使用*Vec支持标签（多维度统计）
// 3. Histogram的Buckets根据业务场景定制
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 下单业务指标
	CheckoutTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_total",
			Help: "下单成功总数",
		},
	)

	CheckoutFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_failed_total",
			Help: "下单失败总数",
		},
		[]string{"reason"},
	)

	CheckoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "checkout_duration_seconds",
			Help: "下单耗时（秒）",
			// 下单涉及多行条件扣减和事务提交，耗时比普通请求长
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	// 库存指标
	StockDecrementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_decrements_total",
			Help: "条件扣减库存总数",
		},
		[]string{"result"},
	)

	StockRollbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_rollbacks_total",
			Help: "库存回滚总数",
		},
	)

	// 订单状态机指标
	OrderStatusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_transitions_total",
			Help: "订单状态迁移总数",
		},
		[]string{"from", "to"},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"routing_key", "result"},
	)
}

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
