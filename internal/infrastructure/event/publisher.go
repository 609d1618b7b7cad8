// Package event 提供订单领域事件的发布实现
package event

import (
	"context"
	"log"

	"github.com/is216/bookweb/internal/domain/order"
	"github.com/is216/bookweb/pkg/circuitbreaker"
	"github.com/is216/bookweb/pkg/metrics"
	"github.com/is216/bookweb/pkg/mq"
)

// 事件路由键
const (
	RoutingKeyOrderCreated       = "order.created"
	RoutingKeyOrderStatusChanged = "order.status_changed"
)

// RabbitMQPublisher 基于RabbitMQ的事件发布器
//
// 教学要点:
// 1. 事件发布是尽力而为:失败只记录日志,不阻断下单/状态流转主流程
// 2. 熔断器保护:消息中间件持续不可用时快速失败,避免每次请求都等待超时
// 3. 熔断器状态变化会同步到监控指标
type RabbitMQPublisher struct {
	publisher *mq.Publisher
	breaker   *circuitbreaker.CircuitBreaker
}

// NewRabbitMQPublisher 创建RabbitMQ事件发布器
func NewRabbitMQPublisher(publisher *mq.Publisher) *RabbitMQPublisher {
	breaker := circuitbreaker.NewCircuitBreaker("order-events", circuitbreaker.Config{})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("[事件发布] 熔断器[%s]状态变化: %s -> %s", name, from, to)
		metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
	})

	return &RabbitMQPublisher{
		publisher: publisher,
		breaker:   breaker,
	}
}

// PublishOrderCreated 发布订单创建事件
func (p *RabbitMQPublisher) PublishOrderCreated(ctx context.Context, evt order.OrderCreatedEvent) {
	p.publish(ctx, RoutingKeyOrderCreated, evt)
}

// PublishOrderStatusChanged 发布订单状态变化事件
func (p *RabbitMQPublisher) PublishOrderStatusChanged(ctx context.Context, evt order.OrderStatusChangedEvent) {
	p.publish(ctx, RoutingKeyOrderStatusChanged, evt)
}

func (p *RabbitMQPublisher) publish(ctx context.Context, routingKey string, body interface{}) {
	err := p.breaker.Execute(func() error {
		return p.publisher.Publish(routingKey, body)
	})
	if err != nil {
		metrics.MessagesPublishedTotal.WithLabelValues(routingKey, "failure").Inc()
		log.Printf("[事件发布] 发布[%s]失败: %v", routingKey, err)
		return
	}
	metrics.MessagesPublishedTotal.WithLabelValues(routingKey, "success").Inc()
}

// NoopPublisher 空实现,消息中间件未启用时使用
type NoopPublisher struct{}

// NewNoopPublisher 创建空事件发布器
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// PublishOrderCreated 不做任何事
func (p *NoopPublisher) PublishOrderCreated(ctx context.Context, evt order.OrderCreatedEvent) {}

// PublishOrderStatusChanged 不做任何事
func (p *NoopPublisher) PublishOrderStatusChanged(ctx context.Context, evt order.OrderStatusChangedEvent) {
}
