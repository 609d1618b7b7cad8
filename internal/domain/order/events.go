package order

import (
	"context"
	"time"
)

// OrderCreatedEvent 下单成功事件
// 路由键:order.created
type OrderCreatedEvent struct {
	OrderNo   string    `json:"order_no"`
	Username  string    `json:"username"`
	Total     int64     `json:"total"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderStatusChangedEvent 订单状态迁移事件
// 路由键:order.status_changed
type OrderStatusChangedEvent struct {
	OrderNo    string    `json:"order_no"`
	Username   string    `json:"username"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
}

// EventPublisher 订单事件发布端口
// 设计说明:
// 1. 接口定义在domain层,infrastructure/event层基于RabbitMQ实现
// 2. 事件发布是尽力而为:发布失败只记录日志,不回滚业务
//    (实现层用熔断器保护,broker宕机时快速跳过)
type EventPublisher interface {
	// PublishOrderCreated 发布下单成功事件
	PublishOrderCreated(ctx context.Context, event OrderCreatedEvent)

	// PublishOrderStatusChanged 发布订单状态迁移事件
	PublishOrderStatusChanged(ctx context.Context, event OrderStatusChangedEvent)
}
