// 订单通知Worker
//
// 订阅 bookweb.events 上的 order.* 事件,模拟站内信/短信通知。
// 下单和状态流转的主流程不等待通知,由本Worker异步消费。
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/is216/bookweb/internal/infrastructure/config"
	"github.com/is216/bookweb/pkg/mq"
)

// orderEvent 兼容order.created和order.status_changed两种消息体
type orderEvent struct {
	OrderNo    string `json:"order_no"`
	Username   string `json:"username"`
	Total      int64  `json:"total"`
	ItemCount  int    `json:"item_count"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if !cfg.MQ.Enabled {
		log.Fatal("MQ未启用,通知Worker无事可做(设置mq.enabled=true)")
	}

	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		cfg.MQ.ExchangeType,
		"order.notification",
		[]string{"order.*"},
	)
	if err != nil {
		log.Fatalf("创建消费者失败: %v", err)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	fmt.Println("🔔 订单通知Worker已启动,按Ctrl+C停止")

	err = consumer.Consume(ctx, func(body []byte) error {
		var event orderEvent
		if err := json.Unmarshal(body, &event); err != nil {
			// 消息体损坏时丢弃而非无限重试
			log.Printf("消息体解析失败,丢弃: %v", err)
			return nil
		}

		if event.ToStatus != "" {
			log.Printf("通知 %s: 订单 %s 状态更新 %s → %s",
				event.Username, event.OrderNo, event.FromStatus, event.ToStatus)
		} else {
			log.Printf("通知 %s: 订单 %s 已创建,共%d件商品,合计%.2f元",
				event.Username, event.OrderNo, event.ItemCount, float64(event.Total)/100)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("消费消息失败: %v", err)
	}
}
