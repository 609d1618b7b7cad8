package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/is216/bookweb/internal/domain/order"
)

// CheckoutLock 基于Redis的下单互斥锁
//
// 教学要点:
// 1. SETNX保证同一用户同时只有一个下单请求在执行,
//    防止重复提交导致同一购物车生成多张订单
// 2. 锁带过期时间,进程崩溃后锁自动释放,不会永久卡死
// 3. 锁粒度是用户级,不同用户的下单互不影响
type CheckoutLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCheckoutLock 创建下单锁,ttl为锁的自动过期时间
func NewCheckoutLock(client *redis.Client, ttl time.Duration) *CheckoutLock {
	return &CheckoutLock{client: client, ttl: ttl}
}

// Lock 尝试获取用户的下单锁
// 已有下单在进行时返回ErrCheckoutInProgress
func (l *CheckoutLock) Lock(ctx context.Context, username string) error {
	ok, err := l.client.SetNX(ctx, checkoutLockKey(username), "1", l.ttl).Result()
	if err != nil {
		return fmt.Errorf("获取下单锁失败: %w", err)
	}
	if !ok {
		return order.ErrCheckoutInProgress
	}
	return nil
}

// Unlock 释放用户的下单锁
func (l *CheckoutLock) Unlock(ctx context.Context, username string) error {
	return l.client.Del(ctx, checkoutLockKey(username)).Err()
}

func checkoutLockKey(username string) string {
	return fmt.Sprintf("checkout:lock:%s", username)
}
