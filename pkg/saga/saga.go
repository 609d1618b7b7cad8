// Package saga 实现带补偿的多步骤执行框架
//
// 核心思想：
// 1. 将跨多条记录的长操作拆分为多个短步骤
// 2. 每个步骤有对应的补偿操作
// 3. 如果某步失败，按逆序执行已完成步骤的补偿操作
//
// 本项目中用于下单时的多行库存扣减：每本书的条件扣减是一个步骤，
// 补偿操作是把已扣减的库存加回去。任何一行扣减失败（库存不足），
// 之前已扣减的行全部回滚，保证"要么全部预留，要么全不预留"。
package saga

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Step 表示Saga中的一个步骤
//
// 设计要点：
// 1. Action是正向操作（如扣减某本书的库存）
// 2. Compensate是补偿操作（如把库存加回去）
// 3. 每个操作都必须支持幂等（允许重试）
type Step struct {
	Name       string                          // 步骤名称（用于日志和调试）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作
}

// Saga 表示一次带补偿的多步骤执行
type Saga struct {
	steps    []Step        // 所有步骤
	executed []Step        // 已执行的步骤（用于补偿）
	timeout  time.Duration // 整体超时时间
}

// CompensationError 补偿失败错误
// 语义：正向操作失败后，部分补偿操作也失败了，数据可能处于不一致
// 状态，需要人工对账。调用方应将此错误升级为"可重试的系统错误"
// 并记录详细日志，而不是静默吞掉。
type CompensationError struct {
	Cause   error    // 触发补偿的原始错误
	Failed  []string // 补偿失败的步骤名称
	Details []error  // 对应的补偿错误
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("补偿失败(步骤%v): 原始错误: %v", e.Failed, e.Cause)
}

// Unwrap 返回触发补偿的原始错误
func (e *CompensationError) Unwrap() error {
	return e.Cause
}

// NewSaga 创建一次Saga执行
//
// 示例：
//
//	sg := saga.NewSaga(10 * time.Second)
//	sg.AddStep("扣减库存", decrStock, restoreStock)
//	sg.AddStep("落库订单", createOrder, nil)
//	err := sg.Execute(ctx)
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{
		steps:   make([]Step, 0),
		timeout: timeout,
	}
}

// AddStep 添加一个步骤
//
// 步骤顺序很重要：按添加顺序执行，按逆序补偿。
// Action和Compensate都可以为nil（如最后一步通常无需补偿）。
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 按顺序执行所有步骤
//
// 执行流程：
// 1. 按顺序执行每个步骤的Action
// 2. 如果某步失败，逆序执行已完成步骤的Compensate
// 3. 原始错误通过%w保留在错误链中（errors.As可以提取业务错误）
//
// 超时处理：整体超时由NewSaga的timeout参数指定，超时立即触发补偿。
// 补偿使用新的Context，避免补偿本身也被超时打断。
//
// 补偿失败时返回*CompensationError（需要人工对账），而不是静默丢弃。
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			cause := fmt.Errorf("saga超时: %w", ctx.Err())
			if cerr := s.compensate(context.Background(), cause); cerr != nil {
				return cerr
			}
			return cause
		default:
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				cause := fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
				if cerr := s.compensate(context.Background(), cause); cerr != nil {
					return cerr
				}
				return cause
			}
		}

		// 记录已执行的步骤（用于补偿）
		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 逆序执行补偿流程
//
// 补偿原则：
// 1. 按逆序执行已完成步骤的Compensate（后执行的步骤可能依赖先执行的）
// 2. 即使某个Compensate失败，也继续执行后续补偿（尽最大努力）
// 3. 收集所有补偿失败，返回*CompensationError供调用方升级处理
func (s *Saga) compensate(ctx context.Context, cause error) error {
	var failed []string
	var details []error

	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]

		if step.Compensate != nil {
			if err := step.Compensate(ctx); err != nil {
				log.Printf("saga: 补偿失败[步骤:%s]: %v", step.Name, err)
				failed = append(failed, step.Name)
				details = append(details, err)
			}
		}
	}

	s.executed = nil

	if len(failed) > 0 {
		return &CompensationError{Cause: cause, Failed: failed, Details: details}
	}
	return nil
}
