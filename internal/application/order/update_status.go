package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/is216/bookweb/internal/domain/book"
	"github.com/is216/bookweb/internal/domain/order"
	"github.com/is216/bookweb/pkg/metrics"
	"github.com/is216/bookweb/pkg/saga"
)

// UpdateStatusUseCase 订单状态流转用例
// 教学要点:
// 1. 合法流转由领域实体的状态机定义,用例层只负责编排副作用
// 2. 终态的幂等语义:对终态订单的任何流转请求都原样返回订单,不报错
// 3. 流转到Delivered时,若订单尚未扣减过库存(历史数据),
//    补扣一次并打上标记,保证同一订单绝不重复扣减
type UpdateStatusUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
	tx        Transactor
	events    order.EventPublisher
}

// NewUpdateStatusUseCase 创建状态流转用例
func NewUpdateStatusUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	tx Transactor,
	events order.EventPublisher,
) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		tx:        tx,
		events:    events,
	}
}

// UpdateStatusRequest 状态流转请求DTO
type UpdateStatusRequest struct {
	OrderID  uint              // 订单ID
	Target   order.OrderStatus // 目标状态
	Username string            // 操作者用户名
	IsAdmin  bool              // 是否管理员
}

// Execute 执行状态流转
//
// 授权规则:
// 1. 管理员可以执行全部流转
// 2. 普通用户只能取消自己的订单(待发货或已发货)
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, req UpdateStatusRequest) (*OrderResponse, error) {
	o, err := uc.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	// 不泄露他人订单的存在
	if !req.IsAdmin && !o.IsOwnedBy(req.Username) {
		return nil, order.ErrOrderNotFound
	}

	// 终态幂等:不论请求哪个目标状态,终态订单都原样返回,不报错
	if o.Status.IsTerminal() {
		return toOrderResponse(o), nil
	}

	if !req.IsAdmin && req.Target != order.OrderStatusCancelled {
		return nil, order.NewInvalidTransition(o.Status, req.Target)
	}

	from := o.Status
	if err := o.TransitionTo(req.Target); err != nil {
		return nil, err
	}

	// Delivered且从未扣减过库存的历史订单,在此补扣
	if req.Target == order.OrderStatusDelivered && !o.InventoryDebited {
		if err := uc.debitAndPersist(ctx, o); err != nil {
			return nil, err
		}
	} else {
		if err := uc.orderRepo.Update(ctx, o); err != nil {
			return nil, err
		}
	}

	metrics.IncCounterVec(metrics.OrderStatusTransitionsTotal, map[string]string{
		"from": from.String(),
		"to":   o.Status.String(),
	})
	uc.events.PublishOrderStatusChanged(ctx, order.OrderStatusChangedEvent{
		OrderNo:    o.OrderNo,
		Username:   o.Username,
		FromStatus: from.String(),
		ToStatus:   o.Status.String(),
		ChangedAt:  time.Now(),
	})
	return toOrderResponse(o), nil
}

// debitAndPersist 补扣库存并落库新状态
//
// 与下单使用同一套编排:逐行条件扣减,失败则逆序回滚,
// 最后一步在事务里打上扣减标记并持久化状态
func (uc *UpdateStatusUseCase) debitAndPersist(ctx context.Context, o *order.Order) error {
	sg := saga.NewSaga(sagaTimeout)

	for _, item := range o.Items {
		sg.AddStep(
			fmt.Sprintf("补扣图书[%d]库存", item.BookID),
			func(ctx context.Context) error {
				if err := uc.bookRepo.DecrementStockForSale(ctx, item.BookID, item.Quantity); err != nil {
					metrics.IncCounterVec(metrics.StockDecrementsTotal, map[string]string{"result": "conflict"})
					return err
				}
				metrics.IncCounterVec(metrics.StockDecrementsTotal, map[string]string{"result": "success"})
				return nil
			},
			func(ctx context.Context) error {
				metrics.IncCounter(metrics.StockRollbacksTotal)
				return uc.bookRepo.RestoreStockForSale(ctx, item.BookID, item.Quantity)
			},
		)
	}

	sg.AddStep("落库订单状态", func(ctx context.Context) error {
		return uc.tx.Transaction(ctx, func(txCtx context.Context) error {
			o.MarkInventoryDebited()
			return uc.orderRepo.Update(txCtx, o)
		})
	}, nil)

	if err := sg.Execute(ctx); err != nil {
		var cerr *saga.CompensationError
		if errors.As(err, &cerr) {
			log.Printf("[订单状态] 订单[%s]补扣库存回滚失败,需人工对账: %v", o.OrderNo, err)
			return order.NewCheckoutFailed(err)
		}
		return err
	}
	return nil
}
