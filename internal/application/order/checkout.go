// Package order 订单用例:下单、状态流转、查询
package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/is216/bookweb/internal/domain/book"
	"github.com/is216/bookweb/internal/domain/order"
	"github.com/is216/bookweb/internal/domain/user"
	"github.com/is216/bookweb/pkg/metrics"
	"github.com/is216/bookweb/pkg/saga"
	"github.com/is216/bookweb/pkg/tracing"
)

// Transactor 事务边界
// 由infrastructure/persistence/mysql.TxManager实现,
// 用例层只依赖接口,单元测试用内存实现替代
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CheckoutLocker 用户级下单互斥锁
// 由infrastructure/persistence/redis.CheckoutLock实现
type CheckoutLocker interface {
	// Lock 获取锁,已被持有时返回ErrCheckoutInProgress
	Lock(ctx context.Context, username string) error
	// Unlock 释放锁
	Unlock(ctx context.Context, username string) error
}

// sagaTimeout 库存扣减saga的整体超时
const sagaTimeout = 10 * time.Second

// CheckoutUseCase 下单用例
// 教学要点:这是整个项目最核心的用例
// 涉及:并发控制(防超卖)、补偿回滚、事务、价格快照
type CheckoutUseCase struct {
	cartRepo  user.CartRepository
	bookRepo  book.Repository
	orderRepo order.Repository
	tx        Transactor
	locker    CheckoutLocker
	events    order.EventPublisher
}

// NewCheckoutUseCase 创建下单用例
func NewCheckoutUseCase(
	cartRepo user.CartRepository,
	bookRepo book.Repository,
	orderRepo order.Repository,
	tx Transactor,
	locker CheckoutLocker,
	events order.EventPublisher,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		cartRepo:  cartRepo,
		bookRepo:  bookRepo,
		orderRepo: orderRepo,
		tx:        tx,
		locker:    locker,
		events:    events,
	}
}

// CheckoutRequest 下单请求DTO
type CheckoutRequest struct {
	Username        string // 买家用户名(从JWT中提取)
	ShippingAddress string // 收货地址
}

// Execute 执行下单
// 教学重点:防止超卖的完整流程
//
// 核心问题:库存超卖
// 场景:最后一件库存,两个用户同时下单
// 错误实现:先查库存再判断再扣减,两个请求都能通过检查,卖出两件
//
// 正确实现:条件扣减 + 补偿回滚
//  1. 获取用户级锁(Redis SETNX),拒绝同一用户的并发下单
//  2. 读购物车,空购物车直接拒绝
//  3. 按当前图书数据快照成交价(促销价优先)
//  4. 逐行条件扣减: UPDATE ... SET stock = stock - ? WHERE stock >= ?
//     数据库保证原子性,并发下最多一个请求能扣走最后一件
//  5. 任何一行失败,逆序回滚已扣减的行(saga补偿)
//  6. 全部扣减成功后,在同一个数据库事务中落库订单并清空购物车
//
// 补偿本身失败时数据可能不一致,升级为可重试的系统错误并记录日志,
// 等待人工对账,绝不静默吞掉
func (uc *CheckoutUseCase) Execute(ctx context.Context, req CheckoutRequest) (*OrderResponse, error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "bookweb/checkout", "Checkout")
	defer span.End()

	// 1. 用户级互斥:拒绝同一用户的并发下单(防止重复提交)
	if err := uc.locker.Lock(ctx, req.Username); err != nil {
		metrics.IncCounterVec(metrics.CheckoutFailedTotal, map[string]string{"reason": "lock_held"})
		return nil, err
	}
	defer func() {
		if err := uc.locker.Unlock(ctx, req.Username); err != nil {
			log.Printf("[下单] 释放用户[%s]的下单锁失败: %v", req.Username, err)
		}
	}()

	// 2. 读取购物车
	cartItems, err := uc.cartRepo.GetCart(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		metrics.IncCounterVec(metrics.CheckoutFailedTotal, map[string]string{"reason": "empty_cart"})
		return nil, order.ErrEmptyCart
	}

	// 3. 价格快照:成交价取图书当前数据(促销价优先),
	// 不信任购物车里的展示快照,防止改价攻击和陈旧价格
	orderItems, err := uc.snapshotPrices(ctx, cartItems)
	if err != nil {
		return nil, err
	}

	newOrder := order.NewOrder(order.GenerateOrderNo(), req.Username, req.ShippingAddress, orderItems)

	// 4. 逐行条件扣减 + 补偿回滚 + 最终落库,由saga编排
	if err := uc.reserveAndPersist(ctx, newOrder); err != nil {
		return nil, err
	}

	// 5. 发布事件(尽力而为,失败不影响下单结果)
	uc.events.PublishOrderCreated(ctx, order.OrderCreatedEvent{
		OrderNo:   newOrder.OrderNo,
		Username:  newOrder.Username,
		Total:     newOrder.Total,
		ItemCount: len(newOrder.Items),
		CreatedAt: newOrder.CreatedAt,
	})

	metrics.IncCounter(metrics.CheckoutTotal)
	metrics.ObserveHistogram(metrics.CheckoutDuration, time.Since(start).Seconds())
	return toOrderResponse(newOrder), nil
}

// snapshotPrices 按图书当前数据构建订单明细(每行锁定成交单价)
func (uc *CheckoutUseCase) snapshotPrices(ctx context.Context, cartItems []user.CartItem) ([]order.OrderItem, error) {
	ids := make([]uint, 0, len(cartItems))
	for _, item := range cartItems {
		ids = append(ids, item.BookID)
	}
	books, err := uc.bookRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	bookMap := make(map[uint]*book.Book, len(books))
	for _, b := range books {
		bookMap[b.ID] = b
	}

	orderItems := make([]order.OrderItem, 0, len(cartItems))
	for _, item := range cartItems {
		b, ok := bookMap[item.BookID]
		if !ok {
			// 图书在加购后被下架
			return nil, book.ErrBookNotFound
		}
		if item.Quantity <= 0 {
			return nil, order.ErrInvalidQuantity
		}
		orderItems = append(orderItems, order.OrderItem{
			BookID:   b.ID,
			Quantity: item.Quantity,
			Price:    b.UnitPrice(),
		})
	}
	return orderItems, nil
}

// reserveAndPersist 扣减全部库存并落库订单
//
// saga步骤编排:
//
//	步骤1..N: 每个订单行一次条件扣减,补偿操作是把扣掉的加回去
//	步骤N+1:  数据库事务{落库订单, 清空购物车},无补偿(事务自身回滚)
//
// 任何一行库存不足,之前已扣减的行全部回滚,保证"要么全部预留,要么全不预留"
func (uc *CheckoutUseCase) reserveAndPersist(ctx context.Context, newOrder *order.Order) error {
	sg := saga.NewSaga(sagaTimeout)

	for _, item := range newOrder.Items {
		sg.AddStep(
			fmt.Sprintf("扣减图书[%d]库存", item.BookID),
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

	sg.AddStep("落库订单并清空购物车", func(ctx context.Context) error {
		return uc.tx.Transaction(ctx, func(txCtx context.Context) error {
			if err := uc.orderRepo.Create(txCtx, newOrder); err != nil {
				return err
			}
			return uc.cartRepo.ClearCart(txCtx, newOrder.Username)
		})
	}, nil)

	if err := sg.Execute(ctx); err != nil {
		var cerr *saga.CompensationError
		if errors.As(err, &cerr) {
			// 补偿失败:库存可能多扣,需要人工对账
			log.Printf("[下单] 用户[%s]库存回滚失败,需人工对账: %v", newOrder.Username, err)
			metrics.IncCounterVec(metrics.CheckoutFailedTotal, map[string]string{"reason": "compensation_failed"})
			return order.NewCheckoutFailed(err)
		}
		if book.IsInsufficientStock(err) {
			metrics.IncCounterVec(metrics.CheckoutFailedTotal, map[string]string{"reason": "insufficient_stock"})
		} else {
			metrics.IncCounterVec(metrics.CheckoutFailedTotal, map[string]string{"reason": "infrastructure"})
		}
		return err
	}
	return nil
}
