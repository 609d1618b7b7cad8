package order

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"testing"

	"github.com/is216/bookweb/internal/domain/book"
	"github.com/is216/bookweb/internal/domain/order"
	"github.com/is216/bookweb/internal/domain/user"
	apperrors "github.com/is216/bookweb/pkg/errors"
	"github.com/is216/bookweb/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.InitMetrics()
	os.Exit(m.Run())
}

// ==========================================
// 内存仓储(测试用)
// 教学要点:领域层只依赖接口,单元测试无需数据库
// ==========================================

// fakeBookRepo 内存图书仓储,条件扣减加锁模拟数据库的行级原子性
type fakeBookRepo struct {
	mu            sync.Mutex
	books         map[uint]*book.Book
	decrementErrs map[uint]error // 注入扣减失败
	restoreErrs   map[uint]error // 注入回滚失败
}

func newFakeBookRepo(books ...*book.Book) *fakeBookRepo {
	r := &fakeBookRepo{
		books:         make(map[uint]*book.Book),
		decrementErrs: make(map[uint]error),
		restoreErrs:   make(map[uint]error),
	}
	for _, b := range books {
		r.books[b.ID] = b
	}
	return r
}

func (r *fakeBookRepo) Create(ctx context.Context, b *book.Book) error { return nil }

func (r *fakeBookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookRepo) FindByIDs(ctx context.Context, ids []uint) ([]*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*book.Book
	for _, id := range ids {
		if b, ok := r.books[id]; ok {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeBookRepo) Update(ctx context.Context, b *book.Book) error { return nil }
func (r *fakeBookRepo) Delete(ctx context.Context, id uint) error      { return nil }

func (r *fakeBookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	return nil, 0, nil
}

func (r *fakeBookRepo) DecrementStockForSale(ctx context.Context, id uint, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.decrementErrs[id]; err != nil {
		return err
	}
	b, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	// 模拟条件UPDATE:检查与扣减在同一把锁内完成
	if b.Stock < quantity {
		return book.NewInsufficientStock(id)
	}
	b.Stock -= quantity
	b.SoldQty += quantity
	return nil
}

func (r *fakeBookRepo) RestoreStockForSale(ctx context.Context, id uint, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.restoreErrs[id]; err != nil {
		return err
	}
	b, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	b.Stock += quantity
	b.SoldQty -= quantity
	return nil
}

func (r *fakeBookRepo) stockOf(id uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.books[id].Stock
}

func (r *fakeBookRepo) soldOf(id uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.books[id].SoldQty
}

// fakeCartRepo 内存购物车仓储
type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string][]user.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string][]user.CartItem)}
}

func (r *fakeCartRepo) GetCart(ctx context.Context, username string) ([]user.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.carts[username], nil
}

func (r *fakeCartRepo) ReplaceCart(ctx context.Context, username string, items []user.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[username] = items
	return nil
}

func (r *fakeCartRepo) ClearCart(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, username)
	return nil
}

func (r *fakeCartRepo) cartOf(username string) []user.CartItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.carts[username]
}

// fakeOrderRepo 内存订单仓储
type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[uint]*order.Order
	nextID    uint
	createErr error // 注入落库失败
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*order.Order), nextID: 1}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	o.ID = r.nextID
	r.nextID++
	copied := *o
	r.orders[o.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOrderRepo) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNo == orderNo {
			copied := *o
			return &copied, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) Update(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; !ok {
		return order.ErrOrderNotFound
	}
	copied := *o
	r.orders[o.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) ListByUsername(ctx context.Context, username string, page, pageSize int) ([]*order.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*order.Order
	for _, o := range r.orders {
		if o.Username == username {
			copied := *o
			result = append(result, &copied)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeOrderRepo) ListAll(ctx context.Context, page, pageSize int) ([]*order.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*order.Order
	for _, o := range r.orders {
		copied := *o
		result = append(result, &copied)
	}
	return result, int64(len(result)), nil
}

func (r *fakeOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// fakeTx 直接执行回调,不提供真正的事务语义
type fakeTx struct{}

func (t *fakeTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeLocker 内存版用户级互斥锁
type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) Lock(ctx context.Context, username string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[username] {
		return order.ErrCheckoutInProgress
	}
	l.held[username] = true
	return nil
}

func (l *fakeLocker) Unlock(ctx context.Context, username string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, username)
	return nil
}

// fakeEvents 记录发布的事件
type fakeEvents struct {
	mu      sync.Mutex
	created []order.OrderCreatedEvent
	changed []order.OrderStatusChangedEvent
}

func (e *fakeEvents) PublishOrderCreated(ctx context.Context, evt order.OrderCreatedEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.created = append(e.created, evt)
}

func (e *fakeEvents) PublishOrderStatusChanged(ctx context.Context, evt order.OrderStatusChangedEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.changed = append(e.changed, evt)
}

// ==========================================
// 测试环境组装
// ==========================================

type checkoutEnv struct {
	uc        *CheckoutUseCase
	bookRepo  *fakeBookRepo
	cartRepo  *fakeCartRepo
	orderRepo *fakeOrderRepo
	locker    *fakeLocker
	events    *fakeEvents
}

func newCheckoutEnv(books ...*book.Book) *checkoutEnv {
	env := &checkoutEnv{
		bookRepo:  newFakeBookRepo(books...),
		cartRepo:  newFakeCartRepo(),
		orderRepo: newFakeOrderRepo(),
		locker:    newFakeLocker(),
		events:    &fakeEvents{},
	}
	env.uc = NewCheckoutUseCase(env.cartRepo, env.bookRepo, env.orderRepo, &fakeTx{}, env.locker, env.events)
	return env
}

func (env *checkoutEnv) putCart(username string, items ...user.CartItem) {
	env.cartRepo.carts[username] = items
}

// ==========================================
// 下单测试
// ==========================================

func TestCheckout_EmptyCart(t *testing.T) {
	env := newCheckoutEnv()

	_, err := env.uc.Execute(context.Background(), CheckoutRequest{Username: "alice", ShippingAddress: "中关村1号"})
	if !apperrors.HasCode(err, apperrors.ErrCodeEmptyCart) {
		t.Fatalf("空购物车应返回40006,实际: %v", err)
	}
}

func TestCheckout_Success(t *testing.T) {
	env := newCheckoutEnv(
		&book.Book{ID: 1, Title: "Go语言实战", Price: 1000, Stock: 5},
	)
	env.putCart("alice", user.CartItem{BookID: 1, Quantity: 2, Price: 1000})

	resp, err := env.uc.Execute(context.Background(), CheckoutRequest{Username: "alice", ShippingAddress: "中关村1号"})
	if err != nil {
		t.Fatalf("下单不应失败: %v", err)
	}

	// 总价 = 单价10.00元 x 2 = 20.00元
	if resp.Total != 2000 {
		t.Errorf("订单总价应为2000分,实际%d", resp.Total)
	}
	if resp.TotalYuan != "20.00" {
		t.Errorf("格式化总价错误: %s", resp.TotalYuan)
	}
	if resp.Status != "Pending" {
		t.Errorf("新订单状态应为Pending,实际%s", resp.Status)
	}
	// 库存 5 -> 3,销量 0 -> 2
	if env.bookRepo.stockOf(1) != 3 {
		t.Errorf("库存应扣减到3,实际%d", env.bookRepo.stockOf(1))
	}
	if env.bookRepo.soldOf(1) != 2 {
		t.Errorf("销量应累加到2,实际%d", env.bookRepo.soldOf(1))
	}
	// 购物车已清空
	if len(env.cartRepo.cartOf("alice")) != 0 {
		t.Error("下单成功后购物车应被清空")
	}
	// 订单已落库且标记为已扣减库存
	persisted, err := env.orderRepo.FindByID(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("订单应已落库: %v", err)
	}
	if !persisted.InventoryDebited {
		t.Error("下单创建的订单应标记为已扣减库存")
	}
	// 事件已发布
	if len(env.events.created) != 1 || env.events.created[0].OrderNo != resp.OrderNo {
		t.Errorf("应发布一条订单创建事件: %+v", env.events.created)
	}
}

func TestCheckout_PriceSnapshotFromCurrentBook(t *testing.T) {
	// 购物车里的价格是陈旧的展示快照,成交价必须取图书当前数据(促销价优先)
	env := newCheckoutEnv(
		&book.Book{ID: 1, Title: "Go语言实战", Price: 5000, SalePrice: 4500, Stock: 10},
	)
	env.putCart("alice", user.CartItem{BookID: 1, Quantity: 1, Price: 99999})

	resp, err := env.uc.Execute(context.Background(), CheckoutRequest{Username: "alice"})
	if err != nil {
		t.Fatalf("下单不应失败: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Price != 4500 {
		t.Errorf("成交价应为当前促销价4500,实际: %+v", resp.Items)
	}
	if resp.Total != 4500 {
		t.Errorf("总价错误: %d", resp.Total)
	}
}

func TestCheckout_InsufficientStock_RollsBack(t *testing.T) {
	env := newCheckoutEnv(
		&book.Book{ID: 1, Title: "A", Price: 1000, Stock: 5},
		&book.Book{ID: 2, Title: "B", Price: 2000, Stock: 1},
	)
	env.putCart("alice",
		user.CartItem{BookID: 1, Quantity: 2},
		user.CartItem{BookID: 2, Quantity: 3}, // 库存不足
	)

	_, err := env.uc.Execute(context.Background(), CheckoutRequest{Username: "alice"})
	if !book.IsInsufficientStock(err) {
		t.Fatalf("应返回库存不足错误,实际: %v", err)
	}

	// 第一行已扣减的库存被补偿回滚,全量状态不变
	if env.bookRepo.stockOf(1) != 5 || env.bookRepo.soldOf(1) != 0 {
		t.Errorf("图书1库存应回滚到5/销量0,实际%d/%d", env.bookRepo.stockOf(1), env.bookRepo.soldOf(1))
	}
	if env.bookRepo.stockOf(2) != 1 {
		t.Errorf("图书2库存应保持1,实际%d", env.bookRepo.stockOf(2))
	}
	// 订单未创建,购物车未清空
	if env.orderRepo.count() != 0 {
		t.Error("下单失败不应创建订单")
	}
	if len(env.cartRepo.cartOf("alice")) != 2 {
		t.Error("下单失败不应清空购物车")
	}
	if len(env.events.created) != 0 {
		t.Error("下单失败不应发布事件")
	}
}

func TestCheckout_PersistFailure_RollsBackStock(t *testing.T) {
	env := newCheckoutEnv(
		&book.Book{ID: 1, Title: "A", Price: 1000, Stock: 5},
	)
	env.orderRepo.createErr = fmt.Errorf("数据库连接断开")
	env.putCart("alice", user.CartItem{BookID: 1, Quantity: 2})

	_, err := env.uc.Execute(context.Background(), CheckoutRequest{Username: "alice"})
	if err == nil {
		t.Fatal("落库失败时下单应失败")
	}
	// 已扣减的库存全部回滚
	if env.bookRepo.stockOf(1) != 5 {
		t.Errorf("库存应回滚到5,实际%d", env.bookRepo.stockOf(1))
	}
	if env.orderRepo.count() != 0 {
		t.Error("不应有订单落库")
	}
}

func TestCheckout_CompensationFailure(t *testing.T) {
	env := newCheckoutEnv(
		&book.Book{ID: 1, Title: "A", Price: 1000, Stock: 5},
		&book.Book{ID: 2, Title: "B", Price: 2000, Stock: 0},
	)
	// 图书2扣减失败触发补偿,同时注入图书1回滚失败
	env.bookRepo.restoreErrs[1] = fmt.Errorf("数据库连接断开")
	env.putCart("alice",
		user.CartItem{BookID: 1, Quantity: 1},
		user.CartItem{BookID: 2, Quantity: 1},
	)

	_, err := env.uc.Execute(context.Background(), CheckoutRequest{Username: "alice"})
	// 补偿失败升级为可重试的系统错误,而非库存不足
	if !apperrors.HasCode(err, apperrors.ErrCodeCheckoutFailed) {
		t.Fatalf("补偿失败应返回50003,实际: %v", err)
	}
}

func TestCheckout_SameUserLockRejected(t *testing.T) {
	env := newCheckoutEnv(
		&book.Book{ID: 1, Title: "A", Price: 1000, Stock: 5},
	)
	env.putCart("alice", user.CartItem{BookID: 1, Quantity: 1})

	// 模拟同一用户的上一次下单尚未结束
	if err := env.locker.Lock(context.Background(), "alice"); err != nil {
		t.Fatalf("预占锁失败: %v", err)
	}

	_, err := env.uc.Execute(context.Background(), CheckoutRequest{Username: "alice"})
	if !apperrors.HasCode(err, apperrors.ErrCodeCheckoutInProgress) {
		t.Fatalf("应返回40007,实际: %v", err)
	}
}

func TestCheckout_ConcurrentLastUnit(t *testing.T) {
	// 两个用户争抢最后一件库存,必须恰好一人成功
	env := newCheckoutEnv(
		&book.Book{ID: 1, Title: "A", Price: 1000, Stock: 1},
	)
	env.putCart("alice", user.CartItem{BookID: 1, Quantity: 1})
	env.putCart("bob", user.CartItem{BookID: 1, Quantity: 1})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, username := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(i int, username string) {
			defer wg.Done()
			_, errs[i] = env.uc.Execute(context.Background(), CheckoutRequest{Username: username})
		}(i, username)
	}
	wg.Wait()

	successCount := 0
	for _, err := range errs {
		if err == nil {
			successCount++
		} else if !book.IsInsufficientStock(err) {
			t.Errorf("失败方应是库存不足,实际: %v", err)
		}
	}
	if successCount != 1 {
		t.Fatalf("应恰好一人下单成功,实际%d人", successCount)
	}
	if env.bookRepo.stockOf(1) != 0 {
		t.Errorf("库存应为0,实际%d", env.bookRepo.stockOf(1))
	}
	if env.orderRepo.count() != 1 {
		t.Errorf("应恰好创建1张订单,实际%d", env.orderRepo.count())
	}
}

func TestCheckout_DisjointUsersParallel(t *testing.T) {
	// 购买不同图书的用户互不影响
	env := newCheckoutEnv(
		&book.Book{ID: 1, Title: "A", Price: 1000, Stock: 3},
		&book.Book{ID: 2, Title: "B", Price: 2000, Stock: 3},
	)
	env.putCart("alice", user.CartItem{BookID: 1, Quantity: 1})
	env.putCart("bob", user.CartItem{BookID: 2, Quantity: 1})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, username := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(i int, username string) {
			defer wg.Done()
			_, errs[i] = env.uc.Execute(context.Background(), CheckoutRequest{Username: username})
		}(i, username)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("第%d个用户下单不应失败: %v", i, err)
		}
	}
	if env.orderRepo.count() != 2 {
		t.Errorf("应创建2张订单,实际%d", env.orderRepo.count())
	}
}

func TestCheckout_RandomInterleaving(t *testing.T) {
	// 大量并发随机下单,校验库存守恒:库存永不为负,
	// 且对每本书 最终库存+销量 == 初始库存
	const (
		bookCount  = 3
		userCount  = 20
		initialQty = 10
	)

	books := make([]*book.Book, 0, bookCount)
	for i := 1; i <= bookCount; i++ {
		books = append(books, &book.Book{ID: uint(i), Title: fmt.Sprintf("书%d", i), Price: 1000, Stock: initialQty})
	}
	env := newCheckoutEnv(books...)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < userCount; i++ {
		username := fmt.Sprintf("user%d", i)
		var items []user.CartItem
		for id := uint(1); id <= bookCount; id++ {
			if rng.Intn(2) == 0 {
				items = append(items, user.CartItem{BookID: id, Quantity: 1 + rng.Intn(3)})
			}
		}
		if len(items) == 0 {
			items = append(items, user.CartItem{BookID: 1, Quantity: 1})
		}
		env.putCart(username, items...)
	}

	var wg sync.WaitGroup
	for i := 0; i < userCount; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			username := fmt.Sprintf("user%d", i)
			_, err := env.uc.Execute(context.Background(), CheckoutRequest{Username: username})
			if err != nil && !book.IsInsufficientStock(err) {
				t.Errorf("用户%s下单只允许因库存不足失败: %v", username, err)
			}
		}(i)
	}
	wg.Wait()

	for id := uint(1); id <= bookCount; id++ {
		stock := env.bookRepo.stockOf(id)
		sold := env.bookRepo.soldOf(id)
		if stock < 0 {
			t.Errorf("图书%d库存为负: %d", id, stock)
		}
		if stock+sold != initialQty {
			t.Errorf("图书%d库存不守恒: 库存%d+销量%d != %d", id, stock, sold, initialQty)
		}
	}
}
