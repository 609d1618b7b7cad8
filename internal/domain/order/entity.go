package order

import (
	"time"
)

// OrderStatus 订单状态
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 定义为类型别名,便于添加方法
// 3. 状态值1-4,Delivered/Cancelled为终态
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 1 // 待发货
	OrderStatusShipped   OrderStatus = 2 // 已发货
	OrderStatusDelivered OrderStatus = 3 // 已送达(终态)
	OrderStatusCancelled OrderStatus = 4 // 已取消(终态)
)

// String 实现Stringer接口(方便日志输出和指标标签)
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "Pending"
	case OrderStatusShipped:
		return "Shipped"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// IsValid 检查状态值是否合法
func (s OrderStatus) IsValid() bool {
	return s >= OrderStatusPending && s <= OrderStatusCancelled
}

// IsTerminal 检查是否为终态
// 终态订单不再流转:对终态订单的任何流转请求都是幂等空操作(由用例层短路)
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// transitions 合法的状态转换规则
// 待发货→已发货/已取消;已发货→已送达/已取消;终态无后续状态
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// Order 订单实体(聚合根)
// 教学要点:
// 1. Order是聚合根,OrderItem是子实体
// 2. Total价格冗余存储(下单时按行快照求和,防止改价后历史订单金额变化)
// 3. InventoryDebited标记该订单是否已扣减过库存:
//    下单即扣减的订单创建时为true;历史数据默认false,
//    送达时补扣一次后置true,保证同一订单最多扣减一次
type Order struct {
	ID               uint
	OrderNo          string      // 订单号(业务主键,全局唯一)
	Username         string      // 买家用户名
	ShippingAddress  string      // 收货地址
	Total            int64       // 订单总金额(分),冗余字段
	Status           OrderStatus // 订单状态
	InventoryDebited bool        // 是否已扣减库存
	Items            []OrderItem // 订单明细(聚合内的子实体)
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderItem 订单明细项
// 教学要点:
// 1. 不是独立聚合根,必须通过Order访问
// 2. Price字段记录"下单时的成交单价"(历史价格快照,促销价优先)
// 3. 不直接关联Book对象,只保存BookID(避免跨聚合引用)
type OrderItem struct {
	ID       uint
	OrderID  uint  // 所属订单ID
	BookID   uint  // 图书ID
	Quantity int   // 购买数量
	Price    int64 // 下单时的成交单价(分)
}

// Subtotal 行小计
func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// NewOrder 创建新订单(工厂方法)
// 教学要点:
// 1. 工厂方法封装创建逻辑,保证实体的有效性
// 2. 初始状态为Pending(待发货)
// 3. 下单流程先条件扣减库存再创建订单,所以InventoryDebited=true
func NewOrder(orderNo, username, shippingAddress string, items []OrderItem) *Order {
	now := time.Now()
	o := &Order{
		OrderNo:          orderNo,
		Username:         username,
		ShippingAddress:  shippingAddress,
		Status:           OrderStatusPending,
		InventoryDebited: true,
		Items:            items,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	o.Total = o.CalculateTotal()
	return o
}

// CanTransitionTo 检查是否可以转换到目标状态
// 教学要点:状态机设计,防止非法状态跳转
// 例如:不能从"已送达"回到"待发货",不能跳过发货直接送达
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	allowedTargets, exists := transitions[o.Status]
	if !exists {
		return false
	}

	for _, allowed := range allowedTargets {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
// 教学要点:
// 1. 先检查是否可以转换(业务规则校验)
// 2. 非法转换的错误信息携带当前状态和目标状态
// 3. 转换成功更新UpdatedAt(审计追踪)
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return NewInvalidTransition(o.Status, target)
	}
	if !o.CanTransitionTo(target) {
		return NewInvalidTransition(o.Status, target)
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// MarkInventoryDebited 标记库存已扣减
// 送达时对历史订单补扣库存后调用,防止重复扣减
func (o *Order) MarkInventoryDebited() {
	o.InventoryDebited = true
	o.UpdatedAt = time.Now()
}

// CalculateTotal 计算订单总金额
// 教学要点:根据OrderItem快照价格求和,用于创建订单时写入Total
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户
// 教学要点:权限校验,防止用户访问他人订单
func (o *Order) IsOwnedBy(username string) bool {
	return o.Username == username
}
