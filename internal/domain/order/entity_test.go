package order

import (
	"strings"
	"testing"

	apperrors "github.com/is216/bookweb/pkg/errors"
)

func newTestOrder(status OrderStatus) *Order {
	o := NewOrder("BW1756444800123456", "alice", "1 Main St", []OrderItem{
		{BookID: 1, Quantity: 2, Price: 1000},
		{BookID: 2, Quantity: 1, Price: 2500},
	})
	o.Status = status
	return o
}

// TestNewOrder 测试订单工厂方法
func TestNewOrder(t *testing.T) {
	o := newTestOrder(OrderStatusPending)

	if o.Status != OrderStatusPending {
		t.Errorf("新订单状态期望Pending,实际%s", o.Status)
	}
	if !o.InventoryDebited {
		t.Error("下单创建的订单应标记库存已扣减")
	}
	// 总金额 = 2*1000 + 1*2500
	if o.Total != 4500 {
		t.Errorf("订单总金额期望4500,实际%d", o.Total)
	}
}

// TestOrder_Transitions 测试状态机全部合法/非法转换
func TestOrder_Transitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusDelivered, false}, // 不能跳过发货
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusPending, false}, // 不能回退
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusShipped, false},
		{OrderStatusCancelled, OrderStatusDelivered, false},
	}

	for _, c := range cases {
		o := newTestOrder(c.from)
		err := o.TransitionTo(c.to)

		if c.allowed && err != nil {
			t.Errorf("%s→%s应该允许,实际错误: %v", c.from, c.to, err)
		}
		if !c.allowed && err == nil {
			t.Errorf("%s→%s应该被拒绝", c.from, c.to)
		}

		if c.allowed && o.Status != c.to {
			t.Errorf("%s→%s后状态期望%s,实际%s", c.from, c.to, c.to, o.Status)
		}
		if !c.allowed && o.Status != c.from {
			t.Errorf("非法转换%s→%s不应修改状态,实际%s", c.from, c.to, o.Status)
		}
	}
}

// TestOrder_InvalidTransitionError 测试非法流转错误携带当前状态和目标状态
func TestOrder_InvalidTransitionError(t *testing.T) {
	o := newTestOrder(OrderStatusDelivered)

	err := o.TransitionTo(OrderStatusShipped)
	if err == nil {
		t.Fatal("终态流转应该返回错误")
	}

	if !apperrors.HasCode(err, apperrors.ErrCodeInvalidTransition) {
		t.Errorf("期望错误码%d,实际%v", apperrors.ErrCodeInvalidTransition, err)
	}
	if !strings.Contains(err.Error(), "Delivered") || !strings.Contains(err.Error(), "Shipped") {
		t.Errorf("错误信息应携带当前状态和目标状态: %s", err.Error())
	}
}

// TestOrder_TransitionToInvalidStatus 测试未知状态值被拒绝
func TestOrder_TransitionToInvalidStatus(t *testing.T) {
	o := newTestOrder(OrderStatusPending)

	if err := o.TransitionTo(OrderStatus(99)); err == nil {
		t.Error("未知状态值应该被拒绝")
	}
	if o.Status != OrderStatusPending {
		t.Errorf("状态不应被修改,实际%s", o.Status)
	}
}

// TestOrderStatus_IsTerminal 测试终态判定
func TestOrderStatus_IsTerminal(t *testing.T) {
	if OrderStatusPending.IsTerminal() || OrderStatusShipped.IsTerminal() {
		t.Error("Pending/Shipped不是终态")
	}
	if !OrderStatusDelivered.IsTerminal() || !OrderStatusCancelled.IsTerminal() {
		t.Error("Delivered/Cancelled是终态")
	}
}

// TestOrder_MarkInventoryDebited 测试补扣库存标记
func TestOrder_MarkInventoryDebited(t *testing.T) {
	o := newTestOrder(OrderStatusShipped)
	o.InventoryDebited = false // 模拟历史数据

	o.MarkInventoryDebited()
	if !o.InventoryDebited {
		t.Error("标记后InventoryDebited应为true")
	}
}

// TestOrder_IsOwnedBy 测试订单归属校验
func TestOrder_IsOwnedBy(t *testing.T) {
	o := newTestOrder(OrderStatusPending)

	if !o.IsOwnedBy("alice") {
		t.Error("订单应属于alice")
	}
	if o.IsOwnedBy("bob") {
		t.Error("订单不应属于bob")
	}
}

// TestGenerateOrderNo 测试订单号格式
func TestGenerateOrderNo(t *testing.T) {
	no := GenerateOrderNo()

	if !strings.HasPrefix(no, "BW") {
		t.Errorf("订单号应以BW开头: %s", no)
	}
	// BW + 10位时间戳 + 6位随机数
	if len(no) != 18 {
		t.Errorf("订单号长度期望18,实际%d: %s", len(no), no)
	}
}
