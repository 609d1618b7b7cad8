package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/is216/bookweb/internal/domain/order"
)

// orderRepository 订单仓储的MySQL实现
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单(含明细)
//
// 教学要点:明细通过GORM关联随主表一并插入,
// 外层若有事务(下单时与清空购物车同事务)则直接复用
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return err
	}
	o.ID = model.ID
	for i := range model.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	return nil
}

// FindByID 根据ID查找订单(含明细)
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	if err := getDB(ctx, r.db).Preload("Items").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, err
	}
	return toOrderEntity(&model), nil
}

// FindByOrderNo 根据订单号查找订单(含明细)
func (r *orderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	var model OrderModel
	if err := getDB(ctx, r.db).Preload("Items").Where("order_no = ?", orderNo).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, err
	}
	return toOrderEntity(&model), nil
}

// Update 更新订单
//
// 只更新状态和库存扣减标记,明细与金额创建后不可变
func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	return getDB(ctx, r.db).Model(&OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]interface{}{
			"status":            int(o.Status),
			"inventory_debited": o.InventoryDebited,
			"updated_at":        o.UpdatedAt,
		}).Error
}

// ListByUsername 查询用户的订单列表(创建时间倒序)
func (r *orderRepository) ListByUsername(ctx context.Context, username string, page, pageSize int) ([]*order.Order, int64, error) {
	query := getDB(ctx, r.db).Model(&OrderModel{}).Where("username = ?", username)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []OrderModel
	offset := (page - 1) * pageSize
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	orders := make([]*order.Order, 0, len(models))
	for i := range models {
		orders = append(orders, toOrderEntity(&models[i]))
	}
	return orders, total, nil
}

// ListAll 查询全部订单(管理员)
func (r *orderRepository) ListAll(ctx context.Context, page, pageSize int) ([]*order.Order, int64, error) {
	query := getDB(ctx, r.db).Model(&OrderModel{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []OrderModel
	offset := (page - 1) * pageSize
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	orders := make([]*order.Order, 0, len(models))
	for i := range models {
		orders = append(orders, toOrderEntity(&models[i]))
	}
	return orders, total, nil
}

// toOrderModel 领域实体转持久化模型
func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemModel{
			ID:       item.ID,
			OrderID:  item.OrderID,
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return &OrderModel{
		ID:               o.ID,
		OrderNo:          o.OrderNo,
		Username:         o.Username,
		ShippingAddress:  o.ShippingAddress,
		Total:            o.Total,
		Status:           int(o.Status),
		InventoryDebited: o.InventoryDebited,
		Items:            items,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// toOrderEntity 持久化模型转领域实体
func toOrderEntity(m *OrderModel) *order.Order {
	items := make([]order.OrderItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, order.OrderItem{
			ID:       item.ID,
			OrderID:  item.OrderID,
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return &order.Order{
		ID:               m.ID,
		OrderNo:          m.OrderNo,
		Username:         m.Username,
		ShippingAddress:  m.ShippingAddress,
		Total:            m.Total,
		Status:           order.OrderStatus(m.Status),
		InventoryDebited: m.InventoryDebited,
		Items:            items,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
