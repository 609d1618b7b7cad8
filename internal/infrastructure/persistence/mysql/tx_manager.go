package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txKey 事务在 context 中的键,使用私有类型避免与其他包冲突
type txKey struct{}

// TxManager 事务管理器
//
// 教学要点:
// 1. 应用层通过 Transaction 包裹多个仓储调用,保证同生共死
// 2. 事务句柄放入 context 向下传递,仓储通过 getDB(ctx) 自动感知
// 3. 回调返回 error 时 GORM 自动回滚,返回 nil 时提交
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 在事务中执行回调
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// getDB 从 context 中取事务句柄,不存在时回退到普通连接
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
