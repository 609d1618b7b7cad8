package user

import (
	"time"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. User是用户聚合的根实体，用户名是业务唯一标识
// 2. 密码已加密存储（bcrypt），不应该有GetPassword()等方法暴露明文
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
// 4. 购物车归属于用户聚合：一个用户一个购物车，整体读整体写
type User struct {
	ID        uint
	Username  string // 用户名（业务唯一标识）
	Password  string // bcrypt哈希值
	FullName  string
	Email     string
	Phone     string
	Address   string
	IsAdmin   bool // 管理员标记（图书/分类管理、订单状态流转）
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, hashedPassword string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateProfile 更新个人资料（领域行为）
// 空字符串表示不修改该字段
func (u *User) UpdateProfile(fullName, email, phone, address string) {
	if fullName != "" {
		u.FullName = fullName
	}
	if email != "" {
		u.Email = email
	}
	if phone != "" {
		u.Phone = phone
	}
	if address != "" {
		u.Address = address
	}
	u.UpdatedAt = time.Now()
}

// CartItem 购物车行（用户聚合内的值对象）
// 设计说明：
// 1. Position保证展示顺序与用户提交顺序一致
// 2. Title/CoverURL/Price是写入购物车时的展示快照，
//    每次整体替换购物车时按图书当前状态刷新
// 3. 下单成交价不取这里的快照，以下单瞬间的图书价格为准
type CartItem struct {
	Position int    // 行序号（从0开始）
	BookID   uint   // 图书ID
	Quantity int    // 购买数量
	Title    string // 展示快照：书名
	CoverURL string // 展示快照：封面
	Price    int64  // 展示快照：当前成交单价（分）
}
