package order

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderNo 生成订单号
// 教学要点:订单号设计原则
// 1. 全局唯一(数据库UNIQUE索引兜底)
// 2. 时间有序(便于分库分表)
// 3. 不可预测(防止恶意遍历)
//
// 格式:BW + 时间戳(秒) + 6位随机数
// 示例:BW1756444800123456
//
// 生产环境推荐:
// - 雪花算法(Snowflake):分布式唯一ID
// - UUID:简单但无序
func GenerateOrderNo() string {
	timestamp := time.Now().Unix()
	random := rand.Intn(1000000) // 6位随机数
	return fmt.Sprintf("BW%d%06d", timestamp, random)
}
