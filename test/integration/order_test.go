package integration

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：订单模块集成测试
// 覆盖完整业务链路:购物车 → 下单结算 → 库存扣减 → 状态流转。
// 并发场景使用真实HTTP请求验证数据库层的条件扣减不会超卖。

// TestCartFlow 测试购物车设置与查询
func TestCartFlow(t *testing.T) {
	RequireServer(t)

	adminToken := AdminToken(t)
	_, token := RegisterTestUser(t, "cart")

	bookID := PublishTestBook(t, adminToken, fmt.Sprintf("购物车用书_%d", time.Now().UnixNano()), 3000, 10)

	t.Run("设置并查询购物车", func(t *testing.T) {
		SetTestCart(t, token, []map[string]interface{}{
			{"book_id": bookID, "quantity": 2},
		})

		resp := GetJSON(t, BaseURL+"/cart", token)
		require.Equal(t, 0, resp.Code, "查询购物车失败: %s", resp.Message)

		var cart CartData
		err := json.Unmarshal(resp.Data, &cart)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, bookID, cart.Items[0].BookID)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, int64(6000), cart.Total, "合计=单价×数量")
	})

	t.Run("超出库存的数量被拒绝", func(t *testing.T) {
		resp := PutJSON(t, BaseURL+"/cart", map[string]interface{}{
			"items": []map[string]interface{}{
				{"book_id": bookID, "quantity": 999},
			},
		}, token)
		assert.Equal(t, 40001, resp.Code, "超库存加购应返回40001")
	})

	t.Run("不存在的图书被拒绝", func(t *testing.T) {
		resp := PutJSON(t, BaseURL+"/cart", map[string]interface{}{
			"items": []map[string]interface{}{
				{"book_id": 99999999, "quantity": 1},
			},
		}, token)
		assert.Equal(t, 40402, resp.Code, "不存在的图书应返回40402")
	})

	t.Run("空列表清空购物车", func(t *testing.T) {
		SetTestCart(t, token, []map[string]interface{}{})

		resp := GetJSON(t, BaseURL+"/cart", token)
		require.Equal(t, 0, resp.Code)

		var cart CartData
		err := json.Unmarshal(resp.Data, &cart)
		require.NoError(t, err)
		assert.Empty(t, cart.Items, "购物车应已清空")
	})
}

// TestOrderCheckout 测试下单结算
func TestOrderCheckout(t *testing.T) {
	RequireServer(t)

	adminToken := AdminToken(t)

	t.Run("空购物车下单失败", func(t *testing.T) {
		_, token := RegisterTestUser(t, "empty")

		resp := PostJSON(t, BaseURL+"/orders/checkout", map[string]string{
			"shipping_address": "北京市海淀区中关村1号",
		}, token)
		assert.Equal(t, 40006, resp.Code, "空购物车下单应返回40006")
	})

	t.Run("正常下单:快照价格与库存扣减", func(t *testing.T) {
		_, token := RegisterTestUser(t, "buyer")
		bookID := PublishTestBook(t, adminToken, fmt.Sprintf("结算用书_%d", time.Now().UnixNano()), 4500, 10)

		SetTestCart(t, token, []map[string]interface{}{
			{"book_id": bookID, "quantity": 3},
		})

		order := CheckoutTestOrder(t, token)
		assert.NotEmpty(t, order.OrderNo, "应生成订单号")
		assert.Equal(t, "Pending", order.Status, "新订单应为待发货")
		assert.Equal(t, int64(13500), order.Total, "订单金额=快照单价×数量")
		require.Len(t, order.Items, 1)
		assert.Equal(t, int64(4500), order.Items[0].Price, "明细记录成交时的快照单价")

		// 库存已扣减,销量已累加
		book := GetTestBook(t, bookID)
		assert.Equal(t, 7, book.Stock, "库存应从10减到7")
		assert.Equal(t, 3, book.SoldQty, "销量应累加3")

		// 下单成功后购物车被清空
		cartResp := GetJSON(t, BaseURL+"/cart", token)
		require.Equal(t, 0, cartResp.Code)
		var cart CartData
		require.NoError(t, json.Unmarshal(cartResp.Data, &cart))
		assert.Empty(t, cart.Items, "下单成功后购物车应清空")
	})

	t.Run("促销价优先作为成交价", func(t *testing.T) {
		_, token := RegisterTestUser(t, "sale")
		title := fmt.Sprintf("促销用书_%d", time.Now().UnixNano())

		resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
			"title":      title,
			"author":     "测试作者",
			"genre":      "测试分类",
			"publisher":  "测试出版社",
			"price":      8000,
			"sale_price": 5000,
			"stock":      5,
		}, adminToken)
		require.Equal(t, 0, resp.Code, "上架失败: %s", resp.Message)
		var book BookData
		require.NoError(t, json.Unmarshal(resp.Data, &book))

		SetTestCart(t, token, []map[string]interface{}{
			{"book_id": book.ID, "quantity": 1},
		})

		order := CheckoutTestOrder(t, token)
		assert.Equal(t, int64(5000), order.Total, "促销价应优先于原价")
	})

	t.Run("库存不足整单失败且不留残单", func(t *testing.T) {
		_, token := RegisterTestUser(t, "oos")
		okID := PublishTestBook(t, adminToken, fmt.Sprintf("充足_%d", time.Now().UnixNano()), 2000, 10)
		lowID := PublishTestBook(t, adminToken, fmt.Sprintf("紧缺_%d", time.Now().UnixNano()), 2000, 10)

		// 加购时库存充足
		SetTestCart(t, token, []map[string]interface{}{
			{"book_id": okID, "quantity": 2},
			{"book_id": lowID, "quantity": 8},
		})

		// 下单前被其他买家抢购,库存降到5
		_, rival := RegisterTestUser(t, "rival")
		SetTestCart(t, rival, []map[string]interface{}{
			{"book_id": lowID, "quantity": 5},
		})
		CheckoutTestOrder(t, rival)

		resp := PostJSON(t, BaseURL+"/orders/checkout", map[string]string{
			"shipping_address": "北京市海淀区中关村1号",
		}, token)
		assert.Equal(t, 40001, resp.Code, "库存不足应返回40001")

		// 第一行已扣减的库存必须回滚
		okBook := GetTestBook(t, okID)
		assert.Equal(t, 10, okBook.Stock, "失败订单不应扣减任何库存")

		// 购物车保留,买家可调整数量重试
		cartResp := GetJSON(t, BaseURL+"/cart", token)
		require.Equal(t, 0, cartResp.Code)
		var cart CartData
		require.NoError(t, json.Unmarshal(cartResp.Data, &cart))
		assert.Len(t, cart.Items, 2, "失败后购物车应保留")

		// 没有产生订单
		listResp := GetJSON(t, BaseURL+"/orders", token)
		require.Equal(t, 0, listResp.Code)
		var list OrderListData
		require.NoError(t, json.Unmarshal(listResp.Data, &list))
		assert.Equal(t, int64(0), list.Total, "失败的下单不应留下订单")
	})
}

// TestOrderConcurrency 测试并发下单不超卖
//
// 教学说明：
// 10个买家同时抢购库存只有3本的书,依赖数据库的条件UPDATE保证:
// - 恰好3人成功,7人收到库存不足
// - 最终库存为0,不会出现负数
func TestOrderConcurrency(t *testing.T) {
	RequireServer(t)

	adminToken := AdminToken(t)
	bookID := PublishTestBook(t, adminToken, fmt.Sprintf("抢购_%d", time.Now().UnixNano()), 9900, 3)

	const buyers = 10

	// 先串行准备好所有买家的购物车,只让checkout并发
	tokens := make([]string, buyers)
	for i := 0; i < buyers; i++ {
		_, token := RegisterTestUser(t, fmt.Sprintf("race%d", i))
		SetTestCart(t, token, []map[string]interface{}{
			{"book_id": bookID, "quantity": 1},
		})
		tokens[i] = token
	}

	var wg sync.WaitGroup
	codes := make([]int, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := PostJSON(t, BaseURL+"/orders/checkout", map[string]string{
				"shipping_address": "北京市海淀区中关村1号",
			}, tokens[i])
			codes[i] = resp.Code
		}(i)
	}
	wg.Wait()

	succeeded, outOfStock := 0, 0
	for _, code := range codes {
		switch code {
		case 0:
			succeeded++
		case 40001:
			outOfStock++
		default:
			t.Errorf("意外的响应码: %d", code)
		}
	}

	assert.Equal(t, 3, succeeded, "成功数应等于初始库存")
	assert.Equal(t, buyers-3, outOfStock, "其余买家应收到库存不足")

	book := GetTestBook(t, bookID)
	assert.Equal(t, 0, book.Stock, "最终库存应为0")
	assert.Equal(t, 3, book.SoldQty, "销量应等于成交数")
}

// TestOrderStatusFlow 测试订单状态流转
func TestOrderStatusFlow(t *testing.T) {
	RequireServer(t)

	adminToken := AdminToken(t)

	newOrder := func(t *testing.T, prefix string) (token string, orderID uint) {
		_, token = RegisterTestUser(t, prefix)
		bookID := PublishTestBook(t, adminToken, fmt.Sprintf("%s用书_%d", prefix, time.Now().UnixNano()), 3000, 10)
		SetTestCart(t, token, []map[string]interface{}{
			{"book_id": bookID, "quantity": 1},
		})
		order := CheckoutTestOrder(t, token)
		return token, order.ID
	}

	updateStatus := func(t *testing.T, token string, orderID uint, status int) *Response {
		return PutJSON(t, fmt.Sprintf("%s/orders/%d/status", BaseURL, orderID),
			map[string]int{"status": status}, token)
	}

	t.Run("管理员发货与送达", func(t *testing.T) {
		token, orderID := newOrder(t, "ship")

		resp := updateStatus(t, adminToken, orderID, 2)
		require.Equal(t, 0, resp.Code, "发货失败: %s", resp.Message)

		resp = updateStatus(t, adminToken, orderID, 3)
		require.Equal(t, 0, resp.Code, "确认送达失败: %s", resp.Message)

		getResp := GetJSON(t, fmt.Sprintf("%s/orders/%d", BaseURL, orderID), token)
		require.Equal(t, 0, getResp.Code)
		var order OrderData
		require.NoError(t, json.Unmarshal(getResp.Data, &order))
		assert.Equal(t, "Delivered", order.Status)
	})

	t.Run("状态名形式的请求体", func(t *testing.T) {
		_, orderID := newOrder(t, "byname")

		resp := PutJSON(t, fmt.Sprintf("%s/orders/%d/status", BaseURL, orderID),
			map[string]string{"status": "Shipped"}, adminToken)
		require.Equal(t, 0, resp.Code, "状态名形式应被接受: %s", resp.Message)
		var order OrderData
		require.NoError(t, json.Unmarshal(resp.Data, &order))
		assert.Equal(t, "Shipped", order.Status)
	})

	t.Run("待发货不能直接送达", func(t *testing.T) {
		_, orderID := newOrder(t, "jump")

		resp := updateStatus(t, adminToken, orderID, 3)
		assert.Equal(t, 40002, resp.Code, "跳过发货环节应返回40002")
	})

	t.Run("买家取消自己的待发货订单", func(t *testing.T) {
		token, orderID := newOrder(t, "cancel")

		resp := updateStatus(t, token, orderID, 4)
		require.Equal(t, 0, resp.Code, "取消失败: %s", resp.Message)

		// 终态重复请求是幂等空操作
		resp = updateStatus(t, token, orderID, 4)
		assert.Equal(t, 0, resp.Code, "重复取消应幂等成功")

		// 对终态请求其他状态同样是幂等空操作,订单保持不变
		resp = updateStatus(t, adminToken, orderID, 2)
		require.Equal(t, 0, resp.Code, "终态订单的发货请求应幂等成功: %s", resp.Message)
		var order OrderData
		require.NoError(t, json.Unmarshal(resp.Data, &order))
		assert.Equal(t, "Cancelled", order.Status, "订单状态不应被修改")
	})

	t.Run("买家不能发货", func(t *testing.T) {
		token, orderID := newOrder(t, "noship")

		resp := updateStatus(t, token, orderID, 2)
		assert.Equal(t, 40002, resp.Code, "买家发货应被拒绝")
	})

	t.Run("看不到他人的订单", func(t *testing.T) {
		_, orderID := newOrder(t, "owner")
		_, stranger := RegisterTestUser(t, "stranger")

		resp := GetJSON(t, fmt.Sprintf("%s/orders/%d", BaseURL, orderID), stranger)
		assert.Equal(t, 40403, resp.Code, "他人订单应返回40403而非权限错误")

		cancelResp := updateStatus(t, stranger, orderID, 4)
		assert.Equal(t, 40403, cancelResp.Code, "他人订单不可取消")
	})

	t.Run("管理员查询全部订单", func(t *testing.T) {
		username, orderID := func() (string, uint) {
			name, token := RegisterTestUser(t, "adminq")
			bookID := PublishTestBook(t, adminToken, fmt.Sprintf("管理查询_%d", time.Now().UnixNano()), 3000, 10)
			SetTestCart(t, token, []map[string]interface{}{
				{"book_id": bookID, "quantity": 1},
			})
			order := CheckoutTestOrder(t, token)
			return name, order.ID
		}()

		resp := GetJSON(t, BaseURL+"/admin/orders?username="+username, adminToken)
		require.Equal(t, 0, resp.Code, "管理员查询失败: %s", resp.Message)

		var list OrderListData
		require.NoError(t, json.Unmarshal(resp.Data, &list))
		require.Equal(t, int64(1), list.Total)
		assert.Equal(t, orderID, list.Orders[0].ID)
	})
}
