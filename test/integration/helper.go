package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明：测试辅助工具
// 这个文件包含集成测试的通用辅助函数，遵循DRY原则（Don't Repeat Yourself）
// 将重复的代码（HTTP请求、JSON解析）封装成可复用的函数
//
// 运行方式：
//   make test-integration   # 需要先启动Docker环境（MySQL+Redis）和服务本身
//   go test -v ./test/integration/...
// 服务未启动时测试会自动跳过，不会误报失败。

const (
	// ServerURL 服务根地址
	ServerURL = "http://localhost:8080"
	// BaseURL API基础URL
	BaseURL = ServerURL + "/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// LoginData 登录响应数据
type LoginData struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	IsAdmin      bool   `json:"is_admin"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// BookData 图书响应数据
type BookData struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Genre     string `json:"genre"`
	Publisher string `json:"publisher"`
	Price     int64  `json:"price"`
	SalePrice int64  `json:"sale_price"`
	Stock     int    `json:"stock"`
	SoldQty   int    `json:"sold_qty"`
}

// BookListData 图书列表响应数据
type BookListData struct {
	Books    []BookData `json:"books"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// CartItemData 购物车行数据
type CartItemData struct {
	BookID   uint   `json:"book_id"`
	Quantity int    `json:"quantity"`
	Title    string `json:"title"`
	Price    int64  `json:"price"`
	Subtotal int64  `json:"subtotal"`
}

// CartData 购物车响应数据
type CartData struct {
	Items     []CartItemData `json:"items"`
	Total     int64          `json:"total"`
	TotalYuan string         `json:"total_yuan"`
}

// OrderItemData 订单明细数据
type OrderItemData struct {
	BookID   uint  `json:"book_id"`
	Quantity int   `json:"quantity"`
	Price    int64 `json:"price"`
	Subtotal int64 `json:"subtotal"`
}

// OrderData 订单响应数据
type OrderData struct {
	ID        uint            `json:"id"`
	OrderNo   string          `json:"order_no"`
	Username  string          `json:"username"`
	Total     int64           `json:"total"`
	TotalYuan string          `json:"total_yuan"`
	Status    string          `json:"status"`
	Items     []OrderItemData `json:"items"`
}

// OrderListData 订单列表响应数据
type OrderListData struct {
	Orders   []OrderData `json:"orders"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// RequireServer 检查服务是否可达，不可达则跳过当前测试
//
// 教学说明：
// 集成测试依赖运行中的服务和真实数据库。
// 用t.Skip代替失败，保证 `go test ./...` 在无Docker环境下也能通过。
func RequireServer(t *testing.T) {
	t.Helper()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(ServerURL + "/ping")
	if err != nil {
		t.Skipf("服务未启动,跳过集成测试: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Skipf("服务健康检查失败,跳过集成测试: status=%d", resp.StatusCode)
	}
}

// doJSON 发送带JSON体的HTTP请求并解析统一响应
func doJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, http.MethodPost, url, data, token)
}

// PutJSON 发送PUT请求并解析JSON响应
func PutJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, http.MethodPut, url, data, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, http.MethodGet, url, nil, token)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, http.MethodDelete, url, nil, token)
}

// GenerateTestUsername 生成唯一的测试用户名
//
// 教学说明：
// 使用纳秒时间戳确保唯一性，避免测试重复运行时用户名冲突。
// 用户名规则是3-32位字母、数字、下划线，时间戳取模控制长度。
func GenerateTestUsername(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano()%1000000000)
}

// RegisterTestUser 注册测试用户并返回用户名和Token
//
// 教学说明：
// 这是一个"高阶"辅助函数，封装了注册+登录的完整流程，
// 让测试更关注业务逻辑而非基础设施。
func RegisterTestUser(t *testing.T, prefix string) (username string, token string) {
	t.Helper()

	username = GenerateTestUsername(prefix)
	registerReq := map[string]string{
		"username": username,
		"password": "Test1234",
	}

	registerResp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	loginReq := map[string]string{
		"username": username,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, BaseURL+"/users/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return username, loginData.AccessToken
}

// AdminToken 获取管理员Token
//
// 教学说明：
// 图书/分类的写接口需要管理员权限，管理员账号由数据库种子数据创建。
// 账号密码可通过环境变量覆盖，默认与docker-compose种子脚本一致。
// 管理员账号不可用时跳过测试而非失败。
func AdminToken(t *testing.T) string {
	t.Helper()

	username := os.Getenv("BOOKWEB_TEST_ADMIN_USER")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("BOOKWEB_TEST_ADMIN_PASSWORD")
	if password == "" {
		password = "Admin1234"
	}

	loginResp := PostJSON(t, BaseURL+"/users/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	if loginResp.Code != 0 {
		t.Skipf("管理员账号不可用,跳过测试: %s", loginResp.Message)
	}

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析管理员登录响应失败")
	require.True(t, loginData.IsAdmin, "测试账号不是管理员")

	return loginData.AccessToken
}

// PublishTestBook 上架测试图书并返回图书ID
func PublishTestBook(t *testing.T, adminToken string, title string, price int64, stock int) uint {
	t.Helper()

	bookReq := map[string]interface{}{
		"title":       title,
		"author":      "测试作者",
		"genre":       "测试分类",
		"publisher":   "测试出版社",
		"price":       price,
		"stock":       stock,
		"description": "集成测试用图书",
	}

	bookResp := PostJSON(t, BaseURL+"/books", bookReq, adminToken)
	require.Equal(t, 0, bookResp.Code, "图书上架失败: %s", bookResp.Message)

	var bookData BookData
	err := json.Unmarshal(bookResp.Data, &bookData)
	require.NoError(t, err, "解析图书响应失败")

	return bookData.ID
}

// SetTestCart 设置购物车
func SetTestCart(t *testing.T, token string, items []map[string]interface{}) {
	t.Helper()

	resp := PutJSON(t, BaseURL+"/cart", map[string]interface{}{"items": items}, token)
	require.Equal(t, 0, resp.Code, "设置购物车失败: %s", resp.Message)
}

// CheckoutTestOrder 下单并返回订单数据
func CheckoutTestOrder(t *testing.T, token string) *OrderData {
	t.Helper()

	resp := PostJSON(t, BaseURL+"/orders/checkout", map[string]string{
		"shipping_address": "北京市海淀区中关村1号",
	}, token)
	require.Equal(t, 0, resp.Code, "下单失败: %s", resp.Message)

	var orderData OrderData
	err := json.Unmarshal(resp.Data, &orderData)
	require.NoError(t, err, "解析订单响应失败")

	return &orderData
}

// GetTestBook 查询图书详情
func GetTestBook(t *testing.T, bookID uint) *BookData {
	t.Helper()

	resp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
	require.Equal(t, 0, resp.Code, "查询图书失败: %s", resp.Message)

	var bookData BookData
	err := json.Unmarshal(resp.Data, &bookData)
	require.NoError(t, err, "解析图书响应失败")

	return &bookData
}
