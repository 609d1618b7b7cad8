// Package payment 提供支付网关对接实现
package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/is216/bookweb/internal/infrastructure/config"
)

// VNPayGateway VNPay支付网关
//
// 设计说明:
// 1. 只实现两个最小能力:构造签名后的支付跳转URL、校验回调结果
// 2. 签名算法为HMAC-SHA512,参数按键名升序排列后拼接
// 3. 回调中vnp_ResponseCode为"00"表示支付成功,其余一律视为失败
type VNPayGateway struct {
	cfg *config.PaymentConfig
}

// NewVNPayGateway 创建VNPay网关
func NewVNPayGateway(cfg *config.PaymentConfig) *VNPayGateway {
	return &VNPayGateway{cfg: cfg}
}

// BuildPaymentURL 为订单构造支付跳转URL
// amount为订单金额(分),VNPay要求金额放大100倍传输
func (g *VNPayGateway) BuildPaymentURL(orderNo string, amount int64, clientIP string) string {
	now := time.Now()
	params := map[string]string{
		"vnp_Version":    "2.1.0",
		"vnp_Command":    "pay",
		"vnp_TmnCode":    g.cfg.TmnCode,
		"vnp_Amount":     fmt.Sprintf("%d", amount*100),
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     orderNo,
		"vnp_OrderInfo":  "Thanh toan don hang " + orderNo,
		"vnp_OrderType":  "other",
		"vnp_Locale":     "vn",
		"vnp_ReturnUrl":  g.cfg.ReturnURL,
		"vnp_IpAddr":     clientIP,
		"vnp_CreateDate": now.Format("20060102150405"),
		"vnp_ExpireDate": now.Add(15 * time.Minute).Format("20060102150405"),
	}

	query := buildSortedQuery(params)
	signature := g.sign(query)
	return g.cfg.VNPayURL + "?" + query + "&vnp_SecureHash=" + signature
}

// VerifyCallback 校验支付回调
// 返回(订单号, 是否支付成功, 错误);签名不合法时返回错误
func (g *VNPayGateway) VerifyCallback(params url.Values) (string, bool, error) {
	receivedHash := params.Get("vnp_SecureHash")
	if receivedHash == "" {
		return "", false, fmt.Errorf("回调缺少签名")
	}

	// 重新计算签名时排除签名字段本身
	signParams := make(map[string]string)
	for key := range params {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		signParams[key] = params.Get(key)
	}

	expected := g.sign(buildSortedQuery(signParams))
	if !hmac.Equal([]byte(expected), []byte(receivedHash)) {
		return "", false, fmt.Errorf("回调签名校验失败")
	}

	orderNo := params.Get("vnp_TxnRef")
	success := params.Get("vnp_ResponseCode") == "00"
	return orderNo, success, nil
}

// sign 计算HMAC-SHA512签名
func (g *VNPayGateway) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(g.cfg.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// buildSortedQuery 按键名升序构造查询串(键值均做URL编码)
func buildSortedQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, key := range keys {
		if i > 0 {
			sb.WriteString("&")
		}
		sb.WriteString(url.QueryEscape(key))
		sb.WriteString("=")
		sb.WriteString(url.QueryEscape(params[key]))
	}
	return sb.String()
}
