package cj

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ==================== 通用响应 ====================

// Envelope CJ 统一响应包装 {code, result, message, data}
// code == 200 表示成功
type Envelope struct {
	Code      int             `json:"code"`
	Result    bool            `json:"result"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"requestId,omitempty"`
}

// OK 是否成功
func (e *Envelope) OK() bool {
	return e != nil && e.Code == 200
}

// Decode 把 data 解析到 v，data 为空时不做任何事
func (e *Envelope) Decode(v interface{}) error {
	if e == nil || isEmptyJSON(e.Data) {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// ==================== 宽松类型 ====================

// FlexString 兼容字符串和数字两种写法（例如 sellPrice）
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(string(b))
	return nil
}

func (f FlexString) String() string { return string(f) }

// FlexInt 兼容数字和数字字符串，无法解析时为 0
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt(int(v))
		return nil
	}
	*f = 0
	return nil
}

// ==================== 鉴权 ====================

// TokenData getAccessToken / refreshAccessToken 返回数据
type TokenData struct {
	AccessToken            string `json:"accessToken"`
	AccessTokenExpiryDate  string `json:"accessTokenExpiryDate"`
	RefreshToken           string `json:"refreshToken"`
	RefreshTokenExpiryDate string `json:"refreshTokenExpiryDate"`
}

// ==================== 商品 ====================

// ListQuery 商品搜索条件
type ListQuery struct {
	Keyword    string
	CategoryID string
	Page       int
	PageSize   int
}

// Variant 商品变体
type Variant struct {
	Vid              string     `json:"vid"`
	Pid              string     `json:"pid,omitempty"`
	VariantNameEn    string     `json:"variantNameEn,omitempty"`
	VariantSku       string     `json:"variantSku,omitempty"`
	VariantImage     string     `json:"variantImage,omitempty"`
	VariantSellPrice FlexString `json:"variantSellPrice,omitempty"`
}

// Product CJ 原始商品（列表和详情共用）
// productImage 可能是 URL 字符串、JSON 数组字符串或原生数组，保留原始 JSON
type Product struct {
	Pid            string          `json:"pid"`
	Vid            string          `json:"vid,omitempty"`
	ProductName    string          `json:"productName,omitempty"`
	ProductNameEn  string          `json:"productNameEn,omitempty"`
	ProductSku     string          `json:"productSku,omitempty"`
	ProductImage   json.RawMessage `json:"productImage,omitempty"`
	SellPrice      FlexString      `json:"sellPrice,omitempty"`
	CategoryID     string          `json:"categoryId,omitempty"`
	CategoryName   string          `json:"categoryName,omitempty"`
	Description    string          `json:"description,omitempty"`
	AvailableStock FlexInt         `json:"availableStock,omitempty"`
	Variants       []Variant       `json:"variants,omitempty"`
}

// VariantID 顶层 vid 优先，否则取第一个变体
func (p *Product) VariantID() string {
	if p.Vid != "" {
		return p.Vid
	}
	for _, v := range p.Variants {
		if v.Vid != "" {
			return v.Vid
		}
	}
	return ""
}

// ProductPage 商品分页
type ProductPage struct {
	PageNum  int       `json:"pageNum"`
	PageSize int       `json:"pageSize"`
	Total    int       `json:"total"`
	List     []Product `json:"list"`
}

// CategoryLeaf 三级类目
type CategoryLeaf struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

// CategorySecond 二级类目
type CategorySecond struct {
	CategorySecondName string         `json:"categorySecondName"`
	CategorySecondList []CategoryLeaf `json:"categorySecondList"`
}

// CategoryGroup 一级类目
type CategoryGroup struct {
	CategoryFirstName string           `json:"categoryFirstName"`
	CategoryFirstList []CategorySecond `json:"categoryFirstList"`
}

// StockInfo 变体库存
type StockInfo struct {
	Vid            string  `json:"vid"`
	AvailableStock FlexInt `json:"availableStock"`
}

// ==================== 订单 ====================

// ShippingAddress 收货地址
type ShippingAddress struct {
	CountryCode  string `json:"countryCode"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	Zip          string `json:"zip"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// OrderLine 订单行
type OrderLine struct {
	Vid      string `json:"vid"`
	Quantity int    `json:"quantity"`
}

// OrderRequest 创建订单请求
type OrderRequest struct {
	OrderNumber     string          `json:"orderNumber"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Products        []OrderLine     `json:"products"`
	LogisticName    string          `json:"logisticName"`
	Remark          string          `json:"remark"`
}

// OrderResult 创建订单返回
type OrderResult struct {
	OrderID  string `json:"orderId"`
	OrderNum string `json:"orderNum"`
}

// OrderStatus 订单状态
type OrderStatus struct {
	OrderID      string     `json:"orderId"`
	OrderNum     string     `json:"orderNum"`
	OrderStatus  string     `json:"orderStatus"`
	TrackNumber  string     `json:"trackNumber,omitempty"`
	LogisticName string     `json:"logisticName,omitempty"`
	OrderAmount  FlexString `json:"orderAmount,omitempty"`
}

// TrackingInfo 物流轨迹
type TrackingInfo struct {
	TrackingNumber string          `json:"trackingNumber"`
	LogisticName   string          `json:"logisticName,omitempty"`
	TrackingFrom   string          `json:"trackingFrom,omitempty"`
	TrackingTo     string          `json:"trackingTo,omitempty"`
	DeliveryDay    string          `json:"deliveryDay,omitempty"`
	DeliveryTime   string          `json:"deliveryTime,omitempty"`
	TrackingStatus string          `json:"trackingStatus,omitempty"`
	Routes         json.RawMessage `json:"routes,omitempty"`
}

// decodeTracking data 可能是数组也可能是单个对象
func decodeTracking(raw json.RawMessage) ([]TrackingInfo, error) {
	trimmed := bytes.TrimSpace(raw)
	if isEmptyJSON(trimmed) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var list []TrackingInfo
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var one TrackingInfo
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, err
	}
	return []TrackingInfo{one}, nil
}
