package cj

import (
	"net/http"
	"strings"
)

// 业务操作名，对应 Endpoints 的 key
const (
	OpAuthToken     = "auth_token"
	OpAuthRefresh   = "auth_refresh"
	OpProductList   = "product_list"
	OpProductDetail = "product_detail"
	OpCategories    = "categories"
	OpCreateOrder   = "create_order"
	OpOrderStatus   = "order_status"
	OpTracking      = "tracking"
	OpStock         = "stock"
)

// Endpoint 单个接口的 method + path
type Endpoint struct {
	Method string
	Path   string
}

// Endpoints 操作名 -> 接口
type Endpoints map[string]Endpoint

// DefaultEndpoints CJ api2.0/v1 默认接口表
func DefaultEndpoints() Endpoints {
	return Endpoints{
		OpAuthToken:     {Method: http.MethodPost, Path: "/authentication/getAccessToken"},
		OpAuthRefresh:   {Method: http.MethodPost, Path: "/authentication/refreshAccessToken"},
		OpProductList:   {Method: http.MethodPost, Path: "/product/list"},
		OpProductDetail: {Method: http.MethodPost, Path: "/product/query"},
		OpCategories:    {Method: http.MethodGet, Path: "/product/category/list"},
		OpCreateOrder:   {Method: http.MethodPost, Path: "/shopping/order/createOrder"},
		OpOrderStatus:   {Method: http.MethodPost, Path: "/shopping/order/query"},
		OpTracking:      {Method: http.MethodPost, Path: "/logistic/trackQuery"},
		OpStock:         {Method: http.MethodPost, Path: "/product/variant/queryByVid"},
	}
}

// With 用配置覆盖默认接口，缺省字段沿用默认值
func (e Endpoints) With(overrides map[string]Endpoint) Endpoints {
	out := make(Endpoints, len(e))
	for k, v := range e {
		out[k] = v
	}
	for op, ov := range overrides {
		cur := out[op]
		if ov.Method != "" {
			cur.Method = strings.ToUpper(ov.Method)
		}
		if ov.Path != "" {
			cur.Path = ov.Path
		}
		if cur.Method == "" {
			cur.Method = http.MethodPost
		}
		out[op] = cur
	}
	return out
}

// Get 按操作名取接口
func (e Endpoints) Get(op string) Endpoint {
	if ep, ok := e[op]; ok {
		return ep
	}
	return DefaultEndpoints()[op]
}
