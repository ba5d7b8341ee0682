package dto

import (
	"primepet_supply/internal/service"
)

// ==================== 请求 DTO ====================

// OrderItemReq 购物车行：product_id 和 vid 至少给一个
type OrderItemReq struct {
	ProductID int64  `json:"product_id"`
	Vid       string `json:"vid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CustomerReq 收货人（字段名与店铺前端一致）
type CustomerReq struct {
	Country   string `json:"country"` // ISO 国家码，默认 DE
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// RelayOrderReq 转单请求
type RelayOrderReq struct {
	OrderNumber    string         `json:"order_number"` // 可选，为空时服务端生成
	Items          []OrderItemReq `json:"items" binding:"required,min=1,dive"`
	Customer       CustomerReq    `json:"customer"`
	ShippingMethod string         `json:"shipping_method"`
	Notes          string         `json:"notes"`
}

// ToRelayRequest 转成服务层请求
func (r *RelayOrderReq) ToRelayRequest() service.RelayRequest {
	items := make([]service.RelayItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, service.RelayItem{ProductID: it.ProductID, Vid: it.Vid, Quantity: it.Quantity})
	}
	return service.RelayRequest{
		OrderNumber: r.OrderNumber,
		Items:       items,
		Customer: service.Customer{
			FirstName: r.Customer.FirstName,
			LastName:  r.Customer.LastName,
			Email:     r.Customer.Email,
			Phone:     r.Customer.Phone,
			Address:   r.Customer.Address,
			City:      r.Customer.City,
			Zip:       r.Customer.Zip,
			Country:   r.Customer.Country,
		},
		ShippingMethod: r.ShippingMethod,
		Notes:          r.Notes,
	}
}

// ==================== 响应 DTO ====================

// RelayOrderResp 转单结果
type RelayOrderResp struct {
	Success       bool    `json:"success"`
	Status        string  `json:"status"`
	OrderNumber   string  `json:"order_number"`
	CJOrderNumber string  `json:"cj_order_number,omitempty"`
	Excluded      []int64 `json:"excluded_product_ids,omitempty"`
	Message       string  `json:"message,omitempty"`
	Error         string  `json:"error,omitempty"`
}
