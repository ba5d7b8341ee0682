package model

import (
	"time"

	"gorm.io/datatypes"
)

// RelayStatus 转单结果
type RelayStatus string

const (
	RelayStatusSubmitted RelayStatus = "submitted" // 供应商已受理
	RelayStatusFailed    RelayStatus = "failed"    // 供应商拒绝或不可达
	RelayStatusSkipped   RelayStatus = "skipped"   // 没有可转发的订单行
)

// RelayLine 转发给供应商的订单行
type RelayLine struct {
	ProductID int64  `json:"product_id,omitempty"`
	Vid       string `json:"vid"`
	Quantity  int    `json:"quantity"`
}

// SupplierOrder 转单记录
// 本地订单号与供应商订单号在这里留存，供应商失败不影响本地订单
type SupplierOrder struct {
	BaseModel
	OrderNumber     string                         `gorm:"size:64;uniqueIndex;not null" json:"order_number"`
	CJOrderNumber   string                         `gorm:"column:cj_order_number;size:128;index" json:"cj_order_number"`
	CJOrderID       string                         `gorm:"column:cj_order_id;size:128" json:"cj_order_id"`
	Status          RelayStatus                    `gorm:"size:32;index" json:"status"`
	ErrorMsg        string                         `gorm:"size:1024" json:"error_msg,omitempty"`
	CustomerEmail   string                         `gorm:"size:255" json:"customer_email"`
	LogisticName    string                         `gorm:"size:128" json:"logistic_name"`
	Lines           datatypes.JSONSlice[RelayLine] `json:"lines"`
	ExcludedIDs     datatypes.JSONSlice[int64]     `json:"excluded_product_ids"`
	SupplierStatus  string                         `gorm:"size:64" json:"supplier_status,omitempty"`
	StatusCheckedAt *time.Time                     `json:"status_checked_at,omitempty"`
}

func (SupplierOrder) TableName() string {
	return "supplier_orders"
}
