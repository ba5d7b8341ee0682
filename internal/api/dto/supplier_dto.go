package dto

import (
	"github.com/shopspring/decimal"

	"primepet_supply/internal/service"
)

// ==================== 供应商浏览 ====================

// SupplierListQuery 供应商商品搜索参数
type SupplierListQuery struct {
	CategoryID string `form:"categoryId"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
	Search     string `form:"search"`
}

// ==================== 导入 ====================

// ImportProductReq 导入 / 预览请求
// markup 为系数（1.5），markup_percent 为百分比（50），两者都给时以 markup 为准
// markup_percent 必须大于 -100，否则系数不为正
type ImportProductReq struct {
	Pid           string           `json:"pid" binding:"required"`
	Markup        *decimal.Decimal `json:"markup"`
	MarkupPercent *float64         `json:"markup_percent" binding:"omitempty,gt=-100"`
	Category      string           `json:"category"`
	Badge         string           `json:"badge" binding:"max=50"`
}

// ToOptions 转成导入选项，未给加价时为 0（服务层使用默认值）
func (r *ImportProductReq) ToOptions() service.ImportOptions {
	opts := service.ImportOptions{Category: r.Category, Badge: r.Badge}
	switch {
	case r.Markup != nil:
		opts.Markup = *r.Markup
	case r.MarkupPercent != nil:
		opts.Markup = service.MarkupFromPercent(*r.MarkupPercent)
	}
	return opts
}
