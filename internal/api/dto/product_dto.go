package dto

import (
	"github.com/shopspring/decimal"

	"primepet_supply/internal/model"
	"primepet_supply/internal/repository"
)

// ==================== 请求 DTO ====================

// AddShopProductReq 新增店铺商品（手工录入或前端导入后保存）
type AddShopProductReq struct {
	Name        string           `json:"name" binding:"required,max=500"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Category    string           `json:"category" binding:"required"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	Rating      int              `json:"rating" binding:"omitempty,min=1,max=5"` // 0 表示默认 5
	Badge       string           `json:"badge" binding:"max=50"`

	// 供应商关联（手工商品为空）
	CJPid       string           `json:"cj_pid"`
	CJVid       string           `json:"cj_vid"`
	CJCostPrice *decimal.Decimal `json:"cj_cost_price"`
	CJStock     int              `json:"cj_stock" binding:"min=0"`
}

// ToModel 转成模型，空字符串的可选列存 NULL
func (r *AddShopProductReq) ToModel() *model.CatalogProduct {
	p := &model.CatalogProduct{
		Name:        r.Name,
		Price:       *r.Price,
		Category:    r.Category,
		Description: r.Description,
		Image:       r.Image,
		Rating:      r.Rating,
		CJStock:     r.CJStock,
	}
	if r.Badge != "" {
		p.Badge = model.StrPtr(r.Badge)
	}
	if r.CJPid != "" {
		p.CJPid = model.StrPtr(r.CJPid)
	}
	if r.CJVid != "" {
		p.CJVid = model.StrPtr(r.CJVid)
	}
	if r.CJCostPrice != nil {
		p.CJCostPrice = decimal.NewNullDecimal(*r.CJCostPrice)
	}
	return p
}

// UpdateShopProductReq 部分更新，未提交的字段保持不变
type UpdateShopProductReq struct {
	ID          int64            `json:"id"` // 也可以放在 query 里
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Image       *string          `json:"image"`
	Rating      *int             `json:"rating"`
	Badge       *string          `json:"badge"`
	CJStock     *int             `json:"cj_stock"`
}

// ToUpdate 转成仓储层的更新集合
func (r *UpdateShopProductReq) ToUpdate() repository.ProductUpdate {
	return repository.ProductUpdate{
		Name:        r.Name,
		Price:       r.Price,
		Category:    r.Category,
		Description: r.Description,
		Image:       r.Image,
		Rating:      r.Rating,
		Badge:       r.Badge,
		Stock:       r.CJStock,
	}
}

// ==================== 响应 DTO ====================

// ShopProductListResp 商品列表
type ShopProductListResp struct {
	Success  bool                   `json:"success"`
	Products []model.CatalogProduct `json:"products"`
}

// ShopProductResp 单个商品
type ShopProductResp struct {
	Success bool                  `json:"success"`
	Product *model.CatalogProduct `json:"product"`
	Message string                `json:"message,omitempty"`
}

// ErrorResp 统一错误响应
type ErrorResp struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
