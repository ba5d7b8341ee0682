package dto

import (
	"time"

	"primepet_supply/internal/service"
)

// SyncProductReq 待对账商品（前端把当前目录里的商品带上来）
type SyncProductReq struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	CJVid   string `json:"cj_vid"`
	CJStock int    `json:"cj_stock"`
}

// SyncStockReq 库存对账请求，products 为空时对整个目录对账
type SyncStockReq struct {
	Products []SyncProductReq `json:"products"`
}

// ToItems 转成服务层对账项
func (r *SyncStockReq) ToItems() []service.StockItem {
	items := make([]service.StockItem, 0, len(r.Products))
	for _, p := range r.Products {
		items = append(items, service.StockItem{
			ProductID:    p.ID,
			ProductName:  p.Name,
			Vid:          p.CJVid,
			CurrentStock: p.CJStock,
		})
	}
	return items
}

// SyncStockResp 对账结果（字段名与店铺后台一致）
type SyncStockResp struct {
	Success   bool                 `json:"success"`
	Updated   int                  `json:"updated_count"`
	Errors    int                  `json:"error_count"`
	Total     int                  `json:"total_products"`
	Updates   []service.StockDelta `json:"updates"`
	Applied   int                  `json:"applied_count"`
	Cancelled bool                 `json:"cancelled,omitempty"`
	Message   string               `json:"message,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

// NewSyncStockResp 由对账结果构造响应
func NewSyncStockResp(res *service.ReconcileResult, now time.Time) *SyncStockResp {
	return &SyncStockResp{
		Success:   true,
		Updated:   res.Updated,
		Errors:    res.Errors,
		Total:     res.Total,
		Updates:   res.Changes,
		Applied:   res.Applied,
		Cancelled: res.Cancelled,
		Timestamp: now,
	}
}

// FixImagesResp 图片修复结果
type FixImagesResp struct {
	Success    bool                       `json:"success"`
	Message    string                     `json:"message"`
	Statistics service.ImageRepairStats   `json:"statistics"`
	Errors     []service.ImageRepairError `json:"errors,omitempty"`
}
