package service

import (
	"context"

	"primepet_supply/pkg/cj"
)

// 供应商能力按用途拆分，*cj.Client 同时满足全部接口

// SupplierCatalog 商品浏览
type SupplierCatalog interface {
	ListProducts(ctx context.Context, q cj.ListQuery) (*cj.ProductPage, error)
	GetProductDetail(ctx context.Context, pid string) (*cj.Product, error)
	ListCategories(ctx context.Context) ([]cj.CategoryGroup, error)
}

// SupplierOrders 下单与订单查询
type SupplierOrders interface {
	CreateOrder(ctx context.Context, req *cj.OrderRequest) (*cj.OrderResult, error)
	GetOrderStatus(ctx context.Context, orderNumber string) (*cj.OrderStatus, error)
	GetTracking(ctx context.Context, orderNumber string) ([]cj.TrackingInfo, error)
}

// SupplierStock 库存查询
type SupplierStock interface {
	GetStock(ctx context.Context, vid string) (*cj.StockInfo, error)
}

var (
	_ SupplierCatalog = (*cj.Client)(nil)
	_ SupplierOrders  = (*cj.Client)(nil)
	_ SupplierStock   = (*cj.Client)(nil)
)
