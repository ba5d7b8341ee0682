package service

import (
	"context"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"primepet_supply/internal/model"
	"primepet_supply/pkg/cj"
)

// ==================== 测试数据库 ====================

func setupServiceDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.CatalogProduct{}, &model.SupplierOrder{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

// ==================== 供应商替身 ====================

type fakeSupplier struct {
	mu sync.Mutex

	products   map[string]*cj.Product
	detailErr  error
	categories []cj.CategoryGroup
	catCalls   int

	stock      map[string]int
	stockErr   map[string]error
	stockCalls []string

	orderReqs []*cj.OrderRequest
	orderErr  error
	orderNum  string
	status    *cj.OrderStatus
	tracking  []cj.TrackingInfo
}

func newFakeSupplier() *fakeSupplier {
	return &fakeSupplier{
		products: map[string]*cj.Product{},
		stock:    map[string]int{},
		stockErr: map[string]error{},
		orderNum: "CJ-ORDER-1",
	}
}

func (f *fakeSupplier) ListProducts(_ context.Context, q cj.ListQuery) (*cj.ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page := &cj.ProductPage{PageNum: q.Page, PageSize: q.PageSize}
	for _, p := range f.products {
		page.List = append(page.List, *p)
	}
	page.Total = len(page.List)
	return page, nil
}

func (f *fakeSupplier) GetProductDetail(_ context.Context, pid string) (*cj.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	p, ok := f.products[pid]
	if !ok {
		return nil, &cj.RejectedError{Endpoint: "/product/query", Code: 1600100, Message: "product not found"}
	}
	cp := *p
	return &cp, nil
}

func (f *fakeSupplier) ListCategories(ctx context.Context) ([]cj.CategoryGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catCalls++
	if err := ctx.Err(); err != nil {
		return nil, &cj.TransportError{Endpoint: "/product/getCategory", Err: err}
	}
	return f.categories, nil
}

func (f *fakeSupplier) GetStock(_ context.Context, vid string) (*cj.StockInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stockCalls = append(f.stockCalls, vid)
	if err := f.stockErr[vid]; err != nil {
		return nil, err
	}
	return &cj.StockInfo{Vid: vid, AvailableStock: cj.FlexInt(f.stock[vid])}, nil
}

func (f *fakeSupplier) CreateOrder(_ context.Context, req *cj.OrderRequest) (*cj.OrderResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderReqs = append(f.orderReqs, req)
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return &cj.OrderResult{OrderID: "ID-1", OrderNum: f.orderNum}, nil
}

func (f *fakeSupplier) GetOrderStatus(_ context.Context, _ string) (*cj.OrderStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, nil
}

func (f *fakeSupplier) GetTracking(_ context.Context, _ string) ([]cj.TrackingInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tracking, nil
}
