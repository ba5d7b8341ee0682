package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"primepet_supply/internal/model"
	"primepet_supply/internal/repository"
	"primepet_supply/internal/service"
	"primepet_supply/pkg/cj"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== 请求构造辅助 ====================

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应不是合法 JSON: %v, body=%s", err, w.Body.String())
	}
	return body
}

// ==================== 供应商替身 ====================

type stubSupplier struct {
	products  map[string]*cj.Product
	down      bool
	stock     map[string]int
	orderReqs []*cj.OrderRequest
	tracking  []cj.TrackingInfo
	status    *cj.OrderStatus
}

var errSupplierDown = &cj.TransportError{Endpoint: "/x", Err: errors.New("connection refused")}

func (s *stubSupplier) ListProducts(_ context.Context, q cj.ListQuery) (*cj.ProductPage, error) {
	if s.down {
		return nil, errSupplierDown
	}
	page := &cj.ProductPage{PageNum: q.Page, PageSize: q.PageSize}
	for _, p := range s.products {
		page.List = append(page.List, *p)
	}
	page.Total = len(page.List)
	return page, nil
}

func (s *stubSupplier) GetProductDetail(_ context.Context, pid string) (*cj.Product, error) {
	if s.down {
		return nil, errSupplierDown
	}
	if p, ok := s.products[pid]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, &cj.RejectedError{Endpoint: "/product/query", Code: 1600100, Message: "product not found"}
}

func (s *stubSupplier) ListCategories(_ context.Context) ([]cj.CategoryGroup, error) {
	if s.down {
		return nil, errSupplierDown
	}
	return []cj.CategoryGroup{{CategoryFirstName: "Pet Supplies"}}, nil
}

func (s *stubSupplier) GetStock(_ context.Context, vid string) (*cj.StockInfo, error) {
	if s.down {
		return nil, errSupplierDown
	}
	return &cj.StockInfo{Vid: vid, AvailableStock: cj.FlexInt(s.stock[vid])}, nil
}

func (s *stubSupplier) CreateOrder(_ context.Context, req *cj.OrderRequest) (*cj.OrderResult, error) {
	s.orderReqs = append(s.orderReqs, req)
	if s.down {
		return nil, errSupplierDown
	}
	return &cj.OrderResult{OrderID: "ID-1", OrderNum: "CJ-1"}, nil
}

func (s *stubSupplier) GetOrderStatus(_ context.Context, _ string) (*cj.OrderStatus, error) {
	return s.status, nil
}

func (s *stubSupplier) GetTracking(_ context.Context, _ string) ([]cj.TrackingInfo, error) {
	return s.tracking, nil
}

// ==================== 测试环境 ====================

type testEnv struct {
	router   *gin.Engine
	supplier *stubSupplier
	products repository.ProductRepository
}

func setupEnv(t *testing.T) *testEnv {
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

	supplier := &stubSupplier{
		products: map[string]*cj.Product{
			"P1": {Pid: "P1", Vid: "V1", ProductNameEn: "Dog Rope Toy", SellPrice: "5.37 -- 9.64",
				ProductImage: json.RawMessage(`"http://x/a.jpg"`), CategoryName: "Dog Supplies", AvailableStock: 12},
		},
		stock: map[string]int{},
	}
	products := repository.NewProductRepository(db)
	orders := repository.NewSupplierOrderRepository(db)

	catalogSvc := service.NewCatalogService(products, nil)
	importSvc := service.NewImportService(supplier, products, service.PricingDefaults{}, nil)
	relaySvc := service.NewOrderRelayService(supplier, products, orders, nil)
	stockSvc := service.NewStockService(supplier, products, service.StockOptions{Interval: time.Millisecond}, nil)

	catalogCtl := NewCatalogController(catalogSvc)
	productCtl := NewProductController(importSvc)
	orderCtl := NewOrderController(relaySvc)
	syncCtl := NewSyncController(stockSvc)
	maintenanceCtl := NewMaintenanceController(catalogSvc)

	r := gin.New()
	api := r.Group("/api")
	api.Any("/shop-products", catalogCtl.Handle)
	api.Any("/products", productCtl.Handle)
	api.POST("/orders", orderCtl.Relay)
	api.GET("/orders/status", orderCtl.Status)
	api.GET("/orders/relays", orderCtl.ListRelays)
	api.GET("/tracking", orderCtl.Tracking)
	api.POST("/sync", syncCtl.SyncStock)
	api.POST("/maintenance/fix-images", maintenanceCtl.FixImages)

	return &testEnv{router: r, supplier: supplier, products: products}
}

func (e *testEnv) seed(t *testing.T, name, category string, pid, vid string, stock int) int64 {
	p := &model.CatalogProduct{Name: name, Price: decimal.NewFromInt(10), Category: category, Rating: 5, CJStock: stock}
	if pid != "" {
		p.CJPid = model.StrPtr(pid)
	}
	if vid != "" {
		p.CJVid = model.StrPtr(vid)
	}
	if err := e.products.Create(context.Background(), p); err != nil {
		t.Fatalf("准备商品失败: %v", err)
	}
	return p.ID
}

// ==================== 错误映射 ====================

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"参数错误", service.ErrInvalidInput, http.StatusBadRequest},
		{"商品不存在", service.ErrProductNotFound, http.StatusNotFound},
		{"订单不存在", service.ErrOrderNotFound, http.StatusNotFound},
		{"无物流", service.ErrNoTracking, http.StatusNotFound},
		{"已导入", service.ErrAlreadyImported, http.StatusConflict},
		{"对账进行中", service.ErrSyncInProgress, http.StatusConflict},
		{"供应商不可用", errors.Join(service.ErrSupplierUnavailable, errSupplierDown), http.StatusBadGateway},
		{"其他", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := errorStatus(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, msg)
		})
	}
}

// ==================== 店铺商品 ====================

func TestCatalogController_CRUD(t *testing.T) {
	env := setupEnv(t)

	// add
	w := performRequest(env.router, "POST", "/api/shop-products?action=add", map[string]interface{}{
		"name":     "Katzenbaum",
		"price":    49.99,
		"category": "katzen",
		"image":    `["http://x/tree.jpg"]`,
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	product := body["product"].(map[string]interface{})
	id := int64(product["id"].(float64))
	assert.Equal(t, "http://x/tree.jpg", product["image"])
	assert.Equal(t, float64(5), product["rating"])
	assert.Nil(t, product["cj_pid"])

	// list
	w = performRequest(env.router, "GET", "/api/shop-products?action=list&category=alle", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["products"], 1)

	w = performRequest(env.router, "GET", "/api/shop-products?action=list&category=hunde", nil)
	assert.Len(t, decodeBody(t, w)["products"], 0)

	// update
	path := "/api/shop-products?action=update&id=" + jsonNumber(id)
	w = performRequest(env.router, "PUT", path, map[string]interface{}{"price": "39.5", "badge": "SALE"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeBody(t, w)["product"].(map[string]interface{})
	assert.Equal(t, "39.5", updated["price"])
	assert.Equal(t, "SALE", updated["badge"])
	assert.Equal(t, "Katzenbaum", updated["name"])

	// get
	w = performRequest(env.router, "GET", "/api/shop-products?action=get&id="+jsonNumber(id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// delete
	w = performRequest(env.router, "DELETE", "/api/shop-products?action=delete&id="+jsonNumber(id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(env.router, "GET", "/api/shop-products?action=get&id="+jsonNumber(id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, msgProductNotFound, decodeBody(t, w)["error"])
}

func TestCatalogController_BadRequests(t *testing.T) {
	env := setupEnv(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
	}{
		{"未知 action", "GET", "/api/shop-products?action=drop", nil, http.StatusBadRequest},
		{"缺少 action", "GET", "/api/shop-products", nil, http.StatusBadRequest},
		{"get 缺少 id", "GET", "/api/shop-products?action=get", nil, http.StatusBadRequest},
		{"get 非法 id", "GET", "/api/shop-products?action=get&id=abc", nil, http.StatusBadRequest},
		{"add 缺少价格", "POST", "/api/shop-products?action=add", map[string]interface{}{"name": "x", "category": "hunde"}, http.StatusBadRequest},
		{"add 未知类目", "POST", "/api/shop-products?action=add", map[string]interface{}{"name": "x", "price": 1, "category": "fische"}, http.StatusBadRequest},
		{"add 评分越界", "POST", "/api/shop-products?action=add", map[string]interface{}{"name": "x", "price": 1, "category": "hunde", "rating": 9}, http.StatusBadRequest},
		{"update 不存在", "PUT", "/api/shop-products?action=update&id=999", map[string]interface{}{"name": "y"}, http.StatusNotFound},
		{"delete 不存在", "DELETE", "/api/shop-products?action=delete&id=999", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(env.router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, false, decodeBody(t, w)["success"])
		})
	}
}

func TestCatalogController_AddDuplicatePid(t *testing.T) {
	env := setupEnv(t)
	env.seed(t, "a", "hunde", "P1", "V1", 0)

	w := performRequest(env.router, "POST", "/api/shop-products?action=add", map[string]interface{}{
		"name": "b", "price": 1, "category": "hunde", "cj_pid": "P1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, msgAlreadyImported, decodeBody(t, w)["error"])
}

// ==================== 供应商商品 ====================

func TestProductController_Import(t *testing.T) {
	env := setupEnv(t)

	w := performRequest(env.router, "POST", "/api/products?action=import", map[string]interface{}{"pid": "P1"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	product := decodeBody(t, w)["product"].(map[string]interface{})
	assert.Equal(t, "14.46", product["price"])
	assert.Equal(t, "hunde", product["category"])
	assert.Equal(t, "P1", product["cj_pid"])
	assert.Equal(t, "9.64", product["cj_cost_price"])

	w = performRequest(env.router, "POST", "/api/products?action=import", map[string]interface{}{"pid": "P1", "markup": 3})
	assert.Equal(t, http.StatusConflict, w.Code)

	total, _ := env.products.Count(context.Background())
	assert.Equal(t, int64(1), total)
}

func TestProductController_PreviewWithPercent(t *testing.T) {
	env := setupEnv(t)

	w := performRequest(env.router, "POST", "/api/products?action=preview", map[string]interface{}{
		"pid": "P1", "markup_percent": 100, "category": "katzen", "badge": "TOP",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	product := decodeBody(t, w)["product"].(map[string]interface{})
	assert.Equal(t, "19.28", product["price"])
	assert.Equal(t, "katzen", product["category"])
	assert.Equal(t, "TOP", product["badge"])

	total, _ := env.products.Count(context.Background())
	assert.Equal(t, int64(0), total, "预览不落库")
}

func TestProductController_MarkupPercentBounds(t *testing.T) {
	tests := []struct {
		name       string
		percent    float64
		wantStatus int
	}{
		{"-100% 系数为 0", -100, http.StatusBadRequest},
		{"低于 -100%", -250, http.StatusBadRequest},
		{"0% 按成本价", 0, http.StatusOK},
		{"-50% 半价", -50, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t)
			w := performRequest(env.router, "POST", "/api/products?action=preview", map[string]interface{}{
				"pid": "P1", "markup_percent": tt.percent,
			})
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}

	env := setupEnv(t)
	w := performRequest(env.router, "POST", "/api/products?action=import", map[string]interface{}{
		"pid": "P1", "markup_percent": -100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	total, _ := env.products.Count(context.Background())
	assert.Equal(t, int64(0), total, "非法加价不能静默使用默认值入库")
}

func TestProductController_Browse(t *testing.T) {
	env := setupEnv(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"列表", "/api/products?action=list&page=1&pageSize=10", http.StatusOK},
		{"详情", "/api/products?action=detail&pid=P1", http.StatusOK},
		{"详情缺少 pid", "/api/products?action=detail", http.StatusBadRequest},
		{"类目", "/api/products?action=categories", http.StatusOK},
		{"未知 action", "/api/products?action=nope", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(env.router, "GET", tt.path, nil)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestProductController_SupplierDown(t *testing.T) {
	env := setupEnv(t)
	env.supplier.down = true

	w := performRequest(env.router, "GET", "/api/products?action=list", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = performRequest(env.router, "POST", "/api/products?action=import", map[string]interface{}{"pid": "P1"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, msgSupplierDown, decodeBody(t, w)["error"])

	total, _ := env.products.Count(context.Background())
	assert.Equal(t, int64(0), total)
}

// ==================== 订单 ====================

func TestOrderController_Relay(t *testing.T) {
	env := setupEnv(t)
	linked := env.seed(t, "a", "hunde", "P1", "V1", 3)
	manual := env.seed(t, "b", "hunde", "", "", 0)

	w := performRequest(env.router, "POST", "/api/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": linked, "quantity": 2},
			{"product_id": manual, "quantity": 1},
		},
		"customer": map[string]interface{}{
			"firstName": "Max", "lastName": "Mustermann", "address": "Hauptstr. 1",
			"city": "Berlin", "zip": "10115", "email": "max@example.de",
		},
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "CJ-1", body["cj_order_number"])
	assert.Equal(t, "submitted", body["status"])

	if assert.Len(t, env.supplier.orderReqs, 1) {
		req := env.supplier.orderReqs[0]
		assert.Len(t, req.Products, 1)
		assert.Equal(t, "DE", req.ShippingAddress.CountryCode)
		assert.Equal(t, "Max", req.ShippingAddress.FirstName)
	}

	w = performRequest(env.router, "GET", "/api/orders/relays", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["orders"], 1)
}

func TestOrderController_RelayOutcomes(t *testing.T) {
	env := setupEnv(t)
	manual := env.seed(t, "b", "hunde", "", "", 0)

	// 全是手工商品：跳过，不调用供应商
	w := performRequest(env.router, "POST", "/api/orders", map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": manual, "quantity": 1}},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "skipped", decodeBody(t, w)["status"])
	assert.Empty(t, env.supplier.orderReqs)

	// 供应商失败：502，仍带本地订单号
	env.supplier.down = true
	w = performRequest(env.router, "POST", "/api/orders", map[string]interface{}{
		"items": []map[string]interface{}{{"vid": "V1", "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "failed", body["status"])
	assert.NotEmpty(t, body["order_number"])

	// 参数错误
	for _, payload := range []interface{}{
		nil,
		map[string]interface{}{"items": []interface{}{}},
		map[string]interface{}{"items": []map[string]interface{}{{"vid": "V1", "quantity": 0}}},
	} {
		w = performRequest(env.router, "POST", "/api/orders", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestOrderController_StatusAndTracking(t *testing.T) {
	env := setupEnv(t)

	w := performRequest(env.router, "GET", "/api/tracking", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(env.router, "GET", "/api/tracking?orderNumber=CJ-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, msgNoTracking, decodeBody(t, w)["error"])

	env.supplier.tracking = []cj.TrackingInfo{{TrackingNumber: "LX1"}}
	w = performRequest(env.router, "GET", "/api/tracking?orderNumber=CJ-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["tracking"], 1)

	w = performRequest(env.router, "GET", "/api/orders/status?orderNumber=CJ-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	env.supplier.status = &cj.OrderStatus{OrderNum: "CJ-1", OrderStatus: "SHIPPED"}
	w = performRequest(env.router, "GET", "/api/orders/status?orderNumber=CJ-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// ==================== 库存对账 / 维护 ====================

func TestSyncController_Request(t *testing.T) {
	env := setupEnv(t)
	env.supplier.stock = map[string]int{"V1": 8, "V2": 2}

	w := performRequest(env.router, "POST", "/api/sync", map[string]interface{}{
		"products": []map[string]interface{}{
			{"id": 1, "name": "a", "cj_vid": "V1", "cj_stock": 5},
			{"id": 2, "name": "b", "cj_vid": "V2", "cj_stock": 2},
			{"id": 3, "name": "c"},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["updated_count"])
	assert.Equal(t, float64(0), body["error_count"])
	assert.Equal(t, float64(3), body["total_products"])
	updates := body["updates"].([]interface{})
	if assert.Len(t, updates, 1) {
		u := updates[0].(map[string]interface{})
		assert.Equal(t, float64(5), u["old_stock"])
		assert.Equal(t, float64(8), u["new_stock"])
	}
}

func TestSyncController_Catalog(t *testing.T) {
	env := setupEnv(t)
	env.seed(t, "a", "hunde", "P1", "V1", 1)
	env.supplier.stock = map[string]int{"V1": 4}

	w := performRequest(env.router, "POST", "/api/sync", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["total_products"])
	assert.Len(t, body["updates"], 1)

	w = performRequest(env.router, "POST", "/api/sync", map[string]interface{}{"products": []interface{}{}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaintenanceController_FixImages(t *testing.T) {
	env := setupEnv(t)
	id := env.seed(t, "a", "hunde", "", "", 0)
	_ = env.products.UpdateImage(context.Background(), id, `["http://x/1.jpg","http://x/2.jpg"]`)
	env.seed(t, "b", "hunde", "", "", 0)

	w := performRequest(env.router, "POST", "/api/maintenance/fix-images", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody(t, w)["statistics"].(map[string]interface{})
	assert.Equal(t, float64(2), stats["total"])
	assert.Equal(t, float64(1), stats["fixed"])
	assert.Equal(t, float64(1), stats["skipped"])
	assert.Equal(t, float64(0), stats["errors"])

	p, _ := env.products.GetByID(context.Background(), id)
	assert.Equal(t, "http://x/1.jpg", p.Image)
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
