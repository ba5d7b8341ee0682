package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"primepet_supply/internal/controller"
	"primepet_supply/internal/middleware"
	"primepet_supply/internal/model"
	"primepet_supply/internal/repository"
	"primepet_supply/internal/service"
	"primepet_supply/pkg/cj"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(t *testing.T, enableDocs bool) *gin.Engine {
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

	// 指向不存在的地址，本测试不会真正调用供应商
	client := cj.NewClient(cj.Config{BaseURL: "http://127.0.0.1:1", APIKey: "k", Timeout: time.Second}, nil)
	products := repository.NewProductRepository(db)
	orders := repository.NewSupplierOrderRepository(db)
	catalogSvc := service.NewCatalogService(products, nil)

	ctrls := &Controllers{
		Catalog:     controller.NewCatalogController(catalogSvc),
		Product:     controller.NewProductController(service.NewImportService(client, products, service.PricingDefaults{}, nil)),
		Order:       controller.NewOrderController(service.NewOrderRelayService(client, products, orders, nil)),
		Sync:        controller.NewSyncController(service.NewStockService(client, products, service.StockOptions{}, nil)),
		Maintenance: controller.NewMaintenanceController(catalogSvc),
	}
	return SetupRouter(ctrls, Options{
		AllowOrigins: []string{"*"},
		SyncCooldown: time.Minute,
		SyncLimiter:  middleware.NewSyncRateLimiter(),
		EnableDocs:   enableDocs,
	})
}

func TestRouter_Health(t *testing.T) {
	r := setupTestRouter(t, false)

	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestRouter_Routes(t *testing.T) {
	r := setupTestRouter(t, false)

	want := []string{
		"GET /api/shop-products",
		"POST /api/shop-products",
		"PUT /api/shop-products",
		"DELETE /api/shop-products",
		"GET /api/products",
		"POST /api/products",
		"POST /api/orders",
		"GET /api/orders/status",
		"GET /api/orders/relays",
		"GET /api/tracking",
		"POST /api/sync",
		"POST /api/maintenance/fix-images",
	}
	got := make(map[string]bool)
	for _, ri := range r.Routes() {
		got[ri.Method+" "+ri.Path] = true
	}
	for _, w := range want {
		assert.True(t, got[w], "缺少路由 %s", w)
	}
	assert.False(t, got["GET /swagger/*any"], "未开启时不注册文档")
}

func TestRouter_SyncCooldown(t *testing.T) {
	r := setupTestRouter(t, false)

	// 目录为空，对账不会调用供应商
	req, _ := http.NewRequest(http.MethodPost, "/api/sync", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	req, _ = http.NewRequest(http.MethodPost, "/api/sync", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := setupTestRouter(t, false)

	req, _ := http.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "https://primepet.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "POST"))
}

func TestRouter_SwaggerDoc(t *testing.T) {
	r := setupTestRouter(t, true)

	req, _ := http.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/shop-products")
}
