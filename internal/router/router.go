package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"primepet_supply/internal/controller"
	"primepet_supply/internal/middleware"

	_ "primepet_supply/docs"
)

// Controllers 路由需要的全部控制器
type Controllers struct {
	Catalog     *controller.CatalogController
	Product     *controller.ProductController
	Order       *controller.OrderController
	Sync        *controller.SyncController
	Maintenance *controller.MaintenanceController
}

// Options 路由配置
type Options struct {
	Logger       *zap.Logger
	AllowOrigins []string
	SyncCooldown time.Duration
	SyncLimiter  *middleware.SyncRateLimiter // nil 使用全局限流器
	EnableDocs   bool
}

// SetupRouter 创建 gin 引擎并注册所有路由
func SetupRouter(ctrls *Controllers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(opts.Logger),
		middleware.RequestLogger(opts.Logger),
		middleware.CORS(opts.AllowOrigins),
	)
	InitRoutes(r, ctrls, opts)
	return r
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctrls *Controllers, opts Options) {
	// 1. 健康检查
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 2. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	if opts.EnableDocs {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 3. API 路由组
	api := r.Group("/api")
	{
		// 店铺商品 CRUD，按 action 分发
		// /api/shop-products?action=list|get|add|update|delete
		shop := api.Group("/shop-products")
		{
			shop.GET("", ctrls.Catalog.Handle)
			shop.POST("", ctrls.Catalog.Handle)
			shop.PUT("", ctrls.Catalog.Handle)
			shop.DELETE("", ctrls.Catalog.Handle)
		}

		// 供应商商品浏览与导入
		// /api/products?action=list|detail|categories|import|preview
		products := api.Group("/products")
		{
			products.GET("", ctrls.Product.Handle)
			products.POST("", ctrls.Product.Handle)
		}

		// 订单
		orders := api.Group("/orders")
		{
			// POST /api/orders
			orders.POST("", ctrls.Order.Relay)
			// GET /api/orders/status?orderNumber=
			orders.GET("/status", ctrls.Order.Status)
			// GET /api/orders/relays
			orders.GET("/relays", ctrls.Order.ListRelays)
		}
		api.GET("/tracking", ctrls.Order.Tracking)

		// 库存对账，冷却期内返回 429
		api.POST("/sync",
			middleware.GlobalSyncRateLimit(opts.SyncLimiter, middleware.SyncTypeStock, opts.SyncCooldown),
			ctrls.Sync.SyncStock,
		)

		// 维护
		maintenance := api.Group("/maintenance")
		{
			maintenance.POST("/fix-images",
				middleware.GlobalSyncRateLimit(opts.SyncLimiter, middleware.SyncTypeImageRepair, 0),
				ctrls.Maintenance.FixImages,
			)
		}
	}
}
