package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"primepet_supply/internal/config"
	"primepet_supply/internal/controller"
	"primepet_supply/internal/middleware"
	"primepet_supply/internal/model"
	"primepet_supply/internal/repository"
	"primepet_supply/internal/router"
	"primepet_supply/internal/service"
	"primepet_supply/internal/task"
	"primepet_supply/pkg/cj"
	"primepet_supply/pkg/database"
	"primepet_supply/pkg/logger"
)

// @title PrimePet Supply API
// @version 1.0
// @description CJDropshipping 供应商对接：商品导入、转单、库存对账
// @BasePath /
func main() {
	app := &cli.App{
		Name:  "primepet-supply",
		Usage: "PrimePet 商店的 CJDropshipping 供应商对接服务",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径，为空时查找 ./config.yaml",
				EnvVars: []string{"PRIMEPET_CONFIG"},
			},
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "启动 HTTP 服务和定时任务",
				Action: runServe,
			},
			{
				Name:   "sync",
				Usage:  "对目录中所有关联供应商的商品执行一次库存对账",
				Action: runSync,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "apply", Usage: "把新库存写回目录（覆盖 stock.auto_apply）"},
				},
			},
			{
				Name:   "fix-images",
				Usage:  "把以 JSON 数组存储的图片字段改写为第一张图",
				Action: runFixImages,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("运行失败: %v", err)
	}
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	Supplier    *cj.Client
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
	SyncLimiter *middleware.SyncRateLimiter // /api/sync 与定时对账共用
}

// Repositories 仓库集合
type Repositories struct {
	Product       repository.ProductRepository
	SupplierOrder repository.SupplierOrderRepository
}

// Services 服务集合
type Services struct {
	Catalog *service.CatalogService
	Import  *service.ImportService
	Relay   *service.OrderRelayService
	Stock   *service.StockService
}

// ==================== 初始化函数 ====================

// bootstrap 加载配置并初始化所有依赖
func bootstrap(c *cli.Context) (*Dependencies, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	zl, err := logger.New(cfg.LogLevel, cfg.Env == "production")
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	db, err := initDatabase(cfg, zl)
	if err != nil {
		return nil, err
	}

	return initDependencies(cfg, zl, db), nil
}

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config, zl *zap.Logger) (*gorm.DB, error) {
	return database.InitDB(database.Options{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.DSN,
		LogLevel: cfg.Database.LogLevel,
	}, zl,
		// Catalog
		&model.CatalogProduct{},
		// Order
		&model.SupplierOrder{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, zl *zap.Logger, db *gorm.DB) *Dependencies {
	// -------- 供应商客户端 --------
	supplier := initSupplier(cfg, zl)

	// -------- Repo 层 --------
	repos := &Repositories{
		Product:       repository.NewProductRepository(db),
		SupplierOrder: repository.NewSupplierOrderRepository(db),
	}

	// -------- 业务服务 --------
	services := &Services{
		Catalog: service.NewCatalogService(repos.Product, zl),
		Import: service.NewImportService(supplier, repos.Product, service.PricingDefaults{
			Markup: decimal.NewFromFloat(cfg.Pricing.DefaultMarkup),
			Badge:  cfg.Pricing.DefaultBadge,
		}, zl),
		Relay: service.NewOrderRelayService(supplier, repos.Product, repos.SupplierOrder, zl),
		Stock: service.NewStockService(supplier, repos.Product, service.StockOptions{
			Interval:   cfg.Stock.Interval,
			AutoApply:  cfg.Stock.AutoApply,
			BatchLimit: cfg.Stock.BatchLimit,
		}, zl),
	}

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Catalog:     controller.NewCatalogController(services.Catalog),
		Product:     controller.NewProductController(services.Import),
		Order:       controller.NewOrderController(services.Relay),
		Sync:        controller.NewSyncController(services.Stock),
		Maintenance: controller.NewMaintenanceController(services.Catalog),
	}

	return &Dependencies{
		Config:      cfg,
		Logger:      zl,
		DB:          db,
		Supplier:    supplier,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
		SyncLimiter: middleware.NewSyncRateLimiter(),
	}
}

// initSupplier 初始化 CJ 客户端
func initSupplier(cfg *config.Config, zl *zap.Logger) *cj.Client {
	sc := cfg.Supplier
	if sc.APIKey == "" {
		zl.Warn("[Supplier] 未配置 API Key，供应商相关接口将返回错误")
	}

	var endpoints map[string]cj.Endpoint
	if len(sc.Endpoints) > 0 {
		endpoints = make(map[string]cj.Endpoint, len(sc.Endpoints))
		for op, ep := range sc.Endpoints {
			endpoints[op] = cj.Endpoint{Method: ep.Method, Path: ep.Path}
		}
	}

	return cj.NewClient(cj.Config{
		BaseURL:   sc.BaseURL,
		APIKey:    sc.APIKey,
		AuthMode:  sc.AuthMode,
		Timeout:   sc.Timeout,
		ProxyURL:  sc.ProxyURL,
		Debug:     sc.Debug,
		Endpoints: endpoints,
	}, zl)
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) (*task.TaskManager, error) {
	tc := deps.Config.Tasks
	tm := task.NewTaskManager(&task.TaskManagerDeps{
		Session:      deps.Supplier,
		StockService: deps.Services.Stock,
		StockWindow:  middleware.NewSyncWindow(deps.SyncLimiter, middleware.SyncTypeStock, deps.Config.Stock.SyncCooldown),
		Logger:       deps.Logger,
	}, &task.TaskManagerConfig{
		// 静态 Key 模式没有会话可刷新
		TokenEnabled: tc.TokenEnabled && deps.Config.Supplier.AuthMode == cj.AuthModeToken,
		TokenSpec:    tc.TokenSpec,
		StockEnabled: tc.StockEnabled,
		StockSpec:    tc.StockSpec,
	})
	if err := tm.Start(); err != nil {
		return nil, err
	}
	return tm, nil
}

// ==================== 命令 ====================

// runServe 启动服务
func runServe(c *cli.Context) error {
	deps, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer func() { _ = deps.Logger.Sync() }()

	tm, err := initTasks(deps)
	if err != nil {
		return err
	}
	defer tm.Stop()

	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.SetupRouter(deps.Controllers, router.Options{
		Logger:       deps.Logger,
		AllowOrigins: deps.Config.Server.AllowOrigins,
		SyncCooldown: deps.Config.Stock.SyncCooldown,
		SyncLimiter:  deps.SyncLimiter,
		EnableDocs:   deps.Config.Env != "production",
	})

	return startServer(deps, r)
}

// runSync 执行一次目录库存对账并输出 JSON 结果
func runSync(c *cli.Context) error {
	deps, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer func() { _ = deps.Logger.Sync() }()

	stock := deps.Services.Stock
	if c.Bool("apply") && !stock.AutoApply() {
		sc := deps.Config.Stock
		stock = service.NewStockService(deps.Supplier, deps.Repos.Product, service.StockOptions{
			Interval:   sc.Interval,
			AutoApply:  true,
			BatchLimit: sc.BatchLimit,
		}, deps.Logger)
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := stock.ReconcileCatalog(ctx)
	if err != nil {
		return err
	}
	return printJSON(res)
}

// runFixImages 修复图片字段并输出统计
func runFixImages(c *cli.Context) error {
	deps, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer func() { _ = deps.Logger.Sync() }()

	stats, err := deps.Services.Catalog.RepairImages(c.Context)
	if err != nil {
		return err
	}
	return printJSON(stats)
}

// ==================== 服务启动 ====================

// startServer 启动服务，收到退出信号后优雅关闭
func startServer(deps *Dependencies, r *gin.Engine) error {
	sc := deps.Config.Server
	srv := &http.Server{
		Addr:              ":" + sc.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	// 异步启动服务
	go func() {
		deps.Logger.Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("服务启动失败: %w", err)
	case <-quit:
	}

	deps.Logger.Info("正在关闭服务...")

	timeout := sc.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务强制关闭: %w", err)
	}

	deps.Logger.Info("服务已退出")
	return nil
}

// ==================== 工具函数 ====================

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
