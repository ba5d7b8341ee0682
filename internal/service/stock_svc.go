package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"primepet_supply/internal/repository"
	"primepet_supply/pkg/logger"
)

// DefaultStockInterval 两次供应商库存调用之间的间隔
const DefaultStockInterval = 200 * time.Millisecond

// ErrSyncInProgress 已有一轮目录对账在执行
var ErrSyncInProgress = errors.New("库存同步进行中")

// StockItem 待对账商品
type StockItem struct {
	ProductID    int64
	ProductName  string
	Vid          string
	CurrentStock int
}

// StockDelta 库存变化
type StockDelta struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	OldStock    int    `json:"old_stock"`
	NewStock    int    `json:"new_stock"`
}

// ReconcileResult 对账结果
// Updated 为成功查询的商品数（无论库存是否变化）
type ReconcileResult struct {
	Updated   int          `json:"updated"`
	Errors    int          `json:"errors"`
	Total     int          `json:"total"`
	Changes   []StockDelta `json:"changes"`
	Applied   int          `json:"applied"`
	Cancelled bool         `json:"cancelled,omitempty"`
}

// StockOptions 对账参数
type StockOptions struct {
	Interval   time.Duration
	AutoApply  bool // 是否把新库存写回目录
	BatchLimit int
}

// StockService 库存对账
type StockService struct {
	supplier SupplierStock
	repo     repository.ProductRepository
	opts     StockOptions
	log      *zap.Logger

	running atomic.Bool
}

// NewStockService 创建库存对账服务
func NewStockService(supplier SupplierStock, repo repository.ProductRepository, opts StockOptions, log *zap.Logger) *StockService {
	if opts.Interval <= 0 {
		opts.Interval = DefaultStockInterval
	}
	return &StockService{
		supplier: supplier,
		repo:     repo,
		opts:     opts,
		log:      logger.OrNop(log),
	}
}

// Reconcile 顺序查询供应商库存
// 没有变体 ID 的商品只计入 total；单个失败计入 errors 后继续
// ctx 取消后不再发起新调用，已发出的调用会等它结束，返回部分结果
func (s *StockService) Reconcile(ctx context.Context, items []StockItem) *ReconcileResult {
	res := &ReconcileResult{Total: len(items), Changes: []StockDelta{}}
	limiter := rate.NewLimiter(rate.Every(s.opts.Interval), 1)

	for _, it := range items {
		if it.Vid == "" {
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			res.Cancelled = true
			s.log.Info("[Stock] 对账被取消", zap.Int("checked", res.Updated+res.Errors))
			break
		}

		info, err := s.supplier.GetStock(context.WithoutCancel(ctx), it.Vid)
		if err != nil {
			res.Errors++
			s.log.Warn("[Stock] 查询库存失败", zap.Int64("product_id", it.ProductID), zap.String("vid", it.Vid), zap.Error(err))
			continue
		}

		res.Updated++
		newStock := max(int(info.AvailableStock), 0)
		if newStock == it.CurrentStock {
			continue
		}

		res.Changes = append(res.Changes, StockDelta{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			OldStock:    it.CurrentStock,
			NewStock:    newStock,
		})

		if s.opts.AutoApply && s.repo != nil && it.ProductID > 0 {
			if err := s.repo.UpdateStock(context.WithoutCancel(ctx), it.ProductID, newStock); err != nil {
				s.log.Warn("[Stock] 写回库存失败", zap.Int64("product_id", it.ProductID), zap.Error(err))
				continue
			}
			res.Applied++
		}
	}

	s.log.Info("[Stock] 对账完成",
		zap.Int("total", res.Total),
		zap.Int("updated", res.Updated),
		zap.Int("errors", res.Errors),
		zap.Int("changes", len(res.Changes)),
		zap.Int("applied", res.Applied),
	)
	return res
}

// ReconcileCatalog 对目录里所有关联供应商的商品对账
func (s *StockService) ReconcileCatalog(ctx context.Context) (*ReconcileResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer s.running.Store(false)

	products, err := s.repo.ListSupplierLinked(ctx, s.opts.BatchLimit)
	if err != nil {
		return nil, err
	}

	items := make([]StockItem, 0, len(products))
	for _, p := range products {
		items = append(items, StockItem{
			ProductID:    p.ID,
			ProductName:  p.Name,
			Vid:          p.Vid(),
			CurrentStock: p.CJStock,
		})
	}
	return s.Reconcile(ctx, items), nil
}

// AutoApply 是否写回库存
func (s *StockService) AutoApply() bool {
	return s.opts.AutoApply
}
