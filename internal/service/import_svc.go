package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"primepet_supply/internal/model"
	"primepet_supply/internal/repository"
	"primepet_supply/pkg/cj"
	"primepet_supply/pkg/logger"
)

const categoriesCacheKey = "cj:categories"

// PricingDefaults 导入默认定价参数
type PricingDefaults struct {
	Markup decimal.Decimal
	Badge  string
}

// ImportService 供应商商品浏览与导入
type ImportService struct {
	supplier SupplierCatalog
	repo     repository.ProductRepository
	defaults PricingDefaults
	log      *zap.Logger

	cache *cache.Cache
	group singleflight.Group
}

// NewImportService 创建导入服务
func NewImportService(supplier SupplierCatalog, repo repository.ProductRepository, defaults PricingDefaults, log *zap.Logger) *ImportService {
	if !defaults.Markup.IsPositive() {
		defaults.Markup = DefaultMarkup
	}
	if defaults.Badge == "" {
		defaults.Badge = DefaultBadge
	}
	return &ImportService{
		supplier: supplier,
		repo:     repo,
		defaults: defaults,
		log:      logger.OrNop(log),
		// 类目树变化很少，缓存 10 分钟
		cache: cache.New(10*time.Minute, 20*time.Minute),
	}
}

// ==================== 浏览 ====================

// Search 分页搜索供应商商品
func (s *ImportService) Search(ctx context.Context, q cj.ListQuery) (*cj.ProductPage, error) {
	if q.PageSize > 200 {
		q.PageSize = 200
	}
	page, err := s.supplier.ListProducts(ctx, q)
	if err != nil {
		return nil, supplierErr("搜索商品", err)
	}
	return page, nil
}

// Detail 供应商商品详情
func (s *ImportService) Detail(ctx context.Context, pid string) (*cj.Product, error) {
	pid = strings.TrimSpace(pid)
	if pid == "" {
		return nil, invalidInput("pid 不能为空")
	}
	p, err := s.supplier.GetProductDetail(ctx, pid)
	if err != nil {
		return nil, supplierErr("获取商品详情", err)
	}
	return p, nil
}

// Categories 供应商类目树（带缓存，并发请求合并）
func (s *ImportService) Categories(ctx context.Context) ([]cj.CategoryGroup, error) {
	if v, ok := s.cache.Get(categoriesCacheKey); ok {
		return v.([]cj.CategoryGroup), nil
	}

	// 合并后的请求由所有调用方共享，不能随第一个调用方取消
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(categoriesCacheKey, func() (interface{}, error) {
		groups, err := s.supplier.ListCategories(shared)
		if err != nil {
			return nil, err
		}
		s.cache.SetDefault(categoriesCacheKey, groups)
		return groups, nil
	})
	if err != nil {
		return nil, supplierErr("获取类目", err)
	}
	return v.([]cj.CategoryGroup), nil
}

// ==================== 导入 ====================

// Preview 只做转换，不落库
func (s *ImportService) Preview(ctx context.Context, pid string, opts ImportOptions) (*model.CatalogProduct, error) {
	if err := s.normalizeOptions(&opts); err != nil {
		return nil, err
	}
	raw, err := s.Detail(ctx, pid)
	if err != nil {
		return nil, err
	}
	if raw.Pid == "" {
		raw.Pid = strings.TrimSpace(pid)
	}
	return ToCatalogProduct(raw, opts), nil
}

// Import 拉取详情 -> 转换 -> 入库
// 同一 pid 重复导入返回 ErrAlreadyImported，目录不变；供应商失败不会产生任何写入
func (s *ImportService) Import(ctx context.Context, pid string, opts ImportOptions) (*model.CatalogProduct, error) {
	pid = strings.TrimSpace(pid)
	if pid == "" {
		return nil, invalidInput("pid 不能为空")
	}
	if err := s.normalizeOptions(&opts); err != nil {
		return nil, err
	}

	// 快速路径，真正的去重由唯一索引保证
	if _, err := s.repo.GetByCJPid(ctx, pid); err == nil {
		return nil, ErrAlreadyImported
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	raw, err := s.Detail(ctx, pid)
	if err != nil {
		s.log.Warn("[Import] 拉取商品详情失败", zap.String("pid", pid), zap.Error(err))
		return nil, err
	}
	if raw.Pid == "" {
		raw.Pid = pid
	}

	product := ToCatalogProduct(raw, opts)
	if err := s.repo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyImported
		}
		return nil, err
	}

	s.log.Info("[Import] 商品导入成功",
		zap.String("pid", pid),
		zap.Int64("id", product.ID),
		zap.String("price", product.Price.StringFixed(2)),
		zap.String("category", product.Category),
	)
	return product, nil
}

// normalizeOptions 补全默认值并校验
func (s *ImportService) normalizeOptions(opts *ImportOptions) error {
	if opts.Markup.IsNegative() {
		return invalidInput("markup 不能为负数")
	}
	if opts.Markup.IsZero() {
		opts.Markup = s.defaults.Markup
	}
	if opts.Badge == "" {
		opts.Badge = s.defaults.Badge
	}
	if opts.Category != "" && !model.IsShopCategory(opts.Category) {
		return invalidInput("未知类目 %q", opts.Category)
	}
	return nil
}
