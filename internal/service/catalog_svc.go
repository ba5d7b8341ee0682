package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"primepet_supply/internal/model"
	"primepet_supply/internal/repository"
	"primepet_supply/pkg/logger"
)

// CatalogService 店铺商品目录
type CatalogService struct {
	repo repository.ProductRepository
	log  *zap.Logger
}

// NewCatalogService 创建目录服务
func NewCatalogService(repo repository.ProductRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: logger.OrNop(log)}
}

// ==================== 查询 ====================

// List 按类目列出商品，空或 "alle" 返回全部
func (s *CatalogService) List(ctx context.Context, category string) ([]model.CatalogProduct, error) {
	return s.repo.List(ctx, repository.ProductFilter{Category: strings.TrimSpace(category)})
}

// Get 单个商品
func (s *CatalogService) Get(ctx context.Context, id int64) (*model.CatalogProduct, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// ==================== 写入 ====================

// Add 新增商品；cj_pid 已存在时返回 ErrAlreadyImported
func (s *CatalogService) Add(ctx context.Context, p *model.CatalogProduct) error {
	if p.Rating == 0 {
		p.Rating = model.DefaultRating
	}
	p.Image = ResolveImageString(p.Image)
	p.Price = p.Price.Round(2)
	if p.CJCostPrice.Valid {
		p.CJCostPrice.Decimal = p.CJCostPrice.Decimal.Round(2)
	}
	if err := validateProduct(p); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyImported
		}
		return err
	}

	s.log.Info("[Catalog] 新增商品", zap.Int64("id", p.ID), zap.String("cj_pid", p.Pid()))
	return nil
}

// Update 部分更新
func (s *CatalogService) Update(ctx context.Context, id int64, upd repository.ProductUpdate) (*model.CatalogProduct, error) {
	if err := validateUpdate(&upd); err != nil {
		return nil, err
	}
	p, err := s.repo.UpdateFields(ctx, id, upd)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// Delete 硬删除
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProductNotFound
	}
	if err == nil {
		s.log.Info("[Catalog] 删除商品", zap.Int64("id", id))
	}
	return err
}

// ==================== 图片修复 ====================

// ImageRepairError 单条修复失败
type ImageRepairError struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

// ImageRepairStats 修复统计
type ImageRepairStats struct {
	Total   int64              `json:"total"`
	Fixed   int                `json:"fixed"`
	Skipped int                `json:"skipped"`
	Errors  int                `json:"errors"`
	Details []ImageRepairError `json:"details,omitempty"`
}

// RepairImages 把仍以 JSON 数组存储的图片字段改写为第一张图
func (s *CatalogService) RepairImages(ctx context.Context) (*ImageRepairStats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := s.repo.ListWithArrayImage(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ImageRepairStats{Total: total}
	for _, p := range candidates {
		fixed := ResolveImageString(p.Image)
		if fixed == p.Image {
			// 无法解析
			stats.Details = append(stats.Details, ImageRepairError{ID: p.ID, Error: "图片字段不是合法的 JSON 数组"})
			continue
		}
		if fixed == "" {
			// 空数组，保持原样
			continue
		}
		if err := s.repo.UpdateImage(ctx, p.ID, fixed); err != nil {
			stats.Details = append(stats.Details, ImageRepairError{ID: p.ID, Error: err.Error()})
			continue
		}
		stats.Fixed++
	}

	stats.Errors = len(stats.Details)
	stats.Skipped = int(total) - stats.Fixed - stats.Errors

	s.log.Info("[Catalog] 图片修复完成",
		zap.Int64("total", stats.Total),
		zap.Int("fixed", stats.Fixed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors),
	)
	return stats, nil
}

// ==================== 校验 ====================

func validateProduct(p *model.CatalogProduct) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalidInput("name 不能为空")
	}
	if p.Price.IsNegative() {
		return invalidInput("price 不能为负数")
	}
	if !model.IsShopCategory(p.Category) {
		return invalidInput("未知类目 %q", p.Category)
	}
	if p.Rating < 1 || p.Rating > 5 {
		return invalidInput("rating 必须在 1 到 5 之间")
	}
	if p.CJStock < 0 {
		return invalidInput("cj_stock 不能为负数")
	}
	return nil
}

func validateUpdate(upd *repository.ProductUpdate) error {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return invalidInput("name 不能为空")
	}
	if upd.Price != nil {
		if upd.Price.IsNegative() {
			return invalidInput("price 不能为负数")
		}
		rounded := upd.Price.Round(2)
		upd.Price = &rounded
	}
	if upd.Category != nil && !model.IsShopCategory(*upd.Category) {
		return invalidInput("未知类目 %q", *upd.Category)
	}
	if upd.Rating != nil && (*upd.Rating < 1 || *upd.Rating > 5) {
		return invalidInput("rating 必须在 1 到 5 之间")
	}
	if upd.Stock != nil && *upd.Stock < 0 {
		return invalidInput("cj_stock 不能为负数")
	}
	if upd.Image != nil {
		img := ResolveImageString(*upd.Image)
		upd.Image = &img
	}
	return nil
}
