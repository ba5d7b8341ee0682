package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"primepet_supply/internal/model"
)

// ==================== 接口定义 ====================

// ProductRepository 店铺商品仓储接口
type ProductRepository interface {
	// 基础 CRUD
	Create(ctx context.Context, product *model.CatalogProduct) error
	GetByID(ctx context.Context, id int64) (*model.CatalogProduct, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.CatalogProduct, error)
	GetByCJPid(ctx context.Context, pid string) (*model.CatalogProduct, error)
	UpdateFields(ctx context.Context, id int64, upd ProductUpdate) (*model.CatalogProduct, error)
	Delete(ctx context.Context, id int64) error

	// 列表查询
	List(ctx context.Context, filter ProductFilter) ([]model.CatalogProduct, error)
	ListSupplierLinked(ctx context.Context, limit int) ([]model.CatalogProduct, error)
	ListWithArrayImage(ctx context.Context) ([]model.CatalogProduct, error)
	Count(ctx context.Context) (int64, error)

	// 单字段更新
	UpdateStock(ctx context.Context, id int64, stock int) error
	UpdateImage(ctx context.Context, id int64, image string) error

	// 事务
}

// ==================== 过滤条件 ====================

// ProductFilter 列表过滤条件
type ProductFilter struct {
	Category string // 空或 "alle" 表示全部
}

// ProductUpdate 部分更新，nil 字段不修改
type ProductUpdate struct {
	Name        *string
	Price       *decimal.Decimal
	Category    *string
	Description *string
	Image       *string
	Rating      *int
	Badge       *string
	Stock       *int
}

func (u ProductUpdate) toMap() map[string]interface{} {
	fields := make(map[string]interface{})
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Price != nil {
		fields["price"] = u.Price.Round(2)
	}
	if u.Category != nil {
		fields["category"] = *u.Category
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Image != nil {
		fields["image"] = *u.Image
	}
	if u.Rating != nil {
		fields["rating"] = *u.Rating
	}
	if u.Badge != nil {
		fields["badge"] = model.StrPtr(*u.Badge)
	}
	if u.Stock != nil {
		fields["cj_stock"] = *u.Stock
	}
	return fields
}

// ==================== 仓储实现 ====================

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

// Create cj_pid 冲突由唯一索引判定，返回 ErrDuplicate
func (r *productRepo) Create(ctx context.Context, product *model.CatalogProduct) error {
	return translate(r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*model.CatalogProduct, error) {
	var product model.CatalogProduct
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) GetByIDs(ctx context.Context, ids []int64) ([]model.CatalogProduct, error) {
	var products []model.CatalogProduct
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepo) GetByCJPid(ctx context.Context, pid string) (*model.CatalogProduct, error) {
	var product model.CatalogProduct
	err := r.db.WithContext(ctx).Where("cj_pid = ?", pid).First(&product).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) UpdateFields(ctx context.Context, id int64, upd ProductUpdate) (*model.CatalogProduct, error) {
	fields := upd.toMap()
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).
			Model(&model.CatalogProduct{}).
			Where("id = ?", id).
			Updates(fields)
		if res.Error != nil {
			return nil, translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.GetByID(ctx, id)
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CatalogProduct{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List 最新创建的在前
func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.CatalogProduct, error) {
	var products []model.CatalogProduct

	query := r.db.WithContext(ctx).Model(&model.CatalogProduct{})
	if filter.Category != "" && filter.Category != model.CategoryAll {
		query = query.Where("category = ?", filter.Category)
	}

	err := query.Order("created_at DESC").Order("id DESC").Find(&products).Error
	return products, err
}

// ListSupplierLinked 有供应商变体 ID 的商品
func (r *productRepo) ListSupplierLinked(ctx context.Context, limit int) ([]model.CatalogProduct, error) {
	var products []model.CatalogProduct
	query := r.db.WithContext(ctx).
		Where("cj_vid IS NOT NULL AND cj_vid <> ''").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&products).Error
	return products, err
}

// ListWithArrayImage image 仍然是 JSON 数组文本的商品
func (r *productRepo) ListWithArrayImage(ctx context.Context) ([]model.CatalogProduct, error) {
	var products []model.CatalogProduct
	err := r.db.WithContext(ctx).
		Where("image LIKE ?", "[%").
		Order("id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.CatalogProduct{}).Count(&total).Error
	return total, err
}

func (r *productRepo) UpdateStock(ctx context.Context, id int64, stock int) error {
	return r.updateColumn(ctx, id, "cj_stock", stock)
}

func (r *productRepo) UpdateImage(ctx context.Context, id int64, image string) error {
	return r.updateColumn(ctx, id, "image", image)
}

func (r *productRepo) updateColumn(ctx context.Context, id int64, column string, value interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&model.CatalogProduct{}).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
