package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"primepet_supply/internal/model"
)

// SupplierOrderRepository 转单记录仓储
type SupplierOrderRepository interface {
	Create(ctx context.Context, order *model.SupplierOrder) error
	GetByOrderNumber(ctx context.Context, orderNumber string) (*model.SupplierOrder, error)
	FindByAnyNumber(ctx context.Context, number string) (*model.SupplierOrder, error)
	UpdateSupplierStatus(ctx context.Context, id int64, status string, checkedAt time.Time) error
	ListRecent(ctx context.Context, limit int) ([]model.SupplierOrder, error)
}

type supplierOrderRepo struct {
	db *gorm.DB
}

// NewSupplierOrderRepository 创建转单记录仓储
func NewSupplierOrderRepository(db *gorm.DB) SupplierOrderRepository {
	return &supplierOrderRepo{db: db}
}

func (r *supplierOrderRepo) Create(ctx context.Context, order *model.SupplierOrder) error {
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

func (r *supplierOrderRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*model.SupplierOrder, error) {
	var order model.SupplierOrder
	err := r.db.WithContext(ctx).Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// FindByAnyNumber 本地订单号或供应商订单号均可
func (r *supplierOrderRepo) FindByAnyNumber(ctx context.Context, number string) (*model.SupplierOrder, error) {
	var order model.SupplierOrder
	err := r.db.WithContext(ctx).
		Where("order_number = ? OR cj_order_number = ?", number, number).
		First(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *supplierOrderRepo) UpdateSupplierStatus(ctx context.Context, id int64, status string, checkedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.SupplierOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"supplier_status":   status,
			"status_checked_at": checkedAt,
		}).Error
}

func (r *supplierOrderRepo) ListRecent(ctx context.Context, limit int) ([]model.SupplierOrder, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var orders []model.SupplierOrder
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
