package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"primepet_supply/internal/model"
	"primepet_supply/internal/repository"
	"primepet_supply/pkg/cj"
	"primepet_supply/pkg/logger"
)

const (
	// DefaultCountryCode 收货国家缺省为德国
	DefaultCountryCode = "DE"
	// DefaultLogisticName 供应商默认物流
	DefaultLogisticName = "CJ Standard"
	// OrderNumberPrefix 本地订单号前缀
	OrderNumberPrefix = "PRIME"
)

// ==================== 请求 / 结果 ====================

// RelayItem 购物车行：ProductID 和 Vid 至少给一个
type RelayItem struct {
	ProductID int64
	Vid       string
	Quantity  int
}

// Customer 收货人
type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	City      string
	Zip       string
	Country   string
}

// RelayRequest 转单请求
type RelayRequest struct {
	OrderNumber    string // 为空时自动生成
	Items          []RelayItem
	Customer       Customer
	ShippingMethod string
	Notes          string
}

// RelayResult 转单结果
type RelayResult struct {
	Status        model.RelayStatus `json:"status"`
	OrderNumber   string            `json:"order_number"`
	CJOrderNumber string            `json:"cj_order_number,omitempty"`
	Lines         []model.RelayLine `json:"lines"`
	ExcludedIDs   []int64           `json:"excluded_product_ids,omitempty"`
	Error         string            `json:"error,omitempty"`
}

// ==================== 服务 ====================

// OrderRelayService 把本地订单转发给供应商
type OrderRelayService struct {
	supplier SupplierOrders
	products repository.ProductRepository
	orders   repository.SupplierOrderRepository
	log      *zap.Logger
	now      func() time.Time
}

// NewOrderRelayService 创建转单服务
func NewOrderRelayService(supplier SupplierOrders, products repository.ProductRepository, orders repository.SupplierOrderRepository, log *zap.Logger) *OrderRelayService {
	return &OrderRelayService{
		supplier: supplier,
		products: products,
		orders:   orders,
		log:      logger.OrNop(log),
		now:      time.Now,
	}
}

// NewOrderNumber PRIME-<毫秒时间戳>-<0..9999>
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("%s-%d-%d", OrderNumberPrefix, now.UnixMilli(), rand.Intn(10000))
}

// Relay 转单
// 没有供应商变体 ID 的行被排除；排除后为空则不调用供应商，结果为 skipped
// 供应商失败时返回结果 + ErrSupplierUnavailable，本地订单不回滚
func (s *OrderRelayService) Relay(ctx context.Context, req RelayRequest) (*RelayResult, error) {
	if len(req.Items) == 0 {
		return nil, invalidInput("订单没有商品")
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, invalidInput("商品数量必须大于 0")
		}
	}

	lines, excluded, err := s.ExcludeNonSupplierItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	orderNumber := strings.TrimSpace(req.OrderNumber)
	if orderNumber == "" {
		orderNumber = NewOrderNumber(s.now())
	}
	logisticName := strings.TrimSpace(req.ShippingMethod)
	if logisticName == "" {
		logisticName = DefaultLogisticName
	}

	result := &RelayResult{OrderNumber: orderNumber, Lines: lines, ExcludedIDs: excluded}
	record := &model.SupplierOrder{
		OrderNumber:   orderNumber,
		CustomerEmail: req.Customer.Email,
		LogisticName:  logisticName,
		Lines:         lines,
		ExcludedIDs:   excluded,
	}

	if len(lines) == 0 {
		s.log.Info("[Relay] 没有可转发的供应商商品，跳过", zap.String("order_number", orderNumber))
		result.Status = model.RelayStatusSkipped
		record.Status = model.RelayStatusSkipped
		s.saveRecord(ctx, record)
		return result, nil
	}

	cjReq := &cj.OrderRequest{
		OrderNumber:     orderNumber,
		ShippingAddress: toShippingAddress(req.Customer),
		Products:        make([]cj.OrderLine, 0, len(lines)),
		LogisticName:    logisticName,
		Remark:          req.Notes,
	}
	for _, l := range lines {
		cjReq.Products = append(cjReq.Products, cj.OrderLine{Vid: l.Vid, Quantity: l.Quantity})
	}

	res, err := s.supplier.CreateOrder(ctx, cjReq)
	if err != nil {
		s.log.Error("[Relay] 供应商下单失败", zap.String("order_number", orderNumber), zap.Error(err))
		result.Status = model.RelayStatusFailed
		result.Error = err.Error()
		record.Status = model.RelayStatusFailed
		record.ErrorMsg = truncate(err.Error(), 1024)
		s.saveRecord(ctx, record)
		return result, supplierErr("供应商下单", err)
	}

	result.Status = model.RelayStatusSubmitted
	result.CJOrderNumber = res.OrderNum
	record.Status = model.RelayStatusSubmitted
	record.CJOrderNumber = res.OrderNum
	record.CJOrderID = res.OrderID
	s.saveRecord(ctx, record)

	s.log.Info("[Relay] 转单成功",
		zap.String("order_number", orderNumber),
		zap.String("cj_order_number", res.OrderNum),
		zap.Int("lines", len(lines)),
		zap.Int("excluded", len(excluded)),
	)
	return result, nil
}

// ExcludeNonSupplierItems 解析出供应商订单行
// 按商品 ID 给出的行从目录取 cj_vid；拿不到变体 ID 的行被排除（返回其商品 ID）
func (s *OrderRelayService) ExcludeNonSupplierItems(ctx context.Context, items []RelayItem) ([]model.RelayLine, []int64, error) {
	var ids []int64
	for _, it := range items {
		if strings.TrimSpace(it.Vid) == "" && it.ProductID > 0 {
			ids = append(ids, it.ProductID)
		}
	}

	byID := make(map[int64]model.CatalogProduct, len(ids))
	if len(ids) > 0 {
		products, err := s.products.GetByIDs(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		for _, p := range products {
			byID[p.ID] = p
		}
	}

	lines := make([]model.RelayLine, 0, len(items))
	var excluded []int64
	for _, it := range items {
		vid := strings.TrimSpace(it.Vid)
		if vid == "" {
			if p, ok := byID[it.ProductID]; ok && p.IsSupplierLinked() {
				vid = p.Vid()
			}
		}
		if vid == "" {
			excluded = append(excluded, it.ProductID)
			continue
		}
		lines = append(lines, model.RelayLine{ProductID: it.ProductID, Vid: vid, Quantity: it.Quantity})
	}
	return lines, excluded, nil
}

// ==================== 订单查询 ====================

// OrderStatus 供应商订单状态，同时更新本地转单记录
func (s *OrderRelayService) OrderStatus(ctx context.Context, orderNumber string) (*cj.OrderStatus, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, invalidInput("orderNumber 不能为空")
	}

	status, err := s.supplier.GetOrderStatus(ctx, orderNumber)
	if err != nil {
		return nil, supplierErr("查询订单状态", err)
	}
	if status == nil {
		return nil, ErrOrderNotFound
	}

	if rec, err := s.orders.FindByAnyNumber(ctx, orderNumber); err == nil {
		if err := s.orders.UpdateSupplierStatus(ctx, rec.ID, status.OrderStatus, s.now()); err != nil {
			s.log.Warn("[Relay] 更新供应商状态失败", zap.String("order_number", orderNumber), zap.Error(err))
		}
	}
	return status, nil
}

// Tracking 物流轨迹，没有时返回 ErrNoTracking
func (s *OrderRelayService) Tracking(ctx context.Context, orderNumber string) ([]cj.TrackingInfo, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, invalidInput("orderNumber 不能为空")
	}
	list, err := s.supplier.GetTracking(ctx, orderNumber)
	if err != nil {
		return nil, supplierErr("查询物流", err)
	}
	if len(list) == 0 {
		return nil, ErrNoTracking
	}
	return list, nil
}

// ListRelays 最近的转单记录
func (s *OrderRelayService) ListRelays(ctx context.Context, limit int) ([]model.SupplierOrder, error) {
	return s.orders.ListRecent(ctx, limit)
}

// ==================== 辅助函数 ====================

// saveRecord 记录失败只打日志，不影响转单结果
func (s *OrderRelayService) saveRecord(ctx context.Context, record *model.SupplierOrder) {
	if err := s.orders.Create(ctx, record); err != nil {
		s.log.Warn("[Relay] 保存转单记录失败", zap.String("order_number", record.OrderNumber), zap.Error(err))
	}
}

func toShippingAddress(c Customer) cj.ShippingAddress {
	country := strings.ToUpper(strings.TrimSpace(c.Country))
	if country == "" {
		country = DefaultCountryCode
	}
	return cj.ShippingAddress{
		CountryCode:  country,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		AddressLine1: c.Address,
		City:         c.City,
		Zip:          c.Zip,
		Phone:        c.Phone,
		Email:        c.Email,
	}
}

// truncate 按字节截断，但不切开多字节字符
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
