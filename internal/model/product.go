package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ==================== 店铺类目 ====================

// 店铺类目编码（与前端筛选值一致）
const (
	CategoryDogs         = "hunde"
	CategoryCats         = "katzen"
	CategoryBirds        = "vögel"
	CategorySmallAnimals = "kleintiere"

	// CategoryAll 列表筛选时表示不过滤
	CategoryAll = "alle"
)

// ShopCategories 全部合法类目
var ShopCategories = []string{CategoryDogs, CategoryCats, CategoryBirds, CategorySmallAnimals}

// IsShopCategory 是否为合法类目
func IsShopCategory(c string) bool {
	for _, v := range ShopCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ==================== 商品 ====================

// DefaultRating 新商品评分
const DefaultRating = 5

// CatalogProduct 店铺商品
// CJPid 为空表示手工录入商品；非空时全表唯一
type CatalogProduct struct {
	ID          int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string              `gorm:"size:500;not null" json:"name"`
	Price       decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string              `gorm:"size:100;not null;index" json:"category"`
	Description string              `gorm:"type:text" json:"description"`
	Image       string              `gorm:"type:text" json:"image"`
	Rating      int                 `gorm:"default:5" json:"rating"`
	Badge       *string             `gorm:"size:50" json:"badge"`
	CJPid       *string             `gorm:"column:cj_pid;size:255;uniqueIndex" json:"cj_pid"`
	CJVid       *string             `gorm:"column:cj_vid;size:255;index" json:"cj_vid"`
	CJCostPrice decimal.NullDecimal `gorm:"column:cj_cost_price;type:decimal(10,2)" json:"cj_cost_price"`
	CJStock     int                 `gorm:"column:cj_stock;default:0" json:"cj_stock"`
	CreatedAt   time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func (CatalogProduct) TableName() string {
	return "products"
}

// IsSupplierLinked 是否可以向供应商查询库存/下单
func (p *CatalogProduct) IsSupplierLinked() bool {
	return p.CJVid != nil && strings.TrimSpace(*p.CJVid) != ""
}

// Pid 供应商商品 ID
func (p *CatalogProduct) Pid() string { return StrVal(p.CJPid) }

// Vid 供应商变体 ID
func (p *CatalogProduct) Vid() string { return StrVal(p.CJVid) }
