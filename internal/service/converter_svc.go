package service

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"primepet_supply/internal/model"
	"primepet_supply/pkg/cj"
)

// ==================== 常量 ====================

// DefaultMarkup 默认加价系数
var DefaultMarkup = decimal.RequireFromString("1.5")

const (
	// DefaultBadge 新导入商品角标
	DefaultBadge = "NEU"
	// FallbackProductName 供应商没有名称时使用
	FallbackProductName = "Unbenanntes Produkt"
	// MissingCategoryLabel 供应商没给类目时按宠物玩具处理
	MissingCategoryLabel = "Pet Toys"
	// UnmappedCategoryPolicy 映射表里没有的供应商类目归到狗狗
	UnmappedCategoryPolicy = model.CategoryDogs
)

// rangeSeparator 价格区间分隔符，例如 "5.37 -- 9.64"
const rangeSeparator = "--"

// CategoryMapping 供应商类目 -> 店铺类目
var CategoryMapping = map[string]string{
	"Dog Supplies":          model.CategoryDogs,
	"Cat Supplies":          model.CategoryCats,
	"Bird Supplies":         model.CategoryBirds,
	"Small Animal Supplies": model.CategorySmallAnimals,
	"Pet Toys":              model.CategoryDogs,
}

// ImportOptions 导入时的覆盖项
type ImportOptions struct {
	Markup   decimal.Decimal // 0 表示使用默认值
	Category string          // 非空时覆盖映射结果
	Badge    string          // 空则使用 DefaultBadge
}

// ==================== 转换入口 ====================

// ToCatalogProduct 供应商原始商品 -> 店铺商品（不落库）
func ToCatalogProduct(raw *cj.Product, opts ImportOptions) *model.CatalogProduct {
	markup := opts.Markup
	if !markup.IsPositive() {
		markup = DefaultMarkup
	}
	badge := opts.Badge
	if badge == "" {
		badge = DefaultBadge
	}

	cost := ParsePrice(raw.SellPrice.String())

	return &model.CatalogProduct{
		Name:        firstNonEmpty(raw.ProductNameEn, raw.ProductName, FallbackProductName),
		Price:       SellingPrice(cost, markup),
		Category:    MapCategory(raw.CategoryName, opts.Category),
		Description: firstNonEmpty(raw.Description, raw.ProductNameEn),
		Image:       ResolveImage(raw.ProductImage),
		Rating:      model.DefaultRating,
		Badge:       model.StrPtr(badge),
		CJPid:       model.StrPtr(raw.Pid),
		CJVid:       model.StrPtr(raw.VariantID()),
		CJCostPrice: decimal.NewNullDecimal(cost),
		CJStock:     max(int(raw.AvailableStock), 0),
	}
}

// ==================== 价格 ====================

// ParsePrice 解析供应商价格：单值或 "低 -- 高" 区间（取上限）
// 无法解析或为负数时返回 0
func ParsePrice(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}

	parts := strings.Split(raw, rangeSeparator)
	best := decimal.Zero
	for _, part := range parts {
		v, err := decimal.NewFromString(strings.TrimSpace(part))
		if err != nil {
			return decimal.Zero
		}
		if v.GreaterThan(best) {
			best = v
		}
	}
	return best
}

// SellingPrice 售价 = 成本 × 系数，四舍五入到分
func SellingPrice(cost, markup decimal.Decimal) decimal.Decimal {
	return cost.Mul(markup).Round(2)
}

// MarkupFromPercent 后台以百分比输入加价，50 -> 1.5
func MarkupFromPercent(percent float64) decimal.Decimal {
	return decimal.NewFromInt(1).Add(decimal.NewFromFloat(percent).Div(decimal.NewFromInt(100)))
}

// ==================== 类目 ====================

// MapCategory override 非空时直接使用
func MapCategory(supplierLabel, override string) string {
	if override != "" {
		return override
	}
	label := strings.TrimSpace(supplierLabel)
	if label == "" {
		label = MissingCategoryLabel
	}
	if c, ok := CategoryMapping[label]; ok {
		return c
	}
	return UnmappedCategoryPolicy
}

// ==================== 图片 ====================

// ResolveImage productImage 可能是：URL 字符串、JSON 数组字符串、原生数组
// 数组取第一个元素，空数组返回空串
func ResolveImage(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return ResolveImageString(s)
	case '[':
		return firstImage(trimmed, "")
	default:
		return ""
	}
}

// ResolveImageString 已经是字符串的图片字段（包括库里存量数据）
// 解析不了的字符串原样返回
func ResolveImageString(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "[") {
		return s
	}
	return firstImage([]byte(trimmed), s)
}

// firstImage 解析 JSON 数组取第一个字符串元素，解析失败返回 fallback
func firstImage(raw []byte, fallback string) string {
	var list []interface{}
	if err := json.Unmarshal(raw, &list); err != nil {
		return fallback
	}
	if len(list) == 0 {
		return ""
	}
	if first, ok := list[0].(string); ok {
		return first
	}
	return ""
}

// ==================== 工具函数 ====================

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
