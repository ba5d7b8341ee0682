package service

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"primepet_supply/internal/model"
	"primepet_supply/pkg/cj"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "单值", raw: "9.64", want: "9.64"},
		{name: "区间取上限", raw: "5.37 -- 9.64", want: "9.64"},
		{name: "区间无空格", raw: "1.10--2.20", want: "2.2"},
		{name: "区间倒序也取最大", raw: "9.64 -- 5.37", want: "9.64"},
		{name: "空串", raw: "", want: "0"},
		{name: "非数字", raw: "abc", want: "0"},
		{name: "区间有非法部分", raw: "5.37 -- n/a", want: "0"},
		{name: "负数", raw: "-3.5", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.raw)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestSellingPrice(t *testing.T) {
	tests := []struct {
		cost, markup, want string
	}{
		{"9.64", "1.5", "14.46"},
		{"10", "1.5", "15.00"},
		{"0.333", "1", "0.33"},
		{"0.335", "1", "0.34"}, // 五入
		{"7.99", "1.25", "9.99"},
		{"0", "2", "0.00"},
	}

	for _, tt := range tests {
		got := SellingPrice(decimal.RequireFromString(tt.cost), decimal.RequireFromString(tt.markup))
		assert.Equal(t, tt.want, got.StringFixed(2), "cost=%s markup=%s", tt.cost, tt.markup)
		assert.LessOrEqual(t, got.Exponent(), int32(0))
		assert.GreaterOrEqual(t, got.Exponent(), int32(-2))
	}
}

func TestMarkupFromPercent(t *testing.T) {
	assert.True(t, MarkupFromPercent(50).Equal(decimal.RequireFromString("1.5")))
	assert.True(t, MarkupFromPercent(0).Equal(decimal.NewFromInt(1)))
	assert.True(t, MarkupFromPercent(120).Equal(decimal.RequireFromString("2.2")))
}

func TestMapCategory(t *testing.T) {
	tests := []struct {
		label, override, want string
	}{
		{"Dog Supplies", "", model.CategoryDogs},
		{"Cat Supplies", "", model.CategoryCats},
		{"Bird Supplies", "", model.CategoryBirds},
		{"Small Animal Supplies", "", model.CategorySmallAnimals},
		{"Pet Toys", "", model.CategoryDogs},
		{"", "", model.CategoryDogs},
		{"Aquarium", "", UnmappedCategoryPolicy},
		{"Dog Supplies", model.CategoryCats, model.CategoryCats},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapCategory(tt.label, tt.override), "label=%q override=%q", tt.label, tt.override)
	}
}

func TestResolveImage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "普通 URL", raw: `"http://x/a.jpg"`, want: "http://x/a.jpg"},
		{name: "JSON 数组字符串", raw: `"[\"http://x/a.jpg\",\"http://x/b.jpg\"]"`, want: "http://x/a.jpg"},
		{name: "原生数组", raw: `["http://x/a.jpg","http://x/b.jpg"]`, want: "http://x/a.jpg"},
		{name: "空数组", raw: `[]`, want: ""},
		{name: "空数组字符串", raw: `"[]"`, want: ""},
		{name: "无法解析的字符串原样返回", raw: `"[broken"`, want: "[broken"},
		{name: "null", raw: `null`, want: ""},
		{name: "缺失", raw: ``, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveImage(json.RawMessage(tt.raw)))
		})
	}
}

// ==================== 整体转换 ====================

func TestToCatalogProduct_EndToEnd(t *testing.T) {
	var raw cj.Product
	err := json.Unmarshal([]byte(`{
		"pid": "P1",
		"vid": "V1",
		"productNameEn": "Dog Rope Toy",
		"sellPrice": "5.37 -- 9.64",
		"productImage": "[\"http://x/a.jpg\",\"http://x/b.jpg\"]",
		"categoryName": "Dog Supplies",
		"availableStock": 12
	}`), &raw)
	if err != nil {
		t.Fatalf("解析测试数据失败: %v", err)
	}

	p := ToCatalogProduct(&raw, ImportOptions{Markup: decimal.RequireFromString("1.5")})

	assert.Equal(t, "14.46", p.Price.StringFixed(2))
	assert.Equal(t, "http://x/a.jpg", p.Image)
	assert.Equal(t, model.CategoryDogs, p.Category)
	assert.Equal(t, "9.64", p.CJCostPrice.Decimal.StringFixed(2))
	assert.Equal(t, 12, p.CJStock)
	assert.Equal(t, "P1", p.Pid())
	assert.Equal(t, "V1", p.Vid())
	assert.Equal(t, "Dog Rope Toy", p.Name)
	assert.Equal(t, "Dog Rope Toy", p.Description)
	assert.Equal(t, 5, p.Rating)
	assert.Equal(t, DefaultBadge, model.StrVal(p.Badge))
}

func TestToCatalogProduct_Defaults(t *testing.T) {
	raw := &cj.Product{
		Pid:         "P2",
		ProductName: "",
		SellPrice:   "abc",
		Variants:    []cj.Variant{{Vid: "V-first"}, {Vid: "V-second"}},
	}

	p := ToCatalogProduct(raw, ImportOptions{Category: model.CategoryBirds, Badge: "SALE"})

	assert.Equal(t, FallbackProductName, p.Name)
	assert.Equal(t, "", p.Description)
	assert.True(t, p.Price.IsZero())
	assert.Equal(t, model.CategoryBirds, p.Category)
	assert.Equal(t, "SALE", model.StrVal(p.Badge))
	assert.Equal(t, "V-first", p.Vid())
	assert.Equal(t, 0, p.CJStock)
	assert.Equal(t, "", p.Image)
}

func TestToCatalogProduct_NameFallsBackToLocalName(t *testing.T) {
	raw := &cj.Product{Pid: "P3", ProductName: "Katzenbaum", Description: "Groß", SellPrice: "20"}
	p := ToCatalogProduct(raw, ImportOptions{})

	assert.Equal(t, "Katzenbaum", p.Name)
	assert.Equal(t, "Groß", p.Description)
	assert.Equal(t, "30.00", p.Price.StringFixed(2))
	assert.Nil(t, p.CJVid)
}
