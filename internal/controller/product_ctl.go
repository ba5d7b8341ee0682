package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"primepet_supply/internal/api/dto"
	"primepet_supply/internal/service"
	"primepet_supply/pkg/cj"
)

// ProductController 供应商商品浏览与导入（/api/products?action=...）
type ProductController struct {
	importService *service.ImportService
}

func NewProductController(importService *service.ImportService) *ProductController {
	return &ProductController{importService: importService}
}

// Handle 按 action 分发
// @Summary 供应商商品浏览 / 导入
// @Tags Products
// @Param action query string true "list | detail | categories | import | preview"
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Param categoryId query string false "供应商类目 ID"
// @Param search query string false "关键词"
// @Param pid query string false "供应商商品 ID（detail）"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} dto.ErrorResp "已导入"
// @Failure 502 {object} dto.ErrorResp "供应商不可用"
// @Router /api/products [get]
func (ctrl *ProductController) Handle(c *gin.Context) {
	switch c.Query("action") {
	case "list":
		ctrl.list(c)
	case "detail":
		ctrl.detail(c)
	case "categories":
		ctrl.categories(c)
	case "import":
		ctrl.importProduct(c)
	case "preview":
		ctrl.preview(c)
	default:
		badRequest(c, msgInvalidAction)
	}
}

// ==================== 浏览 ====================

func (ctrl *ProductController) list(c *gin.Context) {
	var q dto.SupplierListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, msgInvalidData+": "+err.Error())
		return
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 20
	}

	page, err := ctrl.importService.Search(c.Request.Context(), cj.ListQuery{
		Keyword:    strings.TrimSpace(q.Search),
		CategoryID: q.CategoryID,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": page})
}

func (ctrl *ProductController) detail(c *gin.Context) {
	pid := c.Query("pid")
	if pid == "" {
		badRequest(c, "Produkt-ID fehlt")
		return
	}
	p, err := ctrl.importService.Detail(c.Request.Context(), pid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

func (ctrl *ProductController) categories(c *gin.Context) {
	groups, err := ctrl.importService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": groups})
}

// ==================== 导入 ====================

// importProduct 拉取详情、转换并写入目录
func (ctrl *ProductController) importProduct(c *gin.Context) {
	var req dto.ImportProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidData)
		return
	}

	p, err := ctrl.importService.Import(c.Request.Context(), req.Pid, req.ToOptions())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ShopProductResp{
		Success: true,
		Product: p,
		Message: "Produkt erfolgreich importiert",
	})
}

// preview 只返回转换结果，不写库
func (ctrl *ProductController) preview(c *gin.Context) {
	var req dto.ImportProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidData)
		return
	}

	p, err := ctrl.importService.Preview(c.Request.Context(), req.Pid, req.ToOptions())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ShopProductResp{Success: true, Product: p})
}
