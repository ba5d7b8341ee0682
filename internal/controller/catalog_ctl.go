package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"primepet_supply/internal/api/dto"
	"primepet_supply/internal/service"
)

// ==================== 控制器 ====================

// CatalogController 店铺商品（/api/shop-products?action=...）
type CatalogController struct {
	catalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// Handle 按 action 分发
// @Summary 店铺商品 CRUD
// @Tags ShopProducts
// @Param action query string true "list | get | add | update | delete"
// @Param id query int false "商品 ID"
// @Param category query string false "类目，alle 表示全部"
// @Success 200 {object} dto.ShopProductListResp
// @Failure 400 {object} dto.ErrorResp
// @Failure 404 {object} dto.ErrorResp
// @Failure 409 {object} dto.ErrorResp
// @Router /api/shop-products [get]
func (ctrl *CatalogController) Handle(c *gin.Context) {
	switch c.Query("action") {
	case "list":
		ctrl.list(c)
	case "get":
		ctrl.get(c)
	case "add":
		ctrl.add(c)
	case "update":
		ctrl.update(c)
	case "delete":
		ctrl.delete(c)
	default:
		badRequest(c, msgInvalidAction)
	}
}

// ==================== Action 实现 ====================

func (ctrl *CatalogController) list(c *gin.Context) {
	products, err := ctrl.catalogService.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ShopProductListResp{Success: true, Products: products})
}

func (ctrl *CatalogController) get(c *gin.Context) {
	id := queryID(c, "id")
	if id == 0 {
		return
	}
	p, err := ctrl.catalogService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ShopProductResp{Success: true, Product: p})
}

func (ctrl *CatalogController) add(c *gin.Context) {
	var req dto.AddShopProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidData+": "+err.Error())
		return
	}

	p := req.ToModel()
	if err := ctrl.catalogService.Add(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ShopProductResp{Success: true, Product: p})
}

func (ctrl *CatalogController) update(c *gin.Context) {
	var req dto.UpdateShopProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidData+": "+err.Error())
		return
	}

	id := req.ID
	if c.Query("id") != "" || id == 0 {
		if id = queryID(c, "id"); id == 0 {
			return
		}
	}

	p, err := ctrl.catalogService.Update(c.Request.Context(), id, req.ToUpdate())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ShopProductResp{Success: true, Product: p})
}

func (ctrl *CatalogController) delete(c *gin.Context) {
	id := queryID(c, "id")
	if id == 0 {
		return
	}
	if err := ctrl.catalogService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Produkt gelöscht"})
}
