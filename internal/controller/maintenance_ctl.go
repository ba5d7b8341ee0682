package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"primepet_supply/internal/api/dto"
	"primepet_supply/internal/service"
)

// MaintenanceController 数据维护
type MaintenanceController struct {
	catalogService *service.CatalogService
}

func NewMaintenanceController(catalogService *service.CatalogService) *MaintenanceController {
	return &MaintenanceController{catalogService: catalogService}
}

// FixImages 把存量的 JSON 数组图片改写成单张图片
// @Summary 修复商品图片字段
// @Tags Maintenance
// @Success 200 {object} dto.FixImagesResp
// @Router /api/maintenance/fix-images [post]
func (ctrl *MaintenanceController) FixImages(c *gin.Context) {
	stats, err := ctrl.catalogService.RepairImages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.FixImagesResp{
		Success:    true,
		Message:    "Bild-Migration abgeschlossen",
		Statistics: *stats,
		Errors:     stats.Details,
	}
	resp.Statistics.Details = nil
	c.JSON(http.StatusOK, resp)
}
