package controller

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"primepet_supply/internal/api/dto"
	"primepet_supply/internal/service"
)

// SyncController 库存对账
type SyncController struct {
	stockService *service.StockService
	now          func() time.Time
}

// NewSyncController 创建同步控制器
func NewSyncController(stockService *service.StockService) *SyncController {
	return &SyncController{stockService: stockService, now: time.Now}
}

// ==================== Handler 实现 ====================

// SyncStock 库存对账
// 请求体带 products 时只对这些商品对账；为空时对目录中所有关联供应商的商品对账
// @Summary 手动触发库存对账
// @Tags Sync
// @Accept json
// @Param body body dto.SyncStockReq false "待对账商品"
// @Success 200 {object} dto.SyncStockResp
// @Failure 409 {object} dto.ErrorResp "对账进行中"
// @Failure 429 {object} map[string]interface{} "限流中"
// @Router /api/sync [post]
func (ctrl *SyncController) SyncStock(c *gin.Context) {
	var req dto.SyncStockReq
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, msgInvalidData+": "+err.Error())
			return
		}
	}

	ctx := c.Request.Context()
	var (
		res *service.ReconcileResult
		err error
	)
	if len(req.Products) > 0 {
		res = ctrl.stockService.Reconcile(ctx, req.ToItems())
	} else {
		res, err = ctrl.stockService.ReconcileCatalog(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	resp := dto.NewSyncStockResp(res, ctrl.now())
	if res.Total == 0 {
		resp.Message = "Keine Produkte zum Synchronisieren"
	}
	c.JSON(http.StatusOK, resp)
}
