package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"primepet_supply/internal/api/dto"
	"primepet_supply/internal/service"
)

// OrderController 转单与订单查询
type OrderController struct {
	relayService *service.OrderRelayService
}

func NewOrderController(relayService *service.OrderRelayService) *OrderController {
	return &OrderController{relayService: relayService}
}

// Relay 把店铺订单转给供应商
// @Summary 转单到 CJDropshipping
// @Tags Orders
// @Accept json
// @Produce json
// @Param body body dto.RelayOrderReq true "订单"
// @Success 200 {object} dto.RelayOrderResp
// @Failure 400 {object} dto.ErrorResp
// @Failure 502 {object} dto.RelayOrderResp "供应商下单失败"
// @Router /api/orders [post]
func (ctrl *OrderController) Relay(c *gin.Context) {
	var req dto.RelayOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Ungültige Bestelldaten")
		return
	}

	res, err := ctrl.relayService.Relay(c.Request.Context(), req.ToRelayRequest())
	if err != nil && res == nil {
		respondError(c, err)
		return
	}

	resp := dto.RelayOrderResp{
		Success:       err == nil,
		Status:        string(res.Status),
		OrderNumber:   res.OrderNumber,
		CJOrderNumber: res.CJOrderNumber,
		Excluded:      res.ExcludedIDs,
	}
	if err != nil {
		// 本地订单已记录，告诉前端供应商侧失败
		_ = c.Error(err)
		resp.Error = "Fehler beim Erstellen der Bestellung bei CJDropshipping"
		status, _ := errorStatus(err)
		c.JSON(status, resp)
		return
	}

	if len(res.Lines) == 0 {
		resp.Message = "Keine CJ-Produkte in der Bestellung"
	} else {
		resp.Message = "Bestellung erfolgreich an CJDropshipping weitergeleitet"
	}
	c.JSON(http.StatusOK, resp)
}

// Status 供应商订单状态
// @Summary 查询供应商订单状态
// @Tags Orders
// @Param orderNumber query string true "订单号（本地或供应商）"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} dto.ErrorResp
// @Router /api/orders/status [get]
func (ctrl *OrderController) Status(c *gin.Context) {
	orderNumber := c.Query("orderNumber")
	if orderNumber == "" {
		badRequest(c, "Bestellnummer fehlt")
		return
	}
	status, err := ctrl.relayService.OrderStatus(c.Request.Context(), orderNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}

// Tracking 物流轨迹
// @Summary 查询物流轨迹
// @Tags Orders
// @Param orderNumber query string true "订单号"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} dto.ErrorResp "暂无物流"
// @Router /api/tracking [get]
func (ctrl *OrderController) Tracking(c *gin.Context) {
	orderNumber := c.Query("orderNumber")
	if orderNumber == "" {
		badRequest(c, "Bestellnummer fehlt")
		return
	}
	list, err := ctrl.relayService.Tracking(c.Request.Context(), orderNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tracking": list})
}

// ListRelays 最近的转单记录
// @Summary 转单记录
// @Tags Orders
// @Param limit query int false "条数，默认 50，最多 200"
// @Success 200 {object} map[string]interface{}
// @Router /api/orders/relays [get]
func (ctrl *OrderController) ListRelays(c *gin.Context) {
	records, err := ctrl.relayService.ListRelays(c.Request.Context(), queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": records})
}
