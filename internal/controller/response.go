package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"primepet_supply/internal/api/dto"
	"primepet_supply/internal/service"
)

// ==================== 统一响应 ====================

// 面向店铺前端的错误文案（德语，与前端提示一致）
const (
	msgInvalidAction   = "Ungültige Aktion"
	msgInvalidData     = "Ungültige Daten"
	msgInvalidID       = "Ungültige Produkt-ID"
	msgProductNotFound = "Produkt nicht gefunden"
	msgAlreadyImported = "Produkt bereits vorhanden"
	msgOrderNotFound   = "Bestellung nicht gefunden"
	msgNoTracking      = "Keine Tracking-Informationen gefunden"
	msgSupplierDown    = "CJDropshipping ist derzeit nicht erreichbar"
	msgSyncRunning     = "Synchronisierung läuft bereits"
	msgServerError     = "Server-Fehler"
)

// errorStatus 业务错误 -> HTTP 状态码和提示
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound, msgProductNotFound
	case errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound, msgOrderNotFound
	case errors.Is(err, service.ErrNoTracking):
		return http.StatusNotFound, msgNoTracking
	case errors.Is(err, service.ErrAlreadyImported):
		return http.StatusConflict, msgAlreadyImported
	case errors.Is(err, service.ErrSyncInProgress):
		return http.StatusConflict, msgSyncRunning
	case errors.Is(err, service.ErrSupplierUnavailable):
		return http.StatusBadGateway, msgSupplierDown
	default:
		return http.StatusInternalServerError, msgServerError
	}
}

// respondError 写错误响应；原始错误挂到 gin.Context 上由访问日志记录
func respondError(c *gin.Context, err error) {
	status, msg := errorStatus(err)
	_ = c.Error(err)
	c.JSON(status, dto.ErrorResp{Success: false, Error: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResp{Success: false, Error: msg})
}

// ==================== 工具函数 ====================

// queryID 读取 query 中的 id，非法时直接写 400 并返回 0
func queryID(c *gin.Context, key string) int64 {
	id, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, msgInvalidID)
		return 0
	}
	return id
}

// queryInt 读取整数参数，缺省或非法时返回 def
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
