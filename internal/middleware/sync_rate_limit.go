package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 同步限流中间件 ====================

// GlobalSyncRateLimit 全局同步限流中间件
// 用于库存对账、图片修复等会扫整个目录的操作
//
// 使用示例:
//
//	api.POST("/sync",
//	    middleware.GlobalSyncRateLimit(middleware.GetLimiter(), middleware.SyncTypeStock, cfg.Stock.SyncCooldown),
//	    syncCtl.SyncStock,
//	)
//
// 参数:
//   - limiter: 限流器，nil 使用全局实例
//   - syncType: 同步类型
//   - interval: 冷却间隔，0 表示使用默认值
//
// 请求以 4xx/5xx 结束时释放冷却窗口，参数写错不用干等
func GlobalSyncRateLimit(limiter *SyncRateLimiter, syncType SyncType, interval time.Duration) gin.HandlerFunc {
	if limiter == nil {
		limiter = GetLimiter()
	}
	if interval == 0 {
		interval = GetInterval(syncType)
	}

	return func(c *gin.Context) {
		key := GlobalSyncKey(syncType)

		result := limiter.Check(key, interval)
		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			c.Header("Retry-After", fmt.Sprint(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"error":       formatRetryMessage(result.RetryAfter),
				"retry_after": retryAfter,
				"sync_type":   syncType,
			})
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			limiter.Reset(key)
		}
	}
}

// ==================== 辅助函数 ====================

// formatRetryMessage 格式化重试提示信息
func formatRetryMessage(d time.Duration) string {
	seconds := int(d.Seconds())

	if seconds < 60 {
		return fmt.Sprintf("Sync cooling down, retry in %d seconds", seconds)
	}

	minutes := seconds / 60
	remainingSeconds := seconds % 60

	if remainingSeconds == 0 {
		return fmt.Sprintf("Sync cooling down, retry in %d minutes", minutes)
	}

	return fmt.Sprintf("Sync cooling down, retry in %d min %d s", minutes, remainingSeconds)
}

// ==================== 手动限流检查（供定时任务使用）====================

// SyncWindow 某类同步的冷却窗口
// 定时任务与 HTTP 手动触发共用同一个 key，任一方执行后另一方都要等冷却结束
type SyncWindow struct {
	limiter  *SyncRateLimiter
	key      string
	interval time.Duration
}

// NewSyncWindow 创建冷却窗口，参数含义同 GlobalSyncRateLimit
func NewSyncWindow(limiter *SyncRateLimiter, syncType SyncType, interval time.Duration) *SyncWindow {
	if limiter == nil {
		limiter = GetLimiter()
	}
	if interval == 0 {
		interval = GetInterval(syncType)
	}
	return &SyncWindow{
		limiter:  limiter,
		key:      GlobalSyncKey(syncType),
		interval: interval,
	}
}

// Allowed 是否已过冷却期（不更新时间）
func (w *SyncWindow) Allowed() (bool, time.Duration) {
	result := w.limiter.CheckOnly(w.key, w.interval)
	return result.Allowed, result.RetryAfter
}

// MarkExecuted 记录一次执行
func (w *SyncWindow) MarkExecuted() {
	w.limiter.MarkExecuted(w.key)
}
