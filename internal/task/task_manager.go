package task

import (
	"go.uber.org/zap"

	"primepet_supply/pkg/logger"
)

// ==================== TaskManager 后台任务管理器 ====================

// TaskManager 统一管理后台任务
// 管理范围：供应商会话保活、库存对账
type TaskManager struct {
	tokenTask *TokenTask
	stockTask *StockSyncTask
	log       *zap.Logger
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	Session      SessionKeeper
	StockService StockReconciler
	StockWindow  CooldownWindow // 与 /api/sync 共用，可为 nil
	Logger       *zap.Logger
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	// 会话保活（只有令牌交换模式才需要）
	TokenEnabled bool
	TokenSpec    string

	// 库存对账
	StockEnabled bool
	StockSpec    string
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		TokenEnabled: true,
		TokenSpec:    DefaultTokenSpec,
		StockEnabled: false,
		StockSpec:    DefaultStockSpec,
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tm := &TaskManager{log: logger.OrNop(deps.Logger)}

	if cfg.TokenEnabled && deps.Session != nil {
		tm.tokenTask = NewTokenTask(deps.Session, cfg.TokenSpec, deps.Logger)
	}
	if cfg.StockEnabled && deps.StockService != nil {
		tm.stockTask = NewStockSyncTask(deps.StockService, cfg.StockSpec, deps.Logger)
		if deps.StockWindow != nil {
			tm.stockTask.SetCooldownWindow(deps.StockWindow)
		}
	}
	return tm
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务，任一任务的 cron 表达式无效时返回错误
func (tm *TaskManager) Start() error {
	tm.log.Info("[TaskManager] 正在启动后台任务...")

	if tm.tokenTask != nil {
		if err := tm.tokenTask.Start(); err != nil {
			return err
		}
	}
	if tm.stockTask != nil {
		if err := tm.stockTask.Start(); err != nil {
			return err
		}
	}

	tm.log.Info("[TaskManager] 后台任务已全部启动", zap.Any("status", tm.Status()))
	return nil
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	tm.log.Info("[TaskManager] 正在停止后台任务...")

	if tm.tokenTask != nil {
		tm.tokenTask.Stop()
	}
	if tm.stockTask != nil {
		tm.stockTask.Stop()
	}

	tm.log.Info("[TaskManager] 后台任务已全部停止")
}

// ==================== 状态查询 ====================

// Status 获取任务状态
func (tm *TaskManager) Status() map[string]bool {
	return map[string]bool{
		"token": tm.tokenTask != nil,
		"stock": tm.stockTask != nil,
	}
}
