package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"primepet_supply/internal/service"
	"primepet_supply/pkg/logger"
)

// DefaultStockSpec 每 6 小时对账一次
const DefaultStockSpec = "0 0 */6 * * *"

// StockReconciler 目录库存对账
type StockReconciler interface {
	ReconcileCatalog(ctx context.Context) (*service.ReconcileResult, error)
}

// CooldownWindow 与手动触发共用的冷却窗口
type CooldownWindow interface {
	Allowed() (bool, time.Duration)
	MarkExecuted()
}

// ==================== StockSyncTask 库存对账任务 ====================

// StockSyncTask 定时把目录库存和供应商对账
type StockSyncTask struct {
	reconciler StockReconciler
	spec       string
	timeout    time.Duration
	window     CooldownWindow
	cron       *cron.Cron
	log        *zap.Logger
}

// NewStockSyncTask 创建库存对账任务
func NewStockSyncTask(reconciler StockReconciler, spec string, log *zap.Logger) *StockSyncTask {
	if spec == "" {
		spec = DefaultStockSpec
	}
	return &StockSyncTask{
		reconciler: reconciler,
		spec:       spec,
		timeout:    30 * time.Minute,
		cron:       cron.New(cron.WithSeconds()),
		log:        logger.OrNop(log),
	}
}

// SetCooldownWindow 设置冷却窗口，nil 表示不受限
func (t *StockSyncTask) SetCooldownWindow(w CooldownWindow) {
	t.window = w
}

// Start 启动定时任务（不做首次执行，避免每次部署都扫一遍供应商）
func (t *StockSyncTask) Start() error {
	if _, err := t.cron.AddFunc(t.spec, t.runScheduled); err != nil {
		return fmt.Errorf("无法启动库存对账任务: %w", err)
	}

	t.cron.Start()
	t.log.Info("[StockSyncTask] 库存对账任务已启动", zap.String("spec", t.spec))
	return nil
}

// Stop 停止调度，等待正在执行的对账结束
func (t *StockSyncTask) Stop() {
	<-t.cron.Stop().Done()
}

// runScheduled 定时执行：冷却期内跳过，成功后占用冷却窗口
func (t *StockSyncTask) runScheduled() {
	if t.window != nil {
		if ok, wait := t.window.Allowed(); !ok {
			t.log.Info("[StockSyncTask] 刚刚手动对账过，跳过本轮", zap.Duration("retry_after", wait))
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	if _, err := t.SyncNow(ctx); err == nil && t.window != nil {
		t.window.MarkExecuted()
	}
}

// SyncNow 立即对账一次
func (t *StockSyncTask) SyncNow(ctx context.Context) (*service.ReconcileResult, error) {
	res, err := t.reconciler.ReconcileCatalog(ctx)
	if err != nil {
		if errors.Is(err, service.ErrSyncInProgress) {
			t.log.Info("[StockSyncTask] 上一轮对账尚未结束，跳过")
		} else {
			t.log.Error("[StockSyncTask] 对账失败", zap.Error(err))
		}
		return nil, err
	}

	t.log.Info("[StockSyncTask] 对账完成",
		zap.Int("total", res.Total),
		zap.Int("updated", res.Updated),
		zap.Int("errors", res.Errors),
		zap.Int("changes", len(res.Changes)),
		zap.Int("applied", res.Applied),
	)
	return res, nil
}
