package task

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"primepet_supply/pkg/logger"
)

// DefaultTokenSpec 每 40 分钟检查一次
const DefaultTokenSpec = "0 0/40 * * * *"

// SessionKeeper 供应商会话
type SessionKeeper interface {
	IsSessionExpired() bool
	Refresh(ctx context.Context) error
	SessionExpiresAt() time.Time
}

// TokenTask 供应商会话保活
// 会话在 1 小时内过期时提前刷新，避免业务请求撞上过期令牌
type TokenTask struct {
	session SessionKeeper
	spec    string
	cron    *cron.Cron
	log     *zap.Logger
}

// NewTokenTask 创建会话保活任务
func NewTokenTask(session SessionKeeper, spec string, log *zap.Logger) *TokenTask {
	if spec == "" {
		spec = DefaultTokenSpec
	}
	return &TokenTask{
		session: session,
		spec:    spec,
		cron:    cron.New(cron.WithSeconds()), // 支持秒级控制
		log:     logger.OrNop(log),
	}
}

// Start 启动定时任务
func (t *TokenTask) Start() error {
	if _, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		t.refreshJob(ctx)
	}); err != nil {
		return fmt.Errorf("无法启动会话保活任务: %w", err)
	}

	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		t.log.Info("[Cron] 服务启动，正在建立供应商会话...")
		t.refreshJob(ctx)
	}()

	t.cron.Start()
	t.log.Info("[Cron] 会话保活任务已启动", zap.String("spec", t.spec))
	return nil
}

// Stop 等待正在执行的任务结束
func (t *TokenTask) Stop() {
	<-t.cron.Stop().Done()
}

// refreshJob 会话未过期时什么都不做
func (t *TokenTask) refreshJob(ctx context.Context) {
	if !t.session.IsSessionExpired() {
		return
	}
	if err := t.session.Refresh(ctx); err != nil {
		// 只记录，业务请求会再次尝试
		t.log.Error("[Cron] 供应商会话刷新失败", zap.Error(err))
		return
	}
	t.log.Info("[Cron] 供应商会话已刷新", zap.Time("expires_at", t.session.SessionExpiresAt()))
}
