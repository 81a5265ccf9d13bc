package scheduler

import (
	"context"
	"fmt"
	"time"

	"TCGEventSync/internal/repository"
	"TCGEventSync/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RefreshScheduler 进程内定时刷新：到点检查合并缓存，过期才重建。
// 管理接口另有无条件重建路径，这里只兜底"长时间没人查询导致缓存一直过期"的情况。
type RefreshScheduler struct {
	spec       string
	service    *service.AggregationService
	cacheStore repository.CombinedCacheStore
	logger     *logrus.Logger
	cron       *cron.Cron
}

func NewRefreshScheduler(spec string, svc *service.AggregationService, cacheStore repository.CombinedCacheStore, logger *logrus.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		spec:       spec,
		service:    svc,
		cacheStore: cacheStore,
		logger:     logger,
	}
}

// Start 注册并启动定时任务
func (r *RefreshScheduler) Start() error {
	r.cron = cron.New()
	if _, err := r.cron.AddFunc(r.spec, r.tick); err != nil {
		return fmt.Errorf("解析刷新cron表达式失败: %w", err)
	}
	r.cron.Start()
	return nil
}

// tick 单次触发：网络调用带显式超时，保证在下一次触发前结束
func (r *RefreshScheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if r.cacheStore.IsValid(ctx) {
		return
	}
	r.logger.Info("定时任务：合并缓存已过期，触发重建")
	if _, err := r.service.RefreshFromScrape(ctx, nil); err != nil {
		r.logger.WithError(err).Warn("定时重建失败")
	}
}

// Stop 停止定时任务（不打断已在执行的那一轮）
func (r *RefreshScheduler) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}
