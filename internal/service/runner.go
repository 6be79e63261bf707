package service

import (
    "context"
    "sync"
    "time"

    "github.com/getsentry/sentry-go"
    "go.uber.org/zap"

    "github.com/d60-Lab/autopub/pkg/logger"
)

// Runner 周期性触发一轮编排
// 三类操作作用于互斥的状态分区（drafted / ready / scheduled），可安全并行
type Runner struct {
    enricher   *Enricher
    scheduler  *AutoScheduler
    dispatcher *Dispatcher
    interval   time.Duration
}

func NewRunner(enricher *Enricher, scheduler *AutoScheduler, dispatcher *Dispatcher, interval time.Duration) *Runner {
    if interval <= 0 {
        interval = 15 * time.Minute
    }
    return &Runner{enricher: enricher, scheduler: scheduler, dispatcher: dispatcher, interval: interval}
}

// Start 启动周期循环；返回停止函数
func (r *Runner) Start() func(context.Context) error {
    stop := make(chan struct{})
    go func() {
        ticker := time.NewTicker(r.interval)
        defer ticker.Stop()
        for {
            select {
            case <-stop:
                return
            case <-ticker.C:
                r.RunOnce(context.Background())
            }
        }
    }()
    return func(ctx context.Context) error { close(stop); return nil }
}

// RunOnce 跑一轮：富化、排期、投递并行触发
// 不做跨进程互斥；慢轮次与下一轮重叠时靠状态守卫兜底
func (r *Runner) RunOnce(ctx context.Context) {
    var wg sync.WaitGroup
    wg.Add(3)
    go func() {
        defer wg.Done()
        rep, err := r.enricher.ProcessDrafted(ctx)
        logPass("process-drafted", rep, err)
    }()
    go func() {
        defer wg.Done()
        rep, err := r.scheduler.ScheduleReady(ctx)
        logPass("schedule-ready", rep, err)
    }()
    go func() {
        defer wg.Done()
        rep, err := r.dispatcher.PublishDue(ctx)
        logPass("publish-due", rep, err)
    }()
    wg.Wait()
}

func logPass(op string, rep *Report, err error) {
    if err != nil {
        // 整轮失败才算致命（如存储不可达）
        logger.Error("pass failed", zap.String("op", op), zap.Error(err))
        sentry.CaptureException(err)
        return
    }
    logger.Info("pass done", zap.String("op", op), zap.Int("count", rep.Count), zap.Int("errors", len(rep.Errors)))
}
