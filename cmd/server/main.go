package main

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/getsentry/sentry-go"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/d60-Lab/autopub/config"
    _ "github.com/d60-Lab/autopub/docs"
    "github.com/d60-Lab/autopub/internal/api/handler"
    "github.com/d60-Lab/autopub/internal/api/router"
    "github.com/d60-Lab/autopub/internal/platform"
    "github.com/d60-Lab/autopub/internal/quote"
    "github.com/d60-Lab/autopub/internal/repository"
    "github.com/d60-Lab/autopub/internal/service"
    "github.com/d60-Lab/autopub/internal/slot"
    "github.com/d60-Lab/autopub/pkg/database"
    "github.com/d60-Lab/autopub/pkg/logger"
    "github.com/d60-Lab/autopub/pkg/tracing"
)

func must[T any](v T, err error) T {
    if err != nil {
        panic(err)
    }
    return v
}

// @title autopub API
// @version 1.0
// @description 内容排期与多平台投递服务
// @BasePath /api/v1
func main() {
    cfg := must(config.Load())
    must(0, logger.Init(cfg.Log.Level, cfg.Log.Format))
    defer logger.Sync()

    if cfg.Sentry.DSN != "" {
        must(0, sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}))
        defer sentry.Flush(2 * time.Second)
    }

    ctx := context.Background()
    shutdownTracing := must(tracing.Init(ctx, "autopub", cfg.Tracing.Endpoint))

    db := must(database.InitDB(cfg))
    rdb := redis.NewClient(&redis.Options{
        Addr:     cfg.Redis.Addr,
        Password: cfg.Redis.Password,
        DB:       cfg.Redis.DB,
    })

    // repositories & collaborators
    contents := repository.NewContentRepository(db)
    entries := repository.NewScheduleRepository(db)
    users := repository.NewUserRepository(db)

    store := platform.NewTokenStore(rdb)
    registry := platform.NewRegistry(
        platform.NewTwitterAdapter(cfg.Twitter, store),
        platform.NewLinkedInAdapter(cfg.LinkedIn, store),
    )
    matcher := quote.NewMatcher(cfg.Quote)

    // services
    tpl := must(slot.ParseTemplate(cfg.Scheduler.Template))
    loc := must(time.LoadLocation(cfg.Scheduler.Timezone))
    alloc := slot.New(tpl, loc, cfg.Scheduler.JitterMinutes, cfg.Scheduler.CollisionMinutes, cfg.Scheduler.LookaheadDays, nil)

    scheduler := service.NewAutoScheduler(contents, entries, alloc)
    dispatcher := service.NewDispatcher(contents, entries, registry, matcher, cfg.Dispatcher)
    enricher := service.NewEnricher(contents, service.NewQuoteProcessor(matcher))
    rescheduler := service.NewRescheduler(contents, entries, scheduler)

    runner := service.NewRunner(enricher, scheduler, dispatcher, cfg.Runner.Interval)
    stopRunner := runner.Start()

    h := handler.New(scheduler, dispatcher, rescheduler, enricher, contents, users, cfg.Auth)
    srv := &http.Server{Addr: cfg.Server.Addr, Handler: router.New(h, cfg)}

    go func() {
        logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Fatal("server failed", zap.Error(err))
        }
    }()

    quitCh := make(chan os.Signal, 1)
    signal.Notify(quitCh, syscall.SIGINT, syscall.SIGTERM)
    <-quitCh

    logger.Info("shutting down")
    shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
    defer cancel()
    _ = stopRunner(shutdownCtx)
    _ = srv.Shutdown(shutdownCtx)
    _ = shutdownTracing(shutdownCtx)
}
