package service

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "sync"
    "time"

    "go.uber.org/zap"
    "golang.org/x/time/rate"

    "github.com/d60-Lab/autopub/config"
    "github.com/d60-Lab/autopub/internal/model"
    "github.com/d60-Lab/autopub/internal/platform"
    "github.com/d60-Lab/autopub/internal/quote"
    "github.com/d60-Lab/autopub/internal/repository"
    "github.com/d60-Lab/autopub/pkg/logger"
)

// Dispatcher 把到期条目投递到各平台
// 条目按到期先后喂给有界 worker 池；单条目内各平台并发、互相隔离
type Dispatcher struct {
    contents repository.ContentRepository
    entries  repository.ScheduleRepository
    registry *platform.Registry
    matcher  quote.Matcher
    limiter  *rate.Limiter
    workers  int
    timeout  time.Duration
    now      func() time.Time
}

func NewDispatcher(contents repository.ContentRepository, entries repository.ScheduleRepository, registry *platform.Registry, matcher quote.Matcher, cfg config.DispatcherConfig) *Dispatcher {
    workers := cfg.Workers
    if workers <= 0 {
        workers = 4
    }
    timeout := cfg.PublishTimeout
    if timeout <= 0 {
        timeout = 30 * time.Second
    }
    lim := rate.NewLimiter(rate.Inf, 0)
    if cfg.RatePerSecond > 0 {
        lim = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
    }
    return &Dispatcher{
        contents: contents,
        entries:  entries,
        registry: registry,
        matcher:  matcher,
        limiter:  lim,
        workers:  workers,
        timeout:  timeout,
        now:      time.Now,
    }
}

// PublishDue 处理所有到期条目，返回推进到终态的条目数与错误列表
func (d *Dispatcher) PublishDue(ctx context.Context) (*Report, error) {
    rep := &Report{}
    due, err := d.entries.ListDue(ctx, d.now())
    if err != nil {
        return nil, err
    }
    if len(due) == 0 {
        return rep, nil
    }

    // 到期早的先入队，worker 池内保持公平
    feed := make(chan *model.ScheduleEntry, len(due))
    for _, e := range due {
        feed <- e
    }
    close(feed)

    workers := d.workers
    if workers > len(due) {
        workers = len(due)
    }
    var mu sync.Mutex
    var wg sync.WaitGroup
    for w := 0; w < workers; w++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            for e := range feed {
                errs, done := d.processEntry(ctx, e)
                mu.Lock()
                if done {
                    rep.Count++
                }
                rep.Errors = append(rep.Errors, errs...)
                mu.Unlock()
            }
        }()
    }
    wg.Wait()
    return rep, nil
}

// processEntry 单条目全流程；done 表示条目已推进到终态
func (d *Dispatcher) processEntry(ctx context.Context, e *model.ScheduleEntry) (errs []string, done bool) {
    // 先抢占（scheduled -> publishing），下一轮扫描只按 scheduled 过滤，不会重复拾取
    if err := d.entries.UpdateStatus(ctx, e.ID, model.EntryScheduled, model.EntryPublishing, nil); err != nil {
        if errors.Is(err, model.ErrInvalidTransition) {
            logger.Info("entry already claimed, skip", zap.String("entry", e.ID))
            return nil, false
        }
        return []string{fmt.Sprintf("entry %s: claim: %v", e.ID, err)}, false
    }

    item, err := d.contents.GetByID(ctx, e.ContentID)
    if err != nil {
        // 悬垂引用：直接判失败，不重试
        msg := fmt.Sprintf("entry %s: unresolved content %s: %v", e.ID, e.ContentID, err)
        _ = d.entries.UpdateStatus(ctx, e.ID, model.EntryPublishing, model.EntryFailed, map[string]any{"error": msg})
        return []string{msg}, true
    }

    assets := item.AssetList()
    quoteRef := item.QuoteRef
    if quoteRef == "" && e.EnrichRequested && item.ProcessLog == "" && d.matcher != nil {
        // 内容从未经过处理时才现场匹配；已处理过的不重跑富化
        ref, merr := d.matcher.MatchBestAsset(ctx, item.Body)
        if merr != nil {
            logger.Warn("on-demand quote match failed", zap.String("content", item.ID), zap.Error(merr))
        } else {
            quoteRef = ref
        }
    }
    if quoteRef != "" {
        assets = append(assets, quoteRef)
    }

    req := platform.PublishRequest{Text: composeText(item), Assets: assets, ReplyText: item.ReplyText}
    platforms := e.PlatformList()

    type outcome struct {
        name string
        res  *platform.PublishResult
        err  error
    }
    results := make([]outcome, len(platforms))
    var wg sync.WaitGroup
    for i, name := range platforms {
        wg.Add(1)
        go func(i int, name string) {
            defer wg.Done()
            adapter, ok := d.registry.Get(name)
            if !ok {
                results[i] = outcome{name: name, err: fmt.Errorf("unknown platform")}
                return
            }
            if err := d.limiter.Wait(ctx); err != nil {
                results[i] = outcome{name: name, err: err}
                return
            }
            cctx, cancel := context.WithTimeout(ctx, d.timeout)
            defer cancel()
            res, err := adapter.Publish(cctx, req)
            results[i] = outcome{name: name, res: res, err: err}
        }(i, name)
    }
    wg.Wait()

    patch := map[string]any{}
    success := false
    for _, r := range results {
        if r.err != nil {
            errs = append(errs, fmt.Sprintf("entry %s: platform %s: %v", e.ID, r.name, r.err))
            continue
        }
        success = true
        switch r.name {
        case model.PlatformTwitter:
            patch["twitter_url"] = r.res.URL
        case model.PlatformLinkedIn:
            patch["linkedin_url"] = r.res.URL
        }
    }

    if !success {
        combined := strings.Join(errs, "; ")
        _ = d.entries.UpdateStatus(ctx, e.ID, model.EntryPublishing, model.EntryFailed, map[string]any{"error": combined})
        return errs, true
    }

    // 任一平台成功即视为已发布；失败平台只进错误列表
    patch["published_at"] = d.now()
    if len(errs) > 0 {
        patch["error"] = strings.Join(errs, "; ")
    }
    if err := d.entries.UpdateStatus(ctx, e.ID, model.EntryPublishing, model.EntryPublished, patch); err != nil {
        errs = append(errs, fmt.Sprintf("entry %s: finalize: %v", e.ID, err))
    }
    if err := d.contents.UpdateStatus(ctx, item.ID, model.ContentScheduled, model.ContentPublished, nil); err != nil {
        errs = append(errs, fmt.Sprintf("content %s: mark published: %v", item.ID, err))
    }
    return errs, true
}

func composeText(item *model.ContentItem) string {
    if item.Title == "" {
        return item.Body
    }
    return item.Title + "\n\n" + item.Body
}
