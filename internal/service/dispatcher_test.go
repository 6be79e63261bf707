package service

import (
    "context"
    "errors"
    "strings"
    "testing"
    "time"

    "github.com/google/uuid"
    "github.com/stretchr/testify/require"

    "github.com/d60-Lab/autopub/config"
    "github.com/d60-Lab/autopub/internal/model"
    "github.com/d60-Lab/autopub/internal/platform"
    "github.com/d60-Lab/autopub/internal/quote"
    "github.com/d60-Lab/autopub/internal/repository"
)

func newTestDispatcher(t *testing.T, registry *platform.Registry, matcher quote.Matcher) (*Dispatcher, repository.ContentRepository, repository.ScheduleRepository) {
    db := setupTestDB(t)
    contents := repository.NewContentRepository(db)
    entries := repository.NewScheduleRepository(db)
    d := NewDispatcher(contents, entries, registry, matcher, config.DispatcherConfig{Workers: 1})
    d.now = fixedNow
    return d, contents, entries
}

func dueEntry(t *testing.T, entries repository.ScheduleRepository, contentID, platforms string, enrich bool) *model.ScheduleEntry {
    e := &model.ScheduleEntry{
        ID:              uuid.New().String(),
        ContentID:       contentID,
        PublishAt:       fixedNow().Add(-time.Minute),
        Platforms:       platforms,
        Status:          model.EntryScheduled,
        EnrichRequested: enrich,
    }
    require.NoError(t, entries.Create(context.Background(), e))
    return e
}

// 部分成功：twitter 挂、linkedin 成，条目判 published 且只有 linkedin_url，
// 错误列表里恰有一条指名 twitter
func TestPublishDuePartialSuccess(t *testing.T) {
    tw := &stubAdapter{name: model.PlatformTwitter, fn: func(platform.PublishRequest) (*platform.PublishResult, error) {
        return nil, errors.New("boom")
    }}
    li := &stubAdapter{name: model.PlatformLinkedIn, fn: func(platform.PublishRequest) (*platform.PublishResult, error) {
        return &platform.PublishResult{URL: "https://www.linkedin.com/feed/update/urn:1"}, nil
    }}
    d, contents, entries := newTestDispatcher(t, platform.NewRegistry(tw, li), nil)
    ctx := context.Background()

    item := seedContent(t, contents, model.ContentScheduled, nil)
    e := dueEntry(t, entries, item.ID, "twitter,linkedin", false)

    rep, err := d.PublishDue(ctx)
    require.NoError(t, err)
    require.Equal(t, 1, rep.Count)
    require.Len(t, rep.Errors, 1)
    require.Contains(t, rep.Errors[0], "twitter")

    got, err := entries.GetByID(ctx, e.ID)
    require.NoError(t, err)
    require.Equal(t, model.EntryPublished, got.Status)
    require.Equal(t, "https://www.linkedin.com/feed/update/urn:1", got.LinkedInURL)
    require.Empty(t, got.TwitterURL)
    require.NotNil(t, got.PublishedAt)
    require.Contains(t, got.Error, "twitter")

    gotItem, err := contents.GetByID(ctx, item.ID)
    require.NoError(t, err)
    require.Equal(t, model.ContentPublished, gotItem.Status)
}

// 全平台失败：条目判 failed，错误合并记录，内容停在 scheduled
func TestPublishDueAllFailed(t *testing.T) {
    fail := func(platform.PublishRequest) (*platform.PublishResult, error) { return nil, errors.New("down") }
    tw := &stubAdapter{name: model.PlatformTwitter, fn: fail}
    li := &stubAdapter{name: model.PlatformLinkedIn, fn: fail}
    d, contents, entries := newTestDispatcher(t, platform.NewRegistry(tw, li), nil)
    ctx := context.Background()

    item := seedContent(t, contents, model.ContentScheduled, nil)
    e := dueEntry(t, entries, item.ID, "", false)

    rep, err := d.PublishDue(ctx)
    require.NoError(t, err)
    require.Equal(t, 1, rep.Count)
    require.Len(t, rep.Errors, 2)

    got, err := entries.GetByID(ctx, e.ID)
    require.NoError(t, err)
    require.Equal(t, model.EntryFailed, got.Status)
    require.Contains(t, got.Error, "twitter")
    require.Contains(t, got.Error, "linkedin")

    gotItem, err := contents.GetByID(ctx, item.ID)
    require.NoError(t, err)
    require.Equal(t, model.ContentScheduled, gotItem.Status)
}

// 悬垂引用：内容不存在的条目立即判 failed，不影响后续条目
func TestPublishDueUnresolvedReference(t *testing.T) {
    ok := &stubAdapter{name: model.PlatformTwitter, fn: func(platform.PublishRequest) (*platform.PublishResult, error) {
        return &platform.PublishResult{URL: "https://x.com/i/web/status/9"}, nil
    }}
    d, contents, entries := newTestDispatcher(t, platform.NewRegistry(ok), nil)
    ctx := context.Background()

    dangling := dueEntry(t, entries, "missing-content", "twitter", false)
    item := seedContent(t, contents, model.ContentScheduled, nil)
    good := dueEntry(t, entries, item.ID, "twitter", false)

    rep, err := d.PublishDue(ctx)
    require.NoError(t, err)
    require.Equal(t, 2, rep.Count)
    require.Len(t, rep.Errors, 1)
    require.Contains(t, rep.Errors[0], "unresolved")

    gotBad, err := entries.GetByID(ctx, dangling.ID)
    require.NoError(t, err)
    require.Equal(t, model.EntryFailed, gotBad.Status)

    gotGood, err := entries.GetByID(ctx, good.ID)
    require.NoError(t, err)
    require.Equal(t, model.EntryPublished, gotGood.Status)
}

// 已有 quote_ref 时不得重跑富化；素材引用要进发布请求
func TestPublishDueReusesEnrichment(t *testing.T) {
    var seen platform.PublishRequest
    tw := &stubAdapter{name: model.PlatformTwitter, fn: func(req platform.PublishRequest) (*platform.PublishResult, error) {
        seen = req
        return &platform.PublishResult{URL: "u"}, nil
    }}
    m := &stubMatcher{ref: "should-not-run"}
    d, contents, entries := newTestDispatcher(t, platform.NewRegistry(tw), m)
    ctx := context.Background()

    item := seedContent(t, contents, model.ContentScheduled, func(c *model.ContentItem) {
        c.QuoteRef = "Q42"
        c.ProcessLog = "processed\n"
    })
    dueEntry(t, entries, item.ID, "twitter", true)

    _, err := d.PublishDue(ctx)
    require.NoError(t, err)
    require.Zero(t, m.calls)
    require.Contains(t, seen.Assets, "Q42")
}

// 从未处理过的内容在投递时兜底现场匹配一次
func TestPublishDueOnDemandEnrichment(t *testing.T) {
    var seen platform.PublishRequest
    tw := &stubAdapter{name: model.PlatformTwitter, fn: func(req platform.PublishRequest) (*platform.PublishResult, error) {
        seen = req
        return &platform.PublishResult{URL: "u"}, nil
    }}
    m := &stubMatcher{ref: "Q7"}
    d, contents, entries := newTestDispatcher(t, platform.NewRegistry(tw), m)
    ctx := context.Background()

    item := seedContent(t, contents, model.ContentScheduled, nil) // ProcessLog 为空 = 未处理过
    dueEntry(t, entries, item.ID, "twitter", true)

    _, err := d.PublishDue(ctx)
    require.NoError(t, err)
    require.Equal(t, 1, m.calls)
    require.Contains(t, seen.Assets, "Q7")
}

// 到期条目按计划时刻先后处理
func TestPublishDueOrdering(t *testing.T) {
    var order []string
    tw := &stubAdapter{name: model.PlatformTwitter, fn: func(req platform.PublishRequest) (*platform.PublishResult, error) {
        order = append(order, req.Text)
        return &platform.PublishResult{URL: "u"}, nil
    }}
    d, contents, entries := newTestDispatcher(t, platform.NewRegistry(tw), nil)
    ctx := context.Background()

    late := seedContent(t, contents, model.ContentScheduled, func(c *model.ContentItem) { c.Title = ""; c.Body = "late" })
    early := seedContent(t, contents, model.ContentScheduled, func(c *model.ContentItem) { c.Title = ""; c.Body = "early" })

    e1 := dueEntry(t, entries, late.ID, "twitter", false)
    require.NoError(t, entries.Delete(ctx, e1.ID))
    require.NoError(t, entries.Create(ctx, &model.ScheduleEntry{
        ID: uuid.New().String(), ContentID: late.ID, PublishAt: fixedNow().Add(-time.Minute), Status: model.EntryScheduled, Platforms: "twitter",
    }))
    require.NoError(t, entries.Create(ctx, &model.ScheduleEntry{
        ID: uuid.New().String(), ContentID: early.ID, PublishAt: fixedNow().Add(-2 * time.Hour), Status: model.EntryScheduled, Platforms: "twitter",
    }))

    _, err := d.PublishDue(ctx)
    require.NoError(t, err)
    require.Equal(t, []string{"early", "late"}, order)
}

// 正文与标题拼装
func TestComposeText(t *testing.T) {
    require.Equal(t, "b", composeText(&model.ContentItem{Body: "b"}))
    require.True(t, strings.HasPrefix(composeText(&model.ContentItem{Title: "t", Body: "b"}), "t\n\n"))
}
