package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/autopub/internal/model"
	"github.com/d60-Lab/autopub/internal/repository"
)

// stubProcessor 按名字记录执行顺序
type stubProcessor struct {
	name   string
	should bool
	err    error
	trace  *[]string
}

func (p *stubProcessor) Name() string { return p.name }

func (p *stubProcessor) ShouldRun(*model.ContentItem) bool { return p.should }

func (p *stubProcessor) Process(_ context.Context, item *model.ContentItem) error {
	*p.trace = append(*p.trace, p.name)
	return p.err
}

func newTestEnricher(t *testing.T, procs ...Processor) (*Enricher, repository.ContentRepository) {
	db := setupTestDB(t)
	contents := repository.NewContentRepository(db)
	return NewEnricher(contents, procs...), contents
}

// 插件按注册顺序执行，ShouldRun 为 false 的跳过
func TestProcessDraftedOrderAndGating(t *testing.T) {
	var trace []string
	e, contents := newTestEnricher(t,
		&stubProcessor{name: "first", should: true, trace: &trace},
		&stubProcessor{name: "skipped", should: false, trace: &trace},
		&stubProcessor{name: "second", should: true, trace: &trace},
	)
	ctx := context.Background()

	item := seedContent(t, contents, model.ContentDrafted, nil)

	rep, err := e.ProcessDrafted(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, rep.Count)
	require.Empty(t, rep.Errors)
	require.Equal(t, []string{"first", "second"}, trace)

	got, err := contents.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, model.ContentProcessed, got.Status)
	require.Contains(t, got.ProcessLog, "first ok")
	require.Contains(t, got.ProcessLog, "second ok")
	require.Contains(t, got.ProcessLog, "processed")
}

// 插件失败：内容停在 processing，日志记录失败原因，后续内容不受影响
func TestProcessDraftedFailureSticksInProcessing(t *testing.T) {
	var trace []string
	e, contents := newTestEnricher(t,
		&stubProcessor{name: "boom", should: true, err: errors.New("no match"), trace: &trace},
	)
	ctx := context.Background()

	bad := seedContent(t, contents, model.ContentDrafted, nil)

	rep, err := e.ProcessDrafted(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, rep.Count)
	require.Len(t, rep.Errors, 1)
	require.Contains(t, rep.Errors[0], "boom")

	got, err := contents.GetByID(ctx, bad.ID)
	require.NoError(t, err)
	require.Equal(t, model.ContentProcessing, got.Status)
	require.Contains(t, got.ProcessLog, "enrichment failed")

	// 人工回退 processing -> drafted 后可重跑
	require.NoError(t, contents.UpdateStatus(ctx, bad.ID, model.ContentProcessing, model.ContentDrafted, nil))
	e2 := NewEnricher(contents)
	rep, err = e2.ProcessDrafted(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, rep.Count)
}

// 金句匹配成功时 quote_ref 落库
func TestProcessDraftedQuoteProcessor(t *testing.T) {
	m := &stubMatcher{ref: "Q9"}
	e, contents := newTestEnricher(t, NewQuoteProcessor(m))
	ctx := context.Background()

	want := seedContent(t, contents, model.ContentDrafted, func(c *model.ContentItem) { c.EnrichQuote = true })
	plain := seedContent(t, contents, model.ContentDrafted, nil)

	rep, err := e.ProcessDrafted(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, rep.Count)
	require.Equal(t, 1, m.calls) // 不要求配金句的不调匹配器

	got, err := contents.GetByID(ctx, want.ID)
	require.NoError(t, err)
	require.Equal(t, "Q9", got.QuoteRef)

	gotPlain, err := contents.GetByID(ctx, plain.ID)
	require.NoError(t, err)
	require.Empty(t, gotPlain.QuoteRef)
	require.Equal(t, model.ContentProcessed, gotPlain.Status)
}

// 已有 quote_ref 的内容不再重复匹配
func TestQuoteProcessorShouldRun(t *testing.T) {
	p := NewQuoteProcessor(&stubMatcher{ref: "x"})
	require.True(t, p.ShouldRun(&model.ContentItem{EnrichQuote: true}))
	require.False(t, p.ShouldRun(&model.ContentItem{EnrichQuote: true, QuoteRef: "done"}))
	require.False(t, p.ShouldRun(&model.ContentItem{}))
}
