package service

import (
    "context"
    "errors"
    "fmt"

    "github.com/d60-Lab/autopub/internal/model"
    "github.com/d60-Lab/autopub/internal/quote"
    "github.com/d60-Lab/autopub/internal/repository"
)

// Processor 富化处理插件；由固定驱动循环按注册顺序执行
type Processor interface {
    Name() string
    ShouldRun(item *model.ContentItem) bool
    Process(ctx context.Context, item *model.ContentItem) error
}

// Enricher 驱动 drafted -> processing -> processed
type Enricher struct {
    contents repository.ContentRepository
    procs    []Processor
}

func NewEnricher(contents repository.ContentRepository, procs ...Processor) *Enricher {
    return &Enricher{contents: contents, procs: procs}
}

// ProcessDrafted 处理所有草稿内容
// 富化失败的内容停在 processing，等人工回退到 drafted 重试（不自动回退）
func (e *Enricher) ProcessDrafted(ctx context.Context) (*Report, error) {
    rep := &Report{}

    drafted, err := e.contents.ListByStatus(ctx, model.ContentDrafted)
    if err != nil {
        return nil, err
    }
    for _, item := range drafted {
        if err := e.contents.UpdateStatus(ctx, item.ID, model.ContentDrafted, model.ContentProcessing, nil); err != nil {
            if errors.Is(err, model.ErrInvalidTransition) {
                continue
            }
            rep.Errors = append(rep.Errors, fmt.Sprintf("content %s: %v", item.ID, err))
            continue
        }
        if err := e.runProcessors(ctx, item); err != nil {
            _ = e.contents.AppendLog(ctx, item.ID, fmt.Sprintf("enrichment failed: %v", err))
            rep.Errors = append(rep.Errors, fmt.Sprintf("content %s: %v", item.ID, err))
            continue
        }
        patch := map[string]any{"quote_ref": item.QuoteRef}
        if err := e.contents.UpdateStatus(ctx, item.ID, model.ContentProcessing, model.ContentProcessed, patch); err != nil {
            rep.Errors = append(rep.Errors, fmt.Sprintf("content %s: %v", item.ID, err))
            continue
        }
        _ = e.contents.AppendLog(ctx, item.ID, "processed")
        rep.Count++
    }
    return rep, nil
}

func (e *Enricher) runProcessors(ctx context.Context, item *model.ContentItem) error {
    for _, p := range e.procs {
        if !p.ShouldRun(item) {
            continue
        }
        if err := p.Process(ctx, item); err != nil {
            return fmt.Errorf("%s: %w", p.Name(), err)
        }
        _ = e.contents.AppendLog(ctx, item.ID, p.Name()+" ok")
    }
    return nil
}

// QuoteProcessor 给要求配金句且尚未匹配的内容挂上素材引用
type QuoteProcessor struct {
    matcher quote.Matcher
}

func NewQuoteProcessor(m quote.Matcher) *QuoteProcessor { return &QuoteProcessor{matcher: m} }

func (p *QuoteProcessor) Name() string { return "quote-match" }

func (p *QuoteProcessor) ShouldRun(item *model.ContentItem) bool {
    return item.EnrichQuote && item.QuoteRef == ""
}

func (p *QuoteProcessor) Process(ctx context.Context, item *model.ContentItem) error {
    ref, err := p.matcher.MatchBestAsset(ctx, item.Body)
    if err != nil {
        return err
    }
    item.QuoteRef = ref
    return nil
}
