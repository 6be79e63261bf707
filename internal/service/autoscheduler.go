package service

import (
    "context"
    "fmt"
    "strings"
    "time"

    "github.com/google/uuid"

    "github.com/d60-Lab/autopub/internal/model"
    "github.com/d60-Lab/autopub/internal/repository"
    "github.com/d60-Lab/autopub/internal/slot"
)

// AutoScheduler 把 ready 内容排进发布时刻表
type AutoScheduler struct {
    contents repository.ContentRepository
    entries  repository.ScheduleRepository
    alloc    *slot.Allocator
    now      func() time.Time
}

func NewAutoScheduler(contents repository.ContentRepository, entries repository.ScheduleRepository, alloc *slot.Allocator) *AutoScheduler {
    return &AutoScheduler{contents: contents, entries: entries, alloc: alloc, now: time.Now}
}

// ScheduleReady 处理所有 ready 且无活动排期的内容：
// immediate 立刻建条目；其余按模板分配槽位。槽位不足的内容留在 ready，下个周期自愈重试。
func (s *AutoScheduler) ScheduleReady(ctx context.Context) (*Report, error) {
    rep := &Report{}

    ready, err := s.contents.ListByStatus(ctx, model.ContentReady)
    if err != nil {
        return nil, err
    }
    activeIDs, err := s.entries.ActiveContentIDs(ctx)
    if err != nil {
        return nil, err
    }
    active := make(map[string]struct{}, len(activeIDs))
    for _, id := range activeIDs {
        active[id] = struct{}{}
    }

    var immediate, regular []*model.ContentItem
    for _, it := range ready {
        // 至多一个活动排期
        if _, dup := active[it.ID]; dup {
            continue
        }
        if it.Immediate {
            immediate = append(immediate, it)
        } else {
            regular = append(regular, it)
        }
    }

    now := s.now()
    for _, it := range immediate {
        if err := s.createEntry(ctx, it, now); err != nil {
            rep.Errors = append(rep.Errors, fmt.Sprintf("content %s: %v", it.ID, err))
            continue
        }
        rep.Count++
    }

    if len(regular) > 0 {
        occupied, err := s.entries.OccupiedInstants(ctx, model.EntryScheduled)
        if err != nil {
            return nil, err
        }
        slots := s.alloc.Next(now, occupied, len(regular))
        for i, it := range regular {
            if i >= len(slots) {
                rep.Errors = append(rep.Errors, fmt.Sprintf("content %s: no available slot in lookahead window", it.ID))
                continue
            }
            if err := s.createEntry(ctx, it, slots[i]); err != nil {
                rep.Errors = append(rep.Errors, fmt.Sprintf("content %s: %v", it.ID, err))
                continue
            }
            rep.Count++
        }
    }
    return rep, nil
}

func (s *AutoScheduler) createEntry(ctx context.Context, item *model.ContentItem, at time.Time) error {
    entry := &model.ScheduleEntry{
        ID:              uuid.New().String(),
        ContentID:       item.ID,
        PublishAt:       at,
        Platforms:       strings.Join(item.PlatformList(), ","),
        Status:          model.EntryScheduled,
        EnrichRequested: item.EnrichQuote,
    }
    if err := s.entries.Create(ctx, entry); err != nil {
        return err
    }
    if err := s.contents.UpdateStatus(ctx, item.ID, model.ContentReady, model.ContentScheduled, nil); err != nil {
        // 状态被并发推进时回收条目，维持“至多一个活动排期”
        _ = s.entries.Delete(ctx, entry.ID)
        return err
    }
    return nil
}
