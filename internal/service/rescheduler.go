package service

import (
    "context"
    "fmt"

    "github.com/d60-Lab/autopub/internal/model"
    "github.com/d60-Lab/autopub/internal/repository"
)

// Rescheduler 整体重排：清空全部未终结条目后重新排期
// 用于改模板/抖动参数后让整个待发队列按新参数重新布局
type Rescheduler struct {
    contents  repository.ContentRepository
    entries   repository.ScheduleRepository
    scheduler *AutoScheduler
}

func NewRescheduler(contents repository.ContentRepository, entries repository.ScheduleRepository, scheduler *AutoScheduler) *Rescheduler {
    return &Rescheduler{contents: contents, entries: entries, scheduler: scheduler}
}

// RescheduleAll 删除所有非终态条目、内容回退 ready，再跑一次 ScheduleReady
// 计划时刻不原地修改，一律删除重建
func (r *Rescheduler) RescheduleAll(ctx context.Context) (*RescheduleReport, error) {
    rep := &RescheduleReport{}

    pending, err := r.entries.ListByStatus(ctx, model.EntryScheduled, model.EntryPublishing)
    if err != nil {
        return nil, err
    }
    for _, e := range pending {
        if err := r.entries.Delete(ctx, e.ID); err != nil {
            rep.Errors = append(rep.Errors, fmt.Sprintf("entry %s: delete: %v", e.ID, err))
            continue
        }
        if err := r.contents.UpdateStatus(ctx, e.ContentID, model.ContentScheduled, model.ContentReady, nil); err != nil {
            rep.Errors = append(rep.Errors, fmt.Sprintf("content %s: revert: %v", e.ContentID, err))
            continue
        }
        rep.Cleared++
    }

    sub, err := r.scheduler.ScheduleReady(ctx)
    if err != nil {
        return rep, err
    }
    rep.Scheduled = sub.Count
    rep.Errors = append(rep.Errors, sub.Errors...)
    return rep, nil
}
