package model

import "errors"

// ErrInvalidTransition 状态迁移不合法（或并发下状态已被他人推进）
var ErrInvalidTransition = errors.New("invalid status transition")

// ContentStatus 内容生命周期状态（闭合枚举）
type ContentStatus string

const (
    ContentIdea       ContentStatus = "idea"
    ContentDrafted    ContentStatus = "drafted"
    ContentProcessing ContentStatus = "processing"
    ContentProcessed  ContentStatus = "processed"
    ContentReady      ContentStatus = "ready"
    ContentScheduled  ContentStatus = "scheduled"
    ContentPublished  ContentStatus = "published"
)

// contentEdges 合法迁移边表
// processing -> drafted 为人工回退（富化失败后不自动回退）
// scheduled  -> ready   仅由整体重排使用
var contentEdges = map[ContentStatus][]ContentStatus{
    ContentIdea:       {ContentDrafted},
    ContentDrafted:    {ContentProcessing},
    ContentProcessing: {ContentProcessed, ContentDrafted},
    ContentProcessed:  {ContentReady},
    ContentReady:      {ContentScheduled},
    ContentScheduled:  {ContentPublished, ContentReady},
    ContentPublished:  {},
}

func (s ContentStatus) Valid() bool {
    _, ok := contentEdges[s]
    return ok
}

func (s ContentStatus) Terminal() bool { return s == ContentPublished }

// CanTransition 判定 s -> to 是否在边表内
func (s ContentStatus) CanTransition(to ContentStatus) bool {
    for _, t := range contentEdges[s] {
        if t == to {
            return true
        }
    }
    return false
}

// ScheduleStatus 排期条目状态
type ScheduleStatus string

const (
    EntryScheduled  ScheduleStatus = "scheduled"
    EntryPublishing ScheduleStatus = "publishing"
    EntryPublished  ScheduleStatus = "published"
    EntryFailed     ScheduleStatus = "failed"
)

var entryEdges = map[ScheduleStatus][]ScheduleStatus{
    EntryScheduled:  {EntryPublishing},
    EntryPublishing: {EntryPublished, EntryFailed},
    EntryPublished:  {},
    EntryFailed:     {},
}

func (s ScheduleStatus) Valid() bool {
    _, ok := entryEdges[s]
    return ok
}

func (s ScheduleStatus) Terminal() bool { return s == EntryPublished || s == EntryFailed }

func (s ScheduleStatus) CanTransition(to ScheduleStatus) bool {
    for _, t := range entryEdges[s] {
        if t == to {
            return true
        }
    }
    return false
}
