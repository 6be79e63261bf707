package service

import (
    "context"
    "testing"
    "time"

    "github.com/google/uuid"
    "github.com/stretchr/testify/require"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"

    "github.com/d60-Lab/autopub/internal/model"
    "github.com/d60-Lab/autopub/internal/platform"
    "github.com/d60-Lab/autopub/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(&model.User{}, &model.ContentItem{}, &model.ScheduleEntry{}))
    return db
}

func seedContent(t *testing.T, repo repository.ContentRepository, status model.ContentStatus, mut func(*model.ContentItem)) *model.ContentItem {
    item := &model.ContentItem{ID: uuid.New().String(), Title: "标题", Body: "正文", Status: status}
    if mut != nil {
        mut(item)
    }
    require.NoError(t, repo.Create(context.Background(), item))
    return item
}

// stubAdapter 平台桩
type stubAdapter struct {
    name  string
    calls int
    fn    func(req platform.PublishRequest) (*platform.PublishResult, error)
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Publish(_ context.Context, req platform.PublishRequest) (*platform.PublishResult, error) {
    s.calls++
    return s.fn(req)
}

// stubMatcher 金句匹配桩
type stubMatcher struct {
    ref   string
    err   error
    calls int
}

func (m *stubMatcher) MatchBestAsset(context.Context, string) (string, error) {
    m.calls++
    return m.ref, m.err
}

func fixedNow() time.Time {
    return time.Date(2026, 1, 5, 7, 0, 0, 0, time.UTC)
}
