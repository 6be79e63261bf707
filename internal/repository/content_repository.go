package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/d60-Lab/autopub/internal/model"
)

type ContentRepository interface {
    Create(ctx context.Context, item *model.ContentItem) error
    GetByID(ctx context.Context, id string) (*model.ContentItem, error)
    ListByStatus(ctx context.Context, status model.ContentStatus) ([]*model.ContentItem, error)
    // UpdateStatus 带期望状态守卫的迁移；当前状态不匹配时返回 ErrInvalidTransition
    UpdateStatus(ctx context.Context, id string, from, to model.ContentStatus, patch map[string]any) error
    AppendLog(ctx context.Context, id, line string) error
}

type contentRepository struct {
    db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository { return &contentRepository{db: db} }

func (r *contentRepository) Create(ctx context.Context, item *model.ContentItem) error {
    return r.db.WithContext(ctx).Create(item).Error
}

func (r *contentRepository) GetByID(ctx context.Context, id string) (*model.ContentItem, error) {
    var item model.ContentItem
    if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
        return nil, err
    }
    return &item, nil
}

func (r *contentRepository) ListByStatus(ctx context.Context, status model.ContentStatus) ([]*model.ContentItem, error) {
    var res []*model.ContentItem
    err := r.db.WithContext(ctx).
        Where("status = ?", status).
        Order("created_at").
        Find(&res).Error
    return res, err
}

func (r *contentRepository) UpdateStatus(ctx context.Context, id string, from, to model.ContentStatus, patch map[string]any) error {
    if !from.CanTransition(to) {
        return model.ErrInvalidTransition
    }
    vals := map[string]any{"status": to}
    for k, v := range patch {
        vals[k] = v
    }
    res := r.db.WithContext(ctx).
        Model(&model.ContentItem{}).
        Where("id = ? AND status = ?", id, from).
        Updates(vals)
    if res.Error != nil {
        return res.Error
    }
    // 0 行受影响说明状态已被并发推进
    if res.RowsAffected == 0 {
        return model.ErrInvalidTransition
    }
    return nil
}

func (r *contentRepository) AppendLog(ctx context.Context, id, line string) error {
    return r.db.WithContext(ctx).
        Model(&model.ContentItem{}).
        Where("id = ?", id).
        Update("process_log", gorm.Expr("process_log || ?", line+"\n")).Error
}
