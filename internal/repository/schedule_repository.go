package repository

import (
    "context"
    "time"

    "gorm.io/gorm"

    "github.com/d60-Lab/autopub/internal/model"
)

type ScheduleRepository interface {
    Create(ctx context.Context, entry *model.ScheduleEntry) error
    GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error)
    // ListDue 到期条目（status=scheduled 且 publish_at<=now），按计划时刻升序
    ListDue(ctx context.Context, now time.Time) ([]*model.ScheduleEntry, error)
    ListByStatus(ctx context.Context, statuses ...model.ScheduleStatus) ([]*model.ScheduleEntry, error)
    // OccupiedInstants 指定状态条目占用的时刻集合
    OccupiedInstants(ctx context.Context, statuses ...model.ScheduleStatus) ([]time.Time, error)
    // ActiveContentIDs 非终态条目引用的内容 ID 集合
    ActiveContentIDs(ctx context.Context) ([]string, error)
    UpdateStatus(ctx context.Context, id string, from, to model.ScheduleStatus, patch map[string]any) error
    Delete(ctx context.Context, id string) error
}

type scheduleRepository struct {
    db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository { return &scheduleRepository{db: db} }

func (r *scheduleRepository) Create(ctx context.Context, entry *model.ScheduleEntry) error {
    return r.db.WithContext(ctx).Create(entry).Error
}

func (r *scheduleRepository) GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error) {
    var e model.ScheduleEntry
    if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
        return nil, err
    }
    return &e, nil
}

func (r *scheduleRepository) ListDue(ctx context.Context, now time.Time) ([]*model.ScheduleEntry, error) {
    var res []*model.ScheduleEntry
    err := r.db.WithContext(ctx).
        Where("status = ? AND publish_at <= ?", model.EntryScheduled, now).
        Order("publish_at").
        Find(&res).Error
    return res, err
}

func (r *scheduleRepository) ListByStatus(ctx context.Context, statuses ...model.ScheduleStatus) ([]*model.ScheduleEntry, error) {
    var res []*model.ScheduleEntry
    err := r.db.WithContext(ctx).
        Where("status IN ?", statuses).
        Order("publish_at").
        Find(&res).Error
    return res, err
}

func (r *scheduleRepository) OccupiedInstants(ctx context.Context, statuses ...model.ScheduleStatus) ([]time.Time, error) {
    var rows []model.ScheduleEntry
    err := r.db.WithContext(ctx).
        Select("publish_at").
        Where("status IN ?", statuses).
        Find(&rows).Error
    if err != nil {
        return nil, err
    }
    res := make([]time.Time, len(rows))
    for i, row := range rows {
        res[i] = row.PublishAt
    }
    return res, nil
}

func (r *scheduleRepository) ActiveContentIDs(ctx context.Context) ([]string, error) {
    var ids []string
    err := r.db.WithContext(ctx).
        Model(&model.ScheduleEntry{}).
        Where("status IN ?", []model.ScheduleStatus{model.EntryScheduled, model.EntryPublishing}).
        Pluck("content_id", &ids).Error
    return ids, err
}

func (r *scheduleRepository) UpdateStatus(ctx context.Context, id string, from, to model.ScheduleStatus, patch map[string]any) error {
    if !from.CanTransition(to) {
        return model.ErrInvalidTransition
    }
    vals := map[string]any{"status": to}
    for k, v := range patch {
        vals[k] = v
    }
    res := r.db.WithContext(ctx).
        Model(&model.ScheduleEntry{}).
        Where("id = ? AND status = ?", id, from).
        Updates(vals)
    if res.Error != nil {
        return res.Error
    }
    if res.RowsAffected == 0 {
        return model.ErrInvalidTransition
    }
    return nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id string) error {
    return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ScheduleEntry{}).Error
}
