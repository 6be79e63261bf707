package model

import "time"

// ScheduleEntry 具体的定时发布意图（引用一条 ContentItem）
// publish_at 创建后不可改；整体重排走删除重建
type ScheduleEntry struct {
    ID              string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
    ContentID       string         `gorm:"type:varchar(36);index:idx_entry_content" json:"content_id"`
    PublishAt       time.Time      `gorm:"index:idx_entry_due" json:"publish_at"`
    Platforms       string         `gorm:"type:varchar(64)" json:"platforms"`
    Status          ScheduleStatus `gorm:"type:varchar(16);index:idx_entry_status" json:"status"`
    EnrichRequested bool           `gorm:"column:enrich_requested" json:"enrich_requested"`
    TwitterURL      string         `gorm:"column:twitter_url;type:varchar(255)" json:"twitter_url"`
    LinkedInURL     string         `gorm:"column:linkedin_url;type:varchar(255)" json:"linkedin_url"`
    Error           string         `gorm:"type:text" json:"error"`
    PublishedAt     *time.Time     `json:"published_at"`
    CreatedAt       time.Time      `json:"created_at"`
    UpdatedAt       time.Time      `json:"updated_at"`
}

func (ScheduleEntry) TableName() string { return "schedule_entries" }

// PlatformList 解析平台集，空集回退为全部平台
func (e *ScheduleEntry) PlatformList() []string {
    return splitPlatforms(e.Platforms)
}
