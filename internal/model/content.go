package model

import (
    "strings"
    "time"
)

// 支持的发布平台
const (
    PlatformTwitter  = "twitter"
    PlatformLinkedIn = "linkedin"
)

// AllPlatforms 平台集为空时的默认值
func AllPlatforms() []string { return []string{PlatformTwitter, PlatformLinkedIn} }

// ContentItem 待发布内容主体
type ContentItem struct {
    ID         string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
    Title      string        `gorm:"type:varchar(255)" json:"title"`
    Body       string        `gorm:"type:text" json:"body"`
    Assets     string        `gorm:"type:text" json:"assets"`                             // 逗号分隔素材 URL，保序
    Status     ContentStatus `gorm:"type:varchar(16);index:idx_content_status" json:"status"`
    Platforms  string        `gorm:"type:varchar(64)" json:"platforms"`                   // 逗号分隔，空=全部
    ReplyText  string        `gorm:"type:text" json:"reply_text"`                         // 跟帖/回复文案
    Immediate  bool          `json:"immediate"`                                           // 立即发布，不走模板排期
    EnrichQuote bool         `gorm:"column:enrich_quote" json:"enrich_quote"`             // 作者要求配金句
    QuoteRef   string        `gorm:"type:varchar(64)" json:"quote_ref"`                   // 已匹配的金句素材引用
    ProcessLog string        `gorm:"type:text" json:"process_log"`                        // 处理过程追加日志
    CreatedAt  time.Time     `json:"created_at"`
    UpdatedAt  time.Time     `json:"updated_at"`
}

func (ContentItem) TableName() string { return "content_items" }

// PlatformList 解析平台集，空集回退为全部平台
func (c *ContentItem) PlatformList() []string {
    return splitPlatforms(c.Platforms)
}

// AssetList 解析素材列表（保序）
func (c *ContentItem) AssetList() []string {
    if c.Assets == "" {
        return nil
    }
    return strings.Split(c.Assets, ",")
}

func splitPlatforms(s string) []string {
    if s == "" {
        return AllPlatforms()
    }
    parts := strings.Split(s, ",")
    res := make([]string, 0, len(parts))
    for _, p := range parts {
        if p = strings.TrimSpace(p); p != "" {
            res = append(res, p)
        }
    }
    if len(res) == 0 {
        return AllPlatforms()
    }
    return res
}
