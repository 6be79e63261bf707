package model

import "time"

// User 运维操作账号（触发接口鉴权用）
type User struct {
    ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
    Username  string    `gorm:"type:varchar(64);uniqueIndex" json:"username"`
    Email     string    `gorm:"type:varchar(128)" json:"email"`
    Password  string    `gorm:"type:varchar(128)" json:"-"` // bcrypt hash
    CreatedAt time.Time `json:"created_at"`
    UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
