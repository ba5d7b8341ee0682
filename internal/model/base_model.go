package model

import (
	"time"
)

// BaseModel 通用主键与时间戳
// 商品目录是硬删除，这里不带 DeletedAt
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StrPtr 空串返回 nil，便于写入可空列
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StrVal 可空列取值
func StrVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
