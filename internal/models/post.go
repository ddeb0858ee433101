package models

import (
	"time"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Title     string    `gorm:"not null" json:"title"`
	PostURL   string    `gorm:"not null" json:"post_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Comments []Comment `json:"comments"`

	// 非数据库字段，查询时统计 votes 表填充
	VoteCount int `gorm:"-" json:"vote_count"`
}
