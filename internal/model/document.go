package model

import "time"

// Document 文档目录中的一份 PDF。本服务只读取页数/难度，
// 回写累计阅读时长和最近浏览时间；文档本身的增删改由外部系统负责。
type Document struct {
	UUIDBase
	UserID  string `gorm:"type:varchar(36);index;not null" json:"userId"`
	TopicID string `gorm:"type:varchar(36);index" json:"topicId"`
	Title   string `gorm:"size:255" json:"title"`

	TotalPages       int `gorm:"default:0" json:"totalPages"`
	CurrentPage      int `gorm:"default:1" json:"currentPage"`
	DifficultyRating int `gorm:"default:3" json:"difficultyRating"` // 1-5

	ActualReadTime int        `gorm:"default:0" json:"actualReadTime"` // 累计活跃分钟
	ViewCount      int        `gorm:"default:0" json:"viewCount"`
	LastViewedAt   *time.Time `json:"lastViewedAt"`
}

func (Document) TableName() string {
	return "documents"
}

// Topic 学习主题，聚合若干文档的学习时长统计。
type Topic struct {
	UUIDBase
	UserID string `gorm:"type:varchar(36);index;not null" json:"userId"`
	Name   string `gorm:"size:255;not null" json:"name"`

	TotalStudyTime int        `gorm:"default:0" json:"totalStudyTime"` // 分钟
	LastStudiedAt  *time.Time `json:"lastStudiedAt"`
}

func (Topic) TableName() string {
	return "topics"
}
