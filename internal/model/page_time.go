package model

import (
	"time"

	"studysprint_backend/internal/scoring"
)

// PageTime 单页停留计时记录，归属于某个会话。
// 同一会话同时最多只有一条未关闭（EndTime 为空）的记录。
type PageTime struct {
	UUIDBase
	SessionID  string `gorm:"type:varchar(36);index;not null" json:"sessionId"`
	DocumentID string `gorm:"type:varchar(36);index;not null" json:"documentId"`
	PageNumber int    `gorm:"not null" json:"pageNumber"`

	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	DurationSeconds int        `gorm:"default:0" json:"durationSeconds"`
	ActiveSeconds   int        `gorm:"default:0" json:"activeSeconds"`
	IdleSeconds     int        `gorm:"default:0" json:"idleSeconds"`

	ClickCount    int `gorm:"default:0" json:"clickCount"`
	ScrollCount   int `gorm:"default:0" json:"scrollCount"`
	ZoomChanges   int `gorm:"default:0" json:"zoomChanges"`
	ActivityCount int `gorm:"default:0" json:"activityCount"`

	NotesCreated      int `gorm:"default:0" json:"notesCreated"`
	HighlightsCreated int `gorm:"default:0" json:"highlightsCreated"`
	BookmarksCreated  int `gorm:"default:0" json:"bookmarksCreated"`

	EstimatedWords int `gorm:"default:0" json:"estimatedWords"`

	ReadingSpeedWPM       *float64 `gorm:"type:decimal(8,2)" json:"readingSpeedWpm"`
	DifficultyRating      int      `gorm:"default:0" json:"difficultyRating"`
	ComprehensionEstimate float64  `gorm:"type:decimal(4,2);default:0" json:"comprehensionEstimate"`
	EngagementScore       float64  `gorm:"type:decimal(4,2);default:0" json:"engagementScore"`
}

func (PageTime) TableName() string {
	return "page_times"
}

// PageTimeUpdate 页面活动计数器更新，合并规则与会话相同（取较大值）
type PageTimeUpdate struct {
	ClickCount        *int `json:"clickCount"`
	ScrollCount       *int `json:"scrollCount"`
	ZoomChanges       *int `json:"zoomChanges"`
	NotesCreated      *int `json:"notesCreated"`
	HighlightsCreated *int `json:"highlightsCreated"`
	BookmarksCreated  *int `json:"bookmarksCreated"`
	ActiveSeconds     *int `json:"activeSeconds"`
	IdleSeconds       *int `json:"idleSeconds"`
}

// IsOpen 是否仍在计时
func (p *PageTime) IsOpen() bool {
	return p.EndTime == nil
}

// ApplyActivity 合并页面活动计数器并重算 ActivityCount。
func (p *PageTime) ApplyActivity(update PageTimeUpdate) {
	if update.ClickCount != nil && *update.ClickCount > p.ClickCount {
		p.ClickCount = *update.ClickCount
	}
	if update.ScrollCount != nil && *update.ScrollCount > p.ScrollCount {
		p.ScrollCount = *update.ScrollCount
	}
	if update.ZoomChanges != nil && *update.ZoomChanges > p.ZoomChanges {
		p.ZoomChanges = *update.ZoomChanges
	}
	if update.NotesCreated != nil && *update.NotesCreated > p.NotesCreated {
		p.NotesCreated = *update.NotesCreated
	}
	if update.HighlightsCreated != nil && *update.HighlightsCreated > p.HighlightsCreated {
		p.HighlightsCreated = *update.HighlightsCreated
	}
	if update.BookmarksCreated != nil && *update.BookmarksCreated > p.BookmarksCreated {
		p.BookmarksCreated = *update.BookmarksCreated
	}
	if update.ActiveSeconds != nil && *update.ActiveSeconds > p.ActiveSeconds {
		p.ActiveSeconds = *update.ActiveSeconds
	}
	if update.IdleSeconds != nil && *update.IdleSeconds > p.IdleSeconds {
		p.IdleSeconds = *update.IdleSeconds
	}

	p.ActivityCount = p.ClickCount + p.ScrollCount + p.ZoomChanges
}

// Close 结束页面计时并结算派生指标。已关闭的记录不可变，重复调用无效果。
func (p *PageTime) Close(now time.Time) {
	if p.EndTime != nil {
		return
	}

	end := now
	p.EndTime = &end
	p.DurationSeconds = int(now.Sub(p.StartTime).Seconds())

	// 阅读速度需要调用方提供的词数估计和真实活跃时间，缺一不记
	if p.EstimatedWords > 0 && p.ActiveSeconds > 0 {
		wpm := float64(p.EstimatedWords) / (float64(p.ActiveSeconds) / 60.0)
		p.ReadingSpeedWPM = &wpm
	}

	minutes := float64(p.DurationSeconds) / 60.0
	p.DifficultyRating = scoring.PageDifficulty(minutes)

	rate := 0.0
	if minutes > 0 {
		rate = float64(p.ActivityCount) / minutes
	}
	p.EngagementScore = scoring.EngagementScore(rate)
	p.ComprehensionEstimate = scoring.ComprehensionEstimate(p.EngagementScore, p.NotesCreated, p.HighlightsCreated)
}
