package model

import (
	"time"

	"studysprint_backend/internal/scoring"
	"studysprint_backend/internal/util"
)

type SessionType string

const (
	SessionStudy    SessionType = "study"
	SessionExercise SessionType = "exercise"
	SessionReview   SessionType = "review"
	SessionPomodoro SessionType = "pomodoro"
)

// PauseRecord 暂停原因审计记录
type PauseRecord struct {
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionMeta 会话元数据，暂停/恢复审计用
type SessionMeta struct {
	PauseReasons []PauseRecord `json:"pauseReasons,omitempty"`
	ResumeTimes  []time.Time   `json:"resumeTimes,omitempty"`
}

// StudySession 一次连续的学习会话，从 Start 到 End。
// 结束后（IsActive=false）记录不可再变更，软删除保留用于分析。
type StudySession struct {
	UUIDBase
	UserID      string      `gorm:"type:varchar(36);index;not null" json:"userId"`
	DocumentID  string      `gorm:"type:varchar(36);index;not null" json:"documentId"`
	TopicID     string      `gorm:"type:varchar(36);index" json:"topicId"`
	SessionType SessionType `gorm:"type:varchar(20);default:'study'" json:"sessionType"`

	StartTime time.Time  `gorm:"index" json:"startTime"`
	EndTime   *time.Time `json:"endTime"`

	TotalMinutes  int `gorm:"default:0" json:"totalMinutes"`
	ActiveMinutes int `gorm:"default:0" json:"activeMinutes"`
	IdleMinutes   int `gorm:"default:0" json:"idleMinutes"`
	BreakMinutes  int `gorm:"default:0" json:"breakMinutes"`
	PauseCount    int `gorm:"default:0" json:"pauseCount"`

	PagesVisited   int `gorm:"default:0" json:"pagesVisited"`
	PagesCompleted int `gorm:"default:0" json:"pagesCompleted"`
	ClickCount     int `gorm:"default:0" json:"clickCount"`
	ScrollCount    int `gorm:"default:0" json:"scrollCount"`
	Interruptions  int `gorm:"default:0" json:"interruptions"`

	PomodoroCycles int `gorm:"default:0" json:"pomodoroCycles"`
	PlannedCycles  int `gorm:"default:0" json:"plannedCycles"`

	FocusScore         float64 `gorm:"type:decimal(4,2);default:0" json:"focusScore"`
	ProductivityScore  float64 `gorm:"type:decimal(4,2);default:0" json:"productivityScore"`
	ComprehensionScore float64 `gorm:"type:decimal(4,2);default:0" json:"comprehensionScore"`
	XPEarned           int     `gorm:"default:0" json:"xpEarned"`

	IsActive bool `gorm:"index;default:true" json:"isActive"`
	IsPaused bool `gorm:"default:false" json:"isPaused"`

	SessionRating *int        `json:"sessionRating"`
	Notes         string      `gorm:"type:text" json:"notes"`
	Meta          SessionMeta `gorm:"serializer:json" json:"meta"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}

// SessionActivityUpdate 客户端活动计数器增量，未提供的字段不参与合并
type SessionActivityUpdate struct {
	PagesVisited   *int `json:"pagesVisited"`
	PagesCompleted *int `json:"pagesCompleted"`
	ClickCount     *int `json:"clickCount"`
	ScrollCount    *int `json:"scrollCount"`
	Interruptions  *int `json:"interruptions"`
}

// UpdateTiming 刷新时间指标。total 取墙钟流逝分钟数；
// 未暂停时 active 每次调用最多 +1（防止客户端高频轮询刷时长），
// 暂停时 idle = total - active。
func (s *StudySession) UpdateTiming(now time.Time) {
	elapsed := int(now.Sub(s.StartTime).Minutes())
	s.TotalMinutes = elapsed

	if !s.IsPaused {
		active := s.ActiveMinutes + 1
		if active > s.TotalMinutes {
			active = s.TotalMinutes
		}
		s.ActiveMinutes = active
	} else {
		s.IdleMinutes = s.TotalMinutes - s.ActiveMinutes
	}
}

// Pause 暂停运行中的会话，只允许 Active-Running 状态。
func (s *StudySession) Pause(now time.Time, reason string) error {
	if !s.IsActive {
		return util.ErrSessionNotActive
	}
	if s.IsPaused {
		return util.ErrSessionAlreadyPaused
	}

	s.IsPaused = true
	s.PauseCount++
	s.UpdateTiming(now)

	if reason != "" {
		s.Meta.PauseReasons = append(s.Meta.PauseReasons, PauseRecord{
			Reason:    reason,
			Timestamp: now,
		})
	}
	return nil
}

// Resume 恢复暂停中的会话，只允许 Active-Paused 状态。
func (s *StudySession) Resume(now time.Time) error {
	if !s.IsActive {
		return util.ErrSessionNotActive
	}
	if !s.IsPaused {
		return util.ErrSessionNotPaused
	}

	s.IsPaused = false
	s.Meta.ResumeTimes = append(s.Meta.ResumeTimes, now)
	return nil
}

// ApplyActivity 合并活动计数器。取已存值与新值的较大者，
// 计数器只增不减，以容忍客户端重试和乱序上报。
func (s *StudySession) ApplyActivity(update SessionActivityUpdate, now time.Time) error {
	if !s.IsActive {
		return util.ErrSessionNotActive
	}

	if update.PagesVisited != nil && *update.PagesVisited > s.PagesVisited {
		s.PagesVisited = *update.PagesVisited
	}
	if update.PagesCompleted != nil && *update.PagesCompleted > s.PagesCompleted {
		s.PagesCompleted = *update.PagesCompleted
	}
	if update.ClickCount != nil && *update.ClickCount > s.ClickCount {
		s.ClickCount = *update.ClickCount
	}
	if update.ScrollCount != nil && *update.ScrollCount > s.ScrollCount {
		s.ScrollCount = *update.ScrollCount
	}
	if update.Interruptions != nil && *update.Interruptions > s.Interruptions {
		s.Interruptions = *update.Interruptions
	}

	s.UpdateTiming(now)
	return nil
}

// End 结束会话并结算得分，只允许 is_active 状态（运行或暂停均可）。
// 结束后会话进入终态。
func (s *StudySession) End(now time.Time, rating *int, notes string) error {
	if !s.IsActive {
		return util.ErrSessionNotActive
	}

	if rating != nil {
		s.SessionRating = rating
	}
	if notes != "" {
		s.Notes = notes
	}

	s.TotalMinutes = int(now.Sub(s.StartTime).Minutes())
	if s.ActiveMinutes > s.TotalMinutes {
		s.ActiveMinutes = s.TotalMinutes
	}
	s.IdleMinutes = s.TotalMinutes - s.ActiveMinutes

	s.FocusScore = scoring.FocusScore(s.Interruptions, s.IdleMinutes, s.TotalMinutes)
	s.ProductivityScore = scoring.ProductivityScore(s.PagesCompleted, s.ClickCount, s.ScrollCount, s.TotalMinutes)
	s.XPEarned += scoring.SessionXP(s.ActiveMinutes, s.FocusScore, s.ProductivityScore, s.PagesCompleted, s.PomodoroCycles)

	end := now
	s.EndTime = &end
	s.IsActive = false
	s.IsPaused = false
	return nil
}
