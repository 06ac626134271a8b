package model

import "time"

// UserStatistic 按天汇总的用户学习统计，会话结束时滚动更新。
type UserStatistic struct {
	UUIDBase
	UserID   string    `gorm:"type:varchar(36);index;not null" json:"userId"`
	StatType string    `gorm:"type:varchar(10);default:'daily'" json:"statType"`
	StatDate time.Time `gorm:"index" json:"statDate"`

	TotalStudyMinutes  int `gorm:"default:0" json:"totalStudyMinutes"`
	TotalActiveMinutes int `gorm:"default:0" json:"totalActiveMinutes"`
	TotalSessions      int `gorm:"default:0" json:"totalSessions"`
	PagesRead          int `gorm:"default:0" json:"pagesRead"`
	PomodoroCycles     int `gorm:"default:0" json:"pomodoroCycles"`
	XPEarned           int `gorm:"default:0" json:"xpEarned"`

	AverageFocusScore        float64 `gorm:"type:decimal(4,2);default:0" json:"averageFocusScore"`
	AverageProductivityScore float64 `gorm:"type:decimal(4,2);default:0" json:"averageProductivityScore"`
}

func (UserStatistic) TableName() string {
	return "user_statistics"
}

// Fold 把一个已结束的会话折算进当日统计，均值做增量更新。
func (u *UserStatistic) Fold(s *StudySession) {
	u.TotalStudyMinutes += s.ActiveMinutes
	u.TotalActiveMinutes += s.ActiveMinutes
	u.TotalSessions++
	u.PagesRead += s.PagesVisited
	u.PomodoroCycles += s.PomodoroCycles
	u.XPEarned += s.XPEarned

	n := float64(u.TotalSessions)
	u.AverageFocusScore = (u.AverageFocusScore*(n-1) + s.FocusScore) / n
	u.AverageProductivityScore = (u.AverageProductivityScore*(n-1) + s.ProductivityScore) / n
}
