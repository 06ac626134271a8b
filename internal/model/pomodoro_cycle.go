package model

import (
	"time"

	"studysprint_backend/internal/scoring"
)

type CycleType string

const (
	CycleWork       CycleType = "work"
	CycleShortBreak CycleType = "short_break"
	CycleLongBreak  CycleType = "long_break"
)

// PomodoroCycle 一个计划内的工作/休息周期，归属于某个会话。
// 完成后进入终态。
type PomodoroCycle struct {
	UUIDBase
	SessionID   string    `gorm:"type:varchar(36);index;not null" json:"sessionId"`
	CycleNumber int       `gorm:"not null" json:"cycleNumber"`
	CycleType   CycleType `gorm:"type:varchar(20);default:'work'" json:"cycleType"`

	PlannedMinutes int `gorm:"default:25" json:"plannedMinutes"`
	ActualMinutes  int `gorm:"default:0" json:"actualMinutes"`

	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`

	Completed           bool `gorm:"index;default:false" json:"completed"`
	Interrupted         bool `gorm:"default:false" json:"interrupted"`
	Interruptions       int  `gorm:"default:0" json:"interruptions"`
	EffectivenessRating *int `json:"effectivenessRating"`

	ProductivityScore float64 `gorm:"type:decimal(4,2);default:0" json:"productivityScore"`
	FocusScore        float64 `gorm:"type:decimal(4,2);default:0" json:"focusScore"`
	XPEarned          int     `gorm:"default:0" json:"xpEarned"`
}

func (PomodoroCycle) TableName() string {
	return "pomodoro_cycles"
}

// IsWork 是否为工作周期
func (p *PomodoroCycle) IsWork() bool {
	return p.CycleType == CycleWork
}

// Complete 完成周期：按墙钟结算实际时长并计算得分。
func (p *PomodoroCycle) Complete(now time.Time, effectivenessRating *int, interruptions int) {
	end := now
	p.CompletedAt = &end
	p.ActualMinutes = int(now.Sub(p.StartedAt).Minutes())
	p.Completed = true
	p.Interruptions = interruptions
	p.Interrupted = interruptions > 0
	if effectivenessRating != nil {
		p.EffectivenessRating = effectivenessRating
	}

	p.ProductivityScore = scoring.CycleProductivity(p.ActualMinutes, p.PlannedMinutes, p.Interruptions)
	p.FocusScore = scoring.CycleFocus(p.IsWork(), p.Interruptions, p.Completed, p.ActualMinutes, p.PlannedMinutes)
	p.XPEarned = scoring.CycleXP(p.IsWork(), p.Completed, p.FocusScore, p.ProductivityScore)
}
