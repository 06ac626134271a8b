package model

import "time"

type EstimateType string

const (
	EstimateCompletion EstimateType = "completion"
	EstimateDaily      EstimateType = "daily"
	EstimateSession    EstimateType = "session"
)

// TimeEstimate 面向用户的剩余学习时间预测。
// 有效期过后不再返回；拿到真实耗时后回填误差与准确度。
type TimeEstimate struct {
	UUIDBase
	UserID     string `gorm:"type:varchar(36);index;not null" json:"userId"`
	DocumentID string `gorm:"type:varchar(36);index" json:"documentId"`
	TopicID    string `gorm:"type:varchar(36);index" json:"topicId"`

	EstimateType      EstimateType `gorm:"type:varchar(20);default:'completion'" json:"estimateType"`
	EstimatedMinutes  int          `gorm:"default:0" json:"estimatedMinutes"`
	EstimatedSessions int          `gorm:"default:0" json:"estimatedSessions"`

	ConfidenceLevel string   `gorm:"type:varchar(10);default:'low'" json:"confidenceLevel"`
	ConfidenceScore float64  `gorm:"type:decimal(4,2);default:0" json:"confidenceScore"`
	FactorsUsed     []string `gorm:"serializer:json" json:"factorsUsed"`

	ValidUntil *time.Time `json:"validUntil"`
	IsActive   bool       `gorm:"default:true" json:"isActive"`

	ActualMinutes *int     `json:"actualMinutes"`
	Variance      *float64 `gorm:"type:decimal(8,4)" json:"variance"`
	AccuracyScore *float64 `gorm:"type:decimal(4,2)" json:"accuracyScore"`
}

func (TimeEstimate) TableName() string {
	return "time_estimates"
}
