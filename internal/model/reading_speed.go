package model

// ReadingSpeed 阅读速度采样，会话结束时自动派生，只追加不修改。
type ReadingSpeed struct {
	UUIDBase
	UserID     string `gorm:"type:varchar(36);index;not null" json:"userId"`
	DocumentID string `gorm:"type:varchar(36);index" json:"documentId"`
	TopicID    string `gorm:"type:varchar(36);index" json:"topicId"`
	SessionID  string `gorm:"type:varchar(36);index" json:"sessionId"`

	PagesPerMinute      float64 `gorm:"type:decimal(8,4)" json:"pagesPerMinute"`
	WordsPerMinute      float64 `gorm:"type:decimal(8,2)" json:"wordsPerMinute"`
	CharactersPerMinute float64 `gorm:"type:decimal(10,2)" json:"charactersPerMinute"`

	ContentType     string `gorm:"type:varchar(20);default:'mixed'" json:"contentType"`
	DifficultyLevel int    `gorm:"default:3" json:"difficultyLevel"`
	EstimatedWords  int    `gorm:"default:0" json:"estimatedWords"`

	// 采样时的上下文：开始时刻的小时数和星期几（周一 = 0）
	TimeOfDay       int `json:"timeOfDay"`
	DayOfWeek       int `json:"dayOfWeek"`
	SessionDuration int `json:"sessionDuration"`
}

func (ReadingSpeed) TableName() string {
	return "reading_speeds"
}

// DeriveReadingSpeed 从已结束的会话派生一条速度采样。
// 没有实际阅读活动（页数或活跃时间为零）时不产生采样，返回 nil。
// 字符数按每词 5 字符折算。
func DeriveReadingSpeed(s *StudySession, wordsPerPage, difficulty int) *ReadingSpeed {
	if s.PagesVisited <= 0 || s.ActiveMinutes <= 0 {
		return nil
	}
	if difficulty < 1 || difficulty > 5 {
		difficulty = 3
	}

	ppm := float64(s.PagesVisited) / float64(s.ActiveMinutes)
	wpm := ppm * float64(wordsPerPage)

	return &ReadingSpeed{
		UserID:              s.UserID,
		DocumentID:          s.DocumentID,
		TopicID:             s.TopicID,
		SessionID:           s.ID,
		PagesPerMinute:      ppm,
		WordsPerMinute:      wpm,
		CharactersPerMinute: wpm * 5,
		ContentType:         "mixed",
		DifficultyLevel:     difficulty,
		EstimatedWords:      s.PagesVisited * wordsPerPage,
		TimeOfDay:           s.StartTime.Hour(),
		DayOfWeek:           (int(s.StartTime.Weekday()) + 6) % 7,
		SessionDuration:     s.TotalMinutes,
	}
}
