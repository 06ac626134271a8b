package service

import (
	"time"

	"studysprint_backend/internal/model"
	"studysprint_backend/internal/repository"
	"studysprint_backend/internal/scoring"
	"studysprint_backend/internal/util"

	"gorm.io/gorm"
)

// AnalyticsQuery 分析报告的查询条件。
// Start/End 为空时由 Days 推导时间窗口。
type AnalyticsQuery struct {
	Days        int
	Start       *time.Time
	End         *time.Time
	DocumentIDs []string
	TopicIDs    []string
	Granularity string
}

// AnalyticsService 只读分析服务，消费已结束的会话、速度采样和日统计。
type AnalyticsService struct {
	sessions  *repository.SessionRepository
	speeds    *repository.ReadingSpeedRepository
	documents *repository.DocumentRepository
	stats     *repository.StatisticRepository

	now func() time.Time
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{
		sessions:  repository.NewSessionRepository(db),
		speeds:    repository.NewReadingSpeedRepository(db),
		documents: repository.NewDocumentRepository(db),
		stats:     repository.NewStatisticRepository(db),
		now:       time.Now,
	}
}

func (s *AnalyticsService) resolveWindow(q AnalyticsQuery) (time.Time, time.Time, int) {
	if q.Start != nil && q.End != nil {
		days := int(q.End.Sub(*q.Start).Hours() / 24)
		if days < 1 {
			days = 1
		}
		return *q.Start, *q.End, days
	}

	days := q.Days
	if days <= 0 || days > 365 {
		days = 30
	}
	end := s.now()
	return end.AddDate(0, 0, -days), end, days
}

// GetStudyAnalytics 综合学习分析报告
func (s *AnalyticsService) GetStudyAnalytics(userID string, q AnalyticsQuery) (*model.AnalyticsReport, error) {
	granularity := q.Granularity
	if granularity == "" {
		granularity = util.GranularityDaily
	}
	switch granularity {
	case util.GranularityHourly, util.GranularityDaily, util.GranularityWeekly, util.GranularityMonthly:
	default:
		return nil, util.ErrInvalidGranularity
	}

	start, end, days := s.resolveWindow(q)

	sessions, err := s.sessions.FindInRange(userID, start, end, q.DocumentIDs, q.TopicIDs)
	if err != nil {
		return nil, err
	}
	samples, err := s.speeds.FindInRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	trends, err := trendBuckets(sessions, granularity)
	if err != nil {
		return nil, err
	}

	focus := focusPatterns(sessions)
	report := &model.AnalyticsReport{
		Period: model.AnalyticsPeriod{
			StartDate: start.Format(util.DateFormat),
			EndDate:   end.Format(util.DateFormat),
			Days:      days,
		},
		Overview:        overviewMetrics(sessions),
		Trends:          trends,
		Performance:     performanceMetrics(sessions),
		ReadingSpeed:    readingSpeedMetrics(samples),
		FocusPatterns:   focus,
		Recommendations: recommendations(sessions, focus),
	}
	return report, nil
}

// GetReadingPatterns 阅读模式报告：最佳时段、趋势曲线、内容偏好、难度表现
func (s *AnalyticsService) GetReadingPatterns(userID string, q AnalyticsQuery) (*model.PatternsReport, error) {
	start, end, _ := s.resolveWindow(q)

	sessions, err := s.sessions.FindInRange(userID, start, end, nil, nil)
	if err != nil {
		return nil, err
	}
	samples, err := s.speeds.FindInRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	documentIDs := make([]string, 0, len(sessions))
	seen := map[string]struct{}{}
	for _, sess := range sessions {
		if _, ok := seen[sess.DocumentID]; !ok {
			seen[sess.DocumentID] = struct{}{}
			documentIDs = append(documentIDs, sess.DocumentID)
		}
	}
	difficulties, err := s.documents.FindDifficulties(documentIDs)
	if err != nil {
		return nil, err
	}

	return &model.PatternsReport{
		OptimalStudyHours:      optimalStudyHours(sessions),
		BestPerformingDays:     bestPerformingDays(sessions),
		ReadingSpeedTrends:     speedTrends(samples),
		FocusScoreTrends:       focusTrends(sessions),
		ProductivityTrends:     productivityTrends(sessions),
		ContentTypePreferences: contentPreferences(samples),
		DifficultyPerformance:  difficultyPerformance(sessions, difficulties),
	}, nil
}

// GetStatistics 按类型查询汇总统计行。
// 目前结算级联只产出 daily，其余类型预留，查询结果为空。
func (s *AnalyticsService) GetStatistics(userID, statType string, limit int) ([]model.UserStatistic, error) {
	switch statType {
	case util.StatTypeDaily, util.StatTypeWeekly, util.StatTypeMonthly, util.StatTypeLifetime:
	case "":
		statType = util.StatTypeDaily
	default:
		return nil, util.ErrInvalidStatType
	}
	if limit <= 0 || limit > 365 {
		limit = 30
	}
	return s.stats.ListByType(userID, statType, limit)
}

// GetFocusAnalytics 专注力分析报告
func (s *AnalyticsService) GetFocusAnalytics(userID string, q AnalyticsQuery) (*model.FocusAnalytics, error) {
	start, end, _ := s.resolveWindow(q)

	sessions, err := s.sessions.FindInRange(userID, start, end, nil, nil)
	if err != nil {
		return nil, err
	}

	var avgFocus float64
	if len(sessions) > 0 {
		var sum float64
		for _, sess := range sessions {
			sum += sess.FocusScore
		}
		avgFocus = scoring.Round2(sum / float64(len(sessions)))
	}

	analysis := interruptionAnalysis(sessions)
	return &model.FocusAnalytics{
		AverageFocusScore:          avgFocus,
		FocusTrends:                focusTrends(sessions),
		InterruptionAnalysis:       analysis,
		OptimalSessionLength:       optimalSessionLength(sessions),
		ImprovementRecommendations: focusRecommendations(sessions, analysis, avgFocus),
	}, nil
}
