package service

import (
	"errors"
	"math"
	"time"

	"studysprint_backend/internal/config"
	"studysprint_backend/internal/model"
	"studysprint_backend/internal/repository"
	"studysprint_backend/internal/scoring"
	"studysprint_backend/internal/util"

	"gorm.io/gorm"
)

// 无历史数据时的保守阅读速度（页/分钟）
const fallbackPagesPerMinute = 0.5

// 难度等级对预计耗时的修正系数
var difficultyMultiplier = map[int]float64{
	1: 0.8,
	2: 0.9,
	3: 1.0,
	4: 1.2,
	5: 1.5,
}

// RecordActualRequest 回填真实耗时的请求体
type RecordActualRequest struct {
	ActualMinutes int `json:"actualMinutes" binding:"required"`
}

// EstimateService 完成时间预测服务。
// 预测基于历史阅读速度采样，按文档难度修正；
// 拿到真实耗时后回填误差与准确度，用于长期校准。
type EstimateService struct {
	db        *gorm.DB
	cfg       *config.Config
	sessions  *repository.SessionRepository
	speeds    *repository.ReadingSpeedRepository
	documents *repository.DocumentRepository
	estimates *repository.EstimateRepository

	now func() time.Time
}

func NewEstimateService(db *gorm.DB, cfg *config.Config) *EstimateService {
	return &EstimateService{
		db:        db,
		cfg:       cfg,
		sessions:  repository.NewSessionRepository(db),
		speeds:    repository.NewReadingSpeedRepository(db),
		documents: repository.NewDocumentRepository(db),
		estimates: repository.NewEstimateRepository(db),
		now:       time.Now,
	}
}

// CompletionEstimate 估算读完文档剩余部分所需时间。
// 优先使用该文档自身的速度采样，其次退回用户近期采样，最后用保守默认值。
func (s *EstimateService) CompletionEstimate(userID, documentID string) (*model.CompletionEstimate, error) {
	doc, err := s.documents.FindByIDAndUser(documentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrDocumentNotFound
		}
		return nil, err
	}

	samples, err := s.speeds.FindByUserAndDocument(userID, documentID, 20)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		// 没有针对本文档的采样时用同难度的近期采样
		recent, err := s.speeds.FindRecentByUser(userID, 50)
		if err != nil {
			return nil, err
		}
		for _, v := range recent {
			if v.DifficultyLevel == doc.DifficultyRating {
				samples = append(samples, v)
			}
		}
	}

	avgPPM := fallbackPagesPerMinute
	if len(samples) > 0 {
		var sum float64
		for _, v := range samples {
			sum += v.PagesPerMinute
		}
		avgPPM = sum / float64(len(samples))
	}
	if avgPPM <= 0 {
		avgPPM = fallbackPagesPerMinute
	}

	remaining := doc.TotalPages - doc.CurrentPage + 1
	if remaining < 0 {
		remaining = 0
	}

	multiplier, ok := difficultyMultiplier[doc.DifficultyRating]
	if !ok {
		multiplier = 1.0
	}
	estimatedMinutes := int(math.Round(float64(remaining) / avgPPM * multiplier))

	sessionCount, err := s.sessions.CountByDocument(userID, documentID)
	if err != nil {
		return nil, err
	}

	return &model.CompletionEstimate{
		DocumentID:           documentID,
		RemainingPages:       remaining,
		EstimatedMinutes:     estimatedMinutes,
		EstimatedHours:       scoring.Round2(float64(estimatedMinutes) / 60.0),
		ConfidenceLevel:      confidenceLevel(int(sessionCount)),
		AverageReadingSpeed:  scoring.Round2(avgPPM),
		BasedOnSessions:      int(sessionCount),
		DifficultyAdjustment: multiplier,
	}, nil
}

// CreateEstimate 持久化一条完成时间预测，供事后准确度追踪。
// 同一文档的旧预测同时失效。
func (s *EstimateService) CreateEstimate(userID, documentID string) (*model.TimeEstimate, error) {
	completion, err := s.CompletionEstimate(userID, documentID)
	if err != nil {
		return nil, err
	}
	if completion.EstimatedMinutes <= 0 {
		return nil, util.ErrInvalidEstimate
	}

	doc, err := s.documents.FindByIDAndUser(documentID, userID)
	if err != nil {
		return nil, err
	}

	factors := []string{"reading_speed_history", "difficulty_adjustment"}
	if completion.BasedOnSessions == 0 {
		factors = []string{"default_rate", "difficulty_adjustment"}
	}

	validUntil := s.now().AddDate(0, 0, s.cfg.Session.EstimateValidityDays)
	estimate := &model.TimeEstimate{
		UserID:            userID,
		DocumentID:        documentID,
		TopicID:           doc.TopicID,
		EstimateType:      model.EstimateCompletion,
		EstimatedMinutes:  completion.EstimatedMinutes,
		EstimatedSessions: estimatedSessionCount(completion.EstimatedMinutes),
		ConfidenceLevel:   completion.ConfidenceLevel,
		ConfidenceScore:   confidenceScore(completion.BasedOnSessions),
		FactorsUsed:       factors,
		ValidUntil:        &validUntil,
		IsActive:          true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.estimates.DeactivateForDocument(tx, userID, documentID, model.EstimateCompletion); err != nil {
			return err
		}
		return tx.Create(estimate).Error
	})
	if err != nil {
		return nil, err
	}
	return estimate, nil
}

// ListEstimates 查询用户当前有效的预测
func (s *EstimateService) ListEstimates(userID string) ([]model.TimeEstimate, error) {
	return s.estimates.ListActive(userID, s.now())
}

// RecordActual 回填真实耗时，计算误差与准确度评分
func (s *EstimateService) RecordActual(estimateID, userID string, req RecordActualRequest) (*model.TimeEstimate, error) {
	if req.ActualMinutes <= 0 {
		return nil, util.ErrInvalidEstimate
	}

	estimate, err := s.estimates.FindByIDAndUser(estimateID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEstimateNotFound
		}
		return nil, err
	}

	actual := req.ActualMinutes
	variance := math.Abs(float64(actual-estimate.EstimatedMinutes)) / float64(estimate.EstimatedMinutes)
	accuracy := scoring.EstimateAccuracy(variance)

	estimate.ActualMinutes = &actual
	estimate.Variance = &variance
	estimate.AccuracyScore = &accuracy
	estimate.IsActive = false

	if err := s.estimates.Save(estimate); err != nil {
		return nil, err
	}
	return estimate, nil
}

// AccuracyReport 汇总已回填真实耗时的预测，给出长期预测准确度
func (s *EstimateService) AccuracyReport(userID string) (*model.EstimationAccuracyReport, error) {
	estimates, err := s.estimates.FindScored(userID)
	if err != nil {
		return nil, err
	}
	return estimationAccuracyReport(estimates), nil
}

// estimationAccuracyReport 纯聚合函数，输入按创建时间升序的已评分预测。
// 误差走势只保留最近 20 条。
func estimationAccuracyReport(estimates []model.TimeEstimate) *model.EstimationAccuracyReport {
	if len(estimates) == 0 {
		return &model.EstimationAccuracyReport{
			AccuracyByType: map[string]float64{},
			ImprovementSuggestions: []string{
				"Complete more sessions to get estimation accuracy data!",
			},
		}
	}

	var accuracySum float64
	typeSum := map[string]float64{}
	typeCount := map[string]int{}
	for _, e := range estimates {
		accuracySum += *e.AccuracyScore
		typeSum[string(e.EstimateType)] += *e.AccuracyScore
		typeCount[string(e.EstimateType)]++
	}

	byType := make(map[string]float64, len(typeSum))
	for est := range typeSum {
		byType[est] = scoring.Round2(typeSum[est] / float64(typeCount[est]))
	}

	recent := estimates
	if len(recent) > 20 {
		recent = recent[len(recent)-20:]
	}
	trends := make([]model.VarianceTrendPoint, 0, len(recent))
	for _, e := range recent {
		variance := 0.0
		if e.Variance != nil {
			variance = scoring.Round2(*e.Variance)
		}
		trends = append(trends, model.VarianceTrendPoint{
			Date:         e.CreatedAt.Format(util.DateFormat),
			Accuracy:     *e.AccuracyScore,
			Variance:     variance,
			EstimateType: string(e.EstimateType),
		})
	}

	overall := scoring.Round2(accuracySum / float64(len(estimates)))
	var suggestions []string
	if overall < 0.7 {
		suggestions = append(suggestions, "Your time estimates are often off. Track your actual study time more carefully.")
	}
	if byType[string(model.EstimateCompletion)] < 0.6 {
		suggestions = append(suggestions, "Completion estimates need work. Factor in your measured reading speed.")
	}
	if len(estimates) < 10 {
		suggestions = append(suggestions, "Complete more sessions to improve estimation accuracy.")
	}

	return &model.EstimationAccuracyReport{
		OverallAccuracy:        overall,
		TrackedEstimates:       len(estimates),
		AccuracyByType:         byType,
		VarianceTrends:         trends,
		ImprovementSuggestions: suggestions,
	}
}

func confidenceLevel(sessionCount int) string {
	switch {
	case sessionCount >= 3:
		return util.ConfidenceHigh
	case sessionCount >= 1:
		return util.ConfidenceMedium
	default:
		return util.ConfidenceLow
	}
}

func confidenceScore(sessionCount int) float64 {
	score := 0.3 + 0.2*float64(sessionCount)
	if score > 0.9 {
		score = 0.9
	}
	return scoring.Round2(score)
}

// estimatedSessionCount 按 45 分钟一节折算预计所需会话数
func estimatedSessionCount(estimatedMinutes int) int {
	sessions := (estimatedMinutes + 44) / 45
	if sessions < 1 {
		sessions = 1
	}
	return sessions
}
