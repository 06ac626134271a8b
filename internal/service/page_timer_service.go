package service

import (
	"errors"
	"time"

	"studysprint_backend/internal/model"
	"studysprint_backend/internal/repository"
	"studysprint_backend/internal/util"

	"gorm.io/gorm"
)

// StartPageTimerRequest 开始页面计时的请求体
type StartPageTimerRequest struct {
	SessionID      string `json:"sessionId" binding:"required"`
	PageNumber     int    `json:"pageNumber" binding:"required"`
	EstimatedWords int    `json:"estimatedWords"`
}

// PageTimerService 页面停留计时服务。
// 同一会话同时只有一条未关闭记录：开新页前自动关闭旧页。
// sessionMu 是跨服务共享的会话锁。
type PageTimerService struct {
	sessions  *repository.SessionRepository
	pageTimes *repository.PageTimeRepository

	sessionMu *util.KeyedMutex
	now       func() time.Time
}

func NewPageTimerService(db *gorm.DB, sessionMu *util.KeyedMutex) *PageTimerService {
	return &PageTimerService{
		sessions:  repository.NewSessionRepository(db),
		pageTimes: repository.NewPageTimeRepository(db),
		sessionMu: sessionMu,
		now:       time.Now,
	}
}

// Start 开始某一页的计时。会话内已有未关闭的页面时先将其关闭结算。
func (s *PageTimerService) Start(userID string, req StartPageTimerRequest) (*model.PageTime, error) {
	if req.PageNumber < 1 {
		return nil, util.ErrInvalidPageNumber
	}
	sessionID := req.SessionID

	s.sessionMu.Lock(sessionID)
	defer s.sessionMu.Unlock(sessionID)

	// 活跃检查必须在锁内做，否则检查和建档之间会话可能已被结束
	session, err := s.sessions.FindByIDAndUserID(sessionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if !session.IsActive {
		return nil, util.ErrSessionNotActive
	}

	now := s.now()
	open, err := s.pageTimes.FindOpenBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		open.Close(now)
		if err := s.pageTimes.Save(open); err != nil {
			return nil, err
		}
	}

	pt := &model.PageTime{
		SessionID:      sessionID,
		DocumentID:     session.DocumentID,
		PageNumber:     req.PageNumber,
		StartTime:      now,
		EstimatedWords: req.EstimatedWords,
	}
	if err := s.pageTimes.Create(pt); err != nil {
		return nil, err
	}
	return pt, nil
}

// End 关闭页面计时并结算派生指标
func (s *PageTimerService) End(pageTimeID, userID string) (*model.PageTime, error) {
	pt, err := s.pageTimes.FindOpenByIDAndUser(pageTimeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPageTimerNotFound
		}
		return nil, err
	}

	pt.Close(s.now())
	if err := s.pageTimes.Save(pt); err != nil {
		return nil, err
	}
	return pt, nil
}

// UpdateActivity 合并页面活动计数器，最大值胜出
func (s *PageTimerService) UpdateActivity(pageTimeID, userID string, update model.PageTimeUpdate) (*model.PageTime, error) {
	pt, err := s.pageTimes.FindOpenByIDAndUser(pageTimeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPageTimerNotFound
		}
		return nil, err
	}

	pt.ApplyActivity(update)
	if err := s.pageTimes.Save(pt); err != nil {
		return nil, err
	}
	return pt, nil
}
