package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"studysprint_backend/internal/config"
	"studysprint_backend/internal/model"
	"studysprint_backend/internal/repository"
	"studysprint_backend/internal/scoring"
	"studysprint_backend/internal/util"
	"studysprint_backend/pkg/logger"
	"studysprint_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const activeSessionCachePrefix = "active_session:"
const activeSessionCacheTTL = 5 * time.Minute

// StartSessionRequest 开始学习会话的请求体
type StartSessionRequest struct {
	DocumentID    string `json:"documentId" binding:"required"`
	TopicID       string `json:"topicId"`
	SessionType   string `json:"sessionType"`
	PlannedCycles int    `json:"plannedCycles"`
}

// PauseSessionRequest 暂停原因可选
type PauseSessionRequest struct {
	Reason string `json:"reason"`
}

// EndSessionRequest 结束会话的请求体
type EndSessionRequest struct {
	SessionRating *int   `json:"sessionRating"`
	Notes         string `json:"notes"`
}

// SessionService 会话生命周期服务。
// Start/End 按用户加锁串行化，保证同一用户同时最多一个活跃会话；
// 其余变更操作按会话加锁，避免并发更新互相覆盖。
// sessionMu 与页面计时、番茄周期服务共用同一把锁，
// 三个服务对同一会话行的读改写才真正互斥。
type SessionService struct {
	db        *gorm.DB
	rdb       *redis.Client
	cfg       *config.Config
	sessions  *repository.SessionRepository
	pageTimes *repository.PageTimeRepository
	speeds    *repository.ReadingSpeedRepository
	documents *repository.DocumentRepository
	topics    *repository.TopicRepository
	stats     *repository.StatisticRepository

	userMu    *util.KeyedMutex
	sessionMu *util.KeyedMutex

	now func() time.Time
}

func NewSessionService(db *gorm.DB, rdb *redis.Client, cfg *config.Config, sessionMu *util.KeyedMutex) *SessionService {
	return &SessionService{
		db:        db,
		rdb:       rdb,
		cfg:       cfg,
		sessions:  repository.NewSessionRepository(db),
		pageTimes: repository.NewPageTimeRepository(db),
		speeds:    repository.NewReadingSpeedRepository(db),
		documents: repository.NewDocumentRepository(db),
		topics:    repository.NewTopicRepository(db),
		stats:     repository.NewStatisticRepository(db),
		userMu:    util.NewKeyedMutex(),
		sessionMu: sessionMu,
		now:       time.Now,
	}
}

// Start 开始新会话。已有活跃会话时先强制结束旧会话（得分按已累计数据结算），
// 再创建新会话，两步在同一把用户锁内完成。
func (s *SessionService) Start(ctx context.Context, userID string, req StartSessionRequest) (*model.StudySession, error) {
	if _, err := s.documents.FindByIDAndUser(req.DocumentID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrDocumentNotFound
		}
		return nil, err
	}

	sessionType := model.SessionType(req.SessionType)
	switch sessionType {
	case model.SessionStudy, model.SessionExercise, model.SessionReview, model.SessionPomodoro:
	case "":
		sessionType = model.SessionStudy
	default:
		return nil, util.ErrInvalidSessionType
	}

	s.userMu.Lock(userID)
	defer s.userMu.Unlock(userID)

	actives, err := s.sessions.FindActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range actives {
		if err := s.supersede(ctx, actives[i].ID, userID); err != nil {
			return nil, err
		}
	}

	session := &model.StudySession{
		UserID:        userID,
		DocumentID:    req.DocumentID,
		TopicID:       req.TopicID,
		SessionType:   sessionType,
		StartTime:     s.now(),
		PlannedCycles: req.PlannedCycles,
		IsActive:      true,
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}

	monitoring.SessionsStarted.Inc()
	monitoring.ActiveSessions.Inc()
	s.cacheActiveSession(ctx, session)
	return session, nil
}

// supersede 强制结束一个残留的活跃会话。会话锁内重新加载再结算：
// 并发的用户 End 可能已经抢先结束了它，此时跳过，结算级联不能跑两次。
func (s *SessionService) supersede(ctx context.Context, sessionID, userID string) error {
	s.sessionMu.Lock(sessionID)
	defer s.sessionMu.Unlock(sessionID)

	session, err := s.sessions.FindByIDAndUserID(sessionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if !session.IsActive {
		return nil
	}

	if err := s.finalize(ctx, session, nil, "", "superseded"); err != nil {
		return err
	}
	logger.Log.Info("superseded active session on new start",
		zap.String("user_id", userID), zap.String("session_id", session.ID))
	return nil
}

// Pause 暂停会话
func (s *SessionService) Pause(ctx context.Context, sessionID, userID, reason string) (*model.StudySession, error) {
	s.sessionMu.Lock(sessionID)
	defer s.sessionMu.Unlock(sessionID)

	session, err := s.loadOwned(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := session.Pause(s.now(), reason); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(session); err != nil {
		return nil, err
	}
	s.cacheActiveSession(ctx, session)
	return session, nil
}

// Resume 恢复会话
func (s *SessionService) Resume(ctx context.Context, sessionID, userID string) (*model.StudySession, error) {
	s.sessionMu.Lock(sessionID)
	defer s.sessionMu.Unlock(sessionID)

	session, err := s.loadOwned(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := session.Resume(s.now()); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(session); err != nil {
		return nil, err
	}
	s.cacheActiveSession(ctx, session)
	return session, nil
}

// UpdateActivity 合并客户端上报的活动计数并刷新时间指标
func (s *SessionService) UpdateActivity(ctx context.Context, sessionID, userID string, update model.SessionActivityUpdate) (*model.StudySession, error) {
	s.sessionMu.Lock(sessionID)
	defer s.sessionMu.Unlock(sessionID)

	session, err := s.loadOwned(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := session.ApplyActivity(update, s.now()); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(session); err != nil {
		return nil, err
	}
	s.cacheActiveSession(ctx, session)
	return session, nil
}

// End 结束会话并执行结算级联
func (s *SessionService) End(ctx context.Context, sessionID, userID string, req EndSessionRequest) (*model.StudySession, error) {
	s.sessionMu.Lock(sessionID)
	defer s.sessionMu.Unlock(sessionID)

	session, err := s.loadOwned(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if req.SessionRating != nil && (*req.SessionRating < 1 || *req.SessionRating > 5) {
		return nil, util.ErrInvalidRating
	}
	if err := s.finalize(ctx, session, req.SessionRating, req.Notes, "user"); err != nil {
		return nil, err
	}
	return session, nil
}

// GetActive 查询用户当前的活跃会话，不存在时返回 nil。
// 先查 Redis 缓存，未命中回源数据库。
func (s *SessionService) GetActive(ctx context.Context, userID string) (*model.StudySession, error) {
	if cached := s.cachedActiveSession(ctx, userID); cached != nil {
		return cached, nil
	}

	actives, err := s.sessions.FindActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(actives) == 0 {
		return nil, nil
	}
	session := &actives[0]
	s.cacheActiveSession(ctx, session)
	return session, nil
}

// History 查询最近的已结束会话
func (s *SessionService) History(userID string, limit, days int) ([]model.StudySession, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if days <= 0 {
		days = 30
	}
	return s.sessions.History(userID, limit, s.now().AddDate(0, 0, -days))
}

// EndStaleSessions 强制结束长时间无更新的活跃会话，由后台定时任务调用。
func (s *SessionService) EndStaleSessions(ctx context.Context) {
	cutoff := s.now().Add(-time.Duration(s.cfg.Session.StaleAfterMinutes) * time.Minute)
	stale, err := s.sessions.FindStale(cutoff)
	if err != nil {
		logger.Log.Error("stale session scan failed", zap.Error(err))
		return
	}
	for i := range stale {
		s.sessionMu.Lock(stale[i].ID)
		// 扫描和加锁之间会话可能已被正常结束，锁内重新加载确认
		session, err := s.sessions.FindByIDAndUserID(stale[i].ID, stale[i].UserID)
		if err != nil || !session.IsActive {
			s.sessionMu.Unlock(stale[i].ID)
			continue
		}
		if err := s.finalize(ctx, session, nil, "", "stale"); err != nil {
			logger.Log.Error("failed to end stale session",
				zap.String("session_id", session.ID), zap.Error(err))
		} else {
			logger.Log.Info("ended stale session",
				zap.String("session_id", session.ID), zap.String("user_id", session.UserID))
		}
		s.sessionMu.Unlock(stale[i].ID)
	}
}

func (s *SessionService) loadOwned(sessionID, userID string) (*model.StudySession, error) {
	session, err := s.sessions.FindByIDAndUserID(sessionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// finalize 结束会话的结算级联，整体在一个事务内：
// 状态机结算 → 关闭未关闭的页面计时 → 会话理解度 → 速度采样 →
// 文档/主题累计时长回写 → 当日统计滚动更新。
func (s *SessionService) finalize(ctx context.Context, session *model.StudySession, rating *int, notes, reason string) error {
	now := s.now()

	if err := session.End(now, rating, notes); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// 关闭遗留的页面计时
		open, err := s.pageTimes.FindOpenBySession(session.ID)
		if err != nil {
			return err
		}
		if open != nil {
			open.Close(now)
			if err := tx.Save(open).Error; err != nil {
				return err
			}
		}

		// 会话理解度取各页面理解度估计的均值
		closed, err := s.pageTimes.ListClosedBySession(session.ID)
		if err != nil {
			return err
		}
		if len(closed) > 0 {
			var sum float64
			for _, pt := range closed {
				sum += pt.ComprehensionEstimate
			}
			session.ComprehensionScore = scoring.Round2(sum / float64(len(closed)))
		}

		if err := tx.Save(session).Error; err != nil {
			return err
		}

		if err := s.recordSpeedSample(tx, session); err != nil {
			return err
		}

		// 文档累计阅读时长与浏览记录
		var doc model.Document
		if err := tx.Where("id = ?", session.DocumentID).First(&doc).Error; err == nil {
			doc.ActualReadTime += session.ActiveMinutes
			doc.ViewCount++
			doc.LastViewedAt = &now
			if err := s.documents.Save(tx, &doc); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if session.TopicID != "" {
			topic, err := s.topics.FindByID(tx, session.TopicID)
			if err != nil {
				return err
			}
			if topic != nil {
				topic.TotalStudyTime += session.ActiveMinutes
				topic.LastStudiedAt = &now
				if err := s.topics.Save(tx, topic); err != nil {
					return err
				}
			}
		}

		// 当日统计
		stat, err := s.stats.FindOrCreateDaily(tx, session.UserID, session.StartTime)
		if err != nil {
			return err
		}
		stat.Fold(session)
		return s.stats.Save(tx, stat)
	})
	if err != nil {
		return err
	}

	monitoring.SessionsEnded.WithLabelValues(reason).Inc()
	monitoring.ActiveSessions.Dec()
	s.dropActiveSessionCache(ctx, session.UserID)
	return nil
}

// recordSpeedSample 从会话派生阅读速度采样。
// 每页词数来自配置的粗粒度估计，字符数按每词 5 字符折算。
func (s *SessionService) recordSpeedSample(tx *gorm.DB, session *model.StudySession) error {
	difficulty := 3
	var doc model.Document
	if err := tx.Where("id = ?", session.DocumentID).First(&doc).Error; err == nil {
		difficulty = doc.DifficultyRating
	}

	sample := model.DeriveReadingSpeed(session, s.cfg.Session.WordsPerPage, difficulty)
	if sample == nil {
		return nil
	}
	return tx.Create(sample).Error
}

func (s *SessionService) cacheActiveSession(ctx context.Context, session *model.StudySession) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, activeSessionCachePrefix+session.UserID, data, activeSessionCacheTTL).Err(); err != nil {
		logger.Log.Warn("active session cache write failed", zap.Error(err))
	}
}

func (s *SessionService) cachedActiveSession(ctx context.Context, userID string) *model.StudySession {
	if s.rdb == nil {
		return nil
	}
	data, err := s.rdb.Get(ctx, activeSessionCachePrefix+userID).Bytes()
	if err != nil {
		return nil
	}
	var session model.StudySession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil
	}
	if !session.IsActive {
		return nil
	}
	return &session
}

func (s *SessionService) dropActiveSessionCache(ctx context.Context, userID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, activeSessionCachePrefix+userID).Err(); err != nil {
		logger.Log.Warn("active session cache drop failed", zap.Error(err))
	}
}
