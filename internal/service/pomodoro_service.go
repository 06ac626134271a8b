package service

import (
	"errors"
	"time"

	"studysprint_backend/internal/model"
	"studysprint_backend/internal/repository"
	"studysprint_backend/internal/util"

	"gorm.io/gorm"
)

// StartCycleRequest 开始番茄周期的请求体
type StartCycleRequest struct {
	SessionID      string `json:"sessionId" binding:"required"`
	CycleNumber    int    `json:"cycleNumber"`
	CycleType      string `json:"cycleType"`
	PlannedMinutes int    `json:"plannedMinutes"`
}

// CompleteCycleRequest 完成番茄周期的请求体
type CompleteCycleRequest struct {
	EffectivenessRating *int `json:"effectivenessRating"`
	Interruptions       int  `json:"interruptions"`
}

// PomodoroService 番茄周期服务。
// 同一会话允许多个未完成周期并存（比如补录被跳过的周期），
// 周期完成时把计数、XP 和休息时长折算进所属会话。
// sessionMu 是跨服务共享的会话锁。
type PomodoroService struct {
	sessions  *repository.SessionRepository
	pomodoros *repository.PomodoroRepository

	db        *gorm.DB
	sessionMu *util.KeyedMutex
	now       func() time.Time
}

func NewPomodoroService(db *gorm.DB, sessionMu *util.KeyedMutex) *PomodoroService {
	return &PomodoroService{
		sessions:  repository.NewSessionRepository(db),
		pomodoros: repository.NewPomodoroRepository(db),
		db:        db,
		sessionMu: sessionMu,
		now:       time.Now,
	}
}

// Start 在会话内开始一个工作或休息周期
func (s *PomodoroService) Start(userID string, req StartCycleRequest) (*model.PomodoroCycle, error) {
	sessionID := req.SessionID
	cycleType := model.CycleType(req.CycleType)
	switch cycleType {
	case model.CycleWork, model.CycleShortBreak, model.CycleLongBreak:
	case "":
		cycleType = model.CycleWork
	default:
		return nil, util.ErrInvalidCycleType
	}

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

	planned := req.PlannedMinutes
	if planned <= 0 {
		if cycleType == model.CycleWork {
			planned = 25
		} else {
			planned = 5
		}
	}
	cycleNumber := req.CycleNumber
	if cycleNumber <= 0 {
		cycleNumber = session.PomodoroCycles + 1
	}

	cycle := &model.PomodoroCycle{
		SessionID:      sessionID,
		CycleNumber:    cycleNumber,
		CycleType:      cycleType,
		PlannedMinutes: planned,
		StartedAt:      s.now(),
	}
	if err := s.pomodoros.Create(cycle); err != nil {
		return nil, err
	}
	return cycle, nil
}

// Complete 完成周期并把结果折算进所属会话。
// 会话是 XP 累计的唯一写入方，周期只产出增量。
// 所属会话已结束时拒绝补录：结束后的会话是终态，
// 迟到的周期完成不能再改它的计数和 XP。
func (s *PomodoroService) Complete(cycleID, userID string, req CompleteCycleRequest) (*model.PomodoroCycle, error) {
	cycle, err := s.pomodoros.FindByIDAndUser(cycleID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCycleNotFound
		}
		return nil, err
	}
	if cycle.Completed {
		return nil, util.ErrCycleCompleted
	}
	if req.EffectivenessRating != nil && (*req.EffectivenessRating < 1 || *req.EffectivenessRating > 5) {
		return nil, util.ErrInvalidRating
	}

	s.sessionMu.Lock(cycle.SessionID)
	defer s.sessionMu.Unlock(cycle.SessionID)

	cycle.Complete(s.now(), req.EffectivenessRating, req.Interruptions)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var session model.StudySession
		if err := tx.Where("id = ?", cycle.SessionID).First(&session).Error; err != nil {
			return err
		}
		if !session.IsActive {
			return util.ErrSessionNotActive
		}

		if err := tx.Save(cycle).Error; err != nil {
			return err
		}
		session.PomodoroCycles++
		session.XPEarned += cycle.XPEarned
		if !cycle.IsWork() {
			session.BreakMinutes += cycle.ActualMinutes
		}
		return tx.Save(&session).Error
	})
	if err != nil {
		return nil, err
	}
	return cycle, nil
}

// ListBySession 查询会话内的全部周期
func (s *PomodoroService) ListBySession(sessionID, userID string) ([]model.PomodoroCycle, error) {
	if _, err := s.sessions.FindByIDAndUserID(sessionID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	return s.pomodoros.ListBySession(sessionID)
}
