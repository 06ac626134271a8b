package repository

import (
	"studysprint_backend/internal/model"

	"gorm.io/gorm"
)

type PomodoroRepository struct {
	DB *gorm.DB
}

func NewPomodoroRepository(db *gorm.DB) *PomodoroRepository {
	return &PomodoroRepository{DB: db}
}

func (r *PomodoroRepository) Create(cycle *model.PomodoroCycle) error {
	return r.DB.Create(cycle).Error
}

func (r *PomodoroRepository) Save(cycle *model.PomodoroCycle) error {
	return r.DB.Save(cycle).Error
}

// FindByIDAndUser 通过会话归属校验查询番茄周期
func (r *PomodoroRepository) FindByIDAndUser(cycleID, userID string) (*model.PomodoroCycle, error) {
	var cycle model.PomodoroCycle
	err := r.DB.Joins("JOIN study_sessions ON study_sessions.id = pomodoro_cycles.session_id").
		Where("pomodoro_cycles.id = ? AND study_sessions.user_id = ?", cycleID, userID).
		First(&cycle).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *PomodoroRepository) ListBySession(sessionID string) ([]model.PomodoroCycle, error) {
	var cycles []model.PomodoroCycle
	err := r.DB.Where("session_id = ?", sessionID).Order("cycle_number asc").Find(&cycles).Error
	if err != nil {
		return nil, err
	}
	return cycles, nil
}
