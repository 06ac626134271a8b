package repository

import (
	"studysprint_backend/internal/model"

	"gorm.io/gorm"
)

type PageTimeRepository struct {
	DB *gorm.DB
}

func NewPageTimeRepository(db *gorm.DB) *PageTimeRepository {
	return &PageTimeRepository{DB: db}
}

func (r *PageTimeRepository) Create(pt *model.PageTime) error {
	return r.DB.Create(pt).Error
}

func (r *PageTimeRepository) Save(pt *model.PageTime) error {
	return r.DB.Save(pt).Error
}

// FindOpenBySession 返回会话当前未关闭的页面计时，没有则返回 nil
func (r *PageTimeRepository) FindOpenBySession(sessionID string) (*model.PageTime, error) {
	var pt model.PageTime
	err := r.DB.Where("session_id = ? AND end_time IS NULL", sessionID).First(&pt).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &pt, nil
}

// FindOpenByIDAndUser 通过会话归属校验查询未关闭的页面计时
func (r *PageTimeRepository) FindOpenByIDAndUser(pageTimeID, userID string) (*model.PageTime, error) {
	var pt model.PageTime
	err := r.DB.Joins("JOIN study_sessions ON study_sessions.id = page_times.session_id").
		Where("page_times.id = ? AND page_times.end_time IS NULL AND study_sessions.user_id = ?", pageTimeID, userID).
		First(&pt).Error
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

// ListClosedBySession 会话内已关闭的页面计时，按页码顺序
func (r *PageTimeRepository) ListClosedBySession(sessionID string) ([]model.PageTime, error) {
	var pts []model.PageTime
	err := r.DB.Where("session_id = ? AND end_time IS NOT NULL", sessionID).
		Order("page_number asc").
		Find(&pts).Error
	if err != nil {
		return nil, err
	}
	return pts, nil
}
