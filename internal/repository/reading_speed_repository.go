package repository

import (
	"time"

	"studysprint_backend/internal/model"

	"gorm.io/gorm"
)

type ReadingSpeedRepository struct {
	DB *gorm.DB
}

func NewReadingSpeedRepository(db *gorm.DB) *ReadingSpeedRepository {
	return &ReadingSpeedRepository{DB: db}
}

func (r *ReadingSpeedRepository) FindInRange(userID string, start, end time.Time) ([]model.ReadingSpeed, error) {
	var samples []model.ReadingSpeed
	err := r.DB.Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Order("created_at asc").Find(&samples).Error
	if err != nil {
		return nil, err
	}
	return samples, nil
}

// FindByUserAndDocument 估算完成时间时优先使用针对当前文档的样本
func (r *ReadingSpeedRepository) FindByUserAndDocument(userID, documentID string, limit int) ([]model.ReadingSpeed, error) {
	var samples []model.ReadingSpeed
	err := r.DB.Where("user_id = ? AND document_id = ?", userID, documentID).
		Order("created_at desc").Limit(limit).Find(&samples).Error
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (r *ReadingSpeedRepository) FindRecentByUser(userID string, limit int) ([]model.ReadingSpeed, error) {
	var samples []model.ReadingSpeed
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at desc").Limit(limit).Find(&samples).Error
	if err != nil {
		return nil, err
	}
	return samples, nil
}
