package repository

import (
	"errors"
	"time"

	"studysprint_backend/internal/model"

	"gorm.io/gorm"
)

type StatisticRepository struct {
	DB *gorm.DB
}

func NewStatisticRepository(db *gorm.DB) *StatisticRepository {
	return &StatisticRepository{DB: db}
}

// FindOrCreateDaily 获取当天的统计行，不存在时初始化
func (r *StatisticRepository) FindOrCreateDaily(tx *gorm.DB, userID string, day time.Time) (*model.UserStatistic, error) {
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	var stat model.UserStatistic
	err := tx.Where("user_id = ? AND stat_type = ? AND stat_date = ?", userID, "daily", date).First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stat = model.UserStatistic{UserID: userID, StatType: "daily", StatDate: date}
		if err := tx.Create(&stat).Error; err != nil {
			return nil, err
		}
		return &stat, nil
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

func (r *StatisticRepository) Save(tx *gorm.DB, stat *model.UserStatistic) error {
	return tx.Save(stat).Error
}

// ListByType 按统计类型查询最近的统计行，按日期倒序
func (r *StatisticRepository) ListByType(userID, statType string, limit int) ([]model.UserStatistic, error) {
	var stats []model.UserStatistic
	err := r.DB.Where("user_id = ? AND stat_type = ?", userID, statType).
		Order("stat_date desc").
		Limit(limit).
		Find(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
