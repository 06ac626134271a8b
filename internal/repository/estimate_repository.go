package repository

import (
	"time"

	"studysprint_backend/internal/model"

	"gorm.io/gorm"
)

type EstimateRepository struct {
	DB *gorm.DB
}

func NewEstimateRepository(db *gorm.DB) *EstimateRepository {
	return &EstimateRepository{DB: db}
}

func (r *EstimateRepository) Save(estimate *model.TimeEstimate) error {
	return r.DB.Save(estimate).Error
}

func (r *EstimateRepository) FindByIDAndUser(estimateID, userID string) (*model.TimeEstimate, error) {
	var estimate model.TimeEstimate
	err := r.DB.Where("id = ? AND user_id = ?", estimateID, userID).First(&estimate).Error
	if err != nil {
		return nil, err
	}
	return &estimate, nil
}

// ListActive 返回未过期且仍然有效的估算记录
func (r *EstimateRepository) ListActive(userID string, now time.Time) ([]model.TimeEstimate, error) {
	var estimates []model.TimeEstimate
	err := r.DB.Where("user_id = ? AND is_active = ? AND valid_until > ?", userID, true, now).
		Order("created_at desc").Find(&estimates).Error
	if err != nil {
		return nil, err
	}
	return estimates, nil
}

// FindScored 已回填准确度的预测记录，按创建时间升序
func (r *EstimateRepository) FindScored(userID string) ([]model.TimeEstimate, error) {
	var estimates []model.TimeEstimate
	err := r.DB.Where("user_id = ? AND accuracy_score IS NOT NULL", userID).
		Order("created_at asc").Find(&estimates).Error
	if err != nil {
		return nil, err
	}
	return estimates, nil
}

// DeactivateForDocument 同一文档创建新估算前先使旧记录失效
func (r *EstimateRepository) DeactivateForDocument(tx *gorm.DB, userID, documentID string, estimateType model.EstimateType) error {
	return tx.Model(&model.TimeEstimate{}).
		Where("user_id = ? AND document_id = ? AND estimate_type = ? AND is_active = ?", userID, documentID, estimateType, true).
		Update("is_active", false).Error
}
