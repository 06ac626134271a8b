package repository

import (
	"errors"

	"studysprint_backend/internal/model"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) FindByIDAndUser(documentID, userID string) (*model.Document, error) {
	var doc model.Document
	err := r.DB.Where("id = ? AND user_id = ?", documentID, userID).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) Save(tx *gorm.DB, doc *model.Document) error {
	return tx.Save(doc).Error
}

// FindDifficulties 批量查询文档难度，用于按难度聚合分析
func (r *DocumentRepository) FindDifficulties(documentIDs []string) (map[string]int, error) {
	if len(documentIDs) == 0 {
		return map[string]int{}, nil
	}
	type row struct {
		ID               string
		DifficultyRating int
	}
	var rows []row
	err := r.DB.Model(&model.Document{}).
		Select("id", "difficulty_rating").
		Where("id IN ?", documentIDs).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, v := range rows {
		out[v.ID] = v.DifficultyRating
	}
	return out, nil
}

type TopicRepository struct {
	DB *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: db}
}

func (r *TopicRepository) FindByID(tx *gorm.DB, topicID string) (*model.Topic, error) {
	var topic model.Topic
	err := tx.Where("id = ?", topicID).First(&topic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *TopicRepository) Save(tx *gorm.DB, topic *model.Topic) error {
	return tx.Save(topic).Error
}
