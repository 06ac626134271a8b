package repository

import (
	"time"

	"studysprint_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.StudySession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) Save(session *model.StudySession) error {
	return r.DB.Save(session).Error
}

func (r *SessionRepository) FindByIDAndUserID(sessionID, userID string) (*model.StudySession, error) {
	var session model.StudySession
	err := r.DB.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// FindActiveByUser 返回用户当前所有活跃会话。
// 正常情况下最多一条，但 Start 的强制结束逻辑要能收拾残留。
func (r *SessionRepository) FindActiveByUser(userID string) ([]model.StudySession, error) {
	var sessions []model.StudySession
	err := r.DB.Where("user_id = ? AND is_active = ?", userID, true).Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// History 从 since 起的会话历史，按开始时间倒序
func (r *SessionRepository) History(userID string, limit int, since time.Time) ([]model.StudySession, error) {
	var sessions []model.StudySession
	err := r.DB.Where("user_id = ? AND start_time >= ?", userID, since).
		Order("start_time desc").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// FindInRange 按时间窗口和可选的文档/主题过滤查询会话
func (r *SessionRepository) FindInRange(userID string, start, end time.Time, documentIDs, topicIDs []string) ([]model.StudySession, error) {
	query := r.DB.Where("user_id = ? AND start_time >= ? AND start_time <= ?", userID, start, end)

	if len(documentIDs) > 0 {
		query = query.Where("document_id IN ?", documentIDs)
	}
	if len(topicIDs) > 0 {
		query = query.Where("topic_id IN ?", topicIDs)
	}

	var sessions []model.StudySession
	err := query.Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) CountByDocument(userID, documentID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.StudySession{}).
		Where("user_id = ? AND document_id = ?", userID, documentID).
		Count(&count).Error
	return count, err
}

// FindStale 查询更新时间早于 cutoff 的活跃会话，供后台清理
func (r *SessionRepository) FindStale(cutoff time.Time) ([]model.StudySession, error) {
	var sessions []model.StudySession
	err := r.DB.Where("is_active = ? AND updated_at < ?", true, cutoff).Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
