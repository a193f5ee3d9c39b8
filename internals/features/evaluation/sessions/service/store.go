package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"checkride_backend/internals/features/evaluation/sessions/model"
	"checkride_backend/internals/helpers/errs"
)

// Store is the session-record surface of the lifecycle manager.
type Store interface {
	CreateSession(ctx context.Context, m *model.SessionModel) error
	GetSession(ctx context.Context, id uuid.UUID) (model.SessionModel, error)
	UpdateSession(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	ListSessionsByInstructor(ctx context.Context, instructorID uuid.UUID, offset, limit int) ([]model.SessionModel, int64, error)

	UpsertTaskFeedback(ctx context.Context, row model.TaskFeedbackModel) (model.TaskFeedbackModel, error)
	FeedbackTags(ctx context.Context, sessionID uuid.UUID) ([]string, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) CreateSession(ctx context.Context, m *model.SessionModel) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return &errs.PersistenceError{Op: "create session", Cause: err}
	}
	return nil
}

func (s *gormStore) GetSession(ctx context.Context, id uuid.UUID) (model.SessionModel, error) {
	var m model.SessionModel
	err := s.db.WithContext(ctx).First(&m, "session_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.SessionModel{}, errs.NotFound("session")
	}
	if err != nil {
		return model.SessionModel{}, err
	}
	return m, nil
}

func (s *gormStore) UpdateSession(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).
		Model(&model.SessionModel{}).
		Where("session_id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return &errs.PersistenceError{Op: "update session", Cause: res.Error}
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("session")
	}
	return nil
}

func (s *gormStore) ListSessionsByInstructor(ctx context.Context, instructorID uuid.UUID, offset, limit int) ([]model.SessionModel, int64, error) {
	var total int64
	base := s.db.WithContext(ctx).
		Model(&model.SessionModel{}).
		Where("session_instructor_id = ?", instructorID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []model.SessionModel
	err := base.
		Order("session_date_started DESC").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, total, err
}

func (s *gormStore) UpsertTaskFeedback(ctx context.Context, row model.TaskFeedbackModel) (model.TaskFeedbackModel, error) {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "task_feedback_session_id"},
				{Name: "task_feedback_task_id"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"task_feedback_tag":  row.TaskFeedbackTag,
				"task_feedback_note": row.TaskFeedbackNote,
				// explicit assignments bypass gorm's autoUpdateTime on conflict
				"task_feedback_updated_at": gorm.Expr("now()"),
			}),
		}).
		Create(&row).Error
	if err != nil {
		return model.TaskFeedbackModel{}, &errs.PersistenceError{Op: "upsert task feedback", Cause: err}
	}
	var saved model.TaskFeedbackModel
	err = s.db.WithContext(ctx).
		First(&saved, "task_feedback_session_id = ? AND task_feedback_task_id = ?",
			row.TaskFeedbackSessionID, row.TaskFeedbackTaskID).Error
	if err != nil {
		return model.TaskFeedbackModel{}, &errs.PersistenceError{Op: "reload task feedback", Cause: err}
	}
	return saved, nil
}

func (s *gormStore) FeedbackTags(ctx context.Context, sessionID uuid.UUID) ([]string, error) {
	var tags []string
	err := s.db.WithContext(ctx).
		Model(&model.TaskFeedbackModel{}).
		Where("task_feedback_session_id = ?", sessionID).
		Pluck("task_feedback_tag", &tags).Error
	return tags, err
}
