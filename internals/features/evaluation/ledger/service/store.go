package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"checkride_backend/internals/features/evaluation/ledger/model"
	"checkride_backend/internals/helpers/errs"
)

// Store is the write surface of the ledger. The conflict key is always
// (session_id, element_id); referential failures bubble up from the database
// rather than being pre-checked here.
type Store interface {
	UpsertEvaluation(ctx context.Context, row model.SessionElementModel) (model.SessionElementModel, error)
	UpsertScore(ctx context.Context, row model.SessionElementModel) (model.SessionElementModel, error)
	SetA2Deficiencies(ctx context.Context, sessionID uuid.UUID, elementIDs []uuid.UUID) error
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

var conflictKey = []clause.Column{
	{Name: "session_element_session_id"},
	{Name: "session_element_element_id"},
}

func (s *gormStore) UpsertEvaluation(ctx context.Context, row model.SessionElementModel) (model.SessionElementModel, error) {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: conflictKey,
			DoUpdates: clause.Assignments(map[string]interface{}{
				"session_element_performance_status":   row.SessionElementPerformanceStatus,
				"session_element_instructor_comment":   row.SessionElementInstructorComment,
				"session_element_instructor_mentioned": row.SessionElementInstructorMentioned,
				"session_element_student_mentioned":    row.SessionElementStudentMentioned,
				"session_element_needs_review":         row.SessionElementNeedsReview,
				// status-based path clears any rubric score
				"session_element_score": nil,
				// explicit assignments bypass gorm's autoUpdateTime on conflict
				"session_element_updated_at": gorm.Expr("now()"),
			}),
		}).
		Create(&row).Error
	if err != nil {
		return model.SessionElementModel{}, &errs.PersistenceError{Op: "upsert evaluation", Cause: err}
	}
	return s.reload(ctx, row.SessionElementSessionID, row.SessionElementElementID)
}

func (s *gormStore) UpsertScore(ctx context.Context, row model.SessionElementModel) (model.SessionElementModel, error) {
	assignments := map[string]interface{}{
		"session_element_score":      row.SessionElementScore,
		"session_element_updated_at": gorm.Expr("now()"),
	}
	if row.SessionElementInstructorComment != "" {
		assignments["session_element_instructor_comment"] = row.SessionElementInstructorComment
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   conflictKey,
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(&row).Error
	if err != nil {
		return model.SessionElementModel{}, &errs.PersistenceError{Op: "upsert score", Cause: err}
	}
	return s.reload(ctx, row.SessionElementSessionID, row.SessionElementElementID)
}

func (s *gormStore) SetA2Deficiencies(ctx context.Context, sessionID uuid.UUID, elementIDs []uuid.UUID) error {
	if len(elementIDs) == 0 {
		return nil
	}
	rows := make([]model.SessionElementModel, 0, len(elementIDs))
	for _, id := range elementIDs {
		rows = append(rows, model.SessionElementModel{
			SessionElementSessionID:         sessionID,
			SessionElementElementID:         id,
			SessionElementPerformanceStatus: model.PerformanceNotObserved,
			SessionElementA2Deficiency:      true,
		})
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: conflictKey,
			DoUpdates: clause.Assignments(map[string]interface{}{
				"session_element_a2_deficiency": true,
				"session_element_updated_at":    gorm.Expr("now()"),
			}),
		}).
		Create(&rows).Error
	if err != nil {
		return &errs.PersistenceError{Op: "set a2 deficiencies", Cause: err}
	}
	return nil
}

func (s *gormStore) reload(ctx context.Context, sessionID, elementID uuid.UUID) (model.SessionElementModel, error) {
	var row model.SessionElementModel
	err := s.db.WithContext(ctx).
		First(&row, "session_element_session_id = ? AND session_element_element_id = ?", sessionID, elementID).Error
	if err != nil {
		return model.SessionElementModel{}, &errs.PersistenceError{Op: "reload session element", Cause: err}
	}
	return row, nil
}
