package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	acsModel "checkride_backend/internals/features/acs/templates/model"
	ledgerModel "checkride_backend/internals/features/evaluation/ledger/model"
	"checkride_backend/internals/helpers/errs"
)

// Store is the storage surface the merge engine needs. Injectable so tests
// run against an in-memory fake.
type Store interface {
	TemplateExists(ctx context.Context, templateID uuid.UUID) (bool, error)
	AreasByTemplate(ctx context.Context, templateID uuid.UUID) ([]acsModel.AreaModel, error)
	TasksByAreas(ctx context.Context, areaIDs []uuid.UUID) ([]acsModel.TaskModel, error)
	ElementsByTasks(ctx context.Context, taskIDs []uuid.UUID) ([]acsModel.ElementModel, error)

	// SessionElements returns ledger rows for one session keyed by element id.
	// The session filter is applied in the query, not after, so rows from
	// other sessions can never leak into a merge.
	SessionElements(ctx context.Context, sessionID uuid.UUID, elementIDs []uuid.UUID) (map[uuid.UUID]ledgerModel.SessionElementModel, error)

	// BulkInsertSessionElements inserts default rows, skipping conflicts on
	// (session_id, element_id) so prepopulation is idempotent.
	BulkInsertSessionElements(ctx context.Context, rows []ledgerModel.SessionElementModel) error
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm handle in the Store interface.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) TemplateExists(ctx context.Context, templateID uuid.UUID) (bool, error) {
	var tpl acsModel.TemplateModel
	err := s.db.WithContext(ctx).
		Select("template_id").
		First(&tpl, "template_id = ?", templateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *gormStore) AreasByTemplate(ctx context.Context, templateID uuid.UUID) ([]acsModel.AreaModel, error) {
	var areas []acsModel.AreaModel
	err := s.db.WithContext(ctx).
		Where("area_template_id = ?", templateID).
		Order("area_order_number ASC").
		Find(&areas).Error
	return areas, err
}

func (s *gormStore) TasksByAreas(ctx context.Context, areaIDs []uuid.UUID) ([]acsModel.TaskModel, error) {
	if len(areaIDs) == 0 {
		return nil, nil
	}
	var tasks []acsModel.TaskModel
	err := s.db.WithContext(ctx).
		Where("task_area_id IN ?", areaIDs).
		Order("task_order_letter ASC").
		Find(&tasks).Error
	return tasks, err
}

func (s *gormStore) ElementsByTasks(ctx context.Context, taskIDs []uuid.UUID) ([]acsModel.ElementModel, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	var elements []acsModel.ElementModel
	err := s.db.WithContext(ctx).
		Where("element_task_id IN ?", taskIDs).
		Order("element_code ASC").
		Find(&elements).Error
	return elements, err
}

func (s *gormStore) SessionElements(ctx context.Context, sessionID uuid.UUID, elementIDs []uuid.UUID) (map[uuid.UUID]ledgerModel.SessionElementModel, error) {
	q := s.db.WithContext(ctx).
		Where("session_element_session_id = ?", sessionID)
	if len(elementIDs) > 0 {
		q = q.Where("session_element_element_id IN ?", elementIDs)
	}
	var rows []ledgerModel.SessionElementModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]ledgerModel.SessionElementModel, len(rows))
	for _, r := range rows {
		out[r.SessionElementElementID] = r
	}
	return out, nil
}

func (s *gormStore) BulkInsertSessionElements(ctx context.Context, rows []ledgerModel.SessionElementModel) error {
	if len(rows) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_element_session_id"}, {Name: "session_element_element_id"}},
			DoNothing: true,
		}).
		Create(&rows).Error
	if err != nil {
		return &errs.PersistenceError{Op: "bulk insert session elements", Cause: err}
	}
	return nil
}
