package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	hierarchyService "checkride_backend/internals/features/acs/hierarchy/service"
	ledgerService "checkride_backend/internals/features/evaluation/ledger/service"
	progressDTO "checkride_backend/internals/features/evaluation/progress/dto"
	progressService "checkride_backend/internals/features/evaluation/progress/service"
	"checkride_backend/internals/features/evaluation/sessions/dto"
	"checkride_backend/internals/features/evaluation/sessions/model"
	"checkride_backend/internals/helpers/errs"
)

// ErrAlreadyCompleted: completing a completed session is a conflict, not a
// silent overwrite of the snapshot.
var ErrAlreadyCompleted = errors.New("session already completed")

// LifecycleService creates sessions, seeds their ledgers and closes them out
// with a report snapshot.
type LifecycleService struct {
	store     Store
	hierarchy *hierarchyService.HierarchyService
	ledger    *ledgerService.EvaluationService
}

func NewLifecycleService(store Store, h *hierarchyService.HierarchyService, l *ledgerService.EvaluationService) *LifecycleService {
	return &LifecycleService{store: store, hierarchy: h, ledger: l}
}

// CreateSession creates the session row, then prepopulates the ledger. The
// pair is effectively atomic from the caller's side: if prepopulation fails
// after the row exists, the session stays usable (missing ledger rows read
// as not-observed) and the instructor gets a warning instead of a failure.
func (s *LifecycleService) CreateSession(ctx context.Context, instructorID uuid.UUID, req dto.CreateSessionRequest) (model.SessionModel, *string, error) {
	m := model.SessionModel{
		SessionInstructorID: instructorID,
		SessionStudentID:    req.StudentID,
		SessionTemplateID:   req.TemplateID,
		SessionScenarioID:   req.ScenarioID,
		SessionName:         req.SessionName,
		SessionNotes:        req.Notes,
		SessionDateStarted:  time.Now().UTC(),
	}
	if err := s.store.CreateSession(ctx, &m); err != nil {
		return model.SessionModel{}, nil, err
	}

	var warning *string
	if err := s.hierarchy.PrepopulateSessionElements(ctx, m.SessionID, req.TemplateID); err != nil {
		log.Printf("[WARN] prepopulation failed for session %s: %v", m.SessionID, err)
		w := "Session created, but the element ledger could not be pre-filled. Scoring still works; re-open the session to retry."
		warning = &w
	}

	if len(req.A2ElementIDs) > 0 {
		ids, err := s.templateElementSet(ctx, req.TemplateID, req.A2ElementIDs)
		if err == nil && len(ids) > 0 {
			err = s.ledger.SetA2Deficiencies(ctx, m.SessionID, ids)
		}
		if err != nil {
			log.Printf("[WARN] a2 deficiency flagging failed for session %s: %v", m.SessionID, err)
			w := "Session created, but written-test deficiency flags could not all be applied."
			warning = &w
		}
	}

	return m, warning, nil
}

// GetSession returns one session record.
func (s *LifecycleService) GetSession(ctx context.Context, id uuid.UUID) (model.SessionModel, error) {
	return s.store.GetSession(ctx, id)
}

// ListSessions pages through an instructor's sessions, newest first.
func (s *LifecycleService) ListSessions(ctx context.Context, instructorID uuid.UUID, offset, limit int) ([]model.SessionModel, int64, error) {
	return s.store.ListSessionsByInstructor(ctx, instructorID, offset, limit)
}

// UpdateSession patches the mutable fields (name, notes, scenario).
func (s *LifecycleService) UpdateSession(ctx context.Context, id uuid.UUID, req dto.PatchSessionRequest) (model.SessionModel, error) {
	fields := map[string]interface{}{}
	if req.SessionName != nil {
		fields["session_name"] = *req.SessionName
	}
	if req.Notes != nil {
		fields["session_notes"] = *req.Notes
	}
	if req.ScenarioID != nil {
		fields["session_scenario_id"] = *req.ScenarioID
	}
	if len(fields) > 0 {
		if err := s.store.UpdateSession(ctx, id, fields); err != nil {
			return model.SessionModel{}, err
		}
	}
	return s.store.GetSession(ctx, id)
}

// reportSnapshot is what the excluded report layer reads off the session row.
type reportSnapshot struct {
	Progress    progressDTO.Progress  `json:"progress"`
	Readiness   progressDTO.Readiness `json:"readiness"`
	CompletedAt time.Time             `json:"completed_at"`
}

// CompleteSession sets date_completed and persists the aggregated progress +
// readiness snapshot. A second completion is rejected with
// ErrAlreadyCompleted.
func (s *LifecycleService) CompleteSession(ctx context.Context, id uuid.UUID) (model.SessionModel, error) {
	m, err := s.store.GetSession(ctx, id)
	if err != nil {
		return model.SessionModel{}, err
	}
	if m.SessionDateCompleted != nil {
		return model.SessionModel{}, ErrAlreadyCompleted
	}

	hierarchy, err := s.hierarchy.BuildSessionHierarchy(ctx, m.SessionTemplateID, m.SessionID)
	if err != nil {
		// Partial hierarchy still yields an honest (lower) progress count.
		if _, ok := errs.AsPartialData(err); !ok {
			return model.SessionModel{}, err
		}
	}
	progress := progressService.ComputeProgress(hierarchy)

	tags, err := s.store.FeedbackTags(ctx, m.SessionID)
	if err != nil {
		return model.SessionModel{}, err
	}
	readiness := progressService.ComputeReadiness(tags)

	now := time.Now().UTC()
	snap, err := json.Marshal(reportSnapshot{
		Progress:    progress,
		Readiness:   readiness,
		CompletedAt: now,
	})
	if err != nil {
		return model.SessionModel{}, fmt.Errorf("marshal report snapshot: %w", err)
	}

	if err := s.store.UpdateSession(ctx, id, map[string]interface{}{
		"session_date_completed":  now,
		"session_report_snapshot": snap,
	}); err != nil {
		return model.SessionModel{}, err
	}
	return s.store.GetSession(ctx, id)
}

// UpsertTaskFeedback records the instructor's verdict for one task.
func (s *LifecycleService) UpsertTaskFeedback(ctx context.Context, sessionID, taskID uuid.UUID, req dto.UpsertTaskFeedbackRequest) (model.TaskFeedbackModel, error) {
	if !model.ValidFeedbackTag(req.Tag) {
		return model.TaskFeedbackModel{}, fmt.Errorf("invalid feedback tag %q", req.Tag)
	}
	return s.store.UpsertTaskFeedback(ctx, model.TaskFeedbackModel{
		TaskFeedbackSessionID: sessionID,
		TaskFeedbackTaskID:    taskID,
		TaskFeedbackTag:       req.Tag,
		TaskFeedbackNote:      req.Note,
	})
}

// FeedbackTags exposes the stored tags for the readiness endpoint.
func (s *LifecycleService) FeedbackTags(ctx context.Context, sessionID uuid.UUID) ([]string, error) {
	return s.store.FeedbackTags(ctx, sessionID)
}

// templateElementSet filters requested ids down to elements that actually
// belong to the template, so a stray id cannot seed a foreign ledger row.
func (s *LifecycleService) templateElementSet(ctx context.Context, templateID uuid.UUID, requested []uuid.UUID) ([]uuid.UUID, error) {
	all, err := s.hierarchy.ElementIDsForTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]struct{}, len(all))
	for _, id := range all {
		known[id] = struct{}{}
	}
	out := make([]uuid.UUID, 0, len(requested))
	for _, id := range requested {
		if _, ok := known[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}
