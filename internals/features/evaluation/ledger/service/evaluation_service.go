package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"checkride_backend/internals/features/evaluation/ledger/dto"
	"checkride_backend/internals/features/evaluation/ledger/model"
)

// EvaluationService is the element evaluation state machine. All three
// performance states are mutually exclusive and every transition is legal:
// instructors re-score at will during a session, last write wins.
type EvaluationService struct {
	store Store
}

func NewEvaluationService(store Store) *EvaluationService {
	return &EvaluationService{store: store}
}

// SaveElementEvaluation upserts the ledger row for (session, element) and
// returns the authoritative derived status. needs_review is written as a
// derived flag in the same statement; the rubric score is cleared by this
// path.
func (s *EvaluationService) SaveElementEvaluation(ctx context.Context, sessionID, elementID uuid.UUID, req dto.SaveEvaluationRequest) (dto.EvaluationResult, error) {
	if !model.ValidPerformanceStatus(req.PerformanceStatus) {
		return dto.EvaluationResult{}, fmt.Errorf("invalid performance status %q", req.PerformanceStatus)
	}

	row := model.SessionElementModel{
		SessionElementSessionID:         sessionID,
		SessionElementElementID:         elementID,
		SessionElementPerformanceStatus: req.PerformanceStatus,
		SessionElementInstructorComment: req.Comment,
		SessionElementNeedsReview:       req.PerformanceStatus == model.PerformanceUnsatisfactory,
	}
	if req.InstructorMentioned != nil {
		row.SessionElementInstructorMentioned = *req.InstructorMentioned
	}
	if req.StudentMentioned != nil {
		row.SessionElementStudentMentioned = *req.StudentMentioned
	}

	saved, err := s.store.UpsertEvaluation(ctx, row)
	if err != nil {
		return dto.EvaluationResult{}, err
	}
	return toResult(saved), nil
}

// SaveElementScore is the parallel 1–4 rubric path. It sets the score and
// optionally the comment but never touches the performance status.
func (s *EvaluationService) SaveElementScore(ctx context.Context, sessionID, elementID uuid.UUID, req dto.SaveScoreRequest) (dto.EvaluationResult, error) {
	if req.Score < 1 || req.Score > 4 {
		return dto.EvaluationResult{}, fmt.Errorf("score %d out of range 1..4", req.Score)
	}

	score := req.Score
	row := model.SessionElementModel{
		SessionElementSessionID:         sessionID,
		SessionElementElementID:         elementID,
		SessionElementPerformanceStatus: model.PerformanceNotObserved,
		SessionElementScore:             &score,
	}
	if req.Comment != nil {
		row.SessionElementInstructorComment = *req.Comment
	}

	saved, err := s.store.UpsertScore(ctx, row)
	if err != nil {
		return dto.EvaluationResult{}, err
	}
	return toResult(saved), nil
}

// SetA2Deficiencies bulk-flags prior written-test weak areas. Orthogonal to
// the state machine: it never changes a performance status.
func (s *EvaluationService) SetA2Deficiencies(ctx context.Context, sessionID uuid.UUID, elementIDs []uuid.UUID) error {
	return s.store.SetA2Deficiencies(ctx, sessionID, elementIDs)
}

func toResult(row model.SessionElementModel) dto.EvaluationResult {
	return dto.EvaluationResult{
		SessionID:         row.SessionElementSessionID,
		ElementID:         row.SessionElementElementID,
		PerformanceStatus: row.SessionElementPerformanceStatus,
		Status:            model.DeriveStatus(row.SessionElementPerformanceStatus),
		NeedsReview:       row.SessionElementNeedsReview,
		Score:             row.SessionElementScore,
		UpdatedAt:         row.SessionElementUpdatedAt,
	}
}
