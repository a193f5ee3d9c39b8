package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	acsModel "checkride_backend/internals/features/acs/templates/model"
	ledgerDTO "checkride_backend/internals/features/evaluation/ledger/dto"
	ledgerModel "checkride_backend/internals/features/evaluation/ledger/model"
	ledgerService "checkride_backend/internals/features/evaluation/ledger/service"
	progressService "checkride_backend/internals/features/evaluation/progress/service"
)

// ledgerAdapter lets the evaluation service write into the same fake store the
// merge engine reads, so a full score-then-refetch cycle can be exercised.
type ledgerAdapter struct {
	store *fakeStore
	err   error
}

func (a *ledgerAdapter) UpsertEvaluation(_ context.Context, row ledgerModel.SessionElementModel) (ledgerModel.SessionElementModel, error) {
	if a.err != nil {
		return ledgerModel.SessionElementModel{}, a.err
	}
	if a.store.ledger == nil {
		a.store.ledger = map[uuid.UUID]map[uuid.UUID]ledgerModel.SessionElementModel{}
	}
	if a.store.ledger[row.SessionElementSessionID] == nil {
		a.store.ledger[row.SessionElementSessionID] = map[uuid.UUID]ledgerModel.SessionElementModel{}
	}
	existing, ok := a.store.ledger[row.SessionElementSessionID][row.SessionElementElementID]
	if ok {
		existing.SessionElementPerformanceStatus = row.SessionElementPerformanceStatus
		existing.SessionElementInstructorComment = row.SessionElementInstructorComment
		existing.SessionElementNeedsReview = row.SessionElementNeedsReview
		existing.SessionElementScore = nil
		row = existing
	}
	a.store.ledger[row.SessionElementSessionID][row.SessionElementElementID] = row
	return row, nil
}

func (a *ledgerAdapter) UpsertScore(_ context.Context, row ledgerModel.SessionElementModel) (ledgerModel.SessionElementModel, error) {
	return a.UpsertEvaluation(context.Background(), row)
}

func (a *ledgerAdapter) SetA2Deficiencies(_ context.Context, _ uuid.UUID, _ []uuid.UUID) error {
	return a.err
}

// smallFixture is one area, one task, elements A1 and A2.
func smallFixture() (*fakeStore, uuid.UUID, uuid.UUID, uuid.UUID) {
	templateID := uuid.New()
	area := acsModel.AreaModel{AreaID: uuid.New(), AreaTemplateID: templateID, AreaOrderNumber: 1, AreaTitle: "Preflight Preparation"}
	task := acsModel.TaskModel{TaskID: uuid.New(), TaskAreaID: area.AreaID, TaskOrderLetter: "A", TaskTitle: "Pilot Qualifications"}
	a1 := acsModel.ElementModel{ElementID: uuid.New(), ElementTaskID: task.TaskID, ElementCode: "A1", ElementType: acsModel.ElementTypeKnowledge, ElementLabel: "Certification requirements"}
	a2 := acsModel.ElementModel{ElementID: uuid.New(), ElementTaskID: task.TaskID, ElementCode: "A2", ElementType: acsModel.ElementTypeKnowledge, ElementLabel: "Currency requirements"}
	store := &fakeStore{
		templates: map[uuid.UUID]bool{templateID: true},
		areas:     []acsModel.AreaModel{area},
		tasks:     []acsModel.TaskModel{task},
		elements:  []acsModel.ElementModel{a1, a2},
	}
	return store, templateID, a1.ElementID, a2.ElementID
}

// TestEvaluationFlow walks a full session: prepopulate, score element by
// element, and recompute progress from the merged hierarchy after each write.
func TestEvaluationFlow(t *testing.T) {
	store, templateID, a1, a2 := smallFixture()
	hier := NewHierarchyService(store, nil)
	adapter := &ledgerAdapter{store: store}
	eval := ledgerService.NewEvaluationService(adapter)
	ctx := context.Background()
	sessionID := uuid.New()

	// fresh session: everything in progress, zero completed
	require.NoError(t, hier.PrepopulateSessionElements(ctx, sessionID, templateID))
	tree, err := hier.BuildSessionHierarchy(ctx, templateID, sessionID)
	require.NoError(t, err)
	for _, el := range FlattenElements(tree) {
		assert.Equal(t, ledgerModel.StatusInProgress, el.Status)
	}
	p := progressService.ComputeProgress(tree)
	assert.Equal(t, 0, p.Completed)
	assert.Equal(t, 2, p.Total)
	assert.Equal(t, 0, p.Issues)
	assert.Equal(t, 0, p.Percentage)

	// A1 satisfactory
	res, err := eval.SaveElementEvaluation(ctx, sessionID, a1, ledgerDTO.SaveEvaluationRequest{
		PerformanceStatus: ledgerModel.PerformanceSatisfactory,
	})
	require.NoError(t, err)
	assert.Equal(t, ledgerModel.StatusCompleted, res.Status)

	tree, err = hier.BuildSessionHierarchy(ctx, templateID, sessionID)
	require.NoError(t, err)
	flat := FlattenElements(tree)
	assert.Equal(t, ledgerModel.StatusCompleted, flat[0].Status)
	assert.Equal(t, ledgerModel.StatusInProgress, flat[1].Status)
	p = progressService.ComputeProgress(tree)
	assert.Equal(t, 1, p.Completed)
	assert.Equal(t, 0, p.Issues)
	assert.Equal(t, 50, p.Percentage)

	// A2 unsatisfactory
	res, err = eval.SaveElementEvaluation(ctx, sessionID, a2, ledgerDTO.SaveEvaluationRequest{
		PerformanceStatus: ledgerModel.PerformanceUnsatisfactory,
	})
	require.NoError(t, err)
	assert.Equal(t, ledgerModel.StatusIssue, res.Status)
	assert.True(t, res.NeedsReview)

	tree, err = hier.BuildSessionHierarchy(ctx, templateID, sessionID)
	require.NoError(t, err)
	p = progressService.ComputeProgress(tree)
	assert.Equal(t, 1, p.Completed)
	assert.Equal(t, 1, p.Issues)
	assert.Equal(t, 50, p.Percentage)
}

// TestEvaluationFlowFailedWriteLeavesStateIntact: a failed ledger write is
// reported to the caller and the merged hierarchy still shows the prior state.
func TestEvaluationFlowFailedWriteLeavesStateIntact(t *testing.T) {
	store, templateID, a1, _ := smallFixture()
	hier := NewHierarchyService(store, nil)
	adapter := &ledgerAdapter{store: store}
	eval := ledgerService.NewEvaluationService(adapter)
	ctx := context.Background()
	sessionID := uuid.New()

	require.NoError(t, hier.PrepopulateSessionElements(ctx, sessionID, templateID))
	_, err := eval.SaveElementEvaluation(ctx, sessionID, a1, ledgerDTO.SaveEvaluationRequest{
		PerformanceStatus: ledgerModel.PerformanceSatisfactory,
	})
	require.NoError(t, err)

	adapter.err = errors.New("write timeout")
	_, err = eval.SaveElementEvaluation(ctx, sessionID, a1, ledgerDTO.SaveEvaluationRequest{
		PerformanceStatus: ledgerModel.PerformanceUnsatisfactory,
	})
	require.Error(t, err)

	tree, err := hier.BuildSessionHierarchy(ctx, templateID, sessionID)
	require.NoError(t, err)
	flat := FlattenElements(tree)
	assert.Equal(t, ledgerModel.StatusCompleted, flat[0].Status, "failed write must not leave a partial state")
}
