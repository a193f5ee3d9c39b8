package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkride_backend/internals/features/acs/hierarchy/dto"
	acsModel "checkride_backend/internals/features/acs/templates/model"
	ledgerModel "checkride_backend/internals/features/evaluation/ledger/model"
	"checkride_backend/internals/helpers/errs"
)

// fakeStore is an in-memory Store with per-call error injection so the
// degradation paths can be driven deterministically.
type fakeStore struct {
	templates map[uuid.UUID]bool
	areas     []acsModel.AreaModel
	tasks     []acsModel.TaskModel
	elements  []acsModel.ElementModel

	// ledger rows per session, keyed by element id
	ledger map[uuid.UUID]map[uuid.UUID]ledgerModel.SessionElementModel

	tasksErr    error
	elementsErr error
	ledgerErr   error
	insertErr   error

	areaCalls   int
	insertCalls int
}

func (f *fakeStore) TemplateExists(_ context.Context, templateID uuid.UUID) (bool, error) {
	return f.templates[templateID], nil
}

func (f *fakeStore) AreasByTemplate(_ context.Context, templateID uuid.UUID) ([]acsModel.AreaModel, error) {
	f.areaCalls++
	var out []acsModel.AreaModel
	for _, a := range f.areas {
		if a.AreaTemplateID == templateID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) TasksByAreas(_ context.Context, areaIDs []uuid.UUID) ([]acsModel.TaskModel, error) {
	if f.tasksErr != nil {
		return nil, f.tasksErr
	}
	want := map[uuid.UUID]bool{}
	for _, id := range areaIDs {
		want[id] = true
	}
	var out []acsModel.TaskModel
	for _, t := range f.tasks {
		if want[t.TaskAreaID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ElementsByTasks(_ context.Context, taskIDs []uuid.UUID) ([]acsModel.ElementModel, error) {
	if f.elementsErr != nil {
		return nil, f.elementsErr
	}
	want := map[uuid.UUID]bool{}
	for _, id := range taskIDs {
		want[id] = true
	}
	var out []acsModel.ElementModel
	for _, el := range f.elements {
		if want[el.ElementTaskID] {
			out = append(out, el)
		}
	}
	return out, nil
}

func (f *fakeStore) SessionElements(_ context.Context, sessionID uuid.UUID, elementIDs []uuid.UUID) (map[uuid.UUID]ledgerModel.SessionElementModel, error) {
	if f.ledgerErr != nil {
		return nil, f.ledgerErr
	}
	out := map[uuid.UUID]ledgerModel.SessionElementModel{}
	rows, ok := f.ledger[sessionID]
	if !ok {
		return out, nil
	}
	for _, id := range elementIDs {
		if row, found := rows[id]; found {
			out[id] = row
		}
	}
	return out, nil
}

func (f *fakeStore) BulkInsertSessionElements(_ context.Context, rows []ledgerModel.SessionElementModel) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.insertCalls++
	if f.ledger == nil {
		f.ledger = map[uuid.UUID]map[uuid.UUID]ledgerModel.SessionElementModel{}
	}
	for _, row := range rows {
		if f.ledger[row.SessionElementSessionID] == nil {
			f.ledger[row.SessionElementSessionID] = map[uuid.UUID]ledgerModel.SessionElementModel{}
		}
		// conflict on (session_id, element_id) skips the insert
		if _, exists := f.ledger[row.SessionElementSessionID][row.SessionElementElementID]; exists {
			continue
		}
		f.ledger[row.SessionElementSessionID][row.SessionElementElementID] = row
	}
	return nil
}

// newFixture builds a two-area template: area I with tasks A (two elements)
// and B (one element), area II with no tasks.
func newFixture() (*fakeStore, uuid.UUID) {
	templateID := uuid.New()
	area1 := acsModel.AreaModel{AreaID: uuid.New(), AreaTemplateID: templateID, AreaOrderNumber: 1, AreaTitle: "Preflight Preparation"}
	area2 := acsModel.AreaModel{AreaID: uuid.New(), AreaTemplateID: templateID, AreaOrderNumber: 2, AreaTitle: "Preflight Procedures"}

	taskA := acsModel.TaskModel{TaskID: uuid.New(), TaskAreaID: area1.AreaID, TaskOrderLetter: "A", TaskTitle: "Pilot Qualifications", TaskIsRequired: true}
	taskB := acsModel.TaskModel{TaskID: uuid.New(), TaskAreaID: area1.AreaID, TaskOrderLetter: "B", TaskTitle: "Airworthiness Requirements", TaskIsRequired: true}

	el1 := acsModel.ElementModel{ElementID: uuid.New(), ElementTaskID: taskA.TaskID, ElementCode: "PA.I.A.K1", ElementType: acsModel.ElementTypeKnowledge, ElementLabel: "Certification requirements"}
	el2 := acsModel.ElementModel{ElementID: uuid.New(), ElementTaskID: taskA.TaskID, ElementCode: "PA.I.A.K2", ElementType: acsModel.ElementTypeKnowledge, ElementLabel: "Currency requirements"}
	el3 := acsModel.ElementModel{ElementID: uuid.New(), ElementTaskID: taskB.TaskID, ElementCode: "PA.I.B.R1", ElementType: acsModel.ElementTypeRisk, ElementLabel: "Inoperative equipment"}

	return &fakeStore{
		templates: map[uuid.UUID]bool{templateID: true},
		areas:     []acsModel.AreaModel{area1, area2},
		tasks:     []acsModel.TaskModel{taskA, taskB},
		elements:  []acsModel.ElementModel{el1, el2, el3},
	}, templateID
}

func TestBuildSessionHierarchyDefaultsMissingRows(t *testing.T) {
	store, templateID := newFixture()
	svc := NewHierarchyService(store, nil)
	sessionID := uuid.New()

	tree, err := svc.BuildSessionHierarchy(context.Background(), templateID, sessionID)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	for _, el := range FlattenElements(tree) {
		assert.Equal(t, ledgerModel.PerformanceNotObserved, el.PerformanceStatus)
		assert.Equal(t, ledgerModel.StatusInProgress, el.Status)
		assert.False(t, el.A2Deficiency)
		assert.Nil(t, el.Score)
	}
	// area with no tasks still appears, with an empty task list
	assert.Empty(t, tree[1].Tasks)
}

func TestBuildSessionHierarchyMergesLedgerRows(t *testing.T) {
	store, templateID := newFixture()
	sessionID := uuid.New()
	scored := store.elements[0]
	failed := store.elements[1]
	store.ledger = map[uuid.UUID]map[uuid.UUID]ledgerModel.SessionElementModel{
		sessionID: {
			scored.ElementID: {
				SessionElementSessionID:         sessionID,
				SessionElementElementID:         scored.ElementID,
				SessionElementPerformanceStatus: ledgerModel.PerformanceSatisfactory,
				SessionElementInstructorComment: "solid recall",
			},
			failed.ElementID: {
				SessionElementSessionID:         sessionID,
				SessionElementElementID:         failed.ElementID,
				SessionElementPerformanceStatus: ledgerModel.PerformanceUnsatisfactory,
				SessionElementNeedsReview:       true,
			},
		},
	}
	svc := NewHierarchyService(store, nil)

	tree, err := svc.BuildSessionHierarchy(context.Background(), templateID, sessionID)
	require.NoError(t, err)

	flat := FlattenElements(tree)
	require.Len(t, flat, 3)

	byID := map[uuid.UUID]dto.MergedElement{}
	for _, el := range flat {
		byID[el.ElementID] = el
	}

	assert.Equal(t, ledgerModel.StatusCompleted, byID[scored.ElementID].Status)
	assert.Equal(t, "solid recall", byID[scored.ElementID].InstructorComment)

	assert.Equal(t, ledgerModel.StatusIssue, byID[failed.ElementID].Status)
	assert.True(t, byID[failed.ElementID].NeedsReview)

	// third element has no row and stays at the default
	assert.Equal(t, ledgerModel.StatusInProgress, byID[store.elements[2].ElementID].Status)
}

func TestBuildSessionHierarchyIsolatesSessions(t *testing.T) {
	store, templateID := newFixture()
	sessionA := uuid.New()
	sessionB := uuid.New()
	el := store.elements[0]
	store.ledger = map[uuid.UUID]map[uuid.UUID]ledgerModel.SessionElementModel{
		sessionA: {
			el.ElementID: {
				SessionElementSessionID:         sessionA,
				SessionElementElementID:         el.ElementID,
				SessionElementPerformanceStatus: ledgerModel.PerformanceSatisfactory,
			},
		},
	}
	svc := NewHierarchyService(store, nil)

	treeB, err := svc.BuildSessionHierarchy(context.Background(), templateID, sessionB)
	require.NoError(t, err)
	for _, merged := range FlattenElements(treeB) {
		assert.Equal(t, ledgerModel.StatusInProgress, merged.Status, "session B must not see session A's rows")
	}
}

func TestFlattenElementsOrderIsStable(t *testing.T) {
	store, templateID := newFixture()
	svc := NewHierarchyService(store, NewMemorySkeletonCache())
	sessionID := uuid.New()

	first, err := svc.BuildSessionHierarchy(context.Background(), templateID, sessionID)
	require.NoError(t, err)
	second, err := svc.BuildSessionHierarchy(context.Background(), templateID, sessionID)
	require.NoError(t, err)

	flatFirst := FlattenElements(first)
	flatSecond := FlattenElements(second)
	require.Equal(t, len(flatFirst), len(flatSecond))
	for i := range flatFirst {
		assert.Equal(t, flatFirst[i].ElementID, flatSecond[i].ElementID)
		assert.Equal(t, flatFirst[i].Code, flatSecond[i].Code)
	}
	// fixture ordering: task A elements by code, then task B
	assert.Equal(t, "PA.I.A.K1", flatFirst[0].Code)
	assert.Equal(t, "PA.I.A.K2", flatFirst[1].Code)
	assert.Equal(t, "PA.I.B.R1", flatFirst[2].Code)
}

func TestBuildSessionHierarchyUnknownTemplate(t *testing.T) {
	store, _ := newFixture()
	svc := NewHierarchyService(store, nil)

	_, err := svc.BuildSessionHierarchy(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestBuildSessionHierarchyDegradesOnTaskFailure(t *testing.T) {
	store, templateID := newFixture()
	store.tasksErr = errors.New("connection reset")
	svc := NewHierarchyService(store, nil)

	tree, err := svc.BuildSessionHierarchy(context.Background(), templateID, uuid.New())
	require.Error(t, err)

	partial, ok := errs.AsPartialData(err)
	require.True(t, ok, "expected a partial-data error, got %v", err)
	assert.Equal(t, "tasks", partial.Stage)

	// areas still come back, just without children
	require.Len(t, tree, 2)
	assert.Empty(t, tree[0].Tasks)
}

func TestBuildSessionHierarchyDegradesOnLedgerFailure(t *testing.T) {
	store, templateID := newFixture()
	store.ledgerErr = errors.New("timeout")
	svc := NewHierarchyService(store, nil)

	tree, err := svc.BuildSessionHierarchy(context.Background(), templateID, uuid.New())
	require.Error(t, err)

	partial, ok := errs.AsPartialData(err)
	require.True(t, ok)
	assert.Equal(t, "session elements", partial.Stage)

	// the full skeleton is served with every element at the default
	flat := FlattenElements(tree)
	require.Len(t, flat, 3)
	for _, el := range flat {
		assert.Equal(t, ledgerModel.StatusInProgress, el.Status)
	}
}

func TestPrepopulateSessionElements(t *testing.T) {
	store, templateID := newFixture()
	svc := NewHierarchyService(store, nil)
	sessionID := uuid.New()

	require.NoError(t, svc.PrepopulateSessionElements(context.Background(), sessionID, templateID))
	require.Len(t, store.ledger[sessionID], 3)
	for _, row := range store.ledger[sessionID] {
		assert.Equal(t, ledgerModel.PerformanceNotObserved, row.SessionElementPerformanceStatus)
	}
}

func TestPrepopulateIsIdempotent(t *testing.T) {
	store, templateID := newFixture()
	svc := NewHierarchyService(store, nil)
	sessionID := uuid.New()

	require.NoError(t, svc.PrepopulateSessionElements(context.Background(), sessionID, templateID))

	// score one element, then re-run: the scored row must survive
	el := store.elements[0]
	row := store.ledger[sessionID][el.ElementID]
	row.SessionElementPerformanceStatus = ledgerModel.PerformanceSatisfactory
	store.ledger[sessionID][el.ElementID] = row

	require.NoError(t, svc.PrepopulateSessionElements(context.Background(), sessionID, templateID))
	require.Len(t, store.ledger[sessionID], 3)
	assert.Equal(t, ledgerModel.PerformanceSatisfactory,
		store.ledger[sessionID][el.ElementID].SessionElementPerformanceStatus)
}

func TestPrepopulateRefusesPartialSkeleton(t *testing.T) {
	store, templateID := newFixture()
	store.elementsErr = errors.New("relation missing")
	svc := NewHierarchyService(store, nil)

	err := svc.PrepopulateSessionElements(context.Background(), uuid.New(), templateID)
	require.Error(t, err)
	_, ok := errs.AsPartialData(err)
	assert.True(t, ok)
	assert.Zero(t, store.insertCalls)
}

func TestSkeletonCacheHitAndInvalidate(t *testing.T) {
	store, templateID := newFixture()
	svc := NewHierarchyService(store, NewMemorySkeletonCache())
	sessionID := uuid.New()

	_, err := svc.BuildSessionHierarchy(context.Background(), templateID, sessionID)
	require.NoError(t, err)
	_, err = svc.BuildSessionHierarchy(context.Background(), templateID, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.areaCalls, "second build should hit the cache")

	svc.InvalidateTemplate(templateID)
	_, err = svc.BuildSessionHierarchy(context.Background(), templateID, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, store.areaCalls, "invalidation should force a refetch")
}
