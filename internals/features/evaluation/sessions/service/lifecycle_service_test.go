package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	hierarchyService "checkride_backend/internals/features/acs/hierarchy/service"
	acsModel "checkride_backend/internals/features/acs/templates/model"
	ledgerModel "checkride_backend/internals/features/evaluation/ledger/model"
	ledgerService "checkride_backend/internals/features/evaluation/ledger/service"
	progressDTO "checkride_backend/internals/features/evaluation/progress/dto"
	"checkride_backend/internals/features/evaluation/sessions/dto"
	"checkride_backend/internals/features/evaluation/sessions/model"
	"checkride_backend/internals/helpers/errs"
)

/* ---------- session store fake ---------- */

type fakeSessionStore struct {
	sessions map[uuid.UUID]model.SessionModel
	feedback map[uuid.UUID][]model.TaskFeedbackModel
	clock    time.Time
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: map[uuid.UUID]model.SessionModel{},
		feedback: map[uuid.UUID][]model.TaskFeedbackModel{},
		clock:    time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeSessionStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeSessionStore) CreateSession(_ context.Context, m *model.SessionModel) error {
	m.SessionID = uuid.New()
	f.sessions[m.SessionID] = *m
	return nil
}

func (f *fakeSessionStore) GetSession(_ context.Context, id uuid.UUID) (model.SessionModel, error) {
	m, ok := f.sessions[id]
	if !ok {
		return model.SessionModel{}, errs.NotFound("session")
	}
	return m, nil
}

func (f *fakeSessionStore) UpdateSession(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	m, ok := f.sessions[id]
	if !ok {
		return errs.NotFound("session")
	}
	for k, v := range fields {
		switch k {
		case "session_name":
			m.SessionName = v.(string)
		case "session_notes":
			notes := v.(string)
			m.SessionNotes = &notes
		case "session_scenario_id":
			sid := v.(uuid.UUID)
			m.SessionScenarioID = &sid
		case "session_date_completed":
			at := v.(time.Time)
			m.SessionDateCompleted = &at
		case "session_report_snapshot":
			m.SessionReportSnapshot = datatypes.JSON(v.([]byte))
		}
	}
	f.sessions[id] = m
	return nil
}

func (f *fakeSessionStore) ListSessionsByInstructor(_ context.Context, instructorID uuid.UUID, _, _ int) ([]model.SessionModel, int64, error) {
	var out []model.SessionModel
	for _, m := range f.sessions {
		if m.SessionInstructorID == instructorID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeSessionStore) UpsertTaskFeedback(_ context.Context, row model.TaskFeedbackModel) (model.TaskFeedbackModel, error) {
	rows := f.feedback[row.TaskFeedbackSessionID]
	for i, existing := range rows {
		if existing.TaskFeedbackTaskID == row.TaskFeedbackTaskID {
			rows[i].TaskFeedbackTag = row.TaskFeedbackTag
			rows[i].TaskFeedbackNote = row.TaskFeedbackNote
			rows[i].TaskFeedbackUpdatedAt = f.tick()
			f.feedback[row.TaskFeedbackSessionID] = rows
			return rows[i], nil
		}
	}
	row.TaskFeedbackID = uuid.New()
	row.TaskFeedbackUpdatedAt = f.tick()
	f.feedback[row.TaskFeedbackSessionID] = append(rows, row)
	return row, nil
}

func (f *fakeSessionStore) FeedbackTags(_ context.Context, sessionID uuid.UUID) ([]string, error) {
	var tags []string
	for _, row := range f.feedback[sessionID] {
		tags = append(tags, row.TaskFeedbackTag)
	}
	return tags, nil
}

/* ---------- hierarchy store fake ---------- */

type fakeHierStore struct {
	templateID uuid.UUID
	areas      []acsModel.AreaModel
	tasks      []acsModel.TaskModel
	elements   []acsModel.ElementModel

	ledger    map[uuid.UUID]map[uuid.UUID]ledgerModel.SessionElementModel
	insertErr error
}

func (f *fakeHierStore) TemplateExists(_ context.Context, templateID uuid.UUID) (bool, error) {
	return templateID == f.templateID, nil
}

func (f *fakeHierStore) AreasByTemplate(_ context.Context, _ uuid.UUID) ([]acsModel.AreaModel, error) {
	return f.areas, nil
}

func (f *fakeHierStore) TasksByAreas(_ context.Context, _ []uuid.UUID) ([]acsModel.TaskModel, error) {
	return f.tasks, nil
}

func (f *fakeHierStore) ElementsByTasks(_ context.Context, _ []uuid.UUID) ([]acsModel.ElementModel, error) {
	return f.elements, nil
}

func (f *fakeHierStore) SessionElements(_ context.Context, sessionID uuid.UUID, elementIDs []uuid.UUID) (map[uuid.UUID]ledgerModel.SessionElementModel, error) {
	out := map[uuid.UUID]ledgerModel.SessionElementModel{}
	for _, id := range elementIDs {
		if row, ok := f.ledger[sessionID][id]; ok {
			out[id] = row
		}
	}
	return out, nil
}

func (f *fakeHierStore) BulkInsertSessionElements(_ context.Context, rows []ledgerModel.SessionElementModel) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.ledger == nil {
		f.ledger = map[uuid.UUID]map[uuid.UUID]ledgerModel.SessionElementModel{}
	}
	for _, row := range rows {
		if f.ledger[row.SessionElementSessionID] == nil {
			f.ledger[row.SessionElementSessionID] = map[uuid.UUID]ledgerModel.SessionElementModel{}
		}
		if _, exists := f.ledger[row.SessionElementSessionID][row.SessionElementElementID]; !exists {
			f.ledger[row.SessionElementSessionID][row.SessionElementElementID] = row
		}
	}
	return nil
}

/* ---------- ledger store fake ---------- */

type fakeA2Store struct {
	flagged map[uuid.UUID][]uuid.UUID
}

func (f *fakeA2Store) UpsertEvaluation(_ context.Context, row ledgerModel.SessionElementModel) (ledgerModel.SessionElementModel, error) {
	return row, nil
}

func (f *fakeA2Store) UpsertScore(_ context.Context, row ledgerModel.SessionElementModel) (ledgerModel.SessionElementModel, error) {
	return row, nil
}

func (f *fakeA2Store) SetA2Deficiencies(_ context.Context, sessionID uuid.UUID, elementIDs []uuid.UUID) error {
	if f.flagged == nil {
		f.flagged = map[uuid.UUID][]uuid.UUID{}
	}
	f.flagged[sessionID] = append(f.flagged[sessionID], elementIDs...)
	return nil
}

/* ---------- fixture ---------- */

type lifecycleFixture struct {
	svc       *LifecycleService
	sessions  *fakeSessionStore
	hierStore *fakeHierStore
	a2Store   *fakeA2Store
}

func newLifecycleFixture() *lifecycleFixture {
	templateID := uuid.New()
	area := acsModel.AreaModel{AreaID: uuid.New(), AreaTemplateID: templateID, AreaOrderNumber: 1, AreaTitle: "Preflight Preparation"}
	task := acsModel.TaskModel{TaskID: uuid.New(), TaskAreaID: area.AreaID, TaskOrderLetter: "A", TaskTitle: "Pilot Qualifications"}
	hierStore := &fakeHierStore{
		templateID: templateID,
		areas:      []acsModel.AreaModel{area},
		tasks:      []acsModel.TaskModel{task},
		elements: []acsModel.ElementModel{
			{ElementID: uuid.New(), ElementTaskID: task.TaskID, ElementCode: "PA.I.A.K1", ElementType: acsModel.ElementTypeKnowledge, ElementLabel: "Certification requirements"},
			{ElementID: uuid.New(), ElementTaskID: task.TaskID, ElementCode: "PA.I.A.K2", ElementType: acsModel.ElementTypeKnowledge, ElementLabel: "Medical requirements"},
		},
	}

	sessions := newFakeSessionStore()
	a2Store := &fakeA2Store{}
	hier := hierarchyService.NewHierarchyService(hierStore, nil)
	ledger := ledgerService.NewEvaluationService(a2Store)

	return &lifecycleFixture{
		svc:       NewLifecycleService(sessions, hier, ledger),
		sessions:  sessions,
		hierStore: hierStore,
		a2Store:   a2Store,
	}
}

func (f *lifecycleFixture) createReq() dto.CreateSessionRequest {
	return dto.CreateSessionRequest{
		StudentID:   uuid.New(),
		TemplateID:  f.hierStore.templateID,
		SessionName: "PPL mock oral #1",
	}
}

/* ---------- tests ---------- */

func TestCreateSessionSeedsLedger(t *testing.T) {
	f := newLifecycleFixture()

	sess, warning, err := f.svc.CreateSession(context.Background(), uuid.New(), f.createReq())
	require.NoError(t, err)
	assert.Nil(t, warning)
	assert.NotEqual(t, uuid.Nil, sess.SessionID)
	assert.False(t, sess.SessionDateStarted.IsZero())

	rows := f.hierStore.ledger[sess.SessionID]
	require.Len(t, rows, 2, "one default row per template element")
	for _, row := range rows {
		assert.Equal(t, ledgerModel.PerformanceNotObserved, row.SessionElementPerformanceStatus)
	}
}

func TestCreateSessionWarnsWhenSeedingFails(t *testing.T) {
	f := newLifecycleFixture()
	f.hierStore.insertErr = errors.New("disk full")

	sess, warning, err := f.svc.CreateSession(context.Background(), uuid.New(), f.createReq())
	require.NoError(t, err, "seeding failure must not fail the create")
	require.NotNil(t, warning)
	assert.Contains(t, *warning, "could not be pre-filled")

	// the session row itself exists and is readable
	got, err := f.svc.GetSession(context.Background(), sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, sess.SessionID, got.SessionID)
}

func TestCreateSessionFlagsOnlyTemplateElements(t *testing.T) {
	f := newLifecycleFixture()
	valid := f.hierStore.elements[0].ElementID
	foreign := uuid.New()

	req := f.createReq()
	req.A2ElementIDs = []uuid.UUID{valid, foreign}

	sess, warning, err := f.svc.CreateSession(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	assert.Nil(t, warning)

	flagged := f.a2Store.flagged[sess.SessionID]
	require.Len(t, flagged, 1, "ids outside the template must be dropped")
	assert.Equal(t, valid, flagged[0])
}

func TestCompleteSessionWritesSnapshot(t *testing.T) {
	f := newLifecycleFixture()
	sess, _, err := f.svc.CreateSession(context.Background(), uuid.New(), f.createReq())
	require.NoError(t, err)

	// score one of the two elements, leave the other at the default
	rows := f.hierStore.ledger[sess.SessionID]
	el := f.hierStore.elements[0].ElementID
	row := rows[el]
	row.SessionElementPerformanceStatus = ledgerModel.PerformanceSatisfactory
	rows[el] = row

	taskID := f.hierStore.tasks[0].TaskID
	_, err = f.svc.UpsertTaskFeedback(context.Background(), sess.SessionID, taskID, dto.UpsertTaskFeedbackRequest{
		Tag: model.FeedbackExcellent,
	})
	require.NoError(t, err)

	done, err := f.svc.CompleteSession(context.Background(), sess.SessionID)
	require.NoError(t, err)
	require.NotNil(t, done.SessionDateCompleted)
	require.NotEmpty(t, done.SessionReportSnapshot)

	var snap struct {
		Progress  progressDTO.Progress  `json:"progress"`
		Readiness progressDTO.Readiness `json:"readiness"`
	}
	require.NoError(t, json.Unmarshal(done.SessionReportSnapshot, &snap))
	assert.Equal(t, 2, snap.Progress.Total)
	assert.Equal(t, 1, snap.Progress.Completed)
	assert.Equal(t, 50, snap.Progress.Percentage)
	assert.Equal(t, 100, snap.Readiness.Percent)
}

func TestCompleteSessionTwiceIsRejected(t *testing.T) {
	f := newLifecycleFixture()
	sess, _, err := f.svc.CreateSession(context.Background(), uuid.New(), f.createReq())
	require.NoError(t, err)

	_, err = f.svc.CompleteSession(context.Background(), sess.SessionID)
	require.NoError(t, err)

	_, err = f.svc.CompleteSession(context.Background(), sess.SessionID)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestCompleteSessionUnknownID(t *testing.T) {
	f := newLifecycleFixture()
	_, err := f.svc.CompleteSession(context.Background(), uuid.New())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUpdateSessionPatchesFields(t *testing.T) {
	f := newLifecycleFixture()
	sess, _, err := f.svc.CreateSession(context.Background(), uuid.New(), f.createReq())
	require.NoError(t, err)

	name := "PPL mock oral #1 (retake)"
	notes := "student requested weather focus"
	got, err := f.svc.UpdateSession(context.Background(), sess.SessionID, dto.PatchSessionRequest{
		SessionName: &name,
		Notes:       &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, name, got.SessionName)
	require.NotNil(t, got.SessionNotes)
	assert.Equal(t, notes, *got.SessionNotes)
}

func TestUpsertTaskFeedbackValidatesTag(t *testing.T) {
	f := newLifecycleFixture()
	sess, _, err := f.svc.CreateSession(context.Background(), uuid.New(), f.createReq())
	require.NoError(t, err)
	taskID := f.hierStore.tasks[0].TaskID

	_, err = f.svc.UpsertTaskFeedback(context.Background(), sess.SessionID, taskID, dto.UpsertTaskFeedbackRequest{
		Tag: "amazing",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid feedback tag")

	// upsert replaces the earlier verdict for the same task
	first, err := f.svc.UpsertTaskFeedback(context.Background(), sess.SessionID, taskID, dto.UpsertTaskFeedbackRequest{
		Tag: model.FeedbackWeak,
	})
	require.NoError(t, err)
	second, err := f.svc.UpsertTaskFeedback(context.Background(), sess.SessionID, taskID, dto.UpsertTaskFeedbackRequest{
		Tag: model.FeedbackProficient,
	})
	require.NoError(t, err)
	assert.True(t, second.TaskFeedbackUpdatedAt.After(first.TaskFeedbackUpdatedAt),
		"replacing a verdict must bump the audit timestamp")

	tags, err := f.svc.FeedbackTags(context.Background(), sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []string{model.FeedbackProficient}, tags)
}
