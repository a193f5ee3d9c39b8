package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"checkride_backend/internals/features/acs/hierarchy/dto"
	ledgerModel "checkride_backend/internals/features/evaluation/ledger/model"
	"checkride_backend/internals/helpers/errs"
)

// HierarchyService materializes the session-scoped copy of a template
// hierarchy: template skeleton left-joined with the session's ledger rows.
type HierarchyService struct {
	store Store
	cache SkeletonCache
}

func NewHierarchyService(store Store, cache SkeletonCache) *HierarchyService {
	if cache == nil {
		cache = noopSkeletonCache{}
	}
	return &HierarchyService{store: store, cache: cache}
}

// InvalidateTemplate drops the cached skeleton after a template edit.
func (s *HierarchyService) InvalidateTemplate(templateID uuid.UUID) {
	s.cache.Invalidate(templateID)
}

// BuildSessionHierarchy is a three-level left outer join with a derived
// column. Read-path failures below the areas level degrade: the hierarchy
// built so far is returned together with a *errs.PartialDataError so
// navigation stays usable. A missing template is a hard ErrNotFound.
func (s *HierarchyService) BuildSessionHierarchy(ctx context.Context, templateID, sessionID uuid.UUID) ([]dto.AreaWithTasks, error) {
	skel, partial, err := s.loadSkeleton(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if len(skel.Areas) == 0 {
		if partial != nil {
			return []dto.AreaWithTasks{}, partial
		}
		return []dto.AreaWithTasks{}, nil
	}

	var rows map[uuid.UUID]ledgerModel.SessionElementModel
	if len(skel.Elements) > 0 {
		ids := make([]uuid.UUID, 0, len(skel.Elements))
		for _, el := range skel.Elements {
			ids = append(ids, el.ElementID)
		}
		rows, err = s.store.SessionElements(ctx, sessionID, ids)
		if err != nil {
			// Serve the bare skeleton as in-progress rather than failing the read.
			log.Printf("[WARN] ledger fetch failed for session %s: %v", sessionID, err)
			partial = &errs.PartialDataError{Stage: "session elements", Cause: err}
			rows = nil
		}
	}

	if partial != nil {
		return assemble(skel, rows), partial
	}
	return assemble(skel, rows), nil
}

// FlattenElements walks areas (order_number) → tasks (order_letter) →
// elements (code). The walk preserves the query ordering, so two calls over
// unchanged data produce the identical navigation sequence.
func FlattenElements(hierarchy []dto.AreaWithTasks) []dto.MergedElement {
	var out []dto.MergedElement
	for _, area := range hierarchy {
		for _, task := range area.Tasks {
			out = append(out, task.Elements...)
		}
	}
	return out
}

// PrepopulateSessionElements seeds one default ledger row per element under
// the template. Insert conflicts are skipped, so running it again after a
// partial failure only fills the gaps.
func (s *HierarchyService) PrepopulateSessionElements(ctx context.Context, sessionID, templateID uuid.UUID) error {
	skel, partial, err := s.loadSkeleton(ctx, templateID)
	if err != nil {
		return err
	}
	if partial != nil {
		// Seeding from a half-fetched skeleton would leave silent holes.
		return partial
	}

	rows := make([]ledgerModel.SessionElementModel, 0, len(skel.Elements))
	for _, el := range skel.Elements {
		rows = append(rows, ledgerModel.SessionElementModel{
			SessionElementSessionID:         sessionID,
			SessionElementElementID:         el.ElementID,
			SessionElementPerformanceStatus: ledgerModel.PerformanceNotObserved,
		})
	}
	return s.store.BulkInsertSessionElements(ctx, rows)
}

// loadSkeleton fetches (or recalls) the immutable template hierarchy. The
// second return value is non-nil when a child-level fetch failed and the
// skeleton is truncated at that level.
func (s *HierarchyService) loadSkeleton(ctx context.Context, templateID uuid.UUID) (templateSkeleton, *errs.PartialDataError, error) {
	if skel, ok := s.cache.Get(templateID); ok {
		return skel, nil, nil
	}

	ok, err := s.store.TemplateExists(ctx, templateID)
	if err != nil {
		return templateSkeleton{}, nil, err
	}
	if !ok {
		return templateSkeleton{}, nil, errs.NotFound("template")
	}

	areas, err := s.store.AreasByTemplate(ctx, templateID)
	if err != nil {
		return templateSkeleton{}, nil, err
	}
	skel := templateSkeleton{Areas: areas}
	if len(areas) == 0 {
		return skel, nil, nil
	}

	areaIDs := make([]uuid.UUID, 0, len(areas))
	for _, a := range areas {
		areaIDs = append(areaIDs, a.AreaID)
	}
	tasks, err := s.store.TasksByAreas(ctx, areaIDs)
	if err != nil {
		log.Printf("[WARN] task fetch failed for template %s: %v", templateID, err)
		return skel, &errs.PartialDataError{Stage: "tasks", Cause: err}, nil
	}
	skel.Tasks = tasks
	if len(tasks) == 0 {
		return skel, nil, nil
	}

	taskIDs := make([]uuid.UUID, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.TaskID)
	}
	elements, err := s.store.ElementsByTasks(ctx, taskIDs)
	if err != nil {
		log.Printf("[WARN] element fetch failed for template %s: %v", templateID, err)
		return skel, &errs.PartialDataError{Stage: "elements", Cause: err}, nil
	}
	skel.Elements = elements

	s.cache.Set(templateID, skel)
	return skel, nil, nil
}

// assemble groups elements under tasks and tasks under areas without
// re-sorting: input ordering is trusted and preserved.
func assemble(skel templateSkeleton, ledger map[uuid.UUID]ledgerModel.SessionElementModel) []dto.AreaWithTasks {
	elementsByTask := make(map[uuid.UUID][]dto.MergedElement, len(skel.Tasks))
	for _, el := range skel.Elements {
		merged := dto.MergeElement(el, lookupRow(ledger, el.ElementID))
		elementsByTask[el.ElementTaskID] = append(elementsByTask[el.ElementTaskID], merged)
	}

	tasksByArea := make(map[uuid.UUID][]dto.TaskWithElements, len(skel.Areas))
	for _, t := range skel.Tasks {
		tw := dto.FromTask(t)
		if els, ok := elementsByTask[t.TaskID]; ok {
			tw.Elements = els
		}
		tasksByArea[t.TaskAreaID] = append(tasksByArea[t.TaskAreaID], tw)
	}

	out := make([]dto.AreaWithTasks, 0, len(skel.Areas))
	for _, a := range skel.Areas {
		aw := dto.FromArea(a)
		if ts, ok := tasksByArea[a.AreaID]; ok {
			aw.Tasks = ts
		}
		out = append(out, aw)
	}
	return out
}

func lookupRow(ledger map[uuid.UUID]ledgerModel.SessionElementModel, elementID uuid.UUID) *ledgerModel.SessionElementModel {
	if ledger == nil {
		return nil
	}
	if row, ok := ledger[elementID]; ok {
		return &row
	}
	return nil
}

// ElementIDsForTemplate resolves every element id under a template in
// navigation order; used by the a2-deficiency bulk flag validation.
func (s *HierarchyService) ElementIDsForTemplate(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error) {
	skel, partial, err := s.loadSkeleton(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if partial != nil {
		return nil, partial
	}
	ids := make([]uuid.UUID, 0, len(skel.Elements))
	for _, el := range skel.Elements {
		ids = append(ids, el.ElementID)
	}
	return ids, nil
}
