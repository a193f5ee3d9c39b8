package service

import (
	"sync"

	"github.com/google/uuid"

	acsModel "checkride_backend/internals/features/acs/templates/model"
)

// templateSkeleton is the immutable part of a template hierarchy: everything
// except the per-session ledger state.
type templateSkeleton struct {
	Areas    []acsModel.AreaModel
	Tasks    []acsModel.TaskModel
	Elements []acsModel.ElementModel
}

// SkeletonCache keys template skeletons by template id. Injectable with
// manual invalidation so each test can run with a fresh cache.
type SkeletonCache interface {
	Get(templateID uuid.UUID) (templateSkeleton, bool)
	Set(templateID uuid.UUID, s templateSkeleton)
	Invalidate(templateID uuid.UUID)
}

type memorySkeletonCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]templateSkeleton
}

// NewMemorySkeletonCache returns an empty in-process cache.
func NewMemorySkeletonCache() SkeletonCache {
	return &memorySkeletonCache{entries: make(map[uuid.UUID]templateSkeleton)}
}

func (c *memorySkeletonCache) Get(templateID uuid.UUID) (templateSkeleton, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.entries[templateID]
	return s, ok
}

func (c *memorySkeletonCache) Set(templateID uuid.UUID, s templateSkeleton) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[templateID] = s
}

func (c *memorySkeletonCache) Invalidate(templateID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, templateID)
}

// noopSkeletonCache disables caching; used when freshness matters more than
// the round trips (template editing endpoints invalidate through here too).
type noopSkeletonCache struct{}

func (noopSkeletonCache) Get(uuid.UUID) (templateSkeleton, bool) { return templateSkeleton{}, false }
func (noopSkeletonCache) Set(uuid.UUID, templateSkeleton)        {}
func (noopSkeletonCache) Invalidate(uuid.UUID)                   {}
