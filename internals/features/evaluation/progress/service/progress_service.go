package service

import (
	"math"

	hierarchyDTO "checkride_backend/internals/features/acs/hierarchy/dto"
	"checkride_backend/internals/features/evaluation/progress/dto"
	sessionModel "checkride_backend/internals/features/evaluation/sessions/model"

	ledgerModel "checkride_backend/internals/features/evaluation/ledger/model"
)

// Readiness levels. The thresholds are fixed design constants, not
// configuration: >= 85 ready, 70..84 almost, below needs review.
const (
	LevelCheckrideReady = "Checkride Ready"
	LevelAlmostThere    = "Almost There"
	LevelNeedsReview    = "Needs Review"

	readyThreshold  = 85
	almostThreshold = 70
)

// ComputeProgress counts element statuses across the merged hierarchy.
// Pure function: no I/O, safe to recompute on every tree change.
func ComputeProgress(hierarchy []hierarchyDTO.AreaWithTasks) dto.Progress {
	var p dto.Progress
	for _, area := range hierarchy {
		for _, task := range area.Tasks {
			for _, el := range task.Elements {
				p.Total++
				switch el.Status {
				case ledgerModel.StatusCompleted:
					p.Completed++
				case ledgerModel.StatusIssue:
					p.Issues++
				}
			}
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	return p
}

// ComputeReadiness classifies on task-level feedback tags, not element
// status. Excellent and proficient count toward the percent; an empty tag
// list reads as 0 / "Needs Review".
func ComputeReadiness(tags []string) dto.Readiness {
	r := dto.Readiness{Level: LevelNeedsReview}
	if len(tags) == 0 {
		return r
	}
	strong := 0
	for _, tag := range tags {
		if tag == sessionModel.FeedbackExcellent || tag == sessionModel.FeedbackProficient {
			strong++
		}
	}
	r.Percent = int(math.Round(float64(strong) / float64(len(tags)) * 100))
	switch {
	case r.Percent >= readyThreshold:
		r.Level = LevelCheckrideReady
	case r.Percent >= almostThreshold:
		r.Level = LevelAlmostThere
	}
	return r
}
