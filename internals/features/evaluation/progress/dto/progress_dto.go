package dto

// Progress is the element-level completion summary of one session.
type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Issues     int `json:"issues"`
	Percentage int `json:"percentage"`
}

// Readiness classifies checkride preparedness from task-level feedback tags.
type Readiness struct {
	Percent int    `json:"percent"`
	Level   string `json:"level"`
}
