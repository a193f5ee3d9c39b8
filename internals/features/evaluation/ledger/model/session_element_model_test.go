package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name        string
		performance string
		want        string
	}{
		{"satisfactory maps to completed", PerformanceSatisfactory, StatusCompleted},
		{"unsatisfactory maps to issue", PerformanceUnsatisfactory, StatusIssue},
		{"not-observed maps to in-progress", PerformanceNotObserved, StatusInProgress},
		{"empty string reads as in-progress", "", StatusInProgress},
		{"unknown value reads as in-progress", "partial", StatusInProgress},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveStatus(tc.performance))
		})
	}
}

func TestValidPerformanceStatus(t *testing.T) {
	assert.True(t, ValidPerformanceStatus(PerformanceSatisfactory))
	assert.True(t, ValidPerformanceStatus(PerformanceUnsatisfactory))
	assert.True(t, ValidPerformanceStatus(PerformanceNotObserved))

	assert.False(t, ValidPerformanceStatus(""))
	assert.False(t, ValidPerformanceStatus("completed"))
	assert.False(t, ValidPerformanceStatus("Satisfactory"))
}
