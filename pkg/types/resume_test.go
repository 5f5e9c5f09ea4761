package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResumeStatusValid(t *testing.T) {
	for _, status := range ResumeStatuses {
		assert.True(t, status.Valid(), status)
	}
	assert.False(t, ResumeStatus("archived").Valid())
	assert.False(t, ResumeStatus("").Valid())
	assert.False(t, ResumeStatus("Approved").Valid())
}

func TestSummarizeResumes(t *testing.T) {
	resumes := []*Resume{
		{Status: ResumeStatusPending},
		{Status: ResumeStatusApproved, Score: Some(90)},
		{Status: ResumeStatusApproved, Score: Some(0)},
		{Status: ResumeStatusRejected, Score: Some(30)},
		{Status: ResumeStatusNeedsRevision},
	}

	stats := SummarizeResumes(resumes)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 2, stats.Approved)
	assert.Equal(t, 1, stats.NeedsRevision)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 3, stats.Scored)
	assert.InDelta(t, 40.0, stats.AverageScore, 0.001)
}

func TestSummarizeResumesEmpty(t *testing.T) {
	assert.Equal(t, ResumeStats{}, SummarizeResumes(nil))
}

func TestStatsFromCounts(t *testing.T) {
	stats := StatsFromCounts(map[ResumeStatus]int{
		ResumeStatusPending:  4,
		ResumeStatusApproved: 2,
	})
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 4, stats.Pending)
	assert.Equal(t, 2, stats.Approved)
}
