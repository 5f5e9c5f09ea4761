package store

import (
	"strings"
	"testing"
	"time"

	"resumeradar/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardQuery(t *testing.T) {
	tests := []struct {
		limit  uint64
		suffix string
	}{
		{limit: 1, suffix: "LIMIT 1"},
		{limit: 3, suffix: "LIMIT 3"},
		{limit: 100, suffix: "LIMIT 100"},
	}

	for _, tt := range tests {
		t.Run(tt.suffix, func(t *testing.T) {
			query, args, err := leaderboardQuery(tt.limit)
			require.NoError(t, err)

			assert.Contains(t, query, "WHERE r.score IS NOT NULL")
			assert.Contains(t, query, "JOIN resumeradar.users u ON u.id = r.user_id")
			assert.Empty(t, args)

			// Score first, then the newer review; the limit applies after ordering.
			order := strings.Index(query, "ORDER BY r.score DESC, r.reviewed_at DESC NULLS LAST")
			limit := strings.Index(query, tt.suffix)
			require.GreaterOrEqual(t, order, 0, query)
			require.Greater(t, limit, order, query)
			assert.True(t, strings.HasSuffix(query, tt.suffix), query)
		})
	}
}

func TestReviewUpdateQuery(t *testing.T) {
	reviewedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	review := types.ResumeReview{
		Status:        types.ResumeStatusApproved,
		Score:         types.Some(92),
		ReviewerNotes: types.Some("Strong format"),
		ReviewedBy:    "admin-1",
		ReviewedAt:    reviewedAt,
	}

	query, args, err := reviewUpdateQuery("resume-1", review, reviewedAt)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "UPDATE resumeradar.resumes SET "), query)
	assert.Contains(t, query, "WHERE id = $7")
	assert.Contains(t, query, "RETURNING id, user_id, file_name")
	assert.NotContains(t, strings.ToUpper(query), "INSERT")

	// SetMap orders columns alphabetically.
	require.Len(t, args, 7)
	assert.Equal(t, "admin-1", args[1])
	assert.Equal(t, types.Some("Strong format"), args[2])
	assert.Equal(t, types.Some(92), args[3])
	assert.Equal(t, types.ResumeStatusApproved, args[4])
	assert.Equal(t, "resume-1", args[6])
}

func TestAllResumesQueryFilters(t *testing.T) {
	query, args, err := allResumesQuery(ResumeFilter{})
	require.NoError(t, err)
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)

	query, args, err = allResumesQuery(ResumeFilter{Status: types.ResumeStatusPending})
	require.NoError(t, err)
	assert.Contains(t, query, "WHERE r.status = $1")
	assert.Equal(t, []any{types.ResumeStatusPending}, args)

	query, args, err = allResumesQuery(ResumeFilter{Reviewed: true})
	require.NoError(t, err)
	assert.Contains(t, query, "WHERE r.status <> $1")
	assert.Equal(t, []any{types.ResumeStatusPending}, args)
}

func TestResumeColumns(t *testing.T) {
	assert.Equal(t, []string{
		"id", "user_id", "file_name", "file_url", "file_size", "status",
		"score", "reviewer_notes", "reviewed_by", "reviewed_at", "created_at", "updated_at",
	}, resumeColumns)
}
