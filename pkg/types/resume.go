package types

import "time"

type ResumeStatus string

const (
	ResumeStatusPending       ResumeStatus = "pending"
	ResumeStatusApproved      ResumeStatus = "approved"
	ResumeStatusNeedsRevision ResumeStatus = "needs_revision"
	ResumeStatusRejected      ResumeStatus = "rejected"
)

var ResumeStatuses = []ResumeStatus{
	ResumeStatusPending,
	ResumeStatusApproved,
	ResumeStatusNeedsRevision,
	ResumeStatusRejected,
}

func (s ResumeStatus) Valid() bool {
	for _, status := range ResumeStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s ResumeStatus) Label() string {
	switch s {
	case ResumeStatusPending:
		return "Pending Review"
	case ResumeStatusApproved:
		return "Approved"
	case ResumeStatusNeedsRevision:
		return "Needs Revision"
	case ResumeStatusRejected:
		return "Rejected"
	default:
		return string(s)
	}
}

const (
	MinResumeScore = 0
	MaxResumeScore = 100
)

type Resume struct {
	ID            string            `db:"id"`
	UserID        string            `db:"user_id"`
	FileName      string            `db:"file_name"`
	FileURL       string            `db:"file_url"`
	FileSize      int64             `db:"file_size"`
	Status        ResumeStatus      `db:"status"`
	Score         Option[int]       `db:"score"`
	ReviewerNotes Option[string]    `db:"reviewer_notes"`
	ReviewedBy    Option[string]    `db:"reviewed_by"`
	ReviewedAt    Option[time.Time] `db:"reviewed_at"`
	CreatedAt     time.Time         `db:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at"`
}

// ResumeWithOwner is a resume joined with the owner's contact columns.
type ResumeWithOwner struct {
	Resume
	OwnerEmail    string         `db:"owner_email"`
	OwnerFullName Option[string] `db:"owner_full_name"`
}

// ResumeReview is the field set written by a single review transition.
type ResumeReview struct {
	Status        ResumeStatus
	Score         Option[int]
	ReviewerNotes Option[string]
	ReviewedBy    string
	ReviewedAt    time.Time
}

type LeaderboardEntry struct {
	ResumeID      string            `db:"id"`
	UserID        string            `db:"user_id"`
	FileName      string            `db:"file_name"`
	Score         int               `db:"score"`
	ReviewedAt    Option[time.Time] `db:"reviewed_at"`
	OwnerEmail    string            `db:"owner_email"`
	OwnerFullName Option[string]    `db:"owner_full_name"`
}

func (e *LeaderboardEntry) DisplayName() string {
	if name, ok := e.OwnerFullName.Get(); ok && name != "" {
		return name
	}
	return e.OwnerEmail
}

type ResumeStats struct {
	Total         int
	Pending       int
	Approved      int
	NeedsRevision int
	Rejected      int
	Scored        int
	AverageScore  float64
}

// SummarizeResumes tallies statuses and averages the scores that are present.
func SummarizeResumes(resumes []*Resume) ResumeStats {
	var stats ResumeStats
	var scoreSum int

	for _, resume := range resumes {
		stats.Total++
		stats.add(resume.Status, 1)

		if score, ok := resume.Score.Get(); ok {
			stats.Scored++
			scoreSum += score
		}
	}

	if stats.Scored > 0 {
		stats.AverageScore = float64(scoreSum) / float64(stats.Scored)
	}

	return stats
}

func (s *ResumeStats) add(status ResumeStatus, n int) {
	switch status {
	case ResumeStatusPending:
		s.Pending += n
	case ResumeStatusApproved:
		s.Approved += n
	case ResumeStatusNeedsRevision:
		s.NeedsRevision += n
	case ResumeStatusRejected:
		s.Rejected += n
	}
}

// StatsFromCounts builds stats from per-status row counts.
func StatsFromCounts(counts map[ResumeStatus]int) ResumeStats {
	var stats ResumeStats
	for status, n := range counts {
		stats.Total += n
		stats.add(status, n)
	}
	return stats
}
