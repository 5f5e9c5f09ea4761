package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resumeradar/internal/utils"
	"resumeradar/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const resumeTableName = "resumeradar.resumes"

var resumeColumns = utils.StructTagValues(types.Resume{})

type ResumeRepository struct {
	pool *pgxpool.Pool
}

func NewResumeRepository(pool *pgxpool.Pool) *ResumeRepository {
	return &ResumeRepository{pool: pool}
}

// ResumeFilter narrows the admin listing. A zero value lists everything.
type ResumeFilter struct {
	Status   types.ResumeStatus
	Reviewed bool
}

func (r *ResumeRepository) Resume(ctx context.Context, resumeID string) (*types.Resume, error) {
	query, args, err := psql().
		Select(resumeColumns...).
		From(resumeTableName).
		Where(sq.Eq{"id": resumeID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate resume query: %w", err)
	}

	var resume = new(types.Resume)
	err = pgxscan.Get(ctx, r.pool, resume, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to fetch resume: %w", err)
	}

	return resume, nil
}

func (r *ResumeRepository) ResumesByUser(ctx context.Context, userID string) ([]*types.Resume, error) {
	query, args, err := psql().
		Select(resumeColumns...).
		From(resumeTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate resumes by user query: %w", err)
	}

	var resumes = make([]*types.Resume, 0)
	err = pgxscan.Select(ctx, r.pool, &resumes, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resumes for user: %w", err)
	}

	return resumes, nil
}

func (r *ResumeRepository) AllResumes(ctx context.Context, filter ResumeFilter) ([]*types.ResumeWithOwner, error) {
	query, args, err := allResumesQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to generate all resumes query: %w", err)
	}

	var resumes = make([]*types.ResumeWithOwner, 0)
	err = pgxscan.Select(ctx, r.pool, &resumes, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resumes: %w", err)
	}

	return resumes, nil
}

func allResumesQuery(filter ResumeFilter) (string, []any, error) {
	columns := append(utils.PrefixColumns("r", resumeColumns),
		"u.email AS owner_email",
		"u.full_name AS owner_full_name",
	)

	builder := psql().
		Select(columns...).
		From(resumeTableName + " r").
		Join(userTableName + " u ON u.id = r.user_id").
		OrderBy("r.created_at DESC")

	switch {
	case filter.Status != "":
		builder = builder.Where(sq.Eq{"r.status": filter.Status})
	case filter.Reviewed:
		builder = builder.Where(sq.NotEq{"r.status": types.ResumeStatusPending})
	}

	return builder.ToSql()
}

func (r *ResumeRepository) CreateResume(ctx context.Context, resume *types.Resume) error {
	now := time.Now()
	resume.ID = utils.NanoID()
	resume.Status = types.ResumeStatusPending
	resume.Score = types.None[int]()
	resume.ReviewerNotes = types.None[string]()
	resume.ReviewedBy = types.None[string]()
	resume.ReviewedAt = types.None[time.Time]()
	resume.CreatedAt = now
	resume.UpdatedAt = now

	query, args, err := psql().
		Insert(resumeTableName).
		SetMap(utils.StructToMap(resume)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert resume query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create resume")
}

// ApplyReview writes a review onto one resume inside a transaction and
// returns the row as it was before and after the write. The prior row is
// locked while the update runs, so a present expectedUpdatedAt is compared
// against a stable value.
func (r *ResumeRepository) ApplyReview(
	ctx context.Context,
	resumeID string,
	review types.ResumeReview,
	expectedUpdatedAt types.Option[time.Time],
) (prior *types.Resume, updated *types.Resume, err error) {

	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := psql().
			Select(resumeColumns...).
			From(resumeTableName).
			Where(sq.Eq{"id": resumeID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate lock resume query: %w", err)
		}

		prior = new(types.Resume)
		err = pgxscan.Get(ctx, tx, prior, query, args...)
		if err != nil {
			if pgxscan.NotFound(err) {
				return types.ErrResumeNotFound
			}
			return fmt.Errorf("failed to lock resume: %w", err)
		}

		if expected, ok := expectedUpdatedAt.Get(); ok && !prior.UpdatedAt.Equal(expected) {
			return types.ErrReviewConflict
		}

		query, args, err = reviewUpdateQuery(resumeID, review, time.Now())
		if err != nil {
			return fmt.Errorf("failed to generate review update query: %w", err)
		}

		updated = new(types.Resume)
		err = pgxscan.Get(ctx, tx, updated, query, args...)
		return utils.ErrorWrapOrNil(err, "failed to update resume review")
	})
	if err != nil {
		if errors.Is(err, types.ErrResumeNotFound) || errors.Is(err, types.ErrReviewConflict) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to apply review to resume %s: %w", resumeID, err)
	}

	return prior, updated, nil
}

func reviewUpdateQuery(resumeID string, review types.ResumeReview, now time.Time) (string, []any, error) {
	return psql().
		Update(resumeTableName).
		SetMap(map[string]any{
			"status":         review.Status,
			"score":          review.Score,
			"reviewer_notes": review.ReviewerNotes,
			"reviewed_by":    review.ReviewedBy,
			"reviewed_at":    review.ReviewedAt,
			"updated_at":     now,
		}).
		Where(sq.Eq{"id": resumeID}).
		Suffix("RETURNING " + strings.Join(resumeColumns, ", ")).
		ToSql()
}

func (r *ResumeRepository) Leaderboard(ctx context.Context, limit uint64) ([]*types.LeaderboardEntry, error) {
	query, args, err := leaderboardQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to generate leaderboard query: %w", err)
	}

	var entries = make([]*types.LeaderboardEntry, 0)
	err = pgxscan.Select(ctx, r.pool, &entries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}

	return entries, nil
}

// Ties on score go to the more recent review.
func leaderboardQuery(limit uint64) (string, []any, error) {
	return psql().
		Select(
			"r.id",
			"r.user_id",
			"r.file_name",
			"r.score",
			"r.reviewed_at",
			"u.email AS owner_email",
			"u.full_name AS owner_full_name",
		).
		From(resumeTableName + " r").
		Join(userTableName + " u ON u.id = r.user_id").
		Where(sq.NotEq{"r.score": nil}).
		OrderBy("r.score DESC", "r.reviewed_at DESC NULLS LAST").
		Limit(limit).
		ToSql()
}

type statusCount struct {
	Status types.ResumeStatus `db:"status"`
	Count  int                `db:"count"`
}

func (r *ResumeRepository) StatusCounts(ctx context.Context) (map[types.ResumeStatus]int, error) {
	query, args, err := psql().
		Select("status", "count(*) AS count").
		From(resumeTableName).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate status counts query: %w", err)
	}

	var rows []statusCount
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count resumes by status: %w", err)
	}

	counts := make(map[types.ResumeStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
