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

const adminRequestTableName = "resumeradar.admin_requests"

var adminRequestColumns = utils.StructTagValues(types.AdminRequest{})

type AdminRequestRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRequestRepository(pool *pgxpool.Pool) *AdminRequestRepository {
	return &AdminRequestRepository{pool: pool}
}

func (r *AdminRequestRepository) CreateAdminRequest(ctx context.Context, request *types.AdminRequest) error {
	now := time.Now()
	request.ID = utils.NanoID()
	request.Status = types.AdminRequestStatusPending
	request.CreatedAt = now
	request.UpdatedAt = now

	query, args, err := psql().
		Insert(adminRequestTableName).
		SetMap(utils.StructToMap(request)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert admin request query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrPendingAdminRequest
		}
		return fmt.Errorf("failed to create admin request: %w", err)
	}

	return nil
}

// PendingByUser returns the user's open request, or nil when there is none.
func (r *AdminRequestRepository) PendingByUser(ctx context.Context, userID string) (*types.AdminRequest, error) {
	query, args, err := psql().
		Select(adminRequestColumns...).
		From(adminRequestTableName).
		Where(sq.Eq{"user_id": userID, "status": types.AdminRequestStatusPending}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pending admin request query: %w", err)
	}

	var request types.AdminRequest
	err = pgxscan.Get(ctx, r.pool, &request, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch pending admin request: %w", err)
	}

	return &request, nil
}

func (r *AdminRequestRepository) AdminRequestsByUser(ctx context.Context, userID string) ([]*types.AdminRequest, error) {
	query, args, err := psql().
		Select(adminRequestColumns...).
		From(adminRequestTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate admin requests by user query: %w", err)
	}

	var requests = make([]*types.AdminRequest, 0)
	if err := pgxscan.Select(ctx, r.pool, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch admin requests for user: %w", err)
	}

	return requests, nil
}

func (r *AdminRequestRepository) AllAdminRequests(ctx context.Context) ([]*types.AdminRequestWithUser, error) {
	columns := append(utils.PrefixColumns("a", adminRequestColumns),
		"u.email AS requester_email",
		"u.full_name AS requester_full_name",
	)

	query, args, err := psql().
		Select(columns...).
		From(adminRequestTableName + " a").
		Join(userTableName + " u ON u.id = a.user_id").
		OrderBy("a.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate admin requests query: %w", err)
	}

	var requests = make([]*types.AdminRequestWithUser, 0)
	if err := pgxscan.Select(ctx, r.pool, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch admin requests: %w", err)
	}

	return requests, nil
}

// ApplyReview records the decision and, for approvals, grants the requester
// the admin flag in the same transaction.
func (r *AdminRequestRepository) ApplyReview(ctx context.Context, requestID string, review types.AdminRequestReview) (*types.AdminRequest, error) {
	var updated = new(types.AdminRequest)

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := psql().
			Update(adminRequestTableName).
			SetMap(map[string]any{
				"status":      review.Status,
				"admin_notes": review.AdminNotes,
				"reviewed_by": review.ReviewedBy,
				"reviewed_at": review.ReviewedAt,
				"updated_at":  review.ReviewedAt,
			}).
			Where(sq.Eq{"id": requestID}).
			Suffix("RETURNING " + strings.Join(adminRequestColumns, ", ")).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate review admin request query: %w", err)
		}

		err = pgxscan.Get(ctx, tx, updated, query, args...)
		if err != nil {
			if pgxscan.NotFound(err) {
				return types.ErrAdminRequestNotFound
			}
			return fmt.Errorf("failed to update admin request: %w", err)
		}

		if review.Status != types.AdminRequestStatusApproved {
			return nil
		}

		query, args, err = psql().
			Update(userTableName).
			Set("is_admin", true).
			Set("updated_at", review.ReviewedAt).
			Where(sq.Eq{"id": updated.UserID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate grant admin query: %w", err)
		}

		_, err = tx.Exec(ctx, query, args...)
		return utils.ErrorWrapOrNil(err, "failed to grant admin")
	})
	if err != nil {
		if errors.Is(err, types.ErrAdminRequestNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to apply review to admin request %s: %w", requestID, err)
	}

	return updated, nil
}
