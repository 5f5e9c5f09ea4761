// Package review applies administrator verdicts to resumes and admin
// requests. The stored change is authoritative: notification and view
// invalidation run after it commits and can never undo or fail it.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resumeradar/internal/notify"
	"resumeradar/internal/views"
	"resumeradar/pkg/types"

	"github.com/sirupsen/logrus"
)

type ResumeStore interface {
	ApplyReview(ctx context.Context, resumeID string, review types.ResumeReview, expectedUpdatedAt types.Option[time.Time]) (prior *types.Resume, updated *types.Resume, err error)
}

type UserStore interface {
	User(ctx context.Context, userID string) (*types.User, error)
}

type AdminRequestStore interface {
	PendingByUser(ctx context.Context, userID string) (*types.AdminRequest, error)
	CreateAdminRequest(ctx context.Context, request *types.AdminRequest) error
	ApplyReview(ctx context.Context, requestID string, review types.AdminRequestReview) (*types.AdminRequest, error)
}

type Service struct {
	logger        *logrus.Logger
	resumes       ResumeStore
	users         UserStore
	adminRequests AdminRequestStore
	mailer        notify.Mailer
	composer      *notify.Composer
	views         views.Revalidator

	now func() time.Time
}

func New(
	logger *logrus.Logger,
	resumes ResumeStore,
	users UserStore,
	adminRequests AdminRequestStore,
	mailer notify.Mailer,
	composer *notify.Composer,
	revalidator views.Revalidator,
) *Service {
	return &Service{
		logger:        logger,
		resumes:       resumes,
		users:         users,
		adminRequests: adminRequests,
		mailer:        mailer,
		composer:      composer,
		views:         revalidator,
		now:           time.Now,
	}
}

// ReviewInput is a reviewer's verdict. ExpectedUpdatedAt, when present, must
// equal the stored updated_at or the review is refused with
// types.ErrReviewConflict; when absent the last write wins.
type ReviewInput struct {
	Status            types.ResumeStatus
	Score             types.Option[int]
	Notes             string
	ExpectedUpdatedAt types.Option[time.Time]
}

// Result describes a committed review. It deliberately has no notification
// outcome: delivery failures are logged and are not reportable to callers.
type Result struct {
	Resume         *types.Resume
	PreviousStatus types.ResumeStatus
}

func (in ReviewInput) validate() error {
	if !in.Status.Valid() {
		return types.ErrInvalidStatus
	}

	if score, ok := in.Score.Get(); ok && (score < types.MinResumeScore || score > types.MaxResumeScore) {
		return types.ErrInvalidScore
	}

	return nil
}

// ReviewResume authorizes the principal, validates the verdict and writes it
// in one atomic update. The owner is then emailed on a best-effort basis and
// the admin, dashboard and leaderboard views are revalidated.
func (s *Service) ReviewResume(ctx context.Context, principal *types.Principal, resumeID string, in ReviewInput) (*Result, error) {
	if principal == nil || !principal.IsAdmin {
		return nil, types.ErrUnauthorized
	}

	if err := in.validate(); err != nil {
		return nil, err
	}

	review := types.ResumeReview{
		Status:        in.Status,
		Score:         in.Score,
		ReviewerNotes: types.OptionalString(strings.TrimSpace(in.Notes)),
		ReviewedBy:    principal.UserID,
		ReviewedAt:    s.now(),
	}

	prior, updated, err := s.resumes.ApplyReview(ctx, resumeID, review, in.ExpectedUpdatedAt)
	if err != nil {
		if errors.Is(err, types.ErrResumeNotFound) || errors.Is(err, types.ErrReviewConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", types.ErrPersistence, err)
	}

	s.logger.WithFields(logrus.Fields{
		"resume_id":   updated.ID,
		"reviewer_id": principal.UserID,
		"old_status":  prior.Status,
		"new_status":  updated.Status,
	}).Info("resume reviewed")

	s.notifyResumeOwner(ctx, prior, updated)

	s.views.Revalidate(views.Admin, views.Dashboard(updated.UserID), views.Leaderboard)

	return &Result{Resume: updated, PreviousStatus: prior.Status}, nil
}

func (s *Service) notifyResumeOwner(ctx context.Context, prior, updated *types.Resume) {
	ctx = context.WithoutCancel(ctx)

	logger := s.logger.WithFields(logrus.Fields{
		"resume_id": updated.ID,
		"user_id":   updated.UserID,
	})

	owner, err := s.users.User(ctx, updated.UserID)
	if err != nil {
		logger.WithError(err).Error("failed to load resume owner for status email")
		return
	}

	msg, err := s.composer.ResumeStatus(owner.Email, notify.ResumeStatusEmail{
		UserName:  owner.FullName.OrZero(),
		FileName:  updated.FileName,
		OldStatus: prior.Status,
		NewStatus: updated.Status,
		Score:     updated.Score,
		Notes:     updated.ReviewerNotes,
	})
	if err != nil {
		logger.WithError(err).Error("failed to render resume status email")
		return
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.WithError(err).Error("failed to send resume status email")
		return
	}

	logger.Debug("resume status email sent")
}

// ErrorMessage maps a review error onto the message shown to reviewers.
func ErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, types.ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, types.ErrResumeNotFound), errors.Is(err, types.ErrAdminRequestNotFound):
		return "Not found"
	case errors.Is(err, types.ErrInvalidScore):
		return "Invalid score"
	case errors.Is(err, types.ErrInvalidStatus):
		return "Invalid status"
	case errors.Is(err, types.ErrReviewConflict):
		return "Review conflict"
	default:
		return "Failed to update review"
	}
}
