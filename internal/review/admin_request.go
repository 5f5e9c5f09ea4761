package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resumeradar/internal/views"
	"resumeradar/pkg/types"

	"github.com/sirupsen/logrus"
)

// SubmitAdminRequest files a request for elevated privileges. A user may
// have at most one pending request.
func (s *Service) SubmitAdminRequest(ctx context.Context, principal *types.Principal, reason string) (*types.AdminRequest, error) {
	if principal == nil {
		return nil, types.ErrUnauthorized
	}

	if principal.IsAdmin {
		return nil, types.ErrAlreadyAdmin
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, types.ErrReasonRequired
	}

	existing, err := s.adminRequests.PendingByUser(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrPersistence, err)
	}

	if existing != nil {
		return nil, types.ErrPendingAdminRequest
	}

	request := &types.AdminRequest{
		UserID: principal.UserID,
		Reason: reason,
	}

	if err := s.adminRequests.CreateAdminRequest(ctx, request); err != nil {
		if errors.Is(err, types.ErrPendingAdminRequest) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", types.ErrPersistence, err)
	}

	s.views.Revalidate(views.Admin)

	return request, nil
}

// ReviewAdminRequest approves or rejects a request. Approval grants the
// requester the admin flag in the same write.
func (s *Service) ReviewAdminRequest(ctx context.Context, principal *types.Principal, requestID string, status types.AdminRequestStatus, notes string) (*types.AdminRequest, error) {
	if principal == nil || !principal.IsAdmin {
		return nil, types.ErrUnauthorized
	}

	if status != types.AdminRequestStatusApproved && status != types.AdminRequestStatusRejected {
		return nil, types.ErrInvalidStatus
	}

	updated, err := s.adminRequests.ApplyReview(ctx, requestID, types.AdminRequestReview{
		Status:     status,
		AdminNotes: types.OptionalString(strings.TrimSpace(notes)),
		ReviewedBy: principal.UserID,
		ReviewedAt: s.now(),
	})
	if err != nil {
		if errors.Is(err, types.ErrAdminRequestNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", types.ErrPersistence, err)
	}

	s.logger.WithFields(logrus.Fields{
		"admin_request_id": updated.ID,
		"reviewer_id":      principal.UserID,
		"status":           updated.Status,
	}).Info("admin request reviewed")

	s.notifyRequester(ctx, updated)

	s.views.Revalidate(views.Admin, views.Dashboard(updated.UserID))

	return updated, nil
}

func (s *Service) notifyRequester(ctx context.Context, request *types.AdminRequest) {
	ctx = context.WithoutCancel(ctx)

	logger := s.logger.WithFields(logrus.Fields{
		"admin_request_id": request.ID,
		"user_id":          request.UserID,
	})

	requester, err := s.users.User(ctx, request.UserID)
	if err != nil {
		logger.WithError(err).Error("failed to load requester for admin request email")
		return
	}

	msg, err := s.composer.AdminRequestDecision(requester.Email, requester.FullName.OrZero(), request.Status, request.AdminNotes)
	if err != nil {
		logger.WithError(err).Error("failed to render admin request email")
		return
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.WithError(err).Error("failed to send admin request email")
	}
}
