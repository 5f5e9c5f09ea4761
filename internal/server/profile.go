package server

import (
	"errors"
	"net/http"
	"strings"

	"resumeradar/internal/views"
	"resumeradar/pkg/types"
)

const maxFullNameLength = 100

func (s *Service) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := principalFromContext(ctx)

	user, err := s.userRepo.User(ctx, principal.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", principal.UserID).Error("failed to fetch user for profile")
		s.internalServerError(w)
		return
	}

	requests, err := s.adminRequestRepo.AdminRequestsByUser(ctx, principal.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", principal.UserID).Error("failed to fetch admin requests for profile")
		s.internalServerError(w)
		return
	}

	canRequest := !user.IsAdmin
	for _, request := range requests {
		if request.Status == types.AdminRequestStatusPending {
			canRequest = false
		}
	}

	data := &types.ProfilePageData{
		BasePageData:  s.basePageData(r, "My Profile"),
		User:          user,
		AdminRequests: requests,
		CanRequest:    canRequest,
	}

	s.render(w, r, "page.profile", data)
}

func (s *Service) handlePostProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := principalFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		s.redirectProfileWithError(w, r, "invalid form payload")
		return
	}

	var f profileForm
	if err := decodeForm(&f, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode profile form")
		s.redirectProfileWithError(w, r, "invalid form payload")
		return
	}

	fullName := strings.TrimSpace(f.FullName)
	if len(fullName) > maxFullNameLength {
		s.redirectProfileWithError(w, r, "Name must be 100 characters or fewer.")
		return
	}

	if err := s.userRepo.UpdateFullName(ctx, principal.UserID, fullName); err != nil {
		s.logger.WithError(err).WithField("user_id", principal.UserID).Error("failed to update full name")
		s.redirectProfileWithError(w, r, "Could not update your profile. Please try again.")
		return
	}

	// Names appear on the leaderboard and in the admin tables.
	s.views.Revalidate(views.Admin, views.Leaderboard, views.Dashboard(principal.UserID))

	s.redirectProfileWithNotice(w, r, "Profile updated.")
}

func (s *Service) handlePostAdminRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := principalFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		s.redirectProfileWithError(w, r, "invalid form payload")
		return
	}

	var f adminRequestForm
	if err := decodeForm(&f, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode admin request form")
		s.redirectProfileWithError(w, r, "invalid form payload")
		return
	}

	_, err := s.reviews.SubmitAdminRequest(ctx, principal, f.Reason)
	switch {
	case err == nil:
		s.redirectProfileWithNotice(w, r, "Admin access requested. You will be emailed once it is reviewed.")
	case errors.Is(err, types.ErrReasonRequired):
		s.redirectProfileWithError(w, r, "Please tell us why you need admin access.")
	case errors.Is(err, types.ErrPendingAdminRequest):
		s.redirectProfileWithError(w, r, "You already have a pending admin request.")
	case errors.Is(err, types.ErrAlreadyAdmin):
		s.redirectProfileWithError(w, r, "You already have admin access.")
	default:
		s.logger.WithError(err).WithField("user_id", principal.UserID).Error("failed to submit admin request")
		s.redirectProfileWithError(w, r, "Could not submit your request. Please try again.")
	}
}

func (s *Service) redirectProfileWithNotice(w http.ResponseWriter, r *http.Request, notice string) {
	s.redirectWithNotice(w, r, "/profile", notice)
}

func (s *Service) redirectProfileWithError(w http.ResponseWriter, r *http.Request, msg string) {
	s.redirectWithError(w, r, "/profile", msg)
}
