package server

import (
	"errors"
	"net/http"
	"net/url"

	"resumeradar/internal/review"
	"resumeradar/internal/store"
	"resumeradar/internal/views"
	"resumeradar/pkg/types"

	"github.com/sirupsen/logrus"
)

const (
	adminTabPending  = "pending"
	adminTabReviewed = "reviewed"
	adminTabAll      = "all"
	adminTabRequests = "requests"
)

func normalizeAdminTab(tab string) string {
	switch tab {
	case adminTabReviewed, adminTabAll, adminTabRequests:
		return tab
	default:
		return adminTabPending
	}
}

func adminTabFilter(tab string) store.ResumeFilter {
	switch tab {
	case adminTabReviewed:
		return store.ResumeFilter{Reviewed: true}
	case adminTabAll:
		return store.ResumeFilter{}
	default:
		return store.ResumeFilter{Status: types.ResumeStatusPending}
	}
}

func buildAdminTabs(active string, stats types.ResumeStats, pendingRequests int) []types.AdminTab {
	tabs := []types.AdminTab{
		{Key: adminTabPending, Label: "Pending", Count: stats.Pending},
		{Key: adminTabReviewed, Label: "Reviewed", Count: stats.Total - stats.Pending},
		{Key: adminTabAll, Label: "All", Count: stats.Total},
		{Key: adminTabRequests, Label: "Admin Requests", Count: pendingRequests},
	}

	for i := range tabs {
		tabs[i].Active = tabs[i].Key == active
	}

	return tabs
}

func (s *Service) handleAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.notModified(w, r, views.Admin) {
		return
	}

	tab := normalizeAdminTab(r.URL.Query().Get("tab"))

	counts, err := s.resumeRepo.StatusCounts(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch resume status counts")
		s.internalServerError(w)
		return
	}
	stats := types.StatsFromCounts(counts)

	requests, err := s.adminRequestRepo.AllAdminRequests(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch admin requests")
		s.internalServerError(w)
		return
	}

	var pendingRequests int
	for _, request := range requests {
		if request.Status == types.AdminRequestStatusPending {
			pendingRequests++
		}
	}

	data := &types.AdminPageData{
		BasePageData: s.basePageData(r, "Admin Dashboard"),
		Tab:          tab,
		Tabs:         buildAdminTabs(tab, stats, pendingRequests),
		Stats:        stats,
		Statuses:     types.ResumeStatuses,
		MinScore:     types.MinResumeScore,
		MaxScore:     types.MaxResumeScore,
	}

	if tab == adminTabRequests {
		data.AdminRequests = requests
	} else {
		resumes, err := s.resumeRepo.AllResumes(ctx, adminTabFilter(tab))
		if err != nil {
			s.logger.WithError(err).WithField("tab", tab).Error("failed to fetch resumes for admin")
			s.internalServerError(w)
			return
		}
		data.Resumes = resumes
	}

	s.render(w, r, "page.admin", data)
}

func (s *Service) handlePostResumeReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := principalFromContext(ctx)
	resumeID := r.PathValue("id")

	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, "/admin", "invalid form payload")
		return
	}

	var f resumeReviewForm
	if err := decodeForm(&f, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode review form")
		s.redirectWithError(w, r, "/admin", "invalid form payload")
		return
	}

	back := adminPath(normalizeAdminTab(f.Tab))

	in, err := f.input()
	if err == nil {
		_, err = s.reviews.ReviewResume(ctx, principal, resumeID, in)
	}
	if err != nil {
		if errors.Is(err, types.ErrPersistence) {
			s.logger.WithError(err).WithField("resume_id", resumeID).Error("failed to update review")
		}
		s.redirectWithError(w, r, back, review.ErrorMessage(err))
		return
	}

	s.redirectWithNotice(w, r, back, "Review saved")
}

func (s *Service) handlePostAdminRequestReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := principalFromContext(ctx)
	requestID := r.PathValue("id")
	back := adminPath(adminTabRequests)

	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, back, "invalid form payload")
		return
	}

	var f adminRequestReviewForm
	if err := decodeForm(&f, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode admin request review form")
		s.redirectWithError(w, r, back, "invalid form payload")
		return
	}

	updated, err := s.reviews.ReviewAdminRequest(ctx, principal, requestID, types.AdminRequestStatus(f.Status), f.Notes)
	if err != nil {
		if errors.Is(err, types.ErrPersistence) {
			s.logger.WithError(err).WithField("admin_request_id", requestID).Error("failed to review admin request")
		}
		s.redirectWithError(w, r, back, review.ErrorMessage(err))
		return
	}

	s.logger.WithFields(logrus.Fields{
		"admin_request_id": updated.ID,
		"status":           updated.Status,
	}).Debug("admin request decision recorded")

	s.redirectWithNotice(w, r, back, "Admin request "+string(updated.Status))
}

func adminPath(tab string) string {
	v := url.Values{}
	v.Set("tab", tab)
	return "/admin?" + v.Encode()
}
