package server

import (
	"errors"
	"io"
	"net/http"

	"resumeradar/internal/intake"
	"resumeradar/internal/views"
	"resumeradar/pkg/types"
)

func (s *Service) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := principalFromContext(ctx)

	if s.notModified(w, r, views.Dashboard(principal.UserID)) {
		return
	}

	resumes, err := s.resumeRepo.ResumesByUser(ctx, principal.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", principal.UserID).Error("failed to fetch resumes for dashboard")
		s.internalServerError(w)
		return
	}

	pending, err := s.adminRequestRepo.PendingByUser(ctx, principal.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", principal.UserID).Error("failed to fetch pending admin request")
		s.internalServerError(w)
		return
	}

	data := &types.DashboardPageData{
		BasePageData:  s.basePageData(r, "My Resumes"),
		Resumes:       resumes,
		Stats:         types.SummarizeResumes(resumes),
		MaxUploadMB:   intake.MaxFileSize >> 20,
		AdminRequest:  pending,
		ShowAdminLink: principal.IsAdmin,
	}

	s.render(w, r, "page.dashboard", data)
}

func (s *Service) handlePostResume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := principalFromContext(ctx)

	// Leave headroom for the multipart envelope so an oversized file is
	// reported by intake validation rather than a parse failure.
	r.Body = http.MaxBytesReader(w, r.Body, intake.MaxFileSize+(1<<20))
	if err := r.ParseMultipartForm(intake.MaxFileSize); err != nil {
		s.logger.WithError(err).Info("failed to parse upload form")
		s.redirectWithError(w, r, "/dashboard", "File size must be less than 10MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.redirectWithError(w, r, "/dashboard", "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.WithError(err).Error("failed to read uploaded file")
		s.redirectWithError(w, r, "/dashboard", "Failed to upload file")
		return
	}

	_, err = s.intake.Upload(ctx, principal, intake.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			s.redirectWithError(w, r, "/dashboard", verr.Message)
			return
		}

		s.logger.WithError(err).WithField("user_id", principal.UserID).Error("failed to upload resume")
		s.redirectWithError(w, r, "/dashboard", "Failed to upload file")
		return
	}

	s.redirectWithNotice(w, r, "/dashboard", "Resume uploaded successfully")
}
