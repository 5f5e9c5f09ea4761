package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"resumeradar/pkg/types"
)

// handleResumeFile streams a stored resume to its owner or to an admin.
func (s *Service) handleResumeFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := principalFromContext(ctx)
	resumeID := r.PathValue("id")

	resume, err := s.resumeRepo.Resume(ctx, resumeID)
	if err != nil {
		if errors.Is(err, types.ErrResumeNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.WithError(err).WithField("resume_id", resumeID).Error("failed to fetch resume")
		s.internalServerError(w)
		return
	}

	if !canViewResume(principal, resume) {
		http.NotFound(w, r)
		return
	}

	obj, err := s.blobs.Fetch(ctx, resume.FileURL)
	if err != nil {
		s.logger.WithError(err).WithField("resume_id", resumeID).Error("failed to fetch resume file")
		s.internalServerError(w)
		return
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", resume.FileName))
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}

	if _, err := io.Copy(w, obj.Body); err != nil {
		s.logger.WithError(err).WithField("resume_id", resumeID).Warn("failed to stream resume file")
	}
}

func canViewResume(principal *types.Principal, resume *types.Resume) bool {
	if principal == nil {
		return false
	}
	return principal.IsAdmin || principal.UserID == resume.UserID
}
