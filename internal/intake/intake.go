// Package intake accepts resume uploads. Files are validated, written to the
// blob store and recorded as pending resumes owned by the uploader.
package intake

import (
	"context"
	"fmt"
	"path"
	"strings"

	"resumeradar/internal/storage"
	"resumeradar/internal/utils"
	"resumeradar/internal/views"
	"resumeradar/pkg/types"

	"github.com/sirupsen/logrus"
)

const (
	MaxFileSize     = 10 << 20
	MaxFileNameSize = 255
	PDFContentType  = "application/pdf"
)

// ValidationError carries the message shown to the uploader.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	errNotPDF      = &ValidationError{Message: "Only PDF files are allowed"}
	errFileSize    = &ValidationError{Message: "File size must be less than 10MB"}
	errInvalidName = &ValidationError{Message: "Invalid file name"}
)

// Validate checks an upload before any bytes are stored.
func Validate(fileName, contentType string, size int64) error {
	if contentType != PDFContentType {
		return errNotPDF
	}

	if size <= 0 || size > MaxFileSize {
		return errFileSize
	}

	name := strings.TrimSpace(fileName)
	if name == "" || len(name) > MaxFileNameSize {
		return errInvalidName
	}

	return nil
}

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type ResumeStore interface {
	CreateResume(ctx context.Context, resume *types.Resume) error
}

type Service struct {
	logger  *logrus.Logger
	blobs   storage.BlobStore
	resumes ResumeStore
	views   views.Revalidator
}

func New(logger *logrus.Logger, blobs storage.BlobStore, resumes ResumeStore, revalidator views.Revalidator) *Service {
	return &Service{
		logger:  logger,
		blobs:   blobs,
		resumes: resumes,
		views:   revalidator,
	}
}

// Upload stores the file and creates a pending resume for the principal.
func (s *Service) Upload(ctx context.Context, principal *types.Principal, file File) (*types.Resume, error) {
	if principal == nil {
		return nil, types.ErrUnauthorized
	}

	if err := Validate(file.Name, file.ContentType, int64(len(file.Data))); err != nil {
		return nil, err
	}

	key := objectKey(principal.UserID)

	location, err := s.blobs.Put(ctx, key, file.ContentType, file.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to store resume file: %w", err)
	}

	resume := &types.Resume{
		UserID:   principal.UserID,
		FileName: path.Base(strings.TrimSpace(file.Name)),
		FileURL:  location,
		FileSize: int64(len(file.Data)),
	}

	if err := s.resumes.CreateResume(ctx, resume); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"resume_id": resume.ID,
		"user_id":   resume.UserID,
		"file_size": resume.FileSize,
	}).Info("resume uploaded")

	s.views.Revalidate(views.Admin, views.Dashboard(principal.UserID))

	return resume, nil
}

func objectKey(userID string) string {
	return fmt.Sprintf("resumes/%s/%s.pdf", userID, utils.NanoID())
}
