package seed

import (
	"context"
	"fmt"
	"time"

	"resumeradar/internal/storage"
	"resumeradar/internal/store"
	"resumeradar/pkg/types"
)

type fakeResumeSeed struct {
	UserID   string
	FileName string
	Status   types.ResumeStatus
	Score    types.Option[int]
	Notes    string
}

var fakeResumes = []fakeResumeSeed{
	{UserID: "seedUser00000000000000000000001a", FileName: "ava-williams-resume.pdf", Status: types.ResumeStatusApproved, Score: types.Some(92), Notes: "Strong format and clear impact statements."},
	{UserID: "seedUser00000000000000000000002b", FileName: "liam-johnson-cv.pdf", Status: types.ResumeStatusApproved, Score: types.Some(85), Notes: "Good structure, tighten the summary."},
	{UserID: "seedUser00000000000000000000003c", FileName: "noah-brown.pdf", Status: types.ResumeStatusNeedsRevision, Score: types.Some(61), Notes: "Quantify results in the experience section."},
	{UserID: "seedUser00000000000000000000004d", FileName: "mia-davis-2025.pdf", Status: types.ResumeStatusRejected, Score: types.Some(0), Notes: "File appears to be a cover letter."},
	{UserID: "seedUser00000000000000000000005e", FileName: "elijah-garcia.pdf", Status: types.ResumeStatusPending},
}

// placeholderPDF is the smallest document most viewers will open.
var placeholderPDF = []byte("%PDF-1.4\n1 0 obj<</Type/Catalog/Pages 2 0 R>>endobj\n" +
	"2 0 obj<</Type/Pages/Kids[3 0 R]/Count 1>>endobj\n" +
	"3 0 obj<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]>>endobj\n" +
	"trailer<</Root 1 0 R>>\n%%EOF\n")

// SeedFakeResumes gives each seeded user one resume. Users that already own a
// resume are skipped so reseeding never duplicates rows.
func SeedFakeResumes(ctx context.Context, resumeRepo *store.ResumeRepository, blobs storage.BlobStore) error {
	reviewer := seedAdminID()
	seeded := 0

	for i, fake := range fakeResumes {
		existing, err := resumeRepo.ResumesByUser(ctx, fake.UserID)
		if err != nil {
			return fmt.Errorf("failed to fetch resumes for fake user %s: %w", fake.UserID, err)
		}
		if len(existing) > 0 {
			continue
		}

		location, err := blobs.Put(ctx, fmt.Sprintf("resumes/%s/seed.pdf", fake.UserID), "application/pdf", placeholderPDF)
		if err != nil {
			return fmt.Errorf("failed to store fake resume for %s: %w", fake.UserID, err)
		}

		resume := &types.Resume{
			UserID:   fake.UserID,
			FileName: fake.FileName,
			FileURL:  location,
			FileSize: int64(len(placeholderPDF)),
		}

		if err := resumeRepo.CreateResume(ctx, resume); err != nil {
			return fmt.Errorf("failed to create fake resume for %s: %w", fake.UserID, err)
		}

		if fake.Status != types.ResumeStatusPending {
			_, _, err := resumeRepo.ApplyReview(ctx, resume.ID, types.ResumeReview{
				Status:        fake.Status,
				Score:         fake.Score,
				ReviewerNotes: types.OptionalString(fake.Notes),
				ReviewedBy:    reviewer,
				ReviewedAt:    time.Now().Add(-time.Duration(i) * time.Hour),
			}, types.None[time.Time]())
			if err != nil {
				return fmt.Errorf("failed to review fake resume %s: %w", resume.ID, err)
			}
		}
		seeded++
	}

	fmt.Printf("Fake resumes seeded: %d created\n", seeded)
	return nil
}
