package review

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"resumeradar/internal/notify"
	"resumeradar/internal/views"
	"resumeradar/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type fakeResumeStore struct {
	mu      sync.Mutex
	resumes map[string]types.Resume
	calls   int
	err     error
}

func (f *fakeResumeStore) ApplyReview(_ context.Context, id string, review types.ResumeReview, expected types.Option[time.Time]) (*types.Resume, *types.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, nil, f.err
	}

	current, ok := f.resumes[id]
	if !ok {
		return nil, nil, types.ErrResumeNotFound
	}

	if at, ok := expected.Get(); ok && !at.Equal(current.UpdatedAt) {
		return nil, nil, types.ErrReviewConflict
	}

	prior := current
	current.Status = review.Status
	current.Score = review.Score
	current.ReviewerNotes = review.ReviewerNotes
	current.ReviewedBy = types.Some(review.ReviewedBy)
	current.ReviewedAt = types.Some(review.ReviewedAt)
	current.UpdatedAt = review.ReviewedAt
	f.resumes[id] = current

	return &prior, &current, nil
}

type fakeUserStore struct {
	users map[string]types.User
}

func (f *fakeUserStore) User(_ context.Context, id string) (*types.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return &u, nil
}

type fakeMailer struct {
	sent []notify.Message
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg notify.Message) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeRevalidator struct {
	keys []string
}

func (f *fakeRevalidator) Revalidate(keys ...string) {
	f.keys = append(f.keys, keys...)
}

type fixture struct {
	service  *Service
	resumes  *fakeResumeStore
	requests *fakeAdminRequestStore
	mailer   *fakeMailer
	views    *fakeRevalidator
	hook     *test.Hook
}

var (
	admin = &types.Principal{UserID: "admin-1", Email: "admin@example.com", IsAdmin: true}
	owner = &types.Principal{UserID: "user-1", Email: "ava@example.com"}
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	f := &fixture{
		resumes: &fakeResumeStore{resumes: map[string]types.Resume{
			"resume-1": {
				ID:        "resume-1",
				UserID:    owner.UserID,
				FileName:  "ava-cv.pdf",
				Status:    types.ResumeStatusPending,
				CreatedAt: reviewTime.Add(-time.Hour),
				UpdatedAt: reviewTime.Add(-time.Hour),
			},
		}},
		requests: newFakeAdminRequestStore(),
		mailer:   &fakeMailer{},
		views:    &fakeRevalidator{},
		hook:     hook,
	}

	users := &fakeUserStore{users: map[string]types.User{
		owner.UserID: {ID: owner.UserID, Email: owner.Email, FullName: types.Some("Ava")},
		admin.UserID: {ID: admin.UserID, Email: admin.Email, IsAdmin: true},
	}}

	f.service = New(logger, f.resumes, users, f.requests, f.mailer, notify.NewComposer("https://resumes.example.com"), f.views)
	f.service.now = func() time.Time { return reviewTime }

	return f
}

func TestReviewResumeApprovesAndNotifiesOnce(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.ReviewResume(context.Background(), admin, "resume-1", ReviewInput{
		Status: types.ResumeStatusApproved,
		Score:  types.Some(92),
		Notes:  "Strong format",
	})
	require.NoError(t, err)

	assert.Equal(t, types.ResumeStatusPending, result.PreviousStatus)
	assert.Equal(t, types.ResumeStatusApproved, result.Resume.Status)
	assert.Equal(t, types.Some(92), result.Resume.Score)
	assert.Equal(t, types.Some("Strong format"), result.Resume.ReviewerNotes)
	assert.Equal(t, types.Some(admin.UserID), result.Resume.ReviewedBy)
	assert.Equal(t, types.Some(reviewTime), result.Resume.ReviewedAt)

	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, owner.Email, msg.To)
	assert.Equal(t, "Resume Review Update - ava-cv.pdf", msg.Subject)
	assert.Contains(t, msg.Text, "Pending")
	assert.Contains(t, msg.Text, "Approved")
	assert.Contains(t, msg.Text, "92")
	assert.Contains(t, msg.Text, "Strong format")

	assert.ElementsMatch(t, []string{views.Admin, views.Dashboard(owner.UserID), views.Leaderboard}, f.views.keys)
}

func TestReviewResumeScoreBounds(t *testing.T) {
	tests := []struct {
		name  string
		score types.Option[int]
		err   error
	}{
		{name: "below range", score: types.Some(-1), err: types.ErrInvalidScore},
		{name: "above range", score: types.Some(101), err: types.ErrInvalidScore},
		{name: "far above range", score: types.Some(150), err: types.ErrInvalidScore},
		{name: "lower bound", score: types.Some(0)},
		{name: "upper bound", score: types.Some(100)},
		{name: "absent", score: types.None[int]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			result, err := f.service.ReviewResume(context.Background(), admin, "resume-1", ReviewInput{
				Status: types.ResumeStatusNeedsRevision,
				Score:  tt.score,
			})

			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				assert.Nil(t, result)
				assert.Zero(t, f.resumes.calls)
				assert.Empty(t, f.mailer.sent)
				assert.Empty(t, f.views.keys)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.score, result.Resume.Score)
		})
	}
}

func TestReviewResumeRejectsBadScoreWithoutSideEffects(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ReviewResume(context.Background(), admin, "resume-1", ReviewInput{
		Status: types.ResumeStatusRejected,
		Score:  types.Some(150),
	})
	require.ErrorIs(t, err, types.ErrInvalidScore)
	assert.Equal(t, "Invalid score", ErrorMessage(err))

	assert.Zero(t, f.resumes.calls)
	assert.Empty(t, f.mailer.sent)
	assert.Equal(t, types.ResumeStatusPending, f.resumes.resumes["resume-1"].Status)
}

func TestReviewResumeRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ReviewResume(context.Background(), admin, "resume-1", ReviewInput{
		Status: types.ResumeStatus("archived"),
	})
	require.ErrorIs(t, err, types.ErrInvalidStatus)
	assert.Zero(t, f.resumes.calls)
}

func TestReviewResumeEveryTransition(t *testing.T) {
	for _, from := range types.ResumeStatuses {
		for _, to := range types.ResumeStatuses {
			t.Run(fmt.Sprintf("%s to %s", from, to), func(t *testing.T) {
				f := newFixture(t)
				r := f.resumes.resumes["resume-1"]
				r.Status = from
				f.resumes.resumes["resume-1"] = r

				result, err := f.service.ReviewResume(context.Background(), admin, "resume-1", ReviewInput{Status: to})
				require.NoError(t, err)
				assert.Equal(t, from, result.PreviousStatus)
				assert.Equal(t, to, result.Resume.Status)
			})
		}
	}
}

func TestReviewResumeRequiresAdmin(t *testing.T) {
	for name, principal := range map[string]*types.Principal{
		"anonymous": nil,
		"non-admin": owner,
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.service.ReviewResume(context.Background(), principal, "resume-1", ReviewInput{
				Status: types.ResumeStatusApproved,
				Score:  types.Some(80),
			})
			require.ErrorIs(t, err, types.ErrUnauthorized)
			assert.Equal(t, "Unauthorized", ErrorMessage(err))

			assert.Zero(t, f.resumes.calls)
			assert.Empty(t, f.mailer.sent)
			assert.Equal(t, types.ResumeStatusPending, f.resumes.resumes["resume-1"].Status)
		})
	}
}

func TestReviewResumeUnknownIDDoesNotCreate(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ReviewResume(context.Background(), admin, "missing", ReviewInput{Status: types.ResumeStatusApproved})
	require.ErrorIs(t, err, types.ErrResumeNotFound)
	assert.Equal(t, "Not found", ErrorMessage(err))

	assert.Len(t, f.resumes.resumes, 1)
	assert.NotContains(t, f.resumes.resumes, "missing")
	assert.Empty(t, f.mailer.sent)
	assert.Empty(t, f.views.keys)
}

func TestReviewResumeSucceedsWhenMailerFails(t *testing.T) {
	f := newFixture(t)
	f.mailer.err = errors.New("smtp unavailable")

	result, err := f.service.ReviewResume(context.Background(), admin, "resume-1", ReviewInput{
		Status: types.ResumeStatusApproved,
		Score:  types.Some(70),
	})
	require.NoError(t, err)
	assert.Equal(t, types.ResumeStatusApproved, result.Resume.Status)
	assert.Equal(t, types.ResumeStatusApproved, f.resumes.resumes["resume-1"].Status)

	var logged *logrus.Entry
	for _, entry := range f.hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel {
			logged = entry
		}
	}
	require.NotNil(t, logged)
	assert.Equal(t, "failed to send resume status email", logged.Message)
	assert.Equal(t, "resume-1", logged.Data["resume_id"])
	assert.Equal(t, owner.UserID, logged.Data["user_id"])

	assert.Contains(t, f.views.keys, views.Leaderboard)
}

func TestReviewResumeSurvivesCanceledRequest(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.ReviewResume(ctx, admin, "resume-1", ReviewInput{Status: types.ResumeStatusRejected})
	require.NoError(t, err)
	assert.Len(t, f.mailer.sent, 1)
}

func TestReviewResumeMissingOwnerIsLogged(t *testing.T) {
	f := newFixture(t)
	r := f.resumes.resumes["resume-1"]
	r.UserID = "ghost"
	f.resumes.resumes["resume-1"] = r

	_, err := f.service.ReviewResume(context.Background(), admin, "resume-1", ReviewInput{Status: types.ResumeStatusApproved})
	require.NoError(t, err)
	assert.Empty(t, f.mailer.sent)

	entry := f.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.ErrorIs(t, entry.Data[logrus.ErrorKey].(error), types.ErrUserNotFound)
}

func TestReviewResumeConflict(t *testing.T) {
	f := newFixture(t)
	stale := reviewTime.Add(-2 * time.Hour)

	_, err := f.service.ReviewResume(context.Background(), admin, "resume-1", ReviewInput{
		Status:            types.ResumeStatusApproved,
		ExpectedUpdatedAt: types.Some(stale),
	})
	require.ErrorIs(t, err, types.ErrReviewConflict)
	assert.Equal(t, "Review conflict", ErrorMessage(err))
	assert.Equal(t, types.ResumeStatusPending, f.resumes.resumes["resume-1"].Status)

	current := f.resumes.resumes["resume-1"].UpdatedAt
	_, err = f.service.ReviewResume(context.Background(), admin, "resume-1", ReviewInput{
		Status:            types.ResumeStatusApproved,
		ExpectedUpdatedAt: types.Some(current),
	})
	require.NoError(t, err)
}

func TestReviewResumeWrapsStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.resumes.err = errors.New("connection reset")

	_, err := f.service.ReviewResume(context.Background(), admin, "resume-1", ReviewInput{Status: types.ResumeStatusApproved})
	require.ErrorIs(t, err, types.ErrPersistence)
	assert.Equal(t, "Failed to update review", ErrorMessage(err))
	assert.Empty(t, f.mailer.sent)
}

func TestReviewResumeClearsBlankNotes(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.ReviewResume(context.Background(), admin, "resume-1", ReviewInput{
		Status: types.ResumeStatusNeedsRevision,
		Notes:  "   ",
	})
	require.NoError(t, err)
	assert.False(t, result.Resume.ReviewerNotes.Valid())
}
