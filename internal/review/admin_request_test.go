package review

import (
	"context"
	"fmt"
	"testing"

	"resumeradar/internal/views"
	"resumeradar/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminRequestStore struct {
	requests map[string]types.AdminRequest
	admins   map[string]bool
	seq      int
}

func newFakeAdminRequestStore() *fakeAdminRequestStore {
	return &fakeAdminRequestStore{
		requests: make(map[string]types.AdminRequest),
		admins:   make(map[string]bool),
	}
}

func (f *fakeAdminRequestStore) PendingByUser(_ context.Context, userID string) (*types.AdminRequest, error) {
	for _, r := range f.requests {
		if r.UserID == userID && r.Status == types.AdminRequestStatusPending {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeAdminRequestStore) CreateAdminRequest(_ context.Context, request *types.AdminRequest) error {
	f.seq++
	request.ID = fmt.Sprintf("request-%d", f.seq)
	request.Status = types.AdminRequestStatusPending
	f.requests[request.ID] = *request
	return nil
}

func (f *fakeAdminRequestStore) ApplyReview(_ context.Context, id string, review types.AdminRequestReview) (*types.AdminRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, types.ErrAdminRequestNotFound
	}

	r.Status = review.Status
	r.AdminNotes = review.AdminNotes
	r.ReviewedBy = types.Some(review.ReviewedBy)
	r.ReviewedAt = types.Some(review.ReviewedAt)
	f.requests[id] = r

	if review.Status == types.AdminRequestStatusApproved {
		f.admins[r.UserID] = true
	}

	return &r, nil
}

func TestSubmitAdminRequest(t *testing.T) {
	f := newFixture(t)

	request, err := f.service.SubmitAdminRequest(context.Background(), owner, "  I run the campus career center  ")
	require.NoError(t, err)
	assert.Equal(t, "I run the campus career center", request.Reason)
	assert.Equal(t, types.AdminRequestStatusPending, request.Status)
	assert.Equal(t, []string{views.Admin}, f.views.keys)

	_, err = f.service.SubmitAdminRequest(context.Background(), owner, "again")
	require.ErrorIs(t, err, types.ErrPendingAdminRequest)
}

func TestSubmitAdminRequestValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SubmitAdminRequest(context.Background(), nil, "reason")
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = f.service.SubmitAdminRequest(context.Background(), admin, "reason")
	require.ErrorIs(t, err, types.ErrAlreadyAdmin)

	_, err = f.service.SubmitAdminRequest(context.Background(), owner, " ")
	require.ErrorIs(t, err, types.ErrReasonRequired)

	assert.Empty(t, f.requests.requests)
}

func TestReviewAdminRequestApprove(t *testing.T) {
	f := newFixture(t)

	request, err := f.service.SubmitAdminRequest(context.Background(), owner, "career coach")
	require.NoError(t, err)

	updated, err := f.service.ReviewAdminRequest(context.Background(), admin, request.ID, types.AdminRequestStatusApproved, "welcome aboard")
	require.NoError(t, err)
	assert.Equal(t, types.AdminRequestStatusApproved, updated.Status)
	assert.Equal(t, types.Some("welcome aboard"), updated.AdminNotes)
	assert.True(t, f.requests.admins[owner.UserID])

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "Admin Access Approved - Resume Radar", f.mailer.sent[0].Subject)
	assert.Contains(t, f.views.keys, views.Dashboard(owner.UserID))
}

func TestReviewAdminRequestGuards(t *testing.T) {
	f := newFixture(t)

	request, err := f.service.SubmitAdminRequest(context.Background(), owner, "career coach")
	require.NoError(t, err)

	_, err = f.service.ReviewAdminRequest(context.Background(), owner, request.ID, types.AdminRequestStatusApproved, "")
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = f.service.ReviewAdminRequest(context.Background(), admin, request.ID, types.AdminRequestStatusPending, "")
	require.ErrorIs(t, err, types.ErrInvalidStatus)

	_, err = f.service.ReviewAdminRequest(context.Background(), admin, "missing", types.AdminRequestStatusRejected, "")
	require.ErrorIs(t, err, types.ErrAdminRequestNotFound)

	assert.False(t, f.requests.admins[owner.UserID])
	assert.Empty(t, f.mailer.sent)
}
