package server

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"resumeradar/internal/review"
	"resumeradar/pkg/types"

	"github.com/go-playground/form/v4"
)

var decoder = form.NewDecoder()

type resumeReviewForm struct {
	Status    string `form:"status"`
	Score     string `form:"score"`
	Notes     string `form:"reviewer_notes"`
	UpdatedAt string `form:"updated_at"`
	Tab       string `form:"tab"`
}

type adminRequestReviewForm struct {
	Status string `form:"status"`
	Notes  string `form:"admin_notes"`
}

type profileForm struct {
	FullName string `form:"full_name"`
}

type adminRequestForm struct {
	Reason string `form:"reason"`
}

type registerForm struct {
	GivenName       string `form:"given_name"`
	FamilyName      string `form:"family_name"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

type confirmForm struct {
	Email string `form:"email"`
	Code  string `form:"code"`
}

func decodeForm(dst any, values url.Values) error {
	return decoder.Decode(dst, values)
}

// input converts the submitted review into a ReviewInput. A blank score
// clears it. updated_at, when sent, is the resume's last write as rendered
// on the page and arms the conflict check.
func (f *resumeReviewForm) input() (review.ReviewInput, error) {
	in := review.ReviewInput{
		Status: types.ResumeStatus(strings.TrimSpace(f.Status)),
		Notes:  f.Notes,
	}

	if raw := strings.TrimSpace(f.Score); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil {
			return review.ReviewInput{}, types.ErrInvalidScore
		}
		in.Score = types.Some(score)
	}

	if raw := strings.TrimSpace(f.UpdatedAt); raw != "" {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return review.ReviewInput{}, types.ErrReviewConflict
		}
		in.ExpectedUpdatedAt = types.Some(at)
	}

	return in, nil
}
