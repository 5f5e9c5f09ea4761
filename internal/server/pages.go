package server

import (
	"net/http"
	"net/url"

	"resumeradar/internal/views"
	"resumeradar/pkg/types"
)

const homeLeaderboardSize = 5

func (s *Service) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.notModified(w, r, views.Leaderboard) {
		return
	}

	entries, err := s.resumeRepo.Leaderboard(ctx, homeLeaderboardSize)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch leaderboard for home page")
		s.internalServerError(w)
		return
	}

	data := &types.HomePageData{
		BasePageData: s.basePageData(r, "Resume Radar"),
		TopEntries:   entries,
	}

	s.render(w, r, "page.home", data)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	http.Redirect(w, r, withQuery(path, "notice", notice), http.StatusSeeOther)
}

func (s *Service) redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, withQuery(path, "error", msg), http.StatusSeeOther)
}

// withQuery sets key on path's query string, keeping any existing values.
func withQuery(path, key, value string) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}

	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()

	return u.String()
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func queryEscape(s string) string {
	return url.QueryEscape(s)
}
