package server

import (
	"net/http"

	"resumeradar/internal/views"
	"resumeradar/pkg/types"
)

func (s *Service) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.notModified(w, r, views.Leaderboard) {
		return
	}

	entries, err := s.resumeRepo.Leaderboard(ctx, s.config.LeaderboardLimit)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch leaderboard")
		s.internalServerError(w)
		return
	}

	data := &types.LeaderboardPageData{
		BasePageData: s.basePageData(r, "Leaderboard"),
		Entries:      entries,
	}

	s.render(w, r, "page.leaderboard", data)
}
