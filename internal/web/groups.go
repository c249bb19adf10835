package web

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"matchday/internal/back"

	"github.com/go-chi/chi"
	"github.com/jellydator/ttlcache/v3"
)

func (s *Server) getGroups(w http.ResponseWriter, _ *http.Request) {
	groups, err := s.back.GetGroups()
	if err != nil {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	s.cache(w, "public", 5*time.Minute)
	s.response(w, http.StatusOK, map[string]interface{}{
		"groups": groups,
	})
}

func (s *Server) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	shortcode := chi.URLParam(r, "shortcode")

	if cached := s.leaderboards.Get(shortcode); cached != nil {
		s.cache(w, "public", 5*time.Minute)
		s.response(w, http.StatusOK, cached.Value())
		return
	}

	leaderboard, err := s.back.GetLeaderboard(shortcode)
	if errors.Is(err, sql.ErrNoRows) {
		s.error(w, err, http.StatusNotFound)
		return
	}

	if err != nil {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	s.leaderboards.Set(shortcode, leaderboard, ttlcache.DefaultTTL)

	s.cache(w, "public", 5*time.Minute)
	s.response(w, http.StatusOK, leaderboard)
}

func (s *Server) getGames(w http.ResponseWriter, r *http.Request) {
	played, err := s.back.GetGamesByShortcode(chi.URLParam(r, "shortcode"), back.GameStatusPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	upcoming, err := s.back.GetGamesByShortcode(chi.URLParam(r, "shortcode"), back.GameStatusScheduled)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	s.cache(w, "public", 1*time.Minute)
	s.response(w, http.StatusOK, map[string]interface{}{
		"played":   played,
		"upcoming": upcoming,
	})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	misc, err := s.back.GetMiscStats(chi.URLParam(r, "shortcode"))
	if errors.Is(err, sql.ErrNoRows) {
		s.error(w, err, http.StatusNotFound)
		return
	}

	if err != nil {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	s.cache(w, "public", 5*time.Minute)
	s.response(w, http.StatusOK, misc)
}
