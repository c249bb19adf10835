package web

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"matchday/internal/util"

	"github.com/go-chi/chi"
)

func (s *Server) getPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := s.back.GetPlayerByName(chi.URLParam(r, "name"))
	if errors.Is(err, sql.ErrNoRows) {
		s.error(w, err, http.StatusNotFound)
		return
	}

	if err != nil {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	// The phone number stays private.
	s.cache(w, "public", 5*time.Minute)
	s.response(w, http.StatusOK, struct {
		ID        util.UUIDAsBlob
		CreatedAt util.TimeAsTimestamp
		Name      string
	}{player.ID, player.CreatedAt, player.Name})
}
