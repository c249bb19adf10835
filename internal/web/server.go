package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"matchday/internal/back"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"
)

func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(throttle(rate.NewLimiter(25, 50)))

	r.Get("/", noContent)

	// I intend the v1 to be a hacky, quick'n dirty implementation, with no
	// pagination nor any fancy stuff.
	r.Get("/v1/groups", s.getGroups)
	r.Get("/v1/group/{shortcode}/leaderboard", s.getLeaderboard)
	r.Get("/v1/group/{shortcode}/games", s.getGames)
	r.Get("/v1/group/{shortcode}/stats", s.getStats)
	r.Get("/v1/player/{name}", s.getPlayer)

	return r
}

type Server struct {
	http *http.Server
	back *back.Back

	// leaderboards is recomputed from the whole game history on every call,
	// cache it for a while.
	leaderboards *ttlcache.Cache[string, back.Leaderboard]
}

func NewServer(b *back.Back, addr string) *Server {
	s := &Server{
		back: b,
		leaderboards: ttlcache.New[string, back.Leaderboard](
			ttlcache.WithTTL[string, back.Leaderboard](5*time.Minute),
			ttlcache.WithDisableTouchOnHit[string, back.Leaderboard](),
		),
	}

	s.http = &http.Server{
		Addr:         addr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  10 * time.Second,
		Handler:      s.setupRouter(),
	}

	return s
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// throttle rejects requests above a global rate, the API has no
// authentication so this is the only thing standing between the DB and a
// misbehaving client.
func throttle(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) Serve(wg *sync.WaitGroup, done <-chan struct{}) {
	log.Println("info: starting HTTP server")
	wg.Add(1)
	defer wg.Done()

	go s.leaderboards.Start()

	go func() {
		err := s.http.ListenAndServe()
		if err == http.ErrServerClosed {
			log.Println("info: HTTP server closed")
			return
		}

		log.Fatalf("webserver crashed: %s", err)
	}()

	<-done
	s.leaderboards.Stop()
	if err := s.http.Close(); err != nil {
		log.Printf("warning: unable to close webserver: %s", err)
	}
}

func (s *Server) response(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	response, err := json.Marshal(data)
	if err != nil {
		log.Printf("error: unable to marshal response: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(code)

	if _, err := w.Write(response); err != nil {
		log.Printf("error: unable to send response: %s", err)
	}
}

func (s *Server) error(w http.ResponseWriter, err error, code int) {
	log.Printf("error: %s", err)
	w.WriteHeader(code)
}

func (s *Server) cache(w http.ResponseWriter, scope string, d time.Duration) {
	w.Header().Set("Cache-Control", fmt.Sprintf("%s,max-age=%d", scope, d/time.Second))
}
