// Package api exposes the entry store and analytics over REST for
// external UIs. It renders nothing itself: charts and menus live in the
// consumers.
package api

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pbaille/moodlog/internal/analytics"
	"github.com/pbaille/moodlog/internal/config"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/sentiment"
	"github.com/pbaille/moodlog/internal/store"
)

// Server handles HTTP requests for the mood log API.
type Server struct {
	store  *store.Store
	scorer *sentiment.Scorer
	cfg    *config.Config
	log    *log.Logger
	echo   *echo.Echo
}

// New creates an API server over the given store and configuration.
func New(s *store.Store, scorer *sentiment.Scorer, cfg *config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	srv := &Server{store: s, scorer: scorer, cfg: cfg, log: logger}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/health", srv.health)
	e.GET("/entries", srv.listEntries)
	e.POST("/entries", srv.addEntry)
	e.GET("/stats", srv.stats)
	e.GET("/streaks", srv.streaks)
	e.GET("/correlation", srv.correlation)

	srv.echo = e
	return srv
}

// Run starts the HTTP server on addr.
func (s *Server) Run(addr string) error {
	s.log.Info("starting API server", "addr", addr)
	return s.echo.Start(addr)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// snapshot reads the full history, logging the degraded cases instead of
// failing: analytics stay usable with partial or no data.
func (s *Server) snapshot() ([]domain.Entry, int) {
	entries, skipped, err := s.store.Entries()
	if err != nil {
		s.log.Warn("history unreadable, serving empty", "err", err)
		return nil, 0
	}
	if skipped > 0 {
		s.log.Warn("skipped malformed rows", "count", skipped)
	}
	return entries, skipped
}

func (s *Server) listEntries(c echo.Context) error {
	entries, skipped, err := s.store.Entries()
	if err != nil {
		s.log.Warn("history unreadable, serving empty", "err", err)
		entries, skipped = nil, 0
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"entries": entries,
		"skipped": skipped,
	})
}

// AddEntryRequest is the request body for logging an entry.
type AddEntryRequest struct {
	Mood       string   `json:"mood"`
	Activities []string `json:"activities"`
	Notes      string   `json:"notes"`
}

func (s *Server) addEntry(c echo.Context) error {
	var req AddEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	entry, err := s.store.AddEntry(req.Mood, req.Activities, req.Notes)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": verr.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"entry": entry,
		"band":  s.scorer.Band(entry.SentimentScore),
		"tip":   sentiment.Tip(s.scorer.Band(entry.SentimentScore)),
	})
}

func (s *Server) stats(c echo.Context) error {
	entries, _ := s.snapshot()

	byWeekday := make(map[string]map[domain.Mood]int)
	for wd, moods := range analytics.MoodByWeekday(entries) {
		byWeekday[wd.String()] = moods
	}

	resp := map[string]interface{}{
		"mood_frequency":         analytics.MoodFrequency(entries),
		"mood_by_weekday":        byWeekday,
		"sentiment_distribution": analytics.SentimentDistribution(entries, s.scorer),
	}
	if mood, ok := analytics.MostFrequentMood(entries); ok {
		resp["most_frequent_mood"] = mood
	}
	if mood, ok := analytics.MostProductiveMood(entries, s.cfg.Stats.ProductivityTag); ok {
		resp["most_productive_mood"] = mood
	}
	if wd, ok := analytics.BestWeekday(entries, s.scorer); ok {
		resp["best_weekday"] = wd.String()
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) streaks(c echo.Context) error {
	entries, _ := s.snapshot()
	streak := analytics.StreaksWith(entries, s.cfg.PositiveSet(), analytics.StreakOptions{
		BridgeGaps: s.cfg.Streaks.BridgeGaps,
	})
	return c.JSON(http.StatusOK, streak)
}

func (s *Server) correlation(c echo.Context) error {
	entries, _ := s.snapshot()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"matrix": analytics.ActivityMoodMatrix(entries),
	})
}
