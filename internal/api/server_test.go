package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/moodlog/internal/config"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/sentiment"
	"github.com/pbaille/moodlog/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Moods:     config.MoodsConfig{Positive: []string{"happy", "calm"}},
		Sentiment: config.SentimentConfig{BandThreshold: 0.1},
		Stats:     config.StatsConfig{ProductivityTag: "work"},
	}

	scorer := sentiment.NewScorer(cfg.Sentiment.BandThreshold)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	st, err := store.New(filepath.Join(t.TempDir(), "mood_data.csv"), domain.DefaultVocabulary(), scorer, clock)
	require.NoError(t, err)

	return New(st, scorer, cfg, nil)
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	rec, body := doJSON(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestAddEntry_ThenList(t *testing.T) {
	srv := newTestServer(t)

	rec, body := doJSON(t, srv, http.MethodPost, "/entries",
		`{"mood":"happy","activities":["run","work"],"notes":"what a wonderful day"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, body["tip"])

	rec, body = doJSON(t, srv, http.MethodGet, "/entries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	entries := body["entries"].([]interface{})
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]interface{})
	assert.Equal(t, "happy", entry["mood"])
	assert.Equal(t, 0.0, body["skipped"])
}

func TestAddEntry_UnknownMoodRejected(t *testing.T) {
	srv := newTestServer(t)

	rec, body := doJSON(t, srv, http.MethodPost, "/entries", `{"mood":"bouncy"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "bouncy")

	rec, body = doJSON(t, srv, http.MethodGet, "/entries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["entries"])
}

func TestAddEntry_BadBodyRejected(t *testing.T) {
	srv := newTestServer(t)
	rec, _ := doJSON(t, srv, http.MethodPost, "/entries", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreaks_EmptyHistory(t *testing.T) {
	srv := newTestServer(t)
	rec, body := doJSON(t, srv, http.MethodGet, "/streaks", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.0, body["current"])
	assert.Equal(t, 0.0, body["longest"])
}

func TestStreaks_AfterPositiveEntry(t *testing.T) {
	srv := newTestServer(t)
	rec, _ := doJSON(t, srv, http.MethodPost, "/entries", `{"mood":"happy"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, srv, http.MethodGet, "/streaks", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, body["current"])
	assert.Equal(t, 1.0, body["longest"])
}

func TestStats_ReportsFrequencyAndProductivity(t *testing.T) {
	srv := newTestServer(t)
	for _, req := range []string{
		`{"mood":"happy","activities":["work"]}`,
		`{"mood":"happy","activities":["run"]}`,
		`{"mood":"sad","activities":["work"]}`,
	} {
		rec, _ := doJSON(t, srv, http.MethodPost, "/entries", req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, body := doJSON(t, srv, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	freq := body["mood_frequency"].(map[string]interface{})
	assert.Equal(t, 2.0, freq["happy"])
	assert.Equal(t, 1.0, freq["sad"])
	assert.Equal(t, "happy", body["most_frequent_mood"])
	// First work-tagged mood wins the 1-1 tie.
	assert.Equal(t, "happy", body["most_productive_mood"])
}

func TestStats_NoProductivityDataOmitsField(t *testing.T) {
	srv := newTestServer(t)
	rec, _ := doJSON(t, srv, http.MethodPost, "/entries", `{"mood":"calm","activities":["yoga"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	_, body := doJSON(t, srv, http.MethodGet, "/stats", "")
	assert.NotContains(t, body, "most_productive_mood")
}

func TestCorrelation_Matrix(t *testing.T) {
	srv := newTestServer(t)
	rec, _ := doJSON(t, srv, http.MethodPost, "/entries", `{"mood":"happy","activities":["run","work"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = doJSON(t, srv, http.MethodPost, "/entries", `{"mood":"sad","activities":["work"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, srv, http.MethodGet, "/correlation", "")
	require.Equal(t, http.StatusOK, rec.Code)

	matrix := body["matrix"].(map[string]interface{})
	work := matrix["work"].(map[string]interface{})
	assert.Equal(t, 1.0, work["happy"])
	assert.Equal(t, 1.0, work["sad"])
	run := matrix["run"].(map[string]interface{})
	assert.Equal(t, 1.0, run["happy"])
}
