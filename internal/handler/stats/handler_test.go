package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/moodlens/moodlens/backend/internal/model/emotion"
	statsservice "github.com/moodlens/moodlens/backend/internal/service/stats"
)

func setupRouter() (*chi.Mux, *statsservice.Service) {
	svc := statsservice.NewService()
	handler := New(svc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, svc
}

func get(t *testing.T, r *chi.Mux, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("GET %s: expected 200, got %d", path, resp.Code)
	}
	return resp
}

func TestHealthReportsCounts(t *testing.T) {
	r, svc := setupRouter()
	ctx := context.Background()

	id := svc.OpenSession(ctx)
	svc.Ingest(ctx, id, emotion.Record{Emotion: emotion.Happy, Confidence: 0.9, Timestamp: 1})

	resp := get(t, r, "/health")

	var body struct {
		Status           string `json:"status"`
		Timestamp        string `json:"timestamp"`
		Connections      int    `json:"connections"`
		EmotionDataCount int    `json:"emotionDataCount"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}

	if body.Status != "healthy" {
		t.Fatalf("expected healthy status, got %q", body.Status)
	}
	if body.Timestamp == "" {
		t.Fatal("expected timestamp")
	}
	if body.Connections != 1 {
		t.Fatalf("expected 1 connection, got %d", body.Connections)
	}
	if body.EmotionDataCount != 1 {
		t.Fatalf("expected 1 stored record, got %d", body.EmotionDataCount)
	}
}

func TestStatsDefaultsToNeutralPeak(t *testing.T) {
	r, _ := setupRouter()

	resp := get(t, r, "/stats")

	var overview statsservice.Overview
	if err := json.Unmarshal(resp.Body.Bytes(), &overview); err != nil {
		t.Fatalf("decode err: %v", err)
	}

	if overview.PeakEmotion != emotion.Neutral {
		t.Fatalf("expected neutral peak on empty state, got %s", overview.PeakEmotion)
	}
	if len(overview.EmotionDistribution) != 5 {
		t.Fatalf("expected all 5 categories in distribution, got %d", len(overview.EmotionDistribution))
	}
}

func TestEmotionsPagingOffsetWithinLastLimit(t *testing.T) {
	r, svc := setupRouter()
	ctx := context.Background()
	id := svc.OpenSession(ctx)

	for i := 0; i < 20; i++ {
		svc.Ingest(ctx, id, emotion.Record{Emotion: emotion.Neutral, Confidence: 0.8, Timestamp: int64(i)})
	}

	resp := get(t, r, "/emotions?limit=10&offset=5")

	var body struct {
		Emotions []emotion.StoredRecord `json:"emotions"`
		Total    int                    `json:"total"`
		Limit    int                    `json:"limit"`
		Offset   int                    `json:"offset"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}

	if body.Total != 20 || body.Limit != 10 || body.Offset != 5 {
		t.Fatalf("unexpected paging metadata: total=%d limit=%d offset=%d", body.Total, body.Limit, body.Offset)
	}
	if len(body.Emotions) != 5 {
		t.Fatalf("expected 5 records, got %d", len(body.Emotions))
	}
	for i, rec := range body.Emotions {
		if want := int64(15 + i); rec.Timestamp != want {
			t.Fatalf("expected record from position %d, got timestamp %d", want, rec.Timestamp)
		}
	}
}

func TestEmotionsMalformedQueryFallsBackToDefaults(t *testing.T) {
	r, svc := setupRouter()
	ctx := context.Background()
	id := svc.OpenSession(ctx)
	svc.Ingest(ctx, id, emotion.Record{Emotion: emotion.Sad, Confidence: 0.7, Timestamp: 1})

	resp := get(t, r, "/emotions?limit=abc&offset=xyz")

	var body struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}

	if body.Limit != 100 || body.Offset != 0 {
		t.Fatalf("expected defaults 100/0, got %d/%d", body.Limit, body.Offset)
	}
}

func TestSessionsListsFinalizedSessions(t *testing.T) {
	r, svc := setupRouter()
	ctx := context.Background()

	id := svc.OpenSession(ctx)
	if _, err := svc.CloseSession(ctx, id); err != nil {
		t.Fatalf("CloseSession err: %v", err)
	}
	svc.OpenSession(ctx)

	resp := get(t, r, "/sessions")

	var body struct {
		TotalSessions      int64             `json:"totalSessions"`
		Sessions           []emotion.Session `json:"sessions"`
		CurrentConnections int               `json:"currentConnections"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}

	if body.TotalSessions != 2 {
		t.Fatalf("expected 2 total sessions, got %d", body.TotalSessions)
	}
	if len(body.Sessions) != 1 {
		t.Fatalf("expected 1 finalized session, got %d", len(body.Sessions))
	}
	if body.CurrentConnections != 1 {
		t.Fatalf("expected 1 live connection, got %d", body.CurrentConnections)
	}
}
