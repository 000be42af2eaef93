package stats

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/moodlens/moodlens/backend/internal/model/emotion"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	// Stored records are trimmed back to this many entries.
	maxStoredRecords = 1000
	// Trimming runs once per this many ingested records.
	trimInterval = 100
	// Stats only average confidence over this trailing window.
	recentWindow = 5 * time.Minute
	// The sessions endpoint returns at most this many finalized sessions.
	sessionPageSize = 10
)

// Service aggregates per-session emotion statistics in memory. One open
// websocket connection maps to one live session.
type Service struct {
	mu            sync.RWMutex
	now           func() time.Time
	records       []emotion.StoredRecord
	sinceTrim     int
	distribution  emotion.Distribution
	sessions      []emotion.Session
	totalSessions int64
	live          map[int64]time.Time
}

// NewService bootstraps an empty aggregator.
func NewService() *Service {
	return &Service{
		now:          time.Now,
		distribution: emotion.NewDistribution(),
		live:         make(map[int64]time.Time),
	}
}

// OpenSession allocates the next session identifier and records the start
// time. The identifier is the pre-incremented lifetime session counter and
// is not unique across restarts.
func (s *Service) OpenSession(_ context.Context) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalSessions++
	id := s.totalSessions
	s.live[id] = s.now()
	return id
}

// Ingest appends a stored record and bumps the matching distribution
// counter. Every trimInterval ingests the record slice is cut back to its
// most recent maxStoredRecords entries.
func (s *Service) Ingest(_ context.Context, sessionID int64, rec emotion.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, emotion.StoredRecord{
		Record:     rec,
		SessionID:  sessionID,
		ReceivedAt: s.now().UnixMilli(),
	})
	s.distribution[rec.Emotion]++

	s.sinceTrim++
	if s.sinceTrim >= trimInterval {
		s.sinceTrim = 0
		if len(s.records) > maxStoredRecords {
			trimmed := make([]emotion.StoredRecord, maxStoredRecords)
			copy(trimmed, s.records[len(s.records)-maxStoredRecords:])
			s.records = trimmed
		}
	}
}

// CloseSession finalizes a live session, computing its duration from the
// recorded start time. Finalized sessions never mutate.
func (s *Service) CloseSession(_ context.Context, sessionID int64) (emotion.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, ok := s.live[sessionID]
	if !ok {
		return emotion.Session{}, ErrSessionNotFound
	}
	delete(s.live, sessionID)

	end := s.now()
	session := emotion.Session{
		Start:    start.UnixMilli(),
		End:      end.UnixMilli(),
		Duration: end.Sub(start).Seconds(),
	}
	s.sessions = append(s.sessions, session)
	return session, nil
}

// Health reports the live connection count and stored record count.
func (s *Service) Health() (connections, recordCount int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.live), len(s.records)
}

// Overview is the derived statistics snapshot served by /api/stats.
type Overview struct {
	TotalSessions          int64                `json:"totalSessions"`
	AverageSessionDuration float64              `json:"averageSessionDuration"`
	EmotionDistribution    emotion.Distribution `json:"emotionDistribution"`
	PeakEmotion            emotion.Label        `json:"peakEmotion"`
	ConfidenceAverage      float64              `json:"confidenceAverage"`
	RecentEmotionsCount    int                  `json:"recentEmotionsCount"`
	TotalEmotionsCount     int                  `json:"totalEmotionsCount"`
}

// Stats computes the overview from current state. Confidence averages only
// records received within the trailing five minutes; session duration
// averages every finalized session regardless of age.
func (s *Service) Stats() Overview {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.now().Add(-recentWindow).UnixMilli()
	var recentCount int
	var confidenceSum float64
	for _, rec := range s.records {
		if rec.ReceivedAt > cutoff {
			recentCount++
			confidenceSum += rec.Confidence
		}
	}

	var confidenceAvg float64
	if recentCount > 0 {
		confidenceAvg = confidenceSum / float64(recentCount)
	}

	var durationSum float64
	for _, session := range s.sessions {
		durationSum += session.Duration
	}
	var durationAvg float64
	if len(s.sessions) > 0 {
		durationAvg = durationSum / float64(len(s.sessions))
	}

	return Overview{
		TotalSessions:          s.totalSessions,
		AverageSessionDuration: durationAvg,
		EmotionDistribution:    s.distribution.Clone(),
		PeakEmotion:            s.distribution.Peak(),
		ConfidenceAverage:      confidenceAvg,
		RecentEmotionsCount:    recentCount,
		TotalEmotionsCount:     len(s.records),
	}
}

// Recent returns a page of raw records: the last limit records, with offset
// applied inside that slice. The paging order is deliberately kept as the
// original frontend expects it.
func (s *Service) Recent(limit, offset int) ([]emotion.StoredRecord, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.records)

	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}

	start := total - limit
	if start < 0 {
		start = 0
	}
	window := s.records[start:]
	if offset >= len(window) {
		return []emotion.StoredRecord{}, total
	}
	window = window[offset:]

	page := make([]emotion.StoredRecord, len(window))
	copy(page, window)
	return page, total
}

// Sessions returns the most recent finalized sessions along with the
// lifetime session count and current live connection count.
func (s *Service) Sessions() ([]emotion.Session, int64, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.sessions) - sessionPageSize
	if start < 0 {
		start = 0
	}
	page := make([]emotion.Session, len(s.sessions[start:]))
	copy(page, s.sessions[start:])
	return page, s.totalSessions, len(s.live)
}
