package capture

import (
	"sync"

	"github.com/moodlens/moodlens/backend/internal/model/emotion"
)

// DefaultTrendWindow matches the frontend chart's rolling window.
const DefaultTrendWindow = 50

// Trend keeps the most recent records for the local display sink.
type Trend struct {
	mu       sync.Mutex
	capacity int
	records  []emotion.Record
}

// NewTrend creates a rolling window holding at most capacity records.
func NewTrend(capacity int) *Trend {
	if capacity <= 0 {
		capacity = DefaultTrendWindow
	}
	return &Trend{capacity: capacity}
}

// Add appends a record, evicting the oldest once the window is full.
func (t *Trend) Add(rec emotion.Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.records = append(t.records, rec)
	if len(t.records) > t.capacity {
		t.records = t.records[len(t.records)-t.capacity:]
	}
}

// Snapshot copies the current window, oldest first.
func (t *Trend) Snapshot() []emotion.Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]emotion.Record, len(t.records))
	copy(out, t.records)
	return out
}

// Current returns the most recent record, if any.
func (t *Trend) Current() (emotion.Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.records) == 0 {
		return emotion.Record{}, false
	}
	return t.records[len(t.records)-1], true
}

// Len reports the number of records in the window.
func (t *Trend) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// Reset drops all accumulated records.
func (t *Trend) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = nil
}
