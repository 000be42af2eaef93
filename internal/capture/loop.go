package capture

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/moodlens/moodlens/backend/internal/model/emotion"
	"github.com/moodlens/moodlens/backend/pkg/logger"
)

// DefaultInterval matches the frontend's ~10 samples per second.
const DefaultInterval = 100 * time.Millisecond

// Observer receives each derived record exactly once per tick.
type Observer func(rec emotion.Record)

// Loop samples the detector at a fixed cadence while enabled. Ticks run on
// a single goroutine, so a slow detection call delays the next tick rather
// than overlapping it.
type Loop struct {
	mu       sync.Mutex
	detector Detector
	observer Observer
	trend    *Trend
	interval time.Duration
	rng      *rand.Rand
	cancel   context.CancelFunc
	running  bool
	log      *logrus.Entry
}

// NewLoop wires a detector to its observer and trend sink.
func NewLoop(detector Detector, trend *Trend, interval time.Duration, observer Observer) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		detector: detector,
		observer: observer,
		trend:    trend,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      logger.Component("capture"),
	}
}

// Start begins sampling. Enabling resets accumulated trend data. Calling
// Start on a running loop is a no-op.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return
	}

	if l.trend != nil {
		l.trend.Reset()
	}

	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.running = true
	go l.run(ctx)
}

// Stop halts scheduling of further ticks. An in-flight detection call is
// not interrupted; its result is discarded once the loop observes the
// cancellation.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}
	l.cancel()
	l.running = false
}

// Running reports whether the loop is currently sampling.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *Loop) run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

// tick runs one detection pass. A failed detection is logged and skipped;
// there is no retry.
func (l *Loop) tick(ctx context.Context) {
	found, err := l.detector.Detect(ctx)
	if err != nil {
		l.log.WithError(err).Warn("detection failed, skipping tick")
		return
	}
	if !found {
		return
	}

	if ctx.Err() != nil {
		return
	}

	label, confidence := Classify(l.rng)
	rec := emotion.Record{
		Emotion:    label,
		Confidence: confidence,
		Timestamp:  time.Now().UnixMilli(),
	}

	if l.trend != nil {
		l.trend.Add(rec)
	}
	if l.observer != nil {
		l.observer(rec)
	}
}
