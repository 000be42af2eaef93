package capture

import "context"

// Detector reports whether a face is present in the current frame.
type Detector interface {
	Detect(ctx context.Context) (bool, error)
}

// StubDetector stands in for a real landmark detector and always finds a
// face. Used by the feeder tool and tests.
type StubDetector struct{}

// Detect always reports a face.
func (StubDetector) Detect(_ context.Context) (bool, error) {
	return true, nil
}
