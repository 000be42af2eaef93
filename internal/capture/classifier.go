package capture

import (
	"math/rand"

	"github.com/moodlens/moodlens/backend/internal/model/emotion"
)

// Classify is a placeholder for facial-expression inference: it picks a
// uniformly random category with confidence uniform in [0.6, 1.0). The
// original app ships the same stub; replacing it with a real model is a
// separate project, so the randomness stays documented rather than hidden.
func Classify(rng *rand.Rand) (emotion.Label, float64) {
	label := emotion.Labels[rng.Intn(len(emotion.Labels))]
	confidence := 0.6 + rng.Float64()*0.4
	return label, confidence
}
