package emotion

// Label is one of the five emotion categories the client may report.
type Label string

const (
	Happy     Label = "happy"
	Sad       Label = "sad"
	Angry     Label = "angry"
	Surprised Label = "surprised"
	Neutral   Label = "neutral"
)

// Labels fixes the enumeration order. Peak-emotion ties resolve to the
// first label in this order.
var Labels = []Label{Happy, Sad, Angry, Surprised, Neutral}

// Valid reports whether l is one of the five known categories.
func (l Label) Valid() bool {
	switch l {
	case Happy, Sad, Angry, Surprised, Neutral:
		return true
	}
	return false
}

// Record is a single classified observation. Immutable once created.
type Record struct {
	Emotion    Label   `json:"emotion"`
	Confidence float64 `json:"confidence"`
	Timestamp  int64   `json:"timestamp"`
}

// StoredRecord is a Record annotated by the server at receive time.
type StoredRecord struct {
	Record
	SessionID  int64 `json:"sessionId"`
	ReceivedAt int64 `json:"receivedAt"`
}

// Distribution holds running per-category counts for the process lifetime.
type Distribution map[Label]int64

// NewDistribution returns a distribution with every category at zero, so
// JSON output always lists all five keys.
func NewDistribution() Distribution {
	d := make(Distribution, len(Labels))
	for _, l := range Labels {
		d[l] = 0
	}
	return d
}

// Peak returns the category with the strictly greatest count. Ties resolve
// to the earliest label in enumeration order; an all-zero distribution
// yields Neutral.
func (d Distribution) Peak() Label {
	best := Neutral
	var bestCount int64
	for _, l := range Labels {
		if d[l] > bestCount {
			best = l
			bestCount = d[l]
		}
	}
	return best
}

// Clone copies the distribution so callers cannot mutate shared state.
func (d Distribution) Clone() Distribution {
	out := make(Distribution, len(d))
	for l, n := range d {
		out[l] = n
	}
	return out
}
