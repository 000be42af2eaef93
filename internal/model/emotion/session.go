package emotion

// Session captures the lifetime of one client connection. Finalized on
// close and never mutated afterwards.
type Session struct {
	Start    int64   `json:"start"`
	End      int64   `json:"end"`
	Duration float64 `json:"duration"`
}
