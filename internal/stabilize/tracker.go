package stabilize

// Default tracking policy. Both assume roughly 30 frames per second; neither
// is a hard rule since the actual frame rate is not guaranteed.
const (
	// DefaultAgingWindow drops strings not seen in the last 30 frames.
	DefaultAgingWindow int64 = 30
	// DefaultConfirmThreshold requires a count of 10, i.e. 11 sightings.
	DefaultConfirmThreshold int64 = 10
)

// TrackerConfig holds the tracking policy.
type TrackerConfig struct {
	// AgingWindow is how many frames a string may go unseen before it is dropped.
	AgingWindow int64 `json:"aging_window" yaml:"aging_window"`
	// ConfirmThreshold is the count a string needs before it is stable.
	ConfirmThreshold int64 `json:"confirm_threshold" yaml:"confirm_threshold"`
}

// DefaultTrackerConfig returns the default tracking policy.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		AgingWindow:      DefaultAgingWindow,
		ConfirmThreshold: DefaultConfirmThreshold,
	}
}

// TrackedString is one string being watched.
type TrackedString struct {
	Value         string `json:"value"`
	LastSeenFrame int64  `json:"last_seen_frame"`
	// Count is the number of sightings minus one.
	Count int64 `json:"count"`
}

// Tracker counts sightings of strings across frames and reports the most
// frequently seen one once it passes the confirmation threshold.
type Tracker struct {
	cfg        TrackerConfig
	frameIndex int64
	entries    map[string]*TrackedString
	order      []string // insertion order, so ties resolve the same way every run
	bestCount  int64
	bestValue  string
}

// NewTracker creates a tracker with the given policy.
func NewTracker(cfg TrackerConfig) *Tracker {
	return &Tracker{
		cfg:     cfg,
		entries: make(map[string]*TrackedString),
	}
}

// Config returns the tracking policy.
func (t *Tracker) Config() TrackerConfig {
	return t.cfg
}

// LogFrame records the strings extracted from one frame. It must be called
// once per frame, with an empty slice when nothing was extracted.
//
// Sightings from this frame are counted before the best string is chosen, so
// a string first seen in this frame can already become the best one. Strings
// last seen more than AgingWindow frames ago are removed and cannot become
// best during the same call.
func (t *Tracker) LogFrame(values []string) {
	for _, s := range values {
		e, ok := t.entries[s]
		if !ok {
			e = &TrackedString{Value: s, Count: -1}
			t.entries[s] = e
			t.order = append(t.order, s)
		}
		e.LastSeenFrame = t.frameIndex
		e.Count++
	}

	kept := t.order[:0]
	for _, s := range t.order {
		e := t.entries[s]
		if e.LastSeenFrame < t.frameIndex-t.cfg.AgingWindow {
			delete(t.entries, s)
			continue
		}
		kept = append(kept, s)
		if e.Count > t.bestCount {
			t.bestCount = e.Count
			t.bestValue = s
		}
	}
	t.order = kept

	t.frameIndex++
}

// StableString returns the best string once its count reaches the
// confirmation threshold.
func (t *Tracker) StableString() (string, bool) {
	if t.bestCount >= t.cfg.ConfirmThreshold {
		return t.bestValue, true
	}
	return "", false
}

// CurrentString returns the best string so far, stable or not. It is empty
// before anything has been seen twice and right after a Reset.
func (t *Tracker) CurrentString() string {
	return t.bestValue
}

// Reset forgets a confirmed string and clears the best-so-far. The frame
// index and all other tracked strings are left alone.
func (t *Tracker) Reset(confirmed string) {
	if _, ok := t.entries[confirmed]; ok {
		delete(t.entries, confirmed)
		for i, s := range t.order {
			if s == confirmed {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
	}
	t.bestCount = 0
	t.bestValue = ""
}

// FrameIndex returns the index the next LogFrame call will use.
func (t *Tracker) FrameIndex() int64 {
	return t.frameIndex
}

// BestCount returns the count of the current best string.
func (t *Tracker) BestCount() int64 {
	return t.bestCount
}

// Entry returns the tracked state of value, if it is being tracked.
func (t *Tracker) Entry(value string) (TrackedString, bool) {
	e, ok := t.entries[value]
	if !ok {
		return TrackedString{}, false
	}
	return *e, true
}

// Entries returns a snapshot of every tracked string in first-seen order.
func (t *Tracker) Entries() []TrackedString {
	out := make([]TrackedString, 0, len(t.order))
	for _, s := range t.order {
		out = append(out, *t.entries[s])
	}
	return out
}

// Len returns the number of tracked strings.
func (t *Tracker) Len() int {
	return len(t.entries)
}
