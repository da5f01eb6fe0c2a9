// Package session runs several regions of interest over a shared stream of
// frames and reports the strings each of them confirms.
//
// # Concurrency
//
// The stabilizer, tracker, and ROI manager are not safe for concurrent use.
// Session funnels frame processing and gesture updates, which typically
// arrive on different goroutines, through one mutex. Recognition itself runs
// outside the lock against a snapshot of each region's ROI, so gestures are
// not blocked while the recognizer works.
//
// # Frame Discipline
//
// Aging in the tracker counts frames, not time. Every frame must be logged,
// including frames where nothing was recognized.
package session

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/ironsheep/number-reader-mcp/internal/geometry"
	"github.com/ironsheep/number-reader-mcp/internal/logging"
	"github.com/ironsheep/number-reader-mcp/internal/roi"
	"github.com/ironsheep/number-reader-mcp/internal/sink"
	"github.com/ironsheep/number-reader-mcp/internal/stabilize"
)

// Oracle recognizes text in a frame.
//
// frame is the capture buffer in its native orientation. The recognizer
// must look only inside roi (bottom-left, relative to the frame rotated to
// the UI orientation) and report observations relative to roi.
type Oracle interface {
	Recognize(ctx context.Context, frame image.Image, roi geometry.NormalizedRect, orientation geometry.Orientation) ([]Observation, error)
}

// Options configures a Session.
type Options struct {
	Oracle Oracle
	Sink   sink.Sink
	Logger *logging.Logger
	// Buffer is the capacity of the Confirmations channel. Confirmations
	// that do not fit are dropped with a warning.
	Buffer int
	// Now is the clock used to stamp confirmations.
	Now func() time.Time
}

// Session owns a set of named regions.
type Session struct {
	mu      sync.Mutex
	regions map[string]*Region
	order   []string

	oracle        Oracle
	sink          sink.Sink
	log           *logging.Logger
	now           func() time.Time
	confirmations chan sink.Confirmation
}

// New creates an empty session.
func New(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 16
	}
	return &Session{
		regions:       make(map[string]*Region),
		oracle:        opts.Oracle,
		sink:          opts.Sink,
		log:           opts.Logger,
		now:           opts.Now,
		confirmations: make(chan sink.Confirmation, opts.Buffer),
	}
}

// RegionSpec describes a region to add.
type RegionSpec struct {
	Name        string
	Preset      roi.Preset
	Orientation geometry.Orientation
	Reference   geometry.Size
	Tracker     stabilize.TrackerConfig
	Normalizer  *stabilize.Normalizer
}

// AddRegion creates a region from spec. Names must be unique.
func (s *Session) AddRegion(spec RegionSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if spec.Name == "" {
		return fmt.Errorf("region name is required")
	}
	if _, ok := s.regions[spec.Name]; ok {
		return fmt.Errorf("region %q already exists", spec.Name)
	}

	manager := roi.NewManager(spec.Preset, spec.Orientation, spec.Reference)
	r := NewRegion(spec.Name, stabilize.NewExtractor(spec.Normalizer), stabilize.NewTracker(spec.Tracker), manager, nil)
	s.regions[spec.Name] = r
	s.order = append(s.order, spec.Name)

	s.log.Debug("region added", "name", spec.Name, "preset", spec.Preset.Name, "orientation", spec.Orientation)
	return nil
}

// Regions returns region names in the order they were added.
func (s *Session) Regions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

func (s *Session) region(name string) (*Region, error) {
	r, ok := s.regions[name]
	if !ok {
		return nil, fmt.Errorf("unknown region %q", name)
	}
	return r, nil
}

// RegionState returns a snapshot of a region's ROI.
func (s *Session) RegionState(name string) (roi.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.region(name)
	if err != nil {
		return roi.State{}, err
	}
	return r.roi.State(), nil
}

// UpdateROI runs fn against a region's ROI manager under the session lock
// and returns the resulting state.
func (s *Session) UpdateROI(name string, fn func(*roi.Manager) error) (roi.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.region(name)
	if err != nil {
		return roi.State{}, err
	}
	if err := fn(r.roi); err != nil {
		return r.roi.State(), err
	}
	return r.roi.State(), nil
}

// LastFrame returns the most recent frame result of a region.
func (s *Session) LastFrame(name string) (FrameResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.region(name)
	if err != nil {
		return FrameResult{}, err
	}
	return r.Last(), nil
}

// SetOrientation applies an orientation change to every region.
func (s *Session) SetOrientation(o geometry.Orientation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range s.order {
		s.regions[name].roi.SetOrientation(o)
	}
}

// TrackerStatus describes a region's tracker.
type TrackerStatus struct {
	Region    string                    `json:"region"`
	Frame     int64                     `json:"frame"`
	Current   string                    `json:"current"`
	BestCount int64                     `json:"best_count"`
	Stable    bool                      `json:"stable"`
	Config    stabilize.TrackerConfig   `json:"config"`
	Entries   []stabilize.TrackedString `json:"entries"`
}

// TrackerStatus returns a snapshot of a region's tracker.
func (s *Session) TrackerStatus(name string) (TrackerStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.region(name)
	if err != nil {
		return TrackerStatus{}, err
	}
	_, stable := r.tracker.StableString()
	return TrackerStatus{
		Region:    name,
		Frame:     r.tracker.FrameIndex(),
		Current:   r.tracker.CurrentString(),
		BestCount: r.tracker.BestCount(),
		Stable:    stable,
		Config:    r.tracker.Config(),
		Entries:   r.tracker.Entries(),
	}, nil
}

// ResetTracker forgets value in a region's tracker. An empty value resets
// the current best string.
func (s *Session) ResetTracker(name, value string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.region(name)
	if err != nil {
		return "", err
	}
	if value == "" {
		value = r.tracker.CurrentString()
	}
	r.tracker.Reset(value)
	return value, nil
}

// LogFrame processes one frame of observations for a region. obs must be
// relative to the region's recognition ROI with any origin; an empty slice
// still advances the region's tracker. A confirmation, if any, is delivered
// to the channel and sinks before LogFrame returns.
func (s *Session) LogFrame(ctx context.Context, name string, obs []Observation) (FrameResult, error) {
	s.mu.Lock()
	r, err := s.region(name)
	if err != nil {
		s.mu.Unlock()
		return FrameResult{}, err
	}
	res := r.ProcessFrame(obs)
	s.mu.Unlock()

	s.deliver(ctx, res)
	return res, nil
}

type roiSnapshot struct {
	region      *Region
	recognition geometry.NormalizedRect
	orientation geometry.Orientation
	active      geometry.AffineTransform
}

// Recognize runs the oracle over frame for every region and logs the
// result as that region's next frame.
//
// Parameters:
//   - ctx: Passed to the oracle and to the sinks that receive confirmations.
//   - frame: The capture buffer in its native orientation. Each region's
//     recognition ROI and orientation tell the oracle where to look.
//
// Returns:
//   - []FrameResult: One result per region, in the order regions were added.
//   - error: The first recognition failure, wrapped with its region name.
//     Results are still returned for every region.
//
// # Locking
//
// The ROI state of every region is captured under the session lock, then
// the oracle runs without it, so gestures are not blocked by OCR. Boxes are
// projected with the captured transform, not whatever the region holds by
// the time recognition finishes.
//
// A region whose recognition fails logs an empty frame so its aging stays
// in step with the others.
func (s *Session) Recognize(ctx context.Context, frame image.Image) ([]FrameResult, error) {
	if s.oracle == nil {
		return nil, fmt.Errorf("no recognizer configured")
	}

	s.mu.Lock()
	snaps := make([]roiSnapshot, 0, len(s.order))
	for _, name := range s.order {
		r := s.regions[name]
		st := r.roi.State()
		snaps = append(snaps, roiSnapshot{
			region:      r,
			recognition: st.RecognitionROI,
			orientation: st.Orientation,
			active:      st.ActiveTransform,
		})
	}
	s.mu.Unlock()

	observed := make([][]Observation, len(snaps))
	var firstErr error
	for i, snap := range snaps {
		obs, err := s.oracle.Recognize(ctx, frame, snap.recognition, snap.orientation)
		if err != nil {
			s.log.Warn("recognition failed", "region", snap.region.name, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("region %s: %w", snap.region.name, err)
			}
			continue
		}
		observed[i] = obs
	}

	results := make([]FrameResult, 0, len(snaps))
	s.mu.Lock()
	for i, snap := range snaps {
		results = append(results, snap.region.process(observed[i], snap.active))
	}
	s.mu.Unlock()

	for _, res := range results {
		s.deliver(ctx, res)
	}
	return results, firstErr
}

func (s *Session) deliver(ctx context.Context, res FrameResult) {
	s.log.Debug("frame", "region", res.Region, "index", res.Frame, "numbers", len(res.Numbers), "current", res.Current)
	if res.Confirmed == "" {
		return
	}

	c := sink.NewConfirmation(res.Region, res.Confirmed, res.Frame, s.now())
	s.log.Info("string confirmed", "region", c.Region, "value", c.Value, "frame", c.Frame)

	select {
	case s.confirmations <- c:
	default:
		s.log.Warn("confirmation dropped, channel full", "region", c.Region, "value", c.Value)
	}

	if s.sink != nil {
		if err := s.sink.Publish(ctx, c); err != nil {
			s.log.Error("failed to publish confirmation", "region", c.Region, "error", err)
		}
	}
}

// Confirmations returns the channel confirmed strings are sent on.
func (s *Session) Confirmations() <-chan sink.Confirmation {
	return s.confirmations
}

// Close closes the sink.
func (s *Session) Close() error {
	if s.sink == nil {
		return nil
	}
	return s.sink.Close()
}
