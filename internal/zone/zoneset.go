package zone

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ayumu-h/zonewatch/internal/persistlog"
	"github.com/ayumu-h/zonewatch/pkg/types"
)

// PersistConfig configures the periodic count log.
type PersistConfig struct {
	Path            string
	IntervalSeconds int
	FPS             int
	Speed           int  // playback speed multiplier, clamped to >= 1
	Camera          bool // wall-clock timestamps + window reset after each write
}

// persistence is the enabled half of the two-state persistence variant.
// A nil *persistence on the set means disabled; non-nil carries the
// config and the elapsed-frame counter.
type persistence struct {
	cfg     PersistConfig
	log     *persistlog.Writer
	elapsed int64
	now     func() time.Time
}

// ZoneSet owns an ordered collection of zones sharing construction
// defaults, and drives the optional persistence scheduler. It performs
// no internal locking: the caller serializes Check/Update.
type ZoneSet struct {
	zones   []*Zone
	persist *persistence
}

// NewSet builds one zone per spec. Zone order fixes the log column
// order. Names must be unique; geometry must be present and upright.
func NewSet(specs []Spec, defaults Defaults) (*ZoneSet, error) {
	zones := make([]*Zone, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		z, err := newZone(spec, defaults)
		if err != nil {
			return nil, err
		}
		if seen[z.name] {
			return nil, fmt.Errorf("%w: duplicate zone name %q", ErrInvalidZoneConfig, z.name)
		}
		seen[z.name] = true
		zones = append(zones, z)
	}
	return &ZoneSet{zones: zones}, nil
}

// Check tests the position against every zone. A position may count
// toward multiple overlapping zones; there is no mutual exclusion.
func (s *ZoneSet) Check(pos types.Position) error {
	if !pos.Valid() {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidInput, pos.X, pos.Y)
	}
	for _, z := range s.zones {
		z.hit(pos)
	}
	return nil
}

// Update ends the current frame on every zone, then runs one persistence
// scheduler step if persistence is enabled. A failed log append
// propagates and leaves the scheduler state unchanged.
func (s *ZoneSet) Update() error {
	for _, z := range s.zones {
		z.Update()
	}
	if s.persist == nil {
		return nil
	}
	if err := s.persist.step(s.zones); err != nil {
		return err
	}
	s.persist.elapsed++
	return nil
}

// EnablePersistence opens (truncating) the log file, writes the header
// row and arms the scheduler. It may be called at most once per set.
func (s *ZoneSet) EnablePersistence(cfg PersistConfig) error {
	if s.persist != nil {
		return ErrAlreadyEnabled
	}
	if cfg.IntervalSeconds <= 0 {
		return fmt.Errorf("%w: interval %d seconds", ErrInvalidPersistConfig, cfg.IntervalSeconds)
	}
	if cfg.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalidPersistConfig, cfg.FPS)
	}
	if cfg.Path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPersistConfig)
	}
	if cfg.Speed < 1 {
		cfg.Speed = 1
	}

	names := make([]string, len(s.zones))
	for i, z := range s.zones {
		names[i] = z.name
	}
	log, err := persistlog.Create(cfg.Path, names, cfg.Camera)
	if err != nil {
		return fmt.Errorf("zone: open persistence log: %w", err)
	}

	s.persist = &persistence{
		cfg: cfg,
		log: log,
		now: time.Now,
	}
	return nil
}

// step decides whether this tick crosses an interval boundary and, if
// so, appends one row of smoothed values. elapsed holds the value before
// this tick's increment.
//
// The trigger takes the integer frame product divided as a real number
// and applies an exact modulo test. Combinations of fps, speed and
// interval whose boundaries never land on a whole tick never produce a
// row.
func (p *persistence) step(zones []*Zone) error {
	current := float64(p.elapsed*int64(p.cfg.Speed)) / float64(p.cfg.FPS)
	if p.elapsed == 0 || math.Mod(current, float64(p.cfg.IntervalSeconds)) != 0 {
		return nil
	}

	timestamp := strconv.Itoa(int(current))
	if p.cfg.Camera {
		timestamp = p.now().Format("15:04:05")
	}
	values := make([]int, len(zones))
	for i, z := range zones {
		values[i] = z.Value()
	}
	if err := p.log.Append(timestamp, values); err != nil {
		return fmt.Errorf("zone: persist counts: %w", err)
	}

	// Camera mode restarts the window only once the row is on disk.
	if p.cfg.Camera {
		p.elapsed = 0
	}
	return nil
}

// Zones returns the zones in construction order. Callers get read
// access to name, geometry and smoothed value; mutation stays with the
// frame loop.
func (s *ZoneSet) Zones() []*Zone {
	return s.zones
}

// PersistStatus reports the log status; ok is false while persistence is
// disabled.
func (s *ZoneSet) PersistStatus() (persistlog.Status, bool) {
	if s.persist == nil {
		return persistlog.Status{}, false
	}
	return s.persist.log.Status(), true
}

// Close releases the persistence log, if enabled.
func (s *ZoneSet) Close() error {
	if s.persist == nil {
		return nil
	}
	return s.persist.log.Close()
}
