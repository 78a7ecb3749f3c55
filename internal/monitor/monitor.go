// Package monitor owns the running zone set and synthesizes runtime
// statistics for the status API. The counting core performs no locking
// of its own, so every touch of the set goes through the monitor's
// mutex: the frame loop advances under it and the HTTP handlers
// snapshot under it.
package monitor

import (
	"image"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayumu-h/zonewatch/internal/annotate"
	"github.com/ayumu-h/zonewatch/internal/zone"
	"github.com/ayumu-h/zonewatch/pkg/types"
)

// ZoneStatus is one zone's slice of the status payload.
type ZoneStatus struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// PersistStatus reports count-log progress in the status payload.
type PersistStatus struct {
	Enabled      bool   `json:"enabled"`
	Path         string `json:"path,omitempty"`
	Rows         uint64 `json:"rows"`
	BytesWritten uint64 `json:"bytes_written"`
}

// Stats is the status API payload.
type Stats struct {
	SessionID        string        `json:"session_id"`
	UptimeSeconds    float64       `json:"uptime_s"`
	FramesProcessed  uint64        `json:"frames_processed"`
	PositionsChecked uint64        `json:"positions_checked"`
	CurrentFPS       float64       `json:"current_fps"`
	Zones            []ZoneStatus  `json:"zones"`
	Persistence      PersistStatus `json:"persistence"`
}

// Monitor serializes access to a ZoneSet and tracks frame-loop counters.
type Monitor struct {
	sessionID string
	startTime time.Time

	mu        sync.Mutex
	set       *zone.ZoneSet
	frames    uint64
	positions uint64
}

// New wraps a zone set. The monitor takes ownership: after this, all
// Check/Update traffic goes through Advance.
func New(set *zone.ZoneSet) *Monitor {
	return &Monitor{
		sessionID: uuid.NewString(),
		startTime: time.Now(),
		set:       set,
	}
}

// SessionID returns the id assigned to this server run.
func (m *Monitor) SessionID() string {
	return m.sessionID
}

// Advance runs one full frame against the set: every position is
// checked, then the set ticks once. Errors from the core (invalid
// position, failed persistence write) propagate untouched.
func (m *Monitor) Advance(positions []types.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, pos := range positions {
		if err := m.set.Check(pos); err != nil {
			return err
		}
	}
	if err := m.set.Update(); err != nil {
		return err
	}

	m.frames++
	m.positions += uint64(len(positions))
	return nil
}

// Snapshot returns the current stats.
func (m *Monitor) Snapshot() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	uptime := time.Since(m.startTime).Seconds()
	fps := 0.0
	if uptime > 0 {
		fps = float64(m.frames) / uptime
	}

	zones := make([]ZoneStatus, 0, len(m.set.Zones()))
	for _, z := range m.set.Zones() {
		zones = append(zones, ZoneStatus{Name: z.Name(), Value: z.Value()})
	}

	persist := PersistStatus{}
	if status, ok := m.set.PersistStatus(); ok {
		persist = PersistStatus{
			Enabled:      true,
			Path:         status.Path,
			Rows:         status.Rows,
			BytesWritten: status.BytesWritten,
		}
	}

	return Stats{
		SessionID:        m.sessionID,
		UptimeSeconds:    uptime,
		FramesProcessed:  m.frames,
		PositionsChecked: m.positions,
		CurrentFPS:       fps,
		Zones:            zones,
		Persistence:      persist,
	}
}

// RenderOverlay draws the current zones onto a synthesized canvas.
func (m *Monitor) RenderOverlay(width, height int, style annotate.Style) *image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()

	views := make([]annotate.View, len(m.set.Zones()))
	for i, z := range m.set.Zones() {
		views[i] = z
	}
	return annotate.Render(width, height, views, style)
}

// Close releases the set's persistence log.
func (m *Monitor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set.Close()
}
