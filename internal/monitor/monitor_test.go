package monitor

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/ayumu-h/zonewatch/internal/annotate"
	"github.com/ayumu-h/zonewatch/internal/zone"
	"github.com/ayumu-h/zonewatch/pkg/types"
)

func corner(x, y int) *zone.Point {
	return &zone.Point{X: x, Y: y}
}

func newTestMonitor(t *testing.T, persistPath string) *Monitor {
	t.Helper()
	set, err := zone.NewSet([]zone.Spec{
		{Name: "door", TopLeft: corner(0, 0), BottomRight: corner(100, 100)},
		{Name: "couch", TopLeft: corner(200, 200), BottomRight: corner(300, 300)},
	}, zone.Defaults{Smoothness: 1})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	if persistPath != "" {
		err := set.EnablePersistence(zone.PersistConfig{
			Path: persistPath, IntervalSeconds: 1, FPS: 1, Speed: 1,
		})
		if err != nil {
			t.Fatalf("EnablePersistence: %v", err)
		}
	}
	return New(set)
}

func TestAdvanceCountsFramesAndPositions(t *testing.T) {
	m := newTestMonitor(t, "")

	err := m.Advance([]types.Position{{X: 50, Y: 50}, {X: 250, Y: 250}})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := m.Advance(nil); err != nil {
		t.Fatalf("Advance empty frame: %v", err)
	}

	stats := m.Snapshot()
	if stats.FramesProcessed != 2 || stats.PositionsChecked != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.SessionID == "" {
		t.Fatal("empty session id")
	}
	if len(stats.Zones) != 2 {
		t.Fatalf("zones = %v", stats.Zones)
	}
	// Each zone saw one position in frame 1, none in frame 2 (smoothness 1).
	for _, zs := range stats.Zones {
		if zs.Value != 0 {
			t.Fatalf("zone %s value = %d, want 0 after empty frame", zs.Name, zs.Value)
		}
	}
	if stats.Persistence.Enabled {
		t.Fatal("persistence reported enabled")
	}
}

func TestSnapshotReportsPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.csv")
	m := newTestMonitor(t, path)
	defer m.Close()

	// Two ticks: the second crosses the 1-second boundary and writes.
	if err := m.Advance(nil); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := m.Advance(nil); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	stats := m.Snapshot()
	if !stats.Persistence.Enabled || stats.Persistence.Path != path {
		t.Fatalf("persistence = %+v", stats.Persistence)
	}
	if stats.Persistence.Rows != 1 {
		t.Fatalf("rows = %d, want 1", stats.Persistence.Rows)
	}
}

func TestRenderOverlay(t *testing.T) {
	m := newTestMonitor(t, "")
	style := annotate.Style{
		Color:        color.RGBA{G: 255, A: 255},
		BoxThickness: 2,
		TextOffset:   image.Pt(5, 25),
		TextScale:    1,
	}

	img := m.RenderOverlay(640, 480, style)
	if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 480 {
		t.Fatalf("overlay bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got != style.Color {
		t.Fatalf("door top-left corner = %v, want %v", got, style.Color)
	}
}
