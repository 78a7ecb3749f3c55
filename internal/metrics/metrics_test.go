package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExportsCounters(t *testing.T) {
	m := New()
	m.FramesTicked.Add(42)
	m.RowsWritten.Add(3)
	m.SetZoneValue("door", 5)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		"zonewatch_frames_ticked_total 42",
		"zonewatch_log_rows_written_total 3",
		`zonewatch_zone_occupancy{zone="door"} 5`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, body)
		}
	}
}
