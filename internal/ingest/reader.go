// Package ingest consumes the detector's output stream: one JSON
// document per line, one line per video frame.
package ingest

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ayumu-h/zonewatch/pkg/types"
)

// ErrMalformedDetection is returned for detections whose bounding box
// cannot yield a position.
var ErrMalformedDetection = errors.New("ingest: malformed detection")

// maxLineBytes bounds a single frame line. A frame carries at most a few
// dozen detections, so 1 MiB is generous.
const maxLineBytes = 1 << 20

// Reader decodes FrameDetections lines from a stream. Frames that do not
// advance the frame number are dropped, mirroring how a slow consumer of
// the detector's latest-result slot sees repeats.
type Reader struct {
	scanner   *bufio.Scanner
	line      uint64
	lastFrame uint64
	seen      bool
	skipped   uint64
}

// NewReader wraps a detection stream.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{scanner: scanner}
}

// Next returns the next new frame. It skips blank lines and stale or
// repeated frame numbers, returns a wrapped error for an undecodable
// line, and io.EOF once the stream ends.
func (r *Reader) Next() (*types.FrameDetections, error) {
	for r.scanner.Scan() {
		r.line++
		data := r.scanner.Bytes()
		if len(data) == 0 {
			continue
		}

		var frame types.FrameDetections
		if err := json.Unmarshal(data, &frame); err != nil {
			return nil, fmt.Errorf("ingest: parse line %d: %w", r.line, err)
		}
		if r.seen && frame.FrameNumber <= r.lastFrame {
			r.skipped++
			continue
		}
		r.seen = true
		r.lastFrame = frame.FrameNumber
		return &frame, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("ingest: read stream: %w", err)
	}
	return nil, io.EOF
}

// Skipped reports how many stale or repeated frames were dropped.
func (r *Reader) Skipped() uint64 {
	return r.skipped
}

// Positions derives the centroid position of every detection in a frame.
func Positions(frame *types.FrameDetections) ([]types.Position, error) {
	if len(frame.Detections) == 0 {
		return nil, nil
	}
	positions := make([]types.Position, 0, len(frame.Detections))
	for i, det := range frame.Detections {
		if det.BBox.W < 0 || det.BBox.H < 0 {
			return nil, fmt.Errorf("%w: frame %d detection %d has box %dx%d",
				ErrMalformedDetection, frame.FrameNumber, i, det.BBox.W, det.BBox.H)
		}
		positions = append(positions, det.BBox.Center())
	}
	return positions, nil
}
