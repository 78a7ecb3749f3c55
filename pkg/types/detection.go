package types

import "math"

// Position is a single tracked-object coordinate in pixel space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Valid reports whether both coordinates are finite numbers.
func (p Position) Valid() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// BoundingBox mirrors the JSON shape emitted by the detector process.
type BoundingBox struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Center returns the box centroid.
func (b BoundingBox) Center() Position {
	return Position{
		X: float64(b.X) + float64(b.W)/2,
		Y: float64(b.Y) + float64(b.H)/2,
	}
}

// Detection mirrors the JSON shape emitted by the detector process.
type Detection struct {
	ClassName  string      `json:"class_name"`
	Confidence float64     `json:"confidence"`
	BBox       BoundingBox `json:"bbox"`
}

// FrameDetections is one video frame's worth of detections. The detector
// writes one of these per line; a line with no detections still marks a
// frame boundary.
type FrameDetections struct {
	FrameNumber uint64      `json:"frame_number"`
	Timestamp   float64     `json:"timestamp"`
	Detections  []Detection `json:"detections"`
}
