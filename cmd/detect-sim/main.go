// detect-sim emits a synthetic detection stream in the format the
// counting server ingests: one FrameDetections JSON document per line.
// Objects take a bounded random walk across the frame, which is enough
// to exercise the zone pipeline without a camera or a real tracker.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/ayumu-h/zonewatch/pkg/types"
)

var (
	objects = flag.Int("objects", 3, "Number of simulated objects")
	frames  = flag.Int("frames", 300, "Number of frames to emit")
	width   = flag.Int("width", 1280, "Frame width")
	height  = flag.Int("height", 720, "Frame height")
	fps     = flag.Int("fps", 30, "Simulated frame rate (drives timestamps)")
	seed    = flag.Int64("seed", 1, "Random seed")
	boxSize = flag.Int("box-size", 40, "Detection box edge length")
	step    = flag.Int("step", 12, "Maximum per-frame movement")
)

type object struct {
	x, y int
}

func main() {
	flag.Parse()

	if *objects < 1 || *frames < 1 || *width < 1 || *height < 1 || *fps < 1 {
		log.Fatal("objects, frames, width, height and fps must be positive")
	}

	rng := rand.New(rand.NewSource(*seed))
	objs := make([]object, *objects)
	for i := range objs {
		objs[i] = object{x: rng.Intn(*width), y: rng.Intn(*height)}
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	enc := json.NewEncoder(out)

	for frame := 1; frame <= *frames; frame++ {
		dets := make([]types.Detection, len(objs))
		for i := range objs {
			objs[i].x = clamp(objs[i].x+rng.Intn(2*(*step)+1)-*step, 0, *width-1)
			objs[i].y = clamp(objs[i].y+rng.Intn(2*(*step)+1)-*step, 0, *height-1)
			dets[i] = types.Detection{
				ClassName:  "object",
				Confidence: 0.5 + rng.Float64()/2,
				BBox: types.BoundingBox{
					X: objs[i].x - *boxSize/2,
					Y: objs[i].y - *boxSize/2,
					W: *boxSize,
					H: *boxSize,
				},
			}
		}

		err := enc.Encode(types.FrameDetections{
			FrameNumber: uint64(frame),
			Timestamp:   float64(frame) / float64(*fps),
			Detections:  dets,
		})
		if err != nil {
			log.Fatalf("encode frame %d: %v", frame, err)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
