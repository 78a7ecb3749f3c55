package zone

// countRing is a fixed-capacity FIFO of per-frame counts. Pushing onto a
// full ring evicts the oldest entry.
type countRing struct {
	buf  []int
	head int // index of the oldest entry
	n    int
}

func newCountRing(capacity int) *countRing {
	return &countRing{buf: make([]int, capacity)}
}

func (r *countRing) push(v int) {
	if r.n == len(r.buf) {
		r.buf[r.head] = v
		r.head = (r.head + 1) % len(r.buf)
		return
	}
	r.buf[(r.head+r.n)%len(r.buf)] = v
	r.n++
}

func (r *countRing) size() int {
	return r.n
}

// mean returns the integer mean of the stored counts, truncated toward
// zero. An empty ring yields 0.
func (r *countRing) mean() int {
	if r.n == 0 {
		return 0
	}
	sum := 0
	for i := 0; i < r.n; i++ {
		sum += r.buf[(r.head+i)%len(r.buf)]
	}
	return sum / r.n
}

// values returns the stored counts, oldest first.
func (r *countRing) values() []int {
	out := make([]int, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}
