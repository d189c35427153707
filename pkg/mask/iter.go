package mask

// Iter walks the included runs of one row, clipped to an x interval.
// A nil stencil yields the whole interval as a single run, so scanners
// need no separate unmasked path.
type Iter struct {
	runs   []Run
	i      int
	lo, hi int // clip interval, half-open
	whole  bool
}

// NewIter returns an iterator over row (y, z) of s restricted to
// x in [x0, x1] (inclusive). s may be nil.
func NewIter(s *Stencil, x0, x1, y, z int) Iter {
	it := Iter{lo: x0, hi: x1 + 1}
	if s == nil {
		it.whole = x0 <= x1
		return it
	}
	it.runs = s.Runs(y, z)
	return it
}

// Next returns the next run after the cursor, or false when the row is
// exhausted.
func (it *Iter) Next() (Run, bool) {
	if it.whole {
		it.whole = false
		return Run{it.lo, it.hi}, true
	}
	for it.i < len(it.runs) {
		r := it.runs[it.i]
		it.i++
		if r.End <= it.lo {
			continue
		}
		if r.Start >= it.hi {
			it.i = len(it.runs)
			break
		}
		return Run{max(r.Start, it.lo), min(r.End, it.hi)}, true
	}
	return Run{}, false
}
