package ncc

import "nccreg/pkg/volume"

// lineSummer computes sliding-window moments along one line. It keeps a
// circular history of raw contributions between calls so a worker
// allocates it once.
type lineSummer[T volume.Sample, U Accum] struct {
	hist []Moments[U]
}

// sum writes into out[k] the moments of the sample pairs
// a[k-r..k+r], b[k-r..k+r], clipped to the line. out must have
// a.Len() elements.
func (ls *lineSummer[T, U]) sum(a, b volume.Line[T], r int, out []Moments[U]) {
	n := a.Len()
	if n == 0 {
		return
	}
	if r == 0 || n <= 3*r+2 {
		sumDirect(a, b, r, out)
		return
	}

	size := 2*r + 1
	if cap(ls.hist) < size {
		ls.hist = make([]Moments[U], size)
	}
	hist := ls.hist[:size]
	plan := planStages(n, r)

	// Input s lives in hist[s%size] until input s+size replaces it, which
	// is exactly when it leaves the window.
	s, k := 0, 0

	out[0] = Moments[U]{}
	for i := 0; i < plan[StagePrime]; i++ {
		c := contribution[T, U](a.At(s), b.At(s))
		hist[s%size] = c
		out[0].add(&c)
		s++
	}
	k++

	for i := 0; i < plan[StageLeadIn]; i++ {
		c := contribution[T, U](a.At(s), b.At(s))
		hist[s%size] = c
		m := out[k-1]
		m.add(&c)
		out[k] = m
		s++
		k++
	}

	for i := 0; i < plan[StageSlide]; i++ {
		c := contribution[T, U](a.At(s), b.At(s))
		slot := &hist[s%size]
		m := out[k-1]
		m.add(&c)
		m.sub(slot)
		*slot = c
		out[k] = m
		s++
		k++
	}

	for i := 0; i < plan[StageTail]; i++ {
		c := contribution[T, U](a.At(s), b.At(s))
		m := out[k-1]
		m.add(&c)
		m.sub(&hist[s%size])
		out[k] = m
		s++
		k++
	}

	// Hold is always empty here: n > 3r+2 keeps every late window clear
	// of input 0.
	for i := 0; i < plan[StageFinish]; i++ {
		m := out[k-1]
		m.sub(&hist[(k-r-1)%size])
		out[k] = m
		k++
	}
}

// sumDirect recomputes every window from scratch in O(n·r).
func sumDirect[T volume.Sample, U Accum](a, b volume.Line[T], r int, out []Moments[U]) {
	n := a.Len()
	for k := 0; k < n; k++ {
		var m Moments[U]
		for i := max(0, k-r); i < min(n, k+r+1); i++ {
			c := contribution[T, U](a.At(i), b.At(i))
			m.add(&c)
		}
		out[k] = m
	}
}
