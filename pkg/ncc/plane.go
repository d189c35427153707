package ncc

import (
	"nccreg/pkg/mask"
	"nccreg/pkg/volume"
)

// planeAccumulator produces the x–z window sums of one slab (fixed y).
// Each row along z is scanned into a ring of row buffers and slid along
// z into the output slab.
type planeAccumulator[T volume.Sample, U Accum] struct {
	scan lineScanner[T, U]
	ring []Moments[U]
}

// historyRows returns how many scanned rows must stay alive at once.
// Row s is subtracted when output s+r+1 is formed; when no such output
// exists (n <= r+1) one shared row is enough.
func historyRows(n, r int) int {
	if n <= r+1 {
		return 1
	}
	return min(2*r+2, n)
}

// accumulate fills out, laid out as ext.Dim(Z) rows of ext.Dim(X)
// moments, with sums over x in [x-rx, x+rx] and z in [z-rz, z+rz],
// clipped to ext.
func (p *planeAccumulator[T, U]) accumulate(a, b *volume.Grid[T], st *mask.Stencil,
	ext volume.Extent, radius [3]int, y int, out []Moments[U]) {

	rowSize := ext.Dim(volume.X)
	n := ext.Dim(volume.Z)
	r := radius[volume.Z]
	x0, x1 := ext.Min[volume.X], ext.Max[volume.X]
	z0 := ext.Min[volume.Z]

	rows := historyRows(n, r)
	if cap(p.ring) < rows*rowSize {
		p.ring = make([]Moments[U], rows*rowSize)
	}
	ring := p.ring[:rows*rowSize]

	row := func(s int) []Moments[U] {
		i := s % rows
		return ring[i*rowSize : (i+1)*rowSize]
	}
	outRow := func(k int) []Moments[U] {
		return out[k*rowSize : (k+1)*rowSize]
	}

	s := 0
	next := func() []Moments[U] {
		in := row(s)
		p.scan.scan(a, b, st, x0, x1, y, z0+s, radius[volume.X], in)
		s++
		return in
	}

	plan := planStages(n, r)
	for i := 0; i < plan[StagePrime]; i++ {
		in := next()
		if i == 0 {
			copy(outRow(0), in)
		} else {
			addBlock(outRow(0), in)
		}
	}

	k := 1
	for i := 0; i < plan[StageLeadIn]; i++ {
		sumBlock(outRow(k), outRow(k-1), next())
		k++
	}

	// Tail differs from Slide only in whether the input is needed later;
	// the ring already bounds memory, so both are handled alike.
	for i := 0; i < plan[StageSlide]+plan[StageTail]; i++ {
		in := next()
		slideBlock(outRow(k), outRow(k-1), in, row(s-1-2*r-1))
		k++
	}

	for i := 0; i < plan[StageHold]; i++ {
		copy(outRow(k), outRow(k-1))
		k++
	}

	for i := 0; i < plan[StageFinish]; i++ {
		dropBlock(outRow(k), outRow(k-1), row(k-r-1))
		k++
	}
}
