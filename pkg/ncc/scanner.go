package ncc

import (
	"nccreg/pkg/mask"
	"nccreg/pkg/volume"
)

// lineScanner applies the line sum to each stencil run of a row and
// zeroes the moments of every excluded sample. Runs are summed
// independently: a sample never reaches a window in another run.
type lineScanner[T volume.Sample, U Accum] struct {
	line lineSummer[T, U]
}

// scan fills out (x1-x0+1 elements) for row (y, z) of a and b over
// x0..x1 with radius r.
func (sc *lineScanner[T, U]) scan(a, b *volume.Grid[T], st *mask.Stencil,
	x0, x1, y, z, r int, out []Moments[U]) {

	la := a.Line(x0, x1, y, z)
	lb := b.Line(x0, x1, y, z)

	pos := 0
	it := mask.NewIter(st, x0, x1, y, z)
	for run, ok := it.Next(); ok; run, ok = it.Next() {
		i, j := run.Start-x0, run.End-x0
		clear(out[pos:i])
		sc.line.sum(la.Slice(i, j), lb.Slice(i, j), r, out[i:j])
		pos = j
	}
	clear(out[pos:])
}
