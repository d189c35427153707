package volume

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a view would address samples outside
// its backing slice.
var ErrOutOfBounds = errors.New("volume: view exceeds backing data")

// Image is the type-erased face of a Grid. The metric dispatches on
// ScalarType before touching samples.
type Image interface {
	ScalarType() ScalarType
	Bounds() Extent
}

// Grid is a strided view of 3D samples. The sample at (x, y, z) is
//
//	Data[Base + (x-Ext.Min[0])*Inc[0] + (y-Ext.Min[1])*Inc[1] + (z-Ext.Min[2])*Inc[2]]
//
// Grids never own more than a reference to Data; several grids may view
// the same backing slice.
type Grid[T Scalar] struct {
	Data []T
	Ext  Extent
	Inc  [3]int
	Base int
}

// NewGrid allocates a contiguous grid covering ext with x varying fastest.
func NewGrid[T Scalar](ext Extent) *Grid[T] {
	nx, ny := ext.Dim(X), ext.Dim(Y)
	return &Grid[T]{
		Data: make([]T, ext.Size()),
		Ext:  ext,
		Inc:  [3]int{1, nx, nx * ny},
	}
}

// WrapGrid views existing data laid out contiguously over ext, x fastest.
func WrapGrid[T Scalar](data []T, ext Extent) (*Grid[T], error) {
	nx, ny := ext.Dim(X), ext.Dim(Y)
	return NewView(data, ext, [3]int{1, nx, nx * ny}, 0)
}

// NewView checks that every voxel of ext addressed through inc and base
// lies inside data and returns the view.
func NewView[T Scalar](data []T, ext Extent, inc [3]int, base int) (*Grid[T], error) {
	if ext.Empty() {
		return nil, fmt.Errorf("%w: empty extent %v", ErrOutOfBounds, ext)
	}
	lo, hi := base, base
	for i := 0; i < 3; i++ {
		step := (ext.Max[i] - ext.Min[i]) * inc[i]
		if step < 0 {
			lo += step
		} else {
			hi += step
		}
	}
	if lo < 0 || hi >= len(data) {
		return nil, fmt.Errorf("%w: offsets %d..%d with %d samples", ErrOutOfBounds, lo, hi, len(data))
	}
	return &Grid[T]{Data: data, Ext: ext, Inc: inc, Base: base}, nil
}

func (g *Grid[T]) ScalarType() ScalarType { return ScalarTypeOf[T]() }

func (g *Grid[T]) Bounds() Extent { return g.Ext }

// Offset returns the index into Data of voxel (x, y, z). It does not
// check bounds.
func (g *Grid[T]) Offset(x, y, z int) int {
	return g.Base +
		(x-g.Ext.Min[X])*g.Inc[X] +
		(y-g.Ext.Min[Y])*g.Inc[Y] +
		(z-g.Ext.Min[Z])*g.Inc[Z]
}

// At returns the sample at (x, y, z), or zero outside the extent.
func (g *Grid[T]) At(x, y, z int) T {
	if !g.Ext.Contains(x, y, z) {
		var zero T
		return zero
	}
	return g.Data[g.Offset(x, y, z)]
}

// Set stores v at (x, y, z). Points outside the extent are ignored.
func (g *Grid[T]) Set(x, y, z int, v T) {
	if !g.Ext.Contains(x, y, z) {
		return
	}
	g.Data[g.Offset(x, y, z)] = v
}

// Line returns the samples x0..x1 (inclusive) of row (y, z). The caller
// must keep the span inside the extent.
func (g *Grid[T]) Line(x0, x1, y, z int) Line[T] {
	return Line[T]{data: g.Data, off: g.Offset(x0, y, z), inc: g.Inc[X], n: x1 - x0 + 1}
}

// Line is a strided run of samples along the x axis.
type Line[T Scalar] struct {
	data []T
	off  int
	inc  int
	n    int
}

// NewLine views data as a contiguous line.
func NewLine[T Scalar](data []T) Line[T] {
	return Line[T]{data: data, inc: 1, n: len(data)}
}

// Len returns the number of samples in the line.
func (l Line[T]) Len() int { return l.n }

// At returns sample k of the line.
func (l Line[T]) At(k int) T { return l.data[l.off+k*l.inc] }

// Slice returns samples [i, j) as a new line.
func (l Line[T]) Slice(i, j int) Line[T] {
	return Line[T]{data: l.data, off: l.off + i*l.inc, inc: l.inc, n: j - i}
}
