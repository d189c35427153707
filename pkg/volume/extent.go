// Package volume provides the extent arithmetic and strided sample views
// that the correlation kernel reads from.
package volume

import "fmt"

// Axis indices used throughout the module.
const (
	X = 0
	Y = 1
	Z = 2
)

// Extent is an axis-aligned block of voxel indices. Min and Max are
// inclusive on every axis, so a single voxel has Min == Max.
type Extent struct {
	Min [3]int
	Max [3]int
}

// NewExtent builds an extent from inclusive bounds in x, y, z order.
func NewExtent(x0, x1, y0, y1, z0, z1 int) Extent {
	return Extent{Min: [3]int{x0, y0, z0}, Max: [3]int{x1, y1, z1}}
}

// ExtentOfSize returns the extent starting at the origin with the given
// number of voxels along each axis.
func ExtentOfSize(nx, ny, nz int) Extent {
	return NewExtent(0, nx-1, 0, ny-1, 0, nz-1)
}

// Empty reports whether min > max on any axis.
func (e Extent) Empty() bool {
	for i := 0; i < 3; i++ {
		if e.Min[i] > e.Max[i] {
			return true
		}
	}
	return false
}

// Dim returns the number of voxels along an axis (0 if empty).
func (e Extent) Dim(axis int) int {
	if d := e.Max[axis] - e.Min[axis] + 1; d > 0 {
		return d
	}
	return 0
}

// Size returns the number of voxels covered.
func (e Extent) Size() int {
	return e.Dim(X) * e.Dim(Y) * e.Dim(Z)
}

// Contains reports whether the voxel (x, y, z) lies within the extent.
func (e Extent) Contains(x, y, z int) bool {
	p := [3]int{x, y, z}
	for i := 0; i < 3; i++ {
		if p[i] < e.Min[i] || p[i] > e.Max[i] {
			return false
		}
	}
	return true
}

// ContainsExtent reports whether o lies entirely within e.
func (e Extent) ContainsExtent(o Extent) bool {
	if o.Empty() {
		return true
	}
	for i := 0; i < 3; i++ {
		if o.Min[i] < e.Min[i] || o.Max[i] > e.Max[i] {
			return false
		}
	}
	return true
}

// Intersect returns the overlap of two extents. The result may be empty.
func (e Extent) Intersect(o Extent) Extent {
	var r Extent
	for i := 0; i < 3; i++ {
		r.Min[i] = max(e.Min[i], o.Min[i])
		r.Max[i] = min(e.Max[i], o.Max[i])
	}
	return r
}

// Expand grows the extent by radius[i] voxels on both sides of axis i.
// This is the halo a partition must read to form complete windows at
// its own boundary.
func (e Extent) Expand(radius [3]int) Extent {
	r := e
	for i := 0; i < 3; i++ {
		r.Min[i] -= radius[i]
		r.Max[i] += radius[i]
	}
	return r
}

// Split divides the extent along one axis into at most parts disjoint,
// contiguous pieces that together cover it. Pieces differ in length by
// at most one voxel. Fewer pieces are returned when the axis is shorter
// than parts.
func (e Extent) Split(axis, parts int) []Extent {
	n := e.Dim(axis)
	if n == 0 || parts < 1 {
		return nil
	}
	if parts > n {
		parts = n
	}

	pieces := make([]Extent, 0, parts)
	lo := e.Min[axis]
	for i := 0; i < parts; i++ {
		size := n / parts
		if i < n%parts {
			size++
		}
		p := e
		p.Min[axis] = lo
		p.Max[axis] = lo + size - 1
		pieces = append(pieces, p)
		lo += size
	}
	return pieces
}

func (e Extent) String() string {
	return fmt.Sprintf("[%d..%d, %d..%d, %d..%d]",
		e.Min[X], e.Max[X], e.Min[Y], e.Max[Y], e.Min[Z], e.Max[Z])
}
