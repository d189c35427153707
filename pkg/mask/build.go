package mask

import (
	"nccreg/pkg/volume"
)

// Box returns a stencil over ext that includes every voxel of box.
func Box(ext, box volume.Extent) *Stencil {
	s := NewStencil(ext)
	b := box.Intersect(ext)
	if b.Empty() {
		return s
	}
	for z := b.Min[volume.Z]; z <= b.Max[volume.Z]; z++ {
		for y := b.Min[volume.Y]; y <= b.Max[volume.Y]; y++ {
			s.AddRun(y, z, b.Min[volume.X], b.Max[volume.X]+1)
		}
	}
	return s
}

// Ellipsoid includes voxels whose centre lies inside the axis-aligned
// ellipsoid with the given centre and semi-axes (in voxels).
func Ellipsoid(ext volume.Extent, center, radii [3]float64) *Stencil {
	s := NewStencil(ext)
	if radii[0] <= 0 || radii[1] <= 0 || radii[2] <= 0 {
		return s
	}
	for z := ext.Min[volume.Z]; z <= ext.Max[volume.Z]; z++ {
		dz := (float64(z) - center[2]) / radii[2]
		for y := ext.Min[volume.Y]; y <= ext.Max[volume.Y]; y++ {
			dy := (float64(y) - center[1]) / radii[1]
			start, open := 0, false
			for x := ext.Min[volume.X]; x <= ext.Max[volume.X]+1; x++ {
				inside := false
				if x <= ext.Max[volume.X] {
					dx := (float64(x) - center[0]) / radii[0]
					inside = dx*dx+dy*dy+dz*dz <= 1
				}
				switch {
				case inside && !open:
					start, open = x, true
				case !inside && open:
					s.AddRun(y, z, start, x)
					open = false
				}
			}
		}
	}
	return s
}

// Threshold includes voxels of g whose value lies in [lower, upper].
func Threshold[T volume.Scalar](g *volume.Grid[T], lower, upper float64) *Stencil {
	ext := g.Bounds()
	s := NewStencil(ext)
	for z := ext.Min[volume.Z]; z <= ext.Max[volume.Z]; z++ {
		for y := ext.Min[volume.Y]; y <= ext.Max[volume.Y]; y++ {
			line := g.Line(ext.Min[volume.X], ext.Max[volume.X], y, z)
			start := -1
			for k := 0; k <= line.Len(); k++ {
				inside := false
				if k < line.Len() {
					v := float64(line.At(k))
					inside = v >= lower && v <= upper
				}
				switch {
				case inside && start < 0:
					start = k
				case !inside && start >= 0:
					s.AddRun(y, z, ext.Min[volume.X]+start, ext.Min[volume.X]+k)
					start = -1
				}
			}
		}
	}
	return s
}
