package ncc

import (
	"gonum.org/v1/gonum/stat"

	"nccreg/pkg/mask"
	"nccreg/pkg/volume"
)

// Reference computes the same result as Accumulator.Sum by gathering
// every window explicitly and correlating it with gonum/stat. It costs
// O(volume·window) and exists to cross-check the sliding kernel.
func Reference[T volume.Sample](a, b *volume.Grid[T], reg Region) (float64, int, error) {
	if err := reg.Validate(a, b); err != nil {
		return 0, 0, err
	}
	in := reg.Input
	out := reg.Output.Intersect(in)
	if in.Empty() || out.Empty() {
		return 0, 0, nil
	}

	var total float64
	var count int
	for y := out.Min[volume.Y]; y <= out.Max[volume.Y]; y++ {
		for z := out.Min[volume.Z]; z <= out.Max[volume.Z]; z++ {
			it := mask.NewIter(reg.Mask, out.Min[volume.X], out.Max[volume.X], y, z)
			for run, ok := it.Next(); ok; run, ok = it.Next() {
				for x := run.Start; x < run.End; x++ {
					xs, ys := ReferenceWindow(a, b, reg, x, y, z)
					total += CorrelationSquared(xs, ys)
					count++
				}
			}
		}
	}
	return total, count, nil
}

// ReferenceWindow returns the sample pairs summed into the window centred
// at (x, y, z). Along x a row contributes only the stencil run that
// contains x in that row, clipped to the window; rows where x is
// excluded contribute nothing.
func ReferenceWindow[T volume.Sample](a, b *volume.Grid[T], reg Region, x, y, z int) (xs, ys []float64) {
	in := reg.Input
	rad := reg.Radius
	for zz := max(z-rad[volume.Z], in.Min[volume.Z]); zz <= min(z+rad[volume.Z], in.Max[volume.Z]); zz++ {
		for yy := max(y-rad[volume.Y], in.Min[volume.Y]); yy <= min(y+rad[volume.Y], in.Max[volume.Y]); yy++ {
			run, ok := runAround(reg.Mask, in, x, yy, zz)
			if !ok {
				continue
			}
			for xx := max(x-rad[volume.X], run.Start); xx <= min(x+rad[volume.X], run.End-1); xx++ {
				xs = append(xs, float64(a.At(xx, yy, zz)))
				ys = append(ys, float64(b.At(xx, yy, zz)))
			}
		}
	}
	return xs, ys
}

func runAround(st *mask.Stencil, in volume.Extent, x, y, z int) (mask.Run, bool) {
	it := mask.NewIter(st, in.Min[volume.X], in.Max[volume.X], y, z)
	for run, ok := it.Next(); ok; run, ok = it.Next() {
		if run.Start <= x && x < run.End {
			return run, true
		}
	}
	return mask.Run{}, false
}

// CorrelationSquared returns the squared Pearson correlation of xs and
// ys, or 1 when either has no variance.
func CorrelationSquared(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return 1
	}
	vx := stat.Variance(xs, nil)
	vy := stat.Variance(ys, nil)
	if !(vx > 0 && vy > 0) {
		return 1
	}
	c := stat.Covariance(xs, ys, nil)
	return c * c / (vx * vy)
}
