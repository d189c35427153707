package ncc

import (
	"fmt"

	"nccreg/pkg/mask"
	"nccreg/pkg/volume"
)

// Region describes one evaluation: which samples to read, which windows
// to fold, and under what stencil.
type Region struct {
	// Radius is the window half-size along x, y and z.
	Radius [3]int

	// Input is the extent read from both volumes. Callers evaluating a
	// partition pass the partition grown by Radius and clipped to the
	// volumes, so windows at the partition edge are complete.
	Input volume.Extent

	// Output is the extent whose windows are folded into the result.
	// It is clipped to Input.
	Output volume.Extent

	// Mask restricts both the samples summed and the windows folded.
	// Nil includes every voxel.
	Mask *mask.Stencil

	// Progress, if set, receives a rising fraction in [0, 1) about fifty
	// times per call.
	Progress func(float64)
}

// Validate checks the region against the two volumes.
func (reg Region) Validate(a, b volume.Image) error {
	for i, r := range reg.Radius {
		if r < 0 {
			return fmt.Errorf("%w: axis %d has radius %d", ErrInvalidRadius, i, r)
		}
	}
	if reg.Input.Empty() {
		return nil
	}
	if !a.Bounds().ContainsExtent(reg.Input) || !b.Bounds().ContainsExtent(reg.Input) {
		return fmt.Errorf("%w: input %v not inside %v and %v", ErrExtent, reg.Input, a.Bounds(), b.Bounds())
	}
	return nil
}

// Accumulator computes windowed moments over a volume pair one slab at
// a time and folds each finished window straight away. It holds only a
// ring of 2ry+3 slabs plus the per-slab row buffers; the scratch is
// reused across calls, so an Accumulator belongs to one goroutine.
type Accumulator[T volume.Sample, U Accum] struct {
	plane planeAccumulator[T, U]
	slabs []Moments[U]
}

// NewAccumulator returns an accumulator with empty scratch.
func NewAccumulator[T volume.Sample, U Accum]() *Accumulator[T, U] {
	return &Accumulator[T, U]{}
}

// Sum returns the sum of squared NCC over the masked windows of
// reg.Output and the number of windows folded.
func (acc *Accumulator[T, U]) Sum(a, b *volume.Grid[T], reg Region) (float64, int, error) {
	var total float64
	var count int
	err := acc.Visit(a, b, reg, func(x, y, z int, m *Moments[U]) {
		total += m.NCCSquared()
		count++
	})
	return total, count, err
}

// Visit calls fn with the moments of every window centred in
// reg.Output and inside reg.Mask, in y, z, x order. m is only valid for
// the duration of the call.
func (acc *Accumulator[T, U]) Visit(a, b *volume.Grid[T], reg Region, fn func(x, y, z int, m *Moments[U])) error {
	if err := reg.Validate(a, b); err != nil {
		return err
	}
	in := reg.Input
	out := reg.Output.Intersect(in)
	if in.Empty() || out.Empty() {
		return nil
	}

	rowSize := in.Dim(volume.X)
	slabSize := rowSize * in.Dim(volume.Z)
	n := in.Dim(volume.Y)
	r := reg.Radius[volume.Y]
	y0 := in.Min[volume.Y]

	// Inputs take slot s%size. An output past the lead-in is written in
	// place over the slab leaving its window (O = P - O + I); earlier
	// outputs alternate between the last two slots, arranged so that
	// output r sits in the slot the first sliding input does not take.
	size := min(2*r+3, n+2)
	if cap(acc.slabs) < size*slabSize {
		acc.slabs = make([]Moments[U], size*slabSize)
	}
	slabs := acc.slabs[:size*slabSize]
	slot := func(i int) []Moments[U] {
		return slabs[i*slabSize : (i+1)*slabSize]
	}
	outSlot := func(k int) []Moments[U] {
		if k <= r {
			return slot(size - 1 - ((r - k) & 1))
		}
		return slot((k - r - 1) % size)
	}

	progressStep := (n + 49) / 50
	s := 0
	next := func() []Moments[U] {
		if reg.Progress != nil && s%progressStep == 0 {
			reg.Progress(float64(s) / float64(n))
		}
		in := slot(s % size)
		acc.plane.accumulate(a, b, reg.Mask, reg.Input, reg.Radius, y0+s, in)
		s++
		return in
	}

	// emit folds output k and reports whether the output range is done.
	emit := func(k int) bool {
		y := y0 + k
		if y >= out.Min[volume.Y] {
			acc.fold(outSlot(k), reg, out, y, fn)
		}
		return y >= out.Max[volume.Y]
	}

	plan := planStages(n, r)
	o := outSlot(0)
	for i := 0; i < plan[StagePrime]; i++ {
		in := next()
		if i == 0 {
			copy(o, in)
		} else {
			addBlock(o, in)
		}
	}
	if emit(0) {
		return nil
	}

	k := 1
	for i := 0; i < plan[StageLeadIn]; i++ {
		sumBlock(outSlot(k), outSlot(k-1), next())
		if emit(k) {
			return nil
		}
		k++
	}

	for i := 0; i < plan[StageSlide]+plan[StageTail]; i++ {
		in := next()
		dst := outSlot(k)
		slideBlock(dst, outSlot(k-1), in, dst)
		if emit(k) {
			return nil
		}
		k++
	}

	for i := 0; i < plan[StageHold]; i++ {
		copy(outSlot(k), outSlot(k-1))
		if emit(k) {
			return nil
		}
		k++
	}

	for i := 0; i < plan[StageFinish]; i++ {
		dst := outSlot(k)
		dropBlock(dst, outSlot(k-1), dst)
		if emit(k) {
			return nil
		}
		k++
	}
	return nil
}

// fold hands every masked window of slab y inside out to fn.
func (acc *Accumulator[T, U]) fold(slab []Moments[U], reg Region, out volume.Extent, y int,
	fn func(x, y, z int, m *Moments[U])) {

	in := reg.Input
	rowSize := in.Dim(volume.X)
	for z := out.Min[volume.Z]; z <= out.Max[volume.Z]; z++ {
		row := slab[(z-in.Min[volume.Z])*rowSize : (z-in.Min[volume.Z]+1)*rowSize]
		it := mask.NewIter(reg.Mask, out.Min[volume.X], out.Max[volume.X], y, z)
		for run, ok := it.Next(); ok; run, ok = it.Next() {
			for x := run.Start; x < run.End; x++ {
				fn(x, y, z, &row[x-in.Min[volume.X]])
			}
		}
	}
}
