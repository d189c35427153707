package metric

import (
	"fmt"
	"runtime"

	"nccreg/pkg/mask"
	"nccreg/pkg/ncc"
	"nccreg/pkg/volume"
)

// Precision selects the type window sums are accumulated in.
type Precision string

const (
	Float32 Precision = "float32"
	Float64 Precision = "float64"
)

// Params holds the evaluation parameters.
type Params struct {
	// Radius is the window half-size along x, y and z.
	Radius [3]int

	// Precision is the accumulation type, independent of the sample type.
	Precision Precision

	// Workers is the number of partitions evaluated in parallel.
	Workers int

	// SplitAxis is the axis the output region is partitioned along.
	// Z keeps the per-worker slab buffers smallest.
	SplitAxis int

	// Output, if set, restricts the voxels whose windows are reduced.
	// Windows still read samples outside it.
	Output *volume.Extent

	// Mask, if set, restricts both the samples summed and the windows
	// reduced. It is shared read-only by all workers.
	Mask *mask.Stencil

	// Progress, if set, receives a rising fraction in [0, 1] about fifty
	// times per evaluation, ending with 1.
	Progress func(float64)

	// Verbose prints partition progress to stdout.
	Verbose bool
}

// DefaultParams returns a radius of 4 on every axis, float64 sums, one
// worker per CPU and a z split.
func DefaultParams() *Params {
	return &Params{
		Radius:    [3]int{4, 4, 4},
		Precision: Float64,
		Workers:   runtime.NumCPU(),
		SplitAxis: volume.Z,
	}
}

// Validate checks everything that can be checked without the volumes.
func (p *Params) Validate() error {
	for i, r := range p.Radius {
		if r < 0 {
			return fmt.Errorf("%w: axis %d has radius %d", ncc.ErrInvalidRadius, i, r)
		}
	}
	if p.Precision != Float32 && p.Precision != Float64 {
		return fmt.Errorf("%w: %q", ErrPrecision, p.Precision)
	}
	if p.SplitAxis < volume.X || p.SplitAxis > volume.Z {
		return fmt.Errorf("%w: got %d", ErrSplitAxis, p.SplitAxis)
	}
	return nil
}

func (p *Params) workers() int {
	if p.Workers < 1 {
		return 1
	}
	return p.Workers
}
