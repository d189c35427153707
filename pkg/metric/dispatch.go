package metric

import (
	"fmt"

	"nccreg/internal/models"
	"nccreg/pkg/mask"
	"nccreg/pkg/ncc"
	"nccreg/pkg/volume"
)

// job is a volume pair bound to concrete sample and accumulation types.
// Everything past newJob is type-safe.
type job interface {
	sum(p models.Partition, progress func(float64)) (float64, int, error)
	fill(p models.Partition, dst *volume.Grid[float64]) error
	reference(p models.Partition) (float64, int, error)
}

type typedJob[T volume.Sample, U ncc.Accum] struct {
	a, b   *volume.Grid[T]
	radius [3]int
	mask   *mask.Stencil
}

func (j *typedJob[T, U]) region(p models.Partition, progress func(float64)) ncc.Region {
	return ncc.Region{
		Radius:   j.radius,
		Input:    p.Input,
		Output:   p.Output,
		Mask:     j.mask,
		Progress: progress,
	}
}

func (j *typedJob[T, U]) sum(p models.Partition, progress func(float64)) (float64, int, error) {
	return ncc.NewAccumulator[T, U]().Sum(j.a, j.b, j.region(p, progress))
}

func (j *typedJob[T, U]) fill(p models.Partition, dst *volume.Grid[float64]) error {
	return ncc.NewAccumulator[T, U]().Visit(j.a, j.b, j.region(p, nil), func(x, y, z int, m *ncc.Moments[U]) {
		dst.Set(x, y, z, m.NCCSquared())
	})
}

func (j *typedJob[T, U]) reference(p models.Partition) (float64, int, error) {
	return ncc.Reference(j.a, j.b, j.region(p, nil))
}

// newJob resolves the sample type of both volumes and the accumulation
// precision.
func newJob(fixed, moving volume.Image, params *Params) (job, error) {
	if fixed.ScalarType() != moving.ScalarType() {
		return nil, fmt.Errorf("%w: fixed is %s, moving is %s", ErrTypeMismatch, fixed.ScalarType(), moving.ScalarType())
	}
	switch a := fixed.(type) {
	case *volume.Grid[int8]:
		return bind(a, moving, params)
	case *volume.Grid[uint8]:
		return bind(a, moving, params)
	case *volume.Grid[int16]:
		return bind(a, moving, params)
	case *volume.Grid[uint16]:
		return bind(a, moving, params)
	case *volume.Grid[int32]:
		return bind(a, moving, params)
	case *volume.Grid[uint32]:
		return bind(a, moving, params)
	case *volume.Grid[float32]:
		return bind(a, moving, params)
	case *volume.Grid[float64]:
		return bind(a, moving, params)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, fixed.ScalarType())
}

func bind[T volume.Sample](a *volume.Grid[T], moving volume.Image, params *Params) (job, error) {
	b, ok := moving.(*volume.Grid[T])
	if !ok {
		return nil, fmt.Errorf("%w: moving volume is %T", ErrTypeMismatch, moving)
	}
	switch params.Precision {
	case Float32:
		return &typedJob[T, float32]{a: a, b: b, radius: params.Radius, mask: params.Mask}, nil
	case Float64:
		return &typedJob[T, float64]{a: a, b: b, radius: params.Radius, mask: params.Mask}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrPrecision, params.Precision)
}
