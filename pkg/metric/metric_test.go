package metric

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nccreg/pkg/mask"
	"nccreg/pkg/ncc"
	"nccreg/pkg/volume"
)

func randomGrid[T volume.Sample](ext volume.Extent, seed uint64) *volume.Grid[T] {
	rng := rand.New(rand.NewPCG(seed, 7))
	g := volume.NewGrid[T](ext)
	for i := range g.Data {
		g.Data[i] = T(rng.IntN(100))
	}
	return g
}

func testParams(workers, axis int) *Params {
	p := DefaultParams()
	p.Radius = [3]int{2, 1, 2}
	p.Workers = workers
	p.SplitAxis = axis
	return p
}

// TestPartitionConsistency checks that any number of partitions along
// any axis reduces to the brute-force total.
func TestPartitionConsistency(t *testing.T) {
	whole := volume.ExtentOfSize(10, 9, 12)
	fixed := randomGrid[uint16](whole, 1)
	moving := randomGrid[uint16](whole, 2)

	want, wantN, err := New(testParams(1, volume.Z)).Verify(fixed, moving)
	require.NoError(t, err)
	require.Equal(t, whole.Size(), wantN)

	maxWorkers := 6
	if testing.Short() {
		maxWorkers = 3
	}
	for axis := volume.X; axis <= volume.Z; axis++ {
		for workers := 1; workers <= maxWorkers; workers++ {
			m := New(testParams(workers, axis))
			report, err := m.Evaluate(fixed, moving)
			require.NoError(t, err)
			assert.InDelta(t, want, report.Total, 1e-9, "axis %d workers %d", axis, workers)
			assert.Equal(t, wantN, report.Voxels)
			assert.Len(t, report.Partials, workers)
			assert.Equal(t, -report.Total, m.ValueToMinimize())
		}
	}
}

// TestLineScenario evaluates an eight-sample line against itself: every
// window is perfectly correlated whatever the split.
func TestLineScenario(t *testing.T) {
	ext := volume.ExtentOfSize(8, 1, 1)
	line, err := volume.WrapGrid([]float64{1, 2, 3, 4, 5, 6, 7, 8}, ext)
	require.NoError(t, err)

	for workers := 1; workers <= 8; workers++ {
		p := DefaultParams()
		p.Radius = [3]int{1, 0, 0}
		p.Workers = workers
		p.SplitAxis = volume.X

		m := New(p)
		report, err := m.Evaluate(line, line)
		require.NoError(t, err)
		assert.Equal(t, 8.0, report.Total, "workers %d", workers)
		assert.Equal(t, 8, report.Voxels)
		assert.Equal(t, 1.0, report.Mean)
		assert.Equal(t, -8.0, m.ValueToMinimize())
	}
}

func TestRadiusZero(t *testing.T) {
	whole := volume.ExtentOfSize(5, 4, 3)
	p := DefaultParams()
	p.Radius = [3]int{}
	p.Workers = 2

	report, err := New(p).Evaluate(randomGrid[int32](whole, 3), randomGrid[int32](whole, 4))
	require.NoError(t, err)
	assert.Equal(t, float64(whole.Size()), report.Total)
}

func TestEvaluateErrors(t *testing.T) {
	whole := volume.ExtentOfSize(4, 4, 4)
	a := randomGrid[uint8](whole, 5)
	m := New(testParams(2, volume.Z))

	// a good run first, so we can tell the value survives failures
	report, err := m.Evaluate(a, a)
	require.NoError(t, err)
	value := m.ValueToMinimize()
	require.Equal(t, -report.Total, value)

	_, err = m.Evaluate(a, randomGrid[int16](whole, 6))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	wide := volume.NewGrid[int64](whole)
	_, err = m.Evaluate(wide, wide)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	m.Params().Precision = "float16"
	_, err = m.Evaluate(a, a)
	assert.ErrorIs(t, err, ErrPrecision)
	m.Params().Precision = Float32

	m.Params().Radius = [3]int{1, -2, 1}
	_, err = m.Evaluate(a, a)
	assert.ErrorIs(t, err, ncc.ErrInvalidRadius)
	m.Params().Radius = [3]int{1, 1, 1}

	m.Params().SplitAxis = 3
	_, err = m.Evaluate(a, a)
	assert.ErrorIs(t, err, ErrSplitAxis)
	m.Params().SplitAxis = volume.Z

	_, err = m.Map(a, randomGrid[float32](whole, 7))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	assert.Equal(t, value, m.ValueToMinimize())
}

// TestEmptyPartitions asks for more workers than there are slabs and for
// volumes that do not overlap at all; neither is an error.
func TestEmptyPartitions(t *testing.T) {
	whole := volume.ExtentOfSize(6, 5, 3)
	fixed := randomGrid[float32](whole, 8)
	moving := randomGrid[float32](whole, 9)

	single, err := New(testParams(1, volume.Z)).Evaluate(fixed, moving)
	require.NoError(t, err)

	report, err := New(testParams(10, volume.Z)).Evaluate(fixed, moving)
	require.NoError(t, err)
	require.Len(t, report.Partials, 10)
	for i, p := range report.Partials {
		assert.Equal(t, i, p.Partition.Index)
		if i >= 3 {
			assert.True(t, p.Partition.Empty())
			assert.Zero(t, p.Voxels)
		}
	}
	assert.InDelta(t, single.Total, report.Total, 1e-9)

	apart := volume.NewGrid[float32](volume.NewExtent(20, 25, 0, 4, 0, 2))
	report, err = New(testParams(4, volume.Z)).Evaluate(fixed, apart)
	require.NoError(t, err)
	assert.Zero(t, report.Voxels)
	assert.Zero(t, report.Total)
}

func TestMaskedOutputRegion(t *testing.T) {
	whole := volume.ExtentOfSize(9, 8, 7)
	fixed := randomGrid[int16](whole, 10)
	moving := randomGrid[int16](whole, 11)
	out := volume.NewExtent(1, 7, 2, 6, 0, 4)

	p := testParams(3, volume.Y)
	p.Mask = mask.Ellipsoid(whole, [3]float64{4, 3.5, 3}, [3]float64{4, 3, 3})
	p.Output = &out
	m := New(p)

	want, wantN, err := m.Verify(fixed, moving)
	require.NoError(t, err)
	report, err := m.Evaluate(fixed, moving)
	require.NoError(t, err)
	assert.InDelta(t, want, report.Total, 1e-9)
	assert.Equal(t, wantN, report.Voxels)

	// the map holds the same windows, zero elsewhere
	nccMap, err := m.Map(fixed, moving)
	require.NoError(t, err)
	assert.Equal(t, out, nccMap.Bounds())
	var total float64
	for _, v := range nccMap.Data {
		total += v
	}
	assert.InDelta(t, report.Total, total, 1e-9)
	assert.Zero(t, nccMap.At(1, 2, 0), "corner outside the ellipsoid")
}

func TestFloat32Precision(t *testing.T) {
	whole := volume.ExtentOfSize(8, 8, 8)
	fixed := randomGrid[uint8](whole, 12)
	moving := randomGrid[uint8](whole, 13)

	wide, err := New(testParams(2, volume.Z)).Evaluate(fixed, moving)
	require.NoError(t, err)

	p := testParams(2, volume.Z)
	p.Precision = Float32
	narrow, err := New(p).Evaluate(fixed, moving)
	require.NoError(t, err)
	assert.InEpsilon(t, wide.Total, narrow.Total, 1e-3)
}

func TestProgress(t *testing.T) {
	whole := volume.ExtentOfSize(4, 60, 8)
	a := randomGrid[uint8](whole, 14)

	var calls []float64
	p := testParams(2, volume.Z)
	p.Progress = func(f float64) { calls = append(calls, f) }
	_, err := New(p).Evaluate(a, a)
	require.NoError(t, err)

	require.NotEmpty(t, calls)
	assert.LessOrEqual(t, len(calls), 51)
	assert.Equal(t, 1.0, calls[len(calls)-1])
	for i := 1; i < len(calls); i++ {
		assert.Greater(t, calls[i], calls[i-1])
	}
}

func TestReportRunID(t *testing.T) {
	whole := volume.ExtentOfSize(3, 3, 3)
	a := randomGrid[uint8](whole, 15)
	m := New(testParams(1, volume.Z))

	first, err := m.Evaluate(a, a)
	require.NoError(t, err)
	second, err := m.Evaluate(a, a)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.RunID)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Total, second.Total)
}

func TestPartitions(t *testing.T) {
	bounds := volume.ExtentOfSize(10, 6, 9)
	parts := Partitions(bounds, bounds, [3]int{1, 2, 3}, volume.Z, 3)
	require.Len(t, parts, 3)

	assert.Equal(t, volume.NewExtent(0, 9, 0, 5, 0, 2), parts[0].Output)
	assert.Equal(t, volume.NewExtent(0, 9, 0, 5, 0, 5), parts[0].Input)
	assert.Equal(t, volume.NewExtent(0, 9, 0, 5, 3, 5), parts[1].Output)
	assert.Equal(t, volume.NewExtent(0, 9, 0, 5, 0, 8), parts[1].Input)
	assert.Equal(t, volume.NewExtent(0, 9, 0, 5, 3, 8), parts[2].Input)

	parts = Partitions(bounds, bounds, [3]int{}, volume.Y, 0)
	require.Len(t, parts, 1)
	assert.Equal(t, bounds, parts[0].Output)
}
