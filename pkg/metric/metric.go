// Package metric evaluates the neighborhood NCC objective between two
// volumes by splitting the output region into partitions and running
// the sliding-window kernel on each one in its own goroutine.
package metric

import (
	"fmt"
	"time"

	"nccreg/internal/models"
	"nccreg/pkg/volume"
)

// Metric evaluates the objective for a fixed set of parameters and keeps
// the last successful value.
type Metric struct {
	params *Params
	value  float64
}

// New creates a metric. A nil params uses DefaultParams.
func New(params *Params) *Metric {
	if params == nil {
		params = DefaultParams()
	}
	return &Metric{params: params}
}

// Params returns the parameters the metric was created with.
func (m *Metric) Params() *Params {
	return m.params
}

// ValueToMinimize returns the negated total of the last successful
// evaluation.
func (m *Metric) ValueToMinimize() float64 {
	return m.value
}

// plan holds everything an evaluation needs once the inputs are checked.
type plan struct {
	job    job
	output volume.Extent
	bounds volume.Extent
	parts  []models.Partition
}

// prepare runs every check that can fail before any worker starts.
func (m *Metric) prepare(fixed, moving volume.Image) (*plan, error) {
	if err := m.params.Validate(); err != nil {
		return nil, err
	}
	j, err := newJob(fixed, moving, m.params)
	if err != nil {
		return nil, err
	}

	bounds := fixed.Bounds().Intersect(moving.Bounds())
	output := bounds
	if m.params.Output != nil {
		output = output.Intersect(*m.params.Output)
	}
	return &plan{
		job:    j,
		output: output,
		bounds: bounds,
		parts:  Partitions(output, bounds, m.params.Radius, m.params.SplitAxis, m.params.workers()),
	}, nil
}

// Evaluate computes the sum of squared NCC between fixed and moving over
// the output region. On error the stored objective value is unchanged.
func (m *Metric) Evaluate(fixed, moving volume.Image) (*Report, error) {
	pl, err := m.prepare(fixed, moving)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	if m.params.Verbose {
		fmt.Printf("Evaluating %v in %d partitions along %s with radius %v\n",
			pl.output, len(pl.parts), axisName(m.params.SplitAxis), m.params.Radius)
	}

	resultChan := make(chan models.PartialResult)
	for _, p := range pl.parts {
		go func(p models.Partition) {
			// only the first partition reports progress
			var progress func(float64)
			if p.Index == 0 {
				progress = m.params.Progress
			}
			res := models.PartialResult{Partition: p}
			if !p.Empty() {
				res.Sum, res.Voxels, res.Err = pl.job.sum(p, progress)
			}
			resultChan <- res
		}(p)
	}

	reducer := NewPartitionReducer(len(pl.parts))
	var firstErr error
	for completed := 1; completed <= len(pl.parts); completed++ {
		res := <-resultChan
		if res.Err != nil && firstErr == nil {
			firstErr = fmt.Errorf("partition %d failed: %w", res.Partition.Index, res.Err)
		}
		reducer.Add(res)

		if m.params.Verbose {
			progress := float64(completed) / float64(len(pl.parts)) * 100
			fmt.Printf("\rEvaluating partitions: %.1f%% complete", progress)
		}
	}
	if m.params.Verbose {
		fmt.Println()
	}
	if firstErr != nil {
		return nil, firstErr
	}

	if m.params.Progress != nil {
		m.params.Progress(1)
	}
	report := newReport(reducer, time.Since(startTime))
	m.value = report.Value

	if m.params.Verbose {
		fmt.Printf("Run %s: %d windows, total %.6f, mean %.6f in %v\n",
			report.RunID, report.Voxels, report.Total, report.Mean, report.Elapsed)
	}
	return report, nil
}

// Map returns the squared NCC of every window in the output region as a
// dense grid. Voxels outside the mask are left at zero.
func (m *Metric) Map(fixed, moving volume.Image) (*volume.Grid[float64], error) {
	pl, err := m.prepare(fixed, moving)
	if err != nil {
		return nil, err
	}
	dst := volume.NewGrid[float64](pl.output)

	// partitions write disjoint voxels of dst
	errChan := make(chan error)
	for _, p := range pl.parts {
		go func(p models.Partition) {
			if p.Empty() {
				errChan <- nil
				return
			}
			if err := pl.job.fill(p, dst); err != nil {
				errChan <- fmt.Errorf("partition %d failed: %w", p.Index, err)
				return
			}
			errChan <- nil
		}(p)
	}

	var firstErr error
	for range pl.parts {
		if err := <-errChan; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return dst, nil
}

// Verify recomputes the total by gathering every window explicitly. It
// is much slower than Evaluate and meant for checking it on small
// volumes.
func (m *Metric) Verify(fixed, moving volume.Image) (float64, int, error) {
	pl, err := m.prepare(fixed, moving)
	if err != nil {
		return 0, 0, err
	}
	whole := models.Partition{
		Output: pl.output,
		Input:  pl.output.Expand(m.params.Radius).Intersect(pl.bounds),
	}
	if whole.Empty() {
		return 0, 0, nil
	}
	return pl.job.reference(whole)
}

func axisName(axis int) string {
	switch axis {
	case volume.X:
		return "x"
	case volume.Y:
		return "y"
	case volume.Z:
		return "z"
	}
	return fmt.Sprintf("axis %d", axis)
}
