package metric

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"nccreg/internal/models"
)

// Report summarizes one evaluation.
type Report struct {
	// RunID identifies the evaluation in logs and exported maps.
	RunID uuid.UUID

	// Total is the sum of squared NCC over all reduced windows.
	Total float64

	// Value is the objective handed to an optimizer, -Total.
	Value float64

	Voxels int
	Mean   float64

	// PartitionMean is the average partial sum, a rough load-balance
	// indicator.
	PartitionMean float64

	Partials []models.PartialResult
	Elapsed  time.Duration
}

func newReport(r *PartitionReducer, elapsed time.Duration) *Report {
	sums := r.Sums()
	rep := &Report{
		RunID:    uuid.New(),
		Total:    r.Total(),
		Value:    r.ValueToMinimize(),
		Voxels:   r.Voxels(),
		Mean:     r.Mean(),
		Partials: r.Partials(),
		Elapsed:  elapsed,
	}
	if len(sums) > 0 {
		rep.PartitionMean = stat.Mean(sums, nil)
	}
	return rep
}
