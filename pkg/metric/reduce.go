package metric

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"nccreg/internal/models"
)

// PartitionReducer combines the partial sums of independently evaluated
// partitions. Partials are reduced in partition order, so the total does
// not depend on which worker finished first.
type PartitionReducer struct {
	partials []models.PartialResult
}

// NewPartitionReducer returns a reducer expecting about n partials.
func NewPartitionReducer(n int) *PartitionReducer {
	return &PartitionReducer{partials: make([]models.PartialResult, 0, n)}
}

// Add records one partial result.
func (r *PartitionReducer) Add(res models.PartialResult) {
	r.partials = append(r.partials, res)
}

// Partials returns the recorded results ordered by partition index.
func (r *PartitionReducer) Partials() []models.PartialResult {
	sort.Slice(r.partials, func(i, j int) bool {
		return r.partials[i].Partition.Index < r.partials[j].Partition.Index
	})
	return r.partials
}

// Sums returns the partial sums ordered by partition index.
func (r *PartitionReducer) Sums() []float64 {
	partials := r.Partials()
	sums := make([]float64, len(partials))
	for i, p := range partials {
		sums[i] = p.Sum
	}
	return sums
}

// Total is the sum of squared NCC over every partition.
func (r *PartitionReducer) Total() float64 {
	return floats.Sum(r.Sums())
}

// Voxels is the number of windows reduced over every partition.
func (r *PartitionReducer) Voxels() int {
	n := 0
	for _, p := range r.partials {
		n += p.Voxels
	}
	return n
}

// Mean is the average squared NCC per window, or 0 when nothing was
// reduced.
func (r *PartitionReducer) Mean() float64 {
	n := r.Voxels()
	if n == 0 {
		return 0
	}
	return r.Total() / float64(n)
}

// ValueToMinimize is the negated total; better alignment is lower.
func (r *PartitionReducer) ValueToMinimize() float64 {
	return -r.Total()
}
