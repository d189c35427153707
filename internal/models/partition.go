package models

import (
	"nccreg/pkg/volume"
)

// Partition is one worker's share of an evaluation
type Partition struct {
	// Index is the position of this partition along the split axis
	Index int

	// Output is the extent whose windows this partition reduces
	Output volume.Extent

	// Input is Output grown by the window radius and clipped to both
	// volumes, so that windows on the partition edge see every sample
	Input volume.Extent
}

// Empty reports whether the partition has nothing to reduce
func (p Partition) Empty() bool {
	return p.Output.Empty() || p.Input.Empty()
}

// PartialResult is what a worker hands back for one partition
type PartialResult struct {
	// Partition identifies where the sum came from
	Partition Partition

	// Sum is the sum of squared NCC over the partition's masked output voxels
	Sum float64

	// Voxels is the number of windows that went into Sum
	Voxels int

	// Err is set when the partition could not be evaluated
	Err error
}
