package metric

import (
	"nccreg/internal/models"
	"nccreg/pkg/volume"
)

var emptyExtent = volume.Extent{Max: [3]int{-1, -1, -1}}

// Partitions splits output into n disjoint pieces along axis and gives
// each an input extent grown by radius and clipped to bounds. Exactly n
// partitions are returned; when the axis is shorter than n the trailing
// ones are empty and contribute nothing.
func Partitions(output, bounds volume.Extent, radius [3]int, axis, n int) []models.Partition {
	if n < 1 {
		n = 1
	}
	pieces := output.Split(axis, n)
	parts := make([]models.Partition, n)
	for i := range parts {
		parts[i] = models.Partition{Index: i, Output: emptyExtent, Input: emptyExtent}
		if i < len(pieces) {
			parts[i].Output = pieces[i]
			parts[i].Input = pieces[i].Expand(radius).Intersect(bounds)
		}
	}
	return parts
}
