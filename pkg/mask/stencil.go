// Package mask describes regions of interest as runs of included voxels
// along the x axis, one ordered run list per (y, z) row.
package mask

import (
	"sort"

	"nccreg/pkg/volume"
)

// Run is a half-open interval [Start, End) of included x indices.
type Run struct {
	Start, End int
}

// Len returns the number of voxels in the run.
func (r Run) Len() int { return r.End - r.Start }

// Stencil is a sparse region mask. Rows outside Ext, and rows with no
// runs, include nothing.
type Stencil struct {
	Ext  volume.Extent
	rows [][]Run
}

// NewStencil returns an empty stencil over ext.
func NewStencil(ext volume.Extent) *Stencil {
	return &Stencil{
		Ext:  ext,
		rows: make([][]Run, ext.Dim(volume.Y)*ext.Dim(volume.Z)),
	}
}

func (s *Stencil) row(y, z int) int {
	e := s.Ext
	if y < e.Min[volume.Y] || y > e.Max[volume.Y] || z < e.Min[volume.Z] || z > e.Max[volume.Z] {
		return -1
	}
	return (z-e.Min[volume.Z])*e.Dim(volume.Y) + (y - e.Min[volume.Y])
}

// Runs returns the ordered runs of row (y, z). The slice must not be
// modified.
func (s *Stencil) Runs(y, z int) []Run {
	i := s.row(y, z)
	if i < 0 {
		return nil
	}
	return s.rows[i]
}

// AddRun includes voxels [x0, x1) of row (y, z), clipped to the stencil
// extent. Overlapping or touching runs are merged so each row stays an
// ordered list of disjoint runs.
func (s *Stencil) AddRun(y, z, x0, x1 int) {
	i := s.row(y, z)
	x0 = max(x0, s.Ext.Min[volume.X])
	x1 = min(x1, s.Ext.Max[volume.X]+1)
	if i < 0 || x0 >= x1 {
		return
	}

	runs := s.rows[i]
	// first run that could touch [x0, x1)
	lo := sort.Search(len(runs), func(k int) bool { return runs[k].End >= x0 })
	hi := lo
	for hi < len(runs) && runs[hi].Start <= x1 {
		x0 = min(x0, runs[hi].Start)
		x1 = max(x1, runs[hi].End)
		hi++
	}

	merged := make([]Run, 0, len(runs)-(hi-lo)+1)
	merged = append(merged, runs[:lo]...)
	merged = append(merged, Run{x0, x1})
	merged = append(merged, runs[hi:]...)
	s.rows[i] = merged
}

// Contains reports whether voxel (x, y, z) is included.
func (s *Stencil) Contains(x, y, z int) bool {
	runs := s.Runs(y, z)
	k := sort.Search(len(runs), func(k int) bool { return runs[k].End > x })
	return k < len(runs) && runs[k].Start <= x
}

// Count returns the number of included voxels.
func (s *Stencil) Count() int {
	n := 0
	for _, runs := range s.rows {
		for _, r := range runs {
			n += r.Len()
		}
	}
	return n
}

// ToGrid renders the stencil as a dense 0/1 volume over its extent.
func (s *Stencil) ToGrid() *volume.Grid[float64] {
	g := volume.NewGrid[float64](s.Ext)
	for z := s.Ext.Min[volume.Z]; z <= s.Ext.Max[volume.Z]; z++ {
		for y := s.Ext.Min[volume.Y]; y <= s.Ext.Max[volume.Y]; y++ {
			for _, r := range s.Runs(y, z) {
				for x := r.Start; x < r.End; x++ {
					g.Set(x, y, z, 1)
				}
			}
		}
	}
	return g
}
