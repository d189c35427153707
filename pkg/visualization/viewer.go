// Package visualization exports slices of dense float volumes, such as a
// squared NCC map or a rasterized mask, as grayscale images.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"nccreg/pkg/volume"
)

// Viewer renders slices of a float volume. Values in [0, scale] map
// linearly onto the 16-bit gray range and are clamped outside it.
type Viewer struct {
	grid  *volume.Grid[float64]
	scale float64
}

// NewViewer creates a viewer over grid with a scale of 1, which suits
// squared NCC and mask values.
func NewViewer(grid *volume.Grid[float64]) *Viewer {
	return &Viewer{grid: grid, scale: 1}
}

// SetScale sets the value rendered as white. Non-positive values are
// ignored.
func (v *Viewer) SetScale(scale float64) {
	if scale > 0 {
		v.scale = scale
	}
}

func (v *Viewer) gray(x, y, z int) color.Gray16 {
	value := v.grid.At(x, y, z) / v.scale * 65535
	return color.Gray16{Y: uint16(math.Max(0, math.Min(65535, value)))}
}

func axisIndex(axis string) (int, error) {
	switch axis {
	case "x", "X":
		return volume.X, nil
	case "y", "Y":
		return volume.Y, nil
	case "z", "Z":
		return volume.Z, nil
	}
	return 0, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
}

// ExtractSlice extracts a 2D slice at the given coordinate along axis.
// An x slice is laid out z by y, a y slice x by z and a z slice x by y.
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	a, err := axisIndex(axis)
	if err != nil {
		return nil, err
	}
	ext := v.grid.Bounds()
	if position < ext.Min[a] || position > ext.Max[a] {
		return nil, fmt.Errorf("position %d outside %d..%d along %s", position, ext.Min[a], ext.Max[a], axis)
	}

	x0, y0, z0 := ext.Min[volume.X], ext.Min[volume.Y], ext.Min[volume.Z]
	nx, ny, nz := ext.Dim(volume.X), ext.Dim(volume.Y), ext.Dim(volume.Z)

	var img *image.Gray16
	switch a {
	case volume.X:
		img = image.NewGray16(image.Rect(0, 0, nz, ny))
		for y := 0; y < ny; y++ {
			for z := 0; z < nz; z++ {
				img.SetGray16(z, y, v.gray(position, y0+y, z0+z))
			}
		}
	case volume.Y:
		img = image.NewGray16(image.Rect(0, 0, nx, nz))
		for z := 0; z < nz; z++ {
			for x := 0; x < nx; x++ {
				img.SetGray16(x, z, v.gray(x0+x, position, z0+z))
			}
		}
	default:
		img = image.NewGray16(image.Rect(0, 0, nx, ny))
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				img.SetGray16(x, y, v.gray(x0+x, y0+y, position))
			}
		}
	}
	return img, nil
}

// SaveSlice saves an extracted slice. Files ending in .png are written
// losslessly, anything else as JPEG.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(filename), ".png") {
		return png.Encode(file, img)
	}
	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveSliceSequence extracts and saves every slice along axis as PNG.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	a, err := axisIndex(axis)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	ext := v.grid.Bounds()
	for pos := ext.Min[a]; pos <= ext.Max[a]; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
