package volume

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrEmptyStack is returned when a directory holds no slice images.
var ErrEmptyStack = errors.New("volume: no slice images found")

// LoadStack reads every JPEG or PNG file in dir as one z-slice of a
// 16-bit volume. Files are ordered by the number embedded in their names
// so that slice_2 precedes slice_10. All slices must share dimensions.
func LoadStack(dir string) (*Grid[uint16], error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmptyStack, dir)
	}

	sort.SliceStable(names, func(i, j int) bool {
		return extractNumber(names[i]) < extractNumber(names[j])
	})

	var g *Grid[uint16]
	for z, name := range names {
		img, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to load slice %s: %w", name, err)
		}
		b := img.Bounds()
		if g == nil {
			g = NewGrid[uint16](ExtentOfSize(b.Dx(), b.Dy(), len(names)))
		} else if b.Dx() != g.Ext.Dim(X) || b.Dy() != g.Ext.Dim(Y) {
			return nil, fmt.Errorf("slice %s is %dx%d, expected %dx%d",
				name, b.Dx(), b.Dy(), g.Ext.Dim(X), g.Ext.Dim(Y))
		}
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				v := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
				g.Set(x, y, z, v.Y)
			}
		}
	}
	return g, nil
}

// extractNumber concatenates the digits of a file name; names without
// digits sort first.
func extractNumber(filename string) int {
	var digits strings.Builder
	for _, c := range filepath.Base(filename) {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.ToLower(filepath.Ext(path)) == ".png" {
		return png.Decode(f)
	}
	return jpeg.Decode(f)
}
