package volume

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// TestExtentSplit checks that pieces are disjoint, contiguous and cover
// the original extent.
func TestExtentSplit(t *testing.T) {
	e := NewExtent(0, 9, 2, 4, -3, 7)

	for axis := 0; axis < 3; axis++ {
		for parts := 1; parts <= 12; parts++ {
			pieces := e.Split(axis, parts)
			if want := min(parts, e.Dim(axis)); len(pieces) != want {
				t.Fatalf("axis %d parts %d: got %d pieces, want %d", axis, parts, len(pieces), want)
			}
			next := e.Min[axis]
			total := 0
			for _, p := range pieces {
				if p.Min[axis] != next {
					t.Errorf("axis %d parts %d: piece %v starts at %d, want %d", axis, parts, p, p.Min[axis], next)
				}
				next = p.Max[axis] + 1
				total += p.Size()
			}
			if next != e.Max[axis]+1 {
				t.Errorf("axis %d parts %d: pieces end at %d", axis, parts, next-1)
			}
			if total != e.Size() {
				t.Errorf("axis %d parts %d: pieces cover %d voxels, want %d", axis, parts, total, e.Size())
			}
		}
	}
}

func TestExtentExpandIntersect(t *testing.T) {
	whole := ExtentOfSize(10, 10, 10)
	piece := NewExtent(0, 9, 0, 9, 4, 6)

	in := piece.Expand([3]int{2, 1, 3}).Intersect(whole)
	want := NewExtent(0, 9, 0, 9, 1, 9)
	if in != want {
		t.Errorf("Expected %v, got %v", want, in)
	}

	if !NewExtent(5, 4, 0, 0, 0, 0).Empty() {
		t.Errorf("Expected inverted extent to be empty")
	}
	if got := NewExtent(0, 3, 0, 3, 0, 3).Intersect(NewExtent(5, 6, 0, 3, 0, 3)); !got.Empty() {
		t.Errorf("Expected disjoint extents to intersect empty, got %v", got)
	}
}

func TestGridViews(t *testing.T) {
	ext := NewExtent(1, 4, 0, 2, 0, 1)
	g := NewGrid[int16](ext)
	for z := 0; z <= 1; z++ {
		for y := 0; y <= 2; y++ {
			for x := 1; x <= 4; x++ {
				g.Set(x, y, z, int16(100*z+10*y+x))
			}
		}
	}

	if g.ScalarType() != Int16 {
		t.Errorf("Expected int16 scalar type, got %v", g.ScalarType())
	}
	if v := g.At(3, 2, 1); v != 123 {
		t.Errorf("Expected 123 at (3,2,1), got %d", v)
	}
	if v := g.At(0, 0, 0); v != 0 {
		t.Errorf("Expected zero outside extent, got %d", v)
	}

	line := g.Line(2, 4, 1, 1)
	if line.Len() != 3 {
		t.Fatalf("Expected line of 3, got %d", line.Len())
	}
	for k, want := range []int16{112, 113, 114} {
		if line.At(k) != want {
			t.Errorf("line[%d] = %d, want %d", k, line.At(k), want)
		}
	}
	if sub := line.Slice(1, 3); sub.At(0) != 113 || sub.Len() != 2 {
		t.Errorf("Unexpected sub-line %d len %d", sub.At(0), sub.Len())
	}

	// A view that walks z backwards over the same data.
	rev, err := NewView(g.Data, ext, [3]int{1, 4, -12}, 12)
	if err != nil {
		t.Fatalf("Failed to build reversed view: %v", err)
	}
	if rev.At(1, 0, 0) != g.At(1, 0, 1) {
		t.Errorf("Reversed view mismatch: %d vs %d", rev.At(1, 0, 0), g.At(1, 0, 1))
	}

	if _, err := NewView(g.Data, ext, [3]int{1, 4, 12}, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}
	if _, err := WrapGrid(make([]float32, 5), ExtentOfSize(2, 3, 1)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds for short data, got %v", err)
	}
}

func TestScalarTypeOf(t *testing.T) {
	cases := map[ScalarType]ScalarType{
		ScalarTypeOf[uint8]():   Uint8,
		ScalarTypeOf[int32]():   Int32,
		ScalarTypeOf[uint64]():  Uint64,
		ScalarTypeOf[float64](): Float64,
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("Expected %v, got %v", want, got)
		}
	}
	if Float32.String() != "float32" || ScalarType(99).String() != "unknown" {
		t.Errorf("Unexpected scalar names %q %q", Float32, ScalarType(99))
	}
}

// TestLoadStack writes PNG slices out of numeric order and checks they
// are stacked by the number in their names.
func TestLoadStack(t *testing.T) {
	dir := t.TempDir()
	for _, z := range []int{10, 2, 1} {
		img := image.NewGray16(image.Rect(0, 0, 4, 3))
		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				img.SetGray16(x, y, color.Gray16{Y: uint16(1000*z + 10*y + x)})
			}
		}
		writePNG(t, filepath.Join(dir, fmt.Sprintf("slice_%d.png", z)), img)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := LoadStack(dir)
	if err != nil {
		t.Fatalf("Failed to load stack: %v", err)
	}
	if g.Ext != ExtentOfSize(4, 3, 3) {
		t.Fatalf("Unexpected extent %v", g.Ext)
	}
	for z, id := range []int{1, 2, 10} {
		if v := g.At(3, 2, z); v != uint16(1000*id+23) {
			t.Errorf("slice %d: expected %d, got %d", z, 1000*id+23, v)
		}
	}
}

func TestLoadStackErrors(t *testing.T) {
	if _, err := LoadStack(t.TempDir()); !errors.Is(err, ErrEmptyStack) {
		t.Errorf("Expected ErrEmptyStack, got %v", err)
	}

	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a1.png"), image.NewGray16(image.Rect(0, 0, 4, 4)))
	writePNG(t, filepath.Join(dir, "a2.png"), image.NewGray16(image.Rect(0, 0, 5, 4)))
	if _, err := LoadStack(dir); err == nil {
		t.Errorf("Expected error for mismatched slice sizes")
	}
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}
