package ncc

import "nccreg/pkg/volume"

// Accum is the set of types window sums may be accumulated in. It is
// chosen independently of the sample type.
type Accum interface {
	~float32 | ~float64
}

// Moments holds the running sums over one window: Σx, Σy, Σx², Σy², Σxy
// and the number of samples that were actually summed.
type Moments[U Accum] struct {
	X, Y, XX, YY, XY, N U
}

// contribution is the raw moment contribution of one sample pair.
func contribution[T volume.Sample, U Accum](x, y T) Moments[U] {
	u, v := U(x), U(y)
	return Moments[U]{X: u, Y: v, XX: u * u, YY: v * v, XY: u * v, N: 1}
}

func (m *Moments[U]) add(c *Moments[U]) {
	m.X += c.X
	m.Y += c.Y
	m.XX += c.XX
	m.YY += c.YY
	m.XY += c.XY
	m.N += c.N
}

func (m *Moments[U]) sub(c *Moments[U]) {
	m.X -= c.X
	m.Y -= c.Y
	m.XX -= c.XX
	m.YY -= c.YY
	m.XY -= c.XY
	m.N -= c.N
}

// NCCSquared folds the window sums into the squared normalized cross
// correlation. A window with no variance in either signal scores 1.
func (m Moments[U]) NCCSquared() float64 {
	n := float64(m.N)
	sx, sy := float64(m.X), float64(m.Y)
	denom := (n*float64(m.XX) - sx*sx) * (n*float64(m.YY) - sy*sy)
	if !(denom > 0) {
		return 1
	}
	numer := n*float64(m.XY) - sx*sy
	return numer * numer / denom
}

// Block helpers. Each walks element-wise, so dst may alias old.

// addBlock sets dst += in.
func addBlock[U Accum](dst, in []Moments[U]) {
	for i := range dst {
		dst[i].add(&in[i])
	}
}

// sumBlock sets dst = prev + in.
func sumBlock[U Accum](dst, prev, in []Moments[U]) {
	for i := range dst {
		m := prev[i]
		m.add(&in[i])
		dst[i] = m
	}
}

// slideBlock sets dst = prev + in - old.
func slideBlock[U Accum](dst, prev, in, old []Moments[U]) {
	for i := range dst {
		m := prev[i]
		m.add(&in[i])
		m.sub(&old[i])
		dst[i] = m
	}
}

// dropBlock sets dst = prev - old.
func dropBlock[U Accum](dst, prev, old []Moments[U]) {
	for i := range dst {
		m := prev[i]
		m.sub(&old[i])
		dst[i] = m
	}
}
