package systems

import "math"

// Field is the CPU trail field: a scalar per-pixel "scent" value agents
// deposit into and steer by. The GPU decay/deposition shaders implement the
// same update; this version backs headless runs and the tuner.
type Field struct {
	w, h int
	data []float32
}

// DepositSource is one agent's contribution to the deposition pass.
type DepositSource struct {
	X, Y       float32
	RoleWeight float32
}

// NewField creates a zeroed field at the given pixel resolution.
func NewField(w, h int) *Field {
	return &Field{w: w, h: h, data: make([]float32, w*h)}
}

// Decay multiplies every cell by the geometric decay factor.
func (f *Field) Decay(factor float32) {
	for i := range f.data {
		f.data[i] *= factor
	}
}

// Deposit accumulates role-weighted smoothstep falloff around each source.
// Equivalent to the deposition shader's per-pixel agent loop, restructured
// as a per-agent pixel loop since that is the cheap order on the CPU.
func (f *Field) Deposit(sources []DepositSource, radius, strength float32) {
	r := int(radius) + 1
	for _, s := range sources {
		cx, cy := int(s.X), int(s.Y)
		for py := cy - r; py <= cy+r; py++ {
			for px := cx - r; px <= cx+r; px++ {
				dx := float32(px) - s.X
				dy := float32(py) - s.Y
				dist := sqrt32(dx*dx + dy*dy)
				if dist >= radius {
					continue
				}
				falloff := Smoothstep(radius, 0, dist)
				// Toroidal wrap of the write position
				x := ((px % f.w) + f.w) % f.w
				y := ((py % f.h) + f.h) % f.h
				f.data[y*f.w+x] += falloff * strength * s.RoleWeight
			}
		}
	}
}

// Sample returns the field value at a canvas position, toroidally wrapped.
func (f *Field) Sample(x, y float32) float32 {
	xi := ((int(x) % f.w) + f.w) % f.w
	yi := ((int(y) % f.h) + f.h) % f.h
	return f.data[yi*f.w+xi]
}

// SampleBilinear returns a bilinearly interpolated field value.
// Slightly more expensive but smoother gradients.
func (f *Field) SampleBilinear(x, y float32) float32 {
	x0 := int(x)
	y0 := int(y)
	fracX := x - float32(x0)
	fracY := y - float32(y0)

	x0 = ((x0 % f.w) + f.w) % f.w
	y0 = ((y0 % f.h) + f.h) % f.h
	x1 := (x0 + 1) % f.w
	y1 := (y0 + 1) % f.h

	v00 := f.data[y0*f.w+x0]
	v10 := f.data[y0*f.w+x1]
	v01 := f.data[y1*f.w+x0]
	v11 := f.data[y1*f.w+x1]

	v0 := v00 + (v10-v00)*fracX
	v1 := v01 + (v11-v01)*fracX
	return v0 + (v1-v0)*fracY
}

// Mean returns the average cell value, used as the coverage metric by the
// tuner.
func (f *Field) Mean() float64 {
	var sum float64
	for _, v := range f.data {
		sum += float64(v)
	}
	return sum / float64(len(f.data))
}

// Reset zeroes the field.
func (f *Field) Reset() {
	for i := range f.data {
		f.data[i] = 0
	}
}

// Width returns the field width in pixels.
func (f *Field) Width() int { return f.w }

// Height returns the field height in pixels.
func (f *Field) Height() int { return f.h }

// Smoothstep is the GLSL smoothstep: 0 at edge0, 1 at edge1, Hermite in
// between. Called with edge0 > edge1 it inverts, which is how the falloff
// uses it (1 at the agent, 0 at the radius).
func Smoothstep(edge0, edge1, x float32) float32 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
