package systems

import "math"

// Reference implementation of the agent steering kernel. The GLSL direction
// pass computes the same function; keeping it here lets the headless backend,
// the tuner, and the tests exercise identical semantics on the CPU.

// SteerParams holds the three-sensor geometry.
type SteerParams struct {
	SensorAngle    float32 // side sensor offset from heading (radians)
	SensorDistance float32 // sensor distance ahead of the agent (px)
	TurnStrength   float32 // heading delta when turning toward a side
	Jitter         float32 // max heading delta on a sensor tie
}

// TrailSampler reads the trail field at a canvas position.
type TrailSampler interface {
	Sample(x, y float32) float32
}

// Steer computes the new heading for an agent at (x, y). Sensors are placed
// left/forward/right of the heading; the agent continues straight when the
// forward sample is strongest, turns toward the stronger side otherwise, and
// jitters by a hashed pseudo-random amount when the sides tie. rnd must be
// in [0, 1).
func Steer(x, y, heading float32, trail TrailSampler, p SteerParams, rnd float32) float32 {
	sin, cos := math.Sincos(float64(heading))
	sinL, cosL := math.Sincos(float64(heading - p.SensorAngle))
	sinR, cosR := math.Sincos(float64(heading + p.SensorAngle))

	d := p.SensorDistance
	forward := trail.Sample(x+float32(cos)*d, y+float32(sin)*d)
	left := trail.Sample(x+float32(cosL)*d, y+float32(sinL)*d)
	right := trail.Sample(x+float32(cosR)*d, y+float32(sinR)*d)

	switch {
	case forward >= left && forward >= right:
		return heading
	case left > right:
		return heading - p.TurnStrength
	case right > left:
		return heading + p.TurnStrength
	default:
		// No gradient: jitter so agents don't freeze
		return heading + (rnd*2-1)*p.Jitter
	}
}

// Advance moves the agent one step along its heading with toroidal wrap.
func Advance(x, y, heading, speed, w, h float32) (nx, ny float32) {
	sin, cos := math.Sincos(float64(heading))
	nx = wrap(x+float32(cos)*speed, w)
	ny = wrap(y+float32(sin)*speed, h)
	return nx, ny
}

// Hash2D is the position hash the direction shader uses for tie jitter,
// mirrored here so CPU and GPU agents wander the same way. Returns [0, 1).
func Hash2D(x, y float32) float32 {
	v := math.Sin(float64(x)*12.9898+float64(y)*78.233) * 43758.5453
	return float32(v - math.Floor(v))
}

// wrap maps v into [0, limit) toroidally.
func wrap(v, limit float32) float32 {
	m := float32(math.Mod(float64(v), float64(limit)))
	if m < 0 {
		m += limit
	}
	return m
}
