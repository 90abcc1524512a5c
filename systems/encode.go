package systems

// Texel codecs for the RGBA8 agent planes. Positions and headings are packed
// as 16-bit fixed point across two channels; the GLSL passes decode with the
// same constants. The all-zero texel is the reserved "empty slot" value.

// Texel is one RGBA8 value.
type Texel [4]byte

// TwoPi is the heading wrap constant shared with the shaders.
const TwoPi = 6.2831853

// EncodePosition packs (x, y) in [0,w)×[0,h) into a texel:
// R,G = x hi/lo, B,A = y hi/lo.
func EncodePosition(x, y, w, h float32) Texel {
	xi := pack16(x / w)
	yi := pack16(y / h)
	return Texel{byte(xi >> 8), byte(xi & 0xff), byte(yi >> 8), byte(yi & 0xff)}
}

// DecodePosition is the inverse of EncodePosition.
func DecodePosition(t Texel, w, h float32) (x, y float32) {
	x = unpack16(t[0], t[1]) * w
	y = unpack16(t[2], t[3]) * h
	return x, y
}

// EncodeDirection packs heading (radians), speed, and the active flag:
// R,G = heading/2π hi/lo, B = speed/maxSpeed, A = 255 when active.
func EncodeDirection(heading, speed, maxSpeed float32) Texel {
	h := heading
	for h < 0 {
		h += TwoPi
	}
	for h >= TwoPi {
		h -= TwoPi
	}
	hi := pack16(h / TwoPi)
	return Texel{byte(hi >> 8), byte(hi & 0xff), packByte(speed / maxSpeed), 255}
}

// DecodeDirection is the inverse of EncodeDirection. active reports whether
// the slot holds a live agent.
func DecodeDirection(t Texel, maxSpeed float32) (heading, speed float32, active bool) {
	heading = unpack16(t[0], t[1]) * TwoPi
	speed = float32(t[2]) / 255 * maxSpeed
	return heading, speed, t[3] != 0
}

// EncodeAttributes packs the immutable per-agent channel the deposition pass
// reads: R = hue/360, G = brightness, B = role weight, A = 255 when active.
func EncodeAttributes(hue, brightness, roleWeight float32) Texel {
	return Texel{packByte(hue / 360), packByte(brightness), packByte(roleWeight), 255}
}

// DecodeAttributes is the inverse of EncodeAttributes.
func DecodeAttributes(t Texel) (hue, brightness, roleWeight float32, active bool) {
	hue = float32(t[0]) / 255 * 360
	brightness = float32(t[1]) / 255
	roleWeight = float32(t[2]) / 255
	return hue, brightness, roleWeight, t[3] != 0
}

// EmptyTexel is the reserved value for a dead or never-used slot.
func EmptyTexel() Texel {
	return Texel{}
}

// SlotToTexel maps a linear slot index to texture coordinates on a square
// texture of the given side.
func SlotToTexel(slot, side int) (x, y int) {
	return slot % side, slot / side
}

// TexelToSlot is the inverse of SlotToTexel.
func TexelToSlot(x, y, side int) int {
	return y*side + x
}

func pack16(v float32) uint16 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint16(v*65535 + 0.5)
}

func unpack16(hi, lo byte) float32 {
	return float32(uint16(hi)<<8|uint16(lo)) / 65535
}

func packByte(v float32) byte {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return byte(v*255 + 0.5)
}
