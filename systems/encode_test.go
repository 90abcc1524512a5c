package systems

import (
	"math"
	"testing"
)

func TestPositionRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		x, y float32
	}{
		{"origin-adjacent", 1, 1},
		{"center", 640, 360},
		{"near max", 1279, 719},
		{"fractional", 123.45, 678.9},
	}

	const w, h = 1280, 720
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := EncodePosition(tt.x, tt.y, w, h)
			gx, gy := DecodePosition(tex, w, h)
			// 16-bit packing: worst case half a quantization step
			if math.Abs(float64(gx-tt.x)) > float64(w)/65535 {
				t.Errorf("x round trip: got %v, want %v", gx, tt.x)
			}
			if math.Abs(float64(gy-tt.y)) > float64(h)/65535 {
				t.Errorf("y round trip: got %v, want %v", gy, tt.y)
			}
		})
	}
}

func TestDirectionRoundTrip(t *testing.T) {
	const maxSpeed = 4.0
	tests := []struct {
		name    string
		heading float32
		speed   float32
	}{
		{"east", 0, 1.2},
		{"north", math.Pi / 2, 1.8},
		{"negative wraps", -math.Pi / 4, 1.0},
		{"over 2pi wraps", TwoPi + 0.5, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := EncodeDirection(tt.heading, tt.speed, maxSpeed)
			h, s, active := DecodeDirection(tex, maxSpeed)
			if !active {
				t.Fatal("encoded direction not active")
			}

			want := float64(tt.heading)
			for want < 0 {
				want += TwoPi
			}
			for want >= TwoPi {
				want -= TwoPi
			}
			if math.Abs(float64(h)-want) > TwoPi/65535*2 {
				t.Errorf("heading: got %v, want %v", h, want)
			}
			if math.Abs(float64(s-tt.speed)) > maxSpeed/255 {
				t.Errorf("speed: got %v, want %v", s, tt.speed)
			}
		})
	}
}

func TestEmptyTexelIsInactive(t *testing.T) {
	_, _, active := DecodeDirection(EmptyTexel(), 4)
	if active {
		t.Error("empty texel decodes as active")
	}
	_, _, _, active = DecodeAttributes(EmptyTexel())
	if active {
		t.Error("empty attribute texel decodes as active")
	}
}

func TestSlotTexelMapping(t *testing.T) {
	const side = 64
	for _, slot := range []int{0, 1, 63, 64, 100, 4095} {
		x, y := SlotToTexel(slot, side)
		if got := TexelToSlot(x, y, side); got != slot {
			t.Errorf("slot %d: texel (%d,%d) maps back to %d", slot, x, y, got)
		}
		if x < 0 || x >= side || y < 0 || y >= side {
			t.Errorf("slot %d: texel (%d,%d) out of range", slot, x, y)
		}
	}
}

func TestAttributesRoundTrip(t *testing.T) {
	tex := EncodeAttributes(210, 1.0, 0.07)
	hue, brightness, weight, active := DecodeAttributes(tex)
	if !active {
		t.Fatal("attributes not active")
	}
	if math.Abs(float64(hue-210)) > 360.0/255 {
		t.Errorf("hue: got %v, want 210", hue)
	}
	if brightness != 1.0 {
		t.Errorf("brightness: got %v, want 1", brightness)
	}
	if math.Abs(float64(weight-0.07)) > 1.0/255 {
		t.Errorf("role weight: got %v, want 0.07", weight)
	}
}
