package renderer

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mycelia/systems"
)

// AgentPlanes holds the GPU-resident agent state: ping-pong position and
// direction planes updated by shaders every frame, plus static attribute and
// target planes written only at spawn/kill. One texel per slot.
type AgentPlanes struct {
	side int

	pos [2]rl.RenderTexture2D
	dir [2]rl.RenderTexture2D
	cur int

	attr   rl.RenderTexture2D
	target rl.RenderTexture2D

	canvasW, canvasH float32
	maxSpeed         float32
}

// NewAgentPlanes allocates zeroed planes sized side x side texels. Errors if
// the platform cannot back a render texture.
func NewAgentPlanes(side int, canvasW, canvasH, maxSpeed float32) (*AgentPlanes, error) {
	p := &AgentPlanes{
		side:     side,
		canvasW:  canvasW,
		canvasH:  canvasH,
		maxSpeed: maxSpeed,
	}

	alloc := func() rl.RenderTexture2D {
		t := rl.LoadRenderTexture(int32(side), int32(side))
		rl.SetTextureFilter(t.Texture, rl.FilterPoint)
		rl.BeginTextureMode(t)
		rl.ClearBackground(rl.Blank)
		rl.EndTextureMode()
		return t
	}
	p.pos[0], p.pos[1] = alloc(), alloc()
	p.dir[0], p.dir[1] = alloc(), alloc()
	p.attr = alloc()
	p.target = alloc()

	for _, t := range []rl.RenderTexture2D{p.pos[0], p.pos[1], p.dir[0], p.dir[1], p.attr, p.target} {
		if !rl.IsRenderTextureValid(t) {
			p.Unload()
			return nil, fmt.Errorf("agent plane allocation failed (%dx%d render texture)", side, side)
		}
	}
	return p, nil
}

// Spawn writes an agent's texels: position and direction into both ping-pong
// copies so the next pass reads valid state regardless of phase.
func (p *AgentPlanes) Spawn(slot int, d systems.SpawnData) {
	pos := texelColor(systems.EncodePosition(d.X, d.Y, p.canvasW, p.canvasH))
	dir := texelColor(systems.EncodeDirection(d.Heading, d.Speed, p.maxSpeed))
	attr := texelColor(systems.EncodeAttributes(d.Hue, d.Brightness, d.RoleWeight))
	tgt := texelColor(systems.EncodePosition(d.TargetX, d.TargetY, p.canvasW, p.canvasH))

	rec := p.slotRect(slot)
	rl.UpdateTextureRec(p.pos[0].Texture, rec, []color.RGBA{pos})
	rl.UpdateTextureRec(p.pos[1].Texture, rec, []color.RGBA{pos})
	rl.UpdateTextureRec(p.dir[0].Texture, rec, []color.RGBA{dir})
	rl.UpdateTextureRec(p.dir[1].Texture, rec, []color.RGBA{dir})
	rl.UpdateTextureRec(p.attr.Texture, rec, []color.RGBA{attr})
	rl.UpdateTextureRec(p.target.Texture, rec, []color.RGBA{tgt})
}

// Kill zeroes every plane at the given slots. The all-zero texel is the
// empty-slot marker the shaders test for.
func (p *AgentPlanes) Kill(slots []int) {
	empty := []color.RGBA{texelColor(systems.EmptyTexel())}
	for _, slot := range slots {
		rec := p.slotRect(slot)
		rl.UpdateTextureRec(p.pos[0].Texture, rec, empty)
		rl.UpdateTextureRec(p.pos[1].Texture, rec, empty)
		rl.UpdateTextureRec(p.dir[0].Texture, rec, empty)
		rl.UpdateTextureRec(p.dir[1].Texture, rec, empty)
		rl.UpdateTextureRec(p.attr.Texture, rec, empty)
		rl.UpdateTextureRec(p.target.Texture, rec, empty)
	}
}

// Current returns the read copies for this frame's passes.
func (p *AgentPlanes) Current() (pos, dir rl.Texture2D) {
	return p.pos[p.cur].Texture, p.dir[p.cur].Texture
}

// AgentPosition is a decoded slot position from a debug readback.
type AgentPosition struct {
	Slot int
	X, Y float32
}

// ReadPositions decodes the current position plane back to the CPU. Slow
// path: used only for periodic mirror-drift correction and debugging.
func (p *AgentPlanes) ReadPositions() []AgentPosition {
	img := rl.LoadImageFromTexture(p.pos[p.cur].Texture)
	defer rl.UnloadImage(img)

	colors := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(colors)

	var out []AgentPosition
	for i := 0; i < p.side*p.side && i < len(colors); i++ {
		c := colors[i]
		t := systems.Texel{c.R, c.G, c.B, c.A}
		if t == systems.EmptyTexel() {
			continue
		}
		x, y := systems.DecodePosition(t, p.canvasW, p.canvasH)
		out = append(out, AgentPosition{Slot: i, X: x, Y: y})
	}
	return out
}

// Unload releases all plane textures.
func (p *AgentPlanes) Unload() {
	rl.UnloadRenderTexture(p.pos[0])
	rl.UnloadRenderTexture(p.pos[1])
	rl.UnloadRenderTexture(p.dir[0])
	rl.UnloadRenderTexture(p.dir[1])
	rl.UnloadRenderTexture(p.attr)
	rl.UnloadRenderTexture(p.target)
}

func (p *AgentPlanes) slotRect(slot int) rl.Rectangle {
	col, row := systems.SlotToTexel(slot, p.side)
	return rl.Rectangle{X: float32(col), Y: float32(row), Width: 1, Height: 1}
}

func texelColor(t systems.Texel) color.RGBA {
	return color.RGBA{R: t[0], G: t[1], B: t[2], A: t[3]}
}
