package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// TrailParams configures the GPU trail field passes.
type TrailParams struct {
	Width, Height   int
	DecayFactor     float32
	DepositRadius   float32
	DepositStrength float32
	TintSaturation  float32
	AgentCap        int
	TexSide         int
}

// GPUTrailField is the canvas-resolution trail texture pair: a decay pass
// copies the current field into the other copy scaled by the decay factor,
// then the deposition pass accumulates the frame's agent deposits on top.
// RGB carries the hue-tinted render color, A the scalar intensity the
// steering pass samples.
type GPUTrailField struct {
	params TrailParams

	field [2]rl.RenderTexture2D
	cur   int

	decayShader   rl.Shader
	decayLoc      int32
	depositShader rl.Shader

	depPosLoc      int32
	depAttrLoc     int32
	depResLoc      int32
	depSideLoc     int32
	depBoundLoc    int32
	depRadiusLoc   int32
	depStrengthLoc int32
	depTintLoc     int32
}

// NewGPUTrailField allocates the field textures and compiles both passes.
// Errors when the platform cannot back the textures or compile GLSL 330;
// the caller must treat that as fatal.
func NewGPUTrailField(params TrailParams) (*GPUTrailField, error) {
	t := &GPUTrailField{params: params}

	for i := range t.field {
		t.field[i] = rl.LoadRenderTexture(int32(params.Width), int32(params.Height))
		rl.SetTextureFilter(t.field[i].Texture, rl.FilterBilinear)
		rl.BeginTextureMode(t.field[i])
		rl.ClearBackground(rl.Blank)
		rl.EndTextureMode()
	}
	if !rl.IsRenderTextureValid(t.field[0]) || !rl.IsRenderTextureValid(t.field[1]) {
		t.Unload()
		return nil, fmt.Errorf("trail field allocation failed (%dx%d render texture)",
			params.Width, params.Height)
	}

	t.decayShader = rl.LoadShaderFromMemory("", decayFS)
	t.decayLoc = rl.GetShaderLocation(t.decayShader, "decayFactor")

	t.depositShader = rl.LoadShaderFromMemory("", DepositShaderSource(params.AgentCap))
	if !rl.IsShaderValid(t.decayShader) || !rl.IsShaderValid(t.depositShader) {
		t.Unload()
		return nil, fmt.Errorf("trail shaders failed to compile (GLSL 330 required)")
	}
	t.depPosLoc = rl.GetShaderLocation(t.depositShader, "posTex")
	t.depAttrLoc = rl.GetShaderLocation(t.depositShader, "attrTex")
	t.depResLoc = rl.GetShaderLocation(t.depositShader, "resolution")
	t.depSideLoc = rl.GetShaderLocation(t.depositShader, "texSide")
	t.depBoundLoc = rl.GetShaderLocation(t.depositShader, "activeBound")
	t.depRadiusLoc = rl.GetShaderLocation(t.depositShader, "depositRadius")
	t.depStrengthLoc = rl.GetShaderLocation(t.depositShader, "depositStrength")
	t.depTintLoc = rl.GetShaderLocation(t.depositShader, "tintSaturation")

	rl.SetShaderValue(t.depositShader, t.depResLoc,
		[]float32{float32(params.Width), float32(params.Height)}, rl.ShaderUniformVec2)
	rl.SetShaderValue(t.depositShader, t.depSideLoc,
		[]float32{float32(params.TexSide)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(t.depositShader, t.depRadiusLoc,
		[]float32{params.DepositRadius}, rl.ShaderUniformFloat)
	rl.SetShaderValue(t.depositShader, t.depStrengthLoc,
		[]float32{params.DepositStrength}, rl.ShaderUniformFloat)
	rl.SetShaderValue(t.depositShader, t.depTintLoc,
		[]float32{params.TintSaturation}, rl.ShaderUniformFloat)

	return t, nil
}

// Step runs decay then deposition. activeBound is one past the highest slot
// that may be live, letting the deposition loop exit early.
func (t *GPUTrailField) Step(posTex, attrTex rl.Texture2D, activeBound int) {
	src := t.field[t.cur]
	dst := t.field[1-t.cur]

	// Decay: overwrite dst with src scaled down. Blending off so the alpha
	// channel is treated as data.
	rl.BeginTextureMode(dst)
	rl.DisableColorBlend()
	rl.SetShaderValue(t.decayShader, t.decayLoc, []float32{t.params.DecayFactor}, rl.ShaderUniformFloat)
	rl.BeginShaderMode(t.decayShader)
	drawDataPass(src.Texture)
	rl.EndShaderMode()
	rl.EnableColorBlend()

	// Deposit: accumulate on top of the decayed field.
	rl.BeginBlendMode(rl.BlendAddColors)
	rl.SetShaderValue(t.depositShader, t.depBoundLoc, []int32{int32(activeBound)}, rl.ShaderUniformInt)
	rl.BeginShaderMode(t.depositShader)
	rl.SetShaderValueTexture(t.depositShader, t.depPosLoc, posTex)
	rl.SetShaderValueTexture(t.depositShader, t.depAttrLoc, attrTex)
	rl.DrawRectangle(0, 0, int32(t.params.Width), int32(t.params.Height), rl.White)
	rl.EndShaderMode()
	rl.EndBlendMode()
	rl.EndTextureMode()

	t.cur = 1 - t.cur
}

// Texture returns the current field texture for sampling and drawing.
func (t *GPUTrailField) Texture() rl.Texture2D {
	return t.field[t.cur].Texture
}

// Draw renders the field to the screen. The data passes keep the field in
// memory orientation, where row y holds the deposits for canvas row y, so a
// positive source rect lines the trail up with the y-down overlay drawing.
func (t *GPUTrailField) Draw(screenW, screenH float32) {
	src := rl.Rectangle{
		X: 0, Y: 0,
		Width: float32(t.params.Width), Height: float32(t.params.Height),
	}
	dst := rl.Rectangle{X: 0, Y: 0, Width: screenW, Height: screenH}
	rl.DrawTexturePro(t.field[t.cur].Texture, src, dst, rl.Vector2{}, 0, rl.White)
}

// Reset zeroes both field copies.
func (t *GPUTrailField) Reset() {
	for i := range t.field {
		rl.BeginTextureMode(t.field[i])
		rl.ClearBackground(rl.Blank)
		rl.EndTextureMode()
	}
}

// Unload releases GPU resources.
func (t *GPUTrailField) Unload() {
	rl.UnloadRenderTexture(t.field[0])
	rl.UnloadRenderTexture(t.field[1])
	rl.UnloadShader(t.decayShader)
	rl.UnloadShader(t.depositShader)
}
