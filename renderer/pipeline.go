package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mycelia/systems"
)

// PipelineParams configures the full GPU agent pipeline.
type PipelineParams struct {
	CanvasW, CanvasH int
	TexSide          int
	AgentCap         int

	MaxSpeed float32

	SensorAngle    float32
	SensorDistance float32
	TurnStrength   float32
	Jitter         float32
	GoalBias       float32

	DecayFactor     float32
	DepositRadius   float32
	DepositStrength float32
	TintSaturation  float32
}

// Pipeline is the GPU agent backend: per-frame state updates run as fragment
// shader passes over the agent planes, then the trail field passes. The CPU
// only touches textures at spawn/kill and on explicit readback.
type Pipeline struct {
	params PipelineParams

	planes *AgentPlanes
	trail  *GPUTrailField

	dirShader rl.Shader
	posShader rl.Shader

	dirPosLoc    int32
	dirAttrLoc   int32
	dirTargetLoc int32
	dirTrailLoc  int32

	posDirLoc int32

	// One past the highest slot ever spawned; bounds the deposition loop.
	activeBound int
}

// NewPipeline compiles all passes and allocates the planes. Must run after
// the raylib window exists. Errors when the platform lacks render-texture or
// GLSL 330 support; the caller must treat that as fatal (the simulation
// cannot run on raylib's default-shader fallback).
func NewPipeline(params PipelineParams) (*Pipeline, error) {
	planes, err := NewAgentPlanes(params.TexSide,
		float32(params.CanvasW), float32(params.CanvasH), params.MaxSpeed)
	if err != nil {
		return nil, err
	}
	trail, err := NewGPUTrailField(TrailParams{
		Width: params.CanvasW, Height: params.CanvasH,
		DecayFactor:     params.DecayFactor,
		DepositRadius:   params.DepositRadius,
		DepositStrength: params.DepositStrength,
		TintSaturation:  params.TintSaturation,
		AgentCap:        params.AgentCap,
		TexSide:         params.TexSide,
	})
	if err != nil {
		planes.Unload()
		return nil, err
	}

	p := &Pipeline{
		params: params,
		planes: planes,
		trail:  trail,
	}

	res := []float32{float32(params.CanvasW), float32(params.CanvasH)}

	p.dirShader = rl.LoadShaderFromMemory("", directionFS)
	p.posShader = rl.LoadShaderFromMemory("", positionFS)
	if !rl.IsShaderValid(p.dirShader) || !rl.IsShaderValid(p.posShader) {
		p.Unload()
		return nil, fmt.Errorf("agent shaders failed to compile (GLSL 330 required)")
	}

	p.dirPosLoc = rl.GetShaderLocation(p.dirShader, "posTex")
	p.dirAttrLoc = rl.GetShaderLocation(p.dirShader, "attrTex")
	p.dirTargetLoc = rl.GetShaderLocation(p.dirShader, "targetTex")
	p.dirTrailLoc = rl.GetShaderLocation(p.dirShader, "trailTex")
	rl.SetShaderValue(p.dirShader, rl.GetShaderLocation(p.dirShader, "resolution"), res, rl.ShaderUniformVec2)
	setFloat(p.dirShader, "sensorAngle", params.SensorAngle)
	setFloat(p.dirShader, "sensorDistance", params.SensorDistance)
	setFloat(p.dirShader, "turnStrength", params.TurnStrength)
	setFloat(p.dirShader, "jitter", params.Jitter)
	setFloat(p.dirShader, "goalBias", params.GoalBias)

	p.posDirLoc = rl.GetShaderLocation(p.posShader, "dirTex")
	rl.SetShaderValue(p.posShader, rl.GetShaderLocation(p.posShader, "resolution"), res, rl.ShaderUniformVec2)
	setFloat(p.posShader, "maxSpeed", params.MaxSpeed)

	return p, nil
}

// Spawn implements systems.Backend.
func (p *Pipeline) Spawn(slot int, d systems.SpawnData) {
	p.planes.Spawn(slot, d)
	if slot+1 > p.activeBound {
		p.activeBound = slot + 1
	}
}

// Kill implements systems.Backend.
func (p *Pipeline) Kill(slots []int) {
	p.planes.Kill(slots)
}

// Step runs one frame of GPU passes: steering, advection, trail decay and
// deposition. Pass order matches the soft backend.
func (p *Pipeline) Step() {
	p.StepAgents()
	p.StepTrail()
}

// StepAgents runs the steering and advection passes and swaps the ping-pong
// planes.
func (p *Pipeline) StepAgents() {
	// Direction pass: dir[cur] -> dir[other], steering against the trail.
	rl.BeginTextureMode(p.planes.dir[1-p.planes.cur])
	rl.DisableColorBlend()
	rl.BeginShaderMode(p.dirShader)
	rl.SetShaderValueTexture(p.dirShader, p.dirPosLoc, p.planes.pos[p.planes.cur].Texture)
	rl.SetShaderValueTexture(p.dirShader, p.dirAttrLoc, p.planes.attr.Texture)
	rl.SetShaderValueTexture(p.dirShader, p.dirTargetLoc, p.planes.target.Texture)
	rl.SetShaderValueTexture(p.dirShader, p.dirTrailLoc, p.trail.Texture())
	drawDataPass(p.planes.dir[p.planes.cur].Texture)
	rl.EndShaderMode()
	rl.EnableColorBlend()
	rl.EndTextureMode()

	// Position pass: pos[cur] -> pos[other], advection along the new heading.
	rl.BeginTextureMode(p.planes.pos[1-p.planes.cur])
	rl.DisableColorBlend()
	rl.BeginShaderMode(p.posShader)
	rl.SetShaderValueTexture(p.posShader, p.posDirLoc, p.planes.dir[1-p.planes.cur].Texture)
	drawDataPass(p.planes.pos[p.planes.cur].Texture)
	rl.EndShaderMode()
	rl.EnableColorBlend()
	rl.EndTextureMode()

	p.planes.cur = 1 - p.planes.cur
}

// StepTrail runs the trail decay and deposition passes against the planes
// StepAgents just produced.
func (p *Pipeline) StepTrail() {
	posTex, _ := p.planes.Current()
	p.trail.Step(posTex, p.planes.attr.Texture, p.activeBound)
}

// drawDataPass draws a source texture over the full render target with a
// negative source height, cancelling the render-target vertical flip so
// texel (c, r) of the source lands on texel (c, r) of the destination. Every
// data pass needs this: spawn/kill writes and the deposition slot lookup
// address fixed texel rows, so a pass must never mirror the plane.
func drawDataPass(tex rl.Texture2D) {
	src := rl.Rectangle{Width: float32(tex.Width), Height: -float32(tex.Height)}
	rl.DrawTextureRec(tex, src, rl.Vector2{}, rl.White)
}

// Trail exposes the trail field for drawing.
func (p *Pipeline) Trail() *GPUTrailField {
	return p.trail
}

// ReadPositions decodes the live agent positions from the GPU. Slow; used
// for periodic mirror correction.
func (p *Pipeline) ReadPositions() []AgentPosition {
	return p.planes.ReadPositions()
}

// Unload releases all GPU resources.
func (p *Pipeline) Unload() {
	p.planes.Unload()
	p.trail.Unload()
	rl.UnloadShader(p.dirShader)
	rl.UnloadShader(p.posShader)
}

func setFloat(shader rl.Shader, name string, v float32) {
	rl.SetShaderValue(shader, rl.GetShaderLocation(shader, name), []float32{v}, rl.ShaderUniformFloat)
}
