package renderer

import "fmt"

// All simulation state lives in RGBA8 textures: scalar values are packed as
// 16-bit fixed point across channel pairs, matching the encode helpers in the
// systems package. Shaders are embedded as source strings so the binary has
// no runtime asset directory.

// glslHelpers is shared by every pass: the 16-bit codec and the position
// hash used for tie jitter.
const glslHelpers = `
vec2 enc16(float v) {
    float u = floor(clamp(v, 0.0, 1.0) * 65535.0 + 0.5);
    float hi = floor(u / 256.0);
    float lo = u - hi * 256.0;
    return vec2(hi, lo) / 255.0;
}

float dec16(vec2 c) {
    return (c.x * 255.0 * 256.0 + c.y * 255.0) / 65535.0;
}

float hash2d(vec2 p) {
    return fract(sin(p.x * 12.9898 + p.y * 78.233) * 43758.5453);
}
`

// directionFS steers every agent one frame. texture0 is the current
// direction plane; position, attribute, target, and trail planes are bound
// as extra samplers. Implements the same three-sensor rule as systems.Steer,
// plus the goal pull for frontier agents (roleWeight > 0.5).
const directionFS = `#version 330

in vec2 fragTexCoord;
out vec4 finalColor;

uniform sampler2D texture0;  // direction plane (current)
uniform sampler2D posTex;
uniform sampler2D attrTex;
uniform sampler2D targetTex;
uniform sampler2D trailTex;

uniform vec2 resolution;
uniform float sensorAngle;
uniform float sensorDistance;
uniform float turnStrength;
uniform float jitter;
uniform float goalBias;

const float PI = 3.14159265358979;
const float TWO_PI = 6.28318530717959;
` + glslHelpers + `
float trailAt(vec2 p) {
    return texture(trailTex, fract(p / resolution)).a;
}

void main() {
    vec4 dir = texture(texture0, fragTexCoord);
    if (dir.a < 0.5) {
        finalColor = vec4(0.0);
        return;
    }

    vec4 posT = texture(posTex, fragTexCoord);
    vec2 pos = vec2(dec16(posT.rg) * resolution.x, dec16(posT.ba) * resolution.y);
    float heading = dec16(dir.rg) * TWO_PI;

    float fwd = trailAt(pos + vec2(cos(heading), sin(heading)) * sensorDistance);
    float lft = trailAt(pos + vec2(cos(heading - sensorAngle), sin(heading - sensorAngle)) * sensorDistance);
    float rgt = trailAt(pos + vec2(cos(heading + sensorAngle), sin(heading + sensorAngle)) * sensorDistance);

    if (fwd >= lft && fwd >= rgt) {
        // keep heading
    } else if (lft > rgt) {
        heading -= turnStrength;
    } else if (rgt > lft) {
        heading += turnStrength;
    } else {
        heading += (hash2d(pos) * 2.0 - 1.0) * jitter;
    }

    vec4 att = texture(attrTex, fragTexCoord);
    float frontier = step(0.5, att.b);
    if (frontier > 0.5) {
        vec4 tgtT = texture(targetTex, fragTexCoord);
        vec2 tgt = vec2(dec16(tgtT.rg) * resolution.x, dec16(tgtT.ba) * resolution.y);
        float desired = atan(tgt.y - pos.y, tgt.x - pos.x);
        float d = mod(desired - heading + PI, TWO_PI) - PI;
        heading += d * goalBias;
    }

    finalColor = vec4(enc16(fract(heading / TWO_PI)), dir.b, dir.a);
}
`

// positionFS advects every agent along its (already updated) heading with
// toroidal wrap. texture0 is the current position plane.
const positionFS = `#version 330

in vec2 fragTexCoord;
out vec4 finalColor;

uniform sampler2D texture0;  // position plane (current)
uniform sampler2D dirTex;

uniform vec2 resolution;
uniform float maxSpeed;

const float TWO_PI = 6.28318530717959;
` + glslHelpers + `
void main() {
    vec4 dir = texture(dirTex, fragTexCoord);
    if (dir.a < 0.5) {
        finalColor = vec4(0.0);
        return;
    }

    vec4 posT = texture(texture0, fragTexCoord);
    vec2 pos = vec2(dec16(posT.rg) * resolution.x, dec16(posT.ba) * resolution.y);
    float heading = dec16(dir.rg) * TWO_PI;
    float speed = dir.b * maxSpeed;

    pos = mod(pos + vec2(cos(heading), sin(heading)) * speed + resolution, resolution);

    finalColor = vec4(enc16(pos.x / resolution.x), enc16(pos.y / resolution.y));
}
`

// decayFS multiplies the trail field by the geometric decay factor.
const decayFS = `#version 330

in vec2 fragTexCoord;
out vec4 finalColor;

uniform sampler2D texture0;  // trail field (current)
uniform float decayFactor;

void main() {
    finalColor = texture(texture0, fragTexCoord) * decayFactor;
}
`

// depositFSTemplate is the deposition pass: for every trail pixel, loop over
// the agent planes and accumulate role-weighted smoothstep falloff, tinted by
// the agent's cluster hue. Rendered additively on top of the decayed field.
// The loop bound is baked in at load; activeBound lets the driver exit early
// when the high slots are unused.
const depositFSTemplate = `#version 330

in vec2 fragTexCoord;
out vec4 finalColor;

uniform sampler2D posTex;
uniform sampler2D attrTex;

uniform vec2 resolution;
uniform float texSide;
uniform int activeBound;
uniform float depositRadius;
uniform float depositStrength;
uniform float tintSaturation;

#define MAX_AGENTS %d
` + glslHelpers + `
vec3 hueColor(float hueDeg) {
    float h = hueDeg / 60.0;
    vec3 rgb = clamp(abs(mod(h + vec3(0.0, 4.0, 2.0), 6.0) - 3.0) - 1.0, 0.0, 1.0);
    return rgb;
}

void main() {
    // gl_FragCoord rather than fragTexCoord: the pass is drawn as a plain
    // rectangle, which carries no useful texture coordinates.
    vec2 p = gl_FragCoord.xy;
    vec4 acc = vec4(0.0);

    for (int i = 0; i < MAX_AGENTS; i++) {
        if (i >= activeBound) break;

        vec2 slotUV = (vec2(mod(float(i), texSide), floor(float(i) / texSide)) + 0.5) / texSide;
        vec4 att = texture(attrTex, slotUV);
        if (att.a < 0.5) continue;

        vec4 posT = texture(posTex, slotUV);
        vec2 ap = vec2(dec16(posT.rg) * resolution.x, dec16(posT.ba) * resolution.y);

        vec2 d = abs(p - ap);
        d = min(d, resolution - d);
        float dist = length(d);
        if (dist >= depositRadius) continue;

        float amount = smoothstep(depositRadius, 0.0, dist) * depositStrength * att.b;
        vec3 tint = mix(vec3(1.0), hueColor(att.r * 360.0), tintSaturation) * att.g;
        acc.rgb += tint * amount;
        acc.a += amount;
    }

    finalColor = acc;
}
`

// DepositShaderSource bakes the static agent-loop cap into the deposition
// shader.
func DepositShaderSource(agentCap int) string {
	return fmt.Sprintf(depositFSTemplate, agentCap)
}
