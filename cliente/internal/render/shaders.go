package render

import (
	"image/color"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

const terrainVertexShader = `
#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec4 vertexColor;

uniform mat4 mvp;
uniform mat4 matModel;

out vec2 fragTexCoord;
out vec4 fragColor;
out vec3 fragWorldPos;

void main() {
    fragTexCoord = vertexTexCoord;
    fragColor = vertexColor;
    fragWorldPos = (matModel * vec4(vertexPosition, 1.0)).xyz;
    gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`

const terrainFragmentShader = `
#version 330
in vec2 fragTexCoord;
in vec4 fragColor;
in vec3 fragWorldPos;

uniform sampler2D texture0;
uniform vec4 colDiffuse;
uniform vec3 camPos;
uniform vec3 fogColor;
uniform float fogStart;
uniform float fogEnd;

out vec4 finalColor;

void main() {
    vec4 texelColor = texture(texture0, fragTexCoord);
    vec4 c = texelColor * fragColor * colDiffuse;
    if (c.a < 0.1) discard;

    float dist = distance(fragWorldPos.xz, camPos.xz);
    float fog = clamp((dist - fogStart) / max(fogEnd - fogStart, 0.001), 0.0, 1.0);
    finalColor = vec4(mix(c.rgb, fogColor, fog), c.a);
}
`

// Fog é a névoa de distância; acompanha a cor do céu e o raio de visão.
type Fog struct {
	Color      color.NRGBA
	Start, End float32
}

// FogFor calcula a névoa para um raio de visão em chunks e a luz do céu (0-15).
func FogFor(viewDistance int32, skyLight int) Fog {
	far := float32(viewDistance*16) + 8
	if viewDistance <= 0 {
		far = 24
	}
	return Fog{Color: SkyColor(skyLight), Start: far * 0.6, End: far}
}

// SkyColor interpola entre a noite e o dia pela luz do céu.
func SkyColor(skyLight int) color.NRGBA {
	if skyLight < 0 {
		skyLight = 0
	}
	if skyLight > 15 {
		skyLight = 15
	}
	night := mgl32.Vec3{10, 12, 30}
	day := mgl32.Vec3{135, 190, 250}
	k := float32(skyLight) / 15
	c := night.Add(day.Sub(night).Mul(k))
	return color.NRGBA{R: uint8(c.X()), G: uint8(c.Y()), B: uint8(c.Z()), A: 255}
}

// Shaders guarda o shader do mundo e as localizações dos uniforms.
type Shaders struct {
	Terrain rl.Shader

	camPosLoc   int32
	fogColorLoc int32
	fogStartLoc int32
	fogEndLoc   int32
}

// LoadShaders compila os shaders. A janela já deve estar aberta.
func LoadShaders() *Shaders {
	s := &Shaders{}
	s.Terrain = rl.LoadShaderFromMemory(terrainVertexShader, terrainFragmentShader)

	// Locs aponta para um array em C (32 entradas)
	locs := unsafe.Slice(s.Terrain.Locs, 32)
	locs[15] = rl.GetShaderLocation(s.Terrain, "texture0")   // SHADER_LOC_MAP_DIFFUSE
	locs[12] = rl.GetShaderLocation(s.Terrain, "colDiffuse") // SHADER_LOC_COLOR_DIFFUSE
	locs[9] = rl.GetShaderLocation(s.Terrain, "matModel")    // SHADER_LOC_MATRIX_MODEL

	s.camPosLoc = rl.GetShaderLocation(s.Terrain, "camPos")
	s.fogColorLoc = rl.GetShaderLocation(s.Terrain, "fogColor")
	s.fogStartLoc = rl.GetShaderLocation(s.Terrain, "fogStart")
	s.fogEndLoc = rl.GetShaderLocation(s.Terrain, "fogEnd")
	return s
}

// Apply envia os uniforms do frame.
func (s *Shaders) Apply(camPos mgl32.Vec3, fog Fog) {
	c := fog.Color
	rl.SetShaderValue(s.Terrain, s.camPosLoc, []float32{camPos.X(), camPos.Y(), camPos.Z()}, rl.ShaderUniformVec3)
	rl.SetShaderValue(s.Terrain, s.fogColorLoc, []float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}, rl.ShaderUniformVec3)
	rl.SetShaderValue(s.Terrain, s.fogStartLoc, []float32{fog.Start}, rl.ShaderUniformFloat)
	rl.SetShaderValue(s.Terrain, s.fogEndLoc, []float32{fog.End}, rl.ShaderUniformFloat)
}

// Unload libera o shader.
func (s *Shaders) Unload() {
	rl.UnloadShader(s.Terrain)
}
