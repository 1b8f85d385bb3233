package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"cyberwalk/core"
	"cyberwalk/scene"
)

const maxPointLights = 8

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	HasIndices bool
	Mode       uint32
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	program uint32

	// Vertex transform uniforms
	mvpLoc          int32
	modelLoc        int32
	normalMatrixLoc int32

	// Lighting uniforms: directional
	lightDirLoc       int32
	lightColorLoc     int32
	lightIntensityLoc int32
	ambientColorLoc   int32
	cameraPosLoc      int32

	// Lighting uniforms: point lights
	pointLightCountLoc     int32
	pointLightPosLoc       [maxPointLights]int32
	pointLightColorLoc     [maxPointLights]int32
	pointLightIntensityLoc [maxPointLights]int32
	pointLightRangeLoc     [maxPointLights]int32

	// Material uniforms
	matAlbedoLoc    int32
	matSpecularLoc  int32
	matShininessLoc int32
	matEmissiveLoc  int32
	unlitLoc        int32
	albedoTexLoc    int32
	hasTextureLoc   int32

	// Fog uniforms
	fogEnabledLoc int32
	fogColorLoc   int32
	fogDensityLoc int32

	overlay *overlayPass

	gpuMeshes map[*scene.Mesh]*GPUMesh
	textures  map[*scene.Texture]struct{}
	failed    map[*scene.Texture]bool

	fog    scene.Fog
	width  int
	height int

	log logrus.FieldLogger
}

// NewRenderer loads the GL entry points, compiles the shaders and resolves
// uniform locations. The OpenGL context must be current.
func NewRenderer(log logrus.FieldLogger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}

	r := &Renderer{
		program:   prog,
		gpuMeshes: make(map[*scene.Mesh]*GPUMesh),
		textures:  make(map[*scene.Texture]struct{}),
		failed:    make(map[*scene.Texture]bool),
		log:       log,
	}

	loc := func(name string) int32 {
		return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
	}

	r.mvpLoc = loc("mvp")
	r.modelLoc = loc("model")
	r.normalMatrixLoc = loc("normalMatrix")

	r.lightDirLoc = loc("lightDir")
	r.lightColorLoc = loc("lightColor")
	r.lightIntensityLoc = loc("lightIntensity")
	r.ambientColorLoc = loc("ambientColor")
	r.cameraPosLoc = loc("cameraPos")

	r.pointLightCountLoc = loc("pointLightCount")
	for i := 0; i < maxPointLights; i++ {
		r.pointLightPosLoc[i] = loc(fmt.Sprintf("pointLightPos[%d]", i))
		r.pointLightColorLoc[i] = loc(fmt.Sprintf("pointLightColor[%d]", i))
		r.pointLightIntensityLoc[i] = loc(fmt.Sprintf("pointLightIntensity[%d]", i))
		r.pointLightRangeLoc[i] = loc(fmt.Sprintf("pointLightRange[%d]", i))
	}

	r.matAlbedoLoc = loc("matAlbedo")
	r.matSpecularLoc = loc("matSpecular")
	r.matShininessLoc = loc("matShininess")
	r.matEmissiveLoc = loc("matEmissive")
	r.unlitLoc = loc("unlit")
	r.albedoTexLoc = loc("albedoTex")
	r.hasTextureLoc = loc("hasTexture")

	r.fogEnabledLoc = loc("fogEnabled")
	r.fogColorLoc = loc("fogColor")
	r.fogDensityLoc = loc("fogDensity")

	r.overlay, err = newOverlayPass()
	if err != nil {
		gl.DeleteProgram(prog)
		return nil, fmt.Errorf("overlay shader: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	log.WithFields(logrus.Fields{
		"version":  gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer": gl.GoStr(gl.GetString(gl.RENDERER)),
	}).Info("opengl ready")

	return r, nil
}

// SetViewport records the framebuffer size and updates the GL viewport.
func (r *Renderer) SetViewport(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *Renderer) SetFog(fog scene.Fog) {
	r.fog = fog
}

// ── BeginFrame ──────────────────────────────────────────────────────────────

// BeginFrame clears to the sky colour and uploads the per-frame lighting
// state. The first directional light is used; point lights beyond
// maxPointLights are ignored.
func (r *Renderer) BeginFrame(sky core.Color, lights []*scene.Light, ambient core.Color, camPos mgl32.Vec3) {
	gl.ClearColor(sky.R, sky.G, sky.B, sky.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)

	gl.Uniform3f(r.ambientColorLoc, ambient.R, ambient.G, ambient.B)
	gl.Uniform3f(r.cameraPosLoc, camPos.X(), camPos.Y(), camPos.Z())

	gl.Uniform1f(r.lightIntensityLoc, 0)
	dirSet := false
	points := 0
	for _, l := range lights {
		switch l.Type {
		case scene.LightTypeDirectional:
			if dirSet {
				continue
			}
			dirSet = true
			d := l.Direction
			if d.Len() > 0 {
				d = d.Normalize()
			}
			gl.Uniform3f(r.lightDirLoc, d.X(), d.Y(), d.Z())
			gl.Uniform3f(r.lightColorLoc, l.Color.R, l.Color.G, l.Color.B)
			gl.Uniform1f(r.lightIntensityLoc, l.Intensity)
		case scene.LightTypePoint:
			if points >= maxPointLights {
				continue
			}
			gl.Uniform3f(r.pointLightPosLoc[points], l.Position.X(), l.Position.Y(), l.Position.Z())
			gl.Uniform3f(r.pointLightColorLoc[points], l.Color.R, l.Color.G, l.Color.B)
			gl.Uniform1f(r.pointLightIntensityLoc[points], l.Intensity)
			gl.Uniform1f(r.pointLightRangeLoc[points], l.Range)
			points++
		}
	}
	gl.Uniform1i(r.pointLightCountLoc, int32(points))

	if r.fog.Enabled {
		gl.Uniform1i(r.fogEnabledLoc, 1)
		gl.Uniform3f(r.fogColorLoc, r.fog.Color.R, r.fog.Color.G, r.fog.Color.B)
		gl.Uniform1f(r.fogDensityLoc, r.fog.Density)
	} else {
		gl.Uniform1i(r.fogEnabledLoc, 0)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	gl.Disable(gl.CULL_FACE)
}

// ── Blending ────────────────────────────────────────────────────────────────

// BeginTransparent switches to alpha blending with depth writes off.
// Callers draw transparent meshes back to front afterwards.
func (r *Renderer) BeginTransparent() {
	gl.Enable(gl.BLEND)
	gl.DepthMask(false)
}

func (r *Renderer) EndTransparent() {
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

// ── DrawMesh ────────────────────────────────────────────────────────────────

// DrawMesh uploads the mesh on first use and draws it with the given
// model-view-projection and model matrices.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, mvp, model mgl32.Mat4) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}

	normal := model.Mat3().Inv().Transpose()

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, &mvp[0])
	gl.UniformMatrix4fv(r.modelLoc, 1, false, &model[0])
	gl.UniformMatrix3fv(r.normalMatrixLoc, 1, false, &normal[0])

	r.applyMaterial(mesh.MaterialOrDefault())

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(gpu.Mode, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gpu.Mode, 0, int32(len(mesh.Vertices)))
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) applyMaterial(mat *scene.Material) {
	gl.Uniform4f(r.matAlbedoLoc, mat.Albedo.R, mat.Albedo.G, mat.Albedo.B, mat.Albedo.A)
	gl.Uniform3f(r.matSpecularLoc, mat.Specular.R, mat.Specular.G, mat.Specular.B)
	gl.Uniform1f(r.matShininessLoc, mat.Shininess)
	gl.Uniform3f(r.matEmissiveLoc, mat.Emissive.R, mat.Emissive.G, mat.Emissive.B)

	if mat.Unlit {
		gl.Uniform1i(r.unlitLoc, 1)
	} else {
		gl.Uniform1i(r.unlitLoc, 0)
	}

	if tex := mat.AlbedoTexture; tex != nil && r.ensureTexture(tex) {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
		gl.Uniform1i(r.albedoTexLoc, 0)
		gl.Uniform1i(r.hasTextureLoc, 1)
	} else {
		gl.Uniform1i(r.hasTextureLoc, 0)
	}
}

// ensureTexture uploads tex on first use and re-uploads it when Dirty.
// A texture that failed is retried only after it is marked Dirty again.
func (r *Renderer) ensureTexture(tex *scene.Texture) bool {
	if !tex.Dirty {
		return tex.GLID != 0 && !r.failed[tex]
	}
	if err := UploadTexture(tex); err != nil {
		r.log.WithError(err).WithField("texture", tex.Name).Warn("texture upload failed")
		r.failed[tex] = true
		tex.Dirty = false
		return false
	}
	delete(r.failed, tex)
	r.textures[tex] = struct{}{}
	return true
}

// ── Resource management ─────────────────────────────────────────────────────

// ReleaseMesh frees the GPU buffers of a mesh that is no longer drawn.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	gpu, ok := r.gpuMeshes[mesh]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &gpu.VAO)
	gl.DeleteBuffers(1, &gpu.VBO)
	if gpu.HasIndices {
		gl.DeleteBuffers(1, &gpu.EBO)
	}
	delete(r.gpuMeshes, mesh)
	mesh.GPUData = nil
}

// Destroy frees all GPU resources owned by the renderer.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	for tex := range r.textures {
		DeleteTexture(tex)
	}
	r.textures = nil
	r.overlay.destroy()
	gl.DeleteProgram(r.program)
}

func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		HasIndices: len(mesh.Indices) > 0,
		Mode:       gl.TRIANGLES,
	}
	if mesh.DrawMode == scene.DrawLines {
		gpu.Mode = gl.LINES
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))
	colorOff := int(unsafe.Offsetof(v.Color))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 4, gl.FLOAT, false, stride, gl.PtrOffset(colorOff))

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

// ── Shader helpers ──────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
