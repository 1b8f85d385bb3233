package renderer

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"cyberwalk/internal/opengl"
	"cyberwalk/scene"
	"cyberwalk/window"
)

// overlayCmd is a queued DrawOverlay call, flushed in Present().
type overlayCmd struct {
	tex  *scene.Texture
	x, y float32
}

// drawItem is a mesh node resolved for the current frame.
type drawItem struct {
	node  *scene.Node
	model mgl32.Mat4
	depth float32 // squared distance from the camera
}

// RenderEngine is the high-level renderer that drives the OpenGL backend.
type RenderEngine struct {
	gl             *opengl.Renderer
	window         *window.Window
	Scene          *scene.Scene
	FrustumCulling bool

	// Per-frame stats (populated during Render)
	lastObjects   int
	lastVertices  int
	lastTriangles int
	lastCulled    int

	opaque      []drawItem
	transparent []drawItem

	// Queued overlays, drawn on top of the scene in Present()
	overlays []overlayCmd

	log logrus.FieldLogger
}

func NewRenderEngine(win *window.Window, log logrus.FieldLogger) (*RenderEngine, error) {
	glRenderer, err := opengl.NewRenderer(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}

	glRenderer.SetViewport(win.Width, win.Height)

	log.WithFields(logrus.Fields{
		"width":  win.Width,
		"height": win.Height,
	}).Info("render engine initialized")
	return &RenderEngine{
		gl:             glRenderer,
		window:         win,
		FrustumCulling: true,
		log:            log,
	}, nil
}

// SetScene selects the scene to draw and picks up its fog settings.
func (re *RenderEngine) SetScene(s *scene.Scene) {
	re.Scene = s
	re.gl.SetFog(s.Fog)
	if s.Camera != nil {
		s.Camera.UpdateAspectRatio(float32(re.window.Width), float32(re.window.Height))
	}
}

// Render draws every visible mesh node. Opaque meshes go first; transparent
// ones follow, sorted far to near.
func (re *RenderEngine) Render() error {
	if re.Scene == nil || re.Scene.Camera == nil {
		return fmt.Errorf("no scene or camera")
	}
	cam := re.Scene.Camera

	re.gl.BeginFrame(re.Scene.SkyColor, re.Scene.Lights, re.Scene.Ambient, cam.Position)

	vp := cam.GetViewProjectionMatrix()
	frustum := scene.FrustumFromVP(vp)

	re.opaque = re.opaque[:0]
	re.transparent = re.transparent[:0]
	culled := 0

	for _, node := range re.Scene.GetVisibleNodes() {
		if node.Mesh == nil {
			continue
		}

		model := node.GetWorldMatrix()

		// Frustum culling: skip draw if AABB is completely outside the frustum
		if re.FrustumCulling {
			aabb := scene.ComputeAABB(node.Mesh, model)
			if !aabb.IntersectsFrustum(&frustum) {
				culled++
				continue
			}
		}

		item := drawItem{node: node, model: model}
		if node.Mesh.MaterialOrDefault().Transparent {
			item.depth = model.Col(3).Vec3().Sub(cam.Position).LenSqr()
			re.transparent = append(re.transparent, item)
		} else {
			re.opaque = append(re.opaque, item)
		}
	}

	objects, vertices, triangles := 0, 0, 0
	draw := func(it drawItem) {
		re.gl.DrawMesh(it.node.Mesh, vp.Mul4(it.model), it.model)
		objects++
		vertices += len(it.node.Mesh.Vertices)
		if it.node.Mesh.DrawMode == scene.DrawTriangles {
			triangles += len(it.node.Mesh.Indices) / 3
		}
	}

	for _, it := range re.opaque {
		draw(it)
	}

	if len(re.transparent) > 0 {
		sort.SliceStable(re.transparent, func(i, j int) bool {
			return re.transparent[i].depth > re.transparent[j].depth
		})
		re.gl.BeginTransparent()
		for _, it := range re.transparent {
			draw(it)
		}
		re.gl.EndTransparent()
	}

	re.lastObjects = objects
	re.lastVertices = vertices
	re.lastTriangles = triangles
	re.lastCulled = culled

	return nil
}

// DrawOverlay queues tex to be drawn at window pixel (x, y) in the next
// Present() call, on top of the 3D scene.
func (re *RenderEngine) DrawOverlay(tex *scene.Texture, x, y float32) {
	re.overlays = append(re.overlays, overlayCmd{tex: tex, x: x, y: y})
}

// Present flushes queued overlays and swaps buffers.
func (re *RenderEngine) Present() {
	for _, cmd := range re.overlays {
		re.gl.DrawOverlay(cmd.tex, cmd.x, cmd.y)
	}
	re.overlays = re.overlays[:0]
	re.window.SwapBuffers()
}

func (re *RenderEngine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	re.gl.SetViewport(width, height)
	if re.Scene != nil && re.Scene.Camera != nil {
		re.Scene.Camera.UpdateAspectRatio(float32(width), float32(height))
	}
	re.log.WithFields(logrus.Fields{"width": width, "height": height}).Debug("resize")
}

func (re *RenderEngine) Destroy() {
	re.gl.Destroy()
}

// DrawStats returns the counts gathered by the last Render call.
func (re *RenderEngine) DrawStats() (objects, vertices, triangles, culled int) {
	return re.lastObjects, re.lastVertices, re.lastTriangles, re.lastCulled
}
