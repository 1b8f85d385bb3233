package ui

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/font"

	"cyberwalk/config"
	"cyberwalk/core"
	"cyberwalk/scene"
)

// Panel geometry and canvas layout.
const (
	PanelWidth  = 5
	PanelHeight = 2.5

	canvasWidth  = 512
	canvasHeight = 256
	textSize     = 24
	lineHeight   = 30

	hoverScale = 1.1
	bobHeight  = 0.15
	bobPeriod  = 2 // seconds per half cycle
)

var (
	panelFill   = color.NRGBA{R: 20, G: 20, B: 30, A: 230}
	panelStroke = color.NRGBA{R: 0, G: 255, B: 255, A: 255}
)

// Post is one floating social-post panel.
type Post struct {
	Text    string
	Node    *scene.Node
	Texture *scene.Texture
	Hovered bool

	base   mgl32.Vec3
	bob    *gween.Tween
	rising bool
}

// Board owns every post panel and the hover state between them.
type Board struct {
	Posts []*Post
	root  *scene.Node
	log   logrus.FieldLogger
}

// NewBoard rasterises one panel per configured post.
func NewBoard(posts []config.PostConfig, log logrus.FieldLogger) (*Board, error) {
	face, err := Face(MonoBold, textSize)
	if err != nil {
		return nil, fmt.Errorf("post font: %w", err)
	}

	b := &Board{root: scene.NewNode("posts"), log: log}
	mesh := scene.CreatePanel(PanelWidth, PanelHeight)
	for i, pc := range posts {
		tex := scene.NewTextureFromImage(fmt.Sprintf("post_%d", i), RenderPanel(face, pc.Text))
		m := *mesh
		m.GPUData = nil
		m.Material = scene.NewUnlitTextured("post", tex)

		p := &Post{
			Text:    pc.Text,
			Node:    scene.NewMeshNode("post", &m),
			Texture: tex,
			base:    pc.Position.Mgl(),
			bob:     gween.New(-bobHeight, bobHeight, bobPeriod, ease.InOutSine),
			rising:  true,
		}
		p.Node.SetPosition(p.base)
		b.root.AddChild(p.Node)
		b.Posts = append(b.Posts, p)
	}
	log.WithField("count", len(b.Posts)).Debug("posts ready")
	return b, nil
}

// Root is the node holding every panel.
func (b *Board) Root() *scene.Node {
	return b.root
}

// RenderPanel draws a post: translucent dark fill, cyan frame, cyan text.
func RenderPanel(face font.Face, text string) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	fillRect(img, img.Bounds(), panelFill)
	strokeRect(img, image.Rect(10, 10, 10+492, 10+236), 4, panelStroke)

	y := 50
	for _, line := range wrapText(face, text, canvasWidth-40) {
		if y > canvasHeight-20 {
			break
		}
		drawText(img, face, 20, y, panelStroke, line)
		y += lineHeight
	}
	return img
}

// Update bobs the panels, turns them toward the camera and refreshes the
// hover state from a world-space pick ray.
func (b *Board) Update(dt float32, cam *scene.Camera, rayOrigin, rayDir mgl32.Vec3) {
	for _, p := range b.Posts {
		offset, done := p.bob.Update(dt)
		if done {
			p.rising = !p.rising
			if p.rising {
				p.bob = gween.New(-bobHeight, bobHeight, bobPeriod, ease.InOutSine)
			} else {
				p.bob = gween.New(bobHeight, -bobHeight, bobPeriod, ease.InOutSine)
			}
		}
		p.Node.SetPosition(p.base.Add(mgl32.Vec3{0, offset, 0}))
		p.Node.SetRotation(facing(p.Node.Transform.Position, cam.Position))
	}

	hit := b.Pick(rayOrigin, rayDir)
	for _, p := range b.Posts {
		p.Hovered = p == hit
		s := float32(1)
		if p.Hovered {
			s = hoverScale
		}
		p.Node.SetScale(mgl32.Vec3{s, s, s})
	}
}

// facing returns the rotation that turns a panel's +Z toward eye.
func facing(pos, eye mgl32.Vec3) mgl32.Quat {
	d := eye.Sub(pos)
	if d.Len() < 1e-6 {
		return mgl32.QuatIdent()
	}
	d = d.Normalize()
	yaw := math32.Atan2(d.X(), d.Z())
	pitch := -math32.Asin(mgl32.Clamp(d.Y(), -1, 1))
	return mgl32.QuatRotate(yaw, core.Up).Mul(mgl32.QuatRotate(pitch, core.Right))
}

// Pick returns the nearest post hit by the ray, or nil.
func (b *Board) Pick(origin, dir mgl32.Vec3) *Post {
	var best *Post
	bestT := math32.Inf(1)
	for _, p := range b.Posts {
		if t, ok := hitPanel(p.Node.GetWorldMatrix(), origin, dir); ok && t < bestT {
			best, bestT = p, t
		}
	}
	return best
}

// hitPanel intersects a ray with the panel quad in its local space.
func hitPanel(world mgl32.Mat4, origin, dir mgl32.Vec3) (float32, bool) {
	inv := world.Inv()
	o := mgl32.TransformCoordinate(origin, inv)
	d := mgl32.TransformNormal(dir, inv)
	if math32.Abs(d.Z()) < 1e-6 {
		return 0, false
	}
	t := -o.Z() / d.Z()
	if t < 0 {
		return 0, false
	}
	hit := o.Add(d.Mul(t))
	if math32.Abs(hit.X()) > PanelWidth/2 || math32.Abs(hit.Y()) > PanelHeight/2 {
		return 0, false
	}
	// Local t is not world distance under scale; rank by world distance.
	return mgl32.TransformCoordinate(hit, world).Sub(origin).Len(), true
}

// Hovered returns the post under the pick ray, or nil.
func (b *Board) Hovered() *Post {
	for _, p := range b.Posts {
		if p.Hovered {
			return p
		}
	}
	return nil
}

// Click reports a click on the hovered post, if any.
func (b *Board) Click() *Post {
	p := b.Hovered()
	if p != nil {
		b.log.WithField("text", p.Text).Info("post clicked")
	}
	return p
}
