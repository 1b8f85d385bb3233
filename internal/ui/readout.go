package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"

	"cyberwalk/scene"
)

// Readout field names, in display order.
const (
	FieldKeys     = "Keys pressed"
	FieldPosition = "Position"
	FieldVelocity = "Velocity"
	FieldCamera   = "Camera"
	FieldCanJump  = "Can jump"
	FieldYaw      = "Yaw"
	FieldFPS      = "FPS"
)

const (
	readoutSize    = 14
	readoutPadding = 10
)

var (
	readoutText = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	readoutBack = color.NRGBA{R: 0, G: 0, B: 0, A: 128}
)

// Readout is the debug text block in the top-left corner.
type Readout struct {
	Texture *scene.Texture

	fields *orderedmap.OrderedMap[string, string]
	face   font.Face
	text   string
	// Renders counts rasterisations, for tests and the debug log.
	Renders int
}

func NewReadout() (*Readout, error) {
	face, err := Face(Mono, readoutSize)
	if err != nil {
		return nil, fmt.Errorf("readout font: %w", err)
	}
	fields := orderedmap.NewOrderedMap[string, string]()
	for _, k := range []string{FieldKeys, FieldPosition, FieldVelocity, FieldCamera, FieldCanJump, FieldYaw, FieldFPS} {
		fields.Set(k, "")
	}
	return &Readout{fields: fields, face: face}, nil
}

// Set updates one field. Unknown keys are appended after the built-in ones.
func (r *Readout) Set(key, value string) {
	r.fields.Set(key, value)
}

func (r *Readout) Get(key string) string {
	v, _ := r.fields.Get(key)
	return v
}

// Text renders the fields as "key: value" lines.
func (r *Readout) Text() string {
	lines := make([]string, 0, r.fields.Len())
	for _, key := range r.fields.Keys() {
		v, _ := r.fields.Get(key)
		lines = append(lines, key+": "+v)
	}
	return strings.Join(lines, "\n")
}

// Refresh re-rasterises the texture when the text has changed since the
// last call. It reports whether it did.
func (r *Readout) Refresh() bool {
	text := r.Text()
	if r.Texture != nil && text == r.text {
		return false
	}
	r.text = text
	img := r.render(strings.Split(text, "\n"))
	if r.Texture == nil {
		r.Texture = scene.NewTextureFromImage("readout", img)
	} else {
		r.Texture.Replace(img)
	}
	r.Renders++
	return true
}

func (r *Readout) render(lines []string) *image.NRGBA {
	metrics := r.face.Metrics()
	lineH := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	width := 0
	for _, l := range lines {
		if w := font.MeasureString(r.face, l).Ceil(); w > width {
			width = w
		}
	}
	img := image.NewNRGBA(image.Rect(0, 0, width+2*readoutPadding, len(lines)*lineH+2*readoutPadding))
	fillRect(img, img.Bounds(), readoutBack)
	for i, l := range lines {
		drawText(img, r.face, readoutPadding, readoutPadding+ascent+i*lineH, readoutText, l)
	}
	return img
}

// Round1 rounds to one decimal, halves toward +Inf.
func Round1(v float32) float32 {
	return math32.Floor(v*10+0.5) / 10
}

// FormatVec renders "x, y, z" with each component rounded to one decimal.
func FormatVec(v mgl32.Vec3) string {
	return fmt.Sprintf("%s, %s, %s", formatRounded(v.X()), formatRounded(v.Y()), formatRounded(v.Z()))
}

func formatRounded(v float32) string {
	r := Round1(v)
	if r == 0 {
		r = 0 // drop negative zero
	}
	return fmt.Sprintf("%.1f", r)
}
