// Package ui rasterises the world-space post panels and the screen-space
// debug readout into textures.
package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/math/fixed"
)

type FontName string

const (
	Mono     FontName = "mono"
	MonoBold FontName = "mono-bold"
)

var (
	fontData = map[FontName][]byte{
		Mono:     gomono.TTF,
		MonoBold: gomonobold.TTF,
	}
	parsed = map[FontName]*truetype.Font{}
	faces  = map[faceKey]font.Face{}
)

type faceKey struct {
	name FontName
	size float64
}

// Face returns a cached face of the given pixel size.
func Face(name FontName, size float64) (font.Face, error) {
	key := faceKey{name, size}
	if f, ok := faces[key]; ok {
		return f, nil
	}
	ttf, ok := parsed[name]
	if !ok {
		data, known := fontData[name]
		if !known {
			return nil, fmt.Errorf("font %s not found", name)
		}
		var err error
		ttf, err = truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", name, err)
		}
		parsed[name] = ttf
	}
	face := truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	faces[key] = face
	return face, nil
}

// drawText draws s with its baseline starting at (x, y).
func drawText(dst draw.Image, face font.Face, x, y int, c color.Color, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// fillRect paints r with c, replacing what is there.
func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// strokeRect draws a rectangle outline of the given width centred on r's
// edges, the way a canvas stroke does.
func strokeRect(dst draw.Image, r image.Rectangle, width int, c color.Color) {
	h := width / 2
	outer := image.Rect(r.Min.X-h, r.Min.Y-h, r.Max.X+h, r.Max.Y+h)
	inner := image.Rect(r.Min.X+h, r.Min.Y+h, r.Max.X-h, r.Max.Y-h)
	fillRect(dst, image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y), c)
	fillRect(dst, image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y), c)
	fillRect(dst, image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y), c)
	fillRect(dst, image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y), c)
}

// wrapText breaks s on spaces so no line is wider than maxWidth pixels.
// A single word wider than maxWidth gets a line of its own.
func wrapText(face font.Face, s string, maxWidth int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if line != "" && font.MeasureString(face, candidate).Ceil() > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
