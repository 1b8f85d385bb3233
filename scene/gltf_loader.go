package scene

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/sirupsen/logrus"

	"cyberwalk/core"
)

// GLTFResult holds the nodes and textures loaded from a .glb / .gltf file.
// Textures are uploaded lazily by the renderer on first draw.
type GLTFResult struct {
	Roots    []*Node
	Textures []*Texture
}

// LoadGLTF reads a character model: node hierarchy, triangle primitives,
// base colour (factor and embedded texture), emissive factor, alpha blend
// and double-sided flags. Images must be embedded in the file; external
// image URIs are ignored. Broken images or primitives are skipped with a
// warning on log.
func LoadGLTF(path string, log logrus.FieldLogger) (*GLTFResult, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	imp := &gltfImport{doc: doc, log: log.WithField("model", path)}
	imp.loadImages()
	imp.loadMaterials()
	imp.loadMeshes()
	imp.loadNodes()
	return &GLTFResult{Roots: imp.roots(), Textures: imp.textures}, nil
}

// gltfImport converts one document; each slice is indexed like the
// document array it mirrors.
type gltfImport struct {
	doc *gltf.Document
	log logrus.FieldLogger

	images    []*Texture // by texture index
	textures  []*Texture
	materials []*Material
	meshes    [][]*Mesh // one entry per primitive
	nodes     []*Node
}

func (imp *gltfImport) loadImages() {
	doc := imp.doc
	imp.images = make([]*Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil || *gt.Source >= len(doc.Images) {
			continue
		}
		img := doc.Images[*gt.Source]
		if img.BufferView == nil {
			imp.log.WithField("image", *gt.Source).Warn("gltf: image not embedded, skipped")
			continue
		}
		raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			imp.log.WithError(err).WithField("image", *gt.Source).Warn("gltf: read image")
			continue
		}
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("gltf_img_%d", *gt.Source)
		}
		tex, err := decodeImageBytes(name, raw)
		if err != nil {
			imp.log.WithError(err).WithField("image", *gt.Source).Warn("gltf: decode image")
			continue
		}
		imp.images[i] = tex
		imp.textures = append(imp.textures, tex)
	}
}

func (imp *gltfImport) loadMaterials() {
	imp.materials = make([]*Material, len(imp.doc.Materials))
	for i, gm := range imp.doc.Materials {
		mat := DefaultMaterial()
		mat.Name = gm.Name
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat.Albedo = core.Color{R: float32(cf[0]), G: float32(cf[1]), B: float32(cf[2]), A: float32(cf[3])}
			if bt := pbr.BaseColorTexture; bt != nil && bt.Index < len(imp.images) {
				mat.AlbedoTexture = imp.images[bt.Index]
			}
		}
		ef := gm.EmissiveFactor
		mat.Emissive = core.Color{R: float32(ef[0]), G: float32(ef[1]), B: float32(ef[2]), A: 1}
		mat.Transparent = gm.AlphaMode == gltf.AlphaBlend
		mat.DoubleSided = gm.DoubleSided
		imp.materials[i] = mat
	}
}

func (imp *gltfImport) loadMeshes() {
	imp.meshes = make([][]*Mesh, len(imp.doc.Meshes))
	for mi, gm := range imp.doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				imp.log.WithFields(logrus.Fields{"mesh": mi, "primitive": pi}).Warn("gltf: not triangles, skipped")
				continue
			}
			m, err := imp.primitive(gm.Name, pi, prim)
			if err != nil {
				imp.log.WithError(err).WithFields(logrus.Fields{"mesh": mi, "primitive": pi}).Warn("gltf: skip primitive")
				continue
			}
			if prim.Material != nil && *prim.Material < len(imp.materials) {
				m.Material = imp.materials[*prim.Material]
			}
			imp.meshes[mi] = append(imp.meshes[mi], m)
		}
	}
}

// primitive converts one triangle primitive. Missing normals point up;
// missing indices draw the vertices in order.
func (imp *gltfImport) primitive(meshName string, idx int, prim *gltf.Primitive) (*Mesh, error) {
	doc := imp.doc
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if a, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[a], nil)
	}
	var uvs [][2]float32
	if a, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[a], nil)
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		verts[i] = core.Vertex{Position: mgl32.Vec3(p), Normal: core.Up, Color: core.ColorWhite}
		if i < len(normals) {
			verts[i].Normal = mgl32.Vec3(normals[i])
		}
		if i < len(uvs) {
			verts[i].UV = mgl32.Vec2(uvs[i])
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	name := meshName
	if name == "" {
		name = "prim"
	}
	return CreateMeshFromData(fmt.Sprintf("%s_%d", name, idx), verts, indices), nil
}

func (imp *gltfImport) loadNodes() {
	doc := imp.doc
	imp.nodes = make([]*Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		n := NewNode(name)
		t, s, r := gn.TranslationOrDefault(), gn.ScaleOrDefault(), gn.RotationOrDefault()
		n.Transform = core.Transform{
			Position: mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
			Scale:    mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])},
			Rotation: mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}.Normalize(),
		}

		if gn.Mesh != nil && *gn.Mesh < len(imp.meshes) {
			prims := imp.meshes[*gn.Mesh]
			if len(prims) == 1 {
				n.Mesh = prims[0]
			} else {
				for pi, p := range prims {
					n.AddChild(NewMeshNode(fmt.Sprintf("%s_%d", name, pi), p))
				}
			}
		}
		imp.nodes[i] = n
	}

	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(imp.nodes) {
				imp.nodes[i].AddChild(imp.nodes[c])
			}
		}
	}
}

// roots returns the default scene's nodes, or every parentless node when the
// file names no scene.
func (imp *gltfImport) roots() []*Node {
	doc := imp.doc
	var out []*Node
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		for _, i := range doc.Scenes[*doc.Scene].Nodes {
			if i < len(imp.nodes) {
				out = append(out, imp.nodes[i])
			}
		}
		return out
	}
	for _, n := range imp.nodes {
		if n.Parent == nil {
			out = append(out, n)
		}
	}
	return out
}

// decodeImageBytes decodes a PNG or JPEG byte slice into a scene.Texture.
func decodeImageBytes(name string, data []byte) (*Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return NewTextureFromImage(name, img), nil
}
