package scene

import "github.com/go-gl/mathgl/mgl32"

// Plane represents a half-space: ax + by + cz + d = 0
// Normal (a, b, c) points into the "inside" of the frustum.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means on the "inside" (same side as Normal).
func (p Plane) DistanceTo(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromVP extracts the six frustum planes from a view-projection matrix
// (Gribb/Hartmann). The planes are normalized so DistanceTo returns a true
// distance in world units.
func FrustumFromVP(vp mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)

	var f Frustum
	f.Planes[0] = normalizePlane(r3.Add(r0))
	f.Planes[1] = normalizePlane(r3.Sub(r0))
	f.Planes[2] = normalizePlane(r3.Add(r1))
	f.Planes[3] = normalizePlane(r3.Sub(r1))
	f.Planes[4] = normalizePlane(r3.Add(r2))
	f.Planes[5] = normalizePlane(r3.Sub(r2))
	return f
}

func normalizePlane(v mgl32.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v.W() / l}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl32.Vec3
}

func (box AABB) Center() mgl32.Vec3 {
	return box.Min.Add(box.Max).Mul(0.5)
}

// IntersectsFrustum returns false if the AABB is completely outside the frustum.
// Uses the "p-vertex" test: the corner most aligned with each plane normal
// must be inside.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for i := 0; i < 6; i++ {
		p := f.Planes[i]
		var pv mgl32.Vec3
		for axis := 0; axis < 3; axis++ {
			if p.Normal[axis] < 0 {
				pv[axis] = box.Min[axis]
			} else {
				pv[axis] = box.Max[axis]
			}
		}
		if p.DistanceTo(pv) < 0 {
			return false
		}
	}
	return true
}

// ComputeAABB computes the world-space AABB for a mesh transformed by worldMatrix.
// If the mesh has a cached local AABB, it transforms the 8 corners (fast path).
// Otherwise it falls back to iterating all vertices.
func ComputeAABB(mesh *Mesh, worldMatrix mgl32.Mat4) AABB {
	if mesh.HasLocalAABB {
		return transformAABB(mesh.LocalAABB, worldMatrix)
	}
	if len(mesh.Vertices) == 0 {
		return AABB{}
	}
	points := make([]mgl32.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		points[i] = v.Position
	}
	return boundPoints(points, worldMatrix)
}

func transformAABB(local AABB, m mgl32.Mat4) AABB {
	mn, mx := local.Min, local.Max
	corners := []mgl32.Vec3{
		{mn[0], mn[1], mn[2]},
		{mx[0], mn[1], mn[2]},
		{mn[0], mx[1], mn[2]},
		{mx[0], mx[1], mn[2]},
		{mn[0], mn[1], mx[2]},
		{mx[0], mn[1], mx[2]},
		{mn[0], mx[1], mx[2]},
		{mx[0], mx[1], mx[2]},
	}
	return boundPoints(corners, m)
}

func boundPoints(points []mgl32.Vec3, m mgl32.Mat4) AABB {
	first := mgl32.TransformCoordinate(points[0], m)
	out := AABB{Min: first, Max: first}
	for _, p := range points[1:] {
		wp := mgl32.TransformCoordinate(p, m)
		for axis := 0; axis < 3; axis++ {
			if wp[axis] < out.Min[axis] {
				out.Min[axis] = wp[axis]
			}
			if wp[axis] > out.Max[axis] {
				out.Max[axis] = wp[axis]
			}
		}
	}
	return out
}
