package player

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"cyberwalk/config"
	"cyberwalk/core"
	"cyberwalk/scene"
)

const avatarColor = 0x00ff00

// NewAvatar builds the avatar group: a body cylinder matching the physics
// body and a head sphere. When cfg.Model names a glTF file its root nodes
// replace the primitives; a load failure keeps the primitives.
func NewAvatar(body config.PlayerConfig, cfg config.AvatarConfig, log logrus.FieldLogger) *scene.Node {
	group := scene.NewNode("avatar")

	if cfg.Model != "" {
		model, err := scene.LoadGLTF(cfg.Model, log)
		if err == nil && len(model.Roots) > 0 {
			holder := scene.NewNode("avatar_model")
			holder.SetScale(mgl32.Vec3{cfg.Scale, cfg.Scale, cfg.Scale})
			// Model origin sits at the feet; the group origin is the body centre.
			holder.SetPosition(mgl32.Vec3{0, -body.Height / 2, 0})
			for _, root := range model.Roots {
				holder.AddChild(root)
			}
			group.AddChild(holder)
			log.WithFields(logrus.Fields{"model": cfg.Model, "textures": len(model.Textures)}).Info("avatar model loaded")
			return group
		}
		if err == nil {
			log.WithField("model", cfg.Model).Warn("avatar model has no nodes, using primitives")
		} else {
			log.WithError(err).WithField("model", cfg.Model).Warn("avatar model failed to load, using primitives")
		}
	}

	mat := scene.NewMaterial("avatar", core.ColorHex(avatarColor))

	torso := scene.CreateCylinder(body.Radius, body.Height, 16)
	torso.Material = mat
	group.AddChild(scene.NewMeshNode("avatar_body", torso))

	headMesh := scene.CreateSphere(0.4, 16, 16)
	headMesh.Material = mat
	head := scene.NewMeshNode("avatar_head", headMesh)
	head.SetPosition(mgl32.Vec3{0, 1.2, 0})
	group.AddChild(head)

	return group
}
