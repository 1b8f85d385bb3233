package player

import "cyberwalk/scene"

// Sync projects the physics body onto the avatar node. Data only flows from
// the body to the node.
func (c *Controller) Sync(node *scene.Node) {
	node.SetPosition(c.Body.Position)
	node.SetRotation(c.Orientation())
}
