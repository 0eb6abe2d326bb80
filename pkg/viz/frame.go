package viz

import "fmt"

// Step runs one frame: node and label positions follow the physics, links
// are redrawn between their endpoints, animations advance, and the scene is
// drawn. Each phase reads what the previous one wrote. After Teardown, Step
// does nothing and returns ErrTornDown.
func (v *Visualization) Step() error {
	if v.tornDown {
		return ErrTornDown
	}

	for _, n := range v.store.Nodes {
		p := v.worldPos(n.Index)
		n.circle.X, n.circle.Y = p.X, p.Y
		n.label.X, n.label.Y = p.X, p.Y-n.Radius-labelOffset
	}

	for _, l := range v.store.Links {
		src, dst := v.store.Nodes[l.Source].circle, v.store.Nodes[l.Target].circle
		l.line.X1, l.line.Y1 = src.X, src.Y
		l.line.X2, l.line.Y2 = dst.X, dst.Y
	}

	v.anims.Advance(v.clock())
	v.syncVisuals()

	if err := v.surface.Draw(v.scene); err != nil {
		return fmt.Errorf("draw frame %d: %w", v.frames, err)
	}
	v.frames++
	return nil
}

// syncVisuals copies the tweened view state onto the drawables.
func (v *Visualization) syncVisuals() {
	for _, l := range v.store.Links {
		l.line.Alpha = clamp01(l.Alpha)
		l.line.Color = v.store.LinkColor(l)
	}
	for _, n := range v.store.Nodes {
		n.circle.Alpha = clamp01(n.Alpha)
		n.circle.Fill = n.Color
		n.label.Alpha = clamp01(n.LabelAlpha)
		n.label.Scale = n.LabelScale
	}
}
