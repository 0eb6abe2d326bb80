package viz

import (
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/Dicklesworthstone/egograph/pkg/anim"
	"github.com/Dicklesworthstone/egograph/pkg/gesture"
)

// dragState is the Dragging(node, anchor, start) state.
type dragState struct {
	node    *NodeState
	anchor  r2.Vec // physics position at drag start
	session *gesture.Drag
}

// Hovered returns the hovered node id, or "" when idle.
func (v *Visualization) Hovered() string { return v.hovered }

// Dragging reports whether a node is being dragged.
func (v *Visualization) Dragging() bool { return v.drag != nil }

// Transform returns the current pan/zoom transform.
func (v *Visualization) Transform() gesture.Transform { return v.zoom.Transform() }

// PointerMove handles pointer motion at screen point (sx, sy).
func (v *Visualization) PointerMove(sx, sy float64) {
	if v.tornDown {
		return
	}
	switch {
	case v.drag != nil:
		v.dragMove(sx, sy)
	case v.pan != nil:
		dx, dy := v.pan.Move(sx, sy)
		v.zoom.Pan(dx, dy)
	default:
		if c, ok := v.scene.HitTest(sx, sy); ok {
			v.hoverEnter(c.ID)
		} else {
			v.hoverLeave()
		}
	}
}

// PointerDown handles a primary button press at (sx, sy). Pressing a node
// starts a drag (or arms a click when dragging is disabled); pressing the
// background starts a pan when zoom is enabled.
func (v *Visualization) PointerDown(sx, sy float64) {
	if v.tornDown {
		return
	}
	c, hit := v.scene.HitTest(sx, sy)
	if !hit {
		if v.cfg.Zoom {
			v.pan = gesture.NewDrag(sx, sy, v.clock())
		}
		return
	}
	v.hoverEnter(c.ID)
	if !v.cfg.Drag {
		v.press = c.ID
		return
	}
	n, _ := v.store.Node(c.ID)
	v.dragStart(n, sx, sy)
}

// PointerUp handles a primary button release at (sx, sy).
func (v *Visualization) PointerUp(sx, sy float64) {
	if v.tornDown {
		return
	}
	switch {
	case v.drag != nil:
		v.dragEnd()
	case v.pan != nil:
		v.pan = nil
	case v.press != "":
		id := v.press
		v.press = ""
		if c, ok := v.scene.HitTest(sx, sy); ok && c.ID == id {
			v.follow(id)
		}
	}
}

// PointerLeave handles the pointer leaving the surface.
func (v *Visualization) PointerLeave() {
	if v.tornDown || v.drag != nil {
		return
	}
	v.pan = nil
	v.press = ""
	v.hoverLeave()
}

// Wheel zooms about (sx, sy). Positive delta zooms out.
func (v *Visualization) Wheel(delta, sx, sy float64) {
	if v.tornDown || !v.cfg.Zoom {
		return
	}
	v.zoom.Wheel(delta, sx, sy)
}

// ZoomBy multiplies the zoom scale about the viewport center.
func (v *Visualization) ZoomBy(factor float64) {
	if v.tornDown || !v.cfg.Zoom {
		return
	}
	v.zoom.ScaleBy(factor, v.width/2, v.height/2)
}

// ResetZoom returns to the initial transform.
func (v *Visualization) ResetZoom() {
	if !v.tornDown {
		v.zoom.Reset()
	}
}

// FitView zooms so the whole layout fits inside the viewport with padding
// screen units to spare, within the zoom limits.
func (v *Visualization) FitView(padding float64) {
	if v.tornDown || len(v.store.Nodes) == 0 {
		return
	}
	lo, hi := v.sim.Bounds()
	c := v.center()
	lo, hi = r2.Add(lo, c), r2.Add(hi, c)
	w, h := hi.X-lo.X, hi.Y-lo.Y
	availW, availH := v.width-2*padding, v.height-2*padding
	if w <= 0 || h <= 0 || availW <= 0 || availH <= 0 {
		return
	}
	k := math.Min(availW/w, availH/h)
	k = math.Max(gesture.MinScale, math.Min(gesture.MaxScale, k))
	mid := r2.Scale(0.5, r2.Add(lo, hi))
	v.zoom.Set(gesture.Transform{K: k, X: v.width/2 - mid.X*k, Y: v.height/2 - mid.Y*k})
}

func (v *Visualization) hoverEnter(id string) {
	if v.drag != nil || id == v.hovered {
		return
	}
	if v.hovered == "" {
		for _, n := range v.store.Nodes {
			n.restLabelAlpha = n.LabelAlpha
		}
	}
	v.hovered = id
	v.store.SetActive(id)
	v.animateHover()
}

func (v *Visualization) hoverLeave() {
	if v.drag != nil || v.hovered == "" {
		return
	}
	v.hovered = ""
	v.store.SetActive("")
	v.animateHover()
}

// animateHover starts the three tween batches toward the current hover state.
func (v *Visualization) animateHover() {
	now := v.clock()
	hovering := v.hovered != ""

	nodes := make([]anim.Target, 0, len(v.store.Nodes))
	for _, n := range v.store.Nodes {
		alpha := 1.0
		if hovering && v.cfg.FocusOnHover && !n.Active {
			alpha = dimAlpha
		}
		nodes = append(nodes, anim.Target{Value: &n.Alpha, To: alpha})
	}
	v.anims.Animate(anim.NodeFill, nodes, nodeDuration, now)

	links := make([]anim.Target, 0, 2*len(v.store.Links))
	for _, l := range v.store.Links {
		alpha, highlight := 1.0, 0.0
		if hovering && !l.Active {
			alpha = dimAlpha
		}
		if l.Active {
			highlight = 1
		}
		links = append(links,
			anim.Target{Value: &l.Alpha, To: alpha},
			anim.Target{Value: &l.Highlight, To: highlight})
	}
	v.anims.Animate(anim.Link, links, linkDuration, now)

	v.animateLabels(now)
}

// animateLabels tweens every label toward its hover or rest state. Restarting
// it from the current values keeps labels already at their target still.
func (v *Visualization) animateLabels(now time.Time) {
	labels := make([]anim.Target, 0, 2*len(v.store.Nodes))
	for _, n := range v.store.Nodes {
		alpha, scale := n.restLabelAlpha, v.defaultLabelScale()
		if n.Node.ID == v.hovered {
			alpha, scale = 1, hoverScale/v.cfg.Scale
		}
		labels = append(labels,
			anim.Target{Value: &n.LabelAlpha, To: clamp01(alpha)},
			anim.Target{Value: &n.LabelScale, To: scale})
	}
	v.anims.Animate(anim.Label, labels, labelDuration, now)
}

func (v *Visualization) dragStart(n *NodeState, sx, sy float64) {
	sn := v.sim.Node(n.Index)
	v.drag = &dragState{
		node:    n,
		anchor:  sn.Pos,
		session: gesture.NewDrag(sx, sy, v.clock()),
	}
	sn.Pin(sn.Pos)
	v.sim.SetAlphaTarget(1)
	v.sim.Restart()
}

// dragMove pins the node at its anchor plus the pointer travel converted to
// world units, so it tracks the cursor at any zoom level.
func (v *Visualization) dragMove(sx, sy float64) {
	d := v.drag
	d.session.Move(sx, sy)
	t := v.zoom.Transform()
	wx, wy := t.Invert(sx, sy)
	ox, oy := t.Invert(d.session.StartX, d.session.StartY)
	v.sim.Node(d.node.Index).Pin(r2.Add(d.anchor, r2.Vec{X: wx - ox, Y: wy - oy}))
}

func (v *Visualization) dragEnd() {
	d := v.drag
	v.drag = nil
	v.sim.SetAlphaTarget(0)
	v.sim.Node(d.node.Index).Unpin()

	elapsed := d.session.Elapsed(v.clock())
	v.logger.Debug("drag end",
		zap.String("node", d.node.Node.ID),
		zap.Duration("elapsed", elapsed),
		zap.Float64("displacement", d.session.Displacement()))
	if elapsed < ClickThreshold {
		v.follow(d.node.Node.ID)
	}
}

// follow navigates to id.
func (v *Visualization) follow(id string) {
	url := v.Resolve(id)
	v.logger.Info("navigate", zap.String("node", id), zap.String("url", url))
	if v.navigate != nil {
		v.navigate(id, url)
	}
}

// onZoom applies a new transform to the scene root and refreshes the
// zoom-driven opacity of every label outside the hovered neighborhood.
func (v *Visualization) onZoom(t gesture.Transform) {
	v.scene.Transform = t
	alpha := v.zoomLabelAlpha(t.K)
	for _, n := range v.store.Nodes {
		n.restLabelAlpha = alpha
		if !n.Active {
			n.LabelAlpha = alpha
		}
	}
	if v.anims.Active(anim.Label) {
		v.animateLabels(v.clock())
	}
}

// zoomLabelAlpha fades labels in as the scale grows past 1/OpacityScale.
func (v *Visualization) zoomLabelAlpha(k float64) float64 {
	return clamp01(math.Max((k*v.cfg.OpacityScale-1)/zoomFadeRange, 0))
}

func (v *Visualization) defaultLabelScale() float64 {
	return 1 / v.cfg.Scale
}
