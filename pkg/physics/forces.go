package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// applyLinks pulls linked nodes toward LinkDistance (Hooke's law), biased so
// the better-connected endpoint moves less.
func (s *Simulation) applyLinks() {
	for i, l := range s.links {
		src, dst := &s.nodes[l.Source], &s.nodes[l.Target]
		if src == dst {
			continue
		}

		d := r2.Sub(r2.Add(dst.Pos, dst.Vel), r2.Add(src.Pos, src.Vel))
		if d.X == 0 {
			d.X = s.jiggle()
		}
		if d.Y == 0 {
			d.Y = s.jiggle()
		}
		dist := r2.Norm(d)
		k := (dist - s.opts.LinkDistance) / dist * s.alpha * s.linkStrength[i]
		d = r2.Scale(k, d)

		bias := s.linkBias[i]
		dst.Vel = r2.Sub(dst.Vel, r2.Scale(bias, d))
		src.Vel = r2.Add(src.Vel, r2.Scale(1-bias, d))
	}
}

// applyManyBody repels every pair of nodes (Coulomb's law, all pairs).
func (s *Simulation) applyManyBody() {
	strength := -100 * s.opts.RepelForce
	for i := range s.nodes {
		for j := range s.nodes {
			if i == j {
				continue
			}
			d := r2.Sub(s.nodes[j].Pos, s.nodes[i].Pos)
			if d.X == 0 {
				d.X = s.jiggle()
			}
			if d.Y == 0 {
				d.Y = s.jiggle()
			}
			dist2 := r2.Norm2(d)
			if dist2 < 1 {
				dist2 = math.Sqrt(dist2)
			}
			w := strength * s.alpha / dist2
			s.nodes[i].Vel = r2.Add(s.nodes[i].Vel, r2.Scale(w, d))
		}
	}
}

// applyCenter shifts positions so the centroid moves toward the origin.
func (s *Simulation) applyCenter() {
	if len(s.nodes) == 0 {
		return
	}
	var sum r2.Vec
	for _, n := range s.nodes {
		sum = r2.Add(sum, n.Pos)
	}
	shift := r2.Scale(s.opts.CenterForce/float64(len(s.nodes)), sum)
	for i := range s.nodes {
		s.nodes[i].Pos = r2.Sub(s.nodes[i].Pos, shift)
	}
}

// applyCollide pushes overlapping nodes apart, lighter nodes moving more.
func (s *Simulation) applyCollide() {
	for i := range s.nodes {
		a := &s.nodes[i]
		for j := i + 1; j < len(s.nodes); j++ {
			b := &s.nodes[j]
			r := a.Radius + b.Radius
			if r <= 0 {
				continue
			}
			d := r2.Sub(r2.Add(a.Pos, a.Vel), r2.Add(b.Pos, b.Vel))
			dist2 := r2.Norm2(d)
			if dist2 >= r*r {
				continue
			}
			if d.X == 0 {
				d.X = s.jiggle()
				dist2 += d.X * d.X
			}
			if d.Y == 0 {
				d.Y = s.jiggle()
				dist2 += d.Y * d.Y
			}
			dist := math.Sqrt(dist2)
			k := (r - dist) / dist
			d = r2.Scale(k, d)

			ra2, rb2 := a.Radius*a.Radius, b.Radius*b.Radius
			share := rb2 / (ra2 + rb2)
			a.Vel = r2.Add(a.Vel, r2.Scale(share, d))
			b.Vel = r2.Sub(b.Vel, r2.Scale(1-share, d))
		}
	}
}

// applyRadial pulls nodes toward a ring around the origin.
func (s *Simulation) applyRadial() {
	for i := range s.nodes {
		n := &s.nodes[i]
		d := n.Pos
		if d.X == 0 {
			d.X = s.jiggle()
		}
		if d.Y == 0 {
			d.Y = s.jiggle()
		}
		r := r2.Norm(d)
		k := (s.opts.RadialRadius - r) * radialPull * s.alpha / r
		n.Vel = r2.Add(n.Vel, r2.Scale(k, d))
	}
}

// Bounds returns the bounding box of all nodes including their radius.
func (s *Simulation) Bounds() (lo, hi r2.Vec) {
	if len(s.nodes) == 0 {
		return r2.Vec{}, r2.Vec{}
	}
	lo = r2.Vec{X: math.MaxFloat64, Y: math.MaxFloat64}
	hi = r2.Vec{X: -math.MaxFloat64, Y: -math.MaxFloat64}
	for _, n := range s.nodes {
		lo.X = math.Min(lo.X, n.Pos.X-n.Radius)
		lo.Y = math.Min(lo.Y, n.Pos.Y-n.Radius)
		hi.X = math.Max(hi.X, n.Pos.X+n.Radius)
		hi.Y = math.Max(hi.Y, n.Pos.Y+n.Radius)
	}
	return lo, hi
}
