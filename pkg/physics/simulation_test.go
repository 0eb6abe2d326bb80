package physics_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/Dicklesworthstone/egograph/pkg/physics"
)

func pair() *physics.Simulation {
	nodes := []physics.Node{
		{ID: "a", Radius: 3},
		{ID: "b", Radius: 3},
	}
	return physics.New(nodes, []physics.Link{{Source: 0, Target: 1}}, physics.Options{LinkDistance: 40})
}

func run(s *physics.Simulation, limit int) int {
	ticks := 0
	for ticks < limit && s.Tick() {
		ticks++
	}
	return ticks
}

func TestSimulationCools(t *testing.T) {
	s := pair()
	ticks := run(s, 1000)

	assert.Less(t, ticks, 1000, "simulation should cool without an alpha target")
	assert.Greater(t, ticks, 100)
	assert.False(t, s.Running())
	assert.False(t, s.Tick())
}

func TestSimulationSeedsDeterministically(t *testing.T) {
	a, b := pair(), pair()
	run(a, 50)
	run(b, 50)
	assert.Equal(t, a.Node(0).Pos, b.Node(0).Pos)
	assert.Equal(t, a.Node(1).Pos, b.Node(1).Pos)
}

func TestSimulationSeparatesNodes(t *testing.T) {
	s := pair()
	run(s, 1000)

	d := r2.Norm(r2.Sub(s.Node(0).Pos, s.Node(1).Pos))
	assert.Greater(t, d, 6.0, "collision radius keeps nodes apart")
	assert.Less(t, d, 200.0, "link keeps nodes close")
}

func TestSimulationCentersLayout(t *testing.T) {
	s := pair()
	run(s, 1000)

	mid := r2.Scale(0.5, r2.Add(s.Node(0).Pos, s.Node(1).Pos))
	assert.InDelta(t, 0, mid.X, 1)
	assert.InDelta(t, 0, mid.Y, 1)
}

func TestSimulationPinnedNode(t *testing.T) {
	s := pair()
	pin := r2.Vec{X: 50, Y: -20}
	s.Node(0).Pin(pin)

	for i := 0; i < 20; i++ {
		s.Tick()
	}
	assert.Equal(t, pin, s.Node(0).Pos)
	assert.Equal(t, r2.Vec{}, s.Node(0).Vel)

	s.Node(0).Unpin()
	assert.Nil(t, s.Node(0).Fixed)
}

func TestSimulationAlphaTargetKeepsRunning(t *testing.T) {
	s := pair()
	run(s, 1000)
	require.False(t, s.Running())

	s.SetAlphaTarget(1)
	s.Restart()
	for i := 0; i < 2000; i++ {
		require.True(t, s.Tick())
	}
	assert.InDelta(t, 1, s.Alpha(), 0.01)

	s.SetAlphaTarget(0)
	assert.Less(t, run(s, 5000), 5000)
}

func TestSimulationStop(t *testing.T) {
	s := pair()
	calls := 0
	s.OnTick(func() { calls++ })

	s.Tick()
	s.Stop()
	assert.False(t, s.Tick())
	assert.Equal(t, 1, calls)

	s.Restart()
	assert.True(t, s.Tick())
	assert.Equal(t, 2, calls)
}

func TestSimulationIgnoresBadLinks(t *testing.T) {
	s := physics.New([]physics.Node{{ID: "a"}}, []physics.Link{{Source: 0, Target: 5}}, physics.Options{})
	assert.Empty(t, s.Links())
	run(s, 1000)
	assert.False(t, math.IsNaN(s.Node(0).Pos.X))
}

func TestSimulationRadial(t *testing.T) {
	nodes := make([]physics.Node, 6)
	for i := range nodes {
		nodes[i].Radius = 2
	}
	s := physics.New(nodes, nil, physics.Options{Radial: true, RadialRadius: 80})
	run(s, 1000)

	lo, hi := s.Bounds()
	assert.Greater(t, hi.X-lo.X, 40.0)
}
