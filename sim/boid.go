package sim

import (
	"golang.org/x/exp/rand"

	"github.com/grayfold/boidtree/geom"
)

// Boid is one simulated flocking agent. Level and Mask form the
// partition tag: bit i of Mask records which side of the level-i
// separating plane the agent fell on, and Level counts how many bits
// are valid. The tag replaces a pointer-based tree path with a
// fixed-width integer so per-agent state stays flat and indexable.
type Boid struct {
	Pos     geom.Vec
	Heading geom.Vec
	Level   uint32
	Mask    uint32
}

// AccumulatorHalf is a partial sum over the agents assigned to one side
// of a split.
type AccumulatorHalf struct {
	Pos     geom.Vec
	Heading geom.Vec
	Count   uint32
}

// Accumulator is one slot of the reduction buffer. The selector seeds
// at most one half per agent; the reducer folds both halves
// independently, so one reduction pass yields both children of a split.
type Accumulator struct {
	Left, Right AccumulatorHalf
}

// Group is the derived statistic for one partition-tree node: the
// centroid and mean heading of its member agents. The heading is the
// raw mean and is not unit length.
type Group struct {
	Center  geom.Vec
	Heading geom.Vec
	Count   uint32
}

// add folds src into h componentwise.
func (h *AccumulatorHalf) add(src *AccumulatorHalf) {
	h.Pos.AddSelf(&src.Pos)
	h.Heading.AddSelf(&src.Heading)
	h.Count += src.Count
}

// groupOf derives a Group from a reduced accumulator half, or nil if no
// agent occupies that partition.
func groupOf(h *AccumulatorHalf) *Group {
	if h.Count == 0 {
		return nil
	}
	inv := 1 / float32(h.Count)
	g := &Group{Center: h.Pos, Heading: h.Heading, Count: h.Count}
	g.Center.ScaleSelf(inv)
	g.Heading.ScaleSelf(inv)
	return g
}

// RandomBoids scatters n agents uniformly inside a cube of the given
// half-width, with uniformly random unit headings and zeroed partition
// tags. Headings are drawn by rejection sampling inside the unit ball
// so the directions are unbiased.
func RandomBoids(rng *rand.Rand, n int, scatter float32) []Boid {
	boids := make([]Boid, n)
	for i := range boids {
		b := &boids[i]
		for d := 0; d < 3; d++ {
			b.Pos[d] = scatter * (2*float32(rng.Float64()) - 1)
		}
		for {
			for d := 0; d < 3; d++ {
				b.Heading[d] = 2*float32(rng.Float64()) - 1
			}
			n2 := b.Heading.Dot(&b.Heading)
			if n2 > 1e-4 && n2 <= 1 {
				b.Heading.NormalizeSelf()
				break
			}
		}
	}
	return boids
}
