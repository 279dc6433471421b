package sim

import (
	"github.com/grayfold/boidtree/geom"
)

// selectPartition splits the partition tagged (level, mask) against its
// parent's separating plane. One branch-free pass over every agent:
// each invocation unconditionally zeroes its accumulator slot, and only
// agents whose tag matches the target extend their tag by one bit and
// seed the half for the side they fell on. Cost is O(N) per split no
// matter how few agents match; that is the price of keeping the pass
// fully data-parallel.
//
// The plane passes through the parent's centroid with a normal
// orthogonal to the parent's mean heading. An agent exactly on the
// plane goes to the right side.
func (s *Simulation) selectPartition(level, mask uint32, parent *Group) error {
	planePos := parent.Center
	normal := geom.PlaneNormal(&parent.Heading)

	boids := s.store.dev.Data()
	acc := s.acc.Data()

	return s.eng.Dispatch(s.accGroups, func(i int) {
		acc[i] = Accumulator{}
		if i >= len(boids) {
			return
		}
		b := &boids[i]
		if b.Level != level || b.Mask != mask {
			return
		}

		diff := geom.Vec{}
		b.Pos.SubAt(&planePos, &diff)
		side := diff.Dot(&normal) > 0

		b.Level = level + 1
		half := AccumulatorHalf{Pos: b.Pos, Heading: b.Heading, Count: 1}
		if side {
			b.Mask = mask | 1<<level
			acc[i].Left = half
		} else {
			acc[i].Right = half
		}
	})
}
