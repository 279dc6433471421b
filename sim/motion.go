package sim

import (
	"github.com/grayfold/boidtree/geom"
)

// integrate updates every agent's heading and position from the present
// leaf groups in one parallel pass. The pass reads the front agent
// buffer and writes the back buffer; the caller swaps them afterward, so
// no invocation can observe a partially updated neighbor.
func (s *Simulation) integrate(leaves []Group) error {
	if err := s.groups.Write(leaves); err != nil {
		return err
	}
	groups := s.groups.Data()[:len(leaves)]

	in := s.store.dev.Data()
	out := s.back.Data()
	speed := s.cfg.Speed
	radius := s.cfg.CohesionRadius
	steer := s.cfg.SteerWeight
	align := s.cfg.AlignWeight

	return s.eng.Dispatch(s.boidGroups, func(i int) {
		b := in[i]

		if len(groups) > 0 {
			var dirSum, headSum geom.Vec
			var distSum float32
			off, unit := geom.Vec{}, geom.Vec{}

			for gi := range groups {
				g := &groups[gi]
				g.Center.SubAt(&b.Pos, &off)
				distSum += off.Norm()
				off.NormalizedAt(&unit)
				dirSum.AddSelf(&unit)
				g.Heading.NormalizedAt(&unit)
				headSum.AddSelf(&unit)
			}

			inv := 1 / float32(len(groups))
			dirSum.ScaleSelf(inv)
			headSum.ScaleSelf(inv)
			meanDist := distSum * inv

			strength := clamp(radius-meanDist, 0, 1)

			// Steer along the heading's cross with the mean offset
			// direction while far away, bending toward the offset
			// direction itself as the flock closes in.
			crossv, blend := geom.Vec{}, geom.Vec{}
			b.Heading.CrossAt(&dirSum, &crossv)
			crossv.LerpAt(&dirSum, strength, &blend)

			next := b.Heading
			next.AddScaledSelf(&blend, steer)
			next.AddScaledSelf(&headSum, align)
			next.NormalizeSelf()

			// Contributions can cancel exactly, leaving nothing to
			// normalize. Keep the previous heading rather than letting a
			// NaN spread through the flock.
			if next.IsFinite() {
				b.Heading = next
			}
		}

		b.Pos.AddScaledSelf(&b.Heading, speed)
		out[i] = b
	})
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
