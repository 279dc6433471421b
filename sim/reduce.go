package sim

import (
	"github.com/grayfold/boidtree/compute"
)

// reduceAccumulators folds every slot of buf into slot 0 and returns the
// aggregate. The fold runs as log2(n) dispatch passes with doubling
// stride; pass k adds slot i*stride+stride/2 into slot i*stride for both
// halves independently. Each Dispatch call is a full barrier, which the
// passes depend on: pass k+1 reads sums pass k wrote.
//
// The buffer length must be a power of two; slots past the live agent
// count are zeroed by the seeding kernel, so padding cannot perturb the
// sums. A non-power-of-two length is a caller contract violation and
// produces undefined sums.
func reduceAccumulators(eng *compute.Engine, buf *compute.Buffer[Accumulator]) (Accumulator, error) {
	n := buf.Len()
	acc := buf.Data()
	groups := eng.GroupCount(n)

	for stride := 2; stride <= n; stride <<= 1 {
		half, st := stride/2, stride
		err := eng.Dispatch(groups, func(i int) {
			dst := i * st
			if dst+half >= n {
				return
			}
			acc[dst].Left.add(&acc[dst+half].Left)
			acc[dst].Right.add(&acc[dst+half].Right)
		})
		if err != nil {
			return Accumulator{}, err
		}
	}

	out := [1]Accumulator{}
	if err := buf.Read(out[:]); err != nil {
		return Accumulator{}, err
	}
	return out[0], nil
}

func (s *Simulation) reduce() (Accumulator, error) {
	return reduceAccumulators(s.eng, s.acc)
}
