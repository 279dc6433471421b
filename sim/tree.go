package sim

// The tree builder runs the per-step state machine
// Root -> Level(0) -> ... -> Level(D-1) -> Done. The root transition
// seeds every agent into its own accumulator slot and reduces once; each
// level transition splits every present node of the previous level with
// the selector and reduces again. Nodes accumulate in complete-binary-
// tree array order, but the array position of a node is independent of
// its tag mask (absent siblings shift nothing; append order does not
// follow mask order), so every node carries its own mask.

// seed resets every agent's partition tag and loads its state into the
// left half of its accumulator slot. Padding slots past the population
// are zeroed so the reduction sees exact sums.
func (s *Simulation) seed() error {
	boids := s.store.dev.Data()
	acc := s.acc.Data()

	return s.eng.Dispatch(s.accGroups, func(i int) {
		if i >= len(boids) {
			acc[i] = Accumulator{}
			return
		}
		b := &boids[i]
		b.Level, b.Mask = 0, 0
		acc[i] = Accumulator{
			Left: AccumulatorHalf{Pos: b.Pos, Heading: b.Heading, Count: 1},
		}
	})
}

// buildTree constructs this step's partition tree and returns the
// present leaf groups, compacted. The returned slice is scratch owned by
// the simulation and is valid until the next step.
func (s *Simulation) buildTree() ([]Group, error) {
	if err := s.seed(); err != nil {
		return nil, err
	}
	agg, err := s.reduce()
	if err != nil {
		return nil, err
	}

	nodes := make([]treeNode, 1, 1<<(s.depth+1))
	nodes[0] = treeNode{group: groupOf(&agg.Left)}

	total := 0
	for level := 0; level < s.depth; level++ {
		for levelEnd := len(nodes); total < levelEnd; total++ {
			parent := nodes[total]
			if parent.group == nil {
				// Nothing to split; both children stay absent and no
				// dispatch goes out.
				nodes = append(nodes, treeNode{}, treeNode{})
				continue
			}

			if err := s.selectPartition(uint32(level), parent.mask, parent.group); err != nil {
				return nil, err
			}
			agg, err := s.reduce()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes,
				treeNode{group: groupOf(&agg.Left), mask: parent.mask | 1<<uint(level)},
				treeNode{group: groupOf(&agg.Right), mask: parent.mask},
			)
		}
	}

	leafStart := (1 << uint(s.depth)) - 1
	s.leaves = s.leaves[:0]
	for _, nd := range nodes[leafStart:] {
		if nd.group != nil {
			s.leaves = append(s.leaves, *nd.group)
		}
	}
	return s.leaves, nil
}

// treeNode is one slot of the flattened tree under construction. The
// mask is the node's full tag mask, accumulated along its split path.
type treeNode struct {
	group *Group
	mask  uint32
}
