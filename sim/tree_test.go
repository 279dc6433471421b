package sim

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayfold/boidtree/geom"
)

func TestTreeLeafCountsConserveAgents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AgentCount = 64
	cfg.TreeDepth = 3
	cfg.Seed = 7
	s := testSim(t, cfg)

	leaves, err := s.buildTree()
	require.NoError(t, err)

	var total uint32
	for _, g := range leaves {
		assert.NotZero(t, g.Count, "present leaves have members")
		total += g.Count
	}
	assert.LessOrEqual(t, total, uint32(s.AgentCount()))
	assert.Equal(t, uint32(s.AgentCount()), total,
		"no agent is lost to pruning: an absent node never held any")
}

func TestTreeTagsMatchLeafCounts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AgentCount = 128
	cfg.TreeDepth = 3
	cfg.Seed = 11
	s := testSim(t, cfg)

	leaves, err := s.buildTree()
	require.NoError(t, err)

	dev := s.store.dev.Data()
	hist := map[uint32]uint32{}
	for i := range dev {
		assert.Equal(t, uint32(s.depth), dev[i].Level,
			"every agent walks to full depth")
		hist[dev[i].Mask]++
	}

	assert.Equal(t, len(leaves), len(hist),
		"one present leaf per occupied mask")

	want := make([]int, 0, len(hist))
	for _, c := range hist {
		want = append(want, int(c))
	}
	got := make([]int, 0, len(leaves))
	for _, g := range leaves {
		got = append(got, int(g.Count))
	}
	sort.Ints(want)
	sort.Ints(got)
	assert.Equal(t, want, got, "leaf sizes match the tag histogram")
}

func TestTreeAbsentParentYieldsAbsentChildren(t *testing.T) {
	// Identical agents all tie-break to the right side of every split,
	// leaving the left subtree absent at every level. Absent parents must
	// propagate absence without ever being dereferenced or dispatched.
	cfg := DefaultConfig()
	cfg.AgentCount = 16
	cfg.TreeDepth = 2
	s := testSim(t, cfg)

	boids := make([]Boid, 16)
	for i := range boids {
		boids[i] = Boid{Pos: geom.Vec{1, 2, 3}, Heading: geom.Vec{0, 1, 0}}
	}
	setPopulation(t, s, boids)

	leaves, err := s.buildTree()
	require.NoError(t, err)

	require.Len(t, leaves, 1, "only the all-right leaf survives")
	assert.Equal(t, uint32(16), leaves[0].Count)
	assert.Equal(t, geom.Vec{1, 2, 3}, leaves[0].Center)

	dev := s.store.dev.Data()
	for i := range dev {
		assert.Equal(t, uint32(2), dev[i].Level)
		assert.Equal(t, uint32(0), dev[i].Mask, "all splits went right")
	}
}

func TestTreeMasksFollowSplitPath(t *testing.T) {
	// Three occupied leaves in an asymmetric tree: one cluster ties at
	// its level-1 split and another sits alone on the right of the root.
	// Each agent's mask must accumulate along its own split path, and a
	// leaf must survive even when its sibling slot is absent.
	cfg := DefaultConfig()
	cfg.AgentCount = 16
	cfg.TreeDepth = 2
	s := testSim(t, cfg)

	// Clusters at x = -12, 2, 6, 10, four agents each. The root plane
	// sits at x = 1.5 and the left child's at x = 6, so the x = 6
	// cluster tie-breaks right while x = 10 splits off left.
	xs := []float32{-12, 2, 6, 10}
	boids := make([]Boid, 16)
	for i := range boids {
		boids[i] = Boid{Pos: geom.Vec{xs[i/4], 0, 0}, Heading: headingDownZ}
	}
	setPopulation(t, s, boids)

	leaves, err := s.buildTree()
	require.NoError(t, err)

	require.Len(t, leaves, 3)
	counts := []uint32{leaves[0].Count, leaves[1].Count, leaves[2].Count}
	assert.Equal(t, []uint32{4, 8, 4}, counts,
		"left subtree's children first, then the lone right leaf")

	wantMask := map[float32]uint32{-12: 0, 2: 1, 6: 1, 10: 3}
	dev := s.store.dev.Data()
	for i := range dev {
		assert.Equal(t, uint32(2), dev[i].Level, "agent %d level", i)
		assert.Equal(t, wantMask[dev[i].Pos[0]], dev[i].Mask, "agent %d mask", i)
	}
}

func TestTreeRootGroupIsPopulationMean(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AgentCount = 16
	cfg.TreeDepth = 1
	s := testSim(t, cfg)

	boids := make([]Boid, 16)
	for i := range boids {
		boids[i] = Boid{
			Pos:     geom.Vec{float32(i), 0, 0},
			Heading: geom.Vec{0, 0, -1},
		}
	}
	setPopulation(t, s, boids)

	require.NoError(t, s.seed())
	agg, err := s.reduce()
	require.NoError(t, err)

	root := groupOf(&agg.Left)
	require.NotNil(t, root)
	assert.Equal(t, uint32(16), root.Count)
	assert.Equal(t, float32(7.5), root.Center[0], "mean of 0..15")
	assert.Equal(t, geom.Vec{0, 0, -1}, root.Heading)

	assert.Nil(t, groupOf(&agg.Right), "seeding only fills the left half")
}
