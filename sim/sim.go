/*package sim simulates flocking agents over an approximate spatial
partition rebuilt every step.

Instead of an all-pairs neighbor search, each step constructs a binary
space partition of the population using only data-parallel passes: a
selector pass tags each agent with the side of a separating plane it
fell on, and a stride-doubling reduction folds per-agent partial sums
into centroid and mean-heading statistics for each partition. The leaf
statistics then drive a single parallel motion pass. All per-agent state
is flat and branch-free across agents, so every pass maps directly onto
a compute-device dispatch.
*/
package sim

import (
	"fmt"
	"math/bits"

	"golang.org/x/exp/rand"

	"github.com/grayfold/boidtree/compute"
)

// Config holds the simulation's construction parameters. The zero value
// is not usable; start from DefaultConfig.
type Config struct {
	// AgentCount is a hint: the population is rounded up to a multiple
	// of the engine's local group width.
	AgentCount int
	// TreeDepth is the partition tree depth D, giving up to 2^D leaf
	// groups.
	TreeDepth int
	// ScatterWidth is the half-width of the cube agents are scattered
	// in at reset.
	ScatterWidth float32
	// Seed drives the population reset.
	Seed uint64

	Speed          float32
	CohesionRadius float32
	SteerWeight    float32
	AlignWeight    float32
}

// DefaultConfig returns the documented defaults: 256 agents in a
// depth-3 tree inside a half-width-10 cube.
func DefaultConfig() Config {
	return Config{
		AgentCount:     256,
		TreeDepth:      3,
		ScatterWidth:   10,
		Speed:          0.04,
		CohesionRadius: 5,
		SteerWeight:    0.12,
		AlignWeight:    0.12,
	}
}

func (cfg *Config) check() error {
	if cfg.AgentCount < 1 {
		return fmt.Errorf("sim: agent count must be positive, got %d", cfg.AgentCount)
	}
	if cfg.TreeDepth < 1 {
		return fmt.Errorf("sim: tree depth must be positive, got %d", cfg.TreeDepth)
	}
	if cfg.TreeDepth > 31 {
		return fmt.Errorf("sim: tree depth %d does not fit a 32-bit partition mask",
			cfg.TreeDepth)
	}
	if cfg.ScatterWidth <= 0 {
		return fmt.Errorf("sim: scatter width must be positive, got %g", cfg.ScatterWidth)
	}
	return nil
}

// Simulation owns the agent population and the device buffers the
// per-step pipeline runs over. It is not safe for concurrent use.
type Simulation struct {
	eng *compute.Engine
	cfg Config

	depth  int
	nBoids int

	store  *Store                       // front: canonical population
	back   *compute.Buffer[Boid]        // write side of the motion pass
	acc    *compute.Buffer[Accumulator] // power-of-two reduction buffer
	groups *compute.Buffer[Group]       // compacted leaf groups

	accGroups  int
	boidGroups int

	leaves []Group
}

// New builds a simulation on the given engine and scatters the initial
// population. The engine is owned by the caller and must outlive the
// simulation.
func New(eng *compute.Engine, cfg Config) (*Simulation, error) {
	if eng == nil {
		return nil, fmt.Errorf("sim: nil compute engine")
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}

	w := eng.LocalWidth()
	nBoids := ((cfg.AgentCount + w - 1) / w) * w
	accLen := nextPow2(nBoids)

	store, err := newStore(nBoids)
	if err != nil {
		return nil, err
	}
	back, err := compute.NewBuffer[Boid](nBoids)
	if err != nil {
		return nil, err
	}
	acc, err := compute.NewBuffer[Accumulator](accLen)
	if err != nil {
		return nil, err
	}
	groups, err := compute.NewBuffer[Group](1 << uint(cfg.TreeDepth))
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		eng:        eng,
		cfg:        cfg,
		depth:      cfg.TreeDepth,
		nBoids:     nBoids,
		store:      store,
		back:       back,
		acc:        acc,
		groups:     groups,
		accGroups:  eng.GroupCount(accLen),
		boidGroups: nBoids / w,
		leaves:     make([]Group, 0, 1<<uint(cfg.TreeDepth)),
	}

	if err := s.Reset(cfg.Seed); err != nil {
		return nil, err
	}
	return s, nil
}

// AgentCount returns the actual population size after rounding the
// configured hint up to dispatch granularity.
func (s *Simulation) AgentCount() int { return s.nBoids }

// TreeDepth returns the partition tree depth.
func (s *Simulation) TreeDepth() int { return s.depth }

// Reset rescatters the population inside the configured cube with fresh
// unit headings and zeroed partition tags.
func (s *Simulation) Reset(seed uint64) error {
	rng := rand.New(rand.NewSource(seed))
	return s.store.upload(RandomBoids(rng, s.nBoids, s.cfg.ScatterWidth))
}

// Step advances the simulation once: build the partition tree, integrate
// motion against its leaves, and swap the double-buffered population.
// A failed dispatch aborts the whole step; device state is then assumed
// corrupted and the error is not retryable.
func (s *Simulation) Step() error {
	s.store.markStale()

	leaves, err := s.buildTree()
	if err != nil {
		return err
	}
	if err := s.integrate(leaves); err != nil {
		return err
	}

	s.store.dev, s.back = s.back, s.store.dev
	return nil
}

// Boids returns a host snapshot of the most recently computed agent
// states. The pull from device memory is lazy: performed on the first
// read after a step and cached until the next step.
func (s *Simulation) Boids() ([]Boid, error) {
	return s.store.Boids()
}

// LeafGroups returns the present leaf groups from the most recent step,
// for debug rendering of the partition. Valid until the next step.
func (s *Simulation) LeafGroups() []Group {
	return s.leaves
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << uint(bits.Len(uint(n-1)))
}
