package sim

import (
	"github.com/grayfold/boidtree/compute"
)

// Store owns the canonical agent population. The device buffer is the
// authoritative copy during a step; the host slice is a snapshot that
// goes stale as soon as a step dispatches and is refreshed lazily, once,
// on the next read.
type Store struct {
	dev   *compute.Buffer[Boid]
	host  []Boid
	dirty bool
}

func newStore(n int) (*Store, error) {
	dev, err := compute.NewBuffer[Boid](n)
	if err != nil {
		return nil, err
	}
	return &Store{dev: dev, host: make([]Boid, n)}, nil
}

// Boids returns a host snapshot of the population, pulling it back from
// device memory only if a step has run since the last read. The slice is
// owned by the store; callers must not retain it across steps.
func (st *Store) Boids() ([]Boid, error) {
	if st.dirty {
		if err := st.dev.Read(st.host); err != nil {
			return nil, err
		}
		st.dirty = false
	}
	return st.host, nil
}

// markStale invalidates the host snapshot. Called when a step's first
// dispatch goes out.
func (st *Store) markStale() { st.dirty = true }

// upload replaces the population on both sides.
func (st *Store) upload(boids []Boid) error {
	copy(st.host, boids)
	st.dirty = false
	return st.dev.Write(st.host)
}
