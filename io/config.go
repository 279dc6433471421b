/*package io handles the simulation's configuration files and snapshot
output. The core simulation never touches the filesystem; everything
that does lives here.
*/
package io

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

const ExampleSimFile = `[Sim]

#######################
# Optional Parameters #
#######################

# Number of simulated agents. Rounded up to the dispatch granularity
# (a multiple of 16), so you may get slightly more than you ask for.
# AgentCount = 256

# Depth of the spatial partition tree. A depth of D yields up to 2^D
# neighbor groups per step. Must be positive.
# TreeDepth = 3

# Half-width of the cube the agents are scattered in at startup.
# ScatterWidth = 10

# Seed for the initial scatter. The same seed always produces the same
# trajectory.
# Seed = 0

# Distance each agent travels per step.
# Speed = 0.04

# Distance below which agents start turning toward their neighbor
# groups instead of circling them.
# CohesionRadius = 5

# Strength of the steering term.
# SteerWeight = 0.12

# Strength of the heading-alignment term.
# AlignWeight = 0.12

# Number of steps to run.
# Steps = 1000

# Number of worker threads. Default is the number of logical cores.
# Threads = 0

# Write the final agent state to this file in the .btree binary format.
# SnapshotFile = out/final.btree

# Output files which are useful for profiling and debugging. Generally,
# there isn't a reason to use these unless something goes wrong.
# ProfileFile = prof.out
# LogFile = log.out`

// SimConfig mirrors the [Sim] section of a config file. Zero values
// mean "use the default"; CheckInit fills defaults in and rejects
// anything nonsensical.
type SimConfig struct {
	AgentCount int
	TreeDepth  int

	ScatterWidth float64
	Seed         uint64

	Speed          float64
	CohesionRadius float64
	SteerWeight    float64
	AlignWeight    float64

	Steps   int
	Threads int

	SnapshotFile string
	ProfileFile  string
	LogFile      string
}

// SimWrapper is the top-level structure gcfg reads a config file into.
type SimWrapper struct {
	Sim SimConfig
}

// DefaultSimWrapper returns a wrapper preloaded with the documented
// defaults.
func DefaultSimWrapper() *SimWrapper {
	return &SimWrapper{
		Sim: SimConfig{
			AgentCount:     256,
			TreeDepth:      3,
			ScatterWidth:   10,
			Speed:          0.04,
			CohesionRadius: 5,
			SteerWeight:    0.12,
			AlignWeight:    0.12,
			Steps:          1000,
		},
	}
}

// ReadSimConfig reads and validates the [Sim] section of the named
// file on top of the defaults.
func ReadSimConfig(fname string) (*SimConfig, error) {
	wrap := DefaultSimWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	con := &wrap.Sim
	if err := con.CheckInit(); err != nil {
		return nil, err
	}
	return con, nil
}

// CheckInit validates a SimConfig. Invalid values are rejected with a
// descriptive error, never silently clamped.
func (con *SimConfig) CheckInit() error {
	if con.AgentCount <= 0 {
		return fmt.Errorf(
			"Need to specify a positive AgentCount, but got %d.", con.AgentCount,
		)
	}
	if con.TreeDepth <= 0 {
		return fmt.Errorf(
			"Need to specify a positive TreeDepth, but got %d.", con.TreeDepth,
		)
	} else if con.TreeDepth > 31 {
		return fmt.Errorf(
			"TreeDepth of %d does not fit a 32-bit partition mask.", con.TreeDepth,
		)
	}
	if con.ScatterWidth <= 0 {
		return fmt.Errorf(
			"Need to specify a positive ScatterWidth, but got %g.", con.ScatterWidth,
		)
	}
	if con.Steps < 0 {
		return fmt.Errorf("Steps must not be negative, but is %d.", con.Steps)
	}
	if con.Threads < 0 {
		return fmt.Errorf("Threads must not be negative, but is %d.", con.Threads)
	}
	return nil
}
