package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/grayfold/boidtree/compute"
	btio "github.com/grayfold/boidtree/io"
	"github.com/grayfold/boidtree/sim"
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	var (
		configStr     string
		exampleConfig bool
		steps         int
		threads       int
	)

	flag.StringVar(
		&configStr, "Config", "",
		"Configuration file with a [Sim] section. Run with -ExampleConfig "+
			"for a documented example.",
	)
	flag.BoolVar(
		&exampleConfig, "ExampleConfig", false,
		"Prints an example configuration file to stdout.",
	)
	flag.IntVar(
		&steps, "Steps", 0,
		"Number of steps to run. Overrides the config file when positive.",
	)
	flag.IntVar(
		&threads, "Threads", 0,
		"Number of threads used. Overrides the config file when positive. "+
			"Default is the number of logical cores.",
	)

	flag.Parse()

	if exampleConfig {
		fmt.Println(btio.ExampleSimFile)
		return
	}

	con := &btio.DefaultSimWrapper().Sim
	if configStr != "" {
		var err error
		con, err = btio.ReadSimConfig(configStr)
		if err != nil {
			log.Fatal(err.Error())
		}
	}
	if steps > 0 {
		con.Steps = steps
	}
	if threads > 0 {
		con.Threads = threads
	}
	if con.Threads == 0 {
		con.Threads = runtime.NumCPU()
	}

	fg := &FileGroup{}
	defer fg.Close()

	if con.LogFile != "" {
		f, err := os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(f)
		fg.log = f
	}
	if con.ProfileFile != "" {
		f, err := os.Create(con.ProfileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		if err = pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err.Error())
		}
		fg.prof = f
	}

	run(con)
}

func run(con *btio.SimConfig) {
	eng, err := compute.NewEngine(compute.DefaultLocalWidth, con.Threads)
	if err != nil {
		log.Fatal(err.Error())
	}

	s, err := sim.New(eng, sim.Config{
		AgentCount:     con.AgentCount,
		TreeDepth:      con.TreeDepth,
		ScatterWidth:   float32(con.ScatterWidth),
		Seed:           con.Seed,
		Speed:          float32(con.Speed),
		CohesionRadius: float32(con.CohesionRadius),
		SteerWeight:    float32(con.SteerWeight),
		AlignWeight:    float32(con.AlignWeight),
	})
	if err != nil {
		log.Fatal(err.Error())
	}

	log.Printf(
		"Running %d agents at tree depth %d for %d steps on %d threads.",
		s.AgentCount(), s.TreeDepth(), con.Steps, con.Threads,
	)

	start := time.Now()
	for step := 0; step < con.Steps; step++ {
		if err := s.Step(); err != nil {
			log.Fatalf("Step %d failed: %s", step, err.Error())
		}
		if (step+1)%100 == 0 {
			elapsed := time.Since(start)
			log.Printf(
				"Step %d: %d groups, %.3f ms/step.",
				step+1, len(s.LeafGroups()),
				elapsed.Seconds()*1000/float64(step+1),
			)
		}
	}
	log.Printf("Finished %d steps in %v.", con.Steps, time.Since(start))

	if con.SnapshotFile != "" {
		boids, err := s.Boids()
		if err != nil {
			log.Fatal(err.Error())
		}
		f, err := os.Create(con.SnapshotFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		defer f.Close()
		if err := btio.WriteSnapshot(f, con.Steps, s.TreeDepth(), boids); err != nil {
			log.Fatal(err.Error())
		}
		log.Printf("Wrote snapshot to %s.", con.SnapshotFile)
	}
}
