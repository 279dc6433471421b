package io

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayfold/boidtree/geom"
	"github.com/grayfold/boidtree/sim"
)

func writeConfig(t *testing.T, text string) string {
	fname := filepath.Join(t.TempDir(), "sim.config")
	require.NoError(t, os.WriteFile(fname, []byte(text), 0644))
	return fname
}

func TestReadSimConfigDefaults(t *testing.T) {
	con, err := ReadSimConfig(writeConfig(t, "[Sim]\n"))
	require.NoError(t, err)

	def := DefaultSimWrapper().Sim
	assert.Equal(t, &def, con)
}

func TestReadSimConfigOverrides(t *testing.T) {
	con, err := ReadSimConfig(writeConfig(t, `[Sim]
AgentCount = 64
TreeDepth = 2
Speed = 0.1
Seed = 9
LogFile = run.log
`))
	require.NoError(t, err)

	assert.Equal(t, 64, con.AgentCount)
	assert.Equal(t, 2, con.TreeDepth)
	assert.Equal(t, 0.1, con.Speed)
	assert.Equal(t, uint64(9), con.Seed)
	assert.Equal(t, "run.log", con.LogFile)
	assert.Equal(t, 5.0, con.CohesionRadius, "untouched fields keep defaults")
}

func TestReadSimConfigRejectsBadValues(t *testing.T) {
	bad := []string{
		"[Sim]\nAgentCount = -1\n",
		"[Sim]\nTreeDepth = 0\n",
		"[Sim]\nTreeDepth = 40\n",
		"[Sim]\nScatterWidth = -3\n",
		"[Sim]\nSteps = -5\n",
		"[Sim]\nThreads = -2\n",
	}
	for _, text := range bad {
		_, err := ReadSimConfig(writeConfig(t, text))
		assert.Error(t, err, "config %q", text)
	}
}

func TestExampleSimFileParses(t *testing.T) {
	con, err := ReadSimConfig(writeConfig(t, ExampleSimFile))
	require.NoError(t, err)
	require.NoError(t, con.CheckInit())
}

func TestSnapshotRoundTrip(t *testing.T) {
	boids := []sim.Boid{
		{Pos: geom.Vec{1, 2, 3}, Heading: geom.Vec{0, 1, 0}, Level: 3, Mask: 5},
		{Pos: geom.Vec{-1, 0, 4}, Heading: geom.Vec{0, 0, -1}, Level: 3, Mask: 2},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteSnapshot(buf, 100, 3, boids))

	hd, got, err := ReadSnapshot(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(100), hd.Step)
	assert.Equal(t, int64(3), hd.TreeDepth)
	assert.Equal(t, int64(2), hd.Agents)
	assert.Equal(t, boids, got)
}

func TestReadSnapshotRejectsOversizedAgentCount(t *testing.T) {
	// A valid-looking header claiming far more agents than the payload
	// holds must fail on the payload read without first allocating room
	// for the claimed count.
	hd := &SnapshotHeader{
		Endianness: snapshotEndianness,
		HeaderSize: int64(binary.Size(SnapshotHeader{})),
		Agents:     1 << 40,
		TreeDepth:  3,
		Step:       1,
	}
	buf := &bytes.Buffer{}
	require.NoError(t, binary.Write(buf, end, hd))

	_, _, err := ReadSnapshot(buf)
	assert.Error(t, err, "truncated payload")
}

func TestReadSnapshotRejectsGarbage(t *testing.T) {
	buf := bytes.NewBuffer(make([]byte, 256))
	_, _, err := ReadSnapshot(buf)
	assert.Error(t, err, "zero endianness flag")
}
