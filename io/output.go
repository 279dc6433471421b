package io

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/grayfold/boidtree/sim"
)

// All .btree files are little endian.
var end = binary.LittleEndian

// SnapshotHeader sits at the front of a .btree file. Every field is
// int64 so the layout is trivial to read back from any language.
type SnapshotHeader struct {
	Endianness int64 // -1 for little endian
	HeaderSize int64
	Agents     int64
	TreeDepth  int64
	Step       int64
}

const snapshotEndianness = -1

// snapshotReadChunk caps the per-read allocation of ReadSnapshot. The
// agent count in the header is untrusted until the payload reads back,
// so a corrupt count must not size a single allocation.
const snapshotReadChunk = 1 << 12

// WriteSnapshot writes the agent population to wr in the .btree format:
// a SnapshotHeader followed by each agent's position, heading, and
// partition tag.
func WriteSnapshot(wr io.Writer, step, treeDepth int, boids []sim.Boid) error {
	hd := &SnapshotHeader{
		Endianness: snapshotEndianness,
		HeaderSize: int64(binary.Size(SnapshotHeader{})),
		Agents:     int64(len(boids)),
		TreeDepth:  int64(treeDepth),
		Step:       int64(step),
	}

	if err := binary.Write(wr, end, hd); err != nil {
		return err
	}
	return binary.Write(wr, end, boids)
}

// ReadSnapshot reads a .btree file written by WriteSnapshot.
func ReadSnapshot(rd io.Reader) (*SnapshotHeader, []sim.Boid, error) {
	hd := &SnapshotHeader{}
	if err := binary.Read(rd, end, hd); err != nil {
		return nil, nil, err
	}
	if hd.Endianness != snapshotEndianness {
		return nil, nil, fmt.Errorf(
			"Snapshot has endianness flag %d, not %d. The file is either "+
				"corrupted or not a .btree file.",
			hd.Endianness, snapshotEndianness,
		)
	}
	if hd.Agents < 0 {
		return nil, nil, fmt.Errorf("Snapshot claims %d agents.", hd.Agents)
	}

	first := hd.Agents
	if first > snapshotReadChunk {
		first = snapshotReadChunk
	}
	boids := make([]sim.Boid, 0, first)
	for remaining := hd.Agents; remaining > 0; {
		n := remaining
		if n > snapshotReadChunk {
			n = snapshotReadChunk
		}
		chunk := make([]sim.Boid, n)
		if err := binary.Read(rd, end, chunk); err != nil {
			return nil, nil, err
		}
		boids = append(boids, chunk...)
		remaining -= n
	}
	return hd, boids, nil
}
