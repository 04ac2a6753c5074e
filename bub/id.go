// Package bub implements the bubble stream codec core: per-stream
// metadata, the four-state per-frame state machine, and the sample
// kinds a segment's payload may carry. The frame-reading/writing
// driver that ties these together with the Bub-Fns evaluator lives in
// the sibling bub/io package.
package bub

import (
	"encoding/binary"
	"io"

	"github.com/kurotakazuki/floaout-go/crcenv"
	"github.com/kurotakazuki/floaout-go/leio"
)

// ID is an opaque 16-byte bubble identifier. It carries no semantics
// in the core beyond equality.
type ID [16]byte

// NewID builds an ID whose first 8 bytes hold low in little-endian
// order and whose last 8 bytes are zero, matching the common case of
// small numeric test identifiers used throughout this package's tests
// (the wire format is always the raw 16 bytes).
func NewID(low uint64) ID {
	var id ID
	binary.LittleEndian.PutUint64(id[:8], low)
	return id
}

// ReadID reads a raw 16-byte ID, feeding it to crc.
func ReadID(r io.Reader, crc *crcenv.Engine) (ID, error) {
	b, err := leio.ReadBytes(r, crc, 16)
	if err != nil {
		return ID{}, err
	}
	var id ID
	copy(id[:], b)
	return id, nil
}

// Write writes the raw 16 bytes of id, feeding them to crc.
func (id ID) Write(w io.Writer, crc *crcenv.Engine) error {
	return leio.WriteBytes(w, crc, id[:])
}
