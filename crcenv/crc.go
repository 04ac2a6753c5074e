// Package crcenv implements the CRC-32K/4.2 envelope the bubble stream
// codec uses to checksum every segment. It is deliberately small: the
// codec only ever needs Update, Finalize, IsErrorFree and Reset, in
// that order, chained across segments the way metadata.go drives it.
package crcenv

import "math/bits"

// Polynomial and seed for CRC-32K/4.2, reflected form (LSB-first),
// matching the little-endian trailer encoding the container uses.
// Generalized from the table-building technique in the teacher's own
// container/mts/psi CRC (there MSB-first/big-endian, for MPEG-TS PSI).
const (
	poly32K42 uint32 = 0x741B8CD7
	initial   uint32 = 0xFFFFFFFF
	xorOut    uint32 = 0xFFFFFFFF
)

var table = makeReflectedTable(bits.Reverse32(poly32K42))

func makeReflectedTable(rpoly uint32) *[256]uint32 {
	var t [256]uint32
	for i := range t {
		crc := uint32(i)
		for j := 0; j < 8; j++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ rpoly
			} else {
				crc >>= 1
			}
		}
		t[i] = crc
	}
	return &t
}

// Engine is a running CRC-32K/4.2 accumulator. The zero value is not
// ready to use; call New or Reset first.
type Engine struct {
	state uint32
}

// New returns an Engine freshly initialized per the codec's seeding rule.
func New() *Engine {
	e := &Engine{}
	e.Reset()
	return e
}

// Reset reinitializes the running checksum to the algorithm's seed.
// Per the codec convention, the caller follows Reset with Update of
// the previous segment's trailer bytes to chain CRCs across segments.
func (e *Engine) Reset() {
	e.state = initial
}

// Update feeds bytes into the running checksum. Every byte consumed
// from a segment header or payload, including a trailer once it has
// been read, must pass through Update at the moment of consumption.
func (e *Engine) Update(p []byte) {
	crc := e.state
	for _, b := range p {
		crc = table[byte(crc)^b] ^ (crc >> 8)
	}
	e.state = crc
}

// Finalize returns the 4-byte little-endian trailer for the bytes fed
// so far. It does not reset the engine; callers that want to chain
// into the next segment call Reset then Update(trailer) themselves.
func (e *Engine) Finalize() [4]byte {
	v := e.state ^ xorOut
	return [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// IsErrorFree reports whether the checksum is in the residue state
// that results from having fed a valid trailer through Update
// immediately after the bytes it covers.
func (e *Engine) IsErrorFree() bool {
	return e.state == residue
}

// residue is the fixed accumulator value that results from appending a
// correct trailer onto any message and continuing to Update with it;
// this is a property of the CRC construction, independent of the
// message, so it is derived once from the trivial empty message
// rather than hard-coded.
var residue = deriveResidue()

func deriveResidue() uint32 {
	e := New()
	trailer := e.Finalize()
	e.Reset()
	e.Update(trailer[:])
	return e.state
}
