package bub

import (
	"io"

	"github.com/pkg/errors"

	"github.com/kurotakazuki/floaout-go/crcenv"
	"github.com/kurotakazuki/floaout-go/leio"
)

// LpcmKind selects the PCM sample width carried for the lifetime of a
// stream.
type LpcmKind uint8

// Sample widths the container supports. Extensible per spec.md §6;
// only these two are implemented.
const (
	F32LE LpcmKind = 0
	F64LE LpcmKind = 1
)

// ReadLpcmKind reads and validates the one-byte lpcm_kind tag.
func ReadLpcmKind(r io.Reader, crc *crcenv.Engine) (LpcmKind, error) {
	v, err := leio.ReadU8(r, crc)
	if err != nil {
		return 0, err
	}
	switch LpcmKind(v) {
	case F32LE, F64LE:
		return LpcmKind(v), nil
	default:
		return 0, errors.Wrapf(ErrInvalidData, "bub: unknown lpcm_kind %d", v)
	}
}

// Write writes the one-byte lpcm_kind tag.
func (k LpcmKind) Write(w io.Writer, crc *crcenv.Engine) error {
	return leio.WriteU8(w, crc, uint8(k))
}

// Sample is the polymorphism point over the two PCM widths the codec
// supports: a small capability interface with two concrete
// implementations, chosen at reader/writer construction time from
// LpcmKind, per spec.md §9.
type Sample interface {
	comparable
	// F64 returns the sample's value widened to float64, for mixing
	// math and for the != 0 check that gates PCM mixing work.
	F64() float64
}

// FromF64 converts a scalar evaluator result or gain-scaled PCM value
// into a concrete sample type.
func FromF64[S Sample](v float64) S {
	var zero S
	switch any(zero).(type) {
	case F32:
		return any(F32(v)).(S)
	case F64:
		return any(F64(v)).(S)
	default:
		panic("bub: unsupported Sample type")
	}
}

// F32 is the 32-bit float Sample implementation.
type F32 float32

// F64 implements Sample.F64.
func (s F32) F64() float64 { return float64(s) }

// F64 is the 64-bit float Sample implementation.
type F64 float64

// F64 implements Sample.F64.
func (s F64) F64() float64 { return float64(s) }

// ReadSample reads one sample of width S, feeding its bytes to crc.
func ReadSample[S Sample](r io.Reader, crc *crcenv.Engine) (S, error) {
	var zero S
	switch any(zero).(type) {
	case F32:
		v, err := leio.ReadF32(r, crc)
		return any(F32(v)).(S), err
	case F64:
		v, err := leio.ReadF64(r, crc)
		return any(F64(v)).(S), err
	default:
		panic("bub: unsupported Sample type")
	}
}

// WriteSample writes one sample of width S, feeding its bytes to crc.
func WriteSample[S Sample](w io.Writer, crc *crcenv.Engine, s S) error {
	switch v := any(s).(type) {
	case F32:
		return leio.WriteF32(w, crc, float32(v))
	case F64:
		return leio.WriteF64(w, crc, float64(v))
	default:
		panic("bub: unsupported Sample type")
	}
}
