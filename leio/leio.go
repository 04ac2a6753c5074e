// Package leio provides the little-endian byte-wise I/O helpers the
// bubble codec's metadata and frame reader/writer build on: every
// value read or written also passes through a *crcenv.Engine at the
// moment of consumption, exactly as the container's CRC envelope
// requires.
package leio

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/kurotakazuki/floaout-go/crcenv"
)

// wrapEOF turns a plain io.EOF encountered mid-field into
// io.ErrUnexpectedEOF, and otherwise wraps the error with context.
func wrapEOF(err error, what string) error {
	if err == nil {
		return nil
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrapf(io.ErrUnexpectedEOF, "leio: short read of %s", what)
	}
	return errors.Wrapf(err, "leio: read %s", what)
}

// ReadBytes reads exactly n bytes from r, feeding them to crc.
func ReadBytes(r io.Reader, crc *crcenv.Engine, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, wrapEOF(err, "bytes")
	}
	crc.Update(buf)
	return buf, nil
}

// ReadU8 reads one byte.
func ReadU8(r io.Reader, crc *crcenv.Engine) (uint8, error) {
	b, err := ReadBytes(r, crc, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little-endian uint16.
func ReadU16(r io.Reader, crc *crcenv.Engine) (uint16, error) {
	b, err := ReadBytes(r, crc, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU64 reads a little-endian uint64.
func ReadU64(r io.Reader, crc *crcenv.Engine) (uint64, error) {
	b, err := ReadBytes(r, crc, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadF64 reads a little-endian IEEE-754 double.
func ReadF64(r io.Reader, crc *crcenv.Engine) (float64, error) {
	v, err := ReadU64(r, crc)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadF32 reads a little-endian IEEE-754 single.
func ReadF32(r io.Reader, crc *crcenv.Engine) (float32, error) {
	b, err := ReadBytes(r, crc, 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// ReadString reads n bytes and returns them as a UTF-8 string.
func ReadString(r io.Reader, crc *crcenv.Engine, n int) (string, error) {
	b, err := ReadBytes(r, crc, n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadTrailer reads the 4-byte CRC trailer, feeds it to crc, and
// verifies it, returning ErrCrcMismatch (wrapped) on failure.
func ReadTrailer(r io.Reader, crc *crcenv.Engine) ([4]byte, error) {
	b, err := ReadBytes(r, crc, 4)
	if err != nil {
		return [4]byte{}, err
	}
	var trailer [4]byte
	copy(trailer[:], b)
	if !crc.IsErrorFree() {
		return trailer, errors.Wrap(ErrCrcMismatch, "leio: trailer check failed")
	}
	return trailer, nil
}

// SeedNext reinitializes crc and feeds the previous trailer back in,
// chaining the checksum into the following segment.
func SeedNext(crc *crcenv.Engine, trailer [4]byte) {
	crc.Reset()
	crc.Update(trailer[:])
}

// Writing side.

// WriteBytes writes p and feeds it to crc.
func WriteBytes(w io.Writer, crc *crcenv.Engine, p []byte) error {
	if _, err := w.Write(p); err != nil {
		return errors.Wrap(err, "leio: write bytes")
	}
	crc.Update(p)
	return nil
}

// WriteU8 writes one byte.
func WriteU8(w io.Writer, crc *crcenv.Engine, v uint8) error {
	return WriteBytes(w, crc, []byte{v})
}

// WriteU16 writes a little-endian uint16.
func WriteU16(w io.Writer, crc *crcenv.Engine, v uint16) error {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return WriteBytes(w, crc, b)
}

// WriteU64 writes a little-endian uint64.
func WriteU64(w io.Writer, crc *crcenv.Engine, v uint64) error {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return WriteBytes(w, crc, b)
}

// WriteF64 writes a little-endian IEEE-754 double.
func WriteF64(w io.Writer, crc *crcenv.Engine, v float64) error {
	return WriteU64(w, crc, math.Float64bits(v))
}

// WriteF32 writes a little-endian IEEE-754 single.
func WriteF32(w io.Writer, crc *crcenv.Engine, v float32) error {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	return WriteBytes(w, crc, b)
}

// WriteString writes s verbatim.
func WriteString(w io.Writer, crc *crcenv.Engine, s string) error {
	return WriteBytes(w, crc, []byte(s))
}

// WriteTrailer finalizes crc, writes the trailer, then seeds crc for
// the next segment with it.
func WriteTrailer(w io.Writer, crc *crcenv.Engine) error {
	trailer := crc.Finalize()
	if _, err := w.Write(trailer[:]); err != nil {
		return errors.Wrap(err, "leio: write trailer")
	}
	SeedNext(crc, trailer)
	return nil
}

// ErrCrcMismatch is wrapped and returned by ReadTrailer when the
// checksum does not verify.
var ErrCrcMismatch = errors.New("crc mismatch")
