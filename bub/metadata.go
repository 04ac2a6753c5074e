package bub

import (
	"io"

	"github.com/pkg/errors"

	"github.com/kurotakazuki/floaout-go/bub/functions"
	"github.com/kurotakazuki/floaout-go/crcenv"
	"github.com/kurotakazuki/floaout-go/leio"
)

// BubSampleKind tags whether a stream's samples are literal PCM, or
// computed by evaluating a Sum expression carried in each segment's
// own header. Expr is only meaningful when IsExpr is true; it holds
// the most recently parsed per-segment expression so a Body frame can
// re-evaluate the same AST its Head frame parsed (spec.md §4.4).
type BubSampleKind struct {
	IsExpr bool
	Expr   functions.Sum
}

// defaultExprSampleKind is the placeholder BubSampleKind a file header
// tag of 1 decodes to; bub/io replaces Expr with the real per-segment
// AST the moment it parses one.
func defaultExprSampleKind() BubSampleKind {
	ast, err := functions.Parse([]byte("0"), functions.VariableSum)
	if err != nil {
		panic("bub: default expr sample kind: " + err.Error())
	}
	return BubSampleKind{IsExpr: true, Expr: ast.(functions.Sum)}
}

// ReadBubSampleKind reads and validates the one-byte bub_sample_kind
// tag.
func ReadBubSampleKind(r io.Reader, crc *crcenv.Engine) (BubSampleKind, error) {
	v, err := leio.ReadU8(r, crc)
	if err != nil {
		return BubSampleKind{}, err
	}
	switch v {
	case 0:
		return BubSampleKind{}, nil
	case 1:
		return defaultExprSampleKind(), nil
	default:
		return BubSampleKind{}, errors.Wrapf(ErrInvalidData, "bub: unknown bub_sample_kind %d", v)
	}
}

// Write writes the one-byte bub_sample_kind tag; the AST itself is
// never part of the file header.
func (k BubSampleKind) Write(w io.Writer, crc *crcenv.Engine) error {
	var v uint8
	if k.IsExpr {
		v = 1
	}
	return leio.WriteU8(w, crc, v)
}

// Metadata is a bubble stream's full per-stream state: the file
// header fields read once at stream open, plus the live per-frame
// state machine fields that evolve as frames are consumed or
// produced. Grounded on the original Rust BubbleMetadata; Go's lack of
// a CRC-carrying struct embedding means the *crcenv.Engine here is the
// one the sibling bub/io reader/writer thread through every field
// read or write.
type Metadata struct {
	// File header.
	SpecVersion   uint8
	BubID         ID
	BubVersion    uint16
	Frames        uint64
	SamplesPerSec float64
	LpcmKind      LpcmKind
	BubSampleKind BubSampleKind
	Name          string

	// Live per-frame state.
	BubState          State
	HeadAbsoluteFrame uint64

	BubFunctions             functions.BubFns
	FootAbsoluteFramePlusOne uint64
	NextHeadAbsoluteFrame    *uint64

	CRC *crcenv.Engine
}

// NewMetadata returns a Metadata ready to read or write a file header,
// starting Stopped with no pending segment.
func NewMetadata() *Metadata {
	return &Metadata{
		BubState: Stopped,
		CRC:      crcenv.New(),
	}
}

// InitWithPos advances the state machine for frame pos, per spec.md
// §4.3's transition table. Called once per frame, before any payload
// bytes for that frame are read or written.
func (m *Metadata) InitWithPos(pos uint64) {
	next, head := step(transition{
		state:                    m.BubState,
		pos:                      pos,
		footAbsoluteFramePlusOne: m.FootAbsoluteFramePlusOne,
		nextHeadAbsoluteFrame:    m.NextHeadAbsoluteFrame,
	})
	m.BubState = next
	if next == Head {
		m.HeadAbsoluteFrame = head
	}
}

// RelativeFrame returns the 1-based frame index within the current
// segment (the lowercase "n" of the Bub-Fns environment).
func (m *Metadata) RelativeFrame(pos uint64) float64 {
	return float64(pos - m.HeadAbsoluteFrame + 1)
}

// setNextHeadFromRelative converts a next_head_relative_frame field
// (0 meaning "no further segment") read off the wire into the
// absolute frame it names.
func (m *Metadata) setNextHeadFromRelative(relative uint64, pos uint64) {
	if relative == 0 {
		m.NextHeadAbsoluteFrame = nil
		return
	}
	next := relative + pos - 1
	m.NextHeadAbsoluteFrame = &next
}

// nextHeadIntoRelative is the write-side inverse of
// setNextHeadFromRelative.
func (m *Metadata) nextHeadIntoRelative(pos uint64) uint64 {
	if m.NextHeadAbsoluteFrame == nil {
		return 0
	}
	return 1 + *m.NextHeadAbsoluteFrame - pos
}

func (m *Metadata) readNextHeadAbsoluteFrame(r io.Reader, pos uint64) error {
	relative, err := leio.ReadU64(r, m.CRC)
	if err != nil {
		return err
	}
	m.setNextHeadFromRelative(relative, pos)
	return nil
}

func (m *Metadata) writeNextHeadAbsoluteFrame(w io.Writer, pos uint64) error {
	return leio.WriteU64(w, m.CRC, m.nextHeadIntoRelative(pos))
}

// ReadNextHeadRelative reads a segment header's next_head_relative_frame
// field and updates NextHeadAbsoluteFrame relative to pos. Exported for
// bub/io's segment-header read, which owns the functions_size/
// bub_functions/foot_relative_frame fields surrounding it.
func (m *Metadata) ReadNextHeadRelative(r io.Reader, pos uint64) error {
	return m.readNextHeadAbsoluteFrame(r, pos)
}

// SetNextHeadFromRelative is the write-side counterpart bub/io uses
// once it has written a segment header's next_head_relative_frame
// field itself.
func (m *Metadata) SetNextHeadFromRelative(relative, pos uint64) {
	m.setNextHeadFromRelative(relative, pos)
}

// ReadCRC reads the file header's trailing CRC trailer, verifies it,
// then reseeds m.CRC so the first segment header's checksum chains
// off of it.
func (m *Metadata) ReadCRC(r io.Reader) error {
	trailer, err := leio.ReadTrailer(r, m.CRC)
	if err != nil {
		return err
	}
	leio.SeedNext(m.CRC, trailer)
	return nil
}

// WriteCRC finalizes and writes the file header's trailing CRC
// trailer, then reseeds m.CRC identically to ReadCRC.
func (m *Metadata) WriteCRC(w io.Writer) error {
	return leio.WriteTrailer(w, m.CRC)
}

// ReadMetadata reads a complete file header: spec_version, bub_id,
// bub_version, frames, next_head_relative_frame (relative to pos 1),
// samples_per_sec, lpcm_kind, bub_sample_kind, name, and the trailing
// CRC trailer.
func ReadMetadata(r io.Reader) (*Metadata, error) {
	m := NewMetadata()

	var err error
	if m.SpecVersion, err = leio.ReadU8(r, m.CRC); err != nil {
		return nil, errors.Wrap(err, "bub: read spec_version")
	}
	if m.BubID, err = ReadID(r, m.CRC); err != nil {
		return nil, errors.Wrap(err, "bub: read bub_id")
	}
	if m.BubVersion, err = leio.ReadU16(r, m.CRC); err != nil {
		return nil, errors.Wrap(err, "bub: read bub_version")
	}
	if m.Frames, err = leio.ReadU64(r, m.CRC); err != nil {
		return nil, errors.Wrap(err, "bub: read frames")
	}
	if err = m.readNextHeadAbsoluteFrame(r, 1); err != nil {
		return nil, errors.Wrap(err, "bub: read next_head_relative_frame")
	}
	if m.SamplesPerSec, err = leio.ReadF64(r, m.CRC); err != nil {
		return nil, errors.Wrap(err, "bub: read samples_per_sec")
	}
	if m.LpcmKind, err = ReadLpcmKind(r, m.CRC); err != nil {
		return nil, errors.Wrap(err, "bub: read lpcm_kind")
	}
	if m.BubSampleKind, err = ReadBubSampleKind(r, m.CRC); err != nil {
		return nil, errors.Wrap(err, "bub: read bub_sample_kind")
	}
	nameSize, err := leio.ReadU8(r, m.CRC)
	if err != nil {
		return nil, errors.Wrap(err, "bub: read name_size")
	}
	if m.Name, err = leio.ReadString(r, m.CRC, int(nameSize)); err != nil {
		return nil, errors.Wrap(err, "bub: read name")
	}

	if err = m.ReadCRC(r); err != nil {
		return nil, errors.Wrap(err, "bub: read file header crc")
	}

	return m, nil
}

// Write writes a complete file header in the same field order
// ReadMetadata expects.
func (m *Metadata) Write(w io.Writer) error {
	if err := leio.WriteU8(w, m.CRC, m.SpecVersion); err != nil {
		return errors.Wrap(err, "bub: write spec_version")
	}
	if err := m.BubID.Write(w, m.CRC); err != nil {
		return errors.Wrap(err, "bub: write bub_id")
	}
	if err := leio.WriteU16(w, m.CRC, m.BubVersion); err != nil {
		return errors.Wrap(err, "bub: write bub_version")
	}
	if err := leio.WriteU64(w, m.CRC, m.Frames); err != nil {
		return errors.Wrap(err, "bub: write frames")
	}
	if err := m.writeNextHeadAbsoluteFrame(w, 1); err != nil {
		return errors.Wrap(err, "bub: write next_head_relative_frame")
	}
	if err := leio.WriteF64(w, m.CRC, m.SamplesPerSec); err != nil {
		return errors.Wrap(err, "bub: write samples_per_sec")
	}
	if err := m.LpcmKind.Write(w, m.CRC); err != nil {
		return errors.Wrap(err, "bub: write lpcm_kind")
	}
	if err := m.BubSampleKind.Write(w, m.CRC); err != nil {
		return errors.Wrap(err, "bub: write bub_sample_kind")
	}
	if len(m.Name) > 0xFF {
		return errors.Wrapf(ErrInvalidData, "bub: name %q longer than 255 bytes", m.Name)
	}
	if err := leio.WriteU8(w, m.CRC, uint8(len(m.Name))); err != nil {
		return errors.Wrap(err, "bub: write name_size")
	}
	if err := leio.WriteString(w, m.CRC, m.Name); err != nil {
		return errors.Wrap(err, "bub: write name")
	}

	return m.WriteCRC(w)
}
