package bio

import (
	"io"

	"github.com/pkg/errors"

	"github.com/kurotakazuki/floaout-go/bub"
	"github.com/kurotakazuki/floaout-go/bub/functions"
	"github.com/kurotakazuki/floaout-go/leio"
	"github.com/kurotakazuki/floaout-go/space"
)

// pendingSegment holds a Head segment's header fields, staged by
// BeginSegment and flushed by the next WriteSample/WriteExpr call
// that actually lands on the frame where the segment begins.
type pendingSegment struct {
	bubFns           []byte
	footRelative     uint64
	nextHeadRelative uint64
}

// Writer encodes a bubble stream's frames against a fixed speaker
// layout, symmetric to Reader. Segment boundaries are driven
// externally: the caller calls BeginSegment before the WriteSample or
// WriteExpr call that writes the segment's first (Head) frame.
type Writer[S bub.Sample] struct {
	w        io.Writer
	pos      uint64
	metadata *bub.Metadata
	speakers []space.Coord
	pending  *pendingSegment
}

// NewWriter builds a Writer. The caller is responsible for having
// already written metadata's file header via metadata.Write.
func NewWriter[S bub.Sample](w io.Writer, metadata *bub.Metadata, speakers []space.Coord) *Writer[S] {
	return &Writer[S]{w: w, metadata: metadata, speakers: speakers}
}

// Pos returns the absolute frame index of the last frame written.
func (wr *Writer[S]) Pos() uint64 { return wr.pos }

// BeginSegment stages a new Head segment's header, to be flushed by
// the next WriteSample or WriteExpr call. footRelativeFrame and
// nextHeadRelativeFrame are the wire's relative encodings (spec.md
// §6): footRelativeFrame frames from this segment's head to its last
// frame inclusive, nextHeadRelativeFrame the following segment's head
// frame counted with this segment's head as frame 1 (0 for none).
func (wr *Writer[S]) BeginSegment(bubFns string, footRelativeFrame, nextHeadRelativeFrame uint64) {
	wr.pending = &pendingSegment{
		bubFns:           []byte(bubFns),
		footRelative:     footRelativeFrame,
		nextHeadRelative: nextHeadRelativeFrame,
	}
}

// WriteSample writes one PCM-sourced frame. Call this once per frame
// for an Lpcm-kind stream.
func (wr *Writer[S]) WriteSample(sample S) error {
	m := wr.metadata
	if m.Frames <= wr.pos {
		return errors.Wrap(bub.ErrInvalidData, "bub/io: write past frames")
	}
	wr.pos++
	m.InitWithPos(wr.pos)

	if m.BubState == bub.Head {
		if err := wr.flushHead(); err != nil {
			return err
		}
	}

	switch m.BubState {
	case bub.Head, bub.Body:
		if err := bub.WriteSample[S](wr.w, m.CRC, sample); err != nil {
			return errors.Wrap(err, "bub/io: write lpcm sample")
		}
		if m.FootAbsoluteFramePlusOne-1 == wr.pos {
			if err := leio.WriteTrailer(wr.w, m.CRC); err != nil {
				return errors.Wrap(err, "bub/io: write crc trailer")
			}
		}
	case bub.Stopped, bub.Ended:
		if sample.F64() != 0 {
			return errors.Wrap(bub.ErrInvalidData, "bub/io: non-zero sample outside a segment")
		}
	}
	return nil
}

// WriteExpr writes one Expr-sourced frame. exprText is only actually
// serialized on the segment's Head frame (where BeginSegment's
// pending header is flushed); Body frames write nothing, matching the
// reader's reuse of the Head frame's parsed expression.
func (wr *Writer[S]) WriteExpr(exprText string) error {
	m := wr.metadata
	if m.Frames <= wr.pos {
		return errors.Wrap(bub.ErrInvalidData, "bub/io: write past frames")
	}
	wr.pos++
	m.InitWithPos(wr.pos)

	switch m.BubState {
	case bub.Head:
		if err := wr.flushHead(); err != nil {
			return err
		}
		raw := []byte(exprText)
		if len(raw) > 0xFFFF {
			return errors.Wrap(bub.ErrInvalidData, "bub/io: expr text longer than 65535 bytes")
		}
		if err := leio.WriteU16(wr.w, m.CRC, uint16(len(raw))); err != nil {
			return errors.Wrap(err, "bub/io: write expr_size")
		}
		if err := leio.WriteBytes(wr.w, m.CRC, raw); err != nil {
			return errors.Wrap(err, "bub/io: write expr")
		}
		ast, err := functions.Parse(raw, functions.VariableSum)
		if err != nil {
			return errors.Wrapf(bub.ErrInvalidData, "bub/io: expr does not parse: %v", err)
		}
		m.BubSampleKind.Expr = ast.(functions.Sum)
		if err := leio.WriteTrailer(wr.w, m.CRC); err != nil {
			return errors.Wrap(err, "bub/io: write crc trailer")
		}
	case bub.Body:
		// The Head frame's expr AST still applies; nothing to write.
	case bub.Stopped, bub.Ended:
		// No segment active; the frame is silent and nothing is written.
	}
	return nil
}

// flushHead writes a Head frame's functions_size/bub_functions/
// foot_relative_frame/next_head_relative_frame fields from the staged
// pendingSegment, and updates metadata so subsequent InitWithPos
// calls see the new segment's boundaries.
func (wr *Writer[S]) flushHead() error {
	if wr.pending == nil {
		return errors.Wrapf(bub.ErrInvalidData, "bub/io: frame %d begins a new segment; call BeginSegment first", wr.pos)
	}
	m := wr.metadata
	p := wr.pending
	wr.pending = nil

	if len(p.bubFns) > 0xFFFF {
		return errors.Wrap(bub.ErrInvalidData, "bub/io: bub_functions text longer than 65535 bytes")
	}
	if err := leio.WriteU16(wr.w, m.CRC, uint16(len(p.bubFns))); err != nil {
		return errors.Wrap(err, "bub/io: write functions_size")
	}
	if err := leio.WriteBytes(wr.w, m.CRC, p.bubFns); err != nil {
		return errors.Wrap(err, "bub/io: write bub_functions")
	}
	ast, err := functions.Parse(p.bubFns, functions.VariableBubFns)
	if err != nil {
		return errors.Wrapf(bub.ErrInvalidData, "bub/io: bub_functions does not parse: %v", err)
	}
	m.BubFunctions = ast.(functions.BubFns)

	if err := leio.WriteU64(wr.w, m.CRC, p.footRelative); err != nil {
		return errors.Wrap(err, "bub/io: write foot_relative_frame")
	}
	m.FootAbsoluteFramePlusOne = wr.pos + p.footRelative

	if err := leio.WriteU64(wr.w, m.CRC, p.nextHeadRelative); err != nil {
		return errors.Wrap(err, "bub/io: write next_head_relative_frame")
	}
	m.SetNextHeadFromRelative(p.nextHeadRelative, wr.pos)

	return nil
}

// WriterKind wraps either a Writer[bub.F32] or a Writer[bub.F64],
// chosen from metadata.LpcmKind at construction, mirroring Kind.
type WriterKind struct {
	F32 *Writer[bub.F32]
	F64 *Writer[bub.F64]
}

// NewWriterKind builds the Writer matching metadata.LpcmKind.
func NewWriterKind(w io.Writer, metadata *bub.Metadata, speakers []space.Coord) (WriterKind, error) {
	switch metadata.LpcmKind {
	case bub.F32LE:
		return WriterKind{F32: NewWriter[bub.F32](w, metadata, speakers)}, nil
	case bub.F64LE:
		return WriterKind{F64: NewWriter[bub.F64](w, metadata, speakers)}, nil
	default:
		return WriterKind{}, errors.Wrapf(bub.ErrInvalidData, "bub/io: unknown lpcm_kind %d", metadata.LpcmKind)
	}
}
