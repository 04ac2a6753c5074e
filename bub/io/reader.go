// Package bio is the bubble stream frame driver: it fuses decoding a
// .bub stream's per-frame payload with evaluating the Bub-Fns
// tuples/expressions gating each speaker, producing one mixed Frame
// per call rather than handing back raw bytes for a caller to
// interpret separately (spec.md §1/§9).
//
// Named bio, not io, so it can sit alongside the standard io package
// it wraps without an import alias at every call site.
package bio

import (
	"io"

	"github.com/pkg/errors"

	"github.com/kurotakazuki/floaout-go/bub"
	"github.com/kurotakazuki/floaout-go/bub/functions"
	"github.com/kurotakazuki/floaout-go/leio"
	"github.com/kurotakazuki/floaout-go/space"
)

// Frame is one instant's worth of mixed samples, one per speaker, in
// the same order as the Reader/Writer's speaker coordinate list.
type Frame[S bub.Sample] []S

// Reader decodes a bubble stream's frames against a fixed speaker
// layout, one frame per Next call.
type Reader[S bub.Sample] struct {
	r        io.Reader
	pos      uint64
	metadata *bub.Metadata
	speakers []space.Coord
}

// NewReader builds a Reader from an already-read file header and the
// absolute speaker layout frames should be mixed against.
func NewReader[S bub.Sample](r io.Reader, metadata *bub.Metadata, speakers []space.Coord) *Reader[S] {
	return &Reader[S]{r: r, metadata: metadata, speakers: speakers}
}

// Pos returns the absolute frame index of the last frame returned by
// Next (0 before the first call).
func (fr *Reader[S]) Pos() uint64 { return fr.pos }

// Metadata exposes the live per-stream state the reader is driving,
// mainly so callers can inspect BubState between frames.
func (fr *Reader[S]) Metadata() *bub.Metadata { return fr.metadata }

// Next advances one frame and returns its mixed sample for every
// speaker. It returns io.EOF once metadata.Frames frames have been
// produced.
func (fr *Reader[S]) Next() (Frame[S], error) {
	m := fr.metadata
	if m.Frames <= fr.pos {
		return nil, io.EOF
	}
	fr.pos++
	m.InitWithPos(fr.pos)

	acc := make([]float64, len(fr.speakers))

	switch m.BubState {
	case bub.Head:
		if err := fr.readSegmentHeader(); err != nil {
			return nil, err
		}
		if m.BubSampleKind.IsExpr {
			if err := fr.readExprSegment(acc); err != nil {
				return nil, err
			}
		} else if err := fr.readLpcmSample(acc); err != nil {
			return nil, err
		}
	case bub.Body:
		if m.BubSampleKind.IsExpr {
			fr.evalStoredExpr(acc)
		} else if err := fr.readLpcmSample(acc); err != nil {
			return nil, err
		}
	case bub.Stopped, bub.Ended:
		// No bytes to read; frame stays all zero.
	}

	frame := make(Frame[S], len(acc))
	for i, v := range acc {
		frame[i] = bub.FromF64[S](v)
	}
	return frame, nil
}

// readSegmentHeader reads the functions_size/bub_functions/
// foot_relative_frame/next_head_relative_frame fields a Head frame
// always carries, regardless of bub_sample_kind.
func (fr *Reader[S]) readSegmentHeader() error {
	m := fr.metadata

	size, err := leio.ReadU16(fr.r, m.CRC)
	if err != nil {
		return errors.Wrap(err, "bub/io: read functions_size")
	}
	raw, err := leio.ReadBytes(fr.r, m.CRC, int(size))
	if err != nil {
		return errors.Wrap(err, "bub/io: read bub_functions")
	}
	ast, err := functions.Parse(raw, functions.VariableBubFns)
	if err != nil {
		return errors.Wrapf(bub.ErrInvalidData, "bub/io: bub_functions does not parse: %v", err)
	}
	m.BubFunctions = ast.(functions.BubFns)

	footRelative, err := leio.ReadU64(fr.r, m.CRC)
	if err != nil {
		return errors.Wrap(err, "bub/io: read foot_relative_frame")
	}
	if footRelative == 0 {
		return errors.Wrap(bub.ErrInvalidData, "bub/io: zero-length segment")
	}
	m.FootAbsoluteFramePlusOne = fr.pos + footRelative

	if err := m.ReadNextHeadRelative(fr.r, fr.pos); err != nil {
		return errors.Wrap(err, "bub/io: read next_head_relative_frame")
	}
	return nil
}

// readLpcmSample reads one PCM sample, validates its trailing CRC
// when this frame is the segment's last, and (only when the sample is
// non-zero, per spec.md §9) mixes it into every speaker whose tuple
// predicate matches.
func (fr *Reader[S]) readLpcmSample(acc []float64) error {
	m := fr.metadata

	sample, err := bub.ReadSample[S](fr.r, m.CRC)
	if err != nil {
		return errors.Wrap(err, "bub/io: read lpcm sample")
	}
	if m.FootAbsoluteFramePlusOne-1 == fr.pos {
		if err := fr.readAndSeedTrailer(); err != nil {
			return err
		}
	}

	sampleF64 := sample.F64()
	if sampleF64 == 0 {
		return nil
	}
	base := fr.baseEnv()
	fr.mix(acc, base, func(mt functions.Match) float64 {
		return sampleF64 * mt.Gain
	})
	return nil
}

// readExprSegment reads the expr_size/expr fields and trailing CRC an
// Expr Head frame carries, parses the expression once, stores it on
// metadata for the Body frames of this segment to reuse, and mixes
// its value for this frame.
func (fr *Reader[S]) readExprSegment(acc []float64) error {
	m := fr.metadata

	size, err := leio.ReadU16(fr.r, m.CRC)
	if err != nil {
		return errors.Wrap(err, "bub/io: read expr_size")
	}
	raw, err := leio.ReadBytes(fr.r, m.CRC, int(size))
	if err != nil {
		return errors.Wrap(err, "bub/io: read expr")
	}
	ast, err := functions.Parse(raw, functions.VariableSum)
	if err != nil {
		return errors.Wrapf(bub.ErrInvalidData, "bub/io: expr does not parse: %v", err)
	}
	sum := ast.(functions.Sum)
	m.BubSampleKind.Expr = sum

	if err := fr.readAndSeedTrailer(); err != nil {
		return err
	}

	base := fr.baseEnv()
	fr.mix(acc, base, func(mt functions.Match) float64 {
		return mt.Env.EvalSum(sum) * mt.Gain
	})
	return nil
}

// evalStoredExpr re-evaluates an Expr segment's AST for a Body frame;
// no bytes are read since the expression was only transmitted once,
// at the segment's Head frame.
func (fr *Reader[S]) evalStoredExpr(acc []float64) {
	m := fr.metadata
	sum := m.BubSampleKind.Expr
	base := fr.baseEnv()
	fr.mix(acc, base, func(mt functions.Match) float64 {
		return mt.Env.EvalSum(sum) * mt.Gain
	})
}

func (fr *Reader[S]) readAndSeedTrailer() error {
	trailer, err := leio.ReadTrailer(fr.r, fr.metadata.CRC)
	if err != nil {
		return errors.Wrap(err, "bub/io: read crc trailer")
	}
	leio.SeedNext(fr.metadata.CRC, trailer)
	return nil
}

func (fr *Reader[S]) baseEnv() functions.Env {
	m := fr.metadata
	relative := m.RelativeFrame(fr.pos)
	return functions.Env{
		N:    relative,
		NCap: relative, // see functions.Env's NCap doc comment
		T:    m.SamplesPerSec,
	}
}

// mix evaluates the current BubFns tuple list against every speaker's
// absolute coordinate and accumulates perMatch's contribution for
// each tuple whose predicate holds.
func (fr *Reader[S]) mix(acc []float64, base functions.Env, perMatch func(functions.Match) float64) {
	m := fr.metadata
	for i, spk := range fr.speakers {
		matches := m.BubFunctions.Volume(spk.X, spk.Y, spk.Z, base)
		for _, mt := range matches {
			acc[i] += perMatch(mt)
		}
	}
}

// Kind wraps either a Reader[bub.F32] or a Reader[bub.F64]: Go
// generics can't select a type parameter at runtime, so this tagged
// union stands in for the original's per-width reader, chosen from
// metadata.LpcmKind at construction (spec.md §9).
type Kind struct {
	F32 *Reader[bub.F32]
	F64 *Reader[bub.F64]
}

// NewReaderKind builds the Reader matching metadata.LpcmKind.
func NewReaderKind(r io.Reader, metadata *bub.Metadata, speakers []space.Coord) (Kind, error) {
	switch metadata.LpcmKind {
	case bub.F32LE:
		return Kind{F32: NewReader[bub.F32](r, metadata, speakers)}, nil
	case bub.F64LE:
		return Kind{F64: NewReader[bub.F64](r, metadata, speakers)}, nil
	default:
		return Kind{}, errors.Wrapf(bub.ErrInvalidData, "bub/io: unknown lpcm_kind %d", metadata.LpcmKind)
	}
}
