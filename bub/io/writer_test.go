package bio

import (
	"bytes"
	"testing"

	"github.com/kurotakazuki/floaout-go/bub"
	"github.com/kurotakazuki/floaout-go/space"
)

func TestWriterRejectsWritePastFrames(t *testing.T) {
	m := bub.NewMetadata()
	m.Frames = 1
	m.LpcmKind = bub.F32LE
	m.NextHeadAbsoluteFrame = u64p(1)

	var buf bytes.Buffer
	wr := NewWriter[bub.F32](&buf, m, []space.Coord{{}})
	wr.BeginSegment("0 0 0 0==0 1", 1, 0)
	mustWriteSample(t, wr, 1.0)

	if err := wr.WriteSample(0); err == nil {
		t.Fatal("expected error writing past metadata.Frames")
	}
}

func TestWriterRejectsNonZeroSampleOutsideSegment(t *testing.T) {
	m := bub.NewMetadata()
	m.Frames = 1
	m.LpcmKind = bub.F32LE
	m.NextHeadAbsoluteFrame = nil

	var buf bytes.Buffer
	wr := NewWriter[bub.F32](&buf, m, []space.Coord{{}})

	if err := wr.WriteSample(1.0); err == nil {
		t.Fatal("expected error for non-zero sample with no active segment")
	}
}

func TestWriterRequiresBeginSegmentAtHead(t *testing.T) {
	m := bub.NewMetadata()
	m.Frames = 1
	m.LpcmKind = bub.F32LE
	m.NextHeadAbsoluteFrame = u64p(1)

	var buf bytes.Buffer
	wr := NewWriter[bub.F32](&buf, m, []space.Coord{{}})

	if err := wr.WriteSample(1.0); err == nil {
		t.Fatal("expected error: frame 1 begins a segment but BeginSegment was never called")
	}
}

func TestNewReaderKindAndWriterKindDispatchOnLpcmKind(t *testing.T) {
	m := bub.NewMetadata()
	m.LpcmKind = bub.F64LE
	speakers := []space.Coord{{}}

	var buf bytes.Buffer
	wk, err := NewWriterKind(&buf, m, speakers)
	if err != nil {
		t.Fatalf("NewWriterKind: %v", err)
	}
	if wk.F64 == nil || wk.F32 != nil {
		t.Fatalf("NewWriterKind(F64LE) = %+v, want only F64 set", wk)
	}

	rk, err := NewReaderKind(bytes.NewReader(nil), m, speakers)
	if err != nil {
		t.Fatalf("NewReaderKind: %v", err)
	}
	if rk.F64 == nil || rk.F32 != nil {
		t.Fatalf("NewReaderKind(F64LE) = %+v, want only F64 set", rk)
	}
}
