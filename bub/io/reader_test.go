package bio

import (
	"bytes"
	"io"
	"testing"

	"github.com/kurotakazuki/floaout-go/bub"
	"github.com/kurotakazuki/floaout-go/space"
)

func u64p(v uint64) *uint64 { return &v }

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}

// TestScenarioALpcm reproduces the Lpcm worked example: two speakers
// at (0,0,0) and (3,0,0), a stream that starts Stopped, runs four
// segments (one of two frames, then three of one frame each), and ends.
func TestScenarioALpcm(t *testing.T) {
	m := bub.NewMetadata()
	m.Frames = 8
	m.SamplesPerSec = 96000
	m.LpcmKind = bub.F32LE
	m.BubState = bub.Stopped
	m.NextHeadAbsoluteFrame = u64p(1)

	speakers := []space.Coord{{X: 0, Y: 0, Z: 0}, {X: 3, Y: 0, Z: 0}}

	var buf bytes.Buffer
	wr := NewWriter[bub.F32](&buf, m, speakers)

	wr.BeginSegment("1 2 3 X<3 0.1*N", 2, 3)
	mustWriteSample(t, wr, 1.0)
	mustWriteSample(t, wr, 1.0)

	wr.BeginSegment("1 2 3 X<3 1", 1, 3)
	mustWriteSample(t, wr, 0.3)

	mustWriteSample(t, wr, 0) // frame 4: Stopped

	wr.BeginSegment("0 0 0 0==0 1", 1, 2)
	mustWriteSample(t, wr, 0.4)

	wr.BeginSegment("0 0 n X>=3 -z", 1, 0)
	mustWriteSample(t, wr, 1.0)

	mustWriteSample(t, wr, 0) // frame 7: Ended
	mustWriteSample(t, wr, 0) // frame 8: Ended

	rm := bub.NewMetadata()
	rm.Frames = 8
	rm.SamplesPerSec = 96000
	rm.LpcmKind = bub.F32LE
	rm.BubState = bub.Stopped
	rm.NextHeadAbsoluteFrame = u64p(1)
	rr := NewReader[bub.F32](bytes.NewReader(buf.Bytes()), rm, speakers)

	type expect struct {
		state bub.State
		out   [2]float64
	}
	expects := []expect{
		{bub.Head, [2]float64{0.1, 0.0}},
		{bub.Body, [2]float64{0.2, 0.0}},
		{bub.Head, [2]float64{0.3, 0.0}},
		{bub.Stopped, [2]float64{0.0, 0.0}},
		{bub.Head, [2]float64{0.4, 0.4}},
		{bub.Head, [2]float64{0.0, 1.0}},
		{bub.Ended, [2]float64{0.0, 0.0}},
		{bub.Ended, [2]float64{0.0, 0.0}},
	}

	for i, want := range expects {
		frame, err := rr.Next()
		if err != nil {
			t.Fatalf("frame %d: Next: %v", i+1, err)
		}
		if rm.BubState != want.state {
			t.Errorf("frame %d: state = %v, want %v", i+1, rm.BubState, want.state)
		}
		for s := range frame {
			if !approxEqual(frame[s].F64(), want.out[s]) {
				t.Errorf("frame %d speaker %d = %v, want %v", i+1, s, frame[s].F64(), want.out[s])
			}
		}
	}

	if _, err := rr.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after 8 frames, got %v", err)
	}
}

// TestScenarioBExpr reproduces the Expr worked example: two speakers
// at (0,0,0) and (0,0,1), with Body frames re-evaluating a Head
// frame's stored expression rather than reading new bytes.
func TestScenarioBExpr(t *testing.T) {
	m := bub.NewMetadata()
	m.Frames = 8
	m.SamplesPerSec = 96000
	m.LpcmKind = bub.F32LE
	m.BubSampleKind = bub.BubSampleKind{IsExpr: true}
	m.BubState = bub.Stopped
	m.NextHeadAbsoluteFrame = u64p(2)

	speakers := []space.Coord{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}}

	var buf bytes.Buffer
	wr := NewWriter[bub.F32](&buf, m, speakers)

	mustWriteExpr(t, wr, "") // frame 1: Stopped

	wr.BeginSegment("1 2 3 Z==1 0.1", 1, 3)
	mustWriteExpr(t, wr, "1")

	mustWriteExpr(t, wr, "") // frame 3: Stopped

	wr.BeginSegment("1 2 3 Z==1 1", 2, 3)
	mustWriteExpr(t, wr, "1/n")

	mustWriteExpr(t, wr, "") // frame 5: Body, reuses "1/n"

	wr.BeginSegment("1 2 3 Z<1 n", 1, 0)
	mustWriteExpr(t, wr, "0.1")

	mustWriteExpr(t, wr, "") // frame 7: Ended
	mustWriteExpr(t, wr, "") // frame 8: Ended

	rm := bub.NewMetadata()
	rm.Frames = 8
	rm.SamplesPerSec = 96000
	rm.LpcmKind = bub.F32LE
	rm.BubSampleKind = bub.BubSampleKind{IsExpr: true}
	rm.BubState = bub.Stopped
	rm.NextHeadAbsoluteFrame = u64p(2)
	rr := NewReader[bub.F32](bytes.NewReader(buf.Bytes()), rm, speakers)

	type expect struct {
		state bub.State
		out   [2]float64
	}
	expects := []expect{
		{bub.Stopped, [2]float64{0.0, 0.0}},
		{bub.Head, [2]float64{0.0, 0.1}},
		{bub.Stopped, [2]float64{0.0, 0.0}},
		{bub.Head, [2]float64{0.0, 1.0}},
		{bub.Body, [2]float64{0.0, 0.5}},
		{bub.Head, [2]float64{0.1, 0.0}},
		{bub.Ended, [2]float64{0.0, 0.0}},
		{bub.Ended, [2]float64{0.0, 0.0}},
	}

	for i, want := range expects {
		frame, err := rr.Next()
		if err != nil {
			t.Fatalf("frame %d: Next: %v", i+1, err)
		}
		if rm.BubState != want.state {
			t.Errorf("frame %d: state = %v, want %v", i+1, rm.BubState, want.state)
		}
		for s := range frame {
			if !approxEqual(frame[s].F64(), want.out[s]) {
				t.Errorf("frame %d speaker %d = %v, want %v", i+1, s, frame[s].F64(), want.out[s])
			}
		}
	}
}

func mustWriteSample(t *testing.T, wr *Writer[bub.F32], v float32) {
	t.Helper()
	if err := wr.WriteSample(bub.F32(v)); err != nil {
		t.Fatalf("WriteSample(%v): %v", v, err)
	}
}

func mustWriteExpr(t *testing.T, wr *Writer[bub.F32], expr string) {
	t.Helper()
	if err := wr.WriteExpr(expr); err != nil {
		t.Fatalf("WriteExpr(%q): %v", expr, err)
	}
}
