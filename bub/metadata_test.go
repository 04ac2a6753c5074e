package bub

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func u64p(v uint64) *uint64 { return &v }

func TestMetadataWriteReadRoundTrip(t *testing.T) {
	m := NewMetadata()
	m.SpecVersion = 0
	m.BubID = NewID(0)
	m.BubVersion = 0
	m.Frames = 96000
	m.SamplesPerSec = 96000.0
	m.LpcmKind = F32LE
	m.BubSampleKind = BubSampleKind{}
	m.Name = "Vocal"
	m.BubState = Stopped
	m.NextHeadAbsoluteFrame = u64p(1)

	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := ReadMetadata(&buf)
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}

	// CRC is excluded: *crcenv.Engine carries unexported accumulator
	// state cmp can't compare, and it's checked separately below.
	if diff := cmp.Diff(m, got, cmpopts.IgnoreFields(Metadata{}, "CRC")); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	if got.NextHeadAbsoluteFrame == nil || *got.NextHeadAbsoluteFrame != 1 {
		t.Fatalf("NextHeadAbsoluteFrame = %v, want 1", got.NextHeadAbsoluteFrame)
	}
	if *got.CRC != *m.CRC {
		t.Fatal("expected reader and writer CRC engines to be reseeded with the same header trailer")
	}
}

func TestMetadataNameTooLong(t *testing.T) {
	m := NewMetadata()
	m.Name = string(make([]byte, 256))
	var buf bytes.Buffer
	if err := m.Write(&buf); err == nil {
		t.Fatal("expected error for name longer than 255 bytes")
	}
}

func TestMetadataCorruptHeaderCrcFails(t *testing.T) {
	m := NewMetadata()
	m.Name = "x"
	m.NextHeadAbsoluteFrame = u64p(1)

	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b := buf.Bytes()
	b[len(b)-1] ^= 0xFF

	if _, err := ReadMetadata(bytes.NewReader(b)); err == nil {
		t.Fatal("expected crc mismatch error")
	}
}

func TestInitWithPosEntersHeadThenBody(t *testing.T) {
	m := NewMetadata()
	m.NextHeadAbsoluteFrame = u64p(1)
	m.FootAbsoluteFramePlusOne = 3

	m.InitWithPos(1)
	if m.BubState != Head || m.HeadAbsoluteFrame != 1 {
		t.Fatalf("frame 1: state=%v head=%d, want Head/1", m.BubState, m.HeadAbsoluteFrame)
	}
	if n := m.RelativeFrame(1); n != 1 {
		t.Errorf("RelativeFrame(1) = %v, want 1", n)
	}

	m.InitWithPos(2)
	if m.BubState != Body {
		t.Fatalf("frame 2: state=%v, want Body", m.BubState)
	}
	if n := m.RelativeFrame(2); n != 2 {
		t.Errorf("RelativeFrame(2) = %v, want 2", n)
	}
}
