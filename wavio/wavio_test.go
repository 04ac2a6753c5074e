package wavio

import (
	"bytes"
	"io"
	"testing"

	"github.com/pkg/errors"
)

// memSeeker adapts a []byte to io.ReadWriteSeeker for tests, since
// github.com/go-audio/wav requires seekable output to patch the RIFF
// chunk sizes on Close.
type memSeeker struct {
	buf []byte
	pos int64
}

func (m *memSeeker) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.pos:end], p)
	m.pos = end
	return n, nil
}

func (m *memSeeker) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memSeeker) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.pos
	case io.SeekEnd:
		base = int64(len(m.buf))
	default:
		return 0, errors.Errorf("memSeeker: invalid whence %d", whence)
	}
	m.pos = base + offset
	return m.pos, nil
}

func TestWriterWritesPlayableFile(t *testing.T) {
	dst := &memSeeker{}
	wr, err := NewWriter(dst, 48000, 16, 2)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := wr.WriteFrame([]float64{0.5, -0.5}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if err := wr.WriteFrame([]float64{0, 0}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if err := wr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	meta, err := ReadMetadata(bytes.NewReader(dst.buf))
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if meta.Channels != 2 {
		t.Errorf("Channels = %d, want 2", meta.Channels)
	}
	if meta.SamplesPerSec != 48000 {
		t.Errorf("SamplesPerSec = %d, want 48000", meta.SamplesPerSec)
	}
	if meta.BitsPerSample != 16 {
		t.Errorf("BitsPerSample = %d, want 16", meta.BitsPerSample)
	}
}

func TestWriterRejectsWrongChannelCount(t *testing.T) {
	dst := &memSeeker{}
	wr, err := NewWriter(dst, 48000, 16, 2)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := wr.WriteFrame([]float64{0.5}); err == nil {
		t.Fatal("expected error for wrong channel count")
	}
}

func TestNewWriterRejectsUnsupportedBitDepth(t *testing.T) {
	dst := &memSeeker{}
	if _, err := NewWriter(dst, 48000, 8, 1); err == nil {
		t.Fatal("expected error for unsupported bit depth")
	}
}
