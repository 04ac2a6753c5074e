// Package wavio is the bubble codec's one external collaborator: it
// turns a stream of mixed per-speaker frames into a WAV file, and can
// read one back. Wraps github.com/go-audio/wav and
// github.com/go-audio/audio rather than hand-rolling RIFF chunk
// parsing, the way the teacher's codec/wav package wraps its own
// container work in a narrow adapter.
package wavio

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// Writer streams mixed bubble frames out as a WAV file, one call to
// WriteFrame per frame.
type Writer struct {
	enc      *wav.Encoder
	channels int
	scale    float64
}

// NewWriter opens a PCM WAV encoder. bitDepth must be 16, 24, or 32;
// samples passed to WriteFrame are expected in [-1, 1] and are scaled
// to the encoder's integer range.
func NewWriter(w io.WriteSeeker, sampleRate, bitDepth, channels int) (*Writer, error) {
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, errors.Errorf("wavio: unsupported bit depth %d", bitDepth)
	}
	return &Writer{
		enc:      wav.NewEncoder(w, sampleRate, bitDepth, channels, 1),
		channels: channels,
		scale:    float64(int64(1)<<(bitDepth-1) - 1),
	}, nil
}

// WriteFrame writes one frame, one sample per channel.
func (wr *Writer) WriteFrame(samples []float64) error {
	if len(samples) != wr.channels {
		return errors.Errorf("wavio: frame has %d channels, encoder wants %d", len(samples), wr.channels)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: wr.channels, SampleRate: wr.enc.SampleRate},
		Data:           make([]int, wr.channels),
		SourceBitDepth: int(wr.enc.BitDepth),
	}
	for i, s := range samples {
		buf.Data[i] = int(s * wr.scale)
	}
	return wr.enc.Write(buf)
}

// Close finalizes the RIFF/data chunk sizes. Must be called once
// every frame has been written.
func (wr *Writer) Close() error {
	return wr.enc.Close()
}

// Metadata is the subset of a WAV file's fmt chunk the codec cares
// about when reading one back.
type Metadata struct {
	Frames        int
	Channels      int
	SamplesPerSec int
	BitsPerSample int
}

// ReadMetadata parses a WAV file's RIFF/fmt header via
// github.com/go-audio/wav, without decoding any sample data.
func ReadMetadata(r io.ReadSeeker) (Metadata, error) {
	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return Metadata{}, errors.Wrap(err, "wavio: read wav header")
	}
	if !dec.IsValidFile() {
		return Metadata{}, errors.New("wavio: not a valid WAV file")
	}
	duration, err := dec.Duration()
	if err != nil {
		return Metadata{}, errors.Wrap(err, "wavio: compute duration")
	}
	frames := int(duration.Seconds() * float64(dec.SampleRate))
	return Metadata{
		Frames:        frames,
		Channels:      int(dec.NumChans),
		SamplesPerSec: int(dec.SampleRate),
		BitsPerSample: int(dec.BitDepth),
	}, nil
}
