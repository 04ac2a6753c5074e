package space

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// OaoSpace is a single authored spatial grid of loudspeaker vertices,
// grounded on original_source/src/space.rs's OaoSpace.
type OaoSpace struct {
	VertexSpacing float32
	Start         float32
	Range         int
	Vertices      []Coord
}

// NewOaoSpace returns the default -1.2..1.2 (0.2 spacing) grid that
// original_source/src/space.rs::OaoSpace::new produces.
func NewOaoSpace() OaoSpace {
	return OaoSpace{
		VertexSpacing: 0.2,
		Start:         -1.2,
		Range:         13,
	}
}

// VerticesCoord returns the grid's vertex coordinates normalized to
// -1.0..1.0, exactly as OaoSpace::vertices_coord does.
func (s OaoSpace) VerticesCoord() []Coord {
	coords := make([]Coord, 0, s.Range*s.Range*s.Range)
	denom := float64(math.Abs(float64(s.Start)))
	for xi := 0; xi < s.Range; xi++ {
		x := float64(xi)*float64(s.VertexSpacing) + float64(s.Start)
		for yi := 0; yi < s.Range; yi++ {
			y := float64(yi)*float64(s.VertexSpacing) + float64(s.Start)
			for zi := 0; zi < s.Range; zi++ {
				z := float64(zi)*float64(s.VertexSpacing) + float64(s.Start)
				coords = append(coords, Coord{X: x / denom, Y: y / denom, Z: z / denom})
			}
		}
	}
	return coords
}

// OaoSpaces is a sequence of OaoSpace grids separated by a fixed
// number of frames, grounded on original_source/src/space.rs's
// OaoSpaces.
type OaoSpaces struct {
	FramesBetweenSpaces uint64
	VertexSpacing       float32
	Start               float32
	Range               int
	Spaces              []OaoSpace
}

// NewOaoSpaces returns the default parameters OaoSpaces::new sets.
func NewOaoSpaces() OaoSpaces {
	return OaoSpaces{
		FramesBetweenSpaces: 3200,
		VertexSpacing:       0.2,
		Start:               -1.2,
		Range:               13,
	}
}

// Speakers is the fixed loudspeaker array a bubble stream is decoded
// against: one absolute Coord per output channel, in channel order.
//
// This is the authored-layout counterpart of OaoSpace's regular grid:
// a bubble decode almost never targets every grid vertex, only the
// handful of positions speakers actually occupy.
type Speakers []Coord

// ReadSpeakers loads a speaker layout file: a little-endian uint32
// count followed by that many (f32, f32, f32) coordinate triples.
func ReadSpeakers(r io.Reader) (Speakers, error) {
	var countBuf [4]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, errors.Wrap(err, "space: read speaker count")
	}
	count := binary.LittleEndian.Uint32(countBuf[:])

	speakers := make(Speakers, count)
	var coordBuf [12]byte
	for i := range speakers {
		if _, err := io.ReadFull(r, coordBuf[:]); err != nil {
			return nil, errors.Wrapf(err, "space: read speaker %d", i)
		}
		speakers[i] = Coord{
			X: float64(math.Float32frombits(binary.LittleEndian.Uint32(coordBuf[0:4]))),
			Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(coordBuf[4:8]))),
			Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(coordBuf[8:12]))),
		}
	}
	return speakers, nil
}

// WriteSpeakers writes a speaker layout in the format ReadSpeakers
// reads back.
func WriteSpeakers(w io.Writer, speakers Speakers) error {
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(speakers)))
	if _, err := w.Write(countBuf[:]); err != nil {
		return errors.Wrap(err, "space: write speaker count")
	}

	var coordBuf [12]byte
	for _, c := range speakers {
		binary.LittleEndian.PutUint32(coordBuf[0:4], math.Float32bits(float32(c.X)))
		binary.LittleEndian.PutUint32(coordBuf[4:8], math.Float32bits(float32(c.Y)))
		binary.LittleEndian.PutUint32(coordBuf[8:12], math.Float32bits(float32(c.Z)))
		if _, err := w.Write(coordBuf[:]); err != nil {
			return errors.Wrap(err, "space: write speaker")
		}
	}
	return nil
}
