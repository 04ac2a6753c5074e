package space

import (
	"bytes"
	"testing"
)

func TestOaoSpaceVerticesCoord(t *testing.T) {
	s := NewOaoSpace()
	coords := s.VerticesCoord()
	if got, want := len(coords), 13*13*13; got != want {
		t.Fatalf("len(coords) = %d, want %d", got, want)
	}
	first := coords[0]
	if first.X != -1 || first.Y != -1 || first.Z != -1 {
		t.Errorf("first vertex = %+v, want (-1,-1,-1)", first)
	}
}

func TestSpeakersRoundTrip(t *testing.T) {
	want := Speakers{
		{X: 0, Y: 0, Z: 0},
		{X: 3, Y: 0, Z: 0},
		{X: -1.5, Y: 2.5, Z: 0.25},
	}

	var buf bytes.Buffer
	if err := WriteSpeakers(&buf, want); err != nil {
		t.Fatal(err)
	}

	got, err := ReadSpeakers(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("speaker %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
