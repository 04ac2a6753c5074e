package bub

// State is a bubble stream's per-frame position within its current
// segment. See spec.md §4.3 and the GLOSSARY for the meaning of each
// value.
type State uint8

const (
	Head State = iota
	Body
	Stopped
	Ended
)

func (s State) String() string {
	switch s {
	case Head:
		return "Head"
	case Body:
		return "Body"
	case Stopped:
		return "Stopped"
	case Ended:
		return "Ended"
	default:
		return "Invalid"
	}
}

// transition holds exactly the fields spec.md §9 says the state
// machine must be a pure function of, kept separate from the
// byte-consuming logic that bub/io selects off the resulting state.
type transition struct {
	state                    State
	pos                      uint64
	footAbsoluteFramePlusOne uint64
	nextHeadAbsoluteFrame    *uint64
}

// step computes the next state (and, when entering Head, the new
// headAbsoluteFrame) for one frame's advance, per the table in
// spec.md §4.3. It has no side effects beyond its return values.
func step(t transition) (next State, headAbsoluteFrame uint64) {
	boundary := func() (State, uint64) {
		if t.nextHeadAbsoluteFrame == nil {
			return Ended, 0
		}
		if *t.nextHeadAbsoluteFrame == t.pos {
			return Head, t.pos
		}
		return Stopped, 0
	}

	switch t.state {
	case Head, Body:
		if t.footAbsoluteFramePlusOne == t.pos {
			return boundary()
		}
		return Body, 0
	case Stopped:
		if t.nextHeadAbsoluteFrame != nil && *t.nextHeadAbsoluteFrame == t.pos {
			return Head, t.pos
		}
		return Stopped, 0
	case Ended:
		return Ended, 0
	default:
		return Ended, 0
	}
}
