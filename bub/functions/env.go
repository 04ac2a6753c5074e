package functions

import "math"

// Env is the "bound interpreter" spec.md §4.2/§9 describes: a struct
// carrying the numeric bindings that satisfied a tuple's predicate,
// closing over nothing but plain values so it can be copied freely.
//
// NCap (uppercase N) is set to the same value as N (the 1-based frame
// index within the current segment), not the stream's total frame
// count the spec.md GLOSSARY's prose names. The GLOSSARY reading is
// falsified by original_source/src/bub/io/frame_reader.rs's own
// read_lpcm_frames test fixture: it feeds "0.1*N" as a segment's gain
// expression over two consecutive frames of an 8-frame stream and
// expects 0.1 then 0.2 — values total-frame-count (constant at 8
// across both frames) can never produce, but which fall straight out
// of N tracking the frame-relative index the way n does.
type Env struct {
	N, NCap          float64
	X, Y, Z          float64
	XCap, YCap, ZCap float64
	T                float64
}

func (e Env) value(v Var) float64 {
	switch v {
	case VarN:
		return e.N
	case VarNCap:
		return e.NCap
	case VarX:
		return e.X
	case VarY:
		return e.Y
	case VarZ:
		return e.Z
	case VarXCap:
		return e.XCap
	case VarYCap:
		return e.YCap
	case VarZCap:
		return e.ZCap
	case VarT:
		return e.T
	default:
		return math.NaN()
	}
}

// EvalNode evaluates a single expression node under e. Division by
// zero follows IEEE-754 (±Inf or NaN); the evaluator is pure.
func (e Env) EvalNode(n *Node) float64 {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case KindNumber:
		return n.Number
	case KindVar:
		return e.value(n.Var)
	case KindUnary:
		if n.Op == Neg {
			return -e.EvalNode(n.Left)
		}
		return e.EvalNode(n.Left)
	case KindBinary:
		l, r := e.EvalNode(n.Left), e.EvalNode(n.Right)
		switch n.Op {
		case Add:
			return l + r
		case Sub:
			return l - r
		case Mul:
			return l * r
		case Div:
			return l / r
		default:
			return math.NaN()
		}
	default:
		return math.NaN()
	}
}

// EvalSum evaluates a Sum expression tree to a real number.
func (e Env) EvalSum(s Sum) float64 {
	return e.EvalNode(s.Root)
}

// EvalPred evaluates a Pred tree to a boolean. Comparisons against
// NaN are always false.
func (e Env) EvalPred(p Pred) bool {
	l, r := e.EvalNode(p.Left), e.EvalNode(p.Right)
	if math.IsNaN(l) || math.IsNaN(r) {
		return false
	}
	switch p.Op {
	case Eq:
		return l == r
	case Ne:
		return l != r
	case Lt:
		return l < r
	case Le:
		return l <= r
	case Gt:
		return l > r
	case Ge:
		return l >= r
	default:
		return false
	}
}
