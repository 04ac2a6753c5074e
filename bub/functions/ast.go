// Package functions implements the Bub-Fns domain-specific function
// language: the Sum scalar expression grammar used both as a gain/
// predicate sub-expression and as the symbolic sample source for Expr
// segments, and the BubFns tuple-list grammar that gates which
// speakers a bubble segment contributes to.
//
// Grounded on spec.md §4.2/§6; the teacher has no DSL of its own, so
// the AST shape and recursive-descent parser here are new code
// written in the plain, struct-per-node style the teacher's other
// hand-rolled parsers use (e.g. codec/h264/h264dec's bitstream
// readers, codec/jpeg's lexer).
package functions

// Op is an arithmetic or comparison operator.
type Op uint8

const (
	Add Op = iota
	Sub
	Mul
	Div
	Neg // unary minus

	Eq
	Ne
	Lt
	Le
	Gt
	Ge
)

// NodeKind tags the variant a Node holds.
type NodeKind uint8

const (
	KindNumber NodeKind = iota
	KindVar
	KindBinary
	KindUnary
)

// Var names a variable of the shared environment (spec.md §4.2).
type Var uint8

const (
	VarN Var = iota // frame index within the current segment (1-based)
	// VarNCap is the uppercase N binding. original_source/src/bub/io/
	// frame_reader.rs's read_lpcm_frames fixture feeds "0.1*N" as a
	// segment's gain expression and expects 0.1 on the segment's first
	// frame, 0.2 on its second — values that only come out right if N
	// is the same frame-relative index n is, never the stream's total
	// frame count (which is constant across those two frames and would
	// give 0.8 both times). See env.go's Env.NCap doc comment.
	VarNCap
	VarX
	VarY
	VarZ
	VarXCap
	VarYCap
	VarZCap
	VarT
)

var varNames = map[string]Var{
	"n": VarN, "N": VarNCap,
	"x": VarX, "y": VarY, "z": VarZ,
	"X": VarXCap, "Y": VarYCap, "Z": VarZCap,
	"T": VarT,
}

// Node is a tagged arithmetic/predicate expression tree node, owned
// by value: re-evaluating a Sum AST across every frame of a segment
// never mutates it (spec.md §9).
type Node struct {
	Kind   NodeKind
	Number float64
	Var    Var
	Op     Op
	Left   *Node
	Right  *Node // nil for unary nodes
}

// Sum is a scalar arithmetic expression tree (spec.md's "BubFnsAST (Sum)").
type Sum struct {
	Root *Node
}

// Pred is a boolean predicate expression tree: a comparison of two
// Sum sub-expressions, e.g. "X<3" or "0==0".
type Pred struct {
	Op    Op
	Left  *Node
	Right *Node
}

// Tuple is one (ex, ey, ez, pred, gain) entry of a BubFns list.
type Tuple struct {
	OriginX, OriginY, OriginZ Sum
	Pred                      Pred
	Gain                      Sum
}

// BubFns is the ordered tuple list a Head segment header carries.
type BubFns struct {
	Tuples []Tuple
}
