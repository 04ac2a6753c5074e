package functions

// Match is one tuple's contribution at a given speaker: the gain
// value plus the environment that satisfied its predicate, so the
// caller can later re-evaluate an Expr segment's Sum AST under the
// same bindings (spec.md §4.2's "bound interpreter").
type Match struct {
	Gain float64
	Env  Env
}

// Volume walks the tuple list in definition order and, for each tuple
// whose predicate holds for the given absolute speaker coordinate
// (X, Y, Z) under the base environment base (n, N, T already
// populated by the caller), appends a Match. Returns nil if no tuple
// applied. This is spec.md §4.2's to_volume.
func (b BubFns) Volume(X, Y, Z float64, base Env) []Match {
	var matches []Match
	for _, t := range b.Tuples {
		// The bubble origin (bx, by, bz) is evaluated under the base
		// env, which at this point only has n/N/T/X/Y/Z populated
		// with the absolute speaker coordinate (the tuple's ex/ey/ez
		// never reference the relative x/y/z).
		originEnv := base
		originEnv.XCap, originEnv.YCap, originEnv.ZCap = X, Y, Z
		bx := originEnv.EvalSum(t.OriginX)
		by := originEnv.EvalSum(t.OriginY)
		bz := originEnv.EvalSum(t.OriginZ)

		env := base
		env.X, env.Y, env.Z = X-bx, Y-by, Z-bz
		env.XCap, env.YCap, env.ZCap = X, Y, Z

		if env.EvalPred(t.Pred) {
			matches = append(matches, Match{Gain: env.EvalSum(t.Gain), Env: env})
		}
	}
	return matches
}
