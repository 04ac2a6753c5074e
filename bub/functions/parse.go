package functions

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Variable selects which of the two grammars Parse should expect.
type Variable uint8

const (
	// VariableSum parses a single Sum expression, used for an Expr
	// segment's symbolic sample source.
	VariableSum Variable = iota
	// VariableBubFns parses a whitespace-separated list of
	// (ex ey ez pred gain) tuples, used for a segment header.
	VariableBubFns
)

// ErrParse is wrapped with context by Parse on any syntax error; the
// caller (bub/io) surfaces this as bub.ErrInvalidData.
var ErrParse = errors.New("functions: parse error")

// Parse parses src per kind, returning either a BubFns or a Sum boxed
// in the AST interface.
func Parse(src []byte, kind Variable) (AST, error) {
	switch kind {
	case VariableSum:
		sum, err := parseSumWord(strings.TrimSpace(string(src)))
		if err != nil {
			return nil, err
		}
		return sum, nil
	case VariableBubFns:
		return parseBubFns(string(src))
	default:
		return nil, errors.Wrap(ErrParse, "functions: unknown grammar")
	}
}

// AST boxes either a Sum or a BubFns result from Parse.
type AST interface {
	isAST()
}

func (Sum) isAST()    {}
func (BubFns) isAST() {}

func parseBubFns(text string) (BubFns, error) {
	words := strings.Fields(text)
	if len(words)%5 != 0 {
		return BubFns{}, errors.Wrapf(ErrParse, "functions: BubFns word count %d not a multiple of 5", len(words))
	}
	var b BubFns
	for i := 0; i < len(words); i += 5 {
		ex, err := parseSumWord(words[i])
		if err != nil {
			return BubFns{}, err
		}
		ey, err := parseSumWord(words[i+1])
		if err != nil {
			return BubFns{}, err
		}
		ez, err := parseSumWord(words[i+2])
		if err != nil {
			return BubFns{}, err
		}
		pred, err := parsePredWord(words[i+3])
		if err != nil {
			return BubFns{}, err
		}
		gain, err := parseSumWord(words[i+4])
		if err != nil {
			return BubFns{}, err
		}
		b.Tuples = append(b.Tuples, Tuple{
			OriginX: ex, OriginY: ey, OriginZ: ez,
			Pred: pred,
			Gain: gain,
		})
	}
	return b, nil
}

// tokKind and token implement a minimal tokenizer for a single
// whitespace-free Sum/Pred word.
type tokKind uint8

const (
	tokNumber tokKind = iota
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokKind
	num  float64
	id   string
}

func tokenizeSum(s string) ([]token, error) {
	var toks []token
	r := []rune(s)
	i := 0
	for i < len(r) {
		c := r[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '+':
			toks = append(toks, token{kind: tokPlus})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus})
			i++
		case c == '*':
			toks = append(toks, token{kind: tokStar})
			i++
		case c == '/':
			toks = append(toks, token{kind: tokSlash})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen})
			i++
		case unicode.IsDigit(c) || c == '.':
			j := i
			for j < len(r) && (unicode.IsDigit(r[j]) || r[j] == '.') {
				j++
			}
			v, err := strconv.ParseFloat(string(r[i:j]), 64)
			if err != nil {
				return nil, errors.Wrapf(ErrParse, "functions: bad number %q", string(r[i:j]))
			}
			toks = append(toks, token{kind: tokNumber, num: v})
			i = j
		case unicode.IsLetter(c):
			j := i
			for j < len(r) && unicode.IsLetter(r[j]) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, id: string(r[i:j])})
			i = j
		default:
			return nil, errors.Wrapf(ErrParse, "functions: unexpected character %q", c)
		}
	}
	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}

// sumParser is a small recursive-descent/precedence-climbing parser
// over a fixed token slice.
type sumParser struct {
	toks []token
	pos  int
}

func (p *sumParser) peek() token { return p.toks[p.pos] }
func (p *sumParser) next() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *sumParser) parseExpr() (*Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = &Node{Kind: KindBinary, Op: Add, Left: left, Right: right}
		case tokMinus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = &Node{Kind: KindBinary, Op: Sub, Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *sumParser) parseTerm() (*Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &Node{Kind: KindBinary, Op: Mul, Left: left, Right: right}
		case tokSlash:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &Node{Kind: KindBinary, Op: Div, Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *sumParser) parseUnary() (*Node, error) {
	if p.peek().kind == tokMinus {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindUnary, Op: Neg, Left: operand}, nil
	}
	if p.peek().kind == tokPlus {
		p.next()
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *sumParser) parsePrimary() (*Node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &Node{Kind: KindNumber, Number: t.num}, nil
	case tokIdent:
		v, ok := varNames[t.id]
		if !ok {
			return nil, errors.Wrapf(ErrParse, "functions: unknown variable %q", t.id)
		}
		return &Node{Kind: KindVar, Var: v}, nil
	case tokLParen:
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, errors.Wrap(ErrParse, "functions: expected )")
		}
		p.next()
		return n, nil
	default:
		return nil, errors.Wrap(ErrParse, "functions: unexpected token")
	}
}

func parseSumWord(word string) (Sum, error) {
	toks, err := tokenizeSum(word)
	if err != nil {
		return Sum{}, err
	}
	p := &sumParser{toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return Sum{}, err
	}
	if p.peek().kind != tokEOF {
		return Sum{}, errors.Wrapf(ErrParse, "functions: trailing input in %q", word)
	}
	return Sum{Root: root}, nil
}

// comparators, longest-match first so "<=" is not mistaken for "<".
var comparators = []struct {
	sym string
	op  Op
}{
	{"==", Eq}, {"!=", Ne}, {"<=", Le}, {">=", Ge}, {"<", Lt}, {">", Gt},
}

func parsePredWord(word string) (Pred, error) {
	for _, c := range comparators {
		if idx := strings.Index(word, c.sym); idx >= 0 {
			leftSum, err := parseSumWord(word[:idx])
			if err != nil {
				return Pred{}, err
			}
			rightSum, err := parseSumWord(word[idx+len(c.sym):])
			if err != nil {
				return Pred{}, err
			}
			return Pred{Op: c.op, Left: leftSum.Root, Right: rightSum.Root}, nil
		}
	}
	return Pred{}, errors.Wrapf(ErrParse, "functions: no comparator in predicate %q", word)
}
