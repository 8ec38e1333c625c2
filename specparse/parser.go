package specparse

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/paramsynth/guardsynth/ast"
	"github.com/paramsynth/guardsynth/signal"
)

// declaredSignal is one token from an [INPUT_VARIABLES]/[OUTPUT_VARIABLES]
// line: the base name and the template it belongs to (e.g. "r_0" ->
// name "r", template 0).
type declaredSignal struct {
	name     string
	template int
}

// formulaParser walks the token stream of one [ASSUMPTIONS]/[GUARANTEES]
// statement, building the ast.Expr tree. Grammar, tightest-binding first:
// atom/parenthesized/G()/F()/X()/U()/!() , then '*' (and), then '+' (or),
// then '->' (implication, right-associative).
type formulaParser struct {
	toks     []token
	pos      int
	declared map[string]declaredSignal
}

func parseFormula(stmt string, declared map[string]declaredSignal) (ast.ForallExpr, error) {
	toks, err := lex(stmt)
	if err != nil {
		return ast.ForallExpr{}, err
	}
	p := &formulaParser{toks: toks, declared: declared}

	forall, err := p.parseForall()
	if err != nil {
		return ast.ForallExpr{}, err
	}
	if p.peek().kind != tokEOF {
		return ast.ForallExpr{}, wrap("parseFormula", ErrUnexpectedToken)
	}
	return forall, nil
}

func (p *formulaParser) peek() token { return p.toks[p.pos] }

func (p *formulaParser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *formulaParser) expect(kind tokenKind) (token, error) {
	t := p.peek()
	if t.kind != kind {
		return token{}, wrap("expect", ErrUnexpectedToken)
	}
	return p.advance(), nil
}

func (p *formulaParser) expectIdent(text string) error {
	t := p.peek()
	if t.kind != tokIdent || t.text != text {
		return wrap(fmt.Sprintf("expectIdent(%q)", text), ErrUnexpectedToken)
	}
	p.advance()
	return nil
}

// parseForall parses "Forall (i[,j]) <expr>".
func (p *formulaParser) parseForall() (ast.ForallExpr, error) {
	if err := p.expectIdent("Forall"); err != nil {
		return ast.ForallExpr{}, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return ast.ForallExpr{}, err
	}

	var binding []string
	name, err := p.expect(tokIdent)
	if err != nil {
		return ast.ForallExpr{}, err
	}
	binding = append(binding, name.text)
	for p.peek().kind == tokComma {
		p.advance()
		name, err := p.expect(tokIdent)
		if err != nil {
			return ast.ForallExpr{}, err
		}
		binding = append(binding, name.text)
	}
	if _, err := p.expect(tokRParen); err != nil {
		return ast.ForallExpr{}, err
	}

	inner, err := p.parseImplies()
	if err != nil {
		return ast.ForallExpr{}, err
	}

	sorted := append([]string(nil), binding...)
	sort.Strings(sorted)
	return ast.NewForall(inner, sorted...), nil
}

func (p *formulaParser) parseImplies() (ast.Expr, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokArrow {
		p.advance()
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		return ast.Implies(left, right), nil
	}
	return left, nil
}

func (p *formulaParser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokPlus {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.Or(left, right)
	}
	return left, nil
}

func (p *formulaParser) parseAnd() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokStar {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.And(left, right)
	}
	return left, nil
}

// parseUnary handles the function-call-style temporal/negation operators
// (G(...), F(...), X(...), U(...,...), !(...)), falling through to a
// parenthesized sub-expression or a bare atom.
func (p *formulaParser) parseUnary() (ast.Expr, error) {
	t := p.peek()

	if t.kind == tokBang {
		p.advance()
		arg, err := p.parseParenOrUnary()
		if err != nil {
			return nil, err
		}
		return ast.Not(arg), nil
	}

	if t.kind == tokIdent {
		switch t.text {
		case "G":
			p.advance()
			arg, err := p.parseParenExpr()
			if err != nil {
				return nil, err
			}
			return ast.G(arg), nil
		case "F":
			p.advance()
			arg, err := p.parseParenExpr()
			if err != nil {
				return nil, err
			}
			return ast.F(arg), nil
		case "X":
			p.advance()
			arg, err := p.parseParenExpr()
			if err != nil {
				return nil, err
			}
			return ast.UnaryOp{Op: ast.OpX, Arg: arg}, nil
		case "U":
			p.advance()
			if _, err := p.expect(tokLParen); err != nil {
				return nil, err
			}
			left, err := p.parseImplies()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokComma); err != nil {
				return nil, err
			}
			right, err := p.parseImplies()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRParen); err != nil {
				return nil, err
			}
			return ast.BinOp{Op: ast.OpU, Arg1: left, Arg2: right}, nil
		}
	}

	return p.parsePrimary()
}

// parseParenOrUnary accepts either a parenthesized expression or another
// unary term, so "!x" (no parens) parses the same as "!(x)".
func (p *formulaParser) parseParenOrUnary() (ast.Expr, error) {
	if p.peek().kind == tokLParen {
		return p.parseParenExpr()
	}
	return p.parseUnary()
}

func (p *formulaParser) parseParenExpr() (ast.Expr, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	e, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *formulaParser) parsePrimary() (ast.Expr, error) {
	if p.peek().kind == tokLParen {
		return p.parseParenExpr()
	}
	return p.parseAtom()
}

// parseAtom parses a bare signal reference or a "signal=0"/"signal=1"
// equality test, the only atomic form the bundled examples use (a
// boolean-valued signal compared against its two possible values).
func (p *formulaParser) parseAtom() (ast.Expr, error) {
	id, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	sig, err := resolveSignal(p.declared, id.text)
	if err != nil {
		return nil, err
	}

	if p.peek().kind == tokEquals {
		p.advance()
		num, err := p.expect(tokNumber)
		if err != nil {
			return nil, err
		}
		v, err := strconv.Atoi(num.text)
		if err != nil {
			return nil, wrap("parseAtom", ErrMalformedFormula)
		}
		if v == 0 {
			return ast.Not(ast.NewSignal(sig)), nil
		}
		return ast.NewSignal(sig), nil
	}

	return ast.NewSignal(sig), nil
}

// resolveSignal maps an identifier like "r_0_i" to the signal.Signal it
// denotes: the longest declared base key ("r_0") that prefixes ident
// determines the base name and template; any remaining suffix is either
// a concrete instance number ("r_0_3" -> signal.Instance) or an unbound
// index-variable name ("r_0_i" -> signal.QuantifiedTemplate).
func resolveSignal(declared map[string]declaredSignal, ident string) (signal.Signal, error) {
	keys := make([]string, 0, len(declared))
	for k := range declared {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	for _, key := range keys {
		d := declared[key]
		if ident == key {
			return signal.NewTemplate(d.name, d.template), nil
		}
		prefix := key + "_"
		if strings.HasPrefix(ident, prefix) {
			rest := ident[len(prefix):]
			if rest == "" || strings.Contains(rest, "_") {
				continue
			}
			if n, err := strconv.Atoi(rest); err == nil {
				return signal.NewInstance(d.name, d.template, n), nil
			}
			return signal.NewQuantifiedTemplate(d.name, d.template, rest), nil
		}
	}
	return nil, wrap(fmt.Sprintf("resolveSignal(%q)", ident), ErrUnknownSignal)
}
