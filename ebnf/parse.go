package ebnf

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/llgen/grammar"
)

// ParseError reports a malformed declaration. Line/Col are 1-based.
type ParseError struct {
	Line, Col int
	Msg       string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ebnf: %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parse lexes and parses src as a spec §6 EBNF declaration, returning a
// grammar.Decl ready for grammar.Normalize.
func Parse(src string) (grammar.Decl, error) {
	toks, err := lex(src)
	if err != nil {
		return grammar.Decl{}, err
	}
	p := &parser{toks: toks}
	decl, err := p.parseDeclaration()
	if err != nil {
		return grammar.Decl{}, err
	}
	return decl, nil
}

// MustParse is Parse's panicking convenience form, mirroring
// grammar.MustParseLR0Item.
func MustParse(src string) grammar.Decl {
	decl, err := Parse(src)
	if err != nil {
		panic(err.Error())
	}
	return decl
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) next() token { t := p.toks[p.pos]; p.pos++; return t }

func (p *parser) errf(format string, args ...any) error {
	t := p.cur()
	return &ParseError{Line: t.line, Col: t.col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(k tokenKind) (token, error) {
	if p.cur().kind != k {
		return token{}, p.errf("expected %s, found %s %q", k, p.cur().kind, p.cur().text)
	}
	return p.next(), nil
}

// expectName expects a Name token whose text is exactly want (for the
// header's "start"/"k"/"terminal" keywords, which are plain Names in the
// grammar above, not reserved words of the lexer).
func (p *parser) expectName(want string) error {
	if p.cur().kind != tokName || p.cur().text != want {
		return p.errf("expected %q, found %s %q", want, p.cur().kind, p.cur().text)
	}
	p.next()
	return nil
}

func (p *parser) parseDeclaration() (grammar.Decl, error) {
	decl := grammar.Decl{}

	if err := p.expectName("start"); err != nil {
		return decl, err
	}
	if _, err := p.expect(tokEq); err != nil {
		return decl, err
	}
	startTok, err := p.expect(tokName)
	if err != nil {
		return decl, err
	}
	decl.Start = startTok.text
	if _, err := p.expect(tokSemi); err != nil {
		return decl, err
	}

	if err := p.expectName("k"); err != nil {
		return decl, err
	}
	if _, err := p.expect(tokEq); err != nil {
		return decl, err
	}
	kTok, err := p.expect(tokInt)
	if err != nil {
		return decl, err
	}
	k, err := strconv.Atoi(kTok.text)
	if err != nil {
		return decl, p.errf("invalid integer %q", kTok.text)
	}
	decl.K = k
	if _, err := p.expect(tokSemi); err != nil {
		return decl, err
	}

	if err := p.expectName("terminal"); err != nil {
		return decl, err
	}
	if _, err := p.expect(tokEq); err != nil {
		return decl, err
	}
	firstTerm, err := p.expect(tokName)
	if err != nil {
		return decl, err
	}
	decl.Terminals = append(decl.Terminals, firstTerm.text)
	for p.cur().kind == tokComma {
		p.next()
		termTok, err := p.expect(tokName)
		if err != nil {
			return decl, err
		}
		decl.Terminals = append(decl.Terminals, termTok.text)
	}
	if _, err := p.expect(tokSemi); err != nil {
		return decl, err
	}

	for p.cur().kind == tokName {
		rule, err := p.parseRule()
		if err != nil {
			return decl, err
		}
		decl.Rules = append(decl.Rules, rule)
	}

	if _, err := p.expect(tokEOF); err != nil {
		return decl, err
	}

	return decl, nil
}

func (p *parser) parseRule() (grammar.Rule, error) {
	nameTok, err := p.expect(tokName)
	if err != nil {
		return grammar.Rule{}, err
	}
	if _, err := p.expect(tokColon); err != nil {
		return grammar.Rule{}, err
	}

	alts, err := p.parseAlternations(tokSemi)
	if err != nil {
		return grammar.Rule{}, err
	}
	if _, err := p.expect(tokSemi); err != nil {
		return grammar.Rule{}, err
	}

	return grammar.Rule{Name: nameTok.text, Alts: alts}, nil
}

// parseAlternations parses `alternation ( "|" alternation )*`, stopping
// before the given terminator token (without consuming it).
func (p *parser) parseAlternations(terminator tokenKind) ([]grammar.Alt, error) {
	var alts []grammar.Alt
	alt, err := p.parseAlternation(terminator)
	if err != nil {
		return nil, err
	}
	alts = append(alts, alt)
	for p.cur().kind == tokPipe {
		p.next()
		alt, err := p.parseAlternation(terminator)
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
	}
	return alts, nil
}

func isFactorStart(k tokenKind) bool {
	switch k {
	case tokName, tokLParen, tokLBrace, tokLBrack:
		return true
	default:
		return false
	}
}

func (p *parser) parseAlternation(terminator tokenKind) (grammar.Alt, error) {
	var alt grammar.Alt
	for isFactorStart(p.cur().kind) {
		f, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		alt = append(alt, f)
	}
	if p.cur().kind != tokPipe && p.cur().kind != terminator {
		return nil, p.errf("expected a factor, %s, or %s, found %s %q", tokPipe, terminator, p.cur().kind, p.cur().text)
	}
	return alt, nil
}

func (p *parser) parseFactor() (grammar.Factor, error) {
	switch p.cur().kind {
	case tokName:
		t := p.next()
		return grammar.Name(t.text), nil

	case tokLParen:
		p.next()
		alts, err := p.parseAlternations(tokRParen)
		if err != nil {
			return grammar.Factor{}, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return grammar.Factor{}, err
		}
		return grammar.Group(alts...), nil

	case tokLBrace:
		p.next()
		alts, err := p.parseAlternations(tokRBrace)
		if err != nil {
			return grammar.Factor{}, err
		}
		if _, err := p.expect(tokRBrace); err != nil {
			return grammar.Factor{}, err
		}
		return grammar.Repeat(alts...), nil

	case tokLBrack:
		p.next()
		alts, err := p.parseAlternations(tokRBrack)
		if err != nil {
			return grammar.Factor{}, err
		}
		if _, err := p.expect(tokRBrack); err != nil {
			return grammar.Factor{}, err
		}
		return grammar.Option(alts...), nil

	default:
		return grammar.Factor{}, p.errf("expected a factor, found %s %q", p.cur().kind, p.cur().text)
	}
}
