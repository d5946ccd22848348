package compiler

import (
	"fmt"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// Parser is responsible for converting source text into a Program.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse lexes and parses src. On failure the error is a *domain.SyntaxErrors
// holding every lexer diagnostic plus the first grammar violation.
func (p *Parser) Parse(src string) (*domain.Program, error) {
	lx := NewLexer(src)
	st := &parseState{toks: lx.Tokens()}

	prog, err := st.program()

	errs := append([]*domain.SyntaxError{}, lx.Errors()...)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, &domain.SyntaxErrors{Errors: errs}
	}
	return prog, nil
}

// Parse is a shorthand for NewParser().Parse(src).
func Parse(src string) (*domain.Program, error) {
	return NewParser().Parse(src)
}

type parseState struct {
	toks []Token
	i    int
}

func (s *parseState) peek() Token {
	return s.toks[s.i]
}

func (s *parseState) next() Token {
	t := s.toks[s.i]
	if t.Type != EOF {
		s.i++
	}
	return t
}

func (s *parseState) expect(tt TokenType) (Token, *domain.SyntaxError) {
	t := s.peek()
	if t.Type != tt {
		return t, unexpected(t, tt.String())
	}
	return s.next(), nil
}

func unexpected(t Token, want string) *domain.SyntaxError {
	got := t.Type.String()
	if t.Lexeme != "" {
		got = fmt.Sprintf("'%s'", t.Lexeme)
	}
	return &domain.SyntaxError{
		Line:    t.Line,
		Column:  t.Col,
		Message: fmt.Sprintf("mismatched input %s expecting %s", got, want),
	}
}

// program := "[" assignment* "]" "{" branchset "}"
func (s *parseState) program() (*domain.Program, *domain.SyntaxError) {
	prog := &domain.Program{}

	if _, err := s.expect(LSQUARE); err != nil {
		return nil, err
	}
	for s.peek().Type != RSQUARE {
		a, err := s.assignment()
		if err != nil {
			return nil, err
		}
		prog.Variables = append(prog.Variables, a)
	}
	s.next()

	if _, err := s.expect(LCURLY); err != nil {
		return nil, err
	}
	root, err := s.branchSet()
	if err != nil {
		return nil, err
	}
	prog.Root = root
	if _, err := s.expect(RCURLY); err != nil {
		return nil, err
	}
	if _, err := s.expect(EOF); err != nil {
		return nil, err
	}
	return prog, nil
}

// assignment := NAME "=" NUMBER
func (s *parseState) assignment() (domain.Assignment, *domain.SyntaxError) {
	t := s.peek()
	// Actor letters and keywords are valid variable names in the header.
	if t.Type != NAME && keywordText(t) == "" {
		return domain.Assignment{}, unexpected(t, "variable name or ']'")
	}
	s.next()
	if _, err := s.expect(ASSIGN); err != nil {
		return domain.Assignment{}, err
	}
	v, err := s.number()
	if err != nil {
		return domain.Assignment{}, err
	}
	return domain.Assignment{Name: t.Lexeme, Value: v, Pos: domain.Position{Line: t.Line, Column: t.Col}}, nil
}

func keywordText(t Token) string {
	if _, ok := keywords[t.Lexeme]; ok && t.Type >= FAIL {
		return t.Lexeme
	}
	return ""
}

// branchset := (branch ("|" branch)*)?
func (s *parseState) branchSet() (domain.BranchSet, *domain.SyntaxError) {
	var set domain.BranchSet
	if s.peek().Type == RCURLY {
		return set, nil
	}
	for {
		b, err := s.branch()
		if err != nil {
			return nil, err
		}
		set = append(set, b)
		if s.peek().Type != PIPE {
			return set, nil
		}
		s.next()
	}
}

// branch := ("c" | "e") "_" probval ":" action
func (s *parseState) branch() (domain.Branch, *domain.SyntaxError) {
	t := s.peek()
	var b domain.Branch
	b.Pos = domain.Position{Line: t.Line, Column: t.Col}

	if t.Type != NAME || (t.Lexeme != "c" && t.Lexeme != "e") {
		return b, unexpected(t, "'c' or 'e'")
	}
	s.next()
	b.Actor = domain.Actor(t.Lexeme)

	if _, err := s.expect(UNDERSCORE); err != nil {
		return b, err
	}

	if s.peek().Type == ELSE {
		s.next()
		b.Chance = domain.Chance{Else: true}
	} else {
		p, err := s.fraction()
		if err != nil {
			return b, err
		}
		b.Chance = domain.Chance{P: p}
	}

	if _, err := s.expect(COLON); err != nil {
		return b, err
	}

	action, err := s.action()
	if err != nil {
		return b, err
	}
	b.Action = action
	return b, nil
}

// fraction reads a probability written either as a number or as a percent.
func (s *parseState) fraction() (float64, *domain.SyntaxError) {
	v, err := s.number()
	if err != nil {
		return 0, err
	}
	if s.peek().Type == PERCENT {
		s.next()
		return v / 100, nil
	}
	return v, nil
}

func (s *parseState) number() (float64, *domain.SyntaxError) {
	t, err := s.expect(NUMBER)
	if err != nil {
		return 0, err
	}
	return t.Literal, nil
}

// numberRange reads NUMBER "-" NUMBER.
func (s *parseState) numberRange() (float64, float64, *domain.SyntaxError) {
	low, err := s.number()
	if err != nil {
		return 0, 0, err
	}
	if _, err := s.expect(MINUS); err != nil {
		return 0, 0, err
	}
	high, err := s.number()
	if err != nil {
		return 0, 0, err
	}
	return low, high, nil
}

func (s *parseState) action() (domain.Action, *domain.SyntaxError) {
	t := s.peek()
	if t.Type < FAIL || t.Type > RAISE {
		return nil, unexpected(t, "fail, quit, buy, sell, ipo or raise")
	}
	s.next()
	if _, err := s.expect(LROUND); err != nil {
		return nil, err
	}

	var (
		action domain.Action
		err    *domain.SyntaxError
	)
	switch t.Type {
	case FAIL:
		action = domain.Fail{}
	case QUIT:
		action = domain.Quit{}
	case BUY:
		action, err = s.buy()
	case SELL:
		low, high, units, e := s.exitRange()
		action, err = domain.Sell{Low: low, High: high, Units: units}, e
	case IPO:
		low, high, units, e := s.exitRange()
		action, err = domain.IPO{Low: low, High: high, Units: units}, e
	case RAISE:
		action, err = s.raise()
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.expect(RROUND); err != nil {
		return nil, err
	}
	return action, nil
}

func (s *parseState) buy() (domain.Action, *domain.SyntaxError) {
	v, err := s.number()
	if err != nil {
		return nil, err
	}
	if _, err := s.expect(PERCENT); err != nil {
		return nil, err
	}
	return domain.Buy{Percent: v}, nil
}

func (s *parseState) exitRange() (float64, float64, domain.Units, *domain.SyntaxError) {
	low, high, err := s.numberRange()
	if err != nil {
		return 0, 0, "", err
	}
	t := s.next()
	switch t.Type {
	case SHARE:
		return low, high, domain.UnitsShare, nil
	case TOTAL:
		return low, high, domain.UnitsTotal, nil
	}
	return 0, 0, "", unexpected(t, "'share' or 'total'")
}

// raise := NUMBER "-" NUMBER "fmv" "diluting" NUMBER "-" NUMBER "%"
//
//	"wait" NUMBER "-" NUMBER "months" "then" "{" branchset "}"
func (s *parseState) raise() (domain.Action, *domain.SyntaxError) {
	var (
		r   domain.Raise
		err *domain.SyntaxError
	)
	if r.FMVLow, r.FMVHigh, err = s.numberRange(); err != nil {
		return nil, err
	}
	if _, err = s.expect(FMV); err != nil {
		return nil, err
	}
	if _, err = s.expect(DILUTING); err != nil {
		return nil, err
	}
	if r.DiluteLow, r.DiluteHigh, err = s.numberRange(); err != nil {
		return nil, err
	}
	if _, err = s.expect(PERCENT); err != nil {
		return nil, err
	}
	if _, err = s.expect(WAIT); err != nil {
		return nil, err
	}
	if r.DelayLow, r.DelayHigh, err = s.numberRange(); err != nil {
		return nil, err
	}
	if _, err = s.expect(MONTHS); err != nil {
		return nil, err
	}
	if _, err = s.expect(THEN); err != nil {
		return nil, err
	}
	if _, err = s.expect(LCURLY); err != nil {
		return nil, err
	}
	if r.Next, err = s.branchSet(); err != nil {
		return nil, err
	}
	if _, err = s.expect(RCURLY); err != nil {
		return nil, err
	}
	return r, nil
}
