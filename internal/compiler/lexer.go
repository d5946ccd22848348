package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// TokenType represents the kind of token.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LSQUARE    // "["
	RSQUARE    // "]"
	LCURLY     // "{"
	RCURLY     // "}"
	LROUND     // "("
	RROUND     // ")"
	ASSIGN     // "="
	UNDERSCORE // "_"
	COLON      // ":"
	PIPE       // "|"
	MINUS      // "-"
	PERCENT    // "%"

	// Literals & identifiers
	NAME
	NUMBER

	// Keywords
	FAIL
	QUIT
	BUY
	SELL
	IPO
	RAISE
	FMV
	DILUTING
	WAIT
	MONTHS
	THEN
	SHARE
	TOTAL
	ELSE
)

var tokenNames = map[TokenType]string{
	EOF:        "end of input",
	ILLEGAL:    "illegal character",
	LSQUARE:    "'['",
	RSQUARE:    "']'",
	LCURLY:     "'{'",
	RCURLY:     "'}'",
	LROUND:     "'('",
	RROUND:     "')'",
	ASSIGN:     "'='",
	UNDERSCORE: "'_'",
	COLON:      "':'",
	PIPE:       "'|'",
	MINUS:      "'-'",
	PERCENT:    "'%'",
	NAME:       "name",
	NUMBER:     "number",
	FAIL:       "'fail'",
	QUIT:       "'quit'",
	BUY:        "'buy'",
	SELL:       "'sell'",
	IPO:        "'ipo'",
	RAISE:      "'raise'",
	FMV:        "'fmv'",
	DILUTING:   "'diluting'",
	WAIT:       "'wait'",
	MONTHS:     "'months'",
	THEN:       "'then'",
	SHARE:      "'share'",
	TOTAL:      "'total'",
	ELSE:       "'else'",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

var keywords = map[string]TokenType{
	"fail":     FAIL,
	"quit":     QUIT,
	"buy":      BUY,
	"sell":     SELL,
	"ipo":      IPO,
	"raise":    RAISE,
	"fmv":      FMV,
	"diluting": DILUTING,
	"wait":     WAIT,
	"months":   MONTHS,
	"then":     THEN,
	"share":    SHARE,
	"total":    TOTAL,
	"else":     ELSE,
}

var punctuation = map[byte]TokenType{
	'[': LSQUARE,
	']': RSQUARE,
	'{': LCURLY,
	'}': RCURLY,
	'(': LROUND,
	')': RROUND,
	'=': ASSIGN,
	'_': UNDERSCORE,
	':': COLON,
	'|': PIPE,
	'-': MINUS,
	'%': PERCENT,
}

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string  // raw text slice, thousands separators removed for numbers
	Literal float64 // parsed value for NUMBER
	Line    int
	Col     int
}

// Lexer turns source text into tokens. Thousands separators are dropped, so
// "1,000,000" lexes as the single number 1000000.
type Lexer struct {
	src    string
	pos    int
	line   int
	col    int
	errors []*domain.SyntaxError
}

// NewLexer creates a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Errors returns the diagnostics collected so far.
func (l *Lexer) Errors() []*domain.SyntaxError {
	return l.errors
}

// Tokens scans the whole input. The last token is always EOF.
func (l *Lexer) Tokens() []Token {
	var out []Token
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Type == EOF {
			return out
		}
	}
}

// Next returns the next token, skipping whitespace and commas.
func (l *Lexer) Next() Token {
	for {
		l.skipIgnored()
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Line: l.line, Col: l.col}
		}

		c := l.src[l.pos]
		line, col := l.line, l.col

		switch {
		case isDigit(c) || (c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
			return l.number()
		case isLetter(c):
			start := l.pos
			for l.pos < len(l.src) && (isLetter(l.src[l.pos]) || isDigit(l.src[l.pos])) {
				l.advance()
			}
			word := l.src[start:l.pos]
			if kw, ok := keywords[word]; ok {
				return Token{Type: kw, Lexeme: word, Line: line, Col: col}
			}
			return Token{Type: NAME, Lexeme: word, Line: line, Col: col}
		}

		if tt, ok := punctuation[c]; ok {
			l.advance()
			return Token{Type: tt, Lexeme: string(c), Line: line, Col: col}
		}

		l.errorf(line, col, nil, "token recognition error at: '%c'", c)
		l.advance()
	}
}

func (l *Lexer) number() Token {
	line, col := l.line, l.col
	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == ',' {
			l.advance()
			continue
		}
		if !isDigit(c) && c != '.' {
			break
		}
		sb.WriteByte(c)
		l.advance()
	}

	text := sb.String()
	value, err := parseNumber(text)
	if err != nil {
		l.errorf(line, col, domain.ErrInvalidNumber, "invalid number '%s'", text)
	}
	return Token{Type: NUMBER, Lexeme: text, Literal: value, Line: line, Col: col}
}

// parseNumber reads an integer unless the text contains a decimal point.
func parseNumber(text string) (float64, error) {
	if !strings.Contains(text, ".") {
		n, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			return float64(n), nil
		}
	}
	return strconv.ParseFloat(text, 64)
}

func (l *Lexer) skipIgnored() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\r', '\n', ',':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) errorf(line, col int, kind error, format string, args ...any) {
	l.errors = append(l.errors, &domain.SyntaxError{
		Line:    line,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
		Err:     kind,
	})
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
