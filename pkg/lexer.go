package symdiff

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

const (
	EOF rune = 0

	TokenError TokenType = iota
	TokenEOF
	TokenNumber
	TokenIdentifier
	TokenOperator
	TokenOpenParentheses
	TokenCloseParentheses
)

type Token struct {
	Typ   TokenType
	Value string
}

// Lexer splits an expression into numbers, identifiers, operator symbols and
// brackets. It only validates the alphabet; structure is the parser's job.
type Lexer struct {
	input    string
	pos      int
	registry *Registry
	tokens   []Token
	err      error
}

func NewLexer(input string, registry *Registry) *Lexer {
	return &Lexer{
		input:    input,
		registry: registry,
	}
}

func (l *Lexer) Run() ([]Token, error) {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	if l.err != nil {
		return nil, l.err
	}

	return l.tokens, nil
}

func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == EOF:
			l.emitValue(TokenEOF, "")
			return nil
		case unicode.IsSpace(r):
			l.next()
			continue
		case '0' <= r && r <= '9', r == '.':
			return numberState
		case unicode.IsLetter(r):
			return identifierState
		case r == '(':
			l.next()
			return l.emitValue(TokenOpenParentheses, "(")
		case r == ')':
			l.next()
			return l.emitValue(TokenCloseParentheses, ")")
		default:
			return operatorState
		}
	}
}

func numberState(l *Lexer) stateFunc {
	var num strings.Builder
	for r := l.peek(); ('0' <= r && r <= '9') || r == '.'; r = l.peek() {
		num.WriteRune(l.next())
	}

	return l.emitValue(TokenNumber, num.String())
}

func identifierState(l *Lexer) stateFunc {
	var id strings.Builder
	for r := l.peek(); unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'; r = l.peek() {
		id.WriteRune(l.next())
	}

	return l.emitValue(TokenIdentifier, id.String())
}

func operatorState(l *Lexer) stateFunc {
	if op := l.registry.binaryAt(l.input, l.pos); op != nil {
		l.pos += len(op.Symbol)
		return l.emitValue(TokenOperator, op.Symbol)
	}

	return l.errorf("invalid symbol '%c'", l.next())
}

func (l *Lexer) errorf(format string, args ...interface{}) stateFunc {
	l.err = &ParseError{
		Fragment: l.input,
		Reason:   fmt.Sprintf(format, args...),
	}
	l.tokens = append(l.tokens, Token{Typ: TokenError, Value: l.err.Error()})

	return nil
}

func (l *Lexer) emitValue(t TokenType, val string) stateFunc {
	l.tokens = append(l.tokens, Token{
		Typ:   t,
		Value: val,
	})

	return defaultState
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return EOF
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		return EOF
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size

	return r
}

// InsertMultiplication spells out implied products: "4x" becomes "4*x",
// "2(x+1)" becomes "2*(x+1)" and "4pix" becomes "4*pi*x" when pi and x are
// declared. A run of letters is only split when it divides exactly into
// declared names, optionally ending in a function name applied to a bracket.
func InsertMultiplication(s string, registry *Registry, vars []string) (string, error) {
	toks, err := NewLexer(s, registry).Run()
	if err != nil {
		return "", err
	}

	mul := registry.Binary("*")
	if mul == nil {
		return s, nil
	}

	declared := make(map[string]bool, len(vars))
	for _, v := range vars {
		declared[v] = true
	}

	var expanded []Token
	for i, tok := range toks {
		if tok.Typ != TokenIdentifier || declared[tok.Value] || registry.Unary(tok.Value) != nil {
			expanded = append(expanded, tok)
			continue
		}

		call := i+1 < len(toks) && toks[i+1].Typ == TokenOpenParentheses
		parts := splitNames(tok.Value, declared, registry, call)
		if parts == nil {
			expanded = append(expanded, tok)
			continue
		}

		for _, p := range parts {
			expanded = append(expanded, Token{Typ: TokenIdentifier, Value: p})
		}
	}

	var out strings.Builder
	for i, tok := range expanded {
		if i > 0 && impliesProduct(expanded[i-1], tok, declared) {
			out.WriteString(mul.Symbol)
		}

		out.WriteString(tok.Value)
	}

	return out.String(), nil
}

func impliesProduct(prev, cur Token, declared map[string]bool) bool {
	left := prev.Typ == TokenNumber || prev.Typ == TokenCloseParentheses ||
		(prev.Typ == TokenIdentifier && declared[prev.Value])
	right := cur.Typ == TokenIdentifier || cur.Typ == TokenOpenParentheses ||
		(cur.Typ == TokenNumber && prev.Typ != TokenNumber)

	return left && right
}

// splitNames divides id into declared variable names, longest match first.
// When call is set the last part may also be a function name.
func splitNames(id string, declared map[string]bool, registry *Registry, call bool) []string {
	if id == "" {
		return []string{}
	}

	for n := len(id); n > 0; n-- {
		head, rest := id[:n], id[n:]

		if rest == "" && call && registry.Unary(head) != nil {
			return []string{head}
		}

		if !declared[head] {
			continue
		}

		if tail := splitNames(rest, declared, registry, call); tail != nil {
			return append([]string{head}, tail...)
		}
	}

	return nil
}
