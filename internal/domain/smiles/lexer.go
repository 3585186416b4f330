package smiles

import (
	"github.com/turtacn/MolParse/internal/domain/elements"
	"github.com/turtacn/MolParse/internal/domain/graph"
	apperrors "github.com/turtacn/MolParse/pkg/errors"
)

// Lexer turns a SMILES string into a stream of tokens.  It scans bytes left
// to right exactly once; bracket atom expressions are consumed whole so the
// parser above it never sees partial bracket state.
type Lexer struct {
	input string
	pos   int
}

// NewLexer returns a lexer over the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Next returns the next token, or a ParseError on the first invalid byte or
// malformed construct.  After the input is exhausted it returns TokenEOF
// indefinitely.
func (l *Lexer) Next() (Token, *ParseError) {
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}
	start := l.pos
	c := l.input[l.pos]

	switch c {
	case '(':
		l.pos++
		return Token{Type: TokenOpenBranch, Pos: start}, nil
	case ')':
		l.pos++
		return Token{Type: TokenCloseBranch, Pos: start}, nil
	case '.':
		l.pos++
		return Token{Type: TokenDot, Pos: start}, nil
	case '-':
		l.pos++
		return Token{Type: TokenBond, Pos: start, Bond: graph.BondSingle}, nil
	case '=':
		l.pos++
		return Token{Type: TokenBond, Pos: start, Bond: graph.BondDouble}, nil
	case '#':
		l.pos++
		return Token{Type: TokenBond, Pos: start, Bond: graph.BondTriple}, nil
	case '$':
		l.pos++
		return Token{Type: TokenBond, Pos: start, Bond: graph.BondQuadruple}, nil
	case ':':
		l.pos++
		return Token{Type: TokenBond, Pos: start, Bond: graph.BondAromatic}, nil
	case '/':
		l.pos++
		return Token{Type: TokenBond, Pos: start, Bond: graph.BondSingle, Direction: graph.DirUp}, nil
	case '\\':
		l.pos++
		return Token{Type: TokenBond, Pos: start, Bond: graph.BondSingle, Direction: graph.DirDown}, nil
	case '*':
		l.pos++
		return Token{Type: TokenAtom, Pos: start, Symbol: graph.Wildcard}, nil
	case '%':
		return l.lexPercentRing()
	case '[':
		return l.lexBracketAtom()
	}

	if c >= '0' && c <= '9' {
		l.pos++
		return Token{Type: TokenRing, Pos: start, Ring: int(c - '0')}, nil
	}
	if isUpper(c) || isLower(c) {
		return l.lexBareAtom()
	}
	return Token{}, lexErr(apperrors.ErrCodeSmilesLexError, start, "unexpected character %q", c)
}

// lexPercentRing consumes "%NN": a percent sign followed by exactly two
// digits.  One digit or none is an error at the position of '%'.
func (l *Lexer) lexPercentRing() (Token, *ParseError) {
	start := l.pos
	l.pos++ // '%'
	if l.pos+1 >= len(l.input) || !isDigit(l.input[l.pos]) || !isDigit(l.input[l.pos+1]) {
		return Token{}, lexErr(apperrors.ErrCodeSmilesIncompletePercent, start,
			"'%%' must be followed by exactly two digits")
	}
	n := int(l.input[l.pos]-'0')*10 + int(l.input[l.pos+1]-'0')
	l.pos += 2
	return Token{Type: TokenRing, Pos: start, Ring: n}, nil
}

// lexBareAtom consumes an atom written without brackets.  Only the organic
// subset may appear bare; known elements outside the subset are reported as
// needing brackets, anything else as a lexical error.
func (l *Lexer) lexBareAtom() (Token, *ParseError) {
	start := l.pos
	c := l.input[l.pos]

	if isUpper(c) {
		// Two-letter subset symbols (Cl, Br) win over their one-letter prefix.
		if l.pos+1 < len(l.input) && isLower(l.input[l.pos+1]) {
			two := l.input[l.pos : l.pos+2]
			if elements.IsOrganicSubset(two) {
				l.pos += 2
				return Token{Type: TokenAtom, Pos: start, Symbol: two}, nil
			}
		}
		one := string(c)
		if elements.IsOrganicSubset(one) {
			l.pos++
			return Token{Type: TokenAtom, Pos: start, Symbol: one}, nil
		}
		// A real element outside the subset gets a pointed diagnosis.
		if l.pos+1 < len(l.input) && isLower(l.input[l.pos+1]) {
			if two := l.input[l.pos : l.pos+2]; elements.IsElement(two) {
				return Token{}, semanticErr(apperrors.ErrCodeSmilesBracketRequired, start,
					"element %q must be written in brackets", two)
			}
		}
		if elements.IsElement(one) {
			return Token{}, semanticErr(apperrors.ErrCodeSmilesBracketRequired, start,
				"element %q must be written in brackets", one)
		}
		return Token{}, lexErr(apperrors.ErrCodeSmilesLexError, start, "unexpected character %q", c)
	}

	// Lowercase: the aromatic organic subset, written bare.
	sym := string(c)
	if elements.IsOrganicSubset(capitalize(sym)) && elements.IsAromaticCapable(capitalize(sym)) {
		l.pos++
		return Token{Type: TokenAtom, Pos: start, Symbol: capitalize(sym), Aromatic: true}, nil
	}
	// Aromatic symbols like "se" exist, but only inside brackets.
	if l.pos+1 < len(l.input) && isLower(l.input[l.pos+1]) {
		if two := capitalize(l.input[l.pos : l.pos+2]); elements.IsAromaticCapable(two) {
			return Token{}, semanticErr(apperrors.ErrCodeSmilesBracketRequired, start,
				"aromatic %q must be written in brackets", l.input[l.pos:l.pos+2])
		}
	}
	// A lowercase element that can never be aromatic, like "f".
	if elements.IsElement(capitalize(sym)) {
		return Token{}, semanticErr(apperrors.ErrCodeSmilesInvalidAromatic, start,
			"%q cannot be aromatic", sym)
	}
	return Token{}, lexErr(apperrors.ErrCodeSmilesLexError, start, "unexpected character %q", c)
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if isLower(b[0]) {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
