package smiles

import "github.com/turtacn/MolParse/internal/domain/graph"

// TokenType discriminates the token union emitted by the lexer.
type TokenType int

const (
	// TokenAtom is an organic-subset atom or the wildcard, written bare.
	TokenAtom TokenType = iota
	// TokenBracketAtom is a fully parsed bracket atom expression.
	TokenBracketAtom
	// TokenBond is an explicit bond symbol.
	TokenBond
	// TokenRing is a ring-closure digit, single or %NN form.
	TokenRing
	// TokenOpenBranch is "(".
	TokenOpenBranch
	// TokenCloseBranch is ")".
	TokenCloseBranch
	// TokenDot is the "." disconnection marker.
	TokenDot
	// TokenEOF marks the end of input.
	TokenEOF
)

// BracketAtom holds the fields of a bracket atom expression in written order.
// Symbol is validated against the periodic table by the lexer; the remaining
// fields default to their zero values when omitted.
type BracketAtom struct {
	Isotope   *int
	Symbol    string
	Aromatic  bool
	Chirality string
	HCount    *int
	Charge    int
	Class     *int
}

// Token is one lexical unit of a SMILES string.  Exactly the fields implied
// by Type are meaningful.  Pos is the 0-based column of the token's first
// byte.
type Token struct {
	Type TokenType
	Pos  int

	// Symbol and Aromatic are set for TokenAtom.
	Symbol   string
	Aromatic bool

	// Bracket is set for TokenBracketAtom.
	Bracket BracketAtom

	// Bond and Direction are set for TokenBond.  Direction is non-zero only
	// for the "/" and "\" symbols, whose Bond is single.
	Bond      graph.BondKind
	Direction graph.Direction

	// Ring is the closure number, 0-99, set for TokenRing.
	Ring int
}
