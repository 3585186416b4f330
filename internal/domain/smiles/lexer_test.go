package smiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolParse/internal/domain/graph"
)

func collectTokens(t *testing.T, input string) []Token {
	t.Helper()
	lex := NewLexer(input)
	var out []Token
	for {
		tok, err := lex.Next()
		require.Nil(t, err)
		out = append(out, tok)
		if tok.Type == TokenEOF {
			return out
		}
	}
}

func TestLexerTokenPositions(t *testing.T) {
	toks := collectTokens(t, "C=C")
	require.Len(t, toks, 4)
	assert.Equal(t, TokenAtom, toks[0].Type)
	assert.Equal(t, 0, toks[0].Pos)
	assert.Equal(t, TokenBond, toks[1].Type)
	assert.Equal(t, graph.BondDouble, toks[1].Bond)
	assert.Equal(t, 1, toks[1].Pos)
	assert.Equal(t, TokenEOF, toks[3].Type)
	assert.Equal(t, 3, toks[3].Pos)
}

func TestLexerBondSymbols(t *testing.T) {
	cases := map[string]graph.BondKind{
		"-": graph.BondSingle,
		"=": graph.BondDouble,
		"#": graph.BondTriple,
		"$": graph.BondQuadruple,
		":": graph.BondAromatic,
	}
	for sym, kind := range cases {
		toks := collectTokens(t, "C"+sym+"C")
		assert.Equal(t, kind, toks[1].Bond, sym)
		assert.Equal(t, graph.DirNone, toks[1].Direction, sym)
	}

	toks := collectTokens(t, "C/C")
	assert.Equal(t, graph.BondSingle, toks[1].Bond)
	assert.Equal(t, graph.DirUp, toks[1].Direction)

	toks = collectTokens(t, `C\C`)
	assert.Equal(t, graph.DirDown, toks[1].Direction)
}

func TestLexerBracketAtomIsOneToken(t *testing.T) {
	toks := collectTokens(t, "[13CH3+:5]")
	require.Len(t, toks, 2)
	b := toks[0].Bracket
	require.NotNil(t, b.Isotope)
	assert.Equal(t, 13, *b.Isotope)
	assert.Equal(t, "C", b.Symbol)
	require.NotNil(t, b.HCount)
	assert.Equal(t, 3, *b.HCount)
	assert.Equal(t, 1, b.Charge)
	require.NotNil(t, b.Class)
	assert.Equal(t, 5, *b.Class)
}

func TestLexerRingTokens(t *testing.T) {
	toks := collectTokens(t, "C1C%23")
	require.Len(t, toks, 5)
	assert.Equal(t, TokenRing, toks[1].Type)
	assert.Equal(t, 1, toks[1].Ring)
	assert.Equal(t, TokenRing, toks[3].Type)
	assert.Equal(t, 23, toks[3].Ring)
	assert.Equal(t, 3, toks[3].Pos)
}

func TestLexerGreedyTwoLetterSymbols(t *testing.T) {
	toks := collectTokens(t, "ClC")
	require.Len(t, toks, 3)
	assert.Equal(t, "Cl", toks[0].Symbol)
	assert.Equal(t, "C", toks[1].Symbol)
	assert.Equal(t, 2, toks[1].Pos)
}

func TestLexerEOFIsSticky(t *testing.T) {
	lex := NewLexer("C")
	tok, err := lex.Next()
	require.Nil(t, err)
	assert.Equal(t, TokenAtom, tok.Type)
	for i := 0; i < 3; i++ {
		tok, err = lex.Next()
		require.Nil(t, err)
		assert.Equal(t, TokenEOF, tok.Type)
	}
}

func TestLexerWhitespaceRejected(t *testing.T) {
	lex := NewLexer("C C")
	_, err := lex.Next()
	require.Nil(t, err)
	_, err = lex.Next()
	require.NotNil(t, err)
	assert.Equal(t, KindLex, err.Kind)
	assert.Equal(t, 1, err.Column)
}
