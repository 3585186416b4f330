package smiles

import (
	"github.com/turtacn/MolParse/internal/domain/graph"
	apperrors "github.com/turtacn/MolParse/pkg/errors"
)

// Parse scans a SMILES string into a validated molecular graph.  It stops at
// the first error; the returned ParseError carries the stage, code, and
// 0-based column of the defect.
func Parse(input string) (*graph.Molecule, *ParseError) {
	p := newParser(input)
	if err := p.run(); err != nil {
		return nil, err
	}
	if err := inferHydrogens(p.mol, p.atomPos); err != nil {
		return nil, err
	}
	return p.mol, nil
}

// ringOpening records the open half of a ring bond until its closing digit
// arrives.
type ringOpening struct {
	atom int
	kind graph.BondKind
	dir  graph.Direction
	pos  int
}

// branchFrame is one entry of the branch stack: the attachment atom to
// restore at ')' plus bookkeeping for diagnostics.
type branchFrame struct {
	prev    int
	pos     int // column of the '('
	atomLen int // atom count at the '(' so empty branches are detectable
}

type parser struct {
	lex *Lexer
	mol *graph.Molecule

	// atomPos maps atom index → input column, for validator diagnostics.
	atomPos []int

	// prev is the current attachment atom, -1 before the first atom.
	prev int

	// pending holds an explicit bond symbol awaiting its right-hand atom or
	// ring digit.  BondNone means no symbol is outstanding.
	pending    graph.BondKind
	pendingDir graph.Direction
	pendingPos int

	// afterDot is set between a '.' and the atom that starts the next
	// component.
	afterDot bool

	branches []branchFrame
	rings    map[int]ringOpening
}

func newParser(input string) *parser {
	return &parser{
		lex:     NewLexer(input),
		mol:     graph.NewMolecule(input),
		prev:    -1,
		pending: graph.BondNone,
		rings:   make(map[int]ringOpening),
	}
}

func (p *parser) run() *ParseError {
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return err
		}
		switch tok.Type {
		case TokenAtom:
			p.addAtom(graph.Atom{
				Symbol:   tok.Symbol,
				Aromatic: tok.Aromatic,
			}, tok.Pos)

		case TokenBracketAtom:
			b := tok.Bracket
			p.addAtom(graph.Atom{
				Symbol:    b.Symbol,
				Aromatic:  b.Aromatic,
				Bracketed: true,
				Isotope:   b.Isotope,
				Chirality: b.Chirality,
				Charge:    b.Charge,
				ExplicitH: b.HCount,
				Class:     b.Class,
			}, tok.Pos)

		case TokenBond:
			if p.afterDot {
				return syntaxErr(apperrors.ErrCodeSmilesDanglingBond, tok.Pos,
					"bond symbol cannot follow '.'")
			}
			if p.prev < 0 {
				return syntaxErr(apperrors.ErrCodeSmilesDanglingBond, tok.Pos,
					"bond symbol with no preceding atom")
			}
			if p.pending != graph.BondNone {
				return syntaxErr(apperrors.ErrCodeSmilesDanglingBond, tok.Pos,
					"two consecutive bond symbols")
			}
			p.pending = tok.Bond
			p.pendingDir = tok.Direction
			p.pendingPos = tok.Pos

		case TokenRing:
			if err := p.ringClosure(tok); err != nil {
				return err
			}

		case TokenOpenBranch:
			if p.prev < 0 {
				return syntaxErr(apperrors.ErrCodeSmilesUnmatchedParen, tok.Pos,
					"branch with no preceding atom")
			}
			if p.pending != graph.BondNone {
				return syntaxErr(apperrors.ErrCodeSmilesDanglingBond, p.pendingPos,
					"bond symbol cannot precede '('")
			}
			if p.afterDot {
				return syntaxErr(apperrors.ErrCodeSmilesUnmatchedParen, tok.Pos,
					"branch cannot follow '.'")
			}
			p.branches = append(p.branches, branchFrame{
				prev:    p.prev,
				pos:     tok.Pos,
				atomLen: len(p.mol.Atoms),
			})

		case TokenCloseBranch:
			if len(p.branches) == 0 {
				return syntaxErr(apperrors.ErrCodeSmilesUnmatchedParen, tok.Pos,
					"')' with no matching '('")
			}
			if p.pending != graph.BondNone {
				return syntaxErr(apperrors.ErrCodeSmilesDanglingBond, p.pendingPos,
					"bond symbol with no following atom")
			}
			frame := p.branches[len(p.branches)-1]
			p.branches = p.branches[:len(p.branches)-1]
			if len(p.mol.Atoms) == frame.atomLen {
				return syntaxErr(apperrors.ErrCodeSmilesUnmatchedParen, frame.pos,
					"empty branch")
			}
			p.prev = frame.prev
			p.afterDot = false

		case TokenDot:
			if p.pending != graph.BondNone {
				return syntaxErr(apperrors.ErrCodeSmilesDanglingBond, p.pendingPos,
					"bond symbol with no following atom")
			}
			if p.prev < 0 {
				return syntaxErr(apperrors.ErrCodeSmilesDanglingBond, tok.Pos,
					"'.' with no preceding atom")
			}
			if p.afterDot {
				return syntaxErr(apperrors.ErrCodeSmilesDanglingBond, tok.Pos,
					"consecutive '.' separators")
			}
			p.afterDot = true

		case TokenEOF:
			return p.finish(tok.Pos)
		}
	}
}

// addAtom appends the atom and bonds it to the current attachment atom,
// applying the pending explicit bond or the default-bond rule.
func (p *parser) addAtom(a graph.Atom, pos int) {
	idx := p.mol.AddAtom(a)
	p.atomPos = append(p.atomPos, pos)

	switch {
	case p.afterDot:
		// New component, no bond.
		p.afterDot = false
	case p.prev >= 0:
		kind := p.pending
		dir := p.pendingDir
		if kind == graph.BondNone {
			kind = defaultBond(&p.mol.Atoms[p.prev], &p.mol.Atoms[idx])
		}
		p.mol.AddBond(graph.Bond{From: p.prev, To: idx, Kind: kind, Direction: dir})
	}
	p.prev = idx
	p.pending = graph.BondNone
	p.pendingDir = graph.DirNone
}

// ringClosure opens a ring number on its first occurrence and materializes
// the bond on its second.  A pending explicit bond applies to the closure.
func (p *parser) ringClosure(tok Token) *ParseError {
	if p.prev < 0 {
		return syntaxErr(apperrors.ErrCodeSmilesInvalidRingNumber, tok.Pos,
			"ring closure with no preceding atom")
	}
	if p.afterDot {
		return syntaxErr(apperrors.ErrCodeSmilesInvalidRingNumber, tok.Pos,
			"ring closure cannot follow '.'")
	}
	kind := p.pending
	dir := p.pendingDir
	p.pending = graph.BondNone
	p.pendingDir = graph.DirNone

	open, isOpen := p.rings[tok.Ring]
	if !isOpen {
		p.rings[tok.Ring] = ringOpening{atom: p.prev, kind: kind, dir: dir, pos: tok.Pos}
		return nil
	}
	delete(p.rings, tok.Ring)

	if open.atom == p.prev {
		return semanticErr(apperrors.ErrCodeSmilesRingBondMismatch, tok.Pos,
			"ring closure %d bonds an atom to itself", tok.Ring)
	}
	if p.mol.HasBond(open.atom, p.prev) {
		return semanticErr(apperrors.ErrCodeSmilesDuplicateBond, tok.Pos,
			"ring closure %d duplicates an existing bond", tok.Ring)
	}

	// Both ends may name the bond, but then they must agree.
	final := kind
	switch {
	case open.kind != graph.BondNone && kind != graph.BondNone && open.kind != kind:
		return semanticErr(apperrors.ErrCodeSmilesRingBondMismatch, tok.Pos,
			"ring closure %d bond %q does not match opening bond %q",
			tok.Ring, kind.Symbol(), open.kind.Symbol())
	case final == graph.BondNone:
		final = open.kind
	}
	// The opening end's marker wins when both ends wrote one.
	finalDir := open.dir
	if finalDir == graph.DirNone {
		finalDir = dir
	}
	if final == graph.BondNone {
		final = defaultBond(&p.mol.Atoms[open.atom], &p.mol.Atoms[p.prev])
	}
	p.mol.AddBond(graph.Bond{From: open.atom, To: p.prev, Kind: final, Direction: finalDir})
	return nil
}

// finish validates end-of-input state: no outstanding bond, dot, branch, or
// ring, and at least one atom parsed.
func (p *parser) finish(eofPos int) *ParseError {
	if p.pending != graph.BondNone {
		return syntaxErr(apperrors.ErrCodeSmilesDanglingBond, p.pendingPos,
			"bond symbol with no following atom")
	}
	if p.afterDot {
		return syntaxErr(apperrors.ErrCodeSmilesDanglingBond, eofPos-1,
			"'.' with no following atom")
	}
	if n := len(p.branches); n > 0 {
		return syntaxErr(apperrors.ErrCodeSmilesUnmatchedParen, p.branches[n-1].pos,
			"'(' with no matching ')'")
	}
	if len(p.rings) > 0 {
		earliest := ringOpening{pos: -1}
		num := 0
		for n, r := range p.rings {
			if earliest.pos < 0 || r.pos < earliest.pos {
				earliest = r
				num = n
			}
		}
		return semanticErr(apperrors.ErrCodeSmilesUnclosedRing, earliest.pos,
			"ring %d opened but never closed", num)
	}
	if len(p.mol.Atoms) == 0 {
		return syntaxErr(apperrors.ErrCodeSmilesEmptyInput, 0, "empty input")
	}
	return nil
}

// defaultBond is the bond written by omission: aromatic when both ends are
// aromatic atoms, single otherwise.
func defaultBond(a, b *graph.Atom) graph.BondKind {
	if a.Aromatic && b.Aromatic {
		return graph.BondAromatic
	}
	return graph.BondSingle
}
