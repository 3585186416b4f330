// Package graph provides the molecular-graph model that the SMILES parser
// assembles into: atoms, bonds, and the Molecule aggregate.  The graph is
// append-only while a parse is running and immutable afterwards, except for
// the validator's implicit-hydrogen annotation, which is a final,
// non-structural pass.
package graph

import (
	"fmt"

	"github.com/turtacn/MolParse/pkg/types/chem"
)

// ─────────────────────────────────────────────────────────────────────────────
// BondKind — closed enumeration of bond kinds
// ─────────────────────────────────────────────────────────────────────────────

// BondKind is the tagged kind of a bond.  Consumers pattern-match this
// enumeration exhaustively; there are no open string kinds.
type BondKind int

const (
	// BondNone marks "no bond symbol written"; it never appears in a
	// finished Molecule, only in in-flight parser state where the
	// default-bond rule has not been applied yet.
	BondNone BondKind = iota
	BondSingle
	BondDouble
	BondTriple
	BondQuadruple
	BondAromatic
	// BondDisconnected is the dot: the next atom starts a new component
	// and no bond is materialized.  Like BondNone it never appears in a
	// finished Molecule.
	BondDisconnected
)

// HalfOrder returns twice the bond order, letting the aromatic 1.5 stay in
// integer arithmetic (single=2, aromatic=3, double=4, ...).
func (k BondKind) HalfOrder() int {
	switch k {
	case BondSingle:
		return 2
	case BondDouble:
		return 4
	case BondTriple:
		return 6
	case BondQuadruple:
		return 8
	case BondAromatic:
		return 3
	default:
		return 0
	}
}

func (k BondKind) String() string {
	switch k {
	case BondNone:
		return "none"
	case BondSingle:
		return "single"
	case BondDouble:
		return "double"
	case BondTriple:
		return "triple"
	case BondQuadruple:
		return "quadruple"
	case BondAromatic:
		return "aromatic"
	case BondDisconnected:
		return "disconnected"
	}
	return fmt.Sprintf("BondKind(%d)", int(k))
}

// Symbol returns the SMILES character for the kind, or "" for the implicit
// kinds.
func (k BondKind) Symbol() string {
	switch k {
	case BondSingle:
		return "-"
	case BondDouble:
		return "="
	case BondTriple:
		return "#"
	case BondQuadruple:
		return "$"
	case BondAromatic:
		return ":"
	case BondDisconnected:
		return "."
	}
	return ""
}

// Direction is the optional cis/trans marker attached to a single bond.
type Direction int

const (
	DirNone Direction = iota
	DirUp             // written "/"
	DirDown           // written "\"
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	}
	return ""
}

// ─────────────────────────────────────────────────────────────────────────────
// Atom
// ─────────────────────────────────────────────────────────────────────────────

// Wildcard is the symbol of the unknown-atom wildcard "*".
const Wildcard = "*"

// Atom is a single atom in the molecular graph.  All fields are set during
// the parse scan except ImplicitH, which the validator fills in afterwards.
type Atom struct {
	// Index is the atom's stable 0-based position in the Molecule.
	Index int

	// Symbol is the validated element symbol, or Wildcard.
	Symbol string

	// Aromatic reports whether the atom was written in lowercase aromatic form.
	Aromatic bool

	// Bracketed reports whether the atom was written inside brackets.  An
	// unbracketed atom carries no isotope, charge, chirality, class, or
	// explicit hydrogen count.
	Bracketed bool

	// Isotope is the isotope mass number, if one was written.
	Isotope *int

	// Chirality is the tag as written ("@", "@@", "@TH1", ...), or "".
	Chirality string

	// Charge is the formal charge, default 0.
	Charge int

	// ExplicitH is the hydrogen count written inside brackets, if any.
	ExplicitH *int

	// ImplicitH is the hydrogen count inferred by the valence model.  Zero
	// for atoms that carry an explicit count or are exempt from inference.
	ImplicitH int

	// Class is the atom-map class, if one was written.  No chemical meaning.
	Class *int
}

// IsWildcard reports whether the atom is the "*" wildcard.
func (a *Atom) IsWildcard() bool {
	return a.Symbol == Wildcard
}

// Hydrogens returns the effective hydrogen count: the explicit bracket count
// when present, the inferred count otherwise.
func (a *Atom) Hydrogens() int {
	if a.ExplicitH != nil {
		return *a.ExplicitH
	}
	return a.ImplicitH
}

// ─────────────────────────────────────────────────────────────────────────────
// Bond
// ─────────────────────────────────────────────────────────────────────────────

// Bond connects two atoms by index.  From precedes To in scan order for chain
// bonds; for ring-closure bonds From is the opening atom.
type Bond struct {
	From      int
	To        int
	Kind      BondKind
	Direction Direction
}

// Other returns the index at the far end of the bond from atom idx.
func (b Bond) Other(idx int) int {
	if b.From == idx {
		return b.To
	}
	return b.From
}

// ─────────────────────────────────────────────────────────────────────────────
// Molecule
// ─────────────────────────────────────────────────────────────────────────────

// Molecule owns all Atom and Bond data exclusively; callers receive the
// finished value and never alias its internals.  Atoms and bonds are
// appended in scan order and never removed.
type Molecule struct {
	// SMILES is the input the molecule was parsed from.
	SMILES string

	Atoms []Atom
	Bonds []Bond

	// incident maps an atom index to the indices of its bonds, maintained
	// by AddBond so degree and adjacency queries stay O(1).
	incident map[int][]int
}

// NewMolecule returns an empty molecule ready for assembly.
func NewMolecule(smiles string) *Molecule {
	return &Molecule{
		SMILES:   smiles,
		incident: make(map[int][]int),
	}
}

// AddAtom appends an atom, assigns its index, and returns that index.
// Indices are dense and monotonically increasing from 0.
func (m *Molecule) AddAtom(a Atom) int {
	a.Index = len(m.Atoms)
	m.Atoms = append(m.Atoms, a)
	return a.Index
}

// AddBond appends a bond between two existing atoms.  The caller guarantees
// both indices are valid and that no bond already connects the pair; use
// HasBond to check.
func (m *Molecule) AddBond(b Bond) {
	i := len(m.Bonds)
	m.Bonds = append(m.Bonds, b)
	m.incident[b.From] = append(m.incident[b.From], i)
	m.incident[b.To] = append(m.incident[b.To], i)
}

// HasBond reports whether a bond already connects atoms a and b, in either
// order.  Two atoms may be connected by at most one bond.
func (m *Molecule) HasBond(a, b int) bool {
	for _, bi := range m.incident[a] {
		if m.Bonds[bi].Other(a) == b {
			return true
		}
	}
	return false
}

// BondsOf returns the bonds incident to atom idx.
func (m *Molecule) BondsOf(idx int) []Bond {
	indices := m.incident[idx]
	out := make([]Bond, len(indices))
	for i, bi := range indices {
		out[i] = m.Bonds[bi]
	}
	return out
}

// Degree returns the number of explicit bonds incident to atom idx.
func (m *Molecule) Degree(idx int) int {
	return len(m.incident[idx])
}

// Components returns the number of connected components.  Disconnected
// components arise from "." in the input.
func (m *Molecule) Components() int {
	n := len(m.Atoms)
	if n == 0 {
		return 0
	}
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for _, b := range m.Bonds {
		ra, rb := find(b.From), find(b.To)
		if ra != rb {
			parent[ra] = rb
		}
	}
	count := 0
	for i := range parent {
		if find(i) == i {
			count++
		}
	}
	return count
}

// ─────────────────────────────────────────────────────────────────────────────
// DTO conversion
// ─────────────────────────────────────────────────────────────────────────────

// ToDTO converts the molecule into its wire representation, including the
// derived formula and weight.
func (m *Molecule) ToDTO() *chem.MoleculeGraphDTO {
	dto := &chem.MoleculeGraphDTO{
		SMILES:           m.SMILES,
		Atoms:            make([]chem.AtomDTO, len(m.Atoms)),
		Bonds:            make([]chem.BondDTO, len(m.Bonds)),
		Components:       m.Components(),
		MolecularFormula: m.Formula(),
		MolecularWeight:  m.Weight(),
	}
	for i, a := range m.Atoms {
		dto.Atoms[i] = chem.AtomDTO{
			Index:             a.Index,
			Symbol:            a.Symbol,
			Aromatic:          a.Aromatic,
			Isotope:           a.Isotope,
			Chirality:         a.Chirality,
			Charge:            a.Charge,
			ExplicitHydrogens: a.ExplicitH,
			ImplicitHydrogens: a.ImplicitH,
			Class:             a.Class,
		}
	}
	for i, b := range m.Bonds {
		dto.Bonds[i] = chem.BondDTO{
			From:      b.From,
			To:        b.To,
			Kind:      bondKindDTO(b.Kind),
			Direction: directionDTO(b.Direction),
		}
	}
	return dto
}

func bondKindDTO(k BondKind) chem.BondKind {
	switch k {
	case BondDouble:
		return chem.BondDouble
	case BondTriple:
		return chem.BondTriple
	case BondQuadruple:
		return chem.BondQuadruple
	case BondAromatic:
		return chem.BondAromatic
	default:
		return chem.BondSingle
	}
}

func directionDTO(d Direction) chem.BondDirection {
	switch d {
	case DirUp:
		return chem.DirectionUp
	case DirDown:
		return chem.DirectionDown
	}
	return chem.DirectionNone
}
