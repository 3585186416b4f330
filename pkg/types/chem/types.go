// Package chem defines the chemistry Data Transfer Objects exchanged between
// the parser core, the application layer, and the HTTP/CLI surfaces.  No
// parsing logic lives here — only plain data types that are safe to import
// from any layer without creating circular dependencies.
package chem

import (
	"github.com/turtacn/MolParse/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// BondKind — closed enumeration of bond kinds
// ─────────────────────────────────────────────────────────────────────────────

// BondKind identifies the kind of a bond in the wire representation.  The set
// mirrors internal/domain/graph.BondKind so that DTOs round-trip losslessly.
type BondKind string

const (
	BondSingle    BondKind = "single"
	BondDouble    BondKind = "double"
	BondTriple    BondKind = "triple"
	BondQuadruple BondKind = "quadruple"
	BondAromatic  BondKind = "aromatic"
)

// BondDirection carries the cis/trans directionality marker written as
// "/" or "\" in the input, when present.
type BondDirection string

const (
	DirectionNone BondDirection = ""
	DirectionUp   BondDirection = "up"
	DirectionDown BondDirection = "down"
)

// ─────────────────────────────────────────────────────────────────────────────
// Graph DTOs
// ─────────────────────────────────────────────────────────────────────────────

// AtomDTO is the wire representation of a single atom in a parsed molecule.
// Optional bracket-only attributes (isotope, chirality, explicit hydrogen
// count, atom class) are pointers so that their absence survives JSON
// round-trips without being conflated with zero values.
type AtomDTO struct {
	// Index is the atom's stable 0-based position in the graph.
	Index int `json:"index"`

	// Symbol is the validated element symbol, or "*" for the wildcard atom.
	Symbol string `json:"symbol"`

	// Aromatic reports whether the atom was written in aromatic (lowercase) form.
	Aromatic bool `json:"aromatic"`

	// Isotope is the isotope mass number written before the symbol, if any.
	Isotope *int `json:"isotope,omitempty"`

	// Chirality is the chirality tag as written ("@", "@@", "@TH1", ...), if any.
	Chirality string `json:"chirality,omitempty"`

	// Charge is the formal charge, default 0.
	Charge int `json:"charge"`

	// ExplicitHydrogens is the hydrogen count written inside brackets, if any.
	ExplicitHydrogens *int `json:"explicit_hydrogens,omitempty"`

	// ImplicitHydrogens is the hydrogen count inferred by the valence model.
	// It is 0 for atoms that carry an explicit count or skip inference.
	ImplicitHydrogens int `json:"implicit_hydrogens"`

	// Class is the atom-map class written after ":" inside brackets, if any.
	// It has no chemical meaning and is stored verbatim.
	Class *int `json:"class,omitempty"`
}

// BondDTO is the wire representation of a single bond.
type BondDTO struct {
	// From and To are the 0-based indices of the connected atoms, in scan order.
	From int `json:"from"`
	To   int `json:"to"`

	// Kind is the bond kind after default-bond inference and ring-closure
	// resolution.
	Kind BondKind `json:"kind"`

	// Direction carries the "/" or "\" marker, when one was written.
	Direction BondDirection `json:"direction,omitempty"`
}

// MoleculeGraphDTO is the full parsed molecular graph plus the descriptors
// derived from it.
type MoleculeGraphDTO struct {
	// SMILES is the input string the graph was parsed from.
	SMILES string `json:"smiles"`

	// Atoms in scan order; indices are dense starting at 0.
	Atoms []AtomDTO `json:"atoms"`

	// Bonds in creation order (chain bonds first, ring-closure bonds as resolved).
	Bonds []BondDTO `json:"bonds"`

	// Components is the number of connected components ("." separated parts).
	Components int `json:"components"`

	// MolecularFormula is the Hill-system formula including implicit hydrogens
	// (e.g., "C2H6O").
	MolecularFormula string `json:"molecular_formula"`

	// MolecularWeight is the average molecular weight in g/mol.
	MolecularWeight float64 `json:"molecular_weight"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Parse API request / response
// ─────────────────────────────────────────────────────────────────────────────

// ParseRequest is the input DTO for the parse endpoint.
type ParseRequest struct {
	// SMILES is the raw input string.  Restricted to the printable-ASCII
	// subset meaningful to SMILES; anything else is rejected with a lex error.
	SMILES string `json:"smiles" binding:"required"`

	// Persist, when true, asks the service to store the parsed molecule.
	Persist bool `json:"persist,omitempty"`
}

// ParseErrorDTO is the structured failure body returned when a SMILES string
// is rejected.  Kind distinguishes "malformed text" (lex/syntax) from
// "well-formed but chemically invalid" (semantic) so that callers can branch
// without string matching.
type ParseErrorDTO struct {
	// Kind is "lex", "syntax", or "semantic".
	Kind string `json:"kind"`

	// Code is the platform error code (SMI_xxx).
	Code string `json:"code"`

	// Column is the 0-based byte offset into the input where the violation
	// was detected.
	Column int `json:"column"`

	// Message names the offending token or rule.
	Message string `json:"message"`
}

// ParseResponse is the output DTO for the parse endpoint.
type ParseResponse struct {
	// Graph is the parsed molecular graph.  Nil when Error is set.
	Graph *MoleculeGraphDTO `json:"graph,omitempty"`

	// Error describes why parsing failed.  Nil when Graph is set.
	Error *ParseErrorDTO `json:"error,omitempty"`

	// Cached reports whether the result was served from the parse cache.
	Cached bool `json:"cached,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Stored-molecule DTO
// ─────────────────────────────────────────────────────────────────────────────

// MoleculeDTO is the persisted representation of a successfully parsed
// molecule, carried between the repository and the API layers.
type MoleculeDTO struct {
	common.BaseEntity

	// SMILES is the input string as received.
	SMILES string `json:"smiles"`

	// MolecularFormula is the Hill-system formula.
	MolecularFormula string `json:"molecular_formula"`

	// MolecularWeight is the average molecular weight in g/mol.
	MolecularWeight float64 `json:"molecular_weight"`

	// AtomCount and BondCount are denormalised for cheap listing queries.
	AtomCount int `json:"atom_count"`
	BondCount int `json:"bond_count"`

	// Graph is the full parsed graph, stored as JSONB.
	Graph MoleculeGraphDTO `json:"graph"`
}
