package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAtomAssignsDenseIndices(t *testing.T) {
	m := NewMolecule("CCO")
	i0 := m.AddAtom(Atom{Symbol: "C"})
	i1 := m.AddAtom(Atom{Symbol: "C"})
	i2 := m.AddAtom(Atom{Symbol: "O"})

	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)
	assert.Equal(t, 2, i2)
	require.Len(t, m.Atoms, 3)
	assert.Equal(t, "O", m.Atoms[2].Symbol)
	assert.Equal(t, 2, m.Atoms[2].Index)
}

func TestAddBondAndDegree(t *testing.T) {
	m := NewMolecule("CCO")
	m.AddAtom(Atom{Symbol: "C"})
	m.AddAtom(Atom{Symbol: "C"})
	m.AddAtom(Atom{Symbol: "O"})
	m.AddBond(Bond{From: 0, To: 1, Kind: BondSingle})
	m.AddBond(Bond{From: 1, To: 2, Kind: BondSingle})

	assert.Equal(t, 1, m.Degree(0))
	assert.Equal(t, 2, m.Degree(1))
	assert.Equal(t, 1, m.Degree(2))

	assert.True(t, m.HasBond(0, 1))
	assert.True(t, m.HasBond(1, 0))
	assert.True(t, m.HasBond(2, 1))
	assert.False(t, m.HasBond(0, 2))
}

func TestBondsOf(t *testing.T) {
	m := NewMolecule("C(=O)O")
	m.AddAtom(Atom{Symbol: "C"})
	m.AddAtom(Atom{Symbol: "O"})
	m.AddAtom(Atom{Symbol: "O"})
	m.AddBond(Bond{From: 0, To: 1, Kind: BondDouble})
	m.AddBond(Bond{From: 0, To: 2, Kind: BondSingle})

	bonds := m.BondsOf(0)
	require.Len(t, bonds, 2)
	assert.Equal(t, BondDouble, bonds[0].Kind)
	assert.Equal(t, 1, bonds[0].Other(0))
	assert.Equal(t, 2, bonds[1].Other(0))
}

func TestComponents(t *testing.T) {
	m := NewMolecule("[Na+].[Cl-]")
	m.AddAtom(Atom{Symbol: "Na", Bracketed: true, Charge: 1})
	m.AddAtom(Atom{Symbol: "Cl", Bracketed: true, Charge: -1})
	assert.Equal(t, 2, m.Components())

	m2 := NewMolecule("CCO")
	m2.AddAtom(Atom{Symbol: "C"})
	m2.AddAtom(Atom{Symbol: "C"})
	m2.AddAtom(Atom{Symbol: "O"})
	m2.AddBond(Bond{From: 0, To: 1, Kind: BondSingle})
	m2.AddBond(Bond{From: 1, To: 2, Kind: BondSingle})
	assert.Equal(t, 1, m2.Components())

	empty := NewMolecule("")
	assert.Equal(t, 0, empty.Components())
}

func TestBondKindHalfOrder(t *testing.T) {
	assert.Equal(t, 2, BondSingle.HalfOrder())
	assert.Equal(t, 4, BondDouble.HalfOrder())
	assert.Equal(t, 6, BondTriple.HalfOrder())
	assert.Equal(t, 8, BondQuadruple.HalfOrder())
	assert.Equal(t, 3, BondAromatic.HalfOrder())
	assert.Equal(t, 0, BondNone.HalfOrder())
}

func TestAtomHydrogens(t *testing.T) {
	two := 2
	a := Atom{Symbol: "N", ExplicitH: &two, ImplicitH: 3}
	assert.Equal(t, 2, a.Hydrogens())

	b := Atom{Symbol: "N", ImplicitH: 3}
	assert.Equal(t, 3, b.Hydrogens())

	w := Atom{Symbol: Wildcard}
	assert.True(t, w.IsWildcard())
}

func TestFormulaHillOrder(t *testing.T) {
	// Ethanol: C2H6O.
	m := NewMolecule("CCO")
	m.AddAtom(Atom{Symbol: "C", ImplicitH: 3})
	m.AddAtom(Atom{Symbol: "C", ImplicitH: 2})
	m.AddAtom(Atom{Symbol: "O", ImplicitH: 1})
	assert.Equal(t, "C2H6O", m.Formula())
}

func TestFormulaWithoutCarbonIsAlphabetical(t *testing.T) {
	// Water: H2O sorts H before O alphabetically.
	m := NewMolecule("O")
	m.AddAtom(Atom{Symbol: "O", ImplicitH: 2})
	assert.Equal(t, "H2O", m.Formula())

	// Sodium chloride: ClNa.
	salt := NewMolecule("[Na+].[Cl-]")
	salt.AddAtom(Atom{Symbol: "Na", Bracketed: true, Charge: 1})
	salt.AddAtom(Atom{Symbol: "Cl", Bracketed: true, Charge: -1})
	assert.Equal(t, "ClNa", salt.Formula())
}

func TestFormulaSkipsWildcard(t *testing.T) {
	m := NewMolecule("*C")
	m.AddAtom(Atom{Symbol: Wildcard})
	m.AddAtom(Atom{Symbol: "C", ImplicitH: 3})
	m.AddBond(Bond{From: 0, To: 1, Kind: BondSingle})
	assert.Equal(t, "CH3", m.Formula())
}

func TestWeight(t *testing.T) {
	// Methane: 12.011 + 4*1.008 = 16.043.
	m := NewMolecule("C")
	m.AddAtom(Atom{Symbol: "C", ImplicitH: 4})
	assert.InDelta(t, 16.043, m.Weight(), 0.01)

	empty := NewMolecule("")
	assert.Zero(t, empty.Weight())
}

func TestToDTO(t *testing.T) {
	m := NewMolecule("C=O")
	m.AddAtom(Atom{Symbol: "C", ImplicitH: 2})
	m.AddAtom(Atom{Symbol: "O"})
	m.AddBond(Bond{From: 0, To: 1, Kind: BondDouble})

	dto := m.ToDTO()
	require.NotNil(t, dto)
	assert.Equal(t, "C=O", dto.SMILES)
	require.Len(t, dto.Atoms, 2)
	require.Len(t, dto.Bonds, 1)
	assert.Equal(t, "double", string(dto.Bonds[0].Kind))
	assert.Equal(t, 1, dto.Components)
	assert.Equal(t, "CH2O", dto.MolecularFormula)
	assert.InDelta(t, 30.026, dto.MolecularWeight, 0.01)
}
