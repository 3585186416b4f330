package smiles

import (
	"github.com/turtacn/MolParse/internal/domain/elements"
	"github.com/turtacn/MolParse/internal/domain/graph"
	apperrors "github.com/turtacn/MolParse/pkg/errors"
)

// inferHydrogens runs the valence model over a fully assembled graph: for
// each atom it checks the bonded degree against the element's allowed
// valences and fills in the implicit hydrogen count.
//
// Atoms exempt from the model, with no error raised: the wildcard, atoms
// with an explicit bracket hydrogen count, and elements with no entry in the
// valence table.
//
// Aromatic bonds count as order 1.5; the degree is tried rounded down first
// and, if no allowed valence fits, with aromatic bonds as order 1.  An atom
// whose degree plus charge magnitude still exceeds every allowed valence is
// a semantic error.
func inferHydrogens(m *graph.Molecule, atomPos []int) *ParseError {
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.IsWildcard() || a.ExplicitH != nil {
			continue
		}
		valences := elements.DefaultValences(a.Symbol)
		if len(valences) == 0 {
			continue
		}

		var halfSum, aromaticCount int
		for _, b := range m.BondsOf(i) {
			halfSum += b.Kind.HalfOrder()
			if b.Kind == graph.BondAromatic {
				aromaticCount++
			}
		}
		chargeMag := a.Charge
		if chargeMag < 0 {
			chargeMag = -chargeMag
		}

		deg := halfSum / 2
		v, ok := smallestFit(valences, deg+chargeMag)
		if !ok && aromaticCount > 0 {
			// Retry with aromatic bonds at their floor order.
			deg = (halfSum - aromaticCount) / 2
			v, ok = smallestFit(valences, deg+chargeMag)
		}
		if !ok {
			return semanticErr(apperrors.ErrCodeSmilesValenceExceeded, atomPos[i],
				"atom %s has bonded degree %d exceeding its maximum valence",
				a.Symbol, deg+chargeMag)
		}
		a.ImplicitH = v - deg - chargeMag
	}
	return nil
}

// smallestFit returns the smallest valence in the ascending list that is at
// least need.
func smallestFit(valences []int, need int) (int, bool) {
	for _, v := range valences {
		if v >= need {
			return v, true
		}
	}
	return 0, false
}
