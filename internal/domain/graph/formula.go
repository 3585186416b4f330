package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/turtacn/MolParse/internal/domain/elements"
)

// elementCounts tallies element symbol → atom count, folding in the
// hydrogens attached to each heavy atom.  Wildcard atoms contribute nothing.
func (m *Molecule) elementCounts() map[string]int {
	counts := make(map[string]int)
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.IsWildcard() {
			continue
		}
		counts[a.Symbol]++
		if h := a.Hydrogens(); h > 0 {
			counts["H"] += h
		}
	}
	return counts
}

// Formula returns the molecular formula in Hill order: carbon first, then
// hydrogen, then the remaining elements alphabetically.  Without carbon all
// elements sort alphabetically, hydrogen included.
func (m *Molecule) Formula() string {
	counts := m.elementCounts()
	if len(counts) == 0 {
		return ""
	}

	symbols := make([]string, 0, len(counts))
	for sym := range counts {
		symbols = append(symbols, sym)
	}
	hasCarbon := counts["C"] > 0
	sort.Slice(symbols, func(i, j int) bool {
		if hasCarbon {
			ri, rj := hillRank(symbols[i]), hillRank(symbols[j])
			if ri != rj {
				return ri < rj
			}
		}
		return symbols[i] < symbols[j]
	})

	var sb strings.Builder
	for _, sym := range symbols {
		sb.WriteString(sym)
		if n := counts[sym]; n > 1 {
			fmt.Fprintf(&sb, "%d", n)
		}
	}
	return sb.String()
}

func hillRank(sym string) int {
	switch sym {
	case "C":
		return 0
	case "H":
		return 1
	}
	return 2
}

// Weight returns the molecular weight in g/mol, summing standard atomic
// masses (isotope labels are ignored) plus attached hydrogens.  Wildcard
// atoms contribute zero.
func (m *Molecule) Weight() float64 {
	var w float64
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.IsWildcard() {
			continue
		}
		if el, ok := elements.Lookup(a.Symbol); ok {
			w += el.Mass
		}
		w += float64(a.Hydrogens()) * elements.HydrogenMass
	}
	return w
}
