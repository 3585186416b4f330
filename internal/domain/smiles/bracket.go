package smiles

import (
	"github.com/turtacn/MolParse/internal/domain/elements"
	apperrors "github.com/turtacn/MolParse/pkg/errors"
)

// Bracket atom grammar, fields in this order and all but symbol optional:
//
//	'[' isotope? symbol chiral? hcount? charge? class? ']'
//
// The sub-parser consumes the whole expression and emits one
// TokenBracketAtom.  A missing ']' is reported at the column of the '[',
// every other defect at the column of the offending byte.

const (
	maxCharge     = 15
	maxRingNumber = 99
)

// chiralClassMax bounds the numeric suffix of each named chirality class.
var chiralClassMax = map[string]int{
	"TH": 2,
	"AL": 2,
	"SP": 3,
	"TB": 20,
	"OH": 30,
}

func (l *Lexer) lexBracketAtom() (Token, *ParseError) {
	open := l.pos
	l.pos++ // '['

	var atom BracketAtom

	// Isotope.
	if n, digits, ok := l.scanDigits(); ok {
		if digits > 3 {
			return Token{}, semanticErr(apperrors.ErrCodeSmilesInvalidIsotope, open+1,
				"isotope number has more than three digits")
		}
		atom.Isotope = &n
	}

	// Symbol.
	sym, aromatic, perr := l.scanBracketSymbol(open)
	if perr != nil {
		return Token{}, perr
	}
	atom.Symbol = sym
	atom.Aromatic = aromatic

	// Chirality.
	if l.peek() == '@' {
		tag, perr := l.scanChirality()
		if perr != nil {
			return Token{}, perr
		}
		atom.Chirality = tag
	}

	// Hydrogen count.
	if l.peek() == 'H' {
		hPos := l.pos
		l.pos++
		h := 1
		if n, digits, ok := l.scanDigits(); ok {
			if digits > 2 {
				return Token{}, semanticErr(apperrors.ErrCodeSmilesInvalidHCount, hPos,
					"hydrogen count has more than two digits")
			}
			h = n
		}
		atom.HCount = &h
	}

	// Charge.
	if c := l.peek(); c == '+' || c == '-' {
		charge, perr := l.scanCharge()
		if perr != nil {
			return Token{}, perr
		}
		atom.Charge = charge
	}

	// Atom class.
	if l.peek() == ':' {
		colon := l.pos
		l.pos++
		n, digits, ok := l.scanDigits()
		if !ok {
			return Token{}, syntaxErr(apperrors.ErrCodeSmilesInvalidClass, colon,
				"atom class ':' must be followed by a number")
		}
		if digits > 7 {
			return Token{}, semanticErr(apperrors.ErrCodeSmilesInvalidClass, colon,
				"atom class number has more than seven digits")
		}
		atom.Class = &n
	}

	switch {
	case l.pos >= len(l.input):
		return Token{}, syntaxErr(apperrors.ErrCodeSmilesUnmatchedBracket, open,
			"unterminated bracket atom")
	case l.input[l.pos] != ']':
		return Token{}, syntaxErr(apperrors.ErrCodeSmilesMalformedBracket, l.pos,
			"unexpected character %q in bracket atom", l.input[l.pos])
	}
	l.pos++ // ']'
	return Token{Type: TokenBracketAtom, Pos: open, Bracket: atom}, nil
}

// scanBracketSymbol reads the mandatory element symbol (or wildcard) after
// the optional isotope.  Uppercase symbols greedily take a following
// lowercase letter when the pair names an element; lowercase symbols are
// aromatic and must name an aromatic-capable element.
func (l *Lexer) scanBracketSymbol(open int) (string, bool, *ParseError) {
	if l.pos >= len(l.input) {
		return "", false, syntaxErr(apperrors.ErrCodeSmilesUnmatchedBracket, open,
			"unterminated bracket atom")
	}
	start := l.pos
	c := l.input[l.pos]

	switch {
	case c == '*':
		l.pos++
		return "*", false, nil

	case isUpper(c):
		sym := string(c)
		if l.pos+1 < len(l.input) && isLower(l.input[l.pos+1]) {
			if two := l.input[l.pos : l.pos+2]; elements.IsElement(two) {
				l.pos += 2
				return two, false, nil
			}
		}
		if !elements.IsElement(sym) {
			return "", false, semanticErr(apperrors.ErrCodeSmilesUnknownElement, start,
				"unknown element %q", sym)
		}
		l.pos++
		return sym, false, nil

	case isLower(c):
		sym := string(c)
		if l.pos+1 < len(l.input) && isLower(l.input[l.pos+1]) {
			if two := capitalize(l.input[l.pos : l.pos+2]); elements.IsAromaticCapable(two) {
				l.pos += 2
				return two, true, nil
			}
		}
		normalized := capitalize(sym)
		if !elements.IsElement(normalized) {
			return "", false, semanticErr(apperrors.ErrCodeSmilesUnknownElement, start,
				"unknown element %q", sym)
		}
		if !elements.IsAromaticCapable(normalized) {
			return "", false, semanticErr(apperrors.ErrCodeSmilesInvalidAromatic, start,
				"%q cannot be aromatic", sym)
		}
		l.pos++
		return normalized, true, nil
	}
	return "", false, syntaxErr(apperrors.ErrCodeSmilesMalformedBracket, start,
		"expected element symbol, got %q", c)
}

// scanChirality reads "@", "@@", or a named class like "@TH1".  The numeric
// suffix of a named class is mandatory and range-checked per class.
func (l *Lexer) scanChirality() (string, *ParseError) {
	start := l.pos
	l.pos++ // '@'
	if l.peek() == '@' {
		l.pos++
		return "@@", nil
	}
	if l.pos+1 < len(l.input) && isUpper(l.input[l.pos]) && isUpper(l.input[l.pos+1]) {
		class := l.input[l.pos : l.pos+2]
		max, ok := chiralClassMax[class]
		if !ok {
			return "", semanticErr(apperrors.ErrCodeSmilesInvalidChirality, start,
				"unknown chirality class %q", class)
		}
		l.pos += 2
		n, digits, hasNum := l.scanDigits()
		if !hasNum || digits > 2 || n < 1 || n > max {
			return "", semanticErr(apperrors.ErrCodeSmilesInvalidChirality, start,
				"chirality class %s requires a number between 1 and %d", class, max)
		}
		return "@" + class + itoa(n), nil
	}
	return "@", nil
}

// scanCharge reads one of the charge forms: a run of identical signs
// ("+", "++", "---") or a single sign with a number ("+2", "-3").  The two
// forms do not combine, and the magnitude is capped.
func (l *Lexer) scanCharge() (int, *ParseError) {
	start := l.pos
	sign := l.input[l.pos]
	l.pos++

	if n, digits, ok := l.scanDigits(); ok {
		if c := l.peek(); c == '+' || c == '-' {
			return 0, semanticErr(apperrors.ErrCodeSmilesInvalidCharge, start,
				"numeric charge cannot be followed by more signs")
		}
		if digits > 2 {
			return 0, semanticErr(apperrors.ErrCodeSmilesInvalidCharge, start,
				"charge magnitude has more than two digits")
		}
		if n > maxCharge {
			return 0, semanticErr(apperrors.ErrCodeSmilesInvalidCharge, start,
				"charge magnitude %d exceeds %d", n, maxCharge)
		}
		if sign == '-' {
			return -n, nil
		}
		return n, nil
	}

	count := 1
	for l.peek() == sign {
		l.pos++
		count++
	}
	if c := l.peek(); c == '+' || c == '-' {
		return 0, semanticErr(apperrors.ErrCodeSmilesInvalidCharge, start,
			"mixed charge signs")
	}
	if isDigit(l.peek()) {
		return 0, semanticErr(apperrors.ErrCodeSmilesInvalidCharge, start,
			"repeated signs cannot be followed by a number")
	}
	if count > maxCharge {
		return 0, semanticErr(apperrors.ErrCodeSmilesInvalidCharge, start,
			"charge magnitude %d exceeds %d", count, maxCharge)
	}
	if sign == '-' {
		return -count, nil
	}
	return count, nil
}

// maxScanValue saturates digit accumulation.  Every field scanned through
// scanDigits is range-checked far below this bound, so a saturated value can
// never slip past a cap the way a wrapped one could.
const maxScanValue = 1 << 30

// scanDigits consumes a run of ASCII digits, returning the value, the digit
// count, and whether any digit was present.  Values saturate at
// maxScanValue instead of overflowing.
func (l *Lexer) scanDigits() (int, int, bool) {
	start := l.pos
	n := 0
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		if n < maxScanValue {
			n = n*10 + int(l.input[l.pos]-'0')
		}
		l.pos++
	}
	return n, l.pos - start, l.pos > start
}

// peek returns the current byte without consuming it, or 0 at end of input.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func itoa(n int) string {
	if n < 10 {
		return string(byte('0' + n))
	}
	return string(byte('0'+n/10)) + string(byte('0'+n%10))
}
