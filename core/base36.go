package core

// Base36 decodes a glyph as a base-36 digit, returning its magnitude
// (0-35) and whether the glyph was uppercase.
//
// '0'-'9' and 'a'-'z' decode with a false case flag; 'A'-'Z' decode
// with a true one.  Any other glyph decodes as (0, false).
//
// The case flag is not a sign.  Operators propagate it through
// otherwise-numeric pipelines (usually as a note's sharp marker), so
// it must survive decode/encode untouched.
func Base36(c rune) (int, bool) {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0'), false
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10, false
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

// Char36 encodes a magnitude as a glyph.
//
// The magnitude is taken modulo 36.  Magnitudes below ten render as
// digits regardless of the case flag.
func Char36(n int, upper bool) rune {
	n %= 36
	if n < 10 {
		return rune('0' + n)
	}
	if upper {
		return rune('A' + n - 10)
	}
	return rune('a' + n - 10)
}
