package core

import "testing"

func TestBase36RoundTrip(t *testing.T) {
	for m := 0; m < 36; m++ {
		for _, upper := range []bool{false, true} {
			got, gotUpper := Base36(Char36(m, upper))
			if got != m {
				t.Fatalf("magnitude %d (upper %v) round-tripped to %d", m, upper, got)
			}
			// Digits have no case to preserve.
			if 10 <= m && gotUpper != upper {
				t.Fatalf("magnitude %d case flag %v round-tripped to %v", m, upper, gotUpper)
			}
		}
	}
}

func TestBase36(t *testing.T) {
	for _, tc := range []struct {
		glyph rune
		n     int
		upper bool
	}{
		{'0', 0, false},
		{'9', 9, false},
		{'a', 10, false},
		{'z', 35, false},
		{'A', 10, true},
		{'Z', 35, true},
		{'*', 0, false},
		{'#', 0, false},
		{Empty, 0, false},
	} {
		n, upper := Base36(tc.glyph)
		if n != tc.n || upper != tc.upper {
			t.Fatalf("Base36(%q) == (%d,%v); wanted (%d,%v)", tc.glyph, n, upper, tc.n, tc.upper)
		}
	}
}

func TestChar36Wraps(t *testing.T) {
	if c := Char36(36, false); c != '0' {
		t.Fatalf("got %q", c)
	}
	if c := Char36(36+11, true); c != 'B' {
		t.Fatalf("got %q", c)
	}
	if c := Char36(12, true); c != 'C' {
		t.Fatalf("got %q", c)
	}
}
