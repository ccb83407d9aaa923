package utils

import "testing"

func TestNormalizePath(t *testing.T) {
	got := NormalizePath([]string{"std", "string.concat"})
	if got.String() != "std.string.concat" || len(got) != 3 {
		t.Errorf("got=%v, want=[std string concat]", got)
	}

	// e followed by a combining acute accent composes to U+00E9
	decomposed := NormalizePath([]string{"cafe\u0301"})
	if decomposed[0] != "caf\u00e9" {
		t.Errorf("got=%q, want=%q", decomposed[0], "caf\u00e9")
	}
	if NormalizeName("cafe\u0301") != "caf\u00e9" {
		t.Errorf("NormalizeName did not compose")
	}
}
