package vars

import "testing"

func TestStrToBool(t *testing.T) {
	for _, str := range []string{"true", "T", "yes", "Y", "on", "1", " true "} {
		if !StrToBool(str) {
			t.Fatalf("got false for %q", str)
		}
	}
	for _, str := range []string{"false", "no", "off", "0", "", "maybe"} {
		if StrToBool(str) {
			t.Fatalf("got true for %q", str)
		}
	}
}

func TestFirstNonZero(t *testing.T) {
	if n := FirstNonZero(0, 0, 3, 4); n != 3 {
		t.Fatalf("got %v", n)
	}
	if s := FirstNonZero("", ""); s != "" {
		t.Fatalf("got %q", s)
	}
}
