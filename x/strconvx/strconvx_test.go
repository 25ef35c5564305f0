package strconvx

import "testing"

func TestItoa(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{-7, "-7"},
		{115200, "115200"},
	}
	for _, c := range cases {
		if got := Itoa(c.in); got != c.want {
			t.Errorf("Itoa(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatBases(t *testing.T) {
	if got := FormatInt(-255, 16); got != "-ff" {
		t.Errorf("FormatInt(-255, 16) = %q", got)
	}
	if got := FormatUint(5, 2); got != "101" {
		t.Errorf("FormatUint(5, 2) = %q", got)
	}
}
