package fcimaps

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParallelSliceFieldName(t *testing.T) {
	cases := []struct {
		field  string
		offset int
		want   string
	}{
		{"R", 1, "forward_R"},
		{"R", -1, "backward_R"},
		{"R", 2, "forward_R_2"},
		{"Z", -3, "backward_Z_3"},
		{"xt_prime", 1, "forward_xt_prime"},
		{"zt_prime", -2, "backward_zt_prime_2"},
	}
	for _, c := range cases {
		if got := ParallelSliceFieldName(c.field, c.offset); got != c.want {
			t.Errorf("ParallelSliceFieldName(%q, %d) = %q, want %q", c.field, c.offset, got, c.want)
		}
	}
}

func TestParseParallelSliceFieldName(t *testing.T) {
	type parsed struct {
		Field  string
		Offset int
		OK     bool
	}
	cases := map[string]parsed{
		"forward_R":           {"R", 1, true},
		"backward_R":          {"R", -1, true},
		"forward_R_2":         {"R", 2, true},
		"backward_Z_3":        {"Z", -3, true},
		"forward_xt_prime":    {"xt_prime", 1, true},
		"backward_zt_prime_2": {"zt_prime", -2, true},
		"R":                   {"", 0, false},
		"Z":                   {"", 0, false},
		"psi":                 {"", 0, false},
		"forward_":            {"", 0, false},
	}
	for name, want := range cases {
		f, o, ok := ParseParallelSliceFieldName(name)
		got := parsed{f, o, ok}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ParseParallelSliceFieldName(%q) mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestNameRoundTrip(t *testing.T) {
	for _, f := range []string{"R", "Z", "xt_prime", "zt_prime"} {
		for _, o := range []int{1, -1, 2, -2, 5, -5} {
			name := ParallelSliceFieldName(f, o)
			gf, go_, ok := ParseParallelSliceFieldName(name)
			if !ok || gf != f || go_ != o {
				t.Fatalf("round trip %q/%d via %q gave %q/%d (ok=%v)", f, o, name, gf, go_, ok)
			}
		}
	}
}
