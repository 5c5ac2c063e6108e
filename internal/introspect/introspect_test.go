package introspect

import "testing"

func TestStripCheckWrapper(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"CHECK ((age >= 1))", "age >= 1"},
		{"CHECK (((reserved <= on_hand)))", "reserved <= on_hand"},
		{"CHECK (((a > 1) AND (b < 2)))", "(a > 1) AND (b < 2)"},
		{"(price >= 0)", "price >= 0"},
		{"status IN ('a', 'b')", "status IN ('a', 'b')"},
	}
	for _, c := range cases {
		if got := stripCheckWrapper(c.in); got != c.want {
			t.Errorf("stripCheckWrapper(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseMySQLEnum(t *testing.T) {
	values := parseMySQLEnum("enum('small','medium','large')")
	want := []string{"small", "medium", "large"}
	if len(values) != len(want) {
		t.Fatalf("values = %v", values)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("value %d = %q, want %q", i, values[i], want[i])
		}
	}

	if parseMySQLEnum("varchar(255)") != nil {
		t.Error("non-enum column type must yield nil")
	}
}

func TestOpenDBUnsupportedProvider(t *testing.T) {
	if _, err := OpenDB("oracle", "oracle://localhost"); err == nil {
		t.Error("unsupported provider must fail")
	}
}
