package strops

import "testing"

func TestEq(t *testing.T) {
	cases := []struct {
		name           string
		a, b           []byte
		aNull, bNull   bool
		want           bool
	}{
		{"equal", []byte("abc"), []byte("abc"), false, false, true},
		{"different length", []byte("abc"), []byte("ab"), false, false, false},
		{"different bytes", []byte("abc"), []byte("abd"), false, false, false},
		{"both null", nil, nil, true, true, true},
		{"one null", nil, []byte("abc"), true, false, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Eq(c.a, c.b, c.aNull, c.bNull); got != c.want {
				t.Errorf("Eq = %v, want %v", got, c.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	if Compare([]byte("abc"), []byte("abc"), false, false) != 0 {
		t.Error("equal strings should compare 0")
	}

	if Compare([]byte("abc"), []byte("abd"), false, false) >= 0 {
		t.Error("abc should compare less than abd")
	}

	if Compare([]byte("ab"), []byte("abc"), false, false) >= 0 {
		t.Error("prefix should compare less than the longer string")
	}

	if Compare(nil, []byte("abc"), true, false) >= 0 {
		t.Error("null should compare less than non-null")
	}

	if Compare([]byte("abc"), nil, false, true) <= 0 {
		t.Error("non-null should compare greater than null")
	}

	if Compare(nil, nil, true, true) != 0 {
		t.Error("two nulls should compare equal")
	}
}
