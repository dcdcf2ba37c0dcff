package heap

import "testing"

func TestIndexAccessArray(t *testing.T) {
	arr := ArrayOf(BoxI64(10), BoxI64(20), BoxI64(30))

	got := IndexAccess(arr, 1)
	if UnboxI64(got) != 20 {
		t.Errorf("IndexAccess(arr, 1) = %d, want 20", UnboxI64(got))
	}

	Release(got)
	Release(arr)
}

func TestIndexAccessArrayOutOfBoundsPanics(t *testing.T) {
	arr := ArrayOf(BoxI64(1))
	defer Release(arr)

	if out, code := runFatal(t, "", func() { IndexAccess(arr, 5) }); code != 1 {
		t.Fatalf("expected panic for out-of-bounds index (exit status 1), got %d:\n%s", code, out)
	}
}

func TestIndexAccessStringByte(t *testing.T) {
	s := BoxString("AB")
	defer Release(s)

	got := IndexAccess(s, 1)
	defer Release(got)

	if UnboxChar(got) != 'B' {
		t.Errorf("IndexAccess(string, 1) = %q, want 'B'", UnboxChar(got))
	}
}

func TestIndexAccessNegativeIndexPanics(t *testing.T) {
	arr := ArrayOf(BoxI64(1))
	defer Release(arr)

	if out, code := runFatal(t, "", func() { IndexAccess(arr, -1) }); code != 1 {
		t.Fatalf("expected panic for negative index (exit status 1), got %d:\n%s", code, out)
	}
}
