package heap

import (
	"strconv"
	"testing"
)

func TestSetNewIsEmpty(t *testing.T) {
	s := SetNew()
	if got := SetLen(s); got != 0 {
		t.Errorf("SetLen(new) = %d, want 0", got)
	}

	Release(s)
}

func TestSetInsertIsPersistent(t *testing.T) {
	s0 := SetNew()
	v := BoxI64(1)

	s1 := SetInsert(s0, v)

	if got := SetLen(s0); got != 0 {
		t.Errorf("SetLen(s0) after insert = %d, want 0 (persistent)", got)
	}

	if got := SetLen(s1); got != 1 {
		t.Errorf("SetLen(s1) = %d, want 1", got)
	}

	if !SetContains(s1, v) {
		t.Error("SetContains(s1, v) = false, want true")
	}

	Release(s0)
	Release(s1)
}

func TestSetInsertDuplicateIsIdentityStable(t *testing.T) {
	s0 := SetNew()
	v := BoxI64(5)

	s1 := SetInsert(s0, v)
	s2 := SetInsert(s1, v)

	if got := SetLen(s2); got != 1 {
		t.Errorf("SetLen(s2) = %d, want 1 (duplicate insert)", got)
	}

	Release(s0)
	Release(s1)
	Release(s2)
}

func TestSetContainsUsesPointerIdentity(t *testing.T) {
	s0 := SetNew()
	a := BoxI64(9)
	b := BoxI64(9) // same value, distinct object

	s1 := SetInsert(s0, a)

	if SetContains(s1, b) {
		t.Error("SetContains matched a distinct object with equal value")
	}

	Release(s0)
	Release(s1)
	Release(b)
}

func TestSetNilTargetPanics(t *testing.T) {
	cases := []func(){
		func() { SetLen(nil) },
		func() { SetContains(nil, nil) },
		func() { SetInsert(nil, nil) },
	}

	for i, fn := range cases {
		if out, code := runFatal(t, strconv.Itoa(i), fn); code != 1 {
			t.Fatalf("expected panic for nil set target (exit status 1), got %d:\n%s", code, out)
		}
	}
}
