package heap

import "testing"

func TestADTRoundTrip(t *testing.T) {
	payload := BoxI64(42)
	v := ADTNew(2, payload)

	if got := ADTVariant(v); got != 2 {
		t.Errorf("ADTVariant = %d, want 2", got)
	}

	if got := ADTPayload(v); got != payload {
		t.Error("ADTPayload did not return the constructed payload")
	}

	Release(v)
}

func TestADTWithNilPayload(t *testing.T) {
	v := ADTNew(0, nil)

	if got := ADTPayload(v); got != nil {
		t.Error("ADTPayload = non-nil, want nil")
	}

	Release(v)
}

func TestADTNullTargetPanics(t *testing.T) {
	if out, code := runFatal(t, "", func() { ADTVariant(nil) }); code != 1 {
		t.Fatalf("expected panic (exit status 1), got %d:\n%s", code, out)
	}
}
