package core

import "testing"

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float32, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}

	if cap(out) != cap(buf) {
		t.Fatalf("cap = %d, want %d", cap(out), cap(buf))
	}
}

func TestEnsureLenGrow(t *testing.T) {
	out := EnsureLen([]float64(nil), 3)
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}

	if got := EnsureLen(out, 0); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestWiden(t *testing.T) {
	dst := make([]float64, 0, 2)

	dst = Widen(dst, []float32{0.5, -0.25, 1})
	if len(dst) != 3 {
		t.Fatalf("len = %d, want 3", len(dst))
	}

	if dst[0] != 0.5 || dst[1] != -0.25 || dst[2] != 1 {
		t.Fatalf("unexpected dst: %#v", dst)
	}
}
