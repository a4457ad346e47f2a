package prng

import "testing"

func TestSameSeedProducesIdenticalStream(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 100; i++ {
		va, vb := a.Next(), b.Next()
		if va != vb {
			t.Fatalf("draw %d diverged: %v != %v", i, va, vb)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)

	diff := false
	for i := 0; i < 10; i++ {
		if a.Next() != b.Next() {
			diff = true
			break
		}
	}
	if !diff {
		t.Fatal("expected seeds 1 and 2 to diverge within 10 draws")
	}
}

func TestNextIsInUnitInterval(t *testing.T) {
	p := New(7)
	for i := 0; i < 10000; i++ {
		v := p.Next()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d out of [0,1): %v", i, v)
		}
	}
}
