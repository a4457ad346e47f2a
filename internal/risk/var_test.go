package risk

import (
	"math"
	"testing"
)

func sequence1to100() []float64 {
	out := make([]float64, 100)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func TestVaR95On1To100(t *testing.T) {
	got := VaR(sequence1to100(), 0.95)
	if got != 95 {
		t.Errorf("VaR(1..100, 0.95) = %v, want 95", got)
	}
}

func TestCVaR95On1To100(t *testing.T) {
	got := CVaR(sequence1to100(), 0.95)
	if math.Abs(got-97.5) > 1e-9 {
		t.Errorf("CVaR(1..100, 0.95) = %v, want 97.5", got)
	}
}

func TestVaROnMostlyZeros(t *testing.T) {
	losses := []float64{0, 0, 0, 0, 100}
	if got := VaR(losses, 0.80); got != 0 {
		t.Errorf("VaR(0,0,0,0,100; 0.80) = %v, want 0", got)
	}
	if got := VaR(losses, 0.99); got != 100 {
		t.Errorf("VaR(0,0,0,0,100; 0.99) = %v, want 100", got)
	}
	if got := CVaR(losses, 0.99); got != 100 {
		t.Errorf("CVaR(0,0,0,0,100; 0.99) = %v, want 100", got)
	}
}

func TestVaREmptyIsZero(t *testing.T) {
	if got := VaR(nil, 0.95); got != 0 {
		t.Errorf("VaR(nil) = %v, want 0", got)
	}
}
