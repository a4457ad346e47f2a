package distribution

import (
	"math"
	"testing"

	"marketsim/internal/prng"
)

func sampleN(d Distribution, seed uint32, n int) []float64 {
	p := prng.New(seed)
	out := make([]float64, n)
	for i := range out {
		out[i] = d.Sample(p)
	}
	return out
}

func meanStd(xs []float64) (mean, std float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		d := x - mean
		std += d * d
	}
	std = math.Sqrt(std / float64(len(xs)))
	return
}

func TestNormalSamplingCorrectness(t *testing.T) {
	d := Normal{Mu: 100, Sigma: 10}
	xs := sampleN(d, 42, 10000)
	mean, std := meanStd(xs)
	if math.Abs(mean-100) > 1 {
		t.Errorf("mean = %v, want within 1 of 100", mean)
	}
	if math.Abs(std-10) > 0.5 {
		t.Errorf("std = %v, want within 0.5 of 10", std)
	}
}

func TestNormalPDFPeaksAtMean(t *testing.T) {
	d := Normal{Mu: 5, Sigma: 2}
	if !(d.PDF(5) > d.PDF(5+2)) {
		t.Fatalf("expected pdf(mu) > pdf(mu+sigma)")
	}
}

func TestTruncatedNormalStaysInBounds(t *testing.T) {
	d := TruncatedNormal{Mu: 50, Sigma: 20, Lo: 30, Hi: 70}
	xs := sampleN(d, 42, 10000)
	for _, x := range xs {
		if x < 30 || x > 70 {
			t.Fatalf("sample %v outside [30,70]", x)
		}
	}
	if d.PDF(29) != 0 || d.PDF(71) != 0 {
		t.Fatalf("pdf outside support should be 0")
	}
	if d.PDF(50) <= 0 {
		t.Fatalf("pdf(50) should be positive")
	}
}

func TestBetaMoments(t *testing.T) {
	d := Beta{Alpha: 2, Beta: 5}
	xs := sampleN(d, 42, 10000)
	mean, _ := meanStd(xs)
	want := 2.0 / 7.0
	if math.Abs(mean-want) > 0.01 {
		t.Errorf("mean = %v, want within 0.01 of %v", mean, want)
	}
	for _, x := range xs {
		if x < 0 || x > 1 {
			t.Fatalf("sample %v outside [0,1]", x)
		}
	}
}

func TestTriangularShape(t *testing.T) {
	d := Triangular{Lo: 10, Mode: 30, Hi: 50}
	xs := sampleN(d, 42, 10000)
	mean, _ := meanStd(xs)
	if math.Abs(mean-30) > 0.5 {
		t.Errorf("mean = %v, want near 30", mean)
	}
	if !(d.PDF(30) > d.PDF(10)) {
		t.Fatalf("expected pdf(mode) > pdf(lo)")
	}
	if d.PDF(9) != 0 || d.PDF(51) != 0 {
		t.Fatalf("pdf outside support should be 0")
	}
}

func TestUniformMomentsAndDensity(t *testing.T) {
	d := Uniform{Lo: 0, Hi: 12}
	if math.Abs(d.Variance()-12) > 1e-9 {
		t.Errorf("variance = %v, want 12", d.Variance())
	}
	want := 1.0 / 12.0
	if math.Abs(d.PDF(3)-want) > 1e-6 || math.Abs(d.PDF(7)-want) > 1e-6 {
		t.Errorf("pdf in-range mismatch: pdf(3)=%v pdf(7)=%v want %v", d.PDF(3), d.PDF(7), want)
	}
	if d.PDF(-1) != 0 || d.PDF(13) != 0 {
		t.Errorf("pdf outside support should be 0")
	}
}

func TestLogNormalEmpiricalMean(t *testing.T) {
	d := LogNormal{Mu: 1, Sigma: 0.5}
	xs := sampleN(d, 42, 20000)
	mean, _ := meanStd(xs)
	want := math.Exp(1 + 0.125)
	if math.Abs(mean-want) > 0.5 {
		t.Errorf("mean = %v, want within 0.5 of %v", mean, want)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	dists := []Distribution{
		Normal{Mu: 1, Sigma: 2},
		TruncatedNormal{Mu: 1, Sigma: 2, Lo: -1, Hi: 3},
		Beta{Alpha: 2, Beta: 3},
		Triangular{Lo: 0, Mode: 1, Hi: 2},
		Uniform{Lo: 0, Hi: 1},
		LogNormal{Mu: 0, Sigma: 1},
	}
	for _, d := range dists {
		data, err := MarshalJSON(d)
		if err != nil {
			t.Fatalf("marshal %v: %v", d.Type(), err)
		}
		got, err := UnmarshalJSON(data)
		if err != nil {
			t.Fatalf("unmarshal %v: %v", d.Type(), err)
		}
		if got.Type() != d.Type() {
			t.Errorf("round-trip type mismatch: got %v want %v", got.Type(), d.Type())
		}
	}
}

func TestUnmarshalUnknownDistributionErrors(t *testing.T) {
	_, err := UnmarshalJSON([]byte(`{"type":"weibull","params":{}}`))
	if err == nil {
		t.Fatal("expected error for unknown distribution type")
	}
}

func TestDegenerateSigmaReturnsMean(t *testing.T) {
	d := Normal{Mu: 42, Sigma: 0}
	p := prng.New(1)
	if d.Sample(p) != 42 {
		t.Fatalf("degenerate normal should sample exactly the mean")
	}
}
