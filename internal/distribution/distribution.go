// Package distribution implements the six analytic probability families the
// simulation kernel samples from: Normal, TruncatedNormal, Beta, Triangular,
// Uniform, and LogNormal. Every variant exposes Sample, Mean, Variance, PDF,
// and a JSON encoding whose "type" tag is part of the external contract.
package distribution

import (
	"encoding/json"
	"fmt"
	"math"

	"marketsim/internal/prng"
)

// Distribution is the shared behavioural contract every variant implements.
// There is no base class: Go expresses the "Distribution base + subclasses"
// pattern from the source as one interface over six concrete tagged types.
type Distribution interface {
	Sample(p *prng.PRNG) float64
	Mean() float64
	Variance() float64
	PDF(x float64) float64
	Type() string
}

// wire is the JSON envelope: {"type": ..., "params": {...}}.
type wire struct {
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params"`
}

// Normal is N(mu, sigma).
type Normal struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// Sample draws via Box-Muller, rejecting u1 == 0 so ln never diverges.
func (n Normal) Sample(p *prng.PRNG) float64 {
	if n.Sigma <= 0 {
		return n.Mu
	}
	var u1 float64
	for u1 == 0 {
		u1 = p.Next()
	}
	u2 := p.Next()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return n.Mu + n.Sigma*z
}

func (n Normal) Mean() float64     { return n.Mu }
func (n Normal) Variance() float64 { return n.Sigma * n.Sigma }
func (n Normal) PDF(x float64) float64 {
	if n.Sigma <= 0 {
		if x == n.Mu {
			return math.Inf(1)
		}
		return 0
	}
	z := (x - n.Mu) / n.Sigma
	return math.Exp(-0.5*z*z) / (n.Sigma * math.Sqrt(2*math.Pi))
}
func (n Normal) Type() string { return "normal" }

// TruncatedNormal is N(mu, sigma) rejection-resampled into [lo, hi]. Its
// analytic Mean/Variance deliberately report the UNTRUNCATED moments: this is
// a documented approximation carried over from the source, not a bug (see
// SPEC_FULL.md §9 Open Questions).
type TruncatedNormal struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
}

func (t TruncatedNormal) base() Normal { return Normal{Mu: t.Mu, Sigma: t.Sigma} }

func (t TruncatedNormal) Sample(p *prng.PRNG) float64 {
	n := t.base()
	if t.Sigma <= 0 {
		if t.Mu < t.Lo {
			return t.Lo
		}
		if t.Mu > t.Hi {
			return t.Hi
		}
		return t.Mu
	}
	for i := 0; i < 10000; i++ {
		x := n.Sample(p)
		if x >= t.Lo && x <= t.Hi {
			return x
		}
	}
	// Pathological parameterization (support essentially empty under the
	// unclamped Normal): clamp rather than loop forever.
	return math.Min(t.Hi, math.Max(t.Lo, t.Mu))
}

func (t TruncatedNormal) Mean() float64     { return t.Mu }
func (t TruncatedNormal) Variance() float64 { return t.Sigma * t.Sigma }
func (t TruncatedNormal) PDF(x float64) float64 {
	if x < t.Lo || x > t.Hi {
		return 0
	}
	return t.base().PDF(x)
}
func (t TruncatedNormal) Type() string { return "truncated_normal" }

// Beta is Beta(alpha, beta) on [0,1], sampled via the Marsaglia-Tsang gamma
// ratio with a Boost-style power-law fallback for shape < 1.
type Beta struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

func sampleGamma(shape float64, p *prng.PRNG) float64 {
	if shape < 1 {
		u := p.Next()
		return sampleGamma(shape+1, p) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		var x, v float64
		for v <= 0 {
			u1, u2 := p.Next(), p.Next()
			x = math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2) // standard normal
			v = 1 + c*x
		}
		v = v * v * v
		u := p.Next()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

func (b Beta) Sample(p *prng.PRNG) float64 {
	if b.Alpha <= 0 || b.Beta <= 0 {
		return 0.5
	}
	ga := sampleGamma(b.Alpha, p)
	gb := sampleGamma(b.Beta, p)
	if ga+gb == 0 {
		return 0
	}
	return ga / (ga + gb)
}

func (b Beta) Mean() float64 {
	if b.Alpha+b.Beta == 0 {
		return 0
	}
	return b.Alpha / (b.Alpha + b.Beta)
}

func (b Beta) Variance() float64 {
	s := b.Alpha + b.Beta
	if s == 0 {
		return 0
	}
	return (b.Alpha * b.Beta) / (s * s * (s + 1))
}

func (b Beta) PDF(x float64) float64 {
	if x < 0 || x > 1 || b.Alpha <= 0 || b.Beta <= 0 {
		return 0
	}
	logBeta := lgamma(b.Alpha) + lgamma(b.Beta) - lgamma(b.Alpha+b.Beta)
	if x == 0 {
		if b.Alpha < 1 {
			return math.Inf(1)
		} else if b.Alpha > 1 {
			return 0
		}
	}
	if x == 1 {
		if b.Beta < 1 {
			return math.Inf(1)
		} else if b.Beta > 1 {
			return 0
		}
	}
	logPdf := (b.Alpha-1)*math.Log(x) + (b.Beta-1)*math.Log(1-x) - logBeta
	return math.Exp(logPdf)
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

func (b Beta) Type() string { return "beta" }

// Triangular is Triangular(lo, mode, hi), sampled via inverse CDF.
type Triangular struct {
	Lo   float64 `json:"lo"`
	Mode float64 `json:"mode"`
	Hi   float64 `json:"hi"`
}

func (t Triangular) Sample(p *prng.PRNG) float64 {
	if t.Hi <= t.Lo {
		return t.Lo
	}
	u := p.Next()
	fc := (t.Mode - t.Lo) / (t.Hi - t.Lo)
	if u < fc {
		return t.Lo + math.Sqrt(u*(t.Hi-t.Lo)*(t.Mode-t.Lo))
	}
	return t.Hi - math.Sqrt((1-u)*(t.Hi-t.Lo)*(t.Hi-t.Mode))
}

func (t Triangular) Mean() float64 { return (t.Lo + t.Mode + t.Hi) / 3 }

func (t Triangular) Variance() float64 {
	return (t.Lo*t.Lo + t.Mode*t.Mode + t.Hi*t.Hi - t.Lo*t.Mode - t.Lo*t.Hi - t.Mode*t.Hi) / 18
}

func (t Triangular) PDF(x float64) float64 {
	if x < t.Lo || x > t.Hi || t.Hi <= t.Lo {
		return 0
	}
	if x < t.Mode {
		denom := (t.Hi - t.Lo) * (t.Mode - t.Lo)
		if denom == 0 {
			return 0
		}
		return 2 * (x - t.Lo) / denom
	}
	denom := (t.Hi - t.Lo) * (t.Hi - t.Mode)
	if denom == 0 {
		return 0
	}
	return 2 * (t.Hi - x) / denom
}

func (t Triangular) Type() string { return "triangular" }

// Uniform is Uniform(lo, hi).
type Uniform struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

func (u Uniform) Sample(p *prng.PRNG) float64 {
	if u.Hi <= u.Lo {
		return u.Lo
	}
	return u.Lo + p.Next()*(u.Hi-u.Lo)
}

func (u Uniform) Mean() float64 { return (u.Lo + u.Hi) / 2 }
func (u Uniform) Variance() float64 {
	d := u.Hi - u.Lo
	return d * d / 12
}
func (u Uniform) PDF(x float64) float64 {
	if x < u.Lo || x > u.Hi || u.Hi <= u.Lo {
		return 0
	}
	return 1 / (u.Hi - u.Lo)
}
func (u Uniform) Type() string { return "uniform" }

// LogNormal is exp(Normal(mu, sigma)) on the log scale.
type LogNormal struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

func (l LogNormal) Sample(p *prng.PRNG) float64 {
	return math.Exp(Normal{Mu: l.Mu, Sigma: l.Sigma}.Sample(p))
}

func (l LogNormal) Mean() float64 {
	return math.Exp(l.Mu + l.Sigma*l.Sigma/2)
}

func (l LogNormal) Variance() float64 {
	s2 := l.Sigma * l.Sigma
	return (math.Exp(s2) - 1) * math.Exp(2*l.Mu+s2)
}

func (l LogNormal) PDF(x float64) float64 {
	if x <= 0 || l.Sigma <= 0 {
		return 0
	}
	lx := math.Log(x)
	z := (lx - l.Mu) / l.Sigma
	return math.Exp(-0.5*z*z) / (x * l.Sigma * math.Sqrt(2*math.Pi))
}

func (l LogNormal) Type() string { return "lognormal" }

// MarshalJSON encodes any Distribution as its {"type", "params"} wire form.
func MarshalJSON(d Distribution) ([]byte, error) {
	params, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire{Type: d.Type(), Params: params})
}

// UnmarshalJSON decodes the {"type", "params"} wire form into a concrete
// Distribution. An unrecognized type is a hard decode error (§7
// UnknownDistribution).
func UnmarshalJSON(data []byte) (Distribution, error) {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("distribution: %w", err)
	}
	switch w.Type {
	case "normal":
		var d Normal
		if err := json.Unmarshal(w.Params, &d); err != nil {
			return nil, err
		}
		return d, nil
	case "truncated_normal":
		var d TruncatedNormal
		if err := json.Unmarshal(w.Params, &d); err != nil {
			return nil, err
		}
		return d, nil
	case "beta":
		var d Beta
		if err := json.Unmarshal(w.Params, &d); err != nil {
			return nil, err
		}
		return d, nil
	case "triangular":
		var d Triangular
		if err := json.Unmarshal(w.Params, &d); err != nil {
			return nil, err
		}
		return d, nil
	case "uniform":
		var d Uniform
		if err := json.Unmarshal(w.Params, &d); err != nil {
			return nil, err
		}
		return d, nil
	case "lognormal":
		var d LogNormal
		if err := json.Unmarshal(w.Params, &d); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("distribution: unknown type %q", w.Type)
	}
}
