package scengen

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateProducesRequestedShape(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.CompetitorCount = 3
	run := Generate(cfg)

	if len(run.NGC.Competitors) != 3 {
		t.Fatalf("competitors = %d, want 3", len(run.NGC.Competitors))
	}
	if len(run.NGC.RiskEvents) != 1 {
		t.Fatalf("risk events = %d, want 1", len(run.NGC.RiskEvents))
	}
	if run.Iterations != cfg.Iterations {
		t.Errorf("iterations = %d, want %d", run.Iterations, cfg.Iterations)
	}
}

func TestDriftWidensSigmaAcrossCompetitorIndex(t *testing.T) {
	first := sigmaFor(Drift, 0, 5)
	last := sigmaFor(Drift, 4, 5)
	if last <= first {
		t.Errorf("drift sigma did not widen: first=%v last=%v", first, last)
	}
}

func TestChaosWidensSigmaBeyondMild(t *testing.T) {
	if sigmaFor(Chaos, 0, 1) <= sigmaFor(Mild, 0, 1) {
		t.Error("chaos sigma should exceed mild sigma")
	}
}

func TestSaveWritesReadableJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "scenario.json")
	cfg := Generate(DefaultGeneratorConfig())

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty scenario file")
	}
}
