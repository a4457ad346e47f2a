package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"marketsim/internal/montecarlo"
	"marketsim/internal/risk"
)

// RunSimulationInput is the run_market_simulation tool's input schema,
// generated by the SDK from this struct's json tags via reflection —
// identical in shape to the CLI's and the scenario generator's RunConfig
// so all three boundaries accept the same document (§6.1).
type RunSimulationInput = montecarlo.RunConfig

// RunSimulationOutput is the tool's structured result: the aggregate plus
// both risk reports and the safe-stock recommendation, all derived from the
// same driver run (§4.5, §4.8).
type RunSimulationOutput struct {
	Warnings          []string                 `json:"warnings,omitempty"`
	Aggregate         *montecarlo.Aggregate    `json:"aggregate"`
	InventoryRisk     *risk.InventoryRisk      `json:"inventoryRisk"`
	ProfitabilityRisk *risk.ProfitabilityRisk  `json:"profitabilityRisk"`
	SafeStock         *risk.SafeStock          `json:"safeStock"`
}

func (s *Server) runMarketSimulation(ctx context.Context, req *mcp.CallToolRequest, input RunSimulationInput) (*mcp.CallToolResult, RunSimulationOutput, error) {
	cfg := input

	if s.cfg != nil {
		if cfg.Iterations > s.cfg.MaxIterations {
			cfg.Iterations = s.cfg.MaxIterations
		}
		if cfg.Population.TotalCustomers > s.cfg.MaxCustomers {
			cfg.Population.TotalCustomers = s.cfg.MaxCustomers
		}
		if cfg.TimeHorizonWeeks > s.cfg.MaxHorizonWeeks {
			cfg.TimeHorizonWeeks = s.cfg.MaxHorizonWeeks
		}
		if len(cfg.NGC.Competitors) > s.cfg.MaxCompetitors {
			cfg.NGC.Competitors = cfg.NGC.Competitors[:s.cfg.MaxCompetitors]
		}
	}

	warnings, err := montecarlo.Sanitize(&cfg)
	if err != nil {
		return nil, RunSimulationOutput{}, fmt.Errorf("run_market_simulation: %w", err)
	}

	agg, err := montecarlo.Run(cfg, nil, nil)
	if err != nil {
		return nil, RunSimulationOutput{}, fmt.Errorf("run_market_simulation: %w", err)
	}

	inventoryRisk, err := risk.AnalyzeInventory(agg.RawResults, cfg.Offer.Cogs)
	if err != nil {
		return nil, RunSimulationOutput{}, fmt.Errorf("run_market_simulation: inventory risk: %w", err)
	}
	profitabilityRisk, err := risk.AnalyzeProfitability(agg.RawResults)
	if err != nil {
		return nil, RunSimulationOutput{}, fmt.Errorf("run_market_simulation: profitability risk: %w", err)
	}
	safeStock, err := risk.RecommendSafeStock(agg.RawResults, cfg.Offer.Cogs, risk.DefaultConfidenceLevel)
	if err != nil {
		return nil, RunSimulationOutput{}, fmt.Errorf("run_market_simulation: safe stock: %w", err)
	}

	out := RunSimulationOutput{
		Warnings: warnings, Aggregate: agg,
		InventoryRisk: inventoryRisk, ProfitabilityRisk: profitabilityRisk, SafeStock: safeStock,
	}
	return nil, out, nil
}
