package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"marketsim/internal/montecarlo"
	"marketsim/internal/report"
	"marketsim/internal/risk"
)

var (
	runConfigPath string
	runOutPath    string
	runReportPath string
	runOpenReport bool
	runSeed       uint32
	runIterations int
	runProgress   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a Monte Carlo market simulation from a RunConfig JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(runConfigPath)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		runCfg, err := montecarlo.DecodeConfig(data)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("seed") {
			runCfg.Seed = runSeed
		}
		if cmd.Flags().Changed("iterations") {
			runCfg.Iterations = runIterations
		}

		if cfg != nil {
			if runCfg.Iterations > cfg.MaxIterations {
				runCfg.Iterations = cfg.MaxIterations
			}
			if runCfg.Population.TotalCustomers > cfg.MaxCustomers {
				runCfg.Population.TotalCustomers = cfg.MaxCustomers
			}
			if runCfg.TimeHorizonWeeks > cfg.MaxHorizonWeeks {
				runCfg.TimeHorizonWeeks = cfg.MaxHorizonWeeks
			}
			if len(runCfg.NGC.Competitors) > cfg.MaxCompetitors {
				runCfg.NGC.Competitors = runCfg.NGC.Competitors[:cfg.MaxCompetitors]
			}
		}

		warnings, err := montecarlo.Sanitize(runCfg)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			log.Warn().Str("warning", w).Msg("run config sanitized")
		}

		var onProgress montecarlo.ProgressFunc
		if runProgress {
			onProgress = func(completed, total int) {
				log.Info().Int("completed", completed).Int("total", total).Msg("simulation progress")
			}
		}

		agg, err := montecarlo.Run(*runCfg, onProgress, nil)
		if err != nil {
			return fmt.Errorf("simulation run: %w", err)
		}

		inventoryRisk, err := risk.AnalyzeInventory(agg.RawResults, runCfg.Offer.Cogs)
		if err != nil {
			return err
		}
		profitabilityRisk, err := risk.AnalyzeProfitability(agg.RawResults)
		if err != nil {
			return err
		}
		safeStock, err := risk.RecommendSafeStock(agg.RawResults, runCfg.Offer.Cogs, risk.DefaultConfidenceLevel)
		if err != nil {
			return err
		}

		out := map[string]any{
			"warnings":          warnings,
			"aggregate":         agg,
			"inventoryRisk":     inventoryRisk,
			"profitabilityRisk": profitabilityRisk,
			"safeStock":         safeStock,
		}

		encoded, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}

		if runOutPath != "" {
			if err := os.WriteFile(runOutPath, encoded, 0o644); err != nil {
				return fmt.Errorf("writing result: %w", err)
			}
		} else {
			fmt.Println(string(encoded))
		}

		if runReportPath != "" {
			if err := report.WriteHTML(runReportPath, agg, safeStock); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			log.Info().Str("path", runReportPath).Msg("report written")
			if runOpenReport || (cfg != nil && cfg.EnableReportAutoOpen) {
				if err := report.Open(runReportPath); err != nil {
					log.Warn().Err(err).Msg("failed to open report in browser")
				}
			}
		}

		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to a RunConfig JSON file")
	runCmd.Flags().StringVar(&runOutPath, "out", "", "path to write the JSON result (default: stdout)")
	runCmd.Flags().StringVar(&runReportPath, "report", "", "path to write an HTML report")
	runCmd.Flags().BoolVar(&runOpenReport, "open", false, "open the HTML report in the default browser after writing it")
	runCmd.Flags().Uint32Var(&runSeed, "seed", 0, "override the RunConfig's PRNG seed")
	runCmd.Flags().IntVar(&runIterations, "iterations", 0, "override the RunConfig's iteration count")
	runCmd.Flags().BoolVar(&runProgress, "progress", false, "log progress every 10 completed iterations")
	runCmd.MarkFlagRequired("config")
}
