package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"marketsim/internal/scengen"
)

var (
	genScenarioArchetype  string
	genScenarioSeed       uint32
	genScenarioOut        string
	genScenarioIterations int
	genScenarioCustomers  int
	genScenarioWeeks      int
	genScenarioCompetitors int
)

var genScenarioCmd = &cobra.Command{
	Use:   "genscenario",
	Short: "Generate a synthetic RunConfig JSON file for load-testing or demos",
	RunE: func(cmd *cobra.Command, args []string) error {
		genCfg := scengen.GeneratorConfig{
			Archetype:        scengen.Archetype(genScenarioArchetype),
			Seed:             genScenarioSeed,
			Iterations:       genScenarioIterations,
			TotalCustomers:   genScenarioCustomers,
			TimeHorizonWeeks: genScenarioWeeks,
			CompetitorCount:  genScenarioCompetitors,
			InitialInventory: 20000,
		}

		runCfg := scengen.Generate(genCfg)
		if err := scengen.Save(genScenarioOut, runCfg); err != nil {
			return err
		}
		fmt.Printf("Generated %s scenario (%d competitors, %d iterations) to %s\n",
			genCfg.Archetype, genCfg.CompetitorCount, genCfg.Iterations, genScenarioOut)
		return nil
	},
}

func init() {
	defaults := scengen.DefaultGeneratorConfig()
	genScenarioCmd.Flags().StringVar(&genScenarioArchetype, "scenario", string(defaults.Archetype), "scenario archetype: mild, chaos, drift")
	genScenarioCmd.Flags().Uint32Var(&genScenarioSeed, "seed", defaults.Seed, "PRNG seed")
	genScenarioCmd.Flags().StringVar(&genScenarioOut, "out", "./.cache/scenario.json", "output path for the generated RunConfig")
	genScenarioCmd.Flags().IntVar(&genScenarioIterations, "iterations", defaults.Iterations, "number of Monte Carlo iterations")
	genScenarioCmd.Flags().IntVar(&genScenarioCustomers, "customers", defaults.TotalCustomers, "synthetic population size")
	genScenarioCmd.Flags().IntVar(&genScenarioWeeks, "weeks", defaults.TimeHorizonWeeks, "simulation horizon in weeks")
	genScenarioCmd.Flags().IntVar(&genScenarioCompetitors, "competitors", defaults.CompetitorCount, "number of synthetic competitors")
}
