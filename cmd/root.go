package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stinet-sim/stinet-sim/sim"
	"github.com/stinet-sim/stinet-sim/sim/params"
)

var (
	seed       int64  // Master seed; every subsystem derives its own stream from it
	days       int    // Simulation horizon in days
	years      int    // Convenience horizon in years; wins over --days when set
	logLevel   string // Log verbosity level
	configPath string // Optional YAML parameter-pack overrides
	outputPath string // Where the yearly summaries go; empty means stdout
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "stinet-sim",
	Short: "Individual-based discrete-event simulator for STI spread over a sexual network",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the network simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		pack := params.Default()
		if configPath != "" {
			pack, err = params.Load(configPath)
			if err != nil {
				logrus.Fatalf("Failed to load parameter pack: %v", err)
			}
		}

		out := os.Stdout
		if outputPath != "" {
			f, err := os.Create(outputPath)
			if err != nil {
				logrus.Fatalf("Failed to create output file: %v", err)
			}
			defer f.Close()
			out = f
		}

		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		horizon := days
		if years > 0 {
			horizon = years * params.DaysPerYear
		}

		logrus.Infof("Starting simulation: population=%d horizon=%d days",
			pack.Demographics.InitialPopulation, horizon)
		start := time.Now()

		s := sim.NewSimulation(pack, seed, out)
		s.Run(horizon)

		logrus.Infof("Simulation complete in %v.", time.Since(start))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Master seed (0 = derive from system time)")
	runCmd.Flags().IntVar(&days, "days", 365, "Simulation horizon in days")
	runCmd.Flags().IntVar(&years, "years", 0, "Simulation horizon in years (overrides --days)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML parameter-pack overrides")
	runCmd.Flags().StringVar(&outputPath, "output", "", "File for yearly summaries (default stdout)")

	rootCmd.AddCommand(runCmd)
}
