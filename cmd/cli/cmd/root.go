// Package cmd provides the CLI commands for retreat-quote.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"retreat-quote/core/pricing"
	"retreat-quote/core/ratetable"
	"retreat-quote/internal/config"
	"retreat-quote/internal/logging"
)

// Version is the CLI version, set at build time
var Version = "0.1.0"

var (
	cfgFile   string
	ratesFile string
	verbose   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "retreat-quote",
	Short: "Price retreats hosted at the venue",
	Long: `retreat-quote prices a group retreat: lodging, practice room, materials,
facilitator board and privatization, split between trainees and organizer.

Every price comes from a versioned rate table, the built-in one or an HCL file.

Examples:
  retreat-quote quote --participants 10 --start 2025-06-12 --end 2025-06-15
  retreat-quote quote --formula premium --room room_a_room_b --heater --participants 20 --nights 2
  retreat-quote compare --input quote.json --format json
  retreat-quote rates export --out rates.hcl`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (JSON)")
	rootCmd.PersistentFlags().StringVar(&ratesFile, "rates", "", "rate table file (.hcl or .json), built-in rates when empty")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
	}
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	cfg.ApplyEnv()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// loadRates returns the rate table named by --rates, then the config file,
// then the built-in defaults
func loadRates() (*ratetable.RateTable, error) {
	path := ratesFile
	if path == "" {
		path = config.Get().Rates.File
	}
	if path == "" {
		return ratetable.Default(), nil
	}
	rates, err := ratetable.Load(path)
	if err != nil {
		return nil, err
	}
	logging.Debug("rate table loaded",
		zap.String("path", path),
		zap.String("version", rates.Version),
		zap.String("fingerprint", rates.Fingerprint()))
	return rates, nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		rates, err := loadRates()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "retreat-quote version %s\n", Version)
		fmt.Fprintf(out, "pricing engine       %s\n", pricing.EngineVersion)
		fmt.Fprintf(out, "rate table           %s (%s)\n", rates.Version, rates.Fingerprint())
		return nil
	},
}
