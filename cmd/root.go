/*
	Copyright 2023 Markus Papenbrock
*/

package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/mpapenbr/iracelog-strategy/log"
	"github.com/mpapenbr/iracelog-strategy/pkg/cmd/strategy"
	"github.com/mpapenbr/iracelog-strategy/pkg/config"
	"github.com/mpapenbr/iracelog-strategy/version"
)

const envPrefix = "RSE"

var (
	cfgFile   string
	telemetry *config.Telemetry
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "rse",
	Short:   "Race strategy engine: tyre models, pit stop analysis and strategy search",
	Long:    ``,
	Version: version.FullVersion,

	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			log.Warn("Could not shutdown telemetry", log.ErrorField(err))
		}
		//nolint:errcheck // nothing left to do
		log.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.rse.yml)")

	rootCmd.PersistentFlags().StringVar(&config.LapsDir, "laps-dir",
		"./data",
		"root directory of the session lap files (<year>/<race>/<session>.json)")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"text",
		"controls the log output format (text, json)")
	rootCmd.PersistentFlags().StringVar(&config.LogFilter,
		"log-filter",
		"",
		"zapfilter rules, e.g. 'info+:* debug+:optimize'")
	rootCmd.PersistentFlags().IntVar(&config.MaxConcurrentLoads,
		"max-concurrent-loads",
		2,
		"max number of session files loaded at the same time")
	rootCmd.PersistentFlags().BoolVar(&config.FuelCorrection,
		"fuel-correction",
		false,
		"add the fuel load correction to simulated lap times")
	rootCmd.PersistentFlags().IntVar(&config.SearchWorkers,
		"search-workers",
		runtime.NumCPU(),
		"number of workers for the strategy search")
	rootCmd.PersistentFlags().StringVarP(&config.Output,
		"output", "o",
		config.OutputText,
		"output format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"writes trace spans to stderr")

	// add commands here
	rootCmd.AddCommand(strategy.NewDriversCmd())
	rootCmd.AddCommand(strategy.NewDegradationCmd())
	rootCmd.AddCommand(strategy.NewPitStatsCmd())
	rootCmd.AddCommand(strategy.NewActualCmd())
	rootCmd.AddCommand(strategy.NewSimulateCmd())
	rootCmd.AddCommand(strategy.NewOptimalCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".rse" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rse")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --laps-dir to RSE_LAPS_DIR
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// setup configures logging and telemetry for the executed command
func setup(cmd *cobra.Command, args []string) error {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	logger, err := logger.WithFilter(config.LogFilter)
	if err != nil {
		return fmt.Errorf("invalid log filter: %w", err)
	}
	logger = logger.With(log.String("runId", uuid.NewString()))
	log.ResetDefault(logger)
	cmd.SetContext(log.AddToContext(cmd.Context(), logger))

	if config.EnableTelemetry {
		if telemetry, err = config.SetupTelemetry(cmd.Context(), os.Stderr); err != nil {
			logger.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
		if err != nil {
			logger.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}
	logger.Debug("config",
		log.String("lapsDir", config.LapsDir),
		log.Int("maxConcurrentLoads", config.MaxConcurrentLoads),
		log.Int("searchWorkers", config.SearchWorkers),
		log.Bool("fuelCorrection", config.FuelCorrection))
	return nil
}
