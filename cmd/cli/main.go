package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/FlorisRimb/AI-Agent-Xiatech/config"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/backend"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/http/ratelimit"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "restock-agent",
	Short: "Restock Agent CLI - AI-assisted retail restocking tool",
	Long: `A CLI tool for watching retail stock levels and driving the automated
restocking workflow against the retail backend. It mirrors the backend's
products, sales, and stock collections, reconciles on-hand stock with the
forward-looking virtual projection, and can run a full restocking session
from detection through order placement.`,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config is optional for some commands, don't fail here
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	// Initialize logger (use console format for CLI)
	logger = initLogger()

	if cfg == nil {
		return fmt.Errorf("config required for %s command but not loaded", cmd.Name())
	}
	if config.GetBackendURL() == "" {
		return fmt.Errorf("backend URL not configured; set BACKEND_URL or backend.base_url")
	}

	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Always use console format for CLI
	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stdout
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: noColor}
	}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

// newBackendClient builds the backend client from the loaded config
func newBackendClient() *backend.Client {
	rl := ratelimit.DefaultConfig()
	timeout := 30 * time.Second
	if cfg != nil {
		rl = ratelimit.Config{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			MaxRetries:        cfg.RateLimit.MaxRetries,
			InitialBackoffMs:  cfg.RateLimit.InitialBackoffMs,
			MaxBackoffMs:      cfg.RateLimit.MaxBackoffMs,
		}
		timeout = cfg.Backend.Timeout
	}
	return backend.NewClient(config.GetBackendURL(), rl, timeout)
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
