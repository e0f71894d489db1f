// Inkbridge is the device-side client for the InkBridge backend.
//
// It establishes the device identity, registers with the backend, stores the issued
// credentials and fetches domain resources with them.
//
// Usage:
//
//	inkbridge [command] [flags]
//
// See 'inkbridge --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Cgriz365/inkbridge/internal/logging"
	"github.com/Cgriz365/inkbridge/internal/ui"
	"github.com/Cgriz365/inkbridge/internal/urls"
	"github.com/Cgriz365/inkbridge/internal/version"
)

func main() {
	ui.DisableStylingIfNotTTY()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath  string
	apiURL      string
	storeURI    string
	ifaceName   string
	logLevel    string
	metricsFile string
)

var rootCmd = &cobra.Command{
	Use:   "inkbridge",
	Short: "InkBridge device client",
	Long: `A device client for the InkBridge backend.

Derives a stable device id from the network hardware address, registers the
device to obtain an API key, and fetches weather, markets, news, calendar,
travel, LMS and music data on the device's behalf.

Getting started: ` + urls.GettingStarted,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (overrides config and stored value for this run)")
	rootCmd.PersistentFlags().StringVar(&storeURI, "store", "", "Credential store URI: file://path, sqlite://path or memory://")
	rootCmd.PersistentFlags().StringVar(&ifaceName, "interface", "", "Network interface used to derive the device id")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when empty")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("inkbridge " + version.Full())
	},
}
