// Inkbridge-mock is a local stand-in for the InkBridge backend.
//
// It serves /setup and every domain endpoint with canned JSON so devices and the
// inkbridge CLI can be exercised without the hosted service. It can advertise itself
// over mDNS for 'inkbridge discover'.
//
// Usage:
//
//	inkbridge-mock serve [flags]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Cgriz365/inkbridge/internal/logging"
	"github.com/Cgriz365/inkbridge/internal/mockbackend"
	"github.com/Cgriz365/inkbridge/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "inkbridge-mock",
	Short: "InkBridge Mock Backend",
	Long: `A local mock of the InkBridge backend for development and testing.

Registration issues random credentials per device id and remembers them for the
lifetime of the process. Domain endpoints require the issued API key.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	addr          string
	certPath      string
	selfSigned    bool
	keyPath       string
	prefix        string
	logLevel      string
	advertise     bool
	instance      string
	rejectSetup   bool
	rejectMessage string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock backend",
	Example: `  # Plain HTTP on :8080
  inkbridge-mock serve

  # Mount under /api and advertise over mDNS
  inkbridge-mock serve --prefix /api --advertise

  # TLS with your own certificate
  inkbridge-mock serve --addr :8443 --cert cert.pem --key key.pem

  # TLS with a generated self-signed certificate
  inkbridge-mock serve --addr :8443 --tls

  # Reject every registration
  inkbridge-mock serve --reject-setup --reject-message "device not linked"`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file (serves TLS with --key)")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file")
	serveCmd.Flags().BoolVar(&selfSigned, "tls", false, "Serve TLS with a generated self-signed certificate")
	serveCmd.Flags().StringVar(&prefix, "prefix", "", "Mount every route under this path, e.g. /api")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Advertise over mDNS")
	serveCmd.Flags().StringVar(&instance, "instance", "inkbridge-mock", "mDNS instance name")
	serveCmd.Flags().BoolVar(&rejectSetup, "reject-setup", false, "Reject every registration")
	serveCmd.Flags().StringVar(&rejectMessage, "reject-message", "registration disabled", "Message returned with a rejection")
}

func runServe(cmd *cobra.Command, args []string) error {
	if (certPath != "" && keyPath == "") || (certPath == "" && keyPath != "") {
		return fmt.Errorf("both --cert and --key must be provided together")
	}
	if certPath != "" {
		if _, err := os.Stat(certPath); os.IsNotExist(err) {
			return fmt.Errorf("certificate file not found: %s", certPath)
		}
		if _, err := os.Stat(keyPath); os.IsNotExist(err) {
			return fmt.Errorf("private key file not found: %s", keyPath)
		}
	}

	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	srv := mockbackend.New(mockbackend.Config{
		Addr:               addr,
		CertPath:           certPath,
		SelfSigned:         selfSigned,
		KeyPath:            keyPath,
		Prefix:             prefix,
		RejectRegistration: rejectSetup,
		RejectMessage:      rejectMessage,
		Advertise:          advertise,
		Instance:           instance,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("inkbridge-mock " + version.Full())
	},
}
