package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Cgriz365/inkbridge/internal/bridge"
	"github.com/Cgriz365/inkbridge/internal/config"
	"github.com/Cgriz365/inkbridge/internal/credstore"
	"github.com/Cgriz365/inkbridge/internal/identity"
	"github.com/Cgriz365/inkbridge/internal/logging"
	"github.com/Cgriz365/inkbridge/internal/metrics"
	"github.com/Cgriz365/inkbridge/internal/resources"
	"github.com/Cgriz365/inkbridge/internal/ui"
)

// session is everything a command needs to talk to the backend.
type session struct {
	cfg     *config.Config
	store   credstore.Store
	bridge  *bridge.Bridge
	metrics *metrics.Metrics
	out     *ui.Printer
}

// newSession loads the config, applies flag overrides and builds the bridge. Begin is
// not called.
func newSession(cmd *cobra.Command, resetDevice bool) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if logLevel == "" && cfg.LogLevel != "" {
		if err := logging.Initialize(cfg.LogLevel); err != nil {
			return nil, err
		}
	}

	location := cfg.Store
	if storeURI != "" {
		location = storeURI
	}
	store, err := credstore.Open(location)
	if err != nil {
		return nil, err
	}

	iface := cfg.NetworkInterface
	if ifaceName != "" {
		iface = ifaceName
	}

	baseURL := cfg.APIBaseURL
	if apiURL != "" {
		baseURL = apiURL
	}

	m := metrics.New()
	b := bridge.New(bridge.Options{
		ResetDevice:   resetDevice,
		APIBaseURL:    baseURL,
		PinAPIBaseURL: apiURL != "",
		Store:         store,
		Network:       identity.SystemNetwork{Interface: iface},
		Transport:     cfg.BridgeTransport(),
		Cache:         cfg.CachePolicy(),
		Metrics:       m,
	})

	logging.Debug("Session ready",
		zap.String("config", cfg.Path()),
		zap.String("store", store.Location()),
		zap.String("interface", iface),
	)

	return &session{
		cfg:     cfg,
		store:   store,
		bridge:  b,
		metrics: m,
		out:     ui.NewPrinter(cmd.OutOrStdout()),
	}, nil
}

func (s *session) begin(ctx context.Context) (bool, error) {
	return s.bridge.Begin(ctx)
}

func (s *session) client() *resources.Client {
	return resources.New(s.bridge)
}

// close writes metrics when --metrics-file is set.
func (s *session) close() {
	if metricsFile == "" {
		return
	}
	if err := s.metrics.WriteFile(metricsFile); err != nil {
		logging.Warn("Failed to write metrics", zap.Error(err))
	}
}

// fail prints a failure box for err with the bridge hint and returns err.
func (s *session) fail(title string, err error) error {
	summary, tips := ui.HintLines(bridge.Hint(err))
	if summary != "" {
		tips = append([]string{summary}, tips...)
	}
	s.out.PrintError(title, fmt.Errorf("%s", bridge.ShortMessage(err)), tips)
	return err
}
