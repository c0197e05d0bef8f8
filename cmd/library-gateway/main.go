package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vsevolod6/practika/internal/config"
	"github.com/vsevolod6/practika/internal/gateway"
	"github.com/vsevolod6/practika/internal/health"
	"github.com/vsevolod6/practika/internal/logging"
	"github.com/vsevolod6/practika/internal/reports"
	"github.com/vsevolod6/practika/internal/resources"
	"github.com/vsevolod6/practika/internal/server"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "library-gateway",
		Short: "REST gateway in front of the legacy library SOAP service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to configuration file")
	flags.String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	flags.String("store-path", defaults.GetString("store.path"), "Path of the JSON document holding digital resources")
	flags.String("soap-url", defaults.GetString("soap.url"), "Legacy SOAP endpoint")
	flags.String("soap-namespace", defaults.GetString("soap.namespace"), "Namespace bound to the ns1 prefix in SOAP envelopes")
	flags.Duration("soap-timeout", defaults.GetDuration("soap.timeout"), "Deadline for one SOAP call")
	flags.String("probe-inventory", defaults.GetString("soap.probe_inventory"), "Inventory number fetched by the health probe")
	flags.String("report-url", defaults.GetString("report.url"), "Legacy XML report endpoint")
	flags.Duration("report-timeout", defaults.GetDuration("report.timeout"), "Deadline for one report fetch")
	flags.String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "store.path", "store-path")
	bindFlag(cmd, "soap.url", "soap-url")
	bindFlag(cmd, "soap.namespace", "soap-namespace")
	bindFlag(cmd, "soap.timeout", "soap-timeout")
	bindFlag(cmd, "soap.probe_inventory", "probe-inventory")
	bindFlag(cmd, "report.url", "report-url")
	bindFlag(cmd, "report.timeout", "report-timeout")
	bindFlag(cmd, "log.level", "log-level")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	store, err := resources.Open(ctx, resources.StoreConfig{
		Path:   appConfig.StorePath,
		Clock:  time.Now,
		Logger: logger.With(zap.String("component", "resources")),
	})
	if err != nil {
		return err
	}

	gatewayClient, err := gateway.NewClient(gateway.ClientConfig{
		Endpoint:       appConfig.SOAPURL,
		Namespace:      appConfig.SOAPNamespace,
		Timeout:        appConfig.SOAPTimeout,
		ProbeInventory: appConfig.ProbeInventory,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	translator, err := reports.NewTranslator(reports.TranslatorConfig{
		BaseURL: appConfig.ReportURL,
		Timeout: appConfig.ReportTimeout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	aggregator, err := health.NewAggregator(health.AggregatorConfig{
		Prober: gatewayClient,
		Store:  store,
		Clock:  time.Now,
		Logger: logger.With(zap.String("component", "health")),
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Gateway: gatewayClient,
		Catalog: store,
		Reports: translator,
		Health:  aggregator,
		Logger:  logger.With(zap.String("component", "http")),
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              appConfig.HTTPAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("address", appConfig.HTTPAddress),
			zap.String("soap_url", appConfig.SOAPURL),
			zap.String("store_path", appConfig.StorePath))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
