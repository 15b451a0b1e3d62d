package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/petal/internal/certs"
	"github.com/Veraticus/petal/internal/cli"
	"github.com/Veraticus/petal/internal/config"
	"github.com/Veraticus/petal/internal/web"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the prediction form over HTTP",
		Long: `Serve the prediction form in the browser. Every connection gets its own
form session; the model is loaded once and shared. A JSON endpoint is
available at POST /api/predict. With --tls a self-signed localhost
certificate is issued once and reused from serve.cert_dir.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "127.0.0.1:8501", "listen address")
	cmd.Flags().Int("cache-size", 1024, "number of predictions to memoise (0 disables)")
	_ = viper.BindPFlag(config.KeyServeAddr, cmd.Flags().Lookup("addr"))
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed localhost certificate")
	_ = viper.BindPFlag(config.KeyCacheSize, cmd.Flags().Lookup("cache-size"))
	_ = viper.BindPFlag(config.KeyServeTLS, cmd.Flags().Lookup("tls"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	predictor, release, err := loadEngine(settings, settings.CacheSize)
	if err != nil {
		return err
	}
	defer release()

	cfg := web.DefaultConfig()
	cfg.Addr = settings.ServeAddr
	if settings.ServeTLS {
		tlsConfig, err := certs.NewStore(settings.CertDir).TLSConfig()
		if err != nil {
			return fmt.Errorf("failed to prepare certificate: %w", err)
		}
		cfg.TLS = tlsConfig
	}
	srv, err := web.NewServer(cfg, predictor)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Serving the form at "+srv.URL()))

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(ctx)
}
