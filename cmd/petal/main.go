package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/petal/internal/cli"
	"github.com/Veraticus/petal/internal/common"
	"github.com/Veraticus/petal/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// annotationTUI marks commands that take over the terminal.
const annotationTUI = "tui"

var (
	cfgFile   string
	version   = "dev"
	settings  config.Settings
	logCloser io.Closer
	rootCmd   = &cobra.Command{
		Use:   "petal",
		Short: "🌺 Iris flower species predictor",
		Long: `petal: predict the species of an iris flower from four measurements.

Load a trained classifier, adjust sepal and petal length and width, and get
the predicted species together with the probability of each class.`,
		PersistentPreRunE: initConfig,
		RunE:              runForm,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Annotations:       map[string]string{annotationTUI: "true"},
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/petal/config.yaml)")
	rootCmd.PersistentFlags().String("model", config.DefaultModelPath, "path to the trained model artifact (.json or .onnx)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to a rotating file instead of stderr")
	// Persistent so both `petal` and `petal form` accept it.
	rootCmd.PersistentFlags().String("theme", "default", "form color theme (default, catppuccin-mocha)")

	// Bind flags to viper
	_ = viper.BindPFlag(config.KeyModelPath, rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag(config.KeyLogFile, rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag(config.KeyTheme, rootCmd.PersistentFlags().Lookup("theme"))

	// Add commands
	rootCmd.AddCommand(formCmd())
	rootCmd.AddCommand(predictCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel() // Always cleanup
	if logCloser != nil {
		_ = logCloser.Close()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/petal", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("PETAL")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	s, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	settings = s

	// Set up logging
	if err := setupLogging(settings, cmd.Annotations[annotationTUI] == "true"); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

// setupLogging routes logs to stderr, or to a rotating file when one is
// configured or when the terminal form owns the screen.
func setupLogging(s config.Settings, tui bool) error {
	level, err := common.ParseLevel(s.LogLevel)
	if err != nil {
		return err
	}

	path := s.LogFile
	if path == "" && tui {
		path = config.DefaultLogFile()
	}

	w, err := common.LogWriter(path)
	if err != nil {
		return err
	}
	if err := common.SetupLogger(w, level, s.LogFormat); err != nil {
		_ = w.Close()
		return err
	}

	logCloser = w
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "petal version %s\n", version)
		},
	}
}
