package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SaaSy-Solutions/statemock/pkg/config"
	"github.com/SaaSy-Solutions/statemock/pkg/engine"
	"github.com/SaaSy-Solutions/statemock/pkg/logging"
)

// serveFlags holds the parsed command-line flags for the serve command.
type serveFlags struct {
	configPaths []string
	host        string
	port        int
	logLevel    string
	logFormat   string
	noAdmin     bool
}

var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock server (foreground)",
	Long: `Start the mock server and serve the configured endpoints until
interrupted.

Configuration paths may be files, directories (scanned recursively for
.yaml, .yml, and .json files), or glob patterns including **. Multiple
paths are merged in order.`,
	Example: `  # Serve a single config file on the default port
  statemock serve --config mocks.yaml

  # Serve a directory of configs on a custom port
  statemock serve --config ./mocks/ --port 3000

  # Serve everything matching a glob, with JSON logs
  statemock serve --config './configs/**/*.yaml' --log-format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(&serveFlagVals)
	},
}

func initServeFlags() {
	f := &serveFlagVals
	serveCmd.Flags().StringSliceVarP(&f.configPaths, "config", "c", nil, "Config file, directory, or glob (repeatable)")
	serveCmd.Flags().StringVar(&f.host, "host", "", "Interface to bind (default: all interfaces)")
	serveCmd.Flags().IntVarP(&f.port, "port", "p", config.DefaultPort, "HTTP server port")
	serveCmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&f.logFormat, "log-format", "text", "Log format (text, json)")
	serveCmd.Flags().BoolVar(&f.noAdmin, "no-admin", false, "Disable the /__statemock/ admin endpoints")
}

func runServe(f *serveFlags) error {
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(f.logLevel),
		Format: logging.ParseFormat(f.logFormat),
	})

	collection, err := loadConfigPaths(f.configPaths, log)
	if err != nil {
		return err
	}

	cfg := config.DefaultServerConfiguration()
	cfg.Host = f.host
	cfg.Port = f.port
	cfg.AdminDisabled = f.noAdmin

	srv := engine.NewServer(cfg, engine.WithLogger(log))
	if collection != nil {
		if err := srv.LoadCollection(collection); err != nil {
			return err
		}
	}

	if err := srv.Start(); err != nil {
		return err
	}
	fmt.Printf("statemock listening on http://%s\n", srv.Addr())
	if !f.noAdmin {
		fmt.Printf("admin API at http://%s/__statemock/\n", srv.Addr())
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutting down", "signal", sig.String())

	return srv.Stop()
}

// loadConfigPaths loads and merges every config path. A path may be a file,
// a directory, or a glob pattern.
func loadConfigPaths(paths []string, log *slog.Logger) (*config.Collection, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	merged := &config.Collection{Version: "1.0"}
	for _, path := range paths {
		collection, err := loadConfigPath(path, log)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		merged.Merge(collection)
	}
	return merged, nil
}

func loadConfigPath(path string, log *slog.Logger) (*config.Collection, error) {
	if strings.ContainsAny(path, "*?[") {
		result, err := config.LoadGlob(path)
		if err != nil {
			return nil, err
		}
		reportLoadErrors(result, log)
		return result.Collection, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		result, err := config.NewDirectoryLoader(path).Load()
		if err != nil {
			return nil, err
		}
		reportLoadErrors(result, log)
		return result.Collection, nil
	}
	return config.LoadFromFile(path)
}

func reportLoadErrors(result *config.LoadResult, log *slog.Logger) {
	for _, loadErr := range result.Errors {
		log.Warn("skipped config file", "path", loadErr.Path, "error", loadErr.Message)
	}
}
