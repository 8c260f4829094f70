package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/quarrydata/quarry/internal/config"
)

const envPrefix = "QUARRY"

// Execute runs the root command and exits on error.
func Execute() {
	cfg := config.NewConfigurationWithOptionsAndDefaults()

	root := &cobra.Command{
		Use:          "quarry",
		Short:        "Semantic query service over DuckDB",
		SilenceUsage: true,
	}

	root.AddCommand(NewRunCommand(cfg))
	root.AddCommand(NewExplainCommand(cfg))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// bindEnvVars applies QUARRY_* environment variables to any flag the command
// line did not set explicitly.
func bindEnvVars(cmd *cobra.Command) {
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cobraflags.PresetRequiredFlags(envPrefix, make(map[*pflag.Flag]bool), cmd)
}

func setupLogger(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zapCfg.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func validateConfiguration(cfg *config.Configuration) error {
	if cfg.Server.HTTPPort < 1 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http-port: %d", cfg.Server.HTTPPort)
	}
	if cfg.Server.ServerMode != "dev" && cfg.Server.ServerMode != "prod" {
		return fmt.Errorf("invalid server mode: %s", cfg.Server.ServerMode)
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("database-path cannot be empty")
	}
	if cfg.Query.MaxLimit < cfg.Query.DefaultLimit {
		return fmt.Errorf("query-max-limit (%d) cannot be smaller than query-default-limit (%d)",
			cfg.Query.MaxLimit, cfg.Query.DefaultLimit)
	}
	return cfg.Validate()
}

func registerConfigFlags(cmd *cobra.Command, cfg *config.Configuration) {
	flags := cmd.Flags()
	flags.IntVar(&cfg.Server.HTTPPort, "server-http-port", cfg.Server.HTTPPort, "HTTP port to listen on")
	flags.StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "server mode: dev or prod")
	flags.StringVar(&cfg.Database.Path, "database-path", cfg.Database.Path, "DuckDB database path, :memory: for ephemeral")
	flags.StringVar(&cfg.Models.File, "models-file", cfg.Models.File, "path to the semantic model definition file")
	flags.IntVar(&cfg.Query.DefaultLimit, "query-default-limit", cfg.Query.DefaultLimit, "row limit applied when a request omits one")
	flags.IntVar(&cfg.Query.MaxLimit, "query-max-limit", cfg.Query.MaxLimit, "hard ceiling on the requested row limit")
	flags.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "log level: debug, info, warn or error")
}
