// Package cmd provides the entrypoint for the obelix cli.
package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/isometry/obelix/internal/config"
	"github.com/isometry/obelix/internal/handler"
	"github.com/isometry/obelix/internal/helpers"
	"github.com/isometry/obelix/internal/runtime"
	"github.com/isometry/obelix/internal/sink"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfigFile = "config.yaml"

var logger = helpers.NewNoopLogger()

type boundEnvVar[T argType] struct {
	Name, Description string
	Env, Short        *string
	Hidden            bool
}

// New returns the root command for obelix.
func New() *cobra.Command {
	// Configuration loading & defaults. A load error is reported once the logger exists.
	loadErr := config.LoadFromFile(configFilePath())
	if err := config.SetDefaults(); err != nil && loadErr == nil {
		loadErr = err
	}

	cmd := &cobra.Command{
		Use:           "obelix",
		Short:         "Receive third-party access telemetry and dump it to stdout",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.Global.Mode = strings.TrimSpace(config.Global.Mode)
			logger = helpers.NewLogger(cmd.OutOrStdout(),
				config.Global.Logging.Verbosity,
				config.Global.Logging.CallerTrace).With("mode", config.Global.Mode)
			if loadErr != nil {
				return logStartupError(errors.Wrap(loadErr, "failed to load configuration"))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch config.Global.Mode {
			case config.ModeService:
				return runService(cmd)
			case config.ModeLambda:
				return runLambda(cmd)
			default:
				return logStartupError(errors.Errorf("invalid mode: %s", config.Global.Mode))
			}
		},
	}

	// Dynamic flags
	setupDynamicFlags(cmd)

	// Subcommands
	cmd.AddCommand(
		cmdLambda(),
		cmdService(),
	)

	return cmd
}

func configFilePath() string {
	if path, found := os.LookupEnv("CONFIG_FILE"); found {
		return path
	}
	return defaultConfigFile
}

func setupDynamicFlags(cmd *cobra.Command) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(replacer)

	bindEnvMap(cmd, envMapString)
	bindEnvMap(cmd, envMapBool)
	bindEnvMap(cmd, envMapCount)
	bindEnvMap(cmd, svcEnvMapString)
	bindEnvMap(cmd, svcEnvMapDuration)
	bindEnvMap(cmd, lambdaEnvMapString)
}

// forceMode pins the runtime mode for a subcommand before the root pre-run builds the logger.
func forceMode(mode string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		config.Global.Mode = mode
		return cmd.Root().PersistentPreRunE(cmd, args)
	}
}

func newRuntime() *runtime.Runtime {
	logger.Debug("creating telemetry handler...")
	hdl := handler.NewTelemetryHandler(
		handler.WithSink(sink.New(os.Stdout)),
		handler.WithLogger(logger.With("component", "telemetry-handler")))

	logger.Debug("creating runtime...")
	return runtime.NewRuntime(hdl,
		runtime.WithLambdaPayloadType(config.Lambda.PayloadType),
		runtime.WithLogger(logger.With("component", "runtime")))
}

func logStartupError(err error) error {
	logger.Error("startup failed", slog.Any("error", err))
	return err
}
