package main

import (
	"fmt"
	"log/slog"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/ironsheep/camera-media-mcp/internal/config"
	"github.com/ironsheep/camera-media-mcp/internal/imaging"
	"github.com/ironsheep/camera-media-mcp/internal/logger"
	"github.com/ironsheep/camera-media-mcp/internal/mimetype"
	"github.com/ironsheep/camera-media-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "camera-media",
		Short: "MCP server for camera media payloads",
		Long: "camera-media decodes camera payloads (raw RGBA, JPEG, PNG) and answers pixel\n" +
			"queries over the MCP protocol on stdin/stdout.\n\n" +
			"Environment variables:\n" +
			"  " + config.LogLevelEnv + "=debug    Enable debug logging",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config (default "+config.DefaultConfigPath+")")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve MCP over stdin/stdout",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(configPath)
			},
		},
		newInspectCommand(&configPath),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "camera-media %s\n", Version)
				fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
				fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
			},
		},
	)

	return root
}

func newInspectCommand(configPath *string) *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Decode a payload file and print what was found",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(*configPath)
			if err != nil {
				return err
			}

			cache := imaging.NewImageCache(
				imaging.WithDecoder(imaging.NewDispatcher(logger.L)),
				imaging.WithMaxPayloadBytes(cfg.Decode.MaxPayloadBytes),
				imaging.WithDefaultContentType(cfg.Decode.DefaultContentType),
			)
			logger.Debug("inspecting payload",
				slog.String("path", args[0]),
				slog.String("content_type", cache.ResolveContentType(args[0], contentType).Name()))

			info, err := imaging.LoadImageInfo(cache, args[0], contentType)
			if err != nil {
				return err
			}

			out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&contentType, "content-type", "", "declared content type (default: infer from extension)")

	return cmd
}

// setup loads configuration and initializes logging to stderr, since stdout
// carries the MCP protocol.
func setup(configPath string) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	if ct := cfg.Decode.DefaultContentType; ct != "" && !mimetype.Resolve(ct).IsRaster() {
		logger.Warn("default content type has no raster decoder", slog.String("content_type", ct))
	}
	return cfg, nil
}

func runServe(configPath string) error {
	cfg, err := setup(configPath)
	if err != nil {
		return err
	}

	logger.Info("serving MCP on stdio",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("git_commit", GitCommit),
	)

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		return err
	}
	return nil
}
