package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmxwatch/jmxwatch/internal/agent"
	"github.com/jmxwatch/jmxwatch/internal/config"
	"github.com/jmxwatch/jmxwatch/internal/jmx"
	"github.com/jmxwatch/jmxwatch/internal/sink"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "jmxwatch",
		Short:        "Poll JMX metrics from targets described by files in a watched directory",
		RunE:         run,
		SilenceUsage: true,
	}
	root.Flags().StringVarP(&configPath, "config", "c", "jmxwatch.yaml", "path to the agent config file")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if info, err := os.Stat(cfg.ConfDir); err != nil {
		return fmt.Errorf("conf_dir: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("conf_dir %q is not a directory", cfg.ConfDir)
	}

	out, closeSink, err := buildSink(cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	slog.Info("jmxwatch starting",
		"conf_dir", cfg.ConfDir,
		"interval", cfg.Interval.Std(),
		"sink", cfg.Sink.Kind,
	)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	agent.New(cfg, jmx.NewClient(), out).Run(ctx)

	slog.Info("jmxwatch stopped")
	return nil
}

// buildSink constructs the configured sink and its cleanup function.
// Metric events go to stdout; logs stay on stderr so the streams never mix.
func buildSink(cfg *config.Config) (sink.Sink, func(), error) {
	switch cfg.Sink.Kind {
	case "nats":
		s, err := sink.NewNATS(cfg.Sink.URL, cfg.Sink.Subject)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return sink.NewWriter(os.Stdout), func() {}, nil
	}
}
