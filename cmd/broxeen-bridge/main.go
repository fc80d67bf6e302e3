// ABOUTME: CLI entrypoint for the broxeen bridge gateway.
// ABOUTME: Offers a one-shot ask command and an interactive REPL.

package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wronai/broxeen-sub001/internal/config"
	"github.com/wronai/broxeen-sub001/internal/format"
	"github.com/wronai/broxeen-sub001/internal/gateway"
	"github.com/wronai/broxeen-sub001/internal/host"
	"github.com/wronai/broxeen-sub001/internal/ledger"
)

var version = "dev"

var configPath string

func main() {
	root := &cobra.Command{
		Use:     "broxeen-bridge",
		Short:   "Voice-friendly gateway to pub/sub, REST, websocket, SSE, graphql, and feed endpoints",
		Version: version,
		Long: `broxeen-bridge turns free-text requests into protocol operations and
answers with short, voice-ready replies. Run "repl" for an interactive
session or "ask" for a single utterance.`,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	root.AddCommand(newAskCmd())
	root.AddCommand(newReplCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <utterance>...",
		Short: "Handle a single utterance and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := buildGateway()
			if err != nil {
				return err
			}
			defer g.Close()

			res := g.Handle(cmd.Context(), strings.Join(args, " "), ledger.SourceText)
			printResult(res)
			if res.Status == format.StatusError {
				os.Exit(1)
			}
			return nil
		},
	}
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive session; type requests, get replies",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := buildGateway()
			if err != nil {
				return err
			}
			defer g.Close()

			color.Cyan("broxeen-bridge %s — type a request, or \"exit\" to quit", version)
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}
				res := g.Handle(context.Background(), line, ledger.SourceText)
				printResult(res)
			}
			return scanner.Err()
		},
	}
}

func buildGateway() (*gateway.Gateway, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := buildLogger(cfg.Logging)
	slog.SetDefault(logger)

	opts := gateway.Options{
		Config: cfg,
		Logger: logger,
	}

	if cfg.MQTT.Enabled {
		client, err := host.DialMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.Network.ConnectTimeout, logger)
		if err != nil {
			// Broker down is not fatal; adapters fall back to the cache.
			logger.Warn("mqtt broker unavailable, continuing without it",
				"broker", cfg.MQTT.Broker, "error", err)
		} else {
			opts.PubSub = client
		}
	}

	return gateway.New(opts), nil
}

func buildLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	return slog.New(handler)
}

func printResult(res *format.Result) {
	switch res.Status {
	case format.StatusSuccess:
		color.Green("✓ %s", res.Voice())
	case format.StatusPartial:
		color.Yellow("~ %s", res.Voice())
	default:
		color.Red("✗ %s", res.Voice())
	}

	if text := res.Text(); text != "" && text != res.Voice() {
		fmt.Println(text)
	}
}
