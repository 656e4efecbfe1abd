// Команда patterns запрашивает рекомендации паттернов из терминала.
//
// Использование:
//
//	patterns analyze "an order service that must notify several subsystems"
//	patterns interactive
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"patternadvisor/internal/config"
	"patternadvisor/internal/recommend"
	"patternadvisor/internal/report"
	"patternadvisor/internal/transport"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(cfg).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(cfg config.Config) *cli.App {
	return &cli.App{
		Name:    "patterns",
		Usage:   "Recommend software design patterns for a use case",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "Gemini API key (default: $GOOGLE_API_KEY)",
			},
			&cli.StringFlag{
				Name:  "model",
				Usage: "Gemini model name",
				Value: cfg.Gemini.Model,
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Gemini API base URL",
				Value: cfg.Gemini.BaseURL,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Upstream request timeout, 0 disables it",
				Value: cfg.RequestTimeout,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "warn",
			},
		},
		Commands: []*cli.Command{
			analyzeCommand(cfg),
			interactiveCommand(cfg),
		},
	}
}

func analyzeCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Recommend patterns for a single use case",
		ArgsUsage: "<use case>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "use-case",
				Aliases: []string{"u"},
				Usage:   "Use case description (alternative to positional arguments)",
			},
			formatFlag(),
		},
		Action: func(c *cli.Context) error {
			useCase := c.String("use-case")
			if useCase == "" {
				useCase = strings.Join(c.Args().Slice(), " ")
			}
			if strings.TrimSpace(useCase) == "" {
				return cli.Exit("a use case is required", 1)
			}

			service, err := buildService(c, cfg)
			if err != nil {
				return err
			}
			set, err := service.Analyze(c.Context, useCase)
			if err != nil {
				return err
			}
			return report.Render(c.App.Writer, set, c.String("format"))
		},
	}
}

func interactiveCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "interactive",
		Usage: "Read use cases line by line until 'exit'",
		Flags: []cli.Flag{formatFlag()},
		Action: func(c *cli.Context) error {
			service, err := buildService(c, cfg)
			if err != nil {
				return err
			}
			session := &session{
				analyzer: service,
				in:       os.Stdin,
				out:      c.App.Writer,
				format:   c.String("format"),
			}
			return session.run(c.Context)
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   report.FormatText,
		Usage:   "Output format (text, json)",
	}
}

// buildService накладывает глобальные флаги поверх конфигурации из окружения.
func buildService(c *cli.Context, cfg config.Config) (*recommend.Service, error) {
	gemini := cfg.Gemini
	if c.IsSet("api-key") {
		gemini.APIKey = strings.TrimSpace(c.String("api-key"))
	}
	gemini.Model = c.String("model")
	gemini.BaseURL = c.String("base-url")

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: parseLevel(c.String("log-level"))}))
	return recommend.NewGeminiService(gemini, transport.NewHTTPClient(c.Duration("timeout")), logger)
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelWarn
	}
	return l
}
