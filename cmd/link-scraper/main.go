package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/FunctionFreak/link-scraper/internal/app"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		query      string
		numLinks   int
		resultMode string
		outputDir  string
		lang       string
		timeout    time.Duration
		debug      bool
		verbose    bool
		configPath string
	)

	flag.StringVar(&query, "query", "", "Search query (required)")
	flag.IntVar(&numLinks, "num", 5, "Number of organic links to collect per engine")
	flag.StringVar(&resultMode, "result", app.ModeTerminal, "Output mode: terminal, json, or pdf")
	flag.StringVar(&outputDir, "output", "", "Directory for file-mode reports (default: working directory)")
	flag.StringVar(&lang, "lang", "en", "BCP-47 language hint passed to both engines")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Per-engine page load budget")
	flag.BoolVar(&debug, "debug", false, "Keep the browser open after the run and dump fetched HTML")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.StringVar(&configPath, "config", "", "Optional YAML or JSON config file; flags take precedence")
	flag.Parse()

	if query == "" && flag.NArg() > 0 {
		query = flag.Arg(0)
	}

	cfg := app.Config{
		Query:      query,
		NumLinks:   numLinks,
		ResultMode: resultMode,
		OutputDir:  outputDir,
		Language:   lang,
		Timeout:    timeout,
		Debug:      debug,
		Verbose:    verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file unreadable")
			os.Exit(2)
		}
		defaults := app.Config{
			NumLinks:   5,
			ResultMode: app.ModeTerminal,
			Language:   "en",
			Timeout:    30 * time.Second,
		}
		app.ApplyFileConfig(&cfg, fc, defaults)
	}

	if cfg.Verbose || cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		if errors.Is(err, app.ErrInvalidConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
