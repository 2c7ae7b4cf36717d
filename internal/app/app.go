package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/FunctionFreak/link-scraper/internal/aggregate"
	"github.com/FunctionFreak/link-scraper/internal/browser"
	"github.com/FunctionFreak/link-scraper/internal/engine"
	"github.com/FunctionFreak/link-scraper/internal/report"
)

// App wires the browser session, the two engine extractors, the
// aggregator, and the configured reporter into one run.
type App struct {
	cfg        Config
	session    *browser.Session
	extractors []engine.Extractor
	consoleOut io.Writer
}

// New validates cfg and launches the browser. On success the caller owns
// the returned App and must Close it.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sess, err := browser.New(ctx, browser.Options{
		Debug:   cfg.Debug,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init browser: %w", err)
	}
	return &App{
		cfg:     cfg,
		session: sess,
		extractors: []engine.Extractor{
			&engine.Google{Fetcher: sess},
			&engine.Bing{Fetcher: sess},
		},
		consoleOut: os.Stdout,
	}, nil
}

// Close releases the browser session. In debug mode the session leaves
// the browser open by design.
func (a *App) Close() {
	if a.session != nil {
		a.session.Close()
	}
}

// Run performs one search run: both engines concurrently, then aggregate,
// then render. Engine failures degrade to empty per-engine results and
// never abort the sibling engine; only output failures propagate.
func (a *App) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := log.With().Str("run_id", runID).Logger()

	q := engine.Query{
		Text:     a.cfg.Query,
		Limit:    a.cfg.NumLinks,
		Language: a.cfg.Language,
	}
	logger.Info().Str("query", q.Text).Int("num_links", q.Limit).Msg("starting search")

	results := make([]engine.Result, len(a.extractors))
	g, gctx := errgroup.WithContext(ctx)
	for i, ex := range a.extractors {
		i, ex := i, ex
		g.Go(func() error {
			res, err := ex.Extract(gctx, q)
			if err != nil {
				logger.Warn().Err(err).Str("engine", ex.Name()).Msg("extraction failed; continuing with empty result")
				results[i] = engine.Result{Engine: ex.Name()}
				return nil
			}
			logger.Info().Str("engine", ex.Name()).Int("links", res.Count()).
				Dur("took", res.Duration).Msg("extraction done")
			results[i] = res
			return nil
		})
	}
	// Goroutines contain their own failures, so Wait only synchronizes.
	_ = g.Wait()

	rep := aggregate.Merge(results[0], results[1])
	logger.Info().Int("total", rep.TotalLinks).Int("duplicates_dropped", rep.DuplicatesDropped).
		Msg("aggregated results")

	switch a.cfg.ResultMode {
	case ModeJSON:
		path, err := report.FileWriter{Dir: a.cfg.OutputDir}.Write(rep)
		if err != nil {
			return fmt.Errorf("write json report: %w", err)
		}
		logger.Info().Str("path", path).Msg("wrote report")
	case ModePDF:
		path, err := report.PDFWriter{Dir: a.cfg.OutputDir}.Write(rep)
		if err != nil {
			return fmt.Errorf("write pdf report: %w", err)
		}
		logger.Info().Str("path", path).Msg("wrote report")
	default:
		if err := (report.Console{Out: a.consoleOut}).Render(rep); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
	}
	return nil
}
