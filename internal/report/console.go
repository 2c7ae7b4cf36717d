package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/FunctionFreak/link-scraper/internal/aggregate"
)

// Console renders a human-readable report. The text layout is not a
// stable interface.
type Console struct {
	Out io.Writer
}

func (c Console) Render(rep aggregate.Report) error {
	header := color.New(color.FgCyan, color.Bold).SprintFunc()
	urlColor := color.New(color.FgGreen).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, res := range orderedResults(rep) {
		if _, err := fmt.Fprintf(c.Out, "%s (%d links)\n", header(res.Engine), res.Count()); err != nil {
			return fmt.Errorf("write console report: %w", err)
		}
		for i, l := range res.Links {
			title := l.Title
			if title == "" {
				title = "(untitled)"
			}
			if _, err := fmt.Fprintf(c.Out, "  %d. %s\n     %s %s\n",
				i+1, title, urlColor(l.URL), dim("["+l.Domain+"]")); err != nil {
				return fmt.Errorf("write console report: %w", err)
			}
		}
		if _, err := fmt.Fprintln(c.Out); err != nil {
			return fmt.Errorf("write console report: %w", err)
		}
	}

	if _, err := fmt.Fprintf(c.Out, "%d duplicate Bing links dropped\n", rep.DuplicatesDropped); err != nil {
		return fmt.Errorf("write console report: %w", err)
	}
	if _, err := fmt.Fprintf(c.Out, "Total: %d links (%s)\n",
		rep.TotalLinks, rep.GeneratedAt.Format("2006-01-02 15:04:05")); err != nil {
		return fmt.Errorf("write console report: %w", err)
	}
	return nil
}
