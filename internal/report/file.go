package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/FunctionFreak/link-scraper/internal/aggregate"
)

// FileWriter serializes the report to a new timestamped JSON document.
type FileWriter struct {
	// Dir is the output directory; empty means the working directory.
	Dir string
}

// Write creates the file and returns the path written. Existing files are
// never appended to or overwritten: a name collision within the same
// second gets a numeric suffix.
func (w FileWriter) Write(rep aggregate.Report) (string, error) {
	data, err := json.MarshalIndent(toDocument(rep), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')

	return writeUnique(w.Dir, timestampBase(rep.GeneratedAt), ".json", func(f io.Writer) error {
		_, err := f.Write(data)
		return err
	})
}

// writeUnique creates the first non-existing path for base+ext, suffixing
// a counter on collision, and streams the document into it. The create
// uses O_EXCL so a race surfaces as an error rather than an overwrite.
func writeUnique(dir, base, ext string, write func(io.Writer) error) (string, error) {
	for i := 0; i < 100; i++ {
		name := base + ext
		if i > 0 {
			name = fmt.Sprintf("%s_%d%s", base, i+1, ext)
		}
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create report file: %w", err)
		}
		if err := write(f); err != nil {
			f.Close()
			return "", fmt.Errorf("write report file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close report file: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("no free report filename for %s", base)
}
