package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/use-agent/hustings/pipeline"
)

// WriteCSV writes t to path as a header row followed by one line per row,
// with no index column. The file is written to a temporary sibling first
// and renamed into place, so a failed write never leaves a partial table.
func WriteCSV(path string, t *pipeline.Table) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("sink: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	if err := encodeCSV(tmp, t); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("sink: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("sink: rename to %s: %w", path, err)
	}
	tmpName = ""
	return nil
}

func encodeCSV(f *os.File, t *pipeline.Table) error {
	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("sink: write header: %w", err)
	}
	line := make([]string, len(t.Columns))
	for i, cells := range t.Records() {
		for j, cell := range cells {
			line[j] = cell.Format()
		}
		if err := w.Write(line); err != nil {
			return fmt.Errorf("sink: write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("sink: flush: %w", err)
	}
	return nil
}
