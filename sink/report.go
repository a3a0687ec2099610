package sink

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/use-agent/hustings/models"
)

// ReportPath returns where the failure report for a CSV at csvPath goes.
func ReportPath(csvPath string) string {
	return csvPath + ".errors.yaml"
}

// WriteReport writes failures to path as a YAML list. Nothing is written
// when there are no failures; a stale report from an earlier run is removed.
func WriteReport(path string, failures []models.Failure) error {
	if len(failures) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("sink: remove stale report: %w", err)
		}
		return nil
	}
	data, err := yaml.Marshal(failures)
	if err != nil {
		return fmt.Errorf("sink: marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("sink: write report: %w", err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) ([]models.Failure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sink: read report: %w", err)
	}
	var failures []models.Failure
	if err := yaml.Unmarshal(data, &failures); err != nil {
		return nil, fmt.Errorf("sink: parse report: %w", err)
	}
	return failures, nil
}
