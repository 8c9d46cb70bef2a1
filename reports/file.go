package reports

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func Write(report *Report, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("report: resolve %s: %w", path, err)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("report: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("report: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", abs, err)
	}
	return nil
}

func Read(path string) (*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var report Report
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&report); err != nil {
		return nil, fmt.Errorf("report: parse %s: %w", path, err)
	}
	return &report, nil
}
