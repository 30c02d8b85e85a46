package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks a configuration file that decoded but failed validation.
var ErrInvalid = errors.New("invalid configuration")

// LoadResult is the outcome of Load. When Fallback is set, Config holds the
// built-in default and Err explains why the file was not used.
type LoadResult struct {
	Config   Config
	Path     string
	Fallback bool
	Err      error
}

// Load reads the configuration at path. Keys absent from the file keep
// their default values. A missing, unreadable, malformed or invalid file
// yields the built-in default; Load never returns an error to the caller.
func Load(path string) LoadResult {
	return LoadWithBase(path, Default())
}

// LoadWithBase is Load with a caller-supplied base for absent keys and for
// the fallback.
func LoadWithBase(path string, base Config) LoadResult {
	cfg, err := parseFile(path, base.Clone())
	if err != nil {
		slog.Warn("using default configuration", "path", path, "reason", err)
		return LoadResult{Config: base.Clone(), Path: path, Fallback: true, Err: err}
	}

	slog.Debug("configuration loaded", "path", path)
	return LoadResult{Config: cfg, Path: path}
}

func parseFile(path string, cfg Config) (Config, error) {
	if path == "" {
		return cfg, fmt.Errorf("no configuration path given")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := decode(path, data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Validate checks that the mapping names every required field and that
// the layout indices make sense.
func (c Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Columns.QuestionType) == "" {
		errs = append(errs, "column_mapping.question_type is required")
	}
	if strings.TrimSpace(c.Columns.QuestionText) == "" {
		errs = append(errs, "column_mapping.question_text is required")
	}
	if strings.TrimSpace(c.Columns.CorrectAnswer) == "" {
		errs = append(errs, "column_mapping.correct_answer is required")
	}

	if c.Excel.HeaderRowIndex < 0 {
		errs = append(errs, fmt.Sprintf("excel_settings.header_row_index (%d) must be non-negative", c.Excel.HeaderRowIndex))
	}
	if c.Excel.SkipDescriptionRow && c.Excel.DataStartRow <= c.Excel.HeaderRowIndex {
		errs = append(errs, fmt.Sprintf("excel_settings.data_start_row (%d) must be after header_row_index (%d)",
			c.Excel.DataStartRow, c.Excel.HeaderRowIndex))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}

// WriteTemplate writes cfg to path as an editable template, as YAML when the
// extension asks for it and indented JSON otherwise.
func WriteTemplate(path string, cfg Config) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		err = enc.Encode(cfg)
		data = buf.Bytes()
	}
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
