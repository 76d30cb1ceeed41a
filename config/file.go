package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// File is the on-disk form of Config.
// Every field is optional: omitted fields keep whatever value the Config already has.
type File struct {
	WindowTime *float64 `toml:"window_time"` // seconds
	MaxOverlap *float64 `toml:"max_overlap"`
	FPS        *int     `toml:"fps"`
	FillMode   *string  `toml:"fill_mode"`
	Workers    *int     `toml:"workers"`
}

// LoadFile reads TOML configuration file. Unknown keys are rejected
func LoadFile(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".toml" {
		return nil, errors.Errorf("config file must have .toml extension, got '%s'", ext)
	}
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "can't stat config file")
	}
	if fileInfo.Size() > maxFileSize {
		return nil, errors.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "can't read config file")
	}
	file := File{}
	err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&file)
	if err != nil {
		return nil, errors.Wrapf(err, "can't parse config file '%s'", cleanPath)
	}
	return &file, nil
}

// ApplyTo overrides fields of cfg set in the file
func (file *File) ApplyTo(cfg *Config) {
	if file.WindowTime != nil {
		cfg.WindowTime = Seconds(*file.WindowTime)
	}
	if file.MaxOverlap != nil {
		cfg.MaxOverlap = *file.MaxOverlap
	}
	if file.FPS != nil {
		cfg.FPS = *file.FPS
	}
	if file.FillMode != nil {
		cfg.FillMode = FillMode(*file.FillMode)
	}
	if file.Workers != nil {
		cfg.Workers = *file.Workers
	}
}

// Load returns default configuration overridden by the file at path
func Load(path string) (Config, error) {
	cfg := Default()
	file, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}
	file.ApplyTo(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
