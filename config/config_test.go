package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10*time.Second, cfg.WindowTime)
	assert.Equal(t, 0.7, cfg.MaxOverlap)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, FillForward, cfg.FillMode)
	assert.GreaterOrEqual(t, cfg.WorkerCount(), 1)
	assert.Contains(t, cfg.String(), "window_time=10s")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero window":       func(c *Config) { c.WindowTime = 0 },
		"negative window":   func(c *Config) { c.WindowTime = -time.Second },
		"zero overlap":      func(c *Config) { c.MaxOverlap = 0 },
		"overlap above one": func(c *Config) { c.MaxOverlap = 1.01 },
		"NaN overlap":       func(c *Config) { c.MaxOverlap = math.NaN() },
		"zero fps":          func(c *Config) { c.FPS = 0 },
		"unknown fill":      func(c *Config) { c.FillMode = "spline" },
		"negative workers":  func(c *Config) { c.Workers = -2 },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, name)
	}

	cfg := Default()
	cfg.MaxOverlap = 1
	cfg.FillMode = FillKalman
	cfg.Workers = 3
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.WorkerCount())
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, Seconds(1.5))
	assert.Equal(t, time.Duration(0), Seconds(math.NaN()))
	assert.Equal(t, time.Duration(0), Seconds(math.Inf(1)))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "cleaner.toml", `
window_time = 2.5
max_overlap = 0.5
fill_mode = "kalman"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, cfg.WindowTime)
	assert.Equal(t, 0.5, cfg.MaxOverlap)
	assert.Equal(t, FillKalman, cfg.FillMode)
	// Omitted keys keep defaults
	assert.Equal(t, DefaultFPS, cfg.FPS)
	assert.Equal(t, 0, cfg.Workers)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "cleaner.yaml", "fps: 25\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".toml")

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "unknown.toml", "window = 3\n"))
	assert.Error(t, err, "unknown keys must be rejected")

	_, err = Load(writeFile(t, "broken.toml", "fps = \n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "invalid.toml", "max_overlap = 2.0\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeFile(t, "huge.toml", "# "+strings.Repeat("x", maxFileSize)+"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestApplyTo(t *testing.T) {
	fps := 25
	workers := 4
	file := File{FPS: &fps, Workers: &workers}
	cfg := Default()
	file.ApplyTo(&cfg)
	assert.Equal(t, 25, cfg.FPS)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, DefaultWindowTime, cfg.WindowTime)
}
