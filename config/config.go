package config

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/pkg/errors"
)

// FillMode selects how boxes of missing frames are synthesized
type FillMode string

const (
	// FillForward copies the most recent observed detection (forward fill)
	FillForward FillMode = "forward"
	// FillKalman predicts boxes through the gap with a Kalman filter fed by the track history
	FillKalman FillMode = "kalman"
)

const (
	// DefaultWindowTime is default duration of reconciliation window
	DefaultWindowTime = 10 * time.Second
	// DefaultMaxOverlap is default IoU threshold above which detections are treated as the same object
	DefaultMaxOverlap = 0.7
	// DefaultFPS is fixed frame rate of the recorded videos
	DefaultFPS = 30
	// DefaultFillMode is default gap filling strategy
	DefaultFillMode = FillForward
)

var (
	// ErrInvalidConfig is returned for parameters the pipeline cannot run with
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds parameters of the cleaning pipeline
type Config struct {
	// Duration of identity reconciliation window
	WindowTime time.Duration
	// IoU threshold in (0, 1]
	MaxOverlap float64
	// Frame rate used to derive timestamps of synthesized detections
	FPS int
	// Gap filling strategy
	FillMode FillMode
	// Number of tracks interpolated concurrently. Zero means number of CPUs
	Workers int
}

// Default returns configuration with default values
func Default() Config {
	return Config{
		WindowTime: DefaultWindowTime,
		MaxOverlap: DefaultMaxOverlap,
		FPS:        DefaultFPS,
		FillMode:   DefaultFillMode,
		Workers:    0,
	}
}

// Validate checks every parameter. Returned error wraps ErrInvalidConfig
func (cfg Config) Validate() error {
	if cfg.WindowTime <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "window time must be > 0, got %s", cfg.WindowTime)
	}
	if !(cfg.MaxOverlap > 0 && cfg.MaxOverlap <= 1) {
		return errors.Wrapf(ErrInvalidConfig, "max overlap must be in (0, 1], got %v", cfg.MaxOverlap)
	}
	if cfg.FPS <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "fps must be > 0, got %d", cfg.FPS)
	}
	switch cfg.FillMode {
	case FillForward, FillKalman:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown fill mode '%s'", cfg.FillMode)
	}
	if cfg.Workers < 0 {
		return errors.Wrapf(ErrInvalidConfig, "workers must be >= 0, got %d", cfg.Workers)
	}
	return nil
}

// WorkerCount returns effective number of interpolation workers
func (cfg Config) WorkerCount() int {
	if cfg.Workers == 0 {
		return runtime.NumCPU()
	}
	return cfg.Workers
}

func (cfg Config) String() string {
	return fmt.Sprintf("window_time=%s max_overlap=%v fps=%d fill_mode=%s workers=%d",
		cfg.WindowTime, cfg.MaxOverlap, cfg.FPS, cfg.FillMode, cfg.WorkerCount())
}

// Seconds converts fractional seconds to duration. Non-finite values give zero duration
func Seconds(sec float64) time.Duration {
	if math.IsNaN(sec) || math.IsInf(sec, 0) {
		return 0
	}
	return time.Duration(sec * float64(time.Second))
}
