package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all tunables of the context resolution subsystem.
// Zero values mean "use the default"; see DefaultConfig.
type Config struct {
	// JournalFile is the append-only JSON-Lines log, relative to the base
	// directory unless absolute.
	JournalFile string `toml:"journal_file"`

	// ContextWindowChars bounds the before/after caret text on each side.
	ContextWindowChars int `toml:"context_window_chars"`

	// CaretMarker is inserted between before and after text in the cursor line.
	CaretMarker string `toml:"caret_marker"`

	// FlushInterval is the minimum wall-clock gap between journal flushes.
	FlushInterval time.Duration `toml:"flush_interval"`

	// FlushThreshold forces a flush once this many entries are pending.
	FlushThreshold int `toml:"flush_threshold"`

	// CoalesceTolerance is the maximum length difference under which a
	// buffered string absorbs (or is replaced by) an overlapping one.
	CoalesceTolerance int `toml:"coalesce_tolerance"`

	// OCRRadius is the initial half-size, in pixels, of the square capture
	// region around the caret point.
	OCRRadius int `toml:"ocr_radius"`

	// OCRRetries caps how many times a zero-text capture is retried with an
	// enlarged radius. This bound is what caps worst-case trigger latency.
	OCRRetries int `toml:"ocr_retries"`

	// OCRGrowth is the radius multiplier applied on each retry.
	OCRGrowth float64 `toml:"ocr_growth"`

	// StaleSnapshotTTL is how long a prior successful OCR snapshot may be
	// reused when a fresh capture yields nothing.
	StaleSnapshotTTL time.Duration `toml:"stale_snapshot_ttl"`

	// MinOCRConfidence drops recognized blocks below this confidence (0..1).
	MinOCRConfidence float64 `toml:"min_ocr_confidence"`

	// Languages are recognition language hints passed to the OCR engine.
	Languages []string `toml:"languages"`

	// MaxHistoryLines caps how many history lines a bundle may carry.
	MaxHistoryLines int `toml:"max_history_lines"`

	// MaxBundleChars caps the cumulative history character budget.
	MaxBundleChars int `toml:"max_bundle_chars"`

	// MinImportance is the retrieval floor: "critical", "high", "medium",
	// "low" or "noise".
	MinImportance string `toml:"min_importance"`

	// ObserveInterval is the period of the continuous screen observation loop.
	ObserveInterval time.Duration `toml:"observe_interval"`

	// Debug enables debug-level logging.
	Debug bool `toml:"debug"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		JournalFile:        "content.jsonl",
		ContextWindowChars: 200,
		CaretMarker:        "<<CURSOR>>",
		FlushInterval:      5 * time.Second,
		FlushThreshold:     20,
		CoalesceTolerance:  30,
		OCRRadius:          160,
		OCRRetries:         3,
		OCRGrowth:          1.4,
		StaleSnapshotTTL:   3 * time.Second,
		MinOCRConfidence:   0.5,
		Languages:          []string{"eng"},
		MaxHistoryLines:    12,
		MaxBundleChars:     2400,
		MinImportance:      "low",
		ObserveInterval:    5 * time.Second,
	}
}

// Load reads baseDir/glimpse.toml and merges it over the defaults.
// A missing file yields the defaults; a malformed file is an error.
func Load(baseDir string) (*Config, error) {
	cfg := &Config{}
	path := filepath.Join(baseDir, "glimpse.toml")
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs. Overlay values win when non-zero;
// slices replace wholesale when set.
func Merge(base, overlay *Config) *Config {
	result := *overlay

	if result.JournalFile == "" {
		result.JournalFile = base.JournalFile
	}
	if result.ContextWindowChars == 0 {
		result.ContextWindowChars = base.ContextWindowChars
	}
	if result.CaretMarker == "" {
		result.CaretMarker = base.CaretMarker
	}
	if result.FlushInterval == 0 {
		result.FlushInterval = base.FlushInterval
	}
	if result.FlushThreshold == 0 {
		result.FlushThreshold = base.FlushThreshold
	}
	if result.CoalesceTolerance == 0 {
		result.CoalesceTolerance = base.CoalesceTolerance
	}
	if result.OCRRadius == 0 {
		result.OCRRadius = base.OCRRadius
	}
	if result.OCRRetries == 0 {
		result.OCRRetries = base.OCRRetries
	}
	if result.OCRGrowth == 0 {
		result.OCRGrowth = base.OCRGrowth
	}
	if result.StaleSnapshotTTL == 0 {
		result.StaleSnapshotTTL = base.StaleSnapshotTTL
	}
	if result.MinOCRConfidence == 0 {
		result.MinOCRConfidence = base.MinOCRConfidence
	}
	if len(result.Languages) == 0 {
		result.Languages = base.Languages
	}
	if result.MaxHistoryLines == 0 {
		result.MaxHistoryLines = base.MaxHistoryLines
	}
	if result.MaxBundleChars == 0 {
		result.MaxBundleChars = base.MaxBundleChars
	}
	if result.MinImportance == "" {
		result.MinImportance = base.MinImportance
	}
	if result.ObserveInterval == 0 {
		result.ObserveInterval = base.ObserveInterval
	}

	// Booleans: overlay wins if true, else base
	result.Debug = base.Debug || overlay.Debug

	return &result
}

// JournalPath resolves the journal file against baseDir.
func (c *Config) JournalPath(baseDir string) string {
	if filepath.IsAbs(c.JournalFile) {
		return c.JournalFile
	}
	return filepath.Join(baseDir, c.JournalFile)
}

// DefaultBaseDir returns ~/.glimpse, creating nothing.
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".glimpse"
	}
	return filepath.Join(home, ".glimpse")
}
