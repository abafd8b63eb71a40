// Package config builds the server configuration from defaults and
// GA_MCP_* environment variables.
package config

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/ironsheep/ga-vector-mcp/internal/dxf"
	"github.com/ironsheep/ga-vector-mcp/internal/simplify"
)

// Environment variable names.
const (
	EnvLogLevel        = "GA_MCP_LOG_LEVEL"
	EnvTolerance       = "GA_MCP_TOLERANCE"
	EnvScale           = "GA_MCP_SCALE"
	EnvCloseTolerance  = "GA_MCP_CLOSE_TOLERANCE"
	EnvWorkers         = "GA_MCP_WORKERS"
	EnvMinAreaFraction = "GA_MCP_MIN_AREA_FRACTION"
	EnvMinSideFraction = "GA_MCP_MIN_SIDE_FRACTION"
	EnvOCRLanguage     = "GA_MCP_OCR_LANGUAGE"
	EnvTessdataPrefix  = "GA_MCP_TESSDATA_PREFIX"
	EnvCannyLow        = "GA_MCP_CANNY_LOW"
	EnvCannyHigh       = "GA_MCP_CANNY_HIGH"
)

// Config holds process-wide defaults. Tool arguments override them per call.
type Config struct {
	LogLevel        slog.Level
	Tolerance       float64
	Scale           float64
	CloseTolerance  float64
	Workers         int
	MinAreaFraction float64
	MinSideFraction float64
	OCRLanguage     string
	TessdataPrefix  string
	CannyLow        float64
	CannyHigh       float64
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:        slog.LevelInfo,
		Tolerance:       simplify.DefaultTolerance,
		Scale:           dxf.DefaultScale,
		CloseTolerance:  dxf.DefaultCloseTolerance,
		Workers:         runtime.GOMAXPROCS(0),
		MinAreaFraction: 0.0005,
		MinSideFraction: 0.05,
		OCRLanguage:     "eng",
		CannyLow:        50,
		CannyHigh:       150,
	}
}

// GetEnv reads an environment variable or returns fallback when unset.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Load returns Default overlaid with any GA_MCP_* variables that are set.
// Malformed or out-of-range values are logged and ignored.
func Load() Config {
	c := Default()

	c.LogLevel = ParseLevel(GetEnv(EnvLogLevel, "info"))
	c.Tolerance = envFloat(EnvTolerance, c.Tolerance, nonNegative)
	c.Scale = envFloat(EnvScale, c.Scale, positive)
	c.CloseTolerance = envFloat(EnvCloseTolerance, c.CloseTolerance, positive)
	c.MinAreaFraction = envFloat(EnvMinAreaFraction, c.MinAreaFraction, fraction)
	c.MinSideFraction = envFloat(EnvMinSideFraction, c.MinSideFraction, fraction)
	c.CannyLow = envFloat(EnvCannyLow, c.CannyLow, nonNegative)
	c.CannyHigh = envFloat(EnvCannyHigh, c.CannyHigh, nonNegative)
	c.OCRLanguage = GetEnv(EnvOCRLanguage, c.OCRLanguage)
	c.TessdataPrefix = GetEnv(EnvTessdataPrefix, c.TessdataPrefix)

	if raw, ok := os.LookupEnv(EnvWorkers); ok {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 1 {
			slog.Warn("Ignoring invalid environment value", "key", EnvWorkers, "value", raw)
		} else {
			c.Workers = n
		}
	}

	if c.CannyLow > c.CannyHigh {
		slog.Warn("Canny low threshold above high; swapping", "low", c.CannyLow, "high", c.CannyHigh)
		c.CannyLow, c.CannyHigh = c.CannyHigh, c.CannyLow
	}
	return c
}

// ParseLevel maps debug|info|warn|error to a slog level. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func positive(v float64) bool    { return v > 0 }
func nonNegative(v float64) bool { return v >= 0 }
func fraction(v float64) bool    { return v >= 0 && v < 1 }

func envFloat(key string, fallback float64, valid func(float64) bool) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !valid(v) {
		slog.Warn("Ignoring invalid environment value", "key", key, "value", raw)
		return fallback
	}
	return v
}
