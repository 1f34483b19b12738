package vimshottari

import (
	"log/slog"
	"math"
	"os"
	"strconv"
)

// FillEnvVar returns the value of a runtime Environment Variable
func FillEnvVar(ev string) string {
	// If the EnvVar doesn't exist return a default string
	value := os.Getenv(ev)
	if value == "" {
		value = "ENOENT"
	}
	return value
}

// FillEnvVarInt reads an integer Environment Variable,
// falling back to the given default on absence or bad syntax
func FillEnvVarInt(ev string, def int) int {
	value := os.Getenv(ev)
	if value == "" {
		return def
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		slog.Error("Could not read integer env var, using default",
			slog.String("var", ev), slog.Any("Error", err))
		return def
	}
	return i
}

// FillEnvVarFloat reads a float Environment Variable,
// falling back to the given default on absence or bad syntax
func FillEnvVarFloat(ev string, def float64) float64 {
	value := os.Getenv(ev)
	if value == "" {
		return def
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		slog.Error("Could not read float env var, using default",
			slog.String("var", ev), slog.Any("Error", err))
		return def
	}
	return f
}

// FloatPrecise rounds a float to /p/ decimal places for display
func FloatPrecise(f float64, p int) float64 {
	scale := math.Pow(10, float64(p))
	return math.Round(f*scale) / scale
}
