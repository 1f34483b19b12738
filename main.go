package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	Md "github.com/maroda/vimshottari/display"
	Vo "github.com/maroda/vimshottari/obvy"
	Vs "github.com/maroda/vimshottari/server"
)

func main() {
	// Chart config lives on local disk
	cfgPath := Vs.FillEnvVar("VIMSHOTTARI_CONFIG")
	if cfgPath == "ENOENT" {
		cfgPath = "charts.json"
	}

	cf, err := Vs.LoadConfigFileName(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	slog.Info("Config loaded", slog.String("file", cfgPath), slog.Int("charts", len(cf)))

	// Tracing is on only when an exporter is configured:
	// Honeycomb wins, a plain OTLP endpoint is the fallback
	if os.Getenv("HONEYCOMB_API_KEY") != "" {
		shutdown, err := Vo.InitOTelHNY()
		if err != nil {
			slog.Error("Problem configuring OpenTelemetry", slog.Any("Error", err))
		} else {
			defer shutdown()
		}
	} else if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		tp, err := Vo.InitOTelGRF()
		if err != nil {
			slog.Error("Problem configuring OpenTelemetry", slog.Any("Error", err))
		} else {
			defer func() { _ = tp.Shutdown(context.Background()) }()
		}
	}

	// Build every timeline, then serve (blocks)
	if err := Md.StartWeb(cf); err != nil {
		slog.Error("Problem starting data server", slog.Any("Error", err))
		panic("Failed to start data server")
	}
}
