package vimshottari

import (
	"log/slog"

	Mp "github.com/maroda/vimshottari/plugin"
	Vs "github.com/maroda/vimshottari/server"
)

// InitBadgerOutput attaches the BadgerDB alert sink when the
// environment asks for one. No path configured means no sink,
// which is not an error: the store is optional alert history.
func InitBadgerOutput(view *View) error {
	path := Vs.FillEnvVar("VIMSHOTTARI_PLUGIN_BADGER_PATH")
	if path == "ENOENT" {
		slog.Info("No output plugin configured")
		return nil
	}

	batchSize := Vs.FillEnvVarInt("VIMSHOTTARI_PLUGIN_BADGER_BATCH", 16)

	slog.Info("Configuration found:",
		slog.String("Path", path),
		slog.Int("BatchSize", batchSize))

	factory, err := Mp.OutputLookup("badgerdb")
	if err != nil {
		slog.Error("Failed to look up output", slog.Any("error", err))
		return err
	}

	output, err := factory(path, batchSize)
	if err != nil {
		slog.Error("Failed to create adapter",
			slog.String("output", path),
			slog.Any("error", err))
		return err
	}

	view.Charts.Output = output
	slog.Info("BadgerDB Adapter Enabled", slog.String("output", path))
	return nil
}
