package heatmap

import (
	"context"
	"os"

	json "github.com/goccy/go-json"

	"codeboard/internal/heatmap/interfaces"
	"codeboard/internal/providers"
	"codeboard/internal/repository"
)

// Exporter dumps every heatmap record to a compressed JSON snapshot.
// The snapshot is an operational backup of the cache, not a source of
// truth; the database stays authoritative.
type Exporter struct {
	records    repository.HeatmapRepositoryI
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewExporter(records repository.HeatmapRepositoryI, compressor interfaces.CompressorInterface, logger providers.Logger) *Exporter {
	return &Exporter{
		records:    records,
		compressor: compressor,
		logger:     logger,
	}
}

// SaveToFile writes the snapshot through a temp file and renames it into
// place, so a crash mid-write never leaves a truncated snapshot.
func (e *Exporter) SaveToFile(ctx context.Context, fileName string) error {
	records, err := e.records.ListAll(ctx)
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(records)
	if err != nil {
		return err
	}
	data, err := e.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// ReadFile loads and decodes a snapshot file. Missing files yield an empty
// slice so a fresh deployment can run the same code path.
func (e *Exporter) ReadFile(fileName string) ([]byte, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return e.compressor.Decompress(data)
}

func (e *Exporter) Close() {
	e.compressor.Close()
}
