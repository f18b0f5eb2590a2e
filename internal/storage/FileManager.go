package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"reelsd/internal/models"
	"reelsd/internal/providers"

	json "github.com/goccy/go-json"
)

// SnapshotSource supplies the data written by an export.
type SnapshotSource interface {
	Snapshot() models.Snapshot
}

type FileManager struct {
	source     SnapshotSource
	compressor CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor CompressorInterface, source SnapshotSource, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		source:     source,
		logger:     logger,
	}
}

// SaveToFile writes a compressed snapshot next to its final name and renames
// it into place so a reader never sees a partial file.
func (f *FileManager) SaveToFile(fileName string) error {
	snapshot := f.source.Snapshot()

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(fileName); dir != "" {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
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

	if err = os.Rename(tmpFile, fileName); err != nil {
		return err
	}
	f.logger.Infof(providers.TypeApp, "Exported %d history days to %s", len(snapshot.State.History), fileName)
	return nil
}

func (f *FileManager) LoadFromFile(fileName string) (*models.Snapshot, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", fileName, err)
	}

	var snapshot models.Snapshot
	if err = json.Unmarshal(decompressedData, &snapshot); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fileName, err)
	}
	snapshot.State.Normalize(snapshot.State.LastUpdated)
	return &snapshot, nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
