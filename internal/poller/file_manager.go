package poller

import (
	"os"
	"time"

	json "github.com/goccy/go-json"

	"dlb/internal/models"
	"dlb/internal/poller/interfaces"
	"dlb/internal/providers"
	"dlb/internal/services"
)

// cacheFile is the on-disk envelope for the creator cache. The daily
// history is deliberately not persisted: its counters are live-feed
// snapshots that would be stale after any restart long enough to matter,
// and the first poll rebuilds them.
type cacheFile struct {
	SavedAt  string                           `json:"saved_at"`
	Creators map[string]*models.CachedCreator `json:"creators"`
}

type FileManager struct {
	service    services.LeaderboardServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, service services.LeaderboardServiceInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		service:    service,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	storage := cacheFile{
		SavedAt:  time.Now().UTC().Format(time.RFC3339),
		Creators: f.service.CacheSnapshot(),
	}

	jsonData, err := json.Marshal(storage)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
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

func (f *FileManager) Close() {
	f.compressor.Close()
}

func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var storage cacheFile
	if err := json.Unmarshal(decompressedData, &storage); err == nil && storage.Creators != nil {
		f.service.PutCacheSnapshot(storage.Creators)
		return nil
	}

	// A bare creator map predates the envelope format.
	f.logger.Warnf(providers.TypeApp, "Inconsistent cache file found, try to migrate from old data format")
	var creators map[string]*models.CachedCreator
	if err := json.Unmarshal(decompressedData, &creators); err != nil {
		f.logger.Warnf(providers.TypeApp, "Migration failed")
		return err
	}
	f.logger.Warnf(providers.TypeApp, "Migration from bare map format successful")
	f.service.PutCacheSnapshot(creators)

	return nil
}
