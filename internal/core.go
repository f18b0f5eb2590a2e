package internal

import (
	"reelsd/internal/providers"
	"reelsd/internal/storage"
	"reelsd/internal/structures"
	"reelsd/internal/tracker"
)

// Core is the tracker without timer or HTTP surface. The one-shot CLI
// commands open the store through it, so they need the daemon stopped.
type Core struct {
	Config      *structures.Config
	Logger      providers.Logger
	Service     tracker.ServiceInterface
	FileManager *storage.FileManager
}

func NewCore(conf *structures.Config, logger providers.Logger, service tracker.ServiceInterface, fileManager *storage.FileManager) *Core {
	return &Core{
		Config:      conf,
		Logger:      logger,
		Service:     service,
		FileManager: fileManager,
	}
}
